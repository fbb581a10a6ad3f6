package confirmation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pelada-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockConfirmationStore struct{ mock.Mock }

func (m *mockConfirmationStore) Put(ctx context.Context, c *domain.Confirmation) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockConfirmationStore) Get(ctx context.Context, sessionID, playerID string) (*domain.Confirmation, error) {
	args := m.Called(ctx, sessionID, playerID)
	if c, _ := args.Get(0).(*domain.Confirmation); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockConfirmationStore) ListBySession(ctx context.Context, sessionID string) ([]domain.Confirmation, error) {
	args := m.Called(ctx, sessionID)
	if c, _ := args.Get(0).([]domain.Confirmation); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPlayerStore struct{ mock.Mock }

func (m *mockPlayerStore) GetByPhone(ctx context.Context, phone string) (*domain.Player, error) {
	args := m.Called(ctx, phone)
	if p, _ := args.Get(0).(*domain.Player); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) ListScheduledFrom(ctx context.Context, floorDate string) ([]domain.GameSession, error) {
	args := m.Called(ctx, floorDate)
	if s, _ := args.Get(0).([]domain.GameSession); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func newSvc(cs *mockConfirmationStore, ps *mockPlayerStore, ss *mockSessionStore, now time.Time) *service {
	return &service{
		confirmations: cs,
		players:       ps,
		sessions:      ss,
		loc:           time.UTC,
		now:           func() time.Time { return now },
	}
}

// --- ParseDecision tests ---

func TestParseDecision(t *testing.T) {
	confirmed := []string{"SIM", "sim", " Sim ", "S", "VOU", "confirmo", "yes"}
	for _, in := range confirmed {
		got, err := ParseDecision(in)
		require.NoError(t, err, "input: %q", in)
		assert.Equal(t, domain.ConfirmationConfirmed, got, "input: %q", in)
	}

	declined := []string{"NÃO", "nao", "N", "não vou", "no"}
	for _, in := range declined {
		got, err := ParseDecision(in)
		require.NoError(t, err, "input: %q", in)
		assert.Equal(t, domain.ConfirmationDeclined, got, "input: %q", in)
	}

	for _, in := range []string{"", "talvez", "sim e nao", "👍"} {
		_, err := ParseDecision(in)
		require.Error(t, err, "input: %q", in)
		assert.True(t, errors.Is(err, domain.ErrBadRequest))
	}
}

// --- RecordResponse tests ---

func TestRecordResponse_LandsOnEarliestAskedSession(t *testing.T) {
	cs, ps, ss := &mockConfirmationStore{}, &mockPlayerStore{}, &mockSessionStore{}
	now := time.Date(2026, 9, 4, 12, 0, 0, 0, time.UTC)

	ps.On("GetByPhone", mock.Anything, "+5511900000001").
		Return(&domain.Player{PlayerID: "p1", Phone: "+5511900000001"}, nil)
	// Returned out of order; the service sorts by date then start time.
	ss.On("ListScheduledFrom", mock.Anything, "2026-09-04").Return([]domain.GameSession{
		{SessionID: "sess-later", Date: "2026-09-06", StartTime: "21:30"},
		{SessionID: "sess-sooner", Date: "2026-09-05", StartTime: "19:00"},
	}, nil)
	// The sooner session has no row (player was never asked); the later one does.
	cs.On("Get", mock.Anything, "sess-sooner", "p1").Return(nil, domain.ErrNotFound)
	cs.On("Get", mock.Anything, "sess-later", "p1").
		Return(domain.NewPendingConfirmation("sess-later", "p1", now), nil)
	cs.On("Put", mock.Anything, mock.AnythingOfType("*domain.Confirmation")).Return(nil)

	conf, err := newSvc(cs, ps, ss, now).RecordResponse(context.Background(), "+5511900000001", "SIM")

	require.NoError(t, err)
	assert.Equal(t, "sess-later", conf.SessionID)
	assert.Equal(t, domain.ConfirmationConfirmed, conf.Status)
	require.NotNil(t, conf.ConfirmedAt)
	assert.Equal(t, now, *conf.ConfirmedAt)
}

func TestRecordResponse_DeclineOverwritesConfirmation(t *testing.T) {
	cs, ps, ss := &mockConfirmationStore{}, &mockPlayerStore{}, &mockSessionStore{}
	now := time.Date(2026, 9, 4, 12, 0, 0, 0, time.UTC)

	existing := domain.NewPendingConfirmation("sess-1", "p1", now.Add(-time.Hour))
	require.NoError(t, existing.Decide(domain.ConfirmationConfirmed, now.Add(-time.Hour)))

	ps.On("GetByPhone", mock.Anything, "+5511900000001").
		Return(&domain.Player{PlayerID: "p1"}, nil)
	ss.On("ListScheduledFrom", mock.Anything, "2026-09-04").Return([]domain.GameSession{
		{SessionID: "sess-1", Date: "2026-09-05", StartTime: "19:00"},
	}, nil)
	cs.On("Get", mock.Anything, "sess-1", "p1").Return(existing, nil)
	cs.On("Put", mock.Anything, mock.AnythingOfType("*domain.Confirmation")).Return(nil)

	conf, err := newSvc(cs, ps, ss, now).RecordResponse(context.Background(), "+5511900000001", "nao")

	require.NoError(t, err)
	assert.Equal(t, domain.ConfirmationDeclined, conf.Status)
	assert.Nil(t, conf.ConfirmedAt)
	require.NotNil(t, conf.DeclinedAt)
}

func TestRecordResponse_UnknownPhone(t *testing.T) {
	cs, ps, ss := &mockConfirmationStore{}, &mockPlayerStore{}, &mockSessionStore{}
	ps.On("GetByPhone", mock.Anything, "+5511999999999").Return(nil, domain.ErrNotFound)

	_, err := newSvc(cs, ps, ss, time.Now()).RecordResponse(context.Background(), "+5511999999999", "SIM")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	ss.AssertNotCalled(t, "ListScheduledFrom", mock.Anything, mock.Anything)
}

func TestRecordResponse_UnrecognisedTextRejectedBeforeLookup(t *testing.T) {
	cs, ps, ss := &mockConfirmationStore{}, &mockPlayerStore{}, &mockSessionStore{}

	_, err := newSvc(cs, ps, ss, time.Now()).RecordResponse(context.Background(), "+5511900000001", "talvez")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	ps.AssertNotCalled(t, "GetByPhone", mock.Anything, mock.Anything)
}

func TestRecordResponse_NoOpenConfirmation(t *testing.T) {
	cs, ps, ss := &mockConfirmationStore{}, &mockPlayerStore{}, &mockSessionStore{}
	now := time.Date(2026, 9, 4, 12, 0, 0, 0, time.UTC)

	ps.On("GetByPhone", mock.Anything, "+5511900000001").
		Return(&domain.Player{PlayerID: "p1"}, nil)
	ss.On("ListScheduledFrom", mock.Anything, "2026-09-04").Return([]domain.GameSession{
		{SessionID: "sess-1", Date: "2026-09-05", StartTime: "19:00"},
	}, nil)
	cs.On("Get", mock.Anything, "sess-1", "p1").Return(nil, domain.ErrNotFound)

	_, err := newSvc(cs, ps, ss, now).RecordResponse(context.Background(), "+5511900000001", "SIM")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	cs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

// --- ResetToPending tests ---

func TestResetToPending(t *testing.T) {
	cs, ps, ss := &mockConfirmationStore{}, &mockPlayerStore{}, &mockSessionStore{}
	now := time.Date(2026, 9, 4, 12, 0, 0, 0, time.UTC)

	decided := domain.NewPendingConfirmation("sess-1", "p1", now.Add(-time.Hour))
	require.NoError(t, decided.Decide(domain.ConfirmationDeclined, now.Add(-time.Hour)))

	cs.On("Get", mock.Anything, "sess-1", "p1").Return(decided, nil)
	cs.On("Put", mock.Anything, mock.AnythingOfType("*domain.Confirmation")).Return(nil)

	conf, err := newSvc(cs, ps, ss, now).ResetToPending(context.Background(), "sess-1", "p1")

	require.NoError(t, err)
	assert.True(t, conf.Pending())
	assert.Nil(t, conf.DeclinedAt)
	assert.Equal(t, now, conf.UpdatedAt)
}

func TestResetToPending_MissingRow(t *testing.T) {
	cs, ps, ss := &mockConfirmationStore{}, &mockPlayerStore{}, &mockSessionStore{}
	cs.On("Get", mock.Anything, "sess-1", "p1").Return(nil, domain.ErrNotFound)

	_, err := newSvc(cs, ps, ss, time.Now()).ResetToPending(context.Background(), "sess-1", "p1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
