package schedule

import (
	"context"
	"errors"
	"testing"

	"github.com/pelada-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockConfigStore struct{ mock.Mock }

func (m *mockConfigStore) Put(ctx context.Context, c *domain.NotificationConfig) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockConfigStore) GetBySession(ctx context.Context, sessionID string) (*domain.NotificationConfig, error) {
	args := m.Called(ctx, sessionID)
	if c, _ := args.Get(0).(*domain.NotificationConfig); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockConfigStore) Update(ctx context.Context, configID string, updates map[string]interface{}) error {
	return m.Called(ctx, configID, updates).Error(0)
}

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) Get(ctx context.Context, sessionID string) (*domain.GameSession, error) {
	args := m.Called(ctx, sessionID)
	if s, _ := args.Get(0).(*domain.GameSession); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSentStore struct{ mock.Mock }

func (m *mockSentStore) Delete(ctx context.Context, sessionID string, ruleNumber int) error {
	return m.Called(ctx, sessionID, ruleNumber).Error(0)
}

// --- helpers ---

func validRequest() domain.PutNotificationConfigRequest {
	return domain.PutNotificationConfigRequest{
		Active: true,
		Schedule: domain.Schedule{
			{Number: 1, HoursBefore: 24, Target: domain.TargetMensalistas, MessageType: domain.MessageConfirmation},
			{Number: 2, HoursBefore: 0.5, Target: domain.TargetTodos, MessageType: domain.MessageFinalConfirmation},
		},
	}
}

func scheduledSession() *domain.GameSession {
	return &domain.GameSession{SessionID: "sess-1", GameID: "game-1", Date: "2026-09-05", StartTime: "21:30", Status: domain.SessionScheduled}
}

// --- PutForSession tests ---

func TestPutForSession_CreatesWhenMissing(t *testing.T) {
	cs, ss, sent := &mockConfigStore{}, &mockSessionStore{}, &mockSentStore{}
	ss.On("Get", mock.Anything, "sess-1").Return(scheduledSession(), nil)
	cs.On("GetBySession", mock.Anything, "sess-1").Return(nil, domain.ErrNotFound)
	cs.On("Put", mock.Anything, mock.AnythingOfType("*domain.NotificationConfig")).Return(nil)

	cfg, err := NewService(cs, ss, sent).PutForSession(context.Background(), "sess-1", validRequest())

	require.NoError(t, err)
	assert.NotEmpty(t, cfg.ConfigID)
	assert.Equal(t, "sess-1", cfg.SessionID)
	assert.True(t, cfg.Active)
	assert.JSONEq(t, `[
		{"number": 1, "hours_before": 24, "target": "mensalistas", "message_type": "confirmation"},
		{"number": 2, "hours_before": 0.5, "target": "todos", "message_type": "final_confirmation"}
	]`, cfg.ScheduleJSON)
}

func TestPutForSession_UpdatesExisting(t *testing.T) {
	cs, ss, sent := &mockConfigStore{}, &mockSessionStore{}, &mockSentStore{}
	ss.On("Get", mock.Anything, "sess-1").Return(scheduledSession(), nil)
	cs.On("GetBySession", mock.Anything, "sess-1").
		Return(&domain.NotificationConfig{ConfigID: "cfg-1", SessionID: "sess-1"}, nil)
	cs.On("Update", mock.Anything, "cfg-1", mock.Anything).Return(nil)

	cfg, err := NewService(cs, ss, sent).PutForSession(context.Background(), "sess-1", validRequest())

	require.NoError(t, err)
	assert.Equal(t, "cfg-1", cfg.ConfigID)
	cs.AssertCalled(t, "Update", mock.Anything, "cfg-1", mock.Anything)
	cs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestPutForSession_InvalidScheduleNeverReachesStore(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.PutNotificationConfigRequest)
	}{
		{"duplicate rule numbers", func(r *domain.PutNotificationConfigRequest) {
			r.Schedule[1].Number = r.Schedule[0].Number
		}},
		{"negative offset", func(r *domain.PutNotificationConfigRequest) {
			r.Schedule[0].HoursBefore = -2
		}},
		{"unknown target", func(r *domain.PutNotificationConfigRequest) {
			r.Schedule[0].Target = "titulares"
		}},
		{"unknown message type", func(r *domain.PutNotificationConfigRequest) {
			r.Schedule[0].MessageType = "ping"
		}},
		{"empty schedule", func(r *domain.PutNotificationConfigRequest) {
			r.Schedule = nil
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cs, ss, sent := &mockConfigStore{}, &mockSessionStore{}, &mockSentStore{}
			req := validRequest()
			c.mutate(&req)

			_, err := NewService(cs, ss, sent).PutForSession(context.Background(), "sess-1", req)

			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrBadRequest))
			cs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
			cs.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestPutForSession_UnknownSession(t *testing.T) {
	cs, ss, sent := &mockConfigStore{}, &mockSessionStore{}, &mockSentStore{}
	ss.On("Get", mock.Anything, "sess-missing").Return(nil, domain.ErrNotFound)

	_, err := NewService(cs, ss, sent).PutForSession(context.Background(), "sess-missing", validRequest())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// --- GetBySession tests ---

func TestGetBySession_ParsesStoredSchedule(t *testing.T) {
	cs, ss, sent := &mockConfigStore{}, &mockSessionStore{}, &mockSentStore{}
	cs.On("GetBySession", mock.Anything, "sess-1").Return(&domain.NotificationConfig{
		ConfigID:     "cfg-1",
		SessionID:    "sess-1",
		Active:       true,
		ScheduleJSON: `[{"number": 1, "hours_before": 2.5, "target": "todos", "message_type": "reminder"}]`,
	}, nil)

	cfg, err := NewService(cs, ss, sent).GetBySession(context.Background(), "sess-1")

	require.NoError(t, err)
	require.Len(t, cfg.Schedule, 1)
	assert.Equal(t, 2.5, cfg.Schedule[0].HoursBefore)
}

func TestGetBySession_MalformedStoredSchedule(t *testing.T) {
	cs, ss, sent := &mockConfigStore{}, &mockSessionStore{}, &mockSentStore{}
	cs.On("GetBySession", mock.Anything, "sess-1").Return(&domain.NotificationConfig{
		ConfigID:     "cfg-1",
		ScheduleJSON: `{{{`,
	}, nil)

	_, err := NewService(cs, ss, sent).GetBySession(context.Background(), "sess-1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

// --- ClearSent tests ---

func TestClearSent(t *testing.T) {
	cs, ss, sent := &mockConfigStore{}, &mockSessionStore{}, &mockSentStore{}
	ss.On("Get", mock.Anything, "sess-1").Return(scheduledSession(), nil)
	sent.On("Delete", mock.Anything, "sess-1", 2).Return(nil)

	err := NewService(cs, ss, sent).ClearSent(context.Background(), "sess-1", 2)

	require.NoError(t, err)
	sent.AssertCalled(t, "Delete", mock.Anything, "sess-1", 2)
}

func TestClearSent_UnknownSession(t *testing.T) {
	cs, ss, sent := &mockConfigStore{}, &mockSessionStore{}, &mockSentStore{}
	ss.On("Get", mock.Anything, "sess-missing").Return(nil, domain.ErrNotFound)

	err := NewService(cs, ss, sent).ClearSent(context.Background(), "sess-missing", 1)

	require.Error(t, err)
	sent.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
