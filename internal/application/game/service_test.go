package game

import (
	"context"
	"errors"
	"testing"

	"github.com/pelada-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockGameStore struct{ mock.Mock }

func (m *mockGameStore) Put(ctx context.Context, g *domain.Game) error {
	return m.Called(ctx, g).Error(0)
}
func (m *mockGameStore) Get(ctx context.Context, gameID string) (*domain.Game, error) {
	args := m.Called(ctx, gameID)
	if g, _ := args.Get(0).(*domain.Game); g != nil {
		return g, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockGameStore) Scan(ctx context.Context) ([]domain.Game, error) {
	args := m.Called(ctx)
	if g, _ := args.Get(0).([]domain.Game); g != nil {
		return g, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockGameStore) Update(ctx context.Context, gameID string, updates map[string]interface{}) error {
	return m.Called(ctx, gameID, updates).Error(0)
}
func (m *mockGameStore) SoftDelete(ctx context.Context, gameID string) error {
	return m.Called(ctx, gameID).Error(0)
}

type mockSessionStore struct{ mock.Mock }

func (m *mockSessionStore) Put(ctx context.Context, s *domain.GameSession) error {
	return m.Called(ctx, s).Error(0)
}
func (m *mockSessionStore) Get(ctx context.Context, sessionID string) (*domain.GameSession, error) {
	args := m.Called(ctx, sessionID)
	if s, _ := args.Get(0).(*domain.GameSession); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionStore) ListByGame(ctx context.Context, gameID string) ([]domain.GameSession, error) {
	args := m.Called(ctx, gameID)
	if s, _ := args.Get(0).([]domain.GameSession); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockSessionStore) Update(ctx context.Context, sessionID string, updates map[string]interface{}) error {
	return m.Called(ctx, sessionID, updates).Error(0)
}
func (m *mockSessionStore) SetStatus(ctx context.Context, sessionID, status string) error {
	return m.Called(ctx, sessionID, status).Error(0)
}

func existingGame() *domain.Game {
	return &domain.Game{GameID: "game-1", Name: "Pelada de Sábado", Venue: "Quadra Central", StartTime: "21:30", Enable: 1}
}

func TestCreateGame(t *testing.T) {
	gs, ss := &mockGameStore{}, &mockSessionStore{}
	gs.On("Put", mock.Anything, mock.AnythingOfType("*domain.Game")).Return(nil)

	g, err := NewService(gs, ss).CreateGame(context.Background(), domain.CreateGameRequest{
		Name:      "Pelada de Sábado",
		Venue:     "Quadra Central",
		Weekday:   6, // saturday, per time.Weekday
		StartTime: "21:30",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, g.GameID)
	assert.Equal(t, 1, g.Enable)
}

func TestCreateGame_BadStartTime(t *testing.T) {
	gs, ss := &mockGameStore{}, &mockSessionStore{}

	_, err := NewService(gs, ss).CreateGame(context.Background(), domain.CreateGameRequest{
		Name:      "Pelada",
		Venue:     "Quadra",
		Weekday:   6, // saturday, per time.Weekday
		StartTime: "9pm",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	gs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestCreateSession(t *testing.T) {
	gs, ss := &mockGameStore{}, &mockSessionStore{}
	gs.On("Get", mock.Anything, "game-1").Return(existingGame(), nil)
	ss.On("Put", mock.Anything, mock.AnythingOfType("*domain.GameSession")).Return(nil)

	sess, err := NewService(gs, ss).CreateSession(context.Background(), domain.CreateSessionRequest{
		GameID:    "game-1",
		Date:      "2026-09-05",
		StartTime: "21:30",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, sess.SessionID)
	assert.Equal(t, domain.SessionScheduled, sess.Status, "new sessions start scheduled")
}

func TestCreateSession_UnknownGame(t *testing.T) {
	gs, ss := &mockGameStore{}, &mockSessionStore{}
	gs.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	_, err := NewService(gs, ss).CreateSession(context.Background(), domain.CreateSessionRequest{
		GameID:    "ghost",
		Date:      "2026-09-05",
		StartTime: "21:30",
	})

	require.Error(t, err)
	ss.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestCreateSession_InvalidDateRejected(t *testing.T) {
	gs, ss := &mockGameStore{}, &mockSessionStore{}

	_, err := NewService(gs, ss).CreateSession(context.Background(), domain.CreateSessionRequest{
		GameID:    "game-1",
		Date:      "05/09/2026",
		StartTime: "21:30",
	})

	require.Error(t, err)
	gs.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestCancelSession(t *testing.T) {
	gs, ss := &mockGameStore{}, &mockSessionStore{}
	ss.On("Get", mock.Anything, "sess-1").
		Return(&domain.GameSession{SessionID: "sess-1", Status: domain.SessionScheduled}, nil)
	ss.On("SetStatus", mock.Anything, "sess-1", domain.SessionCancelled).Return(nil)

	err := NewService(gs, ss).CancelSession(context.Background(), "sess-1")

	require.NoError(t, err)
	ss.AssertCalled(t, "SetStatus", mock.Anything, "sess-1", domain.SessionCancelled)
}

func TestUpdateSession_InvalidStatusRejected(t *testing.T) {
	gs, ss := &mockGameStore{}, &mockSessionStore{}
	status := "postponed"

	_, err := NewService(gs, ss).UpdateSession(context.Background(), "sess-1", domain.UpdateSessionRequest{Status: &status})

	require.Error(t, err)
	ss.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}
