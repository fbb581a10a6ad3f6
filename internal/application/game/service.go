package game

import (
	"context"
	"fmt"
	"time"

	"github.com/pelada-api/internal/domain"
	"github.com/pelada-api/internal/pkg/id"
	"github.com/pelada-api/internal/pkg/validate"
)

// GameStore is the minimal interface the service requires from a game repository.
type GameStore interface {
	Put(ctx context.Context, g *domain.Game) error
	Get(ctx context.Context, gameID string) (*domain.Game, error)
	Scan(ctx context.Context) ([]domain.Game, error)
	Update(ctx context.Context, gameID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, gameID string) error
}

// SessionStore is the minimal interface the service requires from a session repository.
type SessionStore interface {
	Put(ctx context.Context, s *domain.GameSession) error
	Get(ctx context.Context, sessionID string) (*domain.GameSession, error)
	ListByGame(ctx context.Context, gameID string) ([]domain.GameSession, error)
	Update(ctx context.Context, sessionID string, updates map[string]interface{}) error
	SetStatus(ctx context.Context, sessionID, status string) error
}

type Service interface {
	CreateGame(ctx context.Context, req domain.CreateGameRequest) (*domain.Game, error)
	GetGame(ctx context.Context, gameID string) (*domain.Game, error)
	ListGames(ctx context.Context) ([]domain.Game, error)
	UpdateGame(ctx context.Context, gameID string, req domain.UpdateGameRequest) (*domain.Game, error)
	DeleteGame(ctx context.Context, gameID string) error

	CreateSession(ctx context.Context, req domain.CreateSessionRequest) (*domain.GameSession, error)
	GetSession(ctx context.Context, sessionID string) (*domain.GameSession, error)
	ListSessions(ctx context.Context, gameID string) ([]domain.GameSession, error)
	UpdateSession(ctx context.Context, sessionID string, req domain.UpdateSessionRequest) (*domain.GameSession, error)
	CancelSession(ctx context.Context, sessionID string) error
}

type service struct {
	games    GameStore
	sessions SessionStore
}

func NewService(games GameStore, sessions SessionStore) Service {
	return &service{games: games, sessions: sessions}
}

func (s *service) CreateGame(ctx context.Context, req domain.CreateGameRequest) (*domain.Game, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := time.Parse(domain.StartTimeLayout, req.StartTime); err != nil {
		return nil, fmt.Errorf("invalid start_time %q: %w", req.StartTime, domain.ErrBadRequest)
	}
	now := time.Now().UTC()
	g := &domain.Game{
		GameID:          id.New(),
		Name:            req.Name,
		Venue:           req.Venue,
		Weekday:         req.Weekday,
		StartTime:       req.StartTime,
		WhatsAppGroupID: req.WhatsAppGroupID,
		NotifyGroup:     req.NotifyGroup,
		Enable:          1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.games.Put(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *service) GetGame(ctx context.Context, gameID string) (*domain.Game, error) {
	return s.games.Get(ctx, gameID)
}

func (s *service) ListGames(ctx context.Context) ([]domain.Game, error) {
	return s.games.Scan(ctx)
}

func (s *service) UpdateGame(ctx context.Context, gameID string, req domain.UpdateGameRequest) (*domain.Game, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Venue != nil {
		updates["venue"] = *req.Venue
	}
	if req.Weekday != nil {
		updates["weekday"] = *req.Weekday
	}
	if req.StartTime != nil {
		if _, err := time.Parse(domain.StartTimeLayout, *req.StartTime); err != nil {
			return nil, fmt.Errorf("invalid start_time %q: %w", *req.StartTime, domain.ErrBadRequest)
		}
		updates["start_time"] = *req.StartTime
	}
	if req.WhatsAppGroupID != nil {
		updates["whatsapp_group_id"] = *req.WhatsAppGroupID
	}
	if req.NotifyGroup != nil {
		updates["notify_group"] = *req.NotifyGroup
	}
	if req.Enable != nil {
		updates["enable"] = *req.Enable
	}
	if len(updates) > 0 {
		if err := s.games.Update(ctx, gameID, updates); err != nil {
			return nil, err
		}
	}
	return s.games.Get(ctx, gameID)
}

func (s *service) DeleteGame(ctx context.Context, gameID string) error {
	if _, err := s.games.Get(ctx, gameID); err != nil {
		return err
	}
	return s.games.SoftDelete(ctx, gameID)
}

func (s *service) CreateSession(ctx context.Context, req domain.CreateSessionRequest) (*domain.GameSession, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.games.Get(ctx, req.GameID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sess := &domain.GameSession{
		SessionID: id.New(),
		GameID:    req.GameID,
		Date:      req.Date,
		StartTime: req.StartTime,
		Status:    domain.SessionScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *service) GetSession(ctx context.Context, sessionID string) (*domain.GameSession, error) {
	return s.sessions.Get(ctx, sessionID)
}

func (s *service) ListSessions(ctx context.Context, gameID string) ([]domain.GameSession, error) {
	return s.sessions.ListByGame(ctx, gameID)
}

func (s *service) UpdateSession(ctx context.Context, sessionID string, req domain.UpdateSessionRequest) (*domain.GameSession, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.StartTime != nil {
		updates["start_time"] = *req.StartTime
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) > 0 {
		if err := s.sessions.Update(ctx, sessionID, updates); err != nil {
			return nil, err
		}
	}
	return s.sessions.Get(ctx, sessionID)
}

func (s *service) CancelSession(ctx context.Context, sessionID string) error {
	if _, err := s.sessions.Get(ctx, sessionID); err != nil {
		return err
	}
	return s.sessions.SetStatus(ctx, sessionID, domain.SessionCancelled)
}
