// Package schedule owns the write path of notification configurations.
// Invalid schedules are rejected here, before anything is persisted, so the
// reminder engine never sees an unknown target or message type.
package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pelada-api/internal/domain"
	"github.com/pelada-api/internal/pkg/id"
)

// ConfigStore is the minimal interface the service requires from a config repository.
type ConfigStore interface {
	Put(ctx context.Context, c *domain.NotificationConfig) error
	GetBySession(ctx context.Context, sessionID string) (*domain.NotificationConfig, error)
	Update(ctx context.Context, configID string, updates map[string]interface{}) error
}

// SessionStore verifies the target session exists before a config is attached.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*domain.GameSession, error)
}

// SentStore exposes the ledger operations for administrative re-triggering.
type SentStore interface {
	Delete(ctx context.Context, sessionID string, ruleNumber int) error
}

type Service interface {
	GetBySession(ctx context.Context, sessionID string) (*domain.NotificationConfig, error)
	PutForSession(ctx context.Context, sessionID string, req domain.PutNotificationConfigRequest) (*domain.NotificationConfig, error)
	// ClearSent removes the SentReminder for one rule so the engine fires it
	// again on a later tick. This is the documented manual re-delivery path
	// for recipients missed by transport failures.
	ClearSent(ctx context.Context, sessionID string, ruleNumber int) error
}

type service struct {
	configs  ConfigStore
	sessions SessionStore
	sent     SentStore
}

func NewService(configs ConfigStore, sessions SessionStore, sent SentStore) Service {
	return &service{configs: configs, sessions: sessions, sent: sent}
}

func (s *service) GetBySession(ctx context.Context, sessionID string) (*domain.NotificationConfig, error) {
	cfg, err := s.configs.GetBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	schedule, err := domain.ParseSchedule(cfg.ScheduleJSON)
	if err != nil {
		return nil, err
	}
	cfg.Schedule = schedule
	return cfg, nil
}

// PutForSession validates the schedule and creates or replaces the session's
// configuration. Rule numbers must be unique, offsets non-negative and enum
// values known. Rejected requests never reach the store.
func (s *service) PutForSession(ctx context.Context, sessionID string, req domain.PutNotificationConfigRequest) (*domain.NotificationConfig, error) {
	if err := req.Schedule.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.sessions.Get(ctx, sessionID); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(req.Schedule)
	if err != nil {
		return nil, fmt.Errorf("marshal schedule: %w", err)
	}

	now := time.Now().UTC()
	existing, err := s.configs.GetBySession(ctx, sessionID)
	switch {
	case err == nil:
		if err := s.configs.Update(ctx, existing.ConfigID, map[string]interface{}{
			"active":   req.Active,
			"schedule": string(raw),
		}); err != nil {
			return nil, err
		}
		existing.Active = req.Active
		existing.ScheduleJSON = string(raw)
		existing.Schedule = req.Schedule
		existing.UpdatedAt = now
		return existing, nil
	case errors.Is(err, domain.ErrNotFound):
		cfg := &domain.NotificationConfig{
			ConfigID:     id.New(),
			SessionID:    sessionID,
			Active:       req.Active,
			ScheduleJSON: string(raw),
			Schedule:     req.Schedule,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.configs.Put(ctx, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	default:
		return nil, err
	}
}

func (s *service) ClearSent(ctx context.Context, sessionID string, ruleNumber int) error {
	if _, err := s.sessions.Get(ctx, sessionID); err != nil {
		return err
	}
	return s.sent.Delete(ctx, sessionID, ruleNumber)
}
