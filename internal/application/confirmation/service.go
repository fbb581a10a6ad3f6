// Package confirmation handles inbound participant responses and the
// administrative operations on the per-(session, player) state machine.
package confirmation

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pelada-api/internal/domain"
)

// ConfirmationStore is the minimal interface the service requires from the
// confirmations repository.
type ConfirmationStore interface {
	Put(ctx context.Context, c *domain.Confirmation) error
	Get(ctx context.Context, sessionID, playerID string) (*domain.Confirmation, error)
	ListBySession(ctx context.Context, sessionID string) ([]domain.Confirmation, error)
}

// PlayerStore maps an inbound phone to a player.
type PlayerStore interface {
	GetByPhone(ctx context.Context, phone string) (*domain.Player, error)
}

// SessionStore finds the upcoming sessions a response can apply to.
type SessionStore interface {
	ListScheduledFrom(ctx context.Context, floorDate string) ([]domain.GameSession, error)
}

type Service interface {
	// RecordResponse maps an inbound WhatsApp message to a confirm/decline
	// decision for the sender's earliest upcoming session that has a
	// confirmation row. Unrecognised text returns ErrBadRequest.
	RecordResponse(ctx context.Context, phone, text string) (*domain.Confirmation, error)
	List(ctx context.Context, sessionID string) ([]domain.Confirmation, error)
	// ResetToPending is administrative: a reset player is targeted again by
	// later pending-only reminders.
	ResetToPending(ctx context.Context, sessionID, playerID string) (*domain.Confirmation, error)
}

type service struct {
	confirmations ConfirmationStore
	players       PlayerStore
	sessions      SessionStore
	loc           *time.Location
	now           func() time.Time
}

func NewService(confirmations ConfirmationStore, players PlayerStore, sessions SessionStore, loc *time.Location) Service {
	return &service{
		confirmations: confirmations,
		players:       players,
		sessions:      sessions,
		loc:           loc,
		now:           time.Now,
	}
}

// ParseDecision normalises a free-form reply into a confirmation decision.
// Returns ErrBadRequest for anything it does not recognise.
func ParseDecision(text string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "SIM", "S", "VOU", "CONFIRMO", "YES":
		return domain.ConfirmationConfirmed, nil
	case "NÃO", "NAO", "N", "NÃO VOU", "NAO VOU", "NO":
		return domain.ConfirmationDeclined, nil
	default:
		return "", fmt.Errorf("unrecognised response %q: %w", text, domain.ErrBadRequest)
	}
}

func (s *service) RecordResponse(ctx context.Context, phone, text string) (*domain.Confirmation, error) {
	decision, err := ParseDecision(text)
	if err != nil {
		return nil, err
	}
	p, err := s.players.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	now := s.now()
	floor := now.In(s.loc).Format(domain.DateLayout)
	sessions, err := s.sessions.ListScheduledFrom(ctx, floor)
	if err != nil {
		return nil, err
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].Date != sessions[j].Date {
			return sessions[i].Date < sessions[j].Date
		}
		return sessions[i].StartTime < sessions[j].StartTime
	})

	// The response lands on the earliest upcoming session the player was
	// asked about (i.e. one with an existing confirmation row).
	for i := range sessions {
		conf, err := s.confirmations.Get(ctx, sessions[i].SessionID, p.PlayerID)
		if err != nil {
			continue
		}
		if err := conf.Decide(decision, now); err != nil {
			return nil, err
		}
		if err := s.confirmations.Put(ctx, conf); err != nil {
			return nil, err
		}
		return conf, nil
	}
	return nil, fmt.Errorf("no open confirmation for player %s: %w", p.PlayerID, domain.ErrNotFound)
}

func (s *service) List(ctx context.Context, sessionID string) ([]domain.Confirmation, error) {
	return s.confirmations.ListBySession(ctx, sessionID)
}

func (s *service) ResetToPending(ctx context.Context, sessionID, playerID string) (*domain.Confirmation, error) {
	conf, err := s.confirmations.Get(ctx, sessionID, playerID)
	if err != nil {
		return nil, err
	}
	conf.ResetToPending(s.now())
	if err := s.confirmations.Put(ctx, conf); err != nil {
		return nil, err
	}
	return conf, nil
}
