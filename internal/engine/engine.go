// Package engine implements the reminder scheduling and delivery core: a
// polling reconciliation loop that recomputes due reminders from persisted
// facts each tick, so the engine survives restarts without in-memory timers.
package engine

import (
	"context"
	"time"

	"github.com/pelada-api/internal/domain"
)

// Candidate is one (session, configuration) pair eligible for reminders in
// the current tick, as assembled by the repository collaborator. StartsAt is
// already resolved to an instant and Config.Schedule is already parsed, so
// the resolver stays purely computational.
type Candidate struct {
	Session  *domain.GameSession
	Game     *domain.Game
	Config   *domain.NotificationConfig
	StartsAt time.Time
	Sent     map[int]bool // rule numbers with an existing SentReminder
}

// DueNotification is a reminder rule whose fire time has arrived and which
// has no SentReminder yet. Ephemeral: only its firing is ever persisted.
type DueNotification struct {
	Candidate Candidate
	Rule      domain.ReminderRule
	FireAt    time.Time
}

// Repository is the narrow persistence surface the engine consumes. A single
// engine instance per data store is assumed: ticks never overlap, so
// check-then-act through these methods is safe without distributed locks.
type Repository interface {
	// FetchActiveCandidates returns every active configuration whose session
	// is scheduled for today or later, with schedules parsed and sent rule
	// numbers joined in. Malformed candidates are skipped (and logged), never
	// returned.
	FetchActiveCandidates(ctx context.Context, now time.Time) ([]Candidate, error)
	// MarkSent records the (session, rule number) idempotency fact. Returns
	// domain.ErrConflict if the record already exists.
	MarkSent(ctx context.Context, sessionID string, ruleNumber int, sentAt time.Time) error
	ListActivePlayers(ctx context.Context) ([]domain.Player, error)
	GetConfirmation(ctx context.Context, sessionID, playerID string) (*domain.Confirmation, error)
	// EnsurePending creates the pending confirmation row for the pair if none
	// exists and returns the current row either way.
	EnsurePending(ctx context.Context, sessionID, playerID string, now time.Time) (*domain.Confirmation, error)
}

// Transport is the narrow send capability the engine consumes. Recipient
// handles are opaque: individual phone-based ids or group ids.
type Transport interface {
	SendText(ctx context.Context, to, body string) error
}

// SMSSender is the optional fallback channel used when a WhatsApp send for a
// recipient fails and the player opted into SMS fallback.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}
