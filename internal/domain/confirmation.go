package domain

import (
	"fmt"
	"time"
)

// Confirmation statuses for a (session, player) pair.
const (
	ConfirmationPending   = "pending"
	ConfirmationConfirmed = "confirmed"
	ConfirmationDeclined  = "declined"
)

// Confirmation tracks one player's attendance answer for one session.
// Invariant: exactly one of ConfirmedAt/DeclinedAt is set when the status is
// confirmed/declined, and neither is set while pending.
type Confirmation struct {
	SessionID   string     `json:"session_id" dynamodbav:"session_id"`
	PlayerID    string     `json:"player_id" dynamodbav:"player_id"`
	Status      string     `json:"status" dynamodbav:"status"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty" dynamodbav:"confirmed_at"`
	DeclinedAt  *time.Time `json:"declined_at,omitempty" dynamodbav:"declined_at"`
	CreatedAt   time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// NewPendingConfirmation creates the initial pending row for a player.
func NewPendingConfirmation(sessionID, playerID string, now time.Time) *Confirmation {
	return &Confirmation{
		SessionID: sessionID,
		PlayerID:  playerID,
		Status:    ConfirmationPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Decide records a confirmed/declined answer, keeping the timestamp invariant.
// Re-deciding an already decided confirmation overwrites the previous answer;
// whether that is allowed (participant retry vs administrative override) is a
// service-layer concern.
func (c *Confirmation) Decide(status string, now time.Time) error {
	switch status {
	case ConfirmationConfirmed:
		c.Status = ConfirmationConfirmed
		c.ConfirmedAt = &now
		c.DeclinedAt = nil
	case ConfirmationDeclined:
		c.Status = ConfirmationDeclined
		c.DeclinedAt = &now
		c.ConfirmedAt = nil
	default:
		return fmt.Errorf("invalid confirmation decision %q: %w", status, ErrBadRequest)
	}
	c.UpdatedAt = now
	return nil
}

// ResetToPending clears a decided confirmation back to pending. Administrative
// operation only, not part of the normal response flow.
func (c *Confirmation) ResetToPending(now time.Time) {
	c.Status = ConfirmationPending
	c.ConfirmedAt = nil
	c.DeclinedAt = nil
	c.UpdatedAt = now
}

// Pending reports whether the player has not answered yet.
func (c *Confirmation) Pending() bool {
	return c.Status == ConfirmationPending
}
