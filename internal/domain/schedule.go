package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Reminder audience targets, stored as-is in the persisted schedule JSON.
const (
	TargetTodos       = "todos"
	TargetMensalistas = "mensalistas"
)

// Reminder message kinds.
const (
	MessageConfirmation      = "confirmation"
	MessageReminder          = "reminder"
	MessageFinalConfirmation = "final_confirmation"
)

// ReminderRule is one entry in a notification configuration's schedule.
// Number is unique within a configuration and, together with the session id,
// forms the idempotency key for delivery. HoursBefore is a fractional-hour
// offset before session start; values well below one minute (0.005 h ≈ 18 s)
// are legitimate and must not be truncated.
type ReminderRule struct {
	Number      int     `json:"number" validate:"required,min=1"`
	HoursBefore float64 `json:"hours_before" validate:"min=0"`
	Target      string  `json:"target" validate:"required,oneof=mensalistas todos"`
	MessageType string  `json:"message_type" validate:"required,oneof=confirmation reminder final_confirmation"`
}

// FireTime computes the instant the rule becomes due for a session starting
// at start. HoursBefore of 0 means "at session start".
func (r ReminderRule) FireTime(start time.Time) time.Time {
	return start.Add(-time.Duration(r.HoursBefore * float64(time.Hour)))
}

// Schedule is the ordered list of reminder rules of one configuration.
type Schedule []ReminderRule

// Validate checks every rule's enum values and offset plus the cross-rule
// invariant that rule numbers are unique within the schedule. Invalid
// schedules are rejected here, at write time, never at dispatch time.
func (s Schedule) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("schedule must contain at least one rule: %w", ErrBadRequest)
	}
	seen := make(map[int]bool, len(s))
	for _, rule := range s {
		if rule.Number < 1 {
			return fmt.Errorf("rule number must be >= 1, got %d: %w", rule.Number, ErrBadRequest)
		}
		if seen[rule.Number] {
			return fmt.Errorf("duplicate rule number %d: %w", rule.Number, ErrBadRequest)
		}
		seen[rule.Number] = true
		if rule.HoursBefore < 0 {
			return fmt.Errorf("rule %d: hours_before must be >= 0, got %v: %w", rule.Number, rule.HoursBefore, ErrBadRequest)
		}
		switch rule.Target {
		case TargetTodos, TargetMensalistas:
		default:
			return fmt.Errorf("rule %d: unknown target %q: %w", rule.Number, rule.Target, ErrBadRequest)
		}
		switch rule.MessageType {
		case MessageConfirmation, MessageReminder, MessageFinalConfirmation:
		default:
			return fmt.Errorf("rule %d: unknown message_type %q: %w", rule.Number, rule.MessageType, ErrBadRequest)
		}
	}
	return nil
}

// ParseSchedule decodes the persisted schedule JSON. It is strict about the
// document shape but leaves enum/offset validation to Validate so read and
// write paths report the same errors.
func ParseSchedule(raw string) (Schedule, error) {
	var s Schedule
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("malformed schedule json: %v: %w", err, ErrBadRequest)
	}
	return s, nil
}

// NotificationConfig attaches a reminder schedule to a game session.
// ScheduleJSON is the persisted representation; Schedule is the parsed form
// populated at the repository boundary and never stored.
type NotificationConfig struct {
	ConfigID     string    `json:"id" dynamodbav:"config_id"`
	SessionID    string    `json:"session_id" dynamodbav:"session_id"`
	Active       bool      `json:"active" dynamodbav:"active"`
	ScheduleJSON string    `json:"-" dynamodbav:"schedule"`
	Schedule     Schedule  `json:"schedule" dynamodbav:"-"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

type PutNotificationConfigRequest struct {
	Active   bool     `json:"active"`
	Schedule Schedule `json:"schedule" validate:"required"`
}
