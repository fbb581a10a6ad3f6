package domain

import "time"

// SentReminder is the idempotency fact that a (session, rule number) reminder
// has been dispatched. At most one record ever exists per pair; the engine
// never deletes them (administrative tooling may, to force a re-send).
type SentReminder struct {
	SessionID  string    `json:"session_id" dynamodbav:"session_id"`
	RuleNumber int       `json:"rule_number" dynamodbav:"rule_number"`
	SentAt     time.Time `json:"sent_at" dynamodbav:"sent_at"`
}
