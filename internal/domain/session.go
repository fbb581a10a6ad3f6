package domain

import (
	"fmt"
	"time"
)

// GameSession lifecycle statuses.
const (
	SessionScheduled = "scheduled"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
)

const (
	DateLayout      = "2006-01-02"
	StartTimeLayout = "15:04"
)

// GameSession is one concrete occurrence of a Game on a calendar date.
type GameSession struct {
	SessionID string    `json:"id" dynamodbav:"session_id"`
	GameID    string    `json:"game_id" dynamodbav:"game_id"`
	Date      string    `json:"date" dynamodbav:"date"`             // "YYYY-MM-DD"
	StartTime string    `json:"start_time" dynamodbav:"start_time"` // "HH:MM" local wall clock
	Status    string    `json:"status" dynamodbav:"status"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

// StartsAt combines the session's date and wall-clock start time in loc.
func (s *GameSession) StartsAt(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+StartTimeLayout, s.Date+" "+s.StartTime, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("session %s has invalid start instant: %w", s.SessionID, err)
	}
	return t, nil
}

type CreateSessionRequest struct {
	GameID    string `json:"game_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
}

type UpdateSessionRequest struct {
	Date      *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime *string `json:"start_time" validate:"omitempty,datetime=15:04"`
	Status    *string `json:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
}
