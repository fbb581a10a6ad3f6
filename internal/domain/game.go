package domain

import "time"

// Game is the recurring event definition: "futebol de quarta, 20h, quadra X".
// Individual occurrences are GameSessions.
type Game struct {
	GameID          string    `json:"id" dynamodbav:"game_id"`
	Name            string    `json:"name" dynamodbav:"name"`
	Venue           string    `json:"venue" dynamodbav:"venue"`
	Weekday         int       `json:"weekday" dynamodbav:"weekday"` // 0 = Sunday, per time.Weekday
	StartTime       string    `json:"start_time" dynamodbav:"start_time"` // "HH:MM" local wall clock
	WhatsAppGroupID string    `json:"whatsapp_group_id" dynamodbav:"whatsapp_group_id"`
	NotifyGroup     bool      `json:"notify_group" dynamodbav:"notify_group"` // one group message instead of per-player sends
	Enable          int       `json:"enable" dynamodbav:"enable"`
	CreatedAt       time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt       time.Time `json:"updated" dynamodbav:"updated_at"`
}

type CreateGameRequest struct {
	Name            string `json:"name" validate:"required"`
	Venue           string `json:"venue" validate:"required"`
	Weekday         int    `json:"weekday" validate:"min=0,max=6"`
	StartTime       string `json:"start_time" validate:"required"`
	WhatsAppGroupID string `json:"whatsapp_group_id"`
	NotifyGroup     bool   `json:"notify_group"`
}

type UpdateGameRequest struct {
	Name            *string `json:"name"`
	Venue           *string `json:"venue"`
	Weekday         *int    `json:"weekday" validate:"omitempty,min=0,max=6"`
	StartTime       *string `json:"start_time"`
	WhatsAppGroupID *string `json:"whatsapp_group_id"`
	NotifyGroup     *bool   `json:"notify_group"`
	Enable          *int    `json:"enable"`
}
