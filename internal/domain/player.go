package domain

import "time"

// Player categories. "mensalista" pays the monthly fee and is part of the
// fixed roster; "avulso" only shows up when invited.
const (
	CategoryMensalista = "mensalista"
	CategoryAvulso     = "avulso"
)

type Player struct {
	PlayerID    string     `json:"id" dynamodbav:"player_id"`
	Name        string     `json:"name" dynamodbav:"name"`
	Phone       string     `json:"phone" dynamodbav:"phone"`
	Category    string     `json:"category" dynamodbav:"category"`
	SMSFallback bool       `json:"sms_fallback" dynamodbav:"sms_fallback"`
	Enable      int        `json:"enable" dynamodbav:"enable"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" dynamodbav:"deleted_at"`
	CreatedAt   time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time  `json:"updated" dynamodbav:"updated_at"`
}

type CreatePlayerRequest struct {
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Category    string `json:"category" validate:"required,oneof=mensalista avulso"`
	SMSFallback bool   `json:"sms_fallback"`
}

type UpdatePlayerRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Category    *string `json:"category" validate:"omitempty,oneof=mensalista avulso"`
	SMSFallback *bool   `json:"sms_fallback"`
	Enable      *int    `json:"enable"` // 1 = enabled, 0 = disabled
}
