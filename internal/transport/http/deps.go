package http

import (
	"time"

	s3infra "github.com/pelada-api/internal/infrastructure/s3"
	"github.com/pelada-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/pelada-api/internal/infrastructure/jwt"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	PlayerRepo       *dynamo.PlayerRepo
	GameRepo         *dynamo.GameRepo
	SessionRepo      *dynamo.SessionRepo
	ConfigRepo       *dynamo.ConfigRepo
	SentRepo         *dynamo.SentRepo
	ConfirmationRepo *dynamo.ConfirmationRepo
	UserRepo         *dynamo.UserRepo
	S3Store          *s3infra.Store
	JWTProvider      *jwtinfra.Provider
	Location         *time.Location
	WebhookSecret    string
}
