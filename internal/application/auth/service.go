package auth

import (
	"context"
	"fmt"

	"github.com/pelada-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Bearer string
	User   *domain.User
}

// UserStore is the minimal user lookup the service needs.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// TokenSigner issues bearer tokens for authenticated users.
type TokenSigner interface {
	Sign(userID, role string) (string, error)
}

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
}

type service struct {
	users  UserStore
	signer TokenSigner
}

func NewService(users UserStore, signer TokenSigner) Service {
	return &service{users: users, signer: signer}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	u, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if u.Enable != 1 {
		return nil, fmt.Errorf("account disabled: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	bearer, err := s.signer.Sign(u.UserID, u.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Bearer: bearer, User: u}, nil
}
