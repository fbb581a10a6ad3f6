package player

import (
	"context"
	"time"

	"github.com/pelada-api/internal/domain"
	"github.com/pelada-api/internal/pkg/id"
	"github.com/pelada-api/internal/pkg/validate"
)

// Store is the minimal interface the service requires from a player repository.
type Store interface {
	Put(ctx context.Context, p *domain.Player) error
	Get(ctx context.Context, playerID string) (*domain.Player, error)
	ListActive(ctx context.Context) ([]domain.Player, error)
	Update(ctx context.Context, playerID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, playerID string) error
}

type Service interface {
	Create(ctx context.Context, req domain.CreatePlayerRequest) (*domain.Player, error)
	Get(ctx context.Context, playerID string) (*domain.Player, error)
	List(ctx context.Context) ([]domain.Player, error)
	Update(ctx context.Context, playerID string, req domain.UpdatePlayerRequest) (*domain.Player, error)
	Delete(ctx context.Context, playerID string) error
}

type service struct {
	repo Store
}

func NewService(repo Store) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req domain.CreatePlayerRequest) (*domain.Player, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &domain.Player{
		PlayerID:    id.New(),
		Name:        req.Name,
		Phone:       req.Phone,
		Category:    req.Category,
		SMSFallback: req.SMSFallback,
		Enable:      1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, playerID string) (*domain.Player, error) {
	return s.repo.Get(ctx, playerID)
}

func (s *service) List(ctx context.Context) ([]domain.Player, error) {
	return s.repo.ListActive(ctx)
}

func (s *service) Update(ctx context.Context, playerID string, req domain.UpdatePlayerRequest) (*domain.Player, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.SMSFallback != nil {
		updates["sms_fallback"] = *req.SMSFallback
	}
	if req.Enable != nil {
		updates["enable"] = *req.Enable
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, playerID, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, playerID)
}

func (s *service) Delete(ctx context.Context, playerID string) error {
	if _, err := s.repo.Get(ctx, playerID); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, playerID)
}
