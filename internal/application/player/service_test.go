package player

import (
	"context"
	"testing"

	"github.com/pelada-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Put(ctx context.Context, p *domain.Player) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockStore) Get(ctx context.Context, playerID string) (*domain.Player, error) {
	args := m.Called(ctx, playerID)
	if p, _ := args.Get(0).(*domain.Player); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) ListActive(ctx context.Context) ([]domain.Player, error) {
	args := m.Called(ctx)
	if p, _ := args.Get(0).([]domain.Player); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) Update(ctx context.Context, playerID string, updates map[string]interface{}) error {
	return m.Called(ctx, playerID, updates).Error(0)
}
func (m *mockStore) SoftDelete(ctx context.Context, playerID string) error {
	return m.Called(ctx, playerID).Error(0)
}

func TestCreate_Defaults(t *testing.T) {
	repo := &mockStore{}
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.Player")).Return(nil)

	p, err := NewService(repo).Create(context.Background(), domain.CreatePlayerRequest{
		Name:     "João",
		Phone:    "+5511900000001",
		Category: domain.CategoryMensalista,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, p.PlayerID)
	assert.Equal(t, 1, p.Enable, "new players start active")
	assert.False(t, p.SMSFallback)
}

func TestCreate_ValidationFailureSkipsStore(t *testing.T) {
	repo := &mockStore{}

	_, err := NewService(repo).Create(context.Background(), domain.CreatePlayerRequest{
		Name: "João", // no phone, no category
	})

	require.Error(t, err)
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestUpdate_PartialFields(t *testing.T) {
	repo := &mockStore{}
	repo.On("Update", mock.Anything, "p1", map[string]interface{}{"phone": "+5511911111111"}).Return(nil)
	repo.On("Get", mock.Anything, "p1").
		Return(&domain.Player{PlayerID: "p1", Phone: "+5511911111111"}, nil)

	phone := "+5511911111111"
	p, err := NewService(repo).Update(context.Background(), "p1", domain.UpdatePlayerRequest{Phone: &phone})

	require.NoError(t, err)
	assert.Equal(t, "+5511911111111", p.Phone)
}

func TestUpdate_NoFieldsIsReadOnly(t *testing.T) {
	repo := &mockStore{}
	repo.On("Get", mock.Anything, "p1").Return(&domain.Player{PlayerID: "p1"}, nil)

	_, err := NewService(repo).Update(context.Background(), "p1", domain.UpdatePlayerRequest{})

	require.NoError(t, err)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestDelete_MissingPlayer(t *testing.T) {
	repo := &mockStore{}
	repo.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	err := NewService(repo).Delete(context.Background(), "ghost")

	require.Error(t, err)
	repo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}
