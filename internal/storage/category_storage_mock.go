package storage

import (
	"context"

	"github.com/agamariel/mastermarket/internal/models"
	"github.com/google/uuid"
)

// MockCategoryStorage - мок для тестирования (экспортируемый для использования в других пакетах)
type MockCategoryStorage struct {
	CreateFunc     func(ctx context.Context, category *models.Category) error
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListActiveFunc func(ctx context.Context) ([]*models.Category, error)
}

func (m *MockCategoryStorage) Create(ctx context.Context, category *models.Category) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, category)
	}
	return nil
}

func (m *MockCategoryStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrCategoryNotFound
}

func (m *MockCategoryStorage) ListActive(ctx context.Context) ([]*models.Category, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return []*models.Category{}, nil
}
