package storage

import (
	"context"

	"github.com/agamariel/mastermarket/internal/models"
	"github.com/google/uuid"
)

// MockServiceStorage - мок для тестирования (экспортируемый для использования в других пакетах)
type MockServiceStorage struct {
	CreateFunc             func(ctx context.Context, service *models.Service) error
	GetByIDFunc            func(ctx context.Context, id uuid.UUID) (*models.Service, error)
	GetActiveForMasterFunc func(ctx context.Context, id, masterID uuid.UUID) (*models.Service, error)
	UpdateFunc             func(ctx context.Context, service *models.Service) error
	DeactivateFunc         func(ctx context.Context, id uuid.UUID) error
	ListFunc               func(ctx context.Context, filter models.ServiceFilter) ([]*models.Service, error)
}

func (m *MockServiceStorage) Create(ctx context.Context, service *models.Service) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, service)
	}
	return nil
}

func (m *MockServiceStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrServiceNotFound
}

func (m *MockServiceStorage) GetActiveForMaster(ctx context.Context, id, masterID uuid.UUID) (*models.Service, error) {
	if m.GetActiveForMasterFunc != nil {
		return m.GetActiveForMasterFunc(ctx, id, masterID)
	}
	return nil, ErrServiceNotFound
}

func (m *MockServiceStorage) Update(ctx context.Context, service *models.Service) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, service)
	}
	return nil
}

func (m *MockServiceStorage) Deactivate(ctx context.Context, id uuid.UUID) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, id)
	}
	return nil
}

func (m *MockServiceStorage) List(ctx context.Context, filter models.ServiceFilter) ([]*models.Service, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*models.Service{}, nil
}
