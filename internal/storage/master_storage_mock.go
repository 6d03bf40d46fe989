package storage

import (
	"context"

	"github.com/agamariel/mastermarket/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MockMasterStorage - мок для тестирования (экспортируемый для использования в других пакетах)
type MockMasterStorage struct {
	CreateFunc                 func(ctx context.Context, master *models.Master) error
	GetByIDFunc                func(ctx context.Context, id uuid.UUID) (*models.Master, error)
	GetByUserIDFunc            func(ctx context.Context, userID uuid.UUID) (*models.Master, error)
	UpdateFunc                 func(ctx context.Context, master *models.Master) error
	ListFunc                   func(ctx context.Context, filter models.MasterFilter) ([]*models.Master, error)
	IncrementTotalOrdersTxFunc func(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	RecomputeRatingFunc        func(ctx context.Context, id uuid.UUID) error
	RecomputeRatingTxFunc      func(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

func (m *MockMasterStorage) Create(ctx context.Context, master *models.Master) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, master)
	}
	return nil
}

func (m *MockMasterStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Master, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrMasterNotFound
}

func (m *MockMasterStorage) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Master, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, ErrMasterNotFound
}

func (m *MockMasterStorage) Update(ctx context.Context, master *models.Master) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, master)
	}
	return nil
}

func (m *MockMasterStorage) List(ctx context.Context, filter models.MasterFilter) ([]*models.Master, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*models.Master{}, nil
}

func (m *MockMasterStorage) IncrementTotalOrdersTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	if m.IncrementTotalOrdersTxFunc != nil {
		return m.IncrementTotalOrdersTxFunc(ctx, tx, id)
	}
	return nil
}

func (m *MockMasterStorage) RecomputeRating(ctx context.Context, id uuid.UUID) error {
	if m.RecomputeRatingFunc != nil {
		return m.RecomputeRatingFunc(ctx, id)
	}
	return nil
}

func (m *MockMasterStorage) RecomputeRatingTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	if m.RecomputeRatingTxFunc != nil {
		return m.RecomputeRatingTxFunc(ctx, tx, id)
	}
	return nil
}
