package storage

import (
	"context"

	"github.com/agamariel/mastermarket/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MockReviewStorage - мок для тестирования (экспортируемый для использования в других пакетах)
type MockReviewStorage struct {
	CreateTxFunc       func(ctx context.Context, tx pgx.Tx, review *models.Review) error
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*models.Review, error)
	GetByOrderIDFunc   func(ctx context.Context, orderID uuid.UUID) (*models.Review, error)
	UpdateTxFunc       func(ctx context.Context, tx pgx.Tx, id uuid.UUID, rating int, comment string) error
	DeleteTxFunc       func(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	ListFunc           func(ctx context.Context, filter models.ReviewFilter) ([]*models.Review, error)
	StatsForMasterFunc func(ctx context.Context, masterID uuid.UUID) (*models.MasterReviewStats, error)
}

func (m *MockReviewStorage) CreateTx(ctx context.Context, tx pgx.Tx, review *models.Review) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, review)
	}
	return nil
}

func (m *MockReviewStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrReviewNotFound
}

func (m *MockReviewStorage) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Review, error) {
	if m.GetByOrderIDFunc != nil {
		return m.GetByOrderIDFunc(ctx, orderID)
	}
	return nil, ErrReviewNotFound
}

func (m *MockReviewStorage) UpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, rating int, comment string) error {
	if m.UpdateTxFunc != nil {
		return m.UpdateTxFunc(ctx, tx, id, rating, comment)
	}
	return nil
}

func (m *MockReviewStorage) DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	if m.DeleteTxFunc != nil {
		return m.DeleteTxFunc(ctx, tx, id)
	}
	return nil
}

func (m *MockReviewStorage) List(ctx context.Context, filter models.ReviewFilter) ([]*models.Review, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*models.Review{}, nil
}

func (m *MockReviewStorage) StatsForMaster(ctx context.Context, masterID uuid.UUID) (*models.MasterReviewStats, error) {
	if m.StatsForMasterFunc != nil {
		return m.StatsForMasterFunc(ctx, masterID)
	}
	return &models.MasterReviewStats{MasterID: masterID}, nil
}
