package storage

import (
	"context"
	"time"

	"github.com/agamariel/mastermarket/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MockOrderStorage - мок для тестирования (экспортируемый для использования в других пакетах)
type MockOrderStorage struct {
	CreateWithItemsTxFunc func(ctx context.Context, tx pgx.Tx, order *models.Order, items []*models.OrderItem) error
	GetByIDFunc           func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetItemsFunc          func(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error)
	ListFunc              func(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error)
	UpdateStatusTxFunc    func(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to models.OrderStatus, completedDate *time.Time) error
	StatsForMasterFunc    func(ctx context.Context, masterID uuid.UUID) (*models.MasterOrderStats, error)
}

func (m *MockOrderStorage) CreateWithItemsTx(ctx context.Context, tx pgx.Tx, order *models.Order, items []*models.OrderItem) error {
	if m.CreateWithItemsTxFunc != nil {
		return m.CreateWithItemsTxFunc(ctx, tx, order, items)
	}
	return nil
}

func (m *MockOrderStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrOrderNotFound
}

func (m *MockOrderStorage) GetItems(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	if m.GetItemsFunc != nil {
		return m.GetItemsFunc(ctx, orderID)
	}
	return []*models.OrderItem{}, nil
}

func (m *MockOrderStorage) List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*models.Order{}, nil
}

func (m *MockOrderStorage) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to models.OrderStatus, completedDate *time.Time) error {
	if m.UpdateStatusTxFunc != nil {
		return m.UpdateStatusTxFunc(ctx, tx, id, from, to, completedDate)
	}
	return nil
}

func (m *MockOrderStorage) StatsForMaster(ctx context.Context, masterID uuid.UUID) (*models.MasterOrderStats, error) {
	if m.StatsForMasterFunc != nil {
		return m.StatsForMasterFunc(ctx, masterID)
	}
	return &models.MasterOrderStats{MasterID: masterID}, nil
}
