package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agamariel/mastermarket/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderStatusChanged возвращается, когда оптимистичное обновление
	// статуса не нашло строку: параллельный запрос успел изменить заказ.
	ErrOrderStatusChanged = errors.New("order status changed concurrently")
)

// OrderStorage определяет интерфейс для работы с заказами.
type OrderStorage interface {
	// CreateWithItemsTx атомарно создаёт заказ вместе с позициями:
	// либо записываются заказ и все позиции, либо ничего.
	CreateWithItemsTx(ctx context.Context, tx pgx.Tx, order *models.Order, items []*models.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetItems(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error)
	List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error)
	// UpdateStatusTx выполняет compare-and-set по статусу: строка
	// обновляется только если текущий статус равен from. Если строка
	// существует, но статус уже другой, возвращается ErrOrderStatusChanged.
	UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to models.OrderStatus, completedDate *time.Time) error
	StatsForMaster(ctx context.Context, masterID uuid.UUID) (*models.MasterOrderStats, error)
}

// PostgresOrderStorage реализует OrderStorage для PostgreSQL.
type PostgresOrderStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresOrderStorage создаёт новый экземпляр PostgresOrderStorage.
func NewPostgresOrderStorage(pool *pgxpool.Pool) *PostgresOrderStorage {
	return &PostgresOrderStorage{pool: pool}
}

// CreateWithItemsTx создаёт заказ и его позиции в рамках транзакции.
func (s *PostgresOrderStorage) CreateWithItemsTx(ctx context.Context, tx pgx.Tx, order *models.Order, items []*models.OrderItem) error {
	orderQuery := `
		INSERT INTO orders (id, client_id, master_id, status, total_amount, description, address, scheduled_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	err := tx.QueryRow(ctx, orderQuery,
		order.ID,
		order.ClientID,
		order.MasterID,
		order.Status,
		order.TotalAmount,
		order.Description,
		order.Address,
		order.ScheduledDate,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, service_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = order.ID

		if _, err := tx.Exec(ctx, itemQuery, item.ID, item.OrderID, item.ServiceID, item.Quantity, item.Price); err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	return nil
}

// GetByID возвращает заказ по ID.
func (s *PostgresOrderStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := selectOrderQuery + ` WHERE id = $1`
	return scanOrder(s.pool.QueryRow(ctx, query, id))
}

// GetItems возвращает позиции заказа.
func (s *PostgresOrderStorage) GetItems(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	query := `
		SELECT id, order_id, service_id, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := s.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		err := rows.Scan(&item.ID, &item.OrderID, &item.ServiceID, &item.Quantity, &item.Price)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return items, nil
}

// List возвращает заказы по фильтру (новые первыми).
func (s *PostgresOrderStorage) List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		conditions = append(conditions, "client_id = $"+strconv.Itoa(len(args)))
	}
	if filter.MasterID != nil {
		args = append(args, *filter.MasterID)
		conditions = append(conditions, "master_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}

	query := selectOrderQuery
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return orders, nil
}

// UpdateStatusTx переводит заказ из статуса from в to в рамках транзакции.
func (s *PostgresOrderStorage) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, from, to models.OrderStatus, completedDate *time.Time) error {
	query := `
		UPDATE orders
		SET status = $1, completed_date = COALESCE($2, completed_date), updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	result, err := tx.Exec(ctx, query, to, completedDate, id, from)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Отличаем пропавший заказ от проигранной гонки за статус.
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check order existence: %w", err)
		}
		if !exists {
			return ErrOrderNotFound
		}
		return ErrOrderStatusChanged
	}

	return nil
}

// StatsForMaster возвращает статистику заказов мастера.
func (s *PostgresOrderStorage) StatsForMaster(ctx context.Context, masterID uuid.UUID) (*models.MasterOrderStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'in_progress')
		FROM orders
		WHERE master_id = $1
	`

	stats := &models.MasterOrderStats{MasterID: masterID}
	err := s.pool.QueryRow(ctx, query, masterID).Scan(
		&stats.TotalOrders,
		&stats.CompletedOrders,
		&stats.PendingOrders,
		&stats.InProgressOrders,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query order stats: %w", err)
	}

	if stats.TotalOrders > 0 {
		stats.CompletionRate = float64(stats.CompletedOrders) / float64(stats.TotalOrders)
	}

	return stats, nil
}

const selectOrderQuery = `
	SELECT id, client_id, master_id, status, total_amount, description, address,
		scheduled_date, completed_date, created_at, updated_at
	FROM orders
`

// scanOrder помогает читать заказ из строки результата.
func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(
		&order.ID,
		&order.ClientID,
		&order.MasterID,
		&order.Status,
		&order.TotalAmount,
		&order.Description,
		&order.Address,
		&order.ScheduledDate,
		&order.CompletedDate,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	return order, nil
}
