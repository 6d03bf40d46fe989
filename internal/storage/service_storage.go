package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/agamariel/mastermarket/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrServiceNotFound = errors.New("service not found")

// ServiceStorage определяет интерфейс для работы с каталогом услуг.
type ServiceStorage interface {
	Create(ctx context.Context, service *models.Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	// GetActiveForMaster возвращает услугу, только если она активна
	// и принадлежит указанному мастеру.
	GetActiveForMaster(ctx context.Context, id, masterID uuid.UUID) (*models.Service, error)
	Update(ctx context.Context, service *models.Service) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter models.ServiceFilter) ([]*models.Service, error)
}

// PostgresServiceStorage реализует ServiceStorage для PostgreSQL.
type PostgresServiceStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresServiceStorage создаёт новый экземпляр PostgresServiceStorage.
func NewPostgresServiceStorage(pool *pgxpool.Pool) *PostgresServiceStorage {
	return &PostgresServiceStorage{pool: pool}
}

// Create создаёт новую услугу.
func (s *PostgresServiceStorage) Create(ctx context.Context, service *models.Service) error {
	query := `
		INSERT INTO services (id, master_id, category_id, name, description, price, duration_hours, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, NOW(), NOW())
		RETURNING id, is_active, created_at, updated_at
	`

	if service.ID == uuid.Nil {
		service.ID = uuid.New()
	}

	err := s.pool.QueryRow(ctx, query,
		service.ID,
		service.MasterID,
		service.CategoryID,
		service.Name,
		service.Description,
		service.Price,
		service.DurationHours,
	).Scan(&service.ID, &service.IsActive, &service.CreatedAt, &service.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	return nil
}

// GetByID возвращает услугу по ID.
func (s *PostgresServiceStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	query := selectServiceQuery + ` WHERE id = $1`
	return scanService(s.pool.QueryRow(ctx, query, id))
}

// GetActiveForMaster возвращает активную услугу указанного мастера.
func (s *PostgresServiceStorage) GetActiveForMaster(ctx context.Context, id, masterID uuid.UUID) (*models.Service, error) {
	query := selectServiceQuery + ` WHERE id = $1 AND master_id = $2 AND is_active = TRUE`
	return scanService(s.pool.QueryRow(ctx, query, id, masterID))
}

// Update обновляет услугу.
func (s *PostgresServiceStorage) Update(ctx context.Context, service *models.Service) error {
	query := `
		UPDATE services
		SET name = $1, description = $2, price = $3, duration_hours = $4, is_active = $5, updated_at = NOW()
		WHERE id = $6
	`

	result, err := s.pool.Exec(ctx, query,
		service.Name,
		service.Description,
		service.Price,
		service.DurationHours,
		service.IsActive,
		service.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrServiceNotFound
	}

	return nil
}

// Deactivate помечает услугу неактивной. Физическое удаление не
// используется: на услугу могут ссылаться позиции заказов.
func (s *PostgresServiceStorage) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE services
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1
	`

	result, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate service: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrServiceNotFound
	}

	return nil
}

// List возвращает активные услуги по фильтру.
func (s *PostgresServiceStorage) List(ctx context.Context, filter models.ServiceFilter) ([]*models.Service, error) {
	conditions := []string{"is_active = TRUE"}
	var args []any

	if filter.MasterID != nil {
		args = append(args, *filter.MasterID)
		conditions = append(conditions, "master_id = $"+strconv.Itoa(len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, "category_id = $"+strconv.Itoa(len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		conditions = append(conditions, "price >= $"+strconv.Itoa(len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conditions = append(conditions, "price <= $"+strconv.Itoa(len(args)))
	}

	query := selectServiceQuery + " WHERE " + strings.Join(conditions, " AND ") + " ORDER BY created_at DESC"

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
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	var services []*models.Service
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, service)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return services, nil
}

const selectServiceQuery = `
	SELECT id, master_id, category_id, name, description, price, duration_hours, is_active, created_at, updated_at
	FROM services
`

// scanService помогает читать услугу из строки результата.
func scanService(row pgx.Row) (*models.Service, error) {
	service := &models.Service{}
	err := row.Scan(
		&service.ID,
		&service.MasterID,
		&service.CategoryID,
		&service.Name,
		&service.Description,
		&service.Price,
		&service.DurationHours,
		&service.IsActive,
		&service.CreatedAt,
		&service.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to scan service: %w", err)
	}

	return service, nil
}
