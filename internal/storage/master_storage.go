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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrMasterNotFound = errors.New("master not found")
	ErrMasterExists   = errors.New("master profile already exists")
)

// MasterStorage определяет интерфейс для работы с профилями мастеров.
// Поля rating и total_reviews меняются только через RecomputeRating*,
// total_orders - только через IncrementTotalOrdersTx.
type MasterStorage interface {
	Create(ctx context.Context, master *models.Master) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Master, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Master, error)
	Update(ctx context.Context, master *models.Master) error
	List(ctx context.Context, filter models.MasterFilter) ([]*models.Master, error)
	IncrementTotalOrdersTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	RecomputeRating(ctx context.Context, id uuid.UUID) error
	RecomputeRatingTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// recomputeRatingQuery пересчитывает агрегаты мастера по текущему
// набору отзывов. Запрос идемпотентен: повторный вызов даёт тот же
// результат, поэтому он же служит самовосстановлением агрегатов.
const recomputeRatingQuery = `
	UPDATE masters
	SET rating = COALESCE(
			(SELECT ROUND(AVG(rating)::numeric, 2) FROM reviews WHERE master_id = $1),
			0),
		total_reviews = (SELECT COUNT(*) FROM reviews WHERE master_id = $1),
		updated_at = NOW()
	WHERE id = $1
`

// PostgresMasterStorage реализует MasterStorage для PostgreSQL.
type PostgresMasterStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresMasterStorage создаёт новый экземпляр PostgresMasterStorage.
func NewPostgresMasterStorage(pool *pgxpool.Pool) *PostgresMasterStorage {
	return &PostgresMasterStorage{pool: pool}
}

// Create создаёт профиль мастера.
func (s *PostgresMasterStorage) Create(ctx context.Context, master *models.Master) error {
	query := `
		INSERT INTO masters (id, user_id, category_id, specialization, experience_years, description,
			base_price, is_available, work_hours_start, work_hours_end, work_days, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id, rating, total_reviews, total_orders, created_at, updated_at
	`

	if master.ID == uuid.Nil {
		master.ID = uuid.New()
	}

	err := s.pool.QueryRow(ctx, query,
		master.ID,
		master.UserID,
		master.CategoryID,
		master.Specialization,
		master.ExperienceYears,
		master.Description,
		master.BasePrice,
		master.IsAvailable,
		master.WorkHoursStart,
		master.WorkHoursEnd,
		master.WorkDays,
	).Scan(
		&master.ID,
		&master.Rating,
		&master.TotalReviews,
		&master.TotalOrders,
		&master.CreatedAt,
		&master.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation по user_id
			return ErrMasterExists
		}
		return fmt.Errorf("failed to create master: %w", err)
	}

	return nil
}

// GetByID возвращает профиль мастера по ID.
func (s *PostgresMasterStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Master, error) {
	query := selectMasterQuery + ` WHERE id = $1`
	return scanMaster(s.pool.QueryRow(ctx, query, id))
}

// GetByUserID возвращает профиль мастера по ID пользователя.
func (s *PostgresMasterStorage) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Master, error) {
	query := selectMasterQuery + ` WHERE user_id = $1`
	return scanMaster(s.pool.QueryRow(ctx, query, userID))
}

// Update обновляет изменяемые поля профиля. Производные агрегаты
// (rating, total_reviews, total_orders) этим методом не трогаются.
func (s *PostgresMasterStorage) Update(ctx context.Context, master *models.Master) error {
	query := `
		UPDATE masters
		SET category_id = $1, specialization = $2, experience_years = $3, description = $4,
			base_price = $5, is_available = $6, work_hours_start = $7, work_hours_end = $8,
			work_days = $9, updated_at = NOW()
		WHERE id = $10
	`

	result, err := s.pool.Exec(ctx, query,
		master.CategoryID,
		master.Specialization,
		master.ExperienceYears,
		master.Description,
		master.BasePrice,
		master.IsAvailable,
		master.WorkHoursStart,
		master.WorkHoursEnd,
		master.WorkDays,
		master.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update master: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMasterNotFound
	}

	return nil
}

// List возвращает мастеров по фильтру, отсортированных по рейтингу.
func (s *PostgresMasterStorage) List(ctx context.Context, filter models.MasterFilter) ([]*models.Master, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, "category_id = $"+strconv.Itoa(len(args)))
	}
	if filter.MinRating != nil {
		args = append(args, *filter.MinRating)
		conditions = append(conditions, "rating >= $"+strconv.Itoa(len(args)))
	}
	if filter.MaxBasePrice != nil {
		args = append(args, *filter.MaxBasePrice)
		conditions = append(conditions, "base_price <= $"+strconv.Itoa(len(args)))
	}
	if filter.IsAvailable != nil {
		args = append(args, *filter.IsAvailable)
		conditions = append(conditions, "is_available = $"+strconv.Itoa(len(args)))
	}

	query := selectMasterQuery
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY rating DESC, created_at DESC"

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
		return nil, fmt.Errorf("failed to query masters: %w", err)
	}
	defer rows.Close()

	var masters []*models.Master
	for rows.Next() {
		master, err := scanMaster(rows)
		if err != nil {
			return nil, err
		}
		masters = append(masters, master)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return masters, nil
}

// IncrementTotalOrdersTx увеличивает счётчик завершённых заказов мастера
// в рамках переданной транзакции.
func (s *PostgresMasterStorage) IncrementTotalOrdersTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `
		UPDATE masters
		SET total_orders = total_orders + 1, updated_at = NOW()
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment total orders: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMasterNotFound
	}

	return nil
}

// RecomputeRating пересчитывает rating и total_reviews мастера.
func (s *PostgresMasterStorage) RecomputeRating(ctx context.Context, id uuid.UUID) error {
	result, err := s.pool.Exec(ctx, recomputeRatingQuery, id)
	if err != nil {
		return fmt.Errorf("failed to recompute rating: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMasterNotFound
	}

	return nil
}

// RecomputeRatingTx пересчитывает агрегаты в рамках переданной транзакции.
func (s *PostgresMasterStorage) RecomputeRatingTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	result, err := tx.Exec(ctx, recomputeRatingQuery, id)
	if err != nil {
		return fmt.Errorf("failed to recompute rating: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrMasterNotFound
	}

	return nil
}

const selectMasterQuery = `
	SELECT id, user_id, category_id, specialization, experience_years, description,
		base_price, rating, total_reviews, total_orders, is_available,
		work_hours_start, work_hours_end, work_days, created_at, updated_at
	FROM masters
`

// scanMaster помогает читать мастера из строки результата.
func scanMaster(row pgx.Row) (*models.Master, error) {
	master := &models.Master{}
	err := row.Scan(
		&master.ID,
		&master.UserID,
		&master.CategoryID,
		&master.Specialization,
		&master.ExperienceYears,
		&master.Description,
		&master.BasePrice,
		&master.Rating,
		&master.TotalReviews,
		&master.TotalOrders,
		&master.IsAvailable,
		&master.WorkHoursStart,
		&master.WorkHoursEnd,
		&master.WorkDays,
		&master.CreatedAt,
		&master.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMasterNotFound
		}
		return nil, fmt.Errorf("failed to scan master: %w", err)
	}

	return master, nil
}
