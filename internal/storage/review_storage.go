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
	ErrReviewNotFound = errors.New("review not found")
	ErrReviewExists   = errors.New("review already exists for this order")
)

// ReviewStorage определяет интерфейс для работы с отзывами.
type ReviewStorage interface {
	CreateTx(ctx context.Context, tx pgx.Tx, review *models.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Review, error)
	UpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, rating int, comment string) error
	DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
	List(ctx context.Context, filter models.ReviewFilter) ([]*models.Review, error)
	StatsForMaster(ctx context.Context, masterID uuid.UUID) (*models.MasterReviewStats, error)
}

// PostgresReviewStorage реализует ReviewStorage для PostgreSQL.
type PostgresReviewStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresReviewStorage создаёт новый экземпляр PostgresReviewStorage.
func NewPostgresReviewStorage(pool *pgxpool.Pool) *PostgresReviewStorage {
	return &PostgresReviewStorage{pool: pool}
}

// CreateTx создаёт отзыв в рамках транзакции. Уникальный индекс по
// order_id гарантирует не более одного отзыва на заказ даже при
// конкурентных запросах.
func (s *PostgresReviewStorage) CreateTx(ctx context.Context, tx pgx.Tx, review *models.Review) error {
	query := `
		INSERT INTO reviews (id, order_id, client_id, master_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}

	err := tx.QueryRow(ctx, query,
		review.ID,
		review.OrderID,
		review.ClientID,
		review.MasterID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation по order_id
			return ErrReviewExists
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// GetByID возвращает отзыв по ID.
func (s *PostgresReviewStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	query := selectReviewQuery + ` WHERE id = $1`
	return scanReview(s.pool.QueryRow(ctx, query, id))
}

// GetByOrderID возвращает отзыв по ID заказа.
func (s *PostgresReviewStorage) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Review, error) {
	query := selectReviewQuery + ` WHERE order_id = $1`
	return scanReview(s.pool.QueryRow(ctx, query, orderID))
}

// UpdateTx перезаписывает оценку и комментарий отзыва в рамках транзакции.
func (s *PostgresReviewStorage) UpdateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, rating int, comment string) error {
	query := `
		UPDATE reviews
		SET rating = $1, comment = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := tx.Exec(ctx, query, rating, comment, id)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrReviewNotFound
	}

	return nil
}

// DeleteTx удаляет отзыв в рамках транзакции.
func (s *PostgresReviewStorage) DeleteTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	result, err := tx.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrReviewNotFound
	}

	return nil
}

// List возвращает отзывы по фильтру (новые первыми).
func (s *PostgresReviewStorage) List(ctx context.Context, filter models.ReviewFilter) ([]*models.Review, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.MasterID != nil {
		args = append(args, *filter.MasterID)
		conditions = append(conditions, "master_id = $"+strconv.Itoa(len(args)))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		conditions = append(conditions, "client_id = $"+strconv.Itoa(len(args)))
	}
	if filter.MinRating != nil {
		args = append(args, *filter.MinRating)
		conditions = append(conditions, "rating >= $"+strconv.Itoa(len(args)))
	}

	query := selectReviewQuery
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
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return reviews, nil
}

// StatsForMaster возвращает статистику отзывов мастера с распределением
// оценок по баллам 1..5.
func (s *PostgresReviewStorage) StatsForMaster(ctx context.Context, masterID uuid.UUID) (*models.MasterReviewStats, error) {
	query := `
		SELECT COUNT(*), COALESCE(ROUND(AVG(rating)::numeric, 2), 0)
		FROM reviews
		WHERE master_id = $1
	`

	stats := &models.MasterReviewStats{
		MasterID:           masterID,
		RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	err := s.pool.QueryRow(ctx, query, masterID).Scan(&stats.TotalReviews, &stats.AverageRating)
	if err != nil {
		return nil, fmt.Errorf("failed to query review stats: %w", err)
	}

	if stats.TotalReviews == 0 {
		return stats, nil
	}

	distQuery := `
		SELECT rating, COUNT(*)
		FROM reviews
		WHERE master_id = $1
		GROUP BY rating
	`

	rows, err := s.pool.Query(ctx, distQuery, masterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating distribution: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("failed to scan rating distribution: %w", err)
		}
		stats.RatingDistribution[rating] = count
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return stats, nil
}

const selectReviewQuery = `
	SELECT id, order_id, client_id, master_id, rating, comment, created_at, updated_at
	FROM reviews
`

// scanReview помогает читать отзыв из строки результата.
func scanReview(row pgx.Row) (*models.Review, error) {
	review := &models.Review{}
	err := row.Scan(
		&review.ID,
		&review.OrderID,
		&review.ClientID,
		&review.MasterID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to scan review: %w", err)
	}

	return review, nil
}
