package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/agamariel/mastermarket/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrCategoryNotFound = errors.New("category not found")

// CategoryStorage определяет интерфейс для работы с категориями.
type CategoryStorage interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListActive(ctx context.Context) ([]*models.Category, error)
}

// PostgresCategoryStorage реализует CategoryStorage для PostgreSQL.
type PostgresCategoryStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresCategoryStorage создаёт новый экземпляр PostgresCategoryStorage.
func NewPostgresCategoryStorage(pool *pgxpool.Pool) *PostgresCategoryStorage {
	return &PostgresCategoryStorage{pool: pool}
}

// Create создаёт новую категорию.
func (s *PostgresCategoryStorage) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (id, name_uz, name_ru, name_en, description, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, NOW())
		RETURNING id, is_active, created_at
	`

	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}

	err := s.pool.QueryRow(ctx, query,
		category.ID,
		category.NameUz,
		category.NameRu,
		category.NameEn,
		category.Description,
	).Scan(&category.ID, &category.IsActive, &category.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// GetByID возвращает категорию по ID.
func (s *PostgresCategoryStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	query := `
		SELECT id, name_uz, name_ru, name_en, description, is_active, created_at
		FROM categories
		WHERE id = $1
	`

	category := &models.Category{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.NameUz,
		&category.NameRu,
		&category.NameEn,
		&category.Description,
		&category.IsActive,
		&category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}

// ListActive возвращает все активные категории.
func (s *PostgresCategoryStorage) ListActive(ctx context.Context) ([]*models.Category, error) {
	query := `
		SELECT id, name_uz, name_ru, name_en, description, is_active, created_at
		FROM categories
		WHERE is_active = TRUE
		ORDER BY name_en ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category := &models.Category{}
		err := rows.Scan(
			&category.ID,
			&category.NameUz,
			&category.NameRu,
			&category.NameEn,
			&category.Description,
			&category.IsActive,
			&category.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	return categories, nil
}
