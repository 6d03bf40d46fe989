package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/agamariel/mastermarket/internal/models"
	"github.com/agamariel/mastermarket/internal/storage"
	"github.com/google/uuid"
)

var ErrEmptyCategoryName = errors.New("category name is required")

// CategoryService определяет интерфейс для работы с категориями.
type CategoryService interface {
	CreateCategory(ctx context.Context, role models.Role, req *models.CreateCategoryRequest) (*models.CategoryResponse, error)
	GetCategory(ctx context.Context, categoryID uuid.UUID) (*models.CategoryResponse, error)
	ListCategories(ctx context.Context) ([]*models.CategoryResponse, error)
}

// CategoryServiceImpl реализует CategoryService.
type CategoryServiceImpl struct {
	categories storage.CategoryStorage
}

// NewCategoryService создаёт новый сервис категорий.
func NewCategoryService(categories storage.CategoryStorage) *CategoryServiceImpl {
	return &CategoryServiceImpl{categories: categories}
}

// CreateCategory создаёт категорию. Доступно только администратору.
func (s *CategoryServiceImpl) CreateCategory(ctx context.Context, role models.Role, req *models.CreateCategoryRequest) (*models.CategoryResponse, error) {
	if role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	if req.NameUz == "" && req.NameRu == "" && req.NameEn == "" {
		return nil, ErrEmptyCategoryName
	}

	category := &models.Category{
		NameUz:      req.NameUz,
		NameRu:      req.NameRu,
		NameEn:      req.NameEn,
		Description: req.Description,
		IsActive:    true,
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	return category.ToResponse(), nil
}

// GetCategory возвращает категорию по ID.
func (s *CategoryServiceImpl) GetCategory(ctx context.Context, categoryID uuid.UUID) (*models.CategoryResponse, error) {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return category.ToResponse(), nil
}

// ListCategories возвращает активные категории.
func (s *CategoryServiceImpl) ListCategories(ctx context.Context) ([]*models.CategoryResponse, error) {
	categories, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	resp := make([]*models.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		resp = append(resp, category.ToResponse())
	}
	return resp, nil
}
