package models

import (
	"time"

	"github.com/google/uuid"
)

// Category представляет категорию услуг.
type Category struct {
	ID          uuid.UUID `db:"id"`
	NameUz      string    `db:"name_uz"`
	NameRu      string    `db:"name_ru"`
	NameEn      string    `db:"name_en"`
	Description string    `db:"description"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
}

// CreateCategoryRequest - запрос на создание категории.
type CreateCategoryRequest struct {
	NameUz      string `json:"name_uz"`
	NameRu      string `json:"name_ru"`
	NameEn      string `json:"name_en"`
	Description string `json:"description,omitempty"`
}

// CategoryResponse - представление категории в ответах API.
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	NameUz      string    `json:"name_uz"`
	NameRu      string    `json:"name_ru"`
	NameEn      string    `json:"name_en"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
}

// ToResponse преобразует категорию в DTO.
func (c *Category) ToResponse() *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID,
		NameUz:      c.NameUz,
		NameRu:      c.NameRu,
		NameEn:      c.NameEn,
		Description: c.Description,
		IsActive:    c.IsActive,
	}
}
