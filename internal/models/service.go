package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service представляет услугу из каталога мастера.
type Service struct {
	ID            uuid.UUID       `db:"id"`
	MasterID      uuid.UUID       `db:"master_id"`
	CategoryID    uuid.UUID       `db:"category_id"`
	Name          string          `db:"name"`
	Description   string          `db:"description"`
	Price         decimal.Decimal `db:"price"`
	DurationHours int             `db:"duration_hours"`
	IsActive      bool            `db:"is_active"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// CreateServiceRequest - запрос на создание услуги.
type CreateServiceRequest struct {
	CategoryID    uuid.UUID `json:"category_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Price         float64   `json:"price"`
	DurationHours int       `json:"duration_hours,omitempty"`
}

// UpdateServiceRequest - запрос на обновление услуги.
type UpdateServiceRequest struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	DurationHours *int     `json:"duration_hours,omitempty"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

// ServiceFilter - фильтры для выборки услуг.
type ServiceFilter struct {
	MasterID   *uuid.UUID
	CategoryID *uuid.UUID
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Limit      int
	Offset     int
}

// ServiceResponse - представление услуги в ответах API.
type ServiceResponse struct {
	ID            uuid.UUID `json:"id"`
	MasterID      uuid.UUID `json:"master_id"`
	CategoryID    uuid.UUID `json:"category_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Price         float64   `json:"price"`
	DurationHours int       `json:"duration_hours"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     string    `json:"created_at"`
}

// ToResponse преобразует услугу в DTO.
func (s *Service) ToResponse() *ServiceResponse {
	price, _ := s.Price.Float64()

	return &ServiceResponse{
		ID:            s.ID,
		MasterID:      s.MasterID,
		CategoryID:    s.CategoryID,
		Name:          s.Name,
		Description:   s.Description,
		Price:         price,
		DurationHours: s.DurationHours,
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
	}
}
