package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Master представляет профиль исполнителя услуг.
// Поля Rating, TotalReviews и TotalOrders - производные данные:
// они пересчитываются системой и никогда не принимаются из запросов.
type Master struct {
	ID              uuid.UUID       `db:"id"`
	UserID          uuid.UUID       `db:"user_id"`
	CategoryID      uuid.UUID       `db:"category_id"`
	Specialization  string          `db:"specialization"`
	ExperienceYears int             `db:"experience_years"`
	Description     string          `db:"description"`
	BasePrice       decimal.Decimal `db:"base_price"`
	Rating          decimal.Decimal `db:"rating"`
	TotalReviews    int             `db:"total_reviews"`
	TotalOrders     int             `db:"total_orders"`
	IsAvailable     bool            `db:"is_available"`
	WorkHoursStart  string          `db:"work_hours_start"`
	WorkHoursEnd    string          `db:"work_hours_end"`
	WorkDays        string          `db:"work_days"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// CreateMasterRequest - запрос на создание профиля мастера.
type CreateMasterRequest struct {
	CategoryID      uuid.UUID `json:"category_id"`
	Specialization  string    `json:"specialization,omitempty"`
	ExperienceYears int       `json:"experience_years,omitempty"`
	Description     string    `json:"description,omitempty"`
	BasePrice       float64   `json:"base_price,omitempty"`
	WorkHoursStart  string    `json:"work_hours_start,omitempty"`
	WorkHoursEnd    string    `json:"work_hours_end,omitempty"`
	WorkDays        string    `json:"work_days,omitempty"`
}

// UpdateMasterRequest - запрос на обновление профиля мастера.
// Указатели отличают "не передано" от нулевого значения.
type UpdateMasterRequest struct {
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	Specialization  *string    `json:"specialization,omitempty"`
	ExperienceYears *int       `json:"experience_years,omitempty"`
	Description     *string    `json:"description,omitempty"`
	BasePrice       *float64   `json:"base_price,omitempty"`
	IsAvailable     *bool      `json:"is_available,omitempty"`
	WorkHoursStart  *string    `json:"work_hours_start,omitempty"`
	WorkHoursEnd    *string    `json:"work_hours_end,omitempty"`
	WorkDays        *string    `json:"work_days,omitempty"`
}

// MasterFilter - фильтры для выборки мастеров.
type MasterFilter struct {
	CategoryID   *uuid.UUID
	MinRating    *decimal.Decimal
	MaxBasePrice *decimal.Decimal
	IsAvailable  *bool
	Limit        int
	Offset       int
}

// MasterResponse - представление мастера в ответах API.
type MasterResponse struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	CategoryID      uuid.UUID `json:"category_id"`
	Specialization  string    `json:"specialization,omitempty"`
	ExperienceYears int       `json:"experience_years"`
	Description     string    `json:"description,omitempty"`
	BasePrice       float64   `json:"base_price"`
	Rating          float64   `json:"rating"`
	TotalReviews    int       `json:"total_reviews"`
	TotalOrders     int       `json:"total_orders"`
	IsAvailable     bool      `json:"is_available"`
	WorkHoursStart  string    `json:"work_hours_start"`
	WorkHoursEnd    string    `json:"work_hours_end"`
	WorkDays        string    `json:"work_days"`
	CreatedAt       string    `json:"created_at"`
}

// ToResponse преобразует мастера в DTO.
func (m *Master) ToResponse() *MasterResponse {
	basePrice, _ := m.BasePrice.Float64()
	rating, _ := m.Rating.Float64()

	return &MasterResponse{
		ID:              m.ID,
		UserID:          m.UserID,
		CategoryID:      m.CategoryID,
		Specialization:  m.Specialization,
		ExperienceYears: m.ExperienceYears,
		Description:     m.Description,
		BasePrice:       basePrice,
		Rating:          rating,
		TotalReviews:    m.TotalReviews,
		TotalOrders:     m.TotalOrders,
		IsAvailable:     m.IsAvailable,
		WorkHoursStart:  m.WorkHoursStart,
		WorkHoursEnd:    m.WorkHoursEnd,
		WorkDays:        m.WorkDays,
		CreatedAt:       m.CreatedAt.Format(time.RFC3339),
	}
}
