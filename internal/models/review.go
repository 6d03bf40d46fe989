package models

import (
	"time"

	"github.com/google/uuid"
)

// Review представляет отзыв клиента на завершённый заказ.
// На один заказ допускается не более одного отзыва.
type Review struct {
	ID        uuid.UUID `db:"id"`
	OrderID   uuid.UUID `db:"order_id"`
	ClientID  uuid.UUID `db:"client_id"`
	MasterID  uuid.UUID `db:"master_id"`
	Rating    int       `db:"rating"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CreateReviewRequest - запрос на создание отзыва.
type CreateReviewRequest struct {
	OrderID uuid.UUID `json:"order_id"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment,omitempty"`
}

// UpdateReviewRequest - запрос на обновление отзыва.
type UpdateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// ReviewFilter - фильтры для выборки отзывов.
type ReviewFilter struct {
	MasterID  *uuid.UUID
	ClientID  *uuid.UUID
	MinRating *int
	Limit     int
	Offset    int
}

// ReviewResponse - представление отзыва в ответах API.
type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ClientID  uuid.UUID `json:"client_id"`
	MasterID  uuid.UUID `json:"master_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt string    `json:"created_at"`
}

// MasterReviewStats - статистика отзывов мастера.
type MasterReviewStats struct {
	MasterID           uuid.UUID   `json:"master_id"`
	TotalReviews       int         `json:"total_reviews"`
	AverageRating      float64     `json:"average_rating"`
	RatingDistribution map[int]int `json:"rating_distribution"`
}

// ToResponse преобразует отзыв в DTO.
func (r *Review) ToResponse() *ReviewResponse {
	return &ReviewResponse{
		ID:        r.ID,
		OrderID:   r.OrderID,
		ClientID:  r.ClientID,
		MasterID:  r.MasterID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}
