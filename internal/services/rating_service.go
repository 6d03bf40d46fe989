package services

import (
	"context"
	"fmt"

	"github.com/agamariel/mastermarket/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RatingService пересчитывает агрегаты мастера (rating, total_reviews)
// по текущему набору отзывов. Пересчёт - чистая функция от множества
// отзывов: он идемпотентен и самовосстанавливается при повторном
// вызове, поскольку всегда читает актуальные данные, а не дельту.
type RatingService interface {
	Recompute(ctx context.Context, masterID uuid.UUID) error
	RecomputeTx(ctx context.Context, tx pgx.Tx, masterID uuid.UUID) error
}

// RatingServiceImpl реализует RatingService.
type RatingServiceImpl struct {
	masters storage.MasterStorage
}

// NewRatingService создаёт новый сервис агрегации рейтинга.
func NewRatingService(masters storage.MasterStorage) *RatingServiceImpl {
	return &RatingServiceImpl{masters: masters}
}

// Recompute пересчитывает агрегаты мастера вне внешней транзакции.
func (s *RatingServiceImpl) Recompute(ctx context.Context, masterID uuid.UUID) error {
	if err := s.masters.RecomputeRating(ctx, masterID); err != nil {
		return fmt.Errorf("recompute rating: %w", err)
	}
	return nil
}

// RecomputeTx пересчитывает агрегаты в рамках переданной транзакции.
// Используется сервисом отзывов, чтобы мутация отзыва и пересчёт
// рейтинга фиксировались атомарно.
func (s *RatingServiceImpl) RecomputeTx(ctx context.Context, tx pgx.Tx, masterID uuid.UUID) error {
	if err := s.masters.RecomputeRatingTx(ctx, tx, masterID); err != nil {
		return fmt.Errorf("recompute rating: %w", err)
	}
	return nil
}
