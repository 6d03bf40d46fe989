package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/agamariel/mastermarket/internal/models"
	"github.com/agamariel/mastermarket/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrOrderNotCompleted = errors.New("order is not completed")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
)

// ReviewService определяет операции жизненного цикла отзыва. Каждая
// мутация отзыва внутри одной транзакции запускает пересчёт агрегатов
// мастера.
type ReviewService interface {
	CreateReview(ctx context.Context, clientID uuid.UUID, req *models.CreateReviewRequest) (*models.ReviewResponse, error)
	UpdateReview(ctx context.Context, reviewID, actorID uuid.UUID, role models.Role, req *models.UpdateReviewRequest) (*models.ReviewResponse, error)
	DeleteReview(ctx context.Context, reviewID, actorID uuid.UUID, role models.Role) error
	GetReview(ctx context.Context, reviewID uuid.UUID) (*models.ReviewResponse, error)
	ListReviews(ctx context.Context, filter models.ReviewFilter) ([]*models.ReviewResponse, error)
	MasterStats(ctx context.Context, masterID uuid.UUID) (*models.MasterReviewStats, error)
}

// ReviewServiceImpl реализует ReviewService.
type ReviewServiceImpl struct {
	db      TxBeginner
	reviews storage.ReviewStorage
	orders  storage.OrderStorage
	masters storage.MasterStorage
	rating  RatingService
}

// NewReviewService создаёт новый сервис отзывов.
func NewReviewService(db TxBeginner, reviews storage.ReviewStorage, orders storage.OrderStorage, masters storage.MasterStorage, rating RatingService) *ReviewServiceImpl {
	return &ReviewServiceImpl{
		db:      db,
		reviews: reviews,
		orders:  orders,
		masters: masters,
		rating:  rating,
	}
}

// CreateReview создаёт отзыв на завершённый заказ. Отзыв может оставить
// только клиент заказа, не более одного на заказ. Предварительная
// проверка существующего отзыва страхуется уникальным индексом по
// order_id: проигравший гонку создания получает ErrReviewExists.
func (s *ReviewServiceImpl) CreateReview(ctx context.Context, clientID uuid.UUID, req *models.CreateReviewRequest) (*models.ReviewResponse, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	order, err := s.orders.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if order.ClientID != clientID {
		return nil, ErrForbidden
	}

	if order.Status != models.OrderStatusCompleted {
		return nil, ErrOrderNotCompleted
	}

	if _, err := s.reviews.GetByOrderID(ctx, req.OrderID); err == nil {
		return nil, storage.ErrReviewExists
	} else if !errors.Is(err, storage.ErrReviewNotFound) {
		return nil, fmt.Errorf("check existing review: %w", err)
	}

	review := &models.Review{
		OrderID:  order.ID,
		ClientID: clientID,
		MasterID: order.MasterID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.reviews.CreateTx(ctx, tx, review); err != nil {
		return nil, err
	}

	if err := s.rating.RecomputeTx(ctx, tx, order.MasterID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return review.ToResponse(), nil
}

// UpdateReview перезаписывает оценку и комментарий отзыва. Доступно
// автору отзыва и админу.
func (s *ReviewServiceImpl) UpdateReview(ctx context.Context, reviewID, actorID uuid.UUID, role models.Role, req *models.UpdateReviewRequest) (*models.ReviewResponse, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if !canMutateReview(role, actorID, review) {
		return nil, ErrForbidden
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.reviews.UpdateTx(ctx, tx, reviewID, req.Rating, req.Comment); err != nil {
		return nil, err
	}

	if err := s.rating.RecomputeTx(ctx, tx, review.MasterID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	review.Rating = req.Rating
	review.Comment = req.Comment
	return review.ToResponse(), nil
}

// DeleteReview удаляет отзыв и пересчитывает агрегаты мастера. ID
// мастера берётся из отзыва до удаления.
func (s *ReviewServiceImpl) DeleteReview(ctx context.Context, reviewID, actorID uuid.UUID, role models.Role) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}

	if !canMutateReview(role, actorID, review) {
		return ErrForbidden
	}

	masterID := review.MasterID

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.reviews.DeleteTx(ctx, tx, reviewID); err != nil {
		return err
	}

	if err := s.rating.RecomputeTx(ctx, tx, masterID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetReview возвращает отзыв по ID. Чтение отзывов публично.
func (s *ReviewServiceImpl) GetReview(ctx context.Context, reviewID uuid.UUID) (*models.ReviewResponse, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	return review.ToResponse(), nil
}

// ListReviews возвращает отзывы по фильтру.
func (s *ReviewServiceImpl) ListReviews(ctx context.Context, filter models.ReviewFilter) ([]*models.ReviewResponse, error) {
	reviews, err := s.reviews.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	resp := make([]*models.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		resp = append(resp, review.ToResponse())
	}

	return resp, nil
}

// MasterStats возвращает статистику отзывов мастера.
func (s *ReviewServiceImpl) MasterStats(ctx context.Context, masterID uuid.UUID) (*models.MasterReviewStats, error) {
	if _, err := s.masters.GetByID(ctx, masterID); err != nil {
		return nil, err
	}

	return s.reviews.StatsForMaster(ctx, masterID)
}
