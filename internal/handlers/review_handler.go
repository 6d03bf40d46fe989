package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/agamariel/mastermarket/internal/auth"
	"github.com/agamariel/mastermarket/internal/models"
	"github.com/agamariel/mastermarket/internal/services"
	"github.com/agamariel/mastermarket/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ReviewHandler обрабатывает запросы, связанные с отзывами.
type ReviewHandler struct {
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// CreateReview обрабатывает POST /api/reviews.
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	review, err := h.reviewService.CreateReview(c.Request().Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrOrderNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, services.ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, "only the order client can leave a review")
		case errors.Is(err, services.ErrOrderNotCompleted):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, storage.ErrReviewExists):
			return echo.NewHTTPError(http.StatusConflict, "review already exists for this order")
		case errors.Is(err, services.ErrInvalidRating):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			c.Logger().Errorf("failed to create review: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusCreated, review)
}

// UpdateReview обрабатывает PUT /api/reviews/:id.
func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	role, err := auth.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid review id")
	}

	var req models.UpdateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	review, err := h.reviewService.UpdateReview(c.Request().Context(), reviewID, userID, role, &req)
	if err != nil {
		return h.mapReviewError(c, err, "failed to update review")
	}

	return c.JSON(http.StatusOK, review)
}

// DeleteReview обрабатывает DELETE /api/reviews/:id.
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	role, err := auth.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid review id")
	}

	if err := h.reviewService.DeleteReview(c.Request().Context(), reviewID, userID, role); err != nil {
		return h.mapReviewError(c, err, "failed to delete review")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetReview обрабатывает GET /api/reviews/:id.
func (h *ReviewHandler) GetReview(c echo.Context) error {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid review id")
	}

	review, err := h.reviewService.GetReview(c.Request().Context(), reviewID)
	if err != nil {
		if errors.Is(err, storage.ErrReviewNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "review not found")
		}
		c.Logger().Errorf("failed to get review: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, review)
}

// ListReviews обрабатывает GET /api/reviews.
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	var filter models.ReviewFilter

	if raw := c.QueryParam("master_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid master_id")
		}
		filter.MasterID = &id
	}
	if raw := c.QueryParam("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid client_id")
		}
		filter.ClientID = &id
	}
	if raw := c.QueryParam("min_rating"); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil || rating < 1 || rating > 5 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid min_rating")
		}
		filter.MinRating = &rating
	}
	filter.Limit, filter.Offset = parsePagination(c)

	reviews, err := h.reviewService.ListReviews(c.Request().Context(), filter)
	if err != nil {
		c.Logger().Errorf("failed to list reviews: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, reviews)
}

// MasterStats обрабатывает GET /api/reviews/master/:id/stats.
func (h *ReviewHandler) MasterStats(c echo.Context) error {
	masterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid master id")
	}

	stats, err := h.reviewService.MasterStats(c.Request().Context(), masterID)
	if err != nil {
		if errors.Is(err, storage.ErrMasterNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "master not found")
		}
		c.Logger().Errorf("failed to get review stats: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, stats)
}

// mapReviewError переводит ошибки сервиса отзывов в HTTP-ошибки.
func (h *ReviewHandler) mapReviewError(c echo.Context, err error, logMsg string) error {
	switch {
	case errors.Is(err, storage.ErrReviewNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "review not found")
	case errors.Is(err, services.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "not enough permissions")
	case errors.Is(err, services.ErrInvalidRating):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		c.Logger().Errorf("%s: %v", logMsg, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
