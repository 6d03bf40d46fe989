package handlers

import (
	"errors"
	"net/http"

	"github.com/agamariel/mastermarket/internal/auth"
	"github.com/agamariel/mastermarket/internal/models"
	"github.com/agamariel/mastermarket/internal/services"
	"github.com/labstack/echo/v4"
)

// CategoryHandler обрабатывает запросы, связанные с категориями услуг.
type CategoryHandler struct {
	categoryService services.CategoryService
}

func NewCategoryHandler(categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// ListCategories обрабатывает GET /api/categories.
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categoryService.ListCategories(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("failed to list categories: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, categories)
}

// CreateCategory обрабатывает POST /api/categories.
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	role, err := auth.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), role, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		case errors.Is(err, services.ErrEmptyCategoryName):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			c.Logger().Errorf("failed to create category: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusCreated, category)
}
