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
	"github.com/shopspring/decimal"
)

// MasterHandler обрабатывает запросы, связанные с профилями мастеров.
type MasterHandler struct {
	masterService services.MasterService
}

func NewMasterHandler(masterService services.MasterService) *MasterHandler {
	return &MasterHandler{masterService: masterService}
}

// CreateProfile обрабатывает POST /api/masters.
func (h *MasterHandler) CreateProfile(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateMasterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	master, err := h.masterService.CreateProfile(c.Request().Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrMasterExists):
			return echo.NewHTTPError(http.StatusConflict, "master profile already exists")
		case errors.Is(err, storage.ErrCategoryNotFound):
			return echo.NewHTTPError(http.StatusBadRequest, "category not found")
		case errors.Is(err, services.ErrInvalidWorkSchedule):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			c.Logger().Errorf("failed to create master profile: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusCreated, master)
}

// UpdateProfile обрабатывает PUT /api/masters/:id.
func (h *MasterHandler) UpdateProfile(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	role, err := auth.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}

	masterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid master id")
	}

	var req models.UpdateMasterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	master, err := h.masterService.UpdateProfile(c.Request().Context(), masterID, userID, role, &req)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrMasterNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "master not found")
		case errors.Is(err, services.ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, "not enough permissions")
		case errors.Is(err, storage.ErrCategoryNotFound):
			return echo.NewHTTPError(http.StatusBadRequest, "category not found")
		case errors.Is(err, services.ErrInvalidWorkSchedule):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			c.Logger().Errorf("failed to update master profile: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusOK, master)
}

// GetMaster обрабатывает GET /api/masters/:id.
func (h *MasterHandler) GetMaster(c echo.Context) error {
	masterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid master id")
	}

	master, err := h.masterService.GetMaster(c.Request().Context(), masterID)
	if err != nil {
		if errors.Is(err, storage.ErrMasterNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "master not found")
		}
		c.Logger().Errorf("failed to get master: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, master)
}

// ListMasters обрабатывает GET /api/masters.
func (h *MasterHandler) ListMasters(c echo.Context) error {
	filter, err := parseMasterFilter(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	masters, err := h.masterService.ListMasters(c.Request().Context(), filter)
	if err != nil {
		c.Logger().Errorf("failed to list masters: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, masters)
}

// parseMasterFilter собирает фильтр выборки мастеров из query-параметров.
func parseMasterFilter(c echo.Context) (models.MasterFilter, error) {
	var filter models.MasterFilter

	if raw := c.QueryParam("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errors.New("invalid category_id")
		}
		filter.CategoryID = &id
	}
	if raw := c.QueryParam("min_rating"); raw != "" {
		rating, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, errors.New("invalid min_rating")
		}
		filter.MinRating = &rating
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, errors.New("invalid max_price")
		}
		filter.MaxBasePrice = &price
	}
	if raw := c.QueryParam("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, errors.New("invalid available")
		}
		filter.IsAvailable = &available
	}

	filter.Limit, filter.Offset = parsePagination(c)
	return filter, nil
}

// parsePagination читает limit/offset из query-параметров.
func parsePagination(c echo.Context) (limit, offset int) {
	if raw := c.QueryParam("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			offset = v
		}
	}
	return limit, offset
}
