package handlers

import (
	"errors"
	"net/http"

	"github.com/agamariel/mastermarket/internal/auth"
	"github.com/agamariel/mastermarket/internal/models"
	"github.com/agamariel/mastermarket/internal/services"
	"github.com/agamariel/mastermarket/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// CatalogHandler обрабатывает запросы, связанные с каталогом услуг.
type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// CreateService обрабатывает POST /api/services.
func (h *CatalogHandler) CreateService(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	role, err := auth.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	service, err := h.catalogService.CreateService(c.Request().Context(), userID, role, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, "master role required")
		case errors.Is(err, storage.ErrMasterNotFound):
			return echo.NewHTTPError(http.StatusBadRequest, "master profile not found")
		case errors.Is(err, storage.ErrCategoryNotFound):
			return echo.NewHTTPError(http.StatusBadRequest, "category not found")
		case errors.Is(err, services.ErrInvalidPrice):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			c.Logger().Errorf("failed to create service: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusCreated, service)
}

// UpdateService обрабатывает PUT /api/services/:id.
func (h *CatalogHandler) UpdateService(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	role, err := auth.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}

	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid service id")
	}

	var req models.UpdateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	service, err := h.catalogService.UpdateService(c.Request().Context(), serviceID, userID, role, &req)
	if err != nil {
		return h.mapCatalogError(c, err, "failed to update service")
	}

	return c.JSON(http.StatusOK, service)
}

// DeactivateService обрабатывает DELETE /api/services/:id.
// Услуга скрывается из каталога, записи заказов её сохраняют.
func (h *CatalogHandler) DeactivateService(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	role, err := auth.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}

	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid service id")
	}

	if err := h.catalogService.DeactivateService(c.Request().Context(), serviceID, userID, role); err != nil {
		return h.mapCatalogError(c, err, "failed to deactivate service")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetService обрабатывает GET /api/services/:id.
func (h *CatalogHandler) GetService(c echo.Context) error {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid service id")
	}

	service, err := h.catalogService.GetService(c.Request().Context(), serviceID)
	if err != nil {
		if errors.Is(err, storage.ErrServiceNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "service not found")
		}
		c.Logger().Errorf("failed to get service: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, service)
}

// ListServices обрабатывает GET /api/services.
func (h *CatalogHandler) ListServices(c echo.Context) error {
	filter, err := parseServiceFilter(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	list, err := h.catalogService.ListServices(c.Request().Context(), filter)
	if err != nil {
		c.Logger().Errorf("failed to list services: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, list)
}

// mapCatalogError переводит ошибки сервиса каталога в HTTP-ошибки.
func (h *CatalogHandler) mapCatalogError(c echo.Context, err error, logMsg string) error {
	switch {
	case errors.Is(err, storage.ErrServiceNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "service not found")
	case errors.Is(err, services.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "not enough permissions")
	case errors.Is(err, services.ErrInvalidPrice):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		c.Logger().Errorf("%s: %v", logMsg, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

// parseServiceFilter собирает фильтр выборки услуг из query-параметров.
func parseServiceFilter(c echo.Context) (models.ServiceFilter, error) {
	var filter models.ServiceFilter

	if raw := c.QueryParam("master_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errors.New("invalid master_id")
		}
		filter.MasterID = &id
	}
	if raw := c.QueryParam("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errors.New("invalid category_id")
		}
		filter.CategoryID = &id
	}
	if raw := c.QueryParam("min_price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, errors.New("invalid min_price")
		}
		filter.MinPrice = &price
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, errors.New("invalid max_price")
		}
		filter.MaxPrice = &price
	}

	filter.Limit, filter.Offset = parsePagination(c)
	return filter, nil
}
