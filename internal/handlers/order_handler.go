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
)

// OrderHandler обрабатывает запросы, связанные с заказами.
type OrderHandler struct {
	orderService services.OrderService
}

func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrder обрабатывает POST /api/orders.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	order, err := h.orderService.CreateOrder(c.Request().Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrMasterNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "master not found")
		case errors.Is(err, services.ErrMasterUnavailable):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, services.ErrServiceUnavailable):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, services.ErrNoOrderItems), errors.Is(err, services.ErrInvalidQuantity):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			c.Logger().Errorf("failed to create order: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusCreated, order)
}

// UpdateStatus обрабатывает PUT /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	role, err := auth.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req models.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request format")
	}

	order, err := h.orderService.UpdateStatus(c.Request().Context(), orderID, userID, role, models.OrderStatus(req.Status))
	if err != nil {
		return h.mapOrderError(c, err, "failed to update order status")
	}

	return c.JSON(http.StatusOK, order)
}

// CancelOrder обрабатывает DELETE /api/orders/:id.
// Заказ не удаляется, а переводится в статус cancelled.
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	role, err := auth.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	if err := h.orderService.CancelOrder(c.Request().Context(), orderID, userID, role); err != nil {
		return h.mapOrderError(c, err, "failed to cancel order")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetOrder обрабатывает GET /api/orders/:id.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	role, err := auth.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	order, err := h.orderService.GetOrder(c.Request().Context(), orderID, userID, role)
	if err != nil {
		return h.mapOrderError(c, err, "failed to get order")
	}

	return c.JSON(http.StatusOK, order)
}

// ListOrders обрабатывает GET /api/orders.
// Клиент видит свои заказы, мастер — адресованные ему, админ — все.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return err
	}
	role, err := auth.GetUserRoleFromContext(c)
	if err != nil {
		return err
	}

	var filter models.OrderFilter
	if raw := c.QueryParam("status"); raw != "" {
		status := models.OrderStatus(raw)
		if !status.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		filter.Status = &status
	}
	// Фильтры по клиенту и мастеру сервис учитывает только для админа.
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
	filter.Limit, filter.Offset = parsePagination(c)

	orders, err := h.orderService.ListOrders(c.Request().Context(), userID, role, filter)
	if err != nil {
		c.Logger().Errorf("failed to list orders: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, orders)
}

// MasterStats обрабатывает GET /api/orders/master/:id/stats.
func (h *OrderHandler) MasterStats(c echo.Context) error {
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

	stats, err := h.orderService.MasterStats(c.Request().Context(), masterID, userID, role)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrMasterNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "master not found")
		case errors.Is(err, services.ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, "not enough permissions")
		default:
			c.Logger().Errorf("failed to get master stats: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusOK, stats)
}

// mapOrderError переводит ошибки сервиса заказов в HTTP-ошибки.
func (h *OrderHandler) mapOrderError(c echo.Context, err error, logMsg string) error {
	var transitionErr *services.InvalidTransitionError
	switch {
	case errors.Is(err, storage.ErrOrderNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	case errors.Is(err, services.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "not enough permissions")
	case errors.As(err, &transitionErr):
		return echo.NewHTTPError(http.StatusConflict, transitionErr.Error())
	case errors.Is(err, services.ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		c.Logger().Errorf("%s: %v", logMsg, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
