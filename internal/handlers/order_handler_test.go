package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agamariel/mastermarket/internal/auth"
	"github.com/agamariel/mastermarket/internal/models"
	"github.com/agamariel/mastermarket/internal/services"
	"github.com/agamariel/mastermarket/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type mockOrderService struct {
	CreateFunc       func(ctx context.Context, clientID uuid.UUID, req *models.CreateOrderRequest) (*models.OrderResponse, error)
	UpdateStatusFunc func(ctx context.Context, orderID, actorID uuid.UUID, role models.Role, target models.OrderStatus) (*models.OrderResponse, error)
	CancelFunc       func(ctx context.Context, orderID, actorID uuid.UUID, role models.Role) error
	GetFunc          func(ctx context.Context, orderID, actorID uuid.UUID, role models.Role) (*models.OrderResponse, error)
	ListFunc         func(ctx context.Context, actorID uuid.UUID, role models.Role, filter models.OrderFilter) ([]*models.OrderResponse, error)
	StatsFunc        func(ctx context.Context, masterID, actorID uuid.UUID, role models.Role) (*models.MasterOrderStats, error)
}

func (m *mockOrderService) CreateOrder(ctx context.Context, clientID uuid.UUID, req *models.CreateOrderRequest) (*models.OrderResponse, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, clientID, req)
	}
	return &models.OrderResponse{}, nil
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, orderID, actorID uuid.UUID, role models.Role, target models.OrderStatus) (*models.OrderResponse, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, orderID, actorID, role, target)
	}
	return &models.OrderResponse{}, nil
}

func (m *mockOrderService) CancelOrder(ctx context.Context, orderID, actorID uuid.UUID, role models.Role) error {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, orderID, actorID, role)
	}
	return nil
}

func (m *mockOrderService) GetOrder(ctx context.Context, orderID, actorID uuid.UUID, role models.Role) (*models.OrderResponse, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, orderID, actorID, role)
	}
	return &models.OrderResponse{}, nil
}

func (m *mockOrderService) ListOrders(ctx context.Context, actorID uuid.UUID, role models.Role, filter models.OrderFilter) ([]*models.OrderResponse, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, actorID, role, filter)
	}
	return []*models.OrderResponse{}, nil
}

func (m *mockOrderService) MasterStats(ctx context.Context, masterID, actorID uuid.UUID, role models.Role) (*models.MasterOrderStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, masterID, actorID, role)
	}
	return &models.MasterOrderStats{}, nil
}

func newOrderContext(e *echo.Echo, req *http.Request, userID uuid.UUID, role models.Role) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(string(auth.UserIDKey), userID)
	c.Set(string(auth.UserRoleKey), role)
	return c, rec
}

func checkHandlerStatus(t *testing.T, err error, rec *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if expected < 400 {
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rec.Code != expected {
			t.Fatalf("status = %d, want %d", rec.Code, expected)
		}
		return
	}
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if he, ok := err.(*echo.HTTPError); ok {
		if he.Code != expected {
			t.Fatalf("status = %d, want %d", he.Code, expected)
		}
	}
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	userID := uuid.New()
	masterID := uuid.New()
	serviceID := uuid.New()

	validBody := fmt.Sprintf(`{"master_id":%q,"order_items":[{"service_id":%q,"quantity":2}]}`, masterID, serviceID)

	tests := []struct {
		name           string
		body           string
		mockService    *mockOrderService
		expectedStatus int
	}{
		{
			name: "created",
			body: validBody,
			mockService: &mockOrderService{
				CreateFunc: func(ctx context.Context, clientID uuid.UUID, req *models.CreateOrderRequest) (*models.OrderResponse, error) {
					return &models.OrderResponse{ID: uuid.New(), Status: "pending"}, nil
				},
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "master not found",
			body: validBody,
			mockService: &mockOrderService{
				CreateFunc: func(ctx context.Context, clientID uuid.UUID, req *models.CreateOrderRequest) (*models.OrderResponse, error) {
					return nil, storage.ErrMasterNotFound
				},
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "master unavailable",
			body: validBody,
			mockService: &mockOrderService{
				CreateFunc: func(ctx context.Context, clientID uuid.UUID, req *models.CreateOrderRequest) (*models.OrderResponse, error) {
					return nil, services.ErrMasterUnavailable
				},
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "service unavailable",
			body: validBody,
			mockService: &mockOrderService{
				CreateFunc: func(ctx context.Context, clientID uuid.UUID, req *models.CreateOrderRequest) (*models.OrderResponse, error) {
					return nil, services.ErrServiceUnavailable
				},
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "no items",
			body: fmt.Sprintf(`{"master_id":%q,"order_items":[]}`, masterID),
			mockService: &mockOrderService{
				CreateFunc: func(ctx context.Context, clientID uuid.UUID, req *models.CreateOrderRequest) (*models.OrderResponse, error) {
					return nil, services.ErrNoOrderItems
				},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "malformed json",
			body: `{"master_id":`,
			mockService: &mockOrderService{
				CreateFunc: func(ctx context.Context, clientID uuid.UUID, req *models.CreateOrderRequest) (*models.OrderResponse, error) {
					t.Error("service must not be called on bind failure")
					return nil, nil
				},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "internal error",
			body: validBody,
			mockService: &mockOrderService{
				CreateFunc: func(ctx context.Context, clientID uuid.UUID, req *models.CreateOrderRequest) (*models.OrderResponse, error) {
					return nil, errors.New("db error")
				},
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			c, rec := newOrderContext(e, req, userID, models.RoleClient)

			handler := NewOrderHandler(tt.mockService)
			err := handler.CreateOrder(c)

			checkHandlerStatus(t, err, rec, tt.expectedStatus)
		})
	}
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()

	tests := []struct {
		name           string
		orderID        string
		body           string
		mockService    *mockOrderService
		expectedStatus int
	}{
		{
			name:    "accepted",
			orderID: orderID.String(),
			body:    `{"status":"accepted"}`,
			mockService: &mockOrderService{
				UpdateStatusFunc: func(ctx context.Context, oID, aID uuid.UUID, role models.Role, target models.OrderStatus) (*models.OrderResponse, error) {
					if target != models.OrderStatusAccepted {
						t.Errorf("target = %s, want accepted", target)
					}
					return &models.OrderResponse{ID: oID, Status: string(target)}, nil
				},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "order not found",
			orderID: orderID.String(),
			body:    `{"status":"accepted"}`,
			mockService: &mockOrderService{
				UpdateStatusFunc: func(ctx context.Context, oID, aID uuid.UUID, role models.Role, target models.OrderStatus) (*models.OrderResponse, error) {
					return nil, storage.ErrOrderNotFound
				},
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:    "forbidden",
			orderID: orderID.String(),
			body:    `{"status":"accepted"}`,
			mockService: &mockOrderService{
				UpdateStatusFunc: func(ctx context.Context, oID, aID uuid.UUID, role models.Role, target models.OrderStatus) (*models.OrderResponse, error) {
					return nil, services.ErrForbidden
				},
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:    "invalid transition",
			orderID: orderID.String(),
			body:    `{"status":"completed"}`,
			mockService: &mockOrderService{
				UpdateStatusFunc: func(ctx context.Context, oID, aID uuid.UUID, role models.Role, target models.OrderStatus) (*models.OrderResponse, error) {
					return nil, &services.InvalidTransitionError{From: models.OrderStatusPending, To: target}
				},
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:    "unknown status",
			orderID: orderID.String(),
			body:    `{"status":"paused"}`,
			mockService: &mockOrderService{
				UpdateStatusFunc: func(ctx context.Context, oID, aID uuid.UUID, role models.Role, target models.OrderStatus) (*models.OrderResponse, error) {
					return nil, services.ErrInvalidStatus
				},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad order id",
			orderID:        "not-a-uuid",
			body:           `{"status":"accepted"}`,
			mockService:    &mockOrderService{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPut, "/api/orders/"+tt.orderID+"/status", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			c, rec := newOrderContext(e, req, userID, models.RoleMaster)
			c.SetParamNames("id")
			c.SetParamValues(tt.orderID)

			handler := NewOrderHandler(tt.mockService)
			err := handler.UpdateStatus(c)

			checkHandlerStatus(t, err, rec, tt.expectedStatus)
		})
	}
}

func TestOrderHandler_CancelOrder(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()

	tests := []struct {
		name           string
		mockService    *mockOrderService
		expectedStatus int
	}{
		{
			name:           "cancelled",
			mockService:    &mockOrderService{},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "conflict after acceptance window",
			mockService: &mockOrderService{
				CancelFunc: func(ctx context.Context, oID, aID uuid.UUID, role models.Role) error {
					return &services.InvalidTransitionError{From: models.OrderStatusInProgress, To: models.OrderStatusCancelled}
				},
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "forbidden",
			mockService: &mockOrderService{
				CancelFunc: func(ctx context.Context, oID, aID uuid.UUID, role models.Role) error {
					return services.ErrForbidden
				},
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodDelete, "/api/orders/"+orderID.String(), nil)
			c, rec := newOrderContext(e, req, userID, models.RoleClient)
			c.SetParamNames("id")
			c.SetParamValues(orderID.String())

			handler := NewOrderHandler(tt.mockService)
			err := handler.CancelOrder(c)

			checkHandlerStatus(t, err, rec, tt.expectedStatus)
		})
	}
}

func TestOrderHandler_ListOrders(t *testing.T) {
	userID := uuid.New()

	t.Run("status filter is passed to service", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/orders?status=pending&limit=10", nil)
		c, rec := newOrderContext(e, req, userID, models.RoleClient)

		var gotFilter models.OrderFilter
		handler := NewOrderHandler(&mockOrderService{
			ListFunc: func(ctx context.Context, aID uuid.UUID, role models.Role, filter models.OrderFilter) ([]*models.OrderResponse, error) {
				gotFilter = filter
				return []*models.OrderResponse{{ID: uuid.New(), Status: "pending"}}, nil
			},
		})

		if err := handler.ListOrders(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if gotFilter.Status == nil || *gotFilter.Status != models.OrderStatusPending {
			t.Errorf("filter status = %v, want pending", gotFilter.Status)
		}
		if gotFilter.Limit != 10 {
			t.Errorf("filter limit = %d, want 10", gotFilter.Limit)
		}
	})

	t.Run("invalid status filter", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/orders?status=paused", nil)
		c, rec := newOrderContext(e, req, userID, models.RoleClient)

		handler := NewOrderHandler(&mockOrderService{})
		err := handler.ListOrders(c)

		checkHandlerStatus(t, err, rec, http.StatusBadRequest)
	})

	t.Run("missing user in context", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := NewOrderHandler(&mockOrderService{})
		err := handler.ListOrders(c)

		checkHandlerStatus(t, err, rec, http.StatusUnauthorized)
	})
}

func TestOrderHandler_MasterStats(t *testing.T) {
	userID := uuid.New()
	masterID := uuid.New()

	tests := []struct {
		name           string
		mockService    *mockOrderService
		expectedStatus int
	}{
		{
			name: "stats returned",
			mockService: &mockOrderService{
				StatsFunc: func(ctx context.Context, mID, aID uuid.UUID, role models.Role) (*models.MasterOrderStats, error) {
					return &models.MasterOrderStats{MasterID: mID, TotalOrders: 12, CompletedOrders: 9}, nil
				},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "master not found",
			mockService: &mockOrderService{
				StatsFunc: func(ctx context.Context, mID, aID uuid.UUID, role models.Role) (*models.MasterOrderStats, error) {
					return nil, storage.ErrMasterNotFound
				},
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "forbidden for strangers",
			mockService: &mockOrderService{
				StatsFunc: func(ctx context.Context, mID, aID uuid.UUID, role models.Role) (*models.MasterOrderStats, error) {
					return nil, services.ErrForbidden
				},
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/orders/master/"+masterID.String()+"/stats", nil)
			c, rec := newOrderContext(e, req, userID, models.RoleMaster)
			c.SetParamNames("id")
			c.SetParamValues(masterID.String())

			handler := NewOrderHandler(tt.mockService)
			err := handler.MasterStats(c)

			checkHandlerStatus(t, err, rec, tt.expectedStatus)
		})
	}
}
