package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus описывает статус жизненного цикла заказа.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusAccepted   OrderStatus = "accepted"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid проверяет, что статус входит в известный набор.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusInProgress,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order представляет заказ клиента у мастера.
// Заказы никогда не удаляются физически: отмена - это статус.
type Order struct {
	ID            uuid.UUID       `db:"id"`
	ClientID      uuid.UUID       `db:"client_id"`
	MasterID      uuid.UUID       `db:"master_id"`
	Status        OrderStatus     `db:"status"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	Description   string          `db:"description"`
	Address       string          `db:"address"`
	ScheduledDate *time.Time      `db:"scheduled_date"`
	CompletedDate *time.Time      `db:"completed_date"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// OrderItem - позиция заказа. Цена фиксируется в момент создания
// заказа и не зависит от последующих изменений цены услуги.
type OrderItem struct {
	ID        uuid.UUID       `db:"id"`
	OrderID   uuid.UUID       `db:"order_id"`
	ServiceID uuid.UUID       `db:"service_id"`
	Quantity  int             `db:"quantity"`
	Price     decimal.Decimal `db:"price"`
}

// OrderItemRequest - позиция в запросе на создание заказа.
type OrderItemRequest struct {
	ServiceID uuid.UUID `json:"service_id"`
	Quantity  int       `json:"quantity"`
}

// CreateOrderRequest - запрос на создание заказа.
type CreateOrderRequest struct {
	MasterID      uuid.UUID          `json:"master_id"`
	Description   string             `json:"description,omitempty"`
	Address       string             `json:"address,omitempty"`
	ScheduledDate *time.Time         `json:"scheduled_date,omitempty"`
	Items         []OrderItemRequest `json:"order_items"`
}

// UpdateOrderStatusRequest - запрос на смену статуса заказа.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderFilter - фильтры для выборки заказов.
type OrderFilter struct {
	ClientID *uuid.UUID
	MasterID *uuid.UUID
	Status   *OrderStatus
	Limit    int
	Offset   int
}

// OrderItemResponse - позиция заказа в ответах API.
type OrderItemResponse struct {
	ServiceID uuid.UUID `json:"service_id"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}

// OrderResponse - представление заказа в ответах API.
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	ClientID      uuid.UUID           `json:"client_id"`
	MasterID      uuid.UUID           `json:"master_id"`
	Status        string              `json:"status"`
	TotalAmount   float64             `json:"total_amount"`
	Description   string              `json:"description,omitempty"`
	Address       string              `json:"address,omitempty"`
	ScheduledDate *string             `json:"scheduled_date,omitempty"`
	CompletedDate *string             `json:"completed_date,omitempty"`
	Items         []OrderItemResponse `json:"order_items"`
	CreatedAt     string              `json:"created_at"`
}

// MasterOrderStats - статистика заказов мастера.
type MasterOrderStats struct {
	MasterID         uuid.UUID `json:"master_id"`
	TotalOrders      int       `json:"total_orders"`
	CompletedOrders  int       `json:"completed_orders"`
	PendingOrders    int       `json:"pending_orders"`
	InProgressOrders int       `json:"in_progress_orders"`
	CompletionRate   float64   `json:"completion_rate"`
}

// ToResponse преобразует заказ с позициями в DTO.
func (o *Order) ToResponse(items []*OrderItem) *OrderResponse {
	total, _ := o.TotalAmount.Float64()

	resp := &OrderResponse{
		ID:          o.ID,
		ClientID:    o.ClientID,
		MasterID:    o.MasterID,
		Status:      string(o.Status),
		TotalAmount: total,
		Description: o.Description,
		Address:     o.Address,
		Items:       make([]OrderItemResponse, 0, len(items)),
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
	}

	if o.ScheduledDate != nil {
		s := o.ScheduledDate.Format(time.RFC3339)
		resp.ScheduledDate = &s
	}
	if o.CompletedDate != nil {
		s := o.CompletedDate.Format(time.RFC3339)
		resp.CompletedDate = &s
	}

	for _, item := range items {
		price, _ := item.Price.Float64()
		resp.Items = append(resp.Items, OrderItemResponse{
			ServiceID: item.ServiceID,
			Quantity:  item.Quantity,
			Price:     price,
		})
	}

	return resp
}
