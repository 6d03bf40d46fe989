package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agamariel/mastermarket/internal/models"
	"github.com/agamariel/mastermarket/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var (
	ErrForbidden          = errors.New("not enough permissions")
	ErrMasterUnavailable  = errors.New("master is not available")
	ErrServiceUnavailable = errors.New("service not found or not available")
	ErrInvalidQuantity    = errors.New("item quantity must be at least 1")
	ErrNoOrderItems       = errors.New("order must contain at least one item")
	ErrInvalidStatus      = errors.New("unknown order status")
)

// TxBeginner открывает транзакции. Его реализует *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderService определяет операции жизненного цикла заказа.
type OrderService interface {
	CreateOrder(ctx context.Context, clientID uuid.UUID, req *models.CreateOrderRequest) (*models.OrderResponse, error)
	UpdateStatus(ctx context.Context, orderID, actorID uuid.UUID, role models.Role, target models.OrderStatus) (*models.OrderResponse, error)
	CancelOrder(ctx context.Context, orderID, actorID uuid.UUID, role models.Role) error
	GetOrder(ctx context.Context, orderID, actorID uuid.UUID, role models.Role) (*models.OrderResponse, error)
	ListOrders(ctx context.Context, actorID uuid.UUID, role models.Role, filter models.OrderFilter) ([]*models.OrderResponse, error)
	MasterStats(ctx context.Context, masterID, actorID uuid.UUID, role models.Role) (*models.MasterOrderStats, error)
}

// OrderServiceImpl реализует OrderService.
type OrderServiceImpl struct {
	db      TxBeginner
	orders  storage.OrderStorage
	masters storage.MasterStorage
	catalog storage.ServiceStorage
}

// NewOrderService создаёт новый сервис заказов.
func NewOrderService(db TxBeginner, orders storage.OrderStorage, masters storage.MasterStorage, catalog storage.ServiceStorage) *OrderServiceImpl {
	return &OrderServiceImpl{
		db:      db,
		orders:  orders,
		masters: masters,
		catalog: catalog,
	}
}

// CreateOrder создаёт заказ в статусе pending. Цены услуг фиксируются
// в позициях на момент создания: последующее изменение цены услуги не
// влияет на уже созданные заказы. Заказ и все позиции записываются в
// одной транзакции.
func (s *OrderServiceImpl) CreateOrder(ctx context.Context, clientID uuid.UUID, req *models.CreateOrderRequest) (*models.OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, ErrNoOrderItems
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	master, err := s.masters.GetByID(ctx, req.MasterID)
	if err != nil {
		return nil, err
	}
	if !master.IsAvailable {
		return nil, ErrMasterUnavailable
	}

	total := decimal.Zero
	items := make([]*models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		service, err := s.catalog.GetActiveForMaster(ctx, item.ServiceID, master.ID)
		if err != nil {
			if errors.Is(err, storage.ErrServiceNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrServiceUnavailable, item.ServiceID)
			}
			return nil, fmt.Errorf("lookup service: %w", err)
		}

		total = total.Add(service.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		items = append(items, &models.OrderItem{
			ServiceID: service.ID,
			Quantity:  item.Quantity,
			Price:     service.Price,
		})
	}

	order := &models.Order{
		ClientID:      clientID,
		MasterID:      master.ID,
		Status:        models.OrderStatusPending,
		TotalAmount:   total,
		Description:   req.Description,
		Address:       req.Address,
		ScheduledDate: req.ScheduledDate,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.orders.CreateWithItemsTx(ctx, tx, order, items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return order.ToResponse(items), nil
}

// UpdateStatus переводит заказ в целевой статус. Права проверяются до
// допустимости перехода: запрос, запрещённый актору и одновременно
// невозможный по таблице переходов, отвечает Forbidden. Переход в
// completed в той же транзакции проставляет completed_date и
// увеличивает счётчик заказов мастера.
func (s *OrderServiceImpl) UpdateStatus(ctx context.Context, orderID, actorID uuid.UUID, role models.Role, target models.OrderStatus) (*models.OrderResponse, error) {
	if !target.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	actorMasterID, err := s.resolveMasterID(ctx, role, actorID)
	if err != nil {
		return nil, err
	}

	if !canTransitionOrder(role, actorID, order, actorMasterID, target) {
		return nil, ErrForbidden
	}

	if !CanTransition(order.Status, target) {
		return nil, &InvalidTransitionError{From: order.Status, To: target}
	}

	var completedDate *time.Time
	if target == models.OrderStatusCompleted {
		now := time.Now()
		completedDate = &now
	}

	if err := s.applyTransition(ctx, order, target, completedDate); err != nil {
		return nil, err
	}

	return s.loadOrderResponse(ctx, orderID)
}

// CancelOrder отменяет заказ через выделенный эндпоинт. В отличие от
// общей таблицы переходов здесь отмена разрешена только из pending и
// accepted независимо от роли актора.
func (s *OrderServiceImpl) CancelOrder(ctx context.Context, orderID, actorID uuid.UUID, role models.Role) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	actorMasterID, err := s.resolveMasterID(ctx, role, actorID)
	if err != nil {
		return err
	}

	if !canCancelOrder(role, actorID, order, actorMasterID) {
		return ErrForbidden
	}

	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusAccepted {
		return &InvalidTransitionError{From: order.Status, To: models.OrderStatusCancelled}
	}

	return s.applyTransition(ctx, order, models.OrderStatusCancelled, nil)
}

// applyTransition выполняет атомарный compare-and-set статуса заказа.
// Если параллельный запрос успел изменить статус, проигравший получает
// InvalidTransitionError с актуальным статусом, а не молча перезаписывает.
func (s *OrderServiceImpl) applyTransition(ctx context.Context, order *models.Order, target models.OrderStatus, completedDate *time.Time) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = s.orders.UpdateStatusTx(ctx, tx, order.ID, order.Status, target, completedDate)
	if err != nil {
		if errors.Is(err, storage.ErrOrderStatusChanged) {
			return s.concurrentTransitionError(ctx, order.ID, target)
		}
		return err
	}

	if target == models.OrderStatusCompleted {
		if err := s.masters.IncrementTotalOrdersTx(ctx, tx, order.MasterID); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// concurrentTransitionError строит InvalidTransitionError по актуальному
// статусу заказа после проигранной гонки.
func (s *OrderServiceImpl) concurrentTransitionError(ctx context.Context, orderID uuid.UUID, target models.OrderStatus) error {
	current, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	return &InvalidTransitionError{From: current.Status, To: target}
}

// GetOrder возвращает заказ с позициями с учётом прав доступа.
func (s *OrderServiceImpl) GetOrder(ctx context.Context, orderID, actorID uuid.UUID, role models.Role) (*models.OrderResponse, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	actorMasterID, err := s.resolveMasterID(ctx, role, actorID)
	if err != nil {
		return nil, err
	}

	if !canViewOrder(role, actorID, order, actorMasterID) {
		return nil, ErrForbidden
	}

	items, err := s.orders.GetItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return order.ToResponse(items), nil
}

// ListOrders возвращает заказы, видимые актору: клиент - свои, мастер -
// заказы своего профиля, админ - все (с опциональными фильтрами по
// клиенту и мастеру).
func (s *OrderServiceImpl) ListOrders(ctx context.Context, actorID uuid.UUID, role models.Role, filter models.OrderFilter) ([]*models.OrderResponse, error) {
	switch role {
	case models.RoleClient:
		filter.ClientID = &actorID
		filter.MasterID = nil
	case models.RoleMaster:
		master, err := s.masters.GetByUserID(ctx, actorID)
		if err != nil {
			if errors.Is(err, storage.ErrMasterNotFound) {
				return []*models.OrderResponse{}, nil
			}
			return nil, err
		}
		filter.MasterID = &master.ID
		filter.ClientID = nil
	case models.RoleAdmin:
		// админ видит всё, фильтры из запроса остаются как есть
	default:
		return nil, ErrForbidden
	}

	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	resp := make([]*models.OrderResponse, 0, len(orders))
	for _, order := range orders {
		items, err := s.orders.GetItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		resp = append(resp, order.ToResponse(items))
	}

	return resp, nil
}

// MasterStats возвращает статистику заказов мастера. Доступна самому
// мастеру и админу.
func (s *OrderServiceImpl) MasterStats(ctx context.Context, masterID, actorID uuid.UUID, role models.Role) (*models.MasterOrderStats, error) {
	master, err := s.masters.GetByID(ctx, masterID)
	if err != nil {
		return nil, err
	}

	if role != models.RoleAdmin && master.UserID != actorID {
		return nil, ErrForbidden
	}

	return s.orders.StatsForMaster(ctx, masterID)
}

// resolveMasterID возвращает ID профиля мастера для актора-мастера.
// Для остальных ролей профиль не ищется.
func (s *OrderServiceImpl) resolveMasterID(ctx context.Context, role models.Role, actorID uuid.UUID) (*uuid.UUID, error) {
	if role != models.RoleMaster {
		return nil, nil
	}

	master, err := s.masters.GetByUserID(ctx, actorID)
	if err != nil {
		if errors.Is(err, storage.ErrMasterNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &master.ID, nil
}

// loadOrderResponse перечитывает заказ с позициями после мутации.
func (s *OrderServiceImpl) loadOrderResponse(ctx context.Context, orderID uuid.UUID) (*models.OrderResponse, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	items, err := s.orders.GetItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return order.ToResponse(items), nil
}
