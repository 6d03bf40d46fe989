package services

import (
	"github.com/agamariel/mastermarket/internal/models"
	"github.com/google/uuid"
)

// Единая точка принятия решений о правах доступа. Ролевые проверки
// намеренно собраны здесь, а не размазаны по обработчикам, чтобы
// правила create/update/delete не расходились между собой.

// canTransitionOrder решает, может ли актор перевести заказ в target.
// Админ и мастер-владелец заказа могут выполнять любой допустимый
// переход; клиент-владелец - только отменить заказ в статусе pending.
func canTransitionOrder(role models.Role, actorID uuid.UUID, order *models.Order, actorMasterID *uuid.UUID, target models.OrderStatus) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleMaster:
		return actorMasterID != nil && *actorMasterID == order.MasterID
	case models.RoleClient:
		return order.ClientID == actorID &&
			order.Status == models.OrderStatusPending &&
			target == models.OrderStatusCancelled
	}
	return false
}

// canCancelOrder решает, может ли актор отменить заказ через
// выделенный эндпоинт отмены. Ограничение по исходному статусу
// проверяется отдельно в сервисе.
func canCancelOrder(role models.Role, actorID uuid.UUID, order *models.Order, actorMasterID *uuid.UUID) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleMaster:
		return actorMasterID != nil && *actorMasterID == order.MasterID
	case models.RoleClient:
		return order.ClientID == actorID
	}
	return false
}

// canViewOrder решает, может ли актор видеть заказ.
func canViewOrder(role models.Role, actorID uuid.UUID, order *models.Order, actorMasterID *uuid.UUID) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleMaster:
		return actorMasterID != nil && *actorMasterID == order.MasterID
	case models.RoleClient:
		return order.ClientID == actorID
	}
	return false
}

// canMutateReview решает, может ли актор изменить или удалить отзыв:
// только автор отзыва или админ.
func canMutateReview(role models.Role, actorID uuid.UUID, review *models.Review) bool {
	return role == models.RoleAdmin || review.ClientID == actorID
}
