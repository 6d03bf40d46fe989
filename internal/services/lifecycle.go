package services

import (
	"fmt"

	"github.com/agamariel/mastermarket/internal/models"
)

// orderTransitions - статическая таблица допустимых переходов статуса
// заказа. Ключ - текущий статус, значение - множество целевых.
// Статусы completed и cancelled терминальные: из них переходов нет.
var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:    {models.OrderStatusAccepted, models.OrderStatusCancelled},
	models.OrderStatusAccepted:   {models.OrderStatusInProgress, models.OrderStatusCancelled},
	models.OrderStatusInProgress: {models.OrderStatusCompleted, models.OrderStatusCancelled},
	models.OrderStatusCompleted:  {},
	models.OrderStatusCancelled:  {},
}

// CanTransition сообщает, допустим ли переход заказа из статуса from в to.
func CanTransition(from, to models.OrderStatus) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// AllowedTransitions возвращает допустимые целевые статусы из from.
func AllowedTransitions(from models.OrderStatus) []models.OrderStatus {
	targets := orderTransitions[from]
	out := make([]models.OrderStatus, len(targets))
	copy(out, targets)
	return out
}

// InvalidTransitionError возвращается при недопустимом переходе статуса
// и несёт текущий и запрошенный статусы для сообщения клиенту.
type InvalidTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change status from %s to %s", e.From, e.To)
}
