package repository

import (
	"context"

	"github.com/google/uuid"
)

// Notifier доставляет события участникам сделки. Ошибка доставки никогда не
// откатывает уже зафиксированный переход.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, event string, data interface{}) error
}

type ChargeRequest struct {
	OrderID        uuid.UUID
	PayerID        uuid.UUID
	PayeeID        uuid.UUID
	Amount         int64
	IdempotencyKey string
}

// PaymentGateway переводит деньги от заказчика консультанту и возвращает
// ссылку на операцию во внешней системе.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (string, error)
}
