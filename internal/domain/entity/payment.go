package entity

import (
	"time"

	"github.com/google/uuid"
)

// PaymentRelease - запись об одной выплате по сделке.
type PaymentRelease struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	BuyerID        uuid.UUID
	ConsultantID   uuid.UUID
	Amount         int64
	GatewayRef     string
	IdempotencyKey string
	CreatedAt      time.Time
}

func NewPaymentRelease(order *Order, amount int64, gatewayRef string, idempotencyKey string) *PaymentRelease {
	return &PaymentRelease{
		ID:             uuid.New(),
		OrderID:        order.ID,
		BuyerID:        order.BuyerID,
		ConsultantID:   order.ConsultantID,
		Amount:         amount,
		GatewayRef:     gatewayRef,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      time.Now().UTC(),
	}
}
