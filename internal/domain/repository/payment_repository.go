package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
)

type PaymentRepository interface {
	// Create возвращает Conflict при повторном ключе идемпотентности для сделки.
	Create(ctx context.Context, payment *entity.PaymentRelease) error
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*entity.PaymentRelease, error)
	FindByIdempotencyKey(ctx context.Context, orderID uuid.UUID, key string) (*entity.PaymentRelease, error)
}
