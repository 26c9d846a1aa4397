package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
)

type OrderRepository interface {
	// Create возвращает Conflict, если сделка по заказу или предложению уже существует.
	Create(ctx context.Context, order *entity.Order) error
	Update(ctx context.Context, order *entity.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	// FindByIDForUpdate читает сделку с эксклюзивной блокировкой до конца транзакции.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	FindByParticipant(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)
}
