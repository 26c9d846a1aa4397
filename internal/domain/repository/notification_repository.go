package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Notification, error)
}
