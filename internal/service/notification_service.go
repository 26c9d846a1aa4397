package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
)

// NotificationRepository описывает взаимодействие сервиса с хранилищем уведомлений.
type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Notification, error)
}

// NotificationService сохраняет уведомления участников сделки. Реализует
// repository.Notifier, поэтому используется диспетчером уведомлений.
type NotificationService struct {
	repo NotificationRepository
}

func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// Notify создаёт уведомление с событием и данными в payload.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, event string, data interface{}) error {
	payload := map[string]interface{}{
		"event": event,
		"data":  data,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notification service: marshal payload %w", err)
	}

	return s.repo.Create(ctx, &entity.Notification{
		UserID:  userID,
		Event:   event,
		Payload: payloadBytes,
	})
}

// List возвращает последние уведомления пользователя.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByUser(ctx, userID, limit)
}
