package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
)

type NotificationRepository struct {
	mu     sync.RWMutex
	byUser map[uuid.UUID][]*entity.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{byUser: make(map[uuid.UUID][]*entity.Notification)}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}

	c := *notification
	r.mu.Lock()
	r.byUser[c.UserID] = append(r.byUser[c.UserID], &c)
	r.mu.Unlock()
	return nil
}

// ListByUser возвращает уведомления пользователя, начиная с последних.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.byUser[userID]
	result := make([]*entity.Notification, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		if limit > 0 && len(result) == limit {
			break
		}
		c := *list[i]
		result = append(result, &c)
	}
	return result, nil
}
