package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
)

type NotificationRepositoryAdapter struct {
	db *sqlx.DB
}

func NewNotificationRepositoryAdapter(db *sqlx.DB) *NotificationRepositoryAdapter {
	return &NotificationRepositoryAdapter{db: db}
}

func (r *NotificationRepositoryAdapter) Create(ctx context.Context, n *entity.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	payload := []byte(n.Payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	query := `
		INSERT INTO notifications (id, user_id, event, payload, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, n.ID, n.UserID, n.Event, payload, n.IsRead, n.CreatedAt)
	return mapError(err, nil, "не удалось сохранить уведомление")
}

func (r *NotificationRepositoryAdapter) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []notificationRow
	query := `
		SELECT id, user_id, event, payload, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit); err != nil {
		return nil, mapError(err, nil, "не удалось получить уведомления")
	}

	list := make([]*entity.Notification, len(rows))
	for i, row := range rows {
		list[i] = &entity.Notification{
			ID:        row.ID,
			UserID:    row.UserID,
			Event:     row.Event,
			Payload:   row.Payload,
			IsRead:    row.IsRead,
			CreatedAt: row.CreatedAt,
		}
	}
	return list, nil
}

type notificationRow struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Event     string    `db:"event"`
	Payload   []byte    `db:"payload"`
	IsRead    bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"`
}
