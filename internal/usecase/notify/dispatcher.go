// Package notify рассылает события движка сделок после фиксации транзакции.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/repository"
	"github.com/ignatzorin/consulting-marketplace/internal/goroutine"
	"github.com/ignatzorin/consulting-marketplace/internal/logger"
)

const defaultTimeout = 5 * time.Second

// Dispatcher доставляет уведомления по принципу fire-and-forget: ошибка
// доставки только логируется. Nil-диспетчер ничего не делает.
type Dispatcher struct {
	notifier repository.Notifier
	timeout  time.Duration
	async    bool
}

func NewDispatcher(notifier repository.Notifier, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Dispatcher{notifier: notifier, timeout: timeout, async: true}
}

// NewSyncDispatcher доставляет уведомление в вызывающей горутине.
func NewSyncDispatcher(notifier repository.Notifier) *Dispatcher {
	return &Dispatcher{notifier: notifier, timeout: defaultTimeout}
}

func (d *Dispatcher) Send(ctx context.Context, userID uuid.UUID, event string, data map[string]interface{}) {
	if d == nil || d.notifier == nil {
		return
	}

	deliver := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		if err := d.notifier.Notify(ctx, userID, event, data); err != nil {
			logger.Log.WithFields(logrus.Fields{
				"user_id": userID,
				"event":   event,
			}).WithError(err).Warn("не удалось доставить уведомление")
		}
	}

	if !d.async {
		deliver(context.WithoutCancel(ctx))
		return
	}
	goroutine.SafeGoWithContext(ctx, deliver)
}
