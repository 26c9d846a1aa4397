// Package usecasetest содержит общие заготовки для тестов сценариев сделки.
package usecasetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/repository"
	"github.com/ignatzorin/consulting-marketplace/internal/infrastructure/memory"
)

type Event struct {
	UserID uuid.UUID
	Name   string
	Data   interface{}
}

// RecordingNotifier запоминает все уведомления.
type RecordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (n *RecordingNotifier) Notify(ctx context.Context, userID uuid.UUID, event string, data interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, Event{UserID: userID, Name: event, Data: data})
	return nil
}

func (n *RecordingNotifier) EventsFor(userID uuid.UUID) []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	var names []string
	for _, e := range n.events {
		if e.UserID == userID {
			names = append(names, e.Name)
		}
	}
	return names
}

func (n *RecordingNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

// FailingNotifier всегда возвращает ошибку доставки.
type FailingNotifier struct{}

func (FailingNotifier) Notify(ctx context.Context, userID uuid.UUID, event string, data interface{}) error {
	return errors.New("notification service unavailable")
}

// MockGateway - платёжный шлюз на testify/mock.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Charge(ctx context.Context, req repository.ChargeRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// SeedJob публикует открытый заказ с бюджетом 40000-60000.
func SeedJob(t *testing.T, store *memory.Store, buyerID uuid.UUID) *entity.Job {
	t.Helper()

	job, err := entity.NewJob(buyerID, "Финансовая модель", "finance", "Построить модель для инвесторов", 40000, 60000, "месяц", "remote")
	require.NoError(t, err)
	require.NoError(t, store.Repositories().Jobs.Create(context.Background(), job))
	return job
}

// SeedProposal сохраняет ожидающее предложение без проверок сценария.
func SeedProposal(t *testing.T, store *memory.Store, jobID, consultantID uuid.UUID, bid int64) *entity.Proposal {
	t.Helper()

	p, err := entity.NewProposal(jobID, consultantID, bid, "3 недели", "Делал подобное для трёх стартапов")
	require.NoError(t, err)
	require.NoError(t, store.Repositories().Proposals.Create(context.Background(), p))
	return p
}
