package gateway

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/repository"
	"github.com/ignatzorin/consulting-marketplace/internal/logger"
)

// LedgerGateway - локальный шлюз для разработки. Запоминает операции по ключу
// идемпотентности и на повтор отдаёт прежний идентификатор.
type LedgerGateway struct {
	mu      sync.Mutex
	charges map[string]string
	totals  map[uuid.UUID]int64
}

func NewLedgerGateway() *LedgerGateway {
	return &LedgerGateway{
		charges: make(map[string]string),
		totals:  make(map[uuid.UUID]int64),
	}
}

func (g *LedgerGateway) Charge(ctx context.Context, req repository.ChargeRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if ref, ok := g.charges[req.IdempotencyKey]; ok {
		return ref, nil
	}

	ref := "local_" + uuid.NewString()
	g.charges[req.IdempotencyKey] = ref
	g.totals[req.PayeeID] += req.Amount

	logger.WithOp("LedgerGateway.Charge").
		WithField("order_id", req.OrderID).
		WithField("amount", req.Amount).
		Info("списание проведено локально")
	return ref, nil
}

// Received возвращает сумму, зачисленную получателю.
func (g *LedgerGateway) Received(payeeID uuid.UUID) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.totals[payeeID]
}
