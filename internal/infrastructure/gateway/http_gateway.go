package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/repository"
	"github.com/ignatzorin/consulting-marketplace/internal/logger"
)

const (
	breakerConsecutiveFailures = 5
	breakerOpenTimeout         = 30 * time.Second
	maxErrorBody               = 4 << 10
)

// HTTPGateway списывает средства через внешний платёжный шлюз. Повторный
// запрос с тем же Idempotency-Key шлюз не исполняет второй раз.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewHTTPGateway(baseURL string, timeout time.Duration) *HTTPGateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	settings := gobreaker.Settings{
		Name:    "payment-gateway",
		Timeout: breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerConsecutiveFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("состояние предохранителя платёжного шлюза изменилось")
		},
	}

	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

type chargeBody struct {
	OrderID uuid.UUID `json:"order_id"`
	PayerID uuid.UUID `json:"payer_id"`
	PayeeID uuid.UUID `json:"payee_id"`
	Amount  int64     `json:"amount"`
}

type chargeResponse struct {
	ID string `json:"id"`
}

// Charge возвращает идентификатор операции в шлюзе.
func (g *HTTPGateway) Charge(ctx context.Context, req repository.ChargeRequest) (string, error) {
	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.doCharge(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("payment gateway unavailable: %w", err)
		}
		return "", err
	}
	return result.(string), nil
}

func (g *HTTPGateway) doCharge(ctx context.Context, req repository.ChargeRequest) (string, error) {
	body, err := json.Marshal(chargeBody{
		OrderID: req.OrderID,
		PayerID: req.PayerID,
		PayeeID: req.PayeeID,
		Amount:  req.Amount,
	})
	if err != nil {
		return "", fmt.Errorf("marshal charge: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("charge request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("charge rejected: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode charge response: %w", err)
	}
	if out.ID == "" {
		return "", errors.New("charge response without id")
	}
	return out.ID, nil
}
