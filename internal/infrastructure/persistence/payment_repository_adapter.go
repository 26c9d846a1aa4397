package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
)

const paymentColumns = `id, order_id, buyer_id, consultant_id, amount, gateway_ref, idempotency_key, created_at`

type PaymentRepositoryAdapter struct {
	q querier
}

func (r *PaymentRepositoryAdapter) Create(ctx context.Context, payment *entity.PaymentRelease) error {
	query := `INSERT INTO payment_releases (` + paymentColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.ExecContext(ctx, query,
		payment.ID, payment.OrderID, payment.BuyerID, payment.ConsultantID,
		payment.Amount, payment.GatewayRef, payment.IdempotencyKey, payment.CreatedAt,
	)
	return mapError(err, nil, "не удалось сохранить выплату")
}

func (r *PaymentRepositoryAdapter) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*entity.PaymentRelease, error) {
	var rows []paymentRow
	query := `SELECT ` + paymentColumns + ` FROM payment_releases WHERE order_id = $1 ORDER BY created_at`
	if err := r.q.SelectContext(ctx, &rows, query, orderID); err != nil {
		return nil, mapError(err, nil, "не удалось получить выплаты")
	}

	payments := make([]*entity.PaymentRelease, len(rows))
	for i := range rows {
		payments[i] = rows[i].toEntity()
	}
	return payments, nil
}

func (r *PaymentRepositoryAdapter) FindByIdempotencyKey(ctx context.Context, orderID uuid.UUID, key string) (*entity.PaymentRelease, error) {
	var row paymentRow
	query := `SELECT ` + paymentColumns + ` FROM payment_releases WHERE order_id = $1 AND idempotency_key = $2`
	if err := r.q.GetContext(ctx, &row, query, orderID, key); err != nil {
		return nil, mapError(err, apperror.ErrPaymentNotFound, "не удалось получить выплату")
	}
	return row.toEntity(), nil
}

type paymentRow struct {
	ID             uuid.UUID `db:"id"`
	OrderID        uuid.UUID `db:"order_id"`
	BuyerID        uuid.UUID `db:"buyer_id"`
	ConsultantID   uuid.UUID `db:"consultant_id"`
	Amount         int64     `db:"amount"`
	GatewayRef     string    `db:"gateway_ref"`
	IdempotencyKey string    `db:"idempotency_key"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r *paymentRow) toEntity() *entity.PaymentRelease {
	return &entity.PaymentRelease{
		ID:             r.ID,
		OrderID:        r.OrderID,
		BuyerID:        r.BuyerID,
		ConsultantID:   r.ConsultantID,
		Amount:         r.Amount,
		GatewayRef:     r.GatewayRef,
		IdempotencyKey: r.IdempotencyKey,
		CreatedAt:      r.CreatedAt,
	}
}
