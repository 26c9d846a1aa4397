package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
)

const orderColumns = `id, job_id, buyer_id, consultant_id, proposal_id, total_amount,
	amount_paid, amount_pending, status, completion_requested_by, completion_requested_at,
	completion_message, completed_at, cancelled_at, created_at, updated_at`

type OrderRepositoryAdapter struct {
	q querier
}

func (r *OrderRepositoryAdapter) Create(ctx context.Context, order *entity.Order) error {
	if err := order.CheckLedger(); err != nil {
		return err
	}

	row := newOrderRow(order)
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.q.ExecContext(ctx, query,
		row.ID, row.JobID, row.BuyerID, row.ConsultantID, row.ProposalID, row.TotalAmount,
		row.AmountPaid, row.AmountPending, row.Status, row.RequestedBy, row.RequestedAt,
		row.Message, row.CompletedAt, row.CancelledAt, row.CreatedAt, row.UpdatedAt,
	)
	return mapError(err, nil, "не удалось создать сделку")
}

// Update сохраняет изменяемую часть сделки. Сумма сделки и участники неизменны.
func (r *OrderRepositoryAdapter) Update(ctx context.Context, order *entity.Order) error {
	if err := order.CheckLedger(); err != nil {
		return err
	}

	row := newOrderRow(order)
	query := `
		UPDATE orders SET
			amount_paid = $2, amount_pending = $3, status = $4,
			completion_requested_by = $5, completion_requested_at = $6, completion_message = $7,
			completed_at = $8, cancelled_at = $9, updated_at = $10
		WHERE id = $1
	`
	res, err := r.q.ExecContext(ctx, query,
		row.ID, row.AmountPaid, row.AmountPending, row.Status,
		row.RequestedBy, row.RequestedAt, row.Message,
		row.CompletedAt, row.CancelledAt, row.UpdatedAt,
	)
	if err != nil {
		return mapError(err, nil, "не удалось обновить сделку")
	}
	return expectRow(res, apperror.ErrOrderNotFound)
}

func (r *OrderRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return r.findOne(ctx, id, "")
}

func (r *OrderRepositoryAdapter) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return r.findOne(ctx, id, " FOR UPDATE")
}

func (r *OrderRepositoryAdapter) findOne(ctx context.Context, id uuid.UUID, lock string) (*entity.Order, error) {
	var row orderRow
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1` + lock
	if err := r.q.GetContext(ctx, &row, query, id); err != nil {
		return nil, mapError(err, apperror.ErrOrderNotFound, "не удалось получить сделку")
	}
	return row.toEntity()
}

func (r *OrderRepositoryAdapter) FindByParticipant(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	var rows []orderRow
	query := `
		SELECT ` + orderColumns + ` FROM orders
		WHERE buyer_id = $1 OR consultant_id = $1
		ORDER BY created_at DESC
	`
	if err := r.q.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, mapError(err, nil, "не удалось получить сделки")
	}

	orders := make([]*entity.Order, len(rows))
	for i := range rows {
		o, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		orders[i] = o
	}
	return orders, nil
}

type orderRow struct {
	ID            uuid.UUID  `db:"id"`
	JobID         uuid.UUID  `db:"job_id"`
	BuyerID       uuid.UUID  `db:"buyer_id"`
	ConsultantID  uuid.UUID  `db:"consultant_id"`
	ProposalID    uuid.UUID  `db:"proposal_id"`
	TotalAmount   int64      `db:"total_amount"`
	AmountPaid    int64      `db:"amount_paid"`
	AmountPending int64      `db:"amount_pending"`
	Status        string     `db:"status"`
	RequestedBy   *string    `db:"completion_requested_by"`
	RequestedAt   *time.Time `db:"completion_requested_at"`
	Message       *string    `db:"completion_message"`
	CompletedAt   *time.Time `db:"completed_at"`
	CancelledAt   *time.Time `db:"cancelled_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

func newOrderRow(o *entity.Order) orderRow {
	row := orderRow{
		ID:            o.ID,
		JobID:         o.JobID,
		BuyerID:       o.BuyerID,
		ConsultantID:  o.ConsultantID,
		ProposalID:    o.ProposalID,
		TotalAmount:   o.TotalAmount,
		AmountPaid:    o.AmountPaid,
		AmountPending: o.AmountPending,
		Status:        string(o.Status),
		CompletedAt:   o.CompletedAt,
		CancelledAt:   o.CancelledAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if req := o.CompletionRequest; req != nil {
		by := string(req.RequestedBy)
		at := req.RequestedAt
		msg := req.Message
		row.RequestedBy, row.RequestedAt, row.Message = &by, &at, &msg
	}
	return row
}

func (r *orderRow) toEntity() (*entity.Order, error) {
	status, err := valueobject.NewOrderStatus(r.Status)
	if err != nil {
		return nil, corruptRow(err)
	}
	o := &entity.Order{
		ID:            r.ID,
		JobID:         r.JobID,
		BuyerID:       r.BuyerID,
		ConsultantID:  r.ConsultantID,
		ProposalID:    r.ProposalID,
		TotalAmount:   r.TotalAmount,
		AmountPaid:    r.AmountPaid,
		AmountPending: r.AmountPending,
		Status:        status,
		CompletedAt:   r.CompletedAt,
		CancelledAt:   r.CancelledAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.RequestedBy != nil && r.RequestedAt != nil {
		o.CompletionRequest = &entity.CompletionRequest{
			RequestedBy: valueobject.Role(*r.RequestedBy),
			RequestedAt: *r.RequestedAt,
		}
		if r.Message != nil {
			o.CompletionRequest.Message = *r.Message
		}
	}
	return o, nil
}
