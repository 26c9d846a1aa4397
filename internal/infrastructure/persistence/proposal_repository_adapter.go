package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
)

const proposalColumns = `id, job_id, consultant_id, bid_amount, delivery_time, cover_letter,
	status, created_at, updated_at`

type ProposalRepositoryAdapter struct {
	q querier
}

func (r *ProposalRepositoryAdapter) Create(ctx context.Context, proposal *entity.Proposal) error {
	query := `
		INSERT INTO proposals (` + proposalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.q.ExecContext(ctx, query,
		proposal.ID, proposal.JobID, proposal.ConsultantID, proposal.BidAmount,
		proposal.DeliveryTime, proposal.CoverLetter, string(proposal.Status),
		proposal.CreatedAt, proposal.UpdatedAt,
	)
	return mapError(err, nil, "не удалось создать предложение")
}

func (r *ProposalRepositoryAdapter) Update(ctx context.Context, proposal *entity.Proposal) error {
	query := `UPDATE proposals SET status = $2, updated_at = $3 WHERE id = $1`
	res, err := r.q.ExecContext(ctx, query, proposal.ID, string(proposal.Status), proposal.UpdatedAt)
	if err != nil {
		return mapError(err, nil, "не удалось обновить предложение")
	}
	return expectRow(res, apperror.ErrProposalNotFound)
}

func (r *ProposalRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Proposal, error) {
	var row proposalRow
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE id = $1`
	if err := r.q.GetContext(ctx, &row, query, id); err != nil {
		return nil, mapError(err, apperror.ErrProposalNotFound, "не удалось получить предложение")
	}
	return row.toEntity()
}

func (r *ProposalRepositoryAdapter) FindByJobID(ctx context.Context, jobID uuid.UUID) ([]*entity.Proposal, error) {
	return r.selectMany(ctx, `SELECT `+proposalColumns+` FROM proposals WHERE job_id = $1 ORDER BY created_at`, jobID)
}

func (r *ProposalRepositoryAdapter) FindByConsultantID(ctx context.Context, consultantID uuid.UUID) ([]*entity.Proposal, error) {
	return r.selectMany(ctx, `SELECT `+proposalColumns+` FROM proposals WHERE consultant_id = $1 ORDER BY created_at DESC`, consultantID)
}

func (r *ProposalRepositoryAdapter) RejectPendingByJob(ctx context.Context, jobID, exceptID uuid.UUID) ([]*entity.Proposal, error) {
	query := `
		UPDATE proposals SET status = $3, updated_at = NOW()
		WHERE job_id = $1 AND id <> $2 AND status = $4
		RETURNING ` + proposalColumns
	return r.selectMany(ctx, query, jobID, exceptID,
		string(valueobject.ProposalStatusRejected), string(valueobject.ProposalStatusPending))
}

func (r *ProposalRepositoryAdapter) selectMany(ctx context.Context, query string, args ...interface{}) ([]*entity.Proposal, error) {
	var rows []proposalRow
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, mapError(err, nil, "не удалось получить предложения")
	}

	proposals := make([]*entity.Proposal, len(rows))
	for i := range rows {
		p, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		proposals[i] = p
	}
	return proposals, nil
}

type proposalRow struct {
	ID           uuid.UUID `db:"id"`
	JobID        uuid.UUID `db:"job_id"`
	ConsultantID uuid.UUID `db:"consultant_id"`
	BidAmount    int64     `db:"bid_amount"`
	DeliveryTime string    `db:"delivery_time"`
	CoverLetter  string    `db:"cover_letter"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r *proposalRow) toEntity() (*entity.Proposal, error) {
	status, err := valueobject.NewProposalStatus(r.Status)
	if err != nil {
		return nil, corruptRow(err)
	}
	return &entity.Proposal{
		ID:           r.ID,
		JobID:        r.JobID,
		ConsultantID: r.ConsultantID,
		BidAmount:    r.BidAmount,
		DeliveryTime: r.DeliveryTime,
		CoverLetter:  r.CoverLetter,
		Status:       status,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}
