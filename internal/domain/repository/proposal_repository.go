package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
)

type ProposalRepository interface {
	// Create полагается на уникальность (job_id, consultant_id) в хранилище:
	// повторный отклик возвращает apperror.ErrDuplicateProposal.
	Create(ctx context.Context, proposal *entity.Proposal) error
	Update(ctx context.Context, proposal *entity.Proposal) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Proposal, error)
	FindByJobID(ctx context.Context, jobID uuid.UUID) ([]*entity.Proposal, error)
	FindByConsultantID(ctx context.Context, consultantID uuid.UUID) ([]*entity.Proposal, error)
	// RejectPendingByJob отклоняет все ожидающие предложения заказа, кроме exceptID,
	// и возвращает отклонённые.
	RejectPendingByJob(ctx context.Context, jobID, exceptID uuid.UUID) ([]*entity.Proposal, error)
}
