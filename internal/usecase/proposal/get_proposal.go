package proposal

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/repository"
	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
)

// GetProposalUseCase отдаёт предложение автору или владельцу заказа.
type GetProposalUseCase struct {
	proposalRepo repository.ProposalRepository
	jobRepo      repository.JobRepository
}

func NewGetProposalUseCase(proposalRepo repository.ProposalRepository, jobRepo repository.JobRepository) *GetProposalUseCase {
	return &GetProposalUseCase{
		proposalRepo: proposalRepo,
		jobRepo:      jobRepo,
	}
}

func (uc *GetProposalUseCase) Execute(ctx context.Context, proposalID, userID uuid.UUID) (*entity.Proposal, error) {
	proposal, err := uc.proposalRepo.FindByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	if proposal.IsOwnedBy(userID) {
		return proposal, nil
	}

	job, err := uc.jobRepo.FindByID(ctx, proposal.JobID)
	if err != nil {
		return nil, err
	}
	if !job.IsOwnedBy(userID) {
		return nil, apperror.ErrForbidden
	}

	return proposal, nil
}

type ListMyProposalsUseCase struct {
	proposalRepo repository.ProposalRepository
}

func NewListMyProposalsUseCase(proposalRepo repository.ProposalRepository) *ListMyProposalsUseCase {
	return &ListMyProposalsUseCase{proposalRepo: proposalRepo}
}

func (uc *ListMyProposalsUseCase) Execute(ctx context.Context, consultantID uuid.UUID) ([]*entity.Proposal, error) {
	return uc.proposalRepo.FindByConsultantID(ctx, consultantID)
}
