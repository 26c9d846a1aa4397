package job

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/repository"
	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
)

type GetJobUseCase struct {
	jobRepo repository.JobRepository
}

func NewGetJobUseCase(jobRepo repository.JobRepository) *GetJobUseCase {
	return &GetJobUseCase{jobRepo: jobRepo}
}

func (uc *GetJobUseCase) Execute(ctx context.Context, jobID uuid.UUID) (*entity.Job, error) {
	return uc.jobRepo.FindByID(ctx, jobID)
}

type ListBuyerJobsUseCase struct {
	jobRepo repository.JobRepository
}

func NewListBuyerJobsUseCase(jobRepo repository.JobRepository) *ListBuyerJobsUseCase {
	return &ListBuyerJobsUseCase{jobRepo: jobRepo}
}

func (uc *ListBuyerJobsUseCase) Execute(ctx context.Context, buyerID uuid.UUID) ([]*entity.Job, error) {
	return uc.jobRepo.FindByBuyerID(ctx, buyerID)
}

// ListJobProposalsUseCase показывает отклики только владельцу заказа.
type ListJobProposalsUseCase struct {
	jobRepo      repository.JobRepository
	proposalRepo repository.ProposalRepository
}

func NewListJobProposalsUseCase(jobRepo repository.JobRepository, proposalRepo repository.ProposalRepository) *ListJobProposalsUseCase {
	return &ListJobProposalsUseCase{
		jobRepo:      jobRepo,
		proposalRepo: proposalRepo,
	}
}

func (uc *ListJobProposalsUseCase) Execute(ctx context.Context, jobID, buyerID uuid.UUID) ([]*entity.Proposal, error) {
	job, err := uc.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if !job.IsOwnedBy(buyerID) {
		return nil, apperror.ErrForbidden
	}

	return uc.proposalRepo.FindByJobID(ctx, jobID)
}
