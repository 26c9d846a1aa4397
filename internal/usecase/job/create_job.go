package job

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/repository"
	"github.com/ignatzorin/consulting-marketplace/internal/logger"
	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
)

type CreateJobInput struct {
	BuyerID     uuid.UUID
	Title       string
	Category    string
	Description string
	BudgetMin   int64
	BudgetMax   int64
	Timeline    string
	Location    string
}

type CreateJobUseCase struct {
	jobRepo repository.JobRepository
}

func NewCreateJobUseCase(jobRepo repository.JobRepository) *CreateJobUseCase {
	return &CreateJobUseCase{jobRepo: jobRepo}
}

func (uc *CreateJobUseCase) Execute(ctx context.Context, input CreateJobInput) (*entity.Job, error) {
	job, err := entity.NewJob(
		input.BuyerID,
		input.Title,
		input.Category,
		input.Description,
		input.BudgetMin,
		input.BudgetMax,
		input.Timeline,
		input.Location,
	)
	if err != nil {
		return nil, err
	}

	if err := uc.jobRepo.Create(ctx, job); err != nil {
		return nil, apperror.Ensure(err, apperror.ErrCodeDatabaseError, "не удалось создать заказ")
	}

	logger.Log.WithFields(logrus.Fields{
		"job_id":   job.ID,
		"buyer_id": job.BuyerID,
	}).Info("заказ опубликован")

	return job, nil
}
