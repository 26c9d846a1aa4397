package job

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/repository"
	"github.com/ignatzorin/consulting-marketplace/internal/logger"
	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/consulting-marketplace/internal/usecase/notify"
)

var errJobNotCancellable = apperror.New(apperror.ErrCodeConflict, "отменить можно только открытый заказ")

// CancelJobUseCase закрывает открытый заказ и отклоняет все ожидающие отклики.
// Заказ не удаляется.
type CancelJobUseCase struct {
	txManager  repository.TxManager
	dispatcher *notify.Dispatcher
}

func NewCancelJobUseCase(txManager repository.TxManager, dispatcher *notify.Dispatcher) *CancelJobUseCase {
	return &CancelJobUseCase{
		txManager:  txManager,
		dispatcher: dispatcher,
	}
}

func (uc *CancelJobUseCase) Execute(ctx context.Context, jobID, buyerID uuid.UUID) (*entity.Job, error) {
	var (
		job      *entity.Job
		rejected []*entity.Proposal
	)

	err := uc.txManager.WithinTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		job, err = repos.Jobs.FindByIDForUpdate(ctx, jobID)
		if err != nil {
			return err
		}

		if !job.IsOwnedBy(buyerID) {
			return apperror.ErrForbidden
		}
		if !job.IsOpen() {
			return errJobNotCancellable
		}

		if err := job.Cancel(); err != nil {
			return err
		}
		if err := repos.Jobs.Update(ctx, job); err != nil {
			return apperror.Ensure(err, apperror.ErrCodeDatabaseError, "не удалось обновить заказ")
		}

		rejected, err = repos.Proposals.RejectPendingByJob(ctx, jobID, uuid.Nil)
		if err != nil {
			return apperror.Ensure(err, apperror.ErrCodeDatabaseError, "не удалось отклонить предложения")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"job_id":   job.ID,
		"rejected": len(rejected),
	}).Info("заказ отменён")

	for _, p := range rejected {
		uc.dispatcher.Send(ctx, p.ConsultantID, entity.EventProposalRejected, map[string]interface{}{
			"proposal_id": p.ID,
			"job_id":      job.ID,
		})
	}

	return job, nil
}
