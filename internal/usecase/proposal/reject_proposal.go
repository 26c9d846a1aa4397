package proposal

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

// RejectProposalUseCase отклоняет одно предложение. Заказ и остальные отклики
// не меняются, но блокировка строки заказа (job) берётся, чтобы отказ не разошёлся с
// параллельным принятием того же предложения.
type RejectProposalUseCase struct {
	txManager  repository.TxManager
	dispatcher *notify.Dispatcher
}

func NewRejectProposalUseCase(txManager repository.TxManager, dispatcher *notify.Dispatcher) *RejectProposalUseCase {
	return &RejectProposalUseCase{
		txManager:  txManager,
		dispatcher: dispatcher,
	}
}

func (uc *RejectProposalUseCase) Execute(ctx context.Context, proposalID, buyerID uuid.UUID) (*entity.Proposal, error) {
	var proposal *entity.Proposal

	err := uc.txManager.WithinTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		target, err := repos.Proposals.FindByID(ctx, proposalID)
		if err != nil {
			return err
		}

		job, err := repos.Jobs.FindByIDForUpdate(ctx, target.JobID)
		if err != nil {
			return err
		}
		if !job.IsOwnedBy(buyerID) {
			return apperror.ErrForbidden
		}

		proposal, err = repos.Proposals.FindByID(ctx, proposalID)
		if err != nil {
			return err
		}
		if err := proposal.Reject(); err != nil {
			return err
		}
		if err := repos.Proposals.Update(ctx, proposal); err != nil {
			return apperror.Ensure(err, apperror.ErrCodeDatabaseError, "не удалось отклонить предложение")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"proposal_id": proposal.ID,
		"job_id":      proposal.JobID,
	}).Info("предложение отклонено")

	uc.dispatcher.Send(ctx, proposal.ConsultantID, entity.EventProposalRejected, map[string]interface{}{
		"proposal_id": proposal.ID,
		"job_id":      proposal.JobID,
	})

	return proposal, nil
}
