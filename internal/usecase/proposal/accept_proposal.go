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

type AcceptResult struct {
	Proposal *entity.Proposal
	Order    *entity.Order
}

// AcceptProposalUseCase атомарно принимает предложение: остальные ожидающие
// отклики отклоняются, заказ переходит в работу и создаётся ровно одна сделка.
type AcceptProposalUseCase struct {
	txManager  repository.TxManager
	dispatcher *notify.Dispatcher
}

func NewAcceptProposalUseCase(txManager repository.TxManager, dispatcher *notify.Dispatcher) *AcceptProposalUseCase {
	return &AcceptProposalUseCase{
		txManager:  txManager,
		dispatcher: dispatcher,
	}
}

func (uc *AcceptProposalUseCase) Execute(ctx context.Context, proposalID, buyerID uuid.UUID) (*AcceptResult, error) {
	var (
		result   *AcceptResult
		rejected []*entity.Proposal
	)

	err := uc.txManager.WithinTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		target, err := repos.Proposals.FindByID(ctx, proposalID)
		if err != nil {
			return err
		}

		// Все решения ниже принимаются под эксклюзивной блокировкой строки заказа (job).
		job, err := repos.Jobs.FindByIDForUpdate(ctx, target.JobID)
		if err != nil {
			return err
		}
		if !job.IsOwnedBy(buyerID) {
			return apperror.ErrForbidden
		}
		if !job.IsOpen() {
			return apperror.New(apperror.ErrCodeConflict, "по заказу уже принято другое предложение или он отменён")
		}

		proposal, err := repos.Proposals.FindByID(ctx, proposalID)
		if err != nil {
			return err
		}
		if err := proposal.Accept(); err != nil {
			return err
		}
		if err := repos.Proposals.Update(ctx, proposal); err != nil {
			return apperror.Ensure(err, apperror.ErrCodeDatabaseError, "не удалось принять предложение")
		}

		rejected, err = repos.Proposals.RejectPendingByJob(ctx, job.ID, proposal.ID)
		if err != nil {
			return apperror.Ensure(err, apperror.ErrCodeDatabaseError, "не удалось отклонить остальные предложения")
		}

		if err := job.StartWork(); err != nil {
			return err
		}
		if err := repos.Jobs.Update(ctx, job); err != nil {
			return apperror.Ensure(err, apperror.ErrCodeDatabaseError, "не удалось обновить статус заказа")
		}

		order, err := entity.NewOrderFromProposal(job, proposal)
		if err != nil {
			return err
		}
		if err := repos.Orders.Create(ctx, order); err != nil {
			return apperror.Ensure(err, apperror.ErrCodeDatabaseError, "не удалось создать сделку")
		}

		result = &AcceptResult{Proposal: proposal, Order: order}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"proposal_id":  result.Proposal.ID,
		"job_id":       result.Order.JobID,
		"order_id":     result.Order.ID,
		"total_amount": result.Order.TotalAmount,
		"rejected":     len(rejected),
	}).Info("предложение принято, сделка создана")

	uc.dispatcher.Send(ctx, result.Proposal.ConsultantID, entity.EventProposalAccepted, map[string]interface{}{
		"proposal_id": result.Proposal.ID,
		"order_id":    result.Order.ID,
	})
	for _, p := range rejected {
		uc.dispatcher.Send(ctx, p.ConsultantID, entity.EventProposalRejected, map[string]interface{}{
			"proposal_id": p.ID,
			"job_id":      p.JobID,
		})
	}

	return result, nil
}
