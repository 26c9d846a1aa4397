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

type SubmitProposalInput struct {
	JobID        uuid.UUID
	ConsultantID uuid.UUID
	BidAmount    int64
	DeliveryTime string
	CoverLetter  string
}

type SubmitProposalUseCase struct {
	txManager  repository.TxManager
	dispatcher *notify.Dispatcher
}

func NewSubmitProposalUseCase(txManager repository.TxManager, dispatcher *notify.Dispatcher) *SubmitProposalUseCase {
	return &SubmitProposalUseCase{
		txManager:  txManager,
		dispatcher: dispatcher,
	}
}

// Execute записывает отклик на открытый заказ. Дубликат отсекается ограничением
// уникальности хранилища, а разделяемая блокировка строки заказа (job) не даёт отклику
// проскочить между проверкой статуса и принятием другого предложения.
func (uc *SubmitProposalUseCase) Execute(ctx context.Context, input SubmitProposalInput) (*entity.Proposal, error) {
	if err := entity.ValidateProposalInput(input.BidAmount, input.DeliveryTime, input.CoverLetter); err != nil {
		return nil, err
	}

	var (
		job      *entity.Job
		proposal *entity.Proposal
	)

	err := uc.txManager.WithinTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		job, err = repos.Jobs.FindByIDForShare(ctx, input.JobID)
		if err != nil {
			return err
		}

		if !job.IsOpen() {
			return apperror.ErrJobNotOpen
		}
		if job.IsOwnedBy(input.ConsultantID) {
			return apperror.New(apperror.ErrCodeForbidden, "нельзя откликнуться на собственный заказ")
		}

		proposal, err = entity.NewProposal(
			input.JobID,
			input.ConsultantID,
			input.BidAmount,
			input.DeliveryTime,
			input.CoverLetter,
		)
		if err != nil {
			return err
		}

		if err := repos.Proposals.Create(ctx, proposal); err != nil {
			return apperror.Ensure(err, apperror.ErrCodeDatabaseError, "не удалось создать предложение")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"proposal_id":   proposal.ID,
		"job_id":        proposal.JobID,
		"consultant_id": proposal.ConsultantID,
		"bid_amount":    proposal.BidAmount,
	}).Info("отклик отправлен")

	uc.dispatcher.Send(ctx, job.BuyerID, entity.EventProposalSubmitted, map[string]interface{}{
		"proposal_id": proposal.ID,
		"job_id":      job.ID,
		"bid_amount":  proposal.BidAmount,
	})

	return proposal, nil
}
