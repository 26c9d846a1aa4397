package order

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

// transition блокирует строку сделки и применяет к ней mutate. Если задан
// syncJob, статус заказа обновляется в той же транзакции.
func transition(
	ctx context.Context,
	txManager repository.TxManager,
	orderID uuid.UUID,
	mutate func(order *entity.Order) error,
	syncJob func(job *entity.Job) error,
) (*entity.Order, error) {
	var order *entity.Order

	err := txManager.WithinTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		order, err = repos.Orders.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		if err := mutate(order); err != nil {
			return err
		}
		if err := repos.Orders.Update(ctx, order); err != nil {
			return apperror.Ensure(err, apperror.ErrCodeDatabaseError, "не удалось обновить сделку")
		}

		if syncJob == nil {
			return nil
		}
		job, err := repos.Jobs.FindByIDForUpdate(ctx, order.JobID)
		if err != nil {
			return err
		}
		if err := syncJob(job); err != nil {
			return err
		}
		if err := repos.Jobs.Update(ctx, job); err != nil {
			return apperror.Ensure(err, apperror.ErrCodeDatabaseError, "не удалось обновить заказ")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

type RequestCompletionUseCase struct {
	txManager  repository.TxManager
	dispatcher *notify.Dispatcher
}

func NewRequestCompletionUseCase(txManager repository.TxManager, dispatcher *notify.Dispatcher) *RequestCompletionUseCase {
	return &RequestCompletionUseCase{
		txManager:  txManager,
		dispatcher: dispatcher,
	}
}

func (uc *RequestCompletionUseCase) Execute(ctx context.Context, orderID, consultantID uuid.UUID, message string) (*entity.Order, error) {
	order, err := transition(ctx, uc.txManager, orderID, func(order *entity.Order) error {
		return order.RequestCompletion(consultantID, message)
	}, nil)
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"status":   order.Status,
	}).Info("консультант запросил завершение сделки")

	uc.dispatcher.Send(ctx, order.BuyerID, entity.EventOrderCompletionRequested, map[string]interface{}{
		"order_id": order.ID,
		"message":  order.CompletionRequest.Message,
	})

	return order, nil
}

type ConfirmCompletionUseCase struct {
	txManager  repository.TxManager
	dispatcher *notify.Dispatcher
}

func NewConfirmCompletionUseCase(txManager repository.TxManager, dispatcher *notify.Dispatcher) *ConfirmCompletionUseCase {
	return &ConfirmCompletionUseCase{
		txManager:  txManager,
		dispatcher: dispatcher,
	}
}

func (uc *ConfirmCompletionUseCase) Execute(ctx context.Context, orderID, buyerID uuid.UUID) (*entity.Order, error) {
	order, err := transition(ctx, uc.txManager, orderID, func(order *entity.Order) error {
		return order.ConfirmCompletion(buyerID)
	}, func(job *entity.Job) error {
		return job.Complete()
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"status":   order.Status,
	}).Info("заказчик подтвердил завершение сделки")

	uc.dispatcher.Send(ctx, order.ConsultantID, entity.EventOrderCompleted, map[string]interface{}{
		"order_id": order.ID,
	})

	return order, nil
}

// CancelOrderUseCase отменяет сделку в работе вместе с заказом.
type CancelOrderUseCase struct {
	txManager  repository.TxManager
	dispatcher *notify.Dispatcher
}

func NewCancelOrderUseCase(txManager repository.TxManager, dispatcher *notify.Dispatcher) *CancelOrderUseCase {
	return &CancelOrderUseCase{
		txManager:  txManager,
		dispatcher: dispatcher,
	}
}

func (uc *CancelOrderUseCase) Execute(ctx context.Context, orderID, buyerID uuid.UUID) (*entity.Order, error) {
	order, err := transition(ctx, uc.txManager, orderID, func(order *entity.Order) error {
		return order.Cancel(buyerID)
	}, func(job *entity.Job) error {
		return job.Cancel()
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"status":   order.Status,
	}).Info("сделка отменена")

	uc.dispatcher.Send(ctx, order.ConsultantID, entity.EventOrderCancelled, map[string]interface{}{
		"order_id": order.ID,
	})

	return order, nil
}
