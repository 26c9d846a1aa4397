package order

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/repository"
	"github.com/ignatzorin/consulting-marketplace/internal/logger"
	"github.com/ignatzorin/consulting-marketplace/internal/metrics"
	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/consulting-marketplace/internal/usecase/notify"
)

var errIdempotencyKeyReused = apperror.New(apperror.ErrCodeConflict, "ключ идемпотентности уже использован для другой суммы")

// gatewayKey привязывает ключ к сделке: ключи уникальны только в пределах
// одной сделки, а шлюз хранит их глобально.
func gatewayKey(orderID uuid.UUID, key string) string {
	return orderID.String() + ":" + key
}

type ReleasePaymentInput struct {
	OrderID        uuid.UUID
	BuyerID        uuid.UUID
	Amount         int64
	IdempotencyKey string
}

// ReleasePaymentUseCase проводит выплату консультанту. Чтение, проверка остатка,
// списание через шлюз и запись выполняются под блокировкой строки сделки.
type ReleasePaymentUseCase struct {
	txManager  repository.TxManager
	gateway    repository.PaymentGateway
	dispatcher *notify.Dispatcher
}

func NewReleasePaymentUseCase(txManager repository.TxManager, gateway repository.PaymentGateway, dispatcher *notify.Dispatcher) *ReleasePaymentUseCase {
	return &ReleasePaymentUseCase{
		txManager:  txManager,
		gateway:    gateway,
		dispatcher: dispatcher,
	}
}

func (uc *ReleasePaymentUseCase) Execute(ctx context.Context, input ReleasePaymentInput) (*entity.Order, error) {
	// Ключ фиксируется до транзакции: при её повторе шлюз увидит тот же ключ.
	key := strings.TrimSpace(input.IdempotencyKey)
	if key == "" {
		key = uuid.NewString()
	}

	var (
		order    *entity.Order
		payment  *entity.PaymentRelease
		replayed bool
	)

	err := uc.txManager.WithinTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		var err error
		replayed = false
		order, err = repos.Orders.FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			return err
		}

		existing, err := repos.Payments.FindByIdempotencyKey(ctx, order.ID, key)
		switch {
		case err == nil:
			if existing.BuyerID != input.BuyerID {
				return apperror.ErrForbidden
			}
			if existing.Amount != input.Amount {
				return errIdempotencyKeyReused
			}
			replayed = true
			payment = existing
			return nil
		case !apperror.IsNotFound(err):
			return apperror.Ensure(err, apperror.ErrCodeDatabaseError, "не удалось проверить ключ идемпотентности")
		}

		if err := order.ReleasePayment(input.BuyerID, input.Amount); err != nil {
			return err
		}

		ref, err := uc.gateway.Charge(ctx, repository.ChargeRequest{
			OrderID:        order.ID,
			PayerID:        order.BuyerID,
			PayeeID:        order.ConsultantID,
			Amount:         input.Amount,
			IdempotencyKey: gatewayKey(order.ID, key),
		})
		if err != nil {
			return apperror.Ensure(err, apperror.ErrCodeGateway, "платёжный шлюз отклонил выплату")
		}

		payment = entity.NewPaymentRelease(order, input.Amount, ref, key)
		if err := repos.Payments.Create(ctx, payment); err != nil {
			return apperror.Ensure(err, apperror.ErrCodeDatabaseError, "не удалось сохранить выплату")
		}
		if err := repos.Orders.Update(ctx, order); err != nil {
			return apperror.Ensure(err, apperror.ErrCodeDatabaseError, "не удалось обновить баланс сделки")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields := logrus.Fields{
		"order_id":       order.ID,
		"payment_id":     payment.ID,
		"amount":         payment.Amount,
		"amount_paid":    order.AmountPaid,
		"amount_pending": order.AmountPending,
	}
	if replayed {
		logger.Log.WithFields(fields).Info("повторный запрос выплаты, возвращено текущее состояние")
		return order, nil
	}
	logger.Log.WithFields(fields).Info("выплата проведена")
	metrics.ObserveRelease(payment.Amount)

	uc.dispatcher.Send(ctx, order.ConsultantID, entity.EventPaymentReleased, map[string]interface{}{
		"order_id":       order.ID,
		"amount":         payment.Amount,
		"amount_pending": order.AmountPending,
	})

	return order, nil
}
