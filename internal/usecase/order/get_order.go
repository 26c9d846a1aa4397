package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/repository"
	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
)

// GetOrderUseCase отдаёт сделку только её участникам.
type GetOrderUseCase struct {
	orderRepo repository.OrderRepository
}

func NewGetOrderUseCase(orderRepo repository.OrderRepository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo}
}

func (uc *GetOrderUseCase) Execute(ctx context.Context, orderID, userID uuid.UUID) (*entity.Order, error) {
	order, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.IsParticipant(userID) {
		return nil, apperror.ErrForbidden
	}

	return order, nil
}

type ListMyOrdersUseCase struct {
	orderRepo repository.OrderRepository
}

func NewListMyOrdersUseCase(orderRepo repository.OrderRepository) *ListMyOrdersUseCase {
	return &ListMyOrdersUseCase{orderRepo: orderRepo}
}

func (uc *ListMyOrdersUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	return uc.orderRepo.FindByParticipant(ctx, userID)
}

type ListPaymentsUseCase struct {
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
}

func NewListPaymentsUseCase(orderRepo repository.OrderRepository, paymentRepo repository.PaymentRepository) *ListPaymentsUseCase {
	return &ListPaymentsUseCase{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
	}
}

func (uc *ListPaymentsUseCase) Execute(ctx context.Context, orderID, userID uuid.UUID) ([]*entity.PaymentRelease, error) {
	order, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.IsParticipant(userID) {
		return nil, apperror.ErrForbidden
	}

	return uc.paymentRepo.FindByOrderID(ctx, orderID)
}
