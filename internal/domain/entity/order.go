package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/consulting-marketplace/internal/validation"
)

// Order - сделка, созданная в момент принятия предложения. Единственный источник
// правды о движении денег: AmountPaid + AmountPending всегда равно TotalAmount.
type Order struct {
	ID                uuid.UUID
	JobID             uuid.UUID
	BuyerID           uuid.UUID
	ConsultantID      uuid.UUID
	ProposalID        uuid.UUID
	TotalAmount       int64
	AmountPaid        int64
	AmountPending     int64
	Status            valueobject.OrderStatus
	CompletionRequest *CompletionRequest
	CompletedAt       *time.Time
	CancelledAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type CompletionRequest struct {
	RequestedBy valueobject.Role
	RequestedAt time.Time
	Message     string
}

func NewOrderFromProposal(job *Job, proposal *Proposal) (*Order, error) {
	if proposal.JobID != job.ID {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "предложение относится к другому заказу")
	}
	if !proposal.IsAccepted() {
		return nil, apperror.New(apperror.ErrCodeConflict, "сделка создаётся только по принятому предложению")
	}

	now := time.Now().UTC()
	return &Order{
		ID:            uuid.New(),
		JobID:         job.ID,
		BuyerID:       job.BuyerID,
		ConsultantID:  proposal.ConsultantID,
		ProposalID:    proposal.ID,
		TotalAmount:   proposal.BidAmount,
		AmountPaid:    0,
		AmountPending: proposal.BidAmount,
		Status:        valueobject.OrderStatusInProgress,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// RoleOf определяет роль пользователя в сделке. Посторонний получает Forbidden.
func (o *Order) RoleOf(userID uuid.UUID) (valueobject.Role, error) {
	switch userID {
	case o.BuyerID:
		return valueobject.RoleBuyer, nil
	case o.ConsultantID:
		return valueobject.RoleConsultant, nil
	}
	return "", apperror.ErrForbidden
}

func (o *Order) IsParticipant(userID uuid.UUID) bool {
	_, err := o.RoleOf(userID)
	return err == nil
}

func (o *Order) apply(userID uuid.UUID, action valueobject.OrderAction) error {
	role, err := o.RoleOf(userID)
	if err != nil {
		return err
	}
	next, err := valueobject.NextOrderStatus(o.Status, action, role)
	if err != nil {
		return err
	}
	o.Status = next
	o.UpdatedAt = time.Now().UTC()
	return nil
}

func (o *Order) RequestCompletion(consultantID uuid.UUID, message string) error {
	role, err := o.RoleOf(consultantID)
	if err != nil {
		return err
	}
	if role != valueobject.RoleConsultant {
		return apperror.ErrForbidden
	}
	if err := validation.ValidateLength("сообщение", message, 0, validation.MaxCompletionNoteLength); err != nil {
		return err
	}
	if err := o.apply(consultantID, valueobject.OrderActionRequestCompletion); err != nil {
		return err
	}
	o.CompletionRequest = &CompletionRequest{
		RequestedBy: valueobject.RoleConsultant,
		RequestedAt: o.UpdatedAt,
		Message:     strings.TrimSpace(message),
	}
	return nil
}

func (o *Order) ConfirmCompletion(buyerID uuid.UUID) error {
	if err := o.apply(buyerID, valueobject.OrderActionConfirmCompletion); err != nil {
		return err
	}
	completedAt := o.UpdatedAt
	o.CompletedAt = &completedAt
	return nil
}

func (o *Order) Cancel(buyerID uuid.UUID) error {
	if err := o.apply(buyerID, valueobject.OrderActionCancel); err != nil {
		return err
	}
	cancelledAt := o.UpdatedAt
	o.CancelledAt = &cancelledAt
	return nil
}

// ReleasePayment переводит amount из ожидающей части в оплаченную.
func (o *Order) ReleasePayment(buyerID uuid.UUID, amount int64) error {
	if buyerID != o.BuyerID {
		return apperror.ErrForbidden
	}
	if o.Status != valueobject.OrderStatusCompleted {
		return apperror.ErrOrderNotCompleted
	}
	if err := valueobject.ValidateAmount(amount); err != nil {
		return err
	}
	if amount > o.AmountPending {
		return apperror.ErrPaymentExceedsDebt
	}

	o.AmountPaid += amount
	o.AmountPending -= amount
	o.UpdatedAt = time.Now().UTC()
	return o.CheckLedger()
}

func (o *Order) CheckLedger() error {
	if o.AmountPending < 0 || o.AmountPaid < 0 || o.AmountPaid+o.AmountPending != o.TotalAmount {
		return apperror.ErrLedgerInconsistency
	}
	return nil
}

func (o *Order) IsFullyPaid() bool {
	return o.AmountPending == 0
}
