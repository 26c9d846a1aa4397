package valueobject

import "github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"

type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusOpen, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

func (s JobStatus) CanTransitionTo(newStatus JobStatus) bool {
	transitions := map[JobStatus][]JobStatus{
		JobStatusOpen:       {JobStatusInProgress, JobStatusCancelled},
		JobStatusInProgress: {JobStatusCompleted, JobStatusCancelled},
		JobStatusCompleted:  {},
		JobStatusCancelled:  {},
	}

	for _, status := range transitions[s] {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewJobStatus(status string) (JobStatus, error) {
	s := JobStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeInvalidArgument, "некорректный статус заказа")
	}
	return s, nil
}

type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusRejected ProposalStatus = "rejected"
)

func (s ProposalStatus) IsValid() bool {
	switch s {
	case ProposalStatusPending, ProposalStatusAccepted, ProposalStatusRejected:
		return true
	}
	return false
}

func NewProposalStatus(status string) (ProposalStatus, error) {
	s := ProposalStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeInvalidArgument, "некорректный статус предложения")
	}
	return s, nil
}

type OrderStatus string

const (
	OrderStatusInProgress        OrderStatus = "in_progress"
	OrderStatusPendingCompletion OrderStatus = "pending_completion"
	OrderStatusCompleted         OrderStatus = "completed"
	OrderStatusCancelled         OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusInProgress, OrderStatusPendingCompletion, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

func NewOrderStatus(status string) (OrderStatus, error) {
	s := OrderStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeInvalidArgument, "некорректный статус сделки")
	}
	return s, nil
}

type Role string

const (
	RoleBuyer      Role = "buyer"
	RoleConsultant Role = "consultant"
)

func (r Role) IsValid() bool {
	return r == RoleBuyer || r == RoleConsultant
}

// OrderAction - действие участника над сделкой.
type OrderAction string

const (
	OrderActionRequestCompletion OrderAction = "request_completion"
	OrderActionConfirmCompletion OrderAction = "confirm_completion"
	OrderActionCancel            OrderAction = "cancel"
)

type orderTransition struct {
	role Role
	from OrderStatus
	to   OrderStatus
}

// Каждому действию разрешена ровно одна роль и один исходный статус.
var orderTransitions = map[OrderAction]orderTransition{
	OrderActionRequestCompletion: {role: RoleConsultant, from: OrderStatusInProgress, to: OrderStatusPendingCompletion},
	OrderActionConfirmCompletion: {role: RoleBuyer, from: OrderStatusPendingCompletion, to: OrderStatusCompleted},
	OrderActionCancel:            {role: RoleBuyer, from: OrderStatusInProgress, to: OrderStatusCancelled},
}

// NextOrderStatus возвращает статус сделки после действия участника с ролью role.
// Чужая роль даёт Forbidden независимо от статуса, неверный статус - Conflict.
func NextOrderStatus(current OrderStatus, action OrderAction, role Role) (OrderStatus, error) {
	tr, ok := orderTransitions[action]
	if !ok {
		return "", apperror.New(apperror.ErrCodeInvalidArgument, "неизвестное действие над сделкой")
	}
	if role != tr.role {
		return "", apperror.ErrForbidden
	}
	if current != tr.from {
		return "", apperror.ErrInvalidTransition
	}
	return tr.to, nil
}
