package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
)

type RequestCompletionRequest struct {
	Message string `json:"message"`
}

type ReleasePaymentRequest struct {
	Amount         int64  `json:"amount" binding:"required,gt=0"`
	IdempotencyKey string `json:"idempotency_key"`
}

type CompletionRequestResponse struct {
	RequestedBy string    `json:"requested_by"`
	RequestedAt time.Time `json:"requested_at"`
	Message     string    `json:"message,omitempty"`
}

type OrderResponse struct {
	ID                uuid.UUID                  `json:"id"`
	JobID             uuid.UUID                  `json:"job_id"`
	BuyerID           uuid.UUID                  `json:"buyer_id"`
	ConsultantID      uuid.UUID                  `json:"consultant_id"`
	ProposalID        uuid.UUID                  `json:"proposal_id"`
	TotalAmount       int64                      `json:"total_amount"`
	AmountPaid        int64                      `json:"amount_paid"`
	AmountPending     int64                      `json:"amount_pending"`
	Status            string                     `json:"status"`
	CompletionRequest *CompletionRequestResponse `json:"completion_request,omitempty"`
	CompletedAt       *time.Time                 `json:"completed_at,omitempty"`
	CancelledAt       *time.Time                 `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time                  `json:"created_at"`
	UpdatedAt         time.Time                  `json:"updated_at"`
}

type PaymentResponse struct {
	ID             uuid.UUID `json:"id"`
	OrderID        uuid.UUID `json:"order_id"`
	Amount         int64     `json:"amount"`
	GatewayRef     string    `json:"gateway_ref"`
	IdempotencyKey string    `json:"idempotency_key"`
	CreatedAt      time.Time `json:"created_at"`
}

type NotificationResponse struct {
	ID        uuid.UUID       `json:"id"`
	Event     string          `json:"event"`
	Payload   json.RawMessage `json:"payload"`
	IsRead    bool            `json:"is_read"`
	CreatedAt time.Time       `json:"created_at"`
}

func ToOrderResponse(order *entity.Order) OrderResponse {
	resp := OrderResponse{
		ID:            order.ID,
		JobID:         order.JobID,
		BuyerID:       order.BuyerID,
		ConsultantID:  order.ConsultantID,
		ProposalID:    order.ProposalID,
		TotalAmount:   order.TotalAmount,
		AmountPaid:    order.AmountPaid,
		AmountPending: order.AmountPending,
		Status:        string(order.Status),
		CompletedAt:   order.CompletedAt,
		CancelledAt:   order.CancelledAt,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	if req := order.CompletionRequest; req != nil {
		resp.CompletionRequest = &CompletionRequestResponse{
			RequestedBy: string(req.RequestedBy),
			RequestedAt: req.RequestedAt,
			Message:     req.Message,
		}
	}
	return resp
}

func ToOrderResponses(orders []*entity.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, ToOrderResponse(order))
	}
	return responses
}

func ToPaymentResponses(payments []*entity.PaymentRelease) []PaymentResponse {
	responses := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		responses = append(responses, PaymentResponse{
			ID:             p.ID,
			OrderID:        p.OrderID,
			Amount:         p.Amount,
			GatewayRef:     p.GatewayRef,
			IdempotencyKey: p.IdempotencyKey,
			CreatedAt:      p.CreatedAt,
		})
	}
	return responses
}

func ToNotificationResponses(list []*entity.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(list))
	for _, n := range list {
		payload := n.Payload
		if len(payload) == 0 {
			payload = json.RawMessage("{}")
		}
		responses = append(responses, NotificationResponse{
			ID:        n.ID,
			Event:     n.Event,
			Payload:   payload,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return responses
}
