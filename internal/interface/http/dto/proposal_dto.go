package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
)

type SubmitProposalRequest struct {
	BidAmount    int64  `json:"bid_amount" binding:"required,gt=0"`
	DeliveryTime string `json:"delivery_time" binding:"required"`
	CoverLetter  string `json:"cover_letter" binding:"required"`
}

type ProposalResponse struct {
	ID           uuid.UUID `json:"id"`
	JobID        uuid.UUID `json:"job_id"`
	ConsultantID uuid.UUID `json:"consultant_id"`
	BidAmount    int64     `json:"bid_amount"`
	DeliveryTime string    `json:"delivery_time"`
	CoverLetter  string    `json:"cover_letter"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AcceptProposalResponse возвращается при принятии: предложение и созданная сделка.
type AcceptProposalResponse struct {
	Proposal ProposalResponse `json:"proposal"`
	Order    OrderResponse    `json:"order"`
}

func ToProposalResponse(proposal *entity.Proposal) ProposalResponse {
	return ProposalResponse{
		ID:           proposal.ID,
		JobID:        proposal.JobID,
		ConsultantID: proposal.ConsultantID,
		BidAmount:    proposal.BidAmount,
		DeliveryTime: proposal.DeliveryTime,
		CoverLetter:  proposal.CoverLetter,
		Status:       string(proposal.Status),
		CreatedAt:    proposal.CreatedAt,
		UpdatedAt:    proposal.UpdatedAt,
	}
}

func ToProposalResponses(proposals []*entity.Proposal) []ProposalResponse {
	responses := make([]ProposalResponse, 0, len(proposals))
	for _, proposal := range proposals {
		responses = append(responses, ToProposalResponse(proposal))
	}
	return responses
}
