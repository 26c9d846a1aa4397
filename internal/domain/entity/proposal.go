package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/consulting-marketplace/internal/validation"
)

type Proposal struct {
	ID           uuid.UUID
	JobID        uuid.UUID
	ConsultantID uuid.UUID
	BidAmount    int64
	DeliveryTime string
	CoverLetter  string
	Status       valueobject.ProposalStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidateProposalInput проверяет поля отклика до обращения к хранилищу.
func ValidateProposalInput(bidAmount int64, deliveryTime, coverLetter string) error {
	if bidAmount <= 0 {
		return apperror.New(apperror.ErrCodeInvalidArgument, "ставка должна быть положительной")
	}
	return validation.First(
		validation.Required("срок выполнения обязателен", deliveryTime),
		validation.Required("сопроводительное письмо обязательно", coverLetter),
		validation.ValidateLength("срок выполнения", deliveryTime, 0, validation.MaxShortTextLength),
		validation.ValidateLength("сопроводительное письмо", coverLetter, 0, validation.MaxCoverLetterLength),
	)
}

func NewProposal(jobID, consultantID uuid.UUID, bidAmount int64, deliveryTime, coverLetter string) (*Proposal, error) {
	if err := ValidateProposalInput(bidAmount, deliveryTime, coverLetter); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Proposal{
		ID:           uuid.New(),
		JobID:        jobID,
		ConsultantID: consultantID,
		BidAmount:    bidAmount,
		DeliveryTime: strings.TrimSpace(deliveryTime),
		CoverLetter:  strings.TrimSpace(coverLetter),
		Status:       valueobject.ProposalStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (p *Proposal) Accept() error {
	if p.Status != valueobject.ProposalStatusPending {
		return apperror.ErrProposalNotPending
	}
	p.Status = valueobject.ProposalStatusAccepted
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (p *Proposal) Reject() error {
	if p.Status != valueobject.ProposalStatusPending {
		return apperror.ErrProposalNotPending
	}
	p.Status = valueobject.ProposalStatusRejected
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (p *Proposal) IsOwnedBy(userID uuid.UUID) bool {
	return p.ConsultantID == userID
}

func (p *Proposal) IsPending() bool {
	return p.Status == valueobject.ProposalStatusPending
}

func (p *Proposal) IsAccepted() bool {
	return p.Status == valueobject.ProposalStatusAccepted
}
