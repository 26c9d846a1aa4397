package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Event     string
	Payload   json.RawMessage
	IsRead    bool
	CreatedAt time.Time
}

const (
	EventProposalSubmitted        = "proposal.submitted"
	EventProposalAccepted         = "proposal.accepted"
	EventProposalRejected         = "proposal.rejected"
	EventOrderCompletionRequested = "order.completion_requested"
	EventOrderCompleted           = "order.completed"
	EventOrderCancelled           = "order.cancelled"
	EventPaymentReleased          = "payment.released"
)
