package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
)

type CreateJobRequest struct {
	Title       string `json:"title" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Description string `json:"description" binding:"required"`
	BudgetMin   int64  `json:"budget_min" binding:"required,gt=0"`
	BudgetMax   int64  `json:"budget_max" binding:"required,gt=0"`
	Timeline    string `json:"timeline"`
	Location    string `json:"location"`
}

type JobResponse struct {
	ID          uuid.UUID `json:"id"`
	BuyerID     uuid.UUID `json:"buyer_id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	BudgetMin   int64     `json:"budget_min"`
	BudgetMax   int64     `json:"budget_max"`
	Timeline    string    `json:"timeline"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToJobResponse(job *entity.Job) JobResponse {
	return JobResponse{
		ID:          job.ID,
		BuyerID:     job.BuyerID,
		Title:       job.Title,
		Category:    job.Category,
		Description: job.Description,
		BudgetMin:   job.Budget.Min,
		BudgetMax:   job.Budget.Max,
		Timeline:    job.Timeline,
		Location:    job.Location,
		Status:      string(job.Status),
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}
}

func ToJobResponses(jobs []*entity.Job) []JobResponse {
	responses := make([]JobResponse, 0, len(jobs))
	for _, job := range jobs {
		responses = append(responses, ToJobResponse(job))
	}
	return responses
}
