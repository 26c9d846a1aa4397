package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/consulting-marketplace/internal/validation"
)

type Job struct {
	ID          uuid.UUID
	BuyerID     uuid.UUID
	Title       string
	Category    string
	Description string
	Budget      valueobject.Budget
	Timeline    string
	Location    string
	Status      valueobject.JobStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewJob(buyerID uuid.UUID, title, category, description string, budgetMin, budgetMax int64, timeline, location string) (*Job, error) {
	if buyerID == uuid.Nil {
		return nil, apperror.New(apperror.ErrCodeInvalidArgument, "не указан заказчик")
	}
	if err := validation.First(
		validation.Required("название заказа обязательно", title),
		validation.Required("категория заказа обязательна", category),
		validation.Required("описание заказа обязательно", description),
		validation.ValidateLength("название", title, 0, validation.MaxJobTitleLength),
		validation.ValidateLength("категория", category, 0, validation.MaxCategoryLength),
		validation.ValidateLength("описание", description, 0, validation.MaxJobDescriptionLength),
		validation.ValidateLength("срок", timeline, 0, validation.MaxShortTextLength),
		validation.ValidateLength("локация", location, 0, validation.MaxShortTextLength),
	); err != nil {
		return nil, err
	}

	budget, err := valueobject.NewBudget(budgetMin, budgetMax)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Job{
		ID:          uuid.New(),
		BuyerID:     buyerID,
		Title:       strings.TrimSpace(title),
		Category:    strings.TrimSpace(category),
		Description: strings.TrimSpace(description),
		Budget:      budget,
		Timeline:    strings.TrimSpace(timeline),
		Location:    strings.TrimSpace(location),
		Status:      valueobject.JobStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (j *Job) StartWork() error {
	return j.transition(valueobject.JobStatusInProgress)
}

func (j *Job) Complete() error {
	return j.transition(valueobject.JobStatusCompleted)
}

func (j *Job) Cancel() error {
	return j.transition(valueobject.JobStatusCancelled)
}

func (j *Job) transition(next valueobject.JobStatus) error {
	if !j.Status.CanTransitionTo(next) {
		if j.Status != valueobject.JobStatusOpen && next == valueobject.JobStatusInProgress {
			return apperror.ErrJobNotOpen
		}
		return apperror.New(apperror.ErrCodeConflict, "переход недоступен в текущем статусе заказа")
	}
	j.Status = next
	j.UpdatedAt = time.Now().UTC()
	return nil
}

func (j *Job) IsOwnedBy(userID uuid.UUID) bool {
	return j.BuyerID == userID
}

func (j *Job) IsOpen() bool {
	return j.Status == valueobject.JobStatusOpen
}
