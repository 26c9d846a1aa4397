package job_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/consulting-marketplace/internal/infrastructure/memory"
	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/consulting-marketplace/internal/usecase/job"
	"github.com/ignatzorin/consulting-marketplace/internal/usecase/notify"
	"github.com/ignatzorin/consulting-marketplace/internal/usecase/usecasetest"
)

func TestCreateJob(t *testing.T) {
	store := memory.NewStore()
	uc := job.NewCreateJobUseCase(store.Repositories().Jobs)
	buyer := uuid.New()

	created, err := uc.Execute(context.Background(), job.CreateJobInput{
		BuyerID:     buyer,
		Title:       "  Аудит  ",
		Category:    "finance",
		Description: "Проверить отчётность за год",
		BudgetMin:   40000,
		BudgetMax:   60000,
		Timeline:    "месяц",
		Location:    "remote",
	})
	require.NoError(t, err)
	assert.Equal(t, "Аудит", created.Title)
	assert.Equal(t, valueobject.JobStatusOpen, created.Status)

	got, err := job.NewGetJobUseCase(store.Repositories().Jobs).Execute(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	mine, err := job.NewListBuyerJobsUseCase(store.Repositories().Jobs).Execute(context.Background(), buyer)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestCreateJob_Validation(t *testing.T) {
	uc := job.NewCreateJobUseCase(memory.NewStore().Repositories().Jobs)

	tests := []struct {
		name  string
		input job.CreateJobInput
	}{
		{"empty title", job.CreateJobInput{BuyerID: uuid.New(), Category: "tax", Description: "d", BudgetMin: 1, BudgetMax: 2}},
		{"empty category", job.CreateJobInput{BuyerID: uuid.New(), Title: "t", Description: "d", BudgetMin: 1, BudgetMax: 2}},
		{"empty description", job.CreateJobInput{BuyerID: uuid.New(), Title: "t", Category: "tax", BudgetMin: 1, BudgetMax: 2}},
		{"inverted budget", job.CreateJobInput{BuyerID: uuid.New(), Title: "t", Category: "tax", Description: "d", BudgetMin: 5, BudgetMax: 2}},
		{"zero budget", job.CreateJobInput{BuyerID: uuid.New(), Title: "t", Category: "tax", Description: "d", BudgetMin: 0, BudgetMax: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.input)
			assert.True(t, apperror.IsInvalidArgument(err), "got %v", err)
		})
	}
}

func TestCancelJob(t *testing.T) {
	store := memory.NewStore()
	notifier := &usecasetest.RecordingNotifier{}
	uc := job.NewCancelJobUseCase(store, notify.NewSyncDispatcher(notifier))
	ctx := context.Background()

	buyer := uuid.New()
	j := usecasetest.SeedJob(t, store, buyer)
	p1 := usecasetest.SeedProposal(t, store, j.ID, uuid.New(), 45000)
	p2 := usecasetest.SeedProposal(t, store, j.ID, uuid.New(), 47000)

	_, err := uc.Execute(ctx, j.ID, uuid.New())
	assert.True(t, apperror.IsForbidden(err))

	cancelled, err := uc.Execute(ctx, j.ID, buyer)
	require.NoError(t, err)
	assert.Equal(t, valueobject.JobStatusCancelled, cancelled.Status)

	for _, p := range []*entity.Proposal{p1, p2} {
		stored, err := store.Repositories().Proposals.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, valueobject.ProposalStatusRejected, stored.Status)
		assert.Equal(t, []string{entity.EventProposalRejected}, notifier.EventsFor(p.ConsultantID))
	}

	_, err = uc.Execute(ctx, j.ID, buyer)
	assert.True(t, apperror.IsConflict(err))

	_, err = uc.Execute(ctx, uuid.New(), buyer)
	assert.True(t, apperror.IsNotFound(err))
}

func TestListJobProposals_OwnerOnly(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	uc := job.NewListJobProposalsUseCase(repos.Jobs, repos.Proposals)
	ctx := context.Background()

	buyer := uuid.New()
	j := usecasetest.SeedJob(t, store, buyer)
	usecasetest.SeedProposal(t, store, j.ID, uuid.New(), 45000)
	usecasetest.SeedProposal(t, store, j.ID, uuid.New(), 46000)

	list, err := uc.Execute(ctx, j.ID, buyer)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = uc.Execute(ctx, j.ID, uuid.New())
	assert.True(t, apperror.IsForbidden(err))
}
