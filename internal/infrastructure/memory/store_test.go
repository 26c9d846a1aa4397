package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/repository"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
)

func seedJob(t *testing.T, s *Store) *entity.Job {
	t.Helper()
	job, err := entity.NewJob(uuid.New(), "Налоговая консультация", "tax", "Разобрать декларацию", 1000, 5000, "неделя", "Москва")
	require.NoError(t, err)
	require.NoError(t, s.Repositories().Jobs.Create(context.Background(), job))
	return job
}

func newProposal(t *testing.T, jobID uuid.UUID) *entity.Proposal {
	t.Helper()
	p, err := entity.NewProposal(jobID, uuid.New(), 3000, "3 дня", "Опыт 10 лет")
	require.NoError(t, err)
	return p
}

func TestStore_RollbackDiscardsWrites(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	job := seedJob(t, s)
	p := newProposal(t, job.ID)

	boom := errors.New("boom")
	err := s.WithinTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		require.NoError(t, repos.Proposals.Create(ctx, p))

		inTx, err := repos.Proposals.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, inTx.ID)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.Repositories().Proposals.FindByID(ctx, p.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestStore_RollbackOnPanic(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	job := seedJob(t, s)

	assert.Panics(t, func() {
		_ = s.WithinTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
			locked, err := repos.Jobs.FindByIDForUpdate(ctx, job.ID)
			require.NoError(t, err)
			require.NoError(t, locked.Cancel())
			require.NoError(t, repos.Jobs.Update(ctx, locked))
			panic("oops")
		})
	})

	stored, err := s.Repositories().Jobs.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.JobStatusOpen, stored.Status)

	// блокировка освобождена после паники
	err = s.WithinTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		_, err := repos.Jobs.FindByIDForUpdate(ctx, job.ID)
		return err
	})
	assert.NoError(t, err)
}

func TestStore_ProposalUniqueness(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	job := seedJob(t, s)

	first := newProposal(t, job.ID)
	require.NoError(t, s.Repositories().Proposals.Create(ctx, first))

	dup, err := entity.NewProposal(job.ID, first.ConsultantID, 2000, "2 дня", "Ещё раз")
	require.NoError(t, err)
	err = s.Repositories().Proposals.Create(ctx, dup)
	assert.ErrorIs(t, err, apperror.ErrDuplicateProposal)
}

func TestStore_ProposalUniquenessCheckedAtCommit(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	job := seedJob(t, s)
	consultant := uuid.New()

	inserted := make(chan struct{})
	proceed := make(chan struct{})
	var firstErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = s.WithinTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
			p, err := entity.NewProposal(job.ID, consultant, 1500, "день", "Первый")
			if err != nil {
				return err
			}
			if err := repos.Proposals.Create(ctx, p); err != nil {
				return err
			}
			close(inserted)
			<-proceed
			return nil
		})
	}()

	<-inserted
	second, err := entity.NewProposal(job.ID, consultant, 1600, "день", "Второй")
	require.NoError(t, err)
	require.NoError(t, s.Repositories().Proposals.Create(ctx, second))
	close(proceed)
	wg.Wait()

	assert.ErrorIs(t, firstErr, apperror.ErrDuplicateProposal)
	list, err := s.Repositories().Proposals.FindByJobID(ctx, job.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStore_OrderUniquePerJob(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	job := seedJob(t, s)

	p := newProposal(t, job.ID)
	require.NoError(t, p.Accept())
	require.NoError(t, s.Repositories().Proposals.Create(ctx, p))

	order, err := entity.NewOrderFromProposal(job, p)
	require.NoError(t, err)
	require.NoError(t, s.Repositories().Orders.Create(ctx, order))

	again, err := entity.NewOrderFromProposal(job, p)
	require.NoError(t, err)
	assert.ErrorIs(t, s.Repositories().Orders.Create(ctx, again), apperror.ErrOrderAlreadyExists)
}

func TestStore_OrderUpdateRejectsBrokenLedger(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	job := seedJob(t, s)

	p := newProposal(t, job.ID)
	require.NoError(t, p.Accept())
	require.NoError(t, s.Repositories().Proposals.Create(ctx, p))
	order, err := entity.NewOrderFromProposal(job, p)
	require.NoError(t, err)
	require.NoError(t, s.Repositories().Orders.Create(ctx, order))

	order.AmountPaid = 100
	err = s.Repositories().Orders.Update(ctx, order)
	assert.ErrorIs(t, err, apperror.ErrLedgerInconsistency)

	stored, err := s.Repositories().Orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.AmountPaid)
}

func TestStore_RejectPendingByJob(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	job := seedJob(t, s)

	keep := newProposal(t, job.ID)
	other1 := newProposal(t, job.ID)
	other2 := newProposal(t, job.ID)
	for _, p := range []*entity.Proposal{keep, other1, other2} {
		require.NoError(t, s.Repositories().Proposals.Create(ctx, p))
	}

	rejected, err := s.Repositories().Proposals.RejectPendingByJob(ctx, job.ID, keep.ID)
	require.NoError(t, err)
	assert.Len(t, rejected, 2)

	stored, err := s.Repositories().Proposals.FindByID(ctx, keep.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPending())

	stored, err = s.Repositories().Proposals.FindByID(ctx, other1.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ProposalStatusRejected, stored.Status)
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	job := seedJob(t, s)

	loaded, err := s.Repositories().Jobs.FindByID(ctx, job.ID)
	require.NoError(t, err)
	loaded.Title = "изменено"

	again, err := s.Repositories().Jobs.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.Title, again.Title)
}

func TestNotificationRepository_ListByUser(t *testing.T) {
	repo := NewNotificationRepository()
	ctx := context.Background()
	user := uuid.New()

	for _, event := range []string{entity.EventProposalSubmitted, entity.EventProposalAccepted, entity.EventPaymentReleased} {
		require.NoError(t, repo.Create(ctx, &entity.Notification{UserID: user, Event: event}))
	}
	require.NoError(t, repo.Create(ctx, &entity.Notification{UserID: uuid.New(), Event: entity.EventOrderCompleted}))

	list, err := repo.ListByUser(ctx, user, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, entity.EventPaymentReleased, list[0].Event)
	assert.Equal(t, entity.EventProposalAccepted, list[1].Event)
}
