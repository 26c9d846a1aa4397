package persistence_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ignatzorin/consulting-marketplace/internal/db"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/repository"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/consulting-marketplace/internal/infrastructure/persistence"
	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/consulting-marketplace/internal/usecase/order"
	"github.com/ignatzorin/consulting-marketplace/internal/usecase/proposal"
)

// setupTestDB поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("consulting_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(ctx))
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	conn, err := db.NewPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, db.RunMigrations(conn))
	return conn
}

type fixture struct {
	store *persistence.Store
	repos repository.Repositories
}

func newFixture(t *testing.T) *fixture {
	store := persistence.NewStore(setupTestDB(t), 3)
	return &fixture{store: store, repos: store.Repositories()}
}

func (f *fixture) job(t *testing.T, buyerID uuid.UUID) *entity.Job {
	t.Helper()
	job, err := entity.NewJob(buyerID, "Аудит отчётности", "finance", "Проверить отчётность за год", 40000, 60000, "месяц", "удалённо")
	require.NoError(t, err)
	require.NoError(t, f.repos.Jobs.Create(context.Background(), job))
	return job
}

func (f *fixture) proposal(t *testing.T, jobID uuid.UUID, bid int64) *entity.Proposal {
	t.Helper()
	p, err := entity.NewProposal(jobID, uuid.New(), bid, "2 недели", "Сделаю аккуратно")
	require.NoError(t, err)
	require.NoError(t, f.repos.Proposals.Create(context.Background(), p))
	return p
}

func TestPostgres_ProposalConstraints(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	f := newFixture(t)
	ctx := context.Background()
	job := f.job(t, uuid.New())

	first := f.proposal(t, job.ID, 45000)
	dup, err := entity.NewProposal(job.ID, first.ConsultantID, 46000, "неделя", "Ещё раз")
	require.NoError(t, err)
	assert.ErrorIs(t, f.repos.Proposals.Create(ctx, dup), apperror.ErrDuplicateProposal)

	orphan, err := entity.NewProposal(uuid.New(), uuid.New(), 1000, "день", "Без заказа")
	require.NoError(t, err)
	assert.ErrorIs(t, f.repos.Proposals.Create(ctx, orphan), apperror.ErrJobNotFound)

	loaded, err := f.repos.Proposals.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.BidAmount, loaded.BidAmount)
	assert.Equal(t, valueobject.ProposalStatusPending, loaded.Status)

	_, err = f.repos.Proposals.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrProposalNotFound)
}

func TestPostgres_AcceptRaceCreatesSingleOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	f := newFixture(t)
	ctx := context.Background()
	buyer := uuid.New()
	job := f.job(t, buyer)

	proposals := []*entity.Proposal{
		f.proposal(t, job.ID, 41000),
		f.proposal(t, job.ID, 42000),
		f.proposal(t, job.ID, 43000),
	}

	accept := proposal.NewAcceptProposalUseCase(f.store, nil)

	const attempts = 9
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(p *entity.Proposal) {
			defer wg.Done()
			if _, err := accept.Execute(ctx, p.ID, buyer); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(proposals[i%len(proposals)])
	}
	wg.Wait()

	assert.Equal(t, 1, successes)

	orders, err := f.repos.Orders.FindByParticipant(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	list, err := f.repos.Proposals.FindByJobID(ctx, job.ID)
	require.NoError(t, err)
	accepted := 0
	for _, p := range list {
		if p.IsAccepted() {
			accepted++
			assert.Equal(t, orders[0].ProposalID, p.ID)
		} else {
			assert.Equal(t, valueobject.ProposalStatusRejected, p.Status)
		}
	}
	assert.Equal(t, 1, accepted)

	stored, err := f.repos.Jobs.FindByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.JobStatusInProgress, stored.Status)
}

func TestPostgres_ConcurrentPartialReleases(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	f := newFixture(t)
	ctx := context.Background()
	buyer := uuid.New()
	job := f.job(t, buyer)
	p := f.proposal(t, job.ID, 50000)

	result, err := proposal.NewAcceptProposalUseCase(f.store, nil).Execute(ctx, p.ID, buyer)
	require.NoError(t, err)
	orderID := result.Order.ID

	_, err = order.NewRequestCompletionUseCase(f.store, nil).Execute(ctx, orderID, p.ConsultantID, "готово")
	require.NoError(t, err)
	_, err = order.NewConfirmCompletionUseCase(f.store, nil).Execute(ctx, orderID, buyer)
	require.NoError(t, err)

	release := order.NewReleasePaymentUseCase(f.store, ledgerGateway{}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 15; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = release.Execute(ctx, order.ReleasePaymentInput{OrderID: orderID, BuyerID: buyer, Amount: 5000})
		}()
	}
	wg.Wait()

	stored, err := f.repos.Orders.FindByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), stored.AmountPaid)
	assert.Equal(t, int64(0), stored.AmountPending)

	payments, err := f.repos.Payments.FindByOrderID(ctx, orderID)
	require.NoError(t, err)
	assert.Len(t, payments, 10)
}

func TestPostgres_LedgerCheckConstraint(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	conn := setupTestDB(t)
	f := &fixture{store: persistence.NewStore(conn, 0)}
	f.repos = f.store.Repositories()
	ctx := context.Background()
	job := f.job(t, uuid.New())
	p := f.proposal(t, job.ID, 45000)

	require.NoError(t, p.Accept())
	require.NoError(t, f.repos.Proposals.Update(ctx, p))
	o, err := entity.NewOrderFromProposal(job, p)
	require.NoError(t, err)
	require.NoError(t, f.repos.Orders.Create(ctx, o))

	_, err = conn.ExecContext(ctx, `UPDATE orders SET amount_paid = 1 WHERE id = $1`, o.ID)
	assert.Error(t, err)

	again, err := entity.NewOrderFromProposal(job, p)
	require.NoError(t, err)
	assert.ErrorIs(t, f.repos.Orders.Create(ctx, again), apperror.ErrOrderAlreadyExists)
}

func TestPostgres_NotificationsNewestFirst(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	repo := persistence.NewNotificationRepositoryAdapter(setupTestDB(t))
	ctx := context.Background()
	user := uuid.New()

	base := time.Now().UTC().Add(-time.Minute)
	for i, event := range []string{entity.EventProposalAccepted, entity.EventOrderCompleted, entity.EventPaymentReleased} {
		require.NoError(t, repo.Create(ctx, &entity.Notification{
			UserID:    user,
			Event:     event,
			Payload:   []byte(`{"amount":1}`),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	list, err := repo.ListByUser(ctx, user, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, entity.EventPaymentReleased, list[0].Event)
	assert.JSONEq(t, `{"amount":1}`, string(list[0].Payload))
}

type ledgerGateway struct{}

func (ledgerGateway) Charge(ctx context.Context, req repository.ChargeRequest) (string, error) {
	return "test-" + req.IdempotencyKey, nil
}
