// Package memory - хранилище сделок в памяти процесса. Даёт те же гарантии, что
// и Postgres: построчные блокировки на время транзакции, уникальность при вставке
// и повторно при фиксации, откат всех изменений при ошибке.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/repository"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
)

type Store struct {
	mu        sync.RWMutex
	jobs      map[uuid.UUID]*entity.Job
	proposals map[uuid.UUID]*entity.Proposal
	orders    map[uuid.UUID]*entity.Order
	payments  map[uuid.UUID]*entity.PaymentRelease

	locks *keyedLocks
}

func NewStore() *Store {
	return &Store{
		jobs:      make(map[uuid.UUID]*entity.Job),
		proposals: make(map[uuid.UUID]*entity.Proposal),
		orders:    make(map[uuid.UUID]*entity.Order),
		payments:  make(map[uuid.UUID]*entity.PaymentRelease),
		locks:     newKeyedLocks(),
	}
}

// Repositories возвращает репозитории вне транзакции: каждая запись фиксируется сразу.
func (s *Store) Repositories() repository.Repositories {
	return s.bind(nil)
}

func (s *Store) bind(t *tx) repository.Repositories {
	return repository.Repositories{
		Jobs:      &jobRepo{s: s, t: t},
		Proposals: &proposalRepo{s: s, t: t},
		Orders:    &orderRepo{s: s, t: t},
		Payments:  &paymentRepo{s: s, t: t},
	}
}

func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	t := newTx()
	defer func() {
		if p := recover(); p != nil {
			t.release()
			panic(p)
		}
	}()

	if err := fn(ctx, s.bind(t)); err != nil {
		t.release()
		return err
	}

	err = s.commit(t)
	t.release()
	return err
}

// run выполняет fn в транзакции репозитория или в короткой собственной.
func (s *Store) run(t *tx, fn func(t *tx) error) error {
	if t != nil {
		return fn(t)
	}

	own := newTx()
	defer own.release()
	if err := fn(own); err != nil {
		return err
	}
	return s.commit(own)
}

func (s *Store) commit(t *tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validate(t); err != nil {
		return err
	}

	for id, j := range t.jobs {
		s.jobs[id] = j
	}
	for id, p := range t.proposals {
		s.proposals[id] = p
	}
	for id, o := range t.orders {
		s.orders[id] = o
	}
	for id, p := range t.payments {
		s.payments[id] = p
	}
	return nil
}

// validate проверяет ограничения уникальности всех изменений транзакции
// относительно уже зафиксированных данных. Вызывается под s.mu.
func (s *Store) validate(t *tx) error {
	for _, p := range t.proposals {
		if err := s.checkProposal(t, p); err != nil {
			return err
		}
	}
	for _, o := range t.orders {
		if err := s.checkOrder(t, o); err != nil {
			return err
		}
	}
	for _, p := range t.payments {
		if err := s.checkPayment(t, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) checkProposal(t *tx, p *entity.Proposal) error {
	if _, ok := s.job(t, p.JobID); !ok {
		return apperror.ErrJobNotFound
	}
	for _, other := range s.proposalView(t) {
		if other.ID == p.ID || other.JobID != p.JobID {
			continue
		}
		if other.ConsultantID == p.ConsultantID {
			return apperror.ErrDuplicateProposal
		}
		if p.IsAccepted() && other.IsAccepted() {
			return apperror.ErrProposalAlreadyWon
		}
	}
	return nil
}

func (s *Store) checkOrder(t *tx, o *entity.Order) error {
	if err := o.CheckLedger(); err != nil {
		return err
	}
	for _, other := range s.orderView(t) {
		if other.ID == o.ID {
			continue
		}
		if other.JobID == o.JobID || other.ProposalID == o.ProposalID {
			return apperror.ErrOrderAlreadyExists
		}
	}
	return nil
}

func (s *Store) checkPayment(t *tx, p *entity.PaymentRelease) error {
	for _, other := range s.paymentView(t) {
		if other.ID != p.ID && other.OrderID == p.OrderID && other.IdempotencyKey == p.IdempotencyKey {
			return apperror.ErrDuplicatePayment
		}
	}
	return nil
}

// Представления ниже накладывают изменения транзакции на зафиксированные данные.
// Вызываются под s.mu.

func (s *Store) job(t *tx, id uuid.UUID) (*entity.Job, bool) {
	if t != nil {
		if j, ok := t.jobs[id]; ok {
			return j, true
		}
	}
	j, ok := s.jobs[id]
	return j, ok
}

func (s *Store) proposalView(t *tx) map[uuid.UUID]*entity.Proposal {
	view := make(map[uuid.UUID]*entity.Proposal, len(s.proposals))
	for id, p := range s.proposals {
		view[id] = p
	}
	if t != nil {
		for id, p := range t.proposals {
			view[id] = p
		}
	}
	return view
}

func (s *Store) orderView(t *tx) map[uuid.UUID]*entity.Order {
	view := make(map[uuid.UUID]*entity.Order, len(s.orders))
	for id, o := range s.orders {
		view[id] = o
	}
	if t != nil {
		for id, o := range t.orders {
			view[id] = o
		}
	}
	return view
}

func (s *Store) paymentView(t *tx) map[uuid.UUID]*entity.PaymentRelease {
	view := make(map[uuid.UUID]*entity.PaymentRelease, len(s.payments))
	for id, p := range s.payments {
		view[id] = p
	}
	if t != nil {
		for id, p := range t.payments {
			view[id] = p
		}
	}
	return view
}

type tx struct {
	jobs      map[uuid.UUID]*entity.Job
	proposals map[uuid.UUID]*entity.Proposal
	orders    map[uuid.UUID]*entity.Order
	payments  map[uuid.UUID]*entity.PaymentRelease

	held     map[string]bool
	releases []func()
}

func newTx() *tx {
	return &tx{
		jobs:      make(map[uuid.UUID]*entity.Job),
		proposals: make(map[uuid.UUID]*entity.Proposal),
		orders:    make(map[uuid.UUID]*entity.Order),
		payments:  make(map[uuid.UUID]*entity.PaymentRelease),
		held:      make(map[string]bool),
	}
}

// lock берёт блокировку строки до конца транзакции. Повторный запрос той же
// или более слабой блокировки ничего не делает.
func (t *tx) lock(s *Store, key string, exclusive bool) error {
	if held, ok := t.held[key]; ok {
		if exclusive && !held {
			return apperror.New(apperror.ErrCodeInternal, fmt.Sprintf("повышение блокировки %s не поддерживается", key))
		}
		return nil
	}
	t.releases = append(t.releases, s.locks.acquire(key, exclusive))
	t.held[key] = exclusive
	return nil
}

func (t *tx) release() {
	for i := len(t.releases) - 1; i >= 0; i-- {
		t.releases[i]()
	}
	t.releases = nil
	t.held = make(map[string]bool)
}

func jobKey(id uuid.UUID) string   { return "job:" + id.String() }
func orderKey(id uuid.UUID) string { return "order:" + id.String() }

func cloneJob(j *entity.Job) *entity.Job {
	c := *j
	return &c
}

func cloneProposal(p *entity.Proposal) *entity.Proposal {
	c := *p
	return &c
}

func cloneOrder(o *entity.Order) *entity.Order {
	c := *o
	if o.CompletionRequest != nil {
		cr := *o.CompletionRequest
		c.CompletionRequest = &cr
	}
	if o.CompletedAt != nil {
		at := *o.CompletedAt
		c.CompletedAt = &at
	}
	if o.CancelledAt != nil {
		at := *o.CancelledAt
		c.CancelledAt = &at
	}
	return &c
}

func clonePayment(p *entity.PaymentRelease) *entity.PaymentRelease {
	c := *p
	return &c
}

func sortProposals(list []*entity.Proposal) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}

func isPendingFor(p *entity.Proposal, jobID uuid.UUID) bool {
	return p.JobID == jobID && p.Status == valueobject.ProposalStatusPending
}
