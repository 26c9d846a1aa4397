package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
)

type jobRepo struct {
	s *Store
	t *tx
}

func (r *jobRepo) Create(ctx context.Context, job *entity.Job) error {
	return r.s.run(r.t, func(t *tx) error {
		t.jobs[job.ID] = cloneJob(job)
		return nil
	})
}

func (r *jobRepo) Update(ctx context.Context, job *entity.Job) error {
	return r.s.run(r.t, func(t *tx) error {
		r.s.mu.RLock()
		_, ok := r.s.job(t, job.ID)
		r.s.mu.RUnlock()
		if !ok {
			return apperror.ErrJobNotFound
		}
		t.jobs[job.ID] = cloneJob(job)
		return nil
	})
}

func (r *jobRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	j, ok := r.s.job(r.t, id)
	if !ok {
		return nil, apperror.ErrJobNotFound
	}
	return cloneJob(j), nil
}

func (r *jobRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	return r.findLocked(ctx, id, true)
}

func (r *jobRepo) FindByIDForShare(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	return r.findLocked(ctx, id, false)
}

func (r *jobRepo) findLocked(ctx context.Context, id uuid.UUID, exclusive bool) (*entity.Job, error) {
	if r.t == nil {
		return r.FindByID(ctx, id)
	}
	if err := r.t.lock(r.s, jobKey(id), exclusive); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *jobRepo) FindByBuyerID(ctx context.Context, buyerID uuid.UUID) ([]*entity.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[uuid.UUID]bool)
	var result []*entity.Job
	collect := func(j *entity.Job) {
		if j.BuyerID == buyerID && !seen[j.ID] {
			seen[j.ID] = true
			result = append(result, cloneJob(j))
		}
	}
	if r.t != nil {
		for _, j := range r.t.jobs {
			collect(j)
		}
	}
	for _, j := range r.s.jobs {
		collect(j)
	}

	sort.Slice(result, func(i, k int) bool {
		return result[i].CreatedAt.After(result[k].CreatedAt)
	})
	return result, nil
}

type proposalRepo struct {
	s *Store
	t *tx
}

func (r *proposalRepo) Create(ctx context.Context, proposal *entity.Proposal) error {
	return r.s.run(r.t, func(t *tx) error {
		r.s.mu.RLock()
		err := r.s.checkProposal(t, proposal)
		r.s.mu.RUnlock()
		if err != nil {
			return err
		}
		t.proposals[proposal.ID] = cloneProposal(proposal)
		return nil
	})
}

func (r *proposalRepo) Update(ctx context.Context, proposal *entity.Proposal) error {
	return r.s.run(r.t, func(t *tx) error {
		r.s.mu.RLock()
		_, ok := r.s.proposalView(t)[proposal.ID]
		var err error
		if ok {
			err = r.s.checkProposal(t, proposal)
		}
		r.s.mu.RUnlock()
		if !ok {
			return apperror.ErrProposalNotFound
		}
		if err != nil {
			return err
		}
		t.proposals[proposal.ID] = cloneProposal(proposal)
		return nil
	})
}

func (r *proposalRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Proposal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if r.t != nil {
		if p, ok := r.t.proposals[id]; ok {
			return cloneProposal(p), nil
		}
	}
	p, ok := r.s.proposals[id]
	if !ok {
		return nil, apperror.ErrProposalNotFound
	}
	return cloneProposal(p), nil
}

func (r *proposalRepo) FindByJobID(ctx context.Context, jobID uuid.UUID) ([]*entity.Proposal, error) {
	return r.filter(func(p *entity.Proposal) bool { return p.JobID == jobID }), nil
}

func (r *proposalRepo) FindByConsultantID(ctx context.Context, consultantID uuid.UUID) ([]*entity.Proposal, error) {
	return r.filter(func(p *entity.Proposal) bool { return p.ConsultantID == consultantID }), nil
}

func (r *proposalRepo) filter(match func(p *entity.Proposal) bool) []*entity.Proposal {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []*entity.Proposal
	for _, p := range r.s.proposalView(r.t) {
		if match(p) {
			result = append(result, cloneProposal(p))
		}
	}
	sortProposals(result)
	return result
}

func (r *proposalRepo) RejectPendingByJob(ctx context.Context, jobID, exceptID uuid.UUID) ([]*entity.Proposal, error) {
	var rejected []*entity.Proposal
	err := r.s.run(r.t, func(t *tx) error {
		pending := r.filter(func(p *entity.Proposal) bool {
			return p.ID != exceptID && isPendingFor(p, jobID)
		})
		for _, p := range pending {
			if err := p.Reject(); err != nil {
				return err
			}
			t.proposals[p.ID] = cloneProposal(p)
			rejected = append(rejected, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

type orderRepo struct {
	s *Store
	t *tx
}

func (r *orderRepo) Create(ctx context.Context, order *entity.Order) error {
	return r.s.run(r.t, func(t *tx) error {
		r.s.mu.RLock()
		err := r.s.checkOrder(t, order)
		r.s.mu.RUnlock()
		if err != nil {
			return err
		}
		t.orders[order.ID] = cloneOrder(order)
		return nil
	})
}

func (r *orderRepo) Update(ctx context.Context, order *entity.Order) error {
	return r.s.run(r.t, func(t *tx) error {
		r.s.mu.RLock()
		_, ok := r.s.orderView(t)[order.ID]
		r.s.mu.RUnlock()
		if !ok {
			return apperror.ErrOrderNotFound
		}
		if err := order.CheckLedger(); err != nil {
			return err
		}
		t.orders[order.ID] = cloneOrder(order)
		return nil
	})
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if r.t != nil {
		if o, ok := r.t.orders[id]; ok {
			return cloneOrder(o), nil
		}
	}
	o, ok := r.s.orders[id]
	if !ok {
		return nil, apperror.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *orderRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	if r.t != nil {
		if err := r.t.lock(r.s, orderKey(id), true); err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

func (r *orderRepo) FindByParticipant(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []*entity.Order
	for _, o := range r.s.orderView(r.t) {
		if o.BuyerID == userID || o.ConsultantID == userID {
			result = append(result, cloneOrder(o))
		}
	}
	sort.Slice(result, func(i, k int) bool {
		return result[i].CreatedAt.After(result[k].CreatedAt)
	})
	return result, nil
}

type paymentRepo struct {
	s *Store
	t *tx
}

func (r *paymentRepo) Create(ctx context.Context, payment *entity.PaymentRelease) error {
	return r.s.run(r.t, func(t *tx) error {
		r.s.mu.RLock()
		err := r.s.checkPayment(t, payment)
		r.s.mu.RUnlock()
		if err != nil {
			return err
		}
		t.payments[payment.ID] = clonePayment(payment)
		return nil
	})
}

func (r *paymentRepo) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]*entity.PaymentRelease, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var result []*entity.PaymentRelease
	for _, p := range r.s.paymentView(r.t) {
		if p.OrderID == orderID {
			result = append(result, clonePayment(p))
		}
	}
	sort.Slice(result, func(i, k int) bool {
		return result[i].CreatedAt.Before(result[k].CreatedAt)
	})
	return result, nil
}

func (r *paymentRepo) FindByIdempotencyKey(ctx context.Context, orderID uuid.UUID, key string) (*entity.PaymentRelease, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.paymentView(r.t) {
		if p.OrderID == orderID && p.IdempotencyKey == key {
			return clonePayment(p), nil
		}
	}
	return nil, apperror.ErrPaymentNotFound
}
