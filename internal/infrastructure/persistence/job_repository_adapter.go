package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
)

const jobColumns = `id, buyer_id, title, category, description, budget_min, budget_max,
	timeline, location, status, created_at, updated_at`

type JobRepositoryAdapter struct {
	q querier
}

func (r *JobRepositoryAdapter) Create(ctx context.Context, job *entity.Job) error {
	query := `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.q.ExecContext(ctx, query,
		job.ID, job.BuyerID, job.Title, job.Category, job.Description,
		job.Budget.Min, job.Budget.Max, job.Timeline, job.Location,
		string(job.Status), job.CreatedAt, job.UpdatedAt,
	)
	return mapError(err, nil, "не удалось создать заказ")
}

func (r *JobRepositoryAdapter) Update(ctx context.Context, job *entity.Job) error {
	query := `UPDATE jobs SET status = $2, updated_at = $3 WHERE id = $1`
	res, err := r.q.ExecContext(ctx, query, job.ID, string(job.Status), job.UpdatedAt)
	if err != nil {
		return mapError(err, nil, "не удалось обновить заказ")
	}
	return expectRow(res, apperror.ErrJobNotFound)
}

func (r *JobRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	return r.findOne(ctx, id, "")
}

func (r *JobRepositoryAdapter) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	return r.findOne(ctx, id, " FOR UPDATE")
}

func (r *JobRepositoryAdapter) FindByIDForShare(ctx context.Context, id uuid.UUID) (*entity.Job, error) {
	return r.findOne(ctx, id, " FOR SHARE")
}

func (r *JobRepositoryAdapter) findOne(ctx context.Context, id uuid.UUID, lock string) (*entity.Job, error) {
	var row jobRow
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1` + lock
	if err := r.q.GetContext(ctx, &row, query, id); err != nil {
		return nil, mapError(err, apperror.ErrJobNotFound, "не удалось получить заказ")
	}
	return row.toEntity()
}

func (r *JobRepositoryAdapter) FindByBuyerID(ctx context.Context, buyerID uuid.UUID) ([]*entity.Job, error) {
	var rows []jobRow
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE buyer_id = $1 ORDER BY created_at DESC`
	if err := r.q.SelectContext(ctx, &rows, query, buyerID); err != nil {
		return nil, mapError(err, nil, "не удалось получить заказы")
	}

	jobs := make([]*entity.Job, len(rows))
	for i := range rows {
		job, err := rows[i].toEntity()
		if err != nil {
			return nil, err
		}
		jobs[i] = job
	}
	return jobs, nil
}

type jobRow struct {
	ID          uuid.UUID `db:"id"`
	BuyerID     uuid.UUID `db:"buyer_id"`
	Title       string    `db:"title"`
	Category    string    `db:"category"`
	Description string    `db:"description"`
	BudgetMin   int64     `db:"budget_min"`
	BudgetMax   int64     `db:"budget_max"`
	Timeline    string    `db:"timeline"`
	Location    string    `db:"location"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *jobRow) toEntity() (*entity.Job, error) {
	status, err := valueobject.NewJobStatus(r.Status)
	if err != nil {
		return nil, corruptRow(err)
	}
	return &entity.Job{
		ID:          r.ID,
		BuyerID:     r.BuyerID,
		Title:       r.Title,
		Category:    r.Category,
		Description: r.Description,
		Budget:      valueobject.Budget{Min: r.BudgetMin, Max: r.BudgetMax},
		Timeline:    r.Timeline,
		Location:    r.Location,
		Status:      status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}
