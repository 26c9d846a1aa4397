package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/entity"
)

type JobRepository interface {
	Create(ctx context.Context, job *entity.Job) error
	Update(ctx context.Context, job *entity.Job) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Job, error)
	// FindByIDForUpdate берёт эксклюзивную блокировку строки заказа.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Job, error)
	// FindByIDForShare берёт разделяемую блокировку: параллельные отклики проходят,
	// а принятие предложения ждёт их завершения.
	FindByIDForShare(ctx context.Context, id uuid.UUID) (*entity.Job, error)
	FindByBuyerID(ctx context.Context, buyerID uuid.UUID) ([]*entity.Job, error)
}
