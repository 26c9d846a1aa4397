package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/consulting-marketplace/internal/domain/repository"
	"github.com/ignatzorin/consulting-marketplace/internal/logger"
)

// querier - общее подмножество *sqlx.DB и *sqlx.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

const retryBackoff = 20 * time.Millisecond

// Store - хранилище сделок в PostgreSQL. Гарантии конкурентности обеспечиваются
// блокировками строк (FOR UPDATE / FOR SHARE) и ограничениями уникальности схемы.
type Store struct {
	db         *sqlx.DB
	maxRetries int
}

func NewStore(db *sqlx.DB, maxRetries int) *Store {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Store{db: db, maxRetries: maxRetries}
}

// Repositories возвращает репозитории, работающие вне транзакции.
func (s *Store) Repositories() repository.Repositories {
	return bind(s.db)
}

func bind(q querier) repository.Repositories {
	return repository.Repositories{
		Jobs:      &JobRepositoryAdapter{q: q},
		Proposals: &ProposalRepositoryAdapter{q: q},
		Orders:    &OrderRepositoryAdapter{q: q},
		Payments:  &PaymentRepositoryAdapter{q: q},
	}
}

// WithinTransaction выполняет fn в транзакции. При конфликте сериализации или
// взаимной блокировке fn перезапускается целиком, не более maxRetries раз.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = s.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) || attempt >= s.maxRetries {
			return err
		}

		logger.Log.WithFields(logrus.Fields{
			"attempt": attempt + 1,
		}).WithError(err).Warn("конфликт транзакции, повторяем")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryBackoff * time.Duration(attempt+1)):
		}
	}
}

func (s *Store) runOnce(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			// При панике откатываем транзакцию
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, bind(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Log.WithError(rbErr).Error("не удалось откатить транзакцию")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
