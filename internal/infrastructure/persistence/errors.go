package persistence

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
)

const (
	pqUniqueViolation      = "23505"
	pqForeignKeyViolation  = "23503"
	pqCheckViolation       = "23514"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

var constraintErrors = map[string]*apperror.AppError{
	"proposals_job_consultant_key":     apperror.ErrDuplicateProposal,
	"proposals_one_accepted_per_job":   apperror.ErrProposalAlreadyWon,
	"orders_job_id_key":                apperror.ErrOrderAlreadyExists,
	"orders_proposal_id_key":           apperror.ErrOrderAlreadyExists,
	"payment_releases_idempotency_key": apperror.ErrDuplicatePayment,
	"orders_ledger_check":              apperror.ErrLedgerInconsistency,
	"proposals_job_id_fkey":            apperror.ErrJobNotFound,
}

// mapError переводит ошибки PostgreSQL в ошибки приложения.
func mapError(err error, notFound *apperror.AppError, message string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) && notFound != nil {
		return notFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if known, ok := constraintErrors[pqErr.Constraint]; ok {
			return known
		}
		switch pqErr.Code {
		case pqUniqueViolation:
			return apperror.Wrap(err, apperror.ErrCodeConflict, message)
		case pqForeignKeyViolation, pqCheckViolation:
			return apperror.Wrap(err, apperror.ErrCodeInvalidArgument, message)
		}
	}

	return apperror.Wrap(err, apperror.ErrCodeDatabaseError, message)
}

// isRetryable сообщает, что транзакцию можно повторить с нуля.
func isRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == pqSerializationFailure || pqErr.Code == pqDeadlockDetected
}

func expectRow(res sql.Result, notFound *apperror.AppError) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить результат запроса")
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// corruptRow - строка в базе не проходит проверку доменных значений.
func corruptRow(err error) error {
	return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "некорректные данные в базе")
}
