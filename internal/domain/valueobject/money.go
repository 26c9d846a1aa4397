package valueobject

import "github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"

// Суммы хранятся в минимальных единицах валюты, чтобы баланс сделки сходился точно.

type Budget struct {
	Min int64
	Max int64
}

func NewBudget(min, max int64) (Budget, error) {
	if min <= 0 || max <= 0 {
		return Budget{}, apperror.New(apperror.ErrCodeInvalidArgument, "бюджет должен быть положительным")
	}
	if min > max {
		return Budget{}, apperror.New(apperror.ErrCodeInvalidArgument, "минимальный бюджет не может превышать максимальный")
	}
	return Budget{Min: min, Max: max}, nil
}

func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return apperror.ErrNonPositiveAmount
	}
	return nil
}
