package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"
	ErrCodeConflict        ErrorCode = "CONFLICT"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	ErrCodeDatabaseError   ErrorCode = "DATABASE_ERROR"
	ErrCodeGateway         ErrorCode = "GATEWAY_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Ensure оставляет ошибки приложения как есть, а прочие оборачивает с кодом code.
func Ensure(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	return Wrap(err, code, message)
}

// CodeOf возвращает код ошибки приложения или INTERNAL_ERROR для прочих ошибок.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeForbidden
}

func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeConflict
}

func IsInvalidArgument(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeInvalidArgument
}

var (
	ErrJobNotFound      = New(ErrCodeNotFound, "заказ на консультацию не найден")
	ErrProposalNotFound = New(ErrCodeNotFound, "предложение не найдено")
	ErrOrderNotFound    = New(ErrCodeNotFound, "сделка не найдена")
	ErrPaymentNotFound  = New(ErrCodeNotFound, "выплата не найдена")
	ErrUnauthorized     = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden        = New(ErrCodeForbidden, "недостаточно прав")

	ErrJobNotOpen          = New(ErrCodeConflict, "заказ уже закрыт для откликов")
	ErrDuplicateProposal   = New(ErrCodeConflict, "вы уже откликнулись на этот заказ")
	ErrProposalNotPending  = New(ErrCodeConflict, "предложение уже рассмотрено")
	ErrOrderAlreadyExists  = New(ErrCodeConflict, "по этому заказу уже создана сделка")
	ErrOrderNotCompleted   = New(ErrCodeConflict, "оплата доступна только после завершения сделки")
	ErrProposalAlreadyWon  = New(ErrCodeConflict, "по заказу уже принято другое предложение")
	ErrDuplicatePayment    = New(ErrCodeConflict, "выплата с таким ключом идемпотентности уже проведена")
	ErrInvalidTransition   = New(ErrCodeConflict, "переход недоступен в текущем статусе сделки")
	ErrPaymentExceedsDebt  = New(ErrCodeInvalidArgument, "сумма превышает остаток к оплате")
	ErrNonPositiveAmount   = New(ErrCodeInvalidArgument, "сумма должна быть положительной")
	ErrLedgerInconsistency = New(ErrCodeInternal, "нарушен баланс сделки")
)
