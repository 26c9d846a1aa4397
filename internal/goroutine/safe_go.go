package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/ignatzorin/consulting-marketplace/internal/logger"
)

// Logger интерфейс для логирования ошибок
type Logger interface {
	Errorf(format string, args ...interface{})
}

// RecoveryHandler обрабатывает panic в горутинах
type RecoveryHandler struct {
	logger Logger
}

// NewRecoveryHandler создает новый обработчик
func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: logger}
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic.
// Контекст отвязан от отмены родителя: фоновая работа переживает завершение запроса.
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	detached := context.WithoutCancel(ctx)
	go func() {
		defer rh.recover()
		fn(detached)
	}()
}

func (rh *RecoveryHandler) recover() {
	if r := recover(); r != nil {
		rh.logger.Errorf("Паника в горутине: %v\n%s", r, debug.Stack())
	}
}

// logrusLogger читает logger.Log при каждом вызове, поэтому подхватывает Init.
type logrusLogger struct{}

func (logrusLogger) Errorf(format string, args ...interface{}) {
	logger.Log.Errorf(format, args...)
}

// DefaultRecoveryHandler - глобальный обработчик, пишущий в logger.Log
var DefaultRecoveryHandler = NewRecoveryHandler(logrusLogger{})

// SafeGoWithContext - упрощенная функция для запуска безопасной горутины с контекстом
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	DefaultRecoveryHandler.SafeGoWithContext(ctx, fn)
}
