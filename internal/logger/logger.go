package logger

import (
	"github.com/sirupsen/logrus"
)

// Log доступен до вызова Init, чтобы тесты и вспомогательные пакеты не проверяли nil.
var Log = logrus.New()

// Init инициализирует структурированный логгер.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// Используем JSON формат для production, text для development
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter устанавливает текстовый формат логов (для development).
func SetTextFormatter() {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// WithOp возвращает запись с полем операции движка сделок.
func WithOp(op string) *logrus.Entry {
	return Log.WithField("op", op)
}
