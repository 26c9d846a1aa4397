package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ignatzorin/consulting-marketplace/internal/pkg/apperror"
)

const namespace = "marketplace"

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Количество HTTP запросов.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Длительность обработки HTTP запросов.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "engagement_operations_total",
		Help:      "Операции жизненного цикла сделки по результату.",
	}, []string{"op", "outcome"})

	releasedMinor = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_released_minor_total",
		Help:      "Сумма выплат в минимальных единицах валюты.",
	})
)

// ObserveOperation учитывает результат операции: ok либо код ошибки.
func ObserveOperation(op string, err error) {
	operations.WithLabelValues(op, outcome(err)).Inc()
}

// ObserveRelease учитывает проведённую выплату.
func ObserveRelease(amount int64) {
	if amount > 0 {
		releasedMinor.Add(float64(amount))
	}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	code := apperror.CodeOf(err)
	if code == "" {
		code = apperror.ErrCodeInternal
	}
	return strings.ToLower(string(code))
}

// Middleware собирает метрики HTTP запросов. Маршрут берётся из шаблона gin,
// чтобы идентификаторы не раздували число серий.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler отдаёт метрики в формате Prometheus.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
