package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/consulting-marketplace/internal/config"
	"github.com/ignatzorin/consulting-marketplace/internal/db"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/repository"
	"github.com/ignatzorin/consulting-marketplace/internal/http/handlers"
	"github.com/ignatzorin/consulting-marketplace/internal/http/middleware"
	httpRouter "github.com/ignatzorin/consulting-marketplace/internal/http/router"
	"github.com/ignatzorin/consulting-marketplace/internal/infrastructure/gateway"
	"github.com/ignatzorin/consulting-marketplace/internal/infrastructure/memory"
	"github.com/ignatzorin/consulting-marketplace/internal/infrastructure/persistence"
	"github.com/ignatzorin/consulting-marketplace/internal/logger"
	"github.com/ignatzorin/consulting-marketplace/internal/service"
	"github.com/ignatzorin/consulting-marketplace/internal/usecase/notify"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.LogLevel)
	if cfg.Env == "development" {
		logger.SetTextFormatter()
	}

	// Хранилище сделок и уведомлений.
	var (
		store        httpRouter.Store
		notifRepo    service.NotificationRepository
		healthChecks = map[string]handlers.Pinger{}
	)
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		logger.Log.Warn("main: используется хранилище в памяти, данные не сохраняются между запусками")
		store = memory.NewStore()
		notifRepo = memory.NewNotificationRepository()
	default:
		dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("main: ошибка подключения к базе: %v", err)
		}
		defer safeClose(dbConn)

		if cfg.RunMigrations {
			if err := db.RunMigrations(dbConn); err != nil {
				log.Fatalf("main: ошибка миграций: %v", err)
			}
		}

		store = persistence.NewStore(dbConn, cfg.TxMaxRetries)
		notifRepo = persistence.NewNotificationRepositoryAdapter(dbConn)
		healthChecks["database"] = dbConn
	}

	var paymentGateway repository.PaymentGateway
	if cfg.PaymentGatewayURL != "" {
		paymentGateway = gateway.NewHTTPGateway(cfg.PaymentGatewayURL, cfg.PaymentGatewayTimeout)
	} else {
		logger.Log.Warn("main: PAYMENT_GATEWAY_URL не задан, выплаты проводятся локально")
		paymentGateway = gateway.NewLedgerGateway()
	}

	limiterStore, err := middleware.NewLimiterStore(cfg.RedisURL)
	if err != nil {
		log.Fatalf("main: ошибка инициализации rate limiter: %v", err)
	}

	// Инициализируем вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	notificationService := service.NewNotificationService(notifRepo)

	h := httpRouter.NewHandlers(httpRouter.Deps{
		Store:         store,
		Notifications: notificationService,
		Dispatcher:    notify.NewDispatcher(notificationService, cfg.NotifyTimeout),
		Gateway:       paymentGateway,
		HealthChecks:  healthChecks,
	})

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, h, tokenManager, limiterStore)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("main: ошибка остановки http сервера")
		}
	}()

	logger.Log.WithField("port", cfg.HTTPPort).
		WithField("storage", cfg.StorageDriver).
		Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.Log.WithError(err).Error("main: ошибка закрытия базы")
	}
}
