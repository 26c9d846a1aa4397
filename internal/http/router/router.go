package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/ignatzorin/consulting-marketplace/internal/config"
	"github.com/ignatzorin/consulting-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/consulting-marketplace/internal/http/handlers"
	"github.com/ignatzorin/consulting-marketplace/internal/http/middleware"
	"github.com/ignatzorin/consulting-marketplace/internal/interface/http/handler"
	"github.com/ignatzorin/consulting-marketplace/internal/metrics"
	"github.com/ignatzorin/consulting-marketplace/internal/service"
)

// Handlers собирает обработчики API.
type Handlers struct {
	Health       *handlers.HealthHandler
	Job          *handler.JobHandler
	Proposal     *handler.ProposalHandler
	Order        *handler.OrderHandler
	Notification *handler.NotificationHandler
}

func SetupRouter(cfg *config.Config, h Handlers, tokenManager *service.TokenManager, limiterStore limiter.Store) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.ErrorHandler())
	r.Use(metrics.Middleware())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.GET("/metrics", metrics.Handler())

	buyer := middleware.RequireRole(string(valueobject.RoleBuyer))
	consultant := middleware.RequireRole(string(valueobject.RoleConsultant))
	validID := middleware.UUIDValidator("id")

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(limiterStore, cfg.RateLimitLimit, cfg.RateLimitPeriod))
	api.Use(middleware.AuthMiddleware(tokenManager))
	{
		api.POST("/jobs", buyer, h.Job.CreateJob)
		api.GET("/jobs", h.Job.ListMyJobs)
		api.GET("/jobs/:id", validID, h.Job.GetJob)
		api.POST("/jobs/:id/cancel", validID, h.Job.CancelJob)
		api.GET("/jobs/:id/proposals", validID, h.Job.ListJobProposals)
		api.POST("/jobs/:id/proposals", validID, consultant, h.Proposal.SubmitProposal)

		api.GET("/proposals", h.Proposal.ListMyProposals)
		api.GET("/proposals/:id", validID, h.Proposal.GetProposal)
		api.POST("/proposals/:id/accept", validID, h.Proposal.AcceptProposal)
		api.POST("/proposals/:id/reject", validID, h.Proposal.RejectProposal)

		api.GET("/orders", h.Order.ListMyOrders)
		api.GET("/orders/:id", validID, h.Order.GetOrder)
		api.POST("/orders/:id/request-completion", validID, h.Order.RequestCompletion)
		api.POST("/orders/:id/confirm-completion", validID, h.Order.ConfirmCompletion)
		api.POST("/orders/:id/cancel", validID, h.Order.CancelOrder)
		api.POST("/orders/:id/payments", validID, h.Order.ReleasePayment)
		api.GET("/orders/:id/payments", validID, h.Order.ListPayments)

		api.GET("/notifications", h.Notification.ListNotifications)
	}

	return r
}
