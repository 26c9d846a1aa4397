package router

import (
	"github.com/ignatzorin/consulting-marketplace/internal/domain/repository"
	"github.com/ignatzorin/consulting-marketplace/internal/http/handlers"
	"github.com/ignatzorin/consulting-marketplace/internal/interface/http/handler"
	"github.com/ignatzorin/consulting-marketplace/internal/service"
	"github.com/ignatzorin/consulting-marketplace/internal/usecase/job"
	"github.com/ignatzorin/consulting-marketplace/internal/usecase/notify"
	"github.com/ignatzorin/consulting-marketplace/internal/usecase/order"
	"github.com/ignatzorin/consulting-marketplace/internal/usecase/proposal"
)

// Store - хранилище сделок: транзакции и репозитории вне транзакции.
type Store interface {
	repository.TxManager
	Repositories() repository.Repositories
}

// Deps - внешние зависимости API.
type Deps struct {
	Store         Store
	Notifications *service.NotificationService
	Dispatcher    *notify.Dispatcher
	Gateway       repository.PaymentGateway
	HealthChecks  map[string]handlers.Pinger
}

// NewHandlers связывает сценарии с обработчиками.
func NewHandlers(d Deps) Handlers {
	repos := d.Store.Repositories()

	return Handlers{
		Health: handlers.NewHealthHandler(d.HealthChecks),
		Job: handler.NewJobHandler(
			job.NewCreateJobUseCase(repos.Jobs),
			job.NewGetJobUseCase(repos.Jobs),
			job.NewListBuyerJobsUseCase(repos.Jobs),
			job.NewListJobProposalsUseCase(repos.Jobs, repos.Proposals),
			job.NewCancelJobUseCase(d.Store, d.Dispatcher),
		),
		Proposal: handler.NewProposalHandler(
			proposal.NewSubmitProposalUseCase(d.Store, d.Dispatcher),
			proposal.NewAcceptProposalUseCase(d.Store, d.Dispatcher),
			proposal.NewRejectProposalUseCase(d.Store, d.Dispatcher),
			proposal.NewGetProposalUseCase(repos.Proposals, repos.Jobs),
			proposal.NewListMyProposalsUseCase(repos.Proposals),
		),
		Order: handler.NewOrderHandler(
			order.NewGetOrderUseCase(repos.Orders),
			order.NewListMyOrdersUseCase(repos.Orders),
			order.NewRequestCompletionUseCase(d.Store, d.Dispatcher),
			order.NewConfirmCompletionUseCase(d.Store, d.Dispatcher),
			order.NewCancelOrderUseCase(d.Store, d.Dispatcher),
			order.NewReleasePaymentUseCase(d.Store, d.Gateway, d.Dispatcher),
			order.NewListPaymentsUseCase(repos.Orders, repos.Payments),
		),
		Notification: handler.NewNotificationHandler(d.Notifications),
	}
}
