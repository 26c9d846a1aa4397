package repository

import "context"

// Repositories - набор репозиториев, привязанных к одной транзакции.
type Repositories struct {
	Jobs      JobRepository
	Proposals ProposalRepository
	Orders    OrderRepository
	Payments  PaymentRepository
}

// TxManager выполняет fn атомарно: nil фиксирует транзакцию, ошибка или паника
// откатывают её. Реализация может перезапустить fn целиком при конфликте
// сериализации, поэтому fn не должна опираться на данные, прочитанные снаружи.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
