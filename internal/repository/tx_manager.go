package repository

import "context"

// TxRepos exposes repositories bound to one transaction.
type TxRepos interface {
	Users() UserRepository
	Products() ProductRepository
	CartItems() CartItemRepository
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Reviews() ReviewRepository
	AuditLogs() AuditLogRepository
}

// TransactionManager hides begin/commit/rollback from usecases.
// Returning an error from fn rolls back everything fn did.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
