package inventory

import "context"

// RepositoryPort is what the service needs from persistence. WithTx
// runs the callback inside a repeatable-read transaction; the balance
// row is locked for the duration.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListBalances(ctx context.Context, f ListFilters) ([]BalanceRow, int, error)
	ListMovements(ctx context.Context, skuID, depositoID int64, limit int) ([]Movement, error)
	Dashboard(ctx context.Context) (DashboardData, error)
}

// TxRepository exposes the operations available inside a posting
// transaction.
type TxRepository interface {
	GetBalanceForUpdate(ctx context.Context, skuID, depositoID int64) (Balance, error)
	UpsertBalance(ctx context.Context, b Balance) error
	InsertMovement(ctx context.Context, m Movement) (int64, error)
}
