package ledger

import "context"

type Repository interface {
	GetAccount(ctx context.Context, address string) (*DepositAccount, error)
	// GetAccountForUpdate locks the row for the duration of the surrounding tx.
	GetAccountForUpdate(ctx context.Context, address string) (*DepositAccount, error)
	SaveAccount(ctx context.Context, a *DepositAccount) error

	GetPool(ctx context.Context) (*LiquidityPool, error)
	GetPoolForUpdate(ctx context.Context) (*LiquidityPool, error)
	SavePool(ctx context.Context, p *LiquidityPool) error
}
