package ledgermock

import (
	"context"

	domain "lendpool-backend/internal/domain/ledger"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only fill in the fields a test needs; unfilled getters return
// context.Canceled, unfilled setters are no-ops.
type Repo struct {
	GetAccountFn          func(ctx context.Context, address string) (*domain.DepositAccount, error)
	GetAccountForUpdateFn func(ctx context.Context, address string) (*domain.DepositAccount, error)
	SaveAccountFn         func(ctx context.Context, a *domain.DepositAccount) error
	GetPoolFn             func(ctx context.Context) (*domain.LiquidityPool, error)
	GetPoolForUpdateFn    func(ctx context.Context) (*domain.LiquidityPool, error)
	SavePoolFn            func(ctx context.Context, p *domain.LiquidityPool) error
}

func (m *Repo) GetAccount(ctx context.Context, address string) (*domain.DepositAccount, error) {
	if m.GetAccountFn != nil {
		return m.GetAccountFn(ctx, address)
	}
	return nil, context.Canceled
}

func (m *Repo) GetAccountForUpdate(ctx context.Context, address string) (*domain.DepositAccount, error) {
	if m.GetAccountForUpdateFn != nil {
		return m.GetAccountForUpdateFn(ctx, address)
	}
	return nil, context.Canceled
}

func (m *Repo) SaveAccount(ctx context.Context, a *domain.DepositAccount) error {
	if m.SaveAccountFn != nil {
		return m.SaveAccountFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetPool(ctx context.Context) (*domain.LiquidityPool, error) {
	if m.GetPoolFn != nil {
		return m.GetPoolFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) GetPoolForUpdate(ctx context.Context) (*domain.LiquidityPool, error) {
	if m.GetPoolForUpdateFn != nil {
		return m.GetPoolForUpdateFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) SavePool(ctx context.Context, p *domain.LiquidityPool) error {
	if m.SavePoolFn != nil {
		return m.SavePoolFn(ctx, p)
	}
	return nil
}
