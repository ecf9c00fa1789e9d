package mysql

import (
	"context"
	"errors"

	ledgerDomain "lendpool-backend/internal/domain/ledger"

	"gorm.io/gorm"
)

type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) GetAccount(ctx context.Context, address string) (*ledgerDomain.DepositAccount, error) {
	var out ledgerDomain.DepositAccount
	res := r.db.WithContext(ctx).Where("address = ?", address).First(&out)
	return &out, res.Error
}

func (r *LedgerRepository) GetAccountForUpdate(ctx context.Context, address string) (*ledgerDomain.DepositAccount, error) {
	var out ledgerDomain.DepositAccount
	res := lockForUpdate(r.db.WithContext(ctx)).
		Where("address = ?", address).
		First(&out)
	return &out, res.Error
}

func (r *LedgerRepository) SaveAccount(ctx context.Context, a *ledgerDomain.DepositAccount) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// GetPool returns the single liquidity row, creating it lazily so a fresh
// database starts at zero liquidity.
func (r *LedgerRepository) GetPool(ctx context.Context) (*ledgerDomain.LiquidityPool, error) {
	return r.getPool(ctx, false)
}

func (r *LedgerRepository) GetPoolForUpdate(ctx context.Context) (*ledgerDomain.LiquidityPool, error) {
	return r.getPool(ctx, true)
}

func (r *LedgerRepository) getPool(ctx context.Context, lock bool) (*ledgerDomain.LiquidityPool, error) {
	q := r.db.WithContext(ctx)
	if lock {
		q = lockForUpdate(q)
	}
	var out ledgerDomain.LiquidityPool
	res := q.Where("id = ?", ledgerDomain.PoolRowID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		out = ledgerDomain.LiquidityPool{ID: ledgerDomain.PoolRowID}
		if err := r.db.WithContext(ctx).Create(&out).Error; err != nil {
			return nil, err
		}
		return &out, nil
	}
	return &out, res.Error
}

func (r *LedgerRepository) SavePool(ctx context.Context, p *ledgerDomain.LiquidityPool) error {
	return r.db.WithContext(ctx).Save(p).Error
}
