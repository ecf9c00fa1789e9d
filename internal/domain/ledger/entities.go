package ledger

import (
	"errors"
	"time"
)

var (
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrTransferFailed        = errors.New("transfer failed")
)

// Amounts everywhere in the protocol are minor units: two decimal places, so
// 1 currency unit == 100.
const MinorUnitsPerUnit = 100

// PoolRowID is the primary key of the single liquidity_pool row.
const PoolRowID = 1

// DepositAccount holds one depositor's idle balance. Created implicitly on
// first deposit; a zero balance is a valid terminal state, rows are never
// deleted.
type DepositAccount struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	Address   string    `gorm:"size:42;uniqueIndex:ux_deposit_accounts_address" json:"address"`
	Balance   uint64    `gorm:"not null;default:0" json:"balance"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DepositAccount) TableName() string { return "deposit_accounts" }

// LiquidityPool is the single-row aggregate of idle liquidity. Deposits and
// repayments credit it; withdrawals and loan funding debit it. It must never
// go below zero, which is checked before every debit.
type LiquidityPool struct {
	ID             uint64    `gorm:"primaryKey;column:id"`
	TotalLiquidity uint64    `gorm:"not null;default:0"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (LiquidityPool) TableName() string { return "liquidity_pool" }
