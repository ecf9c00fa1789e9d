package mysql

import (
	"lendpool-backend/internal/domain/event"
	"lendpool-backend/internal/domain/ledger"
	"lendpool-backend/internal/domain/loan"
	"lendpool-backend/internal/domain/oracle"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates every protocol table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&ledger.DepositAccount{},
		&ledger.LiquidityPool{},
		&loan.Loan{},
		&oracle.CreditRequest{},
		&oracle.CreditScore{},
		&event.ProtocolEvent{},
	)
}
