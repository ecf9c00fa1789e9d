package uow

import (
	"context"

	"lendpool-backend/internal/domain/event"
	"lendpool-backend/internal/domain/ledger"
	"lendpool-backend/internal/domain/loan"
	"lendpool-backend/internal/domain/oracle"
)

// Repos bundles every repository bound to one transaction. A public entry
// point opens the transaction; nested cross-component calls receive the same
// Repos so the whole invocation commits or rolls back as a unit.
type Repos struct {
	Ledger ledger.Repository
	Loans  loan.Repository
	Oracle oracle.Repository
	Events event.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan row first, then pass it in
	WithinLoanTx(ctx context.Context, loanID uint64, fn func(r Repos, l *loan.Loan) error) error
}
