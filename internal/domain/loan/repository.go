package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id uint64) (*Loan, error)
	// GetByIDForUpdate locks the loan row for the duration of the surrounding tx.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Loan, error)
	// GetPendingByBorrower returns the borrower's loan in state requested, if any.
	GetPendingByBorrower(ctx context.Context, borrower string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
}
