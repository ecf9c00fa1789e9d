package event

import "context"

type Repository interface {
	Append(ctx context.Context, e *ProtocolEvent) error
	ListByLoanID(ctx context.Context, loanID uint64) ([]ProtocolEvent, error)
}
