package eventmock

import (
	"context"
	"sync"

	domain "lendpool-backend/internal/domain/event"
)

var _ domain.Repository = (*Repo)(nil)

// Repo records appended events in memory so tests can assert on the
// audit trail. Override AppendFn to inject failures.
type Repo struct {
	AppendFn       func(ctx context.Context, e *domain.ProtocolEvent) error
	ListByLoanIDFn func(ctx context.Context, loanID uint64) ([]domain.ProtocolEvent, error)

	mu       sync.Mutex
	Appended []domain.ProtocolEvent
}

func (m *Repo) Append(ctx context.Context, e *domain.ProtocolEvent) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, e)
	}
	m.mu.Lock()
	m.Appended = append(m.Appended, *e)
	m.mu.Unlock()
	return nil
}

func (m *Repo) ListByLoanID(ctx context.Context, loanID uint64) ([]domain.ProtocolEvent, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ProtocolEvent
	for _, e := range m.Appended {
		if e.LoanID == loanID {
			out = append(out, e)
		}
	}
	return out, nil
}

// Types returns the appended event types in order.
func (m *Repo) Types() []domain.Type {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Type, 0, len(m.Appended))
	for _, e := range m.Appended {
		out = append(out, e.Type)
	}
	return out
}
