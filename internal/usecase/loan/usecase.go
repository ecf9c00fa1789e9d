package loan

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"lendpool-backend/internal/domain/common"
	"lendpool-backend/internal/domain/event"
	ledgerDomain "lendpool-backend/internal/domain/ledger"
	loanDomain "lendpool-backend/internal/domain/loan"
	"lendpool-backend/internal/domain/uow"
	"lendpool-backend/pkg/guard"
)

// ScoreRequester submits a credit-scoring request inside the caller's
// transaction and returns the oracle correlation id.
type ScoreRequester interface {
	RequestScoreTx(ctx context.Context, r uow.Repos, caller, borrower string, loanID uint64) (string, error)
}

// Funder is the ledger surface the orchestrator is allowed to drive.
type Funder interface {
	FundLoanTx(ctx context.Context, r uow.Repos, caller, borrower string, amount uint64) error
	ReceiveRepaymentTx(ctx context.Context, r uow.Repos, caller, borrower string, amount uint64) error
}

// RefundGateway returns repayment overpayments to the borrower.
type RefundGateway interface {
	Transfer(ctx context.Context, to string, amount uint64) error
}

var (
	errNoLedger = errors.New("loan orchestrator: ledger not registered")
	errNoBridge = errors.New("loan orchestrator: oracle bridge not registered")
)

// Usecase owns the loan records and the per-borrower pending-loan rule. State
// moves requested -> {approved, rejected} and approved -> repaid; nothing
// reverses.
type Usecase struct {
	repo    loanDomain.Repository
	uow     uow.UnitOfWork
	refunds RefundGateway
	guard   guard.Guard
	log     *logrus.Logger

	// identity is presented as the caller on nested ledger and bridge calls.
	identity string

	mu       sync.RWMutex
	ledger   Funder
	bridge   ScoreRequester
	bridgeID string

	minAmount uint64
	maxAmount uint64
	now       func() time.Time
}

func NewUsecase(repo loanDomain.Repository, u uow.UnitOfWork, refunds RefundGateway, identity string, log *logrus.Logger) *Usecase {
	return &Usecase{
		repo:      repo,
		uow:       u,
		refunds:   refunds,
		identity:  identity,
		log:       log,
		minAmount: MinLoanAmount,
		maxAmount: MaxLoanAmount,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SetLedger registers the ledger the orchestrator funds loans through.
func (u *Usecase) SetLedger(ctx context.Context, f Funder) error {
	if f == nil {
		return common.ErrZeroAddress
	}
	u.mu.Lock()
	u.ledger = f
	u.mu.Unlock()
	u.log.WithField("component", "orchestrator").Info("ledger registered")
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Events.Append(ctx, &event.ProtocolEvent{
			Type:   event.TypeRegistryUpdated,
			Detail: "orchestrator.ledger registered",
		})
	})
}

// SetOracleBridge registers the bridge and the identity its decisions arrive
// under.
func (u *Usecase) SetOracleBridge(ctx context.Context, identity string, b ScoreRequester) error {
	if b == nil || common.IsZeroAddress(identity) {
		return common.ErrZeroAddress
	}
	u.mu.Lock()
	u.bridge = b
	u.bridgeID = identity
	u.mu.Unlock()
	u.log.WithFields(logrus.Fields{"component": "orchestrator", "bridge": identity}).Info("oracle bridge registered")
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Events.Append(ctx, &event.ProtocolEvent{
			Type:   event.TypeRegistryUpdated,
			Detail: fmt.Sprintf("orchestrator.bridge=%s", identity),
		})
	})
}

// RequestLoan creates the loan in state requested and forwards it to the
// oracle bridge; the returned correlation id is recorded on the loan. The
// scoring answer arrives later through Approve/Reject.
func (u *Usecase) RequestLoan(ctx context.Context, borrower string, amount uint64) (*LoanDTO, error) {
	if common.IsZeroAddress(borrower) {
		return nil, common.ErrZeroAddress
	}
	if amount < u.minAmount || amount > u.maxAmount {
		return nil, fmt.Errorf("%w: %d", loanDomain.ErrInvalidAmount, amount)
	}
	u.mu.RLock()
	bridge := u.bridge
	u.mu.RUnlock()
	if bridge == nil {
		return nil, errNoBridge
	}

	gctx, release, err := u.guard.Enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var dto *LoanDTO
	err = u.uow.WithinTx(gctx, func(r uow.Repos) error {
		pending, err := r.Loans.GetPendingByBorrower(gctx, borrower)
		switch {
		case err == nil:
			return fmt.Errorf("%w: loan %d", loanDomain.ErrPendingExists, pending.ID)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		l := &loanDomain.Loan{
			Borrower:       borrower,
			Principal:      amount,
			State:          loanDomain.StateRequested,
			StateUpdatedAt: u.now(),
		}
		if err := r.Loans.Create(gctx, l); err != nil {
			return err
		}
		if err := r.Events.Append(gctx, &event.ProtocolEvent{
			Type:    event.TypeLoanRequested,
			LoanID:  l.ID,
			Address: borrower,
			Amount:  amount,
		}); err != nil {
			return err
		}

		reqID, err := bridge.RequestScoreTx(gctx, r, u.identity, borrower, l.ID)
		if err != nil {
			return err
		}
		l.RequestID = reqID
		if err := r.Loans.Save(gctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"loan_id": dto.LoanID, "borrower": borrower, "amount": amount}).
		Info("loan requested")
	return dto, nil
}

// ApproveTx applies an approval decision inside the bridge's transaction. A
// decision on a loan that already left the requested state is a silent no-op:
// the oracle network delivers at least once, and duplicates must not error.
func (u *Usecase) ApproveTx(ctx context.Context, r uow.Repos, caller string, loanID, rateBps uint64) error {
	if err := u.authorizeBridge(caller); err != nil {
		return err
	}
	gctx, release, err := u.guard.Enter(ctx)
	if err != nil {
		return err
	}
	defer release()

	l, err := r.Loans.GetByIDForUpdate(gctx, loanID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %d", loanDomain.ErrNotFound, loanID)
	}
	if err != nil {
		return err
	}
	if l.State != loanDomain.StateRequested {
		return nil
	}

	now := u.now()
	l.State = loanDomain.StateApproved
	l.RateBps = rateBps
	l.FundedAt = &now
	l.StateUpdatedAt = now
	if err := r.Loans.Save(gctx, l); err != nil {
		return err
	}
	if err := r.Events.Append(gctx, &event.ProtocolEvent{
		Type:    event.TypeLoanApproved,
		LoanID:  l.ID,
		Address: l.Borrower,
		Amount:  l.Principal,
		Detail:  fmt.Sprintf("rate_bps=%d", rateBps),
	}); err != nil {
		return err
	}

	u.mu.RLock()
	funder := u.ledger
	u.mu.RUnlock()
	if funder == nil {
		return errNoLedger
	}
	if err := funder.FundLoanTx(gctx, r, u.identity, l.Borrower, l.Principal); err != nil {
		return err
	}
	u.log.WithFields(logrus.Fields{"loan_id": l.ID, "rate_bps": rateBps}).Info("loan approved")
	return nil
}

// RejectTx applies a rejection decision inside the bridge's transaction,
// with the same duplicate-delivery tolerance as ApproveTx.
func (u *Usecase) RejectTx(ctx context.Context, r uow.Repos, caller string, loanID uint64, reason string) error {
	if err := u.authorizeBridge(caller); err != nil {
		return err
	}
	gctx, release, err := u.guard.Enter(ctx)
	if err != nil {
		return err
	}
	defer release()

	l, err := r.Loans.GetByIDForUpdate(gctx, loanID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %d", loanDomain.ErrNotFound, loanID)
	}
	if err != nil {
		return err
	}
	if l.State != loanDomain.StateRequested {
		return nil
	}

	l.State = loanDomain.StateRejected
	l.StateUpdatedAt = u.now()
	if err := r.Loans.Save(gctx, l); err != nil {
		return err
	}
	if err := r.Events.Append(gctx, &event.ProtocolEvent{
		Type:    event.TypeLoanRejected,
		LoanID:  l.ID,
		Address: l.Borrower,
		Detail:  reason,
	}); err != nil {
		return err
	}
	u.log.WithFields(logrus.Fields{"loan_id": l.ID, "reason": reason}).Info("loan rejected")
	return nil
}

// Repay settles an approved loan: principal plus at least one day of accrued
// interest. Overpayment is refunded; a failed refund aborts the repayment.
func (u *Usecase) Repay(ctx context.Context, caller string, loanID, amount uint64) (*RepaymentDTO, error) {
	gctx, release, err := u.guard.Enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var dto *RepaymentDTO
	err = u.uow.WithinLoanTx(gctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if l.Borrower != caller {
			return fmt.Errorf("%w: caller %s, borrower %s", loanDomain.ErrNotBorrower, caller, l.Borrower)
		}
		switch l.State {
		case loanDomain.StateRepaid:
			return loanDomain.ErrAlreadyRepaid
		case loanDomain.StateApproved:
		default:
			return loanDomain.ErrNotApproved
		}

		days := daysElapsed(*l.FundedAt, u.now())
		interest := accruedInterest(l.Principal, l.RateBps, days)
		total := l.Principal + interest
		if amount < total {
			return fmt.Errorf("%w: required %d, provided %d", loanDomain.ErrInsufficientRepayment, total, amount)
		}

		l.State = loanDomain.StateRepaid
		l.StateUpdatedAt = u.now()
		if err := r.Loans.Save(gctx, l); err != nil {
			return err
		}
		if err := r.Events.Append(gctx, &event.ProtocolEvent{
			Type:    event.TypeLoanRepaid,
			LoanID:  l.ID,
			Address: l.Borrower,
			Amount:  total,
			Detail:  fmt.Sprintf("interest=%d days=%d", interest, days),
		}); err != nil {
			return err
		}

		u.mu.RLock()
		funder := u.ledger
		u.mu.RUnlock()
		if funder == nil {
			return errNoLedger
		}
		if err := funder.ReceiveRepaymentTx(gctx, r, u.identity, l.Borrower, total); err != nil {
			return err
		}
		if amount > total {
			if err := u.refunds.Transfer(gctx, l.Borrower, amount-total); err != nil {
				return fmt.Errorf("refund: %w: %v", ledgerDomain.ErrTransferFailed, err)
			}
		}
		dto = &RepaymentDTO{LoanID: l.ID, Principal: l.Principal, Interest: interest, Total: total, Refund: amount - total}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", loanDomain.ErrNotFound, loanID)
	}
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"loan_id": loanID, "total": dto.Total, "refund": dto.Refund}).
		Info("loan repaid")
	return dto, nil
}

// CalculateRepayment quotes the amount owed right now. It never errors on
// missing, unapproved or repaid loans; those quote as zero so callers can
// distinguish "nothing owed" from a hard failure.
func (u *Usecase) CalculateRepayment(ctx context.Context, loanID uint64) (*RepaymentQuote, error) {
	l, err := u.repo.GetByID(ctx, loanID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &RepaymentQuote{LoanID: loanID}, nil
	}
	if err != nil {
		return nil, err
	}
	if l.State != loanDomain.StateApproved || l.FundedAt == nil {
		return &RepaymentQuote{LoanID: loanID}, nil
	}
	interest := accruedInterest(l.Principal, l.RateBps, daysElapsed(*l.FundedAt, u.now()))
	return &RepaymentQuote{
		LoanID:    l.ID,
		Total:     l.Principal + interest,
		Principal: l.Principal,
		Interest:  interest,
	}, nil
}

func (u *Usecase) GetLoan(ctx context.Context, loanID uint64) (*LoanDTO, error) {
	l, err := u.repo.GetByID(ctx, loanID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", loanDomain.ErrNotFound, loanID)
	}
	if err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) authorizeBridge(caller string) error {
	u.mu.RLock()
	registered := u.bridgeID
	u.mu.RUnlock()
	if registered == "" || caller != registered {
		return fmt.Errorf("%w: %s", common.ErrUnauthorizedCaller, caller)
	}
	return nil
}

func toDTO(l *loanDomain.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:    l.ID,
		Borrower:  l.Borrower,
		Principal: l.Principal,
		RateBps:   l.RateBps,
		State:     string(l.State),
		RequestID: l.RequestID,
		FundedAt:  l.FundedAt,
		CreatedAt: l.CreatedAt,
	}
}
