package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"lendpool-backend/internal/domain/common"
	"lendpool-backend/internal/domain/event"
	ledgerDomain "lendpool-backend/internal/domain/ledger"
	"lendpool-backend/internal/domain/uow"
	"lendpool-backend/pkg/guard"
)

// TransferGateway moves funds out of the pool to a wallet. A failed transfer
// aborts the surrounding transaction.
type TransferGateway interface {
	Transfer(ctx context.Context, to string, amount uint64) error
}

// Usecase is the funds ledger: pooled deposits plus the total-liquidity
// aggregate. Loan funding and repayment credit are callable only by the
// registered orchestrator identity.
type Usecase struct {
	repo   ledgerDomain.Repository
	uow    uow.UnitOfWork
	payout TransferGateway
	guard  guard.Guard
	log    *logrus.Logger

	mu           sync.RWMutex
	orchestrator string
}

func NewUsecase(repo ledgerDomain.Repository, u uow.UnitOfWork, payout TransferGateway, log *logrus.Logger) *Usecase {
	return &Usecase{repo: repo, uow: u, payout: payout, log: log}
}

// SetOrchestrator registers the identity allowed to move pooled funds.
// Changing it does not affect loans already in flight; no loan state lives
// here.
func (u *Usecase) SetOrchestrator(ctx context.Context, identity string) error {
	if common.IsZeroAddress(identity) {
		return common.ErrZeroAddress
	}
	u.mu.Lock()
	prev := u.orchestrator
	u.orchestrator = identity
	u.mu.Unlock()

	u.log.WithFields(logrus.Fields{"component": "ledger", "previous": prev, "current": identity}).
		Info("orchestrator registered")
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Events.Append(ctx, &event.ProtocolEvent{
			Type:   event.TypeRegistryUpdated,
			Detail: fmt.Sprintf("ledger.orchestrator=%s", identity),
		})
	})
}

func (u *Usecase) Deposit(ctx context.Context, depositor string, amount uint64) (*DepositDTO, error) {
	if common.IsZeroAddress(depositor) {
		return nil, common.ErrZeroAddress
	}
	if amount == 0 {
		return nil, common.ErrZeroAmount
	}
	gctx, release, err := u.guard.Enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var dto *DepositDTO
	err = u.uow.WithinTx(gctx, func(r uow.Repos) error {
		acct, err := r.Ledger.GetAccountForUpdate(gctx, depositor)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// first deposit creates the account
			acct = &ledgerDomain.DepositAccount{Address: depositor}
		case err != nil:
			return err
		}
		pool, err := r.Ledger.GetPoolForUpdate(gctx)
		if err != nil {
			return err
		}

		acct.Balance += amount
		pool.TotalLiquidity += amount
		if err := r.Ledger.SaveAccount(gctx, acct); err != nil {
			return err
		}
		if err := r.Ledger.SavePool(gctx, pool); err != nil {
			return err
		}
		if err := r.Events.Append(gctx, &event.ProtocolEvent{
			Type:    event.TypeDeposited,
			Address: depositor,
			Amount:  amount,
			Detail:  fmt.Sprintf("balance=%d", acct.Balance),
		}); err != nil {
			return err
		}
		dto = &DepositDTO{Address: depositor, Balance: acct.Balance, TotalLiquidity: pool.TotalLiquidity}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"depositor": depositor, "amount": amount}).Info("deposit accepted")
	return dto, nil
}

// Withdraw debits the caller's balance and the pool first, then attempts the
// outbound transfer; a transfer failure rolls the whole invocation back.
func (u *Usecase) Withdraw(ctx context.Context, depositor string, amount uint64) (*DepositDTO, error) {
	if common.IsZeroAddress(depositor) {
		return nil, common.ErrZeroAddress
	}
	if amount == 0 {
		return nil, common.ErrZeroAmount
	}
	gctx, release, err := u.guard.Enter(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var dto *DepositDTO
	err = u.uow.WithinTx(gctx, func(r uow.Repos) error {
		acct, err := r.Ledger.GetAccountForUpdate(gctx, depositor)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: requested %d, available 0", ledgerDomain.ErrInsufficientBalance, amount)
		}
		if err != nil {
			return err
		}
		if amount > acct.Balance {
			return fmt.Errorf("%w: requested %d, available %d", ledgerDomain.ErrInsufficientBalance, amount, acct.Balance)
		}
		pool, err := r.Ledger.GetPoolForUpdate(gctx)
		if err != nil {
			return err
		}
		if amount > pool.TotalLiquidity {
			return fmt.Errorf("%w: requested %d, available %d", ledgerDomain.ErrInsufficientLiquidity, amount, pool.TotalLiquidity)
		}

		acct.Balance -= amount
		pool.TotalLiquidity -= amount
		if err := r.Ledger.SaveAccount(gctx, acct); err != nil {
			return err
		}
		if err := r.Ledger.SavePool(gctx, pool); err != nil {
			return err
		}
		if err := r.Events.Append(gctx, &event.ProtocolEvent{
			Type:    event.TypeWithdrawn,
			Address: depositor,
			Amount:  amount,
			Detail:  fmt.Sprintf("balance=%d", acct.Balance),
		}); err != nil {
			return err
		}

		// Interaction last: state above is already staged in the tx session, so
		// the recipient cannot observe or exploit a half-applied withdrawal.
		if err := u.payout.Transfer(gctx, depositor, amount); err != nil {
			return fmt.Errorf("%w: %v", ledgerDomain.ErrTransferFailed, err)
		}
		dto = &DepositDTO{Address: depositor, Balance: acct.Balance, TotalLiquidity: pool.TotalLiquidity}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.WithFields(logrus.Fields{"depositor": depositor, "amount": amount}).Info("withdrawal completed")
	return dto, nil
}

// FundLoanTx disburses principal to the borrower inside the caller's
// transaction. Only the registered orchestrator may call it.
func (u *Usecase) FundLoanTx(ctx context.Context, r uow.Repos, caller, borrower string, amount uint64) error {
	if err := u.authorize(caller); err != nil {
		return err
	}
	if common.IsZeroAddress(borrower) {
		return common.ErrZeroAddress
	}
	if amount == 0 {
		return common.ErrZeroAmount
	}
	gctx, release, err := u.guard.Enter(ctx)
	if err != nil {
		return err
	}
	defer release()

	pool, err := r.Ledger.GetPoolForUpdate(gctx)
	if err != nil {
		return err
	}
	if amount > pool.TotalLiquidity {
		return fmt.Errorf("%w: requested %d, available %d", ledgerDomain.ErrInsufficientLiquidity, amount, pool.TotalLiquidity)
	}
	pool.TotalLiquidity -= amount
	if err := r.Ledger.SavePool(gctx, pool); err != nil {
		return err
	}
	if err := r.Events.Append(gctx, &event.ProtocolEvent{
		Type:    event.TypeLoanFunded,
		Address: borrower,
		Amount:  amount,
	}); err != nil {
		return err
	}
	if err := u.payout.Transfer(gctx, borrower, amount); err != nil {
		return fmt.Errorf("%w: %v", ledgerDomain.ErrTransferFailed, err)
	}
	u.log.WithFields(logrus.Fields{"borrower": borrower, "amount": amount}).Info("loan funded")
	return nil
}

// ReceiveRepaymentTx credits a repayment back into the pool inside the
// caller's transaction. Only the registered orchestrator may call it.
func (u *Usecase) ReceiveRepaymentTx(ctx context.Context, r uow.Repos, caller, borrower string, amount uint64) error {
	if err := u.authorize(caller); err != nil {
		return err
	}
	if amount == 0 {
		return common.ErrZeroAmount
	}
	gctx, release, err := u.guard.Enter(ctx)
	if err != nil {
		return err
	}
	defer release()

	pool, err := r.Ledger.GetPoolForUpdate(gctx)
	if err != nil {
		return err
	}
	pool.TotalLiquidity += amount
	if err := r.Ledger.SavePool(gctx, pool); err != nil {
		return err
	}
	if err := r.Events.Append(gctx, &event.ProtocolEvent{
		Type:    event.TypeRepaymentReceived,
		Address: borrower,
		Amount:  amount,
	}); err != nil {
		return err
	}
	u.log.WithFields(logrus.Fields{"borrower": borrower, "amount": amount}).Info("repayment received")
	return nil
}

func (u *Usecase) GetDeposit(ctx context.Context, address string) (*BalanceDTO, error) {
	acct, err := u.repo.GetAccount(ctx, address)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &BalanceDTO{Address: address}, nil
	}
	if err != nil {
		return nil, err
	}
	return &BalanceDTO{Address: acct.Address, Balance: acct.Balance, UpdatedAt: acct.UpdatedAt}, nil
}

func (u *Usecase) GetTotalLiquidity(ctx context.Context) (uint64, error) {
	pool, err := u.repo.GetPool(ctx)
	if err != nil {
		return 0, err
	}
	return pool.TotalLiquidity, nil
}

func (u *Usecase) authorize(caller string) error {
	u.mu.RLock()
	registered := u.orchestrator
	u.mu.RUnlock()
	if registered == "" || caller != registered {
		return fmt.Errorf("%w: %s", common.ErrUnauthorizedCaller, caller)
	}
	return nil
}
