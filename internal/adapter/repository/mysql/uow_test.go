package mysql

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	ledgerDomain "lendpool-backend/internal/domain/ledger"
	loanDomain "lendpool-backend/internal/domain/loan"
	"lendpool-backend/internal/domain/uow"
)

func TestUoW_WithinTx_CommitsOnNil(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	ctx := context.Background()

	err := u.WithinTx(ctx, func(r uow.Repos) error {
		return r.Ledger.SaveAccount(ctx, &ledgerDomain.DepositAccount{Address: testAddr, Balance: 10})
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}

	got, err := NewLedgerRepository(db).GetAccount(ctx, testAddr)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if got.Balance != 10 {
		t.Fatalf("balance=%d", got.Balance)
	}
}

func TestUoW_WithinTx_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	ctx := context.Background()
	boom := errors.New("abort")

	err := u.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Ledger.SaveAccount(ctx, &ledgerDomain.DepositAccount{Address: testAddr, Balance: 10}); err != nil {
			return err
		}
		if err := r.Loans.Create(ctx, makeLoan(testBorrower, 500)); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want abort error, got %v", err)
	}

	if _, err := NewLedgerRepository(db).GetAccount(ctx, testAddr); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("account survived rollback: %v", err)
	}
	if _, err := NewLoanRepository(db).GetByID(ctx, 1); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("loan survived rollback: %v", err)
	}
}

func TestUoW_WithinLoanTx_PassesLockedLoan(t *testing.T) {
	db := openTestDB(t)
	u := NewGormUoW(db)
	ctx := context.Background()

	l := makeLoan(testBorrower, 500)
	if err := NewLoanRepository(db).Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := u.WithinLoanTx(ctx, l.ID, func(r uow.Repos, got *loanDomain.Loan) error {
		if got.ID != l.ID || got.Borrower != testBorrower {
			t.Fatalf("loan=%+v", got)
		}
		got.State = loanDomain.StateApproved
		return r.Loans.Save(ctx, got)
	})
	if err != nil {
		t.Fatalf("WithinLoanTx: %v", err)
	}

	after, err := NewLoanRepository(db).GetByID(ctx, l.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if after.State != loanDomain.StateApproved {
		t.Fatalf("state=%s", after.State)
	}
}

func TestUoW_WithinLoanTx_UnknownLoan(t *testing.T) {
	u := NewGormUoW(openTestDB(t))

	err := u.WithinLoanTx(context.Background(), 404, func(uow.Repos, *loanDomain.Loan) error {
		t.Fatal("body must not run for a missing loan")
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("want ErrRecordNotFound, got %v", err)
	}
}
