package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"testing"

	"gorm.io/gorm"

	loanDomain "lendpool-backend/internal/domain/loan"
	"lendpool-backend/internal/domain/uow"
	loanuc "lendpool-backend/internal/usecase/loan"
)

const orchestratorID = "loan-orchestrator"

type bridgeStub struct{ requestID string }

func (b bridgeStub) RequestScoreTx(context.Context, uow.Repos, string, string, uint64) (string, error) {
	return b.requestID, nil
}

func newLoanHandler(t *testing.T, m *mocks, withBridge bool) *LoanHandler {
	t.Helper()
	uc := loanuc.NewUsecase(m.loans, m.uow, noopPayout{}, orchestratorID, quietLogger())
	if withBridge {
		if err := uc.SetOracleBridge(context.Background(), "oracle-bridge", bridgeStub{requestID: "0xreq1"}); err != nil {
			t.Fatalf("SetOracleBridge: %v", err)
		}
	}
	return NewLoanHandler(uc)
}

func TestRequestLoan_Success(t *testing.T) {
	e := newEchoWithValidator()
	m := newMocks()
	m.loans.GetPendingByBorrowerFn = func(context.Context, string) (*loanDomain.Loan, error) {
		return nil, gorm.ErrRecordNotFound
	}
	m.loans.CreateFn = func(_ context.Context, l *loanDomain.Loan) error { l.ID = 1; return nil }
	h := newLoanHandler(t, m, true)

	rec, c := doJSON(e, stdhttp.MethodPost, "/loans", testWallet, mustJSON(map[string]any{"amount": 2500}))
	if err := h.RequestLoan(c); err != nil {
		t.Fatalf("RequestLoan: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	var got loanuc.LoanDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.LoanID != 1 || got.State != string(loanDomain.StateRequested) || got.RequestID != "0xreq1" {
		t.Fatalf("dto=%+v", got)
	}
}

func TestRequestLoan_PendingExistsIsConflict(t *testing.T) {
	e := newEchoWithValidator()
	m := newMocks()
	m.loans.GetPendingByBorrowerFn = func(context.Context, string) (*loanDomain.Loan, error) {
		return &loanDomain.Loan{ID: 8, State: loanDomain.StateRequested}, nil
	}
	h := newLoanHandler(t, m, true)

	rec, c := doJSON(e, stdhttp.MethodPost, "/loans", testWallet, mustJSON(map[string]any{"amount": 2500}))
	if err := h.RequestLoan(c); err != nil {
		t.Fatalf("RequestLoan: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRequestLoan_AmountOutOfBounds(t *testing.T) {
	e := newEchoWithValidator()
	h := newLoanHandler(t, newMocks(), true)

	rec, c := doJSON(e, stdhttp.MethodPost, "/loans", testWallet, mustJSON(map[string]any{"amount": 999_999}))
	if err := h.RequestLoan(c); err != nil {
		t.Fatalf("RequestLoan: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status=%d", rec.Code)
	}
}

func TestGetLoan_NotFoundIs404(t *testing.T) {
	e := newEchoWithValidator()
	m := newMocks()
	m.loans.GetByIDFn = func(context.Context, uint64) (*loanDomain.Loan, error) {
		return nil, gorm.ErrRecordNotFound
	}
	h := newLoanHandler(t, m, false)

	rec, c := doJSON(e, stdhttp.MethodGet, "/loans/42", "", nil)
	c.SetParamNames("loan_id")
	c.SetParamValues("42")
	if err := h.GetLoan(c); err != nil {
		t.Fatalf("GetLoan: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status=%d", rec.Code)
	}
}

func TestGetLoan_RejectsBadLoanID(t *testing.T) {
	e := newEchoWithValidator()
	h := newLoanHandler(t, newMocks(), false)

	for _, raw := range []string{"abc", "0", "-4"} {
		rec, c := doJSON(e, stdhttp.MethodGet, "/loans/"+raw, "", nil)
		c.SetParamNames("loan_id")
		c.SetParamValues(raw)
		if err := h.GetLoan(c); err != nil {
			t.Fatalf("GetLoan(%s): %v", raw, err)
		}
		if rec.Code != stdhttp.StatusBadRequest {
			t.Fatalf("loan_id=%q status=%d", raw, rec.Code)
		}
	}
}

func TestRepay_AlreadyRepaidIsConflict(t *testing.T) {
	e := newEchoWithValidator()
	m := newMocks()
	m.loans.GetByIDForUpdateFn = func(context.Context, uint64) (*loanDomain.Loan, error) {
		return &loanDomain.Loan{ID: 3, Borrower: testWallet, State: loanDomain.StateRepaid}, nil
	}
	h := newLoanHandler(t, m, false)

	rec, c := doJSON(e, stdhttp.MethodPost, "/loans/3/repayments", testWallet, mustJSON(map[string]any{"amount": 5000}))
	c.SetParamNames("loan_id")
	c.SetParamValues("3")
	if err := h.Repay(c); err != nil {
		t.Fatalf("Repay: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestQuote_MissingLoanQuotesZero(t *testing.T) {
	e := newEchoWithValidator()
	m := newMocks()
	m.loans.GetByIDFn = func(context.Context, uint64) (*loanDomain.Loan, error) {
		return nil, gorm.ErrRecordNotFound
	}
	h := newLoanHandler(t, m, false)

	rec, c := doJSON(e, stdhttp.MethodGet, "/loans/7/repayment", "", nil)
	c.SetParamNames("loan_id")
	c.SetParamValues("7")
	if err := h.Quote(c); err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	var got loanuc.RepaymentQuote
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.Total != 0 || got.LoanID != 7 {
		t.Fatalf("quote=%+v", got)
	}
}
