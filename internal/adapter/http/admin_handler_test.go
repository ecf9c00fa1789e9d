package http

import (
	stdhttp "net/http"
	"testing"

	ledgeruc "lendpool-backend/internal/usecase/ledger"
	loanuc "lendpool-backend/internal/usecase/loan"
	oracleuc "lendpool-backend/internal/usecase/oracle"
)

const ownerToken = "owner-secret"

func newAdminHandler(m *mocks) *AdminHandler {
	ledgerUC := ledgeruc.NewUsecase(m.ledger, m.uow, noopPayout{}, quietLogger())
	loanUC := loanuc.NewUsecase(m.loans, m.uow, noopPayout{}, orchestratorID, quietLogger())
	oracleUC := oracleuc.NewUsecase(m.oracle, m.uow, networkStub{}, "oracle-bridge", quietLogger())
	return NewAdminHandler(ledgerUC, loanUC, oracleUC, ownerToken)
}

func TestAdmin_RejectsMissingOrWrongToken(t *testing.T) {
	e := newEchoWithValidator()
	h := newAdminHandler(newMocks())
	body := map[string]any{"identity": "loan-orchestrator"}

	rec, c := doJSON(e, stdhttp.MethodPut, "/admin/ledger/orchestrator", "", mustJSON(body))
	if err := h.SetLedgerOrchestrator(c); err != nil {
		t.Fatalf("SetLedgerOrchestrator: %v", err)
	}
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("no token: status=%d", rec.Code)
	}

	rec, c = doJSON(e, stdhttp.MethodPut, "/admin/ledger/orchestrator", "", mustJSON(body))
	c.Request().Header.Set("Authorization", "Bearer wrong")
	if err := h.SetLedgerOrchestrator(c); err != nil {
		t.Fatalf("SetLedgerOrchestrator: %v", err)
	}
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("wrong token: status=%d", rec.Code)
	}
}

func TestAdmin_SetLedgerOrchestrator(t *testing.T) {
	e := newEchoWithValidator()
	h := newAdminHandler(newMocks())

	rec, c := doJSON(e, stdhttp.MethodPut, "/admin/ledger/orchestrator", "", mustJSON(map[string]any{"identity": "loan-orchestrator"}))
	c.Request().Header.Set("Authorization", "Bearer "+ownerToken)
	if err := h.SetLedgerOrchestrator(c); err != nil {
		t.Fatalf("SetLedgerOrchestrator: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	// a blank identity fails validation before reaching the usecase
	rec, c = doJSON(e, stdhttp.MethodPut, "/admin/ledger/orchestrator", "", mustJSON(map[string]any{}))
	c.Request().Header.Set("Authorization", "Bearer "+ownerToken)
	if err := h.SetLedgerOrchestrator(c); err != nil {
		t.Fatalf("SetLedgerOrchestrator: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("blank identity: status=%d", rec.Code)
	}
}

func TestAdmin_SetOracleSource(t *testing.T) {
	e := newEchoWithValidator()
	h := newAdminHandler(newMocks())

	rec, c := doJSON(e, stdhttp.MethodPut, "/admin/oracle/source", "", mustJSON(map[string]any{"source": "return scoreOf(args[0]);"}))
	c.Request().Header.Set("Authorization", "Bearer "+ownerToken)
	if err := h.SetOracleSource(c); err != nil {
		t.Fatalf("SetOracleSource: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	// whitespace-only source is rejected by the usecase
	rec, c = doJSON(e, stdhttp.MethodPut, "/admin/oracle/source", "", mustJSON(map[string]any{"source": "  "}))
	c.Request().Header.Set("Authorization", "Bearer "+ownerToken)
	if err := h.SetOracleSource(c); err != nil {
		t.Fatalf("SetOracleSource: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("blank source: status=%d", rec.Code)
	}
}

func TestAdmin_SetOracleSubscriptionAndGasLimit(t *testing.T) {
	e := newEchoWithValidator()
	h := newAdminHandler(newMocks())

	rec, c := doJSON(e, stdhttp.MethodPut, "/admin/oracle/subscription", "", mustJSON(map[string]any{"subscription_id": 77}))
	c.Request().Header.Set("Authorization", "Bearer "+ownerToken)
	if err := h.SetOracleSubscription(c); err != nil {
		t.Fatalf("SetOracleSubscription: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("subscription: status=%d", rec.Code)
	}

	rec, c = doJSON(e, stdhttp.MethodPut, "/admin/oracle/gas-limit", "", mustJSON(map[string]any{"gas_limit": 300000}))
	c.Request().Header.Set("Authorization", "Bearer "+ownerToken)
	if err := h.SetOracleGasLimit(c); err != nil {
		t.Fatalf("SetOracleGasLimit: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("gas limit: status=%d", rec.Code)
	}
}
