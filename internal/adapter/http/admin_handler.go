package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"lendpool-backend/internal/usecase/ledger"
	"lendpool-backend/internal/usecase/loan"
	"lendpool-backend/internal/usecase/oracle"
)

// AdminHandler exposes the owner-gated registry: which identities the
// components trust, and the oracle routing parameters. All mutations are
// audited as registry_updated events by the usecases themselves.
type AdminHandler struct {
	ledgerUC   *ledger.Usecase
	loanUC     *loan.Usecase
	oracleUC   *oracle.Usecase
	ownerToken string
}

func NewAdminHandler(l *ledger.Usecase, lo *loan.Usecase, o *oracle.Usecase, ownerToken string) *AdminHandler {
	return &AdminHandler{ledgerUC: l, loanUC: lo, oracleUC: o, ownerToken: ownerToken}
}

func (h *AdminHandler) authorized(c echo.Context) bool {
	return h.ownerToken != "" &&
		subtle.ConstantTimeCompare([]byte(bearerToken(c)), []byte(h.ownerToken)) == 1
}

type identityReq struct {
	Identity string `json:"identity" validate:"required"`
}

func (h *AdminHandler) SetLedgerOrchestrator(c echo.Context) error {
	if !h.authorized(c) {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid owner token"})
	}
	var req identityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	if err := h.ledgerUC.SetOrchestrator(c.Request().Context(), req.Identity); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

// SetOrchestratorLedger re-wires the orchestrator to the ledger component.
func (h *AdminHandler) SetOrchestratorLedger(c echo.Context) error {
	if !h.authorized(c) {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid owner token"})
	}
	if err := h.loanUC.SetLedger(c.Request().Context(), h.ledgerUC); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

func (h *AdminHandler) SetOrchestratorBridge(c echo.Context) error {
	if !h.authorized(c) {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid owner token"})
	}
	var req identityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	if err := h.loanUC.SetOracleBridge(c.Request().Context(), req.Identity, h.oracleUC); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

func (h *AdminHandler) SetOracleOrchestrator(c echo.Context) error {
	if !h.authorized(c) {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid owner token"})
	}
	var req identityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	if err := h.oracleUC.SetOrchestrator(c.Request().Context(), req.Identity, h.loanUC); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

type sourceReq struct {
	Source string `json:"source" validate:"required"`
}

func (h *AdminHandler) SetOracleSource(c echo.Context) error {
	if !h.authorized(c) {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid owner token"})
	}
	var req sourceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := h.oracleUC.SetSource(c.Request().Context(), req.Source); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

type subscriptionReq struct {
	SubscriptionID uint64 `json:"subscription_id"`
}

func (h *AdminHandler) SetOracleSubscription(c echo.Context) error {
	if !h.authorized(c) {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid owner token"})
	}
	var req subscriptionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := h.oracleUC.SetSubscriptionParams(c.Request().Context(), req.SubscriptionID); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

type gasLimitReq struct {
	GasLimit uint32 `json:"gas_limit"`
}

func (h *AdminHandler) SetOracleGasLimit(c echo.Context) error {
	if !h.authorized(c) {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid owner token"})
	}
	var req gasLimitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := h.oracleUC.SetGasLimit(c.Request().Context(), req.GasLimit); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}
