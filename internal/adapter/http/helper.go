package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"lendpool-backend/internal/domain/common"
	ledgerDomain "lendpool-backend/internal/domain/ledger"
	loanDomain "lendpool-backend/internal/domain/loan"
	oracleDomain "lendpool-backend/internal/domain/oracle"
)

// HeaderWallet carries the caller's wallet address on protocol routes.
const HeaderWallet = "Ax-Wallet-Address"

// walletFromHeader extracts and validates the caller identity.
func walletFromHeader(c echo.Context) (string, bool) {
	w := strings.TrimSpace(c.Request().Header.Get(HeaderWallet))
	return w, reWallet.MatchString(w)
}

// statusFor maps protocol sentinel errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, loanDomain.ErrNotFound),
		errors.Is(err, oracleDomain.ErrRequestNotFound),
		errors.Is(err, oracleDomain.ErrScoreNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrUnauthorizedCaller):
		return http.StatusForbidden
	case errors.Is(err, loanDomain.ErrPendingExists),
		errors.Is(err, loanDomain.ErrAlreadyRepaid),
		errors.Is(err, oracleDomain.ErrAlreadyFulfilled):
		return http.StatusConflict
	case errors.Is(err, ledgerDomain.ErrTransferFailed):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func respondErr(c echo.Context, err error) error {
	return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
}

// bearerToken pulls the token out of an Authorization: Bearer header.
func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, prefix))
}
