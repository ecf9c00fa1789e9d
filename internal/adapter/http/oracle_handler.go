package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"lendpool-backend/internal/usecase/oracle"
)

// OracleHandler terminates the oracle network's fulfillment webhook and the
// read-only request/score views. Fulfillments are authenticated with the
// shared oracle bearer token, the service-level stand-in for the trusted
// oracle network identity.
type OracleHandler struct {
	uc    *oracle.Usecase
	token string
}

func NewOracleHandler(uc *oracle.Usecase, token string) *OracleHandler {
	return &OracleHandler{uc: uc, token: token}
}

type fulfillReq struct {
	RequestID string `json:"request_id" validate:"required"`
	Response  []byte `json:"response"`
	Error     string `json:"error"`
}

func (h *OracleHandler) Fulfill(c echo.Context) error {
	if subtle.ConstantTimeCompare([]byte(bearerToken(c)), []byte(h.token)) != 1 || h.token == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid oracle token"})
	}
	var req fulfillReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	if err := h.uc.Fulfill(c.Request().Context(), req.RequestID, req.Response, []byte(req.Error)); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "fulfilled"})
}

func (h *OracleHandler) GetRequest(c echo.Context) error {
	dto, err := h.uc.GetRequest(c.Request().Context(), c.Param("request_id"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *OracleHandler) GetScore(c echo.Context) error {
	address := c.Param("address")
	if !reWallet.MatchString(address) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid address"})
	}
	dto, err := h.uc.GetCreditScore(c.Request().Context(), address)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
