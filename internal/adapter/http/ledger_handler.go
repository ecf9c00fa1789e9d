package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lendpool-backend/internal/usecase/ledger"
)

type LedgerHandler struct{ uc *ledger.Usecase }

func NewLedgerHandler(uc *ledger.Usecase) *LedgerHandler { return &LedgerHandler{uc: uc} }

type amountReq struct {
	Amount uint64 `json:"amount"`
}

func (h *LedgerHandler) Deposit(c echo.Context) error {
	wallet, ok := walletFromHeader(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid " + HeaderWallet})
	}
	var req amountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := h.uc.Deposit(c.Request().Context(), wallet, req.Amount)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LedgerHandler) Withdraw(c echo.Context) error {
	wallet, ok := walletFromHeader(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid " + HeaderWallet})
	}
	var req amountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := h.uc.Withdraw(c.Request().Context(), wallet, req.Amount)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LedgerHandler) GetDeposit(c echo.Context) error {
	address := c.Param("address")
	if !reWallet.MatchString(address) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid address"})
	}
	dto, err := h.uc.GetDeposit(c.Request().Context(), address)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LedgerHandler) GetLiquidity(c echo.Context) error {
	total, err := h.uc.GetTotalLiquidity(c.Request().Context())
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]uint64{"total_liquidity": total})
}
