package ledger

import "time"

type DepositDTO struct {
	Address        string `json:"address"`
	Balance        uint64 `json:"balance"`
	TotalLiquidity uint64 `json:"total_liquidity"`
}

type BalanceDTO struct {
	Address   string    `json:"address"`
	Balance   uint64    `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}
