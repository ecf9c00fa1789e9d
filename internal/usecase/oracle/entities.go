package oracle

import "time"

// SubmitRequest is the opaque scoring request handed to the oracle network.
type SubmitRequest struct {
	Source         string `json:"source"`
	SubscriptionID uint64 `json:"subscription_id"`
	GasLimit       uint32 `json:"gas_limit"`
	Wallet         string `json:"wallet"`
	LoanID         uint64 `json:"loan_id"`
}

type RequestDTO struct {
	RequestID   string    `json:"request_id"`
	Borrower    string    `json:"borrower"`
	LoanID      uint64    `json:"loan_id"`
	Fulfilled   bool      `json:"fulfilled"`
	RequestedAt time.Time `json:"requested_at"`
}

type ScoreDTO struct {
	Address   string    `json:"address"`
	Score     uint64    `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}
