package loan

import "time"

type LoanDTO struct {
	LoanID    uint64     `json:"loan_id"`
	Borrower  string     `json:"borrower"`
	Principal uint64     `json:"principal"`
	RateBps   uint64     `json:"rate_bps"`
	State     string     `json:"state"`
	RequestID string     `json:"request_id,omitempty"`
	FundedAt  *time.Time `json:"funded_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type RepaymentDTO struct {
	LoanID    uint64 `json:"loan_id"`
	Principal uint64 `json:"principal"`
	Interest  uint64 `json:"interest"`
	Total     uint64 `json:"total"`
	Refund    uint64 `json:"refund"`
}

// RepaymentQuote is the non-throwing calculateRepayment result: all zeros for
// loans that do not exist, are unapproved, or are already repaid.
type RepaymentQuote struct {
	LoanID    uint64 `json:"loan_id"`
	Total     uint64 `json:"total"`
	Principal uint64 `json:"principal"`
	Interest  uint64 `json:"interest"`
}
