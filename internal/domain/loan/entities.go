package loan

import (
	"errors"
	"time"
)

type State string

const (
	StateRequested State = "requested"
	StateApproved  State = "approved"
	StateRejected  State = "rejected"
	StateRepaid    State = "repaid"
)

var (
	ErrNotFound              = errors.New("loan not found")
	ErrInvalidAmount         = errors.New("loan amount out of bounds")
	ErrPendingExists         = errors.New("borrower already has a pending loan")
	ErrNotApproved           = errors.New("loan not approved")
	ErrAlreadyRepaid         = errors.New("loan already repaid")
	ErrInsufficientRepayment = errors.New("insufficient repayment")
	ErrNotBorrower           = errors.New("caller is not the borrower")
)

// Loan is an append-only record: ids are monotonically increasing from 1 and
// rows are never deleted. RateBps carries whole percentage points (5 == 5%).
// FundedAt is set the moment the loan is approved and is nil before that.
// RequestID correlates the loan with its credit-scoring request.
type Loan struct {
	ID             uint64     `gorm:"primaryKey;autoIncrement;column:id" json:"loan_id"`
	Borrower       string     `gorm:"size:42;index:idx_loans_borrower_state" json:"borrower"`
	Principal      uint64     `gorm:"not null" json:"principal"`
	RateBps        uint64     `gorm:"not null;default:0" json:"rate_bps"`
	State          State      `gorm:"size:16;default:'requested';index:idx_loans_borrower_state" json:"state"`
	FundedAt       *time.Time `json:"funded_at,omitempty"`
	RequestID      string     `gorm:"size:66;index" json:"request_id"`
	StateUpdatedAt time.Time  `gorm:"autoCreateTime" json:"state_updated_at"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// Pending reports whether the loan still awaits a credit decision.
func (l *Loan) Pending() bool { return l.State == StateRequested }
