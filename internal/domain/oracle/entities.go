package oracle

import (
	"errors"
	"time"
)

var (
	ErrRequestNotFound  = errors.New("credit request not found")
	ErrAlreadyFulfilled = errors.New("credit request already fulfilled")
	ErrInvalidScore     = errors.New("invalid credit score")
	ErrEmptySource      = errors.New("scoring source is empty")
	ErrScoreNotFound    = errors.New("credit score not found")
)

// CreditRequest tracks one scoring request submitted to the oracle network.
// Fulfilled flips false to true exactly once; a second fulfillment for the same
// RequestID is rejected.
type CreditRequest struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"-"`
	RequestID   string    `gorm:"size:66;uniqueIndex:ux_credit_requests_request_id" json:"request_id"`
	Borrower    string    `gorm:"size:42;index" json:"borrower"`
	LoanID      uint64    `gorm:"index" json:"loan_id"`
	Fulfilled   bool      `gorm:"not null;default:false" json:"fulfilled"`
	RequestedAt time.Time `json:"requested_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (CreditRequest) TableName() string { return "credit_requests" }

// CreditScore caches the last score seen for a wallet. It is observability
// only: decisions are taken from the just-received fulfillment, never re-read
// from this table.
type CreditScore struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	Address   string    `gorm:"size:42;uniqueIndex:ux_credit_scores_address" json:"address"`
	Score     uint64    `gorm:"not null" json:"score"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CreditScore) TableName() string { return "credit_scores" }
