package event

import "time"

type Type string

const (
	TypeDeposited         Type = "deposited"
	TypeWithdrawn         Type = "withdrawn"
	TypeLoanRequested     Type = "loan_requested"
	TypeLoanApproved      Type = "loan_approved"
	TypeLoanRejected      Type = "loan_rejected"
	TypeLoanRepaid        Type = "loan_repaid"
	TypeLoanFunded        Type = "loan_funded"
	TypeRepaymentReceived Type = "repayment_received"
	TypeScoreRequested    Type = "score_requested"
	TypeScoreFulfilled    Type = "score_fulfilled"
	TypeOracleError       Type = "oracle_error"
	TypeRegistryUpdated   Type = "registry_updated"
)

// ProtocolEvent is one row of the append-only protocol event log, written in
// the same transaction as the state change it describes. LoanID is 0 when the
// event is not tied to a loan.
type ProtocolEvent struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	Type      Type      `gorm:"size:32;index" json:"type"`
	LoanID    uint64    `gorm:"index" json:"loan_id,omitempty"`
	Address   string    `gorm:"size:42" json:"address,omitempty"`
	Amount    uint64    `json:"amount,omitempty"`
	Detail    string    `gorm:"type:text" json:"detail,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ProtocolEvent) TableName() string { return "protocol_events" }
