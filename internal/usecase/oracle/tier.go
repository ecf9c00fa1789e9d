package oracle

// Protocol score thresholds. MaxScore is the ceiling the scoring model can
// produce; anything above it is a malformed fulfillment.
const (
	MinApprovalScore uint64 = 650
	PremiumThreshold uint64 = 700
	MaxScore         uint64 = 850

	PremiumRateBps  uint64 = 5
	StandardRateBps uint64 = 10
)

const ReasonScoreTooLow = "Credit score too low"

// Decision is the outcome of tiering a credit score.
type Decision struct {
	Approved bool
	RateBps  uint64
	Reason   string
}

// Tier maps a credit score onto the approval tiers:
// score >= 700 premium (5%), 650 <= score < 700 standard (10%),
// below 650 rejected. Pure so it can be tested exhaustively.
func Tier(score uint64) Decision {
	switch {
	case score >= PremiumThreshold:
		return Decision{Approved: true, RateBps: PremiumRateBps}
	case score >= MinApprovalScore:
		return Decision{Approved: true, RateBps: StandardRateBps}
	default:
		return Decision{Reason: ReasonScoreTooLow}
	}
}
