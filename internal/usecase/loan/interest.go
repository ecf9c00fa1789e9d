package loan

import "time"

// Loan amount bounds in minor units: 0.01 to 100 currency units.
const (
	MinLoanAmount uint64 = 1
	MaxLoanAmount uint64 = 10_000
)

const (
	secondsPerDay = 86_400
	daysPerYear   = 365
)

// daysElapsed floors to whole days with a one-day minimum, so repaying in the
// same instant the loan was funded still accrues one day of interest.
func daysElapsed(fundedAt, now time.Time) uint64 {
	delta := now.Unix() - fundedAt.Unix()
	if delta < secondsPerDay {
		return 1
	}
	return uint64(delta / secondsPerDay)
}

// accruedInterest computes floor(principal * rateBps * days / 365 / 100).
// RateBps carries whole percentage points. Magnitudes are bounded by
// MaxLoanAmount, so uint64 arithmetic cannot overflow.
func accruedInterest(principal, rateBps, days uint64) uint64 {
	return principal * rateBps * days / daysPerYear / 100
}
