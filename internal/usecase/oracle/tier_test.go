package oracle

import "testing"

func TestTier_Boundaries(t *testing.T) {
	cases := []struct {
		score        uint64
		wantApproved bool
		wantRate     uint64
		wantReason   string
	}{
		{0, false, 0, ReasonScoreTooLow},
		{300, false, 0, ReasonScoreTooLow},
		{649, false, 0, ReasonScoreTooLow},
		{650, true, StandardRateBps, ""},
		{699, true, StandardRateBps, ""},
		{700, true, PremiumRateBps, ""},
		{780, true, PremiumRateBps, ""},
		{850, true, PremiumRateBps, ""},
	}
	for _, c := range cases {
		d := Tier(c.score)
		if d.Approved != c.wantApproved || d.RateBps != c.wantRate || d.Reason != c.wantReason {
			t.Errorf("Tier(%d) = %+v, want approved=%v rate=%d reason=%q",
				c.score, d, c.wantApproved, c.wantRate, c.wantReason)
		}
	}
}
