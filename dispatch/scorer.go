package dispatch

import "time"

// Scorer computes a priority score for a request at a given reference time.
// Higher scores are served first. Implementations MUST NOT modify the
// request — only the return value is used.
type Scorer interface {
	Score(req Request, now time.Time) float64
}

// baseScores maps supply categories to their base urgency weight.
// Categories not in the table score baseUnknown.
var baseScores = map[string]float64{
	CategoryMedicalKit: 10,
	CategoryWater:      6,
	CategoryFood:       4,
	CategoryBlanket:    2,
	CategoryTarpaulin:  1,
}

const baseUnknown = 3.0

// Wait bonus saturates after this many whole hours in the queue.
const maxWaitBonusHours = 6

// UrgencyScorer is the production scoring rule: an additive combination of
// the category base weight, a time-to-expiry bonus, a capped waiting-time
// bonus, and a small nearby-destination bonus.
type UrgencyScorer struct{}

// Score computes the urgency of req as seen at now. now must already be
// timezone-normalized; the queue guarantees this for admitted requests.
func (UrgencyScorer) Score(req Request, now time.Time) float64 {
	base, ok := baseScores[req.Category]
	if !ok {
		base = baseUnknown
	}
	return base + expiryBonus(req.Expiry, now) + waitBonus(req.Submitted, now) + distanceBonus(req.DistanceKM)
}

// expiryBonus boosts supplies that will spoil soon. An already-expired item
// gets no bonus rather than a penalty.
func expiryBonus(expiry *time.Time, now time.Time) float64 {
	if expiry == nil {
		return 0
	}
	daysLeft := expiry.Sub(now).Seconds() / 86400.0
	switch {
	case daysLeft <= 0:
		return 0
	case daysLeft <= 2:
		return 2
	case daysLeft <= 7:
		return 1
	default:
		return 0
	}
}

// waitBonus adds one point per full hour waited, clamped to
// [0, maxWaitBonusHours]. Future-dated submissions floor to zero, never
// negative. Sub-hour waits do not interpolate.
func waitBonus(submitted, now time.Time) float64 {
	hours := int(now.Sub(submitted).Seconds() / 3600.0)
	if hours < 0 {
		hours = 0
	}
	if hours > maxWaitBonusHours {
		hours = maxWaitBonusHours
	}
	return float64(hours)
}

// distanceBonus slightly favors nearby destinations so that otherwise-tied
// requests go to the closest site first. Band edges are inclusive.
func distanceBonus(distanceKM *float64) float64 {
	if distanceKM == nil {
		return 0
	}
	switch d := *distanceKM; {
	case d <= 5:
		return 0.5
	case d <= 20:
		return 0.2
	default:
		return 0
	}
}
