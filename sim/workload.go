// Synthetic workload generation: a seeded Poisson arrival process carrying
// randomized relief-supply requests, anchored to a single reference instant
// so that repeated runs are reproducible.

package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vishnu190806/emergency-supply-chain-management-system/dispatch"
)

// Arrival is one synthetic request and its offset (in seconds) from the
// workload anchor.
type Arrival struct {
	Time    float64
	Request dispatch.Request
}

// defaultSupplyMix is the category distribution arrivals draw from,
// uniformly.
var defaultSupplyMix = []string{
	dispatch.CategoryMedicalKit,
	dispatch.CategoryWater,
	dispatch.CategoryFood,
	dispatch.CategoryBlanket,
	dispatch.CategoryTarpaulin,
}

// Expiry-offset candidate sets (days), chosen per category. Medical kits
// skew perishable, water less so, everything else is long-dated.
var (
	expiryDaysMedical = []float64{0.5, 1, 3, 10}
	expiryDaysWater   = []float64{1, 3, 7, 20}
	expiryDaysOther   = []float64{3, 7, 30}
)

// distanceChoices are the candidate destination distances in kilometers.
var distanceChoices = []float64{1, 3, 8, 12, 25}

// GenerateArrivals produces the ordered arrival sequence over [0, horizon)
// seconds with exponentially distributed inter-arrival times at the given
// rate (events per second). All randomness comes from rng, consumed in a
// fixed order per arrival: inter-arrival gap, category, expiry offset,
// quantity, ID suffix, distance. Two calls with identically seeded RNGs
// produce identical sequences.
func GenerateArrivals(horizon, rate float64, rng *rand.Rand, anchor time.Time) []Arrival {
	var arrivals []Arrival
	if rate <= 0 {
		return arrivals
	}
	anchor = anchor.UTC()

	t := 0.0
	for t < horizon {
		t += rng.ExpFloat64() / rate
		if t >= horizon {
			break
		}

		category := defaultSupplyMix[rng.Intn(len(defaultSupplyMix))]

		var candidates []float64
		switch category {
		case dispatch.CategoryMedicalKit:
			candidates = expiryDaysMedical
		case dispatch.CategoryWater:
			candidates = expiryDaysWater
		default:
			candidates = expiryDaysOther
		}
		expiryDays := candidates[rng.Intn(len(candidates))]
		expiry := anchor.Add(time.Duration(expiryDays * 24 * float64(time.Hour)))

		quantity := rng.Intn(50) + 1
		id := fmt.Sprintf("A%d_%03d", int64(t*1000), rng.Intn(1000))
		distance := distanceChoices[rng.Intn(len(distanceChoices))]

		arrivals = append(arrivals, Arrival{
			Time: t,
			Request: dispatch.Request{
				ID:         id,
				Category:   category,
				Quantity:   quantity,
				Submitted:  anchor.Add(secondsToDuration(t)),
				Expiry:     &expiry,
				DistanceKM: &distance,
			},
		})
	}
	return arrivals
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
