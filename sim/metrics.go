// Aggregates wait-time statistics from completed simulation records.

package sim

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/vishnu190806/emergency-supply-chain-management-system/dispatch"
)

// UrgentCategory is the most urgent supply category, reported separately so
// a discipline's preferential treatment of it is visible.
const UrgentCategory = dispatch.CategoryMedicalKit

// ServiceLevelSeconds is the maximum acceptable wait used to compute the
// urgent-category compliance fraction.
const ServiceLevelSeconds = 3600.0

// RunMetrics summarizes one simulation run. All waits are in seconds.
type RunMetrics struct {
	MeanWait       float64   // Mean wait across all completions
	P95Wait        float64   // 95th-percentile wait, linearly interpolated
	MeanWaitUrgent float64   // Mean wait restricted to UrgentCategory
	UrgentFraction float64   // Share of urgent jobs served within the service level
	Completed      int       // Total completed count
	Waits          []float64 // Raw wait sequence, completion order
}

// Summarize computes RunMetrics over the given records. Empty input yields
// all-zero metrics.
func Summarize(records []Record) RunMetrics {
	waits := make([]float64, 0, len(records))
	var urgentWaits []float64
	for _, r := range records {
		waits = append(waits, r.Wait)
		if r.Category == UrgentCategory {
			urgentWaits = append(urgentWaits, r.Wait)
		}
	}

	m := RunMetrics{
		Completed: len(records),
		Waits:     waits,
	}
	if len(waits) > 0 {
		m.MeanWait = stat.Mean(waits, nil)
		m.P95Wait = Percentile(waits, 95)
	}
	if len(urgentWaits) > 0 {
		m.MeanWaitUrgent = stat.Mean(urgentWaits, nil)
		within := 0
		for _, w := range urgentWaits {
			if w <= ServiceLevelSeconds {
				within++
			}
		}
		m.UrgentFraction = float64(within) / float64(len(urgentWaits))
	}
	return m
}

// Percentile computes the p-th percentile of data (p in [0, 100]) with
// linear interpolation between order statistics at rank p/100*(n-1).
// Returns 0 for empty input. The input slice is not modified.
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	rank := p / 100.0 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	return sorted[lower]*(float64(upper)-rank) + sorted[upper]*(rank-float64(lower))
}

// String renders the run metrics on one line for log output.
func (m RunMetrics) String() string {
	return fmt.Sprintf("mean_wait=%.1fs p95=%.1fs urgent_mean=%.1fs urgent_within_sl=%.2f completed=%d",
		m.MeanWait, m.P95Wait, m.MeanWaitUrgent, m.UrgentFraction, m.Completed)
}
