package lib

import "math"

// Clamp bounds x to the closed interval [low, high].
// NaN is mapped to low.
func Clamp(x, low, high float64) float64 {
	if math.IsNaN(x) || x < low {
		return low
	}
	if x > high {
		return high
	}
	return x
}

// Interval is a closed numeric range with Start <= End.
type Interval struct {
	Start float64
	End   float64
}

// IntervalOverlap computes the Jaccard overlap of two intervals:
// the length of their intersection divided by the span of their union.
//
// The result is in [0, 1]:
//   - identical intervals give 1
//   - disjoint intervals give 0
//   - touching intervals (a.End == b.Start) give 0
//
// Example:
//
//	IntervalOverlap(Interval{2, 4}, Interval{1, 2}) // 0
//	IntervalOverlap(Interval{2, 4}, Interval{2, 4}) // 1
//	IntervalOverlap(Interval{1, 4}, Interval{2, 4}) // 2/3
func IntervalOverlap(a, b Interval) float64 {
	intersection := math.Max(0, math.Min(a.End, b.End)-math.Max(a.Start, b.Start))
	union := math.Max(a.End, b.End) - math.Min(a.Start, b.Start)
	if union <= 0 {
		// Both intervals collapse to the same point.
		if a == b {
			return 1
		}
		return 0
	}
	return intersection / union
}
