package lib

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	cases := []struct {
		name         string
		x, low, high float64
		expected     float64
	}{
		{"inside", 0.4, 0, 1, 0.4},
		{"below", -0.2, 0, 1, 0},
		{"above", 1.4, 0, 1, 1},
		{"lower bound", 0, 0, 1, 0},
		{"upper bound", 1, 0, 1, 1},
		{"nan", math.NaN(), 0, 1, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if v := Clamp(c.x, c.low, c.high); v != c.expected {
				t.Errorf("Clamp(%.2f, %.2f, %.2f) = %.4f, expected %.4f", c.x, c.low, c.high, v, c.expected)
			}
		})
	}
}

// TestIntervalOverlap checks the Jaccard overlap of the route duration buckets.
func TestIntervalOverlap(t *testing.T) {
	cases := []struct {
		name     string
		a, b     Interval
		expected float64
	}{
		{"identical", Interval{2, 4}, Interval{2, 4}, 1},
		{"adjacent buckets", Interval{1, 2}, Interval{2, 4}, 0},
		{"disjoint", Interval{1, 2}, Interval{8, 12}, 0},
		{"contained", Interval{1, 4}, Interval{2, 4}, 2.0 / 3.0},
		{"partial", Interval{2, 6}, Interval{4, 8}, 2.0 / 6.0},
		{"symmetric", Interval{4, 8}, Interval{2, 6}, 2.0 / 6.0},
		{"same point", Interval{3, 3}, Interval{3, 3}, 1},
		{"different points", Interval{3, 3}, Interval{4, 4}, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v := IntervalOverlap(c.a, c.b)
			if math.Abs(v-c.expected) > 1e-9 {
				t.Errorf("IntervalOverlap(%v, %v) = %.6f, expected %.6f", c.a, c.b, v, c.expected)
			}
		})
	}
}
