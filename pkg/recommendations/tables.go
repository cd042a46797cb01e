package recommendations

import (
	"slices"
	"strings"
	"time"

	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/lib"
)

// Duration bucket labels as they appear on routes and in preferences.
const (
	Duration1To2Hours = "1-2 uur"
	Duration2To4Hours = "2-4 uur"
	Duration4To6Hours = "4-6 uur"
	Duration6To8Hours = "6-8 uur"
	DurationFullDay   = "hele dag"
)

// DurationBuckets lists the known duration labels from short to long.
var DurationBuckets = []string{
	Duration1To2Hours,
	Duration2To4Hours,
	Duration4To6Hours,
	Duration6To8Hours,
	DurationFullDay,
}

// durationRange maps a duration label to its span in hours.
func durationRange(label string) (lib.Interval, bool) {
	switch label {
	case Duration1To2Hours:
		return lib.Interval{Start: 1, End: 2}, true
	case Duration2To4Hours:
		return lib.Interval{Start: 2, End: 4}, true
	case Duration4To6Hours:
		return lib.Interval{Start: 4, End: 6}, true
	case Duration6To8Hours:
		return lib.Interval{Start: 6, End: 8}, true
	case DurationFullDay:
		return lib.Interval{Start: 8, End: 12}, true
	default:
		return lib.Interval{}, false
	}
}

// IsKnownDuration reports whether label is one of DurationBuckets.
func IsKnownDuration(label string) bool {
	_, ok := durationRange(label)
	return ok
}

var styleAffinity = map[TravelStyle]map[string]float64{
	TravelStyleRelaxed: {
		"Kastelen & Eten":      0.9,
		"Dorpjes & Fotografie": 0.8,
		"Strand & Restaurants": 0.9,
		"Nederlandse Cultuur":  0.7,
	},
	TravelStyleAdventure: {
		"Bier & Cultuur":      0.8,
		"Eilanden & Zee":      0.9,
		"Natuur & Fotografie": 0.8,
	},
	TravelStyleCultural: {
		"Kastelen & Eten":     0.9,
		"Nederlandse Cultuur": 1.0,
		"Bier & Cultuur":      0.8,
	},
	TravelStyleFamily: {
		"Dorpjes & Fotografie": 0.9,
		"Kastelen & Eten":      0.8,
		"Strand & Restaurants": 0.9,
	},
}

// IsKnownTravelStyle reports whether style is one of the four supported styles.
func IsKnownTravelStyle(style TravelStyle) bool {
	_, ok := styleAffinity[style]
	return ok
}

// affinity returns how well a category suits a travel style, 0.5 when unlisted.
func affinity(style TravelStyle, category string) float64 {
	if v, ok := styleAffinity[style][category]; ok {
		return v
	}
	return 0.5
}

type seasonalRule struct {
	months   []time.Month
	keywords []string
	boost    float64
}

var seasonalRules = []seasonalRule{
	{
		months:   []time.Month{time.March, time.April, time.May},
		keywords: []string{"Fotografie", "Natuur"},
		boost:    0.1,
	},
	{
		months:   []time.Month{time.June, time.July, time.August},
		keywords: []string{"Strand", "Eilanden"},
		boost:    0.15,
	},
	{
		months:   []time.Month{time.September, time.October, time.November},
		keywords: []string{"Kastelen", "Cultuur"},
		boost:    0.1,
	},
	{
		months:   []time.Month{time.December, time.January, time.February},
		keywords: []string{"Cultuur", "Eten"},
		boost:    0.1,
	},
}

// seasonalBoost returns the bonus for a category in the given month.
func seasonalBoost(month time.Month, category string) float64 {
	for _, rule := range seasonalRules {
		if !slices.Contains(rule.months, month) {
			continue
		}
		for _, kw := range rule.keywords {
			if strings.Contains(category, kw) {
				return rule.boost
			}
		}
		return 0
	}
	return 0
}
