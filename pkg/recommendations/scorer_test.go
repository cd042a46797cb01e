package recommendations

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(month time.Month) func() time.Time {
	return func() time.Time {
		return time.Date(2026, month, 15, 12, 0, 0, 0, time.UTC)
	}
}

func TestScorer_EmptyCatalog(t *testing.T) {
	scorer := NewScorer(WithClock(fixedClock(time.October)))

	out := scorer.Recommend(ScoringContext{
		Preferences: &Preferences{PreferredCategories: []string{"Kastelen & Eten"}},
		Bookmarks:   []Bookmark{{RouteID: "r1"}},
	})

	require.NotNil(t, out)
	assert.Empty(t, out)
}

func TestScorer_CulturalExample(t *testing.T) {
	scorer := NewScorer(WithClock(fixedClock(time.October)))

	out := scorer.Recommend(ScoringContext{
		Preferences: &Preferences{
			PreferredCategories: []string{"Nederlandse Cultuur"},
			TravelStyle:         TravelStyleCultural,
		},
		AllRoutes: []Route{
			{ID: "amsterdam", Category: "Nederlandse Cultuur", Rating: 5.0, Duration: Duration2To4Hours, RegionID: "nh"},
		},
	})

	require.Len(t, out, 1)
	assert.Equal(t, "amsterdam", out[0].RouteID)
	assert.Equal(t, 1.0, out[0].Score)
	assert.Contains(t, out[0].Reasons, "Hoog beoordeelde route")
	assert.Contains(t, out[0].Reasons, categoryReason("Nederlandse Cultuur"))
	assert.Contains(t, out[0].Reasons, reasonStyle)
	assert.Equal(t, JoinReasons(out[0].Reasons), out[0].Explanation)
}

func TestScorer_IdenticalDurationBucket(t *testing.T) {
	scorer := NewScorer(WithClock(fixedClock(time.October)))

	route := Route{ID: "r1", Category: "Fietsen", Rating: 3.0, Duration: Duration2To4Hours}
	score, breakdown := scorer.Explain(route, ScoringContext{
		Preferences: &Preferences{PreferredDuration: Duration2To4Hours, TravelStyle: TravelStyleAdventure},
	})

	assert.InDelta(t, 0.2, breakdown.Duration, 1e-9)
	assert.Contains(t, score.Reasons, reasonDuration)
}

func TestScorer_DurationMatch(t *testing.T) {
	cases := []struct {
		name      string
		route     string
		preferred string
		expected  float64
	}{
		{"identical", Duration4To6Hours, Duration4To6Hours, 1},
		{"adjacent", Duration1To2Hours, Duration2To4Hours, 0},
		{"far apart", Duration1To2Hours, DurationFullDay, 0},
		{"unknown route bucket", "3 dagen", Duration2To4Hours, 0.5},
		{"unknown preference", Duration2To4Hours, "", 0.5},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.expected, durationMatch(c.route, c.preferred), 1e-9)
		})
	}
}

func TestScorer_NoPreferences(t *testing.T) {
	scorer := NewScorer(WithClock(fixedClock(time.July)))

	route := Route{ID: "r1", Category: "Strand & Restaurants", Rating: 4.0, Duration: Duration2To4Hours, RegionID: "zh"}
	score, breakdown := scorer.Explain(route, ScoringContext{})

	assert.InDelta(t, 0.8, breakdown.Rating, 1e-9)
	assert.Zero(t, breakdown.Category)
	assert.Zero(t, breakdown.Duration)
	assert.Zero(t, breakdown.Region)
	assert.Zero(t, breakdown.Style)
	assert.Zero(t, breakdown.Activity)
	assert.InDelta(t, 0.15, breakdown.Seasonal, 1e-9)
	assert.InDelta(t, 0.95, score.Score, 1e-9)
	assert.Equal(t, []string{reasonSeasonal}, score.Reasons)
}

func TestScorer_DefaultTravelStyle(t *testing.T) {
	scorer := NewScorer(WithClock(fixedClock(time.July)))
	route := Route{ID: "r1", Category: "Kastelen & Eten", Rating: 1.0}

	_, withDefault := scorer.Explain(route, ScoringContext{Preferences: &Preferences{}})
	_, relaxed := scorer.Explain(route, ScoringContext{Preferences: &Preferences{TravelStyle: TravelStyleRelaxed}})
	_, unknown := scorer.Explain(route, ScoringContext{Preferences: &Preferences{TravelStyle: "luxury"}})

	assert.InDelta(t, 0.09, withDefault.Style, 1e-9)
	assert.Equal(t, relaxed.Style, withDefault.Style)
	assert.InDelta(t, 0.05, unknown.Style, 1e-9)
}

func TestScorer_ExcludesBookmarks(t *testing.T) {
	scorer := NewScorer(WithClock(fixedClock(time.October)))

	out := scorer.Recommend(ScoringContext{
		Bookmarks: []Bookmark{{RouteID: "r2"}, {RouteID: "r4"}},
		AllRoutes: []Route{
			{ID: "r1", Rating: 3},
			{ID: "r2", Rating: 5},
			{ID: "r3", Rating: 4},
			{ID: "r4", Rating: 4.8},
		},
	})

	ids := make([]string, len(out))
	for i, s := range out {
		ids[i] = s.RouteID
	}
	assert.Equal(t, []string{"r3", "r1"}, ids)
}

func TestScorer_OrderingAndLimit(t *testing.T) {
	scorer := NewScorer(WithClock(fixedClock(time.October)))

	routes := make([]Route, 0, 15)
	for i := range 15 {
		// Five distinct ratings, three routes each.
		routes = append(routes, Route{
			ID:       fmt.Sprintf("r%02d", i),
			Category: "Fietsen",
			Rating:   float64(i%5) * 0.5,
		})
	}

	out := scorer.Recommend(ScoringContext{AllRoutes: routes})

	require.Len(t, out, DefaultLimit)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].Score, out[i].Score)
	}

	// Equal scores keep catalog order.
	assert.Equal(t, "r04", out[0].RouteID)
	assert.Equal(t, "r09", out[1].RouteID)
	assert.Equal(t, "r14", out[2].RouteID)
	assert.Equal(t, "r03", out[3].RouteID)
}

func TestScorer_Limit(t *testing.T) {
	scorer := NewScorer(WithClock(fixedClock(time.October)), WithLimit(2))

	out := scorer.Recommend(ScoringContext{
		AllRoutes: []Route{{ID: "a"}, {ID: "b"}, {ID: "c"}},
	})

	assert.Len(t, out, 2)
}

func TestScorer_ScoresAreClamped(t *testing.T) {
	scorer := NewScorer(WithClock(fixedClock(time.July)))

	out := scorer.Recommend(ScoringContext{
		Preferences: &Preferences{
			PreferredCategories: []string{"Strand & Restaurants"},
			PreferredDuration:   DurationFullDay,
			PreferredRegions:    []string{"zeeland"},
			TravelStyle:         TravelStyleFamily,
		},
		AllRoutes: []Route{
			{ID: "max", Category: "Strand & Restaurants", Rating: 10, Duration: DurationFullDay, RegionID: "zeeland"},
			{ID: "negative", Category: "Fietsen", Rating: -20},
		},
	})

	require.Len(t, out, 2)
	assert.Equal(t, "max", out[0].RouteID)
	assert.Equal(t, 1.0, out[0].Score)
	assert.Equal(t, "negative", out[1].RouteID)
	assert.Equal(t, 0.0, out[1].Score)
}

func TestScorer_NormalizedRating(t *testing.T) {
	scorer := NewScorer(WithClock(fixedClock(time.October)), WithNormalizedRating(true))

	score, breakdown := scorer.Explain(Route{ID: "r1", Category: "Fietsen", Rating: 5}, ScoringContext{})

	assert.InDelta(t, 0.2, breakdown.Rating, 1e-9)
	assert.InDelta(t, 0.2, score.Score, 1e-9)
	assert.Contains(t, score.Reasons, reasonHighRating)
}

func TestScorer_ActivityBoost(t *testing.T) {
	scorer := NewScorer(WithClock(fixedClock(time.October)))
	now := time.Now()

	in := ScoringContext{
		RecentActivity: []Activity{
			{ActionType: ActionView, EntityType: EntityTypeRoute, EntityID: "a", Timestamp: now},
			{ActionType: ActionView, EntityType: EntityTypeRoute, EntityID: "b", Timestamp: now.Add(-time.Minute)},
			{ActionType: ActionView, EntityType: EntityTypeRoute, EntityID: "a", Timestamp: now.Add(-2 * time.Minute)},
			{ActionType: "share", EntityType: EntityTypeRoute, EntityID: "c", Timestamp: now},
			{ActionType: ActionView, EntityType: EntityTypeRegion, EntityID: "zeeland", Timestamp: now},
		},
	}

	_, viewed := scorer.Explain(Route{ID: "a", Category: "Fietsen"}, in)
	_, other := scorer.Explain(Route{ID: "c", Category: "Fietsen"}, in)
	_, none := scorer.Explain(Route{ID: "c", Category: "Fietsen"}, ScoringContext{})

	assert.InDelta(t, 0.15*WeightActivity, viewed.Activity, 1e-9)
	assert.InDelta(t, 0.3*WeightActivity, other.Activity, 1e-9)
	assert.Zero(t, none.Activity)
}

func TestSeasonalBoost(t *testing.T) {
	cases := []struct {
		month    time.Month
		category string
		expected float64
	}{
		{time.March, "Natuur & Fotografie", 0.1},
		{time.May, "Dorpjes & Fotografie", 0.1},
		{time.June, "Strand & Restaurants", 0.15},
		{time.August, "Eilanden & Zee", 0.15},
		{time.August, "Kastelen & Eten", 0},
		{time.September, "Kastelen & Eten", 0.1},
		{time.November, "Bier & Cultuur", 0.1},
		{time.December, "Nederlandse Cultuur", 0.1},
		{time.January, "Kastelen & Eten", 0.1},
		{time.February, "Strand & Restaurants", 0},
		{time.April, "Fietsen", 0},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("%s/%s", c.month, c.category), func(t *testing.T) {
			assert.InDelta(t, c.expected, seasonalBoost(c.month, c.category), 1e-9)
		})
	}
}

func TestScorer_FallbackReason(t *testing.T) {
	scorer := NewScorer(WithClock(fixedClock(time.October)))

	score, _ := scorer.Explain(Route{ID: "r1", Category: "Fietsen", Rating: 3}, ScoringContext{})

	assert.Equal(t, []string{reasonFallback}, score.Reasons)
	assert.Equal(t, reasonFallback, score.Explanation)
}

func TestJoinReasons(t *testing.T) {
	cases := []struct {
		name     string
		in       []string
		expected string
	}{
		{"none", nil, reasonFallback},
		{"one", []string{"a"}, "a"},
		{"two", []string{"a", "b"}, "a en b"},
		{"three", []string{"a", "b", "c"}, "a, b en c"},
		{"four", []string{"a", "b", "c", "d"}, "a, b, c en d"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, JoinReasons(c.in))
		})
	}
}

func TestScorer_RecommendExplainedDuplicateIDs(t *testing.T) {
	scorer := NewScorer(WithClock(fixedClock(time.October)))
	in := ScoringContext{AllRoutes: []Route{
		{ID: "dup", Category: "Fietsen", Rating: 2},
		{ID: "dup", Category: "Fietsen", Rating: 4},
	}}

	explained := scorer.RecommendExplained(in)

	require.Len(t, explained, 2)
	assert.InDelta(t, 0.8, explained[0].Score.Score, 1e-9)
	assert.InDelta(t, 0.8, explained[0].Breakdown.Rating, 1e-9)
	assert.InDelta(t, 0.4, explained[1].Score.Score, 1e-9)
	assert.InDelta(t, 0.4, explained[1].Breakdown.Rating, 1e-9)

	plain := scorer.Recommend(in)
	require.Len(t, plain, 2)
	for i := range plain {
		assert.Equal(t, explained[i].Score, plain[i])
	}
}
