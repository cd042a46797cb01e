package recommendations

import (
	"slices"
	"sort"
	"time"

	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/lib"
)

// Term weights. Changing any of them changes the ranking of every user.
const (
	WeightRating   = 0.2
	WeightCategory = 0.3
	WeightDuration = 0.2
	WeightRegion   = 0.15
	WeightStyle    = 0.1
	WeightActivity = 0.05
)

const (
	// DefaultLimit is the maximum number of scores returned per call.
	DefaultLimit = 10

	highRatingThreshold     = 4.5
	durationReasonThreshold = 0.7
	styleReasonThreshold    = 0.7
	activityReasonThreshold = 0.5

	// neutralMatch is used when a term can't be computed from the inputs.
	neutralMatch = 0.5
	// recentViewSimilarity is credited per recently viewed route.
	recentViewSimilarity = 0.3
	maxRating            = 5.0
)

// Breakdown holds the weighted contribution of every term to a route score.
type Breakdown struct {
	Rating   float64 `json:"rating"`
	Category float64 `json:"category"`
	Duration float64 `json:"duration"`
	Region   float64 `json:"region"`
	Style    float64 `json:"style"`
	Activity float64 `json:"activity"`
	Seasonal float64 `json:"seasonal"`
}

// Sum adds up all contributions without clamping.
func (b Breakdown) Sum() float64 {
	return b.Rating + b.Category + b.Duration + b.Region + b.Style + b.Activity + b.Seasonal
}

// Scorer ranks catalog routes for a single user.
//
// A Scorer holds no per-call state and may be shared between goroutines.
type Scorer struct {
	now             func() time.Time
	limit           int
	normalizeRating bool
}

type ScorerOption func(*Scorer)

// WithClock overrides the time source used for the seasonal term.
func WithClock(now func() time.Time) ScorerOption {
	return func(s *Scorer) {
		s.now = now
	}
}

// WithLimit caps the number of returned scores. Non-positive values keep DefaultLimit.
func WithLimit(limit int) ScorerOption {
	return func(s *Scorer) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithNormalizedRating scales the 0-5 rating to 0-1 before weighting it.
// Without it the raw rating is weighted, so a 5.0 rating alone saturates the score.
func WithNormalizedRating(enabled bool) ScorerOption {
	return func(s *Scorer) {
		s.normalizeRating = enabled
	}
}

func NewScorer(opts ...ScorerOption) *Scorer {
	s := &Scorer{
		now:   time.Now,
		limit: DefaultLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recommend scores every route that the user hasn't bookmarked and returns
// the best ones, highest score first. Routes with equal scores keep their catalog order.
func (s *Scorer) Recommend(in ScoringContext) []Score {
	ranked := s.rank(in)

	out := make([]Score, len(ranked))
	for i, r := range ranked {
		out[i] = r.Score
	}
	return out
}

// ExplainedScore is a ranked score together with the contributions it was summed from.
type ExplainedScore struct {
	Score
	Breakdown Breakdown `json:"breakdown"`
}

// RecommendExplained ranks like Recommend and keeps every score paired with the
// breakdown of the catalog entry it was computed from.
func (s *Scorer) RecommendExplained(in ScoringContext) []ExplainedScore {
	return s.rank(in)
}

func (s *Scorer) rank(in ScoringContext) []ExplainedScore {
	if len(in.AllRoutes) == 0 {
		return []ExplainedScore{}
	}

	bookmarked := make(map[string]struct{}, len(in.Bookmarks))
	for _, b := range in.Bookmarks {
		bookmarked[b.RouteID] = struct{}{}
	}

	views := recentRouteViews(in.RecentActivity)
	month := s.now().Month()

	scores := make([]ExplainedScore, 0, len(in.AllRoutes))
	for _, route := range in.AllRoutes {
		if _, ok := bookmarked[route.ID]; ok {
			continue
		}
		score, breakdown := s.scoreWithBreakdown(route, in.Preferences, views, month)
		scores = append(scores, ExplainedScore{Score: score, Breakdown: breakdown})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score.Score > scores[j].Score.Score
	})

	if len(scores) > s.limit {
		scores = scores[:s.limit]
	}

	return scores
}

// Explain scores a single route against the context, ignoring bookmarks.
func (s *Scorer) Explain(route Route, in ScoringContext) (Score, Breakdown) {
	return s.scoreWithBreakdown(route, in.Preferences, recentRouteViews(in.RecentActivity), s.now().Month())
}

func (s *Scorer) scoreWithBreakdown(route Route, prefs *Preferences, views []string, month time.Month) (Score, Breakdown) {
	var b Breakdown
	reasons := make([]string, 0, 7)

	rating := route.Rating
	if s.normalizeRating {
		rating = rating / maxRating
	}
	b.Rating = rating * WeightRating
	if route.Rating >= highRatingThreshold {
		reasons = append(reasons, reasonHighRating)
	}

	if prefs != nil {
		if slices.Contains(prefs.PreferredCategories, route.Category) {
			b.Category = WeightCategory
			reasons = append(reasons, categoryReason(route.Category))
		}

		duration := durationMatch(route.Duration, prefs.PreferredDuration)
		b.Duration = duration * WeightDuration
		if duration > durationReasonThreshold {
			reasons = append(reasons, reasonDuration)
		}

		if slices.Contains(prefs.PreferredRegions, route.RegionID) {
			b.Region = WeightRegion
			reasons = append(reasons, reasonRegion)
		}

		style := prefs.TravelStyle
		if style == "" {
			style = DefaultTravelStyle
		}
		styleMatch := affinity(style, route.Category)
		b.Style = styleMatch * WeightStyle
		if styleMatch > styleReasonThreshold {
			reasons = append(reasons, reasonStyle)
		}
	}

	activity := activityBoost(route.ID, views)
	b.Activity = activity * WeightActivity
	if activity > activityReasonThreshold {
		reasons = append(reasons, reasonActivity)
	}

	b.Seasonal = seasonalBoost(month, route.Category)
	if b.Seasonal > 0 {
		reasons = append(reasons, reasonSeasonal)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, reasonFallback)
	}

	return Score{
		RouteID:     route.ID,
		Score:       lib.Clamp(b.Sum(), 0, 1),
		Reasons:     reasons,
		Explanation: JoinReasons(reasons),
	}, b
}

// durationMatch compares two duration buckets, neutral when either is unknown.
func durationMatch(routeDuration, preferred string) float64 {
	a, ok := durationRange(routeDuration)
	if !ok {
		return neutralMatch
	}
	b, ok := durationRange(preferred)
	if !ok {
		return neutralMatch
	}
	return lib.IntervalOverlap(a, b)
}

// recentRouteViews returns the distinct ids of viewed routes, most recent first.
func recentRouteViews(activity []Activity) []string {
	seen := make(map[string]struct{}, len(activity))
	out := make([]string, 0, len(activity))
	for _, a := range activity {
		if a.ActionType != ActionView || a.EntityType != EntityTypeRoute || a.EntityID == "" {
			continue
		}
		if _, ok := seen[a.EntityID]; ok {
			continue
		}
		seen[a.EntityID] = struct{}{}
		out = append(out, a.EntityID)
	}
	return out
}

// activityBoost averages a fixed similarity credit over the recently viewed routes,
// crediting every viewed route other than routeID.
func activityBoost(routeID string, views []string) float64 {
	if len(views) == 0 {
		return 0
	}
	var total float64
	for _, id := range views {
		if id != routeID {
			total += recentViewSimilarity
		}
	}
	return total / float64(len(views))
}
