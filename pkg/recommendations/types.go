package recommendations

import "time"

type TravelStyle string

const (
	TravelStyleRelaxed   TravelStyle = "relaxed"
	TravelStyleAdventure TravelStyle = "adventure"
	TravelStyleCultural  TravelStyle = "cultural"
	TravelStyleFamily    TravelStyle = "family"
)

// DefaultTravelStyle is assumed for profiles that never picked a style.
const DefaultTravelStyle = TravelStyleRelaxed

const (
	ActionView       = "view"
	EntityTypeRoute  = "route"
	EntityTypeRegion = "region"
)

// Route is the subset of a catalog route the scorer reads.
type Route struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	// Rating is on a 0-5 scale.
	Rating   float64 `json:"rating"`
	Duration string  `json:"duration"`
	RegionID string  `json:"regionId"`
}

type Preferences struct {
	PreferredCategories []string    `json:"preferredCategories"`
	PreferredDuration   string      `json:"preferredDuration"`
	PreferredRegions    []string    `json:"preferredRegions"`
	TravelStyle         TravelStyle `json:"travelStyle"`
}

type Activity struct {
	ActionType string    `json:"actionType"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	Timestamp  time.Time `json:"timestamp"`
}

type Bookmark struct {
	RouteID string `json:"routeId"`
}

// ScoringContext is everything known about a user at scoring time.
// Slices are only read.
type ScoringContext struct {
	UserID string `json:"userId"`
	// Preferences is nil when the user never stored a profile.
	Preferences    *Preferences `json:"preferences,omitempty"`
	RecentActivity []Activity   `json:"recentActivity"`
	Bookmarks      []Bookmark   `json:"bookmarks"`
	AllRoutes      []Route      `json:"allRoutes"`
}

type Score struct {
	RouteID string  `json:"routeId"`
	Score   float64 `json:"score"`
	// Reasons holds the triggered justification phrases in term order,
	// or the single fallback phrase.
	Reasons []string `json:"reasons"`
	// Explanation is Reasons joined into one Dutch sentence fragment.
	Explanation string `json:"explanation"`
}
