package api

import "time"

type Region struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Route struct {
	Id          string    `json:"id"`
	RegionId    string    `json:"regionId"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Rating      float64   `json:"rating"`
	Duration    string    `json:"duration"`
	DistanceKm  float64   `json:"distanceKm"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Stop struct {
	Id          string  `json:"id"`
	Position    int     `json:"position"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

type RouteDetail struct {
	Route
	Stops []Stop `json:"stops"`
}

type Preferences struct {
	PreferredCategories []string `json:"preferredCategories"`
	PreferredDuration   string   `json:"preferredDuration"`
	PreferredRegions    []string `json:"preferredRegions"`
	TravelStyle         string   `json:"travelStyle"`
	// UpdatedAt is empty until the user saved preferences once.
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type UpdatePreferencesRequest struct {
	PreferredCategories []string `json:"preferredCategories"`
	PreferredDuration   string   `json:"preferredDuration"`
	PreferredRegions    []string `json:"preferredRegions"`
	TravelStyle         string   `json:"travelStyle"`
}

type Bookmark struct {
	RouteId   string    `json:"routeId"`
	Route     *Route    `json:"route,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type RecordActivityRequest struct {
	ActionType string `json:"actionType"`
	EntityType string `json:"entityType"`
	EntityId   string `json:"entityId"`
}

type Activity struct {
	Id         string    `json:"id"`
	ActionType string    `json:"actionType"`
	EntityType string    `json:"entityType"`
	EntityId   string    `json:"entityId"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Recommendation struct {
	Id          string     `json:"id"`
	RouteId     string     `json:"routeId"`
	Route       *Route     `json:"route,omitempty"`
	Score       float64    `json:"score"`
	Reasons     []string   `json:"reasons"`
	Explanation string     `json:"explanation"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	ShownAt     *time.Time `json:"shownAt,omitempty"`
	ClickedAt   *time.Time `json:"clickedAt,omitempty"`
}

type HealthStatus struct {
	Status string `json:"status"`
}
