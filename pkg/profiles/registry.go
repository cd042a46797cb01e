package profiles

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/lib"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/recommendations"
)

// ErrInvalidRequest wraps validation failures of user supplied data.
var ErrInvalidRequest = errors.New("invalid request")

// ErrRouteNotFound is returned when bookmarking a route that doesn't exist.
var ErrRouteNotFound = errors.New("route not found")

var ErrUserRequired = errors.New("user ID is required")

func init() {
	lib.RegisterStringRule("duration_bucket", recommendations.IsKnownDuration)
	lib.RegisterStringRule("travel_style", func(s string) bool {
		return recommendations.IsKnownTravelStyle(recommendations.TravelStyle(s))
	})
}

type Preferences struct {
	UserID              string
	PreferredCategories []string
	PreferredDuration   string
	PreferredRegions    []string
	TravelStyle         recommendations.TravelStyle
	UpdatedAt           time.Time
}

type Bookmark struct {
	UserID    string
	RouteID   string
	CreatedAt time.Time
}

type ActivityRecord struct {
	ID         string
	UserID     string
	ActionType string
	EntityType string
	EntityID   string
	CreatedAt  time.Time
}

type Registry struct {
	preferences preferenceStore
	bookmarks   bookmarkStore
	activity    activityStore
	routes      routeLookup
	logger      *zerolog.Logger
	now         func() time.Time
}

type preferenceStore interface {
	// Get returns nil when the user never stored preferences.
	Get(ctx context.Context, userID string) (*Preferences, error)
	Upsert(ctx context.Context, prefs Preferences) error
}

type bookmarkStore interface {
	// Add is a no-op when the bookmark already exists.
	Add(ctx context.Context, bookmark Bookmark) error
	Remove(ctx context.Context, userID string, routeID string) error
	ListByUserID(ctx context.Context, userID string) ([]*Bookmark, error)
}

type activityStore interface {
	Add(ctx context.Context, record ActivityRecord) error
	// ListRecent returns up to limit records, most recent first.
	ListRecent(ctx context.Context, userID string, limit int) ([]*ActivityRecord, error)
	// ListUserIDs returns every user with stored preferences or activity.
	ListUserIDs(ctx context.Context) ([]string, error)
}

type routeLookup interface {
	RouteExists(ctx context.Context, routeID string) (bool, error)
}

func NewRegistry(
	logger *zerolog.Logger,
	preferences preferenceStore,
	bookmarks bookmarkStore,
	activity activityStore,
	routes routeLookup,
) *Registry {
	return &Registry{
		preferences: preferences,
		bookmarks:   bookmarks,
		activity:    activity,
		routes:      routes,
		logger:      logger,
		now:         time.Now,
	}
}

func (r *Registry) GetPreferences(ctx context.Context, userID string) (*Preferences, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}

	prefs, err := r.preferences.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}

	return prefs, nil
}

type UpdatePreferencesRequest struct {
	UserID              string   `validate:"required"`
	PreferredCategories []string `validate:"max=20,dive,required,max=100"`
	PreferredDuration   string   `validate:"omitempty,duration_bucket"`
	PreferredRegions    []string `validate:"max=50,dive,required,max=100"`

	// TravelStyle defaults to relaxed when empty.
	TravelStyle recommendations.TravelStyle `validate:"omitempty,travel_style"`
}

func (r *Registry) UpdatePreferences(ctx context.Context, req UpdatePreferencesRequest) (*Preferences, error) {
	if err := lib.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	style := req.TravelStyle
	if style == "" {
		style = recommendations.DefaultTravelStyle
	}

	prefs := Preferences{
		UserID:              req.UserID,
		PreferredCategories: dedupe(req.PreferredCategories),
		PreferredDuration:   req.PreferredDuration,
		PreferredRegions:    dedupe(req.PreferredRegions),
		TravelStyle:         style,
		UpdatedAt:           r.now(),
	}

	if err := r.preferences.Upsert(ctx, prefs); err != nil {
		return nil, fmt.Errorf("upsert preferences: %w", err)
	}

	return &prefs, nil
}

func (r *Registry) AddBookmark(ctx context.Context, userID string, routeID string) (*Bookmark, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}

	exists, err := r.routes.RouteExists(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("check route: %w", err)
	}
	if !exists {
		return nil, ErrRouteNotFound
	}

	bookmark := Bookmark{
		UserID:    userID,
		RouteID:   routeID,
		CreatedAt: r.now(),
	}

	if err := r.bookmarks.Add(ctx, bookmark); err != nil {
		return nil, fmt.Errorf("add bookmark: %w", err)
	}

	r.logger.Debug().
		Str("user_id", userID).
		Str("route_id", routeID).
		Msg("Bookmarked route")

	return &bookmark, nil
}

func (r *Registry) RemoveBookmark(ctx context.Context, userID string, routeID string) error {
	if userID == "" {
		return ErrUserRequired
	}

	if err := r.bookmarks.Remove(ctx, userID, routeID); err != nil {
		return fmt.Errorf("remove bookmark: %w", err)
	}

	return nil
}

func (r *Registry) ListBookmarks(ctx context.Context, userID string) ([]*Bookmark, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}

	out, err := r.bookmarks.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}

	return out, nil
}

type RecordActivityRequest struct {
	UserID     string `validate:"required"`
	ActionType string `validate:"required,oneof=view bookmark share navigate"`
	EntityType string `validate:"required,oneof=route region"`
	EntityID   string `validate:"required,max=100"`
}

func (r *Registry) RecordActivity(ctx context.Context, req RecordActivityRequest) (*ActivityRecord, error) {
	if err := lib.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	record := ActivityRecord{
		ID:         uuid.NewString(),
		UserID:     req.UserID,
		ActionType: req.ActionType,
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		CreatedAt:  r.now(),
	}

	if err := r.activity.Add(ctx, record); err != nil {
		return nil, fmt.Errorf("add activity: %w", err)
	}

	return &record, nil
}

func (r *Registry) RecentActivity(ctx context.Context, userID string, limit int) ([]*ActivityRecord, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if limit <= 0 {
		return []*ActivityRecord{}, nil
	}

	out, err := r.activity.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent activity: %w", err)
	}

	return out, nil
}

// KnownUsers lists users that have a profile or any recorded activity.
func (r *Registry) KnownUsers(ctx context.Context) ([]string, error) {
	out, err := r.activity.ListUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	return out, nil
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
