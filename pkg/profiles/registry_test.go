package profiles

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/recommendations"
)

type memoryStore struct {
	mu        sync.Mutex
	prefs     map[string]Preferences
	bookmarks map[string][]Bookmark
	activity  []ActivityRecord
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		prefs:     make(map[string]Preferences),
		bookmarks: make(map[string][]Bookmark),
	}
}

func (s *memoryStore) Get(_ context.Context, userID string) (*Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prefs[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *memoryStore) Upsert(_ context.Context, prefs Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[prefs.UserID] = prefs
	return nil
}

type bookmarkMemoryStore struct{ *memoryStore }

func (s bookmarkMemoryStore) Add(_ context.Context, bookmark Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookmarks[bookmark.UserID] {
		if b.RouteID == bookmark.RouteID {
			return nil
		}
	}
	s.bookmarks[bookmark.UserID] = append(s.bookmarks[bookmark.UserID], bookmark)
	return nil
}

func (s bookmarkMemoryStore) Remove(_ context.Context, userID string, routeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.bookmarks[userID][:0]
	for _, b := range s.bookmarks[userID] {
		if b.RouteID != routeID {
			kept = append(kept, b)
		}
	}
	s.bookmarks[userID] = kept
	return nil
}

func (s bookmarkMemoryStore) ListByUserID(_ context.Context, userID string) ([]*Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Bookmark, 0)
	for _, b := range s.bookmarks[userID] {
		b := b
		out = append(out, &b)
	}
	return out, nil
}

type activityMemoryStore struct{ *memoryStore }

func (s activityMemoryStore) Add(_ context.Context, record ActivityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activity = append(s.activity, record)
	return nil
}

func (s activityMemoryStore) ListRecent(_ context.Context, userID string, limit int) ([]*ActivityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*ActivityRecord, 0)
	for i := len(s.activity) - 1; i >= 0 && len(out) < limit; i-- {
		if s.activity[i].UserID == userID {
			rec := s.activity[i]
			out = append(out, &rec)
		}
	}
	return out, nil
}

func (s activityMemoryStore) ListUserIDs(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]struct{})
	for id := range s.prefs {
		seen[id] = struct{}{}
	}
	for _, a := range s.activity {
		seen[a.UserID] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

type knownRoutes map[string]bool

func (k knownRoutes) RouteExists(_ context.Context, routeID string) (bool, error) {
	return k[routeID], nil
}

func newTestRegistry(t *testing.T) (*Registry, *memoryStore) {
	t.Helper()
	logger := zerolog.Nop()
	store := newMemoryStore()
	registry := NewRegistry(
		&logger,
		store,
		bookmarkMemoryStore{store},
		activityMemoryStore{store},
		knownRoutes{"r1": true, "r2": true},
	)
	registry.now = func() time.Time {
		return time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC)
	}
	return registry, store
}

func TestRegistry_UpdatePreferences(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	prefs, err := registry.UpdatePreferences(ctx, UpdatePreferencesRequest{
		UserID:              "u1",
		PreferredCategories: []string{"Kastelen & Eten", "Kastelen & Eten", "Bier & Cultuur"},
		PreferredDuration:   recommendations.Duration2To4Hours,
		PreferredRegions:    []string{"limburg"},
	})
	require.NoError(t, err)

	assert.Equal(t, recommendations.TravelStyleRelaxed, prefs.TravelStyle)
	assert.Equal(t, []string{"Kastelen & Eten", "Bier & Cultuur"}, prefs.PreferredCategories)

	stored, err := registry.GetPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, prefs, stored)

	scoring, err := registry.ScoringPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, &recommendations.Preferences{
		PreferredCategories: []string{"Kastelen & Eten", "Bier & Cultuur"},
		PreferredDuration:   recommendations.Duration2To4Hours,
		PreferredRegions:    []string{"limburg"},
		TravelStyle:         recommendations.TravelStyleRelaxed,
	}, scoring)
}

func TestRegistry_UpdatePreferencesValidation(t *testing.T) {
	registry, _ := newTestRegistry(t)

	tests := []struct {
		name string
		req  UpdatePreferencesRequest
	}{
		{
			name: "missing user",
			req:  UpdatePreferencesRequest{TravelStyle: recommendations.TravelStyleFamily},
		},
		{
			name: "unknown travel style",
			req:  UpdatePreferencesRequest{UserID: "u1", TravelStyle: "luxury"},
		},
		{
			name: "unknown duration",
			req:  UpdatePreferencesRequest{UserID: "u1", PreferredDuration: "3 dagen"},
		},
		{
			name: "empty category",
			req:  UpdatePreferencesRequest{UserID: "u1", PreferredCategories: []string{""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := registry.UpdatePreferences(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestRegistry_NoPreferences(t *testing.T) {
	registry, _ := newTestRegistry(t)

	prefs, err := registry.ScoringPreferences(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, prefs)
}

func TestRegistry_Bookmarks(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	_, err := registry.AddBookmark(ctx, "u1", "r1")
	require.NoError(t, err)
	_, err = registry.AddBookmark(ctx, "u1", "r1")
	require.NoError(t, err)
	_, err = registry.AddBookmark(ctx, "u1", "r2")
	require.NoError(t, err)

	_, err = registry.AddBookmark(ctx, "u1", "unknown")
	assert.ErrorIs(t, err, ErrRouteNotFound)

	bookmarks, err := registry.ScoringBookmarks(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []recommendations.Bookmark{{RouteID: "r1"}, {RouteID: "r2"}}, bookmarks)

	require.NoError(t, registry.RemoveBookmark(ctx, "u1", "r1"))
	list, err := registry.ListBookmarks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "r2", list[0].RouteID)
}

func TestRegistry_RecordActivity(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	for _, id := range []string{"r1", "r2", "r3"} {
		_, err := registry.RecordActivity(ctx, RecordActivityRequest{
			UserID:     "u1",
			ActionType: "view",
			EntityType: "route",
			EntityID:   id,
		})
		require.NoError(t, err)
	}

	_, err := registry.RecordActivity(ctx, RecordActivityRequest{
		UserID:     "u1",
		ActionType: "like",
		EntityType: "route",
		EntityID:   "r1",
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	activity, err := registry.ScoringActivity(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, activity, 2)
	assert.Equal(t, "r3", activity[0].EntityID)
	assert.Equal(t, "r2", activity[1].EntityID)
	assert.Equal(t, recommendations.ActionView, activity[0].ActionType)

	empty, err := registry.ScoringActivity(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Empty(t, empty)

	users, err := registry.KnownUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, users)
}
