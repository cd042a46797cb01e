package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"entgo.io/ent/dialect/sql"

	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/profiles"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/recommendations"
)

const (
	tablePreferences = "user_preferences"
	tableBookmarks   = "user_bookmarks"
	tableActivity    = "user_activity"
)

var (
	preferenceColumns = []string{"user_id", "preferred_categories", "preferred_duration", "preferred_regions", "travel_style", "updated_at"}
	bookmarkColumns   = []string{"user_id", "route_id", "created_at"}
	activityColumns   = []string{"id", "user_id", "action_type", "entity_type", "entity_id", "created_at"}
)

type preferenceRow struct {
	UserID              string    `db:"user_id"`
	PreferredCategories []string  `db:"preferred_categories"`
	PreferredDuration   string    `db:"preferred_duration"`
	PreferredRegions    []string  `db:"preferred_regions"`
	TravelStyle         string    `db:"travel_style"`
	UpdatedAt           time.Time `db:"updated_at"`
}

type bookmarkRow struct {
	UserID    string    `db:"user_id"`
	RouteID   string    `db:"route_id"`
	CreatedAt time.Time `db:"created_at"`
}

type activityRow struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	ActionType string    `db:"action_type"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
	CreatedAt  time.Time `db:"created_at"`
}

type PreferenceRepository struct {
	db *DB
}

func NewPreferenceRepository(db *DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

func (r *PreferenceRepository) Get(ctx context.Context, userID string) (*profiles.Preferences, error) {
	query, args := builder.Select(preferenceColumns...).
		From(sql.Table(tablePreferences)).
		Where(sql.EQ("user_id", userID)).
		Query()

	row, err := collectOne[preferenceRow](ctx, r.db.Pool(), query, args)
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}
	if row == nil {
		return nil, nil
	}

	return &profiles.Preferences{
		UserID:              row.UserID,
		PreferredCategories: row.PreferredCategories,
		PreferredDuration:   row.PreferredDuration,
		PreferredRegions:    row.PreferredRegions,
		TravelStyle:         recommendations.TravelStyle(row.TravelStyle),
		UpdatedAt:           row.UpdatedAt,
	}, nil
}

func (r *PreferenceRepository) Upsert(ctx context.Context, prefs profiles.Preferences) error {
	query, args := builder.Insert(tablePreferences).
		Columns(preferenceColumns...).
		Values(
			prefs.UserID,
			nonNil(prefs.PreferredCategories),
			prefs.PreferredDuration,
			nonNil(prefs.PreferredRegions),
			string(prefs.TravelStyle),
			prefs.UpdatedAt,
		).
		OnConflict(
			sql.ConflictColumns("user_id"),
			sql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}
	return nil
}

type BookmarkRepository struct {
	db *DB
}

func NewBookmarkRepository(db *DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

func (r *BookmarkRepository) Add(ctx context.Context, bookmark profiles.Bookmark) error {
	query, args := builder.Insert(tableBookmarks).
		Columns(bookmarkColumns...).
		Values(bookmark.UserID, bookmark.RouteID, bookmark.CreatedAt).
		OnConflict(
			sql.ConflictColumns("user_id", "route_id"),
			sql.DoNothing(),
		).
		Query()

	if _, err := r.db.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert bookmark: %w", err)
	}
	return nil
}

func (r *BookmarkRepository) Remove(ctx context.Context, userID string, routeID string) error {
	query, args := builder.Delete(tableBookmarks).
		Where(sql.And(
			sql.EQ("user_id", userID),
			sql.EQ("route_id", routeID),
		)).
		Query()

	if _, err := r.db.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	return nil
}

func (r *BookmarkRepository) ListByUserID(ctx context.Context, userID string) ([]*profiles.Bookmark, error) {
	query, args := builder.Select(bookmarkColumns...).
		From(sql.Table(tableBookmarks)).
		Where(sql.EQ("user_id", userID)).
		OrderBy("created_at", "route_id").
		Query()

	rows, err := collectAll[bookmarkRow](ctx, r.db.Pool(), query, args)
	if err != nil {
		return nil, fmt.Errorf("query bookmarks: %w", err)
	}

	out := make([]*profiles.Bookmark, len(rows))
	for i, row := range rows {
		out[i] = &profiles.Bookmark{
			UserID:    row.UserID,
			RouteID:   row.RouteID,
			CreatedAt: row.CreatedAt,
		}
	}
	return out, nil
}

type ActivityRepository struct {
	db *DB
}

func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Add(ctx context.Context, record profiles.ActivityRecord) error {
	query, args := builder.Insert(tableActivity).
		Columns(activityColumns...).
		Values(
			record.ID,
			record.UserID,
			record.ActionType,
			record.EntityType,
			record.EntityID,
			record.CreatedAt,
		).
		Query()

	if _, err := r.db.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*profiles.ActivityRecord, error) {
	query, args := builder.Select(activityColumns...).
		From(sql.Table(tableActivity)).
		Where(sql.EQ("user_id", userID)).
		OrderBy(sql.Desc("created_at"), sql.Desc("id")).
		Limit(limit).
		Query()

	rows, err := collectAll[activityRow](ctx, r.db.Pool(), query, args)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}

	out := make([]*profiles.ActivityRecord, len(rows))
	for i, row := range rows {
		out[i] = &profiles.ActivityRecord{
			ID:         row.ID,
			UserID:     row.UserID,
			ActionType: row.ActionType,
			EntityType: row.EntityType,
			EntityID:   row.EntityID,
			CreatedAt:  row.CreatedAt,
		}
	}
	return out, nil
}

type userIDRow struct {
	UserID string `db:"user_id"`
}

// ListUserIDs returns every user that stored preferences or recorded activity, sorted.
func (r *ActivityRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})

	for _, table := range []string{tablePreferences, tableActivity} {
		query, args := builder.Select("user_id").
			Distinct().
			From(sql.Table(table)).
			Query()

		rows, err := collectAll[userIDRow](ctx, r.db.Pool(), query, args)
		if err != nil {
			return nil, fmt.Errorf("query user ids from %s: %w", table, err)
		}
		for _, row := range rows {
			seen[row.UserID] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)

	return out, nil
}

// nonNil keeps NOT NULL array columns from receiving a NULL.
func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
