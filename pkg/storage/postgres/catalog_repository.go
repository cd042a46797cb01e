package postgres

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"

	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/catalog"
)

const (
	tableRegions    = "regions"
	tableRoutes     = "routes"
	tableRouteStops = "route_stops"
)

var (
	regionColumns = []string{"id", "name", "slug", "description", "created_at"}
	routeColumns  = []string{"id", "region_id", "title", "slug", "description", "category", "rating", "duration", "distance_km", "created_at"}
	stopColumns   = []string{"id", "route_id", "position", "name", "description", "latitude", "longitude"}
)

type regionRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

type routeRow struct {
	ID          string    `db:"id"`
	RegionID    string    `db:"region_id"`
	Title       string    `db:"title"`
	Slug        string    `db:"slug"`
	Description string    `db:"description"`
	Category    string    `db:"category"`
	Rating      float64   `db:"rating"`
	Duration    string    `db:"duration"`
	DistanceKm  float64   `db:"distance_km"`
	CreatedAt   time.Time `db:"created_at"`
}

type stopRow struct {
	ID          string  `db:"id"`
	RouteID     string  `db:"route_id"`
	Position    int     `db:"position"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Latitude    float64 `db:"latitude"`
	Longitude   float64 `db:"longitude"`
}

// CatalogRepository reads regions, routes and their stops.
type CatalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListRegions(ctx context.Context) ([]*catalog.Region, error) {
	query, args := builder.Select(regionColumns...).
		From(sql.Table(tableRegions)).
		OrderBy("name").
		Query()

	rows, err := collectAll[regionRow](ctx, r.db.Pool(), query, args)
	if err != nil {
		return nil, fmt.Errorf("query regions: %w", err)
	}

	out := make([]*catalog.Region, len(rows))
	for i, row := range rows {
		out[i] = regionFromRow(row)
	}
	return out, nil
}

func (r *CatalogRepository) GetRegion(ctx context.Context, id string) (*catalog.Region, error) {
	query, args := builder.Select(regionColumns...).
		From(sql.Table(tableRegions)).
		Where(sql.EQ("id", id)).
		Query()

	row, err := collectOne[regionRow](ctx, r.db.Pool(), query, args)
	if err != nil {
		return nil, fmt.Errorf("query region: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return regionFromRow(row), nil
}

func (r *CatalogRepository) ListRoutes(ctx context.Context, filter catalog.RouteFilter) ([]*catalog.Route, error) {
	selector := builder.Select(routeColumns...).
		From(sql.Table(tableRoutes))

	var preds []*sql.Predicate
	if filter.RegionID != "" {
		preds = append(preds, sql.EQ("region_id", filter.RegionID))
	}
	if filter.Category != "" {
		preds = append(preds, sql.EQ("category", filter.Category))
	}
	if len(filter.IDs) > 0 {
		ids := make([]any, len(filter.IDs))
		for i, id := range filter.IDs {
			ids[i] = id
		}
		preds = append(preds, sql.In("id", ids...))
	}
	if len(preds) > 0 {
		selector = selector.Where(sql.And(preds...))
	}

	selector = selector.OrderBy(sql.Desc("rating"), "id")
	if filter.Limit > 0 {
		selector = selector.Limit(filter.Limit)
	}

	query, args := selector.Query()

	rows, err := collectAll[routeRow](ctx, r.db.Pool(), query, args)
	if err != nil {
		return nil, fmt.Errorf("query routes: %w", err)
	}

	out := make([]*catalog.Route, len(rows))
	for i, row := range rows {
		out[i] = routeFromRow(row)
	}
	return out, nil
}

func (r *CatalogRepository) GetRoute(ctx context.Context, id string) (*catalog.Route, error) {
	query, args := builder.Select(routeColumns...).
		From(sql.Table(tableRoutes)).
		Where(sql.EQ("id", id)).
		Query()

	row, err := collectOne[routeRow](ctx, r.db.Pool(), query, args)
	if err != nil {
		return nil, fmt.Errorf("query route: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return routeFromRow(row), nil
}

func (r *CatalogRepository) ListStops(ctx context.Context, routeID string) ([]*catalog.Stop, error) {
	query, args := builder.Select(stopColumns...).
		From(sql.Table(tableRouteStops)).
		Where(sql.EQ("route_id", routeID)).
		OrderBy("position").
		Query()

	rows, err := collectAll[stopRow](ctx, r.db.Pool(), query, args)
	if err != nil {
		return nil, fmt.Errorf("query route stops: %w", err)
	}

	out := make([]*catalog.Stop, len(rows))
	for i, row := range rows {
		out[i] = &catalog.Stop{
			ID:          row.ID,
			RouteID:     row.RouteID,
			Position:    row.Position,
			Name:        row.Name,
			Description: row.Description,
			Latitude:    row.Latitude,
			Longitude:   row.Longitude,
		}
	}
	return out, nil
}

func regionFromRow(row *regionRow) *catalog.Region {
	return &catalog.Region{
		ID:          row.ID,
		Name:        row.Name,
		Slug:        row.Slug,
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
	}
}

func routeFromRow(row *routeRow) *catalog.Route {
	return &catalog.Route{
		ID:          row.ID,
		RegionID:    row.RegionID,
		Title:       row.Title,
		Slug:        row.Slug,
		Description: row.Description,
		Category:    row.Category,
		Rating:      row.Rating,
		Duration:    row.Duration,
		DistanceKm:  row.DistanceKm,
		CreatedAt:   row.CreatedAt,
	}
}
