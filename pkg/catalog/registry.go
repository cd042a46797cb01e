package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog"

	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/lib"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/metrics"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/recommendations"
)

var (
	ErrRouteNotFound  = errors.New("route not found")
	ErrRegionNotFound = errors.New("region not found")
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
	snapshotCacheKey = "catalog:snapshot"

	snapshotLoadTimeout = 30 * time.Second
)

type Region struct {
	ID          string
	Name        string
	Slug        string
	Description string
	CreatedAt   time.Time
}

type Route struct {
	ID          string
	RegionID    string
	Title       string
	Slug        string
	Description string
	Category    string
	// Rating is the average review rating on a 0-5 scale.
	Rating      float64
	Duration    string
	DistanceKm  float64
	CreatedAt   time.Time
}

// Stop is a point of interest along a route, ordered by Position.
type Stop struct {
	ID          string
	RouteID     string
	Position    int
	Name        string
	Description string
	Latitude    float64
	Longitude   float64
}

type RouteDetail struct {
	*Route
	Stops []*Stop
}

// RouteFilter narrows down route listings. Empty fields match everything.
type RouteFilter struct {
	RegionID string
	Category string
	// IDs restricts the listing to the given routes.
	IDs      []string
	Limit    int
}

type Registry struct {
	store         store
	logger        *zerolog.Logger
	snapshotCache *lib.Cache[[]recommendations.Route]
	searchCache   *lib.Cache[[]*Route]
}

type store interface {
	ListRegions(ctx context.Context) ([]*Region, error)
	// GetRegion returns nil when the region doesn't exist.
	GetRegion(ctx context.Context, id string) (*Region, error)
	// ListRoutes returns routes ordered by rating, highest first.
	ListRoutes(ctx context.Context, filter RouteFilter) ([]*Route, error)
	// GetRoute returns nil when the route doesn't exist.
	GetRoute(ctx context.Context, id string) (*Route, error)
	ListStops(ctx context.Context, routeID string) ([]*Stop, error)
}

func NewRegistry(logger *zerolog.Logger, store store, config *Config) *Registry {
	return &Registry{
		store:         store,
		logger:        logger,
		snapshotCache: lib.NewCache[[]recommendations.Route](config.CacheTTL, logger),
		searchCache:   lib.NewCache[[]*Route](config.CacheTTL, logger),
	}
}

func (r *Registry) ListRegions(ctx context.Context) ([]*Region, error) {
	out, err := r.store.ListRegions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	return out, nil
}

func (r *Registry) GetRegion(ctx context.Context, id string) (*Region, error) {
	region, err := r.store.GetRegion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get region: %w", err)
	}
	if region == nil {
		return nil, ErrRegionNotFound
	}
	return region, nil
}

func (r *Registry) ListRoutes(ctx context.Context, filter RouteFilter) ([]*Route, error) {
	filter.Limit = normalizeLimit(filter.Limit)

	out, err := r.store.ListRoutes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	return out, nil
}

func (r *Registry) GetRoute(ctx context.Context, id string) (*RouteDetail, error) {
	route, err := r.store.GetRoute(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get route: %w", err)
	}
	if route == nil {
		return nil, ErrRouteNotFound
	}

	stops, err := r.store.ListStops(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list stops: %w", err)
	}

	return &RouteDetail{
		Route: route,
		Stops: stops,
	}, nil
}

func (r *Registry) RouteExists(ctx context.Context, id string) (bool, error) {
	route, err := r.store.GetRoute(ctx, id)
	if err != nil {
		return false, fmt.Errorf("get route: %w", err)
	}
	return route != nil, nil
}

type SearchRequest struct {
	Query    string
	RegionID string
	Category string
	Limit    int
}

// Search matches the query against route titles and categories.
// Results are ranked by match distance; an empty query behaves like ListRoutes.
func (r *Registry) Search(ctx context.Context, req SearchRequest) ([]*Route, error) {
	limit := normalizeLimit(req.Limit)
	if req.Query == "" {
		return r.ListRoutes(ctx, RouteFilter{
			RegionID: req.RegionID,
			Category: req.Category,
			Limit:    limit,
		})
	}

	cacheKey := lib.HashParams(req.Query, req.RegionID, req.Category, strconv.Itoa(limit))
	if cached, ok := r.searchCache.Get(cacheKey); ok {
		return cached, nil
	}

	candidates, err := r.store.ListRoutes(ctx, RouteFilter{
		RegionID: req.RegionID,
		Category: req.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}

	targets := make([]string, len(candidates))
	for i, route := range candidates {
		targets[i] = route.Title + " " + route.Category
	}

	ranks := fuzzy.RankFindNormalizedFold(req.Query, targets)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	out := make([]*Route, 0, min(len(ranks), limit))
	for _, rank := range ranks {
		if len(out) == limit {
			break
		}
		out = append(out, candidates[rank.OriginalIndex])
	}

	r.searchCache.Set(cacheKey, out)

	r.logger.Debug().
		Str("query", req.Query).
		Int("candidates", len(candidates)).
		Int("results", len(out)).
		Msg("Searched routes")

	return out, nil
}

// AllForScoring returns the full catalog in the shape the recommendation scorer reads.
// The snapshot is cached, so newly added routes show up after the cache TTL.
func (r *Registry) AllForScoring(ctx context.Context) ([]recommendations.Route, error) {
	// The load is shared by every caller waiting on the snapshot, so it must
	// not fail because the first caller went away.
	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), snapshotLoadTimeout)
	defer cancel()

	out, hit, err := r.snapshotCache.GetOrLoad(snapshotCacheKey, func() ([]recommendations.Route, error) {
		routes, err := r.store.ListRoutes(loadCtx, RouteFilter{})
		if err != nil {
			return nil, fmt.Errorf("list routes: %w", err)
		}

		snapshot := make([]recommendations.Route, len(routes))
		for i, route := range routes {
			snapshot[i] = recommendations.Route{
				ID:       route.ID,
				Category: route.Category,
				Rating:   route.Rating,
				Duration: route.Duration,
				RegionID: route.RegionID,
			}
		}

		r.logger.Debug().
			Int("routes", len(snapshot)).
			Msg("Loaded catalog snapshot")

		return snapshot, nil
	})
	if err != nil {
		return nil, err
	}

	if hit {
		metrics.CatalogCacheHits.Inc()
	} else {
		metrics.CatalogCacheMisses.Inc()
	}

	return out, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return min(limit, maxListLimit)
}
