package recommendations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/lib"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/metrics"
)

// ErrRecommendationNotFound is returned for unknown ids and for ids owned by another user.
var ErrRecommendationNotFound = errors.New("recommendation not found")

// ErrUserRequired is returned when an operation is called without a user.
var ErrUserRequired = errors.New("user ID is required")

// Recommendation is a stored score for one route, valid until ExpiresAt.
type Recommendation struct {
	ID          string
	UserID      string
	RouteID     string
	Score       float64
	// Position is the rank within the generated set, 0 for the best route.
	// Equal scores keep the catalog order through it.
	Position    int
	Reasons     []string
	Explanation string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	// ShownAt is nil until the recommendation was displayed to the user.
	ShownAt *time.Time
	// ClickedAt is nil until the user opened the recommended route.
	ClickedAt *time.Time
}

// Registry generates, stores and tracks recommendations.
type Registry struct {
	store    store
	catalog  routeCatalog
	profiles userProfiles
	scorer   *Scorer
	config   *Config
	logger   *zerolog.Logger
	now      func() time.Time
}

type store interface {
	// ReplaceForUser atomically swaps the user's stored recommendations.
	ReplaceForUser(ctx context.Context, userID string, recs []*Recommendation) error
	ListActive(ctx context.Context, userID string, now time.Time) ([]*Recommendation, error)
	// GetByID returns nil when no recommendation has the given id.
	GetByID(ctx context.Context, id string) (*Recommendation, error)
	MarkShown(ctx context.Context, id string, at time.Time) error
	MarkClicked(ctx context.Context, id string, at time.Time) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type routeCatalog interface {
	AllForScoring(ctx context.Context) ([]Route, error)
}

type userProfiles interface {
	// ScoringPreferences returns nil when the user has no stored profile.
	ScoringPreferences(ctx context.Context, userID string) (*Preferences, error)
	ScoringActivity(ctx context.Context, userID string, limit int) ([]Activity, error)
	ScoringBookmarks(ctx context.Context, userID string) ([]Bookmark, error)
}

type Option func(*Registry)

// WithNow overrides the clock used for expiry and the seasonal term.
func WithNow(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func NewRegistry(
	logger *zerolog.Logger,
	store store,
	catalog routeCatalog,
	profiles userProfiles,
	config *Config,
	opts ...Option,
) *Registry {
	r := &Registry{
		store:    store,
		catalog:  catalog,
		profiles: profiles,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.scorer = NewScorer(
		WithClock(r.now),
		WithLimit(config.Limit),
		WithNormalizedRating(config.NormalizeRating),
	)

	return r
}

// Generate scores the catalog for the user and replaces the stored recommendations.
func (r *Registry) Generate(ctx context.Context, userID string) ([]*Recommendation, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}

	start := r.now()

	in, err := r.LoadContext(ctx, userID)
	if err != nil {
		metrics.RecordGenerationError("load")
		return nil, fmt.Errorf("load scoring context: %w", err)
	}

	scores := r.scorer.Recommend(*in)

	createdAt := r.now()
	recs := make([]*Recommendation, len(scores))
	for i, s := range scores {
		recs[i] = &Recommendation{
			ID:          uuid.NewString(),
			UserID:      userID,
			RouteID:     s.RouteID,
			Score:       s.Score,
			Position:    i,
			Reasons:     s.Reasons,
			Explanation: s.Explanation,
			CreatedAt:   createdAt,
			ExpiresAt:   createdAt.Add(r.config.Expiry),
		}
		metrics.RecordScore(s.Score)
	}

	if err := r.store.ReplaceForUser(ctx, userID, recs); err != nil {
		metrics.RecordGenerationError("store")
		return nil, fmt.Errorf("replace recommendations: %w", err)
	}

	metrics.RecordGeneration(len(recs), r.now().Sub(start))

	r.logger.Debug().
		Str("user_id", userID).
		Int("routes", len(in.AllRoutes)).
		Int("bookmarks", len(in.Bookmarks)).
		Int("activity", len(in.RecentActivity)).
		Bool("has_preferences", in.Preferences != nil).
		Int("count", len(recs)).
		Msg("Generated recommendations")

	return recs, nil
}

// LoadContext fetches everything the scorer needs for the user.
func (r *Registry) LoadContext(ctx context.Context, userID string) (*ScoringContext, error) {
	out := &ScoringContext{UserID: userID}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		routes, err := r.catalog.AllForScoring(gctx)
		if err != nil {
			return fmt.Errorf("load route catalog: %w", err)
		}
		out.AllRoutes = routes
		return nil
	})

	g.Go(func() error {
		prefs, err := r.profiles.ScoringPreferences(gctx, userID)
		if err != nil {
			return fmt.Errorf("load preferences: %w", err)
		}
		out.Preferences = prefs
		return nil
	})

	g.Go(func() error {
		activity, err := r.profiles.ScoringActivity(gctx, userID, r.config.ActivityWindow)
		if err != nil {
			return fmt.Errorf("load recent activity: %w", err)
		}
		out.RecentActivity = activity
		return nil
	})

	g.Go(func() error {
		bookmarks, err := r.profiles.ScoringBookmarks(gctx, userID)
		if err != nil {
			return fmt.Errorf("load bookmarks: %w", err)
		}
		out.Bookmarks = bookmarks
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

type ListRequest struct {
	UserID string
	// Refresh regenerates the set even if a valid one is stored.
	Refresh bool
}

// List returns the user's valid recommendations, generating a new set
// when none is stored or all of them expired. Routes bookmarked since the
// set was generated are left out.
func (r *Registry) List(ctx context.Context, req ListRequest) ([]*Recommendation, error) {
	if req.UserID == "" {
		return nil, ErrUserRequired
	}

	if !req.Refresh {
		active, err := r.store.ListActive(ctx, req.UserID, r.now())
		if err != nil {
			return nil, fmt.Errorf("list active recommendations: %w", err)
		}
		if len(active) > 0 {
			bookmarks, err := r.profiles.ScoringBookmarks(ctx, req.UserID)
			if err != nil {
				return nil, fmt.Errorf("load bookmarks: %w", err)
			}
			if visible := withoutBookmarked(active, bookmarks); len(visible) > 0 {
				return visible, nil
			}
		}
	}

	return r.Generate(ctx, req.UserID)
}

func withoutBookmarked(recs []*Recommendation, bookmarks []Bookmark) []*Recommendation {
	if len(bookmarks) == 0 {
		return recs
	}

	bookmarked := make(map[string]struct{}, len(bookmarks))
	for _, b := range bookmarks {
		bookmarked[b.RouteID] = struct{}{}
	}

	out := make([]*Recommendation, 0, len(recs))
	for _, rec := range recs {
		if _, ok := bookmarked[rec.RouteID]; !ok {
			out = append(out, rec)
		}
	}
	return out
}

// MarkShown records that the recommendation was displayed.
func (r *Registry) MarkShown(ctx context.Context, userID string, id string) error {
	if _, err := r.findOwned(ctx, userID, id); err != nil {
		return err
	}

	if err := r.store.MarkShown(ctx, id, r.now()); err != nil {
		return fmt.Errorf("mark shown: %w", err)
	}

	metrics.RecordInteraction(metrics.InteractionShown)
	return nil
}

// MarkClicked records that the user opened the recommended route.
// A clicked recommendation counts as shown as well.
func (r *Registry) MarkClicked(ctx context.Context, userID string, id string) error {
	if _, err := r.findOwned(ctx, userID, id); err != nil {
		return err
	}

	if err := r.store.MarkClicked(ctx, id, r.now()); err != nil {
		return fmt.Errorf("mark clicked: %w", err)
	}

	metrics.RecordInteraction(metrics.InteractionClicked)
	return nil
}

func (r *Registry) findOwned(ctx context.Context, userID string, id string) (*Recommendation, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}

	rec, err := r.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get recommendation: %w", err)
	}
	if rec == nil || rec.UserID != userID {
		return nil, ErrRecommendationNotFound
	}

	return rec, nil
}

// SweepExpired deletes every recommendation past its expiry.
func (r *Registry) SweepExpired(ctx context.Context) (int64, error) {
	n, err := r.store.DeleteExpired(ctx, r.now())
	if err != nil {
		return 0, fmt.Errorf("delete expired recommendations: %w", err)
	}

	metrics.ExpiredRecommendationsSwept.Add(float64(n))
	return n, nil
}

// StartSweeper runs SweepExpired periodically until ctx is cancelled.
func (r *Registry) StartSweeper(ctx context.Context) {
	go func() {
		ticker := lib.JitteredTicker(r.config.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				r.logger.Info().Msg("Recommendation sweeper stopped")
				return
			case <-ticker.C:
				n, err := r.SweepExpired(ctx)
				if err != nil {
					r.logger.Error().
						Err(err).
						Msg("Failed to sweep expired recommendations")
					continue
				}
				r.logger.Debug().
					Int64("deleted", n).
					Msg("Swept expired recommendations")
			}
		}
	}()
}
