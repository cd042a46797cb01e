package api

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpswagger "github.com/swaggo/http-swagger"

	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/api/auth"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/catalog"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/profiles"
	"github.com/JohanSieraad/Ontdek-je-route-sub000/pkg/recommendations"
)

//go:embed openapi.yaml
var openapiSpecYaml string

const maxRequestBodyBytes = 1 << 20

type Server struct {
	catalog         routeCatalog
	profiles        userProfiles
	recommendations recommender
	health          healthChecker
	limiter         *RateLimiter
	logger          *zerolog.Logger
	http            http.Server
}

type routeCatalog interface {
	ListRegions(ctx context.Context) ([]*catalog.Region, error)
	GetRegion(ctx context.Context, id string) (*catalog.Region, error)
	ListRoutes(ctx context.Context, filter catalog.RouteFilter) ([]*catalog.Route, error)
	Search(ctx context.Context, req catalog.SearchRequest) ([]*catalog.Route, error)
	GetRoute(ctx context.Context, id string) (*catalog.RouteDetail, error)
}

type userProfiles interface {
	GetPreferences(ctx context.Context, userID string) (*profiles.Preferences, error)
	UpdatePreferences(ctx context.Context, req profiles.UpdatePreferencesRequest) (*profiles.Preferences, error)
	AddBookmark(ctx context.Context, userID string, routeID string) (*profiles.Bookmark, error)
	RemoveBookmark(ctx context.Context, userID string, routeID string) error
	ListBookmarks(ctx context.Context, userID string) ([]*profiles.Bookmark, error)
	RecordActivity(ctx context.Context, req profiles.RecordActivityRequest) (*profiles.ActivityRecord, error)
}

type recommender interface {
	List(ctx context.Context, req recommendations.ListRequest) ([]*recommendations.Recommendation, error)
	MarkShown(ctx context.Context, userID string, id string) error
	MarkClicked(ctx context.Context, userID string, id string) error
}

type healthChecker interface {
	Ping(ctx context.Context) error
}

var _ ServerInterface = (*Server)(nil)

func NewServer(
	logger *zerolog.Logger,
	config *Config,
	authProvider auth.Provider,
	routes routeCatalog,
	users userProfiles,
	recs recommender,
	health healthChecker,
) (*Server, error) {
	mux := http.NewServeMux()

	authMiddleware := auth.NewRouteAuthMiddleware(&auth.AuthConfig{
		Provider: authProvider,
		Required: false,
	})
	for _, pattern := range protectedRoutes {
		authMiddleware.SetRouteAuthProvider(pattern, authProvider, true)
	}

	server := &Server{
		logger:          logger,
		catalog:         routes,
		profiles:        users,
		recommendations: recs,
		health:          health,
	}

	var handler http.Handler = authMiddleware.Middleware(metricsMiddleware(mux))
	if !config.RateLimitDisabled {
		server.limiter = NewRateLimiter(config.RateLimitRequests, config.RateLimitWindow)
		handler = rateLimitMiddleware(handler, server.limiter, config.Proxied)
	}

	server.http = http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      corsMiddleware(handler, config.CORSOrigin),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	HandlerWithOptions(server, StdHTTPServerOptions{
		BaseRouter: mux,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			server.badRequest(w, err, "bind request parameters")
		},
	})
	server.registerApiDocsHandlers(mux)
	server.registerOpsHandlers(mux)

	return server, nil
}

// Handler exposes the fully wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) registerApiDocsHandlers(mux *http.ServeMux) {
	mux.Handle("/docs/", httpswagger.Handler(
		httpswagger.URL("/docs/openapi.yaml"),
	))
	mux.HandleFunc("/docs/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/x-yaml")

		_, err := w.Write([]byte(openapiSpecYaml))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			s.logger.Error().Err(err).Msg("response write error")
		}
	})
}

func (s *Server) registerOpsHandlers(mux *http.ServeMux) {
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.health.Ping(ctx); err != nil {
			s.logger.Err(err).Msg("health check")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(HealthStatus{Status: "unavailable"})
			return
		}

		s.serializeRes(w, HealthStatus{Status: "ok"})
	})
}

func (s *Server) Start() error {
	if s.limiter != nil {
		go s.limiter.StartCleanup(10 * time.Minute)
	}

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop waits for in-flight requests until ctx is done.
func (s *Server) Stop(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) ListRegions(w http.ResponseWriter, r *http.Request) {
	out, err := s.catalog.ListRegions(r.Context())
	if err != nil {
		s.internalError(w, err, "list regions")
		return
	}

	s.serializeRes(w, serializeRegions(out))
}

func (s *Server) GetRegion(w http.ResponseWriter, r *http.Request, id string) {
	out, err := s.catalog.GetRegion(r.Context(), id)
	if err != nil {
		s.handleError(w, err, "get region")
		return
	}

	s.serializeRes(w, serializeRegion(out))
}

func (s *Server) ListRoutes(w http.ResponseWriter, r *http.Request, params ListRoutesParams) {
	req := catalog.SearchRequest{
		Query:    deref(params.Query),
		RegionID: deref(params.RegionId),
		Category: deref(params.Category),
		Limit:    deref(params.Limit),
	}
	if req.Limit < 0 {
		s.badRequest(w, errors.New("limit must not be negative"), "validate limit")
		return
	}

	out, err := s.catalog.Search(r.Context(), req)
	if err != nil {
		s.internalError(w, err, "search routes")
		return
	}

	s.serializeRes(w, serializeRoutes(out))
}

func (s *Server) GetRoute(w http.ResponseWriter, r *http.Request, id string) {
	out, err := s.catalog.GetRoute(r.Context(), id)
	if err != nil {
		s.handleError(w, err, "get route")
		return
	}

	s.serializeRes(w, serializeRouteDetail(out))
}

func (s *Server) GetPreferences(w http.ResponseWriter, r *http.Request) {
	user, err := auth.UserFromContext(r.Context())
	if err != nil {
		s.unauthorized(w, err)
		return
	}

	out, err := s.profiles.GetPreferences(r.Context(), user.UserID)
	if err != nil {
		s.internalError(w, err, "get preferences")
		return
	}

	s.serializeRes(w, serializePreferences(out))
}

func (s *Server) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	user, err := auth.UserFromContext(r.Context())
	if err != nil {
		s.unauthorized(w, err)
		return
	}

	var req UpdatePreferencesRequest
	if err := deserializeReq(r, &req); err != nil {
		s.badRequest(w, err, "deserialize request")
		return
	}

	out, err := s.profiles.UpdatePreferences(r.Context(), profiles.UpdatePreferencesRequest{
		UserID:              user.UserID,
		PreferredCategories: req.PreferredCategories,
		PreferredDuration:   req.PreferredDuration,
		PreferredRegions:    req.PreferredRegions,
		TravelStyle:         recommendations.TravelStyle(req.TravelStyle),
	})
	if err != nil {
		s.handleError(w, err, "update preferences")
		return
	}

	s.serializeRes(w, serializePreferences(out))
}

func (s *Server) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	user, err := auth.UserFromContext(r.Context())
	if err != nil {
		s.unauthorized(w, err)
		return
	}

	bookmarks, err := s.profiles.ListBookmarks(r.Context(), user.UserID)
	if err != nil {
		s.internalError(w, err, "list bookmarks")
		return
	}

	routeIDs := make([]string, len(bookmarks))
	for i, b := range bookmarks {
		routeIDs[i] = b.RouteID
	}

	routes, err := s.routesByID(r.Context(), routeIDs)
	if err != nil {
		s.internalError(w, err, "load bookmarked routes")
		return
	}

	out := make([]Bookmark, len(bookmarks))
	for i, b := range bookmarks {
		out[i] = Bookmark{
			RouteId:   b.RouteID,
			Route:     routes[b.RouteID],
			CreatedAt: b.CreatedAt,
		}
	}

	s.serializeRes(w, out)
}

func (s *Server) AddBookmark(w http.ResponseWriter, r *http.Request, routeId string) {
	user, err := auth.UserFromContext(r.Context())
	if err != nil {
		s.unauthorized(w, err)
		return
	}

	out, err := s.profiles.AddBookmark(r.Context(), user.UserID, routeId)
	if err != nil {
		s.handleError(w, err, "add bookmark")
		return
	}

	s.serializeRes(w, Bookmark{
		RouteId:   out.RouteID,
		CreatedAt: out.CreatedAt,
	})
}

func (s *Server) RemoveBookmark(w http.ResponseWriter, r *http.Request, routeId string) {
	user, err := auth.UserFromContext(r.Context())
	if err != nil {
		s.unauthorized(w, err)
		return
	}

	if err := s.profiles.RemoveBookmark(r.Context(), user.UserID, routeId); err != nil {
		s.handleError(w, err, "remove bookmark")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) RecordActivity(w http.ResponseWriter, r *http.Request) {
	user, err := auth.UserFromContext(r.Context())
	if err != nil {
		s.unauthorized(w, err)
		return
	}

	var req RecordActivityRequest
	if err := deserializeReq(r, &req); err != nil {
		s.badRequest(w, err, "deserialize request")
		return
	}

	out, err := s.profiles.RecordActivity(r.Context(), profiles.RecordActivityRequest{
		UserID:     user.UserID,
		ActionType: req.ActionType,
		EntityType: req.EntityType,
		EntityID:   req.EntityId,
	})
	if err != nil {
		s.handleError(w, err, "record activity")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(Activity{
		Id:         out.ID,
		ActionType: out.ActionType,
		EntityType: out.EntityType,
		EntityId:   out.EntityID,
		CreatedAt:  out.CreatedAt,
	}); err != nil {
		s.logger.Err(err).Msg("serialize response")
	}
}

func (s *Server) ListRecommendations(w http.ResponseWriter, r *http.Request, params ListRecommendationsParams) {
	user, err := auth.UserFromContext(r.Context())
	if err != nil {
		s.unauthorized(w, err)
		return
	}

	recs, err := s.recommendations.List(r.Context(), recommendations.ListRequest{
		UserID:  user.UserID,
		Refresh: deref(params.Refresh),
	})
	if err != nil {
		s.handleError(w, err, "list recommendations")
		return
	}

	routeIDs := make([]string, len(recs))
	for i, rec := range recs {
		routeIDs[i] = rec.RouteID
	}

	routes, err := s.routesByID(r.Context(), routeIDs)
	if err != nil {
		s.internalError(w, err, "load recommended routes")
		return
	}

	out := make([]Recommendation, len(recs))
	for i, rec := range recs {
		out[i] = serializeRecommendation(rec, routes[rec.RouteID])
	}

	s.serializeRes(w, out)
}

func (s *Server) MarkRecommendationShown(w http.ResponseWriter, r *http.Request, id string) {
	user, err := auth.UserFromContext(r.Context())
	if err != nil {
		s.unauthorized(w, err)
		return
	}

	if err := s.recommendations.MarkShown(r.Context(), user.UserID, id); err != nil {
		s.handleError(w, err, "mark recommendation shown")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) MarkRecommendationClicked(w http.ResponseWriter, r *http.Request, id string) {
	user, err := auth.UserFromContext(r.Context())
	if err != nil {
		s.unauthorized(w, err)
		return
	}

	if err := s.recommendations.MarkClicked(r.Context(), user.UserID, id); err != nil {
		s.handleError(w, err, "mark recommendation clicked")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) routesByID(ctx context.Context, ids []string) (map[string]*Route, error) {
	out := make(map[string]*Route, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	routes, err := s.catalog.ListRoutes(ctx, catalog.RouteFilter{
		IDs:   ids,
		Limit: len(ids),
	})
	if err != nil {
		return nil, err
	}

	for _, r := range routes {
		route := serializeRoute(r)
		out[r.ID] = &route
	}
	return out, nil
}

func deserializeReq[Req any](r *http.Request, req *Req) error {
	contentType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || contentType != "application/json" {
		return fmt.Errorf("unsupported content type: %s", r.Header.Get("Content-Type"))
	}

	reqBytes, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}

	err = json.Unmarshal(reqBytes, req)
	if err != nil {
		return fmt.Errorf("deserialize request body: %w", err)
	}

	return nil
}

func (s *Server) serializeRes(w http.ResponseWriter, res any) {
	w.Header().Add("Content-Type", "application/json")

	if res == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	err := json.NewEncoder(w).Encode(res)
	if err != nil {
		s.internalError(w, err, "serialize response")
	}
}

// handleError maps domain errors onto status codes.
func (s *Server) handleError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, catalog.ErrRouteNotFound),
		errors.Is(err, catalog.ErrRegionNotFound),
		errors.Is(err, profiles.ErrRouteNotFound),
		errors.Is(err, recommendations.ErrRecommendationNotFound):
		s.notFound(w, err, msg)
	case errors.Is(err, profiles.ErrInvalidRequest):
		s.badRequest(w, err, msg)
	case errors.Is(err, profiles.ErrUserRequired),
		errors.Is(err, recommendations.ErrUserRequired):
		s.unauthorized(w, err)
	default:
		s.internalError(w, err, msg)
	}
}

func (s *Server) internalError(w http.ResponseWriter, err error, msg string) {
	s.logger.Err(err).Msg(msg)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (s *Server) badRequest(w http.ResponseWriter, err error, msg string) {
	s.logger.Debug().Err(err).Msg(msg)
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func (s *Server) notFound(w http.ResponseWriter, err error, msg string) {
	s.logger.Debug().Err(err).Msg(msg)
	http.Error(w, err.Error(), http.StatusNotFound)
}

func (s *Server) unauthorized(w http.ResponseWriter, err error) {
	s.logger.Debug().Err(err).Msg("unauthorized request")
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
