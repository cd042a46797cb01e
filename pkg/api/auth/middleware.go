package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

type Provider interface {
	// Authenticate is called to authenticate the request.
	// Provider must update the context with the user and call next.ServeHTTP or return a http error.
	// When required is false, requests without credentials are passed on anonymously.
	Authenticate(next http.Handler, required bool) http.Handler
}

type User struct {
	UserID string
	// Email can be empty (e.g. when using key provider)
	Email string
}

type AuthConfig struct {
	Provider Provider
	Required bool
}

type userContextKey struct{}

var ErrNoUser = errors.New("user not found in context")

func UserFromContext(ctx context.Context) (User, error) {
	user, ok := ctx.Value(userContextKey{}).(User)
	if !ok || user.UserID == "" {
		return User{}, ErrNoUser
	}
	return user, nil
}

func ContextWithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// RouteAuthMiddleware picks the auth config of a request by the route pattern it matches.
// Patterns use the net/http ServeMux syntax, e.g. "PUT /me/bookmarks/{routeId}".
type RouteAuthMiddleware struct {
	routes         map[string]AuthConfig
	matcher        *http.ServeMux
	defaultAuth    *AuthConfig
	publicPrefixes []string
}

func NewRouteAuthMiddleware(defaultAuth *AuthConfig) *RouteAuthMiddleware {
	return &RouteAuthMiddleware{
		routes:         make(map[string]AuthConfig),
		matcher:        http.NewServeMux(),
		defaultAuth:    defaultAuth,
		publicPrefixes: []string{"/docs"},
	}
}

func (m *RouteAuthMiddleware) SetRouteAuth(pattern string, config AuthConfig) *RouteAuthMiddleware {
	if _, exists := m.routes[pattern]; !exists {
		// The matcher only resolves patterns, its handlers never run.
		m.matcher.Handle(pattern, http.NotFoundHandler())
	}
	m.routes[pattern] = config
	return m
}

func (m *RouteAuthMiddleware) SetRouteAuthProvider(pattern string, provider Provider, required bool) *RouteAuthMiddleware {
	return m.SetRouteAuth(pattern, AuthConfig{
		Provider: provider,
		Required: required,
	})
}

// SetPublicPrefix skips authentication for every path under prefix.
func (m *RouteAuthMiddleware) SetPublicPrefix(prefix string) *RouteAuthMiddleware {
	m.publicPrefixes = append(m.publicPrefixes, prefix)
	return m
}

func (m *RouteAuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip auth for OPTIONS (CORS preflight) requests
		if r.Method == http.MethodOptions || m.isPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		authConfig := m.authConfigFor(r)
		if authConfig == nil || authConfig.Provider == nil {
			next.ServeHTTP(w, r)
			return
		}

		authConfig.Provider.Authenticate(next, authConfig.Required).ServeHTTP(w, r)
	})
}

func (m *RouteAuthMiddleware) isPublic(path string) bool {
	for _, prefix := range m.publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (m *RouteAuthMiddleware) authConfigFor(r *http.Request) *AuthConfig {
	if _, pattern := m.matcher.Handler(r); pattern != "" {
		if config, ok := m.routes[pattern]; ok {
			return &config
		}
	}
	return m.defaultAuth
}
