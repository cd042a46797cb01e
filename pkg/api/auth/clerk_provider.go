package auth

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/rs/zerolog"
)

type ClerkAuthProvider struct {
	logger            *zerolog.Logger
	authorizedParties []string
	leeway            time.Duration
}

type customSessionClaims struct {
	PrimaryEmail string `json:"primaryEmail"`
}

type ClerkOption func(*ClerkAuthProvider)

// WithAuthorizedParties rejects session tokens whose azp claim isn't one of the given origins.
func WithAuthorizedParties(parties ...string) ClerkOption {
	return func(p *ClerkAuthProvider) {
		p.authorizedParties = parties
	}
}

func WithLeeway(leeway time.Duration) ClerkOption {
	return func(p *ClerkAuthProvider) {
		p.leeway = leeway
	}
}

// NewClerkAuthProvider expects clerk.SetKey to be called before serving requests.
func NewClerkAuthProvider(logger *zerolog.Logger, opts ...ClerkOption) *ClerkAuthProvider {
	p := &ClerkAuthProvider{logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *ClerkAuthProvider) Authenticate(next http.Handler, required bool) http.Handler {
	authParams := func(params *clerkhttp.AuthorizationParams) error {
		params.VerifyParams.CustomClaimsConstructor = func(context.Context) any {
			return &customSessionClaims{}
		}
		params.VerifyParams.Leeway = p.leeway
		if len(p.authorizedParties) > 0 {
			params.VerifyParams.AuthorizedPartyHandler = func(azp string) bool {
				return azp == "" || slices.Contains(p.authorizedParties, azp)
			}
		}
		return nil
	}

	return clerkhttp.WithHeaderAuthorization(authParams)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := clerk.SessionClaimsFromContext(r.Context())
		if !ok {
			if !required {
				next.ServeHTTP(w, r)
				return
			}
			p.logger.Debug().
				Str("path", r.URL.Path).
				Msg("Rejected request without a valid session")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		user := User{UserID: claims.Subject}
		if customClaims, ok := claims.Custom.(*customSessionClaims); ok {
			user.Email = customClaims.PrimaryEmail
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	}))
}
