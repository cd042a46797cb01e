package auth

import (
	"net/http"
	"strings"
)

type KeyAuthProvider struct {
	keyToUserID map[string]string
	// fallback handles bearer tokens that aren't API keys, e.g. Clerk session tokens.
	fallback Provider
}

func NewKeyAuthProvider(keyToUserID map[string]string, fallback Provider) *KeyAuthProvider {
	return &KeyAuthProvider{
		keyToUserID: keyToUserID,
		fallback:    fallback,
	}
}

func (p *KeyAuthProvider) Authenticate(next http.Handler, required bool) http.Handler {
	var fallback http.Handler
	if p.fallback != nil {
		fallback = p.fallback.Authenticate(next, required)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if authHeader == "" && !required {
			next.ServeHTTP(w, r)
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "invalid authorization header", http.StatusUnauthorized)
			return
		}

		authToken := strings.TrimPrefix(authHeader, "Bearer ")
		if authToken == "" {
			http.Error(w, "invalid auth token format", http.StatusUnauthorized)
			return
		}

		userID, ok := p.keyToUserID[authToken]
		if !ok {
			if fallback != nil {
				fallback.ServeHTTP(w, r)
				return
			}
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		user := User{
			UserID: userID,
			Email:  "",
		}

		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}
