package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"

	"github.com/rs/zerolog/log"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "token"

type contextKey struct{}

var identityKey contextKey

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

func withIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// Authorize is the pure access policy: an identity may act when its role is
// one of the allowed roles. Route middleware delegates here so the policy can
// be tested without HTTP plumbing.
func Authorize(identity Identity, roles ...string) bool {
	return slices.Contains(roles, identity.Role)
}

// Authenticate verifies the session cookie and stores the identity in the
// request context. Requests without a valid token get 401.
func (tm *TokenManager) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil {
			respondUnauthorized(w)
			return
		}

		identity, err := tm.Verify(cookie.Value)
		if err != nil {
			log.Debug().Err(err).Msg("Rejected session token")
			respondUnauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
	})
}

// RequireRole guards a subtree behind Authorize. It must be mounted after
// Authenticate.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				respondUnauthorized(w)
				return
			}
			if !Authorize(identity, roles...) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Forbidden"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func respondUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}
