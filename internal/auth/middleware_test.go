package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belanjaaja/backend/internal/auth"
)

func TestAuthorize(t *testing.T) {
	admin := auth.Identity{UserID: 1, Role: "admin"}
	buyer := auth.Identity{UserID: 2, Role: "user"}

	assert.True(t, auth.Authorize(admin, "admin", "superadmin"))
	assert.False(t, auth.Authorize(buyer, "admin", "superadmin"))
	assert.True(t, auth.Authorize(buyer, "user"))
	assert.False(t, auth.Authorize(auth.Identity{}, "user"))
}

func TestAuthenticate(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)

	var captured auth.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		require.True(t, ok)
		captured = identity
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid_cookie", func(t *testing.T) {
		token, err := tm.Sign(auth.Identity{UserID: 7, Email: "budi@example.com", Role: "user"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
		rec := httptest.NewRecorder()

		tm.Authenticate(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(7), captured.UserID)
		assert.Equal(t, "user", captured.Role)
	})

	t.Run("missing_cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		rec := httptest.NewRecorder()

		tm.Authenticate(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
	})

	t.Run("tampered_token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "tampered"})
		rec := httptest.NewRecorder()

		tm.Authenticate(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", time.Hour)

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := tm.Authenticate(auth.RequireRole("admin", "superadmin")(next))

	t.Run("admin_allowed", func(t *testing.T) {
		token, err := tm.Sign(auth.Identity{UserID: 1, Role: "admin"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
		rec := httptest.NewRecorder()

		guarded.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("buyer_forbidden", func(t *testing.T) {
		token, err := tm.Sign(auth.Identity{UserID: 2, Role: "user"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
		rec := httptest.NewRecorder()

		guarded.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
