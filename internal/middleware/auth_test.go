package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"altairis-api/internal/model"
)

type stubVerifier struct {
	claims *model.AuthClaims
	err    error
}

func (s *stubVerifier) VerifyAccess(string) (*model.AuthClaims, error) {
	return s.claims, s.err
}

func echoClaims(t *testing.T, want *model.AuthClaims) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if want == nil {
			assert.False(t, ok)
		} else {
			require.True(t, ok)
			assert.Equal(t, want.UserID, claims.UserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	t.Run("missing header is 401", func(t *testing.T) {
		m := NewAuthMiddleware(&stubVerifier{})
		rec := httptest.NewRecorder()

		m.RequireAuth(echoClaims(t, nil)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
	})

	t.Run("expired token is 403 with its own code", func(t *testing.T) {
		m := NewAuthMiddleware(&stubVerifier{err: model.ErrTokenExpired})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.Header.Set("Authorization", "Bearer expired")

		m.RequireAuth(echoClaims(t, nil)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "TOKEN_EXPIRED")
	})

	t.Run("invalid token is 403", func(t *testing.T) {
		m := NewAuthMiddleware(&stubVerifier{err: model.ErrTokenInvalid})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.Header.Set("Authorization", "Bearer garbage")

		m.RequireAuth(echoClaims(t, nil)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "TOKEN_INVALID")
	})

	t.Run("valid token attaches claims", func(t *testing.T) {
		claims := &model.AuthClaims{UserID: "u1"}
		m := NewAuthMiddleware(&stubVerifier{claims: claims})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.Header.Set("Authorization", "Bearer good")

		m.RequireAuth(echoClaims(t, claims)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("empty bearer value is 401", func(t *testing.T) {
		m := NewAuthMiddleware(&stubVerifier{claims: &model.AuthClaims{UserID: "u1"}})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.Header.Set("Authorization", "Bearer   ")

		m.RequireAuth(echoClaims(t, nil)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	t.Run("anonymous request passes through", func(t *testing.T) {
		m := NewAuthMiddleware(&stubVerifier{err: model.ErrTokenInvalid})
		rec := httptest.NewRecorder()

		m.OptionalAuth(echoClaims(t, nil)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/user-profile/u2", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bad token is treated as anonymous", func(t *testing.T) {
		m := NewAuthMiddleware(&stubVerifier{err: model.ErrTokenInvalid})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/user-profile/u2", nil)
		req.Header.Set("Authorization", "Bearer junk")

		m.OptionalAuth(echoClaims(t, nil)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("valid token attaches claims", func(t *testing.T) {
		claims := &model.AuthClaims{UserID: "u1"}
		m := NewAuthMiddleware(&stubVerifier{claims: claims})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/user-profile/u2", nil)
		req.Header.Set("Authorization", "Bearer good")

		m.OptionalAuth(echoClaims(t, claims)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
