package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faqhub/faq-api/internal/config"
	"github.com/faqhub/faq-api/internal/domain"
	"github.com/faqhub/faq-api/internal/service/auth"
)

func newTestJWTService(t *testing.T) auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "test-secret-key-thats-at-least-32-chars",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 10080,
		BcryptCost:                  4,
	})
	require.NoError(t, err)
	return svc
}

func newToken(t *testing.T, svc auth.JWTService, role domain.UserRole) string {
	t.Helper()
	user, err := domain.NewUser("bob", "bob@example.com", "password123", role)
	require.NoError(t, err)
	token, err := svc.GenerateToken(context.Background(), user)
	require.NoError(t, err)
	return token
}

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestAuthenticateMissingHeader(t *testing.T) {
	t.Parallel()

	m := NewAuthMiddleware(newTestJWTService(t))
	next, called := okHandler()

	w := httptest.NewRecorder()
	m.Authenticate(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *called)
}

func TestAuthenticateBadFormat(t *testing.T) {
	t.Parallel()

	m := NewAuthMiddleware(newTestJWTService(t))
	next, called := okHandler()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Basic abc123")
	w := httptest.NewRecorder()
	m.Authenticate(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *called)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	t.Parallel()

	m := NewAuthMiddleware(newTestJWTService(t))
	next, called := okHandler()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer not-a-real-token")
	w := httptest.NewRecorder()
	m.Authenticate(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *called)
}

func TestAuthenticatePutsClaimsInContext(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t)
	m := NewAuthMiddleware(svc)

	var gotClaims *auth.Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetUserClaims(r)
		require.True(t, ok)
		gotClaims = claims
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+newToken(t, svc, domain.RoleEmployee))
	w := httptest.NewRecorder()
	m.Authenticate(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gotClaims)
	assert.Equal(t, "bob", gotClaims.Username)
	assert.Equal(t, domain.RoleEmployee, gotClaims.Role)
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	svc := newTestJWTService(t)
	m := NewAuthMiddleware(svc)

	next, called := okHandler()
	protected := m.Authenticate(m.RequireRole(domain.RoleAdmin)(next))

	// Employee token is rejected.
	r := httptest.NewRequest(http.MethodDelete, "/api/faqs/123", nil)
	r.Header.Set("Authorization", "Bearer "+newToken(t, svc, domain.RoleEmployee))
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, *called)

	// Admin token passes.
	r = httptest.NewRequest(http.MethodDelete, "/api/faqs/123", nil)
	r.Header.Set("Authorization", "Bearer "+newToken(t, svc, domain.RoleAdmin))
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *called)
}

func TestRequireRoleWithoutAuthentication(t *testing.T) {
	t.Parallel()

	m := NewAuthMiddleware(newTestJWTService(t))
	next, called := okHandler()

	w := httptest.NewRecorder()
	m.RequireRole(domain.RoleAdmin)(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, *called)
}
