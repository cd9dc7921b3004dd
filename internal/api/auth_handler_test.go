package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faqhub/faq-api/internal/api/shared"
	"github.com/faqhub/faq-api/internal/config"
	"github.com/faqhub/faq-api/internal/domain"
	"github.com/faqhub/faq-api/internal/mocks"
	"github.com/faqhub/faq-api/internal/service/auth"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   "test-secret-key-thats-at-least-32-chars",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 10080,
		BcryptCost:                  4,
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func TestRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		payload    map[string]interface{}
		wantStatus int
	}{
		{
			name: "valid registration",
			payload: map[string]interface{}{
				"username": "jdoe",
				"email":    "jdoe@company.com",
				"password": "password1234",
				"role":     "employee",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "invalid email",
			payload: map[string]interface{}{
				"username": "jdoe",
				"email":    "not-an-email",
				"password": "password1234",
				"role":     "employee",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "password too short",
			payload: map[string]interface{}{
				"username": "jdoe",
				"email":    "jdoe@company.com",
				"password": "short",
				"role":     "employee",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown role",
			payload: map[string]interface{}{
				"username": "jdoe",
				"email":    "jdoe@company.com",
				"password": "password1234",
				"role":     "superuser",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing username",
			payload: map[string]interface{}{
				"email":    "jdoe@company.com",
				"password": "password1234",
				"role":     "employee",
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userStore := mocks.NewMockUserStore()
			jwtService := &mocks.MockJWTService{Token: "test-token", RefreshToken: "test-refresh"}
			handler := NewAuthHandler(userStore, jwtService, &mocks.MockPasswordVerifier{ShouldSucceed: true}, testAuthConfig())

			recorder := postJSON(t, handler.Register, "/api/auth/register", tt.payload)
			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantStatus == http.StatusCreated {
				var resp AuthResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.NotEqual(t, uuid.Nil, resp.UserID)
				assert.Equal(t, "jdoe", resp.Username)
				assert.Equal(t, domain.RoleEmployee, resp.Role)
				assert.Equal(t, "test-token", resp.AccessToken)
				assert.Equal(t, "test-refresh", resp.RefreshToken)
				assert.NotEmpty(t, resp.ExpiresAt)
			}
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	jwtService := &mocks.MockJWTService{Token: "test-token"}
	handler := NewAuthHandler(userStore, jwtService, &mocks.MockPasswordVerifier{ShouldSucceed: true}, testAuthConfig())

	payload := map[string]interface{}{
		"username": "jdoe",
		"email":    "jdoe@company.com",
		"password": "password1234",
		"role":     "employee",
	}

	recorder := postJSON(t, handler.Register, "/api/auth/register", payload)
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = postJSON(t, handler.Register, "/api/auth/register", payload)
	assert.Equal(t, http.StatusConflict, recorder.Code)

	var resp shared.ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "Username already exists", resp.Error)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		payload    map[string]interface{}
		passwordOK bool
		wantStatus int
	}{
		{
			name: "valid credentials",
			payload: map[string]interface{}{
				"username": "jdoe",
				"password": "password1234",
			},
			passwordOK: true,
			wantStatus: http.StatusOK,
		},
		{
			name: "wrong password",
			payload: map[string]interface{}{
				"username": "jdoe",
				"password": "wrong-password",
			},
			passwordOK: false,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "unknown username",
			payload: map[string]interface{}{
				"username": "ghost",
				"password": "password1234",
			},
			passwordOK: true,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "missing password",
			payload: map[string]interface{}{
				"username": "jdoe",
			},
			passwordOK: true,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userStore := mocks.NewMockUserStore()
			user, err := domain.NewUser("jdoe", "jdoe@company.com", "password1234", domain.RoleEmployee)
			require.NoError(t, err)
			require.NoError(t, userStore.Create(context.Background(), user))

			jwtService := &mocks.MockJWTService{Token: "test-token", RefreshToken: "test-refresh"}
			verifier := &mocks.MockPasswordVerifier{ShouldSucceed: tt.passwordOK}
			handler := NewAuthHandler(userStore, jwtService, verifier, testAuthConfig())

			recorder := postJSON(t, handler.Login, "/api/auth/login", tt.payload)
			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantStatus == http.StatusOK {
				var resp AuthResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Equal(t, user.ID, resp.UserID)
				assert.Equal(t, "test-token", resp.AccessToken)
			}

			if tt.wantStatus == http.StatusUnauthorized {
				var resp shared.ErrorResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Equal(t, "Invalid credentials", resp.Error)
			}
		})
	}
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	user, err := domain.NewUser("jdoe", "jdoe@company.com", "password1234", domain.RoleEmployee)
	require.NoError(t, err)
	require.NoError(t, userStore.Create(context.Background(), user))

	tests := []struct {
		name       string
		payload    map[string]interface{}
		validateFn func(ctx context.Context, tokenString string) (*auth.Claims, error)
		wantStatus int
	}{
		{
			name:    "valid refresh token",
			payload: map[string]interface{}{"refresh_token": "good-refresh"},
			validateFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
				return &auth.Claims{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name:    "invalid refresh token",
			payload: map[string]interface{}{"refresh_token": "bad-refresh"},
			validateFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
				return nil, auth.ErrInvalidRefreshToken
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "expired refresh token",
			payload: map[string]interface{}{"refresh_token": "old-refresh"},
			validateFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
				return nil, auth.ErrExpiredRefreshToken
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "user no longer exists",
			payload: map[string]interface{}{"refresh_token": "orphan-refresh"},
			validateFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
				return &auth.Claims{UserID: uuid.New()}, nil
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing refresh token",
			payload:    map[string]interface{}{},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwtService := &mocks.MockJWTService{
				Token:                  "new-access",
				RefreshToken:           "new-refresh",
				ValidateRefreshTokenFn: tt.validateFn,
			}
			handler := NewAuthHandler(userStore, jwtService, &mocks.MockPasswordVerifier{ShouldSucceed: true}, testAuthConfig())

			recorder := postJSON(t, handler.RefreshToken, "/api/auth/refresh", tt.payload)
			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantStatus == http.StatusOK {
				var resp RefreshTokenResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Equal(t, "new-access", resp.AccessToken)
				assert.Equal(t, "new-refresh", resp.RefreshToken)
				assert.NotEmpty(t, resp.ExpiresAt)
			}
		})
	}
}

// withClaims injects authenticated-user claims the way the auth
// middleware would.
func withClaims(r *http.Request, claims *auth.Claims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), shared.UserClaimsContextKey, claims))
}

func TestMe(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	user, err := domain.NewUser("jdoe", "jdoe@company.com", "password1234", domain.RoleEmployee)
	require.NoError(t, err)
	require.NoError(t, userStore.Create(context.Background(), user))

	handler := NewAuthHandler(userStore, &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{}, testAuthConfig())

	t.Run("authenticated user", func(t *testing.T) {
		req := withClaims(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), &auth.Claims{
			UserID:   user.ID,
			Username: user.Username,
			Role:     user.Role,
		})
		recorder := httptest.NewRecorder()
		handler.Me(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)
		var resp UserResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, user.ID, resp.UserID)
		assert.Equal(t, "jdoe", resp.Username)
		assert.Equal(t, "jdoe@company.com", resp.Email)
		assert.Equal(t, domain.RoleEmployee, resp.Role)
	})

	t.Run("no claims in context", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.Me(recorder, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("account deleted after token issue", func(t *testing.T) {
		req := withClaims(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), &auth.Claims{
			UserID:   uuid.New(),
			Username: "ghost",
			Role:     domain.RoleEmployee,
		})
		recorder := httptest.NewRecorder()
		handler.Me(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
