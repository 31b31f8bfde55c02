package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crestline-dev/budget-api/internal/auth"
	"github.com/crestline-dev/budget-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func createTestMiddleware(apiKey string) *auth.Middleware {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret: testSecret,
			APIKey:    apiKey,
		},
	}
	return auth.NewMiddleware(cfg, zap.NewNop())
}

func TestMiddleware_Authenticate_WithAPIKey(t *testing.T) {
	apiKey := "test-api-key-12345"
	middleware := createTestMiddleware(apiKey)

	handlerCalled := false
	var capturedActor *auth.ActorContext

	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		capturedActor, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/budgets", nil)
	req.Header.Set("x-api-key", apiKey)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.True(t, handlerCalled)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, capturedActor)
	assert.Equal(t, "System", capturedActor.DisplayName)
	assert.Equal(t, "system@crestline.dev", capturedActor.Email)
}

func TestMiddleware_Authenticate_WithInvalidAPIKey(t *testing.T) {
	middleware := createTestMiddleware("correct-key")

	handlerCalled := false
	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/budgets", nil)
	req.Header.Set("x-api-key", "wrong-key")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_Authenticate_APIKeyDisabledWhenUnconfigured(t *testing.T) {
	// An empty configured key must not match an empty header value
	middleware := createTestMiddleware("")

	handlerCalled := false
	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/budgets", nil)
	req.Header.Set("x-api-key", "anything")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_Authenticate_WithJWT(t *testing.T) {
	middleware := createTestMiddleware("")

	claims := jwt.MapClaims{
		"exp":   time.Now().Add(time.Hour).Unix(),
		"sub":   "12345678-1234-1234-1234-123456789012",
		"name":  "Dana Whitfield",
		"email": "dana@crestline.dev",
	}
	tokenString := signTestToken(t, testSecret, claims)

	var capturedActor *auth.ActorContext
	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedActor, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/budgets", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, capturedActor)
	assert.Equal(t, "Dana Whitfield", capturedActor.DisplayName)
}

func TestMiddleware_Authenticate_MissingCredentials(t *testing.T) {
	middleware := createTestMiddleware("some-key")

	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/budgets", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_Authenticate_MalformedAuthorizationHeader(t *testing.T) {
	middleware := createTestMiddleware("")

	tests := []struct {
		name   string
		header string
	}{
		{"no scheme", "just-a-token"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler should not be reached")
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/budgets", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestMiddleware_Authenticate_ExpiredJWT(t *testing.T) {
	middleware := createTestMiddleware("")

	claims := jwt.MapClaims{
		"exp":  time.Now().Add(-time.Hour).Unix(),
		"name": "Dana Whitfield",
	}
	tokenString := signTestToken(t, testSecret, claims)

	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/budgets", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
