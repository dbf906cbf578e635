package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/veyara-realtime/internal/auth"
	"github.com/example/veyara-realtime/internal/domain/user"
	"github.com/example/veyara-realtime/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-testing-purposes"

func newTestResolver() (*auth.Resolver, *auth.JWTService, *mocks.MockStore) {
	jwtService := auth.NewJWTService(testSecret, 15*time.Minute)
	users := mocks.NewMockStore()
	users.AddUser(&user.User{ID: "user-123", Role: user.RoleCustomer, Status: user.StatusVerified})
	users.AddUser(&user.User{ID: "user-456", Role: user.RoleDeliveryPartner, Status: user.StatusVerified})
	users.AddUser(&user.User{ID: "owner-9", Role: user.RoleStoreOwner, Status: user.StatusSuspended})
	return auth.NewResolver(jwtService, users), jwtService, users
}

// captureActor returns a handler recording the actor it was called with
func captureActor(captured *user.Actor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actor, ok := GetActorFromContext(r.Context()); ok {
			*captured = actor
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(r *http.Request)
		want    string
	}{
		{
			name:    "query parameter",
			prepare: func(r *http.Request) { r.URL.RawQuery = "token=from-query" },
			want:    "from-query",
		},
		{
			name:    "bearer header",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer from-header") },
			want:    "from-header",
		},
		{
			name:    "cookie",
			prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "access_token", Value: "from-cookie"}) },
			want:    "from-cookie",
		},
		{
			name: "query wins over header and cookie",
			prepare: func(r *http.Request) {
				r.URL.RawQuery = "token=from-query"
				r.Header.Set("Authorization", "Bearer from-header")
				r.AddCookie(&http.Cookie{Name: "access_token", Value: "from-cookie"})
			},
			want: "from-query",
		},
		{
			name:    "non-bearer header ignored",
			prepare: func(r *http.Request) { r.Header.Set("Authorization", "Basic dXNlcjpwYXNz") },
			want:    "",
		},
		{
			name:    "nothing",
			prepare: func(r *http.Request) {},
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			tt.prepare(req)
			assert.Equal(t, tt.want, ExtractToken(req))
		})
	}
}

func TestAuthMiddleware_ValidToken_Header(t *testing.T) {
	resolver, jwtService, _ := newTestResolver()
	token, _, err := jwtService.GenerateAccessToken("user-123", "CUSTOMER")
	require.NoError(t, err)

	var captured user.Actor
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	AuthMiddleware(resolver)(captureActor(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-123", captured.ID)
	assert.Equal(t, user.RoleCustomer, captured.Role)
}

func TestAuthMiddleware_ValidToken_Query(t *testing.T) {
	resolver, jwtService, _ := newTestResolver()
	token, _, err := jwtService.GenerateAccessToken("user-456", "DELIVERY_PARTNER")
	require.NoError(t, err)

	var captured user.Actor
	req := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	rec := httptest.NewRecorder()

	AuthMiddleware(resolver)(captureActor(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-456", captured.ID)
	assert.Equal(t, user.RoleDeliveryPartner, captured.Role)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	resolver, jwtService, _ := newTestResolver()

	suspended, _, err := jwtService.GenerateAccessToken("owner-9", "STORE_OWNER")
	require.NoError(t, err)
	unknown, _, err := jwtService.GenerateAccessToken("ghost", "CUSTOMER")
	require.NoError(t, err)
	forged, _, err := auth.NewJWTService("another-secret-key-that-is-long-enough", time.Minute).GenerateAccessToken("user-123", "CUSTOMER")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"garbage", "invalid-token"},
		{"wrong signature", forged},
		{"unknown subject", unknown},
		{"suspended account", suspended},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(resolver)(next).ServeHTTP(rec, req)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), "Authentication error")
		})
	}
}

func TestAuthMiddleware_StoreFailure(t *testing.T) {
	resolver, jwtService, users := newTestResolver()
	users.GetUserErr = errors.New("connection refused")
	token, _, err := jwtService.GenerateAccessToken("user-123", "CUSTOMER")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	AuthMiddleware(resolver)(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestGetActorFromContext_NoActor(t *testing.T) {
	_, ok := GetActorFromContext(context.Background())
	assert.False(t, ok)
}
