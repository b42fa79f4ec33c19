package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	jwtLib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayledger/config"
	"stayledger/infras/jwt"
	"stayledger/infras/otel/mocks"
	"stayledger/permissions"
	"stayledger/shared/constant"
	"stayledger/transport/http/middleware"
)

const (
	testSecret = "test-secret"
	testAPIKey = "internal-key"
)

const testPermissions = `{
  "skip": false,
  "endpoints": [
    {"path": "/v1/listings/", "method": "GET", "permissions": [], "skip": true},
    {"path": "/v1/bookings/", "method": "GET", "permissions": ["admin"], "skip": false},
    {"path": "/v1/bookings/", "method": "POST", "permissions": [], "skip": false}
  ]
}`

type seen struct {
	userID string
	role   string
}

func newRouter(t *testing.T, perms *permissions.PermissionData) (http.Handler, *seen) {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.AccessSecret = testSecret
	cfg.App.APIKey = testAPIKey

	authRole := middleware.NewAuthRoleMiddleware(jwt.New(cfg), mocks.NewOtel(), perms, cfg)
	got := &seen{}

	capture := func(w http.ResponseWriter, r *http.Request) {
		got.userID, _ = r.Context().Value(constant.ContextKeyUserID).(string)
		got.role, _ = r.Context().Value(constant.ContextKeyUserRole).(string)
		w.WriteHeader(http.StatusOK)
	}

	mux := chi.NewRouter()
	mux.Route("/v1", func(r chi.Router) {
		r.Use(authRole.APIKey, authRole.Auth, authRole.RBAC)
		r.Get("/listings/", capture)
		r.Get("/bookings/", capture)
		r.Post("/bookings/", capture)
	})

	return mux, got
}

func token(t *testing.T, subject, role string, ttl time.Duration) string {
	t.Helper()

	signed, err := jwtLib.NewWithClaims(jwtLib.SigningMethodHS256, jwt.Claims{
		Role: role,
		RegisteredClaims: jwtLib.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwtLib.NewNumericDate(time.Now().Add(ttl)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	return "Bearer " + signed
}

func TestAuthRole(t *testing.T) {
	perms, err := permissions.Parse([]byte(testPermissions))
	require.NoError(t, err)

	tests := []struct {
		name       string
		method     string
		path       string
		headers    map[string]string
		wantStatus int
		wantUser   string
		wantRole   string
	}{
		{
			name:       "public route needs no token",
			method:     http.MethodGet,
			path:       "/v1/listings/",
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing token",
			method:     http.MethodPost,
			path:       "/v1/bookings/",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			method:     http.MethodPost,
			path:       "/v1/bookings/",
			headers:    map[string]string{"Authorization": token(t, "guest-1", constant.RoleUser, -time.Hour)},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "any authenticated role",
			method:     http.MethodPost,
			path:       "/v1/bookings/",
			headers:    map[string]string{"Authorization": token(t, "guest-1", constant.RoleUser, time.Hour)},
			wantStatus: http.StatusOK,
			wantUser:   "guest-1",
			wantRole:   constant.RoleUser,
		},
		{
			name:       "role not allowed",
			method:     http.MethodGet,
			path:       "/v1/bookings/",
			headers:    map[string]string{"Authorization": token(t, "guest-1", constant.RoleUser, time.Hour)},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "admin allowed",
			method:     http.MethodGet,
			path:       "/v1/bookings/",
			headers:    map[string]string{"Authorization": token(t, "admin-1", constant.RoleAdmin, time.Hour)},
			wantStatus: http.StatusOK,
			wantUser:   "admin-1",
			wantRole:   constant.RoleAdmin,
		},
		{
			name:       "superadmin always allowed",
			method:     http.MethodGet,
			path:       "/v1/bookings/",
			headers:    map[string]string{"Authorization": token(t, "root", constant.RoleSuperAdmin, time.Hour)},
			wantStatus: http.StatusOK,
			wantUser:   "root",
			wantRole:   constant.RoleSuperAdmin,
		},
		{
			name:       "internal caller acts for an actor",
			method:     http.MethodGet,
			path:       "/v1/bookings/",
			headers:    map[string]string{"X-API-Key": testAPIKey, "X-Actor-ID": "reconciler"},
			wantStatus: http.StatusOK,
			wantUser:   "reconciler",
			wantRole:   constant.RoleSystem,
		},
		{
			name:       "wrong api key",
			method:     http.MethodGet,
			path:       "/v1/bookings/",
			headers:    map[string]string{"X-API-Key": "guess"},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, got := newRouter(t, perms)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantUser, got.userID)
			assert.Equal(t, tt.wantRole, got.role)
		})
	}
}

func TestRBAC_WithoutPermissionsDeniesUsers(t *testing.T) {
	router, _ := newRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/bookings/", nil)
	req.Header.Set("Authorization", token(t, "guest-1", constant.RoleUser, time.Hour))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
