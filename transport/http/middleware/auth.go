package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"stayledger/config"
	"stayledger/infras/jwt"
	"stayledger/infras/otel"
	"stayledger/permissions"
	"stayledger/shared/constant"
	"stayledger/shared/failure"
	"stayledger/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type internalCallerKey struct{}

// Auth resolves who is calling.
type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

// Role checks the resolved caller against permissions.json.
type Role interface {
	RBAC(http.Handler) http.Handler
}

type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	verifier   jwt.Verifier
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(verifier jwt.Verifier, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		verifier:   verifier,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

// WithIdentity stores the caller on ctx the way Auth does.
func WithIdentity(ctx context.Context, identity jwt.Identity) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, identity.UserID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, identity.Email)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, identity.Role)

	return context.WithValue(ctx, constant.ContextKeyTokenID, identity.TokenID)
}

func isInternal(ctx context.Context) bool {
	internal, _ := ctx.Value(internalCallerKey{}).(bool)

	return internal
}

func (m *authRoleImpl) routePermission(r *http.Request) (string, permissions.Permission) {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || m.permission == nil {
		return r.URL.Path, permissions.Permission{}
	}

	pattern := rctx.Routes.Find(chi.NewRouteContext(), r.Method, r.URL.Path)

	return pattern, m.permission.FindPermissions(pattern, r.Method)
}

// APIKey lets internal services call on behalf of an actor named in X-Actor-ID.
// Requests without the header continue to Auth untouched.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "api_key.middleware")
		defer scope.End()

		apiKey := r.Header.Get(constant.RequestHeaderAPIKey)
		if apiKey == "" {
			scope.SetAttribute("http.source", "client")
			next.ServeHTTP(w, r)

			return
		}

		scope.SetAttribute("http.source", "internal")

		expected := m.cfg.App.APIKey
		if expected == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
			scope.TraceError(failure.ForbiddenError)
			response.WithError(w, failure.ForbiddenError)

			return
		}

		actor := r.Header.Get(constant.RequestHeaderActorID)
		if actor == "" {
			actor = constant.RoleSystem
		}

		ctx = WithIdentity(ctx, jwt.Identity{UserID: actor, Role: constant.RoleSystem})
		ctx = context.WithValue(ctx, internalCallerKey{}, true)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Auth verifies the bearer token unless the route is public or the caller is internal.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		if isInternal(ctx) {
			next.ServeHTTP(w, r)

			return
		}

		pattern, permission := m.routePermission(r)

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.route":      pattern,
			"http.method":     r.Method,
		})

		if permission.Skip {
			next.ServeHTTP(w, r)

			return
		}

		token, err := jwt.ExtractTokenFromHeader(r.Header.Get(constant.RequestHeaderAuthorization))
		if err != nil {
			m.unauthorized(w, scope, err.Error())

			return
		}

		identity, err := m.verifier.Verify(token)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrExpiredToken):
				m.unauthorized(w, scope, "Token has expired")
			case errors.Is(err, jwt.ErrInvalidClaim):
				m.unauthorized(w, scope, "Invalid token claims")
			default:
				log.Debug().Err(err).Msg("token rejected")
				m.unauthorized(w, scope, "Invalid token")
			}

			return
		}

		scope.SetAttribute("user.role", identity.Role)

		next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, identity)))
	})
}

func (m *authRoleImpl) unauthorized(w http.ResponseWriter, scope otel.Scope, message string) {
	err := failure.Unauthorized(message)

	scope.TraceError(err)
	response.WithError(w, err)
}

// RBAC requires a prior Auth. Missing permissions deny everything except internal calls.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, scope := m.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, "rbac.middleware")
		defer scope.End()

		if isInternal(ctx) {
			next.ServeHTTP(w, r)

			return
		}

		if m.permission == nil {
			scope.TraceError(failure.ForbiddenError)
			response.WithError(w, failure.ForbiddenError)

			return
		}

		if m.permission.Skip {
			next.ServeHTTP(w, r)

			return
		}

		pattern, permission := m.routePermission(r)
		role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

		if !permission.Allows(role) {
			scope.TraceError(failure.ForbiddenError)
			scope.SetAttributes(map[string]any{
				"http.route":    pattern,
				"user_role":     role,
				"allowed_roles": permission.Permissions,
				"reason":        "role_not_allowed",
			})
			response.WithError(w, failure.ForbiddenError)

			return
		}

		next.ServeHTTP(w, r)
	})
}
