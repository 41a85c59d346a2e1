package authz

import (
	"log/slog"
	"net/http"

	"github.com/trama-erp/trama-erp/internal/platform/httpx"
)

// Middleware wires authorization checks for HTTP handlers. The auth
// middleware must run earlier in the chain to populate the principal.
type Middleware struct {
	Logger *slog.Logger
}

// Require ensures the current user holds the given action on the resource.
func (m Middleware) Require(action, resource string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			if !principal.Permissions.Has(action, resource, "") {
				if m.Logger != nil {
					m.Logger.Warn("permissão negada",
						slog.Int64("user_id", principal.UserID),
						slog.String("action", action),
						slog.String("resource", resource))
				}
				httpx.RespondError(w, httpx.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAny passes when at least one of the permission checks holds.
func (m Middleware) RequireAny(checks ...Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			if !principal.Permissions.HasAny(checks...) {
				httpx.RespondError(w, httpx.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
