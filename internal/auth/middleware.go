package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/trama-erp/trama-erp/internal/authz"
	"github.com/trama-erp/trama-erp/internal/platform/httpx"
)

// CookieName is the JWT cookie checked for page navigation.
const CookieName = "auth-token"

// Middleware resolves the principal for incoming requests.
type Middleware struct {
	Logger  *slog.Logger
	Service *Service
}

func (m Middleware) tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// Resolve attaches the principal to the context when a valid token is
// present. It never rejects; guards that need one come after.
func (m Middleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.tokenFromRequest(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		principal := m.Service.VerifyToken(token)
		if principal == nil {
			// Invalid or expired tokens count as no session.
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(authz.ContextWithPrincipal(r.Context(), principal)))
	})
}

// RequireAPI rejects unauthenticated API requests with a 401 problem.
func (m Middleware) RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authz.PrincipalFromContext(r.Context()) == nil {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
