package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/trama-erp/trama-erp/internal/authz"
)

func newTestRouter(t *testing.T, repo Repository) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := newTestService(repo)
	h := NewHandler(logger, svc, Middleware{Logger: logger, Service: svc}, authz.Middleware{Logger: logger}, time.Hour, false)

	router := chi.NewRouter()
	h.MountRoutes(router)
	return router
}

func postLogin(router chi.Router, email, senha string) *httptest.ResponseRecorder {
	body := `{"email":"` + email + `","senha":"` + senha + `"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "10.0.0.8:5000"
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestLoginSetsCookieAndReturnsToken(t *testing.T) {
	repo := newMemoryRepo()
	repo.addUser("gerente@trama.local", "segredo123", nil)
	router := newTestRouter(t, repo)

	rr := postLogin(router, "gerente@trama.local", "segredo123")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), `"token"`)

	var found bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == CookieName && c.Value != "" {
			found = true
		}
	}
	require.True(t, found, "auth cookie not set")
}

func TestLoginRateLimitedPerIP(t *testing.T) {
	repo := newMemoryRepo()
	repo.addUser("gerente@trama.local", "segredo123", nil)
	router := newTestRouter(t, repo)

	for i := 0; i < 11; i++ {
		rr := postLogin(router, "gerente@trama.local", "senha-errada")
		if i < 10 {
			require.Equalf(t, http.StatusUnauthorized, rr.Code, "request %d", i+1)
		} else {
			require.Equal(t, http.StatusTooManyRequests, rr.Code)
		}
	}
}
