package bulkimport

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/trama-erp/trama-erp/internal/authz"
)

func importerPrincipal() *authz.Principal {
	return &authz.Principal{
		UserID:      7,
		Nome:        "Importadora",
		Permissions: authz.SetFromStrings([]string{"importar:cores"}),
	}
}

func newImportRouter(t *testing.T) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, testEngine(Options{}), authz.Middleware{Logger: logger}, newFakeTarget())

	router := chi.NewRouter()
	router.Route("/cores", func(r chi.Router) {
		handler.Mount(r, "cores")
	})
	return router
}

func newImportRequest(principal *authz.Principal) *http.Request {
	body := `{"data":[{"Nome":"Azul"}],"mappings":[{"csvColumn":"Nome","dbField":"nome","required":true}]}`
	req := httptest.NewRequest(http.MethodPost, "/cores/bulk-import", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "10.0.0.9:4000"
	return req.WithContext(authz.ContextWithPrincipal(req.Context(), principal))
}

func TestBulkImportRateLimited(t *testing.T) {
	router := newImportRouter(t)

	for i := 0; i < 7; i++ {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, newImportRequest(importerPrincipal()))
		if i < 6 {
			require.Equalf(t, http.StatusOK, rr.Code, "request %d", i+1)
		} else {
			require.Equal(t, http.StatusTooManyRequests, rr.Code)
		}
	}
}

func TestBulkImportRequiresPermission(t *testing.T) {
	router := newImportRouter(t)

	principal := &authz.Principal{UserID: 3, Permissions: authz.SetFromStrings([]string{"visualizar:cores"})}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, newImportRequest(principal))
	require.Equal(t, http.StatusForbidden, rr.Code)
}
