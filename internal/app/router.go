package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/trama-erp/trama-erp/internal/accounts"
	"github.com/trama-erp/trama-erp/internal/audit"
	"github.com/trama-erp/trama-erp/internal/auth"
	"github.com/trama-erp/trama-erp/internal/cnpj"
	"github.com/trama-erp/trama-erp/internal/dashboard"
	"github.com/trama-erp/trama-erp/internal/inventory"
	"github.com/trama-erp/trama-erp/internal/masterdata"
	"github.com/trama-erp/trama-erp/internal/observability"
	"github.com/trama-erp/trama-erp/internal/procurement"
	"github.com/trama-erp/trama-erp/internal/skus"
	"github.com/trama-erp/trama-erp/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	AuthMiddleware     auth.Middleware
	AuthHandler        *auth.Handler
	MasterDataHandler  *masterdata.Handler
	SKUHandler         *skus.Handler
	InventoryHandler   *inventory.Handler
	ProcurementHandler *procurement.Handler
	DashboardHandler   *dashboard.Handler
	AccountsHandler    *accounts.Handler
	AuditHandler       *audit.Handler
	CNPJHandler        *cnpj.Handler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with Trama defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(params.AuthMiddleware.Resolve)

		r.Route("/auth", params.AuthHandler.MountRoutes)

		// Everything past this point needs a resolved principal.
		r.Group(func(r chi.Router) {
			r.Use(params.AuthMiddleware.RequireAPI)

			params.MasterDataHandler.MountRoutes(r)
			params.SKUHandler.MountRoutes(r)
			params.InventoryHandler.MountRoutes(r)
			params.ProcurementHandler.MountRoutes(r)
			params.DashboardHandler.MountRoutes(r)
			params.AccountsHandler.MountRoutes(r)
			params.AuditHandler.MountRoutes(r)
			params.CNPJHandler.MountRoutes(r)
		})
	})

	return r
}
