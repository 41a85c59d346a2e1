package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trama-erp/trama-erp/internal/authz"
	"github.com/trama-erp/trama-erp/internal/platform/httpx"
)

// Handler exposes the dashboard endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   authz.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: mw}
}

// MountRoutes registers dashboard routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.With(h.authz.Require("visualizar", "dashboard")).Get("/", h.overview)
		r.With(h.authz.Require("visualizar", "dashboard-executivo")).Get("/executivo", h.executive)
		r.With(h.authz.Require("visualizar", "planejamento")).Get("/planejamento", h.planning)
	})
}

func refresh(r *http.Request) bool {
	v := r.URL.Query().Get("refresh")
	return v == "1" || v == "true"
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Overview(r.Context(), refresh(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, data)
}

func (h *Handler) executive(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Executive(r.Context(), refresh(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, data)
}

func (h *Handler) planning(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Planning(r.Context(), refresh(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, data)
}
