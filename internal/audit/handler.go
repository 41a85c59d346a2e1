package audit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/trama-erp/trama-erp/internal/authz"
	"github.com/trama-erp/trama-erp/internal/platform/httpx"
	"github.com/trama-erp/trama-erp/internal/shared"
)

// Handler serves the admin log listing.
type Handler struct {
	logger *slog.Logger
	logs   *Logger
	authz  authz.Middleware
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, logs *Logger, authz authz.Middleware) *Handler {
	return &Handler{logger: logger, logs: logs, authz: authz}
}

// MountRoutes registers the log routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.Require("visualizar", "logs"))
		r.Get("/logs", h.list)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	entries, total, err := h.logs.List(r.Context(), limit, (page-1)*limit)
	if err != nil {
		h.logger.Error("list logs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"logs":       entries,
		"pagination": shared.NewPagination(page, limit, total),
	})
}
