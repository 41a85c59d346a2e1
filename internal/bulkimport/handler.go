package bulkimport

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/trama-erp/trama-erp/internal/authz"
	"github.com/trama-erp/trama-erp/internal/platform/httpx"
)

// Handler serves the bulk-import endpoint of each registered target.
type Handler struct {
	logger  *slog.Logger
	engine  *Engine
	authz   authz.Middleware
	limiter func(http.Handler) http.Handler
	targets map[string]Target
}

// NewHandler builds a Handler serving the given targets. The limiter
// is shared across entities: an import holds a connection for minutes,
// so a client gets a few runs per window no matter which cadastro it
// targets.
func NewHandler(logger *slog.Logger, engine *Engine, mw authz.Middleware, targets ...Target) *Handler {
	byName := make(map[string]Target, len(targets))
	for _, t := range targets {
		byName[t.Name()] = t
	}
	return &Handler{
		logger:  logger,
		engine:  engine,
		authz:   mw,
		limiter: httprate.Limit(6, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)),
		targets: byName,
	}
}

type importRequest struct {
	Data     []map[string]string `json:"data" validate:"required,min=1"`
	Mappings []Mapping           `json:"mappings" validate:"required,min=1"`
}

// Mount registers POST /bulk-import on the entity subrouter, guarded by
// the importar permission. It is a no-op when no target carries the
// entity name, so handlers can call it unconditionally.
func (h *Handler) Mount(r chi.Router, name string) {
	t, ok := h.targets[name]
	if !ok {
		return
	}
	r.With(h.authz.Require("importar", name), h.limiter).
		Post("/bulk-import", h.runImport(t))
}

func (h *Handler) runImport(t Target) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req importRequest
		if err := httpx.DecodeValid(r, &req); err != nil {
			httpx.RespondError(w, err)
			return
		}
		mapped := make(map[string]bool, len(req.Mappings))
		for _, m := range req.Mappings {
			if m.CSVColumn != "" && m.DBField != "" {
				mapped[m.DBField] = true
			}
		}
		for _, f := range t.Fields() {
			if f.Required && !mapped[f.Name] {
				httpx.Problem(w, http.StatusBadRequest, "Mapeamento inválido",
					"campo obrigatório '"+f.Name+"' não foi mapeado")
				return
			}
		}

		res, err := h.engine.Run(r.Context(), t, req.Data, req.Mappings)
		if err != nil {
			if errors.Is(err, httpx.ErrTimeout) {
				// partial result with the counts reached before the
				// deadline fired
				httpx.JSON(w, http.StatusRequestTimeout, res)
				return
			}
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, res)
	}
}
