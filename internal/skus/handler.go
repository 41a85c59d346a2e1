package skus

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/trama-erp/trama-erp/internal/authz"
	"github.com/trama-erp/trama-erp/internal/bulkimport"
	"github.com/trama-erp/trama-erp/internal/platform/httpx"
	"github.com/trama-erp/trama-erp/internal/shared"
)

// Handler exposes the SKU JSON API.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   authz.Middleware
	imports *bulkimport.Handler
}

// NewHandler builds a SKU Handler. imports may be nil when the
// bulk-import surface is not wanted.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware, imports *bulkimport.Handler) *Handler {
	return &Handler{logger: logger, service: service, authz: mw, imports: imports}
}

// MountRoutes registers the /skus routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/skus", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.authz.Require("visualizar", "skus"))
			r.Get("/", h.list)
			r.Get("/stats", h.stats)
			r.Get("/{id}", h.get)
		})
		r.Group(func(r chi.Router) {
			r.Use(h.authz.Require("editar", "skus"))
			r.Post("/", h.create)
			r.Put("/{id}", h.update)
		})
		r.With(h.authz.Require("excluir", "skus")).Delete("/{id}", h.delete)
		if h.imports != nil {
			h.imports.Mount(r, "skus")
		}
	})
}

func filtersFromRequest(r *http.Request) ListFilters {
	q := r.URL.Query()
	f := ListFilters{Search: strings.TrimSpace(q.Get("search")), Page: 1, Limit: 20}
	if v := q.Get("ativo"); v != "" {
		b := v == "true" || v == "1"
		f.Ativo = &b
	}
	if id, err := strconv.ParseInt(q.Get("familiaId"), 10, 64); err == nil {
		f.FamiliaID = &id
	}
	if id, err := strconv.ParseInt(q.Get("unidadeNegocioId"), 10, 64); err == nil {
		f.UnidadeNegocioID = &id
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		f.Page = n
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 && n <= 100 {
		f.Limit = n
	}
	return f
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	f := filtersFromRequest(r)
	items, total, err := h.service.List(r.Context(), f)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"data":       items,
		"pagination": shared.NewPagination(f.Page, f.Limit, total),
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

type skuInput struct {
	Codigo           string   `json:"codigo" validate:"required"`
	Nome             string   `json:"nome" validate:"required"`
	Descricao        *string  `json:"descricao"`
	CorID            *int64   `json:"corId"`
	FamiliaID        *int64   `json:"familiaId"`
	TamanhoID        *int64   `json:"tamanhoId"`
	UnidadeNegocioID *int64   `json:"unidadeNegocioId"`
	Unidade          string   `json:"unidade"`
	PrecoVenda       *float64 `json:"precoVenda" validate:"omitempty,gte=0"`
	CustoMedio       *float64 `json:"custoMedio" validate:"omitempty,gte=0"`
	EstoqueMinimo    *float64 `json:"estoqueMinimo" validate:"omitempty,gte=0"`
	EstoqueMaximo    *float64 `json:"estoqueMaximo" validate:"omitempty,gte=0"`
}

func (in skuInput) toSKU(ativo bool) SKU {
	return SKU{
		Codigo: in.Codigo, Nome: in.Nome, Descricao: in.Descricao,
		CorID: in.CorID, FamiliaID: in.FamiliaID, TamanhoID: in.TamanhoID, UnidadeNegocioID: in.UnidadeNegocioID,
		Unidade: in.Unidade, PrecoVenda: in.PrecoVenda, CustoMedio: in.CustoMedio,
		EstoqueMinimo: in.EstoqueMinimo, EstoqueMaximo: in.EstoqueMaximo, Ativo: ativo,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		skuInput
		Ativo *bool `json:"ativo"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.Create(r.Context(), in.toSKU(in.Ativo == nil || *in.Ativo))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var in struct {
		skuInput
		Ativo bool `json:"ativo"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Update(r.Context(), id, in.toSKU(in.Ativo)); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Stats(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, st)
}
