package inventory

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/trama-erp/trama-erp/internal/authz"
	"github.com/trama-erp/trama-erp/internal/platform/httpx"
	"github.com/trama-erp/trama-erp/internal/shared"
)

// Handler exposes the /estoque endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   authz.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: mw}
}

// MountRoutes registers the stock routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/estoque", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.authz.Require("visualizar", "estoque"))
			r.Get("/", h.listBalances)
			r.Get("/movimentos", h.listMovements)
			r.Get("/dashboard", h.dashboard)
		})
		r.Group(func(r chi.Router) {
			r.Use(h.authz.Require("editar", "estoque"))
			r.Post("/movimentos", h.postMovement)
			r.Post("/transferencias", h.postTransfer)
		})
	})
}

func (h *Handler) listBalances(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := ListFilters{Search: strings.TrimSpace(q.Get("search")), Page: 1, Limit: 20}
	if id, err := strconv.ParseInt(q.Get("skuId"), 10, 64); err == nil {
		f.SKUID = &id
	}
	if id, err := strconv.ParseInt(q.Get("depositoId"), 10, 64); err == nil {
		f.DepositoID = &id
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		f.Page = n
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 && n <= 100 {
		f.Limit = n
	}

	items, total, err := h.service.ListBalances(r.Context(), f)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"data":       items,
		"pagination": shared.NewPagination(f.Page, f.Limit, total),
	})
}

func (h *Handler) listMovements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	skuID, err1 := strconv.ParseInt(q.Get("skuId"), 10, 64)
	depositoID, err2 := strconv.ParseInt(q.Get("depositoId"), 10, 64)
	if err1 != nil || err2 != nil {
		httpx.Problem(w, http.StatusBadRequest, "Parâmetros inválidos", "skuId e depositoId são obrigatórios")
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	items, err := h.service.ListMovements(r.Context(), skuID, depositoID, limit)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *Handler) postMovement(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Tipo       string  `json:"tipo" validate:"required"`
		SKUID      int64   `json:"skuId" validate:"required"`
		DepositoID int64   `json:"depositoId" validate:"required"`
		Quantidade float64 `json:"quantidade" validate:"required"`
		CustoUnit  float64 `json:"custoUnitario" validate:"gte=0"`
		Observacao *string `json:"observacao"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	movement, err := h.service.Post(r.Context(), MovementInput{
		Tipo:       MovementType(strings.ToUpper(in.Tipo)),
		SKUID:      in.SKUID,
		DepositoID: in.DepositoID,
		Quantidade: in.Quantidade,
		CustoUnit:  in.CustoUnit,
		Observacao: in.Observacao,
	})
	if err != nil {
		if err == ErrNegativeStock || err == ErrInvalidQuantity {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Movimento rejeitado", err.Error())
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, movement)
}

func (h *Handler) postTransfer(w http.ResponseWriter, r *http.Request) {
	var in struct {
		SKUID        int64   `json:"skuId" validate:"required"`
		OrigemID     int64   `json:"origemId" validate:"required"`
		DestinoID    int64   `json:"destinoId" validate:"required"`
		Quantidade   float64 `json:"quantidade" validate:"required,gt=0"`
		Observacao   *string `json:"observacao"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	out, inMov, err := h.service.Transfer(r.Context(), in.SKUID, in.OrigemID, in.DestinoID, in.Quantidade, in.Observacao)
	if err != nil {
		if err == ErrNegativeStock {
			httpx.Problem(w, http.StatusUnprocessableEntity, "Transferência rejeitada", err.Error())
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"saida": out, "entrada": inMov})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Dashboard(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, data)
}
