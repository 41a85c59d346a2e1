package procurement

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/trama-erp/trama-erp/internal/authz"
	"github.com/trama-erp/trama-erp/internal/platform/httpx"
	"github.com/trama-erp/trama-erp/internal/shared"
)

// Handler exposes the /compras endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   authz.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: mw}
}

// MountRoutes registers procurement routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/compras", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.authz.Require("visualizar", "compras"))
			r.Get("/ordens", h.listPOs)
			r.Get("/ordens/{id}", h.getPO)
			r.Get("/requisicoes", h.listRequisicoes)
			r.Get("/requisicoes/{id}", h.getRequisicao)
		})
		r.Group(func(r chi.Router) {
			r.Use(h.authz.Require("editar", "compras"))
			r.Post("/ordens", h.createPO)
			r.Post("/ordens/{id}/receber", h.receive)
			r.Post("/requisicoes", h.createRequisicao)
			r.Post("/requisicoes/{id}/cancelar", h.cancelRequisicao)
		})
		r.Group(func(r chi.Router) {
			r.Use(h.authz.Require("aprovar", "compras"))
			r.Post("/ordens/{id}/aprovar", h.approvePO)
			r.Post("/ordens/{id}/cancelar", h.cancelPO)
		})
	})
}

func respondProcurementErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidState):
		httpx.Problem(w, http.StatusConflict, "Transição inválida", err.Error())
	case errors.Is(err, ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Dados inválidos", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}

func (h *Handler) listPOs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := ListFilters{Page: 1, Limit: 20}
	if v := q.Get("status"); v != "" {
		st := POStatus(v)
		f.Status = &st
	}
	if id, err := strconv.ParseInt(q.Get("fornecedorId"), 10, 64); err == nil {
		f.FornecedorID = &id
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		f.Page = n
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 && n <= 100 {
		f.Limit = n
	}

	items, total, err := h.service.ListPOs(r.Context(), f)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"data":       items,
		"pagination": shared.NewPagination(f.Page, f.Limit, total),
	})
}

func (h *Handler) getPO(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	po, err := h.service.GetPO(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, po)
}

func (h *Handler) createPO(w http.ResponseWriter, r *http.Request) {
	var in struct {
		FornecedorID int64   `json:"fornecedorId" validate:"required"`
		RequisicaoID *int64  `json:"requisicaoId"`
		Observacao   *string `json:"observacao"`
		Linhas       []struct {
			SKUID      int64   `json:"skuId" validate:"required"`
			Quantidade float64 `json:"quantidade" validate:"required,gt=0"`
			PrecoUnit  float64 `json:"precoUnitario" validate:"gte=0"`
		} `json:"linhas"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	input := CreatePOInput{
		FornecedorID:   in.FornecedorID,
		RequisicaoID:   in.RequisicaoID,
		Observacao:     in.Observacao,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	}
	for _, l := range in.Linhas {
		input.Linhas = append(input.Linhas, POLineInput{SKUID: l.SKUID, Quantidade: l.Quantidade, PrecoUnit: l.PrecoUnit})
	}

	po, err := h.service.CreatePO(r.Context(), input)
	if err != nil {
		if errors.Is(err, shared.ErrIdempotencyConflict) {
			httpx.Problem(w, http.StatusConflict, "Requisição duplicada", err.Error())
			return
		}
		respondProcurementErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, po)
}

func (h *Handler) approvePO(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.ApprovePO)
}

func (h *Handler) cancelPO(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.CancelPO)
}

func (h *Handler) receive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var in struct {
		DepositoID int64 `json:"depositoId" validate:"required"`
		Linhas     []struct {
			LinhaID    int64   `json:"linhaId" validate:"required"`
			Quantidade float64 `json:"quantidade" validate:"required,gt=0"`
		} `json:"linhas" validate:"required,min=1"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	input := ReceiveInput{POID: id, DepositoID: in.DepositoID}
	for _, l := range in.Linhas {
		input.Linhas = append(input.Linhas, ReceiveLineInput{LineID: l.LinhaID, Quantidade: l.Quantidade})
	}
	if err := h.service.Receive(r.Context(), input); err != nil {
		respondProcurementErr(w, err)
		return
	}
	po, err := h.service.GetPO(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, po)
}

func (h *Handler) listRequisicoes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var status *RequisicaoStatus
	if v := q.Get("status"); v != "" {
		st := RequisicaoStatus(v)
		status = &st
	}
	page, limit := 1, 20
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		page = n
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 && n <= 100 {
		limit = n
	}

	items, total, err := h.service.ListRequisicoes(r.Context(), status, page, limit)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"data":       items,
		"pagination": shared.NewPagination(page, limit, total),
	})
}

func (h *Handler) getRequisicao(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	req, err := h.service.GetRequisicao(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, req)
}

func (h *Handler) createRequisicao(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Observacao *string `json:"observacao"`
		Linhas     []struct {
			SKUID      int64   `json:"skuId" validate:"required"`
			Quantidade float64 `json:"quantidade" validate:"required,gt=0"`
			Observacao *string `json:"observacao"`
		} `json:"linhas" validate:"required,min=1"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	var lines []RequisicaoLineInput
	for _, l := range in.Linhas {
		lines = append(lines, RequisicaoLineInput{SKUID: l.SKUID, Quantidade: l.Quantidade, Observacao: l.Observacao})
	}
	req, err := h.service.CreateRequisicao(r.Context(), in.Observacao, lines)
	if err != nil {
		respondProcurementErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, req)
}

func (h *Handler) cancelRequisicao(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.CancelRequisicao)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64) error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	if err := fn(r.Context(), id); err != nil {
		respondProcurementErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
