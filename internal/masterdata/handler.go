package masterdata

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/trama-erp/trama-erp/internal/authz"
	"github.com/trama-erp/trama-erp/internal/bulkimport"
	"github.com/trama-erp/trama-erp/internal/platform/httpx"
	"github.com/trama-erp/trama-erp/internal/shared"
)

// Handler exposes the cadastro JSON API.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   authz.Middleware
	imports *bulkimport.Handler
}

// NewHandler builds a cadastro Handler. imports may be nil when the
// bulk-import surface is not wanted.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware, imports *bulkimport.Handler) *Handler {
	return &Handler{logger: logger, service: service, authz: mw, imports: imports}
}

type listResponse[T any] struct {
	Data       []T               `json:"data"`
	Pagination shared.Pagination `json:"pagination"`
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// MountRoutes registers all cadastro routes under the API router.
func (h *Handler) MountRoutes(r chi.Router) {
	h.mountEntity(r, "/cores", entityRoutes{
		list:   h.listColors,
		get:    h.getColor,
		create: h.createColor,
		update: h.updateColor,
		delete: h.deleteColor,
	}, "cores")
	h.mountEntity(r, "/familias", entityRoutes{
		list:   h.listFamilies,
		get:    h.getFamily,
		create: h.createFamily,
		update: h.updateFamily,
		delete: h.deleteFamily,
	}, "familias")
	h.mountEntity(r, "/tamanhos", entityRoutes{
		list:   h.listSizes,
		get:    h.getSize,
		create: h.createSize,
		update: h.updateSize,
		delete: h.deleteSize,
	}, "tamanhos")
	h.mountEntity(r, "/depositos", entityRoutes{
		list:   h.listWarehouses,
		get:    h.getWarehouse,
		create: h.createWarehouse,
		update: h.updateWarehouse,
		delete: h.deleteWarehouse,
	}, "depositos")
	h.mountEntity(r, "/unidades-negocio", entityRoutes{
		list:   h.listBusinessUnits,
		get:    h.getBusinessUnit,
		create: h.createBusinessUnit,
		update: h.updateBusinessUnit,
		delete: h.deleteBusinessUnit,
	}, "unidades-negocio")
	h.mountEntity(r, "/empresas", entityRoutes{
		list:   h.listCompanies,
		get:    h.getCompany,
		create: h.createCompany,
		update: h.updateCompany,
		delete: h.deleteCompany,
	}, "empresas")
	h.mountEntity(r, "/fornecedores", entityRoutes{
		list:   h.listSuppliers,
		get:    h.getSupplier,
		create: h.createSupplier,
		update: h.updateSupplier,
		delete: h.deleteSupplier,
	}, "fornecedores")
	h.mountEntity(r, "/clientes", entityRoutes{
		list:   h.listClients,
		get:    h.getClient,
		create: h.createClient,
		update: h.updateClient,
		delete: h.deleteClient,
	}, "clientes")
	h.mountEntity(r, "/representantes", entityRoutes{
		list:   h.listRepresentatives,
		get:    h.getRepresentative,
		create: h.createRepresentative,
		update: h.updateRepresentative,
		delete: h.deleteRepresentative,
	}, "representantes")

	r.With(h.authz.Require("visualizar", "cadastros")).
		Get("/cadastros/{entity}/stats", h.stats)
}

type entityRoutes struct {
	list   http.HandlerFunc
	get    http.HandlerFunc
	create http.HandlerFunc
	update http.HandlerFunc
	delete http.HandlerFunc
}

// mountEntity wires the CRUD routes for one entity with the permission
// tuples its resource name implies.
func (h *Handler) mountEntity(r chi.Router, prefix string, routes entityRoutes, resource string) {
	r.Route(prefix, func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.authz.Require("visualizar", resource))
			r.Get("/", routes.list)
			r.Get("/{id}", routes.get)
		})
		r.Group(func(r chi.Router) {
			r.Use(h.authz.Require("editar", resource))
			r.Post("/", routes.create)
			r.Put("/{id}", routes.update)
		})
		r.With(h.authz.Require("excluir", resource)).Delete("/{id}", routes.delete)
		if h.imports != nil {
			h.imports.Mount(r, resource)
		}
	})
}

// Color handlers

func (h *Handler) listColors(w http.ResponseWriter, r *http.Request) {
	f := FiltersFromRequest(r)
	items, total, err := h.service.ListColors(r.Context(), f)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse[Color]{Data: items, Pagination: shared.NewPagination(f.Page, f.Limit, total)})
}

func (h *Handler) getColor(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	item, err := h.service.GetColor(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) createColor(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Nome   string  `json:"nome" validate:"required"`
		Legado *string `json:"legado"`
		Ativo  *bool   `json:"ativo"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.CreateColor(r.Context(), Color{Nome: in.Nome, Legado: in.Legado, Ativo: in.Ativo == nil || *in.Ativo})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) updateColor(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var in struct {
		Nome   string  `json:"nome" validate:"required"`
		Legado *string `json:"legado"`
		Ativo  bool    `json:"ativo"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.UpdateColor(r.Context(), id, Color{Nome: in.Nome, Legado: in.Legado, Ativo: in.Ativo}); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.GetColor(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) deleteColor(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.service.DeleteColor)
}

// Family handlers

func (h *Handler) listFamilies(w http.ResponseWriter, r *http.Request) {
	f := FiltersFromRequest(r)
	items, total, err := h.service.ListFamilies(r.Context(), f)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse[Family]{Data: items, Pagination: shared.NewPagination(f.Page, f.Limit, total)})
}

func (h *Handler) getFamily(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	item, err := h.service.GetFamily(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) createFamily(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Codigo string  `json:"codigo" validate:"required"`
		Nome   string  `json:"nome" validate:"required"`
		Legado *string `json:"legado"`
		Ativo  *bool   `json:"ativo"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.CreateFamily(r.Context(), Family{Codigo: in.Codigo, Nome: in.Nome, Legado: in.Legado, Ativo: in.Ativo == nil || *in.Ativo})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) updateFamily(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var in struct {
		Codigo string  `json:"codigo" validate:"required"`
		Nome   string  `json:"nome" validate:"required"`
		Legado *string `json:"legado"`
		Ativo  bool    `json:"ativo"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.UpdateFamily(r.Context(), id, Family{Codigo: in.Codigo, Nome: in.Nome, Legado: in.Legado, Ativo: in.Ativo}); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.GetFamily(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) deleteFamily(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.service.DeleteFamily)
}

// Size handlers

func (h *Handler) listSizes(w http.ResponseWriter, r *http.Request) {
	f := FiltersFromRequest(r)
	items, total, err := h.service.ListSizes(r.Context(), f)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse[Size]{Data: items, Pagination: shared.NewPagination(f.Page, f.Limit, total)})
}

func (h *Handler) getSize(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	item, err := h.service.GetSize(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) createSize(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Nome  string `json:"nome" validate:"required"`
		Ordem int    `json:"ordem"`
		Ativo *bool  `json:"ativo"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.CreateSize(r.Context(), Size{Nome: in.Nome, Ordem: in.Ordem, Ativo: in.Ativo == nil || *in.Ativo})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) updateSize(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var in struct {
		Nome  string `json:"nome" validate:"required"`
		Ordem int    `json:"ordem"`
		Ativo bool   `json:"ativo"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.UpdateSize(r.Context(), id, Size{Nome: in.Nome, Ordem: in.Ordem, Ativo: in.Ativo}); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.GetSize(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) deleteSize(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.service.DeleteSize)
}

// Warehouse handlers

func (h *Handler) listWarehouses(w http.ResponseWriter, r *http.Request) {
	f := FiltersFromRequest(r)
	items, total, err := h.service.ListWarehouses(r.Context(), f)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse[Warehouse]{Data: items, Pagination: shared.NewPagination(f.Page, f.Limit, total)})
}

func (h *Handler) getWarehouse(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	item, err := h.service.GetWarehouse(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) createWarehouse(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Codigo      string  `json:"codigo" validate:"required"`
		Nome        string  `json:"nome" validate:"required"`
		Localizacao *string `json:"localizacao"`
		Ativo       *bool   `json:"ativo"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.CreateWarehouse(r.Context(), Warehouse{Codigo: in.Codigo, Nome: in.Nome, Localizacao: in.Localizacao, Ativo: in.Ativo == nil || *in.Ativo})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) updateWarehouse(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var in struct {
		Codigo      string  `json:"codigo" validate:"required"`
		Nome        string  `json:"nome" validate:"required"`
		Localizacao *string `json:"localizacao"`
		Ativo       bool    `json:"ativo"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.UpdateWarehouse(r.Context(), id, Warehouse{Codigo: in.Codigo, Nome: in.Nome, Localizacao: in.Localizacao, Ativo: in.Ativo}); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.GetWarehouse(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) deleteWarehouse(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.service.DeleteWarehouse)
}

// BusinessUnit handlers

func (h *Handler) listBusinessUnits(w http.ResponseWriter, r *http.Request) {
	f := FiltersFromRequest(r)
	items, total, err := h.service.ListBusinessUnits(r.Context(), f)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse[BusinessUnit]{Data: items, Pagination: shared.NewPagination(f.Page, f.Limit, total)})
}

func (h *Handler) getBusinessUnit(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	item, err := h.service.GetBusinessUnit(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) createBusinessUnit(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Codigo string `json:"codigo" validate:"required"`
		Nome   string `json:"nome" validate:"required"`
		Ativo  *bool  `json:"ativo"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.CreateBusinessUnit(r.Context(), BusinessUnit{Codigo: in.Codigo, Nome: in.Nome, Ativo: in.Ativo == nil || *in.Ativo})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) updateBusinessUnit(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var in struct {
		Codigo string `json:"codigo" validate:"required"`
		Nome   string `json:"nome" validate:"required"`
		Ativo  bool   `json:"ativo"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.UpdateBusinessUnit(r.Context(), id, BusinessUnit{Codigo: in.Codigo, Nome: in.Nome, Ativo: in.Ativo}); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.GetBusinessUnit(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) deleteBusinessUnit(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.service.DeleteBusinessUnit)
}

// Company handlers

func (h *Handler) listCompanies(w http.ResponseWriter, r *http.Request) {
	f := FiltersFromRequest(r)
	items, total, err := h.service.ListCompanies(r.Context(), f)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse[Company]{Data: items, Pagination: shared.NewPagination(f.Page, f.Limit, total)})
}

func (h *Handler) getCompany(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	item, err := h.service.GetCompany(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

type companyInput struct {
	Nome     string  `json:"nome" validate:"required"`
	CNPJ     *string `json:"cnpj"`
	Endereco *string `json:"endereco"`
	Telefone *string `json:"telefone"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

func (h *Handler) createCompany(w http.ResponseWriter, r *http.Request) {
	var in struct {
		companyInput
		Ativo *bool `json:"ativo"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.CreateCompany(r.Context(), Company{
		Nome: in.Nome, CNPJ: in.CNPJ, Endereco: in.Endereco, Telefone: in.Telefone, Email: in.Email,
		Ativo: in.Ativo == nil || *in.Ativo,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) updateCompany(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var in struct {
		companyInput
		Ativo bool `json:"ativo"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.UpdateCompany(r.Context(), id, Company{
		Nome: in.Nome, CNPJ: in.CNPJ, Endereco: in.Endereco, Telefone: in.Telefone, Email: in.Email,
		Ativo: in.Ativo,
	}); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.GetCompany(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) deleteCompany(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.service.DeleteCompany)
}

// Supplier handlers

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	f := FiltersFromRequest(r)
	items, total, err := h.service.ListSuppliers(r.Context(), f)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse[Supplier]{Data: items, Pagination: shared.NewPagination(f.Page, f.Limit, total)})
}

func (h *Handler) getSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	item, err := h.service.GetSupplier(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

type supplierInput struct {
	Nome               string  `json:"nome" validate:"required"`
	CNPJ               *string `json:"cnpj"`
	Contato            *string `json:"contato"`
	PrazoEntregaPadrao *int    `json:"prazoEntregaPadrao" validate:"omitempty,gte=0"`
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var in struct {
		supplierInput
		Ativo *bool `json:"ativo"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.CreateSupplier(r.Context(), Supplier{
		Nome: in.Nome, CNPJ: in.CNPJ, Contato: in.Contato, PrazoEntregaPadrao: in.PrazoEntregaPadrao,
		Ativo: in.Ativo == nil || *in.Ativo,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) updateSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var in struct {
		supplierInput
		Ativo bool `json:"ativo"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.UpdateSupplier(r.Context(), id, Supplier{
		Nome: in.Nome, CNPJ: in.CNPJ, Contato: in.Contato, PrazoEntregaPadrao: in.PrazoEntregaPadrao,
		Ativo: in.Ativo,
	}); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.GetSupplier(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.service.DeleteSupplier)
}

// Client handlers

func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	f := FiltersFromRequest(r)
	items, total, err := h.service.ListClients(r.Context(), f)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse[Client]{Data: items, Pagination: shared.NewPagination(f.Page, f.Limit, total)})
}

func (h *Handler) getClient(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	item, err := h.service.GetClient(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

type clientInput struct {
	Nome            string  `json:"nome" validate:"required"`
	CNPJ            *string `json:"cnpj"`
	Cidade          *string `json:"cidade"`
	Estado          *string `json:"estado" validate:"omitempty,len=2"`
	RepresentanteID *int64  `json:"representanteId"`
}

func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	var in struct {
		clientInput
		Ativo *bool `json:"ativo"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.CreateClient(r.Context(), Client{
		Nome: in.Nome, CNPJ: in.CNPJ, Cidade: in.Cidade, Estado: in.Estado, RepresentanteID: in.RepresentanteID,
		Ativo: in.Ativo == nil || *in.Ativo,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) updateClient(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var in struct {
		clientInput
		Ativo bool `json:"ativo"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.UpdateClient(r.Context(), id, Client{
		Nome: in.Nome, CNPJ: in.CNPJ, Cidade: in.Cidade, Estado: in.Estado, RepresentanteID: in.RepresentanteID,
		Ativo: in.Ativo,
	}); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.GetClient(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) deleteClient(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.service.DeleteClient)
}

// Representative handlers

func (h *Handler) listRepresentatives(w http.ResponseWriter, r *http.Request) {
	f := FiltersFromRequest(r)
	items, total, err := h.service.ListRepresentatives(r.Context(), f)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse[Representative]{Data: items, Pagination: shared.NewPagination(f.Page, f.Limit, total)})
}

func (h *Handler) getRepresentative(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	item, err := h.service.GetRepresentative(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

type representativeInput struct {
	Nome     string  `json:"nome" validate:"required"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Telefone *string `json:"telefone"`
	Regiao   *string `json:"regiao"`
}

func (h *Handler) createRepresentative(w http.ResponseWriter, r *http.Request) {
	var in struct {
		representativeInput
		Ativo *bool `json:"ativo"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.CreateRepresentative(r.Context(), Representative{
		Nome: in.Nome, Email: in.Email, Telefone: in.Telefone, Regiao: in.Regiao,
		Ativo: in.Ativo == nil || *in.Ativo,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) updateRepresentative(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var in struct {
		representativeInput
		Ativo bool `json:"ativo"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.UpdateRepresentative(r.Context(), id, Representative{
		Nome: in.Nome, Email: in.Email, Telefone: in.Telefone, Regiao: in.Regiao,
		Ativo: in.Ativo,
	}); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.GetRepresentative(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) deleteRepresentative(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.service.DeleteRepresentative)
}

// Stats

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Stats(r.Context(), chi.URLParam(r, "entity"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, st)
}

func (h *Handler) deleteByID(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64) error) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	if err := fn(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
