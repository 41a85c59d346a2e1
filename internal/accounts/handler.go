package accounts

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/trama-erp/trama-erp/internal/authz"
	"github.com/trama-erp/trama-erp/internal/platform/httpx"
	"github.com/trama-erp/trama-erp/internal/shared"
)

// Handler exposes the user and role administration JSON API.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authz   authz.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authz: mw}
}

type listResponse[T any] struct {
	Data       []T               `json:"data"`
	Pagination shared.Pagination `json:"pagination"`
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// MountRoutes registers the admin routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/usuarios", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.authz.Require("visualizar", "usuarios"))
			r.Get("/", h.listUsers)
			r.Get("/{id}", h.getUser)
			r.Get("/{id}/permissoes", h.userPermissions)
		})
		r.Group(func(r chi.Router) {
			r.Use(h.authz.Require("editar", "usuarios"))
			r.Put("/{id}", h.updateUser)
			r.Post("/{id}/ativar", h.activateUser)
			r.Post("/{id}/desativar", h.deactivateUser)
			r.Put("/{id}/permissoes", h.setUserPermissions)
		})
	})
	r.Route("/papeis", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.authz.Require("visualizar", "papeis"))
			r.Get("/", h.listRoles)
			r.Get("/{id}", h.getRole)
		})
		r.Group(func(r chi.Router) {
			r.Use(h.authz.Require("editar", "papeis"))
			r.Post("/", h.createRole)
			r.Put("/{id}", h.updateRole)
			r.Put("/{id}/permissoes", h.setRolePermissions)
		})
		r.With(h.authz.Require("excluir", "papeis")).Delete("/{id}", h.deleteRole)
	})
}

// Users

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := ListFilters{Search: q.Get("busca"), Page: 1, Limit: 20}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		f.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 && v <= 100 {
		f.Limit = v
	}
	if v := q.Get("ativo"); v != "" {
		b := v == "true" || v == "1"
		f.Ativo = &b
	}
	items, total, err := h.service.ListUsers(r.Context(), f)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listResponse[User]{Data: items, Pagination: shared.NewPagination(f.Page, f.Limit, total)})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	item, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var in struct {
		Nome    string `json:"nome" validate:"required"`
		Email   string `json:"email" validate:"required,email"`
		PapelID *int64 `json:"papelId"`
		IsAdmin bool   `json:"isAdmin"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	u := User{Nome: in.Nome, Email: in.Email, PapelID: in.PapelID, IsAdmin: in.IsAdmin}
	if err := h.service.UpdateUser(r.Context(), id, u); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) activateUser(w http.ResponseWriter, r *http.Request) {
	h.toggleUser(w, r, true)
}

func (h *Handler) deactivateUser(w http.ResponseWriter, r *http.Request) {
	h.toggleUser(w, r, false)
}

func (h *Handler) toggleUser(w http.ResponseWriter, r *http.Request, active bool) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	if err := h.service.SetUserActive(r.Context(), id, active); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) userPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	perms, err := h.service.UserPermissions(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"permissoes": permissionStrings(perms)})
}

func (h *Handler) setUserPermissions(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var in struct {
		Permissoes []string `json:"permissoes" validate:"required"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.SetUserPermissions(r.Context(), id, in.Permissoes); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Roles

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListRoles(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *Handler) getRole(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	item, err := h.service.GetRole(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

type roleInput struct {
	Nome      string  `json:"nome" validate:"required"`
	Descricao *string `json:"descricao"`
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	var in roleInput
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.CreateRole(r.Context(), Role{Nome: in.Nome, Descricao: in.Descricao})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var in roleInput
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.UpdateRole(r.Context(), id, Role{Nome: in.Nome, Descricao: in.Descricao}); err != nil {
		httpx.RespondError(w, err)
		return
	}
	item, err := h.service.GetRole(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) deleteRole(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	if err := h.service.DeleteRole(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setRolePermissions(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	var in struct {
		Permissoes []string `json:"permissoes" validate:"required"`
	}
	if err := httpx.DecodeValid(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.SetRolePermissions(r.Context(), id, in.Permissoes); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func permissionStrings(perms []authz.Permission) []string {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, p.String())
	}
	return out
}
