package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/trama-erp/trama-erp/internal/authz"
	"github.com/trama-erp/trama-erp/internal/platform/httpx"
	"github.com/trama-erp/trama-erp/internal/shared"
)

// Handler serves the auth endpoints.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	middleware Middleware
	authz      authz.Middleware
	cookieTTL  time.Duration
	secureCk   bool
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, service *Service, middleware Middleware, authzMw authz.Middleware, cookieTTL time.Duration, secureCookies bool) *Handler {
	return &Handler{
		logger:     logger,
		service:    service,
		middleware: middleware,
		authz:      authzMw,
		cookieTTL:  cookieTTL,
		secureCk:   secureCookies,
	}
}

// MountRoutes registers the auth routes. Credential endpoints get
// their own per-IP limiter on top of the global one: bcrypt makes
// every guess expensive for us too.
func (h *Handler) MountRoutes(r chi.Router) {
	limiter := httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP))

	r.With(limiter).Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.With(limiter).Post("/password-reset/request", h.requestReset)
	r.With(limiter).Post("/password-reset/confirm", h.confirmReset)

	r.Group(func(r chi.Router) {
		r.Use(h.middleware.RequireAPI)
		r.Get("/me", h.me)
		r.With(h.authz.Require(authz.ActionAdmin, "usuarios")).Post("/register", h.register)
	})
}

type loginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Senha string `json:"senha" validate:"required"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeValid(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	user, set, err := h.service.Authenticate(r.Context(), req.Email, req.Senha)
	if err != nil {
		h.logger.Info("login recusado", slog.String("email", req.Email))
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", shared.ErrInvalidCredentials.Error())
		return
	}

	token, err := h.service.IssueToken(user, set)
	if err != nil {
		h.logger.Error("emitir token", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.cookieTTL),
		HttpOnly: true,
		Secure:   h.secureCk,
		SameSite: http.SameSiteLaxMode,
	})

	httpx.JSON(w, http.StatusOK, map[string]any{
		"user":        user,
		"token":       token,
		"permissions": set.Strings(),
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCk,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	principal := authz.PrincipalFromContext(r.Context())
	httpx.JSON(w, http.StatusOK, map[string]any{
		"id":           principal.UserID,
		"nome":         principal.Nome,
		"email":        principal.Email,
		"isAdmin":      principal.IsAdmin,
		"isSuperAdmin": principal.IsSuperAdmin,
		"permissions":  principal.Permissions.Strings(),
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var input RegisterInput
	if err := httpx.DecodeValid(r, &input); err != nil {
		httpx.RespondError(w, err)
		return
	}
	user, err := h.service.Register(r.Context(), input)
	if err != nil {
		h.logger.Error("registrar usuário", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, user)
}

type resetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *Handler) requestReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := httpx.DecodeValid(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	// The token would be delivered by email; the response is identical
	// whether or not the account exists.
	if _, err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.logger.Error("solicitar reset de senha", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

type confirmResetRequest struct {
	Token string `json:"token" validate:"required"`
	Senha string `json:"senha" validate:"required,min=6"`
}

func (h *Handler) confirmReset(w http.ResponseWriter, r *http.Request) {
	var req confirmResetRequest
	if err := httpx.DecodeValid(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.ResetPassword(r.Context(), req.Token, req.Senha); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}
