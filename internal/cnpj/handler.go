// Package cnpj serves company registry lookups. The data source is a
// fixed in-process table until the Receita integration lands.
package cnpj

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/trama-erp/trama-erp/internal/authz"
	"github.com/trama-erp/trama-erp/internal/platform/httpx"
)

// Company is the lookup result shape.
type Company struct {
	CNPJ         string `json:"cnpj"`
	RazaoSocial  string `json:"razaoSocial"`
	NomeFantasia string `json:"nomeFantasia"`
	Logradouro   string `json:"logradouro"`
	Municipio    string `json:"municipio"`
	UF           string `json:"uf"`
	CEP          string `json:"cep"`
	Situacao     string `json:"situacao"`
}

var registry = map[string]Company{
	"12345678000190": {
		CNPJ:         "12345678000190",
		RazaoSocial:  "Tecelagem Horizonte Ltda",
		NomeFantasia: "Horizonte Têxtil",
		Logradouro:   "Rua das Tecelãs, 120",
		Municipio:    "Blumenau",
		UF:           "SC",
		CEP:          "89010-000",
		Situacao:     "ATIVA",
	},
	"98765432000110": {
		CNPJ:         "98765432000110",
		RazaoSocial:  "Malharia Sul Fios S.A.",
		NomeFantasia: "Sul Fios",
		Logradouro:   "Av. Industrial, 455",
		Municipio:    "Caxias do Sul",
		UF:           "RS",
		CEP:          "95010-000",
		Situacao:     "ATIVA",
	},
}

// Handler answers CNPJ lookups.
type Handler struct {
	logger *slog.Logger
	authz  authz.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, mw authz.Middleware) *Handler {
	return &Handler{logger: logger, authz: mw}
}

// MountRoutes registers the lookup route.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authz.Require("visualizar", "cadastros")).
		Get("/cnpj/{cnpj}", h.lookup)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) {
	raw := Normalize(chi.URLParam(r, "cnpj"))
	if len(raw) != 14 {
		httpx.RespondError(w, fmt.Errorf("%w: CNPJ deve ter 14 dígitos", httpx.ErrValidation))
		return
	}
	company, ok := registry[raw]
	if !ok {
		httpx.RespondError(w, fmt.Errorf("%w: CNPJ não encontrado", httpx.ErrNotFound))
		return
	}
	httpx.JSON(w, http.StatusOK, company)
}

// Normalize strips the usual formatting (dots, slash, dash) so lookups
// accept both "12.345.678/0001-90" and the bare digit string.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
