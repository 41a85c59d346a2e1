// Package masterdata implements the cadastro: reference entities kept as
// relational records with an ativo soft-delete flag, duplicate-checked
// natural keys and CSV bulk-import targets.
package masterdata

import "time"

// Color (cor) is keyed by nome.
type Color struct {
	ID        int64     `json:"id"`
	Nome      string    `json:"nome"`
	Legado    *string   `json:"legado,omitempty"`
	Ativo     bool      `json:"ativo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Family (familia) is keyed by codigo.
type Family struct {
	ID        int64     `json:"id"`
	Codigo    string    `json:"codigo"`
	Nome      string    `json:"nome"`
	Legado    *string   `json:"legado,omitempty"`
	Ativo     bool      `json:"ativo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Size (tamanho) is keyed by nome. Ordem drives display ordering
// (P before M before G, independent of lexicographic order).
type Size struct {
	ID        int64     `json:"id"`
	Nome      string    `json:"nome"`
	Ordem     int       `json:"ordem"`
	Ativo     bool      `json:"ativo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Warehouse (deposito) is keyed by codigo.
type Warehouse struct {
	ID          int64     `json:"id"`
	Codigo      string    `json:"codigo"`
	Nome        string    `json:"nome"`
	Localizacao *string   `json:"localizacao,omitempty"`
	Ativo       bool      `json:"ativo"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BusinessUnit (UNEG) partitions products by line of business.
type BusinessUnit struct {
	ID        int64     `json:"id"`
	Codigo    string    `json:"codigo"`
	Nome      string    `json:"nome"`
	Ativo     bool      `json:"ativo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Company (empresa) is keyed by CNPJ when present, nome otherwise.
type Company struct {
	ID        int64     `json:"id"`
	Nome      string    `json:"nome"`
	CNPJ      *string   `json:"cnpj,omitempty"`
	Endereco  *string   `json:"endereco,omitempty"`
	Telefone  *string   `json:"telefone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Ativo     bool      `json:"ativo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Supplier (fornecedor) is keyed by nome.
type Supplier struct {
	ID                 int64     `json:"id"`
	Nome               string    `json:"nome"`
	CNPJ               *string   `json:"cnpj,omitempty"`
	Contato            *string   `json:"contato,omitempty"`
	PrazoEntregaPadrao *int      `json:"prazoEntregaPadrao,omitempty"`
	Ativo              bool      `json:"ativo"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Client (cliente) is keyed by nome.
type Client struct {
	ID              int64     `json:"id"`
	Nome            string    `json:"nome"`
	CNPJ            *string   `json:"cnpj,omitempty"`
	Cidade          *string   `json:"cidade,omitempty"`
	Estado          *string   `json:"estado,omitempty"`
	RepresentanteID *int64    `json:"representanteId,omitempty"`
	Ativo           bool      `json:"ativo"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Representative (representante) is keyed by nome.
type Representative struct {
	ID        int64     `json:"id"`
	Nome      string    `json:"nome"`
	Email     *string   `json:"email,omitempty"`
	Telefone  *string   `json:"telefone,omitempty"`
	Regiao    *string   `json:"regiao,omitempty"`
	Ativo     bool      `json:"ativo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Stats summarises an entity for the cadastro stat cards.
type Stats struct {
	Total  int `json:"total"`
	Ativos int `json:"ativos"`
}
