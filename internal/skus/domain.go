// Package skus manages the product catalog. A SKU references the
// cadastro dimensions (cor, família, tamanho, unidade de negócio) by id
// and carries pricing and stock bounds.
package skus

import (
	"context"
	"time"
)

type SKU struct {
	ID               int64     `json:"id"`
	Codigo           string    `json:"codigo"`
	Nome             string    `json:"nome"`
	Descricao        *string   `json:"descricao,omitempty"`
	CorID            *int64    `json:"corId,omitempty"`
	FamiliaID        *int64    `json:"familiaId,omitempty"`
	TamanhoID        *int64    `json:"tamanhoId,omitempty"`
	UnidadeNegocioID *int64    `json:"unidadeNegocioId,omitempty"`
	Unidade          string    `json:"unidade"`
	PrecoVenda       *float64  `json:"precoVenda,omitempty"`
	CustoMedio       *float64  `json:"custoMedio,omitempty"`
	EstoqueMinimo    *float64  `json:"estoqueMinimo,omitempty"`
	EstoqueMaximo    *float64  `json:"estoqueMaximo,omitempty"`
	Ativo            bool      `json:"ativo"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ListFilters narrows the SKU listing. Search matches codigo and nome.
type ListFilters struct {
	Search           string
	Ativo            *bool
	FamiliaID        *int64
	UnidadeNegocioID *int64
	Page             int
	Limit            int
}

// Stats feeds the catalog dashboard card.
type Stats struct {
	Total     int `json:"total"`
	Ativos    int `json:"ativos"`
	SemPreco  int `json:"semPreco"`
	SemFamily int `json:"semFamilia"`
}

type Repository interface {
	List(ctx context.Context, f ListFilters) ([]SKU, int, error)
	Get(ctx context.Context, id int64) (SKU, error)
	FindByCodigo(ctx context.Context, codigo string) (*SKU, error)
	Create(ctx context.Context, s SKU) (SKU, error)
	Update(ctx context.Context, id int64, s SKU) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (Stats, error)
}
