package skus

import (
	"context"

	"github.com/trama-erp/trama-erp/internal/bulkimport"
)

// ImportTarget adapts SKUs to the bulk import engine, keyed by codigo.
type ImportTarget struct {
	Repo Repository
}

func (t ImportTarget) Name() string       { return "skus" }
func (t ImportTarget) Label() string      { return "SKU" }
func (t ImportTarget) NaturalKey() string { return "codigo" }

func (t ImportTarget) Fields() []bulkimport.Field {
	return []bulkimport.Field{
		{Name: "codigo", Kind: bulkimport.KindString, Required: true},
		{Name: "nome", Kind: bulkimport.KindString, Required: true},
		{Name: "descricao", Kind: bulkimport.KindString},
		{Name: "unidade", Kind: bulkimport.KindString},
		{Name: "precoVenda", Kind: bulkimport.KindFloat},
		{Name: "custoMedio", Kind: bulkimport.KindFloat},
		{Name: "estoqueMinimo", Kind: bulkimport.KindFloat},
		{Name: "estoqueMaximo", Kind: bulkimport.KindFloat},
		{Name: "ativo", Kind: bulkimport.KindBool},
	}
}

func (t ImportTarget) Exists(ctx context.Context, key string) (bool, error) {
	s, err := t.Repo.FindByCodigo(ctx, key)
	return s != nil, err
}

func (t ImportTarget) Insert(ctx context.Context, row map[string]any) error {
	sku := SKU{
		Codigo:  row["codigo"].(string),
		Nome:    row["nome"].(string),
		Unidade: "UN",
		Ativo:   true,
	}
	if v, ok := row["descricao"].(string); ok {
		sku.Descricao = &v
	}
	if v, ok := row["unidade"].(string); ok {
		sku.Unidade = v
	}
	if v, ok := row["precoVenda"].(float64); ok {
		sku.PrecoVenda = &v
	}
	if v, ok := row["custoMedio"].(float64); ok {
		sku.CustoMedio = &v
	}
	if v, ok := row["estoqueMinimo"].(float64); ok {
		sku.EstoqueMinimo = &v
	}
	if v, ok := row["estoqueMaximo"].(float64); ok {
		sku.EstoqueMaximo = &v
	}
	if v, ok := row["ativo"].(bool); ok {
		sku.Ativo = v
	}
	_, err := t.Repo.Create(ctx, sku)
	return err
}
