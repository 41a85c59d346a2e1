package masterdata

import (
	"context"

	"github.com/trama-erp/trama-erp/internal/bulkimport"
)

// Import targets adapt the cadastro repository to the bulk import
// engine. Inserts bypass the service layer: the engine owns duplicate
// reporting and a CSV load is not audited row by row.

func str(row map[string]any, name string) string {
	s, _ := row[name].(string)
	return s
}

func strPtr(row map[string]any, name string) *string {
	if s, ok := row[name].(string); ok {
		return &s
	}
	return nil
}

func intPtr(row map[string]any, name string) *int {
	if n, ok := row[name].(int); ok {
		return &n
	}
	return nil
}

// activeFlag reads the ativo column; an unmapped or empty cell means
// the record comes in active.
func activeFlag(row map[string]any) bool {
	if b, ok := row["ativo"].(bool); ok {
		return b
	}
	return true
}

// ColorImportTarget imports cores keyed by nome.
type ColorImportTarget struct {
	Repo Repository
}

func (t ColorImportTarget) Name() string       { return "cores" }
func (t ColorImportTarget) Label() string      { return "Cor" }
func (t ColorImportTarget) NaturalKey() string { return "nome" }

func (t ColorImportTarget) Fields() []bulkimport.Field {
	return []bulkimport.Field{
		{Name: "nome", Kind: bulkimport.KindString, Required: true},
		{Name: "legado", Kind: bulkimport.KindString},
		{Name: "ativo", Kind: bulkimport.KindBool},
	}
}

func (t ColorImportTarget) Exists(ctx context.Context, key string) (bool, error) {
	c, err := t.Repo.FindColorByNome(ctx, key)
	return c != nil, err
}

func (t ColorImportTarget) Insert(ctx context.Context, row map[string]any) error {
	_, err := t.Repo.CreateColor(ctx, Color{
		Nome:   str(row, "nome"),
		Legado: strPtr(row, "legado"),
		Ativo:  activeFlag(row),
	})
	return err
}

// FamilyImportTarget imports familias keyed by codigo.
type FamilyImportTarget struct {
	Repo Repository
}

func (t FamilyImportTarget) Name() string       { return "familias" }
func (t FamilyImportTarget) Label() string      { return "Família" }
func (t FamilyImportTarget) NaturalKey() string { return "codigo" }

func (t FamilyImportTarget) Fields() []bulkimport.Field {
	return []bulkimport.Field{
		{Name: "codigo", Kind: bulkimport.KindString, Required: true},
		{Name: "nome", Kind: bulkimport.KindString, Required: true},
		{Name: "legado", Kind: bulkimport.KindString},
		{Name: "ativo", Kind: bulkimport.KindBool},
	}
}

func (t FamilyImportTarget) Exists(ctx context.Context, key string) (bool, error) {
	fa, err := t.Repo.FindFamilyByCodigo(ctx, key)
	return fa != nil, err
}

func (t FamilyImportTarget) Insert(ctx context.Context, row map[string]any) error {
	_, err := t.Repo.CreateFamily(ctx, Family{
		Codigo: str(row, "codigo"),
		Nome:   str(row, "nome"),
		Legado: strPtr(row, "legado"),
		Ativo:  activeFlag(row),
	})
	return err
}

// SizeImportTarget imports tamanhos keyed by nome.
type SizeImportTarget struct {
	Repo Repository
}

func (t SizeImportTarget) Name() string       { return "tamanhos" }
func (t SizeImportTarget) Label() string      { return "Tamanho" }
func (t SizeImportTarget) NaturalKey() string { return "nome" }

func (t SizeImportTarget) Fields() []bulkimport.Field {
	return []bulkimport.Field{
		{Name: "nome", Kind: bulkimport.KindString, Required: true},
		{Name: "ordem", Kind: bulkimport.KindInt},
		{Name: "ativo", Kind: bulkimport.KindBool},
	}
}

func (t SizeImportTarget) Exists(ctx context.Context, key string) (bool, error) {
	s, err := t.Repo.FindSizeByNome(ctx, key)
	return s != nil, err
}

func (t SizeImportTarget) Insert(ctx context.Context, row map[string]any) error {
	ordem := 0
	if n, ok := row["ordem"].(int); ok {
		ordem = n
	}
	_, err := t.Repo.CreateSize(ctx, Size{
		Nome:  str(row, "nome"),
		Ordem: ordem,
		Ativo: activeFlag(row),
	})
	return err
}

// WarehouseImportTarget imports depositos keyed by codigo.
type WarehouseImportTarget struct {
	Repo Repository
}

func (t WarehouseImportTarget) Name() string       { return "depositos" }
func (t WarehouseImportTarget) Label() string      { return "Depósito" }
func (t WarehouseImportTarget) NaturalKey() string { return "codigo" }

func (t WarehouseImportTarget) Fields() []bulkimport.Field {
	return []bulkimport.Field{
		{Name: "codigo", Kind: bulkimport.KindString, Required: true},
		{Name: "nome", Kind: bulkimport.KindString, Required: true},
		{Name: "localizacao", Kind: bulkimport.KindString},
		{Name: "ativo", Kind: bulkimport.KindBool},
	}
}

func (t WarehouseImportTarget) Exists(ctx context.Context, key string) (bool, error) {
	w, err := t.Repo.FindWarehouseByCodigo(ctx, key)
	return w != nil, err
}

func (t WarehouseImportTarget) Insert(ctx context.Context, row map[string]any) error {
	_, err := t.Repo.CreateWarehouse(ctx, Warehouse{
		Codigo:      str(row, "codigo"),
		Nome:        str(row, "nome"),
		Localizacao: strPtr(row, "localizacao"),
		Ativo:       activeFlag(row),
	})
	return err
}

// SupplierImportTarget imports fornecedores keyed by nome.
type SupplierImportTarget struct {
	Repo Repository
}

func (t SupplierImportTarget) Name() string       { return "fornecedores" }
func (t SupplierImportTarget) Label() string      { return "Fornecedor" }
func (t SupplierImportTarget) NaturalKey() string { return "nome" }

func (t SupplierImportTarget) Fields() []bulkimport.Field {
	return []bulkimport.Field{
		{Name: "nome", Kind: bulkimport.KindString, Required: true},
		{Name: "cnpj", Kind: bulkimport.KindString},
		{Name: "contato", Kind: bulkimport.KindString},
		{Name: "prazoEntregaPadrao", Kind: bulkimport.KindInt},
		{Name: "ativo", Kind: bulkimport.KindBool},
	}
}

func (t SupplierImportTarget) Exists(ctx context.Context, key string) (bool, error) {
	s, err := t.Repo.FindSupplierByNome(ctx, key)
	return s != nil, err
}

func (t SupplierImportTarget) Insert(ctx context.Context, row map[string]any) error {
	_, err := t.Repo.CreateSupplier(ctx, Supplier{
		Nome:               str(row, "nome"),
		CNPJ:               strPtr(row, "cnpj"),
		Contato:            strPtr(row, "contato"),
		PrazoEntregaPadrao: intPtr(row, "prazoEntregaPadrao"),
		Ativo:              activeFlag(row),
	})
	return err
}

// ClientImportTarget imports clientes keyed by nome.
type ClientImportTarget struct {
	Repo Repository
}

func (t ClientImportTarget) Name() string       { return "clientes" }
func (t ClientImportTarget) Label() string      { return "Cliente" }
func (t ClientImportTarget) NaturalKey() string { return "nome" }

func (t ClientImportTarget) Fields() []bulkimport.Field {
	return []bulkimport.Field{
		{Name: "nome", Kind: bulkimport.KindString, Required: true},
		{Name: "cnpj", Kind: bulkimport.KindString},
		{Name: "cidade", Kind: bulkimport.KindString},
		{Name: "estado", Kind: bulkimport.KindString},
		{Name: "ativo", Kind: bulkimport.KindBool},
	}
}

func (t ClientImportTarget) Exists(ctx context.Context, key string) (bool, error) {
	c, err := t.Repo.FindClientByNome(ctx, key)
	return c != nil, err
}

func (t ClientImportTarget) Insert(ctx context.Context, row map[string]any) error {
	_, err := t.Repo.CreateClient(ctx, Client{
		Nome:   str(row, "nome"),
		CNPJ:   strPtr(row, "cnpj"),
		Cidade: strPtr(row, "cidade"),
		Estado: strPtr(row, "estado"),
		Ativo:  activeFlag(row),
	})
	return err
}
