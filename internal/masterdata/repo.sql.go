package masterdata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trama-erp/trama-erp/internal/platform/httpx"
)

type repo struct {
	db *pgxpool.Pool
}

// NewRepository creates the PostgreSQL-backed cadastro repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repo{db: db}
}

// listWhere builds the shared WHERE clause for list queries: search over
// the given columns plus the ativo filter. Returned args start at $1.
func listWhere(f ListFilters, searchCols ...string) (string, []any) {
	var clauses []string
	var args []any
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		parts := make([]string, len(searchCols))
		for i, col := range searchCols {
			parts[i] = fmt.Sprintf("%s ILIKE $%d", col, n)
		}
		clauses = append(clauses, "("+strings.Join(parts, " OR ")+")")
	}
	if f.Ativo != nil {
		args = append(args, *f.Ativo)
		clauses = append(clauses, fmt.Sprintf("ativo = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapWriteErr(err error) error {
	if isUniqueViolation(err) {
		return httpx.ErrDuplicate
	}
	return err
}

func mapGetErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return httpx.ErrNotFound
	}
	return err
}

// Color operations

func (r *repo) ListColors(ctx context.Context, f ListFilters) ([]Color, int, error) {
	where, args := listWhere(f, "nome", "legado")
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM cores"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT id, nome, legado, ativo, criado_em, atualizado_em FROM cores%s ORDER BY nome LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, f.Limit, f.offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var colors []Color
	for rows.Next() {
		var c Color
		if err := rows.Scan(&c.ID, &c.Nome, &c.Legado, &c.Ativo, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		colors = append(colors, c)
	}
	return colors, total, rows.Err()
}

func (r *repo) GetColor(ctx context.Context, id int64) (Color, error) {
	var c Color
	err := r.db.QueryRow(ctx, `SELECT id, nome, legado, ativo, criado_em, atualizado_em FROM cores WHERE id = $1`, id).
		Scan(&c.ID, &c.Nome, &c.Legado, &c.Ativo, &c.CreatedAt, &c.UpdatedAt)
	return c, mapGetErr(err)
}

func (r *repo) FindColorByNome(ctx context.Context, nome string) (*Color, error) {
	var c Color
	err := r.db.QueryRow(ctx, `SELECT id, nome, legado, ativo, criado_em, atualizado_em FROM cores WHERE chave_natural(nome) = chave_natural($1)`, nome).
		Scan(&c.ID, &c.Nome, &c.Legado, &c.Ativo, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) CreateColor(ctx context.Context, c Color) (Color, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `INSERT INTO cores (nome, legado, ativo, criado_em, atualizado_em)
	          VALUES ($1, $2, $3, $4, $4) RETURNING id`, c.Nome, c.Legado, c.Ativo, now).Scan(&c.ID)
	if err != nil {
		return Color{}, mapWriteErr(err)
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	return c, nil
}

func (r *repo) UpdateColor(ctx context.Context, id int64, c Color) error {
	tag, err := r.db.Exec(ctx, `UPDATE cores SET nome = $1, legado = $2, ativo = $3, atualizado_em = $4 WHERE id = $5`,
		c.Nome, c.Legado, c.Ativo, time.Now(), id)
	if err != nil {
		return mapWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repo) DeleteColor(ctx context.Context, id int64) error {
	return r.softDelete(ctx, "cores", id)
}

// Family operations

func (r *repo) ListFamilies(ctx context.Context, f ListFilters) ([]Family, int, error) {
	where, args := listWhere(f, "codigo", "nome")
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM familias"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT id, codigo, nome, legado, ativo, criado_em, atualizado_em FROM familias%s ORDER BY codigo LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, f.Limit, f.offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var families []Family
	for rows.Next() {
		var fa Family
		if err := rows.Scan(&fa.ID, &fa.Codigo, &fa.Nome, &fa.Legado, &fa.Ativo, &fa.CreatedAt, &fa.UpdatedAt); err != nil {
			return nil, 0, err
		}
		families = append(families, fa)
	}
	return families, total, rows.Err()
}

func (r *repo) GetFamily(ctx context.Context, id int64) (Family, error) {
	var fa Family
	err := r.db.QueryRow(ctx, `SELECT id, codigo, nome, legado, ativo, criado_em, atualizado_em FROM familias WHERE id = $1`, id).
		Scan(&fa.ID, &fa.Codigo, &fa.Nome, &fa.Legado, &fa.Ativo, &fa.CreatedAt, &fa.UpdatedAt)
	return fa, mapGetErr(err)
}

func (r *repo) FindFamilyByCodigo(ctx context.Context, codigo string) (*Family, error) {
	var fa Family
	err := r.db.QueryRow(ctx, `SELECT id, codigo, nome, legado, ativo, criado_em, atualizado_em FROM familias WHERE chave_natural(codigo) = chave_natural($1)`, codigo).
		Scan(&fa.ID, &fa.Codigo, &fa.Nome, &fa.Legado, &fa.Ativo, &fa.CreatedAt, &fa.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fa, nil
}

func (r *repo) CreateFamily(ctx context.Context, fa Family) (Family, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `INSERT INTO familias (codigo, nome, legado, ativo, criado_em, atualizado_em)
	          VALUES ($1, $2, $3, $4, $5, $5) RETURNING id`, fa.Codigo, fa.Nome, fa.Legado, fa.Ativo, now).Scan(&fa.ID)
	if err != nil {
		return Family{}, mapWriteErr(err)
	}
	fa.CreatedAt = now
	fa.UpdatedAt = now
	return fa, nil
}

func (r *repo) UpdateFamily(ctx context.Context, id int64, fa Family) error {
	tag, err := r.db.Exec(ctx, `UPDATE familias SET codigo = $1, nome = $2, legado = $3, ativo = $4, atualizado_em = $5 WHERE id = $6`,
		fa.Codigo, fa.Nome, fa.Legado, fa.Ativo, time.Now(), id)
	if err != nil {
		return mapWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repo) DeleteFamily(ctx context.Context, id int64) error {
	return r.softDelete(ctx, "familias", id)
}

// Size operations

func (r *repo) ListSizes(ctx context.Context, f ListFilters) ([]Size, int, error) {
	where, args := listWhere(f, "nome")
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM tamanhos"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT id, nome, ordem, ativo, criado_em, atualizado_em FROM tamanhos%s ORDER BY ordem, nome LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, f.Limit, f.offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sizes []Size
	for rows.Next() {
		var s Size
		if err := rows.Scan(&s.ID, &s.Nome, &s.Ordem, &s.Ativo, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		sizes = append(sizes, s)
	}
	return sizes, total, rows.Err()
}

func (r *repo) GetSize(ctx context.Context, id int64) (Size, error) {
	var s Size
	err := r.db.QueryRow(ctx, `SELECT id, nome, ordem, ativo, criado_em, atualizado_em FROM tamanhos WHERE id = $1`, id).
		Scan(&s.ID, &s.Nome, &s.Ordem, &s.Ativo, &s.CreatedAt, &s.UpdatedAt)
	return s, mapGetErr(err)
}

func (r *repo) FindSizeByNome(ctx context.Context, nome string) (*Size, error) {
	var s Size
	err := r.db.QueryRow(ctx, `SELECT id, nome, ordem, ativo, criado_em, atualizado_em FROM tamanhos WHERE chave_natural(nome) = chave_natural($1)`, nome).
		Scan(&s.ID, &s.Nome, &s.Ordem, &s.Ativo, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repo) CreateSize(ctx context.Context, s Size) (Size, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `INSERT INTO tamanhos (nome, ordem, ativo, criado_em, atualizado_em)
	          VALUES ($1, $2, $3, $4, $4) RETURNING id`, s.Nome, s.Ordem, s.Ativo, now).Scan(&s.ID)
	if err != nil {
		return Size{}, mapWriteErr(err)
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	return s, nil
}

func (r *repo) UpdateSize(ctx context.Context, id int64, s Size) error {
	tag, err := r.db.Exec(ctx, `UPDATE tamanhos SET nome = $1, ordem = $2, ativo = $3, atualizado_em = $4 WHERE id = $5`,
		s.Nome, s.Ordem, s.Ativo, time.Now(), id)
	if err != nil {
		return mapWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// DeleteSize removes the row. Sizes have no dependent history worth
// keeping, so removal is physical rather than a soft delete.
func (r *repo) DeleteSize(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tamanhos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Warehouse operations

func (r *repo) ListWarehouses(ctx context.Context, f ListFilters) ([]Warehouse, int, error) {
	where, args := listWhere(f, "codigo", "nome")
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM depositos"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT id, codigo, nome, localizacao, ativo, criado_em, atualizado_em FROM depositos%s ORDER BY codigo LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, f.Limit, f.offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var warehouses []Warehouse
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(&w.ID, &w.Codigo, &w.Nome, &w.Localizacao, &w.Ativo, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, 0, err
		}
		warehouses = append(warehouses, w)
	}
	return warehouses, total, rows.Err()
}

func (r *repo) GetWarehouse(ctx context.Context, id int64) (Warehouse, error) {
	var w Warehouse
	err := r.db.QueryRow(ctx, `SELECT id, codigo, nome, localizacao, ativo, criado_em, atualizado_em FROM depositos WHERE id = $1`, id).
		Scan(&w.ID, &w.Codigo, &w.Nome, &w.Localizacao, &w.Ativo, &w.CreatedAt, &w.UpdatedAt)
	return w, mapGetErr(err)
}

func (r *repo) FindWarehouseByCodigo(ctx context.Context, codigo string) (*Warehouse, error) {
	var w Warehouse
	err := r.db.QueryRow(ctx, `SELECT id, codigo, nome, localizacao, ativo, criado_em, atualizado_em FROM depositos WHERE chave_natural(codigo) = chave_natural($1)`, codigo).
		Scan(&w.ID, &w.Codigo, &w.Nome, &w.Localizacao, &w.Ativo, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *repo) CreateWarehouse(ctx context.Context, w Warehouse) (Warehouse, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `INSERT INTO depositos (codigo, nome, localizacao, ativo, criado_em, atualizado_em)
	          VALUES ($1, $2, $3, $4, $5, $5) RETURNING id`, w.Codigo, w.Nome, w.Localizacao, w.Ativo, now).Scan(&w.ID)
	if err != nil {
		return Warehouse{}, mapWriteErr(err)
	}
	w.CreatedAt = now
	w.UpdatedAt = now
	return w, nil
}

func (r *repo) UpdateWarehouse(ctx context.Context, id int64, w Warehouse) error {
	tag, err := r.db.Exec(ctx, `UPDATE depositos SET codigo = $1, nome = $2, localizacao = $3, ativo = $4, atualizado_em = $5 WHERE id = $6`,
		w.Codigo, w.Nome, w.Localizacao, w.Ativo, time.Now(), id)
	if err != nil {
		return mapWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repo) DeleteWarehouse(ctx context.Context, id int64) error {
	return r.softDelete(ctx, "depositos", id)
}

// BusinessUnit operations

func (r *repo) ListBusinessUnits(ctx context.Context, f ListFilters) ([]BusinessUnit, int, error) {
	where, args := listWhere(f, "codigo", "nome")
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM unidades_negocio"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT id, codigo, nome, ativo, criado_em, atualizado_em FROM unidades_negocio%s ORDER BY codigo LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, f.Limit, f.offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var units []BusinessUnit
	for rows.Next() {
		var u BusinessUnit
		if err := rows.Scan(&u.ID, &u.Codigo, &u.Nome, &u.Ativo, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		units = append(units, u)
	}
	return units, total, rows.Err()
}

func (r *repo) GetBusinessUnit(ctx context.Context, id int64) (BusinessUnit, error) {
	var u BusinessUnit
	err := r.db.QueryRow(ctx, `SELECT id, codigo, nome, ativo, criado_em, atualizado_em FROM unidades_negocio WHERE id = $1`, id).
		Scan(&u.ID, &u.Codigo, &u.Nome, &u.Ativo, &u.CreatedAt, &u.UpdatedAt)
	return u, mapGetErr(err)
}

func (r *repo) FindBusinessUnitByCodigo(ctx context.Context, codigo string) (*BusinessUnit, error) {
	var u BusinessUnit
	err := r.db.QueryRow(ctx, `SELECT id, codigo, nome, ativo, criado_em, atualizado_em FROM unidades_negocio WHERE chave_natural(codigo) = chave_natural($1)`, codigo).
		Scan(&u.ID, &u.Codigo, &u.Nome, &u.Ativo, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repo) CreateBusinessUnit(ctx context.Context, u BusinessUnit) (BusinessUnit, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `INSERT INTO unidades_negocio (codigo, nome, ativo, criado_em, atualizado_em)
	          VALUES ($1, $2, $3, $4, $4) RETURNING id`, u.Codigo, u.Nome, u.Ativo, now).Scan(&u.ID)
	if err != nil {
		return BusinessUnit{}, mapWriteErr(err)
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	return u, nil
}

func (r *repo) UpdateBusinessUnit(ctx context.Context, id int64, u BusinessUnit) error {
	tag, err := r.db.Exec(ctx, `UPDATE unidades_negocio SET codigo = $1, nome = $2, ativo = $3, atualizado_em = $4 WHERE id = $5`,
		u.Codigo, u.Nome, u.Ativo, time.Now(), id)
	if err != nil {
		return mapWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repo) DeleteBusinessUnit(ctx context.Context, id int64) error {
	return r.softDelete(ctx, "unidades_negocio", id)
}

// Company operations

func (r *repo) ListCompanies(ctx context.Context, f ListFilters) ([]Company, int, error) {
	where, args := listWhere(f, "nome", "cnpj")
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM empresas"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT id, nome, cnpj, endereco, telefone, email, ativo, criado_em, atualizado_em FROM empresas%s ORDER BY nome LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, f.Limit, f.offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Nome, &c.CNPJ, &c.Endereco, &c.Telefone, &c.Email, &c.Ativo, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		companies = append(companies, c)
	}
	return companies, total, rows.Err()
}

func (r *repo) GetCompany(ctx context.Context, id int64) (Company, error) {
	var c Company
	err := r.db.QueryRow(ctx, `SELECT id, nome, cnpj, endereco, telefone, email, ativo, criado_em, atualizado_em FROM empresas WHERE id = $1`, id).
		Scan(&c.ID, &c.Nome, &c.CNPJ, &c.Endereco, &c.Telefone, &c.Email, &c.Ativo, &c.CreatedAt, &c.UpdatedAt)
	return c, mapGetErr(err)
}

func (r *repo) FindCompanyByNome(ctx context.Context, nome string) (*Company, error) {
	var c Company
	err := r.db.QueryRow(ctx, `SELECT id, nome, cnpj, endereco, telefone, email, ativo, criado_em, atualizado_em FROM empresas WHERE chave_natural(nome) = chave_natural($1)`, nome).
		Scan(&c.ID, &c.Nome, &c.CNPJ, &c.Endereco, &c.Telefone, &c.Email, &c.Ativo, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) CreateCompany(ctx context.Context, c Company) (Company, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `INSERT INTO empresas (nome, cnpj, endereco, telefone, email, ativo, criado_em, atualizado_em)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING id`,
		c.Nome, c.CNPJ, c.Endereco, c.Telefone, c.Email, c.Ativo, now).Scan(&c.ID)
	if err != nil {
		return Company{}, mapWriteErr(err)
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	return c, nil
}

func (r *repo) UpdateCompany(ctx context.Context, id int64, c Company) error {
	tag, err := r.db.Exec(ctx, `UPDATE empresas SET nome = $1, cnpj = $2, endereco = $3, telefone = $4, email = $5, ativo = $6, atualizado_em = $7 WHERE id = $8`,
		c.Nome, c.CNPJ, c.Endereco, c.Telefone, c.Email, c.Ativo, time.Now(), id)
	if err != nil {
		return mapWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repo) DeleteCompany(ctx context.Context, id int64) error {
	return r.softDelete(ctx, "empresas", id)
}

// Supplier operations

func (r *repo) ListSuppliers(ctx context.Context, f ListFilters) ([]Supplier, int, error) {
	where, args := listWhere(f, "nome", "cnpj")
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM fornecedores"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT id, nome, cnpj, contato, prazo_entrega_padrao, ativo, criado_em, atualizado_em FROM fornecedores%s ORDER BY nome LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, f.Limit, f.offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Nome, &s.CNPJ, &s.Contato, &s.PrazoEntregaPadrao, &s.Ativo, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, total, rows.Err()
}

func (r *repo) GetSupplier(ctx context.Context, id int64) (Supplier, error) {
	var s Supplier
	err := r.db.QueryRow(ctx, `SELECT id, nome, cnpj, contato, prazo_entrega_padrao, ativo, criado_em, atualizado_em FROM fornecedores WHERE id = $1`, id).
		Scan(&s.ID, &s.Nome, &s.CNPJ, &s.Contato, &s.PrazoEntregaPadrao, &s.Ativo, &s.CreatedAt, &s.UpdatedAt)
	return s, mapGetErr(err)
}

func (r *repo) FindSupplierByNome(ctx context.Context, nome string) (*Supplier, error) {
	var s Supplier
	err := r.db.QueryRow(ctx, `SELECT id, nome, cnpj, contato, prazo_entrega_padrao, ativo, criado_em, atualizado_em FROM fornecedores WHERE chave_natural(nome) = chave_natural($1)`, nome).
		Scan(&s.ID, &s.Nome, &s.CNPJ, &s.Contato, &s.PrazoEntregaPadrao, &s.Ativo, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repo) CreateSupplier(ctx context.Context, s Supplier) (Supplier, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `INSERT INTO fornecedores (nome, cnpj, contato, prazo_entrega_padrao, ativo, criado_em, atualizado_em)
	          VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id`,
		s.Nome, s.CNPJ, s.Contato, s.PrazoEntregaPadrao, s.Ativo, now).Scan(&s.ID)
	if err != nil {
		return Supplier{}, mapWriteErr(err)
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	return s, nil
}

func (r *repo) UpdateSupplier(ctx context.Context, id int64, s Supplier) error {
	tag, err := r.db.Exec(ctx, `UPDATE fornecedores SET nome = $1, cnpj = $2, contato = $3, prazo_entrega_padrao = $4, ativo = $5, atualizado_em = $6 WHERE id = $7`,
		s.Nome, s.CNPJ, s.Contato, s.PrazoEntregaPadrao, s.Ativo, time.Now(), id)
	if err != nil {
		return mapWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repo) DeleteSupplier(ctx context.Context, id int64) error {
	return r.softDelete(ctx, "fornecedores", id)
}

// Client operations

func (r *repo) ListClients(ctx context.Context, f ListFilters) ([]Client, int, error) {
	where, args := listWhere(f, "nome", "cnpj", "cidade")
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM clientes"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT id, nome, cnpj, cidade, estado, representante_id, ativo, criado_em, atualizado_em FROM clientes%s ORDER BY nome LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, f.Limit, f.offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Nome, &c.CNPJ, &c.Cidade, &c.Estado, &c.RepresentanteID, &c.Ativo, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		clients = append(clients, c)
	}
	return clients, total, rows.Err()
}

func (r *repo) GetClient(ctx context.Context, id int64) (Client, error) {
	var c Client
	err := r.db.QueryRow(ctx, `SELECT id, nome, cnpj, cidade, estado, representante_id, ativo, criado_em, atualizado_em FROM clientes WHERE id = $1`, id).
		Scan(&c.ID, &c.Nome, &c.CNPJ, &c.Cidade, &c.Estado, &c.RepresentanteID, &c.Ativo, &c.CreatedAt, &c.UpdatedAt)
	return c, mapGetErr(err)
}

func (r *repo) FindClientByNome(ctx context.Context, nome string) (*Client, error) {
	var c Client
	err := r.db.QueryRow(ctx, `SELECT id, nome, cnpj, cidade, estado, representante_id, ativo, criado_em, atualizado_em FROM clientes WHERE chave_natural(nome) = chave_natural($1)`, nome).
		Scan(&c.ID, &c.Nome, &c.CNPJ, &c.Cidade, &c.Estado, &c.RepresentanteID, &c.Ativo, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) CreateClient(ctx context.Context, c Client) (Client, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `INSERT INTO clientes (nome, cnpj, cidade, estado, representante_id, ativo, criado_em, atualizado_em)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING id`,
		c.Nome, c.CNPJ, c.Cidade, c.Estado, c.RepresentanteID, c.Ativo, now).Scan(&c.ID)
	if err != nil {
		return Client{}, mapWriteErr(err)
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	return c, nil
}

func (r *repo) UpdateClient(ctx context.Context, id int64, c Client) error {
	tag, err := r.db.Exec(ctx, `UPDATE clientes SET nome = $1, cnpj = $2, cidade = $3, estado = $4, representante_id = $5, ativo = $6, atualizado_em = $7 WHERE id = $8`,
		c.Nome, c.CNPJ, c.Cidade, c.Estado, c.RepresentanteID, c.Ativo, time.Now(), id)
	if err != nil {
		return mapWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repo) DeleteClient(ctx context.Context, id int64) error {
	return r.softDelete(ctx, "clientes", id)
}

// Representative operations

func (r *repo) ListRepresentatives(ctx context.Context, f ListFilters) ([]Representative, int, error) {
	where, args := listWhere(f, "nome", "email", "regiao")
	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM representantes"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT id, nome, email, telefone, regiao, ativo, criado_em, atualizado_em FROM representantes%s ORDER BY nome LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, f.Limit, f.offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reps []Representative
	for rows.Next() {
		var rp Representative
		if err := rows.Scan(&rp.ID, &rp.Nome, &rp.Email, &rp.Telefone, &rp.Regiao, &rp.Ativo, &rp.CreatedAt, &rp.UpdatedAt); err != nil {
			return nil, 0, err
		}
		reps = append(reps, rp)
	}
	return reps, total, rows.Err()
}

func (r *repo) GetRepresentative(ctx context.Context, id int64) (Representative, error) {
	var rp Representative
	err := r.db.QueryRow(ctx, `SELECT id, nome, email, telefone, regiao, ativo, criado_em, atualizado_em FROM representantes WHERE id = $1`, id).
		Scan(&rp.ID, &rp.Nome, &rp.Email, &rp.Telefone, &rp.Regiao, &rp.Ativo, &rp.CreatedAt, &rp.UpdatedAt)
	return rp, mapGetErr(err)
}

func (r *repo) FindRepresentativeByNome(ctx context.Context, nome string) (*Representative, error) {
	var rp Representative
	err := r.db.QueryRow(ctx, `SELECT id, nome, email, telefone, regiao, ativo, criado_em, atualizado_em FROM representantes WHERE chave_natural(nome) = chave_natural($1)`, nome).
		Scan(&rp.ID, &rp.Nome, &rp.Email, &rp.Telefone, &rp.Regiao, &rp.Ativo, &rp.CreatedAt, &rp.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rp, nil
}

func (r *repo) CreateRepresentative(ctx context.Context, rp Representative) (Representative, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `INSERT INTO representantes (nome, email, telefone, regiao, ativo, criado_em, atualizado_em)
	          VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id`,
		rp.Nome, rp.Email, rp.Telefone, rp.Regiao, rp.Ativo, now).Scan(&rp.ID)
	if err != nil {
		return Representative{}, mapWriteErr(err)
	}
	rp.CreatedAt = now
	rp.UpdatedAt = now
	return rp, nil
}

func (r *repo) UpdateRepresentative(ctx context.Context, id int64, rp Representative) error {
	tag, err := r.db.Exec(ctx, `UPDATE representantes SET nome = $1, email = $2, telefone = $3, regiao = $4, ativo = $5, atualizado_em = $6 WHERE id = $7`,
		rp.Nome, rp.Email, rp.Telefone, rp.Regiao, rp.Ativo, time.Now(), id)
	if err != nil {
		return mapWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repo) DeleteRepresentative(ctx context.Context, id int64) error {
	return r.softDelete(ctx, "representantes", id)
}

// statsTables whitelists the entity slugs exposed by the stats endpoint.
var statsTables = map[string]string{
	"cores":            "cores",
	"familias":         "familias",
	"tamanhos":         "tamanhos",
	"depositos":        "depositos",
	"unidades-negocio": "unidades_negocio",
	"empresas":         "empresas",
	"fornecedores":     "fornecedores",
	"clientes":         "clientes",
	"representantes":   "representantes",
}

func (r *repo) Stats(ctx context.Context, entity string) (Stats, error) {
	table, ok := statsTables[entity]
	if !ok {
		return Stats{}, httpx.ErrNotFound
	}
	var st Stats
	err := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*), COUNT(*) FILTER (WHERE ativo) FROM %s`, table)).
		Scan(&st.Total, &st.Ativos)
	return st, err
}

func (r *repo) softDelete(ctx context.Context, table string, id int64) error {
	tag, err := r.db.Exec(ctx, fmt.Sprintf(`UPDATE %s SET ativo = false, atualizado_em = $1 WHERE id = $2`, table), time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
