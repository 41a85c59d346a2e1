package skus

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

const skuColumns = `id, codigo, nome, descricao, cor_id, familia_id, tamanho_id, unidade_negocio_id,
	unidade, preco_venda, custo_medio, estoque_minimo, estoque_maximo, ativo, criado_em, atualizado_em`

type repo struct {
	db *pgxpool.Pool
}

// NewRepository creates the PostgreSQL-backed SKU repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repo{db: db}
}

func scanSKU(row pgx.Row) (SKU, error) {
	var s SKU
	err := row.Scan(&s.ID, &s.Codigo, &s.Nome, &s.Descricao, &s.CorID, &s.FamiliaID, &s.TamanhoID,
		&s.UnidadeNegocioID, &s.Unidade, &s.PrecoVenda, &s.CustoMedio, &s.EstoqueMinimo, &s.EstoqueMaximo,
		&s.Ativo, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *repo) List(ctx context.Context, f ListFilters) ([]SKU, int, error) {
	var clauses []string
	var args []any
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		clauses = append(clauses, fmt.Sprintf("(codigo ILIKE $%d OR nome ILIKE $%d)", len(args), len(args)))
	}
	if f.Ativo != nil {
		args = append(args, *f.Ativo)
		clauses = append(clauses, fmt.Sprintf("ativo = $%d", len(args)))
	}
	if f.FamiliaID != nil {
		args = append(args, *f.FamiliaID)
		clauses = append(clauses, fmt.Sprintf("familia_id = $%d", len(args)))
	}
	if f.UnidadeNegocioID != nil {
		args = append(args, *f.UnidadeNegocioID)
		clauses = append(clauses, fmt.Sprintf("unidade_negocio_id = $%d", len(args)))
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM skus"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM skus%s ORDER BY codigo LIMIT $%d OFFSET $%d", skuColumns, where, len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, f.Limit, (f.Page-1)*f.Limit)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []SKU
	for rows.Next() {
		s, err := scanSKU(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

func (r *repo) Get(ctx context.Context, id int64) (SKU, error) {
	s, err := scanSKU(r.db.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM skus WHERE id = $1", skuColumns), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return SKU{}, httpx.ErrNotFound
	}
	return s, err
}

func (r *repo) FindByCodigo(ctx context.Context, codigo string) (*SKU, error) {
	s, err := scanSKU(r.db.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM skus WHERE chave_natural(codigo) = chave_natural($1)", skuColumns), codigo))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repo) Create(ctx context.Context, s SKU) (SKU, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `INSERT INTO skus
		(codigo, nome, descricao, cor_id, familia_id, tamanho_id, unidade_negocio_id,
		 unidade, preco_venda, custo_medio, estoque_minimo, estoque_maximo, ativo, criado_em, atualizado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14) RETURNING id`,
		s.Codigo, s.Nome, s.Descricao, s.CorID, s.FamiliaID, s.TamanhoID, s.UnidadeNegocioID,
		s.Unidade, s.PrecoVenda, s.CustoMedio, s.EstoqueMinimo, s.EstoqueMaximo, s.Ativo, now).Scan(&s.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return SKU{}, httpx.ErrDuplicate
		}
		return SKU{}, err
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	return s, nil
}

func (r *repo) Update(ctx context.Context, id int64, s SKU) error {
	tag, err := r.db.Exec(ctx, `UPDATE skus SET codigo = $1, nome = $2, descricao = $3, cor_id = $4,
		familia_id = $5, tamanho_id = $6, unidade_negocio_id = $7, unidade = $8, preco_venda = $9,
		custo_medio = $10, estoque_minimo = $11, estoque_maximo = $12, ativo = $13, atualizado_em = $14
		WHERE id = $15`,
		s.Codigo, s.Nome, s.Descricao, s.CorID, s.FamiliaID, s.TamanhoID, s.UnidadeNegocioID,
		s.Unidade, s.PrecoVenda, s.CustoMedio, s.EstoqueMinimo, s.EstoqueMaximo, s.Ativo, time.Now(), id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return httpx.ErrDuplicate
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE skus SET ativo = false, atualizado_em = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repo) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := r.db.QueryRow(ctx, `SELECT COUNT(*),
		COUNT(*) FILTER (WHERE ativo),
		COUNT(*) FILTER (WHERE preco_venda IS NULL),
		COUNT(*) FILTER (WHERE familia_id IS NULL)
		FROM skus`).Scan(&st.Total, &st.Ativos, &st.SemPreco, &st.SemFamily)
	return st, err
}
