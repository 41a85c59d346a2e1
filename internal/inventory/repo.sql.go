package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists inventory data in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, &txRepo{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (t *txRepo) GetBalanceForUpdate(ctx context.Context, skuID, depositoID int64) (Balance, error) {
	var b Balance
	err := t.tx.QueryRow(ctx, `SELECT sku_id, deposito_id, quantidade, custo_medio, atualizado_em
		FROM saldos_estoque WHERE sku_id = $1 AND deposito_id = $2 FOR UPDATE`, skuID, depositoID).
		Scan(&b.SKUID, &b.DepositoID, &b.Quantidade, &b.CustoMedio, &b.AtualizadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Balance{}, ErrBalanceNotFound
	}
	return b, err
}

func (t *txRepo) UpsertBalance(ctx context.Context, b Balance) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO saldos_estoque (sku_id, deposito_id, quantidade, custo_medio, atualizado_em)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (sku_id, deposito_id)
		DO UPDATE SET quantidade = $3, custo_medio = $4, atualizado_em = $5`,
		b.SKUID, b.DepositoID, b.Quantidade, b.CustoMedio, time.Now())
	return err
}

func (t *txRepo) InsertMovement(ctx context.Context, m Movement) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `INSERT INTO movimentos_estoque
		(tipo, sku_id, deposito_id, quantidade, custo_unitario, observacao, usuario_id, registrado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		m.Tipo, m.SKUID, m.DepositoID, m.Quantidade, m.CustoUnit, m.Observacao, m.UsuarioID, m.RegistradoEm).Scan(&id)
	return id, err
}

func (r *Repository) ListBalances(ctx context.Context, f ListFilters) ([]BalanceRow, int, error) {
	var clauses []string
	var args []any
	if f.SKUID != nil {
		args = append(args, *f.SKUID)
		clauses = append(clauses, fmt.Sprintf("b.sku_id = $%d", len(args)))
	}
	if f.DepositoID != nil {
		args = append(args, *f.DepositoID)
		clauses = append(clauses, fmt.Sprintf("b.deposito_id = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		clauses = append(clauses, fmt.Sprintf("(s.codigo ILIKE $%d OR s.nome ILIKE $%d)", len(args), len(args)))
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	base := ` FROM saldos_estoque b
		JOIN skus s ON s.id = b.sku_id
		JOIN depositos d ON d.id = b.deposito_id` + where

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*)"+base, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT b.sku_id, b.deposito_id, b.quantidade, b.custo_medio, b.atualizado_em,
		s.codigo, s.nome, d.nome %s ORDER BY s.codigo, d.nome LIMIT $%d OFFSET $%d`, base, len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, query, append(args, f.Limit, (f.Page-1)*f.Limit)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []BalanceRow
	for rows.Next() {
		var b BalanceRow
		if err := rows.Scan(&b.SKUID, &b.DepositoID, &b.Quantidade, &b.CustoMedio, &b.AtualizadoEm,
			&b.SKUCodigo, &b.SKUNome, &b.DepositoNome); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *Repository) ListMovements(ctx context.Context, skuID, depositoID int64, limit int) ([]Movement, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.pool.Query(ctx, `SELECT id, tipo, sku_id, deposito_id, quantidade, custo_unitario, observacao, usuario_id, registrado_em
		FROM movimentos_estoque WHERE sku_id = $1 AND deposito_id = $2
		ORDER BY registrado_em DESC LIMIT $3`, skuID, depositoID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.Tipo, &m.SKUID, &m.DepositoID, &m.Quantidade, &m.CustoUnit,
			&m.Observacao, &m.UsuarioID, &m.RegistradoEm); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repository) Dashboard(ctx context.Context) (DashboardData, error) {
	var d DashboardData
	err := r.pool.QueryRow(ctx, `SELECT
		COUNT(DISTINCT b.sku_id),
		COALESCE(SUM(b.quantidade * b.custo_medio), 0),
		COUNT(*) FILTER (WHERE s.estoque_minimo IS NOT NULL AND b.quantidade < s.estoque_minimo),
		COUNT(*) FILTER (WHERE b.atualizado_em < now() - interval '90 days')
		FROM saldos_estoque b JOIN skus s ON s.id = b.sku_id`).
		Scan(&d.TotalSKUs, &d.ValorTotal, &d.AbaixoDoMinimo, &d.SemMovimentacao)
	return d, err
}
