package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads aggregate numbers straight from the tables each
// module owns. Dashboards are read-only so no write path exists here.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var cadastroTables = map[string]string{
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

func (r *Repository) CountEntity(ctx context.Context, table string) (EntityCount, error) {
	var c EntityCount
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*), COUNT(*) FILTER (WHERE ativo) FROM `+table).
		Scan(&c.Total, &c.Ativos)
	return c, err
}

func (r *Repository) CountSKUs(ctx context.Context) (EntityCount, error) {
	return r.CountEntity(ctx, "skus")
}

func (r *Repository) CountUsers(ctx context.Context) (EntityCount, error) {
	return r.CountEntity(ctx, "usuarios")
}

func (r *Repository) StockValue(ctx context.Context) (float64, error) {
	var v float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(quantidade * custo_medio), 0) FROM saldos_estoque`).Scan(&v)
	return v, err
}

// PurchaseSummary groups ordens de compra e requisições by status and
// sums the orders issued in the current month.
func (r *Repository) PurchaseSummary(ctx context.Context) (ComprasResumo, error) {
	resumo := ComprasResumo{PorStatus: map[string]int{}, Requisicoes: map[string]int{}}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM ordens_compra GROUP BY status`)
	if err != nil {
		return resumo, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return resumo, err
		}
		resumo.PorStatus[status] = n
	}
	if err := rows.Err(); err != nil {
		return resumo, err
	}

	reqRows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM requisicoes GROUP BY status`)
	if err != nil {
		return resumo, err
	}
	defer reqRows.Close()
	for reqRows.Next() {
		var status string
		var n int
		if err := reqRows.Scan(&status, &n); err != nil {
			return resumo, err
		}
		resumo.Requisicoes[status] = n
	}
	if err := reqRows.Err(); err != nil {
		return resumo, err
	}

	err = r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(l.quantidade * l.preco_unitario), 0)
		FROM ordens_compra o
		JOIN ordens_compra_linhas l ON l.ordem_compra_id = o.id
		WHERE o.criado_em >= date_trunc('month', NOW())
		  AND o.status <> 'CANCELLED'`).Scan(&resumo.ValorMesAtual)
	return resumo, err
}

func (r *Repository) PlanningByFamily(ctx context.Context) ([]PlanningRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT f.id, f.nome,
		COUNT(DISTINCT s.id),
		COALESCE(SUM(b.quantidade), 0),
		COALESCE(SUM(b.quantidade * b.custo_medio), 0),
		COUNT(*) FILTER (WHERE s.estoque_minimo IS NOT NULL AND b.quantidade < s.estoque_minimo)
		FROM familias f
		JOIN skus s ON s.familia_id = f.id
		LEFT JOIN saldos_estoque b ON b.sku_id = s.id
		WHERE f.ativo
		GROUP BY f.id, f.nome
		ORDER BY f.nome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlanningRow
	for rows.Next() {
		var p PlanningRow
		if err := rows.Scan(&p.FamiliaID, &p.FamiliaNome, &p.TotalSKUs, &p.QtdEstoque, &p.ValorEstoque, &p.AbaixoMinimo); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
