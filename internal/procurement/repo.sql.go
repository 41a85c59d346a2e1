package procurement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trama-erp/trama-erp/internal/platform/httpx"
)

// Repository persists procurement data in PostgreSQL.
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

// WithTx executes the callback inside a read-committed transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, &txRepo{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repository) NextPONumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT nextval('seq_ordens_compra')`).Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("OC-%06d", n), nil
}

func (r *Repository) NextRequisicaoNumber(ctx context.Context) (string, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT nextval('seq_requisicoes')`).Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("RC-%06d", n), nil
}

const poColumns = `id, numero, fornecedor_id, status, previsao_entrega, observacao, aprovado_por, aprovado_em, criado_em`

func scanPO(row pgx.Row) (PurchaseOrder, error) {
	var po PurchaseOrder
	err := row.Scan(&po.ID, &po.Numero, &po.FornecedorID, &po.Status, &po.PrevisaoEntrega,
		&po.Observacao, &po.AprovadoPor, &po.AprovadoEm, &po.CriadoEm)
	return po, err
}

func (r *Repository) ListPOs(ctx context.Context, f ListFilters) ([]PurchaseOrder, int, error) {
	var clauses []string
	var args []any
	if f.Status != nil {
		args = append(args, *f.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.FornecedorID != nil {
		args = append(args, *f.FornecedorID)
		clauses = append(clauses, fmt.Sprintf("fornecedor_id = $%d", len(args)))
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM ordens_compra"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM ordens_compra%s ORDER BY criado_em DESC LIMIT $%d OFFSET $%d",
		poColumns, where, len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, query, append(args, f.Limit, (f.Page-1)*f.Limit)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []PurchaseOrder
	for rows.Next() {
		po, err := scanPO(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, po)
	}
	return out, total, rows.Err()
}

func (r *Repository) GetPO(ctx context.Context, id int64) (PurchaseOrder, error) {
	po, err := scanPO(r.pool.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM ordens_compra WHERE id = $1", poColumns), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return PurchaseOrder{}, httpx.ErrNotFound
	}
	if err != nil {
		return PurchaseOrder{}, err
	}

	rows, err := r.pool.Query(ctx, `SELECT id, ordem_compra_id, sku_id, quantidade, preco_unitario, quantidade_recebida
		FROM ordens_compra_linhas WHERE ordem_compra_id = $1 ORDER BY id`, id)
	if err != nil {
		return PurchaseOrder{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var l POLine
		if err := rows.Scan(&l.ID, &l.POID, &l.SKUID, &l.Quantidade, &l.PrecoUnit, &l.Recebida); err != nil {
			return PurchaseOrder{}, err
		}
		po.Linhas = append(po.Linhas, l)
	}
	return po, rows.Err()
}

func (r *Repository) GetRequisicao(ctx context.Context, id int64) (Requisicao, error) {
	var req Requisicao
	err := r.pool.QueryRow(ctx, `SELECT id, numero, solicitante_id, status, observacao, criado_em
		FROM requisicoes WHERE id = $1`, id).
		Scan(&req.ID, &req.Numero, &req.SolicitanteID, &req.Status, &req.Observacao, &req.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Requisicao{}, httpx.ErrNotFound
	}
	if err != nil {
		return Requisicao{}, err
	}

	rows, err := r.pool.Query(ctx, `SELECT id, requisicao_id, sku_id, quantidade, observacao
		FROM requisicoes_linhas WHERE requisicao_id = $1 ORDER BY id`, id)
	if err != nil {
		return Requisicao{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var l RequisicaoLinha
		if err := rows.Scan(&l.ID, &l.RequisicaoID, &l.SKUID, &l.Quantidade, &l.Observacao); err != nil {
			return Requisicao{}, err
		}
		req.Linhas = append(req.Linhas, l)
	}
	return req, rows.Err()
}

func (r *Repository) ListRequisicoes(ctx context.Context, status *RequisicaoStatus, page, limit int) ([]Requisicao, int, error) {
	where := ""
	var args []any
	if status != nil {
		args = append(args, *status)
		where = " WHERE status = $1"
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM requisicoes"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT id, numero, solicitante_id, status, observacao, criado_em
		FROM requisicoes%s ORDER BY criado_em DESC LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, query, append(args, limit, (page-1)*limit)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Requisicao
	for rows.Next() {
		var req Requisicao
		if err := rows.Scan(&req.ID, &req.Numero, &req.SolicitanteID, &req.Status, &req.Observacao, &req.CriadoEm); err != nil {
			return nil, 0, err
		}
		out = append(out, req)
	}
	return out, total, rows.Err()
}

func (t *txRepo) CreateRequisicao(ctx context.Context, req Requisicao) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `INSERT INTO requisicoes (numero, solicitante_id, status, observacao, criado_em)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		req.Numero, req.SolicitanteID, req.Status, req.Observacao, time.Now()).Scan(&id)
	return id, err
}

func (t *txRepo) InsertRequisicaoLinha(ctx context.Context, l RequisicaoLinha) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO requisicoes_linhas (requisicao_id, sku_id, quantidade, observacao)
		VALUES ($1, $2, $3, $4)`, l.RequisicaoID, l.SKUID, l.Quantidade, l.Observacao)
	return err
}

func (t *txRepo) UpdateRequisicaoStatus(ctx context.Context, id int64, status RequisicaoStatus) error {
	tag, err := t.tx.Exec(ctx, `UPDATE requisicoes SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (t *txRepo) CreatePO(ctx context.Context, po PurchaseOrder) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `INSERT INTO ordens_compra (numero, fornecedor_id, status, previsao_entrega, observacao, criado_em)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		po.Numero, po.FornecedorID, po.Status, po.PrevisaoEntrega, po.Observacao, time.Now()).Scan(&id)
	return id, err
}

func (t *txRepo) InsertPOLine(ctx context.Context, l POLine) error {
	_, err := t.tx.Exec(ctx, `INSERT INTO ordens_compra_linhas (ordem_compra_id, sku_id, quantidade, preco_unitario, quantidade_recebida)
		VALUES ($1, $2, $3, $4, 0)`, l.POID, l.SKUID, l.Quantidade, l.PrecoUnit)
	return err
}

func (t *txRepo) UpdatePOStatus(ctx context.Context, id int64, status POStatus) error {
	tag, err := t.tx.Exec(ctx, `UPDATE ordens_compra SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (t *txRepo) SetPOApproval(ctx context.Context, id int64, actorID int64) error {
	_, err := t.tx.Exec(ctx, `UPDATE ordens_compra SET aprovado_por = $1, aprovado_em = $2 WHERE id = $3`,
		actorID, time.Now(), id)
	return err
}

func (t *txRepo) AddReceivedQty(ctx context.Context, lineID int64, qty float64) error {
	tag, err := t.tx.Exec(ctx, `UPDATE ordens_compra_linhas
		SET quantidade_recebida = quantidade_recebida + $1
		WHERE id = $2 AND quantidade_recebida + $1 <= quantidade`, qty, lineID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: quantidade recebida excede a pedida", ErrValidation)
	}
	return nil
}
