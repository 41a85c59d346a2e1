package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trama-erp/trama-erp/internal/authz"
	"github.com/trama-erp/trama-erp/internal/platform/httpx"
)

type repo struct {
	db *pgxpool.Pool
}

// NewRepository creates the PostgreSQL-backed accounts repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repo{db: db}
}

const userColumns = `u.id, u.nome, u.email, u.papel_id, p.nome, u.is_admin, u.is_super_admin, u.ativo, u.ultimo_acesso, u.criado_em`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Nome, &u.Email, &u.PapelID, &u.PapelNome, &u.IsAdmin, &u.IsSuperAdmin,
		&u.Ativo, &u.UltimoAcesso, &u.CriadoEm)
	return u, err
}

func (r *repo) ListUsers(ctx context.Context, f ListFilters) ([]User, int, error) {
	var clauses []string
	var args []any
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		clauses = append(clauses, fmt.Sprintf("(u.nome ILIKE $%d OR u.email ILIKE $%d)", len(args), len(args)))
	}
	if f.Ativo != nil {
		args = append(args, *f.Ativo)
		clauses = append(clauses, fmt.Sprintf("u.ativo = $%d", len(args)))
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}
	base := " FROM usuarios u LEFT JOIN papeis p ON p.id = u.papel_id" + where

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*)"+base, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s%s ORDER BY u.nome LIMIT $%d OFFSET $%d", userColumns, base, len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, f.Limit, (f.Page-1)*f.Limit)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *repo) GetUser(ctx context.Context, id int64) (User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM usuarios u LEFT JOIN papeis p ON p.id = u.papel_id WHERE u.id = $1", userColumns), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, httpx.ErrNotFound
	}
	return u, err
}

func (r *repo) UpdateUser(ctx context.Context, id int64, u User) error {
	tag, err := r.db.Exec(ctx, `UPDATE usuarios SET nome = $1, email = $2, papel_id = $3, is_admin = $4, atualizado_em = $5 WHERE id = $6`,
		u.Nome, u.Email, u.PapelID, u.IsAdmin, time.Now(), id)
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

func (r *repo) SetUserActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE usuarios SET ativo = $1, atualizado_em = $2 WHERE id = $3`, active, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repo) UserPermissions(ctx context.Context, userID int64) ([]authz.Permission, error) {
	return r.queryPermissions(ctx,
		`SELECT permissao, recurso, COALESCE(valor, '') FROM usuario_permissoes WHERE usuario_id = $1 ORDER BY permissao, recurso`, userID)
}

func (r *repo) SetUserPermissions(ctx context.Context, userID int64, perms []authz.Permission) error {
	return r.replacePermissions(ctx, "usuario_permissoes", "usuario_id", userID, perms)
}

func (r *repo) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.db.Query(ctx, `SELECT id, nome, descricao, criado_em FROM papeis ORDER BY nome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		var ro Role
		if err := rows.Scan(&ro.ID, &ro.Nome, &ro.Descricao, &ro.CriadoEm); err != nil {
			return nil, err
		}
		roles = append(roles, ro)
	}
	return roles, rows.Err()
}

func (r *repo) GetRole(ctx context.Context, id int64) (Role, error) {
	var ro Role
	err := r.db.QueryRow(ctx, `SELECT id, nome, descricao, criado_em FROM papeis WHERE id = $1`, id).
		Scan(&ro.ID, &ro.Nome, &ro.Descricao, &ro.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Role{}, httpx.ErrNotFound
	}
	if err != nil {
		return Role{}, err
	}
	ro.Permissions, err = r.queryPermissions(ctx,
		`SELECT permissao, recurso, COALESCE(valor, '') FROM papel_permissoes WHERE papel_id = $1 ORDER BY permissao, recurso`, id)
	return ro, err
}

func (r *repo) FindRoleByNome(ctx context.Context, nome string) (*Role, error) {
	var ro Role
	err := r.db.QueryRow(ctx, `SELECT id, nome, descricao, criado_em FROM papeis WHERE LOWER(nome) = LOWER($1)`, nome).
		Scan(&ro.ID, &ro.Nome, &ro.Descricao, &ro.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ro, nil
}

func (r *repo) CreateRole(ctx context.Context, ro Role) (Role, error) {
	now := time.Now()
	err := r.db.QueryRow(ctx, `INSERT INTO papeis (nome, descricao, criado_em) VALUES ($1, $2, $3) RETURNING id`,
		ro.Nome, ro.Descricao, now).Scan(&ro.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Role{}, httpx.ErrDuplicate
		}
		return Role{}, err
	}
	ro.CriadoEm = now
	return ro, nil
}

func (r *repo) UpdateRole(ctx context.Context, id int64, ro Role) error {
	tag, err := r.db.Exec(ctx, `UPDATE papeis SET nome = $1, descricao = $2 WHERE id = $3`, ro.Nome, ro.Descricao, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repo) DeleteRole(ctx context.Context, id int64) error {
	var inUse int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM usuarios WHERE papel_id = $1`, id).Scan(&inUse); err != nil {
		return err
	}
	if inUse > 0 {
		return fmt.Errorf("%w: papel em uso por %d usuário(s)", httpx.ErrValidation, inUse)
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM papeis WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repo) SetRolePermissions(ctx context.Context, roleID int64, perms []authz.Permission) error {
	return r.replacePermissions(ctx, "papel_permissoes", "papel_id", roleID, perms)
}

func (r *repo) queryPermissions(ctx context.Context, query string, ownerID int64) ([]authz.Permission, error) {
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []authz.Permission
	for rows.Next() {
		var p authz.Permission
		if err := rows.Scan(&p.Action, &p.Resource, &p.Scope); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// replacePermissions rewrites an owner's grant set inside one
// transaction.
func (r *repo) replacePermissions(ctx context.Context, table, ownerCol string, ownerID int64, perms []authz.Permission) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table, ownerCol), ownerID); err != nil {
		return err
	}
	for _, p := range perms {
		var scope any
		if p.Scope != "" {
			scope = p.Scope
		}
		if _, err := tx.Exec(ctx,
			fmt.Sprintf("INSERT INTO %s (%s, permissao, recurso, valor) VALUES ($1, $2, $3, $4)", table, ownerCol),
			ownerID, p.Action, p.Resource, scope); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
