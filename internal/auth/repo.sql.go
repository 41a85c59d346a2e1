package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trama-erp/trama-erp/internal/authz"
	"github.com/trama-erp/trama-erp/internal/platform/httpx"
	"github.com/trama-erp/trama-erp/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	TouchLastAccess(ctx context.Context, id int64) error
	RolePermissions(ctx context.Context, papelID int64) ([]authz.Permission, error)
	UserPermissions(ctx context.Context, userID int64) ([]authz.Permission, error)
	CreateUser(ctx context.Context, user User) (User, error)
	UpdatePassword(ctx context.Context, userID int64, senhaHash string) error
	CreateResetToken(ctx context.Context, token ResetToken) error
	FindResetToken(ctx context.Context, token string) (*ResetToken, error)
	MarkResetTokenUsed(ctx context.Context, id int64) error
	DeleteExpiredResetTokens(ctx context.Context) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, nome, email, senha, cargo, departamento, empresa_id, papel_id, is_admin, is_super_admin, ativo, ultimo_acesso, criado_em, atualizado_em`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Nome, &u.Email, &u.SenhaHash, &u.Cargo, &u.Departamento,
		&u.EmpresaID, &u.PapelID, &u.IsAdmin, &u.IsSuperAdmin, &u.Ativo,
		&u.UltimoAcesso, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM usuarios WHERE email = $1`, email))
}

// FindByID fetches a user by id.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM usuarios WHERE id = $1`, id))
}

// TouchLastAccess updates ultimo_acesso after a successful login.
func (r *PGRepository) TouchLastAccess(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE usuarios SET ultimo_acesso = NOW() WHERE id = $1`, id)
	return err
}

func (r *PGRepository) queryPermissions(ctx context.Context, query string, arg int64) ([]authz.Permission, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []authz.Permission
	for rows.Next() {
		var p authz.Permission
		var valor *string
		if err := rows.Scan(&p.Action, &p.Resource, &valor); err != nil {
			return nil, err
		}
		if valor != nil {
			p.Scope = *valor
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// RolePermissions returns the grants attached to a role.
func (r *PGRepository) RolePermissions(ctx context.Context, papelID int64) ([]authz.Permission, error) {
	return r.queryPermissions(ctx,
		`SELECT permissao, recurso, valor FROM papel_permissoes WHERE papel_id = $1 ORDER BY id`, papelID)
}

// UserPermissions returns per-user grants that override role grants.
func (r *PGRepository) UserPermissions(ctx context.Context, userID int64) ([]authz.Permission, error) {
	return r.queryPermissions(ctx,
		`SELECT permissao, recurso, valor FROM usuario_permissoes WHERE usuario_id = $1 ORDER BY id`, userID)
}

// CreateUser inserts a new account.
func (r *PGRepository) CreateUser(ctx context.Context, user User) (User, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO usuarios (nome, email, senha, cargo, departamento, empresa_id, papel_id, is_admin, is_super_admin, ativo, criado_em, atualizado_em)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		 RETURNING id, criado_em, atualizado_em`,
		user.Nome, user.Email, user.SenhaHash, user.Cargo, user.Departamento,
		user.EmpresaID, user.PapelID, user.IsAdmin, user.IsSuperAdmin, user.Ativo).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, httpx.ErrDuplicate
		}
		return User{}, err
	}
	return user, nil
}

// UpdatePassword stores a new hash.
func (r *PGRepository) UpdatePassword(ctx context.Context, userID int64, senhaHash string) error {
	_, err := r.pool.Exec(ctx, `UPDATE usuarios SET senha = $1, atualizado_em = NOW() WHERE id = $2`, senhaHash, userID)
	return err
}

// CreateResetToken persists a new password reset token.
func (r *PGRepository) CreateResetToken(ctx context.Context, token ResetToken) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO password_reset_tokens (usuario_id, token, expires_at, used, created_at) VALUES ($1, $2, $3, false, NOW())`,
		token.UserID, token.Token, token.ExpiresAt)
	return err
}

// FindResetToken fetches a token record.
func (r *PGRepository) FindResetToken(ctx context.Context, token string) (*ResetToken, error) {
	var t ResetToken
	err := r.pool.QueryRow(ctx,
		`SELECT id, usuario_id, token, expires_at, used, created_at FROM password_reset_tokens WHERE token = $1`, token).
		Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.Used, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// MarkResetTokenUsed flips the single-use flag.
func (r *PGRepository) MarkResetTokenUsed(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE password_reset_tokens SET used = true WHERE id = $1`, id)
	return err
}

// DeleteExpiredResetTokens purges expired or used tokens.
func (r *PGRepository) DeleteExpiredResetTokens(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM password_reset_tokens WHERE used OR expires_at < $1`, time.Now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ Repository = (*PGRepository)(nil)
