// Package accounts administers usuários, papéis and their permission
// grants. Authentication itself lives in the auth package; this one is
// the admin surface.
package accounts

import (
	"context"
	"time"

	"github.com/trama-erp/trama-erp/internal/authz"
)

// User is the admin view of a usuário; the password hash never leaves
// the repository.
type User struct {
	ID           int64      `json:"id"`
	Nome         string     `json:"nome"`
	Email        string     `json:"email"`
	PapelID      *int64     `json:"papelId,omitempty"`
	PapelNome    *string    `json:"papelNome,omitempty"`
	IsAdmin      bool       `json:"isAdmin"`
	IsSuperAdmin bool       `json:"isSuperAdmin"`
	Ativo        bool       `json:"ativo"`
	UltimoAcesso *time.Time `json:"ultimoAcesso,omitempty"`
	CriadoEm     time.Time  `json:"criadoEm"`
}

// Role groups permissions under a name.
type Role struct {
	ID          int64              `json:"id"`
	Nome        string             `json:"nome"`
	Descricao   *string            `json:"descricao,omitempty"`
	Permissions []authz.Permission `json:"permissoes,omitempty"`
	CriadoEm    time.Time          `json:"criadoEm"`
}

// ListFilters narrows the user listing.
type ListFilters struct {
	Search string
	Ativo  *bool
	Page   int
	Limit  int
}

// Repository persists users, roles and grants.
type Repository interface {
	ListUsers(ctx context.Context, f ListFilters) ([]User, int, error)
	GetUser(ctx context.Context, id int64) (User, error)
	UpdateUser(ctx context.Context, id int64, u User) error
	SetUserActive(ctx context.Context, id int64, active bool) error
	UserPermissions(ctx context.Context, userID int64) ([]authz.Permission, error)
	SetUserPermissions(ctx context.Context, userID int64, perms []authz.Permission) error

	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, id int64) (Role, error)
	FindRoleByNome(ctx context.Context, nome string) (*Role, error)
	CreateRole(ctx context.Context, r Role) (Role, error)
	UpdateRole(ctx context.Context, id int64, r Role) error
	DeleteRole(ctx context.Context, id int64) error
	SetRolePermissions(ctx context.Context, roleID int64, perms []authz.Permission) error
}
