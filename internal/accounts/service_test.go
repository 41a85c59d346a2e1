package accounts

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trama-erp/trama-erp/internal/audit"
	"github.com/trama-erp/trama-erp/internal/authz"
	"github.com/trama-erp/trama-erp/internal/platform/httpx"
)

type memoryRepo struct {
	users     map[int64]User
	userPerms map[int64][]authz.Permission
	roles     map[int64]Role
	nextRole  int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		users:     map[int64]User{},
		userPerms: map[int64][]authz.Permission{},
		roles:     map[int64]Role{},
		nextRole:  1,
	}
}

func (m *memoryRepo) ListUsers(_ context.Context, _ ListFilters) ([]User, int, error) {
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (m *memoryRepo) GetUser(_ context.Context, id int64) (User, error) {
	u, ok := m.users[id]
	if !ok {
		return User{}, httpx.ErrNotFound
	}
	return u, nil
}

func (m *memoryRepo) UpdateUser(_ context.Context, id int64, u User) error {
	cur, ok := m.users[id]
	if !ok {
		return httpx.ErrNotFound
	}
	cur.Nome, cur.Email, cur.PapelID, cur.IsAdmin = u.Nome, u.Email, u.PapelID, u.IsAdmin
	m.users[id] = cur
	return nil
}

func (m *memoryRepo) SetUserActive(_ context.Context, id int64, active bool) error {
	u, ok := m.users[id]
	if !ok {
		return httpx.ErrNotFound
	}
	u.Ativo = active
	m.users[id] = u
	return nil
}

func (m *memoryRepo) UserPermissions(_ context.Context, userID int64) ([]authz.Permission, error) {
	return m.userPerms[userID], nil
}

func (m *memoryRepo) SetUserPermissions(_ context.Context, userID int64, perms []authz.Permission) error {
	m.userPerms[userID] = perms
	return nil
}

func (m *memoryRepo) ListRoles(_ context.Context) ([]Role, error) {
	out := make([]Role, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, r)
	}
	return out, nil
}

func (m *memoryRepo) GetRole(_ context.Context, id int64) (Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return Role{}, httpx.ErrNotFound
	}
	return r, nil
}

func (m *memoryRepo) FindRoleByNome(_ context.Context, nome string) (*Role, error) {
	for _, r := range m.roles {
		if r.Nome == nome {
			cp := r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memoryRepo) CreateRole(_ context.Context, r Role) (Role, error) {
	r.ID = m.nextRole
	m.nextRole++
	m.roles[r.ID] = r
	return r, nil
}

func (m *memoryRepo) UpdateRole(_ context.Context, id int64, r Role) error {
	cur, ok := m.roles[id]
	if !ok {
		return httpx.ErrNotFound
	}
	cur.Nome, cur.Descricao = r.Nome, r.Descricao
	m.roles[id] = cur
	return nil
}

func (m *memoryRepo) DeleteRole(_ context.Context, id int64) error {
	if _, ok := m.roles[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.roles, id)
	return nil
}

func (m *memoryRepo) SetRolePermissions(_ context.Context, roleID int64, perms []authz.Permission) error {
	r, ok := m.roles[roleID]
	if !ok {
		return httpx.ErrNotFound
	}
	r.Permissions = perms
	m.roles[roleID] = r
	return nil
}

type memoryAudit struct {
	entries []audit.Entry
}

func (m *memoryAudit) Record(_ context.Context, e audit.Entry) error {
	m.entries = append(m.entries, e)
	return nil
}

func newTestService() (*Service, *memoryRepo, *memoryAudit) {
	repo := newMemoryRepo()
	rec := &memoryAudit{}
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, rec), repo, rec
}

func TestUpdateUserRequiresNomeAndEmail(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.users[1] = User{ID: 1, Nome: "Ana", Email: "ana@trama.com.br", Ativo: true}

	err := svc.UpdateUser(context.Background(), 1, User{Nome: "  ", Email: "ana@trama.com.br"})
	require.ErrorIs(t, err, httpx.ErrValidation)

	require.NoError(t, svc.UpdateUser(context.Background(), 1, User{Nome: "Ana Lima", Email: "ANA@trama.com.br"}))
	require.Equal(t, "ana@trama.com.br", repo.users[1].Email)
	require.Equal(t, "Ana Lima", repo.users[1].Nome)
}

func TestCannotDeactivateSelf(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.users[7] = User{ID: 7, Nome: "Ana", Email: "ana@trama.com.br", Ativo: true}
	ctx := authz.ContextWithPrincipal(context.Background(), &authz.Principal{UserID: 7})

	err := svc.SetUserActive(ctx, 7, false)
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.True(t, repo.users[7].Ativo)

	// another admin can
	other := authz.ContextWithPrincipal(context.Background(), &authz.Principal{UserID: 9})
	require.NoError(t, svc.SetUserActive(other, 7, false))
	require.False(t, repo.users[7].Ativo)
}

func TestSetUserPermissionsParsesTuples(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.users[1] = User{ID: 1, Nome: "Ana", Email: "ana@trama.com.br"}

	err := svc.SetUserPermissions(context.Background(), 1, []string{"visualizar:cores", "editar:skus:uneg-01"})
	require.NoError(t, err)
	require.Equal(t, []authz.Permission{
		{Action: "visualizar", Resource: "cores"},
		{Action: "editar", Resource: "skus", Scope: "uneg-01"},
	}, repo.userPerms[1])
}

func TestSetUserPermissionsRejectsMalformedAndSentinel(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.users[1] = User{ID: 1, Nome: "Ana", Email: "ana@trama.com.br"}

	err := svc.SetUserPermissions(context.Background(), 1, []string{"semrecurso"})
	require.ErrorIs(t, err, httpx.ErrValidation)

	err = svc.SetUserPermissions(context.Background(), 1, []string{authz.SentinelSuperAdmin})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateRoleRejectsDuplicateName(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateRole(context.Background(), Role{Nome: "Compras"})
	require.NoError(t, err)

	_, err = svc.CreateRole(context.Background(), Role{Nome: "Compras"})
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestUpdateRoleKeepsOwnName(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateRole(context.Background(), Role{Nome: "Compras"})
	require.NoError(t, err)

	desc := "Equipe de compras"
	require.NoError(t, svc.UpdateRole(context.Background(), created.ID, Role{Nome: "Compras", Descricao: &desc}))
}

func TestSetRolePermissions(t *testing.T) {
	svc, repo, rec := newTestService()
	ctx := authz.ContextWithPrincipal(context.Background(), &authz.Principal{UserID: 3})

	created, err := svc.CreateRole(ctx, Role{Nome: "Estoque"})
	require.NoError(t, err)

	require.NoError(t, svc.SetRolePermissions(ctx, created.ID, []string{"visualizar:estoque", "editar:estoque"}))
	require.Len(t, repo.roles[created.ID].Permissions, 2)

	last := rec.entries[len(rec.entries)-1]
	require.Equal(t, int64(3), last.ActorID)
	require.Equal(t, "permissoes", last.Action)
	require.Equal(t, "papeis", last.Entity)
}
