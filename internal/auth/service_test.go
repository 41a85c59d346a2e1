package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/trama-erp/trama-erp/internal/authz"
	"github.com/trama-erp/trama-erp/internal/shared"
)

type memoryRepo struct {
	users       map[string]*User
	rolePerms   map[int64][]authz.Permission
	userPerms   map[int64][]authz.Permission
	resetTokens map[string]*ResetToken
	lastAccess  map[int64]time.Time
	nextID      int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		users:       make(map[string]*User),
		rolePerms:   make(map[int64][]authz.Permission),
		userPerms:   make(map[int64][]authz.Permission),
		resetTokens: make(map[string]*ResetToken),
		lastAccess:  make(map[int64]time.Time),
	}
}

func (r *memoryRepo) addUser(email, senha string, mutate func(*User)) *User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.MinCost)
	r.nextID++
	u := &User{ID: r.nextID, Nome: "Usuário " + email, Email: email, SenhaHash: string(hash), Ativo: true}
	if mutate != nil {
		mutate(u)
	}
	r.users[email] = u
	return u
}

func (r *memoryRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	if u, ok := r.users[email]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memoryRepo) FindByID(_ context.Context, id int64) (*User, error) {
	for _, u := range r.users {
		if u.ID == id {
			copy := *u
			return &copy, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryRepo) TouchLastAccess(_ context.Context, id int64) error {
	r.lastAccess[id] = time.Now()
	return nil
}

func (r *memoryRepo) RolePermissions(_ context.Context, papelID int64) ([]authz.Permission, error) {
	return r.rolePerms[papelID], nil
}

func (r *memoryRepo) UserPermissions(_ context.Context, userID int64) ([]authz.Permission, error) {
	return r.userPerms[userID], nil
}

func (r *memoryRepo) CreateUser(_ context.Context, user User) (User, error) {
	r.nextID++
	user.ID = r.nextID
	r.users[user.Email] = &user
	return user, nil
}

func (r *memoryRepo) UpdatePassword(_ context.Context, userID int64, senhaHash string) error {
	for _, u := range r.users {
		if u.ID == userID {
			u.SenhaHash = senhaHash
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *memoryRepo) CreateResetToken(_ context.Context, token ResetToken) error {
	r.nextID++
	token.ID = r.nextID
	r.resetTokens[token.Token] = &token
	return nil
}

func (r *memoryRepo) FindResetToken(_ context.Context, token string) (*ResetToken, error) {
	if t, ok := r.resetTokens[token]; ok {
		copy := *t
		return &copy, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memoryRepo) MarkResetTokenUsed(_ context.Context, id int64) error {
	for _, t := range r.resetTokens {
		if t.ID == id {
			t.Used = true
			return nil
		}
	}
	return shared.ErrNotFound
}

func (r *memoryRepo) DeleteExpiredResetTokens(_ context.Context) (int64, error) {
	var n int64
	for key, t := range r.resetTokens {
		if t.Used || time.Now().After(t.ExpiresAt) {
			delete(r.resetTokens, key)
			n++
		}
	}
	return n, nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, "segredo-de-teste", time.Hour)
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	repo := newMemoryRepo()
	repo.addUser("ana@trama.com.br", "senha-correta", nil)
	svc := newTestService(repo)
	ctx := context.Background()

	_, _, errWrongPassword := svc.Authenticate(ctx, "ana@trama.com.br", "senha-errada")
	_, _, errUnknownEmail := svc.Authenticate(ctx, "ninguem@trama.com.br", "qualquer")

	require.ErrorIs(t, errWrongPassword, shared.ErrInvalidCredentials)
	require.ErrorIs(t, errUnknownEmail, shared.ErrInvalidCredentials)
	require.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
}

func TestAuthenticateInactiveUser(t *testing.T) {
	repo := newMemoryRepo()
	repo.addUser("inativo@trama.com.br", "senha", func(u *User) { u.Ativo = false })
	svc := newTestService(repo)

	_, _, err := svc.Authenticate(context.Background(), "inativo@trama.com.br", "senha")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateSuccessTouchesLastAccess(t *testing.T) {
	repo := newMemoryRepo()
	papelID := int64(7)
	u := repo.addUser("ana@trama.com.br", "senha", func(u *User) { u.PapelID = &papelID })
	repo.rolePerms[papelID] = []authz.Permission{{Action: "visualizar", Resource: "cores"}}
	repo.userPerms[u.ID] = []authz.Permission{{Action: "editar", Resource: "cores"}}
	svc := newTestService(repo)

	user, set, err := svc.Authenticate(context.Background(), "ana@trama.com.br", "senha")
	require.NoError(t, err)
	require.Equal(t, u.ID, user.ID)
	require.NotNil(t, user.UltimoAcesso)
	require.Contains(t, repo.lastAccess, u.ID)
	require.True(t, set.Has("visualizar", "cores", ""))
	require.True(t, set.Has("editar", "cores", ""))
}

func TestTokenRoundTrip(t *testing.T) {
	repo := newMemoryRepo()
	u := repo.addUser("ana@trama.com.br", "senha", nil)
	repo.userPerms[u.ID] = []authz.Permission{{Action: "visualizar", Resource: "skus"}}
	svc := newTestService(repo)

	user, set, err := svc.Authenticate(context.Background(), "ana@trama.com.br", "senha")
	require.NoError(t, err)

	token, err := svc.IssueToken(user, set)
	require.NoError(t, err)

	principal := svc.VerifyToken(token)
	require.NotNil(t, principal)
	require.Equal(t, user.ID, principal.UserID)
	require.True(t, principal.Permissions.Has("visualizar", "skus", ""))

	require.Nil(t, svc.VerifyToken("token-invalido"))
	require.Nil(t, svc.VerifyToken(""))

	other := NewService(repo, "outro-segredo", time.Hour)
	require.Nil(t, other.VerifyToken(token))
}

func TestSuperAdminTokenCarriesSentinel(t *testing.T) {
	repo := newMemoryRepo()
	repo.addUser("root@trama.com.br", "senha", func(u *User) { u.IsSuperAdmin = true })
	svc := newTestService(repo)

	user, set, err := svc.Authenticate(context.Background(), "root@trama.com.br", "senha")
	require.NoError(t, err)
	require.Equal(t, []string{authz.SentinelSuperAdmin}, set.Strings())

	token, err := svc.IssueToken(user, set)
	require.NoError(t, err)
	principal := svc.VerifyToken(token)
	require.NotNil(t, principal)
	require.True(t, principal.Permissions.Has("qualquer", "coisa", "valor"))
}

func TestPasswordResetFlow(t *testing.T) {
	repo := newMemoryRepo()
	repo.addUser("ana@trama.com.br", "senha-antiga", nil)
	svc := newTestService(repo)
	ctx := context.Background()

	// Unknown email yields no token and no error.
	token, err := svc.RequestPasswordReset(ctx, "ninguem@trama.com.br")
	require.NoError(t, err)
	require.Empty(t, token)

	token, err = svc.RequestPasswordReset(ctx, "ana@trama.com.br")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(ctx, token, "senha-nova"))

	_, _, err = svc.Authenticate(ctx, "ana@trama.com.br", "senha-nova")
	require.NoError(t, err)
	_, _, err = svc.Authenticate(ctx, "ana@trama.com.br", "senha-antiga")
	require.Error(t, err)

	// Tokens are single use.
	require.Error(t, svc.ResetPassword(ctx, token, "outra-senha"))
}
