package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/trama-erp/trama-erp/internal/authz"
	"github.com/trama-erp/trama-erp/internal/platform/httpx"
	"github.com/trama-erp/trama-erp/internal/shared"
)

const (
	bcryptCost    = 12
	resetTokenTTL = time.Hour
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	secret string
	ttl    time.Duration
}

// NewService constructs a Service.
func NewService(repo Repository, secret string, ttl time.Duration) *Service {
	return &Service{repo: repo, secret: secret, ttl: ttl}
}

// Authenticate validates email/password credentials and resolves the
// effective permission set. Missing user, inactive account and wrong
// password all yield the same error.
func (s *Service) Authenticate(ctx context.Context, email, senha string) (*User, authz.Set, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, authz.Set{}, shared.ErrInvalidCredentials
	}
	if !user.Ativo {
		return nil, authz.Set{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.SenhaHash), []byte(senha)); err != nil {
		return nil, authz.Set{}, shared.ErrInvalidCredentials
	}

	set, err := s.PermissionsFor(ctx, user)
	if err != nil {
		return nil, authz.Set{}, err
	}

	if err := s.repo.TouchLastAccess(ctx, user.ID); err != nil {
		return nil, authz.Set{}, err
	}
	now := time.Now()
	user.UltimoAcesso = &now

	return user, set, nil
}

// PermissionsFor resolves role grants plus per-user overrides.
func (s *Service) PermissionsFor(ctx context.Context, user *User) (authz.Set, error) {
	if user.IsSuperAdmin {
		return authz.Resolve(true, nil, nil), nil
	}
	var rolePerms []authz.Permission
	if user.PapelID != nil {
		var err error
		rolePerms, err = s.repo.RolePermissions(ctx, *user.PapelID)
		if err != nil {
			return authz.Set{}, err
		}
	}
	userPerms, err := s.repo.UserPermissions(ctx, user.ID)
	if err != nil {
		return authz.Set{}, err
	}
	return authz.Resolve(false, rolePerms, userPerms), nil
}

// IssueToken signs a JWT carrying identity and permissions.
func (s *Service) IssueToken(user *User, set authz.Set) (string, error) {
	claims := Claims{
		RegisteredClaims: newRegisteredClaims(time.Now(), s.ttl, strconv.FormatInt(user.ID, 10)),
		UserID:           user.ID,
		Email:            user.Email,
		Nome:             user.Nome,
		IsAdmin:          user.IsAdmin,
		IsSuperAdmin:     user.IsSuperAdmin,
		Permissions:      set.Strings(),
	}
	return signToken(s.secret, claims)
}

// VerifyToken parses and validates a token. Any failure, including
// expiry, returns nil: callers treat nil as absence of a session.
func (s *Service) VerifyToken(token string) *authz.Principal {
	claims, err := parseToken(s.secret, token)
	if err != nil {
		return nil
	}
	return &authz.Principal{
		UserID:       claims.UserID,
		Nome:         claims.Nome,
		Email:        claims.Email,
		IsAdmin:      claims.IsAdmin,
		IsSuperAdmin: claims.IsSuperAdmin,
		Permissions:  authz.SetFromStrings(claims.Permissions),
	}
}

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Nome         string  `json:"nome" validate:"required,max=200"`
	Email        string  `json:"email" validate:"required,email"`
	Senha        string  `json:"senha" validate:"required,min=6"`
	Cargo        *string `json:"cargo,omitempty"`
	Departamento *string `json:"departamento,omitempty"`
	EmpresaID    *int64  `json:"empresaId,omitempty"`
	PapelID      *int64  `json:"papelId,omitempty"`
	IsAdmin      bool    `json:"isAdmin"`
}

// Register creates a new active account.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Senha), bcryptCost)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.CreateUser(ctx, User{
		Nome:         strings.TrimSpace(input.Nome),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		SenhaHash:    string(hash),
		Cargo:        input.Cargo,
		Departamento: input.Departamento,
		EmpresaID:    input.EmpresaID,
		PapelID:      input.PapelID,
		IsAdmin:      input.IsAdmin,
		Ativo:        true,
	})
	if err != nil {
		if errors.Is(err, httpx.ErrDuplicate) {
			return nil, fmt.Errorf("%w: já existe um usuário com este email", httpx.ErrDuplicate)
		}
		return nil, err
	}
	return &user, nil
}

// RequestPasswordReset issues a reset token. Unknown emails return an
// empty token with no error so responses cannot enumerate accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	token := uuid.NewString()
	err = s.repo.CreateResetToken(ctx, ResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword consumes a token and stores the new password hash.
func (s *Service) ResetPassword(ctx context.Context, token, novaSenha string) error {
	record, err := s.repo.FindResetToken(ctx, token)
	if err != nil {
		return fmt.Errorf("%w: token inválido", httpx.ErrValidation)
	}
	if record.Used || time.Now().After(record.ExpiresAt) {
		return fmt.Errorf("%w: token expirado", httpx.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(novaSenha), bcryptCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, record.UserID, string(hash)); err != nil {
		return err
	}
	return s.repo.MarkResetTokenUsed(ctx, record.ID)
}

// CleanupResetTokens purges used and expired tokens, returning the count.
func (s *Service) CleanupResetTokens(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredResetTokens(ctx)
}
