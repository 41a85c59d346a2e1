package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/trama-erp/trama-erp/internal/audit"
	"github.com/trama-erp/trama-erp/internal/authz"
	"github.com/trama-erp/trama-erp/internal/platform/httpx"
)

// Service applies account administration rules.
type Service struct {
	logger *slog.Logger
	repo   Repository
	audit  audit.Recorder
}

// NewService creates the accounts service.
func NewService(logger *slog.Logger, repo Repository, recorder audit.Recorder) *Service {
	return &Service{logger: logger, repo: repo, audit: recorder}
}

func (s *Service) record(ctx context.Context, action, entity string, id int64, meta map[string]any) {
	entry := audit.Entry{Action: action, Entity: entity, EntityID: strconv.FormatInt(id, 10), Meta: meta}
	if p := authz.PrincipalFromContext(ctx); p != nil {
		entry.ActorID = p.UserID
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", slog.String("entity", entity), slog.Any("error", err))
	}
}

// Users

func (s *Service) ListUsers(ctx context.Context, f ListFilters) ([]User, int, error) {
	return s.repo.ListUsers(ctx, f)
}

func (s *Service) GetUser(ctx context.Context, id int64) (User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) UpdateUser(ctx context.Context, id int64, u User) error {
	u.Nome = strings.TrimSpace(u.Nome)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Nome == "" || u.Email == "" {
		return fmt.Errorf("%w: nome e email são obrigatórios", httpx.ErrValidation)
	}
	if err := s.repo.UpdateUser(ctx, id, u); err != nil {
		return err
	}
	s.record(ctx, "editar", "usuarios", id, map[string]any{"email": u.Email})
	return nil
}

// SetUserActive toggles the login flag. Deactivating yourself is
// blocked so an admin cannot lock the last door behind them.
func (s *Service) SetUserActive(ctx context.Context, id int64, active bool) error {
	if p := authz.PrincipalFromContext(ctx); p != nil && p.UserID == id && !active {
		return fmt.Errorf("%w: não é possível desativar o próprio usuário", httpx.ErrValidation)
	}
	if err := s.repo.SetUserActive(ctx, id, active); err != nil {
		return err
	}
	action := "ativar"
	if !active {
		action = "desativar"
	}
	s.record(ctx, action, "usuarios", id, nil)
	return nil
}

func (s *Service) UserPermissions(ctx context.Context, userID int64) ([]authz.Permission, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.UserPermissions(ctx, userID)
}

// SetUserPermissions replaces a user's individual grants. These
// override role grants on the same action:resource prefix.
func (s *Service) SetUserPermissions(ctx context.Context, userID int64, raw []string) error {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return err
	}
	perms, err := parsePermissions(raw)
	if err != nil {
		return err
	}
	if err := s.repo.SetUserPermissions(ctx, userID, perms); err != nil {
		return err
	}
	s.record(ctx, "permissoes", "usuarios", userID, map[string]any{"total": len(perms)})
	return nil
}

// Roles

func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

func (s *Service) GetRole(ctx context.Context, id int64) (Role, error) {
	return s.repo.GetRole(ctx, id)
}

func (s *Service) CreateRole(ctx context.Context, ro Role) (Role, error) {
	ro.Nome = strings.TrimSpace(ro.Nome)
	if ro.Nome == "" {
		return Role{}, fmt.Errorf("%w: campo obrigatório 'nome' está vazio", httpx.ErrValidation)
	}
	if existing, err := s.repo.FindRoleByNome(ctx, ro.Nome); err != nil {
		return Role{}, err
	} else if existing != nil {
		return Role{}, fmt.Errorf("%w: Papel '%s' já existe", httpx.ErrDuplicate, ro.Nome)
	}
	created, err := s.repo.CreateRole(ctx, ro)
	if err != nil {
		return Role{}, err
	}
	s.record(ctx, "criar", "papeis", created.ID, map[string]any{"nome": created.Nome})
	return created, nil
}

func (s *Service) UpdateRole(ctx context.Context, id int64, ro Role) error {
	ro.Nome = strings.TrimSpace(ro.Nome)
	if ro.Nome == "" {
		return fmt.Errorf("%w: campo obrigatório 'nome' está vazio", httpx.ErrValidation)
	}
	if existing, err := s.repo.FindRoleByNome(ctx, ro.Nome); err != nil {
		return err
	} else if existing != nil && existing.ID != id {
		return fmt.Errorf("%w: Papel '%s' já existe", httpx.ErrDuplicate, ro.Nome)
	}
	if err := s.repo.UpdateRole(ctx, id, ro); err != nil {
		return err
	}
	s.record(ctx, "editar", "papeis", id, map[string]any{"nome": ro.Nome})
	return nil
}

func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	if err := s.repo.DeleteRole(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "excluir", "papeis", id, nil)
	return nil
}

// SetRolePermissions replaces the whole grant set of a role.
func (s *Service) SetRolePermissions(ctx context.Context, roleID int64, raw []string) error {
	if _, err := s.repo.GetRole(ctx, roleID); err != nil {
		return err
	}
	perms, err := parsePermissions(raw)
	if err != nil {
		return err
	}
	if err := s.repo.SetRolePermissions(ctx, roleID, perms); err != nil {
		return err
	}
	s.record(ctx, "permissoes", "papeis", roleID, map[string]any{"total": len(perms)})
	return nil
}

// parsePermissions validates the permissao:recurso[:valor] strings.
// The super_admin sentinel is never grantable through this surface.
func parsePermissions(raw []string) ([]authz.Permission, error) {
	perms := make([]authz.Permission, 0, len(raw))
	for _, s := range raw {
		if s == authz.SentinelSuperAdmin {
			return nil, fmt.Errorf("%w: permissão '%s' não pode ser atribuída", httpx.ErrValidation, s)
		}
		p, err := authz.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
		}
		perms = append(perms, p)
	}
	return perms, nil
}
