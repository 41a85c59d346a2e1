package masterdata

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

// Service applies cadastro business rules: required fields, duplicate
// natural keys and audit trail entries for every mutation.
type Service struct {
	logger *slog.Logger
	repo   Repository
	audit  audit.Recorder
}

// NewService creates a new cadastro service.
func NewService(logger *slog.Logger, repo Repository, recorder audit.Recorder) *Service {
	return &Service{logger: logger, repo: repo, audit: recorder}
}

func duplicateErr(msg string) error {
	return fmt.Errorf("%w: %s", httpx.ErrDuplicate, msg)
}

func requiredErr(field string) error {
	return fmt.Errorf("%w: campo obrigatório '%s' está vazio", httpx.ErrValidation, field)
}

// record writes an audit entry; failures are logged and swallowed so a
// broken log table never blocks a cadastro mutation.
func (s *Service) record(ctx context.Context, action, entity string, id int64, meta map[string]any) {
	entry := audit.Entry{Action: action, Entity: entity, EntityID: strconv.FormatInt(id, 10), Meta: meta}
	if p := authz.PrincipalFromContext(ctx); p != nil {
		entry.ActorID = p.UserID
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", slog.String("entity", entity), slog.String("action", action), slog.Any("error", err))
	}
}

// Color operations

func (s *Service) ListColors(ctx context.Context, f ListFilters) ([]Color, int, error) {
	return s.repo.ListColors(ctx, f)
}

func (s *Service) GetColor(ctx context.Context, id int64) (Color, error) {
	return s.repo.GetColor(ctx, id)
}

func (s *Service) CreateColor(ctx context.Context, c Color) (Color, error) {
	c.Nome = strings.TrimSpace(c.Nome)
	if c.Nome == "" {
		return Color{}, requiredErr("nome")
	}
	if existing, err := s.repo.FindColorByNome(ctx, c.Nome); err != nil {
		return Color{}, err
	} else if existing != nil {
		return Color{}, duplicateErr(fmt.Sprintf("Cor '%s' já existe", c.Nome))
	}
	created, err := s.repo.CreateColor(ctx, c)
	if err != nil {
		return Color{}, err
	}
	s.record(ctx, "criar", "cores", created.ID, map[string]any{"nome": created.Nome})
	return created, nil
}

func (s *Service) UpdateColor(ctx context.Context, id int64, c Color) error {
	c.Nome = strings.TrimSpace(c.Nome)
	if c.Nome == "" {
		return requiredErr("nome")
	}
	if existing, err := s.repo.FindColorByNome(ctx, c.Nome); err != nil {
		return err
	} else if existing != nil && existing.ID != id {
		return duplicateErr(fmt.Sprintf("Cor '%s' já existe", c.Nome))
	}
	if err := s.repo.UpdateColor(ctx, id, c); err != nil {
		return err
	}
	s.record(ctx, "editar", "cores", id, map[string]any{"nome": c.Nome})
	return nil
}

func (s *Service) DeleteColor(ctx context.Context, id int64) error {
	if err := s.repo.DeleteColor(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "excluir", "cores", id, nil)
	return nil
}

// Family operations

func (s *Service) ListFamilies(ctx context.Context, f ListFilters) ([]Family, int, error) {
	return s.repo.ListFamilies(ctx, f)
}

func (s *Service) GetFamily(ctx context.Context, id int64) (Family, error) {
	return s.repo.GetFamily(ctx, id)
}

func (s *Service) CreateFamily(ctx context.Context, fa Family) (Family, error) {
	fa.Codigo = strings.TrimSpace(fa.Codigo)
	fa.Nome = strings.TrimSpace(fa.Nome)
	if fa.Codigo == "" {
		return Family{}, requiredErr("codigo")
	}
	if fa.Nome == "" {
		return Family{}, requiredErr("nome")
	}
	if existing, err := s.repo.FindFamilyByCodigo(ctx, fa.Codigo); err != nil {
		return Family{}, err
	} else if existing != nil {
		return Family{}, duplicateErr(fmt.Sprintf("Família '%s' já existe", fa.Codigo))
	}
	created, err := s.repo.CreateFamily(ctx, fa)
	if err != nil {
		return Family{}, err
	}
	s.record(ctx, "criar", "familias", created.ID, map[string]any{"codigo": created.Codigo})
	return created, nil
}

func (s *Service) UpdateFamily(ctx context.Context, id int64, fa Family) error {
	fa.Codigo = strings.TrimSpace(fa.Codigo)
	fa.Nome = strings.TrimSpace(fa.Nome)
	if fa.Codigo == "" {
		return requiredErr("codigo")
	}
	if fa.Nome == "" {
		return requiredErr("nome")
	}
	if existing, err := s.repo.FindFamilyByCodigo(ctx, fa.Codigo); err != nil {
		return err
	} else if existing != nil && existing.ID != id {
		return duplicateErr(fmt.Sprintf("Família '%s' já existe", fa.Codigo))
	}
	if err := s.repo.UpdateFamily(ctx, id, fa); err != nil {
		return err
	}
	s.record(ctx, "editar", "familias", id, map[string]any{"codigo": fa.Codigo})
	return nil
}

func (s *Service) DeleteFamily(ctx context.Context, id int64) error {
	if err := s.repo.DeleteFamily(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "excluir", "familias", id, nil)
	return nil
}

// Size operations

func (s *Service) ListSizes(ctx context.Context, f ListFilters) ([]Size, int, error) {
	return s.repo.ListSizes(ctx, f)
}

func (s *Service) GetSize(ctx context.Context, id int64) (Size, error) {
	return s.repo.GetSize(ctx, id)
}

func (s *Service) CreateSize(ctx context.Context, sz Size) (Size, error) {
	sz.Nome = strings.TrimSpace(sz.Nome)
	if sz.Nome == "" {
		return Size{}, requiredErr("nome")
	}
	if existing, err := s.repo.FindSizeByNome(ctx, sz.Nome); err != nil {
		return Size{}, err
	} else if existing != nil {
		return Size{}, duplicateErr(fmt.Sprintf("Tamanho '%s' já existe", sz.Nome))
	}
	created, err := s.repo.CreateSize(ctx, sz)
	if err != nil {
		return Size{}, err
	}
	s.record(ctx, "criar", "tamanhos", created.ID, map[string]any{"nome": created.Nome})
	return created, nil
}

func (s *Service) UpdateSize(ctx context.Context, id int64, sz Size) error {
	sz.Nome = strings.TrimSpace(sz.Nome)
	if sz.Nome == "" {
		return requiredErr("nome")
	}
	if existing, err := s.repo.FindSizeByNome(ctx, sz.Nome); err != nil {
		return err
	} else if existing != nil && existing.ID != id {
		return duplicateErr(fmt.Sprintf("Tamanho '%s' já existe", sz.Nome))
	}
	if err := s.repo.UpdateSize(ctx, id, sz); err != nil {
		return err
	}
	s.record(ctx, "editar", "tamanhos", id, map[string]any{"nome": sz.Nome})
	return nil
}

func (s *Service) DeleteSize(ctx context.Context, id int64) error {
	if err := s.repo.DeleteSize(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "excluir", "tamanhos", id, nil)
	return nil
}

// Warehouse operations

func (s *Service) ListWarehouses(ctx context.Context, f ListFilters) ([]Warehouse, int, error) {
	return s.repo.ListWarehouses(ctx, f)
}

func (s *Service) GetWarehouse(ctx context.Context, id int64) (Warehouse, error) {
	return s.repo.GetWarehouse(ctx, id)
}

func (s *Service) CreateWarehouse(ctx context.Context, w Warehouse) (Warehouse, error) {
	w.Codigo = strings.TrimSpace(w.Codigo)
	w.Nome = strings.TrimSpace(w.Nome)
	if w.Codigo == "" {
		return Warehouse{}, requiredErr("codigo")
	}
	if w.Nome == "" {
		return Warehouse{}, requiredErr("nome")
	}
	if existing, err := s.repo.FindWarehouseByCodigo(ctx, w.Codigo); err != nil {
		return Warehouse{}, err
	} else if existing != nil {
		return Warehouse{}, duplicateErr(fmt.Sprintf("Depósito '%s' já existe", w.Codigo))
	}
	created, err := s.repo.CreateWarehouse(ctx, w)
	if err != nil {
		return Warehouse{}, err
	}
	s.record(ctx, "criar", "depositos", created.ID, map[string]any{"codigo": created.Codigo})
	return created, nil
}

func (s *Service) UpdateWarehouse(ctx context.Context, id int64, w Warehouse) error {
	w.Codigo = strings.TrimSpace(w.Codigo)
	w.Nome = strings.TrimSpace(w.Nome)
	if w.Codigo == "" {
		return requiredErr("codigo")
	}
	if w.Nome == "" {
		return requiredErr("nome")
	}
	if existing, err := s.repo.FindWarehouseByCodigo(ctx, w.Codigo); err != nil {
		return err
	} else if existing != nil && existing.ID != id {
		return duplicateErr(fmt.Sprintf("Depósito '%s' já existe", w.Codigo))
	}
	if err := s.repo.UpdateWarehouse(ctx, id, w); err != nil {
		return err
	}
	s.record(ctx, "editar", "depositos", id, map[string]any{"codigo": w.Codigo})
	return nil
}

func (s *Service) DeleteWarehouse(ctx context.Context, id int64) error {
	if err := s.repo.DeleteWarehouse(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "excluir", "depositos", id, nil)
	return nil
}

// BusinessUnit operations

func (s *Service) ListBusinessUnits(ctx context.Context, f ListFilters) ([]BusinessUnit, int, error) {
	return s.repo.ListBusinessUnits(ctx, f)
}

func (s *Service) GetBusinessUnit(ctx context.Context, id int64) (BusinessUnit, error) {
	return s.repo.GetBusinessUnit(ctx, id)
}

func (s *Service) CreateBusinessUnit(ctx context.Context, u BusinessUnit) (BusinessUnit, error) {
	u.Codigo = strings.TrimSpace(u.Codigo)
	u.Nome = strings.TrimSpace(u.Nome)
	if u.Codigo == "" {
		return BusinessUnit{}, requiredErr("codigo")
	}
	if u.Nome == "" {
		return BusinessUnit{}, requiredErr("nome")
	}
	if existing, err := s.repo.FindBusinessUnitByCodigo(ctx, u.Codigo); err != nil {
		return BusinessUnit{}, err
	} else if existing != nil {
		return BusinessUnit{}, duplicateErr(fmt.Sprintf("Unidade de negócio '%s' já existe", u.Codigo))
	}
	created, err := s.repo.CreateBusinessUnit(ctx, u)
	if err != nil {
		return BusinessUnit{}, err
	}
	s.record(ctx, "criar", "unidades-negocio", created.ID, map[string]any{"codigo": created.Codigo})
	return created, nil
}

func (s *Service) UpdateBusinessUnit(ctx context.Context, id int64, u BusinessUnit) error {
	u.Codigo = strings.TrimSpace(u.Codigo)
	u.Nome = strings.TrimSpace(u.Nome)
	if u.Codigo == "" {
		return requiredErr("codigo")
	}
	if u.Nome == "" {
		return requiredErr("nome")
	}
	if existing, err := s.repo.FindBusinessUnitByCodigo(ctx, u.Codigo); err != nil {
		return err
	} else if existing != nil && existing.ID != id {
		return duplicateErr(fmt.Sprintf("Unidade de negócio '%s' já existe", u.Codigo))
	}
	if err := s.repo.UpdateBusinessUnit(ctx, id, u); err != nil {
		return err
	}
	s.record(ctx, "editar", "unidades-negocio", id, map[string]any{"codigo": u.Codigo})
	return nil
}

func (s *Service) DeleteBusinessUnit(ctx context.Context, id int64) error {
	if err := s.repo.DeleteBusinessUnit(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "excluir", "unidades-negocio", id, nil)
	return nil
}

// Company operations

func (s *Service) ListCompanies(ctx context.Context, f ListFilters) ([]Company, int, error) {
	return s.repo.ListCompanies(ctx, f)
}

func (s *Service) GetCompany(ctx context.Context, id int64) (Company, error) {
	return s.repo.GetCompany(ctx, id)
}

func (s *Service) CreateCompany(ctx context.Context, c Company) (Company, error) {
	c.Nome = strings.TrimSpace(c.Nome)
	if c.Nome == "" {
		return Company{}, requiredErr("nome")
	}
	if existing, err := s.repo.FindCompanyByNome(ctx, c.Nome); err != nil {
		return Company{}, err
	} else if existing != nil {
		return Company{}, duplicateErr(fmt.Sprintf("Empresa '%s' já existe", c.Nome))
	}
	created, err := s.repo.CreateCompany(ctx, c)
	if err != nil {
		return Company{}, err
	}
	s.record(ctx, "criar", "empresas", created.ID, map[string]any{"nome": created.Nome})
	return created, nil
}

func (s *Service) UpdateCompany(ctx context.Context, id int64, c Company) error {
	c.Nome = strings.TrimSpace(c.Nome)
	if c.Nome == "" {
		return requiredErr("nome")
	}
	if existing, err := s.repo.FindCompanyByNome(ctx, c.Nome); err != nil {
		return err
	} else if existing != nil && existing.ID != id {
		return duplicateErr(fmt.Sprintf("Empresa '%s' já existe", c.Nome))
	}
	if err := s.repo.UpdateCompany(ctx, id, c); err != nil {
		return err
	}
	s.record(ctx, "editar", "empresas", id, map[string]any{"nome": c.Nome})
	return nil
}

func (s *Service) DeleteCompany(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCompany(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "excluir", "empresas", id, nil)
	return nil
}

// Supplier operations

func (s *Service) ListSuppliers(ctx context.Context, f ListFilters) ([]Supplier, int, error) {
	return s.repo.ListSuppliers(ctx, f)
}

func (s *Service) GetSupplier(ctx context.Context, id int64) (Supplier, error) {
	return s.repo.GetSupplier(ctx, id)
}

func (s *Service) CreateSupplier(ctx context.Context, sp Supplier) (Supplier, error) {
	sp.Nome = strings.TrimSpace(sp.Nome)
	if sp.Nome == "" {
		return Supplier{}, requiredErr("nome")
	}
	if sp.PrazoEntregaPadrao != nil && *sp.PrazoEntregaPadrao < 0 {
		return Supplier{}, fmt.Errorf("%w: prazo de entrega não pode ser negativo", httpx.ErrValidation)
	}
	if existing, err := s.repo.FindSupplierByNome(ctx, sp.Nome); err != nil {
		return Supplier{}, err
	} else if existing != nil {
		return Supplier{}, duplicateErr(fmt.Sprintf("Fornecedor '%s' já existe", sp.Nome))
	}
	created, err := s.repo.CreateSupplier(ctx, sp)
	if err != nil {
		return Supplier{}, err
	}
	s.record(ctx, "criar", "fornecedores", created.ID, map[string]any{"nome": created.Nome})
	return created, nil
}

func (s *Service) UpdateSupplier(ctx context.Context, id int64, sp Supplier) error {
	sp.Nome = strings.TrimSpace(sp.Nome)
	if sp.Nome == "" {
		return requiredErr("nome")
	}
	if sp.PrazoEntregaPadrao != nil && *sp.PrazoEntregaPadrao < 0 {
		return fmt.Errorf("%w: prazo de entrega não pode ser negativo", httpx.ErrValidation)
	}
	if existing, err := s.repo.FindSupplierByNome(ctx, sp.Nome); err != nil {
		return err
	} else if existing != nil && existing.ID != id {
		return duplicateErr(fmt.Sprintf("Fornecedor '%s' já existe", sp.Nome))
	}
	if err := s.repo.UpdateSupplier(ctx, id, sp); err != nil {
		return err
	}
	s.record(ctx, "editar", "fornecedores", id, map[string]any{"nome": sp.Nome})
	return nil
}

func (s *Service) DeleteSupplier(ctx context.Context, id int64) error {
	if err := s.repo.DeleteSupplier(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "excluir", "fornecedores", id, nil)
	return nil
}

// Client operations

func (s *Service) ListClients(ctx context.Context, f ListFilters) ([]Client, int, error) {
	return s.repo.ListClients(ctx, f)
}

func (s *Service) GetClient(ctx context.Context, id int64) (Client, error) {
	return s.repo.GetClient(ctx, id)
}

func (s *Service) CreateClient(ctx context.Context, c Client) (Client, error) {
	c.Nome = strings.TrimSpace(c.Nome)
	if c.Nome == "" {
		return Client{}, requiredErr("nome")
	}
	if c.RepresentanteID != nil {
		if _, err := s.repo.GetRepresentative(ctx, *c.RepresentanteID); err != nil {
			return Client{}, fmt.Errorf("%w: representante não encontrado", httpx.ErrValidation)
		}
	}
	if existing, err := s.repo.FindClientByNome(ctx, c.Nome); err != nil {
		return Client{}, err
	} else if existing != nil {
		return Client{}, duplicateErr(fmt.Sprintf("Cliente '%s' já existe", c.Nome))
	}
	created, err := s.repo.CreateClient(ctx, c)
	if err != nil {
		return Client{}, err
	}
	s.record(ctx, "criar", "clientes", created.ID, map[string]any{"nome": created.Nome})
	return created, nil
}

func (s *Service) UpdateClient(ctx context.Context, id int64, c Client) error {
	c.Nome = strings.TrimSpace(c.Nome)
	if c.Nome == "" {
		return requiredErr("nome")
	}
	if c.RepresentanteID != nil {
		if _, err := s.repo.GetRepresentative(ctx, *c.RepresentanteID); err != nil {
			return fmt.Errorf("%w: representante não encontrado", httpx.ErrValidation)
		}
	}
	if existing, err := s.repo.FindClientByNome(ctx, c.Nome); err != nil {
		return err
	} else if existing != nil && existing.ID != id {
		return duplicateErr(fmt.Sprintf("Cliente '%s' já existe", c.Nome))
	}
	if err := s.repo.UpdateClient(ctx, id, c); err != nil {
		return err
	}
	s.record(ctx, "editar", "clientes", id, map[string]any{"nome": c.Nome})
	return nil
}

func (s *Service) DeleteClient(ctx context.Context, id int64) error {
	if err := s.repo.DeleteClient(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "excluir", "clientes", id, nil)
	return nil
}

// Representative operations

func (s *Service) ListRepresentatives(ctx context.Context, f ListFilters) ([]Representative, int, error) {
	return s.repo.ListRepresentatives(ctx, f)
}

func (s *Service) GetRepresentative(ctx context.Context, id int64) (Representative, error) {
	return s.repo.GetRepresentative(ctx, id)
}

func (s *Service) CreateRepresentative(ctx context.Context, rp Representative) (Representative, error) {
	rp.Nome = strings.TrimSpace(rp.Nome)
	if rp.Nome == "" {
		return Representative{}, requiredErr("nome")
	}
	if existing, err := s.repo.FindRepresentativeByNome(ctx, rp.Nome); err != nil {
		return Representative{}, err
	} else if existing != nil {
		return Representative{}, duplicateErr(fmt.Sprintf("Representante '%s' já existe", rp.Nome))
	}
	created, err := s.repo.CreateRepresentative(ctx, rp)
	if err != nil {
		return Representative{}, err
	}
	s.record(ctx, "criar", "representantes", created.ID, map[string]any{"nome": created.Nome})
	return created, nil
}

func (s *Service) UpdateRepresentative(ctx context.Context, id int64, rp Representative) error {
	rp.Nome = strings.TrimSpace(rp.Nome)
	if rp.Nome == "" {
		return requiredErr("nome")
	}
	if existing, err := s.repo.FindRepresentativeByNome(ctx, rp.Nome); err != nil {
		return err
	} else if existing != nil && existing.ID != id {
		return duplicateErr(fmt.Sprintf("Representante '%s' já existe", rp.Nome))
	}
	if err := s.repo.UpdateRepresentative(ctx, id, rp); err != nil {
		return err
	}
	s.record(ctx, "editar", "representantes", id, map[string]any{"nome": rp.Nome})
	return nil
}

func (s *Service) DeleteRepresentative(ctx context.Context, id int64) error {
	if err := s.repo.DeleteRepresentative(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "excluir", "representantes", id, nil)
	return nil
}

// Stats returns the totals for a cadastro entity.
func (s *Service) Stats(ctx context.Context, entity string) (Stats, error) {
	return s.repo.Stats(ctx, entity)
}
