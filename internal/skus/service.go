package skus

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

// Service applies catalog rules: unique codigo, non-negative pricing
// and coherent stock bounds.
type Service struct {
	logger *slog.Logger
	repo   Repository
	audit  audit.Recorder
}

// NewService creates a new SKU service.
func NewService(logger *slog.Logger, repo Repository, recorder audit.Recorder) *Service {
	return &Service{logger: logger, repo: repo, audit: recorder}
}

func (s *Service) record(ctx context.Context, action string, id int64, meta map[string]any) {
	entry := audit.Entry{Action: action, Entity: "skus", EntityID: strconv.FormatInt(id, 10), Meta: meta}
	if p := authz.PrincipalFromContext(ctx); p != nil {
		entry.ActorID = p.UserID
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}

func validate(sku SKU) error {
	if sku.Codigo == "" {
		return fmt.Errorf("%w: campo obrigatório 'codigo' está vazio", httpx.ErrValidation)
	}
	if sku.Nome == "" {
		return fmt.Errorf("%w: campo obrigatório 'nome' está vazio", httpx.ErrValidation)
	}
	if sku.PrecoVenda != nil && *sku.PrecoVenda < 0 {
		return fmt.Errorf("%w: preço de venda não pode ser negativo", httpx.ErrValidation)
	}
	if sku.CustoMedio != nil && *sku.CustoMedio < 0 {
		return fmt.Errorf("%w: custo médio não pode ser negativo", httpx.ErrValidation)
	}
	if sku.EstoqueMinimo != nil && sku.EstoqueMaximo != nil && *sku.EstoqueMinimo > *sku.EstoqueMaximo {
		return fmt.Errorf("%w: estoque mínimo maior que o máximo", httpx.ErrValidation)
	}
	return nil
}

func (s *Service) List(ctx context.Context, f ListFilters) ([]SKU, int, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id int64) (SKU, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, sku SKU) (SKU, error) {
	sku.Codigo = strings.TrimSpace(sku.Codigo)
	sku.Nome = strings.TrimSpace(sku.Nome)
	if sku.Unidade == "" {
		sku.Unidade = "UN"
	}
	if err := validate(sku); err != nil {
		return SKU{}, err
	}
	if existing, err := s.repo.FindByCodigo(ctx, sku.Codigo); err != nil {
		return SKU{}, err
	} else if existing != nil {
		return SKU{}, fmt.Errorf("%w: SKU '%s' já existe", httpx.ErrDuplicate, sku.Codigo)
	}
	created, err := s.repo.Create(ctx, sku)
	if err != nil {
		return SKU{}, err
	}
	s.record(ctx, "criar", created.ID, map[string]any{"codigo": created.Codigo})
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, sku SKU) error {
	sku.Codigo = strings.TrimSpace(sku.Codigo)
	sku.Nome = strings.TrimSpace(sku.Nome)
	if err := validate(sku); err != nil {
		return err
	}
	if existing, err := s.repo.FindByCodigo(ctx, sku.Codigo); err != nil {
		return err
	} else if existing != nil && existing.ID != id {
		return fmt.Errorf("%w: SKU '%s' já existe", httpx.ErrDuplicate, sku.Codigo)
	}
	if err := s.repo.Update(ctx, id, sku); err != nil {
		return err
	}
	s.record(ctx, "editar", id, map[string]any{"codigo": sku.Codigo})
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "excluir", id, nil)
	return nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}
