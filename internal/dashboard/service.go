package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Service assembles the dashboard views, fanning the independent
// aggregate queries out concurrently.
type Service struct {
	logger *slog.Logger
	repo   *Repository
	cache  *Cache
}

// NewService builds the dashboard service.
func NewService(logger *slog.Logger, repo *Repository, cache *Cache) *Service {
	return &Service{logger: logger, repo: repo, cache: cache}
}

// metasMock carries the executive targets until the planning module
// owns them. Values mirror the seeded demo environment.
var metasMock = []Meta{
	{Nome: "Faturamento mensal", Meta: 1_500_000, Realizado: 1_120_000},
	{Nome: "Novos clientes", Meta: 40, Realizado: 28},
	{Nome: "Giro de estoque", Meta: 4.0, Realizado: 3.2},
}

// Overview builds the general dashboard, serving from cache unless
// refresh is set.
func (s *Service) Overview(ctx context.Context, refresh bool) (Overview, error) {
	const view = "overview"
	if !refresh {
		var cached Overview
		if ok, _ := s.cache.Get(ctx, view, &cached); ok {
			return cached, nil
		}
	}

	var (
		mu sync.Mutex
		ov = Overview{Cadastros: make(map[string]EntityCount, len(cadastroTables))}
	)
	g, ctx := errgroup.WithContext(ctx)
	for slug, table := range cadastroTables {
		slug, table := slug, table
		g.Go(func() error {
			c, err := s.repo.CountEntity(ctx, table)
			if err != nil {
				return err
			}
			mu.Lock()
			ov.Cadastros[slug] = c
			mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		c, err := s.repo.CountSKUs(ctx)
		if err == nil {
			ov.SKUs = c
		}
		return err
	})
	g.Go(func() error {
		c, err := s.repo.CountUsers(ctx)
		if err == nil {
			ov.Usuarios = c
		}
		return err
	})
	g.Go(func() error {
		v, err := s.repo.StockValue(ctx)
		if err == nil {
			ov.ValorEstoque = v
		}
		return err
	})
	g.Go(func() error {
		c, err := s.repo.PurchaseSummary(ctx)
		if err == nil {
			ov.Compras = c
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	ov.GeradoEm = time.Now().UTC()

	if err := s.cache.Set(ctx, view, ov); err != nil {
		s.logger.Warn("dashboard cache write failed", slog.Any("error", err))
	}
	return ov, nil
}

// Executive extends the overview with the target block.
func (s *Service) Executive(ctx context.Context, refresh bool) (Executive, error) {
	const view = "executive"
	if !refresh {
		var cached Executive
		if ok, _ := s.cache.Get(ctx, view, &cached); ok {
			return cached, nil
		}
	}

	ov, err := s.Overview(ctx, refresh)
	if err != nil {
		return Executive{}, err
	}
	ex := Executive{Overview: ov, Metas: metasMock}

	if err := s.cache.Set(ctx, view, ex); err != nil {
		s.logger.Warn("dashboard cache write failed", slog.Any("error", err))
	}
	return ex, nil
}

// Planning builds the per-família stock view.
func (s *Service) Planning(ctx context.Context, refresh bool) (Planning, error) {
	const view = "planning"
	if !refresh {
		var cached Planning
		if ok, _ := s.cache.Get(ctx, view, &cached); ok {
			return cached, nil
		}
	}

	rows, err := s.repo.PlanningByFamily(ctx)
	if err != nil {
		return Planning{}, err
	}
	p := Planning{Familias: rows, GeradoEm: time.Now().UTC()}

	if err := s.cache.Set(ctx, view, p); err != nil {
		s.logger.Warn("dashboard cache write failed", slog.Any("error", err))
	}
	return p, nil
}

// Warm refreshes all cached views; called by the background job.
func (s *Service) Warm(ctx context.Context) error {
	if err := s.cache.Invalidate(ctx, "overview", "executive", "planning"); err != nil {
		s.logger.Warn("dashboard cache invalidate failed", slog.Any("error", err))
	}
	if _, err := s.Overview(ctx, true); err != nil {
		return err
	}
	if _, err := s.Executive(ctx, false); err != nil {
		return err
	}
	_, err := s.Planning(ctx, true)
	return err
}
