package skus

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trama-erp/trama-erp/internal/audit"
	"github.com/trama-erp/trama-erp/internal/platform/httpx"
)

type memoryRepo struct {
	items  map[int64]SKU
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[int64]SKU{}}
}

func (m *memoryRepo) List(_ context.Context, f ListFilters) ([]SKU, int, error) {
	var out []SKU
	for _, s := range m.items {
		if f.Ativo != nil && s.Ativo != *f.Ativo {
			continue
		}
		out = append(out, s)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Get(_ context.Context, id int64) (SKU, error) {
	s, ok := m.items[id]
	if !ok {
		return SKU{}, httpx.ErrNotFound
	}
	return s, nil
}

func (m *memoryRepo) FindByCodigo(_ context.Context, codigo string) (*SKU, error) {
	for _, s := range m.items {
		if strings.EqualFold(s.Codigo, codigo) {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

func (m *memoryRepo) Create(_ context.Context, s SKU) (SKU, error) {
	m.nextID++
	s.ID = m.nextID
	m.items[s.ID] = s
	return s, nil
}

func (m *memoryRepo) Update(_ context.Context, id int64, s SKU) error {
	if _, ok := m.items[id]; !ok {
		return httpx.ErrNotFound
	}
	s.ID = id
	m.items[id] = s
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	s, ok := m.items[id]
	if !ok {
		return httpx.ErrNotFound
	}
	s.Ativo = false
	m.items[id] = s
	return nil
}

func (m *memoryRepo) Stats(_ context.Context) (Stats, error) {
	st := Stats{Total: len(m.items)}
	for _, s := range m.items {
		if s.Ativo {
			st.Ativos++
		}
	}
	return st, nil
}

type noopAudit struct{}

func (noopAudit) Record(context.Context, audit.Entry) error { return nil }

func newTestService() (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, noopAudit{}), repo
}

func TestCreateRejectsDuplicateCodigo(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, SKU{Codigo: "TEC-001", Nome: "Tecido liso", Ativo: true})
	require.NoError(t, err)

	_, err = svc.Create(ctx, SKU{Codigo: "tec-001", Nome: "Outro", Ativo: true})
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestCreateDefaultsUnit(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.Create(context.Background(), SKU{Codigo: "TEC-002", Nome: "Malha", Ativo: true})
	require.NoError(t, err)
	require.Equal(t, "UN", created.Unidade)
}

func TestCreateValidatesStockBounds(t *testing.T) {
	svc, _ := newTestService()
	min, max := 10.0, 5.0

	_, err := svc.Create(context.Background(), SKU{
		Codigo: "TEC-003", Nome: "Malha", EstoqueMinimo: &min, EstoqueMaximo: &max,
	})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	svc, _ := newTestService()
	preco := -1.0

	_, err := svc.Create(context.Background(), SKU{Codigo: "TEC-004", Nome: "Malha", PrecoVenda: &preco})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateKeepsOwnCodigo(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, SKU{Codigo: "TEC-005", Nome: "Malha", Ativo: true})
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, created.ID, SKU{Codigo: "TEC-005", Nome: "Malha PV", Ativo: true}))
	require.Equal(t, "Malha PV", repo.items[created.ID].Nome)
}

func TestDeleteIsSoft(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, SKU{Codigo: "TEC-006", Nome: "Malha", Ativo: true})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))
	require.False(t, repo.items[created.ID].Ativo)
}
