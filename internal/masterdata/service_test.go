package masterdata

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trama-erp/trama-erp/internal/audit"
	"github.com/trama-erp/trama-erp/internal/authz"
	"github.com/trama-erp/trama-erp/internal/platform/httpx"
)

// memoryRepo fakes the entities the service tests exercise. The
// embedded Repository panics on anything not overridden, which keeps
// accidental coverage gaps loud.
type memoryRepo struct {
	Repository
	colors map[int64]Color
	sizes  map[int64]Size
	reps   map[int64]Representative
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		colors: map[int64]Color{},
		sizes:  map[int64]Size{},
		reps:   map[int64]Representative{},
	}
}

func (m *memoryRepo) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memoryRepo) GetColor(_ context.Context, id int64) (Color, error) {
	c, ok := m.colors[id]
	if !ok {
		return Color{}, httpx.ErrNotFound
	}
	return c, nil
}

func (m *memoryRepo) FindColorByNome(_ context.Context, nome string) (*Color, error) {
	for _, c := range m.colors {
		if strings.EqualFold(c.Nome, nome) {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (m *memoryRepo) CreateColor(_ context.Context, c Color) (Color, error) {
	c.ID = m.id()
	m.colors[c.ID] = c
	return c, nil
}

func (m *memoryRepo) UpdateColor(_ context.Context, id int64, c Color) error {
	if _, ok := m.colors[id]; !ok {
		return httpx.ErrNotFound
	}
	c.ID = id
	m.colors[id] = c
	return nil
}

func (m *memoryRepo) DeleteColor(_ context.Context, id int64) error {
	c, ok := m.colors[id]
	if !ok {
		return httpx.ErrNotFound
	}
	c.Ativo = false
	m.colors[id] = c
	return nil
}

func (m *memoryRepo) FindSizeByNome(_ context.Context, nome string) (*Size, error) {
	for _, s := range m.sizes {
		if strings.EqualFold(s.Nome, nome) {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

func (m *memoryRepo) CreateSize(_ context.Context, s Size) (Size, error) {
	s.ID = m.id()
	m.sizes[s.ID] = s
	return s, nil
}

func (m *memoryRepo) DeleteSize(_ context.Context, id int64) error {
	if _, ok := m.sizes[id]; !ok {
		return httpx.ErrNotFound
	}
	delete(m.sizes, id)
	return nil
}

func (m *memoryRepo) GetRepresentative(_ context.Context, id int64) (Representative, error) {
	rp, ok := m.reps[id]
	if !ok {
		return Representative{}, httpx.ErrNotFound
	}
	return rp, nil
}

func (m *memoryRepo) FindClientByNome(_ context.Context, _ string) (*Client, error) {
	return nil, nil
}

func (m *memoryRepo) CreateClient(_ context.Context, c Client) (Client, error) {
	c.ID = m.id()
	return c, nil
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

func TestCreateColorRejectsDuplicateName(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateColor(ctx, Color{Nome: "Azul", Ativo: true})
	require.NoError(t, err)

	_, err = svc.CreateColor(ctx, Color{Nome: "azul", Ativo: true})
	require.ErrorIs(t, err, httpx.ErrDuplicate)
	require.Contains(t, err.Error(), "Cor 'azul' já existe")
}

func TestCreateColorTrimsAndRequiresName(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateColor(ctx, Color{Nome: "   "})
	require.ErrorIs(t, err, httpx.ErrValidation)

	created, err := svc.CreateColor(ctx, Color{Nome: "  Verde  ", Ativo: true})
	require.NoError(t, err)
	require.Equal(t, "Verde", created.Nome)
}

func TestUpdateColorAllowsKeepingOwnName(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateColor(ctx, Color{Nome: "Azul", Ativo: true})
	require.NoError(t, err)

	legado := "AZ-01"
	require.NoError(t, svc.UpdateColor(ctx, created.ID, Color{Nome: "Azul", Legado: &legado, Ativo: true}))
	require.Equal(t, &legado, repo.colors[created.ID].Legado)

	other, err := svc.CreateColor(ctx, Color{Nome: "Verde", Ativo: true})
	require.NoError(t, err)
	err = svc.UpdateColor(ctx, other.ID, Color{Nome: "Azul", Ativo: true})
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

func TestDeleteColorIsSoft(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateColor(ctx, Color{Nome: "Azul", Ativo: true})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteColor(ctx, created.ID))

	stored, err := svc.GetColor(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, stored.Ativo)
}

func TestDeleteSizeRemovesRecord(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateSize(ctx, Size{Nome: "M", Ordem: 2, Ativo: true})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteSize(ctx, created.ID))
	require.Empty(t, repo.sizes)

	require.ErrorIs(t, svc.DeleteSize(ctx, created.ID), httpx.ErrNotFound)
}

func TestCreateClientValidatesRepresentative(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	missing := int64(99)
	_, err := svc.CreateClient(ctx, Client{Nome: "Tecelagem Sul", RepresentanteID: &missing})
	require.ErrorIs(t, err, httpx.ErrValidation)

	repo.reps[1] = Representative{ID: 1, Nome: "Ana", Ativo: true}
	one := int64(1)
	_, err = svc.CreateClient(ctx, Client{Nome: "Tecelagem Sul", RepresentanteID: &one, Ativo: true})
	require.NoError(t, err)
}

func TestMutationsAreAudited(t *testing.T) {
	svc, _, rec := newTestService()
	ctx := authz.ContextWithPrincipal(context.Background(), &authz.Principal{UserID: 7})

	created, err := svc.CreateColor(ctx, Color{Nome: "Azul", Ativo: true})
	require.NoError(t, err)
	require.NoError(t, svc.UpdateColor(ctx, created.ID, Color{Nome: "Azul claro", Ativo: true}))
	require.NoError(t, svc.DeleteColor(ctx, created.ID))

	require.Len(t, rec.entries, 3)
	require.Equal(t, "criar", rec.entries[0].Action)
	require.Equal(t, "editar", rec.entries[1].Action)
	require.Equal(t, "excluir", rec.entries[2].Action)
	for _, e := range rec.entries {
		require.Equal(t, int64(7), e.ActorID)
		require.Equal(t, "cores", e.Entity)
	}
}
