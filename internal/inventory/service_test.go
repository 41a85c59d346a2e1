package inventory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trama-erp/trama-erp/internal/audit"
)

type memoryRepo struct {
	balances  map[[2]int64]Balance
	movements []Movement
	nextID    int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{balances: map[[2]int64]Balance{}}
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, m)
}

func (m *memoryRepo) GetBalanceForUpdate(_ context.Context, skuID, depositoID int64) (Balance, error) {
	b, ok := m.balances[[2]int64{skuID, depositoID}]
	if !ok {
		return Balance{}, ErrBalanceNotFound
	}
	return b, nil
}

func (m *memoryRepo) UpsertBalance(_ context.Context, b Balance) error {
	b.AtualizadoEm = time.Now()
	m.balances[[2]int64{b.SKUID, b.DepositoID}] = b
	return nil
}

func (m *memoryRepo) InsertMovement(_ context.Context, mv Movement) (int64, error) {
	m.nextID++
	mv.ID = m.nextID
	m.movements = append(m.movements, mv)
	return mv.ID, nil
}

func (m *memoryRepo) ListBalances(context.Context, ListFilters) ([]BalanceRow, int, error) {
	return nil, 0, nil
}

func (m *memoryRepo) ListMovements(context.Context, int64, int64, int) ([]Movement, error) {
	return m.movements, nil
}

func (m *memoryRepo) Dashboard(context.Context) (DashboardData, error) {
	return DashboardData{}, nil
}

type noopAudit struct{}

func (noopAudit) Record(context.Context, audit.Entry) error { return nil }

type failingAudit struct{}

func (failingAudit) Record(context.Context, audit.Entry) error {
	return errors.New("tabela de logs indisponível")
}

func newTestService(allowNeg bool) (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, noopAudit{}, ServiceConfig{AllowNegative: allowNeg}), repo
}

func TestPostSucceedsAndWarnsWhenAuditFails(t *testing.T) {
	var logs bytes.Buffer
	repo := newMemoryRepo()
	svc := NewService(slog.New(slog.NewTextHandler(&logs, nil)), repo, failingAudit{}, ServiceConfig{})

	_, err := svc.Post(context.Background(), MovementInput{Tipo: MovementEntrada, SKUID: 1, DepositoID: 1, Quantidade: 5, CustoUnit: 2})
	require.NoError(t, err)
	require.Len(t, repo.movements, 1)
	require.Contains(t, logs.String(), "audit record failed")
}

func TestPostEntradaUpdatesMovingAverage(t *testing.T) {
	svc, repo := newTestService(false)
	ctx := context.Background()

	_, err := svc.Post(ctx, MovementInput{Tipo: MovementEntrada, SKUID: 1, DepositoID: 1, Quantidade: 10, CustoUnit: 5})
	require.NoError(t, err)

	_, err = svc.Post(ctx, MovementInput{Tipo: MovementEntrada, SKUID: 1, DepositoID: 1, Quantidade: 10, CustoUnit: 10})
	require.NoError(t, err)

	b := repo.balances[[2]int64{1, 1}]
	require.InDelta(t, 20, b.Quantidade, 0.0001)
	require.InDelta(t, 7.5, b.CustoMedio, 0.0001)
}

func TestPostSaidaKeepsAverageCost(t *testing.T) {
	svc, repo := newTestService(false)
	ctx := context.Background()

	_, err := svc.Post(ctx, MovementInput{Tipo: MovementEntrada, SKUID: 1, DepositoID: 1, Quantidade: 10, CustoUnit: 8})
	require.NoError(t, err)

	out, err := svc.Post(ctx, MovementInput{Tipo: MovementSaida, SKUID: 1, DepositoID: 1, Quantidade: 4})
	require.NoError(t, err)
	require.InDelta(t, 8, out.CustoUnit, 0.0001)

	b := repo.balances[[2]int64{1, 1}]
	require.InDelta(t, 6, b.Quantidade, 0.0001)
	require.InDelta(t, 8, b.CustoMedio, 0.0001)
}

func TestPostRejectsNegativeStock(t *testing.T) {
	svc, _ := newTestService(false)
	ctx := context.Background()

	_, err := svc.Post(ctx, MovementInput{Tipo: MovementSaida, SKUID: 1, DepositoID: 1, Quantidade: 5})
	require.ErrorIs(t, err, ErrNegativeStock)
}

func TestPostAllowsNegativeWhenConfigured(t *testing.T) {
	svc, repo := newTestService(true)
	ctx := context.Background()

	_, err := svc.Post(ctx, MovementInput{Tipo: MovementSaida, SKUID: 1, DepositoID: 1, Quantidade: 5})
	require.NoError(t, err)
	require.InDelta(t, -5, repo.balances[[2]int64{1, 1}].Quantidade, 0.0001)
}

func TestPostRejectsZeroQuantity(t *testing.T) {
	svc, _ := newTestService(false)

	_, err := svc.Post(context.Background(), MovementInput{Tipo: MovementAjuste, SKUID: 1, DepositoID: 1})
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestTransferMovesAtSourceCost(t *testing.T) {
	svc, repo := newTestService(false)
	ctx := context.Background()

	_, err := svc.Post(ctx, MovementInput{Tipo: MovementEntrada, SKUID: 1, DepositoID: 1, Quantidade: 10, CustoUnit: 12})
	require.NoError(t, err)

	out, in, err := svc.Transfer(ctx, 1, 1, 2, 4, nil)
	require.NoError(t, err)
	require.InDelta(t, -4, out.Quantidade, 0.0001)
	require.InDelta(t, 4, in.Quantidade, 0.0001)
	require.InDelta(t, 12, in.CustoUnit, 0.0001)

	require.InDelta(t, 6, repo.balances[[2]int64{1, 1}].Quantidade, 0.0001)
	dst := repo.balances[[2]int64{1, 2}]
	require.InDelta(t, 4, dst.Quantidade, 0.0001)
	require.InDelta(t, 12, dst.CustoMedio, 0.0001)
}

func TestTransferRejectsSameDeposito(t *testing.T) {
	svc, _ := newTestService(false)

	_, _, err := svc.Transfer(context.Background(), 1, 1, 1, 4, nil)
	require.Error(t, err)
}
