package procurement

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trama-erp/trama-erp/internal/audit"
)

type memoryRepo struct {
	pos        map[int64]*PurchaseOrder
	reqs       map[int64]*Requisicao
	nextID     int64
	nextNumber int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{pos: map[int64]*PurchaseOrder{}, reqs: map[int64]*Requisicao{}}
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return fn(ctx, m)
}

func (m *memoryRepo) NextPONumber(context.Context) (string, error) {
	m.nextNumber++
	return fmt.Sprintf("OC-%06d", m.nextNumber), nil
}

func (m *memoryRepo) NextRequisicaoNumber(context.Context) (string, error) {
	m.nextNumber++
	return fmt.Sprintf("RC-%06d", m.nextNumber), nil
}

func (m *memoryRepo) ListPOs(context.Context, ListFilters) ([]PurchaseOrder, int, error) {
	return nil, 0, nil
}

func (m *memoryRepo) GetPO(_ context.Context, id int64) (PurchaseOrder, error) {
	po, ok := m.pos[id]
	if !ok {
		return PurchaseOrder{}, fmt.Errorf("ordem %d não encontrada", id)
	}
	return *po, nil
}

func (m *memoryRepo) GetRequisicao(_ context.Context, id int64) (Requisicao, error) {
	req, ok := m.reqs[id]
	if !ok {
		return Requisicao{}, fmt.Errorf("requisição %d não encontrada", id)
	}
	return *req, nil
}

func (m *memoryRepo) ListRequisicoes(context.Context, *RequisicaoStatus, int, int) ([]Requisicao, int, error) {
	return nil, 0, nil
}

func (m *memoryRepo) CreateRequisicao(_ context.Context, r Requisicao) (int64, error) {
	m.nextID++
	r.ID = m.nextID
	m.reqs[r.ID] = &r
	return r.ID, nil
}

func (m *memoryRepo) InsertRequisicaoLinha(_ context.Context, l RequisicaoLinha) error {
	req := m.reqs[l.RequisicaoID]
	req.Linhas = append(req.Linhas, l)
	return nil
}

func (m *memoryRepo) UpdateRequisicaoStatus(_ context.Context, id int64, status RequisicaoStatus) error {
	m.reqs[id].Status = status
	return nil
}

func (m *memoryRepo) CreatePO(_ context.Context, po PurchaseOrder) (int64, error) {
	m.nextID++
	po.ID = m.nextID
	m.pos[po.ID] = &po
	return po.ID, nil
}

func (m *memoryRepo) InsertPOLine(_ context.Context, l POLine) error {
	po := m.pos[l.POID]
	l.ID = int64(len(po.Linhas) + 1)
	po.Linhas = append(po.Linhas, l)
	return nil
}

func (m *memoryRepo) UpdatePOStatus(_ context.Context, id int64, status POStatus) error {
	m.pos[id].Status = status
	return nil
}

func (m *memoryRepo) SetPOApproval(_ context.Context, id int64, actorID int64) error {
	m.pos[id].AprovadoPor = &actorID
	return nil
}

func (m *memoryRepo) AddReceivedQty(_ context.Context, lineID int64, qty float64) error {
	for _, po := range m.pos {
		for i := range po.Linhas {
			if po.Linhas[i].ID == lineID {
				if po.Linhas[i].Recebida+qty > po.Linhas[i].Quantidade {
					return fmt.Errorf("%w: quantidade recebida excede a pedida", ErrValidation)
				}
				po.Linhas[i].Recebida += qty
				return nil
			}
		}
	}
	return fmt.Errorf("linha %d não encontrada", lineID)
}

type noopAudit struct{}

func (noopAudit) Record(context.Context, audit.Entry) error { return nil }

func newTestService() (*Service, *memoryRepo) {
	repo := newMemoryRepo()
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, noopAudit{}, nil, nil), repo
}

func draftPO(t *testing.T, svc *Service) PurchaseOrder {
	t.Helper()
	po, err := svc.CreatePO(context.Background(), CreatePOInput{
		FornecedorID: 1,
		Linhas:       []POLineInput{{SKUID: 10, Quantidade: 5, PrecoUnit: 2}},
	})
	require.NoError(t, err)
	return po
}

func TestCreatePOAssignsSequentialNumber(t *testing.T) {
	svc, _ := newTestService()

	first := draftPO(t, svc)
	second := draftPO(t, svc)
	require.Equal(t, "OC-000001", first.Numero)
	require.Equal(t, "OC-000002", second.Numero)
	require.Equal(t, POStatusDraft, first.Status)
}

func TestCreatePORequiresLines(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreatePO(context.Background(), CreatePOInput{FornecedorID: 1})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreatePOFromRequisicao(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	req, err := svc.CreateRequisicao(ctx, nil, []RequisicaoLineInput{{SKUID: 3, Quantidade: 7}})
	require.NoError(t, err)

	po, err := svc.CreatePO(ctx, CreatePOInput{FornecedorID: 1, RequisicaoID: &req.ID})
	require.NoError(t, err)

	stored, err := svc.GetPO(ctx, po.ID)
	require.NoError(t, err)
	require.Len(t, stored.Linhas, 1)
	require.Equal(t, int64(3), stored.Linhas[0].SKUID)
	require.Equal(t, RequisicaoAtendida, repo.reqs[req.ID].Status)

	// consumed requisitions cannot seed another order
	_, err = svc.CreatePO(ctx, CreatePOInput{FornecedorID: 1, RequisicaoID: &req.ID})
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestApprovePOOnlyFromDraft(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	po := draftPO(t, svc)
	require.NoError(t, svc.ApprovePO(ctx, po.ID))
	require.Equal(t, POStatusApproved, repo.pos[po.ID].Status)

	require.ErrorIs(t, svc.ApprovePO(ctx, po.ID), ErrInvalidState)
}

func TestCancelPORejectsClosed(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	po := draftPO(t, svc)
	repo.pos[po.ID].Status = POStatusClosed
	require.ErrorIs(t, svc.CancelPO(ctx, po.ID), ErrInvalidState)
}

func TestReceiveClosesWhenComplete(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	po := draftPO(t, svc)
	require.NoError(t, svc.ApprovePO(ctx, po.ID))
	lineID := repo.pos[po.ID].Linhas[0].ID

	require.NoError(t, svc.Receive(ctx, ReceiveInput{
		POID: po.ID, DepositoID: 1,
		Linhas: []ReceiveLineInput{{LineID: lineID, Quantidade: 2}},
	}))
	require.Equal(t, POStatusApproved, repo.pos[po.ID].Status)

	require.NoError(t, svc.Receive(ctx, ReceiveInput{
		POID: po.ID, DepositoID: 1,
		Linhas: []ReceiveLineInput{{LineID: lineID, Quantidade: 3}},
	}))
	require.Equal(t, POStatusClosed, repo.pos[po.ID].Status)
}

func TestReceiveRejectsOverDelivery(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	po := draftPO(t, svc)
	require.NoError(t, svc.ApprovePO(ctx, po.ID))
	lineID := repo.pos[po.ID].Linhas[0].ID

	err := svc.Receive(ctx, ReceiveInput{
		POID: po.ID, DepositoID: 1,
		Linhas: []ReceiveLineInput{{LineID: lineID, Quantidade: 9}},
	})
	require.ErrorIs(t, err, ErrValidation)
}
