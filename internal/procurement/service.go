package procurement

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/trama-erp/trama-erp/internal/audit"
	"github.com/trama-erp/trama-erp/internal/authz"
	"github.com/trama-erp/trama-erp/internal/inventory"
	"github.com/trama-erp/trama-erp/internal/shared"
)

// Service drives the requisição and ordem de compra state machines and
// posts received goods into stock.
type Service struct {
	logger      *slog.Logger
	repo        RepositoryPort
	audit       audit.Recorder
	idempotency *shared.IdempotencyStore
	stock       *inventory.Service
}

// NewService builds the procurement service. idempotency and stock may
// be nil in tests.
func NewService(logger *slog.Logger, repo RepositoryPort, recorder audit.Recorder, idem *shared.IdempotencyStore, stock *inventory.Service) *Service {
	return &Service{logger: logger, repo: repo, audit: recorder, idempotency: idem, stock: stock}
}

func (s *Service) recordAudit(ctx context.Context, action string, id int64, meta map[string]any) {
	entry := audit.Entry{Action: action, Entity: "compras", EntityID: strconv.FormatInt(id, 10), Meta: meta}
	if p := authz.PrincipalFromContext(ctx); p != nil {
		entry.ActorID = p.UserID
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", slog.String("entity", entry.Entity), slog.String("action", entry.Action), slog.Any("error", err))
	}
}

func actorID(ctx context.Context) int64 {
	if p := authz.PrincipalFromContext(ctx); p != nil {
		return p.UserID
	}
	return 0
}

// Requisições

// RequisicaoLineInput is one requested item.
type RequisicaoLineInput struct {
	SKUID      int64
	Quantidade float64
	Observacao *string
}

// CreateRequisicao persists header and lines.
func (s *Service) CreateRequisicao(ctx context.Context, obs *string, lines []RequisicaoLineInput) (Requisicao, error) {
	if len(lines) == 0 {
		return Requisicao{}, fmt.Errorf("%w: requisição precisa de ao menos uma linha", ErrValidation)
	}
	numero, err := s.repo.NextRequisicaoNumber(ctx)
	if err != nil {
		return Requisicao{}, err
	}
	req := Requisicao{Numero: numero, SolicitanteID: actorID(ctx), Status: RequisicaoAberta, Observacao: obs}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreateRequisicao(ctx, req)
		if err != nil {
			return err
		}
		req.ID = id
		for _, line := range lines {
			if line.SKUID == 0 || line.Quantidade <= 0 {
				return fmt.Errorf("%w: linha de requisição inválida", ErrValidation)
			}
			if err := tx.InsertRequisicaoLinha(ctx, RequisicaoLinha{
				RequisicaoID: id, SKUID: line.SKUID, Quantidade: line.Quantidade, Observacao: line.Observacao,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Requisicao{}, err
	}
	s.recordAudit(ctx, "requisicao:criar", req.ID, map[string]any{"numero": req.Numero})
	return req, nil
}

func (s *Service) GetRequisicao(ctx context.Context, id int64) (Requisicao, error) {
	return s.repo.GetRequisicao(ctx, id)
}

func (s *Service) ListRequisicoes(ctx context.Context, status *RequisicaoStatus, page, limit int) ([]Requisicao, int, error) {
	return s.repo.ListRequisicoes(ctx, status, page, limit)
}

// CancelRequisicao marks an open requisition cancelled.
func (s *Service) CancelRequisicao(ctx context.Context, id int64) error {
	req, err := s.repo.GetRequisicao(ctx, id)
	if err != nil {
		return err
	}
	if req.Status != RequisicaoAberta {
		return ErrInvalidState
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.UpdateRequisicaoStatus(ctx, id, RequisicaoCancelada)
	})
	if err != nil {
		return err
	}
	s.recordAudit(ctx, "requisicao:cancelar", id, nil)
	return nil
}

// Ordens de compra

// POLineInput is one ordered item.
type POLineInput struct {
	SKUID      int64
	Quantidade float64
	PrecoUnit  float64
}

// CreatePOInput creates a purchase order, optionally consuming a
// requisition.
type CreatePOInput struct {
	FornecedorID   int64
	RequisicaoID   *int64
	Observacao     *string
	Linhas         []POLineInput
	IdempotencyKey string
}

// CreatePO creates a draft order. When a requisition is referenced its
// lines seed the order and the requisition is marked atendida.
func (s *Service) CreatePO(ctx context.Context, input CreatePOInput) (PurchaseOrder, error) {
	if input.FornecedorID == 0 {
		return PurchaseOrder{}, fmt.Errorf("%w: fornecedor é obrigatório", ErrValidation)
	}

	lines := input.Linhas
	if input.RequisicaoID != nil {
		req, err := s.repo.GetRequisicao(ctx, *input.RequisicaoID)
		if err != nil {
			return PurchaseOrder{}, err
		}
		if req.Status != RequisicaoAberta {
			return PurchaseOrder{}, ErrInvalidState
		}
		for _, l := range req.Linhas {
			lines = append(lines, POLineInput{SKUID: l.SKUID, Quantidade: l.Quantidade})
		}
	}
	if len(lines) == 0 {
		return PurchaseOrder{}, fmt.Errorf("%w: ordem de compra precisa de ao menos uma linha", ErrValidation)
	}

	insertedKey := false
	if s.idempotency != nil && input.IdempotencyKey != "" {
		if err := s.idempotency.CheckAndInsert(ctx, input.IdempotencyKey, "compras"); err != nil {
			return PurchaseOrder{}, err
		}
		insertedKey = true
	}

	numero, err := s.repo.NextPONumber(ctx)
	if err != nil {
		return PurchaseOrder{}, err
	}
	po := PurchaseOrder{Numero: numero, FornecedorID: input.FornecedorID, Status: POStatusDraft, Observacao: input.Observacao}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreatePO(ctx, po)
		if err != nil {
			return err
		}
		po.ID = id
		for _, l := range lines {
			if l.SKUID == 0 || l.Quantidade <= 0 || l.PrecoUnit < 0 {
				return fmt.Errorf("%w: linha de ordem de compra inválida", ErrValidation)
			}
			if err := tx.InsertPOLine(ctx, POLine{POID: id, SKUID: l.SKUID, Quantidade: l.Quantidade, PrecoUnit: l.PrecoUnit}); err != nil {
				return err
			}
		}
		if input.RequisicaoID != nil {
			return tx.UpdateRequisicaoStatus(ctx, *input.RequisicaoID, RequisicaoAtendida)
		}
		return nil
	})
	if err != nil {
		if insertedKey {
			_ = s.idempotency.Delete(ctx, input.IdempotencyKey)
		}
		return PurchaseOrder{}, err
	}
	s.recordAudit(ctx, "oc:criar", po.ID, map[string]any{"numero": po.Numero})
	return po, nil
}

func (s *Service) GetPO(ctx context.Context, id int64) (PurchaseOrder, error) {
	return s.repo.GetPO(ctx, id)
}

func (s *Service) ListPOs(ctx context.Context, f ListFilters) ([]PurchaseOrder, int, error) {
	return s.repo.ListPOs(ctx, f)
}

// ApprovePO transitions DRAFT to APPROVED.
func (s *Service) ApprovePO(ctx context.Context, id int64) error {
	po, err := s.repo.GetPO(ctx, id)
	if err != nil {
		return err
	}
	if po.Status != POStatusDraft {
		return ErrInvalidState
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.UpdatePOStatus(ctx, id, POStatusApproved); err != nil {
			return err
		}
		return tx.SetPOApproval(ctx, id, actorID(ctx))
	})
	if err != nil {
		return err
	}
	s.recordAudit(ctx, "oc:aprovar", id, map[string]any{"numero": po.Numero})
	return nil
}

// CancelPO cancels a draft or approved order.
func (s *Service) CancelPO(ctx context.Context, id int64) error {
	po, err := s.repo.GetPO(ctx, id)
	if err != nil {
		return err
	}
	if po.Status != POStatusDraft && po.Status != POStatusApproved {
		return ErrInvalidState
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.UpdatePOStatus(ctx, id, POStatusCancelled)
	})
	if err != nil {
		return err
	}
	s.recordAudit(ctx, "oc:cancelar", id, map[string]any{"numero": po.Numero})
	return nil
}

// ReceiveInput records goods received against an approved order.
type ReceiveInput struct {
	POID       int64
	DepositoID int64
	Linhas     []ReceiveLineInput
}

// ReceiveLineInput is one received line.
type ReceiveLineInput struct {
	LineID     int64
	Quantidade float64
}

// Receive posts received quantities and the matching ENTRADA stock
// movements. The order closes when every line is fully received.
func (s *Service) Receive(ctx context.Context, input ReceiveInput) error {
	if input.DepositoID == 0 || len(input.Linhas) == 0 {
		return fmt.Errorf("%w: depósito e linhas são obrigatórios", ErrValidation)
	}
	po, err := s.repo.GetPO(ctx, input.POID)
	if err != nil {
		return err
	}
	if po.Status != POStatusApproved {
		return ErrInvalidState
	}

	linesByID := make(map[int64]POLine, len(po.Linhas))
	for _, l := range po.Linhas {
		linesByID[l.ID] = l
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		for _, rcv := range input.Linhas {
			if rcv.Quantidade <= 0 {
				return fmt.Errorf("%w: quantidade recebida inválida", ErrValidation)
			}
			if _, ok := linesByID[rcv.LineID]; !ok {
				return fmt.Errorf("%w: linha %d não pertence à ordem", ErrValidation, rcv.LineID)
			}
			if err := tx.AddReceivedQty(ctx, rcv.LineID, rcv.Quantidade); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.stock != nil {
		for _, rcv := range input.Linhas {
			line := linesByID[rcv.LineID]
			obs := fmt.Sprintf("Recebimento %s", po.Numero)
			if _, err := s.stock.Post(ctx, inventory.MovementInput{
				Tipo:       inventory.MovementEntrada,
				SKUID:      line.SKUID,
				DepositoID: input.DepositoID,
				Quantidade: rcv.Quantidade,
				CustoUnit:  line.PrecoUnit,
				Observacao: &obs,
			}); err != nil {
				return err
			}
		}
	}

	// close when fully received
	updated, err := s.repo.GetPO(ctx, input.POID)
	if err != nil {
		return err
	}
	complete := true
	for _, l := range updated.Linhas {
		if l.Recebida < l.Quantidade {
			complete = false
			break
		}
	}
	if complete {
		if err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			return tx.UpdatePOStatus(ctx, input.POID, POStatusClosed)
		}); err != nil {
			return err
		}
	}
	s.recordAudit(ctx, "oc:receber", input.POID, map[string]any{"numero": po.Numero, "fechada": complete})
	return nil
}
