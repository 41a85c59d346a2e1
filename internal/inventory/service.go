package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/trama-erp/trama-erp/internal/audit"
	"github.com/trama-erp/trama-erp/internal/authz"
)

// Service posts stock movements and keeps the moving-average cost.
type Service struct {
	logger   *slog.Logger
	repo     RepositoryPort
	audit    audit.Recorder
	allowNeg bool
}

// ServiceConfig tunes posting behaviour.
type ServiceConfig struct {
	// AllowNegative lets balances go below zero; used only in test
	// environments with partial data loads.
	AllowNegative bool
}

// NewService builds the inventory service.
func NewService(logger *slog.Logger, repo RepositoryPort, recorder audit.Recorder, cfg ServiceConfig) *Service {
	return &Service{logger: logger, repo: repo, audit: recorder, allowNeg: cfg.AllowNegative}
}

// record writes an audit entry; failures are logged and swallowed so a
// broken log table never blocks a posting.
func (s *Service) record(ctx context.Context, entry audit.Entry) {
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("audit record failed", slog.String("entity", entry.Entity), slog.String("action", entry.Action), slog.Any("error", err))
	}
}

// MovementInput is a posting request. Quantidade is signed except for
// ENTRADA/SAIDA which take absolute values.
type MovementInput struct {
	Tipo       MovementType
	SKUID      int64
	DepositoID int64
	Quantidade float64
	CustoUnit  float64
	Observacao *string
}

// Post records a movement and updates the balance atomically.
func (s *Service) Post(ctx context.Context, input MovementInput) (Movement, error) {
	if !validMovementTypes[input.Tipo] {
		return Movement{}, fmt.Errorf("tipo de movimento inválido: %s", input.Tipo)
	}
	if input.SKUID == 0 || input.DepositoID == 0 {
		return Movement{}, errors.New("sku e depósito são obrigatórios")
	}
	if input.Quantidade == 0 {
		return Movement{}, ErrInvalidQuantity
	}

	qtyChange := input.Quantidade
	switch input.Tipo {
	case MovementEntrada:
		qtyChange = math.Abs(qtyChange)
	case MovementSaida:
		qtyChange = -math.Abs(qtyChange)
	}

	now := time.Now().UTC()
	movement := Movement{
		Tipo:         input.Tipo,
		SKUID:        input.SKUID,
		DepositoID:   input.DepositoID,
		Quantidade:   qtyChange,
		Observacao:   input.Observacao,
		RegistradoEm: now,
	}
	if p := authz.PrincipalFromContext(ctx); p != nil {
		movement.UsuarioID = p.UserID
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		balance, err := tx.GetBalanceForUpdate(ctx, input.SKUID, input.DepositoID)
		if err != nil && !errors.Is(err, ErrBalanceNotFound) {
			return err
		}
		if errors.Is(err, ErrBalanceNotFound) {
			balance = Balance{SKUID: input.SKUID, DepositoID: input.DepositoID}
		}

		newQty := balance.Quantidade + qtyChange
		if !s.allowNeg && newQty < -0.0001 {
			return ErrNegativeStock
		}

		var unitCost, newAvg float64
		if qtyChange > 0 {
			unitCost = input.CustoUnit
			totalCost := balance.Quantidade*balance.CustoMedio + qtyChange*unitCost
			if newQty != 0 {
				newAvg = totalCost / newQty
			}
		} else {
			unitCost = balance.CustoMedio
			if math.Abs(newQty) < 0.0001 {
				newQty = 0
			}
			if newQty <= 0 {
				newAvg = 0
			} else {
				newAvg = balance.CustoMedio
			}
		}
		movement.CustoUnit = unitCost

		id, err := tx.InsertMovement(ctx, movement)
		if err != nil {
			return err
		}
		movement.ID = id

		balance.Quantidade = newQty
		balance.CustoMedio = newAvg
		return tx.UpsertBalance(ctx, balance)
	})
	if err != nil {
		return Movement{}, err
	}

	s.record(ctx, audit.Entry{
		ActorID:  movement.UsuarioID,
		Action:   "estoque:" + string(input.Tipo),
		Entity:   "movimentos_estoque",
		EntityID: strconv.FormatInt(movement.ID, 10),
		Meta: map[string]any{
			"skuId":      input.SKUID,
			"depositoId": input.DepositoID,
			"quantidade": qtyChange,
		},
	})
	return movement, nil
}

// Transfer moves stock between depósitos as a SAIDA in the source and
// an ENTRADA in the destination, both inside callers' view as one
// operation.
func (s *Service) Transfer(ctx context.Context, skuID, fromDeposito, toDeposito int64, qty float64, obs *string) (Movement, Movement, error) {
	if fromDeposito == toDeposito {
		return Movement{}, Movement{}, errors.New("depósitos de origem e destino devem ser diferentes")
	}
	qty = math.Abs(qty)
	out, err := s.Post(ctx, MovementInput{
		Tipo: MovementTransferencia, SKUID: skuID, DepositoID: fromDeposito, Quantidade: -qty, Observacao: obs,
	})
	if err != nil {
		return Movement{}, Movement{}, err
	}
	in, err := s.Post(ctx, MovementInput{
		Tipo: MovementTransferencia, SKUID: skuID, DepositoID: toDeposito, Quantidade: qty,
		CustoUnit: out.CustoUnit, Observacao: obs,
	})
	if err != nil {
		// roll the source back with a compensating entry
		_, _ = s.Post(ctx, MovementInput{
			Tipo: MovementTransferencia, SKUID: skuID, DepositoID: fromDeposito, Quantidade: qty,
			CustoUnit: out.CustoUnit, Observacao: obs,
		})
		return Movement{}, Movement{}, err
	}
	return out, in, nil
}

func (s *Service) ListBalances(ctx context.Context, f ListFilters) ([]BalanceRow, int, error) {
	return s.repo.ListBalances(ctx, f)
}

func (s *Service) ListMovements(ctx context.Context, skuID, depositoID int64, limit int) ([]Movement, error) {
	if skuID == 0 || depositoID == 0 {
		return nil, errors.New("sku e depósito são obrigatórios")
	}
	return s.repo.ListMovements(ctx, skuID, depositoID, limit)
}

func (s *Service) Dashboard(ctx context.Context) (DashboardData, error) {
	return s.repo.Dashboard(ctx)
}
