// Package inventory tracks stock balances per SKU and depósito with a
// moving-average cost, posting every change as an immutable movement.
package inventory

import (
	"errors"
	"time"
)

// MovementType enumerates supported stock movements.
type MovementType string

const (
	MovementEntrada       MovementType = "ENTRADA"
	MovementSaida         MovementType = "SAIDA"
	MovementAjuste        MovementType = "AJUSTE"
	MovementTransferencia MovementType = "TRANSFERENCIA"
)

var validMovementTypes = map[MovementType]bool{
	MovementEntrada:       true,
	MovementSaida:         true,
	MovementAjuste:        true,
	MovementTransferencia: true,
}

// ErrNegativeStock rejects movements that would drive a balance below
// zero.
var ErrNegativeStock = errors.New("saldo insuficiente em estoque")

// ErrInvalidQuantity rejects zero-quantity movements.
var ErrInvalidQuantity = errors.New("quantidade inválida")

// ErrBalanceNotFound indicates a missing balance row.
var ErrBalanceNotFound = errors.New("saldo não encontrado")

// Movement is one posted stock change. Quantidade is signed: positive
// for inbound, negative for outbound.
type Movement struct {
	ID           int64        `json:"id"`
	Tipo         MovementType `json:"tipo"`
	SKUID        int64        `json:"skuId"`
	DepositoID   int64        `json:"depositoId"`
	Quantidade   float64      `json:"quantidade"`
	CustoUnit    float64      `json:"custoUnitario"`
	Observacao   *string      `json:"observacao,omitempty"`
	UsuarioID    int64        `json:"usuarioId"`
	RegistradoEm time.Time    `json:"registradoEm"`
}

// Balance is the current stock of one SKU in one depósito.
type Balance struct {
	SKUID       int64     `json:"skuId"`
	DepositoID  int64     `json:"depositoId"`
	Quantidade  float64   `json:"quantidade"`
	CustoMedio  float64   `json:"custoMedio"`
	AtualizadoEm time.Time `json:"atualizadoEm"`
}

// BalanceRow joins a balance with catalog names for the listing.
type BalanceRow struct {
	Balance
	SKUCodigo    string `json:"skuCodigo"`
	SKUNome      string `json:"skuNome"`
	DepositoNome string `json:"depositoNome"`
}

// ListFilters narrows the balance listing.
type ListFilters struct {
	SKUID      *int64
	DepositoID *int64
	Search     string
	Page       int
	Limit      int
}

// DashboardData aggregates stock for GET /estoque/dashboard.
type DashboardData struct {
	TotalSKUs       int     `json:"totalSkus"`
	ValorTotal      float64 `json:"valorTotal"`
	AbaixoDoMinimo  int     `json:"abaixoDoMinimo"`
	SemMovimentacao int     `json:"semMovimentacao"`
}
