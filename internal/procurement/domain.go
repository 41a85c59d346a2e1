// Package procurement manages requisições de compra and ordens de
// compra, feeding received goods into the stock module.
package procurement

import (
	"errors"
	"time"
)

// RequisicaoStatus enumerates requisition states.
type RequisicaoStatus string

const (
	RequisicaoAberta    RequisicaoStatus = "ABERTA"
	RequisicaoAtendida  RequisicaoStatus = "ATENDIDA"
	RequisicaoCancelada RequisicaoStatus = "CANCELADA"
)

// POStatus enumerates purchase order states.
type POStatus string

const (
	POStatusDraft     POStatus = "DRAFT"
	POStatusApproved  POStatus = "APPROVED"
	POStatusClosed    POStatus = "CLOSED"
	POStatusCancelled POStatus = "CANCELLED"
)

// ErrInvalidState rejects transitions the state machine forbids.
var ErrInvalidState = errors.New("transição de status inválida")

// ErrValidation rejects malformed input.
var ErrValidation = errors.New("dados inválidos")

// Requisicao is an internal purchase request.
type Requisicao struct {
	ID          int64            `json:"id"`
	Numero      string           `json:"numero"`
	SolicitanteID int64          `json:"solicitanteId"`
	Status      RequisicaoStatus `json:"status"`
	Observacao  *string          `json:"observacao,omitempty"`
	CriadoEm    time.Time        `json:"criadoEm"`
	Linhas      []RequisicaoLinha `json:"linhas,omitempty"`
}

// RequisicaoLinha is one requested item.
type RequisicaoLinha struct {
	ID           int64   `json:"id"`
	RequisicaoID int64   `json:"requisicaoId"`
	SKUID        int64   `json:"skuId"`
	Quantidade   float64 `json:"quantidade"`
	Observacao   *string `json:"observacao,omitempty"`
}

// PurchaseOrder is an ordem de compra sent to a fornecedor.
type PurchaseOrder struct {
	ID            int64      `json:"id"`
	Numero        string     `json:"numero"`
	FornecedorID  int64      `json:"fornecedorId"`
	Status        POStatus   `json:"status"`
	PrevisaoEntrega *time.Time `json:"previsaoEntrega,omitempty"`
	Observacao    *string    `json:"observacao,omitempty"`
	AprovadoPor   *int64     `json:"aprovadoPor,omitempty"`
	AprovadoEm    *time.Time `json:"aprovadoEm,omitempty"`
	CriadoEm      time.Time  `json:"criadoEm"`
	Linhas        []POLine   `json:"linhas,omitempty"`
}

// POLine is one ordered item.
type POLine struct {
	ID         int64   `json:"id"`
	POID       int64   `json:"ordemCompraId"`
	SKUID      int64   `json:"skuId"`
	Quantidade float64 `json:"quantidade"`
	PrecoUnit  float64 `json:"precoUnitario"`
	Recebida   float64 `json:"quantidadeRecebida"`
}

// ListFilters narrows the PO listing.
type ListFilters struct {
	Status       *POStatus
	FornecedorID *int64
	Page         int
	Limit        int
}
