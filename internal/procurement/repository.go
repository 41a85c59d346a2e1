package procurement

import "context"

// RepositoryPort is the persistence seam for the procurement service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error

	NextPONumber(ctx context.Context) (string, error)
	NextRequisicaoNumber(ctx context.Context) (string, error)

	ListPOs(ctx context.Context, f ListFilters) ([]PurchaseOrder, int, error)
	GetPO(ctx context.Context, id int64) (PurchaseOrder, error)
	GetRequisicao(ctx context.Context, id int64) (Requisicao, error)
	ListRequisicoes(ctx context.Context, status *RequisicaoStatus, page, limit int) ([]Requisicao, int, error)
}

// TxRepository exposes writes inside a procurement transaction.
type TxRepository interface {
	CreateRequisicao(ctx context.Context, r Requisicao) (int64, error)
	InsertRequisicaoLinha(ctx context.Context, l RequisicaoLinha) error
	UpdateRequisicaoStatus(ctx context.Context, id int64, status RequisicaoStatus) error

	CreatePO(ctx context.Context, po PurchaseOrder) (int64, error)
	InsertPOLine(ctx context.Context, l POLine) error
	UpdatePOStatus(ctx context.Context, id int64, status POStatus) error
	SetPOApproval(ctx context.Context, id int64, actorID int64) error
	AddReceivedQty(ctx context.Context, lineID int64, qty float64) error
}
