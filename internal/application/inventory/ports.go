package inventory

import (
	"context"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Products  repository.ProductRepository
	Flavors   repository.FlavorRepository
	Stores    repository.StoreRepository
	Suppliers repository.SupplierRepository
	Batches   repository.BatchRepository
	Ledger    repository.LedgerRepository
	GRNs      repository.GRNRepository
	Sales     repository.SaleRepository
	Transfers repository.TransferRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil; Rollback ante error o panic.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}

// BatchReader lectura de lotes disponibles; la cumple cualquier BatchRepository.
type BatchReader interface {
	ListAvailable(ctx context.Context, scope repository.BatchScope) ([]*entity.Batch, error)
}
