package repository

import (
	"context"
	"time"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

// GRNFilter filtros de listados de GRN.
type GRNFilter struct {
	StoreID    string
	SupplierID string
	Status     entity.GRNStatus
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// GRNRepository puerto de persistencia de notas de recepción. Get* devuelve el GRN con sus líneas;
// List devuelve solo cabeceras.
type GRNRepository interface {
	Create(ctx context.Context, grn *entity.GRN) error
	GetByID(ctx context.Context, id string) (*entity.GRN, error)
	GetForUpdate(ctx context.Context, id string) (*entity.GRN, error)
	Update(ctx context.Context, grn *entity.GRN) error
	ReplaceItems(ctx context.Context, grnID string, items []entity.GRNItem) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter GRNFilter) ([]*entity.GRN, error)
	Summary(ctx context.Context, filter GRNFilter) (*GRNSummary, error)
}

// SaleFilter filtros de listados de ventas.
type SaleFilter struct {
	StoreID       string
	PaymentStatus entity.PaymentStatus
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// SaleRepository puerto de persistencia de ventas. Update solo toca la cabecera.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	Update(ctx context.Context, sale *entity.Sale) error
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
	// Summary excluye ventas anuladas aunque el filtro no indique estado.
	Summary(ctx context.Context, filter SaleFilter) (*SaleSummary, error)
}

// TransferFilter filtros de listados de traslados. StoreID coincide con origen o destino.
type TransferFilter struct {
	StoreID string
	Status  entity.TransferStatus
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// TransferRepository puerto de persistencia de traslados entre tiendas.
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.StockTransfer) error
	GetByID(ctx context.Context, id string) (*entity.StockTransfer, error)
	GetForUpdate(ctx context.Context, id string) (*entity.StockTransfer, error)
	Update(ctx context.Context, transfer *entity.StockTransfer) error
	List(ctx context.Context, filter TransferFilter) ([]*entity.StockTransfer, error)
}
