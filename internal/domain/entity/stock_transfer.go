package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus estado de un traslado entre tiendas.
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusInTransit TransferStatus = "in_transit"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusCancelled TransferStatus = "cancelled"
)

// StockTransfer traslado de stock de FromStoreID a ToStoreID.
// El inventario solo se mueve al aprobar.
type StockTransfer struct {
	ID             string
	TransferNumber string
	FromStoreID    string
	ToStoreID      string
	Status         TransferStatus
	TransferDate   time.Time
	CompletedDate  *time.Time
	Notes          string
	CreatedBy      string
	ApprovedBy     *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Items          []StockTransferItem
}

// StockTransferItem línea del traslado.
type StockTransferItem struct {
	ID              string
	TransferID      string
	ProductID       string
	ProductFlavorID *string
	BatchID         *string
	Quantity        int
	UnitCost        *decimal.Decimal // si nil se conserva el costo del lote origen
	Notes           string
}

// CanApprove solo desde pending.
func (t *StockTransfer) CanApprove() bool { return t.Status == TransferStatusPending }

// CanCancel desde pending o in_transit.
func (t *StockTransfer) CanCancel() bool {
	return t.Status == TransferStatusPending || t.Status == TransferStatusInTransit
}

// CanEdit solo notas, y solo en pending.
func (t *StockTransfer) CanEdit() bool { return t.Status == TransferStatusPending }

// TotalQuantity unidades totales del traslado.
func (t *StockTransfer) TotalQuantity() int {
	n := 0
	for _, it := range t.Items {
		n += it.Quantity
	}
	return n
}
