package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// GRNStatus estado de una nota de recepción.
type GRNStatus string

// Estados del GRN: received → verified → completed.
const (
	GRNStatusReceived  GRNStatus = "received"
	GRNStatusVerified  GRNStatus = "verified"
	GRNStatusCompleted GRNStatus = "completed"
)

// GRN (Goods Received Note) documenta una entrega del proveedor antes de convertirse en inventario.
type GRN struct {
	ID                  string
	GRNNumber           string
	StoreID             string
	SupplierID          string
	PurchaseOrderNumber string
	InvoiceNumber       string
	ReceivedDate        time.Time
	TotalAmount         decimal.Decimal
	Status              GRNStatus
	Notes               string
	CreatedBy           string
	VerifiedBy          *string
	VerifiedDate        *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Items               []GRNItem
}

// GRNItem línea del GRN.
type GRNItem struct {
	ID               string
	GRNID            string
	ProductID        string
	ProductFlavorID  *string
	QuantityOrdered  int
	QuantityReceived int
	UnitCost         decimal.Decimal
	LineTotal        decimal.Decimal
	BatchNumber      string
	ExpirationDate   *time.Time
	Location         string
	Notes            string
}

// CanEdit solo se permite editar o eliminar en estado received.
func (g *GRN) CanEdit() bool { return g.Status == GRNStatusReceived }

// Recalculate recalcula totales de línea y el total del documento.
func (g *GRN) Recalculate() {
	total := decimal.Zero
	for i := range g.Items {
		it := &g.Items[i]
		it.LineTotal = it.UnitCost.Mul(decimal.NewFromInt(int64(it.QuantityReceived)))
		total = total.Add(it.LineTotal)
	}
	g.TotalAmount = total
}

// DefaultBatchNumber número de lote usado cuando la línea no trae uno. Cada variante de sabor
// recibe su propio número para no compartir lote con otra variante del mismo producto.
func DefaultBatchNumber(grnNumber, productID string, productFlavorID *string) string {
	if productFlavorID != nil && *productFlavorID != "" {
		return fmt.Sprintf("BATCH-%s-%s-%s", grnNumber, productID, *productFlavorID)
	}
	return fmt.Sprintf("BATCH-%s-%s", grnNumber, productID)
}
