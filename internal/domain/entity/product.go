package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo (suplemento), con o sin variantes de sabor.
// El stock no vive aquí: se deriva de los lotes (Batch) por tienda.
type Product struct {
	ID           string
	SKU          string // único global; inmutable una vez que existen lotes
	Name         string
	Description  string
	CategoryID   *string
	CostPrice    decimal.Decimal // costo de referencia del catálogo
	SellingPrice decimal.Decimal
	ReorderPoint int // umbral de stock bajo
	HasFlavors   bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLowStock indica si la cantidad disponible está por debajo del punto de reorden.
func (p *Product) IsLowStock(onHand int) bool {
	return onHand < p.ReorderPoint
}
