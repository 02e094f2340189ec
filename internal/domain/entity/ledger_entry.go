package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerKind tipo de movimiento registrado en el libro de inventario.
type LedgerKind string

// Tipos de movimiento.
const (
	LedgerKindSale        LedgerKind = "sale"
	LedgerKindRestock     LedgerKind = "restock"
	LedgerKindAdjustment  LedgerKind = "adjustment"
	LedgerKindReturn      LedgerKind = "return"
	LedgerKindTransferOut LedgerKind = "transfer-out"
	LedgerKindTransferIn  LedgerKind = "transfer-in"
)

// LedgerKinds lista todos los tipos válidos.
var LedgerKinds = []LedgerKind{
	LedgerKindSale, LedgerKindRestock, LedgerKindAdjustment,
	LedgerKindReturn, LedgerKindTransferOut, LedgerKindTransferIn,
}

// Valid indica si k es un tipo conocido.
func (k LedgerKind) Valid() bool {
	for _, v := range LedgerKinds {
		if v == k {
			return true
		}
	}
	return false
}

// Direction sentido del movimiento respecto a la tienda.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// DefaultDirection sentido implícito del tipo; los ajustes no tienen uno y devuelven "".
func (k LedgerKind) DefaultDirection() Direction {
	switch k {
	case LedgerKindSale, LedgerKindTransferOut:
		return DirectionOut
	case LedgerKindRestock, LedgerKindReturn, LedgerKindTransferIn:
		return DirectionIn
	}
	return ""
}

// LedgerEntry registro inmutable de un cambio de cantidad sobre un lote.
// Quantity siempre es positiva; el signo se deriva de Direction.
type LedgerEntry struct {
	ID              string
	ProductID       string
	ProductFlavorID *string
	BatchID         *string
	StoreID         string
	Kind            LedgerKind
	Direction       Direction
	Quantity        int
	UnitPrice       *decimal.Decimal
	TotalAmount     *decimal.Decimal
	Reference       string // número de factura, GRN o traslado
	Notes           string
	CreatedBy       string
	CreatedAt       time.Time
}

// SignedQuantity cantidad con signo para reportes: negativa en salidas.
func (e *LedgerEntry) SignedQuantity() int {
	if e.Direction == DirectionOut {
		return -e.Quantity
	}
	return e.Quantity
}
