package entity

import (
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

var (
	errNonPositiveQuantity = errors.New("la cantidad debe ser positiva")
	errNegativeBatch       = errors.New("la cantidad del lote no puede quedar negativa")
)

// Batch es una fila de inventario: cantidad de un producto (y sabor opcional) en una tienda,
// con costo y vencimiento propios. Un lote en cero sigue siendo un registro histórico válido.
type Batch struct {
	ID              string
	ProductID       string
	ProductFlavorID *string
	StoreID         string
	SupplierID      *string
	BatchNumber     string
	ExpirationDate  *time.Time
	Quantity        int
	UnitCost        decimal.Decimal
	Location        string
	DateReceived    time.Time
	GRNID           *string
	Notes           string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Deduct resta q unidades; nunca deja el lote en negativo.
func (b *Batch) Deduct(q int) error {
	if q <= 0 {
		return errNonPositiveQuantity
	}
	if b.Quantity < q {
		return errNegativeBatch
	}
	b.Quantity -= q
	return nil
}

// Add suma q unidades al lote.
func (b *Batch) Add(q int) error {
	if q <= 0 {
		return errNonPositiveQuantity
	}
	b.Quantity += q
	return nil
}

// IsAvailable indica si el lote puede participar en una asignación.
func (b *Batch) IsAvailable() bool {
	return b.IsActive && b.Quantity > 0
}

// IsExpired compara contra el día de now (el vencimiento es una fecha, no un instante).
func (b *Batch) IsExpired(now time.Time) bool {
	if b.ExpirationDate == nil {
		return false
	}
	return truncateDay(*b.ExpirationDate).Before(truncateDay(now))
}

// ExpiresWithin indica si vence entre hoy y hoy+days (ambos inclusive) y aún no ha vencido.
func (b *Batch) ExpiresWithin(now time.Time, days int) bool {
	if b.ExpirationDate == nil || b.IsExpired(now) {
		return false
	}
	limit := truncateDay(now).AddDate(0, 0, days)
	return !truncateDay(*b.ExpirationDate).After(limit)
}

// DaysUntilExpiry devuelve días hasta el vencimiento (negativo si ya venció); 0 y false sin fecha.
func (b *Batch) DaysUntilExpiry(now time.Time) (int, bool) {
	if b.ExpirationDate == nil {
		return 0, false
	}
	d := truncateDay(*b.ExpirationDate).Sub(truncateDay(now))
	return int(math.Round(d.Hours() / 24)), true
}

// StockValue valor del lote al costo.
func (b *Batch) StockValue() decimal.Decimal {
	return b.UnitCost.Mul(decimal.NewFromInt(int64(b.Quantity)))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
