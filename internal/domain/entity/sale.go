package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus estado de pago de una venta.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusVoided  PaymentStatus = "voided"
)

// Valid indica si s es un estado conocido.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusPartial, PaymentStatusVoided:
		return true
	}
	return false
}

// PaymentMethodCash método de pago por defecto.
const PaymentMethodCash = "cash"

// Sale venta en punto de venta. Una vez anulada solo cambia su nota de auditoría.
type Sale struct {
	ID             string
	InvoiceNumber  string
	StoreID        string
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  string
	SaleDate       time.Time
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	PaymentMethod  string
	PaymentStatus  PaymentStatus
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Items          []SaleItem
}

// SaleItem línea de venta. BatchID solo está presente si la línea fijó un lote.
type SaleItem struct {
	ID              string
	SaleID          string
	ProductID       string
	ProductFlavorID *string
	BatchID         *string
	Quantity        int
	UnitPrice       decimal.Decimal
	UnitCost        decimal.Decimal // costo congelado al vender, para utilidad
	Discount        decimal.Decimal
	LineTotal       decimal.Decimal
}

// IsVoided indica si la venta fue anulada.
func (s *Sale) IsVoided() bool { return s.PaymentStatus == PaymentStatusVoided }

// Recalculate: line_total = qty × precio − descuento; total = subtotal + impuesto − descuento.
func (s *Sale) Recalculate() {
	subtotal := decimal.Zero
	for i := range s.Items {
		it := &s.Items[i]
		it.LineTotal = it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))).Sub(it.Discount)
		subtotal = subtotal.Add(it.LineTotal)
	}
	s.Subtotal = subtotal
	s.TotalAmount = subtotal.Add(s.TaxAmount).Sub(s.DiscountAmount)
}

// Profit utilidad bruta de la venta al costo congelado.
func (s *Sale) Profit() decimal.Decimal {
	profit := decimal.Zero
	for _, it := range s.Items {
		cost := it.UnitCost.Mul(decimal.NewFromInt(int64(it.Quantity)))
		profit = profit.Add(it.LineTotal.Sub(cost))
	}
	return profit
}

// UnitsSold total de unidades vendidas.
func (s *Sale) UnitsSold() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}
