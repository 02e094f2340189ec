package repository

import "github.com/shopspring/decimal"

// ProductStock agregado de lotes activos con existencia de un producto.
// Lo produce la DB; el use case lo combina con el catálogo.
type ProductStock struct {
	ProductID  string
	OnHand     int
	Batches    int
	StockValue decimal.Decimal // Σ quantity × unit_cost
}

// GRNSummary conteos por estado y valor recibido de los GRN que cumplen el filtro.
type GRNSummary struct {
	Total      int
	Received   int
	Verified   int
	Completed  int
	TotalValue decimal.Decimal
}

// SaleSummary totales de ventas no anuladas que cumplen el filtro.
type SaleSummary struct {
	SaleCount       int
	Revenue         decimal.Decimal
	TaxAmount       decimal.Decimal
	DiscountAmount  decimal.Decimal
	ItemsSold       int
	GrossProfit     decimal.Decimal // Σ line_total − quantity × unit_cost
	ByPaymentMethod map[string]decimal.Decimal
}
