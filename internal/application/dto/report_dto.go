package dto

import "github.com/shopspring/decimal"

// InventorySummaryDTO respuesta de GET /api/reports/inventory-summary.
// StoreID vacío significa toda la cadena.
type InventorySummaryDTO struct {
	StoreID       string          `json:"store_id,omitempty"`
	ProductCount  int             `json:"product_count"`  // productos activos del catálogo
	StockedCount  int             `json:"stocked_count"`  // productos con existencia
	BatchCount    int             `json:"batch_count"`    // lotes activos con existencia
	UnitsOnHand   int             `json:"units_on_hand"`
	StockValue    decimal.Decimal `json:"stock_value"`    // al costo
	RetailValue   decimal.Decimal `json:"retail_value"`   // a precio de venta
	ExpiredCount  int             `json:"expired_count"`
	ExpiringSoon  int             `json:"expiring_soon"`
	ExpiringDays  int             `json:"expiring_days"`
	LowStockCount int             `json:"low_stock_count"`
}
