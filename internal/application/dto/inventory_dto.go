package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddBatchRequest body para POST /api/batches.
type AddBatchRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	ProductFlavorID *string         `json:"product_flavor_id,omitempty"`
	StoreID         string          `json:"store_id" validate:"required"`
	SupplierID      *string         `json:"supplier_id,omitempty"`
	BatchNumber     string          `json:"batch_number" validate:"required,max=100"`
	ExpirationDate  string          `json:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
	DateReceived    string          `json:"date_received" validate:"omitempty,datetime=2006-01-02"`
	Quantity        int             `json:"quantity" validate:"gt=0"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	Location        string          `json:"location" validate:"max=100"`
	Notes           string          `json:"notes"`
}

// AdjustBatchRequest body para POST /api/batches/:id/adjust: nueva cantidad absoluta.
type AdjustBatchRequest struct {
	Quantity int    `json:"quantity" validate:"min=0"`
	Notes    string `json:"notes"`
}

// UpdateBatchRequest body para PUT /api/batches/:id (metadatos).
type UpdateBatchRequest struct {
	BatchNumber     *string `json:"batch_number" validate:"omitempty,min=1,max=100"`
	ExpirationDate  *string `json:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
	ClearExpiration bool    `json:"clear_expiration"`
	Location        *string `json:"location" validate:"omitempty,max=100"`
	SupplierID      *string `json:"supplier_id"`
	Notes           *string `json:"notes"`
	IsActive        *bool   `json:"is_active"`
}

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	ProductFlavorID *string         `json:"product_flavor_id,omitempty"`
	StoreID         string          `json:"store_id"`
	SupplierID      *string         `json:"supplier_id,omitempty"`
	BatchNumber     string          `json:"batch_number"`
	ExpirationDate  *string         `json:"expiration_date,omitempty"`
	DaysUntilExpiry *int            `json:"days_until_expiry,omitempty"`
	IsExpired       bool            `json:"is_expired"`
	Quantity        int             `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	StockValue      decimal.Decimal `json:"stock_value"`
	Location        string          `json:"location"`
	DateReceived    time.Time       `json:"date_received"`
	GRNID           *string         `json:"grn_id,omitempty"`
	Notes           string          `json:"notes"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BatchListResponse lista paginada de lotes.
type BatchListResponse struct {
	Items []BatchResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// DeductionRequest body para POST /api/inventory/deduct (retiro manual).
type DeductionRequest struct {
	ProductID       string  `json:"product_id" validate:"required"`
	StoreID         string  `json:"store_id" validate:"required"`
	ProductFlavorID *string `json:"product_flavor_id,omitempty"`
	BatchID         *string `json:"batch_id,omitempty"`
	Quantity        int     `json:"quantity" validate:"gt=0"`
	Reference       string  `json:"reference" validate:"max=100"`
	Notes           string  `json:"notes"`
}

// CreditRequest body para POST /api/inventory/credit.
type CreditRequest struct {
	BatchID   string `json:"batch_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
	Reference string `json:"reference" validate:"max=100"`
	Notes     string `json:"notes"`
}

// AllocationResponse porción consumida de un lote.
type AllocationResponse struct {
	BatchID     string          `json:"batch_id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Remaining   int             `json:"remaining"`
}

// AverageCostResponse salida de GET /api/inventory/average-cost.
type AverageCostResponse struct {
	ProductID       string          `json:"product_id"`
	StoreID         string          `json:"store_id"`
	ProductFlavorID *string         `json:"product_flavor_id,omitempty"`
	AverageUnitCost decimal.Decimal `json:"average_unit_cost"`
}

// LedgerEntryResponse asiento del libro de inventario.
type LedgerEntryResponse struct {
	ID              string           `json:"id"`
	ProductID       string           `json:"product_id"`
	ProductFlavorID *string          `json:"product_flavor_id,omitempty"`
	BatchID         *string          `json:"batch_id,omitempty"`
	StoreID         string           `json:"store_id"`
	Kind            string           `json:"kind"`
	Direction       string           `json:"direction"`
	Quantity        int              `json:"quantity"`
	SignedQuantity  int              `json:"signed_quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"`
	TotalAmount     *decimal.Decimal `json:"total_amount,omitempty"`
	Reference       string           `json:"reference"`
	Notes           string           `json:"notes"`
	CreatedBy       string           `json:"created_by"`
	CreatedAt       time.Time        `json:"created_at"`
}

// LedgerListResponse lista paginada del libro.
type LedgerListResponse struct {
	Items []LedgerEntryResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// ReplenishmentSuggestionDTO representa una sugerencia de reposición para un SKU
// que se encuentra por debajo de su punto de reorden.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	CurrentStock       int             `json:"current_stock"`
	ReorderPoint       int             `json:"reorder_point"`
	Deficit            int             `json:"deficit"`              // ReorderPoint - CurrentStock
	IdealStock         int             `json:"ideal_stock"`          // ⌈ReorderPoint * 1.5⌉
	SuggestedOrderQty  int             `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`            // costo promedio ponderado
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	Priority           int             `json:"priority"`             // 1 = más urgente
}
