package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GRNItemRequest línea de un GRN.
type GRNItemRequest struct {
	ProductID        string           `json:"product_id" validate:"required"`
	ProductFlavorID  *string          `json:"product_flavor_id,omitempty"`
	QuantityOrdered  int              `json:"quantity_ordered" validate:"min=0"`
	QuantityReceived int              `json:"quantity_received" validate:"gt=0"`
	UnitCost         *decimal.Decimal `json:"unit_cost" validate:"required"`
	BatchNumber      string           `json:"batch_number" validate:"max=100"`
	ExpirationDate   string           `json:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
	Location         string           `json:"location" validate:"max=100"`
	Notes            string           `json:"notes"`
}

// CreateGRNRequest body para POST /api/grns.
type CreateGRNRequest struct {
	StoreID             string           `json:"store_id" validate:"required"`
	SupplierID          string           `json:"supplier_id" validate:"required"`
	PurchaseOrderNumber string           `json:"purchase_order_number" validate:"max=100"`
	InvoiceNumber       string           `json:"invoice_number" validate:"max=100"`
	ReceivedDate        string           `json:"received_date" validate:"omitempty,datetime=2006-01-02"`
	Notes               string           `json:"notes"`
	Items               []GRNItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateGRNRequest body para PUT /api/grns/:id. Items nil conserva las líneas actuales.
type UpdateGRNRequest struct {
	PurchaseOrderNumber *string           `json:"purchase_order_number" validate:"omitempty,max=100"`
	InvoiceNumber       *string           `json:"invoice_number" validate:"omitempty,max=100"`
	ReceivedDate        *string           `json:"received_date" validate:"omitempty,datetime=2006-01-02"`
	Notes               *string           `json:"notes"`
	Items               *[]GRNItemRequest `json:"items" validate:"omitempty,min=1,dive"`
}

// GRNItemResponse línea en la respuesta.
type GRNItemResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	ProductFlavorID  *string         `json:"product_flavor_id,omitempty"`
	QuantityOrdered  int             `json:"quantity_ordered"`
	QuantityReceived int             `json:"quantity_received"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	LineTotal        decimal.Decimal `json:"line_total"`
	BatchNumber      string          `json:"batch_number"`
	ExpirationDate   *string         `json:"expiration_date,omitempty"`
	Location         string          `json:"location"`
	Notes            string          `json:"notes"`
}

// GRNResponse GRN con detalle.
type GRNResponse struct {
	ID                  string            `json:"id"`
	GRNNumber           string            `json:"grn_number"`
	StoreID             string            `json:"store_id"`
	SupplierID          string            `json:"supplier_id"`
	PurchaseOrderNumber string            `json:"purchase_order_number"`
	InvoiceNumber       string            `json:"invoice_number"`
	ReceivedDate        time.Time         `json:"received_date"`
	TotalAmount         decimal.Decimal   `json:"total_amount"`
	Status              string            `json:"status"`
	Notes               string            `json:"notes"`
	CreatedBy           string            `json:"created_by"`
	VerifiedBy          *string           `json:"verified_by,omitempty"`
	VerifiedDate        *time.Time        `json:"verified_date,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
	Items               []GRNItemResponse `json:"items,omitempty"`
}

// GRNListResponse lista paginada de GRN (sin líneas).
type GRNListResponse struct {
	Items []GRNResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}

// GRNSummaryResponse conteos por estado y valor recibido.
type GRNSummaryResponse struct {
	Total      int             `json:"total"`
	Received   int             `json:"received"`
	Verified   int             `json:"verified"`
	Completed  int             `json:"completed"`
	TotalValue decimal.Decimal `json:"total_value"`
}
