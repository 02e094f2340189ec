package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta. BatchID fija el lote; sin él se asigna FIFO.
type SaleItemRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	ProductFlavorID *string         `json:"product_flavor_id,omitempty"`
	BatchID         *string         `json:"batch_id,omitempty"`
	Quantity        int             `json:"quantity" validate:"gt=0"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Discount        decimal.Decimal `json:"discount"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	StoreID        string            `json:"store_id" validate:"required"`
	CustomerName   string            `json:"customer_name" validate:"max=200"`
	CustomerPhone  string            `json:"customer_phone" validate:"max=30"`
	CustomerEmail  string            `json:"customer_email" validate:"omitempty,email"`
	TaxAmount      decimal.Decimal   `json:"tax_amount"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	PaymentMethod  string            `json:"payment_method" validate:"omitempty,max=30"`
	PaymentStatus  string            `json:"payment_status" validate:"omitempty,oneof=paid pending partial"`
	Notes          string            `json:"notes"`
	Items          []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateSaleRequest body para PUT /api/sales/:id (solo metadatos).
type UpdateSaleRequest struct {
	CustomerName  *string `json:"customer_name" validate:"omitempty,max=200"`
	CustomerPhone *string `json:"customer_phone" validate:"omitempty,max=30"`
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
	PaymentStatus *string `json:"payment_status"`
	Notes         *string `json:"notes"`
}

// SaleItemResponse línea en la respuesta.
type SaleItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	ProductFlavorID *string         `json:"product_flavor_id,omitempty"`
	BatchID         *string         `json:"batch_id,omitempty"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	Discount        decimal.Decimal `json:"discount"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// SaleResponse venta con detalle.
type SaleResponse struct {
	ID             string             `json:"id"`
	InvoiceNumber  string             `json:"invoice_number"`
	StoreID        string             `json:"store_id"`
	CustomerName   string             `json:"customer_name"`
	CustomerPhone  string             `json:"customer_phone"`
	CustomerEmail  string             `json:"customer_email"`
	SaleDate       time.Time          `json:"sale_date"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	PaymentMethod  string             `json:"payment_method"`
	PaymentStatus  string             `json:"payment_status"`
	Notes          string             `json:"notes"`
	CreatedBy      string             `json:"created_by"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	Items          []SaleItemResponse `json:"items,omitempty"`
}

// SaleListResponse lista paginada de ventas (sin líneas).
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// SaleSummaryResponse totales de ventas no anuladas.
type SaleSummaryResponse struct {
	SaleCount       int                        `json:"sale_count"`
	Revenue         decimal.Decimal            `json:"revenue"`
	TaxAmount       decimal.Decimal            `json:"tax_amount"`
	DiscountAmount  decimal.Decimal            `json:"discount_amount"`
	AverageTicket   decimal.Decimal            `json:"average_ticket"`
	ItemsSold       int                        `json:"items_sold"`
	GrossProfit     decimal.Decimal            `json:"gross_profit"`
	ByPaymentMethod map[string]decimal.Decimal `json:"by_payment_method"`
}
