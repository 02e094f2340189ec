package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferItemRequest línea de traslado.
type TransferItemRequest struct {
	ProductID       string           `json:"product_id" validate:"required"`
	ProductFlavorID *string          `json:"product_flavor_id,omitempty"`
	BatchID         *string          `json:"batch_id,omitempty"`
	Quantity        int              `json:"quantity" validate:"gt=0"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	Notes           string           `json:"notes"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	FromStoreID string                `json:"from_store_id" validate:"required"`
	ToStoreID   string                `json:"to_store_id" validate:"required"`
	Notes       string                `json:"notes"`
	Items       []TransferItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateTransferRequest body para PUT /api/transfers/:id (solo notas).
type UpdateTransferRequest struct {
	Notes *string `json:"notes"`
}

// TransferItemResponse línea en la respuesta.
type TransferItemResponse struct {
	ID              string           `json:"id"`
	ProductID       string           `json:"product_id"`
	ProductFlavorID *string          `json:"product_flavor_id,omitempty"`
	BatchID         *string          `json:"batch_id,omitempty"`
	Quantity        int              `json:"quantity"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	Notes           string           `json:"notes"`
}

// TransferResponse traslado con detalle.
type TransferResponse struct {
	ID             string                 `json:"id"`
	TransferNumber string                 `json:"transfer_number"`
	FromStoreID    string                 `json:"from_store_id"`
	ToStoreID      string                 `json:"to_store_id"`
	Status         string                 `json:"status"`
	TransferDate   time.Time              `json:"transfer_date"`
	CompletedDate  *time.Time             `json:"completed_date,omitempty"`
	Notes          string                 `json:"notes"`
	CreatedBy      string                 `json:"created_by"`
	ApprovedBy     *string                `json:"approved_by,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	Items          []TransferItemResponse `json:"items,omitempty"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
