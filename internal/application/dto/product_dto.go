package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU          string          `json:"sku" validate:"required,min=1,max=100"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Description  string          `json:"description"`
	CategoryID   *string         `json:"category_id,omitempty"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	ReorderPoint int             `json:"reorder_point" validate:"min=0"`
	HasFlavors   bool            `json:"has_flavors"`
}

// UpdateProductRequest entrada para actualizar un producto. SKU solo cambia mientras no haya lotes.
type UpdateProductRequest struct {
	SKU          *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description"`
	CategoryID   *string          `json:"category_id"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	ReorderPoint *int             `json:"reorder_point" validate:"omitempty,min=0"`
	HasFlavors   *bool            `json:"has_flavors"`
	IsActive     *bool            `json:"is_active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	CategoryID   *string         `json:"category_id,omitempty"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	ReorderPoint int             `json:"reorder_point"`
	HasFlavors   bool            `json:"has_flavors"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// FlavorRequest entrada para crear un sabor. El nombre se normaliza a título.
type FlavorRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description"`
}

// UpdateFlavorRequest entrada para actualizar un sabor.
type UpdateFlavorRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// FlavorResponse salida de un sabor.
type FlavorResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductFlavorRequest vincula un sabor a un producto.
type ProductFlavorRequest struct {
	FlavorID  string `json:"flavor_id" validate:"required"`
	SKUSuffix string `json:"sku_suffix" validate:"max=50"`
}

// ProductFlavorResponse variante producto+sabor.
type ProductFlavorResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	FlavorID   string    `json:"flavor_id"`
	FlavorName string    `json:"flavor_name,omitempty"`
	SKUSuffix  string    `json:"sku_suffix"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// DeleteResult indica si el registro se borró o solo se desactivó por estar referenciado.
type DeleteResult struct {
	Deleted     bool `json:"deleted"`
	Deactivated bool `json:"deactivated"`
}
