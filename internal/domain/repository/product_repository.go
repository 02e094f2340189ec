package repository

import (
	"context"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

// ProductFilter filtros del catálogo.
type ProductFilter struct {
	Search     string // coincide con SKU o nombre
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
	// IsReferenced indica si lotes, líneas de documentos o variantes apuntan al producto.
	IsReferenced(ctx context.Context, id string) (bool, error)
}

// FlavorRepository puerto para sabores y variantes producto+sabor.
type FlavorRepository interface {
	CreateFlavor(ctx context.Context, flavor *entity.Flavor) error
	GetFlavor(ctx context.Context, id string) (*entity.Flavor, error)
	ListFlavors(ctx context.Context, activeOnly bool) ([]*entity.Flavor, error)
	UpdateFlavor(ctx context.Context, flavor *entity.Flavor) error
	DeleteFlavor(ctx context.Context, id string) error
	IsFlavorReferenced(ctx context.Context, id string) (bool, error)

	CreateProductFlavor(ctx context.Context, pf *entity.ProductFlavor) error
	GetProductFlavor(ctx context.Context, id string) (*entity.ProductFlavor, error)
	FindActiveProductFlavor(ctx context.Context, productID, flavorID string) (*entity.ProductFlavor, error)
	ListProductFlavors(ctx context.Context, productID string, activeOnly bool) ([]*entity.ProductFlavor, error)
	UpdateProductFlavor(ctx context.Context, pf *entity.ProductFlavor) error
	DeleteProductFlavor(ctx context.Context, id string) error
	IsProductFlavorReferenced(ctx context.Context, id string) (bool, error)
}
