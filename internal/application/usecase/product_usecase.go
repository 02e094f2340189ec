package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

// BatchCounter cuenta lotes de un producto; lo cumple cualquier BatchRepository.
type BatchCounter interface {
	CountByProduct(ctx context.Context, productID string) (int, error)
}

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía lotes.
type ProductUseCase struct {
	repo    repository.ProductRepository
	batches BatchCounter
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, batches BatchCounter) *ProductUseCase {
	return &ProductUseCase{repo: repo, batches: batches}
}

// Create crea un nuevo producto activo. El SKU es único sin distinguir mayúsculas.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	if sku == "" {
		return nil, domain.NewValidationError("sku", "es obligatorio")
	}
	if in.CostPrice.IsNegative() || in.SellingPrice.IsNegative() {
		return nil, domain.NewValidationError("price", "los precios no pueden ser negativos")
	}
	if in.ReorderPoint < 0 {
		return nil, domain.NewValidationError("reorder_point", "no puede ser negativo")
	}
	existing, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewConflictError("product.sku", sku)
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:           uuid.New().String(),
		SKU:          sku,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		CategoryID:   in.CategoryID,
		CostPrice:    in.CostPrice,
		SellingPrice: in.SellingPrice,
		ReorderPoint: in.ReorderPoint,
		HasFlavors:   in.HasFlavors,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. El SKU queda fijo una vez que el producto tiene lotes.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.SKU != nil {
		sku := strings.TrimSpace(*in.SKU)
		if !strings.EqualFold(sku, product.SKU) {
			n, err := uc.batches.CountByProduct(ctx, id)
			if err != nil {
				return nil, err
			}
			if n > 0 {
				return nil, domain.NewValidationError("sku", "no se puede cambiar: el producto ya tiene lotes")
			}
		}
		product.SKU = sku
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CategoryID != nil {
		product.CategoryID = in.CategoryID
	}
	if in.CostPrice != nil {
		if in.CostPrice.IsNegative() {
			return nil, domain.NewValidationError("cost_price", "no puede ser negativo")
		}
		product.CostPrice = *in.CostPrice
	}
	if in.SellingPrice != nil {
		if in.SellingPrice.IsNegative() {
			return nil, domain.NewValidationError("selling_price", "no puede ser negativo")
		}
		product.SellingPrice = *in.SellingPrice
	}
	if in.ReorderPoint != nil {
		if *in.ReorderPoint < 0 {
			return nil, domain.NewValidationError("reorder_point", "no puede ser negativo")
		}
		product.ReorderPoint = *in.ReorderPoint
	}
	if in.HasFlavors != nil {
		product.HasFlavors = *in.HasFlavors
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con búsqueda y paginación.
func (uc *ProductUseCase) List(ctx context.Context, search string, activeOnly bool, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, repository.ProductFilter{Search: search, ActiveOnly: activeOnly, Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete borra el producto si nada lo referencia; en otro caso solo lo desactiva.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) (*dto.DeleteResult, error) {
	product, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	referenced, err := uc.repo.IsReferenced(ctx, id)
	if err != nil {
		return nil, err
	}
	if !referenced {
		if err := uc.repo.Delete(ctx, id); err != nil {
			return nil, err
		}
		return &dto.DeleteResult{Deleted: true}, nil
	}
	product.IsActive = false
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return &dto.DeleteResult{Deactivated: true}, nil
}

func (uc *ProductUseCase) load(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFoundError("product", id)
	}
	return product, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		CategoryID:   p.CategoryID,
		CostPrice:    p.CostPrice,
		SellingPrice: p.SellingPrice,
		ReorderPoint: p.ReorderPoint,
		HasFlavors:   p.HasFlavors,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
