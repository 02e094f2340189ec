package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

var titleCaser = cases.Title(language.Spanish)

// normalizeName recorta y colapsa espacios y pasa a título: "  chocolate   menta" → "Chocolate Menta".
func normalizeName(s string) string {
	return titleCaser.String(strings.Join(strings.Fields(s), " "))
}

// FlavorUseCase sabores del catálogo y su vínculo con productos.
type FlavorUseCase struct {
	flavors  repository.FlavorRepository
	products repository.ProductRepository
}

// NewFlavorUseCase construye el caso de uso.
func NewFlavorUseCase(flavors repository.FlavorRepository, products repository.ProductRepository) *FlavorUseCase {
	return &FlavorUseCase{flavors: flavors, products: products}
}

// Create crea un sabor; el nombre es único sin distinguir mayúsculas.
func (uc *FlavorUseCase) Create(ctx context.Context, in dto.FlavorRequest) (*dto.FlavorResponse, error) {
	name := normalizeName(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	now := time.Now().UTC()
	f := &entity.Flavor{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.flavors.CreateFlavor(ctx, f); err != nil {
		return nil, err
	}
	return toFlavorResponse(f), nil
}

// Update edita nombre, descripción o estado.
func (uc *FlavorUseCase) Update(ctx context.Context, id string, in dto.UpdateFlavorRequest) (*dto.FlavorResponse, error) {
	f, err := uc.loadFlavor(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := normalizeName(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "es obligatorio")
		}
		f.Name = name
	}
	if in.Description != nil {
		f.Description = *in.Description
	}
	if in.IsActive != nil {
		f.IsActive = *in.IsActive
	}
	f.UpdatedAt = time.Now().UTC()
	if err := uc.flavors.UpdateFlavor(ctx, f); err != nil {
		return nil, err
	}
	return toFlavorResponse(f), nil
}

// List lista sabores por nombre.
func (uc *FlavorUseCase) List(ctx context.Context, activeOnly bool) ([]dto.FlavorResponse, error) {
	list, err := uc.flavors.ListFlavors(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FlavorResponse, 0, len(list))
	for _, f := range list {
		out = append(out, *toFlavorResponse(f))
	}
	return out, nil
}

// Delete borra el sabor si ninguna variante lo usa; si no, lo desactiva.
func (uc *FlavorUseCase) Delete(ctx context.Context, id string) (*dto.DeleteResult, error) {
	f, err := uc.loadFlavor(ctx, id)
	if err != nil {
		return nil, err
	}
	referenced, err := uc.flavors.IsFlavorReferenced(ctx, id)
	if err != nil {
		return nil, err
	}
	if !referenced {
		if err := uc.flavors.DeleteFlavor(ctx, id); err != nil {
			return nil, err
		}
		return &dto.DeleteResult{Deleted: true}, nil
	}
	f.IsActive = false
	f.UpdatedAt = time.Now().UTC()
	if err := uc.flavors.UpdateFlavor(ctx, f); err != nil {
		return nil, err
	}
	return &dto.DeleteResult{Deactivated: true}, nil
}

// AddToProduct crea la variante producto+sabor. Solo puede haber una activa por par.
func (uc *FlavorUseCase) AddToProduct(ctx context.Context, productID string, in dto.ProductFlavorRequest) (*dto.ProductFlavorResponse, error) {
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFoundError("product", productID)
	}
	f, err := uc.loadFlavor(ctx, in.FlavorID)
	if err != nil {
		return nil, err
	}
	if !f.IsActive {
		return nil, domain.NewValidationError("flavor_id", "el sabor está inactivo")
	}
	existing, err := uc.flavors.FindActiveProductFlavor(ctx, productID, in.FlavorID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewConflictError("product_flavor", product.SKU+"/"+f.Name)
	}

	now := time.Now().UTC()
	pf := &entity.ProductFlavor{
		ID:        uuid.New().String(),
		ProductID: productID,
		FlavorID:  in.FlavorID,
		SKUSuffix: strings.ToUpper(strings.TrimSpace(in.SKUSuffix)),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.flavors.CreateProductFlavor(ctx, pf); err != nil {
		return nil, err
	}
	if !product.HasFlavors {
		product.HasFlavors = true
		product.UpdatedAt = now
		if err := uc.products.Update(ctx, product); err != nil {
			return nil, err
		}
	}
	return toProductFlavorResponse(pf, f.Name), nil
}

// ListForProduct variantes de un producto con el nombre del sabor.
func (uc *FlavorUseCase) ListForProduct(ctx context.Context, productID string, activeOnly bool) ([]dto.ProductFlavorResponse, error) {
	list, err := uc.flavors.ListProductFlavors(ctx, productID, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductFlavorResponse, 0, len(list))
	for _, pf := range list {
		name := ""
		if f, err := uc.flavors.GetFlavor(ctx, pf.FlavorID); err == nil && f != nil {
			name = f.Name
		}
		out = append(out, *toProductFlavorResponse(pf, name))
	}
	return out, nil
}

// RemoveFromProduct borra la variante si no hay lotes ni documentos que la usen; si no, la desactiva.
func (uc *FlavorUseCase) RemoveFromProduct(ctx context.Context, productFlavorID string) (*dto.DeleteResult, error) {
	pf, err := uc.flavors.GetProductFlavor(ctx, productFlavorID)
	if err != nil {
		return nil, err
	}
	if pf == nil {
		return nil, domain.NewNotFoundError("product_flavor", productFlavorID)
	}
	referenced, err := uc.flavors.IsProductFlavorReferenced(ctx, productFlavorID)
	if err != nil {
		return nil, err
	}
	if !referenced {
		if err := uc.flavors.DeleteProductFlavor(ctx, productFlavorID); err != nil {
			return nil, err
		}
		return &dto.DeleteResult{Deleted: true}, nil
	}
	pf.IsActive = false
	pf.UpdatedAt = time.Now().UTC()
	if err := uc.flavors.UpdateProductFlavor(ctx, pf); err != nil {
		return nil, err
	}
	return &dto.DeleteResult{Deactivated: true}, nil
}

func (uc *FlavorUseCase) loadFlavor(ctx context.Context, id string) (*entity.Flavor, error) {
	f, err := uc.flavors.GetFlavor(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.NewNotFoundError("flavor", id)
	}
	return f, nil
}

func toFlavorResponse(f *entity.Flavor) *dto.FlavorResponse {
	return &dto.FlavorResponse{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		IsActive:    f.IsActive,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func toProductFlavorResponse(pf *entity.ProductFlavor, flavorName string) *dto.ProductFlavorResponse {
	return &dto.ProductFlavorResponse{
		ID:         pf.ID,
		ProductID:  pf.ProductID,
		FlavorID:   pf.FlavorID,
		FlavorName: flavorName,
		SKUSuffix:  pf.SKUSuffix,
		IsActive:   pf.IsActive,
		CreatedAt:  pf.CreatedAt,
	}
}
