package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/application/usecase"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/memory"
)

func TestProduct_SKUInmutableConLotes(t *testing.T) {
	st := memory.New()
	repos := st.Repos()
	uc := usecase.NewProductUseCase(repos.Products, repos.Batches)
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "WHEY-1", Name: "Whey", SellingPrice: decimal.NewFromInt(50)})
	require.NoError(t, err)
	assert.True(t, p.IsActive)

	_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "whey-1", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	sku := "WHEY-2"
	updated, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{SKU: &sku})
	require.NoError(t, err)
	assert.Equal(t, "WHEY-2", updated.SKU)

	require.NoError(t, repos.Stores.Create(ctx, &entity.Store{ID: "s1", Code: "A", Name: "A", IsActive: true}))
	require.NoError(t, repos.Batches.Create(ctx, &entity.Batch{ID: "b1", ProductID: p.ID, StoreID: "s1", BatchNumber: "x", Quantity: 1, IsActive: true}))

	sku = "WHEY-3"
	_, err = uc.Update(ctx, p.ID, dto.UpdateProductRequest{SKU: &sku})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	name := "Whey Gold"
	updated, err = uc.Update(ctx, p.ID, dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Whey Gold", updated.Name)

	_, err = uc.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProduct_DeleteSuaveODuro(t *testing.T) {
	st := memory.New()
	repos := st.Repos()
	uc := usecase.NewProductUseCase(repos.Products, repos.Batches)
	ctx := context.Background()

	free, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "A", Name: "A"})
	require.NoError(t, err)
	used, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "B", Name: "B"})
	require.NoError(t, err)
	require.NoError(t, repos.Batches.Create(ctx, &entity.Batch{ID: "b1", ProductID: used.ID, StoreID: "s1", BatchNumber: "x", IsActive: true}))

	res, err := uc.Delete(ctx, free.ID)
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	_, err = uc.GetByID(ctx, free.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	res, err = uc.Delete(ctx, used.ID)
	require.NoError(t, err)
	assert.True(t, res.Deactivated)
	got, err := uc.GetByID(ctx, used.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestFlavor_NormalizaYVinculaUnaVez(t *testing.T) {
	st := memory.New()
	repos := st.Repos()
	ctx := context.Background()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "WHEY-1", Name: "Whey", IsActive: true}))
	uc := usecase.NewFlavorUseCase(repos.Flavors, repos.Products)

	f, err := uc.Create(ctx, dto.FlavorRequest{Name: "  chocolate   menta "})
	require.NoError(t, err)
	assert.Equal(t, "Chocolate Menta", f.Name)

	_, err = uc.Create(ctx, dto.FlavorRequest{Name: "CHOCOLATE MENTA"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	pf, err := uc.AddToProduct(ctx, "p1", dto.ProductFlavorRequest{FlavorID: f.ID, SKUSuffix: "chm"})
	require.NoError(t, err)
	assert.Equal(t, "CHM", pf.SKUSuffix)
	assert.Equal(t, "Chocolate Menta", pf.FlavorName)

	_, err = uc.AddToProduct(ctx, "p1", dto.ProductFlavorRequest{FlavorID: f.ID})
	assert.ErrorIs(t, err, domain.ErrConflict)

	p, err := repos.Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p.HasFlavors)

	// el sabor está en uso por una variante: solo se desactiva
	res, err := uc.Delete(ctx, f.ID)
	require.NoError(t, err)
	assert.True(t, res.Deactivated)

	// la variante sin lotes se borra
	res, err = uc.RemoveFromProduct(ctx, pf.ID)
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	list, err := uc.ListForProduct(ctx, "p1", false)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFlavor_VarianteReferenciadaSeDesactiva(t *testing.T) {
	st := memory.New()
	repos := st.Repos()
	ctx := context.Background()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "WHEY-1", Name: "Whey", IsActive: true}))
	uc := usecase.NewFlavorUseCase(repos.Flavors, repos.Products)

	f, err := uc.Create(ctx, dto.FlavorRequest{Name: "vainilla"})
	require.NoError(t, err)
	pf, err := uc.AddToProduct(ctx, "p1", dto.ProductFlavorRequest{FlavorID: f.ID})
	require.NoError(t, err)
	pfID := pf.ID
	require.NoError(t, repos.Batches.Create(ctx, &entity.Batch{
		ID: "b1", ProductID: "p1", ProductFlavorID: &pfID, StoreID: "s1", BatchNumber: "x", IsActive: true,
	}))

	res, err := uc.RemoveFromProduct(ctx, pf.ID)
	require.NoError(t, err)
	assert.True(t, res.Deactivated)

	active, err := uc.ListForProduct(ctx, "p1", true)
	require.NoError(t, err)
	assert.Empty(t, active)

	// con la variante inactiva se puede volver a vincular el sabor
	_, err = uc.AddToProduct(ctx, "p1", dto.ProductFlavorRequest{FlavorID: f.ID})
	require.NoError(t, err)
}

func TestStore_CodigoUnicoYBorrado(t *testing.T) {
	st := memory.New()
	repos := st.Repos()
	uc := usecase.NewStoreUseCase(repos.Stores)
	ctx := context.Background()

	s, err := uc.Create(ctx, dto.CreateStoreRequest{Code: "ctr", Name: "tienda centro"})
	require.NoError(t, err)
	assert.Equal(t, "CTR", s.Code)
	assert.Equal(t, "Tienda Centro", s.Name)

	_, err = uc.Create(ctx, dto.CreateStoreRequest{Code: "CTR", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	used, err := uc.Create(ctx, dto.CreateStoreRequest{Code: "NTE", Name: "Norte"})
	require.NoError(t, err)
	require.NoError(t, repos.Batches.Create(ctx, &entity.Batch{ID: "b1", ProductID: "p1", StoreID: used.ID, BatchNumber: "x", IsActive: true}))

	res, err := uc.Delete(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, res.Deleted)

	res, err = uc.Delete(ctx, used.ID)
	require.NoError(t, err)
	assert.True(t, res.Deactivated)

	list, err := uc.List(ctx, true, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestSupplier_BajaLogica(t *testing.T) {
	st := memory.New()
	uc := usecase.NewSupplierUseCase(st.Repos().Suppliers)
	ctx := context.Background()

	s, err := uc.Create(ctx, dto.CreateSupplierRequest{Name: "Nutri SAS", Email: " Ventas@Nutri.co "})
	require.NoError(t, err)
	assert.Equal(t, "ventas@nutri.co", s.Email)

	inactive := false
	_, err = uc.Update(ctx, s.ID, dto.UpdateSupplierRequest{IsActive: &inactive})
	require.NoError(t, err)

	active, err := uc.List(ctx, true, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, active.Items)
	all, err := uc.List(ctx, false, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all.Items, 1)
}
