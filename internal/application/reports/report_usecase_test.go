package reports_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suplementos-api/internal/application/reports"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/memory"
)

// mapCache caché en memoria con la misma semántica JSON que el adaptador Redis.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	c.sets++
	return nil
}

func (c *mapCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

var now = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

func seed(t *testing.T) *memory.Store {
	t.Helper()
	st := memory.New()
	repos := st.Repos()
	ctx := context.Background()

	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "A", Name: "A", SellingPrice: decimal.NewFromInt(10), ReorderPoint: 5, IsActive: true}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p2", SKU: "B", Name: "B", SellingPrice: decimal.NewFromInt(20), IsActive: true}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p3", SKU: "C", Name: "C", IsActive: false}))

	yesterday := now.AddDate(0, 0, -1)
	soon := now.AddDate(0, 0, 10)
	later := now.AddDate(1, 0, 0)
	for _, b := range []*entity.Batch{
		{ID: "b1", ProductID: "p1", StoreID: "s1", BatchNumber: "x", Quantity: 3, UnitCost: decimal.NewFromInt(4), ExpirationDate: &yesterday, IsActive: true},
		{ID: "b2", ProductID: "p2", StoreID: "s1", BatchNumber: "y", Quantity: 2, UnitCost: decimal.NewFromInt(8), ExpirationDate: &soon, IsActive: true},
		{ID: "b3", ProductID: "p2", StoreID: "s2", BatchNumber: "z", Quantity: 1, UnitCost: decimal.NewFromInt(8), ExpirationDate: &later, IsActive: true},
		{ID: "b4", ProductID: "p2", StoreID: "s1", BatchNumber: "w", Quantity: 0, UnitCost: decimal.NewFromInt(8), IsActive: true},
	} {
		require.NoError(t, repos.Batches.Create(ctx, b))
	}
	return st
}

func newReports(st *memory.Store, cache *mapCache) *reports.ReportUseCase {
	repos := st.Repos()
	return reports.NewReportUseCase(repos.Products, repos.Batches, repos.Sales, repos.GRNs, cache, time.Minute, 30)
}

func TestInventorySummary_PorTienda(t *testing.T) {
	st := seed(t)
	uc := newReports(st, newMapCache())

	s, err := uc.InventorySummary(context.Background(), "s1", now)
	require.NoError(t, err)
	assert.Equal(t, "s1", s.StoreID)
	assert.Equal(t, 2, s.ProductCount)
	assert.Equal(t, 2, s.StockedCount)
	assert.Equal(t, 2, s.BatchCount)
	assert.Equal(t, 5, s.UnitsOnHand)
	assert.True(t, decimal.NewFromInt(28).Equal(s.StockValue), s.StockValue.String())
	assert.True(t, decimal.NewFromInt(70).Equal(s.RetailValue), s.RetailValue.String())
	assert.Equal(t, 1, s.ExpiredCount)
	assert.Equal(t, 1, s.ExpiringSoon)
	assert.Equal(t, 30, s.ExpiringDays)
	assert.Equal(t, 1, s.LowStockCount)
}

func TestInventorySummary_Cadena(t *testing.T) {
	st := seed(t)
	uc := newReports(st, newMapCache())

	s, err := uc.InventorySummary(context.Background(), "", now)
	require.NoError(t, err)
	assert.Equal(t, 6, s.UnitsOnHand)
	assert.Equal(t, 3, s.BatchCount)
	assert.True(t, decimal.NewFromInt(36).Equal(s.StockValue))
}

func TestInventorySummary_CacheEInvalidacion(t *testing.T) {
	st := seed(t)
	cache := newMapCache()
	uc := newReports(st, cache)
	ctx := context.Background()

	first, err := uc.InventorySummary(ctx, "s1", now)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	require.NoError(t, st.Repos().Batches.Create(ctx, &entity.Batch{
		ID: "b5", ProductID: "p1", StoreID: "s1", BatchNumber: "n", Quantity: 10, UnitCost: decimal.NewFromInt(1), IsActive: true,
	}))

	cached, err := uc.InventorySummary(ctx, "s1", now)
	require.NoError(t, err)
	assert.Equal(t, first.UnitsOnHand, cached.UnitsOnHand)
	assert.Equal(t, 1, cache.sets)

	uc.Invalidate(ctx)
	fresh, err := uc.InventorySummary(ctx, "s1", now)
	require.NoError(t, err)
	assert.Equal(t, 15, fresh.UnitsOnHand)
	assert.Equal(t, 0, fresh.LowStockCount)
	assert.Equal(t, 2, cache.sets)
}

func TestSalesSummary_TicketPromedio(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	for i, total := range []int64{10, 20} {
		sale := &entity.Sale{
			ID:            []string{"v1", "v2"}[i],
			InvoiceNumber: []string{"INV-1", "INV-2"}[i],
			StoreID:       "s1",
			PaymentMethod: entity.PaymentMethodCash,
			PaymentStatus: entity.PaymentStatusPaid,
			Subtotal:      decimal.NewFromInt(total),
			TotalAmount:   decimal.NewFromInt(total),
			SaleDate:      now,
		}
		require.NoError(t, st.Repos().Sales.Create(ctx, sale))
	}
	uc := newReports(st, newMapCache())

	s, err := uc.SalesSummary(ctx, repository.SaleFilter{StoreID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, 2, s.SaleCount)
	assert.True(t, decimal.NewFromInt(15).Equal(s.AverageTicket), s.AverageTicket.String())
	assert.NotNil(t, s.ByPaymentMethod)

	empty, err := uc.SalesSummary(ctx, repository.SaleFilter{StoreID: "otra"})
	require.NoError(t, err)
	assert.True(t, empty.AverageTicket.IsZero())
}

func TestGRNSummary_Vacio(t *testing.T) {
	uc := newReports(memory.New(), newMapCache())
	s, err := uc.GRNSummary(context.Background(), repository.GRNFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, s.Total)
	assert.True(t, s.TotalValue.IsZero())
}

type captureExporter struct {
	rows []reports.InventoryRow
}

func (c *captureExporter) ExportInventory(_ context.Context, rows []reports.InventoryRow, _ time.Time) ([]byte, error) {
	c.rows = rows
	return []byte("xlsx"), nil
}

func TestExportInventory_EnriqueceFilas(t *testing.T) {
	st := seed(t)
	repos := st.Repos()
	ctx := context.Background()
	require.NoError(t, repos.Stores.Create(ctx, &entity.Store{ID: "s1", Code: "CTR", Name: "Centro", IsActive: true}))

	exp := &captureExporter{}
	uc := reports.NewExportUseCase(repos.Products, repos.Stores, repos.Batches, exp)

	data, name, err := uc.ExportInventory(ctx, "s1", now)
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), data)
	assert.Equal(t, "inventario_CTR_20240310.xlsx", name)
	// los lotes activos en cero también se exportan
	require.Len(t, exp.rows, 3)
	for _, r := range exp.rows {
		assert.Equal(t, "CTR", r.StoreCode)
		assert.NotEmpty(t, r.SKU)
	}

	_, name, err = uc.ExportInventory(ctx, "", now)
	require.NoError(t, err)
	assert.Equal(t, "inventario_cadena_20240310.xlsx", name)
	assert.Len(t, exp.rows, 4)
}
