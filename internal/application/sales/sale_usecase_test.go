package sales_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suplementos-api/internal/application/inventory"
	"github.com/jhoicas/suplementos-api/internal/application/sales"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/memory"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

type fixture struct {
	store *memory.Store
	uc    *sales.SaleUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	ctx := context.Background()
	repos := st.Repos()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "WHEY-1", Name: "Whey", IsActive: true}))
	require.NoError(t, repos.Stores.Create(ctx, &entity.Store{ID: "s1", Code: "A", Name: "Tienda A", IsActive: true}))
	require.NoError(t, repos.Stores.Create(ctx, &entity.Store{ID: "s2", Code: "B", Name: "Tienda B", IsActive: true}))
	engine := inventory.NewEngine(st, repos.Batches)
	return &fixture{store: st, uc: sales.NewSaleUseCase(st, engine, repos.Sales)}
}

func (f *fixture) addBatch(t *testing.T, id, storeID string, qty int, cost string, day int) {
	t.Helper()
	require.NoError(t, f.store.Repos().Batches.Create(context.Background(), &entity.Batch{
		ID:           id,
		ProductID:    "p1",
		StoreID:      storeID,
		BatchNumber:  "L-" + id,
		Quantity:     qty,
		UnitCost:     decimal.RequireFromString(cost),
		DateReceived: time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		IsActive:     true,
	}))
}

func (f *fixture) qty(t *testing.T, id string) int {
	t.Helper()
	b, err := f.store.Repos().Batches.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, b)
	return b.Quantity
}

func (f *fixture) entries(t *testing.T, kind entity.LedgerKind) []*entity.LedgerEntry {
	t.Helper()
	list, err := f.store.Repos().Ledger.List(context.Background(), repository.LedgerFilter{Kind: kind})
	require.NoError(t, err)
	return list
}

func line(qty int, price string) sales.ItemInput {
	return sales.ItemInput{ProductID: "p1", Quantity: qty, UnitPrice: decimal.RequireFromString(price)}
}

func ptr(s string) *string { return &s }

// ─── Create ───────────────────────────────────────────────────────────────────

func TestCreate_VentaFIFOSimple(t *testing.T) {
	f := newFixture(t)
	f.addBatch(t, "B1", "s1", 10, "2.00", 1)

	sale, err := f.uc.Create(context.Background(), "cajero", sales.CreateInput{
		StoreID: "s1",
		Items:   []sales.ItemInput{line(4, "5.00")},
	})
	require.NoError(t, err)

	assert.Equal(t, 6, f.qty(t, "B1"))
	assert.True(t, decimal.NewFromInt(20).Equal(sale.Subtotal))
	assert.True(t, decimal.NewFromInt(20).Equal(sale.TotalAmount))
	assert.Equal(t, entity.PaymentStatusPaid, sale.PaymentStatus)
	assert.Equal(t, entity.PaymentMethodCash, sale.PaymentMethod)
	assert.True(t, strings.HasPrefix(sale.InvoiceNumber, "INV-"))
	assert.True(t, decimal.NewFromInt(2).Equal(sale.Items[0].UnitCost))

	entries := f.entries(t, entity.LedgerKindSale)
	require.Len(t, entries, 1)
	assert.Equal(t, 4, entries[0].Quantity)
	require.NotNil(t, entries[0].BatchID)
	assert.Equal(t, "B1", *entries[0].BatchID)
	require.NotNil(t, entries[0].TotalAmount)
	assert.True(t, decimal.NewFromInt(20).Equal(*entries[0].TotalAmount))
	assert.Equal(t, sale.InvoiceNumber, entries[0].Reference)
}

func TestCreate_LineaQueAbarcaVariosLotes(t *testing.T) {
	f := newFixture(t)
	f.addBatch(t, "B1", "s1", 5, "2.00", 1)
	f.addBatch(t, "B2", "s1", 5, "4.00", 2)

	sale, err := f.uc.Create(context.Background(), "cajero", sales.CreateInput{
		StoreID:        "s1",
		TaxAmount:      decimal.RequireFromString("1.50"),
		DiscountAmount: decimal.RequireFromString("0.50"),
		Items:          []sales.ItemInput{line(7, "10.00")},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, f.qty(t, "B1"))
	assert.Equal(t, 3, f.qty(t, "B2"))
	assert.Len(t, f.entries(t, entity.LedgerKindSale), 2)
	// costo promedio del alcance antes de descontar
	assert.True(t, decimal.NewFromInt(3).Equal(sale.Items[0].UnitCost), sale.Items[0].UnitCost.String())
	assert.True(t, decimal.NewFromInt(71).Equal(sale.TotalAmount), sale.TotalAmount.String())
}

func TestCreate_PrecheckAgregadoSinEscrituras(t *testing.T) {
	f := newFixture(t)
	f.addBatch(t, "B1", "s1", 10, "2.00", 1)

	_, err := f.uc.Create(context.Background(), "cajero", sales.CreateInput{
		StoreID: "s1",
		Items:   []sales.ItemInput{line(6, "5.00"), line(6, "5.00")},
	})
	var short *domain.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 12, short.Requested)
	assert.Equal(t, 10, short.Available)

	assert.Equal(t, 10, f.qty(t, "B1"))
	assert.Empty(t, f.entries(t, ""))
	list, err := f.uc.List(context.Background(), repository.SaleFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreate_LoteExplicito(t *testing.T) {
	f := newFixture(t)
	f.addBatch(t, "B1", "s1", 5, "2.00", 1)
	f.addBatch(t, "B2", "s1", 5, "4.00", 2)

	it := line(3, "9.00")
	it.BatchID = ptr("B2")
	sale, err := f.uc.Create(context.Background(), "cajero", sales.CreateInput{StoreID: "s1", Items: []sales.ItemInput{it}})
	require.NoError(t, err)

	assert.Equal(t, 5, f.qty(t, "B1"))
	assert.Equal(t, 2, f.qty(t, "B2"))
	assert.True(t, decimal.NewFromInt(4).Equal(sale.Items[0].UnitCost))
}

func TestCreate_Errores(t *testing.T) {
	f := newFixture(t)
	f.addBatch(t, "B1", "s1", 5, "2.00", 1)
	f.addBatch(t, "X1", "s2", 5, "2.00", 1)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, "c", sales.CreateInput{StoreID: "s1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(ctx, "c", sales.CreateInput{StoreID: "s1", Items: []sales.ItemInput{line(0, "1")}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(ctx, "c", sales.CreateInput{StoreID: "nope", Items: []sales.ItemInput{line(1, "1")}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ghost := line(1, "1")
	ghost.ProductID = "ghost"
	_, err = f.uc.Create(ctx, "c", sales.CreateInput{StoreID: "s1", Items: []sales.ItemInput{ghost}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	foreign := line(1, "1")
	foreign.BatchID = ptr("X1")
	_, err = f.uc.Create(ctx, "c", sales.CreateInput{StoreID: "s1", Items: []sales.ItemInput{foreign}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing := line(1, "1")
	missing.BatchID = ptr("nada")
	_, err = f.uc.Create(ctx, "c", sales.CreateInput{StoreID: "s1", Items: []sales.ItemInput{missing}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 5, f.qty(t, "X1"))
	assert.Equal(t, 5, f.qty(t, "B1"))
}

func TestCreate_DescuentosAcotados(t *testing.T) {
	f := newFixture(t)
	f.addBatch(t, "B1", "s1", 10, "2.00", 1)
	ctx := context.Background()

	excessLine := line(2, "5.00")
	excessLine.Discount = decimal.RequireFromString("10.01")
	exactLine := line(2, "5.00")
	exactLine.Discount = decimal.RequireFromString("10.00")

	tests := []struct {
		name      string
		in        sales.CreateInput
		wantField string
	}{
		{
			name:      "descuento de línea mayor que cantidad por precio",
			in:        sales.CreateInput{StoreID: "s1", Items: []sales.ItemInput{excessLine}},
			wantField: "items[0].discount",
		},
		{
			name: "descuento general mayor que subtotal más impuesto",
			in: sales.CreateInput{
				StoreID:        "s1",
				Items:          []sales.ItemInput{line(2, "5.00")},
				TaxAmount:      decimal.RequireFromString("1.90"),
				DiscountAmount: decimal.RequireFromString("11.91"),
			},
			wantField: "discount_amount",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Create(ctx, "cajero", tt.in)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Equal(t, 10, f.qty(t, "B1"))
		})
	}

	sale, err := f.uc.Create(ctx, "cajero", sales.CreateInput{
		StoreID:        "s1",
		Items:          []sales.ItemInput{exactLine, line(1, "5.00")},
		DiscountAmount: decimal.RequireFromString("5.00"),
	})
	require.NoError(t, err)
	assert.True(t, sale.Items[0].LineTotal.IsZero())
	assert.True(t, sale.TotalAmount.IsZero(), sale.TotalAmount.String())
}

// ─── Void ─────────────────────────────────────────────────────────────────────

func TestVoid_LoteExplicitoRestauraElMismoLote(t *testing.T) {
	f := newFixture(t)
	f.addBatch(t, "B1", "s1", 5, "2.00", 1)
	f.addBatch(t, "B2", "s1", 5, "4.00", 2)
	ctx := context.Background()

	it := line(3, "9.00")
	it.BatchID = ptr("B1")
	sale, err := f.uc.Create(ctx, "cajero", sales.CreateInput{StoreID: "s1", Notes: "mostrador", Items: []sales.ItemInput{it}})
	require.NoError(t, err)

	voided, err := f.uc.Void(ctx, "admin", sale.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusVoided, voided.PaymentStatus)
	assert.True(t, strings.HasPrefix(voided.Notes, "mostrador\nAnulada el "))
	assert.Equal(t, 5, f.qty(t, "B1"))
	assert.Equal(t, 5, f.qty(t, "B2"))

	returns := f.entries(t, entity.LedgerKindReturn)
	require.Len(t, returns, 1)
	assert.Equal(t, entity.DirectionIn, returns[0].Direction)
	assert.Equal(t, 3, returns[0].Quantity)

	_, err = f.uc.Void(ctx, "admin", sale.ID)
	var again *domain.AlreadyVoidedError
	require.ErrorAs(t, err, &again)
	assert.Equal(t, 5, f.qty(t, "B1"))
}

func TestVoid_FIFORestauraTotalEnLoteMasReciente(t *testing.T) {
	f := newFixture(t)
	f.addBatch(t, "B1", "s1", 5, "2.00", 1)
	f.addBatch(t, "B2", "s1", 5, "4.00", 2)
	ctx := context.Background()

	sale, err := f.uc.Create(ctx, "cajero", sales.CreateInput{StoreID: "s1", Items: []sales.ItemInput{line(7, "10")}})
	require.NoError(t, err)
	_, err = f.uc.Void(ctx, "admin", sale.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, f.qty(t, "B1"))
	assert.Equal(t, 10, f.qty(t, "B2"))
	assert.Equal(t, 10, f.qty(t, "B1")+f.qty(t, "B2"))
}

func TestVoid_SinLoteActivoCreaLoteDeRestitucion(t *testing.T) {
	f := newFixture(t)
	f.addBatch(t, "B1", "s1", 4, "2.00", 1)
	ctx := context.Background()

	sale, err := f.uc.Create(ctx, "cajero", sales.CreateInput{StoreID: "s1", Items: []sales.ItemInput{line(4, "5")}})
	require.NoError(t, err)

	repos := f.store.Repos()
	b1, err := repos.Batches.GetByID(ctx, "B1")
	require.NoError(t, err)
	b1.IsActive = false
	require.NoError(t, repos.Batches.Update(ctx, b1))

	_, err = f.uc.Void(ctx, "admin", sale.ID)
	require.NoError(t, err)

	list, err := repos.Batches.List(ctx, repository.BatchFilter{StoreID: "s1", ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "VOID-"+sale.InvoiceNumber, list[0].BatchNumber)
	assert.Equal(t, 4, list[0].Quantity)
	assert.True(t, decimal.NewFromInt(2).Equal(list[0].UnitCost))
	assert.Len(t, f.entries(t, entity.LedgerKindReturn), 1)
}

// ─── Update / Summary ─────────────────────────────────────────────────────────

func TestUpdate_SoloMetadatos(t *testing.T) {
	f := newFixture(t)
	f.addBatch(t, "B1", "s1", 10, "2.00", 1)
	ctx := context.Background()

	sale, err := f.uc.Create(ctx, "cajero", sales.CreateInput{StoreID: "s1", Items: []sales.ItemInput{line(2, "5")}})
	require.NoError(t, err)

	pending := entity.PaymentStatusPending
	updated, err := f.uc.Update(ctx, sale.ID, sales.UpdateInput{CustomerName: ptr("Ana"), PaymentStatus: &pending})
	require.NoError(t, err)
	assert.Equal(t, "Ana", updated.CustomerName)
	assert.Equal(t, entity.PaymentStatusPending, updated.PaymentStatus)
	assert.True(t, sale.TotalAmount.Equal(updated.TotalAmount))
	assert.Equal(t, 8, f.qty(t, "B1"))

	voidedStatus := entity.PaymentStatusVoided
	_, err = f.uc.Update(ctx, sale.ID, sales.UpdateInput{PaymentStatus: &voidedStatus})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Void(ctx, "admin", sale.ID)
	require.NoError(t, err)
	_, err = f.uc.Update(ctx, sale.ID, sales.UpdateInput{CustomerName: ptr("Otro")})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestSummary_ExcluyeAnuladas(t *testing.T) {
	f := newFixture(t)
	f.addBatch(t, "B1", "s1", 10, "2.00", 1)
	ctx := context.Background()

	a, err := f.uc.Create(ctx, "c", sales.CreateInput{StoreID: "s1", Items: []sales.ItemInput{line(2, "5")}})
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, "c", sales.CreateInput{StoreID: "s1", PaymentMethod: "card", Items: []sales.ItemInput{line(3, "5")}})
	require.NoError(t, err)
	_, err = f.uc.Void(ctx, "admin", a.ID)
	require.NoError(t, err)

	sum, err := f.uc.Summary(ctx, repository.SaleFilter{StoreID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.SaleCount)
	assert.Equal(t, 3, sum.ItemsSold)
	assert.True(t, decimal.NewFromInt(15).Equal(sum.Revenue))
	assert.True(t, decimal.NewFromInt(9).Equal(sum.GrossProfit))
	assert.True(t, decimal.NewFromInt(15).Equal(sum.ByPaymentMethod["card"]))
}
