package transfers_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suplementos-api/internal/application/inventory"
	"github.com/jhoicas/suplementos-api/internal/application/transfers"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/memory"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

type fixture struct {
	store *memory.Store
	uc    *transfers.TransferUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	ctx := context.Background()
	repos := st.Repos()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "WHEY-1", Name: "Whey", IsActive: true}))
	require.NoError(t, repos.Stores.Create(ctx, &entity.Store{ID: "A", Code: "A", Name: "Tienda A", IsActive: true}))
	require.NoError(t, repos.Stores.Create(ctx, &entity.Store{ID: "B", Code: "B", Name: "Tienda B", IsActive: true}))
	engine := inventory.NewEngine(st, repos.Batches)
	return &fixture{store: st, uc: transfers.NewTransferUseCase(st, engine, repos.Transfers)}
}

func (f *fixture) addBatch(t *testing.T, id string, qty int, cost string, day int) {
	t.Helper()
	exp := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.store.Repos().Batches.Create(context.Background(), &entity.Batch{
		ID:             id,
		ProductID:      "p1",
		StoreID:        "A",
		BatchNumber:    "L-" + id,
		ExpirationDate: &exp,
		Quantity:       qty,
		UnitCost:       decimal.RequireFromString(cost),
		Location:       "Bodega",
		DateReceived:   time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		IsActive:       true,
	}))
}

func (f *fixture) qty(t *testing.T, id string) int {
	t.Helper()
	b, err := f.store.Repos().Batches.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, b)
	return b.Quantity
}

func (f *fixture) batchesAt(t *testing.T, storeID string) []*entity.Batch {
	t.Helper()
	list, err := f.store.Repos().Batches.List(context.Background(), repository.BatchFilter{StoreID: storeID})
	require.NoError(t, err)
	return list
}

func (f *fixture) entries(t *testing.T, kind entity.LedgerKind) []*entity.LedgerEntry {
	t.Helper()
	list, err := f.store.Repos().Ledger.List(context.Background(), repository.LedgerFilter{Kind: kind})
	require.NoError(t, err)
	return list
}

func simple(qty int) transfers.CreateInput {
	return transfers.CreateInput{
		FromStoreID: "A",
		ToStoreID:   "B",
		Items:       []transfers.ItemInput{{ProductID: "p1", Quantity: qty}},
	}
}

// ─── Create ───────────────────────────────────────────────────────────────────

func TestCreate_PendienteSinMoverStock(t *testing.T) {
	f := newFixture(t)
	f.addBatch(t, "B1", 6, "2.00", 1)

	tr, err := f.uc.Create(context.Background(), "u1", simple(6))
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusPending, tr.Status)
	assert.True(t, strings.HasPrefix(tr.TransferNumber, "ST-"))
	assert.Equal(t, 6, f.qty(t, "B1"))
	assert.Empty(t, f.batchesAt(t, "B"))
	assert.Empty(t, f.entries(t, ""))
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	f.addBatch(t, "B1", 6, "2.00", 1)
	ctx := context.Background()

	in := simple(1)
	in.ToStoreID = "A"
	_, err := f.uc.Create(ctx, "u1", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = simple(1)
	in.ToStoreID = "Z"
	_, err = f.uc.Create(ctx, "u1", in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Create(ctx, "u1", simple(7))
	var short *domain.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 6, short.Available)
}

func TestCreate_LineasQueCompartenStockSeSuman(t *testing.T) {
	f := newFixture(t)
	f.addBatch(t, "B1", 4, "2.00", 1)
	f.addBatch(t, "B2", 2, "3.00", 2)
	ctx := context.Background()

	// 4 del lote fijo + 3 por FIFO superan las 6 unidades de la tienda.
	id := "B1"
	in := transfers.CreateInput{
		FromStoreID: "A",
		ToStoreID:   "B",
		Items: []transfers.ItemInput{
			{ProductID: "p1", BatchID: &id, Quantity: 4},
			{ProductID: "p1", Quantity: 3},
		},
	}
	_, err := f.uc.Create(ctx, "u1", in)
	var short *domain.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 2, short.Available)

	in.Items[1].Quantity = 2
	_, err = f.uc.Create(ctx, "u1", in)
	require.NoError(t, err)
}

// ─── Approve ──────────────────────────────────────────────────────────────────

func TestApprove_MueveLoteConCostoYVencimiento(t *testing.T) {
	f := newFixture(t)
	f.addBatch(t, "B1", 6, "2.00", 1)
	ctx := context.Background()

	tr, err := f.uc.Create(ctx, "u1", simple(6))
	require.NoError(t, err)
	done, err := f.uc.Approve(ctx, "admin", tr.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.TransferStatusCompleted, done.Status)
	require.NotNil(t, done.ApprovedBy)
	assert.Equal(t, "admin", *done.ApprovedBy)
	assert.NotNil(t, done.CompletedDate)

	assert.Equal(t, 0, f.qty(t, "B1"))
	dest := f.batchesAt(t, "B")
	require.Len(t, dest, 1)
	assert.Equal(t, 6, dest[0].Quantity)
	assert.Equal(t, "L-B1", dest[0].BatchNumber)
	assert.True(t, decimal.NewFromInt(2).Equal(dest[0].UnitCost))
	require.NotNil(t, dest[0].ExpirationDate)
	assert.Equal(t, 2025, dest[0].ExpirationDate.Year())
	assert.Equal(t, "Bodega", dest[0].Location)

	out := f.entries(t, entity.LedgerKindTransferOut)
	in := f.entries(t, entity.LedgerKindTransferIn)
	require.Len(t, out, 1)
	require.Len(t, in, 1)
	assert.Equal(t, 6, out[0].Quantity)
	assert.Equal(t, "A", out[0].StoreID)
	assert.Equal(t, 6, in[0].Quantity)
	assert.Equal(t, "B", in[0].StoreID)
}

func TestApprove_FIFOVariosLotesConserva(t *testing.T) {
	f := newFixture(t)
	f.addBatch(t, "B1", 3, "2.00", 1)
	f.addBatch(t, "B2", 5, "3.00", 2)
	ctx := context.Background()

	in := simple(5)
	override := decimal.RequireFromString("2.50")
	in.Items[0].UnitCost = &override
	tr, err := f.uc.Create(ctx, "u1", in)
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, "admin", tr.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, f.qty(t, "B1"))
	assert.Equal(t, 3, f.qty(t, "B2"))
	total := 0
	for _, b := range f.batchesAt(t, "B") {
		total += b.Quantity
		assert.True(t, override.Equal(b.UnitCost))
	}
	assert.Equal(t, 5, total)
	assert.Len(t, f.entries(t, entity.LedgerKindTransferIn), 2)
}

func TestApprove_StockInsuficienteNoDejaEfectosParciales(t *testing.T) {
	f := newFixture(t)
	f.addBatch(t, "B1", 6, "2.00", 1)
	ctx := context.Background()

	in := simple(3)
	in.Items = append(in.Items, transfers.ItemInput{ProductID: "p1", Quantity: 3})
	tr, err := f.uc.Create(ctx, "u1", in)
	require.NoError(t, err)

	// otra operación consume stock entre la creación y la aprobación
	b, err := f.store.Repos().Batches.GetByID(ctx, "B1")
	require.NoError(t, err)
	require.NoError(t, f.store.Repos().Batches.UpdateQuantity(ctx, b.ID, 4))

	_, err = f.uc.Approve(ctx, "admin", tr.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 4, f.qty(t, "B1"))
	assert.Empty(t, f.batchesAt(t, "B"))
	assert.Empty(t, f.entries(t, ""))

	got, err := f.uc.Get(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusPending, got.Status)
}

func TestApprove_LoteExplicito(t *testing.T) {
	f := newFixture(t)
	f.addBatch(t, "B1", 3, "2.00", 1)
	f.addBatch(t, "B2", 5, "3.00", 2)
	ctx := context.Background()

	in := simple(2)
	id := "B2"
	in.Items[0].BatchID = &id
	tr, err := f.uc.Create(ctx, "u1", in)
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, "admin", tr.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, f.qty(t, "B1"))
	assert.Equal(t, 3, f.qty(t, "B2"))
}

// ─── Estados ──────────────────────────────────────────────────────────────────

func TestEstados_TransicionesPermitidas(t *testing.T) {
	f := newFixture(t)
	f.addBatch(t, "B1", 10, "2.00", 1)
	ctx := context.Background()

	tr, err := f.uc.Create(ctx, "u1", simple(2))
	require.NoError(t, err)
	updated, err := f.uc.UpdateNotes(ctx, tr.ID, "urgente")
	require.NoError(t, err)
	assert.Equal(t, "urgente", updated.Notes)

	cancelled, err := f.uc.Cancel(ctx, "admin", tr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCancelled, cancelled.Status)

	_, err = f.uc.Approve(ctx, "admin", tr.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.uc.UpdateNotes(ctx, tr.ID, "x")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	other, err := f.uc.Create(ctx, "u1", simple(2))
	require.NoError(t, err)
	_, err = f.uc.Approve(ctx, "admin", other.ID)
	require.NoError(t, err)
	_, err = f.uc.Cancel(ctx, "admin", other.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.uc.Approve(ctx, "admin", other.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 8, f.qty(t, "B1"))

	list, err := f.uc.List(ctx, repository.TransferFilter{StoreID: "B"})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
