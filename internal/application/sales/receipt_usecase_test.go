package sales_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suplementos-api/internal/application/sales"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

type fakeGenerator struct {
	lines []sales.ReceiptLine
	store *entity.Store
	err   error
}

func (g *fakeGenerator) GenerateReceipt(_ context.Context, _ *entity.Sale, store *entity.Store, lines []sales.ReceiptLine) ([]byte, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.store = store
	g.lines = lines
	return []byte("%PDF-fake"), nil
}

func TestReceipt_EnriqueceLineas(t *testing.T) {
	f := newFixture(t)
	f.addBatch(t, "B1", "s1", 10, "2.00", 1)
	ctx := context.Background()
	sale, err := f.uc.Create(ctx, "c", sales.CreateInput{StoreID: "s1", Items: []sales.ItemInput{line(2, "5")}})
	require.NoError(t, err)

	gen := &fakeGenerator{}
	repos := f.store.Repos()
	uc := sales.NewReceiptUseCase(repos.Sales, repos.Stores, repos.Products, gen)

	pdf, name, err := uc.Generate(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.Equal(t, "recibo_"+sale.InvoiceNumber+".pdf", name)
	require.Len(t, gen.lines, 1)
	assert.Equal(t, "Whey", gen.lines[0].ProductName)
	assert.Equal(t, "WHEY-1", gen.lines[0].SKU)
	assert.Equal(t, "Tienda A", gen.store.Name)
}

func TestReceipt_Errores(t *testing.T) {
	f := newFixture(t)
	f.addBatch(t, "B1", "s1", 10, "2.00", 1)
	ctx := context.Background()
	repos := f.store.Repos()

	uc := sales.NewReceiptUseCase(repos.Sales, repos.Stores, repos.Products, &fakeGenerator{})
	_, _, err := uc.Generate(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	sale, err := f.uc.Create(ctx, "c", sales.CreateInput{StoreID: "s1", Items: []sales.ItemInput{line(1, "5")}})
	require.NoError(t, err)
	boom := errors.New("boom")
	uc = sales.NewReceiptUseCase(repos.Sales, repos.Stores, repos.Products, &fakeGenerator{err: boom})
	_, _, err = uc.Generate(ctx, sale.ID)
	assert.ErrorIs(t, err, boom)
}
