package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suplementos-api/internal/application/inventory"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/suplementos-api/pkg/config"
)

// Requiere una base desechable: SUPLEMENTOS_TEST_DATABASE_URL=postgres://...
func openTestDB(t *testing.T) (*postgres.TxRunner, inventory.Repos) {
	t.Helper()
	url := os.Getenv("SUPLEMENTOS_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("SUPLEMENTOS_TEST_DATABASE_URL no definido")
	}
	mg, err := postgres.NewMigrator(url)
	require.NoError(t, err)
	require.NoError(t, mg.Up())
	require.NoError(t, mg.Close())

	pool, err := postgres.NewPool(context.Background(), config.DBConfig{DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return postgres.NewTxRunner(pool), postgres.NewRepos(pool)
}

func TestPostgres_DeduccionFIFO(t *testing.T) {
	runner, repos := openTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	suffix := uuid.NewString()[:8]

	store := &entity.Store{ID: uuid.NewString(), Code: "T-" + suffix, Name: "Prueba", IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repos.Stores.Create(ctx, store))
	product := &entity.Product{ID: uuid.NewString(), SKU: "SKU-" + suffix, Name: "Whey", IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repos.Products.Create(ctx, product))

	err := repos.Products.Create(ctx, &entity.Product{ID: uuid.NewString(), SKU: "sku-" + suffix, Name: "dup", CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, domain.ErrConflict)

	older := &entity.Batch{
		ID: uuid.NewString(), ProductID: product.ID, StoreID: store.ID, BatchNumber: "A", Quantity: 3,
		UnitCost: decimal.NewFromInt(10), DateReceived: now.Add(-48 * time.Hour), IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	newer := &entity.Batch{
		ID: uuid.NewString(), ProductID: product.ID, StoreID: store.ID, BatchNumber: "B", Quantity: 5,
		UnitCost: decimal.NewFromInt(20), DateReceived: now, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repos.Batches.Create(ctx, newer))
	require.NoError(t, repos.Batches.Create(ctx, older))

	engine := inventory.NewEngine(runner, repos.Batches)
	allocs, err := engine.AllocateDeduction(ctx, "tester", inventory.DeductionInput{
		ProductID: product.ID, StoreID: store.ID, Quantity: 4, Reference: "ADJ-" + suffix,
	})
	require.NoError(t, err)
	require.Len(t, allocs, 2)
	assert.Equal(t, older.ID, allocs[0].Batch.ID)
	assert.Equal(t, 3, allocs[0].Quantity)
	assert.Equal(t, newer.ID, allocs[1].Batch.ID)
	assert.Equal(t, 1, allocs[1].Quantity)

	available, err := repos.Batches.ListAvailable(ctx, repository.BatchScope{ProductID: product.ID, StoreID: store.ID})
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, 4, available[0].Quantity)

	entries, err := repos.Ledger.List(ctx, repository.LedgerFilter{Reference: "ADJ-" + suffix})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, newer.ID, *entries[0].BatchID)
	assert.Equal(t, entity.DirectionOut, entries[0].Direction)

	stock, err := repos.Batches.StockByProduct(ctx, store.ID)
	require.NoError(t, err)
	require.Len(t, stock, 1)
	assert.Equal(t, 4, stock[0].OnHand)
	assert.True(t, decimal.NewFromInt(80).Equal(stock[0].StockValue))

	_, err = engine.AllocateDeduction(ctx, "tester", inventory.DeductionInput{ProductID: product.ID, StoreID: store.ID, Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}
