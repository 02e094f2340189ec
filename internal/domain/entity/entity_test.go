package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

func dateOf(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestBatch_DeductNoQuedaNegativo(t *testing.T) {
	b := &entity.Batch{Quantity: 3}
	require.NoError(t, b.Deduct(2))
	assert.Equal(t, 1, b.Quantity)
	assert.Error(t, b.Deduct(2), "no debe permitir cantidad negativa")
	assert.Equal(t, 1, b.Quantity, "un fallo no debe mutar el lote")
	assert.Error(t, b.Deduct(0))
	assert.Error(t, b.Add(-1))
}

func TestBatch_Vencimiento(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC)

	expired := &entity.Batch{ExpirationDate: dateOf(2024, 6, 9)}
	assert.True(t, expired.IsExpired(now))
	assert.False(t, expired.ExpiresWithin(now, 30))

	today := &entity.Batch{ExpirationDate: dateOf(2024, 6, 10)}
	assert.False(t, today.IsExpired(now), "vence hoy: aún no está vencido")
	assert.True(t, today.ExpiresWithin(now, 30))

	edge := &entity.Batch{ExpirationDate: dateOf(2024, 7, 10)}
	assert.True(t, edge.ExpiresWithin(now, 30))
	days, ok := edge.DaysUntilExpiry(now)
	require.True(t, ok)
	assert.Equal(t, 30, days)

	later := &entity.Batch{ExpirationDate: dateOf(2024, 7, 11)}
	assert.False(t, later.ExpiresWithin(now, 30))

	none := &entity.Batch{}
	assert.False(t, none.IsExpired(now))
	_, ok = none.DaysUntilExpiry(now)
	assert.False(t, ok)
}

func TestSale_Recalculate(t *testing.T) {
	s := &entity.Sale{
		TaxAmount:      decimal.RequireFromString("1.50"),
		DiscountAmount: decimal.RequireFromString("0.50"),
		Items: []entity.SaleItem{
			{Quantity: 4, UnitPrice: decimal.RequireFromString("5.00"), UnitCost: decimal.RequireFromString("2.00")},
			{Quantity: 1, UnitPrice: decimal.RequireFromString("10.00"), Discount: decimal.RequireFromString("1.00"), UnitCost: decimal.RequireFromString("6.00")},
		},
	}
	s.Recalculate()

	assert.True(t, s.Items[0].LineTotal.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, s.Items[1].LineTotal.Equal(decimal.RequireFromString("9.00")))
	assert.True(t, s.Subtotal.Equal(decimal.RequireFromString("29.00")))
	assert.True(t, s.TotalAmount.Equal(decimal.RequireFromString("30.00")), "total = subtotal + impuesto - descuento")
	assert.True(t, s.Profit().Equal(decimal.RequireFromString("15.00")))
	assert.Equal(t, 5, s.UnitsSold())
}

func TestGRN_Recalculate(t *testing.T) {
	g := &entity.GRN{Items: []entity.GRNItem{
		{QuantityReceived: 10, UnitCost: decimal.RequireFromString("2.50")},
		{QuantityReceived: 3, UnitCost: decimal.RequireFromString("1.10")},
	}}
	g.Recalculate()
	assert.True(t, g.TotalAmount.Equal(decimal.RequireFromString("28.30")))
	assert.Equal(t, "BATCH-GRN-1-p1", entity.DefaultBatchNumber("GRN-1", "p1", nil))
	pf := "pfa"
	assert.Equal(t, "BATCH-GRN-1-p1-pfa", entity.DefaultBatchNumber("GRN-1", "p1", &pf))
}

func TestLedgerEntry_SignedQuantity(t *testing.T) {
	out := entity.LedgerEntry{Kind: entity.LedgerKindSale, Direction: entity.LedgerKindSale.DefaultDirection(), Quantity: 4}
	in := entity.LedgerEntry{Kind: entity.LedgerKindReturn, Direction: entity.LedgerKindReturn.DefaultDirection(), Quantity: 4}
	adj := entity.LedgerEntry{Kind: entity.LedgerKindAdjustment, Direction: entity.DirectionOut, Quantity: 2}

	assert.Equal(t, -4, out.SignedQuantity())
	assert.Equal(t, 4, in.SignedQuantity())
	assert.Equal(t, -2, adj.SignedQuantity())
	assert.Equal(t, entity.Direction(""), entity.LedgerKindAdjustment.DefaultDirection())
	assert.True(t, entity.LedgerKindTransferIn.Valid())
	assert.False(t, entity.LedgerKind("gift").Valid())
}

func TestTransfer_Estados(t *testing.T) {
	tr := &entity.StockTransfer{Status: entity.TransferStatusInTransit}
	assert.True(t, tr.CanCancel())
	assert.False(t, tr.CanApprove())
	tr.Status = entity.TransferStatusCompleted
	assert.False(t, tr.CanCancel())
}
