package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/suplementos-api/internal/application/sales"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0,00", money(decimal.Zero))
	assert.Equal(t, "$999,90", money(decimal.RequireFromString("999.9")))
	assert.Equal(t, "$25.000,50", money(decimal.RequireFromString("25000.5")))
	assert.Equal(t, "$1.000.000,00", money(decimal.NewFromInt(1000000)))
	assert.Equal(t, "-$1.500,00", money(decimal.NewFromInt(-1500)))
}

func TestGenerateReceipt(t *testing.T) {
	sale := &entity.Sale{
		InvoiceNumber: "INV-20240110120000000000000-abcd1234",
		SaleDate:      time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
		PaymentMethod: entity.PaymentMethodCash,
		PaymentStatus: entity.PaymentStatusPaid,
		Subtotal:      decimal.NewFromInt(20),
		TotalAmount:   decimal.NewFromInt(20),
	}
	store := &entity.Store{Code: "CTR", Name: "Tienda Centro"}
	lines := []sales.ReceiptLine{{
		SaleItem:    entity.SaleItem{Quantity: 4, UnitPrice: decimal.NewFromInt(5), LineTotal: decimal.NewFromInt(20)},
		ProductName: "Whey",
		SKU:         "WHEY-1",
	}}

	g := NewMarotoPDFGenerator()
	out, err := g.GenerateReceipt(context.Background(), sale, store, lines)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	sale.PaymentStatus = entity.PaymentStatusVoided
	voided, err := g.GenerateReceipt(context.Background(), sale, store, lines)
	require.NoError(t, err)
	assert.NotEmpty(t, voided)
}
