package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/suplementos-api/internal/application/reports"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

func TestExportInventory(t *testing.T) {
	exp := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	rows := []reports.InventoryRow{
		{
			Batch: &entity.Batch{
				BatchNumber: "L-1", Quantity: 6, UnitCost: decimal.RequireFromString("2.50"),
				ExpirationDate: &exp, Location: "A1", DateReceived: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			SKU: "WHEY-1", ProductName: "Whey", StoreCode: "CTR",
		},
		{
			Batch:     &entity.Batch{BatchNumber: "L-2", Quantity: 4, UnitCost: decimal.NewFromInt(1)},
			SKU:       "CREA-1", ProductName: "Creatina", StoreCode: "CTR",
		},
	}

	data, err := NewExcelExporter().ExportInventory(context.Background(), rows, time.Now())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, headings, got[0])
	assert.Equal(t, "WHEY-1", got[1][1])
	assert.Equal(t, "2025-06-30", got[1][4])
	assert.Equal(t, "6", got[1][5])
	assert.Equal(t, "15", got[1][7])
	assert.Equal(t, "TOTAL", got[3][0])
	assert.Equal(t, "10", got[3][5])
	assert.Equal(t, "19", got[3][7])
}
