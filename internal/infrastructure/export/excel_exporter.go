// Package export genera la exportación de inventario en XLSX con excelize.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/suplementos-api/internal/application/reports"
)

const sheetName = "Inventario"

var headings = []string{
	"Tienda", "SKU", "Producto", "Lote", "Vencimiento", "Cantidad",
	"Costo unitario", "Valor", "Ubicación", "Recibido",
}

// ExcelExporter implementa reports.InventoryExporter.
type ExcelExporter struct{}

var _ reports.InventoryExporter = ExcelExporter{}

// NewExcelExporter construye el exportador.
func NewExcelExporter() ExcelExporter { return ExcelExporter{} }

// ExportInventory escribe encabezados en la fila 1 y una fila por lote desde la 2.
// La última fila lleva el total de unidades y de valor.
func (ExcelExporter) ExportInventory(_ context.Context, rows []reports.InventoryRow, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}
	_ = f.SetDocProps(&excelize.DocProperties{
		Title:   "Inventario por lote",
		Created: generatedAt.UTC().Format(time.RFC3339),
	})

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	for i, h := range headings {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headings), 1)
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, bold); err != nil {
		return nil, err
	}

	totalUnits := 0
	totalValue := 0.0
	for i, r := range rows {
		b := r.Batch
		expiration := ""
		if b.ExpirationDate != nil {
			expiration = b.ExpirationDate.Format("2006-01-02")
		}
		cost, _ := b.UnitCost.Float64()
		value, _ := b.StockValue().Float64()
		values := []interface{}{
			r.StoreCode, r.SKU, r.ProductName, b.BatchNumber, expiration, b.Quantity,
			cost, value, b.Location, b.DateReceived.Format("2006-01-02"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("export: fila %d: %w", i+2, err)
		}
		totalUnits += b.Quantity
		totalValue += value
	}

	totalRow := len(rows) + 2
	totals := []interface{}{"TOTAL", "", "", "", "", totalUnits, "", totalValue}
	cell, _ := excelize.CoordinatesToCellName(1, totalRow)
	if err := f.SetSheetRow(sheetName, cell, &totals); err != nil {
		return nil, err
	}
	end, _ := excelize.CoordinatesToCellName(len(totals), totalRow)
	if err := f.SetCellStyle(sheetName, cell, end, bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: escribir xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
