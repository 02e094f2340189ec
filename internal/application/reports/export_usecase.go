package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

// InventoryRow fila de la exportación: un lote activo con los datos de catálogo y tienda.
type InventoryRow struct {
	Batch       *entity.Batch
	SKU         string
	ProductName string
	StoreCode   string
	StoreName   string
}

// InventoryExporter puerto de salida que serializa las filas (XLSX).
type InventoryExporter interface {
	ExportInventory(ctx context.Context, rows []InventoryRow, generatedAt time.Time) ([]byte, error)
}

// ExportUseCase exporta el inventario por lote a hoja de cálculo.
type ExportUseCase struct {
	products repository.ProductRepository
	stores   repository.StoreRepository
	batches  repository.BatchRepository
	exporter InventoryExporter
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(
	products repository.ProductRepository,
	stores repository.StoreRepository,
	batches repository.BatchRepository,
	exporter InventoryExporter,
) *ExportUseCase {
	return &ExportUseCase{products: products, stores: stores, batches: batches, exporter: exporter}
}

// ExportInventory una fila por lote activo (incluye lotes en cero); storeID vacío exporta la cadena.
func (uc *ExportUseCase) ExportInventory(ctx context.Context, storeID string, now time.Time) (data []byte, filename string, err error) {
	batches, err := uc.batches.List(ctx, repository.BatchFilter{StoreID: storeID, ActiveOnly: true})
	if err != nil {
		return nil, "", fmt.Errorf("export: lotes: %w", err)
	}

	products := make(map[string]*entity.Product)
	stores := make(map[string]*entity.Store)
	rows := make([]InventoryRow, 0, len(batches))
	for _, b := range batches {
		p, ok := products[b.ProductID]
		if !ok {
			if p, err = uc.products.GetByID(ctx, b.ProductID); err != nil {
				return nil, "", fmt.Errorf("export: producto %s: %w", b.ProductID, err)
			}
			products[b.ProductID] = p
		}
		s, ok := stores[b.StoreID]
		if !ok {
			if s, err = uc.stores.GetByID(ctx, b.StoreID); err != nil {
				return nil, "", fmt.Errorf("export: tienda %s: %w", b.StoreID, err)
			}
			stores[b.StoreID] = s
		}
		row := InventoryRow{Batch: b}
		if p != nil {
			row.SKU, row.ProductName = p.SKU, p.Name
		}
		if s != nil {
			row.StoreCode, row.StoreName = s.Code, s.Name
		}
		rows = append(rows, row)
	}

	data, err = uc.exporter.ExportInventory(ctx, rows, now)
	if err != nil {
		return nil, "", fmt.Errorf("export: generar: %w", err)
	}
	scope := "cadena"
	if storeID != "" {
		if s := stores[storeID]; s != nil {
			scope = s.Code
		} else {
			scope = storeID
		}
	}
	return data, fmt.Sprintf("inventario_%s_%s.xlsx", scope, now.Format("20060102")), nil
}
