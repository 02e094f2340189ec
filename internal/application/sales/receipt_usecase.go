package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

// ReceiptLine línea de venta enriquecida con el nombre del producto para imprimir.
type ReceiptLine struct {
	entity.SaleItem
	ProductName string
	SKU         string
}

// ReceiptGenerator puerto de salida que renderiza el recibo de una venta.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, sale *entity.Sale, store *entity.Store, lines []ReceiptLine) ([]byte, error)
}

// ReceiptUseCase genera el recibo PDF de una venta.
type ReceiptUseCase struct {
	sales     repository.SaleRepository
	stores    repository.StoreRepository
	products  repository.ProductRepository
	generator ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso inyectando todas sus dependencias.
func NewReceiptUseCase(
	sales repository.SaleRepository,
	stores repository.StoreRepository,
	products repository.ProductRepository,
	generator ReceiptGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{sales: sales, stores: stores, products: products, generator: generator}
}

// Generate devuelve los bytes del PDF y el nombre de archivo sugerido.
// Las ventas anuladas también generan recibo; el generador marca el estado.
func (uc *ReceiptUseCase) Generate(ctx context.Context, saleID string) (pdfBytes []byte, filename string, err error) {
	sale, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.NewNotFoundError("sale", saleID)
	}

	store, err := uc.stores.GetByID(ctx, sale.StoreID)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: obtener tienda: %w", err)
	}
	if store == nil {
		return nil, "", domain.NewNotFoundError("store", sale.StoreID)
	}

	lines := make([]ReceiptLine, 0, len(sale.Items))
	for _, it := range sale.Items {
		name := "Producto " + it.ProductID // fallback
		sku := ""
		if p, pErr := uc.products.GetByID(ctx, it.ProductID); pErr == nil && p != nil {
			name = p.Name
			sku = p.SKU
		}
		lines = append(lines, ReceiptLine{SaleItem: it, ProductName: name, SKU: sku})
	}

	pdfBytes, err = uc.generator.GenerateReceipt(ctx, sale, store, lines)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("recibo_%s.pdf", sale.InvoiceNumber), nil
}
