package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/suplementos-api/internal/application/dto"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición para una tienda (o toda la cadena).
// Combina existencias por lote con el punto de reorden del catálogo.
type ReplenishmentUseCase struct {
	products repository.ProductRepository
	batches  repository.BatchRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	products repository.ProductRepository,
	batches repository.BatchRepository,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		products: products,
		batches:  batches,
	}
}

// GenerateReplenishmentList devuelve los productos activos bajo punto de reorden con la cantidad
// sugerida de pedido, ordenados por déficit. storeID vacío considera el stock de toda la cadena.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, storeID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	// 1. Existencias por producto
	stock, err := uc.batches.StockByProduct(ctx, storeID)
	if err != nil {
		return nil, err
	}
	stockByID := make(map[string]repository.ProductStock, len(stock))
	for _, s := range stock {
		stockByID[s.ProductID] = s
	}

	// 2. Catálogo activo
	products, err := uc.products.List(ctx, repository.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	// 3. Sugerencias: ideal = ⌈1.5 × reorden⌉, pedido = ideal − existencia
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0)
	for _, p := range products {
		s := stockByID[p.ID]
		if p.ReorderPoint <= 0 || !p.IsLowStock(s.OnHand) {
			continue
		}
		ideal := (p.ReorderPoint*3 + 1) / 2
		suggested := ideal - s.OnHand

		unitCost := p.CostPrice
		if s.OnHand > 0 {
			unitCost = s.StockValue.Div(decimal.NewFromInt(int64(s.OnHand))).Round(2)
		}

		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          p.ID,
			SKU:                p.SKU,
			ProductName:        p.Name,
			CurrentStock:       s.OnHand,
			ReorderPoint:       p.ReorderPoint,
			Deficit:            p.ReorderPoint - s.OnHand,
			IdealStock:         ideal,
			SuggestedOrderQty:  suggested,
			UnitCost:           unitCost,
			EstimatedOrderCost: unitCost.Mul(decimal.NewFromInt(int64(suggested))),
		})
	}

	// 4. Mayor déficit primero; SKU como desempate
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Deficit != b.Deficit {
			return a.Deficit > b.Deficit
		}
		return a.SKU < b.SKU
	})

	// 5. Asignar prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}

	return suggestions, nil
}
