package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

// AverageUnitCost implementa el costo promedio ponderado por cantidad sobre lotes vivos (servicio de dominio).
// Costo = Σ(cantidad × costo) / Σ cantidad, solo lotes activos con cantidad > 0; 0 si no hay ninguno.
func AverageUnitCost(batches []*entity.Batch) decimal.Decimal {
	qty := decimal.Zero
	value := decimal.Zero
	for _, b := range batches {
		if !b.IsAvailable() {
			continue
		}
		q := decimal.NewFromInt(int64(b.Quantity))
		qty = qty.Add(q)
		value = value.Add(q.Mul(b.UnitCost))
	}
	if qty.IsZero() {
		return decimal.Zero
	}
	return value.Div(qty)
}
