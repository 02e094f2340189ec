package inventory

import (
	"sort"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

// Portion cantidad tomada de un lote concreto.
type Portion struct {
	Batch    *entity.Batch
	Quantity int
}

// Plan resultado de planificar una deducción: porciones y faltante.
type Plan struct {
	Portions  []Portion
	Taken     int
	Shortfall int
}

// Satisfied indica si el plan cubre toda la cantidad pedida.
func (p Plan) Satisfied() bool { return p.Shortfall == 0 }

// SortFIFO ordena por fecha de recepción ascendente y luego por ID para que el orden sea determinista.
func SortFIFO(batches []*entity.Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		if !a.DateReceived.Equal(b.DateReceived) {
			return a.DateReceived.Before(b.DateReceived)
		}
		return a.ID < b.ID
	})
}

// PlanFIFO recorre los lotes disponibles del más antiguo al más nuevo tomando min(lote, restante).
// No modifica los lotes: el llamador aplica el plan solo si Satisfied().
func PlanFIFO(batches []*entity.Batch, quantity int) Plan {
	available := make([]*entity.Batch, 0, len(batches))
	for _, b := range batches {
		if b.IsAvailable() {
			available = append(available, b)
		}
	}
	SortFIFO(available)

	plan := Plan{}
	remaining := quantity
	for _, b := range available {
		if remaining <= 0 {
			break
		}
		take := min(b.Quantity, remaining)
		plan.Portions = append(plan.Portions, Portion{Batch: b, Quantity: take})
		plan.Taken += take
		remaining -= take
	}
	if remaining > 0 {
		plan.Shortfall = remaining
	}
	return plan
}

// Available suma la cantidad de los lotes activos con existencia.
func Available(batches []*entity.Batch) int {
	total := 0
	for _, b := range batches {
		if b.IsAvailable() {
			total += b.Quantity
		}
	}
	return total
}
