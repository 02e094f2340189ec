package inventory

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	domaininv "github.com/jhoicas/suplementos-api/internal/domain/inventory"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

// Demand cantidad pedida sobre un alcance o sobre un lote fijo.
type Demand struct {
	Scope    repository.BatchScope
	BatchID  *string
	Quantity int
}

type poolKey struct {
	productID string
	storeID   string
}

// CheckAvailability verifica que un conjunto de demandas se pueda satisfacer completo. Las demandas
// de un mismo producto y tienda comparten un solo pool de lotes: primero se descuentan los lotes
// fijos, luego las demandas de un sabor concreto y al final las de cualquier sabor sobre el resto.
// No escribe; bloquea las filas leídas hasta el fin de la tx.
func (e *Engine) CheckAvailability(ctx context.Context, repos Repos, demands []Demand) error {
	pools := map[poolKey][]Demand{}
	var order []poolKey
	for _, d := range demands {
		key := poolKey{productID: d.Scope.ProductID, storeID: d.Scope.StoreID}
		if _, ok := pools[key]; !ok {
			order = append(order, key)
		}
		pools[key] = append(pools[key], d)
	}
	for _, key := range order {
		if err := e.checkPool(ctx, repos, key, pools[key]); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) checkPool(ctx context.Context, repos Repos, key poolKey, demands []Demand) error {
	locked, err := repos.Batches.ListAvailableForUpdate(ctx, repository.BatchScope{ProductID: key.productID, StoreID: key.storeID})
	if err != nil {
		return fmt.Errorf("listar lotes disponibles: %w", err)
	}
	// Copias: el pool se consume en memoria y los lotes leídos no se tocan.
	pool := make([]*entity.Batch, 0, len(locked))
	byID := make(map[string]*entity.Batch, len(locked))
	for _, b := range locked {
		c := *b
		pool = append(pool, &c)
		byID[c.ID] = &c
	}

	byBatch := map[string]int{}
	batchScope := map[string]repository.BatchScope{}
	byFlavor := map[string]int{}
	anyFlavor := 0
	for _, d := range demands {
		switch {
		case d.BatchID != nil:
			byBatch[*d.BatchID] += d.Quantity
			batchScope[*d.BatchID] = d.Scope
		case d.Scope.ProductFlavorID != nil:
			byFlavor[*d.Scope.ProductFlavorID] += d.Quantity
		default:
			anyFlavor += d.Quantity
		}
	}

	for _, id := range slices.Sorted(maps.Keys(byBatch)) {
		need := byBatch[id]
		b, err := e.lockExplicit(ctx, repos, batchScope[id], id)
		if err != nil {
			return err
		}
		if b.Quantity < need {
			return &domain.InsufficientStockError{
				ProductID: key.productID,
				StoreID:   key.storeID,
				BatchID:   id,
				Requested: need,
				Available: b.Quantity,
			}
		}
		if c, ok := byID[id]; ok {
			c.Quantity -= need
		}
	}

	for _, flavorID := range slices.Sorted(maps.Keys(byFlavor)) {
		need := byFlavor[flavorID]
		scope := repository.BatchScope{ProductID: key.productID, StoreID: key.storeID, ProductFlavorID: &flavorID}
		subset := make([]*entity.Batch, 0, len(pool))
		for _, b := range pool {
			if scope.Matches(b) {
				subset = append(subset, b)
			}
		}
		plan := domaininv.PlanFIFO(subset, need)
		if !plan.Satisfied() {
			return &domain.InsufficientStockError{
				ProductID: key.productID,
				StoreID:   key.storeID,
				Requested: need,
				Available: plan.Taken,
			}
		}
		for _, p := range plan.Portions {
			p.Batch.Quantity -= p.Quantity
		}
	}

	if anyFlavor > 0 {
		if available := domaininv.Available(pool); available < anyFlavor {
			return &domain.InsufficientStockError{
				ProductID: key.productID,
				StoreID:   key.storeID,
				Requested: anyFlavor,
				Available: available,
			}
		}
	}
	return nil
}
