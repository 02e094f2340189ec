package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	domaininv "github.com/jhoicas/suplementos-api/internal/domain/inventory"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

type batchRepo struct {
	db *dataset
	g  guard
}

func (r *batchRepo) Create(_ context.Context, b *entity.Batch) error {
	defer r.g.write()()
	if _, ok := r.db.batches[b.ID]; ok {
		return domain.NewConflictError("batch", b.ID)
	}
	r.db.batches[b.ID] = *cloneBatch(*b)
	return nil
}

func (r *batchRepo) GetByID(_ context.Context, id string) (*entity.Batch, error) {
	defer r.g.read()()
	b, ok := r.db.batches[id]
	if !ok {
		return nil, nil
	}
	return cloneBatch(b), nil
}

// GetForUpdate en memoria equivale a GetByID: Run ya serializa las transacciones.
func (r *batchRepo) GetForUpdate(ctx context.Context, id string) (*entity.Batch, error) {
	return r.GetByID(ctx, id)
}

func (r *batchRepo) ListAvailable(_ context.Context, scope repository.BatchScope) ([]*entity.Batch, error) {
	defer r.g.read()()
	return r.available(scope), nil
}

func (r *batchRepo) ListAvailableForUpdate(ctx context.Context, scope repository.BatchScope) ([]*entity.Batch, error) {
	return r.ListAvailable(ctx, scope)
}

func (r *batchRepo) available(scope repository.BatchScope) []*entity.Batch {
	out := make([]*entity.Batch, 0)
	for _, b := range r.db.batches {
		if b.IsAvailable() && scope.Matches(&b) {
			out = append(out, cloneBatch(b))
		}
	}
	domaininv.SortFIFO(out)
	return out
}

func (r *batchRepo) FindReceiptBatchForUpdate(_ context.Context, productID string, productFlavorID *string, storeID, batchNumber, grnID string) (*entity.Batch, error) {
	defer r.g.read()()
	for _, b := range r.db.batches {
		if b.ProductID == productID && sameFlavor(b.ProductFlavorID, productFlavorID) && b.StoreID == storeID &&
			b.BatchNumber == batchNumber && b.GRNID != nil && *b.GRNID == grnID {
			return cloneBatch(b), nil
		}
	}
	return nil, nil
}

func (r *batchRepo) LatestActiveForUpdate(_ context.Context, scope repository.BatchScope) (*entity.Batch, error) {
	defer r.g.read()()
	var latest *entity.Batch
	for _, b := range r.db.batches {
		if !b.IsActive || !scope.Matches(&b) {
			continue
		}
		if latest == nil || b.DateReceived.After(latest.DateReceived) ||
			(b.DateReceived.Equal(latest.DateReceived) && b.ID > latest.ID) {
			latest = cloneBatch(b)
		}
	}
	return latest, nil
}

func (r *batchRepo) UpdateQuantity(_ context.Context, id string, quantity int) error {
	defer r.g.write()()
	b, ok := r.db.batches[id]
	if !ok {
		return domain.ErrNotFound
	}
	if quantity < 0 {
		return domain.NewValidationError("quantity", "no puede ser negativa")
	}
	b.Quantity = quantity
	r.db.batches[id] = b
	return nil
}

func (r *batchRepo) Update(_ context.Context, b *entity.Batch) error {
	defer r.g.write()()
	if _, ok := r.db.batches[b.ID]; !ok {
		return domain.ErrNotFound
	}
	r.db.batches[b.ID] = *cloneBatch(*b)
	return nil
}

func (r *batchRepo) List(_ context.Context, f repository.BatchFilter) ([]*entity.Batch, error) {
	defer r.g.read()()
	out := make([]*entity.Batch, 0)
	for _, b := range r.db.batches {
		switch {
		case f.ProductID != "" && b.ProductID != f.ProductID,
			f.StoreID != "" && b.StoreID != f.StoreID,
			f.SupplierID != "" && (b.SupplierID == nil || *b.SupplierID != f.SupplierID),
			f.GRNID != "" && (b.GRNID == nil || *b.GRNID != f.GRNID),
			f.InStock && b.Quantity <= 0,
			f.ActiveOnly && !b.IsActive:
			continue
		}
		out = append(out, cloneBatch(b))
	}
	domaininv.SortFIFO(out)
	return page(out, f.Limit, f.Offset), nil
}

func (r *batchRepo) ListExpiring(_ context.Context, f repository.ExpiryFilter) ([]*entity.Batch, error) {
	defer r.g.read()()
	out := make([]*entity.Batch, 0)
	for _, b := range r.db.batches {
		if !b.IsAvailable() || b.ExpirationDate == nil {
			continue
		}
		if f.StoreID != "" && b.StoreID != f.StoreID {
			continue
		}
		exp := *b.ExpirationDate
		if f.From != nil && exp.Before(*f.From) {
			continue
		}
		if f.Before != nil && !exp.Before(*f.Before) {
			continue
		}
		out = append(out, cloneBatch(b))
	}
	slices.SortFunc(out, func(a, b *entity.Batch) int {
		if c := a.ExpirationDate.Compare(*b.ExpirationDate); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *batchRepo) CountByProduct(_ context.Context, productID string) (int, error) {
	defer r.g.read()()
	n := 0
	for _, b := range r.db.batches {
		if b.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func (r *batchRepo) StockByProduct(_ context.Context, storeID string) ([]repository.ProductStock, error) {
	defer r.g.read()()
	byProduct := make(map[string]*repository.ProductStock)
	for _, b := range r.db.batches {
		if !b.IsAvailable() || (storeID != "" && b.StoreID != storeID) {
			continue
		}
		s, ok := byProduct[b.ProductID]
		if !ok {
			s = &repository.ProductStock{ProductID: b.ProductID}
			byProduct[b.ProductID] = s
		}
		s.OnHand += b.Quantity
		s.Batches++
		s.StockValue = s.StockValue.Add(b.StockValue())
	}
	out := make([]repository.ProductStock, 0, len(byProduct))
	for _, s := range byProduct {
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b repository.ProductStock) int { return strings.Compare(a.ProductID, b.ProductID) })
	return out, nil
}

// ── Libro de inventario ─────────────────────────────────────────────────────

type ledgerRepo struct {
	db *dataset
	g  guard
}

func (r *ledgerRepo) Create(_ context.Context, e *entity.LedgerEntry) error {
	defer r.g.write()()
	r.db.ledger = append(r.db.ledger, *cloneEntry(*e))
	return nil
}

// List devuelve del más reciente al más antiguo.
func (r *ledgerRepo) List(_ context.Context, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	defer r.g.read()()
	out := make([]*entity.LedgerEntry, 0)
	for i := len(r.db.ledger) - 1; i >= 0; i-- {
		e := r.db.ledger[i]
		switch {
		case f.ProductID != "" && e.ProductID != f.ProductID,
			f.StoreID != "" && e.StoreID != f.StoreID,
			f.BatchID != "" && (e.BatchID == nil || *e.BatchID != f.BatchID),
			f.Kind != "" && e.Kind != f.Kind,
			f.Reference != "" && e.Reference != f.Reference,
			f.From != nil && e.CreatedAt.Before(*f.From),
			f.To != nil && e.CreatedAt.After(*f.To):
			continue
		}
		out = append(out, cloneEntry(e))
	}
	return page(out, f.Limit, f.Offset), nil
}

// sameFlavor compara sabores con semántica IS NOT DISTINCT FROM.
func sameFlavor(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
