package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

// Copias profundas: nada de lo que sale del store comparte memoria con el dataset.

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneDec(p *decimal.Decimal) *decimal.Decimal {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneProduct(p entity.Product) *entity.Product {
	p.CategoryID = cloneStr(p.CategoryID)
	return &p
}

func cloneBatch(b entity.Batch) *entity.Batch {
	b.ProductFlavorID = cloneStr(b.ProductFlavorID)
	b.SupplierID = cloneStr(b.SupplierID)
	b.ExpirationDate = cloneTime(b.ExpirationDate)
	b.GRNID = cloneStr(b.GRNID)
	return &b
}

func cloneEntry(e entity.LedgerEntry) *entity.LedgerEntry {
	e.ProductFlavorID = cloneStr(e.ProductFlavorID)
	e.BatchID = cloneStr(e.BatchID)
	e.UnitPrice = cloneDec(e.UnitPrice)
	e.TotalAmount = cloneDec(e.TotalAmount)
	return &e
}

func cloneGRNItems(items []entity.GRNItem) []entity.GRNItem {
	if items == nil {
		return nil
	}
	out := make([]entity.GRNItem, len(items))
	for i, it := range items {
		it.ProductFlavorID = cloneStr(it.ProductFlavorID)
		it.ExpirationDate = cloneTime(it.ExpirationDate)
		out[i] = it
	}
	return out
}

func cloneGRN(g entity.GRN, withItems bool) *entity.GRN {
	g.VerifiedBy = cloneStr(g.VerifiedBy)
	g.VerifiedDate = cloneTime(g.VerifiedDate)
	if withItems {
		g.Items = cloneGRNItems(g.Items)
	} else {
		g.Items = nil
	}
	return &g
}

func cloneSale(s entity.Sale, withItems bool) *entity.Sale {
	if withItems && s.Items != nil {
		items := make([]entity.SaleItem, len(s.Items))
		for i, it := range s.Items {
			it.ProductFlavorID = cloneStr(it.ProductFlavorID)
			it.BatchID = cloneStr(it.BatchID)
			items[i] = it
		}
		s.Items = items
	} else {
		s.Items = nil
	}
	return &s
}

func cloneTransfer(t entity.StockTransfer, withItems bool) *entity.StockTransfer {
	t.CompletedDate = cloneTime(t.CompletedDate)
	t.ApprovedBy = cloneStr(t.ApprovedBy)
	if withItems && t.Items != nil {
		items := make([]entity.StockTransferItem, len(t.Items))
		for i, it := range t.Items {
			it.ProductFlavorID = cloneStr(it.ProductFlavorID)
			it.BatchID = cloneStr(it.BatchID)
			it.UnitCost = cloneDec(it.UnitCost)
			items[i] = it
		}
		t.Items = items
	} else {
		t.Items = nil
	}
	return &t
}

func cloneUser(u entity.User) *entity.User {
	u.StoreID = cloneStr(u.StoreID)
	return &u
}

func cloneMap[K comparable, V any](m map[K]V, fn func(V) V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = fn(v)
	}
	return out
}
