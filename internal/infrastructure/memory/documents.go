package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// newestFirst ordena por fecha descendente y luego por ID.
func newestFirst(a, b time.Time, idA, idB string) int {
	if c := b.Compare(a); c != 0 {
		return c
	}
	return strings.Compare(idA, idB)
}

// ── GRN ─────────────────────────────────────────────────────────────────────

type grnRepo struct {
	db *dataset
	g  guard
}

func (r *grnRepo) Create(_ context.Context, g *entity.GRN) error {
	defer r.g.write()()
	for _, existing := range r.db.grns {
		if existing.GRNNumber == g.GRNNumber {
			return domain.NewConflictError("grn.number", g.GRNNumber)
		}
	}
	r.db.grns[g.ID] = *cloneGRN(*g, true)
	return nil
}

func (r *grnRepo) GetByID(_ context.Context, id string) (*entity.GRN, error) {
	defer r.g.read()()
	g, ok := r.db.grns[id]
	if !ok {
		return nil, nil
	}
	return cloneGRN(g, true), nil
}

func (r *grnRepo) GetForUpdate(ctx context.Context, id string) (*entity.GRN, error) {
	return r.GetByID(ctx, id)
}

// Update reemplaza la cabecera; las líneas se conservan.
func (r *grnRepo) Update(_ context.Context, g *entity.GRN) error {
	defer r.g.write()()
	existing, ok := r.db.grns[g.ID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := *cloneGRN(*g, false)
	updated.Items = existing.Items
	r.db.grns[g.ID] = updated
	return nil
}

func (r *grnRepo) ReplaceItems(_ context.Context, grnID string, items []entity.GRNItem) error {
	defer r.g.write()()
	g, ok := r.db.grns[grnID]
	if !ok {
		return domain.ErrNotFound
	}
	g.Items = cloneGRNItems(items)
	r.db.grns[grnID] = g
	return nil
}

func (r *grnRepo) Delete(_ context.Context, id string) error {
	defer r.g.write()()
	delete(r.db.grns, id)
	return nil
}

func (r *grnRepo) matching(f repository.GRNFilter) []entity.GRN {
	out := make([]entity.GRN, 0)
	for _, g := range r.db.grns {
		switch {
		case f.StoreID != "" && g.StoreID != f.StoreID,
			f.SupplierID != "" && g.SupplierID != f.SupplierID,
			f.Status != "" && g.Status != f.Status,
			!inRange(g.ReceivedDate, f.From, f.To):
			continue
		}
		out = append(out, g)
	}
	return out
}

func (r *grnRepo) List(_ context.Context, f repository.GRNFilter) ([]*entity.GRN, error) {
	defer r.g.read()()
	out := make([]*entity.GRN, 0)
	for _, g := range r.matching(f) {
		out = append(out, cloneGRN(g, false))
	}
	slices.SortFunc(out, func(a, b *entity.GRN) int { return newestFirst(a.ReceivedDate, b.ReceivedDate, a.ID, b.ID) })
	return page(out, f.Limit, f.Offset), nil
}

func (r *grnRepo) Summary(_ context.Context, f repository.GRNFilter) (*repository.GRNSummary, error) {
	defer r.g.read()()
	sum := &repository.GRNSummary{TotalValue: decimal.Zero}
	for _, g := range r.matching(f) {
		sum.Total++
		switch g.Status {
		case entity.GRNStatusReceived:
			sum.Received++
		case entity.GRNStatusVerified:
			sum.Verified++
		case entity.GRNStatusCompleted:
			sum.Completed++
		}
		sum.TotalValue = sum.TotalValue.Add(g.TotalAmount)
	}
	return sum, nil
}

// ── Ventas ──────────────────────────────────────────────────────────────────

type saleRepo struct {
	db *dataset
	g  guard
}

func (r *saleRepo) Create(_ context.Context, s *entity.Sale) error {
	defer r.g.write()()
	for _, existing := range r.db.sales {
		if existing.InvoiceNumber == s.InvoiceNumber {
			return domain.NewConflictError("sale.invoice_number", s.InvoiceNumber)
		}
	}
	r.db.sales[s.ID] = *cloneSale(*s, true)
	return nil
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	defer r.g.read()()
	s, ok := r.db.sales[id]
	if !ok {
		return nil, nil
	}
	return cloneSale(s, true), nil
}

func (r *saleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *saleRepo) Update(_ context.Context, s *entity.Sale) error {
	defer r.g.write()()
	existing, ok := r.db.sales[s.ID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := *cloneSale(*s, false)
	updated.Items = existing.Items
	r.db.sales[s.ID] = updated
	return nil
}

func (r *saleRepo) matching(f repository.SaleFilter) []entity.Sale {
	out := make([]entity.Sale, 0)
	for _, s := range r.db.sales {
		switch {
		case f.StoreID != "" && s.StoreID != f.StoreID,
			f.PaymentStatus != "" && s.PaymentStatus != f.PaymentStatus,
			!inRange(s.SaleDate, f.From, f.To):
			continue
		}
		out = append(out, s)
	}
	return out
}

func (r *saleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	defer r.g.read()()
	out := make([]*entity.Sale, 0)
	for _, s := range r.matching(f) {
		out = append(out, cloneSale(s, false))
	}
	slices.SortFunc(out, func(a, b *entity.Sale) int { return newestFirst(a.SaleDate, b.SaleDate, a.ID, b.ID) })
	return page(out, f.Limit, f.Offset), nil
}

func (r *saleRepo) Summary(_ context.Context, f repository.SaleFilter) (*repository.SaleSummary, error) {
	defer r.g.read()()
	sum := &repository.SaleSummary{ByPaymentMethod: map[string]decimal.Decimal{}}
	for _, s := range r.matching(f) {
		if s.IsVoided() {
			continue
		}
		sum.SaleCount++
		sum.Revenue = sum.Revenue.Add(s.TotalAmount)
		sum.TaxAmount = sum.TaxAmount.Add(s.TaxAmount)
		sum.DiscountAmount = sum.DiscountAmount.Add(s.DiscountAmount)
		sum.ItemsSold += s.UnitsSold()
		sum.GrossProfit = sum.GrossProfit.Add(s.Profit())
		sum.ByPaymentMethod[s.PaymentMethod] = sum.ByPaymentMethod[s.PaymentMethod].Add(s.TotalAmount)
	}
	return sum, nil
}

// ── Traslados ───────────────────────────────────────────────────────────────

type transferRepo struct {
	db *dataset
	g  guard
}

func (r *transferRepo) Create(_ context.Context, t *entity.StockTransfer) error {
	defer r.g.write()()
	for _, existing := range r.db.transfers {
		if existing.TransferNumber == t.TransferNumber {
			return domain.NewConflictError("transfer.number", t.TransferNumber)
		}
	}
	r.db.transfers[t.ID] = *cloneTransfer(*t, true)
	return nil
}

func (r *transferRepo) GetByID(_ context.Context, id string) (*entity.StockTransfer, error) {
	defer r.g.read()()
	t, ok := r.db.transfers[id]
	if !ok {
		return nil, nil
	}
	return cloneTransfer(t, true), nil
}

func (r *transferRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockTransfer, error) {
	return r.GetByID(ctx, id)
}

func (r *transferRepo) Update(_ context.Context, t *entity.StockTransfer) error {
	defer r.g.write()()
	existing, ok := r.db.transfers[t.ID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := *cloneTransfer(*t, false)
	updated.Items = existing.Items
	r.db.transfers[t.ID] = updated
	return nil
}

func (r *transferRepo) List(_ context.Context, f repository.TransferFilter) ([]*entity.StockTransfer, error) {
	defer r.g.read()()
	out := make([]*entity.StockTransfer, 0)
	for _, t := range r.db.transfers {
		switch {
		case f.StoreID != "" && t.FromStoreID != f.StoreID && t.ToStoreID != f.StoreID,
			f.Status != "" && t.Status != f.Status,
			!inRange(t.TransferDate, f.From, f.To):
			continue
		}
		out = append(out, cloneTransfer(t, false))
	}
	slices.SortFunc(out, func(a, b *entity.StockTransfer) int {
		return newestFirst(a.TransferDate, b.TransferDate, a.ID, b.ID)
	})
	return page(out, f.Limit, f.Offset), nil
}
