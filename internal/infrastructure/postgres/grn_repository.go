package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

var _ repository.GRNRepository = (*GRNRepo)(nil)

const (
	grnColumns = `id, grn_number, store_id, supplier_id, purchase_order_number, invoice_number, received_date,
		total_amount, status, notes, created_by, verified_by, verified_date, created_at, updated_at`
	grnItemColumns = `id, grn_id, product_id, product_flavor_id, quantity_ordered, quantity_received,
		unit_cost, line_total, batch_number, expiration_date, location, notes`
)

// GRNRepo notas de recepción y sus líneas sobre PostgreSQL.
type GRNRepo struct {
	q Querier
}

func NewGRNRepository(q Querier) *GRNRepo {
	return &GRNRepo{q: q}
}

func scanGRN(row pgx.Row) (*entity.GRN, error) {
	var g entity.GRN
	var status string
	err := row.Scan(
		&g.ID, &g.GRNNumber, &g.StoreID, &g.SupplierID, &g.PurchaseOrderNumber, &g.InvoiceNumber, &g.ReceivedDate,
		&g.TotalAmount, &status, &g.Notes, &g.CreatedBy, &g.VerifiedBy, &g.VerifiedDate, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	g.Status = entity.GRNStatus(status)
	return &g, nil
}

// Create inserta cabecera y líneas; debe correr dentro de una tx para que sea atómico.
func (r *GRNRepo) Create(ctx context.Context, g *entity.GRN) error {
	query := `INSERT INTO grns (` + grnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		g.ID, g.GRNNumber, g.StoreID, g.SupplierID, g.PurchaseOrderNumber, g.InvoiceNumber, g.ReceivedDate,
		g.TotalAmount, string(g.Status), g.Notes, g.CreatedBy, g.VerifiedBy, g.VerifiedDate, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return wrapWrite(err, "insert grn", "grn.number", g.GRNNumber)
	}
	return r.insertItems(ctx, g.ID, g.Items)
}

func (r *GRNRepo) insertItems(ctx context.Context, grnID string, items []entity.GRNItem) error {
	query := `INSERT INTO grn_items (` + grnItemColumns + `, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	for i, it := range items {
		_, err := r.q.Exec(ctx, query,
			it.ID, grnID, it.ProductID, it.ProductFlavorID, it.QuantityOrdered, it.QuantityReceived,
			it.UnitCost, it.LineTotal, it.BatchNumber, it.ExpirationDate, it.Location, it.Notes, i,
		)
		if err != nil {
			return fmt.Errorf("insert grn item %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *GRNRepo) GetByID(ctx context.Context, id string) (*entity.GRN, error) {
	return r.get(ctx, `SELECT `+grnColumns+` FROM grns WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera; las líneas solo se tocan pasando por ella.
func (r *GRNRepo) GetForUpdate(ctx context.Context, id string) (*entity.GRN, error) {
	return r.get(ctx, `SELECT `+grnColumns+` FROM grns WHERE id = $1 FOR UPDATE`, id)
}

func (r *GRNRepo) get(ctx context.Context, query, id string) (*entity.GRN, error) {
	g, err := scanGRN(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get grn: %w", err)
	}
	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	g.Items = items
	return g, nil
}

func (r *GRNRepo) items(ctx context.Context, grnID string) ([]entity.GRNItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+grnItemColumns+` FROM grn_items WHERE grn_id = $1 ORDER BY position`, grnID)
	if err != nil {
		return nil, fmt.Errorf("list grn items: %w", err)
	}
	defer rows.Close()
	items := make([]entity.GRNItem, 0)
	for rows.Next() {
		var it entity.GRNItem
		err := rows.Scan(
			&it.ID, &it.GRNID, &it.ProductID, &it.ProductFlavorID, &it.QuantityOrdered, &it.QuantityReceived,
			&it.UnitCost, &it.LineTotal, &it.BatchNumber, &it.ExpirationDate, &it.Location, &it.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("scan grn item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Update reemplaza la cabecera; las líneas se cambian con ReplaceItems.
func (r *GRNRepo) Update(ctx context.Context, g *entity.GRN) error {
	query := `
		UPDATE grns SET store_id = $2, supplier_id = $3, purchase_order_number = $4, invoice_number = $5,
			received_date = $6, total_amount = $7, status = $8, notes = $9, verified_by = $10,
			verified_date = $11, updated_at = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		g.ID, g.StoreID, g.SupplierID, g.PurchaseOrderNumber, g.InvoiceNumber,
		g.ReceivedDate, g.TotalAmount, string(g.Status), g.Notes, g.VerifiedBy,
		g.VerifiedDate, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update grn: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GRNRepo) ReplaceItems(ctx context.Context, grnID string, items []entity.GRNItem) error {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM grns WHERE id = $1)`, grnID).Scan(&exists); err != nil {
		return fmt.Errorf("check grn: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM grn_items WHERE grn_id = $1`, grnID); err != nil {
		return fmt.Errorf("delete grn items: %w", err)
	}
	return r.insertItems(ctx, grnID, items)
}

// Delete borra el GRN; las líneas caen por ON DELETE CASCADE.
func (r *GRNRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM grns WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete grn: %w", err)
	}
	return nil
}

func grnFilter(f repository.GRNFilter) *filter {
	w := &filter{}
	w.eq("store_id", f.StoreID)
	w.eq("supplier_id", f.SupplierID)
	w.eq("status", string(f.Status))
	w.between("received_date", f.From, f.To)
	return w
}

func (r *GRNRepo) List(ctx context.Context, f repository.GRNFilter) ([]*entity.GRN, error) {
	w := grnFilter(f)
	query := `SELECT ` + grnColumns + ` FROM grns` + w.where() + ` ORDER BY received_date DESC, id` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list grns: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.GRN, 0)
	for rows.Next() {
		g, err := scanGRN(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grn: %w", err)
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

func (r *GRNRepo) Summary(ctx context.Context, f repository.GRNFilter) (*repository.GRNSummary, error) {
	w := grnFilter(f)
	query := `
		SELECT count(*),
			count(*) FILTER (WHERE status = 'received'),
			count(*) FILTER (WHERE status = 'verified'),
			count(*) FILTER (WHERE status = 'completed'),
			COALESCE(SUM(total_amount), 0)
		FROM grns` + w.where()
	var s repository.GRNSummary
	if err := r.q.QueryRow(ctx, query, w.args...).Scan(&s.Total, &s.Received, &s.Verified, &s.Completed, &s.TotalValue); err != nil {
		return nil, fmt.Errorf("grn summary: %w", err)
	}
	return &s, nil
}
