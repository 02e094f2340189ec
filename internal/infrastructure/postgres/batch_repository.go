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

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, product_id, product_flavor_id, store_id, supplier_id, batch_number, expiration_date,
	quantity, unit_cost, location, date_received, grn_id, notes, is_active, created_at, updated_at`

// fifoOrder orden de consumo: el lote recibido primero sale primero; id desempata.
const fifoOrder = ` ORDER BY date_received, id`

// BatchRepo lotes de inventario sobre PostgreSQL.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Los ...ForUpdate solo bloquean si q es una tx.
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	err := row.Scan(
		&b.ID, &b.ProductID, &b.ProductFlavorID, &b.StoreID, &b.SupplierID, &b.BatchNumber, &b.ExpirationDate,
		&b.Quantity, &b.UnitCost, &b.Location, &b.DateReceived, &b.GRNID, &b.Notes, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	query := `INSERT INTO batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.ProductID, b.ProductFlavorID, b.StoreID, b.SupplierID, b.BatchNumber, b.ExpirationDate,
		b.Quantity, b.UnitCost, b.Location, b.DateReceived, b.GRNID, b.Notes, b.IsActive, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return wrapWrite(err, "insert batch", "batch", b.ID)
	}
	return nil
}

func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.Batch, error) {
	return r.one(ctx, `SELECT `+batchColumns+` FROM batches WHERE id = $1`, id)
}

func (r *BatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.Batch, error) {
	return r.one(ctx, `SELECT `+batchColumns+` FROM batches WHERE id = $1 FOR UPDATE`, id)
}

func (r *BatchRepo) one(ctx context.Context, query string, args ...any) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

func (r *BatchRepo) many(ctx context.Context, query string, args ...any) ([]*entity.Batch, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Batch, 0)
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// scopeFilter producto y tienda; el sabor solo filtra cuando viene informado.
func scopeFilter(scope repository.BatchScope) *filter {
	w := &filter{}
	w.add("product_id = ?", scope.ProductID)
	w.add("store_id = ?", scope.StoreID)
	if scope.ProductFlavorID != nil {
		w.add("product_flavor_id = ?", *scope.ProductFlavorID)
	}
	return w
}

func (r *BatchRepo) ListAvailable(ctx context.Context, scope repository.BatchScope) ([]*entity.Batch, error) {
	w := scopeFilter(scope)
	w.add("is_active AND quantity > 0")
	return r.many(ctx, `SELECT `+batchColumns+` FROM batches`+w.where()+fifoOrder, w.args...)
}

// ListAvailableForUpdate bloquea los lotes del alcance en orden FIFO; dos ventas concurrentes
// del mismo producto se serializan aquí.
func (r *BatchRepo) ListAvailableForUpdate(ctx context.Context, scope repository.BatchScope) ([]*entity.Batch, error) {
	w := scopeFilter(scope)
	w.add("is_active AND quantity > 0")
	return r.many(ctx, `SELECT `+batchColumns+` FROM batches`+w.where()+fifoOrder+` FOR UPDATE`, w.args...)
}

func (r *BatchRepo) FindReceiptBatchForUpdate(ctx context.Context, productID string, productFlavorID *string, storeID, batchNumber, grnID string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches
		WHERE product_id = $1 AND product_flavor_id IS NOT DISTINCT FROM $2
			AND store_id = $3 AND batch_number = $4 AND grn_id = $5
		ORDER BY id LIMIT 1 FOR UPDATE`
	return r.one(ctx, query, productID, productFlavorID, storeID, batchNumber, grnID)
}

func (r *BatchRepo) LatestActiveForUpdate(ctx context.Context, scope repository.BatchScope) (*entity.Batch, error) {
	w := scopeFilter(scope)
	w.add("is_active")
	query := `SELECT ` + batchColumns + ` FROM batches` + w.where() + ` ORDER BY date_received DESC, id DESC LIMIT 1 FOR UPDATE`
	return r.one(ctx, query, w.args...)
}

func (r *BatchRepo) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if quantity < 0 {
		return domain.NewValidationError("quantity", "no puede ser negativa")
	}
	cmd, err := r.q.Exec(ctx, `UPDATE batches SET quantity = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("update batch quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BatchRepo) Update(ctx context.Context, b *entity.Batch) error {
	query := `
		UPDATE batches SET product_flavor_id = $2, supplier_id = $3, batch_number = $4, expiration_date = $5,
			quantity = $6, unit_cost = $7, location = $8, date_received = $9, grn_id = $10, notes = $11,
			is_active = $12, updated_at = $13
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		b.ID, b.ProductFlavorID, b.SupplierID, b.BatchNumber, b.ExpirationDate,
		b.Quantity, b.UnitCost, b.Location, b.DateReceived, b.GRNID, b.Notes,
		b.IsActive, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BatchRepo) List(ctx context.Context, f repository.BatchFilter) ([]*entity.Batch, error) {
	var w filter
	w.eq("product_id", f.ProductID)
	w.eq("store_id", f.StoreID)
	w.eq("supplier_id", f.SupplierID)
	w.eq("grn_id", f.GRNID)
	if f.InStock {
		w.add("quantity > 0")
	}
	if f.ActiveOnly {
		w.add("is_active")
	}
	query := `SELECT ` + batchColumns + ` FROM batches` + w.where() + fifoOrder + w.page(f.Limit, f.Offset)
	return r.many(ctx, query, w.args...)
}

func (r *BatchRepo) ListExpiring(ctx context.Context, f repository.ExpiryFilter) ([]*entity.Batch, error) {
	var w filter
	w.add("is_active AND quantity > 0 AND expiration_date IS NOT NULL")
	w.eq("store_id", f.StoreID)
	if f.From != nil {
		w.add("expiration_date >= ?", *f.From)
	}
	if f.Before != nil {
		w.add("expiration_date < ?", *f.Before)
	}
	query := `SELECT ` + batchColumns + ` FROM batches` + w.where() + ` ORDER BY expiration_date, id`
	return r.many(ctx, query, w.args...)
}

func (r *BatchRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM batches WHERE product_id = $1`, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count batches: %w", err)
	}
	return n, nil
}

func (r *BatchRepo) StockByProduct(ctx context.Context, storeID string) ([]repository.ProductStock, error) {
	var w filter
	w.add("is_active AND quantity > 0")
	w.eq("store_id", storeID)
	query := `
		SELECT product_id, COALESCE(SUM(quantity), 0), count(*), COALESCE(SUM(quantity * unit_cost), 0)
		FROM batches` + w.where() + `
		GROUP BY product_id
		ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("stock by product: %w", err)
	}
	defer rows.Close()
	out := make([]repository.ProductStock, 0)
	for rows.Next() {
		var s repository.ProductStock
		if err := rows.Scan(&s.ProductID, &s.OnHand, &s.Batches, &s.StockValue); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
