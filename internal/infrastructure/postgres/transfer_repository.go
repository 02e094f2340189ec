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

var _ repository.TransferRepository = (*TransferRepo)(nil)

const (
	transferColumns = `id, transfer_number, from_store_id, to_store_id, status, transfer_date, completed_date,
		notes, created_by, approved_by, created_at, updated_at`
	transferItemColumns = `id, transfer_id, product_id, product_flavor_id, batch_id, quantity, unit_cost, notes`
)

// TransferRepo traslados entre tiendas sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

func scanTransfer(row pgx.Row) (*entity.StockTransfer, error) {
	var t entity.StockTransfer
	var status string
	err := row.Scan(
		&t.ID, &t.TransferNumber, &t.FromStoreID, &t.ToStoreID, &status, &t.TransferDate, &t.CompletedDate,
		&t.Notes, &t.CreatedBy, &t.ApprovedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Status = entity.TransferStatus(status)
	return &t, nil
}

func (r *TransferRepo) Create(ctx context.Context, t *entity.StockTransfer) error {
	query := `INSERT INTO stock_transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.TransferNumber, t.FromStoreID, t.ToStoreID, string(t.Status), t.TransferDate, t.CompletedDate,
		t.Notes, t.CreatedBy, t.ApprovedBy, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return wrapWrite(err, "insert transfer", "transfer.number", t.TransferNumber)
	}
	itemQuery := `INSERT INTO stock_transfer_items (` + transferItemColumns + `, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i, it := range t.Items {
		_, err := r.q.Exec(ctx, itemQuery,
			it.ID, t.ID, it.ProductID, it.ProductFlavorID, it.BatchID, it.Quantity, it.UnitCost, it.Notes, i)
		if err != nil {
			return fmt.Errorf("insert transfer item %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.StockTransfer, error) {
	return r.get(ctx, `SELECT `+transferColumns+` FROM stock_transfers WHERE id = $1`, id)
}

func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockTransfer, error) {
	return r.get(ctx, `SELECT `+transferColumns+` FROM stock_transfers WHERE id = $1 FOR UPDATE`, id)
}

func (r *TransferRepo) get(ctx context.Context, query, id string) (*entity.StockTransfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+transferItemColumns+` FROM stock_transfer_items WHERE transfer_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list transfer items: %w", err)
	}
	defer rows.Close()
	t.Items = make([]entity.StockTransferItem, 0)
	for rows.Next() {
		var it entity.StockTransferItem
		if err := rows.Scan(&it.ID, &it.TransferID, &it.ProductID, &it.ProductFlavorID, &it.BatchID, &it.Quantity, &it.UnitCost, &it.Notes); err != nil {
			return nil, fmt.Errorf("scan transfer item: %w", err)
		}
		t.Items = append(t.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TransferRepo) Update(ctx context.Context, t *entity.StockTransfer) error {
	query := `
		UPDATE stock_transfers SET status = $2, completed_date = $3, notes = $4, approved_by = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, t.ID, string(t.Status), t.CompletedDate, t.Notes, t.ApprovedBy, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TransferRepo) List(ctx context.Context, f repository.TransferFilter) ([]*entity.StockTransfer, error) {
	var w filter
	if f.StoreID != "" {
		w.add("(from_store_id = ? OR to_store_id = ?)", f.StoreID, f.StoreID)
	}
	w.eq("status", string(f.Status))
	w.between("transfer_date", f.From, f.To)
	query := `SELECT ` + transferColumns + ` FROM stock_transfers` + w.where() + ` ORDER BY transfer_date DESC, id` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockTransfer, 0)
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
