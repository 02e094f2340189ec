package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const ledgerColumns = `id, product_id, product_flavor_id, batch_id, store_id, kind, direction, quantity,
	unit_price, total_amount, reference, notes, created_by, created_at`

// LedgerRepo libro de movimientos. Solo INSERT y SELECT: no se corrigen asientos.
type LedgerRepo struct {
	q Querier
}

func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

func (r *LedgerRepo) Create(ctx context.Context, e *entity.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.ProductID, e.ProductFlavorID, e.BatchID, e.StoreID, string(e.Kind), string(e.Direction), e.Quantity,
		e.UnitPrice, e.TotalAmount, e.Reference, e.Notes, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return wrapWrite(err, "insert ledger entry", "ledger_entry", e.ID)
	}
	return nil
}

// List del más reciente al más antiguo; seq conserva el orden de inserción dentro del mismo instante.
func (r *LedgerRepo) List(ctx context.Context, f repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	var w filter
	w.eq("product_id", f.ProductID)
	w.eq("store_id", f.StoreID)
	w.eq("batch_id", f.BatchID)
	w.eq("kind", string(f.Kind))
	w.eq("reference", f.Reference)
	w.between("created_at", f.From, f.To)
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries` + w.where() + ` ORDER BY seq DESC` + w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.LedgerEntry, 0)
	for rows.Next() {
		var e entity.LedgerEntry
		var kind, direction string
		err := rows.Scan(
			&e.ID, &e.ProductID, &e.ProductFlavorID, &e.BatchID, &e.StoreID, &kind, &direction, &e.Quantity,
			&e.UnitPrice, &e.TotalAmount, &e.Reference, &e.Notes, &e.CreatedBy, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.Kind = entity.LedgerKind(kind)
		e.Direction = entity.Direction(direction)
		list = append(list, &e)
	}
	return list, rows.Err()
}
