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

var (
	_ repository.StoreRepository    = (*StoreRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

const (
	storeColumns    = `id, code, name, address, phone, is_active, created_at, updated_at`
	supplierColumns = `id, name, contact_name, phone, email, address, is_active, created_at, updated_at`
)

// StoreRepo tiendas sobre PostgreSQL.
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador. Pasar pool o tx.
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

func scanStore(row pgx.Row) (*entity.Store, error) {
	var s entity.Store
	if err := row.Scan(&s.ID, &s.Code, &s.Name, &s.Address, &s.Phone, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StoreRepo) Create(ctx context.Context, s *entity.Store) error {
	_, err := r.q.Exec(ctx, `INSERT INTO stores (`+storeColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.Code, s.Name, s.Address, s.Phone, s.IsActive, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return wrapWrite(err, "insert store", "store.code", s.Code)
	}
	return nil
}

func (r *StoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	return r.getOne(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id)
}

func (r *StoreRepo) GetByCode(ctx context.Context, code string) (*entity.Store, error) {
	return r.getOne(ctx, `SELECT `+storeColumns+` FROM stores WHERE lower(code) = lower($1)`, code)
}

func (r *StoreRepo) getOne(ctx context.Context, query string, arg string) (*entity.Store, error) {
	s, err := scanStore(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return s, nil
}

func (r *StoreRepo) Update(ctx context.Context, s *entity.Store) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE stores SET code = $2, name = $3, address = $4, phone = $5, is_active = $6, updated_at = $7 WHERE id = $1`,
		s.ID, s.Code, s.Name, s.Address, s.Phone, s.IsActive, s.UpdatedAt)
	if err != nil {
		return wrapWrite(err, "update store", "store.code", s.Code)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StoreRepo) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.Store, error) {
	var w filter
	if activeOnly {
		w.add("is_active")
	}
	query := `SELECT ` + storeColumns + ` FROM stores` + w.where() + ` ORDER BY code` + w.page(limit, offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Store, 0)
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *StoreRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stores WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete store: %w", err)
	}
	return nil
}

// IsReferenced: lotes, documentos o usuarios asignados a la tienda.
func (r *StoreRepo) IsReferenced(ctx context.Context, id string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM batches WHERE store_id = $1)
			OR EXISTS (SELECT 1 FROM sales WHERE store_id = $1)
			OR EXISTS (SELECT 1 FROM grns WHERE store_id = $1)
			OR EXISTS (SELECT 1 FROM stock_transfers WHERE from_store_id = $1 OR to_store_id = $1)
			OR EXISTS (SELECT 1 FROM users WHERE store_id = $1)`
	var ref bool
	if err := r.q.QueryRow(ctx, query, id).Scan(&ref); err != nil {
		return false, fmt.Errorf("store references: %w", err)
	}
	return ref, nil
}

// SupplierRepo proveedores sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	if err := row.Scan(&s.ID, &s.Name, &s.ContactName, &s.Phone, &s.Email, &s.Address, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `INSERT INTO suppliers (`+supplierColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.Name, s.ContactName, s.Phone, s.Email, s.Address, s.IsActive, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE suppliers SET name = $2, contact_name = $3, phone = $4, email = $5, address = $6, is_active = $7, updated_at = $8
		WHERE id = $1`,
		s.ID, s.Name, s.ContactName, s.Phone, s.Email, s.Address, s.IsActive, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SupplierRepo) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.Supplier, error) {
	var w filter
	if activeOnly {
		w.add("is_active")
	}
	query := `SELECT ` + supplierColumns + ` FROM suppliers` + w.where() + ` ORDER BY name` + w.page(limit, offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Supplier, 0)
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
