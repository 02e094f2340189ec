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

var _ repository.FlavorRepository = (*FlavorRepo)(nil)

const (
	flavorColumns        = `id, name, description, is_active, created_at, updated_at`
	productFlavorColumns = `id, product_id, flavor_id, sku_suffix, is_active, created_at, updated_at`
)

// FlavorRepo sabores y variantes producto+sabor sobre PostgreSQL.
type FlavorRepo struct {
	q Querier
}

// NewFlavorRepository construye el adaptador. Pasar pool o tx.
func NewFlavorRepository(q Querier) *FlavorRepo {
	return &FlavorRepo{q: q}
}

func scanFlavor(row pgx.Row) (*entity.Flavor, error) {
	var f entity.Flavor
	if err := row.Scan(&f.ID, &f.Name, &f.Description, &f.IsActive, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func scanProductFlavor(row pgx.Row) (*entity.ProductFlavor, error) {
	var pf entity.ProductFlavor
	if err := row.Scan(&pf.ID, &pf.ProductID, &pf.FlavorID, &pf.SKUSuffix, &pf.IsActive, &pf.CreatedAt, &pf.UpdatedAt); err != nil {
		return nil, err
	}
	return &pf, nil
}

func (r *FlavorRepo) CreateFlavor(ctx context.Context, f *entity.Flavor) error {
	_, err := r.q.Exec(ctx, `INSERT INTO flavors (`+flavorColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, f.Name, f.Description, f.IsActive, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return wrapWrite(err, "insert flavor", "flavor.name", f.Name)
	}
	return nil
}

func (r *FlavorRepo) GetFlavor(ctx context.Context, id string) (*entity.Flavor, error) {
	f, err := scanFlavor(r.q.QueryRow(ctx, `SELECT `+flavorColumns+` FROM flavors WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get flavor: %w", err)
	}
	return f, nil
}

func (r *FlavorRepo) ListFlavors(ctx context.Context, activeOnly bool) ([]*entity.Flavor, error) {
	query := `SELECT ` + flavorColumns + ` FROM flavors`
	if activeOnly {
		query += ` WHERE is_active`
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list flavors: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Flavor, 0)
	for rows.Next() {
		f, err := scanFlavor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan flavor: %w", err)
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

func (r *FlavorRepo) UpdateFlavor(ctx context.Context, f *entity.Flavor) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE flavors SET name = $2, description = $3, is_active = $4, updated_at = $5 WHERE id = $1`,
		f.ID, f.Name, f.Description, f.IsActive, f.UpdatedAt)
	if err != nil {
		return wrapWrite(err, "update flavor", "flavor.name", f.Name)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FlavorRepo) DeleteFlavor(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM flavors WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete flavor: %w", err)
	}
	return nil
}

func (r *FlavorRepo) IsFlavorReferenced(ctx context.Context, id string) (bool, error) {
	var ref bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM product_flavors WHERE flavor_id = $1)`, id).Scan(&ref); err != nil {
		return false, fmt.Errorf("flavor references: %w", err)
	}
	return ref, nil
}

// CreateProductFlavor: el índice parcial impide dos variantes activas del mismo par.
func (r *FlavorRepo) CreateProductFlavor(ctx context.Context, pf *entity.ProductFlavor) error {
	_, err := r.q.Exec(ctx, `INSERT INTO product_flavors (`+productFlavorColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		pf.ID, pf.ProductID, pf.FlavorID, pf.SKUSuffix, pf.IsActive, pf.CreatedAt, pf.UpdatedAt)
	if err != nil {
		return wrapWrite(err, "insert product flavor", "product_flavor", pf.ProductID+"/"+pf.FlavorID)
	}
	return nil
}

func (r *FlavorRepo) GetProductFlavor(ctx context.Context, id string) (*entity.ProductFlavor, error) {
	pf, err := scanProductFlavor(r.q.QueryRow(ctx, `SELECT `+productFlavorColumns+` FROM product_flavors WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product flavor: %w", err)
	}
	return pf, nil
}

func (r *FlavorRepo) FindActiveProductFlavor(ctx context.Context, productID, flavorID string) (*entity.ProductFlavor, error) {
	pf, err := scanProductFlavor(r.q.QueryRow(ctx,
		`SELECT `+productFlavorColumns+` FROM product_flavors WHERE product_id = $1 AND flavor_id = $2 AND is_active`,
		productID, flavorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find product flavor: %w", err)
	}
	return pf, nil
}

func (r *FlavorRepo) ListProductFlavors(ctx context.Context, productID string, activeOnly bool) ([]*entity.ProductFlavor, error) {
	query := `SELECT ` + productFlavorColumns + ` FROM product_flavors WHERE product_id = $1`
	if activeOnly {
		query += ` AND is_active`
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY sku_suffix, id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list product flavors: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.ProductFlavor, 0)
	for rows.Next() {
		pf, err := scanProductFlavor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product flavor: %w", err)
		}
		list = append(list, pf)
	}
	return list, rows.Err()
}

func (r *FlavorRepo) UpdateProductFlavor(ctx context.Context, pf *entity.ProductFlavor) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE product_flavors SET sku_suffix = $2, is_active = $3, updated_at = $4 WHERE id = $1`,
		pf.ID, pf.SKUSuffix, pf.IsActive, pf.UpdatedAt)
	if err != nil {
		return wrapWrite(err, "update product flavor", "product_flavor", pf.ProductID+"/"+pf.FlavorID)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FlavorRepo) DeleteProductFlavor(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_flavors WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product flavor: %w", err)
	}
	return nil
}

func (r *FlavorRepo) IsProductFlavorReferenced(ctx context.Context, id string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM batches WHERE product_flavor_id = $1)
			OR EXISTS (SELECT 1 FROM grn_items WHERE product_flavor_id = $1)
			OR EXISTS (SELECT 1 FROM sale_items WHERE product_flavor_id = $1)
			OR EXISTS (SELECT 1 FROM stock_transfer_items WHERE product_flavor_id = $1)`
	var ref bool
	if err := r.q.QueryRow(ctx, query, id).Scan(&ref); err != nil {
		return false, fmt.Errorf("product flavor references: %w", err)
	}
	return ref, nil
}
