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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, description, category_id, cost_price, selling_price, reorder_point, has_flavors, is_active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &p.CategoryID, &p.CostPrice, &p.SellingPrice,
		&p.ReorderPoint, &p.HasFlavors, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto. SKU duplicado (sin distinguir mayúsculas) → ConflictError.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SKU, p.Name, p.Description, p.CategoryID, p.CostPrice, p.SellingPrice,
		p.ReorderPoint, p.HasFlavors, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return wrapWrite(err, "insert product", "product.sku", p.SKU)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetBySKU obtiene un producto por SKU sin distinguir mayúsculas.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE lower(sku) = lower($1)`, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// Update actualiza un producto existente.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET sku = $2, name = $3, description = $4, category_id = $5, cost_price = $6,
			selling_price = $7, reorder_point = $8, has_flavors = $9, is_active = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.SKU, p.Name, p.Description, p.CategoryID, p.CostPrice,
		p.SellingPrice, p.ReorderPoint, p.HasFlavors, p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		return wrapWrite(err, "update product", "product.sku", p.SKU)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos ordenados por SKU. Search coincide con SKU o nombre.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var w filter
	if f.ActiveOnly {
		w.add("is_active")
	}
	if f.Search != "" {
		w.add("(sku ILIKE ? OR name ILIKE ?)", "%"+f.Search+"%", "%"+f.Search+"%")
	}
	query := `SELECT ` + productColumns + ` FROM products` + w.where() + ` ORDER BY sku` + w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Delete borra el producto; solo se invoca cuando IsReferenced es false.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// IsReferenced indica si lotes, variantes o líneas de GRN, venta o traslado apuntan al producto.
func (r *ProductRepo) IsReferenced(ctx context.Context, id string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM batches WHERE product_id = $1)
			OR EXISTS (SELECT 1 FROM product_flavors WHERE product_id = $1)
			OR EXISTS (SELECT 1 FROM grn_items WHERE product_id = $1)
			OR EXISTS (SELECT 1 FROM sale_items WHERE product_id = $1)
			OR EXISTS (SELECT 1 FROM stock_transfer_items WHERE product_id = $1)`
	var ref bool
	if err := r.q.QueryRow(ctx, query, id).Scan(&ref); err != nil {
		return false, fmt.Errorf("product references: %w", err)
	}
	return ref, nil
}
