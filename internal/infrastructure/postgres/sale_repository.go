package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const (
	saleColumns = `id, invoice_number, store_id, customer_name, customer_phone, customer_email, sale_date,
		subtotal, tax_amount, discount_amount, total_amount, payment_method, payment_status, notes,
		created_by, created_at, updated_at`
	saleItemColumns = `id, sale_id, product_id, product_flavor_id, batch_id, quantity, unit_price, unit_cost, discount, line_total`
)

// SaleRepo ventas y líneas sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var status string
	err := row.Scan(
		&s.ID, &s.InvoiceNumber, &s.StoreID, &s.CustomerName, &s.CustomerPhone, &s.CustomerEmail, &s.SaleDate,
		&s.Subtotal, &s.TaxAmount, &s.DiscountAmount, &s.TotalAmount, &s.PaymentMethod, &status, &s.Notes,
		&s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.PaymentStatus = entity.PaymentStatus(status)
	return &s, nil
}

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.InvoiceNumber, s.StoreID, s.CustomerName, s.CustomerPhone, s.CustomerEmail, s.SaleDate,
		s.Subtotal, s.TaxAmount, s.DiscountAmount, s.TotalAmount, s.PaymentMethod, string(s.PaymentStatus), s.Notes,
		s.CreatedBy, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return wrapWrite(err, "insert sale", "sale.invoice_number", s.InvoiceNumber)
	}
	itemQuery := `INSERT INTO sale_items (` + saleItemColumns + `, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for i, it := range s.Items {
		_, err := r.q.Exec(ctx, itemQuery,
			it.ID, s.ID, it.ProductID, it.ProductFlavorID, it.BatchID, it.Quantity,
			it.UnitPrice, it.UnitCost, it.Discount, it.LineTotal, i,
		)
		if err != nil {
			return fmt.Errorf("insert sale item %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) get(ctx context.Context, query, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+saleItemColumns+` FROM sale_items WHERE sale_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	s.Items = make([]entity.SaleItem, 0)
	for rows.Next() {
		var it entity.SaleItem
		err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.ProductFlavorID, &it.BatchID, &it.Quantity,
			&it.UnitPrice, &it.UnitCost, &it.Discount, &it.LineTotal)
		if err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// Update persiste la cabecera (estado de pago, notas, cliente). Las líneas no cambian tras vender.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	query := `
		UPDATE sales SET customer_name = $2, customer_phone = $3, customer_email = $4, subtotal = $5,
			tax_amount = $6, discount_amount = $7, total_amount = $8, payment_method = $9,
			payment_status = $10, notes = $11, updated_at = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		s.ID, s.CustomerName, s.CustomerPhone, s.CustomerEmail, s.Subtotal,
		s.TaxAmount, s.DiscountAmount, s.TotalAmount, s.PaymentMethod,
		string(s.PaymentStatus), s.Notes, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func saleFilter(f repository.SaleFilter, column func(string) string) *filter {
	w := &filter{}
	w.eq(column("store_id"), f.StoreID)
	w.eq(column("payment_status"), string(f.PaymentStatus))
	w.between(column("sale_date"), f.From, f.To)
	return w
}

func plain(c string) string { return c }

func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	w := saleFilter(f, plain)
	query := `SELECT ` + saleColumns + ` FROM sales` + w.where() + ` ORDER BY sale_date DESC, id` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Sale, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Summary agrega cabeceras y líneas por separado para no multiplicar totales por el JOIN.
func (r *SaleRepo) Summary(ctx context.Context, f repository.SaleFilter) (*repository.SaleSummary, error) {
	sum := &repository.SaleSummary{ByPaymentMethod: map[string]decimal.Decimal{}}

	w := saleFilter(f, plain)
	w.add("payment_status <> 'voided'")
	headers := `
		SELECT count(*), COALESCE(SUM(total_amount), 0), COALESCE(SUM(tax_amount), 0), COALESCE(SUM(discount_amount), 0)
		FROM sales` + w.where()
	if err := r.q.QueryRow(ctx, headers, w.args...).Scan(&sum.SaleCount, &sum.Revenue, &sum.TaxAmount, &sum.DiscountAmount); err != nil {
		return nil, fmt.Errorf("sale summary: %w", err)
	}

	wi := saleFilter(f, func(c string) string { return "s." + c })
	wi.add("s.payment_status <> 'voided'")
	lines := `
		SELECT COALESCE(SUM(i.quantity), 0), COALESCE(SUM(i.line_total - i.quantity * i.unit_cost), 0)
		FROM sale_items i JOIN sales s ON s.id = i.sale_id` + wi.where()
	if err := r.q.QueryRow(ctx, lines, wi.args...).Scan(&sum.ItemsSold, &sum.GrossProfit); err != nil {
		return nil, fmt.Errorf("sale items summary: %w", err)
	}

	byMethod := `SELECT payment_method, SUM(total_amount) FROM sales` + w.where() + ` GROUP BY payment_method`
	rows, err := r.q.Query(ctx, byMethod, w.args...)
	if err != nil {
		return nil, fmt.Errorf("sales by payment method: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var method string
		var total decimal.Decimal
		if err := rows.Scan(&method, &total); err != nil {
			return nil, fmt.Errorf("scan payment method: %w", err)
		}
		sum.ByPaymentMethod[method] = total
	}
	return sum, rows.Err()
}
