// Package sales implementa el flujo de ventas en punto de venta: registro con descuento de
// inventario, anulación con reintegro y edición de metadatos.
package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/suplementos-api/internal/application/inventory"
	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
	"github.com/jhoicas/suplementos-api/pkg/docnum"
)

const costScale = 4

// SaleUseCase casos de uso de ventas.
type SaleUseCase struct {
	txRunner inventory.TxRunner
	engine   *inventory.Engine
	sales    repository.SaleRepository
}

// NewSaleUseCase construye el caso de uso. sales se usa para lecturas fuera de transacción.
func NewSaleUseCase(txRunner inventory.TxRunner, engine *inventory.Engine, sales repository.SaleRepository) *SaleUseCase {
	return &SaleUseCase{txRunner: txRunner, engine: engine, sales: sales}
}

// ItemInput línea vendida. BatchID fija el lote; sin él se asigna FIFO.
type ItemInput struct {
	ProductID       string
	ProductFlavorID *string
	BatchID         *string
	Quantity        int
	UnitPrice       decimal.Decimal
	Discount        decimal.Decimal
}

// CreateInput datos de la venta.
type CreateInput struct {
	StoreID        string
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  string
	SaleDate       *time.Time
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	PaymentMethod  string
	PaymentStatus  entity.PaymentStatus
	Notes          string
	Items          []ItemInput
}

// Create registra la venta. Antes de escribir verifica la disponibilidad agregada de todas las
// líneas; luego descuenta línea por línea dejando un asiento sale por lote consumido.
func (uc *SaleUseCase) Create(ctx context.Context, actorID string, in CreateInput) (*entity.Sale, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	saleDate := now
	if in.SaleDate != nil {
		saleDate = in.SaleDate.UTC()
	}
	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		method = entity.PaymentMethodCash
	}
	status := in.PaymentStatus
	if status == "" {
		status = entity.PaymentStatusPaid
	}
	sale := &entity.Sale{
		ID:             uuid.New().String(),
		InvoiceNumber:  docnum.New(docnum.PrefixInvoice, now),
		StoreID:        in.StoreID,
		CustomerName:   in.CustomerName,
		CustomerPhone:  in.CustomerPhone,
		CustomerEmail:  in.CustomerEmail,
		SaleDate:       saleDate,
		TaxAmount:      in.TaxAmount,
		DiscountAmount: in.DiscountAmount,
		PaymentMethod:  method,
		PaymentStatus:  status,
		Notes:          in.Notes,
		CreatedBy:      actorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		store, err := repos.Stores.GetByID(ctx, in.StoreID)
		if err != nil {
			return err
		}
		if store == nil {
			return domain.NewNotFoundError("store", in.StoreID)
		}
		for _, it := range in.Items {
			if err := inventory.CheckScopeRefs(ctx, repos, it.ProductID, in.StoreID, it.ProductFlavorID); err != nil {
				return err
			}
		}
		demands := make([]inventory.Demand, 0, len(in.Items))
		for _, it := range in.Items {
			demands = append(demands, inventory.Demand{
				Scope:    repository.BatchScope{ProductID: it.ProductID, StoreID: in.StoreID, ProductFlavorID: it.ProductFlavorID},
				BatchID:  it.BatchID,
				Quantity: it.Quantity,
			})
		}
		if err := uc.engine.CheckAvailability(ctx, repos, demands); err != nil {
			return err
		}

		sale.Items = make([]entity.SaleItem, 0, len(in.Items))
		for _, it := range in.Items {
			item, err := uc.sellLine(ctx, repos, sale, it, actorID)
			if err != nil {
				return err
			}
			sale.Items = append(sale.Items, item)
		}
		sale.Recalculate()
		return repos.Sales.Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("invoice_number", sale.InvoiceNumber).
		Str("store_id", sale.StoreID).
		Str("total", sale.TotalAmount.StringFixed(2)).
		Str("actor", actorID).
		Msg("venta registrada")
	return sale, nil
}

func (uc *SaleUseCase) sellLine(ctx context.Context, repos inventory.Repos, sale *entity.Sale, it ItemInput, actorID string) (entity.SaleItem, error) {
	scope := repository.BatchScope{ProductID: it.ProductID, StoreID: sale.StoreID, ProductFlavorID: it.ProductFlavorID}

	// Con lote explícito el costo es el del lote; en FIFO es el promedio del alcance antes de descontar.
	var unitCost decimal.Decimal
	if it.BatchID == nil {
		avg, err := uc.engine.AverageUnitCost(ctx, repos.Batches, scope)
		if err != nil {
			return entity.SaleItem{}, err
		}
		unitCost = avg.Round(costScale)
	}

	price := it.UnitPrice
	allocs, err := uc.engine.Deduct(ctx, repos, inventory.DeductionRequest{
		Scope:    scope,
		Quantity: it.Quantity,
		BatchID:  it.BatchID,
		Movement: inventory.Movement{
			Kind:      entity.LedgerKindSale,
			ActorID:   actorID,
			Reference: sale.InvoiceNumber,
			Notes:     fmt.Sprintf("Venta %s", sale.InvoiceNumber),
			UnitPrice: &price,
		},
	})
	if err != nil {
		return entity.SaleItem{}, err
	}
	if it.BatchID != nil {
		unitCost = allocs[0].UnitCost
	}

	return entity.SaleItem{
		ID:              uuid.New().String(),
		SaleID:          sale.ID,
		ProductID:       it.ProductID,
		ProductFlavorID: it.ProductFlavorID,
		BatchID:         it.BatchID,
		Quantity:        it.Quantity,
		UnitPrice:       it.UnitPrice,
		UnitCost:        unitCost,
		Discount:        it.Discount,
	}, nil
}

// Void anula la venta devolviendo cada línea al inventario con asientos return.
// Las líneas con lote vuelven a ese lote; las FIFO al lote activo más reciente del alcance o,
// si no hay ninguno, a un lote de restitución nuevo.
func (uc *SaleUseCase) Void(ctx context.Context, actorID, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		sale, err := repos.Sales.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.NewNotFoundError("sale", id)
		}
		if sale.IsVoided() {
			return &domain.AlreadyVoidedError{InvoiceNumber: sale.InvoiceNumber}
		}

		now := time.Now().UTC()
		for _, it := range sale.Items {
			if err := uc.restoreLine(ctx, repos, sale, it, actorID, now); err != nil {
				return err
			}
		}

		stamp := fmt.Sprintf("Anulada el %s", now.Format("2006-01-02 15:04:05"))
		if sale.Notes == "" {
			sale.Notes = stamp
		} else {
			sale.Notes += "\n" + stamp
		}
		sale.PaymentStatus = entity.PaymentStatusVoided
		sale.UpdatedAt = now
		if err := repos.Sales.Update(ctx, sale); err != nil {
			return err
		}
		out = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("invoice_number", out.InvoiceNumber).Str("actor", actorID).Msg("venta anulada")
	return out, nil
}

func (uc *SaleUseCase) restoreLine(ctx context.Context, repos inventory.Repos, sale *entity.Sale, it entity.SaleItem, actorID string, now time.Time) error {
	price := it.UnitPrice
	mov := inventory.Movement{
		Kind:      entity.LedgerKindReturn,
		ActorID:   actorID,
		Reference: sale.InvoiceNumber,
		Notes:     fmt.Sprintf("Anulación de venta %s", sale.InvoiceNumber),
		UnitPrice: &price,
	}

	if it.BatchID != nil {
		_, err := uc.engine.Credit(ctx, repos, *it.BatchID, it.Quantity, &mov)
		return err
	}

	scope := repository.BatchScope{ProductID: it.ProductID, StoreID: sale.StoreID, ProductFlavorID: it.ProductFlavorID}
	latest, err := repos.Batches.LatestActiveForUpdate(ctx, scope)
	if err != nil {
		return err
	}
	if latest != nil {
		_, err := uc.engine.Credit(ctx, repos, latest.ID, it.Quantity, &mov)
		return err
	}

	restored := &entity.Batch{
		ID:              uuid.New().String(),
		ProductID:       it.ProductID,
		ProductFlavorID: it.ProductFlavorID,
		StoreID:         sale.StoreID,
		BatchNumber:     fmt.Sprintf("%s-%s", docnum.PrefixVoid, sale.InvoiceNumber),
		Quantity:        it.Quantity,
		UnitCost:        it.UnitCost,
		DateReceived:    now,
		Notes:           fmt.Sprintf("Restitución por anulación de %s", sale.InvoiceNumber),
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := repos.Batches.Create(ctx, restored); err != nil {
		return err
	}
	return uc.engine.Record(ctx, repos, restored, it.Quantity, mov)
}

// UpdateInput metadatos editables de una venta no anulada.
type UpdateInput struct {
	CustomerName  *string
	CustomerPhone *string
	CustomerEmail *string
	PaymentStatus *entity.PaymentStatus
	Notes         *string
}

// Update edita solo metadatos; líneas, totales e inventario no cambian.
func (uc *SaleUseCase) Update(ctx context.Context, id string, in UpdateInput) (*entity.Sale, error) {
	if in.PaymentStatus != nil {
		if !in.PaymentStatus.Valid() {
			return nil, domain.NewValidationError("payment_status", "estado de pago desconocido")
		}
		if *in.PaymentStatus == entity.PaymentStatusVoided {
			return nil, domain.NewValidationError("payment_status", "use la anulación para anular una venta")
		}
	}
	var out *entity.Sale
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		sale, err := repos.Sales.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.NewNotFoundError("sale", id)
		}
		if sale.IsVoided() {
			return domain.NewInvalidStateError("sale", sale.InvoiceNumber, string(sale.PaymentStatus), "update")
		}
		if in.CustomerName != nil {
			sale.CustomerName = *in.CustomerName
		}
		if in.CustomerPhone != nil {
			sale.CustomerPhone = *in.CustomerPhone
		}
		if in.CustomerEmail != nil {
			sale.CustomerEmail = *in.CustomerEmail
		}
		if in.PaymentStatus != nil {
			sale.PaymentStatus = *in.PaymentStatus
		}
		if in.Notes != nil {
			sale.Notes = *in.Notes
		}
		sale.UpdatedAt = time.Now().UTC()
		if err := repos.Sales.Update(ctx, sale); err != nil {
			return err
		}
		out = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get devuelve la venta con sus líneas.
func (uc *SaleUseCase) Get(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.NewNotFoundError("sale", id)
	}
	return sale, nil
}

// List lista ventas con filtros.
func (uc *SaleUseCase) List(ctx context.Context, filter repository.SaleFilter) ([]*entity.Sale, error) {
	if filter.PaymentStatus != "" && !filter.PaymentStatus.Valid() {
		return nil, domain.NewValidationError("payment_status", "estado de pago desconocido")
	}
	return uc.sales.List(ctx, filter)
}

// Summary agregados de ventas no anuladas.
func (uc *SaleUseCase) Summary(ctx context.Context, filter repository.SaleFilter) (*repository.SaleSummary, error) {
	return uc.sales.Summary(ctx, filter)
}

func validateCreate(in CreateInput) error {
	if in.StoreID == "" {
		return domain.NewValidationError("store_id", "es obligatorio")
	}
	if len(in.Items) == 0 {
		return domain.NewValidationError("items", "la venta debe tener al menos una línea")
	}
	if in.TaxAmount.IsNegative() {
		return domain.NewValidationError("tax_amount", "no puede ser negativo")
	}
	if in.DiscountAmount.IsNegative() {
		return domain.NewValidationError("discount_amount", "no puede ser negativo")
	}
	if in.PaymentStatus != "" && (!in.PaymentStatus.Valid() || in.PaymentStatus == entity.PaymentStatusVoided) {
		return domain.NewValidationError("payment_status", "estado de pago no permitido")
	}
	subtotal := decimal.Zero
	for i, it := range in.Items {
		field := func(name string) string { return fmt.Sprintf("items[%d].%s", i, name) }
		if it.ProductID == "" {
			return domain.NewValidationError(field("product_id"), "es obligatorio")
		}
		if it.Quantity <= 0 {
			return domain.NewValidationError(field("quantity"), "debe ser mayor que cero")
		}
		if it.UnitPrice.IsNegative() {
			return domain.NewValidationError(field("unit_price"), "no puede ser negativo")
		}
		if it.Discount.IsNegative() {
			return domain.NewValidationError(field("discount"), "no puede ser negativo")
		}
		gross := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		if it.Discount.GreaterThan(gross) {
			return domain.NewValidationError(field("discount"), "supera cantidad × precio de la línea")
		}
		subtotal = subtotal.Add(gross.Sub(it.Discount))
	}
	if in.DiscountAmount.GreaterThan(subtotal.Add(in.TaxAmount)) {
		return domain.NewValidationError("discount_amount", "supera el subtotal más impuesto")
	}
	return nil
}
