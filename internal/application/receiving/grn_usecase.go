// Package receiving implementa el flujo de recepción de mercancía (GRN): received → verified → completed.
// Verify es el único punto donde las líneas del GRN se vuelven inventario.
package receiving

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

// GRNUseCase casos de uso del GRN.
type GRNUseCase struct {
	txRunner inventory.TxRunner
	engine   *inventory.Engine
	grns     repository.GRNRepository
}

// NewGRNUseCase construye el caso de uso. grns se usa para lecturas fuera de transacción.
func NewGRNUseCase(txRunner inventory.TxRunner, engine *inventory.Engine, grns repository.GRNRepository) *GRNUseCase {
	return &GRNUseCase{txRunner: txRunner, engine: engine, grns: grns}
}

// ItemInput línea recibida. UnitCost nil se considera faltante.
type ItemInput struct {
	ProductID        string
	ProductFlavorID  *string
	QuantityOrdered  int
	QuantityReceived int
	UnitCost         *decimal.Decimal
	BatchNumber      string
	ExpirationDate   *time.Time
	Location         string
	Notes            string
}

// CreateInput entrada para registrar un GRN.
type CreateInput struct {
	StoreID             string
	SupplierID          string
	PurchaseOrderNumber string
	InvoiceNumber       string
	ReceivedDate        *time.Time
	Notes               string
	Items               []ItemInput
}

// Create registra el GRN en estado received. No toca inventario.
func (uc *GRNUseCase) Create(ctx context.Context, actorID string, in CreateInput) (*entity.GRN, error) {
	if in.StoreID == "" {
		return nil, domain.NewValidationError("store_id", "es obligatorio")
	}
	if in.SupplierID == "" {
		return nil, domain.NewValidationError("supplier_id", "es obligatorio")
	}
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	received := now
	if in.ReceivedDate != nil {
		received = in.ReceivedDate.UTC()
	}
	grn := &entity.GRN{
		ID:                  uuid.New().String(),
		GRNNumber:           docnum.New(docnum.PrefixGRN, now),
		StoreID:             in.StoreID,
		SupplierID:          in.SupplierID,
		PurchaseOrderNumber: in.PurchaseOrderNumber,
		InvoiceNumber:       in.InvoiceNumber,
		ReceivedDate:        received,
		Status:              entity.GRNStatusReceived,
		Notes:               in.Notes,
		CreatedBy:           actorID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	grn.Items = buildItems(grn, in.Items)
	grn.Recalculate()

	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		if err := checkHeaderRefs(ctx, repos, in.StoreID, in.SupplierID); err != nil {
			return err
		}
		if err := checkItemRefs(ctx, repos, grn.Items); err != nil {
			return err
		}
		return repos.GRNs.Create(ctx, grn)
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("grn_number", grn.GRNNumber).
		Str("store_id", grn.StoreID).
		Int("items", len(grn.Items)).
		Str("actor", actorID).
		Msg("GRN registrado")
	return grn, nil
}

// Verify convierte las líneas en lotes: incrementa el lote recibido por este GRN con el mismo número
// o crea uno nuevo, y deja un asiento restock por línea.
func (uc *GRNUseCase) Verify(ctx context.Context, actorID, id string) (*entity.GRN, error) {
	var out *entity.GRN
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		grn, err := lockGRN(ctx, repos, id)
		if err != nil {
			return err
		}
		if grn.Status != entity.GRNStatusReceived {
			return domain.NewInvalidStateError("grn", grn.GRNNumber, string(grn.Status), "verify")
		}

		now := time.Now().UTC()
		for _, it := range grn.Items {
			batch, err := uc.receiveItem(ctx, repos, grn, it, now)
			if err != nil {
				return err
			}
			cost := it.UnitCost
			if err := uc.engine.Record(ctx, repos, batch, it.QuantityReceived, inventory.Movement{
				Kind:      entity.LedgerKindRestock,
				ActorID:   actorID,
				Reference: grn.GRNNumber,
				Notes:     fmt.Sprintf("Recibido vía GRN %s", grn.GRNNumber),
				UnitPrice: &cost,
			}); err != nil {
				return err
			}
		}

		actor := actorID
		grn.Status = entity.GRNStatusVerified
		grn.VerifiedBy = &actor
		grn.VerifiedDate = &now
		grn.UpdatedAt = now
		if err := repos.GRNs.Update(ctx, grn); err != nil {
			return err
		}
		out = grn
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("grn_number", out.GRNNumber).Str("actor", actorID).Msg("GRN verificado")
	return out, nil
}

func (uc *GRNUseCase) receiveItem(ctx context.Context, repos inventory.Repos, grn *entity.GRN, it entity.GRNItem, now time.Time) (*entity.Batch, error) {
	existing, err := repos.Batches.FindReceiptBatchForUpdate(ctx, it.ProductID, it.ProductFlavorID, grn.StoreID, it.BatchNumber, grn.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := existing.Add(it.QuantityReceived); err != nil {
			return nil, err
		}
		existing.UnitCost = it.UnitCost
		existing.UpdatedAt = now
		if err := repos.Batches.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	supplierID := grn.SupplierID
	grnID := grn.ID
	batch := &entity.Batch{
		ID:              uuid.New().String(),
		ProductID:       it.ProductID,
		ProductFlavorID: it.ProductFlavorID,
		StoreID:         grn.StoreID,
		SupplierID:      &supplierID,
		BatchNumber:     it.BatchNumber,
		ExpirationDate:  it.ExpirationDate,
		Quantity:        it.QuantityReceived,
		UnitCost:        it.UnitCost,
		Location:        it.Location,
		DateReceived:    grn.ReceivedDate,
		GRNID:           &grnID,
		Notes:           fmt.Sprintf("Recibido vía GRN %s", grn.GRNNumber),
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := repos.Batches.Create(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// Complete cierre administrativo; solo desde verified y sin efecto en inventario.
func (uc *GRNUseCase) Complete(ctx context.Context, actorID, id string) (*entity.GRN, error) {
	var out *entity.GRN
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		grn, err := lockGRN(ctx, repos, id)
		if err != nil {
			return err
		}
		if grn.Status != entity.GRNStatusVerified {
			return domain.NewInvalidStateError("grn", grn.GRNNumber, string(grn.Status), "complete")
		}
		grn.Status = entity.GRNStatusCompleted
		grn.UpdatedAt = time.Now().UTC()
		if err := repos.GRNs.Update(ctx, grn); err != nil {
			return err
		}
		out = grn
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("grn_number", out.GRNNumber).Str("actor", actorID).Msg("GRN completado")
	return out, nil
}

// UpdateInput campos editables mientras el GRN está en received. Items nil conserva las líneas.
type UpdateInput struct {
	PurchaseOrderNumber *string
	InvoiceNumber       *string
	ReceivedDate        *time.Time
	Notes               *string
	Items               *[]ItemInput
}

// Update edita cabecera y, opcionalmente, reemplaza las líneas recalculando totales.
func (uc *GRNUseCase) Update(ctx context.Context, id string, in UpdateInput) (*entity.GRN, error) {
	if in.Items != nil {
		if err := validateItems(*in.Items); err != nil {
			return nil, err
		}
	}
	var out *entity.GRN
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		grn, err := lockGRN(ctx, repos, id)
		if err != nil {
			return err
		}
		if !grn.CanEdit() {
			return domain.NewInvalidStateError("grn", grn.GRNNumber, string(grn.Status), "update")
		}
		if in.PurchaseOrderNumber != nil {
			grn.PurchaseOrderNumber = *in.PurchaseOrderNumber
		}
		if in.InvoiceNumber != nil {
			grn.InvoiceNumber = *in.InvoiceNumber
		}
		if in.ReceivedDate != nil {
			grn.ReceivedDate = in.ReceivedDate.UTC()
		}
		if in.Notes != nil {
			grn.Notes = *in.Notes
		}
		if in.Items != nil {
			grn.Items = buildItems(grn, *in.Items)
			if err := checkItemRefs(ctx, repos, grn.Items); err != nil {
				return err
			}
			if err := repos.GRNs.ReplaceItems(ctx, grn.ID, grn.Items); err != nil {
				return err
			}
		}
		grn.Recalculate()
		grn.UpdatedAt = time.Now().UTC()
		if err := repos.GRNs.Update(ctx, grn); err != nil {
			return err
		}
		out = grn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete elimina el GRN y sus líneas; solo en received.
func (uc *GRNUseCase) Delete(ctx context.Context, actorID, id string) error {
	var number string
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		grn, err := lockGRN(ctx, repos, id)
		if err != nil {
			return err
		}
		if !grn.CanEdit() {
			return domain.NewInvalidStateError("grn", grn.GRNNumber, string(grn.Status), "delete")
		}
		number = grn.GRNNumber
		return repos.GRNs.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	log.Info().Str("grn_number", number).Str("actor", actorID).Msg("GRN eliminado")
	return nil
}

// Get devuelve el GRN con sus líneas.
func (uc *GRNUseCase) Get(ctx context.Context, id string) (*entity.GRN, error) {
	grn, err := uc.grns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if grn == nil {
		return nil, domain.NewNotFoundError("grn", id)
	}
	return grn, nil
}

// List lista cabeceras con filtros.
func (uc *GRNUseCase) List(ctx context.Context, filter repository.GRNFilter) ([]*entity.GRN, error) {
	return uc.grns.List(ctx, filter)
}

// Summary conteos por estado y valor recibido.
func (uc *GRNUseCase) Summary(ctx context.Context, filter repository.GRNFilter) (*repository.GRNSummary, error) {
	return uc.grns.Summary(ctx, filter)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func lockGRN(ctx context.Context, repos inventory.Repos, id string) (*entity.GRN, error) {
	grn, err := repos.GRNs.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if grn == nil {
		return nil, domain.NewNotFoundError("grn", id)
	}
	return grn, nil
}

func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return domain.NewValidationError("items", "el GRN debe tener al menos una línea")
	}
	for i, it := range items {
		field := func(name string) string { return fmt.Sprintf("items[%d].%s", i, name) }
		if it.ProductID == "" {
			return domain.NewValidationError(field("product_id"), "es obligatorio")
		}
		if it.QuantityReceived <= 0 {
			return domain.NewValidationError(field("quantity_received"), "debe ser mayor que cero")
		}
		if it.QuantityOrdered < 0 {
			return domain.NewValidationError(field("quantity_ordered"), "no puede ser negativa")
		}
		if it.UnitCost == nil {
			return domain.NewValidationError(field("unit_cost"), "es obligatorio")
		}
		if it.UnitCost.IsNegative() {
			return domain.NewValidationError(field("unit_cost"), "no puede ser negativo")
		}
	}
	return nil
}

func buildItems(grn *entity.GRN, in []ItemInput) []entity.GRNItem {
	items := make([]entity.GRNItem, 0, len(in))
	for _, it := range in {
		ordered := it.QuantityOrdered
		if ordered == 0 {
			ordered = it.QuantityReceived
		}
		number := strings.TrimSpace(it.BatchNumber)
		if number == "" {
			number = entity.DefaultBatchNumber(grn.GRNNumber, it.ProductID, it.ProductFlavorID)
		}
		items = append(items, entity.GRNItem{
			ID:               uuid.New().String(),
			GRNID:            grn.ID,
			ProductID:        it.ProductID,
			ProductFlavorID:  it.ProductFlavorID,
			QuantityOrdered:  ordered,
			QuantityReceived: it.QuantityReceived,
			UnitCost:         *it.UnitCost,
			BatchNumber:      number,
			ExpirationDate:   it.ExpirationDate,
			Location:         it.Location,
			Notes:            it.Notes,
		})
	}
	return items
}

func checkHeaderRefs(ctx context.Context, repos inventory.Repos, storeID, supplierID string) error {
	store, err := repos.Stores.GetByID(ctx, storeID)
	if err != nil {
		return err
	}
	if store == nil {
		return domain.NewNotFoundError("store", storeID)
	}
	supplier, err := repos.Suppliers.GetByID(ctx, supplierID)
	if err != nil {
		return err
	}
	if supplier == nil {
		return domain.NewNotFoundError("supplier", supplierID)
	}
	return nil
}

func checkItemRefs(ctx context.Context, repos inventory.Repos, items []entity.GRNItem) error {
	for _, it := range items {
		p, err := repos.Products.GetByID(ctx, it.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NewNotFoundError("product", it.ProductID)
		}
		if it.ProductFlavorID == nil {
			continue
		}
		pf, err := repos.Flavors.GetProductFlavor(ctx, *it.ProductFlavorID)
		if err != nil {
			return err
		}
		if pf == nil {
			return domain.NewNotFoundError("product_flavor", *it.ProductFlavorID)
		}
		if pf.ProductID != it.ProductID {
			return domain.NewValidationError("product_flavor_id", "la variante no pertenece al producto")
		}
	}
	return nil
}
