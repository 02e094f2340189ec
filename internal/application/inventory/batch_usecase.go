package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

// BatchUseCase altas manuales, ajustes y consultas de lotes y del libro de inventario.
type BatchUseCase struct {
	txRunner     TxRunner
	engine       *Engine
	batches      repository.BatchRepository
	ledger       repository.LedgerRepository
	expiringDays int
}

// NewBatchUseCase construye el caso de uso. expiringDays es la ventana de "próximo a vencer".
func NewBatchUseCase(
	txRunner TxRunner,
	engine *Engine,
	batches repository.BatchRepository,
	ledger repository.LedgerRepository,
	expiringDays int,
) *BatchUseCase {
	if expiringDays <= 0 {
		expiringDays = 30
	}
	return &BatchUseCase{
		txRunner:     txRunner,
		engine:       engine,
		batches:      batches,
		ledger:       ledger,
		expiringDays: expiringDays,
	}
}

// AddBatchInput entrada para dar de alta un lote sin GRN.
type AddBatchInput struct {
	ProductID       string
	ProductFlavorID *string
	StoreID         string
	SupplierID      *string
	BatchNumber     string
	ExpirationDate  *time.Time
	Quantity        int
	UnitCost        decimal.Decimal
	Location        string
	DateReceived    *time.Time
	Notes           string
}

// AddBatch crea el lote y su asiento restock en una sola transacción.
func (uc *BatchUseCase) AddBatch(ctx context.Context, actorID string, in AddBatchInput) (*entity.Batch, error) {
	if strings.TrimSpace(in.BatchNumber) == "" {
		return nil, domain.NewValidationError("batch_number", "es obligatorio")
	}
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if in.UnitCost.IsNegative() {
		return nil, domain.NewValidationError("unit_cost", "no puede ser negativo")
	}

	now := time.Now().UTC()
	received := now
	if in.DateReceived != nil {
		received = in.DateReceived.UTC()
	}
	batch := &entity.Batch{
		ID:              uuid.New().String(),
		ProductID:       in.ProductID,
		ProductFlavorID: in.ProductFlavorID,
		StoreID:         in.StoreID,
		SupplierID:      in.SupplierID,
		BatchNumber:     strings.TrimSpace(in.BatchNumber),
		ExpirationDate:  in.ExpirationDate,
		Quantity:        in.Quantity,
		UnitCost:        in.UnitCost,
		Location:        in.Location,
		DateReceived:    received,
		Notes:           in.Notes,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos Repos) error {
		if err := CheckScopeRefs(ctx, repos, in.ProductID, in.StoreID, in.ProductFlavorID); err != nil {
			return err
		}
		if in.SupplierID != nil {
			s, err := repos.Suppliers.GetByID(ctx, *in.SupplierID)
			if err != nil {
				return err
			}
			if s == nil {
				return domain.NewNotFoundError("supplier", *in.SupplierID)
			}
		}
		if err := repos.Batches.Create(ctx, batch); err != nil {
			return err
		}
		return uc.engine.Record(ctx, repos, batch, batch.Quantity, Movement{
			Kind:      entity.LedgerKindRestock,
			ActorID:   actorID,
			Reference: batch.BatchNumber,
			Notes:     "Alta manual de lote",
		})
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("batch_id", batch.ID).Int("quantity", batch.Quantity).Str("actor", actorID).Msg("lote creado")
	return batch, nil
}

// AdjustQuantity fija la cantidad absoluta del lote. La diferencia queda como ajuste con sentido explícito;
// sin diferencia no se escribe nada.
func (uc *BatchUseCase) AdjustQuantity(ctx context.Context, actorID, batchID string, quantity int, notes string) (*entity.Batch, error) {
	if quantity < 0 {
		return nil, domain.NewValidationError("quantity", "no puede ser negativa")
	}
	var out *entity.Batch
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos Repos) error {
		b, err := repos.Batches.GetForUpdate(ctx, batchID)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.NewNotFoundError("batch", batchID)
		}
		diff := quantity - b.Quantity
		if diff == 0 {
			out = b
			return nil
		}
		mov := Movement{
			Kind:      entity.LedgerKindAdjustment,
			Direction: entity.DirectionIn,
			ActorID:   actorID,
			Reference: b.BatchNumber,
			Notes:     fmt.Sprintf("cantidad ajustada de %d a %d", b.Quantity, quantity),
		}
		if notes != "" {
			mov.Notes += ": " + notes
		}
		if diff < 0 {
			mov.Direction = entity.DirectionOut
			diff = -diff
		}
		b.Quantity = quantity
		if err := repos.Batches.UpdateQuantity(ctx, b.ID, b.Quantity); err != nil {
			return err
		}
		out = b
		return uc.engine.Record(ctx, repos, b, diff, mov)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateBatchInput metadatos editables del lote. Campos nil no cambian.
type UpdateBatchInput struct {
	BatchNumber     *string
	ExpirationDate  *time.Time
	ClearExpiration bool
	Location        *string
	SupplierID      *string
	Notes           *string
	IsActive        *bool
}

// UpdateBatch edita metadatos; la cantidad solo cambia por AdjustQuantity o el motor.
func (uc *BatchUseCase) UpdateBatch(ctx context.Context, batchID string, in UpdateBatchInput) (*entity.Batch, error) {
	var out *entity.Batch
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos Repos) error {
		b, err := repos.Batches.GetForUpdate(ctx, batchID)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.NewNotFoundError("batch", batchID)
		}
		if in.BatchNumber != nil {
			n := strings.TrimSpace(*in.BatchNumber)
			if n == "" {
				return domain.NewValidationError("batch_number", "no puede quedar vacío")
			}
			b.BatchNumber = n
		}
		if in.ClearExpiration {
			b.ExpirationDate = nil
		} else if in.ExpirationDate != nil {
			exp := *in.ExpirationDate
			b.ExpirationDate = &exp
		}
		if in.Location != nil {
			b.Location = *in.Location
		}
		if in.SupplierID != nil {
			s, err := repos.Suppliers.GetByID(ctx, *in.SupplierID)
			if err != nil {
				return err
			}
			if s == nil {
				return domain.NewNotFoundError("supplier", *in.SupplierID)
			}
			b.SupplierID = in.SupplierID
		}
		if in.Notes != nil {
			b.Notes = *in.Notes
		}
		if in.IsActive != nil {
			b.IsActive = *in.IsActive
		}
		b.UpdatedAt = time.Now().UTC()
		if err := repos.Batches.Update(ctx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetBatch devuelve un lote o NotFound.
func (uc *BatchUseCase) GetBatch(ctx context.Context, id string) (*entity.Batch, error) {
	b, err := uc.batches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.NewNotFoundError("batch", id)
	}
	return b, nil
}

// ListBatches lista lotes con filtros.
func (uc *BatchUseCase) ListBatches(ctx context.Context, filter repository.BatchFilter) ([]*entity.Batch, error) {
	return uc.batches.List(ctx, filter)
}

// ListExpired lotes con existencia cuyo vencimiento es anterior a hoy.
func (uc *BatchUseCase) ListExpired(ctx context.Context, storeID string, now time.Time) ([]*entity.Batch, error) {
	today := startOfDay(now)
	return uc.batches.ListExpiring(ctx, repository.ExpiryFilter{StoreID: storeID, Before: &today})
}

// ListExpiringSoon lotes con existencia que vencen entre hoy y hoy+expiringDays.
func (uc *BatchUseCase) ListExpiringSoon(ctx context.Context, storeID string, now time.Time) ([]*entity.Batch, error) {
	today := startOfDay(now)
	limit := today.AddDate(0, 0, uc.expiringDays+1)
	return uc.batches.ListExpiring(ctx, repository.ExpiryFilter{StoreID: storeID, From: &today, Before: &limit})
}

// ExpiringDays ventana configurada de próximo a vencer.
func (uc *BatchUseCase) ExpiringDays() int { return uc.expiringDays }

// ListLedger historial del libro de inventario.
func (uc *BatchUseCase) ListLedger(ctx context.Context, filter repository.LedgerFilter) ([]*entity.LedgerEntry, error) {
	if filter.Kind != "" && !filter.Kind.Valid() {
		return nil, domain.NewValidationError("kind", "tipo de movimiento desconocido")
	}
	return uc.ledger.List(ctx, filter)
}

// CheckScopeRefs valida que producto, tienda y variante existan y que la variante sea del producto.
func CheckScopeRefs(ctx context.Context, repos Repos, productID, storeID string, productFlavorID *string) error {
	if productID == "" {
		return domain.NewValidationError("product_id", "es obligatorio")
	}
	if storeID == "" {
		return domain.NewValidationError("store_id", "es obligatorio")
	}
	p, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.NewNotFoundError("product", productID)
	}
	s, err := repos.Stores.GetByID(ctx, storeID)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.NewNotFoundError("store", storeID)
	}
	if productFlavorID != nil {
		pf, err := repos.Flavors.GetProductFlavor(ctx, *productFlavorID)
		if err != nil {
			return err
		}
		if pf == nil {
			return domain.NewNotFoundError("product_flavor", *productFlavorID)
		}
		if pf.ProductID != productID {
			return domain.NewValidationError("product_flavor_id", "la variante no pertenece al producto")
		}
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
