// Package transfers implementa los traslados de stock entre tiendas. El inventario solo se mueve al aprobar.
package transfers

import (
	"context"
	"fmt"
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

// TransferUseCase casos de uso de traslados.
type TransferUseCase struct {
	txRunner  inventory.TxRunner
	engine    *inventory.Engine
	transfers repository.TransferRepository
}

// NewTransferUseCase construye el caso de uso. transfers se usa para lecturas fuera de transacción.
func NewTransferUseCase(txRunner inventory.TxRunner, engine *inventory.Engine, transfers repository.TransferRepository) *TransferUseCase {
	return &TransferUseCase{txRunner: txRunner, engine: engine, transfers: transfers}
}

// ItemInput línea del traslado. UnitCost nil conserva el costo del lote origen.
type ItemInput struct {
	ProductID       string
	ProductFlavorID *string
	BatchID         *string
	Quantity        int
	UnitCost        *decimal.Decimal
	Notes           string
}

// CreateInput datos del traslado.
type CreateInput struct {
	FromStoreID  string
	ToStoreID    string
	TransferDate *time.Time
	Notes        string
	Items        []ItemInput
}

// Create registra el traslado en pending tras validar disponibilidad en origen, sin mover stock.
func (uc *TransferUseCase) Create(ctx context.Context, actorID string, in CreateInput) (*entity.StockTransfer, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := now
	if in.TransferDate != nil {
		date = in.TransferDate.UTC()
	}
	t := &entity.StockTransfer{
		ID:             uuid.New().String(),
		TransferNumber: docnum.New(docnum.PrefixTransfer, now),
		FromStoreID:    in.FromStoreID,
		ToStoreID:      in.ToStoreID,
		Status:         entity.TransferStatusPending,
		TransferDate:   date,
		Notes:          in.Notes,
		CreatedBy:      actorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, it := range in.Items {
		t.Items = append(t.Items, entity.StockTransferItem{
			ID:              uuid.New().String(),
			TransferID:      t.ID,
			ProductID:       it.ProductID,
			ProductFlavorID: it.ProductFlavorID,
			BatchID:         it.BatchID,
			Quantity:        it.Quantity,
			UnitCost:        it.UnitCost,
			Notes:           it.Notes,
		})
	}

	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		to, err := repos.Stores.GetByID(ctx, in.ToStoreID)
		if err != nil {
			return err
		}
		if to == nil {
			return domain.NewNotFoundError("store", in.ToStoreID)
		}
		for _, it := range t.Items {
			if err := inventory.CheckScopeRefs(ctx, repos, it.ProductID, t.FromStoreID, it.ProductFlavorID); err != nil {
				return err
			}
		}
		if err := uc.engine.CheckAvailability(ctx, repos, demands(t)); err != nil {
			return err
		}
		return repos.Transfers.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("transfer_number", t.TransferNumber).
		Str("from_store", t.FromStoreID).
		Str("to_store", t.ToStoreID).
		Int("units", t.TotalQuantity()).
		Str("actor", actorID).
		Msg("traslado registrado")
	return t, nil
}

// Approve revalida todas las líneas antes de escribir y luego, por cada porción consumida en
// origen, deja un asiento transfer-out, crea el lote destino y su asiento transfer-in.
func (uc *TransferUseCase) Approve(ctx context.Context, actorID, id string) (*entity.StockTransfer, error) {
	var out *entity.StockTransfer
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		t, err := lockTransfer(ctx, repos, id)
		if err != nil {
			return err
		}
		if !t.CanApprove() {
			return domain.NewInvalidStateError("transfer", t.TransferNumber, string(t.Status), "approve")
		}
		if err := uc.engine.CheckAvailability(ctx, repos, demands(t)); err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, it := range t.Items {
			if err := uc.moveLine(ctx, repos, t, it, actorID, now); err != nil {
				return err
			}
		}

		actor := actorID
		t.Status = entity.TransferStatusCompleted
		t.CompletedDate = &now
		t.ApprovedBy = &actor
		t.UpdatedAt = now
		if err := repos.Transfers.Update(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("transfer_number", out.TransferNumber).Str("actor", actorID).Msg("traslado aprobado")
	return out, nil
}

func (uc *TransferUseCase) moveLine(ctx context.Context, repos inventory.Repos, t *entity.StockTransfer, it entity.StockTransferItem, actorID string, now time.Time) error {
	allocs, err := uc.engine.Deduct(ctx, repos, inventory.DeductionRequest{
		Scope:    repository.BatchScope{ProductID: it.ProductID, StoreID: t.FromStoreID, ProductFlavorID: it.ProductFlavorID},
		Quantity: it.Quantity,
		BatchID:  it.BatchID,
		Movement: inventory.Movement{
			Kind:      entity.LedgerKindTransferOut,
			ActorID:   actorID,
			Reference: t.TransferNumber,
			Notes:     fmt.Sprintf("Traslado %s hacia tienda %s", t.TransferNumber, t.ToStoreID),
		},
	})
	if err != nil {
		return err
	}

	for _, a := range allocs {
		src := a.Batch
		cost := src.UnitCost
		if it.UnitCost != nil {
			cost = *it.UnitCost
		}
		dest := &entity.Batch{
			ID:              uuid.New().String(),
			ProductID:       src.ProductID,
			ProductFlavorID: src.ProductFlavorID,
			StoreID:         t.ToStoreID,
			SupplierID:      src.SupplierID,
			BatchNumber:     src.BatchNumber,
			ExpirationDate:  src.ExpirationDate,
			Quantity:        a.Quantity,
			UnitCost:        cost,
			Location:        src.Location,
			DateReceived:    src.DateReceived,
			Notes:           fmt.Sprintf("Traslado %s desde tienda %s", t.TransferNumber, t.FromStoreID),
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := repos.Batches.Create(ctx, dest); err != nil {
			return err
		}
		if err := uc.engine.Record(ctx, repos, dest, a.Quantity, inventory.Movement{
			Kind:      entity.LedgerKindTransferIn,
			ActorID:   actorID,
			Reference: t.TransferNumber,
			Notes:     dest.Notes,
		}); err != nil {
			return err
		}
	}
	return nil
}

// Cancel solo desde pending o in_transit; no toca inventario.
func (uc *TransferUseCase) Cancel(ctx context.Context, actorID, id string) (*entity.StockTransfer, error) {
	var out *entity.StockTransfer
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		t, err := lockTransfer(ctx, repos, id)
		if err != nil {
			return err
		}
		if !t.CanCancel() {
			return domain.NewInvalidStateError("transfer", t.TransferNumber, string(t.Status), "cancel")
		}
		t.Status = entity.TransferStatusCancelled
		t.UpdatedAt = time.Now().UTC()
		if err := repos.Transfers.Update(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("transfer_number", out.TransferNumber).Str("actor", actorID).Msg("traslado cancelado")
	return out, nil
}

// UpdateNotes único campo editable, solo en pending.
func (uc *TransferUseCase) UpdateNotes(ctx context.Context, id, notes string) (*entity.StockTransfer, error) {
	var out *entity.StockTransfer
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.Repos) error {
		t, err := lockTransfer(ctx, repos, id)
		if err != nil {
			return err
		}
		if !t.CanEdit() {
			return domain.NewInvalidStateError("transfer", t.TransferNumber, string(t.Status), "update")
		}
		t.Notes = notes
		t.UpdatedAt = time.Now().UTC()
		if err := repos.Transfers.Update(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get devuelve el traslado con sus líneas.
func (uc *TransferUseCase) Get(ctx context.Context, id string) (*entity.StockTransfer, error) {
	t, err := uc.transfers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NewNotFoundError("transfer", id)
	}
	return t, nil
}

// List lista traslados donde la tienda es origen o destino.
func (uc *TransferUseCase) List(ctx context.Context, filter repository.TransferFilter) ([]*entity.StockTransfer, error) {
	return uc.transfers.List(ctx, filter)
}

func lockTransfer(ctx context.Context, repos inventory.Repos, id string) (*entity.StockTransfer, error) {
	t, err := repos.Transfers.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NewNotFoundError("transfer", id)
	}
	return t, nil
}

func demands(t *entity.StockTransfer) []inventory.Demand {
	out := make([]inventory.Demand, 0, len(t.Items))
	for _, it := range t.Items {
		out = append(out, inventory.Demand{
			Scope:    repository.BatchScope{ProductID: it.ProductID, StoreID: t.FromStoreID, ProductFlavorID: it.ProductFlavorID},
			BatchID:  it.BatchID,
			Quantity: it.Quantity,
		})
	}
	return out
}

func validateCreate(in CreateInput) error {
	if in.FromStoreID == "" {
		return domain.NewValidationError("from_store_id", "es obligatorio")
	}
	if in.ToStoreID == "" {
		return domain.NewValidationError("to_store_id", "es obligatorio")
	}
	if in.FromStoreID == in.ToStoreID {
		return domain.NewValidationError("to_store_id", "origen y destino deben ser distintos")
	}
	if len(in.Items) == 0 {
		return domain.NewValidationError("items", "el traslado debe tener al menos una línea")
	}
	for i, it := range in.Items {
		field := func(name string) string { return fmt.Sprintf("items[%d].%s", i, name) }
		if it.ProductID == "" {
			return domain.NewValidationError(field("product_id"), "es obligatorio")
		}
		if it.Quantity <= 0 {
			return domain.NewValidationError(field("quantity"), "debe ser mayor que cero")
		}
		if it.UnitCost != nil && it.UnitCost.IsNegative() {
			return domain.NewValidationError(field("unit_cost"), "no puede ser negativo")
		}
	}
	return nil
}
