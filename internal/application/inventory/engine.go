package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	domaininv "github.com/jhoicas/suplementos-api/internal/domain/inventory"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

// Movement plantilla de los asientos que genera una operación del motor.
// Direction vacío toma el sentido implícito de Kind; los ajustes lo deben traer explícito.
type Movement struct {
	Kind      entity.LedgerKind
	Direction entity.Direction
	ActorID   string
	Reference string
	Notes     string
	UnitPrice *decimal.Decimal
}

func (m Movement) direction() entity.Direction {
	if m.Direction != "" {
		return m.Direction
	}
	return m.Kind.DefaultDirection()
}

// DeductionRequest pide retirar Quantity unidades del alcance. Con BatchID se descuenta
// todo de ese lote; sin él se asigna FIFO.
type DeductionRequest struct {
	Scope    repository.BatchScope
	Quantity int
	BatchID  *string
	Movement Movement
}

// Allocation porción consumida de un lote. Batch refleja la cantidad ya descontada.
type Allocation struct {
	Batch    *entity.Batch
	Quantity int
	UnitCost decimal.Decimal
}

// Engine motor de asignación de inventario: deducción FIFO o por lote, crédito y costo promedio.
// Las operaciones que reciben Repos corren dentro de la transacción del llamador.
type Engine struct {
	txRunner TxRunner
	batches  BatchReader
}

// NewEngine construye el motor. batches se usa en las lecturas fuera de transacción.
func NewEngine(txRunner TxRunner, batches BatchReader) *Engine {
	return &Engine{txRunner: txRunner, batches: batches}
}

// Deduct retira unidades del alcance y registra un asiento por lote consumido.
// Si el alcance no alcanza devuelve *domain.InsufficientStockError sin tocar ningún lote.
func (e *Engine) Deduct(ctx context.Context, repos Repos, req DeductionRequest) ([]Allocation, error) {
	if req.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if req.Scope.ProductID == "" || req.Scope.StoreID == "" {
		return nil, domain.NewValidationError("scope", "producto y tienda son obligatorios")
	}

	var portions []domaininv.Portion
	if req.BatchID != nil {
		b, err := e.lockExplicit(ctx, repos, req.Scope, *req.BatchID)
		if err != nil {
			return nil, err
		}
		if b.Quantity < req.Quantity {
			return nil, &domain.InsufficientStockError{
				ProductID: req.Scope.ProductID,
				StoreID:   req.Scope.StoreID,
				BatchID:   b.ID,
				Requested: req.Quantity,
				Available: b.Quantity,
			}
		}
		portions = []domaininv.Portion{{Batch: b, Quantity: req.Quantity}}
	} else {
		batches, err := repos.Batches.ListAvailableForUpdate(ctx, req.Scope)
		if err != nil {
			return nil, fmt.Errorf("listar lotes disponibles: %w", err)
		}
		plan := domaininv.PlanFIFO(batches, req.Quantity)
		if !plan.Satisfied() {
			return nil, &domain.InsufficientStockError{
				ProductID: req.Scope.ProductID,
				StoreID:   req.Scope.StoreID,
				Requested: req.Quantity,
				Available: plan.Taken,
			}
		}
		portions = plan.Portions
	}

	allocations := make([]Allocation, 0, len(portions))
	for _, p := range portions {
		b := *p.Batch
		if err := b.Deduct(p.Quantity); err != nil {
			return nil, err
		}
		if err := repos.Batches.UpdateQuantity(ctx, b.ID, b.Quantity); err != nil {
			return nil, fmt.Errorf("actualizar lote %s: %w", b.ID, err)
		}
		if err := e.Record(ctx, repos, &b, p.Quantity, req.Movement); err != nil {
			return nil, err
		}
		allocations = append(allocations, Allocation{Batch: &b, Quantity: p.Quantity, UnitCost: b.UnitCost})
	}
	return allocations, nil
}

func (e *Engine) lockExplicit(ctx context.Context, repos Repos, scope repository.BatchScope, batchID string) (*entity.Batch, error) {
	b, err := repos.Batches.GetForUpdate(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("bloquear lote %s: %w", batchID, err)
	}
	if b == nil {
		return nil, domain.NewNotFoundError("batch", batchID)
	}
	if b.StoreID != scope.StoreID {
		return nil, domain.NewValidationError("batch_id", "el lote no pertenece a la tienda")
	}
	if b.ProductID != scope.ProductID {
		return nil, domain.NewValidationError("batch_id", "el lote no corresponde al producto")
	}
	if !scope.Matches(b) {
		return nil, domain.NewValidationError("batch_id", "el lote no corresponde al sabor")
	}
	if !b.IsActive {
		return nil, domain.NewValidationError("batch_id", "el lote está inactivo")
	}
	return b, nil
}

// Credit suma quantity al lote. Con mov distinto de nil registra el asiento correspondiente.
func (e *Engine) Credit(ctx context.Context, repos Repos, batchID string, quantity int, mov *Movement) (*entity.Batch, error) {
	if quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	b, err := repos.Batches.GetForUpdate(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("bloquear lote %s: %w", batchID, err)
	}
	if b == nil {
		return nil, domain.NewNotFoundError("batch", batchID)
	}
	if err := b.Add(quantity); err != nil {
		return nil, err
	}
	if err := repos.Batches.UpdateQuantity(ctx, b.ID, b.Quantity); err != nil {
		return nil, fmt.Errorf("actualizar lote %s: %w", b.ID, err)
	}
	if mov != nil {
		if err := e.Record(ctx, repos, b, quantity, *mov); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Record agrega al libro un asiento de quantity unidades sobre b.
func (e *Engine) Record(ctx context.Context, repos Repos, b *entity.Batch, quantity int, mov Movement) error {
	dir := mov.direction()
	if dir == "" {
		return domain.NewValidationError("direction", "los ajustes requieren sentido explícito")
	}
	batchID := b.ID
	entry := &entity.LedgerEntry{
		ID:              uuid.New().String(),
		ProductID:       b.ProductID,
		ProductFlavorID: b.ProductFlavorID,
		BatchID:         &batchID,
		StoreID:         b.StoreID,
		Kind:            mov.Kind,
		Direction:       dir,
		Quantity:        quantity,
		Reference:       mov.Reference,
		Notes:           mov.Notes,
		CreatedBy:       mov.ActorID,
		CreatedAt:       time.Now().UTC(),
	}
	if mov.UnitPrice != nil {
		price := *mov.UnitPrice
		total := price.Mul(decimal.NewFromInt(int64(quantity)))
		entry.UnitPrice = &price
		entry.TotalAmount = &total
	}
	if err := repos.Ledger.Create(ctx, entry); err != nil {
		return fmt.Errorf("registrar movimiento %s: %w", mov.Kind, err)
	}
	return nil
}

// AverageUnitCost costo promedio ponderado de los lotes vivos del alcance. Siempre se calcula
// sobre filas actuales.
func (e *Engine) AverageUnitCost(ctx context.Context, reader BatchReader, scope repository.BatchScope) (decimal.Decimal, error) {
	batches, err := reader.ListAvailable(ctx, scope)
	if err != nil {
		return decimal.Zero, fmt.Errorf("listar lotes disponibles: %w", err)
	}
	return domaininv.AverageUnitCost(batches), nil
}

// ── Entradas independientes (ajustes manuales) ──────────────────────────────

// DeductionInput entrada de un retiro manual de inventario.
type DeductionInput struct {
	ProductID       string
	StoreID         string
	ProductFlavorID *string
	BatchID         *string
	Quantity        int
	Reference       string
	Notes           string
}

// AllocateDeduction retiro manual en su propia transacción; deja asientos de ajuste de salida.
func (e *Engine) AllocateDeduction(ctx context.Context, actorID string, in DeductionInput) ([]Allocation, error) {
	var out []Allocation
	err := e.txRunner.Run(ctx, func(ctx context.Context, repos Repos) error {
		allocs, err := e.Deduct(ctx, repos, DeductionRequest{
			Scope: repository.BatchScope{
				ProductID:       in.ProductID,
				StoreID:         in.StoreID,
				ProductFlavorID: in.ProductFlavorID,
			},
			Quantity: in.Quantity,
			BatchID:  in.BatchID,
			Movement: Movement{
				Kind:      entity.LedgerKindAdjustment,
				Direction: entity.DirectionOut,
				ActorID:   actorID,
				Reference: in.Reference,
				Notes:     in.Notes,
			},
		})
		out = allocs
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("product_id", in.ProductID).
		Str("store_id", in.StoreID).
		Int("quantity", in.Quantity).
		Str("actor", actorID).
		Msg("deducción manual aplicada")
	return out, nil
}

// CreditInput entrada de un crédito manual a un lote.
type CreditInput struct {
	BatchID   string
	Quantity  int
	Reference string
	Notes     string
}

// CreditBatch crédito manual en su propia transacción; deja un asiento de ajuste de entrada.
func (e *Engine) CreditBatch(ctx context.Context, actorID string, in CreditInput) (*entity.Batch, error) {
	var out *entity.Batch
	err := e.txRunner.Run(ctx, func(ctx context.Context, repos Repos) error {
		b, err := e.Credit(ctx, repos, in.BatchID, in.Quantity, &Movement{
			Kind:      entity.LedgerKindAdjustment,
			Direction: entity.DirectionIn,
			ActorID:   actorID,
			Reference: in.Reference,
			Notes:     in.Notes,
		})
		out = b
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("batch_id", in.BatchID).Int("quantity", in.Quantity).Str("actor", actorID).Msg("crédito manual aplicado")
	return out, nil
}

// AverageUnitCostFor costo promedio del alcance leyendo fuera de transacción.
func (e *Engine) AverageUnitCostFor(ctx context.Context, scope repository.BatchScope) (decimal.Decimal, error) {
	if scope.ProductID == "" || scope.StoreID == "" {
		return decimal.Zero, domain.NewValidationError("scope", "producto y tienda son obligatorios")
	}
	return e.AverageUnitCost(ctx, e.batches, scope)
}
