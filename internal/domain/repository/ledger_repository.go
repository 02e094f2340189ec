package repository

import (
	"context"
	"time"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

// LedgerFilter filtros del historial de movimientos.
type LedgerFilter struct {
	ProductID string
	StoreID   string
	BatchID   string
	Kind      entity.LedgerKind
	Reference string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// LedgerRepository puerto del libro de inventario. Solo agrega y lee: no hay Update ni Delete.
type LedgerRepository interface {
	Create(ctx context.Context, entry *entity.LedgerEntry) error
	List(ctx context.Context, filter LedgerFilter) ([]*entity.LedgerEntry, error)
}
