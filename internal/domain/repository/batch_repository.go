package repository

import (
	"context"
	"time"

	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

// BatchScope alcance de una asignación: producto en tienda, opcionalmente un sabor.
// ProductFlavorID nil significa cualquier sabor del producto.
type BatchScope struct {
	ProductID       string
	StoreID         string
	ProductFlavorID *string
}

// Matches indica si el lote cae dentro del alcance.
func (s BatchScope) Matches(b *entity.Batch) bool {
	if b.ProductID != s.ProductID || b.StoreID != s.StoreID {
		return false
	}
	if s.ProductFlavorID == nil {
		return true
	}
	return b.ProductFlavorID != nil && *b.ProductFlavorID == *s.ProductFlavorID
}

// BatchFilter filtros para listados de lotes. Campos vacíos no filtran.
type BatchFilter struct {
	ProductID  string
	StoreID    string
	SupplierID string
	GRNID      string
	InStock    bool // solo cantidad > 0
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ExpiryFilter lotes activos con existencia cuyo vencimiento está en [From, Before).
type ExpiryFilter struct {
	StoreID string
	From    *time.Time
	Before  *time.Time
}

// BatchRepository define el puerto de persistencia para lotes de inventario.
// Los métodos ...ForUpdate bloquean las filas devueltas hasta el fin de la transacción;
// solo tienen sentido dentro de TxRunner.Run.
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.Batch) error
	GetByID(ctx context.Context, id string) (*entity.Batch, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Batch, error)
	// ListAvailable lotes activos con cantidad > 0 del alcance, en orden FIFO (date_received, id).
	ListAvailable(ctx context.Context, scope BatchScope) ([]*entity.Batch, error)
	ListAvailableForUpdate(ctx context.Context, scope BatchScope) ([]*entity.Batch, error)
	// FindReceiptBatchForUpdate busca el lote creado por un GRN para (producto, sabor, tienda, número de lote).
	// Un sabor nil solo coincide con lotes sin sabor.
	FindReceiptBatchForUpdate(ctx context.Context, productID string, productFlavorID *string, storeID, batchNumber, grnID string) (*entity.Batch, error)
	// LatestActiveForUpdate lote activo recibido más recientemente del alcance (con o sin existencia).
	LatestActiveForUpdate(ctx context.Context, scope BatchScope) (*entity.Batch, error)
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	Update(ctx context.Context, batch *entity.Batch) error
	List(ctx context.Context, filter BatchFilter) ([]*entity.Batch, error)
	ListExpiring(ctx context.Context, filter ExpiryFilter) ([]*entity.Batch, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
	// StockByProduct agrega existencias por producto; storeID vacío agrega toda la cadena.
	StockByProduct(ctx context.Context, storeID string) ([]ProductStock, error)
}
