// Package memory implementa todos los puertos de persistencia en memoria de proceso.
// Sirve para desarrollo local (STORAGE_DRIVER=memory) y para las pruebas de casos de uso.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/jhoicas/suplementos-api/internal/application/inventory"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

type dataset struct {
	products       map[string]entity.Product
	flavors        map[string]entity.Flavor
	productFlavors map[string]entity.ProductFlavor
	stores         map[string]entity.Store
	suppliers      map[string]entity.Supplier
	batches        map[string]entity.Batch
	ledger         []entity.LedgerEntry
	grns           map[string]entity.GRN
	sales          map[string]entity.Sale
	transfers      map[string]entity.StockTransfer
	users          map[string]entity.User
}

func newDataset() *dataset {
	return &dataset{
		products:       make(map[string]entity.Product),
		flavors:        make(map[string]entity.Flavor),
		productFlavors: make(map[string]entity.ProductFlavor),
		stores:         make(map[string]entity.Store),
		suppliers:      make(map[string]entity.Supplier),
		batches:        make(map[string]entity.Batch),
		ledger:         make([]entity.LedgerEntry, 0, 128),
		grns:           make(map[string]entity.GRN),
		sales:          make(map[string]entity.Sale),
		transfers:      make(map[string]entity.StockTransfer),
		users:          make(map[string]entity.User),
	}
}

func (d *dataset) clone() *dataset {
	ledger := make([]entity.LedgerEntry, len(d.ledger), len(d.ledger)+16)
	for i, e := range d.ledger {
		ledger[i] = *cloneEntry(e)
	}
	return &dataset{
		products:       cloneMap(d.products, func(p entity.Product) entity.Product { return *cloneProduct(p) }),
		flavors:        cloneMap(d.flavors, func(f entity.Flavor) entity.Flavor { return f }),
		productFlavors: cloneMap(d.productFlavors, func(pf entity.ProductFlavor) entity.ProductFlavor { return pf }),
		stores:         cloneMap(d.stores, func(s entity.Store) entity.Store { return s }),
		suppliers:      cloneMap(d.suppliers, func(s entity.Supplier) entity.Supplier { return s }),
		batches:        cloneMap(d.batches, func(b entity.Batch) entity.Batch { return *cloneBatch(b) }),
		ledger:         ledger,
		grns:           cloneMap(d.grns, func(g entity.GRN) entity.GRN { return *cloneGRN(g, true) }),
		sales:          cloneMap(d.sales, func(s entity.Sale) entity.Sale { return *cloneSale(s, true) }),
		transfers:      cloneMap(d.transfers, func(t entity.StockTransfer) entity.StockTransfer { return *cloneTransfer(t, true) }),
		users:          cloneMap(d.users, func(u entity.User) entity.User { return *cloneUser(u) }),
	}
}

// guard protege el dataset vivo; dentro de una transacción mu es nil porque Run ya tiene el lock.
type guard struct {
	mu *sync.RWMutex
}

func (g guard) read() func() {
	if g.mu == nil {
		return func() {}
	}
	g.mu.RLock()
	return g.mu.RUnlock
}

func (g guard) write() func() {
	if g.mu == nil {
		return func() {}
	}
	g.mu.Lock()
	return g.mu.Unlock
}

// Store dataset en memoria con transacciones serializadas.
// Run trabaja sobre una copia profunda que reemplaza al dataset vivo solo si fn termina sin error.
// Los repositorios de Repos no deben usarse fuera de fn, ni los repositorios del Store dentro de fn.
type Store struct {
	mu   sync.RWMutex
	data *dataset
}

// New crea un store vacío.
func New() *Store {
	return &Store{data: newDataset()}
}

var _ inventory.TxRunner = (*Store)(nil)

// Run ejecuta fn con repositorios atados a una copia del dataset.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.data.clone()
	if err := fn(ctx, reposFor(tx, guard{})); err != nil {
		return err
	}
	*s.data = *tx
	return nil
}

// Repos repositorios sobre el dataset vivo, para lecturas y escrituras fuera de transacción.
func (s *Store) Repos() inventory.Repos {
	return reposFor(s.data, guard{mu: &s.mu})
}

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository {
	return &userRepo{db: s.data, g: guard{mu: &s.mu}}
}

func reposFor(db *dataset, g guard) inventory.Repos {
	return inventory.Repos{
		Products:  &productRepo{db: db, g: g},
		Flavors:   &flavorRepo{db: db, g: g},
		Stores:    &storeRepo{db: db, g: g},
		Suppliers: &supplierRepo{db: db, g: g},
		Batches:   &batchRepo{db: db, g: g},
		Ledger:    &ledgerRepo{db: db, g: g},
		GRNs:      &grnRepo{db: db, g: g},
		Sales:     &saleRepo{db: db, g: g},
		Transfers: &transferRepo{db: db, g: g},
	}
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
