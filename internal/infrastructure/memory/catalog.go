package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/jhoicas/suplementos-api/internal/domain"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
)

// ── Productos ───────────────────────────────────────────────────────────────

type productRepo struct {
	db *dataset
	g  guard
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.g.write()()
	for _, existing := range r.db.products {
		if strings.EqualFold(existing.SKU, p.SKU) {
			return domain.NewConflictError("product.sku", p.SKU)
		}
	}
	r.db.products[p.ID] = *cloneProduct(*p)
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.g.read()()
	p, ok := r.db.products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(p), nil
}

func (r *productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	defer r.g.read()()
	for _, p := range r.db.products {
		if strings.EqualFold(p.SKU, sku) {
			return cloneProduct(p), nil
		}
	}
	return nil, nil
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.g.write()()
	if _, ok := r.db.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, existing := range r.db.products {
		if id != p.ID && strings.EqualFold(existing.SKU, p.SKU) {
			return domain.NewConflictError("product.sku", p.SKU)
		}
	}
	r.db.products[p.ID] = *cloneProduct(*p)
	return nil
}

func (r *productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	defer r.g.read()()
	out := make([]*entity.Product, 0, len(r.db.products))
	for _, p := range r.db.products {
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		if f.Search != "" && !containsFold(p.SKU, f.Search) && !containsFold(p.Name, f.Search) {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	slices.SortFunc(out, func(a, b *entity.Product) int { return strings.Compare(a.SKU, b.SKU) })
	return page(out, f.Limit, f.Offset), nil
}

func (r *productRepo) Delete(_ context.Context, id string) error {
	defer r.g.write()()
	delete(r.db.products, id)
	return nil
}

func (r *productRepo) IsReferenced(_ context.Context, id string) (bool, error) {
	defer r.g.read()()
	for _, b := range r.db.batches {
		if b.ProductID == id {
			return true, nil
		}
	}
	for _, pf := range r.db.productFlavors {
		if pf.ProductID == id {
			return true, nil
		}
	}
	for _, g := range r.db.grns {
		for _, it := range g.Items {
			if it.ProductID == id {
				return true, nil
			}
		}
	}
	for _, s := range r.db.sales {
		for _, it := range s.Items {
			if it.ProductID == id {
				return true, nil
			}
		}
	}
	for _, t := range r.db.transfers {
		for _, it := range t.Items {
			if it.ProductID == id {
				return true, nil
			}
		}
	}
	return false, nil
}

// ── Sabores y variantes ─────────────────────────────────────────────────────

type flavorRepo struct {
	db *dataset
	g  guard
}

func (r *flavorRepo) CreateFlavor(_ context.Context, f *entity.Flavor) error {
	defer r.g.write()()
	for _, existing := range r.db.flavors {
		if strings.EqualFold(existing.Name, f.Name) {
			return domain.NewConflictError("flavor.name", f.Name)
		}
	}
	r.db.flavors[f.ID] = *f
	return nil
}

func (r *flavorRepo) GetFlavor(_ context.Context, id string) (*entity.Flavor, error) {
	defer r.g.read()()
	f, ok := r.db.flavors[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (r *flavorRepo) ListFlavors(_ context.Context, activeOnly bool) ([]*entity.Flavor, error) {
	defer r.g.read()()
	out := make([]*entity.Flavor, 0, len(r.db.flavors))
	for _, f := range r.db.flavors {
		if activeOnly && !f.IsActive {
			continue
		}
		f := f
		out = append(out, &f)
	}
	slices.SortFunc(out, func(a, b *entity.Flavor) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *flavorRepo) UpdateFlavor(_ context.Context, f *entity.Flavor) error {
	defer r.g.write()()
	if _, ok := r.db.flavors[f.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, existing := range r.db.flavors {
		if id != f.ID && strings.EqualFold(existing.Name, f.Name) {
			return domain.NewConflictError("flavor.name", f.Name)
		}
	}
	r.db.flavors[f.ID] = *f
	return nil
}

func (r *flavorRepo) DeleteFlavor(_ context.Context, id string) error {
	defer r.g.write()()
	delete(r.db.flavors, id)
	return nil
}

func (r *flavorRepo) IsFlavorReferenced(_ context.Context, id string) (bool, error) {
	defer r.g.read()()
	for _, pf := range r.db.productFlavors {
		if pf.FlavorID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *flavorRepo) CreateProductFlavor(_ context.Context, pf *entity.ProductFlavor) error {
	defer r.g.write()()
	if pf.IsActive {
		for _, existing := range r.db.productFlavors {
			if existing.IsActive && existing.ProductID == pf.ProductID && existing.FlavorID == pf.FlavorID {
				return domain.NewConflictError("product_flavor", pf.ProductID+"/"+pf.FlavorID)
			}
		}
	}
	r.db.productFlavors[pf.ID] = *pf
	return nil
}

func (r *flavorRepo) GetProductFlavor(_ context.Context, id string) (*entity.ProductFlavor, error) {
	defer r.g.read()()
	pf, ok := r.db.productFlavors[id]
	if !ok {
		return nil, nil
	}
	return &pf, nil
}

func (r *flavorRepo) FindActiveProductFlavor(_ context.Context, productID, flavorID string) (*entity.ProductFlavor, error) {
	defer r.g.read()()
	for _, pf := range r.db.productFlavors {
		if pf.IsActive && pf.ProductID == productID && pf.FlavorID == flavorID {
			return &pf, nil
		}
	}
	return nil, nil
}

func (r *flavorRepo) ListProductFlavors(_ context.Context, productID string, activeOnly bool) ([]*entity.ProductFlavor, error) {
	defer r.g.read()()
	out := make([]*entity.ProductFlavor, 0)
	for _, pf := range r.db.productFlavors {
		if pf.ProductID != productID || (activeOnly && !pf.IsActive) {
			continue
		}
		pf := pf
		out = append(out, &pf)
	}
	slices.SortFunc(out, func(a, b *entity.ProductFlavor) int {
		if c := strings.Compare(a.SKUSuffix, b.SKUSuffix); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *flavorRepo) UpdateProductFlavor(_ context.Context, pf *entity.ProductFlavor) error {
	defer r.g.write()()
	if _, ok := r.db.productFlavors[pf.ID]; !ok {
		return domain.ErrNotFound
	}
	if pf.IsActive {
		for id, existing := range r.db.productFlavors {
			if id != pf.ID && existing.IsActive && existing.ProductID == pf.ProductID && existing.FlavorID == pf.FlavorID {
				return domain.NewConflictError("product_flavor", pf.ProductID+"/"+pf.FlavorID)
			}
		}
	}
	r.db.productFlavors[pf.ID] = *pf
	return nil
}

func (r *flavorRepo) DeleteProductFlavor(_ context.Context, id string) error {
	defer r.g.write()()
	delete(r.db.productFlavors, id)
	return nil
}

func (r *flavorRepo) IsProductFlavorReferenced(_ context.Context, id string) (bool, error) {
	defer r.g.read()()
	ref := func(p *string) bool { return p != nil && *p == id }
	for _, b := range r.db.batches {
		if ref(b.ProductFlavorID) {
			return true, nil
		}
	}
	for _, s := range r.db.sales {
		for _, it := range s.Items {
			if ref(it.ProductFlavorID) {
				return true, nil
			}
		}
	}
	for _, g := range r.db.grns {
		for _, it := range g.Items {
			if ref(it.ProductFlavorID) {
				return true, nil
			}
		}
	}
	for _, t := range r.db.transfers {
		for _, it := range t.Items {
			if ref(it.ProductFlavorID) {
				return true, nil
			}
		}
	}
	return false, nil
}

// ── Tiendas y proveedores ───────────────────────────────────────────────────

type storeRepo struct {
	db *dataset
	g  guard
}

func (r *storeRepo) Create(_ context.Context, s *entity.Store) error {
	defer r.g.write()()
	for _, existing := range r.db.stores {
		if strings.EqualFold(existing.Code, s.Code) {
			return domain.NewConflictError("store.code", s.Code)
		}
	}
	r.db.stores[s.ID] = *s
	return nil
}

func (r *storeRepo) GetByID(_ context.Context, id string) (*entity.Store, error) {
	defer r.g.read()()
	s, ok := r.db.stores[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *storeRepo) GetByCode(_ context.Context, code string) (*entity.Store, error) {
	defer r.g.read()()
	for _, s := range r.db.stores {
		if strings.EqualFold(s.Code, code) {
			return &s, nil
		}
	}
	return nil, nil
}

func (r *storeRepo) Update(_ context.Context, s *entity.Store) error {
	defer r.g.write()()
	if _, ok := r.db.stores[s.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, existing := range r.db.stores {
		if id != s.ID && strings.EqualFold(existing.Code, s.Code) {
			return domain.NewConflictError("store.code", s.Code)
		}
	}
	r.db.stores[s.ID] = *s
	return nil
}

func (r *storeRepo) List(_ context.Context, activeOnly bool, limit, offset int) ([]*entity.Store, error) {
	defer r.g.read()()
	out := make([]*entity.Store, 0, len(r.db.stores))
	for _, s := range r.db.stores {
		if activeOnly && !s.IsActive {
			continue
		}
		s := s
		out = append(out, &s)
	}
	slices.SortFunc(out, func(a, b *entity.Store) int { return strings.Compare(a.Code, b.Code) })
	return page(out, limit, offset), nil
}

func (r *storeRepo) Delete(_ context.Context, id string) error {
	defer r.g.write()()
	delete(r.db.stores, id)
	return nil
}

func (r *storeRepo) IsReferenced(_ context.Context, id string) (bool, error) {
	defer r.g.read()()
	for _, b := range r.db.batches {
		if b.StoreID == id {
			return true, nil
		}
	}
	for _, s := range r.db.sales {
		if s.StoreID == id {
			return true, nil
		}
	}
	for _, g := range r.db.grns {
		if g.StoreID == id {
			return true, nil
		}
	}
	for _, t := range r.db.transfers {
		if t.FromStoreID == id || t.ToStoreID == id {
			return true, nil
		}
	}
	for _, u := range r.db.users {
		if u.StoreID != nil && *u.StoreID == id {
			return true, nil
		}
	}
	return false, nil
}

type supplierRepo struct {
	db *dataset
	g  guard
}

func (r *supplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	defer r.g.write()()
	r.db.suppliers[s.ID] = *s
	return nil
}

func (r *supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	defer r.g.read()()
	s, ok := r.db.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *supplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	defer r.g.write()()
	if _, ok := r.db.suppliers[s.ID]; !ok {
		return domain.ErrNotFound
	}
	r.db.suppliers[s.ID] = *s
	return nil
}

func (r *supplierRepo) List(_ context.Context, activeOnly bool, limit, offset int) ([]*entity.Supplier, error) {
	defer r.g.read()()
	out := make([]*entity.Supplier, 0, len(r.db.suppliers))
	for _, s := range r.db.suppliers {
		if activeOnly && !s.IsActive {
			continue
		}
		s := s
		out = append(out, &s)
	}
	slices.SortFunc(out, func(a, b *entity.Supplier) int { return strings.Compare(a.Name, b.Name) })
	return page(out, limit, offset), nil
}

// ── Usuarios ────────────────────────────────────────────────────────────────

type userRepo struct {
	db *dataset
	g  guard
}

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	defer r.g.write()()
	for _, existing := range r.db.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return domain.NewConflictError("user.username", u.Username)
		}
		if u.Email != "" && strings.EqualFold(existing.Email, u.Email) {
			return domain.NewConflictError("user.email", u.Email)
		}
	}
	r.db.users[u.ID] = *cloneUser(*u)
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.g.read()()
	u, ok := r.db.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	defer r.g.read()()
	for _, u := range r.db.users {
		if strings.EqualFold(u.Username, username) {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	defer r.g.read()()
	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *userRepo) Update(_ context.Context, u *entity.User) error {
	defer r.g.write()()
	if _, ok := r.db.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	r.db.users[u.ID] = *cloneUser(*u)
	return nil
}

func (r *userRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	defer r.g.read()()
	out := make([]*entity.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		out = append(out, cloneUser(u))
	}
	slices.SortFunc(out, func(a, b *entity.User) int { return strings.Compare(a.Username, b.Username) })
	return page(out, limit, offset), nil
}
