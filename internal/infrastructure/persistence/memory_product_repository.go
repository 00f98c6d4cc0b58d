package persistence

import (
	"context"
	"sync"

	"github.com/hellcat/store/internal/domain/catalog"
)

// MemoryProductRepository keeps the catalog in process memory.
// Stored products are detached copies so callers never share state.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products []catalog.Product
}

// NewMemoryProductRepository creates a repository holding the given products in order
func NewMemoryProductRepository(initial ...catalog.Product) *MemoryProductRepository {
	products := make([]catalog.Product, 0, len(initial))
	for i := range initial {
		products = append(products, initial[i].Snapshot())
	}
	return &MemoryProductRepository{products: products}
}

// FindAll returns every product in catalog order
func (r *MemoryProductRepository) FindAll(ctx context.Context) ([]catalog.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Product, len(r.products))
	for i := range r.products {
		out[i] = r.products[i].Snapshot()
	}
	return out, nil
}

// FindByID finds a product by its ID
func (r *MemoryProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, catalog.ErrProductNotFound
	}
	p := r.products[idx].Snapshot()
	return &p, nil
}

// NextID returns max(id)+1, or 1 for an empty catalog
func (r *MemoryProductRepository) NextID(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var maxID int64
	for i := range r.products {
		if r.products[i].ID > maxID {
			maxID = r.products[i].ID
		}
	}
	return maxID + 1, nil
}

// Create prepends the product to the catalog
func (r *MemoryProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(product.ID) >= 0 {
		return errDuplicateProduct(product.ID)
	}
	r.products = append([]catalog.Product{product.Snapshot()}, r.products...)
	return nil
}

// Save replaces the stored product with the same id
func (r *MemoryProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(product.ID)
	if idx < 0 {
		return catalog.ErrProductNotFound
	}
	r.products[idx] = product.Snapshot()
	return nil
}

// Delete removes exactly one product
func (r *MemoryProductRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return catalog.ErrProductNotFound
	}
	r.products = append(r.products[:idx], r.products[idx+1:]...)
	return nil
}

// Count returns the number of products
func (r *MemoryProductRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}

func (r *MemoryProductRepository) indexOf(id int64) int {
	for i := range r.products {
		if r.products[i].ID == id {
			return i
		}
	}
	return -1
}

var _ catalog.ProductRepository = (*MemoryProductRepository)(nil)
