package client

import (
	"context"
	"net/http"
	"sync"

	"github.com/webbutiken/storefront/internal/product/domain"
)

// ProductContext holds the catalog mirror. It is fetched once with Load
// and afterwards only spliced locally after each successful mutation,
// keyed by product id; it is never re-fetched on its own.
type ProductContext struct {
	client *Client
	auth   *AuthContext
	notify *Notifications

	mu       sync.RWMutex
	products []domain.Product
}

func NewProductContext(c *Client, auth *AuthContext, notify *Notifications) *ProductContext {
	return &ProductContext{client: c, auth: auth, notify: notify}
}

// Load fetches the full catalog and replaces the mirror.
func (p *ProductContext) Load(ctx context.Context) error {
	var products []domain.Product
	if err := p.client.doJSON(ctx, http.MethodGet, "/api/products", "", nil, &products); err != nil {
		p.notify.Push("Could not load products.")
		return err
	}
	p.mu.Lock()
	p.products = products
	p.mu.Unlock()
	return nil
}

// Products returns a copy of the mirror.
func (p *ProductContext) Products() []domain.Product {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.Product, len(p.products))
	copy(out, p.products)
	return out
}

// Find returns the mirrored product with the given id.
func (p *ProductContext) Find(id string) (domain.Product, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, product := range p.products {
		if product.ID == id {
			return product, true
		}
	}
	return domain.Product{}, false
}

func (p *ProductContext) Add(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	var created domain.Product
	if err := p.client.doJSON(ctx, http.MethodPost, "/api/products", p.auth.Token(), req, &created); err != nil {
		p.notify.Push("Could not add product.")
		return nil, err
	}
	p.mu.Lock()
	p.products = append(p.products, created)
	p.mu.Unlock()
	return &created, nil
}

func (p *ProductContext) Update(ctx context.Context, id string, req domain.UpdateProductRequest) (*domain.Product, error) {
	var updated domain.Product
	if err := p.client.doJSON(ctx, http.MethodPut, "/api/products/"+id, p.auth.Token(), req, &updated); err != nil {
		p.notify.Push("Could not update product.")
		return nil, err
	}
	p.mu.Lock()
	for i := range p.products {
		if p.products[i].ID == id {
			p.products[i] = updated
			break
		}
	}
	p.mu.Unlock()
	return &updated, nil
}

func (p *ProductContext) Delete(ctx context.Context, id string) error {
	if err := p.client.doJSON(ctx, http.MethodDelete, "/api/products/"+id, p.auth.Token(), nil, nil); err != nil {
		p.notify.Push("Could not delete product.")
		return err
	}
	p.mu.Lock()
	filtered := p.products[:0]
	for _, product := range p.products {
		if product.ID != id {
			filtered = append(filtered, product)
		}
	}
	p.products = filtered
	p.mu.Unlock()
	return nil
}
