// Package memory implementa los puertos de catálogo y persistencia en memoria
// (modo demo y tests). Cada estructura se protege con su propio RWMutex.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/vitrine-api/internal/domain"
	"github.com/jhoicas/vitrine-api/internal/domain/entity"
	"github.com/jhoicas/vitrine-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*Catalog)(nil)

// Catalog catálogo en memoria. GetOnHand siempre lee el valor actual.
type Catalog struct {
	mu       sync.RWMutex
	products map[string]entity.Product
}

// NewCatalog construye un catálogo con los productos dados.
func NewCatalog(products ...entity.Product) *Catalog {
	c := &Catalog{products: make(map[string]entity.Product, len(products))}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

// NewSeededCatalog catálogo con los productos de demostración.
func NewSeededCatalog() *Catalog {
	return NewCatalog(DemoProducts(time.Now().UTC())...)
}

// DemoProducts catálogo de demostración de una tienda de ropa (compartido con cmd/seed).
func DemoProducts(now time.Time) []entity.Product {
	mk := func(id, name, cat, price string, onHand int) entity.Product {
		return entity.Product{
			ID: id, SKU: id, Name: name, Category: cat,
			UnitPrice: decimal.RequireFromString(price), OnHand: onHand, UpdatedAt: now,
		}
	}
	return []entity.Product{
		mk("SKU1", "Camiseta básica algodão", "camisetas", "8.50", 5),
		mk("SKU2", "Calça jeans slim", "calcas", "129.90", 12),
		mk("SKU3", "Vestido midi floral", "vestidos", "159.00", 4),
		mk("SKU4", "Bermuda moletom", "bermudas", "69.90", 20),
		mk("SKU5", "Jaqueta corta-vento", "jaquetas", "219.90", 3),
		mk("SKU6", "Meia cano alto (par)", "acessorios", "12.00", 60),
		mk("SKU7", "Boné aba curva", "acessorios", "49.90", 0),
	}
}

// GetProduct devuelve domain.ErrNotFound si no existe.
func (c *Catalog) GetProduct(_ context.Context, id string) (*entity.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return &p, nil
}

// GetOnHand unidades disponibles.
func (c *Catalog) GetOnHand(_ context.Context, id string) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[id]
	if !ok {
		return 0, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return p.OnHand, nil
}

// DecrementOnHand descuenta qty; domain.ErrOutOfStock si no alcanza.
func (c *Catalog) DecrementOnHand(_ context.Context, productID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: cantidad %d", domain.ErrInvalidInput, qty)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[productID]
	if !ok {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	if p.OnHand < qty {
		return fmt.Errorf("%w: %s tiene %d, se pidieron %d", domain.ErrOutOfStock, productID, p.OnHand, qty)
	}
	p.OnHand -= qty
	p.UpdatedAt = time.Now().UTC()
	c.products[productID] = p
	return nil
}

// Upsert crea o reemplaza un producto.
func (c *Catalog) Upsert(_ context.Context, product *entity.Product) error {
	if product == nil || product.ID == "" {
		return domain.ErrInvalidInput
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[product.ID] = *product
	return nil
}

// List ordena por nombre y pagina.
func (c *Catalog) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	c.mu.RLock()
	all := make([]entity.Product, 0, len(c.products))
	for _, p := range c.products {
		all = append(all, p)
	}
	c.mu.RUnlock()

	slices.SortFunc(all, func(a, b entity.Product) int {
		if n := strings.Compare(a.Name, b.Name); n != 0 {
			return n
		}
		return strings.Compare(a.ID, b.ID)
	})
	if offset >= len(all) {
		return []*entity.Product{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]*entity.Product, 0, end-offset)
	for i := offset; i < end; i++ {
		p := all[i]
		out = append(out, &p)
	}
	return out, nil
}
