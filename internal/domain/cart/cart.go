// Package cart implementa el carrito del punto de venta: líneas por producto con tope
// en el stock disponible del catálogo y totales derivados.
package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/vitrine-api/internal/domain"
	"github.com/jhoicas/vitrine-api/internal/domain/entity"
	"github.com/jhoicas/vitrine-api/internal/domain/repository"
)

// Cart venta en curso. Como máximo una línea por producto, en orden de inserción.
// Cada instancia pertenece a una sola sesión; el mutex serializa sus mutaciones.
type Cart struct {
	mu      sync.Mutex
	id      string
	catalog repository.CatalogLookup
	now     func() time.Time
	lines   []entity.CartLine
	index   map[string]int // productID -> posición en lines
}

// New crea un carrito vacío. Si id está vacío se genera un UUID; now nil usa time.Now.
func New(id string, catalog repository.CatalogLookup, now func() time.Time) *Cart {
	if id == "" {
		id = uuid.New().String()
	}
	if now == nil {
		now = time.Now
	}
	return &Cart{
		id:      id,
		catalog: catalog,
		now:     now,
		index:   make(map[string]int),
	}
}

// ID identificador del carrito.
func (c *Cart) ID() string { return c.id }

// AddItem suma increment unidades del producto. El control de stock usa la cantidad
// resultante de la línea, no solo el incremento. Precio y nombre se capturan solo
// cuando la línea se crea.
func (c *Cart) AddItem(ctx context.Context, productID string, increment int) (entity.CartLine, error) {
	if productID == "" || increment <= 0 {
		return entity.CartLine{}, domain.ErrInvalidInput
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	product, err := c.catalog.GetProduct(ctx, productID)
	if err != nil {
		return entity.CartLine{}, fmt.Errorf("cart: obtener producto %s: %w", productID, err)
	}
	if product == nil {
		return entity.CartLine{}, domain.ErrNotFound
	}

	current := 0
	i, exists := c.index[productID]
	if exists {
		current = c.lines[i].Quantity
	}
	if current+increment > product.OnHand {
		return entity.CartLine{}, fmt.Errorf("%w: %s solicitado %d, disponible %d",
			domain.ErrOutOfStock, productID, current+increment, product.OnHand)
	}

	if exists {
		c.lines[i].Quantity += increment
		return c.lines[i], nil
	}
	line := entity.CartLine{
		ProductID: productID,
		Name:      product.Name,
		Quantity:  increment,
		UnitPrice: product.UnitPrice,
		AddedAt:   c.now(),
	}
	c.index[productID] = len(c.lines)
	c.lines = append(c.lines, line)
	return line, nil
}

// RemoveItem elimina la línea. domain.ErrNotFound si no existe (el caller puede ignorarlo).
func (c *Cart) RemoveItem(productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(productID)
}

// SetQuantity reemplaza la cantidad de la línea. qty <= 0 equivale a RemoveItem y
// devuelve (nil, err de RemoveItem). El precio capturado no cambia.
func (c *Cart) SetQuantity(ctx context.Context, productID string, qty int) (*entity.CartLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if qty <= 0 {
		return nil, c.removeLocked(productID)
	}
	i, ok := c.index[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	onHand, err := c.catalog.GetOnHand(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("cart: obtener stock %s: %w", productID, err)
	}
	if qty > onHand {
		return nil, fmt.Errorf("%w: %s solicitado %d, disponible %d",
			domain.ErrOutOfStock, productID, qty, onHand)
	}
	c.lines[i].Quantity = qty
	line := c.lines[i]
	return &line, nil
}

// Totals calcula TotalItems, TotalValue y AverageUnitValue sin efectos secundarios.
func (c *Cart) Totals() entity.Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return entity.ComputeTotals(c.lines)
}

// Lines devuelve una copia ordenada de las líneas.
func (c *Cart) Lines() []entity.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]entity.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len cantidad de líneas.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Clear vacía el carrito (checkout o cancelación).
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

// Finalize congela las líneas en un recibo y vacía el carrito.
func (c *Cart) Finalize() (*entity.Receipt, error) {
	return c.Commit(nil)
}

// Commit arma el recibo y ejecuta fn; el carrito se vacía solo si fn no devuelve error.
// Si fn falla, el carrito queda intacto y se devuelve el error de fn.
// fn corre con el carrito bloqueado y no debe invocar métodos del mismo carrito.
func (c *Cart) Commit(fn func(*entity.Receipt) error) (*entity.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.lines) == 0 {
		return nil, domain.ErrEmptyCart
	}
	receipt := c.receiptLocked()
	if fn != nil {
		if err := fn(receipt); err != nil {
			return nil, err
		}
	}
	c.clearLocked()
	return receipt, nil
}

func (c *Cart) receiptLocked() *entity.Receipt {
	lines := make([]entity.ReceiptLine, 0, len(c.lines))
	for _, l := range c.lines {
		lines = append(lines, entity.ReceiptLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.Total(),
		})
	}
	return &entity.Receipt{
		ID:          uuid.New().String(),
		Lines:       lines,
		Totals:      entity.ComputeTotals(c.lines),
		FinalizedAt: c.now(),
	}
}

func (c *Cart) removeLocked(productID string) error {
	i, ok := c.index[productID]
	if !ok {
		return domain.ErrNotFound
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, productID)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].ProductID] = j
	}
	return nil
}

func (c *Cart) clearLocked() {
	c.lines = nil
	c.index = make(map[string]int)
}
