package repository

import (
	"context"

	"github.com/jhoicas/vitrine-api/internal/domain/entity"
)

// CatalogLookup puerto de lectura del catálogo (DIP). El carrito relee el stock en cada
// mutación; las implementaciones no deben cachear OnHand.
type CatalogLookup interface {
	// GetProduct devuelve domain.ErrNotFound si el producto no existe.
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	// GetOnHand devuelve las unidades disponibles; domain.ErrNotFound si el producto no existe.
	GetOnHand(ctx context.Context, id string) (int, error)
}

// StockAdjuster informa al catálogo las salidas de una venta confirmada.
type StockAdjuster interface {
	// DecrementOnHand resta qty; domain.ErrOutOfStock si quedaría negativo.
	DecrementOnHand(ctx context.Context, productID string, qty int) error
}

// ProductRepository catálogo administrable (usado por el seed y el backend en memoria).
type ProductRepository interface {
	CatalogLookup
	StockAdjuster
	Upsert(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
}
