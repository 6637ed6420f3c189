package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/vitrine-api/internal/domain"
	"github.com/jhoicas/vitrine-api/internal/domain/entity"
	"github.com/jhoicas/vitrine-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo catálogo sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, sku, name, category, unit_price, on_hand, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Category, &p.UnitPrice, &p.OnHand, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProduct obtiene un producto por ID. domain.ErrNotFound si no existe.
func (r *ProductRepo) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetOnHand lee el stock actual (sin caché).
func (r *ProductRepo) GetOnHand(ctx context.Context, id string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT on_hand FROM products WHERE id = $1`, id).Scan(&n)
	if err != nil {
		if isNoRows(err) {
			return 0, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		return 0, fmt.Errorf("get on hand: %w", err)
	}
	return n, nil
}

// DecrementOnHand descuenta qty de forma atómica: el UPDATE solo aplica si alcanza el stock.
func (r *ProductRepo) DecrementOnHand(ctx context.Context, productID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: cantidad %d", domain.ErrInvalidInput, qty)
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET on_hand = on_hand - $2, updated_at = now() WHERE id = $1 AND on_hand >= $2`,
		productID, qty,
	)
	if err != nil {
		return fmt.Errorf("decrement on hand: %w", err)
	}
	if cmd.RowsAffected() == 1 {
		return nil
	}
	if _, err := r.GetOnHand(ctx, productID); err != nil {
		return err
	}
	return fmt.Errorf("%w: producto %s", domain.ErrOutOfStock, productID)
}

// Upsert crea o actualiza un producto por ID.
func (r *ProductRepo) Upsert(ctx context.Context, p *entity.Product) error {
	if p == nil || p.ID == "" {
		return domain.ErrInvalidInput
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			sku = EXCLUDED.sku, name = EXCLUDED.name, category = EXCLUDED.category,
			unit_price = EXCLUDED.unit_price, on_hand = EXCLUDED.on_hand, updated_at = EXCLUDED.updated_at`,
		p.ID, p.SKU, p.Name, p.Category, p.UnitPrice, p.OnHand, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: sku %s duplicado", domain.ErrInvalidInput, p.SKU)
		}
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// List lista productos por nombre con paginación.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0, limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
