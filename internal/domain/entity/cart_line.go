package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine línea de un carrito abierto. UnitPrice y Name se capturan al crear la línea
// para que cambios posteriores del catálogo no alteren la venta en curso.
type CartLine struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	AddedAt   time.Time
}

// Total devuelve Quantity × UnitPrice.
func (l CartLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
