package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. Lo administra el catálogo externo;
// el motor de venta solo lo lee.
type Product struct {
	ID        string
	SKU       string // código interno o de barras
	Name      string
	UnitPrice decimal.Decimal // precio de venta (no negativo)
	OnHand    int             // unidades disponibles para la venta
	Category  string
	UpdatedAt time.Time
}
