package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Totals valores derivados de un conjunto de líneas.
type Totals struct {
	TotalItems       int
	TotalValue       decimal.Decimal
	AverageUnitValue decimal.Decimal // TotalValue / TotalItems; 0 si no hay ítems
}

// ComputeTotals calcula los totales de las líneas (función pura).
func ComputeTotals(lines []CartLine) Totals {
	t := Totals{TotalValue: decimal.Zero, AverageUnitValue: decimal.Zero}
	for _, l := range lines {
		t.TotalItems += l.Quantity
		t.TotalValue = t.TotalValue.Add(l.Total())
	}
	if t.TotalItems > 0 {
		t.AverageUnitValue = t.TotalValue.Div(decimal.NewFromInt(int64(t.TotalItems)))
	}
	return t
}

// ReceiptLine línea congelada de un recibo.
type ReceiptLine struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Receipt foto inmutable de una venta finalizada.
type Receipt struct {
	ID          string
	Lines       []ReceiptLine
	Totals      Totals
	FinalizedAt time.Time
}
