// Package money formatea e interpreta importes en BRL (pt-BR) sobre shopspring/decimal.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Scale número de decimales de los importes.
const Scale = 2

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Format devuelve el importe con prefijo R$ y separadores pt-BR. Ej: 1234.5 -> "R$ 1.234,50".
func Format(d decimal.Decimal) string {
	f := d.Round(Scale).InexactFloat64()
	return printer.Sprintf("R$ %.2f", f)
}

// Parse interpreta un importe en notación "1234.56" o pt-BR "1.234,56".
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return decimal.Zero, fmt.Errorf("money: importe vacío")
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("money: importe inválido %q: %w", s, err)
	}
	return d, nil
}

// Amount importe de entrada JSON: acepta número, "1234.56" o "1.234,56".
type Amount struct {
	decimal.Decimal
}

// NewAmount envuelve d.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// UnmarshalJSON interpreta el importe con Parse. null deja el valor en cero.
func (a *Amount) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	d, err := Parse(strings.Trim(s, `"`))
	if err != nil {
		return err
	}
	a.Decimal = d
	return nil
}
