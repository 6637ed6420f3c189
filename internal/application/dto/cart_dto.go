package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddItemRequest suma unidades de un producto al carrito.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,max=100"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// SetQuantityRequest fija la cantidad de una línea; 0 o negativo la elimina.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartLineResponse línea del carrito.
type CartLineResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	AddedAt   time.Time       `json:"added_at"`
}

// TotalsResponse totales derivados.
type TotalsResponse struct {
	TotalItems       int             `json:"total_items"`
	TotalValue       decimal.Decimal `json:"total_value"`
	AverageUnitValue decimal.Decimal `json:"average_unit_value"`
}

// CartResponse estado actual del carrito.
type CartResponse struct {
	ID     string             `json:"id"`
	Lines  []CartLineResponse `json:"lines"`
	Totals TotalsResponse     `json:"totals"`
}

// CheckoutRequest cierra el carrito. Mode: "immediate" | "on_credit".
// Los demás campos solo aplican a on_credit.
type CheckoutRequest struct {
	Mode         string     `json:"mode" validate:"required,oneof=immediate on_credit"`
	Title        string     `json:"title" validate:"max=200"`
	Counterparty string     `json:"counterparty" validate:"max=200"`
	Category     string     `json:"category" validate:"max=100"`
	DueDate      *time.Time `json:"due_date"`
	Note         string     `json:"note" validate:"max=1000"`
}

// ReceiptLineResponse línea congelada del recibo.
type ReceiptLineResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// ReceiptResponse recibo de una venta.
type ReceiptResponse struct {
	ID          string                `json:"id"`
	Lines       []ReceiptLineResponse `json:"lines"`
	Totals      TotalsResponse        `json:"totals"`
	FinalizedAt time.Time             `json:"finalized_at"`
}

// CheckoutResponse resultado: SaleID para immediate, Entry para on_credit.
type CheckoutResponse struct {
	Mode    string               `json:"mode"`
	SaleID  string               `json:"sale_id,omitempty"`
	Receipt ReceiptResponse      `json:"receipt"`
	Entry   *LedgerEntryResponse `json:"entry,omitempty"`
}
