package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductResponse salida de un producto del catálogo.
type ProductResponse struct {
	ID        string          `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Category  string          `json:"category,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	OnHand    int             `json:"on_hand"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
