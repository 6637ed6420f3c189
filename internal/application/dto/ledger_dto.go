package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/vitrine-api/pkg/money"
)

// CreateLedgerEntryRequest alta de un lanzamiento del fiado.
// Kind: entrada|despesa; Recurrence: none, mensal, etc. (vacío = none).
// Amount admite número o texto "1234.56" / "1.234,56".
type CreateLedgerEntryRequest struct {
	Title        string          `json:"title" validate:"required,min=1,max=200"`
	Amount       money.Amount    `json:"amount" swaggertype:"string" example:"1.234,56"`
	Kind         string          `json:"kind" validate:"required"`
	Counterparty string          `json:"counterparty" validate:"max=200"`
	Category     string          `json:"category" validate:"max=100"`
	DueDate      *time.Time      `json:"due_date"`
	Recurrence   string          `json:"recurrence"`
	Note         string          `json:"note" validate:"max=1000"`
}

// SettleLedgerEntryRequest liquida un lanzamiento. PaidAt opcional (ahora por defecto).
type SettleLedgerEntryRequest struct {
	PaymentMethod string     `json:"payment_method"`
	PaidAt        *time.Time `json:"paid_at"`
}

// LedgerFilterRequest filtros del listado. From inclusivo, To exclusivo (RFC3339 o YYYY-MM-DD).
type LedgerFilterRequest struct {
	Kind         string `query:"kind"`
	Status       string `query:"status"`
	Counterparty string `query:"counterparty"`
	Category     string `query:"category"`
	From         string `query:"from"`
	To           string `query:"to"`
	ByDueDate    bool   `query:"by_due_date"`
	PageRequest
}

// LedgerEntryResponse salida de un lanzamiento.
type LedgerEntryResponse struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Amount        decimal.Decimal `json:"amount"`
	Kind          string          `json:"kind"`
	Counterparty  string          `json:"counterparty,omitempty"`
	Category      string          `json:"category,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	DueDate       time.Time       `json:"due_date"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Recurrence    string          `json:"recurrence"`
	Status        string          `json:"status"`
	Note          string          `json:"note,omitempty"`
}

// LedgerEntryListResponse lista paginada de lanzamientos.
type LedgerEntryListResponse struct {
	Items []LedgerEntryResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// LedgerSummaryResponse totales del fiado.
type LedgerSummaryResponse struct {
	Count             int             `json:"count"`
	PendingReceivable decimal.Decimal `json:"pending_receivable"`
	PendingPayable    decimal.Decimal `json:"pending_payable"`
	SettledReceivable decimal.Decimal `json:"settled_receivable"`
	SettledPayable    decimal.Decimal `json:"settled_payable"`
	Balance           decimal.Decimal `json:"balance"`
	Projected         decimal.Decimal `json:"projected"`
}
