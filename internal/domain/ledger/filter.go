package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/vitrine-api/internal/domain/entity"
)

// Filter predicado sobre los lanzamientos. Los campos vacíos no filtran.
type Filter struct {
	Kind         entity.EntryKind
	Status       entity.EntryStatus
	Counterparty string    // contiene, sin distinguir mayúsculas
	Category     string    // igual, sin distinguir mayúsculas
	From         time.Time // inclusivo
	To           time.Time // exclusivo
	ByDueDate    bool      // el rango aplica a DueDate en lugar de CreatedAt
}

// Matches indica si e cumple el filtro.
func (f Filter) Matches(e entity.LedgerEntry) bool {
	if f.Kind != "" && e.Kind != f.Kind {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if f.Counterparty != "" && !strings.Contains(strings.ToLower(e.Counterparty), strings.ToLower(f.Counterparty)) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(e.Category, f.Category) {
		return false
	}
	at := e.CreatedAt
	if f.ByDueDate {
		at = e.DueDate
	}
	if !f.From.IsZero() && at.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !at.Before(f.To) {
		return false
	}
	return true
}

// Summary totales del fiado. Balance = cobrado − pagado; Projected suma lo pendiente.
type Summary struct {
	Count             int
	PendingReceivable decimal.Decimal
	PendingPayable    decimal.Decimal
	SettledReceivable decimal.Decimal
	SettledPayable    decimal.Decimal
	Balance           decimal.Decimal
	Projected         decimal.Decimal
}
