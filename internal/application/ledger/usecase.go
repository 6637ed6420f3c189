// Package ledger expone el fiado a la capa de presentación: convierte los valores del
// cable (entrada, pix, mensal...) en los enumerados del dominio y pagina los listados.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/vitrine-api/internal/application/dto"
	"github.com/jhoicas/vitrine-api/internal/domain"
	"github.com/jhoicas/vitrine-api/internal/domain/entity"
	domledger "github.com/jhoicas/vitrine-api/internal/domain/ledger"
	"github.com/jhoicas/vitrine-api/pkg/logger"
)

// LedgerUseCase casos de uso del fiado sobre el ledger compartido del proceso.
type LedgerUseCase struct {
	ledger *domledger.Ledger
	log    *logger.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(l *domledger.Ledger, log *logger.Logger) *LedgerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{ledger: l, log: log.Named("ledger")}
}

// Create registra un lanzamiento pendiente.
func (uc *LedgerUseCase) Create(ctx context.Context, in dto.CreateLedgerEntryRequest) (*dto.LedgerEntryResponse, error) {
	kind, ok := entity.ParseEntryKind(in.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: tipo %q (entrada|despesa)", domain.ErrInvalidEntry, in.Kind)
	}
	rec, ok := entity.ParseRecurrence(in.Recurrence)
	if !ok {
		return nil, fmt.Errorf("%w: recurrencia %q", domain.ErrInvalidEntry, in.Recurrence)
	}
	ne := domledger.NewEntry{
		Title:        in.Title,
		Amount:       in.Amount.Decimal,
		Kind:         kind,
		Counterparty: in.Counterparty,
		Category:     in.Category,
		Recurrence:   rec,
		Note:         in.Note,
	}
	if in.DueDate != nil {
		ne.DueDate = *in.DueDate
	}
	e, err := uc.ledger.CreateEntry(ctx, ne)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("entry_id", e.ID).Str("kind", string(e.Kind)).Str("amount", e.Amount.StringFixed(2)).Msg("lanzamiento creado")
	return ToEntryResponse(e), nil
}

// Settle liquida el lanzamiento. Sin forma de pago: domain.ErrMissingPaymentMethod.
func (uc *LedgerUseCase) Settle(ctx context.Context, id string, in dto.SettleLedgerEntryRequest) (*dto.LedgerEntryResponse, error) {
	var method entity.PaymentMethod
	if strings.TrimSpace(in.PaymentMethod) != "" {
		m, ok := entity.ParsePaymentMethod(in.PaymentMethod)
		if !ok {
			// valor desconocido: el dominio decide el orden de errores
			m = entity.PaymentMethod(in.PaymentMethod)
		}
		method = m
	}
	var paidAt time.Time
	if in.PaidAt != nil {
		paidAt = *in.PaidAt
	}
	e, err := uc.ledger.Settle(ctx, id, method, paidAt)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("entry_id", e.ID).Str("payment_method", string(*e.PaymentMethod)).Msg("lanzamiento liquidado")
	return ToEntryResponse(e), nil
}

// Reopen vuelve el lanzamiento a pendiente.
func (uc *LedgerUseCase) Reopen(ctx context.Context, id string) (*dto.LedgerEntryResponse, error) {
	e, err := uc.ledger.Reopen(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("entry_id", e.ID).Msg("lanzamiento reabierto")
	return ToEntryResponse(e), nil
}

// GetByID obtiene un lanzamiento.
func (uc *LedgerUseCase) GetByID(id string) (*dto.LedgerEntryResponse, error) {
	e, err := uc.ledger.Get(id)
	if err != nil {
		return nil, err
	}
	return ToEntryResponse(e), nil
}

// List recorre la secuencia ordenada aplicando offset/limit; Total cuenta todos los que cumplen el filtro.
func (uc *LedgerUseCase) List(in dto.LedgerFilterRequest) (*dto.LedgerEntryListResponse, error) {
	f, err := ParseFilter(in)
	if err != nil {
		return nil, err
	}
	page := in.PageRequest
	page.DefaultPage()

	items := make([]dto.LedgerEntryResponse, 0, page.Limit)
	total := 0
	for e := range uc.ledger.List(f) {
		if total >= page.Offset && len(items) < page.Limit {
			items = append(items, *ToEntryResponse(e))
		}
		total++
	}
	return &dto.LedgerEntryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Summary totales de los lanzamientos que cumplen el filtro (sin paginar).
func (uc *LedgerUseCase) Summary(in dto.LedgerFilterRequest) (*dto.LedgerSummaryResponse, error) {
	f, err := ParseFilter(in)
	if err != nil {
		return nil, err
	}
	s := uc.ledger.Summarize(f)
	return &dto.LedgerSummaryResponse{
		Count:             s.Count,
		PendingReceivable: s.PendingReceivable,
		PendingPayable:    s.PendingPayable,
		SettledReceivable: s.SettledReceivable,
		SettledPayable:    s.SettledPayable,
		Balance:           s.Balance,
		Projected:         s.Projected,
	}, nil
}

// ParseFilter convierte los parámetros de consulta a domledger.Filter.
// Fechas en RFC3339 o YYYY-MM-DD (medianoche UTC).
func ParseFilter(in dto.LedgerFilterRequest) (domledger.Filter, error) {
	f := domledger.Filter{
		Counterparty: strings.TrimSpace(in.Counterparty),
		Category:     strings.TrimSpace(in.Category),
		ByDueDate:    in.ByDueDate,
	}
	if in.Kind != "" {
		k, ok := entity.ParseEntryKind(in.Kind)
		if !ok {
			return f, fmt.Errorf("%w: kind %q", domain.ErrInvalidInput, in.Kind)
		}
		f.Kind = k
	}
	if in.Status != "" {
		s, ok := entity.ParseEntryStatus(in.Status)
		if !ok {
			return f, fmt.Errorf("%w: status %q", domain.ErrInvalidInput, in.Status)
		}
		f.Status = s
	}
	var err error
	if f.From, err = parseDate(in.From); err != nil {
		return f, err
	}
	if f.To, err = parseDate(in.To); err != nil {
		return f, err
	}
	return f, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q (RFC3339 o YYYY-MM-DD)", domain.ErrInvalidInput, s)
	}
	return t, nil
}

// ToEntryResponse convierte un lanzamiento del dominio al DTO.
func ToEntryResponse(e entity.LedgerEntry) *dto.LedgerEntryResponse {
	out := &dto.LedgerEntryResponse{
		ID:           e.ID,
		Title:        e.Title,
		Amount:       e.Amount,
		Kind:         string(e.Kind),
		Counterparty: e.Counterparty,
		Category:     e.Category,
		CreatedAt:    e.CreatedAt,
		DueDate:      e.DueDate,
		Recurrence:   string(e.Recurrence),
		Status:       string(e.Status),
		Note:         e.Note,
	}
	if e.PaidAt != nil {
		t := *e.PaidAt
		out.PaidAt = &t
	}
	if e.PaymentMethod != nil {
		out.PaymentMethod = string(*e.PaymentMethod)
	}
	return out
}
