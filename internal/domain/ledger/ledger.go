// Package ledger mantiene los lanzamientos del fiado (cuentas a cobrar y a pagar)
// y su ciclo Pending -> Settled.
package ledger

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/vitrine-api/internal/domain"
	"github.com/jhoicas/vitrine-api/internal/domain/entity"
	"github.com/jhoicas/vitrine-api/pkg/money"
)

// maxAmount límite exclusivo de NUMERIC(14,2).
var maxAmount = decimal.New(1, 12)

// Recorder se invoca dentro de la sección crítica con el lanzamiento ya mutado,
// antes de aplicarlo. Si devuelve error la mutación se descarta.
type Recorder func(ctx context.Context, entry entity.LedgerEntry) error

// Option configura el Ledger.
type Option func(*Ledger)

// WithClock reemplaza time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator reemplaza el generador de IDs (UUID por defecto).
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

// WithRecorder persiste cada mutación antes de aplicarla en memoria.
func WithRecorder(r Recorder) Option {
	return func(l *Ledger) { l.record = r }
}

// Ledger estado compartido del proceso. Un único RWMutex hace atómico cada
// lectura-modificación-escritura; entre Settle y Reopen concurrentes gana el último.
type Ledger struct {
	mu      sync.RWMutex
	entries map[string]*entity.LedgerEntry
	now     func() time.Time
	newID   func() string
	record  Recorder
}

// New construye un ledger vacío.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		entries: make(map[string]*entity.LedgerEntry),
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewEntry datos de alta de un lanzamiento.
type NewEntry struct {
	Title        string
	Amount       decimal.Decimal
	Kind         entity.EntryKind
	Counterparty string
	Category     string
	DueDate      time.Time // cero: fecha de creación
	Recurrence   entity.Recurrence
	Note         string
}

func (in NewEntry) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: título requerido", domain.ErrInvalidEntry)
	}
	if !in.Amount.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: el valor debe ser mayor que cero", domain.ErrInvalidEntry)
	}
	if !in.Amount.Equal(in.Amount.Round(money.Scale)) {
		return fmt.Errorf("%w: el valor admite hasta %d decimales", domain.ErrInvalidEntry, money.Scale)
	}
	if in.Amount.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("%w: valor fuera de rango", domain.ErrInvalidEntry)
	}
	if !in.Kind.IsValid() {
		return fmt.Errorf("%w: tipo %q", domain.ErrInvalidEntry, in.Kind)
	}
	if in.Recurrence != "" && !in.Recurrence.IsValid() {
		return fmt.Errorf("%w: recurrencia %q", domain.ErrInvalidEntry, in.Recurrence)
	}
	return nil
}

// CreateEntry valida y registra un lanzamiento en estado Pending.
func (l *Ledger) CreateEntry(ctx context.Context, in NewEntry) (entity.LedgerEntry, error) {
	if err := in.validate(); err != nil {
		return entity.LedgerEntry{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.newID()
	if _, dup := l.entries[id]; dup || id == "" {
		return entity.LedgerEntry{}, fmt.Errorf("%w: id %q inválido o duplicado", domain.ErrInvalidEntry, id)
	}
	now := l.now()
	due := in.DueDate
	if due.IsZero() {
		due = now
	}
	rec := in.Recurrence
	if rec == "" {
		rec = entity.RecurrenceNone
	}
	entry := entity.LedgerEntry{
		ID:           id,
		Title:        strings.TrimSpace(in.Title),
		Amount:       in.Amount,
		Kind:         in.Kind,
		Counterparty: strings.TrimSpace(in.Counterparty),
		Category:     strings.TrimSpace(in.Category),
		CreatedAt:    now,
		DueDate:      due,
		Recurrence:   rec,
		Status:       entity.EntryStatusPending,
		Note:         in.Note,
	}
	if err := l.apply(ctx, entry); err != nil {
		return entity.LedgerEntry{}, err
	}
	return entry.Clone(), nil
}

// Settle liquida el lanzamiento. paidAt cero usa el reloj.
// Errores en orden: ErrNotFound, ErrAlreadySettled, ErrMissingPaymentMethod, ErrInvalidEntry (forma desconocida).
func (l *Ledger) Settle(ctx context.Context, id string, method entity.PaymentMethod, paidAt time.Time) (entity.LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, ok := l.entries[id]
	if !ok {
		return entity.LedgerEntry{}, domain.ErrNotFound
	}
	if current.Status == entity.EntryStatusSettled {
		return entity.LedgerEntry{}, domain.ErrAlreadySettled
	}
	if method == "" {
		return entity.LedgerEntry{}, domain.ErrMissingPaymentMethod
	}
	if !method.IsValid() {
		return entity.LedgerEntry{}, fmt.Errorf("%w: forma de pago %q", domain.ErrInvalidEntry, method)
	}
	if paidAt.IsZero() {
		paidAt = l.now()
	}
	next := current.Clone()
	next.Status = entity.EntryStatusSettled
	next.PaidAt = &paidAt
	next.PaymentMethod = &method
	if err := l.apply(ctx, next); err != nil {
		return entity.LedgerEntry{}, err
	}
	return next.Clone(), nil
}

// Reopen vuelve el lanzamiento a Pending y limpia fecha y forma de pago.
// Reabrir uno ya pendiente no cambia nada.
func (l *Ledger) Reopen(ctx context.Context, id string) (entity.LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, ok := l.entries[id]
	if !ok {
		return entity.LedgerEntry{}, domain.ErrNotFound
	}
	if current.Status == entity.EntryStatusPending {
		return current.Clone(), nil
	}
	next := current.Clone()
	next.Status = entity.EntryStatusPending
	next.PaidAt = nil
	next.PaymentMethod = nil
	if err := l.apply(ctx, next); err != nil {
		return entity.LedgerEntry{}, err
	}
	return next.Clone(), nil
}

// Get devuelve una copia del lanzamiento.
func (l *Ledger) Get(id string) (entity.LedgerEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	e, ok := l.entries[id]
	if !ok {
		return entity.LedgerEntry{}, domain.ErrNotFound
	}
	return e.Clone(), nil
}

// List devuelve una secuencia perezosa y reiniciable: cada recorrido toma una foto
// del estado actual, filtra y ordena por CreatedAt descendente (empate: ID ascendente).
func (l *Ledger) List(f Filter) iter.Seq[entity.LedgerEntry] {
	return func(yield func(entity.LedgerEntry) bool) {
		for _, e := range l.snapshot(f) {
			if !yield(e) {
				return
			}
		}
	}
}

// Summarize totaliza los lanzamientos que cumplen el filtro.
func (l *Ledger) Summarize(f Filter) Summary {
	s := Summary{
		PendingReceivable: decimal.Zero,
		PendingPayable:    decimal.Zero,
		SettledReceivable: decimal.Zero,
		SettledPayable:    decimal.Zero,
	}
	for e := range l.List(f) {
		s.Count++
		switch {
		case e.Kind == entity.EntryKindReceivable && e.Status == entity.EntryStatusPending:
			s.PendingReceivable = s.PendingReceivable.Add(e.Amount)
		case e.Kind == entity.EntryKindReceivable:
			s.SettledReceivable = s.SettledReceivable.Add(e.Amount)
		case e.Status == entity.EntryStatusPending:
			s.PendingPayable = s.PendingPayable.Add(e.Amount)
		default:
			s.SettledPayable = s.SettledPayable.Add(e.Amount)
		}
	}
	s.Balance = s.SettledReceivable.Sub(s.SettledPayable)
	s.Projected = s.Balance.Add(s.PendingReceivable).Sub(s.PendingPayable)
	return s
}

// Restore carga lanzamientos persistidos (arranque). No invoca el Recorder.
// Un lote con algún lanzamiento corrupto no se carga.
func (l *Ledger) Restore(entries []*entity.LedgerEntry) error {
	for _, e := range entries {
		if e == nil || e.ID == "" || !e.Kind.IsValid() || !e.Status.IsValid() {
			return fmt.Errorf("%w: lanzamiento persistido corrupto", domain.ErrInvalidEntry)
		}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range entries {
		c := e.Clone()
		l.entries[c.ID] = &c
	}
	return nil
}

// Len cantidad de lanzamientos.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// apply persiste (si hay Recorder) y luego guarda. Requiere l.mu tomado.
func (l *Ledger) apply(ctx context.Context, next entity.LedgerEntry) error {
	if l.record != nil {
		if err := l.record(ctx, next.Clone()); err != nil {
			return fmt.Errorf("ledger: registrar lanzamiento %s: %w", next.ID, err)
		}
	}
	l.entries[next.ID] = &next
	return nil
}

func (l *Ledger) snapshot(f Filter) []entity.LedgerEntry {
	l.mu.RLock()
	out := make([]entity.LedgerEntry, 0, len(l.entries))
	for _, e := range l.entries {
		if f.Matches(*e) {
			out = append(out, e.Clone())
		}
	}
	l.mu.RUnlock()

	slices.SortFunc(out, func(a, b entity.LedgerEntry) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}
