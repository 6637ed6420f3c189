package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vitrine-api/internal/domain"
	"github.com/jhoicas/vitrine-api/internal/domain/entity"
	"github.com/jhoicas/vitrine-api/internal/domain/ledger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("e%03d", n)
	}
}

func newTestLedger(opts ...ledger.Option) (*ledger.Ledger, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}
	base := []ledger.Option{ledger.WithClock(clock.Now), ledger.WithIDGenerator(sequentialIDs())}
	return ledger.New(append(base, opts...)...), clock
}

func rent() ledger.NewEntry {
	return ledger.NewEntry{
		Title:        "Rent",
		Amount:       decimal.RequireFromString("200.00"),
		Kind:         entity.EntryKindPayable,
		Counterparty: "Imobiliária Central",
		Category:     "aluguel",
		Recurrence:   entity.RecurrenceMonthly,
	}
}

func ids(seq []entity.LedgerEntry) []string {
	out := make([]string, 0, len(seq))
	for _, e := range seq {
		out = append(out, e.ID)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario de referencia: Rent
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_EscenarioRent(t *testing.T) {
	ctx := context.Background()
	l, clock := newTestLedger()

	e, err := l.CreateEntry(ctx, rent())
	require.NoError(t, err)
	assert.Equal(t, entity.EntryStatusPending, e.Status)
	assert.Equal(t, clock.Now(), e.CreatedAt)
	assert.Equal(t, clock.Now(), e.DueDate, "sin vencimiento se usa la fecha de creación")
	assert.Nil(t, e.PaidAt)
	assert.Nil(t, e.PaymentMethod)

	clock.Advance(time.Hour)
	settled, err := l.Settle(ctx, e.ID, entity.PaymentCash, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, entity.EntryStatusSettled, settled.Status)
	require.NotNil(t, settled.PaidAt)
	assert.Equal(t, clock.Now(), *settled.PaidAt)
	require.NotNil(t, settled.PaymentMethod)
	assert.Equal(t, entity.PaymentCash, *settled.PaymentMethod)

	_, err = l.Settle(ctx, e.ID, entity.PaymentPix, time.Time{})
	assert.ErrorIs(t, err, domain.ErrAlreadySettled)

	got, err := l.Get(e.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCash, *got.PaymentMethod, "la forma de pago original no cambia")
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateEntry
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_CreateEntry_Validaciones(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger()

	tests := []struct {
		name   string
		mutate func(*ledger.NewEntry)
	}{
		{"título vacío", func(in *ledger.NewEntry) { in.Title = "  " }},
		{"valor cero", func(in *ledger.NewEntry) { in.Amount = decimal.Zero }},
		{"valor negativo", func(in *ledger.NewEntry) { in.Amount = decimal.NewFromInt(-1) }},
		{"fracción de centavo", func(in *ledger.NewEntry) { in.Amount = decimal.RequireFromString("0.001") }},
		{"tres decimales", func(in *ledger.NewEntry) { in.Amount = decimal.RequireFromString("10.005") }},
		{"fuera de rango", func(in *ledger.NewEntry) { in.Amount = decimal.New(1, 12) }},
		{"tipo inválido", func(in *ledger.NewEntry) { in.Kind = "transferencia" }},
		{"recurrencia inválida", func(in *ledger.NewEntry) { in.Recurrence = "anual" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := rent()
			tt.mutate(&in)
			_, err := l.CreateEntry(ctx, in)
			assert.ErrorIs(t, err, domain.ErrInvalidEntry)
		})
	}
	assert.Zero(t, l.Len(), "ningún alta inválida queda registrada")
}

func TestLedger_CreateEntry_ValorConCerosFinales(t *testing.T) {
	l, _ := newTestLedger()
	in := rent()
	in.Amount = decimal.RequireFromString("10.500")

	e, err := l.CreateEntry(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, e.Amount.Equal(decimal.RequireFromString("10.50")))
}

func TestLedger_CreateEntry_RecurrenciaPorDefecto(t *testing.T) {
	l, _ := newTestLedger()
	in := rent()
	in.Recurrence = ""
	due := time.Date(2026, 11, 5, 0, 0, 0, 0, time.UTC)
	in.DueDate = due

	e, err := l.CreateEntry(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, entity.RecurrenceNone, e.Recurrence)
	assert.Equal(t, due, e.DueDate)
}

func TestLedger_CreateEntry_IDDuplicado(t *testing.T) {
	l, _ := newTestLedger(ledger.WithIDGenerator(func() string { return "fixo" }))
	ctx := context.Background()

	_, err := l.CreateEntry(ctx, rent())
	require.NoError(t, err)
	_, err = l.CreateEntry(ctx, rent())
	assert.ErrorIs(t, err, domain.ErrInvalidEntry)
	assert.Equal(t, 1, l.Len())
}

// ──────────────────────────────────────────────────────────────────────────────
// Settle / Reopen
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_Settle_Errores(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger()
	e, err := l.CreateEntry(ctx, rent())
	require.NoError(t, err)

	_, err = l.Settle(ctx, "no-existe", entity.PaymentPix, time.Time{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = l.Settle(ctx, e.ID, "", time.Time{})
	assert.ErrorIs(t, err, domain.ErrMissingPaymentMethod)

	_, err = l.Settle(ctx, e.ID, "bitcoin", time.Time{})
	assert.ErrorIs(t, err, domain.ErrInvalidEntry)

	got, _ := l.Get(e.ID)
	assert.Equal(t, entity.EntryStatusPending, got.Status, "los fallos no mutan el lanzamiento")
}

func TestLedger_Settle_FechaExplicita(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger()
	e, err := l.CreateEntry(ctx, rent())
	require.NoError(t, err)

	paid := time.Date(2026, 9, 30, 18, 0, 0, 0, time.UTC)
	settled, err := l.Settle(ctx, e.ID, entity.PaymentBankSlip, paid)
	require.NoError(t, err)
	assert.Equal(t, paid, *settled.PaidAt)
}

func TestLedger_Reopen(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger()
	e, err := l.CreateEntry(ctx, rent())
	require.NoError(t, err)

	same, err := l.Reopen(ctx, e.ID)
	require.NoError(t, err, "reabrir un pendiente es un no-op")
	assert.Equal(t, entity.EntryStatusPending, same.Status)

	_, err = l.Settle(ctx, e.ID, entity.PaymentPix, time.Time{})
	require.NoError(t, err)

	reopened, err := l.Reopen(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EntryStatusPending, reopened.Status)
	assert.Nil(t, reopened.PaidAt)
	assert.Nil(t, reopened.PaymentMethod)

	_, err = l.Settle(ctx, e.ID, entity.PaymentCheck, time.Time{})
	assert.NoError(t, err, "tras reabrir se puede liquidar de nuevo")

	_, err = l.Reopen(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedger_SettleRepetidoFallaHastaReabrir(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger()
	e, err := l.CreateEntry(ctx, rent())
	require.NoError(t, err)

	_, err = l.Settle(ctx, e.ID, entity.PaymentCash, time.Time{})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err = l.Settle(ctx, e.ID, entity.PaymentCash, time.Time{})
		assert.ErrorIs(t, err, domain.ErrAlreadySettled)
	}
}

func TestLedger_GetDevuelveCopia(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger()
	e, err := l.CreateEntry(ctx, rent())
	require.NoError(t, err)
	_, err = l.Settle(ctx, e.ID, entity.PaymentPix, time.Time{})
	require.NoError(t, err)

	got, err := l.Get(e.ID)
	require.NoError(t, err)
	*got.PaymentMethod = entity.PaymentOther
	got.Title = "alterado"

	again, _ := l.Get(e.ID)
	assert.Equal(t, entity.PaymentPix, *again.PaymentMethod)
	assert.Equal(t, "Rent", again.Title)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recorder
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_RecorderFallidoDescartaLaMutacion(t *testing.T) {
	ctx := context.Background()
	sinkErr := errors.New("db: conexión rechazada")
	fail := false
	var recorded []entity.LedgerEntry
	l, _ := newTestLedger(ledger.WithRecorder(func(_ context.Context, e entity.LedgerEntry) error {
		if fail {
			return sinkErr
		}
		recorded = append(recorded, e)
		return nil
	}))

	e, err := l.CreateEntry(ctx, rent())
	require.NoError(t, err)
	require.Len(t, recorded, 1)

	fail = true
	_, err = l.Settle(ctx, e.ID, entity.PaymentPix, time.Time{})
	assert.ErrorIs(t, err, sinkErr)
	got, _ := l.Get(e.ID)
	assert.Equal(t, entity.EntryStatusPending, got.Status)

	_, err = l.CreateEntry(ctx, rent())
	assert.ErrorIs(t, err, sinkErr)
	assert.Equal(t, 1, l.Len())

	fail = false
	_, err = l.Settle(ctx, e.ID, entity.PaymentPix, time.Time{})
	require.NoError(t, err)
	require.Len(t, recorded, 2)
	assert.Equal(t, entity.EntryStatusSettled, recorded[1].Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// List / Summarize / Restore
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_List_OrdenEstable(t *testing.T) {
	ctx := context.Background()
	l, clock := newTestLedger()

	// e001 y e002 comparten CreatedAt; e003 es posterior.
	for i := 0; i < 2; i++ {
		_, err := l.CreateEntry(ctx, rent())
		require.NoError(t, err)
	}
	clock.Advance(time.Minute)
	_, err := l.CreateEntry(ctx, rent())
	require.NoError(t, err)

	got := slices.Collect(l.List(ledger.Filter{}))
	assert.Equal(t, []string{"e003", "e001", "e002"}, ids(got))

	again := slices.Collect(l.List(ledger.Filter{}))
	assert.Equal(t, ids(got), ids(again), "la secuencia es reiniciable y estable")
}

func TestLedger_List_EsPerezosa(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger()
	seq := l.List(ledger.Filter{})

	_, err := l.CreateEntry(ctx, rent())
	require.NoError(t, err)

	assert.Len(t, slices.Collect(seq), 1, "el estado se lee al recorrer, no al crear la secuencia")

	count := 0
	for range seq {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestLedger_List_Filtros(t *testing.T) {
	ctx := context.Background()
	l, clock := newTestLedger()

	mk := func(title string, kind entity.EntryKind, who, cat string) entity.LedgerEntry {
		e, err := l.CreateEntry(ctx, ledger.NewEntry{
			Title: title, Amount: decimal.NewFromInt(10), Kind: kind, Counterparty: who, Category: cat,
		})
		require.NoError(t, err)
		clock.Advance(24 * time.Hour)
		return e
	}
	a := mk("Venda fiado", entity.EntryKindReceivable, "Maria Souza", "vendas")
	b := mk("Fornecedor", entity.EntryKindPayable, "Distribuidora Sul", "estoque")
	c := mk("Venda fiado 2", entity.EntryKindReceivable, "João Maria", "Vendas")
	_, err := l.Settle(ctx, c.ID, entity.PaymentPix, time.Time{})
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter ledger.Filter
		want   []string
	}{
		{"todos", ledger.Filter{}, []string{c.ID, b.ID, a.ID}},
		{"por tipo", ledger.Filter{Kind: entity.EntryKindReceivable}, []string{c.ID, a.ID}},
		{"por estado", ledger.Filter{Status: entity.EntryStatusPending}, []string{b.ID, a.ID}},
		{"contraparte contiene", ledger.Filter{Counterparty: "maria"}, []string{c.ID, a.ID}},
		{"categoría sin mayúsculas", ledger.Filter{Category: "VENDAS"}, []string{c.ID, a.ID}},
		{"rango de fechas", ledger.Filter{From: b.CreatedAt, To: c.CreatedAt}, []string{b.ID}},
		{"desde", ledger.Filter{From: b.CreatedAt}, []string{c.ID, b.ID}},
		{"por vencimiento", ledger.Filter{ByDueDate: true, To: b.DueDate}, []string{a.ID}},
		{"combinado", ledger.Filter{Kind: entity.EntryKindReceivable, Status: entity.EntryStatusSettled}, []string{c.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(slices.Collect(l.List(tt.filter))))
		})
	}
}

func TestLedger_Summarize(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger()

	add := func(kind entity.EntryKind, amount string) entity.LedgerEntry {
		e, err := l.CreateEntry(ctx, ledger.NewEntry{Title: "x", Amount: decimal.RequireFromString(amount), Kind: kind})
		require.NoError(t, err)
		return e
	}
	add(entity.EntryKindReceivable, "100")
	r := add(entity.EntryKindReceivable, "50")
	add(entity.EntryKindPayable, "30")
	p := add(entity.EntryKindPayable, "20")
	_, err := l.Settle(ctx, r.ID, entity.PaymentCash, time.Time{})
	require.NoError(t, err)
	_, err = l.Settle(ctx, p.ID, entity.PaymentPix, time.Time{})
	require.NoError(t, err)

	s := l.Summarize(ledger.Filter{})
	assert.Equal(t, 4, s.Count)
	assert.True(t, decimal.NewFromInt(100).Equal(s.PendingReceivable))
	assert.True(t, decimal.NewFromInt(50).Equal(s.SettledReceivable))
	assert.True(t, decimal.NewFromInt(30).Equal(s.PendingPayable))
	assert.True(t, decimal.NewFromInt(20).Equal(s.SettledPayable))
	assert.True(t, decimal.NewFromInt(30).Equal(s.Balance))
	assert.True(t, decimal.NewFromInt(100).Equal(s.Projected))
}

func TestLedger_Restore(t *testing.T) {
	l, _ := newTestLedger()
	paid := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := entity.PaymentPix
	persisted := []*entity.LedgerEntry{
		{ID: "p1", Title: "a", Amount: decimal.NewFromInt(1), Kind: entity.EntryKindPayable, Status: entity.EntryStatusPending},
		{ID: "p2", Title: "b", Amount: decimal.NewFromInt(2), Kind: entity.EntryKindReceivable, Status: entity.EntryStatusSettled, PaidAt: &paid, PaymentMethod: &m},
	}
	require.NoError(t, l.Restore(persisted))
	assert.Equal(t, 2, l.Len())

	_, err := l.Settle(context.Background(), "p2", entity.PaymentCash, time.Time{})
	assert.ErrorIs(t, err, domain.ErrAlreadySettled)

	err = l.Restore([]*entity.LedgerEntry{{ID: "x", Kind: "?", Status: entity.EntryStatusPending}})
	assert.ErrorIs(t, err, domain.ErrInvalidEntry)
}

func TestLedger_Restore_LoteCorruptoNoInsertaNada(t *testing.T) {
	l, _ := newTestLedger()
	batch := []*entity.LedgerEntry{
		{ID: "p1", Title: "a", Amount: decimal.NewFromInt(1), Kind: entity.EntryKindPayable, Status: entity.EntryStatusPending},
		{ID: "p2", Title: "b", Amount: decimal.NewFromInt(2), Kind: entity.EntryKindReceivable, Status: entity.EntryStatusPending},
		nil,
	}

	err := l.Restore(batch)
	assert.ErrorIs(t, err, domain.ErrInvalidEntry)
	assert.Zero(t, l.Len())
	_, err = l.Get("p1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_SettleConcurrente_UnSoloGanador(t *testing.T) {
	ctx := context.Background()
	l := ledger.New()
	e, err := l.CreateEntry(ctx, rent())
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
		losers  int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Settle(ctx, e.ID, entity.PaymentPix, time.Time{})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners++
			} else if errors.Is(err, domain.ErrAlreadySettled) {
				losers++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
	assert.Equal(t, 49, losers)
}

func TestLedger_SettleReopen_GanaElUltimo(t *testing.T) {
	ctx := context.Background()
	l := ledger.New()
	e, err := l.CreateEntry(ctx, rent())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); _, _ = l.Settle(ctx, e.ID, entity.PaymentCash, time.Time{}) }()
		go func() { defer wg.Done(); _, _ = l.Reopen(ctx, e.ID) }()
	}
	wg.Wait()

	// Cualquiera sea el orden, el estado es coherente con la última escritura.
	got, err := l.Get(e.ID)
	require.NoError(t, err)
	switch got.Status {
	case entity.EntryStatusSettled:
		assert.NotNil(t, got.PaidAt)
		assert.NotNil(t, got.PaymentMethod)
	case entity.EntryStatusPending:
		assert.Nil(t, got.PaidAt)
		assert.Nil(t, got.PaymentMethod)
	default:
		t.Fatalf("estado inesperado %q", got.Status)
	}

	// Secuencial: el último escritor define el resultado.
	_, _ = l.Settle(ctx, e.ID, entity.PaymentCash, time.Time{})
	_, err = l.Reopen(ctx, e.ID)
	require.NoError(t, err)
	got, _ = l.Get(e.ID)
	assert.Equal(t, entity.EntryStatusPending, got.Status)
}
