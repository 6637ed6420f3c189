package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/vitrine-api/internal/domain"
	"github.com/jhoicas/vitrine-api/internal/domain/entity"
	"github.com/jhoicas/vitrine-api/internal/domain/repository"
)

var _ repository.LedgerEntryRepository = (*LedgerEntryRepo)(nil)

// LedgerEntryRepo lanzamientos del fiado. Cada escritura guarda la versión completa (upsert).
type LedgerEntryRepo struct {
	q Querier
}

// NewLedgerEntryRepository construye el repositorio. Pasar pool o tx (Querier).
func NewLedgerEntryRepository(q Querier) *LedgerEntryRepo {
	return &LedgerEntryRepo{q: q}
}

// RecordLedgerEntry inserta o reemplaza el lanzamiento por ID.
func (r *LedgerEntryRepo) RecordLedgerEntry(ctx context.Context, e *entity.LedgerEntry) (string, error) {
	if e == nil || e.ID == "" {
		return "", fmt.Errorf("%w: lanzamiento sin id", domain.ErrInvalidEntry)
	}
	var method *string
	if e.PaymentMethod != nil {
		m := string(*e.PaymentMethod)
		method = &m
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO ledger_entries (id, title, amount, kind, counterparty, category, created_at, due_date,
			paid_at, payment_method, recurrence, status, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title, amount = EXCLUDED.amount, kind = EXCLUDED.kind,
			counterparty = EXCLUDED.counterparty, category = EXCLUDED.category,
			due_date = EXCLUDED.due_date, paid_at = EXCLUDED.paid_at,
			payment_method = EXCLUDED.payment_method, recurrence = EXCLUDED.recurrence,
			status = EXCLUDED.status, note = EXCLUDED.note`,
		e.ID, e.Title, e.Amount, string(e.Kind), e.Counterparty, e.Category, e.CreatedAt, e.DueDate,
		e.PaidAt, method, string(e.Recurrence), string(e.Status), e.Note,
	)
	if err != nil {
		return "", fmt.Errorf("upsert ledger entry: %w", err)
	}
	return e.ID, nil
}

// ListLedgerEntries devuelve todos los lanzamientos (restauración al arrancar).
func (r *LedgerEntryRepo) ListLedgerEntries(ctx context.Context) ([]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, title, amount, kind, counterparty, category, created_at, due_date,
			paid_at, payment_method, recurrence, status, note
		FROM ledger_entries ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var list []*entity.LedgerEntry
	for rows.Next() {
		var (
			e                        entity.LedgerEntry
			kind, recurrence, status string
			method                   *string
		)
		if err := rows.Scan(&e.ID, &e.Title, &e.Amount, &kind, &e.Counterparty, &e.Category,
			&e.CreatedAt, &e.DueDate, &e.PaidAt, &method, &recurrence, &status, &e.Note); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.Kind = entity.EntryKind(kind)
		e.Recurrence = entity.Recurrence(recurrence)
		e.Status = entity.EntryStatus(status)
		if method != nil {
			m := entity.PaymentMethod(*method)
			e.PaymentMethod = &m
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
