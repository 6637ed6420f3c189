package postgres

import (
	"context"
	"fmt"
	"strings"
)

// schemaDDL tablas del catálogo, ventas y fiado. Idempotente.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id          TEXT PRIMARY KEY,
		sku         TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL,
		category    TEXT NOT NULL DEFAULT '',
		unit_price  NUMERIC(14,2) NOT NULL CHECK (unit_price >= 0),
		on_hand     INTEGER NOT NULL DEFAULT 0 CHECK (on_hand >= 0),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id                  TEXT PRIMARY KEY,
		receipt_id          TEXT NOT NULL UNIQUE,
		total_items         INTEGER NOT NULL,
		total_value         NUMERIC(14,2) NOT NULL,
		average_unit_value  NUMERIC(20,8) NOT NULL,
		finalized_at        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sale_lines (
		sale_id     TEXT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		product_id  TEXT NOT NULL,
		name        TEXT NOT NULL,
		quantity    INTEGER NOT NULL CHECK (quantity > 0),
		unit_price  NUMERIC(14,2) NOT NULL,
		line_total  NUMERIC(14,2) NOT NULL,
		PRIMARY KEY (sale_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS ledger_entries (
		id              TEXT PRIMARY KEY,
		title           TEXT NOT NULL,
		amount          NUMERIC(14,2) NOT NULL CHECK (amount > 0),
		kind            TEXT NOT NULL,
		counterparty    TEXT NOT NULL DEFAULT '',
		category        TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL,
		due_date        TIMESTAMPTZ NOT NULL,
		paid_at         TIMESTAMPTZ,
		payment_method  TEXT,
		recurrence      TEXT NOT NULL DEFAULT 'none',
		status          TEXT NOT NULL,
		note            TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS ledger_entries_created_idx ON ledger_entries (created_at DESC, id)`,
}

// EnsureSchema crea las tablas si no existen.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range schemaDDL {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SchemaDDL devuelve el esquema como script SQL (una sentencia por bloque).
func SchemaDDL() string {
	var b strings.Builder
	for _, stmt := range schemaDDL {
		b.WriteString(stmt)
		b.WriteString(";\n")
	}
	return b.String()
}
