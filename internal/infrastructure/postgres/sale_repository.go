package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/vitrine-api/internal/domain"
	"github.com/jhoicas/vitrine-api/internal/domain/entity"
	"github.com/jhoicas/vitrine-api/internal/domain/repository"
)

var _ repository.ReceiptRepository = (*SaleRepo)(nil)

// SaleRepo ventas finalizadas: cabecera en sales, líneas en sale_lines.
type SaleRepo struct {
	q  Querier
	tx *TxRunner
}

// NewSaleRepository construye el repositorio. Las escrituras usan transacción propia.
func NewSaleRepository(pool *pgxpool.Pool) *SaleRepo {
	return &SaleRepo{q: pool, tx: NewTxRunner(pool)}
}

// RecordSale inserta la venta y sus líneas en una sola transacción.
func (r *SaleRepo) RecordSale(ctx context.Context, receipt *entity.Receipt) (string, error) {
	if receipt == nil || len(receipt.Lines) == 0 {
		return "", fmt.Errorf("%w: recibo vacío", domain.ErrInvalidInput)
	}
	saleID := uuid.New().String()
	err := r.tx.Run(ctx, func(q Querier) error {
		_, err := q.Exec(ctx, `
			INSERT INTO sales (id, receipt_id, total_items, total_value, average_unit_value, finalized_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			saleID, receipt.ID, receipt.Totals.TotalItems, receipt.Totals.TotalValue,
			receipt.Totals.AverageUnitValue, receipt.FinalizedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: recibo %s ya registrado", domain.ErrInvalidInput, receipt.ID)
			}
			return fmt.Errorf("insert sale: %w", err)
		}
		for i, l := range receipt.Lines {
			_, err := q.Exec(ctx, `
				INSERT INTO sale_lines (sale_id, position, product_id, name, quantity, unit_price, line_total)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				saleID, i, l.ProductID, l.Name, l.Quantity, l.UnitPrice, l.LineTotal,
			)
			if err != nil {
				return fmt.Errorf("insert sale line %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return saleID, nil
}

// GetReceipt reconstruye el recibo de una venta. domain.ErrNotFound si no existe.
func (r *SaleRepo) GetReceipt(ctx context.Context, saleID string) (*entity.Receipt, error) {
	var rc entity.Receipt
	err := r.q.QueryRow(ctx, `
		SELECT receipt_id, total_items, total_value, average_unit_value, finalized_at
		FROM sales WHERE id = $1`, saleID,
	).Scan(&rc.ID, &rc.Totals.TotalItems, &rc.Totals.TotalValue, &rc.Totals.AverageUnitValue, &rc.FinalizedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT product_id, name, quantity, unit_price, line_total
		FROM sale_lines WHERE sale_id = $1 ORDER BY position`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.ReceiptLine
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		rc.Lines = append(rc.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &rc, nil
}
