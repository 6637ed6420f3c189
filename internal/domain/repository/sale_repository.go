package repository

import (
	"context"

	"github.com/jhoicas/vitrine-api/internal/domain/entity"
)

// PersistenceSink recibe las ventas finalizadas y los lanzamientos del fiado.
// En el sistema real son llamadas REST/SQL; para el motor es un contrato síncrono.
type PersistenceSink interface {
	RecordSale(ctx context.Context, receipt *entity.Receipt) (saleID string, err error)
	RecordLedgerEntry(ctx context.Context, entry *entity.LedgerEntry) (entryID string, err error)
}

// ReceiptRepository lectura de ventas registradas (PDF del recibo).
type ReceiptRepository interface {
	// GetReceipt devuelve domain.ErrNotFound si la venta no existe.
	GetReceipt(ctx context.Context, saleID string) (*entity.Receipt, error)
}

// LedgerEntryRepository lectura de lanzamientos persistidos para restaurar el ledger al arrancar.
type LedgerEntryRepository interface {
	ListLedgerEntries(ctx context.Context) ([]*entity.LedgerEntry, error)
}
