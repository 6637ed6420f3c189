package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/vitrine-api/internal/domain/repository"
)

var (
	_ repository.PersistenceSink       = (*Store)(nil)
	_ repository.ReceiptRepository     = (*Store)(nil)
	_ repository.LedgerEntryRepository = (*Store)(nil)
)

// Store sumidero de persistencia sobre PostgreSQL: ventas y lanzamientos del fiado.
type Store struct {
	*SaleRepo
	*LedgerEntryRepo
}

// NewStore agrupa los repositorios de ventas y fiado sobre el mismo pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		SaleRepo:        NewSaleRepository(pool),
		LedgerEntryRepo: NewLedgerEntryRepository(pool),
	}
}
