package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/vitrine-api/internal/domain"
	"github.com/jhoicas/vitrine-api/internal/domain/entity"
	"github.com/jhoicas/vitrine-api/internal/domain/repository"
)

var (
	_ repository.PersistenceSink       = (*Store)(nil)
	_ repository.ReceiptRepository     = (*Store)(nil)
	_ repository.LedgerEntryRepository = (*Store)(nil)
)

// Store sumidero de ventas y lanzamientos en memoria. Los datos se pierden al reiniciar.
type Store struct {
	mu      sync.RWMutex
	sales   map[string]*entity.Receipt
	entries map[string]entity.LedgerEntry
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		sales:   make(map[string]*entity.Receipt),
		entries: make(map[string]entity.LedgerEntry),
	}
}

// RecordSale guarda una copia del recibo y devuelve el ID de la venta.
func (s *Store) RecordSale(_ context.Context, receipt *entity.Receipt) (string, error) {
	if receipt == nil || len(receipt.Lines) == 0 {
		return "", fmt.Errorf("%w: recibo vacío", domain.ErrInvalidInput)
	}
	cp := *receipt
	cp.Lines = slices.Clone(receipt.Lines)
	saleID := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales[saleID] = &cp
	return saleID, nil
}

// RecordLedgerEntry guarda la última versión del lanzamiento (upsert por ID).
func (s *Store) RecordLedgerEntry(_ context.Context, entry *entity.LedgerEntry) (string, error) {
	if entry == nil || entry.ID == "" {
		return "", fmt.Errorf("%w: lanzamiento sin id", domain.ErrInvalidEntry)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.ID] = entry.Clone()
	return entry.ID, nil
}

// GetReceipt devuelve domain.ErrNotFound si la venta no existe.
func (s *Store) GetReceipt(_ context.Context, saleID string) (*entity.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.sales[saleID]
	if !ok {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
	}
	cp := *r
	cp.Lines = slices.Clone(r.Lines)
	return &cp, nil
}

// ListLedgerEntries devuelve todos los lanzamientos ordenados por ID.
func (s *Store) ListLedgerEntries(_ context.Context) ([]*entity.LedgerEntry, error) {
	s.mu.RLock()
	out := make([]*entity.LedgerEntry, 0, len(s.entries))
	for _, e := range s.entries {
		c := e.Clone()
		out = append(out, &c)
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b *entity.LedgerEntry) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

// Sales cantidad de ventas registradas.
func (s *Store) Sales() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sales)
}
