// Package sales cierra los carritos: venta inmediata (persistencia) o venta a crédito (fiado).
package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/vitrine-api/internal/domain"
	"github.com/jhoicas/vitrine-api/internal/domain/cart"
	"github.com/jhoicas/vitrine-api/internal/domain/entity"
	"github.com/jhoicas/vitrine-api/internal/domain/ledger"
	"github.com/jhoicas/vitrine-api/internal/domain/repository"
	"github.com/jhoicas/vitrine-api/pkg/logger"
)

// Mode forma de cierre del carrito.
type Mode string

const (
	ModeImmediate Mode = "immediate"
	ModeOnCredit  Mode = "on_credit"
)

// DefaultCreditTitle título del lanzamiento cuando la venta a crédito no trae uno.
const DefaultCreditTitle = "Venda a prazo"

// CheckoutInput parámetros del cierre. Title, Counterparty, Category, DueDate y Note
// solo se usan en ModeOnCredit.
type CheckoutInput struct {
	Mode         Mode
	Title        string
	Counterparty string
	Category     string
	DueDate      time.Time
	Note         string
}

// Result venta completada (SaleID) o venta a crédito (Entry), siempre con su recibo.
type Result struct {
	Mode    Mode
	Receipt *entity.Receipt
	SaleID  string
	Entry   *entity.LedgerEntry
}

// Coordinator orquesta Cart.Commit con el paso siguiente. El carrito solo se vacía
// si el paso siguiente confirma.
type Coordinator struct {
	ledger *ledger.Ledger
	sink   repository.PersistenceSink
	stock  repository.StockAdjuster
	log    *logger.Logger
}

// NewCoordinator construye el coordinador. stock puede ser nil si el catálogo no
// acepta descuentos de existencias.
func NewCoordinator(l *ledger.Ledger, sink repository.PersistenceSink, stock repository.StockAdjuster, log *logger.Logger) *Coordinator {
	if log == nil {
		log = logger.Nop()
	}
	return &Coordinator{ledger: l, sink: sink, stock: stock, log: log.Named("sales")}
}

// Checkout finaliza el carrito según in.Mode.
// Errores: domain.ErrInvalidInput (modo desconocido), domain.ErrEmptyCart, y los del
// paso siguiente sin modificar (p. ej. domain.ErrInvalidEntry o fallos de la base).
func (c *Coordinator) Checkout(ctx context.Context, ct *cart.Cart, in CheckoutInput) (*Result, error) {
	if in.Mode != ModeImmediate && in.Mode != ModeOnCredit {
		return nil, fmt.Errorf("%w: modo de cierre %q", domain.ErrInvalidInput, in.Mode)
	}
	res := &Result{Mode: in.Mode}

	receipt, err := ct.Commit(func(r *entity.Receipt) error {
		if in.Mode == ModeImmediate {
			saleID, err := c.sink.RecordSale(ctx, r)
			if err != nil {
				return fmt.Errorf("registrar venta: %w", err)
			}
			res.SaleID = saleID
			return nil
		}
		title := strings.TrimSpace(in.Title)
		if title == "" {
			title = DefaultCreditTitle
		}
		entry, err := c.ledger.CreateEntry(ctx, ledger.NewEntry{
			Title:        title,
			Amount:       r.Totals.TotalValue,
			Kind:         entity.EntryKindReceivable,
			Counterparty: in.Counterparty,
			Category:     in.Category,
			DueDate:      in.DueDate,
			Note:         in.Note,
		})
		if err != nil {
			return err
		}
		res.Entry = &entry
		return nil
	})
	if err != nil {
		c.log.Warn().Err(err).Str("cart_id", ct.ID()).Str("mode", string(in.Mode)).Msg("checkout rechazado")
		return nil, err
	}
	res.Receipt = receipt

	ev := c.log.Info().Str("cart_id", ct.ID()).Str("receipt_id", receipt.ID).Str("mode", string(in.Mode)).
		Str("total", receipt.Totals.TotalValue.StringFixed(2))
	if res.Entry != nil {
		ev = ev.Str("entry_id", res.Entry.ID)
	}
	ev.Str("sale_id", res.SaleID).Msg("checkout confirmado")

	c.decrementStock(ctx, receipt)
	return res, nil
}

// decrementStock informa las salidas al catálogo. La venta ya está confirmada:
// un fallo aquí se registra y no se revierte.
func (c *Coordinator) decrementStock(ctx context.Context, r *entity.Receipt) {
	if c.stock == nil {
		return
	}
	for _, l := range r.Lines {
		if err := c.stock.DecrementOnHand(ctx, l.ProductID, l.Quantity); err != nil {
			c.log.Warn().Err(err).Str("receipt_id", r.ID).Str("product_id", l.ProductID).
				Int("quantity", l.Quantity).Msg("no se pudo descontar stock")
		}
	}
}
