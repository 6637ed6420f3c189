package sales

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/vitrine-api/internal/application/dto"
	appledger "github.com/jhoicas/vitrine-api/internal/application/ledger"
	"github.com/jhoicas/vitrine-api/internal/domain"
	"github.com/jhoicas/vitrine-api/internal/domain/cart"
	"github.com/jhoicas/vitrine-api/internal/domain/entity"
	"github.com/jhoicas/vitrine-api/internal/domain/repository"
	"github.com/jhoicas/vitrine-api/pkg/logger"
)

// ReceiptPDFGenerator puerto de salida para la representación impresa del recibo.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, receipt *entity.Receipt) ([]byte, error)
}

// session carrito abierto y su última actividad.
type session struct {
	cart     *cart.Cart
	lastSeen time.Time
}

// SalesUseCase registro de carritos abiertos (uno por sesión de caja) y su cierre.
type SalesUseCase struct {
	mu       sync.RWMutex
	carts    map[string]*session
	catalog  repository.CatalogLookup
	receipts repository.ReceiptRepository
	coord    *Coordinator
	pdf      ReceiptPDFGenerator
	now      func() time.Time
	log      *logger.Logger

	maxOpen int
	idleTTL time.Duration
}

// Option configura SalesUseCase.
type Option func(*SalesUseCase)

// WithMaxOpenCarts limita las sesiones abiertas a la vez (0 = sin límite).
func WithMaxOpenCarts(n int) Option {
	return func(uc *SalesUseCase) { uc.maxOpen = n }
}

// WithCartIdleTimeout cierra los carritos sin actividad durante d (0 = nunca).
func WithCartIdleTimeout(d time.Duration) Option {
	return func(uc *SalesUseCase) { uc.idleTTL = d }
}

// WithClock reemplaza time.Now.
func WithClock(now func() time.Time) Option {
	return func(uc *SalesUseCase) { uc.now = now }
}

// NewSalesUseCase construye el caso de uso. receipts y pdf pueden ser nil si no se expone el PDF.
func NewSalesUseCase(
	catalog repository.CatalogLookup,
	receipts repository.ReceiptRepository,
	coord *Coordinator,
	pdf ReceiptPDFGenerator,
	log *logger.Logger,
	opts ...Option,
) *SalesUseCase {
	if log == nil {
		log = logger.Nop()
	}
	uc := &SalesUseCase{
		carts:    make(map[string]*session),
		catalog:  catalog,
		receipts: receipts,
		coord:    coord,
		pdf:      pdf,
		now:      time.Now,
		log:      log.Named("carts"),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// OpenCart abre un carrito vacío. Antes descarta los inactivos; con el registro lleno
// devuelve domain.ErrTooManyCarts.
func (uc *SalesUseCase) OpenCart() (*dto.CartResponse, error) {
	now := uc.now()
	c := cart.New(uuid.New().String(), uc.catalog, uc.now)

	uc.mu.Lock()
	expired := uc.sweepLocked(now)
	if uc.maxOpen > 0 && len(uc.carts) >= uc.maxOpen {
		open := len(uc.carts)
		uc.mu.Unlock()
		uc.logExpired(expired)
		uc.log.Warn().Int("open", open).Msg("registro de carritos lleno")
		return nil, fmt.Errorf("%w: %d abiertos", domain.ErrTooManyCarts, open)
	}
	uc.carts[c.ID()] = &session{cart: c, lastSeen: now}
	uc.mu.Unlock()

	uc.logExpired(expired)
	uc.log.Debug().Str("cart_id", c.ID()).Msg("carrito abierto")
	return toCartResponse(c), nil
}

// SweepIdle cierra los carritos sin actividad más allá del timeout. Devuelve cuántos cerró.
func (uc *SalesUseCase) SweepIdle() int {
	uc.mu.Lock()
	expired := uc.sweepLocked(uc.now())
	uc.mu.Unlock()
	uc.logExpired(expired)
	return len(expired)
}

// RunSweeper ejecuta SweepIdle cada interval hasta que ctx termine.
func (uc *SalesUseCase) RunSweeper(ctx context.Context, interval time.Duration) {
	if uc.idleTTL <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			uc.SweepIdle()
		}
	}
}

// sweepLocked requiere uc.mu tomado.
func (uc *SalesUseCase) sweepLocked(now time.Time) []string {
	if uc.idleTTL <= 0 {
		return nil
	}
	var expired []string
	for id, s := range uc.carts {
		if now.Sub(s.lastSeen) >= uc.idleTTL {
			delete(uc.carts, id)
			expired = append(expired, id)
		}
	}
	return expired
}

func (uc *SalesUseCase) logExpired(ids []string) {
	for _, id := range ids {
		uc.log.Info().Str("cart_id", id).Msg("carrito cerrado por inactividad")
	}
}

// GetCart devuelve líneas y totales.
func (uc *SalesUseCase) GetCart(cartID string) (*dto.CartResponse, error) {
	c, err := uc.lookup(cartID)
	if err != nil {
		return nil, err
	}
	return toCartResponse(c), nil
}

// AddItem suma in.Quantity unidades del producto.
func (uc *SalesUseCase) AddItem(ctx context.Context, cartID string, in dto.AddItemRequest) (*dto.CartResponse, error) {
	c, err := uc.lookup(cartID)
	if err != nil {
		return nil, err
	}
	if _, err := c.AddItem(ctx, in.ProductID, in.Quantity); err != nil {
		return nil, err
	}
	return toCartResponse(c), nil
}

// SetQuantity fija la cantidad de la línea; qty <= 0 la elimina.
func (uc *SalesUseCase) SetQuantity(ctx context.Context, cartID, productID string, qty int) (*dto.CartResponse, error) {
	c, err := uc.lookup(cartID)
	if err != nil {
		return nil, err
	}
	if _, err := c.SetQuantity(ctx, productID, qty); err != nil {
		return nil, err
	}
	return toCartResponse(c), nil
}

// RemoveItem elimina la línea del producto.
func (uc *SalesUseCase) RemoveItem(cartID, productID string) (*dto.CartResponse, error) {
	c, err := uc.lookup(cartID)
	if err != nil {
		return nil, err
	}
	if err := c.RemoveItem(productID); err != nil {
		return nil, err
	}
	return toCartResponse(c), nil
}

// CancelCart vacía el carrito y cierra la sesión.
func (uc *SalesUseCase) CancelCart(cartID string) error {
	uc.mu.Lock()
	s, ok := uc.carts[cartID]
	delete(uc.carts, cartID)
	uc.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}
	s.cart.Clear()
	uc.log.Debug().Str("cart_id", cartID).Msg("carrito cancelado")
	return nil
}

// Checkout cierra el carrito. Tras el éxito el carrito queda vacío y la sesión sigue abierta.
func (uc *SalesUseCase) Checkout(ctx context.Context, cartID string, in dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	c, err := uc.lookup(cartID)
	if err != nil {
		return nil, err
	}
	ci := CheckoutInput{
		Mode:         Mode(in.Mode),
		Title:        in.Title,
		Counterparty: in.Counterparty,
		Category:     in.Category,
		Note:         in.Note,
	}
	if in.DueDate != nil {
		ci.DueDate = *in.DueDate
	}
	res, err := uc.coord.Checkout(ctx, c, ci)
	if err != nil {
		return nil, err
	}
	out := &dto.CheckoutResponse{
		Mode:    string(res.Mode),
		SaleID:  res.SaleID,
		Receipt: toReceiptResponse(res.Receipt),
	}
	if res.Entry != nil {
		out.Entry = appledger.ToEntryResponse(*res.Entry)
	}
	return out, nil
}

// ReceiptPDF genera el PDF de una venta registrada. Devuelve bytes y nombre de archivo.
func (uc *SalesUseCase) ReceiptPDF(ctx context.Context, saleID string) ([]byte, string, error) {
	if uc.receipts == nil || uc.pdf == nil {
		return nil, "", fmt.Errorf("%w: recibos no disponibles", domain.ErrNotFound)
	}
	r, err := uc.receipts.GetReceipt(ctx, saleID)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.pdf.GenerateReceiptPDF(ctx, r)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return b, "recibo-" + saleID + ".pdf", nil
}

// OpenCarts cantidad de sesiones abiertas.
func (uc *SalesUseCase) OpenCarts() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.carts)
}

// lookup devuelve el carrito y renueva su actividad. Un carrito vencido cuenta como inexistente.
func (uc *SalesUseCase) lookup(cartID string) (*cart.Cart, error) {
	now := uc.now()
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s, ok := uc.carts[cartID]
	if ok && uc.idleTTL > 0 && now.Sub(s.lastSeen) >= uc.idleTTL {
		delete(uc.carts, cartID)
		ok = false
	}
	if !ok {
		return nil, fmt.Errorf("%w: carrito %s", domain.ErrNotFound, cartID)
	}
	s.lastSeen = now
	return s.cart, nil
}

func toTotalsResponse(t entity.Totals) dto.TotalsResponse {
	return dto.TotalsResponse{
		TotalItems:       t.TotalItems,
		TotalValue:       t.TotalValue,
		AverageUnitValue: t.AverageUnitValue,
	}
}

func toCartResponse(c *cart.Cart) *dto.CartResponse {
	lines := c.Lines()
	items := make([]dto.CartLineResponse, 0, len(lines))
	for _, l := range lines {
		items = append(items, dto.CartLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.Total(),
			AddedAt:   l.AddedAt,
		})
	}
	return &dto.CartResponse{
		ID:     c.ID(),
		Lines:  items,
		Totals: toTotalsResponse(entity.ComputeTotals(lines)),
	}
}

func toReceiptResponse(r *entity.Receipt) dto.ReceiptResponse {
	lines := make([]dto.ReceiptLineResponse, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, dto.ReceiptLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal,
		})
	}
	return dto.ReceiptResponse{
		ID:          r.ID,
		Lines:       lines,
		Totals:      toTotalsResponse(r.Totals),
		FinalizedAt: r.FinalizedAt,
	}
}
