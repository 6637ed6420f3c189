package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vitrine-api/internal/application/dto"
	appledger "github.com/jhoicas/vitrine-api/internal/application/ledger"
)

// LedgerHandler lanzamientos del fiado (protegido; liquidar y reabrir exigen admin o gerente).
type LedgerHandler struct {
	uc *appledger.LedgerUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *appledger.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// Create godoc
// @Summary      Crear lanzamiento
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLedgerEntryRequest  true  "Lanzamiento"
// @Success      201   {object}  dto.LedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/ledger/entries [post]
func (h *LedgerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLedgerEntryRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar lanzamientos (más recientes primero)
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        kind          query  string  false  "entrada | despesa"
// @Param        status        query  string  false  "pending | settled"
// @Param        counterparty  query  string  false  "contiene"
// @Param        category      query  string  false  "categoría"
// @Param        from          query  string  false  "desde (inclusivo)"
// @Param        to            query  string  false  "hasta (exclusivo)"
// @Param        by_due_date   query  bool    false  "el rango aplica al vencimiento"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.LedgerEntryListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/entries [get]
func (h *LedgerHandler) List(c *fiber.Ctx) error {
	in, ok, err := parseFilter(c)
	if !ok {
		return err
	}
	out, err := h.uc.List(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener lanzamiento
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lanzamiento"
// @Success      200  {object}  dto.LedgerEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/entries/{id} [get]
func (h *LedgerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Totales del fiado
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LedgerSummaryResponse
// @Router       /api/ledger/summary [get]
func (h *LedgerHandler) Summary(c *fiber.Ctx) error {
	in, ok, err := parseFilter(c)
	if !ok {
		return err
	}
	out, err := h.uc.Summary(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Settle godoc
// @Summary      Liquidar lanzamiento
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID del lanzamiento"
// @Param        body  body  dto.SettleLedgerEntryRequest  true  "Forma de pago"
// @Success      200   {object}  dto.LedgerEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/entries/{id}/settle [post]
func (h *LedgerHandler) Settle(c *fiber.Ctx) error {
	var in dto.SettleLedgerEntryRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Settle(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reopen godoc
// @Summary      Reabrir lanzamiento liquidado
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lanzamiento"
// @Success      200  {object}  dto.LedgerEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/entries/{id}/reopen [post]
func (h *LedgerHandler) Reopen(c *fiber.Ctx) error {
	out, err := h.uc.Reopen(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func parseFilter(c *fiber.Ctx) (dto.LedgerFilterRequest, bool, error) {
	var in dto.LedgerFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return in, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	if err := validate.Struct(&in); err != nil {
		return in, false, validationError(c, err)
	}
	return in, true, nil
}
