package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vitrine-api/internal/application/dto"
	"github.com/jhoicas/vitrine-api/internal/application/sales"
)

// CartHandler carritos abiertos y su cierre (protegido).
type CartHandler struct {
	uc *sales.SalesUseCase
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *sales.SalesUseCase) *CartHandler {
	return &CartHandler{uc: uc}
}

// Open godoc
// @Summary      Abrir carrito
// @Tags         carts
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.CartResponse
// @Failure      429  {object}  dto.ErrorResponse
// @Router       /api/carts [post]
func (h *CartHandler) Open(c *fiber.Ctx) error {
	out, err := h.uc.OpenCart()
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Ver carrito (líneas y totales)
// @Tags         carts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del carrito"
// @Success      200  {object}  dto.CartResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/carts/{id} [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetCart(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Agregar unidades de un producto
// @Tags         carts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del carrito"
// @Param        body  body  dto.AddItemRequest  true  "Producto y cantidad"
// @Success      200   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/carts/{id}/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddItemRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddItem(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetQuantity godoc
// @Summary      Fijar cantidad de una línea (0 la elimina)
// @Tags         carts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id         path  string                  true  "ID del carrito"
// @Param        productID  path  string                  true  "ID del producto"
// @Param        body       body  dto.SetQuantityRequest  true  "Cantidad"
// @Success      200        {object}  dto.CartResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Failure      409        {object}  dto.ErrorResponse
// @Router       /api/carts/{id}/items/{productID} [put]
func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	var in dto.SetQuantityRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.SetQuantity(c.UserContext(), c.Params("id"), c.Params("productID"), in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RemoveItem godoc
// @Summary      Quitar una línea
// @Tags         carts
// @Security     Bearer
// @Produce      json
// @Param        id         path  string  true  "ID del carrito"
// @Param        productID  path  string  true  "ID del producto"
// @Success      200        {object}  dto.CartResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/carts/{id}/items/{productID} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	out, err := h.uc.RemoveItem(c.Params("id"), c.Params("productID"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar carrito
// @Tags         carts
// @Security     Bearer
// @Param        id   path  string  true  "ID del carrito"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/carts/{id} [delete]
func (h *CartHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.CancelCart(c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Checkout godoc
// @Summary      Cerrar carrito (immediate | on_credit)
// @Tags         carts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del carrito"
// @Param        body  body  dto.CheckoutRequest  true  "Modo de cierre"
// @Success      201   {object}  dto.CheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/carts/{id}/checkout [post]
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Checkout(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ReceiptPDF godoc
// @Summary      Descargar recibo en PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt.pdf [get]
func (h *CartHandler) ReceiptPDF(c *fiber.Ctx) error {
	b, filename, err := h.uc.ReceiptPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(b)
}
