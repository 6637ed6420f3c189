package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vitrine-api/internal/application/dto"
	"github.com/jhoicas/vitrine-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores usan el nombre JSON del campo.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// errorMapping error de dominio -> status + código.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrOutOfStock, fiber.StatusConflict, "OUT_OF_STOCK"},
	{domain.ErrAlreadySettled, fiber.StatusConflict, "ALREADY_SETTLED"},
	{domain.ErrEmptyCart, fiber.StatusUnprocessableEntity, "EMPTY_CART"},
	{domain.ErrTooManyCarts, fiber.StatusTooManyRequests, "TOO_MANY_CARTS"},
	{domain.ErrMissingPaymentMethod, fiber.StatusBadRequest, "MISSING_PAYMENT_METHOD"},
	{domain.ErrInvalidEntry, fiber.StatusBadRequest, "INVALID_ENTRY"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
}

// writeError traduce err a dto.ErrorResponse. Lo no mapeado es 500 INTERNAL sin detalle.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// parseBody decodifica y valida el cuerpo JSON. Devuelve false si ya respondió con 400.
func parseBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(out); err != nil {
		return false, validationError(c, err)
	}
	return true, nil
}

func validationError(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Field()+": "+validationMessage(fe))
	}
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: strings.Join(msgs, "; ")})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "requerido"
	case "min":
		return "mínimo " + fe.Param()
	case "max":
		return "máximo " + fe.Param()
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	default:
		return "valor inválido"
	}
}
