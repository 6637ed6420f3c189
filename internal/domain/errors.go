package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Todos son recuperables: una operación fallida no deja cambios parciales.
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrOutOfStock           = errors.New("stock insuficiente")
	ErrEmptyCart            = errors.New("el carrito está vacío")
	ErrInvalidEntry         = errors.New("lanzamiento inválido")
	ErrAlreadySettled       = errors.New("el lanzamiento ya fue liquidado")
	ErrMissingPaymentMethod = errors.New("forma de pago requerida")
	ErrTooManyCarts         = errors.New("demasiados carritos abiertos")
)
