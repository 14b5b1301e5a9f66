package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrValidation         = errors.New("entrada inválida")
	ErrInvariantViolation = errors.New("invariante de stock violado")
)

// Errores de validación derivados; errors.Is(err, ErrValidation) es true para todos.
var (
	ErrDuplicateName = fmt.Errorf("%w: ya existe un producto activo con ese nombre", ErrValidation)
	ErrInvalidPage   = fmt.Errorf("%w: page debe ser >= 0 y size entre 1 y 100", ErrValidation)
	ErrZeroDelta     = fmt.Errorf("%w: el delta de cantidad no puede ser cero", ErrValidation)
)

// MinimumStockError indica que un delta dejaría la cantidad por debajo del stock mínimo.
type MinimumStockError struct {
	ProductID    int64
	Quantity     int64
	Delta        int64
	MinimumStock int64
}

func (e *MinimumStockError) Error() string {
	return fmt.Sprintf("stock mínimo excedido: producto %d, cantidad %d %+d < mínimo %d",
		e.ProductID, e.Quantity, e.Delta, e.MinimumStock)
}

// Unwrap permite errors.Is(err, ErrInvariantViolation).
func (e *MinimumStockError) Unwrap() error { return ErrInvariantViolation }
