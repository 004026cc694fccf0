package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia")
)

// InsufficientStockError detalla el faltante de un producto en una tienda.
// errors.Is(err, ErrInsufficientStock) sigue funcionando gracias a Unwrap.
type InsufficientStockError struct {
	StoreID   string
	ProductID string
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el producto %s en la tienda %s. Disponible: %d, Solicitado: %d",
		e.ProductID, e.StoreID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// ValidationError describe el campo que hizo fallar la validación.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "entrada inválida: " + e.Reason
	}
	return fmt.Sprintf("entrada inválida: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Invalid construye un ValidationError para el campo indicado.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsRetryable indica si el error es transitorio y la unidad de trabajo puede reintentarse.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}
