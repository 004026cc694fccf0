package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

func TestInsufficientStockError(t *testing.T) {
	err := fmt.Errorf("venta: %w", &domain.InsufficientStockError{StoreID: "t1", ProductID: "p1", Available: 5, Requested: 10})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	var detail *domain.InsufficientStockError
	assert.True(t, errors.As(err, &detail))
	assert.Equal(t, int64(5), detail.Available)
	assert.Contains(t, err.Error(), "Disponible: 5, Solicitado: 10")
}

func TestInvalid(t *testing.T) {
	err := domain.Invalid("quantity", "debe ser mayor que cero")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "entrada inválida: quantity debe ser mayor que cero", err.Error())
	assert.Equal(t, "entrada inválida: falta algo", domain.Invalid("", "falta algo").Error())
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, domain.IsRetryable(fmt.Errorf("bloqueo: %w", domain.ErrConcurrencyConflict)))
	assert.False(t, domain.IsRetryable(domain.ErrInsufficientStock))
	assert.False(t, domain.IsRetryable(nil))
}
