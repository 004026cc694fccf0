package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// StockUseCase orquesta las operaciones que mueven stock (entradas, ventas, distribuciones y ajustes).
// Cada operación es una sola unidad de trabajo: cabecera, líneas y movimientos se confirman juntos o no se confirma nada.
type StockUseCase struct {
	txRunner     TxRunner
	ledger       *Ledger
	availability *Availability
	stores       repository.StoreDirectory
	retry        RetryPolicy
	log          *logger.Logger
}

// NewStockUseCase construye el caso de uso. stockRepo debe leer saldos confirmados (fuera de tx).
// stores puede ser nil: en ese caso no se valida la existencia de las tiendas.
func NewStockUseCase(
	txRunner TxRunner,
	stockRepo repository.StockRepository,
	stores repository.StoreDirectory,
	retry RetryPolicy,
	log *logger.Logger,
) *StockUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &StockUseCase{
		txRunner:     txRunner,
		ledger:       NewLedger(),
		availability: NewAvailability(stockRepo),
		stores:       stores,
		retry:        retry,
		log:          log,
	}
}

// Availability expone el validador de disponibilidad.
func (uc *StockUseCase) Availability() *Availability {
	return uc.availability
}

func (uc *StockUseCase) ensureStores(ctx context.Context, ids ...string) error {
	if uc.stores == nil {
		return nil
	}
	for _, id := range ids {
		ok, err := uc.stores.Exists(ctx, id)
		if err != nil {
			return fmt.Errorf("consultar tienda %s: %w", id, err)
		}
		if !ok {
			return fmt.Errorf("tienda %s: %w", id, domain.ErrNotFound)
		}
	}
	return nil
}

// lineTotal usa el total informado o, si no viene, cantidad × precio unitario.
func lineTotal(quantity int64, unitPrice decimal.Decimal, total *decimal.Decimal) decimal.Decimal {
	if total != nil {
		return *total
	}
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}

func defaultStatus(s string) string {
	if s == "" {
		return entity.DocumentStatusPending
	}
	return s
}

func validateLines(n int) error {
	if n == 0 {
		return domain.Invalid("items", "debe tener al menos una línea")
	}
	return nil
}

func validateLine(i int, productID string, quantity int64) error {
	if productID == "" {
		return domain.Invalid(fmt.Sprintf("items[%d].product_id", i), "es requerido")
	}
	if quantity <= 0 {
		return domain.Invalid(fmt.Sprintf("items[%d].quantity", i), "debe ser mayor que cero")
	}
	return nil
}
