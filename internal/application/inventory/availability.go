package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// LineQuantity cantidad solicitada de un producto.
type LineQuantity struct {
	ProductID string
	Quantity  int64
}

// Availability verificación de solo lectura contra los saldos confirmados.
// Sirve para rechazar temprano; la verificación autoritativa es la de PostMovement.
type Availability struct {
	stockRepo repository.StockRepository
}

// NewAvailability construye el validador.
func NewAvailability(stockRepo repository.StockRepository) *Availability {
	return &Availability{stockRepo: stockRepo}
}

// Check retorna nil si la tienda cubre todas las líneas, o el primer faltante como *domain.InsufficientStockError.
// Las líneas repetidas del mismo producto se suman antes de comparar.
func (a *Availability) Check(ctx context.Context, storeID string, lines []LineQuantity) error {
	order := make([]string, 0, len(lines))
	requested := make(map[string]int64, len(lines))
	for _, line := range lines {
		if _, ok := requested[line.ProductID]; !ok {
			order = append(order, line.ProductID)
		}
		requested[line.ProductID] += line.Quantity
	}

	for _, productID := range order {
		balance, err := a.stockRepo.Get(ctx, entity.StockKey{StoreID: storeID, ProductID: productID})
		if err != nil {
			return err
		}
		if balance.Quantity < requested[productID] {
			return &domain.InsufficientStockError{
				StoreID:   storeID,
				ProductID: productID,
				Available: balance.Quantity,
				Requested: requested[productID],
			}
		}
	}
	return nil
}
