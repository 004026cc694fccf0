package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// GetBalance saldo confirmado de un producto en una tienda (0 si nunca tuvo movimientos).
func (uc *QueryUseCase) GetBalance(ctx context.Context, key entity.StockKey) (*entity.StockBalance, error) {
	if key.StoreID == "" {
		return nil, domain.Invalid("store_id", "es requerido")
	}
	if key.ProductID == "" {
		return nil, domain.Invalid("product_id", "es requerido")
	}
	return uc.stockRepo.Get(ctx, key)
}

// ListBalances lista saldos existentes filtrando por tienda y/o producto.
func (uc *QueryUseCase) ListBalances(ctx context.Context, filter repository.BalanceFilter) ([]*entity.StockBalance, error) {
	if err := validatePage(filter.Limit, filter.Offset); err != nil {
		return nil, err
	}
	return uc.stockRepo.List(ctx, filter)
}
