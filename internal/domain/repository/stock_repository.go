package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// BalanceFilter filtros para listar saldos. Limit 0 = sin límite.
type BalanceFilter struct {
	StoreID   string
	ProductID string
	Limit     int
	Offset    int
}

// StockRepository define el puerto para consultar/actualizar saldos por tienda+producto.
type StockRepository interface {
	// Get devuelve el saldo confirmado; si la clave nunca se tocó devuelve cantidad 0.
	Get(ctx context.Context, key entity.StockKey) (*entity.StockBalance, error)
	// GetForUpdate crea la fila con 0 si no existe y la bloquea hasta el fin de la unidad de trabajo.
	GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockBalance, error)
	Upsert(ctx context.Context, balance *entity.StockBalance) error
	List(ctx context.Context, filter BalanceFilter) ([]*entity.StockBalance, error)
}
