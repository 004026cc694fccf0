package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MovementFilter filtros opcionales para el historial de movimientos.
// Los campos vacíos no filtran. Limit 0 = sin límite.
type MovementFilter struct {
	ProductID     string
	StoreID       string
	Type          entity.MovementType // 0 = cualquiera
	ReferenceType entity.ReferenceType
	ReferenceID   string
	Limit         int
	Offset        int
}

// StockMovementRepository puerto de persistencia del historial (append-only: no hay Update ni Delete).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// List ordena por occurred_at descendente (y orden de inserción descendente en empates).
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
	// ListByKey devuelve el historial de una clave en orden de aplicación (secuencia de inserción),
	// independiente de occurred_at.
	ListByKey(ctx context.Context, key entity.StockKey) ([]*entity.StockMovement, error)
}
