package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// QueryMovements lista movimientos del más reciente al más antiguo. Un filtro sin campos devuelve todo.
func (uc *QueryUseCase) QueryMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	if filter.Type != 0 && !filter.Type.Valid() {
		return nil, domain.Invalid("movement_type", "no reconocido")
	}
	if filter.ReferenceType != "" && !filter.ReferenceType.Valid() {
		return nil, domain.Invalid("reference_type", "no reconocido")
	}
	if err := validatePage(filter.Limit, filter.Offset); err != nil {
		return nil, err
	}
	return uc.movementRepo.List(ctx, filter)
}

// GetMovement devuelve un movimiento por id o domain.ErrNotFound.
func (uc *QueryUseCase) GetMovement(ctx context.Context, id string) (*entity.StockMovement, error) {
	if id == "" {
		return nil, domain.Invalid("id", "es requerido")
	}
	m, err := uc.movementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// MovementsByReference devuelve los movimientos generados por un documento (entrada, venta, distribución o ajuste).
func (uc *QueryUseCase) MovementsByReference(ctx context.Context, ref entity.Reference) ([]*entity.StockMovement, error) {
	if !ref.Type.Valid() {
		return nil, domain.Invalid("reference_type", "no reconocido")
	}
	if ref.ID == "" {
		return nil, domain.Invalid("reference_id", "es requerido")
	}
	return uc.movementRepo.List(ctx, repository.MovementFilter{ReferenceType: ref.Type, ReferenceID: ref.ID})
}
