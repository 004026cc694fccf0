package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// GetEntry devuelve una entrada con sus líneas.
func (uc *QueryUseCase) GetEntry(ctx context.Context, id string) (*entity.Entry, error) {
	e, err := uc.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

// ListEntries lista entradas de la más reciente a la más antigua.
func (uc *QueryUseCase) ListEntries(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Entry, error) {
	if err := validatePage(filter.Limit, filter.Offset); err != nil {
		return nil, err
	}
	return uc.entries.List(ctx, filter)
}

// GetSale devuelve una venta con sus líneas.
func (uc *QueryUseCase) GetSale(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (uc *QueryUseCase) ListSales(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Sale, error) {
	if err := validatePage(filter.Limit, filter.Offset); err != nil {
		return nil, err
	}
	return uc.sales.List(ctx, filter)
}

// GetDistribution devuelve una distribución interna con sus líneas.
func (uc *QueryUseCase) GetDistribution(ctx context.Context, id string) (*entity.Distribution, error) {
	d, err := uc.distributions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (uc *QueryUseCase) ListDistributions(ctx context.Context, filter repository.DocumentFilter) ([]*entity.Distribution, error) {
	if err := validatePage(filter.Limit, filter.Offset); err != nil {
		return nil, err
	}
	return uc.distributions.List(ctx, filter)
}

// GetAdjustment devuelve un ajuste con sus líneas.
func (uc *QueryUseCase) GetAdjustment(ctx context.Context, id string) (*entity.Adjustment, error) {
	a, err := uc.adjustments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return a, nil
}
