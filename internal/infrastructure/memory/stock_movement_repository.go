package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*movementRepo)(nil)

type movementRepo struct {
	ss *session
}

func (r *movementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	if movement.ID == "" {
		return fmt.Errorf("movimiento sin id: %w", domain.ErrInvalidInput)
	}
	if r.ss.tx != nil {
		r.ss.tx.movements = append(r.ss.tx.movements, *movement)
		return nil
	}
	r.ss.store.mu.Lock()
	defer r.ss.store.mu.Unlock()
	r.ss.store.appendMovementLocked(*movement)
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	if r.ss.tx != nil {
		for i := range r.ss.tx.movements {
			if r.ss.tx.movements[i].ID == id {
				m := r.ss.tx.movements[i]
				return &m, nil
			}
		}
	}
	r.ss.store.mu.RLock()
	defer r.ss.store.mu.RUnlock()
	i, ok := r.ss.store.movementIndex[id]
	if !ok {
		return nil, nil
	}
	m := r.ss.store.movements[i].m
	return &m, nil
}

// snapshot copia lo confirmado más lo pendiente de la transacción (con secuencias posteriores).
func (r *movementRepo) snapshot(keep func(*entity.StockMovement) bool) []storedMovement {
	r.ss.store.mu.RLock()
	out := make([]storedMovement, 0, len(r.ss.store.movements))
	for _, sm := range r.ss.store.movements {
		if keep(&sm.m) {
			out = append(out, sm)
		}
	}
	next := r.ss.store.seq
	r.ss.store.mu.RUnlock()

	if r.ss.tx != nil {
		for _, m := range r.ss.tx.movements {
			next++
			if keep(&m) {
				out = append(out, storedMovement{seq: next, m: m})
			}
		}
	}
	return out
}

func (r *movementRepo) List(_ context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	rows := r.snapshot(func(m *entity.StockMovement) bool {
		return (filter.ProductID == "" || m.ProductID == filter.ProductID) &&
			(filter.StoreID == "" || m.StoreID == filter.StoreID) &&
			(filter.Type == 0 || m.Type == filter.Type) &&
			(filter.ReferenceType == "" || m.Reference.Type == filter.ReferenceType) &&
			(filter.ReferenceID == "" || m.Reference.ID == filter.ReferenceID)
	})
	slices.SortFunc(rows, func(a, b storedMovement) int {
		if c := b.m.OccurredAt.Compare(a.m.OccurredAt); c != 0 {
			return c
		}
		return cmp.Compare(b.seq, a.seq)
	})
	return toMovements(page(rows, filter.Limit, filter.Offset)), nil
}

func (r *movementRepo) ListByKey(_ context.Context, key entity.StockKey) ([]*entity.StockMovement, error) {
	rows := r.snapshot(func(m *entity.StockMovement) bool { return m.Key() == key })
	slices.SortFunc(rows, func(a, b storedMovement) int { return cmp.Compare(a.seq, b.seq) })
	return toMovements(rows), nil
}

func toMovements(rows []storedMovement) []*entity.StockMovement {
	list := make([]*entity.StockMovement, 0, len(rows))
	for i := range rows {
		m := rows[i].m
		list = append(list, &m)
	}
	return list
}
