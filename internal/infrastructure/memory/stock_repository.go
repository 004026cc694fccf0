package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*stockRepo)(nil)

type stockRepo struct {
	ss *session
}

func (ss *session) lookupBalance(key entity.StockKey) (entity.StockBalance, bool) {
	if ss.tx != nil {
		if b, ok := ss.tx.balances[key]; ok {
			return b, true
		}
	}
	ss.store.mu.RLock()
	defer ss.store.mu.RUnlock()
	b, ok := ss.store.balances[key]
	return b, ok
}

func (ss *session) writeBalance(b entity.StockBalance) {
	if ss.tx != nil {
		ss.tx.balances[b.Key()] = b
		return
	}
	ss.store.mu.Lock()
	defer ss.store.mu.Unlock()
	ss.store.balances[b.Key()] = b
}

func (r *stockRepo) Get(_ context.Context, key entity.StockKey) (*entity.StockBalance, error) {
	b, ok := r.ss.lookupBalance(key)
	if !ok {
		b = entity.StockBalance{StoreID: key.StoreID, ProductID: key.ProductID}
	}
	return &b, nil
}

func (r *stockRepo) GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockBalance, error) {
	if err := r.ss.acquire(ctx, key); err != nil {
		return nil, err
	}
	b, ok := r.ss.lookupBalance(key)
	if !ok {
		b = entity.StockBalance{StoreID: key.StoreID, ProductID: key.ProductID, UpdatedAt: time.Now().UTC()}
		r.ss.writeBalance(b)
	}
	return &b, nil
}

func (r *stockRepo) Upsert(ctx context.Context, balance *entity.StockBalance) error {
	if balance.Quantity < 0 {
		return fmt.Errorf("saldo negativo en %s: %w", balance.Key(), domain.ErrInvalidInput)
	}
	if err := r.ss.acquire(ctx, balance.Key()); err != nil {
		return err
	}
	r.ss.writeBalance(*balance)
	return nil
}

func (r *stockRepo) List(_ context.Context, filter repository.BalanceFilter) ([]*entity.StockBalance, error) {
	merged := make(map[entity.StockKey]entity.StockBalance)
	r.ss.store.mu.RLock()
	for k, b := range r.ss.store.balances {
		merged[k] = b
	}
	r.ss.store.mu.RUnlock()
	if r.ss.tx != nil {
		for k, b := range r.ss.tx.balances {
			merged[k] = b
		}
	}

	list := make([]*entity.StockBalance, 0, len(merged))
	for _, b := range merged {
		b := b
		if filter.StoreID != "" && b.StoreID != filter.StoreID {
			continue
		}
		if filter.ProductID != "" && b.ProductID != filter.ProductID {
			continue
		}
		list = append(list, &b)
	}
	slices.SortFunc(list, func(a, b *entity.StockBalance) int {
		switch {
		case a.Key().Less(b.Key()):
			return -1
		case b.Key().Less(a.Key()):
			return 1
		}
		return 0
	})
	return page(list, filter.Limit, filter.Offset), nil
}
