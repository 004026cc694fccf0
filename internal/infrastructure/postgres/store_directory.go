package postgres

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StoreDirectory = (*StoreDirectory)(nil)

// StoreDirectory consulta la tabla stores.
type StoreDirectory struct {
	q Querier
}

func NewStoreDirectory(q Querier) *StoreDirectory {
	return &StoreDirectory{q: q}
}

// Exists indica si la tienda está registrada.
func (d *StoreDirectory) Exists(ctx context.Context, storeID string) (bool, error) {
	var ok bool
	if err := d.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stores WHERE id = $1)`, storeID).Scan(&ok); err != nil {
		return false, wrapErr("exists store", err)
	}
	return ok, nil
}
