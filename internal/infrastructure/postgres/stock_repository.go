package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const selectBalance = `SELECT store_id, product_id, quantity, updated_at FROM stock_balance`

// Get obtiene el saldo confirmado; si la fila no existe devuelve cantidad 0.
func (r *StockRepo) Get(ctx context.Context, key entity.StockKey) (*entity.StockBalance, error) {
	var b entity.StockBalance
	err := r.q.QueryRow(ctx, selectBalance+` WHERE store_id = $1 AND product_id = $2`, key.StoreID, key.ProductID).
		Scan(&b.StoreID, &b.ProductID, &b.Quantity, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{StoreID: key.StoreID, ProductID: key.ProductID}, nil
		}
		return nil, wrapErr("get stock", err)
	}
	return &b, nil
}

// GetForUpdate crea la fila con 0 si falta y la bloquea (SELECT FOR UPDATE) hasta el fin de la transacción.
// El INSERT previo garantiza que dos transacciones sobre una clave nueva también se serialicen.
func (r *StockRepo) GetForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockBalance, error) {
	if _, err := r.q.Exec(ctx, `
		INSERT INTO stock_balance (store_id, product_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (store_id, product_id) DO NOTHING`, key.StoreID, key.ProductID); err != nil {
		return nil, wrapErr("ensure stock row", err)
	}
	var b entity.StockBalance
	err := r.q.QueryRow(ctx, selectBalance+` WHERE store_id = $1 AND product_id = $2 FOR UPDATE`, key.StoreID, key.ProductID).
		Scan(&b.StoreID, &b.ProductID, &b.Quantity, &b.UpdatedAt)
	if err != nil {
		return nil, wrapErr("get stock for update", err)
	}
	return &b, nil
}

// Upsert inserta o actualiza la cantidad en stock (por tienda y producto).
func (r *StockRepo) Upsert(ctx context.Context, balance *entity.StockBalance) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_balance (store_id, product_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (store_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`,
		balance.StoreID, balance.ProductID, balance.Quantity, balance.UpdatedAt)
	if err != nil {
		return wrapErr("upsert stock", err)
	}
	return nil
}

// List lista saldos ordenados por tienda y producto.
func (r *StockRepo) List(ctx context.Context, filter repository.BalanceFilter) ([]*entity.StockBalance, error) {
	var f sqlFilter
	if filter.StoreID != "" {
		f.add("store_id = $%d", filter.StoreID)
	}
	if filter.ProductID != "" {
		f.add("product_id = $%d", filter.ProductID)
	}
	query := selectBalance + f.where() + ` ORDER BY store_id, product_id` + f.page(filter.Limit, filter.Offset)

	rows, err := r.q.Query(ctx, query, f.args...)
	if err != nil {
		return nil, wrapErr("list stock", err)
	}
	defer rows.Close()
	list := []*entity.StockBalance{}
	for rows.Next() {
		var b entity.StockBalance
		if err := rows.Scan(&b.StoreID, &b.ProductID, &b.Quantity, &b.UpdatedAt); err != nil {
			return nil, wrapErr("scan stock", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
