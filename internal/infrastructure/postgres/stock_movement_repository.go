package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo historial de movimientos sobre PostgreSQL. Solo inserta y consulta.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const selectMovement = `
	SELECT id, product_id, store_id, movement_type, quantity, occurred_at,
	       reference_type, reference_id, stock_before, stock_after, notes
	FROM stock_movement`

// Create persiste un movimiento. seq lo asigna la base.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movement (id, product_id, store_id, movement_type, quantity, occurred_at,
		                            reference_type, reference_id, stock_before, stock_after, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.ProductID, m.StoreID, m.Type.String(), m.Quantity, m.OccurredAt,
		string(m.Reference.Type), m.Reference.ID, m.StockBefore, m.StockAfter, m.Notes,
	)
	if err != nil {
		return wrapErr("create stock movement", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID; nil si no existe.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, selectMovement+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get stock movement", err)
	}
	return m, nil
}

// List filtra el historial, del más reciente al más antiguo.
func (r *StockMovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	var f sqlFilter
	if filter.ProductID != "" {
		f.add("product_id = $%d", filter.ProductID)
	}
	if filter.StoreID != "" {
		f.add("store_id = $%d", filter.StoreID)
	}
	if filter.Type != 0 {
		f.add("movement_type = $%d", filter.Type.String())
	}
	if filter.ReferenceType != "" {
		f.add("reference_type = $%d", string(filter.ReferenceType))
	}
	if filter.ReferenceID != "" {
		f.add("reference_id = $%d", filter.ReferenceID)
	}
	query := selectMovement + f.where() + ` ORDER BY occurred_at DESC, seq DESC` + f.page(filter.Limit, filter.Offset)
	return r.query(ctx, "list stock movements", query, f.args...)
}

// ListByKey historial de una clave en orden de aplicación. seq se asigna con el bloqueo de la fila
// de saldo tomado, así que dentro de una clave sigue el orden de commit aunque los relojes difieran.
func (r *StockMovementRepo) ListByKey(ctx context.Context, key entity.StockKey) ([]*entity.StockMovement, error) {
	query := selectMovement + ` WHERE store_id = $1 AND product_id = $2 ORDER BY seq`
	return r.query(ctx, "list stock movements by key", query, key.StoreID, key.ProductID)
}

func (r *StockMovementRepo) query(ctx context.Context, op, query string, args ...any) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()
	list := []*entity.StockMovement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return list, nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var (
		m       entity.StockMovement
		mt, ref string
	)
	if err := row.Scan(&m.ID, &m.ProductID, &m.StoreID, &mt, &m.Quantity, &m.OccurredAt,
		&ref, &m.Reference.ID, &m.StockBefore, &m.StockAfter, &m.Notes); err != nil {
		return nil, err
	}
	t, err := entity.ParseMovementType(mt)
	if err != nil {
		return nil, err
	}
	m.Type = t
	m.Reference.Type = entity.ReferenceType(ref)
	return &m, nil
}
