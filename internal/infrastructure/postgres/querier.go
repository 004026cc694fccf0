package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Querier es lo que comparten *pgxpool.Pool y pgx.Tx: los repositorios funcionan igual dentro o fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// NewUnitOfWork arma todos los repositorios sobre el mismo Querier (pool o tx).
func NewUnitOfWork(q Querier) repository.UnitOfWork {
	return repository.UnitOfWork{
		Stock:         NewStockRepository(q),
		Movements:     NewStockMovementRepository(q),
		Entries:       NewEntryRepository(q),
		Sales:         NewSaleRepository(q),
		Distributions: NewDistributionRepository(q),
		Adjustments:   NewAdjustmentRepository(q),
	}
}
