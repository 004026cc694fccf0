package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando los repositorios atados a esa tx.
// Si fn retorna error se hace Rollback de todo lo escrito; si retorna nil, Commit.
// Los errores de bloqueo (timeout, deadlock, serialización) se devuelven envolviendo domain.ErrConcurrencyConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(uow repository.UnitOfWork) error) error
}

// SnapshotRunner ejecuta lecturas sobre una foto única de los datos confirmados: todo lo que fn lee
// corresponde al mismo instante, aunque otras transacciones confirmen mientras tanto.
// fn no debe escribir.
type SnapshotRunner interface {
	RunSnapshot(ctx context.Context, fn func(uow repository.UnitOfWork) error) error
}
