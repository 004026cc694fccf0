package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

var key = entity.StockKey{StoreID: "tienda-1", ProductID: "prod-1"}

func movement(id string, qty int64, at time.Time) *entity.StockMovement {
	return &entity.StockMovement{
		ID:         id,
		ProductID:  key.ProductID,
		StoreID:    key.StoreID,
		Type:       entity.MovementEntry,
		Quantity:   qty,
		OccurredAt: at,
		Reference:  entity.Reference{Type: entity.ReferenceEntry, ID: "e-" + id},
		StockAfter: qty,
	}
}

func TestRun_CommitPublicaTodo(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	err := s.Run(ctx, func(uow repository.UnitOfWork) error {
		b, err := uow.Stock.GetForUpdate(ctx, key)
		if err != nil {
			return err
		}
		b.Quantity = 7
		if err := uow.Stock.Upsert(ctx, b); err != nil {
			return err
		}
		if err := uow.Movements.Create(ctx, movement("m1", 7, time.Now())); err != nil {
			return err
		}
		// Dentro de la transacción se leen las escrituras propias.
		got, err := uow.Stock.Get(ctx, key)
		if err != nil {
			return err
		}
		assert.Equal(t, int64(7), got.Quantity)

		// Fuera de la transacción todavía no son visibles.
		outside, err := s.Repositories().Stock.Get(ctx, key)
		if err != nil {
			return err
		}
		assert.Equal(t, int64(0), outside.Quantity)
		return nil
	})
	require.NoError(t, err)

	repos := s.Repositories()
	got, err := repos.Stock.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Quantity)
	m, err := repos.Movements.GetByID(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, int64(7), m.Quantity)
}

func TestRun_ErrorDescartaYLiberaBloqueos(t *testing.T) {
	s := memory.New(memory.WithLockTimeout(50 * time.Millisecond))
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(uow repository.UnitOfWork) error {
		b, err := uow.Stock.GetForUpdate(ctx, key)
		if err != nil {
			return err
		}
		b.Quantity = 3
		if err := uow.Stock.Upsert(ctx, b); err != nil {
			return err
		}
		if err := uow.Entries.Create(ctx, &entity.Entry{ID: "e1", StoreID: key.StoreID}); err != nil {
			return err
		}
		if err := uow.Movements.Create(ctx, movement("m1", 3, time.Now())); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	repos := s.Repositories()
	balances, err := repos.Stock.List(ctx, repository.BalanceFilter{})
	require.NoError(t, err)
	assert.Empty(t, balances, "ni siquiera la fila en 0 creada por GetForUpdate sobrevive")
	entry, err := repos.Entries.GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Nil(t, entry)
	movs, err := repos.Movements.List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movs)

	// El bloqueo quedó libre.
	err = s.Run(ctx, func(uow repository.UnitOfWork) error {
		_, err := uow.Stock.GetForUpdate(ctx, key)
		return err
	})
	assert.NoError(t, err)
}

func TestRun_PanicLiberaBloqueos(t *testing.T) {
	s := memory.New(memory.WithLockTimeout(50 * time.Millisecond))
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = s.Run(ctx, func(uow repository.UnitOfWork) error {
			if _, err := uow.Stock.GetForUpdate(ctx, key); err != nil {
				return err
			}
			panic("falla inesperada")
		})
	})

	err := s.Run(ctx, func(uow repository.UnitOfWork) error {
		_, err := uow.Stock.GetForUpdate(ctx, key)
		return err
	})
	assert.NoError(t, err)
}

func TestRun_TimeoutDeBloqueoEsConflicto(t *testing.T) {
	s := memory.New(memory.WithLockTimeout(20 * time.Millisecond))
	ctx := context.Background()
	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- s.Run(ctx, func(uow repository.UnitOfWork) error {
			if _, err := uow.Stock.GetForUpdate(ctx, key); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	err := s.Run(ctx, func(uow repository.UnitOfWork) error {
		_, err := uow.Stock.GetForUpdate(ctx, key)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)

	// Otra clave no espera.
	other := entity.StockKey{StoreID: key.StoreID, ProductID: "prod-2"}
	err = s.Run(ctx, func(uow repository.UnitOfWork) error {
		_, err := uow.Stock.GetForUpdate(ctx, other)
		return err
	})
	assert.NoError(t, err)

	close(release)
	require.NoError(t, <-done)
}

func TestRun_ContextoCancelado(t *testing.T) {
	s := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Run(ctx, func(repository.UnitOfWork) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStock_UpsertRechazaNegativos(t *testing.T) {
	s := memory.New()

	err := s.Repositories().Stock.Upsert(context.Background(), &entity.StockBalance{StoreID: "t", ProductID: "p", Quantity: -1})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMovements_OrdenConEmpates(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	repos := s.Repositories()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repos.Movements.Create(ctx, movement("m1", 1, at)))
	require.NoError(t, repos.Movements.Create(ctx, movement("m2", 2, at)))
	require.NoError(t, repos.Movements.Create(ctx, movement("m3", 3, at.Add(-time.Minute))))

	desc, err := repos.Movements.List(ctx, repository.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, desc, 3)
	assert.Equal(t, []string{"m2", "m1", "m3"}, []string{desc[0].ID, desc[1].ID, desc[2].ID})

	asc, err := repos.Movements.ListByKey(ctx, key)
	require.NoError(t, err)
	require.Len(t, asc, 3)
	assert.Equal(t, []string{"m1", "m2", "m3"}, []string{asc[0].ID, asc[1].ID, asc[2].ID}, "el historial por clave sigue la inserción, no occurred_at")

	paged, err := repos.Movements.List(ctx, repository.MovementFilter{Limit: 1, Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, paged)

	assert.Error(t, repos.Movements.Create(ctx, &entity.StockMovement{}), "un movimiento sin id se rechaza")
}

func TestStoreDirectory(t *testing.T) {
	s := memory.New()
	s.RegisterStores("t1")

	ok, err := s.Exists(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(context.Background(), "t2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDocuments_CopiasIndependientes(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	repos := s.Repositories()
	entry := &entity.Entry{ID: "e1", StoreID: "t1", Items: []entity.EntryItem{{ID: "i1", ProductID: "p1", Quantity: 2}}}
	require.NoError(t, repos.Entries.Create(ctx, entry))

	entry.Items[0].Quantity = 99
	got, err := repos.Entries.GetByID(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.Items[0].Quantity)
}

func TestRunSnapshot_FotoAislada(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	repos := s.Repositories()
	require.NoError(t, repos.Stock.Upsert(ctx, &entity.StockBalance{StoreID: key.StoreID, ProductID: key.ProductID, Quantity: 1}))
	require.NoError(t, repos.Movements.Create(ctx, movement("m1", 1, time.Now())))

	err := s.RunSnapshot(ctx, func(uow repository.UnitOfWork) error {
		// Confirmado después de tomar la foto: no debe verse.
		require.NoError(t, s.Run(ctx, func(tx repository.UnitOfWork) error {
			b, err := tx.Stock.GetForUpdate(ctx, key)
			if err != nil {
				return err
			}
			b.Quantity = 9
			if err := tx.Stock.Upsert(ctx, b); err != nil {
				return err
			}
			return tx.Movements.Create(ctx, movement("m2", 8, time.Now()))
		}))

		b, err := uow.Stock.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, int64(1), b.Quantity)
		history, err := uow.Movements.ListByKey(ctx, key)
		require.NoError(t, err)
		assert.Len(t, history, 1)

		// Escribir en la foto no toca lo confirmado.
		return uow.Stock.Upsert(ctx, &entity.StockBalance{StoreID: key.StoreID, ProductID: key.ProductID, Quantity: 100})
	})
	require.NoError(t, err)

	b, err := repos.Stock.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(9), b.Quantity)
}
