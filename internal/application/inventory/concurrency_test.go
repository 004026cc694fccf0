package inventory_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

// N ventas concurrentes de una unidad contra Q unidades: exactamente min(N, Q) éxitos.
func TestSellStock_SinActualizacionesPerdidas(t *testing.T) {
	const (
		attempts = 20
		stock    = 5
	)
	f := newFixture(t)
	f.seed(t, storeA, productP, stock)

	var ok, insufficient, other atomic.Int32
	var g errgroup.Group
	for i := 0; i < attempts; i++ {
		g.Go(func() error {
			_, err := f.stock.SellStock(context.Background(), sell(storeA, productP, 1))
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				insufficient.Add(1)
			default:
				other.Add(1)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(stock), ok.Load())
	assert.Equal(t, int32(attempts-stock), insufficient.Load())
	assert.Zero(t, other.Load())
	assert.Equal(t, int64(0), f.balance(t, storeA, productP))
	assert.Len(t, f.movements(t, repository.MovementFilter{Type: entity.MovementSale}), stock)
	f.assertLedgerConsistent(t)
}

// Dos ventas de 8 sobre 10 unidades: solo una puede confirmarse.
func TestSellStock_DosVentasCompitenPorElMismoSaldo(t *testing.T) {
	f := newFixture(t)
	f.seed(t, storeA, productP, 10)

	var ok atomic.Int32
	var g errgroup.Group
	for i := 0; i < 2; i++ {
		g.Go(func() error {
			_, err := f.stock.SellStock(context.Background(), sell(storeA, productP, 8))
			if err == nil {
				ok.Add(1)
				return nil
			}
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int64(2), f.balance(t, storeA, productP))
}

// Traslados en sentidos opuestos del mismo producto no se bloquean mutuamente.
func TestTransferStock_TrasladosInversosConcurrentes(t *testing.T) {
	f := newFixture(t, memory.WithLockTimeout(5*time.Second))
	f.seed(t, storeA, productP, 100)
	f.seed(t, storeB, productP, 100)

	var g errgroup.Group
	for i := 0; i < 40; i++ {
		from, to := storeA, storeB
		if i%2 == 1 {
			from, to = storeB, storeA
		}
		g.Go(func() error {
			_, err := f.stock.TransferStock(context.Background(), transfer(from, to, productP, 1))
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(100), f.balance(t, storeA, productP))
	assert.Equal(t, int64(100), f.balance(t, storeB, productP))
	assert.Len(t, f.movements(t, repository.MovementFilter{Type: entity.MovementTransferOut}), 40)
	f.assertLedgerConsistent(t)
}

// Claves disjuntas avanzan en paralelo y el saldo nunca queda negativo.
func TestStockUseCase_MezclaConcurrenteNoDejaNegativos(t *testing.T) {
	f := newFixture(t)
	products := []string{"p1", "p2", "p3"}
	for _, p := range products {
		f.seed(t, storeA, p, 3)
	}

	var g errgroup.Group
	for i := 0; i < 30; i++ {
		p := products[i%len(products)]
		switch i % 3 {
		case 0:
			g.Go(func() error {
				_, err := f.stock.SellStock(context.Background(), sell(storeA, p, 2))
				if errors.Is(err, domain.ErrInsufficientStock) {
					return nil
				}
				return err
			})
		case 1:
			g.Go(func() error {
				_, err := f.stock.TransferStock(context.Background(), transfer(storeA, storeB, p, 1))
				if errors.Is(err, domain.ErrInsufficientStock) {
					return nil
				}
				return err
			})
		default:
			g.Go(func() error {
				_, err := f.stock.AdjustStock(context.Background(), inventory.AdjustInput{
					StoreID: storeA,
					Reason:  "recuento",
					Items:   []inventory.AdjustItem{{ProductID: p, Quantity: 1}},
				})
				return err
			})
		}
	}
	require.NoError(t, g.Wait())

	balances, err := f.query.ListBalances(context.Background(), repository.BalanceFilter{})
	require.NoError(t, err)
	for _, b := range balances {
		assert.GreaterOrEqual(t, b.Quantity, int64(0), "saldo negativo en %s", b.Key())
	}
	f.assertLedgerConsistent(t)
}

// holdLock toma el bloqueo de la clave en otra transacción hasta que se cierre release.
func holdLock(t *testing.T, store *memory.Store, key entity.StockKey) (release func() error) {
	t.Helper()
	locked := make(chan struct{})
	done := make(chan struct{})
	finished := make(chan error, 1)
	go func() {
		finished <- store.Run(context.Background(), func(uow repository.UnitOfWork) error {
			if _, err := uow.Stock.GetForUpdate(context.Background(), key); err != nil {
				return err
			}
			close(locked)
			<-done
			return nil
		})
	}()
	<-locked
	return func() error {
		close(done)
		return <-finished
	}
}

func TestStockUseCase_ConflictoAgotaReintentos(t *testing.T) {
	store := memory.New(memory.WithLockTimeout(20 * time.Millisecond))
	repos := store.Repositories()
	policy := inventory.RetryPolicy{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
	uc := inventory.NewStockUseCase(store, repos.Stock, nil, policy, nil)
	query := inventory.NewQueryUseCase(repos, store)

	release := holdLock(t, store, entity.StockKey{StoreID: storeA, ProductID: productP})
	defer func() { require.NoError(t, release()) }()

	_, err := uc.ReceiveStock(context.Background(), inventory.ReceiveInput{
		StoreID:    storeA,
		SupplierID: "prov-1",
		Items:      []inventory.ReceiveItem{{ProductID: productP, Quantity: 1}},
	})

	require.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	entries, err := query.ListEntries(context.Background(), repository.DocumentFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries, "un intento fallido no deja la cabecera")
}

func TestStockUseCase_ReintentoTrasLiberarBloqueo(t *testing.T) {
	store := memory.New(memory.WithLockTimeout(40 * time.Millisecond))
	repos := store.Repositories()
	policy := inventory.RetryPolicy{MaxRetries: 10, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond}
	uc := inventory.NewStockUseCase(store, repos.Stock, nil, policy, nil)
	query := inventory.NewQueryUseCase(repos, store)

	release := holdLock(t, store, entity.StockKey{StoreID: storeA, ProductID: productP})
	released := make(chan error, 1)
	time.AfterFunc(60*time.Millisecond, func() { released <- release() })

	entry, err := uc.ReceiveStock(context.Background(), inventory.ReceiveInput{
		StoreID:    storeA,
		SupplierID: "prov-1",
		Items:      []inventory.ReceiveItem{{ProductID: productP, Quantity: 4}},
	})
	require.NoError(t, err)
	require.NoError(t, <-released)

	entries, err := query.ListEntries(context.Background(), repository.DocumentFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1, "los intentos fallidos no duplican la cabecera")
	assert.Equal(t, entry.ID, entries[0].ID)
	b, err := query.GetBalance(context.Background(), entity.StockKey{StoreID: storeA, ProductID: productP})
	require.NoError(t, err)
	assert.Equal(t, int64(4), b.Quantity)
}
