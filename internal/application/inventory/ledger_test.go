package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

func post(t *testing.T, store *memory.Store, in inventory.MovementInput) (*entity.StockMovement, error) {
	t.Helper()
	var mov *entity.StockMovement
	err := store.Run(context.Background(), func(uow repository.UnitOfWork) error {
		var err error
		mov, err = inventory.NewLedger().PostMovement(context.Background(), uow, in)
		return err
	})
	return mov, err
}

func validInput() inventory.MovementInput {
	return inventory.MovementInput{
		ProductID: productP,
		StoreID:   storeA,
		Type:      entity.MovementEntry,
		Quantity:  4,
		Reference: entity.Reference{Type: entity.ReferenceEntry, ID: "e1"},
	}
}

func TestPostMovement_CreditoYDebito(t *testing.T) {
	store := memory.New()

	in := validInput()
	mov, err := post(t, store, in)
	require.NoError(t, err)
	assert.Equal(t, int64(0), mov.StockBefore)
	assert.Equal(t, int64(4), mov.StockAfter)
	assert.False(t, mov.OccurredAt.IsZero())
	assert.NotEmpty(t, mov.ID)

	in.Type, in.Quantity = entity.MovementSale, 4
	in.Reference = entity.Reference{Type: entity.ReferenceSale, ID: "s1"}
	mov, err = post(t, store, in)
	require.NoError(t, err)
	assert.Equal(t, int64(4), mov.StockBefore)
	assert.Equal(t, int64(0), mov.StockAfter, "llegar exactamente a cero está permitido")

	_, err = post(t, store, in)
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(0), insufficient.Available)
}

func TestPostMovement_Validaciones(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*inventory.MovementInput)
		field  string
	}{
		{"tipo cero", func(in *inventory.MovementInput) { in.Type = 0 }, "movement_type"},
		{"tipo fuera de rango", func(in *inventory.MovementInput) { in.Type = entity.MovementType(7) }, "movement_type"},
		{"cantidad cero", func(in *inventory.MovementInput) { in.Quantity = 0 }, "quantity"},
		{"cantidad negativa", func(in *inventory.MovementInput) { in.Quantity = -2 }, "quantity"},
		{"sin producto", func(in *inventory.MovementInput) { in.ProductID = "" }, "product_id"},
		{"sin tienda", func(in *inventory.MovementInput) { in.StoreID = "" }, "store_id"},
		{"referencia inválida", func(in *inventory.MovementInput) { in.Reference.Type = "factura" }, "reference"},
		{"referencia sin id", func(in *inventory.MovementInput) { in.Reference.ID = "" }, "reference"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := memory.New()
			in := validInput()
			tc.mutate(&in)

			_, err := post(t, store, in)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
			movs, err := store.Repositories().Movements.List(context.Background(), repository.MovementFilter{})
			require.NoError(t, err)
			assert.Empty(t, movs)
		})
	}
}

// Un reloj que retrocede no desordena el historial de la clave.
func TestPostMovement_RelojQueRetrocede(t *testing.T) {
	store := memory.New()
	base := time.Now().UTC().Add(time.Hour)
	clock := []time.Time{base, base.Add(-30 * time.Minute), base.Add(time.Minute)}
	ledger := inventory.NewLedgerWithClock(func() time.Time {
		now := clock[0]
		clock = clock[1:]
		return now
	})

	for i, typ := range []entity.MovementType{entity.MovementEntry, entity.MovementSale, entity.MovementEntry} {
		in := validInput()
		in.Type, in.Quantity = typ, int64(3-i)
		in.Reference.ID = "doc-" + string(rune('a'+i))
		err := store.Run(context.Background(), func(uow repository.UnitOfWork) error {
			_, err := ledger.PostMovement(context.Background(), uow, in)
			return err
		})
		require.NoError(t, err)
	}

	history, err := store.Repositories().Movements.ListByKey(context.Background(), entity.StockKey{StoreID: storeA, ProductID: productP})
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.True(t, history[1].OccurredAt.Equal(base), "la hora se ajusta a la del último movimiento de la clave")
	assert.True(t, history[2].OccurredAt.Equal(base.Add(time.Minute)))
	assert.Equal(t, []string{"doc-a", "doc-b", "doc-c"}, []string{history[0].Reference.ID, history[1].Reference.ID, history[2].Reference.ID})

	total, broken := inventory.Replay(history)
	assert.Equal(t, int64(2), total)
	assert.False(t, broken)
}

func TestLockKeys_ClavesRepetidas(t *testing.T) {
	store := memory.New()
	keys := []entity.StockKey{
		{StoreID: storeB, ProductID: "p2"},
		{StoreID: storeA, ProductID: "p1"},
		{StoreID: storeB, ProductID: "p2"},
	}

	err := store.Run(context.Background(), func(uow repository.UnitOfWork) error {
		return inventory.NewLedger().LockKeys(context.Background(), uow, keys)
	})
	require.NoError(t, err)

	balances, err := store.Repositories().Stock.List(context.Background(), repository.BalanceFilter{})
	require.NoError(t, err)
	require.Len(t, balances, 2, "bloquear crea la fila en 0")
	assert.Equal(t, storeA, balances[0].StoreID)
}

func TestAvailability_Check(t *testing.T) {
	f := newFixture(t)
	f.seed(t, storeA, "p1", 5)
	f.seed(t, storeA, "p2", 1)
	check := f.stock.Availability()

	assert.NoError(t, check.Check(context.Background(), storeA, []inventory.LineQuantity{{ProductID: "p1", Quantity: 5}, {ProductID: "p2", Quantity: 1}}))

	err := check.Check(context.Background(), storeA, []inventory.LineQuantity{{ProductID: "p2", Quantity: 2}, {ProductID: "p1", Quantity: 9}})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "p2", insufficient.ProductID, "se reporta el primer faltante en el orden de las líneas")

	err = check.Check(context.Background(), storeB, []inventory.LineQuantity{{ProductID: "p1", Quantity: 1}})
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(0), insufficient.Available)
}
