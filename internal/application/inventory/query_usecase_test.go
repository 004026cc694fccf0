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
)

func TestQueryMovements_OrdenYFiltros(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, storeA, productP, 10)
	f.seed(t, storeA, "otro", 3)
	sale, err := f.stock.SellStock(ctx, sell(storeA, productP, 4))
	require.NoError(t, err)
	_, err = f.stock.TransferStock(ctx, transfer(storeA, storeB, productP, 2))
	require.NoError(t, err)

	all := f.movements(t, repository.MovementFilter{})
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].OccurredAt.After(all[i-1].OccurredAt), "orden descendente por occurred_at")
	}
	assert.Equal(t, entity.MovementEntry, all[len(all)-1].Type)

	byProduct := f.movements(t, repository.MovementFilter{ProductID: productP, StoreID: storeA})
	require.Len(t, byProduct, 3)
	assert.Equal(t, entity.MovementTransferOut, byProduct[0].Type)
	assert.Equal(t, entity.MovementSale, byProduct[1].Type)
	assert.Equal(t, entity.MovementEntry, byProduct[2].Type)

	byType := f.movements(t, repository.MovementFilter{Type: entity.MovementTransferIn})
	require.Len(t, byType, 1)
	assert.Equal(t, storeB, byType[0].StoreID)

	byRef := f.movements(t, repository.MovementFilter{ReferenceType: entity.ReferenceSale, ReferenceID: sale.ID})
	require.Len(t, byRef, 1)
	assert.Equal(t, int64(4), byRef[0].Quantity)

	paged := f.movements(t, repository.MovementFilter{Limit: 2, Offset: 1})
	require.Len(t, paged, 2)
	assert.Equal(t, all[1].ID, paged[0].ID)
	assert.Equal(t, all[2].ID, paged[1].ID)
}

func TestQueryMovements_FiltrosInvalidos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.query.QueryMovements(ctx, repository.MovementFilter{Type: entity.MovementType(42)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.query.QueryMovements(ctx, repository.MovementFilter{ReferenceType: "factura"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.query.QueryMovements(ctx, repository.MovementFilter{Limit: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.query.MovementsByReference(ctx, entity.Reference{Type: entity.ReferenceSale})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetMovement(t *testing.T) {
	f := newFixture(t)
	f.seed(t, storeA, productP, 1)
	all := f.movements(t, repository.MovementFilter{})
	require.Len(t, all, 1)

	got, err := f.query.GetMovement(context.Background(), all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, all[0].ID, got.ID)

	_, err = f.query.GetMovement(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBalances_ConsultaYListado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, storeA, "p1", 1)
	f.seed(t, storeA, "p2", 2)
	f.seed(t, storeB, "p1", 3)

	_, err := f.query.GetBalance(ctx, entity.StockKey{StoreID: storeA})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := f.query.ListBalances(ctx, repository.BalanceFilter{StoreID: storeA})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "p1", list[0].ProductID)
	assert.Equal(t, "p2", list[1].ProductID)

	list, err = f.query.ListBalances(ctx, repository.BalanceFilter{ProductID: "p1"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, storeA, list[0].StoreID)
	assert.Equal(t, storeB, list[1].StoreID)
}

func TestDocuments_ConsultaYFiltros(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, storeA, productP, 10)
	f.seed(t, storeB, productP, 10)
	sale, err := f.stock.SellStock(ctx, sell(storeA, productP, 1))
	require.NoError(t, err)
	dist, err := f.stock.TransferStock(ctx, transfer(storeB, storeA, productP, 2))
	require.NoError(t, err)

	entries, err := f.query.ListEntries(ctx, repository.DocumentFilter{StoreID: storeB})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, storeB, entries[0].StoreID)
	require.Len(t, entries[0].Items, 1)

	got, err := f.query.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "cliente-1", got.ClientID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, sale.ID, got.Items[0].SaleID)

	sales, err := f.query.ListSales(ctx, repository.DocumentFilter{PartnerID: "otro-cliente"})
	require.NoError(t, err)
	assert.Empty(t, sales)

	dists, err := f.query.ListDistributions(ctx, repository.DocumentFilter{ToStoreID: storeA})
	require.NoError(t, err)
	require.Len(t, dists, 1)
	assert.Equal(t, dist.ID, dists[0].ID)

	_, err = f.query.ListEntries(ctx, repository.DocumentFilter{Offset: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.query.ListSales(ctx, repository.DocumentFilter{Limit: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.query.ListDistributions(ctx, repository.DocumentFilter{Offset: -5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.query.GetEntry(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.query.GetDistribution(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.query.GetAdjustment(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerifyLedger_DetectaSaldoAlterado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, storeA, productP, 5)
	f.assertLedgerConsistent(t)

	// Escritura directa que no pasa por el ledger.
	err := f.store.Repositories().Stock.Upsert(ctx, &entity.StockBalance{StoreID: storeA, ProductID: productP, Quantity: 9})
	require.NoError(t, err)

	drifts, err := f.query.VerifyLedger(ctx)
	require.NoError(t, err)
	require.Len(t, drifts, 1)
	assert.Equal(t, entity.StockKey{StoreID: storeA, ProductID: productP}, drifts[0].Key)
	assert.Equal(t, int64(9), drifts[0].Balance)
	assert.Equal(t, int64(5), drifts[0].Replayed)
	assert.False(t, drifts[0].Broken)
}

// interleavedSnapshots confirma otra operación justo después de que la verificación leyó los saldos.
type interleavedSnapshots struct {
	inner         inventory.SnapshotRunner
	afterBalances func()
}

func (r interleavedSnapshots) RunSnapshot(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return r.inner.RunSnapshot(ctx, func(uow repository.UnitOfWork) error {
		uow.Stock = stockListHook{StockRepository: uow.Stock, after: r.afterBalances}
		return fn(uow)
	})
}

type stockListHook struct {
	repository.StockRepository
	after func()
}

func (h stockListHook) List(ctx context.Context, filter repository.BalanceFilter) ([]*entity.StockBalance, error) {
	list, err := h.StockRepository.List(ctx, filter)
	if err == nil {
		h.after()
	}
	return list, err
}

func TestVerifyLedger_CommitDuranteLaVerificacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, storeA, productP, 5)

	query := inventory.NewQueryUseCase(f.store.Repositories(), interleavedSnapshots{
		inner: f.store,
		afterBalances: func() {
			_, err := f.stock.ReceiveStock(ctx, inventory.ReceiveInput{
				StoreID:    storeA,
				SupplierID: "prov-1",
				Items:      []inventory.ReceiveItem{{ProductID: productP, Quantity: 3}},
			})
			require.NoError(t, err)
		},
	})

	drifts, err := query.VerifyLedger(ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts, "saldos e historial salen de la misma foto")

	assert.Equal(t, int64(8), f.balance(t, storeA, productP))
	f.assertLedgerConsistent(t)
}

func TestReplay(t *testing.T) {
	now := time.Now()
	history := []*entity.StockMovement{
		{Type: entity.MovementEntry, Quantity: 10, StockBefore: 0, StockAfter: 10, OccurredAt: now},
		{Type: entity.MovementSale, Quantity: 3, StockBefore: 10, StockAfter: 7, OccurredAt: now},
		{Type: entity.MovementAdjustmentIn, Quantity: 1, StockBefore: 7, StockAfter: 8, OccurredAt: now},
	}

	total, broken := inventory.Replay(history)
	assert.Equal(t, int64(8), total)
	assert.False(t, broken)

	history[1].StockBefore = 9
	total, broken = inventory.Replay(history)
	assert.Equal(t, int64(8), total)
	assert.True(t, broken)

	total, broken = inventory.Replay(nil)
	assert.Zero(t, total)
	assert.False(t, broken)
}
