package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// AdjustItem línea de ajuste: Quantity positiva genera adjustment_in, negativa adjustment_out.
type AdjustItem struct {
	ProductID string
	Quantity  int64
}

// AdjustInput entrada para AdjustStock.
type AdjustInput struct {
	StoreID string
	Reason  string
	UserID  string
	Items   []AdjustItem
}

// AdjustStock corrige saldos (conteo físico, mermas). No hay pre-validación: el ledger rechaza
// cualquier ajuste negativo que deje el saldo bajo cero y se revierte el ajuste completo.
func (uc *StockUseCase) AdjustStock(ctx context.Context, in AdjustInput) (out *entity.Adjustment, err error) {
	ctx, span := tracer.Start(ctx, "inventory.AdjustStock", trace.WithAttributes(
		attribute.String("stock.store_id", in.StoreID),
		attribute.Int("stock.lines", len(in.Items)),
	))
	defer func() { endSpan(span, err) }()

	if in.StoreID == "" {
		return nil, domain.Invalid("store_id", "es requerido")
	}
	if in.Reason == "" {
		return nil, domain.Invalid("reason", "es requerido")
	}
	if err := validateLines(len(in.Items)); err != nil {
		return nil, err
	}
	for i, item := range in.Items {
		if item.ProductID == "" {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].product_id", i), "es requerido")
		}
		if item.Quantity == 0 {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].quantity", i), "no puede ser cero")
		}
	}
	if err := uc.ensureStores(ctx, in.StoreID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	adj := &entity.Adjustment{
		ID:        uuid.New().String(),
		StoreID:   in.StoreID,
		Reason:    in.Reason,
		CreatedBy: in.UserID,
		CreatedAt: now,
	}
	keys := make([]entity.StockKey, 0, len(in.Items))
	for _, item := range in.Items {
		adj.Items = append(adj.Items, entity.AdjustmentItem{
			ID:           uuid.New().String(),
			AdjustmentID: adj.ID,
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
		})
		keys = append(keys, entity.StockKey{StoreID: in.StoreID, ProductID: item.ProductID})
	}

	ref := entity.Reference{Type: entity.ReferenceAdjustment, ID: adj.ID}
	err = runInTx(ctx, uc.txRunner, uc.retry, uc.log, "adjust_stock", func(uow repository.UnitOfWork) error {
		if err := uow.Adjustments.Create(ctx, adj); err != nil {
			return err
		}
		if err := uc.ledger.LockKeys(ctx, uow, keys); err != nil {
			return err
		}
		for _, item := range adj.Items {
			mt, qty := entity.MovementAdjustmentIn, item.Quantity
			if qty < 0 {
				mt, qty = entity.MovementAdjustmentOut, -qty
			}
			if _, err := uc.ledger.PostMovement(ctx, uow, MovementInput{
				ProductID: item.ProductID,
				StoreID:   adj.StoreID,
				Type:      mt,
				Quantity:  qty,
				Reference: ref,
				Notes:     adj.Reason,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("adjustment_id", adj.ID).Str("store_id", adj.StoreID).Int("lines", len(adj.Items)).Msg("ajuste registrado")
	return adj, nil
}
