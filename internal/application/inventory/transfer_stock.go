package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TransferItem línea de una distribución interna.
type TransferItem struct {
	ProductID string
	Quantity  int64
}

// TransferInput entrada para TransferStock.
type TransferInput struct {
	FromStoreID      string
	ToStoreID        string
	Status           string
	DistributionDate *time.Time
	UserID           string
	Items            []TransferItem
}

// TransferStock traslada mercancía entre dos tiendas. Por cada línea registra transfer_out en origen y
// transfer_in en destino, ambos con la referencia {distribution, id} para poder conciliarlos en auditoría.
// Las claves de ambas tiendas se bloquean en orden (tienda, producto) antes de mover, así dos traslados
// inversos del mismo producto no se bloquean mutuamente.
func (uc *StockUseCase) TransferStock(ctx context.Context, in TransferInput) (out *entity.Distribution, err error) {
	ctx, span := tracer.Start(ctx, "inventory.TransferStock", trace.WithAttributes(
		attribute.String("stock.from_store_id", in.FromStoreID),
		attribute.String("stock.to_store_id", in.ToStoreID),
		attribute.Int("stock.lines", len(in.Items)),
	))
	defer func() { endSpan(span, err) }()

	if in.FromStoreID == "" {
		return nil, domain.Invalid("from_store_id", "es requerido")
	}
	if in.ToStoreID == "" {
		return nil, domain.Invalid("to_store_id", "es requerido")
	}
	if in.FromStoreID == in.ToStoreID {
		return nil, domain.Invalid("to_store_id", "debe ser distinta de la tienda origen")
	}
	if err := validateLines(len(in.Items)); err != nil {
		return nil, err
	}
	lines := make([]LineQuantity, 0, len(in.Items))
	for i, item := range in.Items {
		if err := validateLine(i, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, LineQuantity{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	if err := uc.ensureStores(ctx, in.FromStoreID, in.ToStoreID); err != nil {
		return nil, err
	}
	if err := uc.availability.Check(ctx, in.FromStoreID, lines); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	dist := &entity.Distribution{
		ID:               uuid.New().String(),
		FromStoreID:      in.FromStoreID,
		ToStoreID:        in.ToStoreID,
		Status:           defaultStatus(in.Status),
		DistributionDate: now,
		CreatedBy:        in.UserID,
		CreatedAt:        now,
	}
	if in.DistributionDate != nil {
		dist.DistributionDate = in.DistributionDate.UTC()
	}
	keys := make([]entity.StockKey, 0, 2*len(in.Items))
	for _, item := range in.Items {
		dist.Items = append(dist.Items, entity.DistributionItem{
			ID:             uuid.New().String(),
			DistributionID: dist.ID,
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
		})
		keys = append(keys,
			entity.StockKey{StoreID: in.FromStoreID, ProductID: item.ProductID},
			entity.StockKey{StoreID: in.ToStoreID, ProductID: item.ProductID},
		)
	}

	ref := entity.Reference{Type: entity.ReferenceDistribution, ID: dist.ID}
	err = runInTx(ctx, uc.txRunner, uc.retry, uc.log, "transfer_stock", func(uow repository.UnitOfWork) error {
		if err := uow.Distributions.Create(ctx, dist); err != nil {
			return err
		}
		if err := uc.ledger.LockKeys(ctx, uow, keys); err != nil {
			return err
		}
		for _, item := range dist.Items {
			if _, err := uc.ledger.PostMovement(ctx, uow, MovementInput{
				ProductID: item.ProductID,
				StoreID:   dist.FromStoreID,
				Type:      entity.MovementTransferOut,
				Quantity:  item.Quantity,
				Reference: ref,
				Notes:     "Transferencia a tienda " + dist.ToStoreID,
			}); err != nil {
				return err
			}
			if _, err := uc.ledger.PostMovement(ctx, uow, MovementInput{
				ProductID: item.ProductID,
				StoreID:   dist.ToStoreID,
				Type:      entity.MovementTransferIn,
				Quantity:  item.Quantity,
				Reference: ref,
				Notes:     "Transferencia desde tienda " + dist.FromStoreID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("distribution_id", dist.ID).Str("from_store_id", dist.FromStoreID).
		Str("to_store_id", dist.ToStoreID).Int("lines", len(dist.Items)).Msg("distribución registrada")
	return dist, nil
}
