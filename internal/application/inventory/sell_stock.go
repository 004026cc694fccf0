package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// SellItem línea de una venta.
type SellItem struct {
	ProductID  string
	Quantity   int64
	UnitPrice  decimal.Decimal
	TotalPrice *decimal.Decimal
}

// SellInput entrada para SellStock.
type SellInput struct {
	StoreID      string
	ClientID     string
	DeliveryType string
	TrackingCode string
	Status       string
	SaleDate     *time.Time
	UserID       string
	Items        []SellItem

	PredictedDelivery *time.Time
	DeliveredAt       *time.Time
}

// SellStock registra una venta. Primero valida disponibilidad en la tienda para todas las líneas;
// si falta stock no persiste nada y retorna *domain.InsufficientStockError.
// Si el débito falla dentro de la transacción (otra operación ganó la carrera) la venta completa se revierte
// con el mismo error.
func (uc *StockUseCase) SellStock(ctx context.Context, in SellInput) (out *entity.Sale, err error) {
	ctx, span := tracer.Start(ctx, "inventory.SellStock", trace.WithAttributes(
		attribute.String("stock.store_id", in.StoreID),
		attribute.Int("stock.lines", len(in.Items)),
	))
	defer func() { endSpan(span, err) }()

	if in.StoreID == "" {
		return nil, domain.Invalid("store_id", "es requerido")
	}
	if in.ClientID == "" {
		return nil, domain.Invalid("client_id", "es requerido")
	}
	if err := validateLines(len(in.Items)); err != nil {
		return nil, err
	}
	lines := make([]LineQuantity, 0, len(in.Items))
	for i, item := range in.Items {
		if err := validateLine(i, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
		if item.UnitPrice.IsNegative() {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].unit_price", i), "no puede ser negativo")
		}
		lines = append(lines, LineQuantity{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	if err := uc.ensureStores(ctx, in.StoreID); err != nil {
		return nil, err
	}
	if err := uc.availability.Check(ctx, in.StoreID, lines); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sale := &entity.Sale{
		ID:           uuid.New().String(),
		StoreID:      in.StoreID,
		ClientID:     in.ClientID,
		DeliveryType: in.DeliveryType,
		TrackingCode: in.TrackingCode,
		Status:       defaultStatus(in.Status),
		SaleDate:     now,
		TotalValue:   decimal.Zero,
		CreatedBy:    in.UserID,
		CreatedAt:    now,
	}
	if in.SaleDate != nil {
		sale.SaleDate = in.SaleDate.UTC()
	}
	if in.PredictedDelivery != nil {
		t := in.PredictedDelivery.UTC()
		sale.PredictedDelivery = &t
	}
	if in.DeliveredAt != nil {
		if in.DeliveredAt.Before(sale.SaleDate) {
			return nil, domain.Invalid("delivered_at", "no puede ser anterior a sale_date")
		}
		t := in.DeliveredAt.UTC()
		sale.DeliveredAt = &t
	}
	keys := make([]entity.StockKey, 0, len(in.Items))
	for _, item := range in.Items {
		total := lineTotal(item.Quantity, item.UnitPrice, item.TotalPrice)
		sale.Items = append(sale.Items, entity.SaleItem{
			ID:         uuid.New().String(),
			SaleID:     sale.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: total,
		})
		sale.TotalValue = sale.TotalValue.Add(total)
		keys = append(keys, entity.StockKey{StoreID: in.StoreID, ProductID: item.ProductID})
	}

	ref := entity.Reference{Type: entity.ReferenceSale, ID: sale.ID}
	err = runInTx(ctx, uc.txRunner, uc.retry, uc.log, "sell_stock", func(uow repository.UnitOfWork) error {
		if err := uow.Sales.Create(ctx, sale); err != nil {
			return err
		}
		if err := uc.ledger.LockKeys(ctx, uow, keys); err != nil {
			return err
		}
		for _, item := range sale.Items {
			if _, err := uc.ledger.PostMovement(ctx, uow, MovementInput{
				ProductID: item.ProductID,
				StoreID:   sale.StoreID,
				Type:      entity.MovementSale,
				Quantity:  item.Quantity,
				Reference: ref,
				Notes:     "Venta #" + sale.ID + " - Cliente: " + sale.ClientID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("sale_id", sale.ID).Str("store_id", sale.StoreID).Int("lines", len(sale.Items)).Msg("venta registrada")
	return sale, nil
}
