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

// ReceiveItem línea de una entrada de mercancía.
type ReceiveItem struct {
	ProductID  string
	Quantity   int64
	UnitPrice  decimal.Decimal
	TotalPrice *decimal.Decimal
}

// ReceiveInput entrada para ReceiveStock.
type ReceiveInput struct {
	StoreID       string
	SupplierID    string
	InvoiceNumber string
	Status        string
	EntryDate     *time.Time
	UserID        string
	Items         []ReceiveItem
}

// ReceiveStock registra una entrada de mercancía: cabecera, líneas y un movimiento entry por línea.
// No hay verificación previa de disponibilidad; solo falla por validación, tienda inexistente o conflicto agotado.
func (uc *StockUseCase) ReceiveStock(ctx context.Context, in ReceiveInput) (out *entity.Entry, err error) {
	ctx, span := tracer.Start(ctx, "inventory.ReceiveStock", trace.WithAttributes(
		attribute.String("stock.store_id", in.StoreID),
		attribute.Int("stock.lines", len(in.Items)),
	))
	defer func() { endSpan(span, err) }()

	if in.StoreID == "" {
		return nil, domain.Invalid("store_id", "es requerido")
	}
	if in.SupplierID == "" {
		return nil, domain.Invalid("supplier_id", "es requerido")
	}
	if err := validateLines(len(in.Items)); err != nil {
		return nil, err
	}
	for i, item := range in.Items {
		if err := validateLine(i, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
		if item.UnitPrice.IsNegative() {
			return nil, domain.Invalid(fmt.Sprintf("items[%d].unit_price", i), "no puede ser negativo")
		}
	}
	if err := uc.ensureStores(ctx, in.StoreID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := &entity.Entry{
		ID:            uuid.New().String(),
		StoreID:       in.StoreID,
		SupplierID:    in.SupplierID,
		InvoiceNumber: in.InvoiceNumber,
		Status:        defaultStatus(in.Status),
		EntryDate:     now,
		TotalValue:    decimal.Zero,
		CreatedBy:     in.UserID,
		CreatedAt:     now,
	}
	if in.EntryDate != nil {
		entry.EntryDate = in.EntryDate.UTC()
	}
	keys := make([]entity.StockKey, 0, len(in.Items))
	for _, item := range in.Items {
		total := lineTotal(item.Quantity, item.UnitPrice, item.TotalPrice)
		entry.Items = append(entry.Items, entity.EntryItem{
			ID:         uuid.New().String(),
			EntryID:    entry.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: total,
		})
		entry.TotalValue = entry.TotalValue.Add(total)
		keys = append(keys, entity.StockKey{StoreID: in.StoreID, ProductID: item.ProductID})
	}

	ref := entity.Reference{Type: entity.ReferenceEntry, ID: entry.ID}
	err = runInTx(ctx, uc.txRunner, uc.retry, uc.log, "receive_stock", func(uow repository.UnitOfWork) error {
		if err := uow.Entries.Create(ctx, entry); err != nil {
			return err
		}
		if err := uc.ledger.LockKeys(ctx, uow, keys); err != nil {
			return err
		}
		for _, item := range entry.Items {
			if _, err := uc.ledger.PostMovement(ctx, uow, MovementInput{
				ProductID: item.ProductID,
				StoreID:   entry.StoreID,
				Type:      entity.MovementEntry,
				Quantity:  item.Quantity,
				Reference: ref,
				Notes:     "Entrada de producto - Proveedor: " + entry.SupplierID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("entry_id", entry.ID).Str("store_id", entry.StoreID).Int("lines", len(entry.Items)).Msg("entrada registrada")
	return entry, nil
}
