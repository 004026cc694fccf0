package inventory

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var tracer = otel.Tracer("github.com/jhoicas/stock-ledger/internal/application/inventory")

// MovementInput datos que el ledger consume de una línea de documento.
type MovementInput struct {
	ProductID string
	StoreID   string
	Type      entity.MovementType
	Quantity  int64
	Reference entity.Reference
	Notes     string
}

// Ledger es el único escritor de saldos y movimientos.
type Ledger struct {
	now func() time.Time
}

// NewLedger construye el ledger con el reloj del sistema.
func NewLedger() *Ledger {
	return &Ledger{now: time.Now}
}

// PostMovement bloquea el saldo (tienda, producto), lo crea con 0 si no existe, aplica el signo del tipo
// y agrega el movimiento de auditoría en la misma unidad de trabajo.
// Un débito que dejaría el saldo negativo retorna *domain.InsufficientStockError sin escribir nada.
// uow debe venir de TxRunner.Run: fuera de una transacción no hay bloqueo de fila y el saldo y el
// movimiento no se confirman juntos.
func (l *Ledger) PostMovement(ctx context.Context, uow repository.UnitOfWork, in MovementInput) (mov *entity.StockMovement, err error) {
	ctx, span := tracer.Start(ctx, "inventory.PostMovement", trace.WithAttributes(
		attribute.String("stock.store_id", in.StoreID),
		attribute.String("stock.product_id", in.ProductID),
		attribute.String("stock.movement_type", in.Type.String()),
		attribute.Int64("stock.quantity", in.Quantity),
	))
	defer func() { endSpan(span, err) }()

	if err := validateMovement(in); err != nil {
		return nil, err
	}

	key := entity.StockKey{StoreID: in.StoreID, ProductID: in.ProductID}
	balance, err := uow.Stock.GetForUpdate(ctx, key)
	if err != nil {
		return nil, err
	}

	before := balance.Quantity
	if !in.Type.IsDebit() && before > math.MaxInt64-in.Quantity {
		return nil, domain.Invalid("quantity", "desborda el saldo")
	}
	after := before + in.Type.Sign()*in.Quantity
	if in.Type.IsDebit() && after < 0 {
		return nil, &domain.InsufficientStockError{
			StoreID:   in.StoreID,
			ProductID: in.ProductID,
			Available: before,
			Requested: in.Quantity,
		}
	}

	// occurred_at no retrocede dentro de una clave aunque el reloj de esta instancia vaya atrasado.
	now := l.now().UTC()
	if now.Before(balance.UpdatedAt) {
		now = balance.UpdatedAt
	}
	balance.Quantity = after
	balance.UpdatedAt = now
	if err := uow.Stock.Upsert(ctx, balance); err != nil {
		return nil, err
	}

	mov = &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   in.ProductID,
		StoreID:     in.StoreID,
		Type:        in.Type,
		Quantity:    in.Quantity,
		OccurredAt:  now,
		Reference:   in.Reference,
		StockBefore: before,
		StockAfter:  after,
		Notes:       in.Notes,
	}
	if err := uow.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("stock.before", before), attribute.Int64("stock.after", after))
	return mov, nil
}

// LockKeys bloquea todas las claves en orden determinista (tienda, producto) para que dos
// operaciones sobre las mismas claves nunca esperen una a la otra en orden inverso.
func (l *Ledger) LockKeys(ctx context.Context, uow repository.UnitOfWork, keys []entity.StockKey) error {
	sorted := make([]entity.StockKey, 0, len(keys))
	seen := make(map[entity.StockKey]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		sorted = append(sorted, k)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	for _, k := range sorted {
		if _, err := uow.Stock.GetForUpdate(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

func validateMovement(in MovementInput) error {
	if !in.Type.Valid() {
		return domain.Invalid("movement_type", "no reconocido")
	}
	if in.Quantity <= 0 {
		return domain.Invalid("quantity", "debe ser mayor que cero")
	}
	if in.ProductID == "" {
		return domain.Invalid("product_id", "es requerido")
	}
	if in.StoreID == "" {
		return domain.Invalid("store_id", "es requerido")
	}
	if !in.Reference.Type.Valid() || in.Reference.ID == "" {
		return domain.Invalid("reference", "tipo o id inválido")
	}
	return nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
