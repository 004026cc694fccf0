package entity

import "time"

// StockMovement registro de auditoría inmutable de un cambio de stock,
// con la foto del saldo antes y después.
type StockMovement struct {
	ID          string       `json:"id"`
	ProductID   string       `json:"product_id"`
	StoreID     string       `json:"store_id"`
	Type        MovementType `json:"movement_type"`
	Quantity    int64        `json:"quantity"` // siempre positiva; el signo lo da Type
	OccurredAt  time.Time    `json:"occurred_at"`
	Reference   Reference    `json:"reference"`
	StockBefore int64        `json:"stock_before"`
	StockAfter  int64        `json:"stock_after"`
	Notes       string       `json:"notes,omitempty"`
}

// SignedDelta devuelve la variación que el movimiento aplica al saldo.
func (m StockMovement) SignedDelta() int64 {
	return m.Type.Sign() * m.Quantity
}

// Key devuelve la clave (tienda, producto) afectada.
func (m StockMovement) Key() StockKey {
	return StockKey{StoreID: m.StoreID, ProductID: m.ProductID}
}
