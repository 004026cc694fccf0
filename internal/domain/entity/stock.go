package entity

import "time"

// StockKey identifica un saldo: un producto en una tienda.
type StockKey struct {
	StoreID   string
	ProductID string
}

// Less define el orden total usado para adquirir bloqueos sobre varias claves
// (tienda primero, luego producto).
func (k StockKey) Less(o StockKey) bool {
	if k.StoreID != o.StoreID {
		return k.StoreID < o.StoreID
	}
	return k.ProductID < o.ProductID
}

func (k StockKey) String() string {
	return k.StoreID + "/" + k.ProductID
}

// StockBalance es la cantidad actual de un producto en una tienda.
// Quantity nunca es negativa; solo el ledger la modifica.
type StockBalance struct {
	StoreID   string    `json:"store_id"`
	ProductID string    `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Key devuelve la clave (tienda, producto) del saldo.
func (b StockBalance) Key() StockKey {
	return StockKey{StoreID: b.StoreID, ProductID: b.ProductID}
}
