package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de las cabeceras de documentos de inventario.
const (
	DocumentStatusPending   = "pending"
	DocumentStatusCompleted = "completed"
	DocumentStatusCancelled = "cancelled"
)

// Entry cabecera de una entrada de mercancía (compra a proveedor).
type Entry struct {
	ID            string          `json:"id"`
	StoreID       string          `json:"store_id"`
	SupplierID    string          `json:"supplier_id"`
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	Status        string          `json:"status"`
	EntryDate     time.Time       `json:"entry_date"`
	TotalValue    decimal.Decimal `json:"total_value"`
	CreatedBy     string          `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	Items         []EntryItem     `json:"items"`
}

// EntryItem línea de una entrada.
type EntryItem struct {
	ID         string          `json:"id"`
	EntryID    string          `json:"entry_id"`
	ProductID  string          `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Sale cabecera de una venta.
type Sale struct {
	ID           string          `json:"id"`
	StoreID      string          `json:"store_id"`
	ClientID     string          `json:"client_id"`
	DeliveryType string          `json:"delivery_type,omitempty"`
	TrackingCode string          `json:"tracking_code,omitempty"`
	Status       string          `json:"status"`
	SaleDate     time.Time       `json:"sale_date"`

	// Fechas de entrega: informativas, no afectan al stock.
	PredictedDelivery *time.Time      `json:"predicted_delivery,omitempty"`
	DeliveredAt       *time.Time      `json:"delivered_at,omitempty"`
	TotalValue        decimal.Decimal `json:"total_value"`
	CreatedBy         string          `json:"created_by,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	Items             []SaleItem      `json:"items"`
}

// SaleItem línea de una venta.
type SaleItem struct {
	ID         string          `json:"id"`
	SaleID     string          `json:"sale_id"`
	ProductID  string          `json:"product_id"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Distribution cabecera de una distribución interna (traslado entre tiendas).
type Distribution struct {
	ID               string             `json:"id"`
	FromStoreID      string             `json:"from_store_id"`
	ToStoreID        string             `json:"to_store_id"`
	Status           string             `json:"status"`
	DistributionDate time.Time          `json:"distribution_date"`
	CreatedBy        string             `json:"created_by,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	Items            []DistributionItem `json:"items"`
}

// DistributionItem línea de una distribución interna.
type DistributionItem struct {
	ID             string `json:"id"`
	DistributionID string `json:"distribution_id"`
	ProductID      string `json:"product_id"`
	Quantity       int64  `json:"quantity"`
}

// Adjustment cabecera de un ajuste manual de inventario.
type Adjustment struct {
	ID        string           `json:"id"`
	StoreID   string           `json:"store_id"`
	Reason    string           `json:"reason"`
	CreatedBy string           `json:"created_by,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	Items     []AdjustmentItem `json:"items"`
}

// AdjustmentItem línea de un ajuste. Quantity positiva suma, negativa resta.
type AdjustmentItem struct {
	ID           string `json:"id"`
	AdjustmentID string `json:"adjustment_id"`
	ProductID    string `json:"product_id"`
	Quantity     int64  `json:"quantity"`
}
