package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateEntryRequest body para POST /api/entries.
type CreateEntryRequest struct {
	StoreID       string              `json:"store_id" validate:"required"`
	SupplierID    string              `json:"supplier_id" validate:"required"`
	InvoiceNumber string              `json:"invoice_number,omitempty"`
	Status        string              `json:"status,omitempty" validate:"omitempty,oneof=pending completed cancelled"`
	EntryDate     *time.Time          `json:"entry_date,omitempty"`
	Items         []PricedItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PricedItemRequest línea con precio (entradas y ventas). total_price es opcional: por defecto quantity × unit_price.
type PricedItemRequest struct {
	ProductID  string           `json:"product_id" validate:"required"`
	Quantity   int64            `json:"quantity" validate:"gt=0"`
	UnitPrice  decimal.Decimal  `json:"unit_price"`
	TotalPrice *decimal.Decimal `json:"total_price,omitempty"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	StoreID      string              `json:"store_id" validate:"required"`
	ClientID     string              `json:"client_id" validate:"required"`
	DeliveryType string              `json:"delivery_type,omitempty"`
	TrackingCode string              `json:"tracking_code,omitempty"`
	Status       string              `json:"status,omitempty" validate:"omitempty,oneof=pending completed cancelled"`
	SaleDate     *time.Time          `json:"sale_date,omitempty"`
	Items        []PricedItemRequest `json:"items" validate:"required,min=1,dive"`

	PredictedDelivery *time.Time `json:"predicted_delivery,omitempty"`
	DeliveredAt       *time.Time `json:"delivered_at,omitempty"`
}

// CreateDistributionRequest body para POST /api/internal-distributions.
type CreateDistributionRequest struct {
	FromStoreID      string                `json:"from_store_id" validate:"required"`
	ToStoreID        string                `json:"to_store_id" validate:"required,nefield=FromStoreID"`
	Status           string                `json:"status,omitempty" validate:"omitempty,oneof=pending completed cancelled"`
	DistributionDate *time.Time            `json:"distribution_date,omitempty"`
	Items            []QuantityItemRequest `json:"items" validate:"required,min=1,dive"`
}

// QuantityItemRequest línea sin precio.
type QuantityItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"gt=0"`
}

// CreateAdjustmentRequest body para POST /api/adjustments.
type CreateAdjustmentRequest struct {
	StoreID string                  `json:"store_id" validate:"required"`
	Reason  string                  `json:"reason" validate:"required"`
	Items   []AdjustmentItemRequest `json:"items" validate:"required,min=1,dive"`
}

// AdjustmentItemRequest Quantity positiva suma, negativa resta.
type AdjustmentItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"ne=0"`
}

// MovementQuery filtros de GET /api/movements.
type MovementQuery struct {
	ProductID     string `query:"product_id"`
	StoreID       string `query:"store_id"`
	MovementType  string `query:"movement_type"`
	ReferenceType string `query:"reference_type" validate:"omitempty,oneof=entry sale distribution adjustment"`
	ReferenceID   string `query:"reference_id"`
	PageRequest
}

// BalanceQuery filtros de GET /api/stock.
type BalanceQuery struct {
	StoreID   string `query:"store_id"`
	ProductID string `query:"product_id"`
	PageRequest
}

// DocumentQuery filtros de los listados de entradas, ventas y distribuciones.
type DocumentQuery struct {
	StoreID   string `query:"store_id"`
	ToStoreID string `query:"to_store_id"`
	PartnerID string `query:"partner_id"` // proveedor o cliente
	Status    string `query:"status" validate:"omitempty,oneof=pending completed cancelled"`
	PageRequest
}
