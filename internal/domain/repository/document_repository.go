package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// DocumentFilter filtros comunes para listar cabeceras. Limit 0 = sin límite.
type DocumentFilter struct {
	StoreID   string // tienda de la entrada/venta/ajuste, o tienda origen en distribuciones
	ToStoreID string // solo distribuciones
	PartnerID string // proveedor (entradas) o cliente (ventas)
	Status    string
	Limit     int
	Offset    int
}

// EntryRepository persiste entradas de mercancía con sus líneas.
type EntryRepository interface {
	Create(ctx context.Context, entry *entity.Entry) error
	GetByID(ctx context.Context, id string) (*entity.Entry, error)
	List(ctx context.Context, filter DocumentFilter) ([]*entity.Entry, error)
}

// SaleRepository persiste ventas con sus líneas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, filter DocumentFilter) ([]*entity.Sale, error)
}

// DistributionRepository persiste distribuciones internas con sus líneas.
type DistributionRepository interface {
	Create(ctx context.Context, distribution *entity.Distribution) error
	GetByID(ctx context.Context, id string) (*entity.Distribution, error)
	List(ctx context.Context, filter DocumentFilter) ([]*entity.Distribution, error)
}

// AdjustmentRepository persiste ajustes manuales con sus líneas.
type AdjustmentRepository interface {
	Create(ctx context.Context, adjustment *entity.Adjustment) error
	GetByID(ctx context.Context, id string) (*entity.Adjustment, error)
}

// StoreDirectory puerto hacia el directorio de tiendas (colaborador externo).
type StoreDirectory interface {
	Exists(ctx context.Context, storeID string) (bool, error)
}
