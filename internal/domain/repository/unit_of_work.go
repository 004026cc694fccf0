package repository

// UnitOfWork agrupa los repositorios atados a una misma transacción.
// Se pasa explícitamente a cada orquestador y a PostMovement; no existe un handle global.
type UnitOfWork struct {
	Stock         StockRepository
	Movements     StockMovementRepository
	Entries       EntryRepository
	Sales         SaleRepository
	Distributions DistributionRepository
	Adjustments   AdjustmentRepository
}
