package inventory

import (
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// QueryUseCase lecturas sobre saldos, historial y cabeceras. Nunca escribe.
type QueryUseCase struct {
	stockRepo     repository.StockRepository
	movementRepo  repository.StockMovementRepository
	entries       repository.EntryRepository
	sales         repository.SaleRepository
	distributions repository.DistributionRepository
	adjustments   repository.AdjustmentRepository
	snapshots     SnapshotRunner
}

// NewQueryUseCase construye el caso de uso con repositorios de lectura (fuera de transacción).
// snapshots es obligatorio: VerifyLedger compara saldos e historial dentro de una misma foto.
func NewQueryUseCase(repos repository.UnitOfWork, snapshots SnapshotRunner) *QueryUseCase {
	return &QueryUseCase{
		stockRepo:     repos.Stock,
		movementRepo:  repos.Movements,
		entries:       repos.Entries,
		sales:         repos.Sales,
		distributions: repos.Distributions,
		adjustments:   repos.Adjustments,
		snapshots:     snapshots,
	}
}

func validatePage(limit, offset int) error {
	if limit < 0 || offset < 0 {
		return domain.Invalid("limit", "limit y offset no pueden ser negativos")
	}
	return nil
}
