package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC   *inventory.StockUseCase
	QueryUC   *inventory.QueryUseCase
	JWTSecret string
	JWTIssuer string
	Log       *logger.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	// Entradas de mercancía
	entries := api.Group("/entries")
	entryHandler := NewEntryHandler(deps.StockUC, deps.QueryUC, log)
	entries.Post("/", RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero), entryHandler.Create)
	entries.Get("/", entryHandler.List)
	entries.Get("/:id", entryHandler.GetByID)

	// Ventas
	sales := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.StockUC, deps.QueryUC, log)
	sales.Post("/", RequireRole(jwt.RoleAdmin, jwt.RoleVendedor), saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.GetByID)

	// Distribuciones internas
	dists := api.Group("/internal-distributions")
	distHandler := NewDistributionHandler(deps.StockUC, deps.QueryUC, log)
	dists.Post("/", RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero), distHandler.Create)
	dists.Get("/", distHandler.List)
	dists.Get("/:id", distHandler.GetByID)

	// Ajustes
	adjustments := api.Group("/adjustments")
	adjHandler := NewAdjustmentHandler(deps.StockUC, deps.QueryUC, log)
	adjustments.Post("/", RequireRole(jwt.RoleAdmin), adjHandler.Create)
	adjustments.Get("/:id", adjHandler.GetByID)

	// Historial (las rutas fijas van antes de /:id)
	movements := api.Group("/movements")
	movHandler := NewMovementHandler(deps.QueryUC, log)
	movements.Get("/", movHandler.List)
	movements.Get("/all", movHandler.ListAll)
	movements.Get("/by-reference/:type/:id", movHandler.ByReference)
	movements.Get("/:id", movHandler.GetByID)

	// Saldos
	stock := api.Group("/stock")
	stockHandler := NewStockHandler(deps.QueryUC, log)
	stock.Get("/", stockHandler.List)
	stock.Get("/verify", RequireRole(jwt.RoleAdmin), stockHandler.Verify)
	stock.Get("/stores/:store_id/products/:product_id", stockHandler.Get)
}
