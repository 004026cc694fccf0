package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/jhoicas/stock-ledger/pkg/telemetry"
)

// version se sobreescribe con -ldflags "-X main.version=...".
var version = "dev"

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		Name:  cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store_driver", cfg.App.StoreDriver).
		Str("version", version).
		Msg("iniciando aplicación")

	ctx := context.Background()
	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("configurar trazas")
	}

	var (
		txRunner  inventory.TxRunner
		snapshots inventory.SnapshotRunner
		repos     repository.UnitOfWork
		stores   repository.StoreDirectory
	)
	switch cfg.App.StoreDriver {
	case config.StoreDriverMemory:
		store := memory.New(memory.WithLockTimeout(cfg.Ledger.LockTimeout()))
		txRunner, snapshots, repos = store, store, store.Repositories()
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migración del esquema")
			}
		}
		runner := postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout())
		txRunner, snapshots = runner, runner
		repos = postgres.NewUnitOfWork(pool)
		if cfg.Ledger.CheckStores {
			stores = postgres.NewStoreDirectory(pool)
		}
	}

	retry := inventory.DefaultRetryPolicy()
	retry.MaxRetries = cfg.Ledger.MaxRetries
	stockUC := inventory.NewStockUseCase(txRunner, repos.Stock, stores, retry, log)
	queryUC := inventory.NewQueryUseCase(repos, snapshots)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Stock Ledger API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "version": version})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockUC:   stockUC,
		QueryUC:   queryUC,
		JWTSecret: cfg.JWT.Secret,
		JWTIssuer: cfg.JWT.Issuer,
		Log:       log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cierre del exportador de trazas")
	}

	log.Info().Msg("aplicación detenida")
}
