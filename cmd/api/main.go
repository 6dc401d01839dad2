package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/inventario-lotes/internal/application/usecase"
	"github.com/jhoicas/inventario-lotes/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/inventario-lotes/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-lotes/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-lotes/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/inventario-lotes/internal/interfaces/http"
	"github.com/jhoicas/inventario-lotes/pkg/config"
	"github.com/jhoicas/inventario-lotes/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Str("issue_policy", cfg.Ledger.IssuePolicy).
		Msg("iniciando aplicación")

	ctx := context.Background()
	txRunner, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("abrir almacenamiento")
	}
	defer closeStore()

	ledgerUC := inventory.NewLedgerUseCase(txRunner, inventory.LedgerConfig{
		Policy:     inventory.IssuePolicy(cfg.Ledger.IssuePolicy),
		MaxRetries: cfg.Ledger.MaxRetries,
	}, log.Component("ledger"))
	expiryUC := inventory.NewExpiryUseCase(txRunner)
	itemUC := usecase.NewItemUseCase(txRunner)
	categoryUC := usecase.NewCategoryUseCase(txRunner)
	movementUC := usecase.NewMovementUseCase(txRunner)

	// PDF: reporte de stock por categoría y lotes por vencer
	pdfGenerator := infrapdf.NewMarotoStockReportGenerator()
	reportUC := usecase.NewReportUseCase(txRunner, ledgerUC, expiryUC, pdfGenerator, cfg.App.Name)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.DocsPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.DocsPath,
			Path:     "docs",
			Title:    "Inventario por lotes API",
		}))
	} else {
		log.Warn().Str("path", cfg.App.DocsPath).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "driver": cfg.DB.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:     itemUC,
		CategoryUC: categoryUC,
		MovementUC: movementUC,
		ReportUC:   reportUC,
		Ledger:     ledgerUC,
		Expiry:     expiryUC,
		Log:        log.Component("http"),
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

	log.Info().Msg("aplicación detenida")
}

// openStore abre el almacenamiento elegido en DB_DRIVER. En PostgreSQL aplica las migraciones pendientes.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (inventory.TxRunner, func(), error) {
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		m, err := postgres.NewMigrator(pool, log.Component("migrate"))
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		upErr := m.Up()
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
		if upErr != nil {
			pool.Close()
			return nil, nil, upErr
		}
		return postgres.NewTxRunner(pool, cfg.Ledger.LockTimeout), pool.Close, nil
	case config.DriverSQLite:
		store, err := sqlite.New(cfg.DB.SQLitePath, cfg.Ledger.LockTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("abrir SQLite %s: %w", cfg.DB.SQLitePath, err)
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar SQLite")
			}
		}, nil
	case config.DriverMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return memory.New(cfg.Ledger.LockTimeout), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("driver no soportado: %q", cfg.DB.Driver)
	}
}
