package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jhoicas/inventario-lotes/internal/application/inventory"
	"github.com/jhoicas/inventario-lotes/internal/application/usecase"
	"github.com/jhoicas/inventario-lotes/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC     *usecase.ItemUseCase
	CategoryUC *usecase.CategoryUseCase
	MovementUC *usecase.MovementUseCase
	ReportUC   *usecase.ReportUseCase
	Ledger     *inventory.LedgerUseCase
	Expiry     *inventory.ExpiryUseCase
	Log        *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	errs := errorMapper{log: log}
	validate := NewValidator()

	api := app.Group("/api", requestid.New(), RequestLogger(log))

	// Categorías
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, validate, errs)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)

	// Ítems y resúmenes de stock
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC, deps.Ledger, validate, errs)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetSummary)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)
	items.Get("/:id/lots", itemHandler.ListLots)

	// Entradas y salidas
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, validate, errs)
	invGroup.Post("/receive", inventoryHandler.Receive)
	invGroup.Post("/issue", inventoryHandler.Issue)

	// Historial
	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC, deps.ReportUC, validate, errs)
	movements.Get("/", movementHandler.List)
	movements.Get("/export", movementHandler.Export)

	// Reportes
	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC, deps.Expiry, errs)
	reports.Get("/stock", reportHandler.StockPDF)
	reports.Get("/expiring", reportHandler.Expiring)

	api.Use(func(c *fiber.Ctx) error {
		return notFound(c, "ruta no encontrada")
	})
}
