package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/farmacia-api/internal/application/catalog"
	"github.com/jhoicas/farmacia-api/internal/application/ledger"
	"github.com/jhoicas/farmacia-api/internal/application/reports"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ApplyStock    *ledger.ApplyStockUseCase
	TransferStock *ledger.TransferStockUseCase
	BulkStock     *ledger.BulkStockUseCase
	BatchQueries  *ledger.BatchQueryUseCase
	LowStock      *ledger.LowStockCache
	Reporting     *reports.ReportingUseCase
	StockReport   *reports.StockReportUseCase
	Catalog       *catalog.CatalogUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Libro de stock (protegido)
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.ApplyStock, deps.TransferStock, deps.BulkStock, deps.BatchQueries, deps.LowStock)
	inv.Post("/movements", inventoryHandler.RegisterMovement)
	inv.Post("/receipts", inventoryHandler.ReceiveStock)
	inv.Post("/transfers", RequireRole("admin", "farmaceutico"), inventoryHandler.Transfer)
	inv.Get("/transfers", inventoryHandler.ListTransfers)
	inv.Get("/low-stock", inventoryHandler.GetLowStock)
	inv.Get("/batches", inventoryHandler.ListBatches)
	inv.Get("/batches/:id", inventoryHandler.GetBatch)
	inv.Get("/batches/:id/ledger", inventoryHandler.GetBatchLedger)
	inv.Post("/import", RequireRole("admin", "farmaceutico"), inventoryHandler.ImportStockCSV)
	inv.Get("/export", inventoryHandler.ExportStockCSV)

	// Catálogo (protegido, solo lectura)
	catalogHandler := NewCatalogHandler(deps.Catalog)
	protected.Get("/branches", catalogHandler.ListBranches)
	protected.Get("/medicines/:id", catalogHandler.GetMedicine)

	// Reportes (protegido)
	rep := protected.Group("/reports")
	reportsHandler := NewReportsHandler(deps.Reporting, deps.StockReport)
	rep.Get("/stock-aging", reportsHandler.StockAging)
	rep.Get("/daily-sales", reportsHandler.DailySales)
	rep.Get("/profit-loss", reportsHandler.ProfitLoss)
	rep.Get("/medicines/:id/performance", reportsHandler.MedicinePerformance)
	rep.Get("/stock-pdf", reportsHandler.StockReportPDF)
}
