package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/farmacia-api/internal/application/catalog"
	"github.com/jhoicas/farmacia-api/internal/application/ledger"
	"github.com/jhoicas/farmacia-api/internal/application/reports"
	"github.com/jhoicas/farmacia-api/internal/background"
	"github.com/jhoicas/farmacia-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/farmacia-api/internal/infrastructure/pdf"
	"github.com/jhoicas/farmacia-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/farmacia-api/internal/interfaces/http"
	"github.com/jhoicas/farmacia-api/pkg/config"
	"github.com/jhoicas/farmacia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	batchRepo := postgres.NewBatchRepository(pool)
	entryRepo := postgres.NewLedgerEntryRepository(pool)
	transferRepo := postgres.NewStockTransferRepository(pool)
	reportingRepo := postgres.NewReportingRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	medicineRepo := postgres.NewMedicineRepository(pool)
	tenantSource := postgres.NewTenantSource(pool)
	txRunner := postgres.NewTxRunner(pool)

	notifier := notify.NewLogNotifier(log)
	lowStockCache := ledger.NewLowStockCache(batchRepo, cfg.Alerts.LowStockTTL)

	applyUC := ledger.NewApplyStockUseCase(txRunner, lowStockCache, notifier)
	transferUC := ledger.NewTransferStockUseCase(txRunner, lowStockCache, notifier)
	bulkUC := ledger.NewBulkStockUseCase(applyUC, batchRepo)
	queriesUC := ledger.NewBatchQueryUseCase(batchRepo, entryRepo, transferRepo)

	catalogUC := catalog.NewCatalogUseCase(branchRepo, medicineRepo)
	reportingUC := reports.NewReportingUseCase(batchRepo, reportingRepo)
	pdfGenerator := infrapdf.NewMarotoStockReportGenerator()
	stockReportUC := reports.NewStockReportUseCase(batchRepo, reportingUC, pdfGenerator)

	// Escáner de vencimientos en su propia goroutine; se detiene con el contexto.
	scanner := background.NewExpiryScanner(
		batchRepo, tenantSource, notifier, log,
		cfg.Alerts.ScanInterval, cfg.Alerts.ExpiryWindow,
	)
	go scanner.Run(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Farmacia API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ApplyStock:    applyUC,
		TransferStock: transferUC,
		BulkStock:     bulkUC,
		BatchQueries:  queriesUC,
		LowStock:      lowStockCache,
		Reporting:     reportingUC,
		StockReport:   stockReportUC,
		Catalog:       catalogUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
