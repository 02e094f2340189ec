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
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/suplementos-api/internal/application/auth"
	"github.com/jhoicas/suplementos-api/internal/application/inventory"
	"github.com/jhoicas/suplementos-api/internal/application/ports"
	"github.com/jhoicas/suplementos-api/internal/application/receiving"
	"github.com/jhoicas/suplementos-api/internal/application/reports"
	"github.com/jhoicas/suplementos-api/internal/application/sales"
	"github.com/jhoicas/suplementos-api/internal/application/transfers"
	"github.com/jhoicas/suplementos-api/internal/application/usecase"
	"github.com/jhoicas/suplementos-api/internal/domain/repository"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/cache"
	infraexport "github.com/jhoicas/suplementos-api/internal/infrastructure/export"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/suplementos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/suplementos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/suplementos-api/internal/interfaces/http"
	"github.com/jhoicas/suplementos-api/pkg/config"
	"github.com/jhoicas/suplementos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()

	var (
		txRunner inventory.TxRunner
		repos    inventory.Repos
		userRepo repository.UserRepository
	)
	switch cfg.App.StorageDriver {
	case config.StorageMemory:
		st := memory.New()
		txRunner, repos, userRepo = st, st.Repos(), st.Users()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		if cfg.DB.MigrateOnStart {
			if err := runMigrations(cfg.DB.ConnectionString()); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner, repos, userRepo = postgres.NewTxRunner(pool), postgres.NewRepos(pool), postgres.NewUserRepository(pool)
	}

	// Caché de reportes: Redis si hay REDIS_ADDR; si no responde, se sigue sin caché.
	var reportCache ports.Cache = cache.Noop{}
	if cfg.Redis.Enabled() {
		rc := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.App.Name)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, reportes sin caché")
			_ = rc.Close()
		} else {
			reportCache = rc
			defer rc.Close()
		}
		cancel()
	}

	engine := inventory.NewEngine(txRunner, repos.Batches)
	batchUC := inventory.NewBatchUseCase(txRunner, engine, repos.Batches, repos.Ledger, cfg.Inventory.ExpiringSoonDays)
	replenishmentUC := inventory.NewReplenishmentUseCase(repos.Products, repos.Batches)
	grnUC := receiving.NewGRNUseCase(txRunner, engine, repos.GRNs)
	saleUC := sales.NewSaleUseCase(txRunner, engine, repos.Sales)
	transferUC := transfers.NewTransferUseCase(txRunner, engine, repos.Transfers)

	// PDF: comprobante de venta
	receiptUC := sales.NewReceiptUseCase(repos.Sales, repos.Stores, repos.Products, infrapdf.NewMarotoPDFGenerator())
	reportUC := reports.NewReportUseCase(
		repos.Products, repos.Batches, repos.Sales, repos.GRNs,
		reportCache, cfg.Redis.TTL(), cfg.Inventory.ExpiringSoonDays,
	)
	exportUC := reports.NewExportUseCase(repos.Products, repos.Stores, repos.Batches, infraexport.NewExcelExporter())

	authUC := auth.NewAuthUseCase(userRepo, repos.Stores, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if cfg.Admin.Enabled() {
		if err := authUC.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Suplementos API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.App.StorageDriver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		UserUC:        usecase.NewUserUseCase(userRepo),
		ProductUC:     usecase.NewProductUseCase(repos.Products, repos.Batches),
		FlavorUC:      usecase.NewFlavorUseCase(repos.Flavors, repos.Products),
		StoreUC:       usecase.NewStoreUseCase(repos.Stores),
		SupplierUC:    usecase.NewSupplierUseCase(repos.Suppliers),
		BatchUC:       batchUC,
		Engine:        engine,
		Replenishment: replenishmentUC,
		GRNUC:         grnUC,
		SaleUC:        saleUC,
		ReceiptUC:     receiptUC,
		TransferUC:    transferUC,
		ReportUC:      reportUC,
		ExportUC:      exportUC,
		JWTSecret:     cfg.JWT.Secret,
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

func runMigrations(databaseURL string) error {
	m, err := postgres.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}
