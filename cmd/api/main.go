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

	_ "github.com/jhoicas/vitrine-api/docs"
	appledger "github.com/jhoicas/vitrine-api/internal/application/ledger"
	"github.com/jhoicas/vitrine-api/internal/application/sales"
	"github.com/jhoicas/vitrine-api/internal/application/usecase"
	"github.com/jhoicas/vitrine-api/internal/domain/entity"
	"github.com/jhoicas/vitrine-api/internal/domain/ledger"
	"github.com/jhoicas/vitrine-api/internal/domain/repository"
	"github.com/jhoicas/vitrine-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/vitrine-api/internal/infrastructure/pdf"
	"github.com/jhoicas/vitrine-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/vitrine-api/internal/interfaces/http"
	"github.com/jhoicas/vitrine-api/pkg/config"
	"github.com/jhoicas/vitrine-api/pkg/logger"
)

// store persistencia de ventas y lanzamientos (memoria o PostgreSQL).
type store interface {
	repository.PersistenceSink
	repository.ReceiptRepository
	repository.LedgerEntryRepository
}

// @title        Vitrine API
// @version      1.0
// @description  Carrito de venta y fiado (cuentas a cobrar y a pagar) de una tienda.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
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
		Str("backend", cfg.Store.Backend).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: todas las rutas /api responderán 401")
	}

	ctx := context.Background()

	var (
		products repository.ProductRepository
		sink     store
	)
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("crear esquema")
		}
		products = postgres.NewProductRepository(pool)
		sink = postgres.NewStore(pool)
	default:
		if cfg.Store.SeedDemo {
			products = memory.NewSeededCatalog()
		} else {
			products = memory.NewCatalog()
		}
		sink = memory.NewStore()
	}

	// Cada mutación del fiado se persiste antes de aplicarse en memoria.
	ledgerLog := log.Named("ledger")
	fiado := ledger.New(ledger.WithRecorder(func(ctx context.Context, e entity.LedgerEntry) error {
		id, err := sink.RecordLedgerEntry(ctx, &e)
		if err != nil {
			ledgerLog.Error().Err(err).Str("entry_id", e.ID).Msg("persistir lanzamiento")
			return err
		}
		ledgerLog.Debug().Str("entry_id", id).Str("status", string(e.Status)).Msg("lanzamiento persistido")
		return nil
	}))
	persisted, err := sink.ListLedgerEntries(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar lanzamientos")
	}
	if err := fiado.Restore(persisted); err != nil {
		log.Fatal().Err(err).Msg("restaurar fiado")
	}
	log.Info().Int("entries", fiado.Len()).Msg("fiado restaurado")

	coord := sales.NewCoordinator(fiado, sink, products, log)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.Store.Name)

	productUC := usecase.NewProductUseCase(products)
	cartIdle := time.Duration(cfg.Store.CartIdleMinutes) * time.Minute
	salesUC := sales.NewSalesUseCase(products, sink, coord, pdfGenerator, log,
		sales.WithMaxOpenCarts(cfg.Store.MaxOpenCarts),
		sales.WithCartIdleTimeout(cartIdle),
	)
	ledgerUC := appledger.NewLedgerUseCase(fiado, log)

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
		Title:    "Vitrine API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":     "ok",
			"service":    cfg.App.Name,
			"open_carts": salesUC.OpenCarts(),
		})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC: productUC,
		SalesUC:   salesUC,
		LedgerUC:  ledgerUC,
		JWTSecret: cfg.JWT.Secret,
		JWTIssuer: cfg.JWT.Issuer,
	})

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go salesUC.RunSweeper(sweepCtx, time.Minute)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
