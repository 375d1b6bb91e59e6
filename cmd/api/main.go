package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/fulfillment-ledger/internal/application/audit"
	"github.com/jhoicas/fulfillment-ledger/internal/application/fulfillment"
	"github.com/jhoicas/fulfillment-ledger/internal/application/inventory"
	"github.com/jhoicas/fulfillment-ledger/internal/application/ports"
	"github.com/jhoicas/fulfillment-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/fulfillment-ledger/internal/infrastructure/metrics"
	"github.com/jhoicas/fulfillment-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/fulfillment-ledger/internal/interfaces/http"
	"github.com/jhoicas/fulfillment-ledger/pkg/config"
	"github.com/jhoicas/fulfillment-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	var (
		recorder  ports.OperationRecorder = ports.NopRecorder{}
		promStats *metrics.Recorder
	)
	if cfg.Metrics.Enabled {
		promStats = metrics.NewRecorder("ledger")
		recorder = promStats
	}

	ctx := context.Background()
	var (
		txRunner inventory.TxRunner
		sink     ports.AuditSink
	)
	switch cfg.App.Store {
	case "memory":
		store := memory.NewStore()
		txRunner = store
		sink = store.Audit()
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool, postgres.TxOptions{
			MaxAttempts: cfg.Ledger.MaxTxRetries,
			Metrics:     recorder,
			Log:         log,
		})
		sink = postgres.NewAuditRepository(pool)
	}

	emitter := audit.NewEmitter(sink, log)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, inventory.LedgerOptions{
		AllowNegativeAdjustments: cfg.Ledger.AllowNegativeAdjustments,
	}, emitter, recorder, log)
	convertUC := inventory.NewConversionUseCase(txRunner)
	balanceUC := inventory.NewBalanceQueryUseCase(txRunner)
	allocateUC := fulfillment.NewAllocateUseCase(txRunner, emitter, recorder, log)
	pickTaskUC := fulfillment.NewPickTaskUseCase(txRunner, ledgerUC, cfg.Ledger.PickTaskPrefix, emitter, recorder, log)
	orderUC := fulfillment.NewOrderUseCase(txRunner, ledgerUC, emitter, recorder, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Fulfillment Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.App.Store})
	})
	if promStats != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promStats.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Convert:   convertUC,
		Ledger:    ledgerUC,
		Balances:  balanceUC,
		Orders:    orderUC,
		Allocate:  allocateUC,
		PickTasks: pickTaskUC,
		JWTSecret: cfg.JWT.Secret,
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
