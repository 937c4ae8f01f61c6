package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/lumora-agency/lumora-api/internal/application/billing"
	"github.com/lumora-agency/lumora-api/internal/application/reconciliation"
	"github.com/lumora-agency/lumora-api/internal/infrastructure/bankfeed"
	infrapdf "github.com/lumora-agency/lumora-api/internal/infrastructure/pdf"
	"github.com/lumora-agency/lumora-api/internal/infrastructure/postgres"
	httpRouter "github.com/lumora-agency/lumora-api/internal/interfaces/http"
	"github.com/lumora-agency/lumora-api/pkg/config"
	"github.com/lumora-agency/lumora-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	documentRepo := postgres.NewDocumentRepository(pool)
	bankTxRepo := postgres.NewBankTransactionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledgerUC := billing.NewLedgerUseCase(txRunner, documentRepo)
	pdfUC := billing.NewPDFUseCase(documentRepo, infrapdf.NewMarotoRenderer(cfg.App.Name))

	feedClient := bankfeed.NewClient(cfg.Bank, log)
	syncUC := reconciliation.NewSyncUseCase(feedClient, bankTxRepo, log)
	matcherUC := reconciliation.NewMatcherUseCase(txRunner, bankTxRepo, documentRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:  ledgerUC,
		PDF:     pdfUC,
		Sync:    syncUC,
		Matcher: matcherUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
