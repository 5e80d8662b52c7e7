package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/KhaledEssghaier/DeviSmart/internal/application/auth"
	"github.com/KhaledEssghaier/DeviSmart/internal/application/billing"
	"github.com/KhaledEssghaier/DeviSmart/internal/application/usecase"
	infrapdf "github.com/KhaledEssghaier/DeviSmart/internal/infrastructure/pdf"
	"github.com/KhaledEssghaier/DeviSmart/internal/infrastructure/postgres"
	httpRouter "github.com/KhaledEssghaier/DeviSmart/internal/interfaces/http"
	"github.com/KhaledEssghaier/DeviSmart/pkg/config"
	"github.com/KhaledEssghaier/DeviSmart/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("chargement de la configuration : " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("démarrage de l'application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connexion à PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	quoteRepo := postgres.NewQuoteRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	seq := billing.NewNumberSequence(companyRepo)
	quoteUC := billing.NewQuoteUseCase(quoteRepo, clientRepo, seq)
	validateUC := billing.NewValidateQuoteUseCase(txRunner)
	invoiceUC := billing.NewInvoiceUseCase(txRunner, invoiceRepo, clientRepo)
	clientUC := billing.NewClientUseCase(clientRepo)
	companyUC := usecase.NewCompanyUseCase(companyRepo)

	// Profil émetteur créé avec les valeurs par défaut s'il n'existe pas encore.
	if _, err := companyUC.Bootstrap(ctx); err != nil {
		log.Fatal().Err(err).Msg("initialisation du profil entreprise")
	}

	pdfUC := billing.NewPDFUseCase(
		quoteRepo, invoiceRepo,
		infrapdf.NewMarotoQuoteGenerator(), infrapdf.NewMarotoInvoiceGenerator(),
	)

	authUC := auth.NewUseCase(auth.Config{
		AdminLogin:        cfg.Admin.Login,
		AdminPasswordHash: cfg.Admin.PasswordHash,
		JWTSecret:         cfg.JWT.Secret,
		JWTIssuer:         cfg.JWT.Issuer,
		JWTExpMinutes:     cfg.JWT.Expiration,
	})

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
		QuoteUC:    quoteUC,
		ValidateUC: validateUC,
		InvoiceUC:  invoiceUC,
		ClientUC:   clientUC,
		PDFUC:      pdfUC,
		CompanyUC:  companyUC,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("serveur HTTP terminé")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("signal d'arrêt reçu, fermeture du serveur...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("arrêt du serveur")
	}

	log.Info().Msg("application arrêtée")
}
