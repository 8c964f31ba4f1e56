package main

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vaultprint/docs"
	"vaultprint/internal/config"
	handlers "vaultprint/internal/http/handler"
	"vaultprint/internal/http/middleware"
	"vaultprint/internal/logging"
	"vaultprint/internal/mail"
	"vaultprint/internal/otel"
	"vaultprint/internal/service"
	"vaultprint/internal/vault"
)

// @title Vault Print API
// @version 1.0
// @description Emails Veeva Vault documents to a print shop.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	loc := cfg.Location()
	logger := logging.Stdout(loc)

	ctx := context.Background()
	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			logger.Error(ctx, "tracing_shutdown_failed", err, nil)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register http metrics: %v", err)
	}
	printMetrics, err := service.NewMetrics(reg)
	if err != nil {
		log.Fatalf("failed to register print metrics: %v", err)
	}

	// Vault fetcher plus the credential source it authenticates with
	vaultClient, creds := vault.NewFromConfig(cfg.Vault)

	transport, err := mail.NewTransport(cfg.Mail)
	if err != nil {
		log.Fatalf("failed to initialize mail transport: %v", err)
	}

	printSvc := service.NewPrintService(vaultClient, transport, cfg.Mail,
		service.WithLogger(logger),
		service.WithMetrics(printMetrics),
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSAllowOrigins}))
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(loc))
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// /test-vault only makes sense when there is a login to exercise
	var probe vault.CredentialSource
	if pc, ok := creds.(*vault.PasswordCredentials); ok {
		probe = pc
	}
	handlers.RegisterRoutes(app, printSvc, probe)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	logger.Info(ctx, "server_starting", map[string]any{
		"port":           cfg.Port,
		"vault_auth":     cfg.Vault.AuthMode(),
		"mail_transport": cfg.Mail.Transport,
	})

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
