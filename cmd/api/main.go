package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"contentapi/docs"
	"contentapi/internal/config"
	handlers "contentapi/internal/http/handler"
	"contentapi/internal/http/middleware"
	"contentapi/internal/logging"
	"contentapi/internal/otel"
	"contentapi/internal/repository"
	"contentapi/internal/service"
)

const shutdownTimeout = 15 * time.Second

// @title        Content API
// @version      1.0
// @description  Ordered note and document collection with search, filter and sort.
// @BasePath     /
func main() {
	if err := run(); err != nil {
		slog.Error("service exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, logCloser := logging.New(cfg.Log, "contentapi")
	defer logCloser.Close()
	slog.SetDefault(logger)

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Error("tracing_shutdown_failed", slog.String("error", err.Error()))
		}
	}()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	instrumented, err := repository.NewInstrumented(store, cfg.Store.Backend, reg)
	if err != nil {
		return fmt.Errorf("register store metrics: %w", err)
	}

	contents, err := service.NewContentRepository(ctx, instrumented,
		service.WithLogger(logger),
		service.WithResetOnMalformed(cfg.Store.ResetOnMalformed),
	)
	if err != nil {
		return err
	}

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "contentapi",
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		IdleTimeout:           60 * time.Second,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Recover(logger))
	app.Use(otelfiber.Middleware(
		otelfiber.WithNext(func(c *fiber.Ctx) bool {
			return c.Path() == "/metrics" || c.Path() == "/healthz"
		}),
	))
	app.Use(middleware.Logger(logger))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, instrumented, contents, logger)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

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

	serverErr := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info("server_starting",
			slog.String("addr", addr),
			slog.String("store_backend", cfg.Store.Backend),
		)
		if err := app.Listen(addr); err != nil {
			serverErr <- err
		}
	}()

	return waitForShutdown(ctx, logger, app, serverErr)
}

// waitForShutdown blocks until the server fails or a termination signal
// arrives, then drains in-flight requests.
func waitForShutdown(ctx context.Context, logger *slog.Logger, app *fiber.App, serverErr <-chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown_complete")
	return nil
}
