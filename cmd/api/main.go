package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/dahlia/config"
	"github.com/Ramsey-B/dahlia/internal/bootstrap"
	"github.com/Ramsey-B/dahlia/internal/handlers"
	"github.com/Ramsey-B/dahlia/pkg/database"
	"github.com/Ramsey-B/dahlia/pkg/health"
	"github.com/Ramsey-B/dahlia/pkg/middleware"
	"github.com/Ramsey-B/dahlia/pkg/repositories"
	"github.com/Ramsey-B/dahlia/pkg/seeder"
	"github.com/Ramsey-B/dahlia/pkg/startup"
	"github.com/Ramsey-B/dahlia/pkg/tracing"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

const shutdownTimeout = 30 * time.Second

func main() {
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := bootstrap.NewLogger(&cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName: cfg.AppName,
		Enabled:     cfg.TracingEnabled,
		Endpoint:    cfg.TracingOTLPEndpoint,
		Protocol:    cfg.TracingOTLPProtocol,
		Insecure:    cfg.TracingOTLPInsecure,
	})
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
		os.Exit(1)
	}

	dbDep := &databaseDependency{cfg: &cfg, logger: logger}
	httpDep := &httpDependency{cfg: &cfg, logger: logger, db: dbDep}

	orchestrator := startup.NewStartup[any](logger, cfg.StartupMaxAttempts)
	orchestrator.AddDependency(dbDep)
	orchestrator.AddDependency(httpDep)

	if err := orchestrator.Start(ctx); err != nil {
		logger.WithError(err).Error("Failed to start service")
		os.Exit(1)
	}

	logger.Infof("%s listening on port %d", cfg.AppName, cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := orchestrator.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed to stop service cleanly")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed to flush traces")
	}
}

type databaseDependency struct {
	cfg    *config.Config
	logger ectologger.Logger
	db     database.DB
}

func (d *databaseDependency) GetName() string {
	return "database"
}

func (d *databaseDependency) DependsOn() []string {
	return nil
}

func (d *databaseDependency) Start(ctx context.Context) error {
	db, err := bootstrap.ConnectDB(ctx, d.cfg, d.logger)
	if err != nil {
		return err
	}

	if err := bootstrap.Migrate(d.cfg, d.logger, db); err != nil {
		_ = db.Close()
		return err
	}

	d.db = db
	return nil
}

func (d *databaseDependency) Stop(ctx context.Context) error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

type httpDependency struct {
	cfg    *config.Config
	logger ectologger.Logger
	db     *databaseDependency
	echo   *echo.Echo
}

func (d *httpDependency) GetName() string {
	return "http"
}

func (d *httpDependency) DependsOn() []string {
	return []string{"database"}
}

func (d *httpDependency) Start(ctx context.Context) error {
	cfg := d.cfg
	db := d.db.db

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.ReadHeaderTimeout = time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes

	e.HTTPErrorHandler = middleware.Error(d.logger)
	e.Use(middleware.Context())
	e.Use(middleware.Logger(d.logger))
	e.Use(middleware.Metrics())
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	e.Use(echomiddleware.Recover())

	healthHandler := health.NewHandler(db)
	e.GET("/health/live", healthHandler.Live)
	e.GET("/health/ready", healthHandler.Ready)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	stylistRepo := repositories.NewStylistRepository(db, d.logger)
	celebrityRepo := repositories.NewCelebrityRepository(db, d.logger)
	repRepo := repositories.NewRepRepository(db, d.logger)
	dataSeeder := seeder.NewSeeder(db, d.logger, seeder.Config{
		ChunkSize:   cfg.SeedChunkSize,
		MaxAttempts: cfg.SeedMaxAttempts,
	})

	api := e.Group("/api/v1")
	handlers.NewStylistHandler(stylistRepo, repRepo, d.logger).Register(api)
	handlers.NewCelebrityHandler(celebrityRepo, d.logger).Register(api)
	handlers.NewSeedHandler(dataSeeder, d.logger).Register(api)

	d.echo = e

	go func() {
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && err != http.ErrServerClosed {
			d.logger.WithError(err).Error("HTTP server stopped unexpectedly")
		}
	}()

	return nil
}

func (d *httpDependency) Stop(ctx context.Context) error {
	if d.echo == nil {
		return nil
	}
	return d.echo.Shutdown(ctx)
}
