package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"customerSegmentation/app/echo-server/router"
	"customerSegmentation/business/segmentation"
	"customerSegmentation/internal/middleware"
	"customerSegmentation/internal/repository"
	"customerSegmentation/internal/rest"
	"customerSegmentation/pkg/config"
	"customerSegmentation/pkg/logger"
	"customerSegmentation/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer func() { _ = logger.Sync() }()
	logger.Info("Starting "+cfg.App.Name, "version", cfg.App.Version, "bundle_source", cfg.Bundle.Source)

	metrics.Init()

	// Load the model bundle once; a broken bundle stops the process here
	startCtx := context.Background()
	bundleRepo, closeSource, err := repository.OpenBundleSource(startCtx, cfg)
	if err != nil {
		logger.Fatal("Failed to open bundle source", "error", err)
	}

	engine, err := segmentation.LoadEngine(startCtx, bundleRepo, cfg.Bundle.Source)
	if cerr := closeSource(); cerr != nil {
		logger.Warn("Failed to close bundle source", "error", cerr)
	}
	if err != nil {
		logger.Fatal("Failed to load model bundle", "error", err)
	}

	// Init service
	segmentationService := segmentation.NewSegmentationService(engine, segmentation.NewValidator())

	// Init handler
	segmentationHandler := rest.NewSegmentationHandler(segmentationService, cfg.Server.RequestTimeout)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Metrics())
	e.Use(echomiddleware.BodyLimit("64K"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Setup routes
	router.SetupOpsRoutes(e, segmentationHandler)
	api := e.Group("/api/v1")
	router.SetupSegmentationRoutes(api, segmentationHandler)
	if cfg.JWT.SecretKey != "" {
		router.SetupAdminRoutes(api, segmentationHandler, cfg.JWT.SecretKey)
	} else {
		logger.Warn("JWT_SECRET not set, admin routes disabled")
	}

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
