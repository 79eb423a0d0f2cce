package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/scoring-service/internal/cache"
	"github.com/SAP-F-2025/scoring-service/internal/config"
	"github.com/SAP-F-2025/scoring-service/internal/handlers"
	"github.com/SAP-F-2025/scoring-service/internal/middleware"
	"github.com/SAP-F-2025/scoring-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/scoring-service/internal/services"
	"github.com/SAP-F-2025/scoring-service/internal/utils"
	"github.com/SAP-F-2025/scoring-service/internal/validator"
	"github.com/SAP-F-2025/scoring-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.IsDevelopment() {
		logger = utils.NewDevelopmentLogger()
	} else {
		logger = utils.NewDefaultLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	logger.Info("Starting scoring service",
		"port", cfg.Port,
		"environment", cfg.Environment)

	// Database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := pkg.Migrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	repo := postgres.NewRepository(db)
	defer repo.Close()

	// Redis
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	cacheService := cache.NewRedisCache(redisClient, logger)
	reportCache := cache.NewReportCache(cacheService, cfg.ReportCacheTTL, logger)

	// Event publisher
	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	// Services
	v := validator.New()
	scoringService := services.NewScoringService(repo, reportCache, publisher, slogger)
	questionnaireService := services.NewQuestionnaireService(repo, reportCache, publisher, slogger, v)
	submissionService := services.NewSubmissionService(repo, reportCache, publisher, slogger, v)
	analyticsService := services.NewAnalyticsService(repo, scoringService, slogger)
	exportService := services.NewExportService(analyticsService, slogger)

	// HTTP server
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(utils.ContextLogger(logger))

	auth := middleware.NewAuthenticator(cfg, logger)

	handlerManager := handlers.NewHandlerManager(
		questionnaireService,
		submissionService,
		scoringService,
		analyticsService,
		exportService,
		logger,
	)
	handlerManager.SetupRoutes(router, auth.RequireAuth())

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Shutting down", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("Shutdown complete")
}
