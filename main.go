package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	database "github.com/FACorreiaa/go-skopje-guide/app/db"
	appLogger "github.com/FACorreiaa/go-skopje-guide/app/logger"
	"github.com/FACorreiaa/go-skopje-guide/app/observability/metrics"
	"github.com/FACorreiaa/go-skopje-guide/app/observability/tracer"
	"github.com/FACorreiaa/go-skopje-guide/config"
	"github.com/FACorreiaa/go-skopje-guide/internal/api/auth"
	"github.com/FACorreiaa/go-skopje-guide/internal/api/enrichment"
	generativeAI "github.com/FACorreiaa/go-skopje-guide/internal/api/generative_ai"
	"github.com/FACorreiaa/go-skopje-guide/internal/api/maps"
	"github.com/FACorreiaa/go-skopje-guide/internal/api/place"
	"github.com/FACorreiaa/go-skopje-guide/internal/api/preference"
	"github.com/FACorreiaa/go-skopje-guide/internal/api/review"
	"github.com/FACorreiaa/go-skopje-guide/internal/api/tour"
	"github.com/FACorreiaa/go-skopje-guide/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails.
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tracer.InitTracingAndMetrics()
	metrics.InitAppMetrics()

	// --- Database ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}
	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()
	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- External clients ---
	aiClient, err := generativeAI.NewAIClient(ctx, cfg.Gemini.Model, cfg.Gemini.CompletionTimeout)
	if err != nil {
		logger.Error("Failed to initialize completion client", slog.Any("error", err))
		os.Exit(1)
	}
	googleClient, err := maps.NewGoogleClient(&cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize maps client", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Dependency wiring ---
	authRepo := auth.NewRepository(pool, logger)
	authService := auth.NewServiceImpl(authRepo, logger)
	authHandler := auth.NewHandler(authService, logger)

	reviewRepo := review.NewRepository(pool, logger)
	reviewService := review.NewServiceImpl(reviewRepo, logger)
	reviewHandler := review.NewHandler(reviewService, logger)

	placeRepo := place.NewRepository(pool, logger)
	placeService := place.NewServiceImpl(placeRepo, reviewRepo, logger)
	placeHandler := place.NewHandler(placeService, logger)

	preferenceRepo := preference.NewRepository(pool, logger)
	preferenceService := preference.NewServiceImpl(preferenceRepo, logger)
	preferenceHandler := preference.NewHandler(preferenceService, logger)

	planner := tour.NewPlanner(placeRepo, aiClient, logger,
		float32(cfg.Gemini.Temperature), int32(cfg.Gemini.MaxOutputTokens))
	tourRepo := tour.NewRepository(pool, logger)
	tourService := tour.NewServiceImpl(tourRepo, preferenceRepo, planner, logger)
	tourHandler := tour.NewHandler(tourService, logger)

	ingestionService := maps.NewIngestionService(googleClient, placeRepo, cfg.Enrichment.Concurrency, logger)
	mapsHandler := maps.NewHandler(ingestionService, logger)

	enrichmentService := enrichment.NewServiceImpl(aiClient, placeRepo, reviewRepo, cfg.Enrichment.Concurrency, logger)
	enrichmentHandler := enrichment.NewHandler(enrichmentService, logger)
	enrichmentScheduler := enrichment.NewScheduler(enrichmentService, cfg.Enrichment.Interval, 50, logger)
	go enrichmentScheduler.Run(ctx)

	// --- Router ---
	apiRouter := router.SetupRouter(&router.Config{
		AuthHandler:       authHandler,
		PlaceHandler:      placeHandler,
		ReviewHandler:     reviewHandler,
		PreferenceHandler: preferenceHandler,
		TourHandler:       tourHandler,
		MapsHandler:       mapsHandler,
		EnrichmentHandler: enrichmentHandler,
	})

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Timeout(60 * time.Second))
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Mount("/", apiRouter)

	// --- HTTP server ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}
	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
