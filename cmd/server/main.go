package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/partsline/opsconsole/internal/api"
	"github.com/partsline/opsconsole/internal/auth"
	"github.com/partsline/opsconsole/internal/config"
	"github.com/partsline/opsconsole/internal/dialpad"
	"github.com/partsline/opsconsole/internal/metrics"
	"github.com/partsline/opsconsole/internal/reporting"
	"github.com/partsline/opsconsole/internal/types"
	"github.com/partsline/opsconsole/internal/vin"
	"github.com/partsline/opsconsole/pkg/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("log_level", cfg.LogLevel).
		Int("known_agents", len(cfg.Agents)).
		Msg("starting ops console backend")

	if cfg.DialpadAPIKey == "" {
		log.Fatal().Msg("DIALPAD_API_KEY is required")
	}
	if cfg.DepartmentID == "" {
		log.Fatal().Msg("DIALPAD_DEPARTMENT_ID is required")
	}

	// Initialize JWKS for token verification unless auth is bypassed
	if os.Getenv("SKIP_AUTH") != "true" && cfg.OIDCIssuerURL != "" {
		if err := auth.InitJWKS(cfg.OIDCIssuerURL); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize JWKS")
		}
	}

	// Known-agent roster
	roster := types.NewRoster(cfg.Agents)

	// Upstream provider client and fetch strategies
	client, err := dialpad.NewClient(dialpad.ClientConfig{
		BaseURL: cfg.DialpadBaseURL,
		APIKey:  cfg.DialpadAPIKey,
		Timeout: cfg.FetchTimeout,
	}, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create dialpad client")
	}
	fetcher := dialpad.NewFetcher(client, cfg.DepartmentID, roster)

	// Reporting core
	reportService := reporting.NewService(fetcher, roster, log.Logger)
	reportHandler := api.NewReportHandler(reportService, cfg.DefaultMaxPages, log.Logger)

	// VIN decoder front-end
	vinClient := vin.NewClient(cfg.VPICBaseURL, log.Logger)
	vinHandler := api.NewVINHandler(vinClient, log.Logger)

	// Create router
	r := chi.NewRouter()

	// Add middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Register public routes (no auth required)
	r.Get("/health", healthHandler)

	// Internal routes (no auth - scraped by internal tooling)
	r.Route("/internal", func(r chi.Router) {
		r.Get("/metrics", metrics.Get().Handler())
	})

	// Add auth middleware for protected routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)
		r.Get("/agent-activity", reportHandler.GetAgentActivity)
		r.Get("/calls", reportHandler.GetCalls)
		r.Get("/vin/{vin}", vinHandler.GetVIN)
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.FetchTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Msgf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"opsconsole-backend"}`)
}
