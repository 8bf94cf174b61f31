// Tutor Orchestrator — routes free-text tutoring queries to educational
// tools or remote language models.
//
// The server wires together:
//   - Query classification and parameter extraction
//   - Tool registry (note maker, flashcard generator, concept explainer)
//   - Academic and coding model callers (with ordered fallback)
//   - Interaction log (SQLite)
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aitutor/orchestrator/internal/api"
	"github.com/aitutor/orchestrator/internal/api/handlers"
	"github.com/aitutor/orchestrator/internal/config"
	"github.com/aitutor/orchestrator/internal/orchestrator"
	"github.com/aitutor/orchestrator/internal/store"
	"github.com/aitutor/orchestrator/internal/telemetry"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	cfg := config.Load()
	log.Info().Int("port", cfg.Port).Str("routing", string(cfg.Routing)).Msg("Tutor Orchestrator starting")

	shutdownTelemetry, err := telemetry.Init(cfg.Telemetry)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	dataStore, err := store.NewSQLite(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer dataStore.Close()

	if err := dataStore.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}
	log.Info().Str("path", cfg.Database.Path).Msg("Interaction log ready")

	deps := orchestrator.NewDeps(cfg.Models)
	agent := orchestrator.Select(cfg.Routing, deps)

	h := handlers.New(dataStore, agent)
	router := api.NewRouter(cfg, h)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
		shutdownTelemetry(shutdownCtx)
	}()

	log.Info().Str("agent", agent.Name()).Msg("Tutor Orchestrator ready")

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
