package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"spendtrack/internal/api"
	"spendtrack/internal/auth"
	"spendtrack/internal/config"
	"spendtrack/internal/database"
	"spendtrack/internal/logger"
	"spendtrack/internal/services"
)

func main() {
	logger.Init("expenseservice")

	// Load configuration
	cfg, err := config.Load(8082)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up token verifier and services. The secret and algorithm must
	// match the user service, which signs the tokens.
	issuer, err := auth.NewTokenIssuer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up token verifier")
	}
	expenseService := services.NewExpenseService(db)

	// Set up router and server
	router := api.NewExpenseRouter(cfg, expenseService, issuer)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Expense service starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
