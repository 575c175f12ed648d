// Path: cmd/daemon/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"arena-scout/internal/config"
	"arena-scout/internal/delivery/rest"
	"arena-scout/internal/events"
	"arena-scout/internal/fetcher"
	"arena-scout/internal/service"
	"arena-scout/internal/storage"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	// 2. Setup Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize Database Connection
	logger.Info().Str("uri", cfg.Database.URI).Msg("connecting to MongoDB")
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Database.URI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(ctx)
	db := mongoClient.Database(cfg.Database.Name)

	// 4. Initialize Components
	broker := events.NewBroker()
	projectStore := storage.NewMongoProjectStore(db, cfg.Database.Collection)
	arenaClient := fetcher.NewClient(cfg.Arena, logger)

	// 5. Initialize The Core Service
	coreService := service.NewService(cfg.Refresher, arenaClient, projectStore, broker, logger)

	// 6. Start the Service in the background
	go func() {
		if err := coreService.Start(ctx); err != nil && err != context.Canceled {
			logger.Error().Err(err).Msg("core service error")
			cancel()
		}
	}()

	// 7. Initialize and Start The API Server
	apiServer := rest.NewServer(cfg.Server, coreService, broker, cfg.Arena.PublicURL, logger)
	go func() {
		logger.Info().Str("port", cfg.Server.Port).Msg("API server starting")
		if err := apiServer.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("API server failed")
		}
	}()

	// 8. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutdown signal received, shutting down gracefully")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during API server shutdown")
	}
	coreService.Stop()

	logger.Info().Msg("server shut down successfully")
}
