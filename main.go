package main

import (
	"context"
	"net/http"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/vladimiradmaev/glucose-logger/internal/config"
	"github.com/vladimiradmaev/glucose-logger/internal/database"
	"github.com/vladimiradmaev/glucose-logger/internal/domain"
	"github.com/vladimiradmaev/glucose-logger/internal/logger"
	"github.com/vladimiradmaev/glucose-logger/internal/offline"
	"github.com/vladimiradmaev/glucose-logger/internal/repository"
	"github.com/vladimiradmaev/glucose-logger/internal/server"
	"github.com/vladimiradmaev/glucose-logger/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		logger.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Info("Starting glucose logger")

	ctx := context.Background()

	// Remote store: unconfigured or unreachable degrades to local-only
	// mode, never a startup failure.
	var repo domain.ReadingRepository
	if cfg.DB.Configured() {
		db, err := database.NewPostgresDB(cfg.DB)
		if err != nil {
			logger.Warn("Remote store unreachable, running local-only", "error", err)
		} else {
			repo = repository.NewReadingRepository(db)
		}
	} else {
		logger.Warn("Remote store not configured, running local-only")
	}

	readingStore := store.New(repo)
	if err := readingStore.Load(ctx); err != nil {
		logger.Fatalf("Failed to load readings: %v", err)
	}

	// Offline shell cache: a failed install leaves the controller
	// unmounted; the next startup retries.
	var shell http.Handler
	if cfg.Cache.Enabled(cfg.Redis) {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		controller, err := offline.New(rdb, cfg.Cache.Upstream, cfg.Cache.Version, cfg.Cache.Assets)
		if err != nil {
			logger.Fatalf("Failed to build shell cache controller: %v", err)
		}
		if err := controller.Install(ctx); err != nil {
			logger.Warn("Shell cache install failed, controller disabled", "error", err)
		} else if err := controller.Activate(ctx); err != nil {
			logger.Warn("Shell cache activation failed, controller disabled", "error", err)
		} else {
			shell = controller
		}
	}

	srv := server.NewServer(readingStore)
	router := server.NewRouter(srv, shell)

	handler := cors.Default().Handler(router)
	handler = handlers.LoggingHandler(os.Stdout, handler)
	handler = handlers.RecoveryHandler()(handler)

	logger.Info("Listening", "addr", cfg.HTTP.Addr)
	if err := http.ListenAndServe(cfg.HTTP.Addr, handler); err != nil {
		logger.Fatalf("Server stopped: %v", err)
	}
}
