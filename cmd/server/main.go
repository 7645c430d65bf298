package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"family-movie-night/internal/api"
	"family-movie-night/internal/cache"
	"family-movie-night/internal/common/config"
	"family-movie-night/internal/common/database"
	"family-movie-night/internal/common/logger"
	"family-movie-night/internal/common/observability"
	"family-movie-night/internal/recommend/engine"
	"family-movie-night/internal/recommend/retrieval"
	"family-movie-night/internal/recommend/scoring"
	"family-movie-night/internal/tmdb"
	"family-movie-night/internal/warnings"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting recommendation server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("Redis unavailable", zap.Error(err))
	}
	defer redisClient.Close()

	// --- Metadata provider ---
	provider, err := tmdb.NewClient(cfg.TMDB, log)
	if err != nil {
		// Missing API key is a configuration error, never retried.
		zapLog.Fatal("provider client setup failed", zap.Error(err))
	}

	err = retryWithBackoff(func() error {
		initCtx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.TMDB.Timeout))
		defer cancel()
		return provider.Initialize(initCtx)
	}, 5, 2*time.Second, zapLog, "provider initialization")
	if err != nil {
		zapLog.Fatal("provider initialization failed", zap.Error(err))
	}

	// --- Pipeline wiring ---
	resultCache := cache.New(redisClient.GetClient(), config.GetDuration(cfg.Recommendation.MovieCacheTTL), log)

	strategy := retrieval.New(provider, resultCache, retrieval.Config{
		PageBudget: cfg.Recommendation.PageBudget,
		BatchSize:  cfg.Recommendation.BatchSize,
		BatchDelay: config.GetDuration(cfg.Recommendation.BatchDelay),
		CacheTTL:   config.GetDuration(cfg.Recommendation.MovieCacheTTL),
	}, log)

	scorer := scoring.New(provider.GenreNames)
	warningService := warnings.NewService(provider, log)

	recommendEngine := engine.New(strategy, scorer, warningService, obs, engine.Config{
		DefaultLimit:    cfg.Recommendation.DefaultLimit,
		WarningsTimeout: config.GetDuration(cfg.Recommendation.WarningsTimeout),
	}, log)

	handler := api.NewHandler(recommendEngine, provider, cfg.Recommendation.SimilarLimit, log)
	server := api.NewServer(cfg.Server, handler.Routes(), log)

	go func() {
		if err := server.Start(); err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during server shutdown", zap.Error(err))
	}

	zapLog.Info("Recommendation server stopped gracefully")
}
