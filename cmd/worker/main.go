package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"careerhelper/internal/config"
	"careerhelper/internal/jobstore"
	"careerhelper/internal/metrics"
	"careerhelper/internal/pipeline"
	"careerhelper/internal/tasks"
	"careerhelper/internal/worker"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	store, err := jobstore.NewStore(cfg.Jobs.Dir, cfg.Jobs.Retention)
	if err != nil {
		log.Fatalf("init job store: %v", err)
	}
	logger.Info("job store ready", slog.String("dir", store.Dir()))

	generator, err := pipeline.NewGeminiGenerator(cfg.Gemini)
	if err != nil {
		log.Fatalf("init gemini generator: %v", err)
	}
	runner := pipeline.NewRunner(generator, logger)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	go sweepLoop(store, cfg.Jobs.Retention, logger)

	// Concurrency bounds the number of pipelines in flight; admission
	// control happens in the queue rather than per-request goroutines.
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.Redis.Addr()},
		asynq.Config{Concurrency: cfg.Jobs.Concurrency},
	)

	recommendHandler := worker.NewRecommendTaskHandler(store, runner, redisClient, logger)

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypeRecommend, recommendHandler)

	logger.Info("worker service started",
		slog.String("redis_addr", cfg.Redis.Addr()),
		slog.Int("concurrency", cfg.Jobs.Concurrency),
		slog.String("model", cfg.Gemini.Model),
	)
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
	}
}

// sweepLoop evicts expired job records so the store stays bounded even when
// no new outcomes are written.
func sweepLoop(store *jobstore.Store, retention time.Duration, logger *slog.Logger) {
	interval := retention / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		removed, err := store.Sweep()
		if err != nil {
			logger.Error("sweep job store failed", slog.Any("error", err))
			continue
		}
		if removed > 0 {
			logger.Info("swept expired job records", slog.Int("removed", removed))
		}
	}
}
