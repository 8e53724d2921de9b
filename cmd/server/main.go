package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/ultramarket/recommendation-engine/internal/cache"
	"github.com/ultramarket/recommendation-engine/internal/catalog"
	"github.com/ultramarket/recommendation-engine/internal/config"
	"github.com/ultramarket/recommendation-engine/internal/events"
	"github.com/ultramarket/recommendation-engine/internal/feed"
	"github.com/ultramarket/recommendation-engine/internal/handler"
	"github.com/ultramarket/recommendation-engine/internal/model"
	"github.com/ultramarket/recommendation-engine/internal/profile"
	"github.com/ultramarket/recommendation-engine/internal/recommender"
	"github.com/ultramarket/recommendation-engine/internal/repository"
	"github.com/ultramarket/recommendation-engine/internal/router"
	"github.com/ultramarket/recommendation-engine/internal/service"
	"github.com/ultramarket/recommendation-engine/seeds"
	"go.uber.org/zap"
)

func main() {
	// Local development overrides; absent .env files are fine.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	// ------------ PostgreSQL ---------------
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to parse database config", zap.Error(err))
	}
	poolConfig.MaxConns = int32(cfg.DBPoolSize)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := waitForDB(ctx, pool, logger); err != nil {
		logger.Fatal("database not ready", zap.Error(err))
	}
	logger.Info("connected to PostgreSQL")

	// ------------ Run Migrations ---------------
	// for migrate-down using CLI command
	if len(os.Args) > 1 && os.Args[1] == "migrate-down" {
		if err := migrate(ctx, pool, "migrations/create_tables.down.sql"); err != nil {
			logger.Fatal("failed to migrate down", zap.Error(err))
		}
		logger.Info("migrations dropped")
		return
	}

	if err := migrate(ctx, pool, "migrations/create_tables.up.sql"); err != nil {
		logger.Fatal("failed to migrate up", zap.Error(err))
	}
	logger.Info("migrations applied")

	// ------------ Redis ---------------
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal("failed to parse redis url", zap.Error(err))
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis not ready", zap.Error(err))
	}
	logger.Info("connected to Redis")

	// ------------ Seed Data ---------------
	if err := checkSeed(ctx, pool, redisClient, logger); err != nil {
		logger.Fatal("failed to seed", zap.Error(err))
	}

	// ------------ Wiring ---------------
	repo := repository.New(pool)
	profileCache := cache.NewProfileCache(redisClient, cfg.ProfileTTL)
	profiles := profile.NewBuilder(repo, repo, repo, profileCache, logger)
	catalogView := catalog.NewView(repo)
	rankedFeed := feed.NewRedisFeed(redisClient)
	tracker := events.NewTracker(events.NewRedisSink(redisClient), logger)

	modelStore := model.NewFileStore(cfg.ModelDir)
	models := model.NewManager(modelStore, repo, cfg.PredictTimeout, logger)

	recommenders := []recommender.Recommender{
		recommender.NewPersonalized(models, logger),
		recommender.NewSimilarity(logger),
		recommender.NewTrending(rankedFeed, logger),
		recommender.NewCollaborative(rankedFeed, repo, logger),
		recommender.NewContentBased(logger),
	}
	aggregator := recommender.NewAggregator(repo, logger)

	svc := service.NewService(profiles, catalogView, recommenders, aggregator, tracker, models, logger)
	h := handler.NewHandler(svc, logger)
	b := handler.NewBatchHandler(svc, repo)

	// ---------------- Server --------------------
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.Setup(h, b),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		logger.Info("waiting for database...", zap.Int("attempt", i+1))
		time.Sleep(1 * time.Second)
	}
	return fmt.Errorf("database connection timeout after 30s")
}

func migrate(ctx context.Context, pool *pgxpool.Pool, path string) error {
	sql, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	return nil
}

func checkSeed(ctx context.Context, pool *pgxpool.Pool, redisClient *redis.Client, logger *zap.Logger) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("check users count: %w", err)
	}
	if count > 0 {
		logger.Info("database already seeded, skipping", zap.Int("users", count))
		return seeds.SetupFeeds(ctx, pool, redisClient)
	}
	if err := seeds.Setup(ctx, pool); err != nil {
		return err
	}
	return seeds.SetupFeeds(ctx, pool, redisClient)
}
