// Command server starts the career-leader HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairyhunter13/career-leader/internal/adapter/cache/rediscache"
	httpserver "github.com/fairyhunter13/career-leader/internal/adapter/httpserver"
	"github.com/fairyhunter13/career-leader/internal/adapter/observability"
	"github.com/fairyhunter13/career-leader/internal/adapter/queue/redpanda"
	"github.com/fairyhunter13/career-leader/internal/adapter/repo/memory"
	"github.com/fairyhunter13/career-leader/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/career-leader/internal/app"
	"github.com/fairyhunter13/career-leader/internal/assessment"
	"github.com/fairyhunter13/career-leader/internal/config"
	"github.com/fairyhunter13/career-leader/internal/domain"
	"github.com/fairyhunter13/career-leader/internal/service/ratelimiter"
	"github.com/fairyhunter13/career-leader/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)
	observability.InitMetrics()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	shutdownTracer, err := observability.SetupTracing(ctx, cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	// Catalog
	store := app.NewCatalogStore(cfg)
	catalogSvc := usecase.NewCatalogService(store)
	if _, err := catalogSvc.Reload(ctx); err != nil {
		return fmt.Errorf("initial catalog load: %w", err)
	}

	// Submissions: Postgres when configured, in-memory otherwise
	var (
		repo    domain.SubmissionRepository
		dbPing  app.Pinger
		retries = cfg.GetRetryConfig()
	)
	if cfg.DBURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DBURL, retries.BackOff())
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		repo = postgres.NewSubmissionRepo(pool)
		dbPing = pool
		if cfg.DataRetentionDays > 0 {
			go postgres.NewCleanupService(pool, cfg.DataRetentionDays).RunPeriodic(ctx, cfg.CleanupInterval)
			slog.Info("cleanup service started", slog.Int("retention_days", cfg.DataRetentionDays), slog.Duration("interval", cfg.CleanupInterval))
		}
	} else {
		mem := memory.NewSubmissionRepo()
		repo = mem
		slog.Warn("DB_URL not set, submissions are kept in memory")
		if cfg.DataRetentionDays > 0 {
			go mem.RunRetention(ctx, cfg.DataRetentionDays, cfg.CleanupInterval)
		}
	}

	// Recommendation cache
	var (
		recCache  domain.RecommendationCache
		redisPing app.RedisClient
		limiter   *ratelimiter.RedisLuaLimiter
	)
	if cfg.RedisURL != "" {
		rdb, err := rediscache.NewClient(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		recCache = rediscache.NewGuarded(rediscache.New(rdb, cfg.RecCacheTTL), rediscache.NewBreaker(3, 30*time.Second))
		redisPing = app.WrapRedis(rdb)
		limiter = ratelimiter.NewRedisLuaLimiter(rdb, ratelimiter.NewBucketConfigFromPerMinute(cfg.RateLimitPerMin))
	}

	// Assessment events
	var events domain.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := redpanda.NewProducer(ctx, cfg.KafkaBrokers, cfg.EventsTopic, retries.BackOff)
		if err != nil {
			return fmt.Errorf("redpanda producer: %w", err)
		}
		defer func() {
			if err := producer.Close(); err != nil {
				slog.Error("failed to close producer", slog.Any("error", err))
			}
		}()
		events = producer
	}

	classifier := assessment.New(assessment.WithLikertScale(cfg.LikertMin, cfg.LikertMax))
	assessmentSvc := usecase.NewAssessmentService(store, repo, events, classifier, cfg.DefaultRecLimit)
	recommendSvc := usecase.NewRecommendService(store, recCache, cfg.DefaultRecLimit)
	resultSvc := usecase.NewResultService(repo)

	checks := app.BuildReadinessChecks(store, dbPing, redisPing)
	srv := httpserver.NewServer(cfg, assessmentSvc, recommendSvc, resultSvc, catalogSvc, checks.DB, checks.Redis, checks.Catalog)
	if limiter != nil {
		srv.Limiter = limiter
	}
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port), slog.String("catalog_version", store.Current().Version))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

loop:
	for {
		select {
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				// failures keep the previous snapshot and are logged by the service
				_, _ = catalogSvc.Reload(ctx)
				continue
			}
			slog.Info("shutdown signal received", slog.String("signal", sig.String()))
			break loop
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			break loop
		}
	}

	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	return srvHTTP.Shutdown(shutdownCtx)
}
