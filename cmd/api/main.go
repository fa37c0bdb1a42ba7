package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"article-tagger/internal/config"
	pgRepo "article-tagger/internal/infra/adapter/persistence/postgres"
	liteRepo "article-tagger/internal/infra/adapter/persistence/sqlite"
	"article-tagger/internal/infra/db"
	"article-tagger/internal/observability/logging"
	"article-tagger/internal/observability/slo"
	"article-tagger/internal/observability/tracing"
	"article-tagger/internal/repository"

	artUC "article-tagger/internal/usecase/article"
	tagUC "article-tagger/internal/usecase/tag"

	hhttp "article-tagger/internal/handler/http"
	"article-tagger/internal/handler/http/respond"
)

const (
	serviceName = "article-tagger"

	// defaultActor stamps tags when neither TAGGED_BY nor the DSN names a user.
	defaultActor = "article-tagger"

	sloFlushInterval        = time.Minute
	rateLimitCleanupPeriod  = 5 * time.Minute
	tracerShutdownTimeout   = 5 * time.Second
	serverReadHeaderTimeout = 10 * time.Second
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.LoadAppConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	database := initDatabase(logger, cfg)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	shutdownTracing := tracing.Setup(serviceName, cfg.AppEnv, cfg.Tracing.SampleRatio)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), tracerShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	components := setupServer(logger, cfg, database)
	runServer(logger, cfg, components)
}

func initDatabase(logger *slog.Logger, cfg config.AppConfig) *sql.DB {
	ctx := context.Background()

	database, err := db.Open(ctx, cfg.Database.Driver, cfg.Database.URL, cfg.Database.Pool())
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.Database.BootstrapSchema {
		if err := db.EnsureSchema(ctx, database, cfg.Database.Driver); err != nil {
			_ = database.Close()
			logger.Error("failed to bootstrap schema", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("database schema ensured", slog.String("driver", cfg.Database.Driver))
	}
	return database
}

// ServerComponents holds everything runServer needs besides the config.
type ServerComponents struct {
	Handler     http.Handler
	RateLimiter *hhttp.RateLimiter
	SLO         *slo.Tracker
}

type repositories struct {
	articles repository.ArticleRepository
	entities repository.EntityRepository
	tags     repository.TagRepository
}

func newRepositories(driver string, database *sql.DB) repositories {
	if driver == db.DriverSQLite {
		return repositories{
			articles: liteRepo.NewArticleRepo(database),
			entities: liteRepo.NewEntityRepo(database),
			tags:     liteRepo.NewTagRepo(database),
		}
	}
	return repositories{
		articles: pgRepo.NewArticleRepo(database),
		entities: pgRepo.NewEntityRepo(database),
		tags:     pgRepo.NewTagRepo(database),
	}
}

// resolveActor picks the identity stamped on inserted tags.
func resolveActor(logger *slog.Logger, cfg config.AppConfig) string {
	if cfg.TaggedBy != "" {
		return cfg.TaggedBy
	}
	user, err := db.UserFromDSN(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		logger.Warn("could not read user from DATABASE_URL", slog.Any("error", err))
	}
	if user == "" {
		return defaultActor
	}
	return user
}

func setupServer(logger *slog.Logger, cfg config.AppConfig, database *sql.DB) *ServerComponents {
	breaker := db.NewDBCircuitBreaker()
	txm := db.NewTxManager(database, db.WithCircuitBreaker(breaker))
	repos := newRepositories(cfg.Database.Driver, database)

	actor := resolveActor(logger, cfg)
	logger.Info("tagging identity resolved", slog.String("tagged_by", actor))

	articleSvc := artUC.NewService(txm, repos.articles, repos.entities, repos.tags)
	tagSvc := tagUC.NewService(txm, repos.tags, actor)

	// Validate already parsed these; the error cannot occur here.
	trusted, _ := cfg.RateLimit.TrustedPrefixes()
	limiter := hhttp.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst,
		hhttp.WithIPExtractor(hhttp.NewIPExtractor(trusted)))
	tracker := slo.NewTracker()

	handler := hhttp.NewRouter(hhttp.RouterConfig{
		Articles:       articleSvc,
		Tagger:         tagSvc,
		DB:             database,
		Breaker:        breaker,
		Version:        cfg.Version,
		Mode:           respond.ParseMode(cfg.AppEnv),
		Logger:         logger,
		RateLimiter:    limiter,
		SLO:            tracker,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		RequestTimeout: cfg.RequestTimeout,
	})

	logger.Info("server configured",
		slog.String("driver", cfg.Database.Driver),
		slog.String("env", cfg.AppEnv),
		slog.Bool("rate_limit_enabled", limiter.Enabled()),
		slog.Float64("rate_limit_rps", cfg.RateLimit.RPS),
		slog.Int("trusted_proxies", len(trusted)),
		slog.Int64("max_body_bytes", cfg.MaxBodyBytes),
		slog.Duration("request_timeout", cfg.RequestTimeout),
		slog.String("breaker", breaker.Name()))

	return &ServerComponents{
		Handler:     handler,
		RateLimiter: limiter,
		SLO:         tracker,
	}
}

func runServer(logger *slog.Logger, cfg config.AppConfig, components *ServerComponents) {
	// Create a context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go components.SLO.Run(ctx, sloFlushInterval)
	if components.RateLimiter.Enabled() {
		go components.RateLimiter.StartCleanup(ctx, rateLimitCleanupPeriod)
		logger.Info("rate limit cleanup started", slog.Duration("interval", rateLimitCleanupPeriod))
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           components.Handler,
		ReadHeaderTimeout: serverReadHeaderTimeout, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.HTTPAddr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}

	// Stop background goroutines once in-flight requests have drained
	cancel()
	logger.Info("server stopped")
}
