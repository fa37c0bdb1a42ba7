package http

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"article-tagger/internal/handler/http/article"
	"article-tagger/internal/handler/http/requestid"
	"article-tagger/internal/handler/http/respond"
	"article-tagger/internal/handler/http/tag"
	"article-tagger/internal/observability/slo"
	"article-tagger/internal/observability/tracing"
	"article-tagger/internal/resilience/circuitbreaker"
)

// RouterConfig carries everything NewRouter needs.
type RouterConfig struct {
	Articles article.Service
	Tagger   tag.Tagger

	DB      *sql.DB
	Breaker *circuitbreaker.CircuitBreaker
	Version string

	Mode           respond.Mode
	Logger         *slog.Logger
	RateLimiter    *RateLimiter
	SLO            *slo.Tracker
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

// NewRouter builds the route table and wraps it in the middleware chain.
//
// Every request gets a request id, a server span, an access log line, panic
// recovery and HTTP metrics. API routes are additionally rate limited, body
// limited and bounded by the request timeout.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api := http.NewServeMux()
	article.Register(api, cfg.Articles, cfg.Mode)
	tag.Register(api, cfg.Tagger, cfg.Mode)

	apiChain := []Middleware{}
	if cfg.RateLimiter.Enabled() {
		apiChain = append(apiChain, cfg.RateLimiter.Middleware)
	}
	if cfg.MaxBodyBytes > 0 {
		apiChain = append(apiChain, LimitRequestBody(cfg.MaxBodyBytes))
	}
	apiChain = append(apiChain, Timeout(cfg.RequestTimeout))

	root := http.NewServeMux()
	root.Handle("/", Chain(api, apiChain...))
	root.Handle("GET /health", &HealthHandler{DB: cfg.DB, Breaker: cfg.Breaker, Version: cfg.Version})
	root.Handle("GET /ready", &ReadyHandler{DB: cfg.DB})
	root.Handle("GET /live", &LiveHandler{})
	root.Handle("GET /metrics", MetricsHandler())

	return Chain(root,
		requestid.Middleware,
		tracing.Middleware,
		Logging(logger),
		Recover(logger),
		MetricsMiddleware(cfg.SLO),
	)
}
