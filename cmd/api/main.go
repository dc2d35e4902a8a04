// Package main is the entrypoint for the userdesk API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/userdesk/userdesk/internal/auth"
	"github.com/userdesk/userdesk/internal/cache"
	"github.com/userdesk/userdesk/internal/config"
	"github.com/userdesk/userdesk/internal/handler"
	"github.com/userdesk/userdesk/internal/metrics"
	"github.com/userdesk/userdesk/internal/middleware"
	"github.com/userdesk/userdesk/internal/pageinfo"
	"github.com/userdesk/userdesk/internal/server"
	"github.com/userdesk/userdesk/internal/service"
	"github.com/userdesk/userdesk/internal/store"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	var verifier *auth.Verifier
	if cfg.AuthEnabled() {
		verifier, err = auth.NewVerifier(cfg.APIKeyHash)
		if err != nil {
			logger.Error("invalid API_KEY_HASH", "error", err)
			os.Exit(1)
		}
		logger.Info("API key auth enabled for mutating routes")
	} else {
		logger.Warn("API_KEY_HASH not set, mutating routes are open")
	}

	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		logger.Info("connected to Redis", slog.String("redis_url", redactURL(cfg.RedisURL)))
	}

	app := newApp(cfg, logger, cacheClient, verifier)

	srv := server.New(
		app.router,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	if cacheClient != nil {
		srv.OnShutdown("redis", func(ctx context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"version", cfg.AppVersion,
		"rate_limit_backend", rateLimitBackend(cfg, cacheClient),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// app holds the wired application graph.
type app struct {
	router  *chi.Mux
	store   *store.UserStore
	metrics *metrics.InMemoryRecorder
}

// newApp builds the store, services and router. cacheClient and verifier may be nil.
func newApp(cfg *config.Config, logger *slog.Logger, cacheClient *cache.Cache, verifier *auth.Verifier) *app {
	recorder := metrics.NewInMemory()
	userStore := store.New()
	userService := service.NewUserService(userStore, recorder)
	page := pageinfo.New(pageinfo.Options{
		Title:       cfg.AppTitle,
		Description: cfg.AppDescription,
		Version:     cfg.AppVersion,
	})
	logger.Info("page data prerendered", "build_time", page.BuildTime())

	var healthCache handler.HealthChecker
	if cacheClient != nil {
		healthCache = cacheClient
	}

	r := setupRouter(routerDeps{
		cfg:      cfg,
		logger:   logger,
		cache:    cacheClient,
		verifier: verifier,
		metrics:  recorder,
		h:        handler.New(cfg.AppVersion),
		health:   handler.NewHealthHandler(userService, healthCache),
		metricsH: handler.NewMetricsHandler(recorder, userService),
		page:     handler.NewPageHandler(page),
		users:    handler.NewUserHandler(userService, logger),
	})

	return &app{router: r, store: userStore, metrics: recorder}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With("service", "userdesk")
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	cfg      *config.Config
	logger   *slog.Logger
	cache    *cache.Cache
	verifier *auth.Verifier
	metrics  metrics.Recorder
	h        *handler.Handler
	health   *handler.HealthHandler
	metricsH *handler.MetricsHandler
	page     *handler.PageHandler
	users    *handler.UserHandler
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: d.cfg.IsDevelopment(),
		Logger:        d.logger,
	}))

	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: d.cfg.GetCORSAllowedOrigins(),
	}))

	// Probes and metrics
	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)
	r.Get("/metrics", d.metricsH.Metrics)

	r.Get("/", d.h.Hello)

	requireKey := middleware.RequireAPIKey(middleware.AuthConfig{
		Logger:   d.logger,
		Verifier: d.verifier,
		Metrics:  d.metrics,
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Logger:  d.logger,
			Metrics: d.metrics,
			Cache:   d.cache,
			Enabled: d.cfg.RateLimitEnabled,
			RPM:     d.cfg.RateLimitRPM,
			Burst:   d.cfg.RateLimitBurst,
		}))
		r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))

		r.Get("/page", d.page.Load)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", d.users.List)
			r.Get("/{id}", d.users.Get)
			r.With(requireKey).Post("/", d.users.Create)
			r.With(requireKey).Patch("/{id}", d.users.Update)
			r.With(requireKey).Delete("/{id}", d.users.Delete)
		})
	})

	r.NotFound(d.h.NotFound)
	r.MethodNotAllowed(d.h.MethodNotAllowed)

	return r
}

func rateLimitBackend(cfg *config.Config, c *cache.Cache) string {
	switch {
	case !cfg.RateLimitEnabled:
		return "disabled"
	case c != nil:
		return "redis"
	default:
		return "memory"
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
