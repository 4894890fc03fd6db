// Command example runs a small blog on actionkit: posts stored in
// PostgreSQL, sessions and page caches in Redis, translations from
// locales/, and Prometheus metrics on /metrics.
package main

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/actionkit"
	"github.com/dmitrymomot/actionkit/middlewares"
	"github.com/dmitrymomot/actionkit/pkg/cache"
	"github.com/dmitrymomot/actionkit/pkg/config"
	"github.com/dmitrymomot/actionkit/pkg/cookie"
	"github.com/dmitrymomot/actionkit/pkg/db"
	"github.com/dmitrymomot/actionkit/pkg/i18n"
	"github.com/dmitrymomot/actionkit/pkg/logger"
	"github.com/dmitrymomot/actionkit/pkg/redis"
	"github.com/dmitrymomot/actionkit/pkg/render"
	"github.com/dmitrymomot/actionkit/pkg/session"
	"github.com/dmitrymomot/actionkit/pkg/storage"
)

//go:embed views
var views embed.FS

//go:embed locales
var locales embed.FS

//go:embed migrations/*.sql
var migrations embed.FS

type appConfig struct {
	Addr       string        `env:"HTTP_ADDR" envDefault:":8080"`
	UploadsDir string        `env:"UPLOADS_DIR" envDefault:"uploads"`
	Shutdown   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	Log     logger.Config
	Cookie  cookie.Config
	DB      db.Config
	Redis   redis.Config
	Session session.RedisConfig
	Cache   cache.RedisConfig
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(cfg.Log, middlewares.RequestIDExtractor())
	if err := run(cfg, log); err != nil {
		log.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg appConfig, log *slog.Logger) error {
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	migrationsDir, _ := fs.Sub(migrations, "migrations")
	if err := db.Migrate(ctx, pool, migrationsDir, cfg.DB.MigrationsTable, log); err != nil {
		return err
	}

	client, err := redis.Open(ctx, cfg.Redis)
	if err != nil {
		return err
	}

	localesDir, _ := fs.Sub(locales, "locales")
	bundle, err := i18n.New(i18n.WithDir(localesDir), i18n.WithDefaultLanguage("en"))
	if err != nil {
		return err
	}

	uploads, err := storage.NewDir(cfg.UploadsDir)
	if err != nil {
		return err
	}

	viewsDir, _ := fs.Sub(views, "views")
	pages := cache.NewRedis[middlewares.CachedPage](client, nil, cache.RedisConfig{Prefix: cfg.Cache.Prefix + ":pages"})
	registry := prometheus.NewRegistry()

	app := actionkit.New(
		actionkit.WithCustomLogger(log),
		actionkit.WithCookieOptions(cfg.Cookie.Options()...),
		actionkit.WithSession(session.NewRedisStore(client, cfg.Session), actionkit.WithSessionSecure(cfg.Cookie.Secure)),
		actionkit.WithViews(viewsDir),
		actionkit.WithI18n(bundle),
		actionkit.WithFragmentCache(cache.NewRedis[[]byte](client, cache.Raw{}, cfg.Cache)),
		actionkit.WithStorage(uploads),
		actionkit.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Logger(middlewares.WithLoggerSkipPaths("/health/live", "/health/ready", "/metrics")),
			middlewares.Metrics(middlewares.WithMetricsRegisterer(registry), middlewares.WithMetricsNamespace("blog")),
			middlewares.Recover(),
			middlewares.I18n(bundle, middlewares.WithI18nRemember(365*24*60*60)),
			middlewares.CSRF(),
		),
		actionkit.WithControllers(
			&PostsController{posts: &postStore{pool: pool}, pages: pages},
			&PagesController{pages: pages},
		),
		actionkit.WithNotFoundHandler(notFound),
		actionkit.WithHealthChecks(
			actionkit.WithReadinessCheck("postgres", db.Healthcheck(pool)),
			actionkit.WithReadinessCheck("redis", redis.Healthcheck(client)),
		),
	)
	app.Router().Handle("/metrics", middlewares.MetricsHandler(registry))

	return app.Run(cfg.Addr,
		actionkit.ShutdownTimeout(cfg.Shutdown),
		actionkit.ShutdownHook(db.Shutdown(pool)),
		actionkit.ShutdownHook(redis.Shutdown(client)),
	)
}

func notFound(c actionkit.Context) error {
	return c.RenderView(render.Name("pages/not_found"), render.Options{Status: "not_found"})
}
