// Command apiserver serves the patent search HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	patentapp "github.com/turtacn/mini-spade/internal/application/patent"
	"github.com/turtacn/mini-spade/internal/application/patent_mining"
	"github.com/turtacn/mini-spade/internal/bootstrap"
	"github.com/turtacn/mini-spade/internal/config"
	domainPatent "github.com/turtacn/mini-spade/internal/domain/patent"
	"github.com/turtacn/mini-spade/internal/infrastructure/database/postgres"
	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/mini-spade/internal/interfaces/http"
	"github.com/turtacn/mini-spade/internal/interfaces/http/handlers"
	"github.com/turtacn/mini-spade/internal/interfaces/http/middleware"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: SPADE_* environment only)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadOrEnv(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logging.SetDefault(logger)
	defer func() {
		if s, ok := logger.(logging.Syncer); ok {
			_ = s.Sync()
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting patent search API server",
		logging.String("version", version),
		logging.String("addr", cfg.Server.Addr()),
		logging.Bool("cache", cfg.Cache.Enabled),
	)

	var (
		metrics   *prometheus.AppMetrics
		collector prometheus.MetricsCollector
	)
	if cfg.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger.Named("metrics"))
		if err != nil {
			return fmt.Errorf("failed to initialize metrics: %w", err)
		}
		metrics = prometheus.NewAppMetrics(collector)
	}

	if cfg.Database.AutoMigrate {
		if err := postgres.NewMigrator(cfg.Database, logger.Named("migrate")).RunMigrations(); err != nil {
			return err
		}
	}

	infra, err := bootstrap.Open(ctx, cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer infra.Close()

	patents := patentapp.NewService(infra.Patents, logger.Named("search"),
		patentapp.WithMetrics(metrics),
		patentapp.WithMaxPageSize(cfg.Search.MaxPageSize),
	)

	ranker := domainPatent.NewRanker(domainPatent.RankerOptions{
		TopN:             cfg.Similarity.TopN,
		MinScore:         cfg.Similarity.MinScore,
		MinKeywordLength: cfg.Similarity.MinKeywordLength,
		Symmetric:        cfg.Similarity.SymmetricTokens,
	})
	simOpts := []patent_mining.Option{patent_mining.WithMetrics(metrics)}
	if infra.Cache != nil {
		simOpts = append(simOpts, patent_mining.WithCache(infra.Cache, cfg.Cache.SimilarTTL))
	}
	similar := patent_mining.NewSimilaritySearchService(infra.Patents, ranker, logger.Named("similarity"), simOpts...)

	checkers := []handlers.HealthChecker{handlers.NewChecker("postgres", infra.DB.HealthCheck)}
	if infra.Redis != nil {
		checkers = append(checkers, handlers.NewChecker("redis", infra.Redis.HealthCheck))
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		PatentHandler:    handlers.NewPatentHandler(patents, similar, logger.Named("http"), cfg.Search.DefaultPageSize),
		HealthHandler:    handlers.NewHealthHandler(version, logger.Named("health"), metrics, checkers...),
		CORS:             middleware.CORSFromConfig(cfg.CORS),
		Logging:          middleware.DefaultLoggingConfig(),
		Logger:           logger.Named("http"),
		Metrics:          metrics,
		MetricsCollector: collector,
		MetricsPath:      cfg.Metrics.Path,
	})
	srv := httpserver.NewServer(cfg.Server, router, logger.Named("server"))

	if configPath != "" {
		watchLogLevel(configPath, logger)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutdown signal received")
	if err := srv.Shutdown(context.Background()); err != nil {
		return err
	}
	return <-errCh
}

// watchLogLevel applies log.level edits of the config file at runtime.
// Every other setting needs a restart.
func watchLogLevel(path string, logger logging.Logger) {
	ls, ok := logger.(logging.LevelSetter)
	if !ok {
		return
	}
	err := config.Watch(path, func(cfg *config.Config) {
		if cfg.Log.Level != ls.Level() {
			ls.SetLevel(cfg.Log.Level)
			logger.Info("Log level changed", logging.String("level", cfg.Log.Level))
		}
	}, func(err error) {
		logger.Warn("Ignoring invalid config change", logging.Err(err))
	})
	if err != nil {
		logger.Warn("Config watch disabled", logging.Err(err))
	}
}

//Personal.AI order the ending
