// Package bootstrap opens the shared infrastructure of both binaries:
// the Postgres pool, the optional Redis cache and the dataset bucket.
package bootstrap

import (
	"context"

	"github.com/turtacn/mini-spade/internal/config"
	"github.com/turtacn/mini-spade/internal/infrastructure/database/postgres"
	"github.com/turtacn/mini-spade/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/mini-spade/internal/infrastructure/database/redis"
	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/mini-spade/internal/infrastructure/storage/minio"
)

// Infra holds the long-lived connections.  Redis and Cache are nil when
// Redis was not opened.
type Infra struct {
	DB      *postgres.Connection
	Patents *repositories.PatentRepository
	Redis   *redis.Client
	Cache   redis.Cache

	logger logging.Logger
}

// Option adjusts Open.
type Option func(*openOptions)

type openOptions struct {
	seeding bool
}

// ForSeeding connects to Redis even when cache.enabled is false, so a load
// takes the seed lock and purges rankings cached by an API server that runs
// with the cache on.  An unreachable Redis is then logged and skipped.
func ForSeeding() Option {
	return func(o *openOptions) { o.seeding = true }
}

// Open connects to Postgres and, when cache.enabled or ForSeeding is given,
// to Redis.  m may be nil.  A failure closes whatever was already opened.
func Open(ctx context.Context, cfg *config.Config, log logging.Logger, m *prometheus.AppMetrics, opts ...Option) (*Infra, error) {
	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}

	conn, err := postgres.NewConnection(ctx, cfg.Database, log.Named("postgres"))
	if err != nil {
		return nil, err
	}
	infra := &Infra{
		DB:      conn,
		Patents: repositories.NewPatentRepository(conn, log.Named("patent_repo"), repositories.WithMetrics(m)),
		logger:  log,
	}

	rc, cache, err := openRedis(ctx, cfg, log, m, o.seeding)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	infra.Redis = rc
	infra.Cache = cache
	return infra, nil
}

func openRedis(ctx context.Context, cfg *config.Config, log logging.Logger, m *prometheus.AppMetrics, seeding bool) (*redis.Client, redis.Cache, error) {
	if !cfg.Cache.Enabled && !seeding {
		return nil, nil, nil
	}
	rc, err := redis.NewClient(ctx, cfg.Redis, log.Named("redis"))
	if err != nil {
		if cfg.Cache.Enabled {
			return nil, nil, err
		}
		log.Warn("Redis unavailable, loading without seed lock or cache purge",
			logging.String("addr", cfg.Redis.Addr), logging.Err(err))
		return nil, nil, nil
	}
	cache := redis.NewRedisCache(rc, log.Named("cache"),
		redis.WithPrefix(cfg.Cache.KeyPrefix),
		redis.WithDefaultTTL(cfg.Cache.SimilarTTL),
		redis.WithMetrics(m, "similar"),
	)
	return rc, cache, nil
}

// SeedLock returns the lock serialising dataset loads, or nil without Redis.
func (i *Infra) SeedLock() redis.Mutex {
	if i.Redis == nil {
		return nil
	}
	return redis.NewMutex(i.Redis, "seed", 0, i.logger.Named("lock"))
}

// Close releases Redis first, then the database pool.
func (i *Infra) Close() {
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			i.logger.Warn("Failed to close Redis client", logging.Err(err))
		}
	}
	if err := i.DB.Close(); err != nil {
		i.logger.Warn("Failed to close database", logging.Err(err))
	}
}

// OpenDatasets connects to the dataset bucket, creating it when missing.
func OpenDatasets(ctx context.Context, cfg *config.Config, log logging.Logger) (*minio.DatasetStore, error) {
	mc, err := minio.NewMinIOClient(ctx, cfg.MinIO, log.Named("minio"))
	if err != nil {
		return nil, err
	}
	return minio.NewDatasetStore(mc, log.Named("datasets")), nil
}

//Personal.AI order the ending
