package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultServerHost            = "0.0.0.0"
	DefaultServerPort            = 8080
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 30 * time.Second
	DefaultServerIdleTimeout     = 60 * time.Second
	DefaultServerShutdownTimeout = 10 * time.Second

	DefaultDBHost             = "localhost"
	DefaultDBPort             = 5432
	DefaultDBUser             = "postgres"
	DefaultDBName             = "spade"
	DefaultDBSSLMode          = "disable"
	DefaultDBMaxOpenConns     = 25
	DefaultDBMaxIdleConns     = 10
	DefaultDBConnMaxLifetime  = 30 * time.Minute
	DefaultDBConnMaxIdleTime  = 5 * time.Minute
	DefaultDBStatementTimeout = 30 * time.Second
	DefaultDBLockTimeout      = 10 * time.Second

	DefaultRedisAddr     = "localhost:6379"
	DefaultRedisPoolSize = 10

	DefaultCacheKeyPrefix  = "spade:"
	DefaultCacheSimilarTTL = 10 * time.Minute

	DefaultSearchPageSize    = 10
	DefaultSearchMaxPageSize = 100

	DefaultSimilarityTopN             = 3
	DefaultSimilarityMinScore         = 1
	DefaultSimilarityMinKeywordLength = 3

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "spade-datasets"

	DefaultSeedWorkers = 8

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "spade"

	DefaultCORSMaxAge = 300
)

// DefaultCORSOrigins is the dev origin of the presentation layer.
var DefaultCORSOrigins = []string{"http://localhost:3000"}

// ApplyDefaults fills every zero-value field in cfg with its default.  Values
// already set are left unchanged.  Booleans and the similarity thresholds, where
// zero is a meaningful setting, are defaulted through registerDefaults instead.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultServerIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.User == "" {
		cfg.Database.User = DefaultDBUser
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = DefaultDBSSLMode
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = DefaultDBMaxOpenConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = DefaultDBMaxIdleConns
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = DefaultDBConnMaxLifetime
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = DefaultDBConnMaxIdleTime
	}
	if cfg.Database.StatementTimeout == 0 {
		cfg.Database.StatementTimeout = DefaultDBStatementTimeout
	}
	if cfg.Database.LockTimeout == 0 {
		cfg.Database.LockTimeout = DefaultDBLockTimeout
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = DefaultRedisPoolSize
	}

	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = DefaultCacheKeyPrefix
	}
	if cfg.Cache.SimilarTTL == 0 {
		cfg.Cache.SimilarTTL = DefaultCacheSimilarTTL
	}

	if cfg.Search.DefaultPageSize == 0 {
		cfg.Search.DefaultPageSize = DefaultSearchPageSize
	}
	if cfg.Search.MaxPageSize == 0 {
		cfg.Search.MaxPageSize = DefaultSearchMaxPageSize
	}

	if cfg.Similarity.TopN == 0 {
		cfg.Similarity.TopN = DefaultSimilarityTopN
	}

	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}

	if cfg.Seed.Workers == 0 {
		cfg.Seed.Workers = DefaultSeedWorkers
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = append([]string(nil), DefaultCORSOrigins...)
	}
	if cfg.CORS.MaxAge == 0 {
		cfg.CORS.MaxAge = DefaultCORSMaxAge
	}
}

// registerDefaults seeds v with a default for every key.  Viper only binds
// SPADE_* environment variables for keys it already knows, so every leaf has
// to be registered here for LoadFromEnv to see it.
func registerDefaults(v *viper.Viper) {
	v.SetDefault("server.host", DefaultServerHost)
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.read_timeout", DefaultServerReadTimeout)
	v.SetDefault("server.write_timeout", DefaultServerWriteTimeout)
	v.SetDefault("server.idle_timeout", DefaultServerIdleTimeout)
	v.SetDefault("server.shutdown_timeout", DefaultServerShutdownTimeout)

	v.SetDefault("database.host", DefaultDBHost)
	v.SetDefault("database.port", DefaultDBPort)
	v.SetDefault("database.user", DefaultDBUser)
	v.SetDefault("database.password", "")
	v.SetDefault("database.db_name", DefaultDBName)
	v.SetDefault("database.ssl_mode", DefaultDBSSLMode)
	v.SetDefault("database.max_open_conns", DefaultDBMaxOpenConns)
	v.SetDefault("database.max_idle_conns", DefaultDBMaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", DefaultDBConnMaxLifetime)
	v.SetDefault("database.conn_max_idle_time", DefaultDBConnMaxIdleTime)
	v.SetDefault("database.statement_timeout", DefaultDBStatementTimeout)
	v.SetDefault("database.lock_timeout", DefaultDBLockTimeout)
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("redis.addr", DefaultRedisAddr)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", DefaultRedisPoolSize)
	v.SetDefault("redis.min_idle_conns", 0)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.key_prefix", DefaultCacheKeyPrefix)
	v.SetDefault("cache.similar_ttl", DefaultCacheSimilarTTL)

	v.SetDefault("search.default_page_size", DefaultSearchPageSize)
	v.SetDefault("search.max_page_size", DefaultSearchMaxPageSize)

	v.SetDefault("similarity.top_n", DefaultSimilarityTopN)
	v.SetDefault("similarity.min_score", DefaultSimilarityMinScore)
	v.SetDefault("similarity.min_keyword_length", DefaultSimilarityMinKeywordLength)
	v.SetDefault("similarity.symmetric_tokens", false)

	v.SetDefault("minio.endpoint", DefaultMinIOEndpoint)
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.bucket", DefaultMinIOBucket)
	v.SetDefault("minio.region", "")
	v.SetDefault("minio.use_ssl", false)

	v.SetDefault("seed.workers", DefaultSeedWorkers)
	v.SetDefault("seed.file", "")
	v.SetDefault("seed.object", "")

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.output_paths", []string{"stdout"})
	v.SetDefault("log.error_output_paths", []string{"stderr"})

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", DefaultMetricsPath)
	v.SetDefault("metrics.namespace", DefaultMetricsNamespace)

	v.SetDefault("cors.allowed_origins", DefaultCORSOrigins)
	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "X-Request-ID"})
	v.SetDefault("cors.max_age", DefaultCORSMaxAge)
}

//Personal.AI order the ending
