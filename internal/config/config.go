// Package config defines the configuration structures of the Mini-SPADE
// search service.  No I/O or parsing logic lives here, only plain data types
// and validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/logging"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host             string        `mapstructure:"host" yaml:"host"`
	Port             int           `mapstructure:"port" yaml:"port"`
	User             string        `mapstructure:"user" yaml:"user"`
	Password         string        `mapstructure:"password" yaml:"password"`
	DBName           string        `mapstructure:"db_name" yaml:"db_name"`
	SSLMode          string        `mapstructure:"ssl_mode" yaml:"ssl_mode"`
	MaxOpenConns     int           `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns     int           `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	ConnMaxIdleTime  time.Duration `mapstructure:"conn_max_idle_time" yaml:"conn_max_idle_time"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout" yaml:"statement_timeout"`
	LockTimeout      time.Duration `mapstructure:"lock_timeout" yaml:"lock_timeout"`
	// AutoMigrate applies pending schema migrations when the API server starts.
	AutoMigrate bool `mapstructure:"auto_migrate" yaml:"auto_migrate"`
}

// RedisConfig holds Redis connection parameters.  The connection is only
// opened when cache.enabled is true.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr" yaml:"addr"`
	Password     string        `mapstructure:"password" yaml:"password"`
	DB           int           `mapstructure:"db" yaml:"db"`
	PoolSize     int           `mapstructure:"pool_size" yaml:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns" yaml:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// CacheConfig controls the similarity result cache.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled" yaml:"enabled"`
	KeyPrefix  string        `mapstructure:"key_prefix" yaml:"key_prefix"`
	SimilarTTL time.Duration `mapstructure:"similar_ttl" yaml:"similar_ttl"`
}

// SearchConfig holds pagination limits for /api/search.
type SearchConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size" yaml:"default_page_size"`
	MaxPageSize     int `mapstructure:"max_page_size" yaml:"max_page_size"`
}

// SimilarityConfig tunes the keyword-overlap ranker.
type SimilarityConfig struct {
	TopN int `mapstructure:"top_n" yaml:"top_n"`
	// MinScore is exclusive: a candidate must overlap on more than MinScore
	// keywords to be returned.
	MinScore int `mapstructure:"min_score" yaml:"min_score"`
	// MinKeywordLength is exclusive as well; source tokens of this length or
	// shorter are dropped.
	MinKeywordLength int `mapstructure:"min_keyword_length" yaml:"min_keyword_length"`
	// SymmetricTokens applies the source-side length and stop-word filters to
	// candidate abstracts too.
	SymmetricTokens bool `mapstructure:"symmetric_tokens" yaml:"symmetric_tokens"`
}

// MinIOConfig holds object-storage parameters for dataset loading.
type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint"`
	AccessKey string `mapstructure:"access_key" yaml:"access_key"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket"`
	Region    string `mapstructure:"region" yaml:"region"`
	UseSSL    bool   `mapstructure:"use_ssl" yaml:"use_ssl"`
}

// SeedConfig holds bulk-load parameters.
type SeedConfig struct {
	Workers int    `mapstructure:"workers" yaml:"workers"`
	File    string `mapstructure:"file" yaml:"file"`
	Object  string `mapstructure:"object" yaml:"object"`
}

// MetricsConfig controls Prometheus exposition.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Path      string `mapstructure:"path" yaml:"path"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
}

// CORSConfig lists the origins of the presentation layer.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	AllowedHeaders []string `mapstructure:"allowed_headers" yaml:"allowed_headers"`
	MaxAge         int      `mapstructure:"max_age" yaml:"max_age"`
}

// Config is the root configuration structure.
type Config struct {
	Server     ServerConfig      `mapstructure:"server" yaml:"server"`
	Database   DatabaseConfig    `mapstructure:"database" yaml:"database"`
	Redis      RedisConfig       `mapstructure:"redis" yaml:"redis"`
	Cache      CacheConfig       `mapstructure:"cache" yaml:"cache"`
	Search     SearchConfig      `mapstructure:"search" yaml:"search"`
	Similarity SimilarityConfig  `mapstructure:"similarity" yaml:"similarity"`
	MinIO      MinIOConfig       `mapstructure:"minio" yaml:"minio"`
	Seed       SeedConfig        `mapstructure:"seed" yaml:"seed"`
	Log        logging.LogConfig `mapstructure:"log" yaml:"log"`
	Metrics    MetricsConfig     `mapstructure:"metrics" yaml:"metrics"`
	CORS       CORSConfig        `mapstructure:"cors" yaml:"cors"`
}

// Redacted returns a copy with secrets masked, for printing.
func (c Config) Redacted() Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "******"
	}
	c.Database.Password = mask(c.Database.Password)
	c.Redis.Password = mask(c.Redis.Password)
	c.MinIO.SecretKey = mask(c.MinIO.SecretKey)
	c.CORS.AllowedOrigins = append([]string(nil), c.CORS.AllowedOrigins...)
	return c
}

// Validate performs semantic validation of a defaulted Config.  It returns the
// first error encountered.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: server.shutdown_timeout must be positive")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.db_name is required")
	}
	switch c.Database.SSLMode {
	case "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
	default:
		return fmt.Errorf("config: database.ssl_mode %q is invalid", c.Database.SSLMode)
	}
	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("config: database.max_open_conns must be >= 1, got %d", c.Database.MaxOpenConns)
	}

	if c.Cache.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required when cache.enabled is true")
		}
		if c.Cache.SimilarTTL <= 0 {
			return fmt.Errorf("config: cache.similar_ttl must be positive")
		}
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be >= 0, got %d", c.Redis.DB)
	}

	if c.Search.DefaultPageSize < 1 {
		return fmt.Errorf("config: search.default_page_size must be >= 1, got %d", c.Search.DefaultPageSize)
	}
	if c.Search.MaxPageSize < c.Search.DefaultPageSize {
		return fmt.Errorf("config: search.max_page_size %d is below default_page_size %d",
			c.Search.MaxPageSize, c.Search.DefaultPageSize)
	}

	if c.Similarity.TopN < 1 {
		return fmt.Errorf("config: similarity.top_n must be >= 1, got %d", c.Similarity.TopN)
	}
	if c.Similarity.MinScore < 0 {
		return fmt.Errorf("config: similarity.min_score must be >= 0, got %d", c.Similarity.MinScore)
	}
	if c.Similarity.MinKeywordLength < 0 {
		return fmt.Errorf("config: similarity.min_keyword_length must be >= 0, got %d", c.Similarity.MinKeywordLength)
	}

	if c.Seed.Workers < 1 {
		return fmt.Errorf("config: seed.workers must be >= 1, got %d", c.Seed.Workers)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("config: metrics.path %q must start with /", c.Metrics.Path)
	}

	return nil
}

//Personal.AI order the ending
