//go:build integration

// Package e2e_test drives the assembled API through pkg/client against a
// real PostgreSQL container and an in-process Redis.
package e2e_test

import (
	"context"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	patentapp "github.com/turtacn/mini-spade/internal/application/patent"
	"github.com/turtacn/mini-spade/internal/application/patent_mining"
	"github.com/turtacn/mini-spade/internal/config"
	"github.com/turtacn/mini-spade/internal/infrastructure/database/postgres"
	"github.com/turtacn/mini-spade/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/mini-spade/internal/infrastructure/database/redis"
	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/mini-spade/internal/interfaces/http"
	"github.com/turtacn/mini-spade/internal/interfaces/http/handlers"
	"github.com/turtacn/mini-spade/internal/interfaces/http/middleware"
	"github.com/turtacn/mini-spade/pkg/client"
)

// testEnv is one running stack.
type testEnv struct {
	client   *client.Client
	importer *patentapp.Importer
	redis    *miniredis.Miniredis
}

func startPostgres(t *testing.T) config.DatabaseConfig {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "e2e",
				"POSTGRES_PASSWORD": "e2e",
				"POSTGRES_DB":       "spade_e2e",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	p, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	return config.DatabaseConfig{
		Host: host, Port: p, User: "e2e", Password: "e2e", DBName: "spade_e2e", SSLMode: "disable",
	}
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	log := logging.NewNopLogger()

	dbCfg := startPostgres(t)
	require.NoError(t, postgres.NewMigrator(dbCfg, log).RunMigrations())
	conn, err := postgres.NewConnection(ctx, dbCfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	repo := repositories.NewPatentRepository(conn, log)

	mr := miniredis.RunT(t)
	rc := redis.NewClientWithUniversal(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}), log)
	cache := redis.NewRedisCache(rc, log, redis.WithPrefix("e2e:"))

	similar := patent_mining.NewSimilaritySearchService(repo, nil, log, patent_mining.WithCache(cache, time.Minute))
	router := httpserver.NewRouter(httpserver.RouterConfig{
		PatentHandler: handlers.NewPatentHandler(patentapp.NewService(repo, log), similar, log, 10),
		HealthHandler: handlers.NewHealthHandler("e2e", log, nil,
			handlers.NewChecker("postgres", conn.HealthCheck),
			handlers.NewChecker("redis", rc.HealthCheck)),
		CORS:    middleware.DefaultCORSConfig(),
		Logging: middleware.DefaultLoggingConfig(),
		Logger:  log,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	c, err := client.NewClient(srv.URL)
	require.NoError(t, err)

	return &testEnv{
		client: c,
		importer: patentapp.NewImporter(repo, log,
			patentapp.WithImportCache(cache),
			patentapp.WithImportLock(redis.NewMutex(rc, "seed", time.Minute, log)),
			patentapp.WithWorkers(4)),
		redis: mr,
	}
}

//Personal.AI order the ending
