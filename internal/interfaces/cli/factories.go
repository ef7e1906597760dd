package cli

import (
	"context"
	"io"

	patentapp "github.com/turtacn/mini-spade/internal/application/patent"
	"github.com/turtacn/mini-spade/internal/bootstrap"
	"github.com/turtacn/mini-spade/internal/config"
	"github.com/turtacn/mini-spade/internal/infrastructure/database/postgres"
	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/mini-spade/internal/infrastructure/storage/minio"
	"github.com/turtacn/mini-spade/pkg/client"
)

// PatentAPI is the part of *client.Client the query commands use.
type PatentAPI interface {
	Search(ctx context.Context, params client.SearchParams) (*client.SearchResponse, error)
	Similar(ctx context.Context, id string) (*client.SimilarResponse, error)
	Get(ctx context.Context, id string) (*client.Patent, error)
}

// Migrator applies and inspects schema migrations.
type Migrator interface {
	RunMigrations() error
	RollbackMigration(steps int) error
	MigrationStatus() (uint, bool, error)
	ForceMigrationVersion(version int) error
}

// Seeder loads a dataset, replacing the stored corpus.
type Seeder interface {
	Import(ctx context.Context, source string, r io.Reader) (*patentapp.ImportResult, error)
}

// DatasetStore manages seed objects in the dataset bucket.
type DatasetStore interface {
	Open(ctx context.Context, key string) (io.ReadCloser, *minio.DatasetInfo, error)
	Upload(ctx context.Context, key string, r io.Reader, size int64) (*minio.DatasetInfo, error)
	List(ctx context.Context, prefix string) ([]minio.DatasetInfo, error)
}

// Factories build the infrastructure behind the local commands.  Each
// returned cleanup func must be called when the command ends.
type Factories struct {
	Migrator func(cfg *config.Config, log logging.Logger) (Migrator, error)
	Seeder   func(ctx context.Context, cfg *config.Config, log logging.Logger) (Seeder, func(), error)
	Datasets func(ctx context.Context, cfg *config.Config, log logging.Logger) (DatasetStore, error)
}

func (f Factories) withDefaults() Factories {
	d := DefaultFactories()
	if f.Migrator == nil {
		f.Migrator = d.Migrator
	}
	if f.Seeder == nil {
		f.Seeder = d.Seeder
	}
	if f.Datasets == nil {
		f.Datasets = d.Datasets
	}
	return f
}

// DefaultFactories connect to the configured Postgres, Redis and MinIO.
func DefaultFactories() Factories {
	return Factories{
		Migrator: func(cfg *config.Config, log logging.Logger) (Migrator, error) {
			return postgres.NewMigrator(cfg.Database, log.Named("migrate")), nil
		},
		Seeder: func(ctx context.Context, cfg *config.Config, log logging.Logger) (Seeder, func(), error) {
			infra, err := bootstrap.Open(ctx, cfg, log, nil, bootstrap.ForSeeding())
			if err != nil {
				return nil, nil, err
			}
			opts := []patentapp.ImporterOption{patentapp.WithWorkers(cfg.Seed.Workers)}
			if infra.Redis != nil {
				opts = append(opts,
					patentapp.WithImportCache(infra.Cache),
					patentapp.WithImportLock(infra.SeedLock()),
				)
			}
			return patentapp.NewImporter(infra.Patents, log.Named("seed"), opts...), infra.Close, nil
		},
		Datasets: func(ctx context.Context, cfg *config.Config, log logging.Logger) (DatasetStore, error) {
			return bootstrap.OpenDatasets(ctx, cfg, log)
		},
	}
}

//Personal.AI order the ending
