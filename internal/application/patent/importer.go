package patent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/turtacn/mini-spade/internal/application/patent_mining"
	domainPatent "github.com/turtacn/mini-spade/internal/domain/patent"
	"github.com/turtacn/mini-spade/internal/infrastructure/database/redis"
	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/mini-spade/pkg/errors"
)

const defaultImportWorkers = 8

// Record is one element of a dataset file.  Field names follow the API wire
// format; publicationDate may be a date or an RFC 3339 timestamp.
type Record struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Abstract        string            `json:"abstract"`
	Inventors       []string          `json:"inventors"`
	PublicationDate domainPatent.Date `json:"publicationDate"`
	RelevanceScore  float64           `json:"relevanceScore"`
	Assignee        *string           `json:"assignee,omitempty"`
	Status          *string           `json:"status,omitempty"`
	CPCCodes        []string          `json:"cpcCodes,omitempty"`
	Claims          []string          `json:"claims,omitempty"`
}

// ToPatent validates r and builds the normalized domain entity.
func (r *Record) ToPatent() (*domainPatent.Patent, error) {
	var opts []domainPatent.Option
	if r.Assignee != nil {
		opts = append(opts, domainPatent.WithAssignee(*r.Assignee))
	}
	if r.Status != nil {
		opts = append(opts, domainPatent.WithStatus(*r.Status))
	}
	if len(r.CPCCodes) > 0 {
		opts = append(opts, domainPatent.WithCPCCodes(r.CPCCodes...))
	}
	if len(r.Claims) > 0 {
		opts = append(opts, domainPatent.WithClaims(r.Claims...))
	}
	return domainPatent.New(strings.TrimSpace(r.ID), r.Title, r.Abstract, r.Inventors,
		r.PublicationDate.Time, r.RelevanceScore, opts...)
}

// ImportResult summarizes one bulk load.
type ImportResult struct {
	Source        string        `json:"source"`
	Received      int           `json:"received"`
	Created       int           `json:"created"`
	CachePurged   int64         `json:"cachePurged"`
	Duration      time.Duration `json:"duration"`
	CachePurgeErr string        `json:"cachePurgeError,omitempty"`
}

// Importer replaces the stored corpus with a dataset.  Records are validated
// on a bounded worker pool; the write itself is one transaction.
type Importer struct {
	repo    domainPatent.Repository
	cache   redis.Cache
	lock    redis.Mutex
	workers int
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithImportCache purges cached similarity results after a load.
func WithImportCache(c redis.Cache) ImporterOption {
	return func(im *Importer) { im.cache = c }
}

// WithImportLock serializes loads across processes.
func WithImportLock(m redis.Mutex) ImporterOption {
	return func(im *Importer) { im.lock = m }
}

// WithWorkers sets the validation pool size.
func WithWorkers(n int) ImporterOption {
	return func(im *Importer) {
		if n > 0 {
			im.workers = n
		}
	}
}

// WithImportMetrics records load outcomes on m.
func WithImportMetrics(m *prometheus.AppMetrics) ImporterOption {
	return func(im *Importer) { im.metrics = m }
}

// NewImporter creates an Importer writing to repo.
func NewImporter(repo domainPatent.Repository, logger logging.Logger, opts ...ImporterOption) *Importer {
	im := &Importer{
		repo:    repo,
		workers: defaultImportWorkers,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Decode reads a JSON array of records.
func Decode(r io.Reader) ([]Record, error) {
	var records []Record
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceParseError, "failed to decode dataset")
	}
	return records, nil
}

// Import decodes the dataset in r and replaces the corpus with it.  source
// names the dataset in logs and metrics.
func (im *Importer) Import(ctx context.Context, source string, r io.Reader) (*ImportResult, error) {
	records, err := Decode(r)
	if err != nil {
		im.logger.Error("Failed to decode dataset", logging.String("source", source), logging.Err(err))
		return nil, err
	}
	return im.ImportRecords(ctx, source, records)
}

// ImportRecords validates records and replaces the corpus with them.
func (im *Importer) ImportRecords(ctx context.Context, source string, records []Record) (*ImportResult, error) {
	start := time.Now()
	log := im.logger.With(logging.String("source", source), logging.Int("records", len(records)))

	patents, err := im.normalize(ctx, records)
	if err != nil {
		prometheus.RecordImport(im.metrics, source, time.Since(start), 0, len(records))
		return nil, err
	}

	if im.lock != nil {
		if err := im.lock.TryLock(ctx); err != nil {
			return nil, err
		}
		defer func() {
			if err := im.lock.Unlock(context.WithoutCancel(ctx)); err != nil {
				log.Warn("Failed to release import lock", logging.Err(err))
			}
		}()
	}

	created, err := im.repo.ReplaceAll(ctx, patents)
	if err != nil {
		prometheus.RecordImport(im.metrics, source, time.Since(start), 0, len(records))
		log.Error("Bulk load failed", logging.Err(err))
		return nil, err
	}

	res := &ImportResult{Source: source, Received: len(records), Created: created}
	if im.cache != nil {
		n, err := im.cache.DeleteByPrefix(ctx, patent_mining.CacheKeyPrefix)
		res.CachePurged = n
		if err != nil {
			res.CachePurgeErr = err.Error()
			log.Warn("Failed to purge similarity cache", logging.Err(err))
		}
	}
	res.Duration = time.Since(start)
	prometheus.RecordImport(im.metrics, source, res.Duration, created, 0)

	log.Info("Bulk load completed",
		logging.Int("created", created),
		logging.Int64("cache_purged", res.CachePurged),
		logging.Duration("duration", res.Duration),
	)
	return res, nil
}

// normalize converts records on the worker pool.  The first invalid record in
// input order is reported.
func (im *Importer) normalize(ctx context.Context, records []Record) ([]*domainPatent.Patent, error) {
	pool, err := ants.NewPool(im.workers)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to create worker pool")
	}
	defer pool.Release()

	patents := make([]*domainPatent.Patent, len(records))
	errs := make([]error, len(records))
	var wg sync.WaitGroup
	for i := range records {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, errors.Wrap(err, errors.ErrCodeTimeout, "bulk load cancelled")
		}
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			patents[i], errs[i] = records[i].ToPatent()
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to submit record")
		}
	}
	wg.Wait()

	seen := make(map[string]int, len(records))
	for i, err := range errs {
		if err != nil {
			return nil, errors.InvalidParam("invalid dataset record").
				WithDetail(fmt.Sprintf("index=%d: %v", i, err)).WithCause(err)
		}
		id := patents[i].ID
		if first, dup := seen[id]; dup {
			return nil, errors.InvalidParam("duplicate patent id in dataset").
				WithDetail(fmt.Sprintf("id=%s indexes=%d,%d", id, first, i))
		}
		seen[id] = i
	}
	return patents, nil
}

//Personal.AI order the ending
