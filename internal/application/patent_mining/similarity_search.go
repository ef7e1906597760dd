// Package patent_mining ranks patents related to a given patent by keyword
// overlap of their abstracts.
package patent_mining

import (
	"context"
	"strings"
	"time"

	domainPatent "github.com/turtacn/mini-spade/internal/domain/patent"
	"github.com/turtacn/mini-spade/internal/infrastructure/database/redis"
	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/prometheus"
	apperrors "github.com/turtacn/mini-spade/pkg/errors"
)

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// Result sources recorded on the similarity metrics.
const (
	sourceStore = "store"
	sourceCache = "cache"
)

// CacheKeyPrefix prefixes cached rankings; the bulk load purges it.
const CacheKeyPrefix = "similar:"

// SimilarityResult is the ranked neighbour list of one patent.
type SimilarityResult struct {
	Results []domainPatent.ScoredPatent `json:"results"`
}

// SimilaritySearchService finds patents similar to a stored patent.
type SimilaritySearchService interface {
	FindSimilar(ctx context.Context, id string) (*SimilarityResult, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type similaritySearchServiceImpl struct {
	repo     domainPatent.Repository
	ranker   *domainPatent.Ranker
	cache    redis.Cache
	cacheTTL time.Duration
	logger   logging.Logger
	metrics  *prometheus.AppMetrics
}

// Option configures the similarity service.
type Option func(*similaritySearchServiceImpl)

// WithCache caches rankings for ttl.  A nil cache disables caching.
func WithCache(c redis.Cache, ttl time.Duration) Option {
	return func(s *similaritySearchServiceImpl) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithMetrics records ranking durations and candidate counts on m.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(s *similaritySearchServiceImpl) { s.metrics = m }
}

// NewSimilaritySearchService creates a new SimilaritySearchService.  A nil
// ranker uses the default options.
func NewSimilaritySearchService(repo domainPatent.Repository, ranker *domainPatent.Ranker, logger logging.Logger, opts ...Option) SimilaritySearchService {
	if ranker == nil {
		ranker = domainPatent.NewRanker(domainPatent.DefaultRankerOptions())
	}
	s := &similaritySearchServiceImpl{
		repo:   repo,
		ranker: ranker,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *similaritySearchServiceImpl) FindSimilar(ctx context.Context, id string) (*SimilarityResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.InvalidParam("id is required")
	}

	start := time.Now()
	if s.cache == nil {
		results, candidates, err := s.rank(ctx, id)
		if err != nil {
			return nil, err
		}
		s.record(sourceStore, start, candidates, len(results))
		return &SimilarityResult{Results: results}, nil
	}

	var (
		results    []domainPatent.ScoredPatent
		candidates int
	)
	hit, err := s.cache.GetOrSet(ctx, CacheKeyPrefix+id, &results, s.cacheTTL, func(ctx context.Context) (interface{}, error) {
		ranked, n, err := s.rank(ctx, id)
		candidates = n
		return ranked, err
	})
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []domainPatent.ScoredPatent{}
	}

	source := sourceStore
	if hit {
		source = sourceCache
	}
	s.record(source, start, candidates, len(results))
	return &SimilarityResult{Results: results}, nil
}

// rank reads the source and candidate pool from one snapshot and scores them.
func (s *similaritySearchServiceImpl) rank(ctx context.Context, id string) ([]domainPatent.ScoredPatent, int, error) {
	source, candidates, err := s.repo.SimilarityCorpus(ctx, id)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			prometheus.RecordError(s.metrics, "similarity", string(apperrors.GetCode(err)))
		}
		return nil, 0, err
	}
	return s.ranker.Rank(source, candidates), len(candidates), nil
}

func (s *similaritySearchServiceImpl) record(source string, start time.Time, candidates, results int) {
	elapsed := time.Since(start)
	prometheus.RecordSimilarity(s.metrics, source, elapsed, candidates, results)
	s.logger.Debug("similarity ranked",
		logging.String("source", source),
		logging.Int("candidates", candidates),
		logging.Int("results", results),
		logging.Duration("elapsed", elapsed),
	)
}

//Personal.AI order the ending
