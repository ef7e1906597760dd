// Package patent provides the application services behind the patent search
// endpoints and the bulk dataset load.  Handlers and the CLI talk to these
// services; the services talk to the domain and the repository port.
package patent

import (
	"context"
	"strings"
	"time"

	domainPatent "github.com/turtacn/mini-spade/internal/domain/patent"
	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/mini-spade/pkg/errors"
)

// Query types recorded on the search metrics.
const (
	queryTypeAll      = "all"
	queryTypeFiltered = "filtered"
)

// Service defines the patent read operations.
type Service interface {
	Search(ctx context.Context, input *SearchInput) (*domainPatent.Page, error)
	GetByID(ctx context.Context, id string) (*domainPatent.Patent, error)
}

// SearchInput carries the raw request values.  Dates are YYYY-MM-DD strings
// and an empty value means absent.  Page and PageSize are used as given;
// callers fill in defaults for missing parameters.
type SearchInput struct {
	Query     string
	StartDate string
	EndDate   string
	Inventor  string
	Page      int
	PageSize  int
}

// DefaultSearchInput returns an input for the first page at the default size.
func DefaultSearchInput() *SearchInput {
	return &SearchInput{Page: 1, PageSize: domainPatent.DefaultPageSize}
}

type serviceImpl struct {
	repo        domainPatent.Repository
	logger      logging.Logger
	metrics     *prometheus.AppMetrics
	maxPageSize int
}

// ServiceOption configures the service.
type ServiceOption func(*serviceImpl)

// WithMetrics records search latency and result counts on m.
func WithMetrics(m *prometheus.AppMetrics) ServiceOption {
	return func(s *serviceImpl) { s.metrics = m }
}

// WithMaxPageSize overrides the largest accepted pageSize.
func WithMaxPageSize(n int) ServiceOption {
	return func(s *serviceImpl) {
		if n > 0 {
			s.maxPageSize = n
		}
	}
}

// NewService creates a new patent application service.
func NewService(repo domainPatent.Repository, logger logging.Logger, opts ...ServiceOption) Service {
	s := &serviceImpl{
		repo:        repo,
		logger:      logger,
		maxPageSize: domainPatent.DefaultMaxPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildFilter turns raw input into a validated SearchFilter.
func BuildFilter(input *SearchInput, maxPageSize int) (*domainPatent.SearchFilter, error) {
	if input == nil {
		return nil, errors.InvalidParam("search input is required")
	}
	opts := []domainPatent.FilterOption{
		domainPatent.WithQuery(input.Query),
		domainPatent.WithInventor(input.Inventor),
		domainPatent.WithPage(input.Page, input.PageSize),
		domainPatent.WithMaxPageSize(maxPageSize),
	}
	if input.StartDate != "" {
		t, err := domainPatent.ParseDate("startDate", strings.TrimSpace(input.StartDate))
		if err != nil {
			return nil, err
		}
		opts = append(opts, domainPatent.WithStartDate(t))
	}
	if input.EndDate != "" {
		t, err := domainPatent.ParseDate("endDate", strings.TrimSpace(input.EndDate))
		if err != nil {
			return nil, err
		}
		opts = append(opts, domainPatent.WithEndDate(t))
	}
	return domainPatent.NewSearchFilter(opts...)
}

func (s *serviceImpl) Search(ctx context.Context, input *SearchInput) (*domainPatent.Page, error) {
	filter, err := BuildFilter(input, s.maxPageSize)
	if err != nil {
		return nil, err
	}

	queryType := queryTypeFiltered
	if filter.IsEmpty() {
		queryType = queryTypeAll
	}

	start := time.Now()
	page, err := s.repo.Search(ctx, filter)
	if err != nil {
		prometheus.RecordError(s.metrics, "search", string(errors.GetCode(err)))
		return nil, err
	}
	elapsed := time.Since(start)
	prometheus.RecordSearch(s.metrics, queryType, elapsed, page.TotalResults)

	s.logger.Debug("search executed",
		logging.String("query_type", queryType),
		logging.String("snapshot", "repeatable_read"),
		logging.Int("page", filter.Page),
		logging.Int("page_size", filter.PageSize),
		logging.Int64("total", page.TotalResults),
		logging.Duration("elapsed", elapsed),
	)
	return page, nil
}

func (s *serviceImpl) GetByID(ctx context.Context, id string) (*domainPatent.Patent, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.InvalidParam("id is required")
	}
	return s.repo.GetByID(ctx, id)
}

//Personal.AI order the ending
