package patent

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/turtacn/mini-spade/pkg/errors"
)

const (
	// DefaultPageSize is used when the caller does not ask for a page size.
	DefaultPageSize = 10
	// DefaultMaxPageSize bounds pageSize unless WithMaxPageSize overrides it.
	DefaultMaxPageSize = 100
)

// SearchFilter is the typed form of a search request.  A nil pointer field
// means the dimension is absent and contributes nothing to the predicate.
type SearchFilter struct {
	Query     *string
	StartDate *time.Time
	EndDate   *time.Time
	Inventor  *string
	Page      int
	PageSize  int

	maxPageSize int
}

// FilterOption configures a SearchFilter.
type FilterOption func(*SearchFilter)

// WithQuery sets the title/abstract substring.  Whitespace-only values are
// treated as absent; other values are kept verbatim.
func WithQuery(q string) FilterOption {
	return func(f *SearchFilter) {
		f.Query = presentString(q)
	}
}

// WithInventor sets the inventor substring, matched against InventorsText.
func WithInventor(name string) FilterOption {
	return func(f *SearchFilter) {
		f.Inventor = presentString(name)
	}
}

// WithStartDate sets the inclusive lower bound on the publication date.
func WithStartDate(t time.Time) FilterOption {
	return func(f *SearchFilter) {
		d := NewDate(t).Time
		f.StartDate = &d
	}
}

// WithEndDate sets the inclusive upper bound on the publication date.
func WithEndDate(t time.Time) FilterOption {
	return func(f *SearchFilter) {
		d := NewDate(t).Time
		f.EndDate = &d
	}
}

// WithDateRange sets both bounds.  A range whose start is after its end is
// accepted and matches nothing.
func WithDateRange(start, end time.Time) FilterOption {
	return func(f *SearchFilter) {
		WithStartDate(start)(f)
		WithEndDate(end)(f)
	}
}

// WithPage sets the 1-based page number and the page size.
func WithPage(page, pageSize int) FilterOption {
	return func(f *SearchFilter) {
		f.Page = page
		f.PageSize = pageSize
	}
}

// WithMaxPageSize overrides the page size upper bound.
func WithMaxPageSize(n int) FilterOption {
	return func(f *SearchFilter) {
		f.maxPageSize = n
	}
}

// NewSearchFilter applies opts over the defaults (page 1, page size 10) and
// validates the result.
func NewSearchFilter(opts ...FilterOption) (*SearchFilter, error) {
	f := &SearchFilter{
		Page:        1,
		PageSize:    DefaultPageSize,
		maxPageSize: DefaultMaxPageSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks the pagination bounds.
func (f *SearchFilter) Validate() error {
	if f.Page < 1 {
		return errors.InvalidParam("page must be a positive integer").WithDetail(fmt.Sprintf("page=%d", f.Page))
	}
	if f.PageSize < 1 {
		return errors.InvalidParam("pageSize must be a positive integer").WithDetail(fmt.Sprintf("pageSize=%d", f.PageSize))
	}
	if f.maxPageSize > 0 && f.PageSize > f.maxPageSize {
		return errors.InvalidParam("pageSize exceeds the maximum").
			WithDetail(fmt.Sprintf("pageSize=%d max=%d", f.PageSize, f.maxPageSize))
	}
	// Offset must fit in an int.
	if f.Page-1 > math.MaxInt/f.PageSize {
		return errors.InvalidParam("page is out of range").
			WithDetail(fmt.Sprintf("page=%d pageSize=%d", f.Page, f.PageSize))
	}
	return nil
}

// IsEmpty reports whether no predicate dimension is present.
func (f *SearchFilter) IsEmpty() bool {
	return f.Query == nil && f.StartDate == nil && f.EndDate == nil && f.Inventor == nil
}

// Offset is the number of rows skipped before the requested page.
func (f *SearchFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// TotalPages returns ceil(total / PageSize).
func (f *SearchFilter) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	size := int64(f.PageSize)
	return int((total + size - 1) / size)
}

func presentString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v := s
	return &v
}

// Page is the paginated envelope returned by a search.
type Page struct {
	Results      []*Patent `json:"results"`
	TotalResults int64     `json:"totalResults"`
	TotalPages   int       `json:"totalPages"`
	CurrentPage  int       `json:"currentPage"`
}

// NewPage builds the envelope for results read under f.  Results is never nil.
func NewPage(f *SearchFilter, results []*Patent, total int64) *Page {
	if results == nil {
		results = []*Patent{}
	}
	return &Page{
		Results:      results,
		TotalResults: total,
		TotalPages:   f.TotalPages(total),
		CurrentPage:  f.Page,
	}
}

//Personal.AI order the ending
