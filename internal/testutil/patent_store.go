package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/turtacn/mini-spade/internal/domain/patent"
	"github.com/turtacn/mini-spade/pkg/errors"
)

// PatentStore is an in-memory patent.Repository.  It evaluates filters the
// way the Postgres repository does: case-insensitive substrings, inclusive
// dates, relevance descending then id ascending.
type PatentStore struct {
	mu      sync.RWMutex
	patents map[string]*patent.Patent

	// Err, when set, is returned by every method.
	Err error

	Calls map[string]int
}

var _ patent.Repository = (*PatentStore)(nil)

// NewPatentStore returns a store holding patents.
func NewPatentStore(patents ...*patent.Patent) *PatentStore {
	s := &PatentStore{patents: make(map[string]*patent.Patent), Calls: make(map[string]int)}
	for _, p := range patents {
		s.patents[p.ID] = p
	}
	return s
}

func (s *PatentStore) call(name string) error {
	s.Calls[name]++
	return s.Err
}

// CallCount reports how many times method name was invoked.
func (s *PatentStore) CallCount(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Calls[name]
}

func (s *PatentStore) sorted() []*patent.Patent {
	out := make([]*patent.Patent, 0, len(s.patents))
	for _, p := range s.patents {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RelevanceScore != out[j].RelevanceScore {
			return out[i].RelevanceScore > out[j].RelevanceScore
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func matches(p *patent.Patent, f *patent.SearchFilter) bool {
	if f.Query != nil {
		q := strings.ToLower(*f.Query)
		if !strings.Contains(strings.ToLower(p.Title), q) && !strings.Contains(strings.ToLower(p.Abstract), q) {
			return false
		}
	}
	if f.StartDate != nil && p.PublicationDate.Time.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && p.PublicationDate.Time.After(*f.EndDate) {
		return false
	}
	if f.Inventor != nil && !strings.Contains(p.InventorsText, strings.ToLower(*f.Inventor)) {
		return false
	}
	return true
}

func (s *PatentStore) Search(_ context.Context, f *patent.SearchFilter) (*patent.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("Search"); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, errors.InvalidParam("search filter is required")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	var hits []*patent.Patent
	for _, p := range s.sorted() {
		if matches(p, f) {
			hits = append(hits, p)
		}
	}
	total := int64(len(hits))
	var page []*patent.Patent
	if off := f.Offset(); off < len(hits) {
		end := off + f.PageSize
		if end > len(hits) {
			end = len(hits)
		}
		page = hits[off:end]
	}
	return patent.NewPage(f, page, total), nil
}

func (s *PatentStore) GetByID(_ context.Context, id string) (*patent.Patent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("GetByID"); err != nil {
		return nil, err
	}
	p, ok := s.patents[id]
	if !ok {
		return nil, errors.New(errors.CodePatentNotFound, "patent not found").WithDetail("id=" + id)
	}
	return p, nil
}

func (s *PatentStore) SimilarityCorpus(_ context.Context, id string) (*patent.Patent, []*patent.Patent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("SimilarityCorpus"); err != nil {
		return nil, nil, err
	}
	src, ok := s.patents[id]
	if !ok {
		return nil, nil, errors.New(errors.CodePatentNotFound, "patent not found").WithDetail("id=" + id)
	}
	others := make([]*patent.Patent, 0, len(s.patents))
	for _, p := range s.patents {
		if p.ID != id {
			others = append(others, p)
		}
	}
	sort.Slice(others, func(i, j int) bool { return others[i].ID < others[j].ID })
	return src, others, nil
}

func (s *PatentStore) ReplaceAll(_ context.Context, patents []*patent.Patent) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("ReplaceAll"); err != nil {
		return 0, err
	}
	next := make(map[string]*patent.Patent, len(patents))
	for _, p := range patents {
		if _, dup := next[p.ID]; dup {
			return 0, errors.New(errors.CodeStoreUnavailable, "duplicate key").WithDetail("id=" + p.ID)
		}
		next[p.ID] = p
	}
	s.patents = next
	return len(patents), nil
}

func (s *PatentStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.call("Count"); err != nil {
		return 0, err
	}
	return int64(len(s.patents)), nil
}

//Personal.AI order the ending
