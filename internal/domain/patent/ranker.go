package patent

import "sort"

const (
	DefaultTopN             = 3
	DefaultMinScore         = 1
	DefaultMinKeywordLength = 3
)

// ScoredPatent is a candidate together with its keyword overlap with the
// source patent.  It marshals as the patent fields plus "similarity".
type ScoredPatent struct {
	*Patent
	Similarity int `json:"similarity"`
}

// RankerOptions tunes the overlap ranker.
type RankerOptions struct {
	// TopN caps the number of results.
	TopN int
	// MinScore is exclusive.
	MinScore int
	// MinKeywordLength is exclusive: source tokens must be longer.
	MinKeywordLength int
	// Symmetric filters candidate tokens like source tokens.  Scores are the
	// same either way since every source keyword passes the filter; the
	// asymmetric default only skips the extra work.
	Symmetric bool
}

// DefaultRankerOptions returns top 3, score > 1, keywords longer than 3
// characters, asymmetric tokenization.
func DefaultRankerOptions() RankerOptions {
	return RankerOptions{
		TopN:             DefaultTopN,
		MinScore:         DefaultMinScore,
		MinKeywordLength: DefaultMinKeywordLength,
	}
}

// Ranker scores candidate patents by keyword overlap with a source abstract.
// It holds no state besides its options and is safe for concurrent use.
type Ranker struct {
	opts RankerOptions
}

// NewRanker creates a Ranker.  A non-positive TopN falls back to the default.
func NewRanker(opts RankerOptions) *Ranker {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	return &Ranker{opts: opts}
}

// Options returns the ranker configuration.
func (r *Ranker) Options() RankerOptions { return r.opts }

// Rank scores every candidate against source and returns at most TopN results
// with a score above MinScore, highest first.  Equal scores keep the order of
// candidates.  The source itself is never returned.  The result is non-nil.
func (r *Ranker) Rank(source *Patent, candidates []*Patent) []ScoredPatent {
	keywords := Keywords(source.Abstract, r.opts.MinKeywordLength)
	out := make([]ScoredPatent, 0, r.opts.TopN)
	if len(keywords) == 0 {
		return out
	}

	for _, c := range candidates {
		if c == nil || c.ID == source.ID {
			continue
		}
		var set map[string]struct{}
		if r.opts.Symmetric {
			set = KeywordSet(c.Abstract, r.opts.MinKeywordLength)
		} else {
			set = TokenSet(c.Abstract)
		}
		score := Overlap(keywords, set)
		if score > r.opts.MinScore {
			out = append(out, ScoredPatent{Patent: c, Similarity: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	if len(out) > r.opts.TopN {
		out = out[:r.opts.TopN]
	}
	return out
}

//Personal.AI order the ending
