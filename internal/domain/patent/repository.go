package patent

import "context"

// Repository is the persistence port of the patent aggregate.  Implementations
// must make every multi-statement read observe a single snapshot of the
// corpus.
type Repository interface {
	// Search returns the page of patents matching f, ordered by relevance
	// score descending then id ascending, together with the total match
	// count.  Count and page come from the same snapshot.
	Search(ctx context.Context, f *SearchFilter) (*Page, error)

	// GetByID returns the patent with the given id or a PAT_001 error.
	GetByID(ctx context.Context, id string) (*Patent, error)

	// SimilarityCorpus returns the source patent and every other patent in
	// id ascending order, read from one snapshot.  An unknown id yields a
	// PAT_001 error and no candidates.
	SimilarityCorpus(ctx context.Context, id string) (*Patent, []*Patent, error)

	// ReplaceAll deletes every stored patent and inserts patents in a single
	// transaction.  It returns the number of rows inserted.
	ReplaceAll(ctx context.Context, patents []*Patent) (int, error)

	// Count returns the number of stored patents.
	Count(ctx context.Context) (int64, error)
}

//Personal.AI order the ending
