package patent

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/mini-spade/pkg/errors"
)

func TestNewSearchFilter_Defaults(t *testing.T) {
	f, err := NewSearchFilter()
	require.NoError(t, err)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultPageSize, f.PageSize)
	assert.True(t, f.IsEmpty())
	assert.Equal(t, 0, f.Offset())
}

func TestNewSearchFilter_WhitespaceIsAbsent(t *testing.T) {
	f, err := NewSearchFilter(WithQuery("   "), WithInventor("\t"))
	require.NoError(t, err)
	assert.Nil(t, f.Query)
	assert.Nil(t, f.Inventor)
	assert.True(t, f.IsEmpty())
}

func TestNewSearchFilter_KeepsValuesVerbatim(t *testing.T) {
	f, err := NewSearchFilter(WithQuery(" solar panel "), WithInventor("Smith"))
	require.NoError(t, err)
	require.NotNil(t, f.Query)
	assert.Equal(t, " solar panel ", *f.Query)
	require.NotNil(t, f.Inventor)
	assert.Equal(t, "Smith", *f.Inventor)
	assert.False(t, f.IsEmpty())
}

func TestNewSearchFilter_DateRange(t *testing.T) {
	start := time.Date(2020, 1, 1, 15, 0, 0, 0, time.UTC)
	end := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)

	f, err := NewSearchFilter(WithDateRange(start, end))
	require.NoError(t, err, "inverted range is valid and matches nothing")
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)
	assert.Equal(t, end, *f.EndDate)
}

func TestNewSearchFilter_PaginationErrors(t *testing.T) {
	cases := []struct {
		name string
		opts []FilterOption
	}{
		{"zero page", []FilterOption{WithPage(0, 10)}},
		{"negative page", []FilterOption{WithPage(-1, 10)}},
		{"zero page size", []FilterOption{WithPage(1, 0)}},
		{"negative page size", []FilterOption{WithPage(1, -5)}},
		{"above max", []FilterOption{WithPage(1, 101)}},
		{"above custom max", []FilterOption{WithMaxPageSize(20), WithPage(1, 21)}},
		{"offset overflows", []FilterOption{WithPage(100000000000000000, 100)}},
		{"max int page", []FilterOption{WithPage(math.MaxInt, 2)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := NewSearchFilter(tc.opts...)
			assert.Nil(t, f)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidParam(err))
		})
	}
}

func TestSearchFilter_TotalPagesAndOffset(t *testing.T) {
	f, err := NewSearchFilter(WithPage(2, 10))
	require.NoError(t, err)

	assert.Equal(t, 3, f.TotalPages(25))
	assert.Equal(t, 10, f.Offset())
	assert.Equal(t, 0, f.TotalPages(0))
	assert.Equal(t, 1, f.TotalPages(10))
	assert.Equal(t, 2, f.TotalPages(11))

	page := NewPage(f, nil, 25)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
	assert.NotNil(t, page.Results)
	assert.Len(t, page.Results, 0)
}

func TestSearchFilter_LargestPageKeepsOffsetPositive(t *testing.T) {
	f, err := NewSearchFilter(WithPage(math.MaxInt/100+1, 100))
	require.NoError(t, err)
	assert.Greater(t, f.Offset(), 0)

	_, err = NewSearchFilter(WithPage(math.MaxInt/100+2, 100))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidParam(err))
	assert.Contains(t, err.Error(), "page is out of range")
}

func TestSearchFilter_TotalPagesMatchesCeil(t *testing.T) {
	for size := 1; size <= 12; size++ {
		f, err := NewSearchFilter(WithPage(1, size))
		require.NoError(t, err)
		for total := int64(0); total <= 50; total++ {
			want := int((total + int64(size) - 1) / int64(size))
			assert.Equal(t, want, f.TotalPages(total), "size=%d total=%d", size, total)
		}
	}
}

//Personal.AI order the ending
