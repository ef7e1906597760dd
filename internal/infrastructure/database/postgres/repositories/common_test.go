package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/mini-spade/internal/domain/patent"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "plain", escapeLike("plain"))
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `snake\_case`, escapeLike("snake_case"))
	assert.Equal(t, `C:\\dir`, escapeLike(`C:\dir`))
}

func TestPredicateBuilder_Empty(t *testing.T) {
	b := &predicateBuilder{}
	assert.Equal(t, "", b.where())
	assert.Empty(t, b.args)
}

func TestBuildSearchPredicate_EmptyFilter(t *testing.T) {
	f, err := patent.NewSearchFilter()
	require.NoError(t, err)

	b := buildSearchPredicate(f)
	assert.Equal(t, "", b.where())
	assert.Empty(t, b.args)
}

func TestBuildSearchPredicate_AllDimensions(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC)
	f, err := patent.NewSearchFilter(
		patent.WithQuery("water_flow"),
		patent.WithDateRange(start, end),
		patent.WithInventor("Lovelace"),
	)
	require.NoError(t, err)

	b := buildSearchPredicate(f)
	assert.Equal(t,
		` WHERE (title ILIKE $1 ESCAPE '\' OR abstract ILIKE $1 ESCAPE '\')`+
			` AND publication_date >= $2 AND publication_date <= $3`+
			` AND inventors_text ILIKE $4 ESCAPE '\'`,
		b.where())
	assert.Equal(t, []interface{}{`%water\_flow%`, start, end, "%Lovelace%"}, b.args)
}

func TestBuildSearchPredicate_OnlyEndDate(t *testing.T) {
	end := time.Date(2019, 6, 30, 0, 0, 0, 0, time.UTC)
	f, err := patent.NewSearchFilter(patent.WithEndDate(end))
	require.NoError(t, err)

	b := buildSearchPredicate(f)
	assert.Equal(t, " WHERE publication_date <= $1", b.where())

	assert.Equal(t, "$2", b.arg(10))
	assert.Len(t, b.args, 2)
}

func TestBuildSearchPredicate_BlankQueryIgnored(t *testing.T) {
	f, err := patent.NewSearchFilter(patent.WithQuery("   "), patent.WithInventor("\t"))
	require.NoError(t, err)

	assert.Equal(t, "", buildSearchPredicate(f).where())
}

//Personal.AI order the ending
