package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_EncodesParams(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "drip irrigation", q.Get("query"))
		assert.Equal(t, "2019-01-01", q.Get("startDate"))
		assert.Equal(t, "", q.Get("endDate"))
		assert.False(t, q.Has("endDate"))
		assert.Equal(t, "ada", q.Get("inventors"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "5", q.Get("pageSize"))
		_, _ = w.Write([]byte(`{"results":[{"id":"US-1","title":"T","abstract":"A","inventors":["Ada"],"inventorsText":"ada","publicationDate":"2020-01-02","relevanceScore":9.5}],"totalResults":6,"totalPages":2,"currentPage":2}`))
	})

	res, err := c.Search(context.Background(), SearchParams{
		Query: "drip irrigation", StartDate: "2019-01-01", Inventors: "ada", Page: Int(2), PageSize: Int(5),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.TotalResults)
	assert.Equal(t, 2, res.TotalPages)
	assert.Equal(t, 2, res.CurrentPage)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "2020-01-02", res.Results[0].PublicationDate)
	assert.Nil(t, res.Results[0].Assignee)
}

func TestSearch_OmitsZeroParams(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"results":[],"totalResults":0,"totalPages":0,"currentPage":1}`))
	})
	res, err := c.Search(context.Background(), SearchParams{Query: "   "})
	require.NoError(t, err)
	assert.Empty(t, res.Results)
}

func TestSearch_SendsExplicitZeroPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "0", q.Get("page"))
		assert.Equal(t, "0", q.Get("pageSize"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"COMMON_002","message":"page must be a positive integer"}`))
	})

	_, err := c.Search(context.Background(), SearchParams{Page: Int(0), PageSize: Int(0)})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsBadRequest())
	assert.Equal(t, "COMMON_002", apiErr.Code)
}

func TestSimilar(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/similar", r.URL.Path)
		assert.Equal(t, "US 1/2", r.URL.Query().Get("id"))
		_, _ = w.Write([]byte(`{"results":[{"id":"US-2","title":"T","abstract":"A","inventors":[],"inventorsText":"","publicationDate":"2020-01-02","relevanceScore":1,"similarity":7}]}`))
	})

	res, err := c.Similar(context.Background(), "US 1/2")
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "US-2", res.Results[0].ID)
	assert.Equal(t, 7, res.Results[0].Similarity)

	_, err = c.Similar(context.Background(), " ")
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/patents/US%2F9", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"id":"US/9","title":"T","abstract":"A","inventors":["X"],"inventorsText":"x","publicationDate":"2001-09-09","relevanceScore":2,"assignee":"Acme","status":"Active"}`))
	})

	p, err := c.Get(context.Background(), "US/9")
	require.NoError(t, err)
	require.NotNil(t, p.Assignee)
	assert.Equal(t, "Acme", *p.Assignee)
	require.NotNil(t, p.Status)
	assert.Equal(t, "Active", *p.Status)

	_, err = c.Get(context.Background(), "")
	assert.Error(t, err)
}

//Personal.AI order the ending
