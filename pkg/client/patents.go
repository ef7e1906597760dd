package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Patent mirrors the server's patent document.  PublicationDate is
// YYYY-MM-DD.
type Patent struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Abstract        string   `json:"abstract"`
	Inventors       []string `json:"inventors"`
	InventorsText   string   `json:"inventorsText"`
	PublicationDate string   `json:"publicationDate"`
	RelevanceScore  float64  `json:"relevanceScore"`
	Assignee        *string  `json:"assignee,omitempty"`
	Status          *string  `json:"status,omitempty"`
	CPCCodes        []string `json:"cpcCodes,omitempty"`
	Claims          []string `json:"claims,omitempty"`
}

// SimilarPatent is a patent with its keyword overlap score.
type SimilarPatent struct {
	Patent
	Similarity int `json:"similarity"`
}

// SearchParams are the filters of GET /api/search.  Blank strings and nil
// Page/PageSize are omitted and take the server defaults; a non-nil value is
// always sent, so the server rejects an explicit zero.
type SearchParams struct {
	Query     string
	StartDate string
	EndDate   string
	Inventors string
	Page      *int
	PageSize  *int
}

// Int returns a pointer to v, for SearchParams.Page and PageSize.
func Int(v int) *int { return &v }

func (p SearchParams) values() url.Values {
	v := url.Values{}
	set := func(k, s string) {
		if strings.TrimSpace(s) != "" {
			v.Set(k, s)
		}
	}
	set("query", p.Query)
	set("startDate", p.StartDate)
	set("endDate", p.EndDate)
	set("inventors", p.Inventors)
	if p.Page != nil {
		v.Set("page", strconv.Itoa(*p.Page))
	}
	if p.PageSize != nil {
		v.Set("pageSize", strconv.Itoa(*p.PageSize))
	}
	return v
}

// SearchResponse is one page of search results.
type SearchResponse struct {
	Results      []Patent `json:"results"`
	TotalResults int64    `json:"totalResults"`
	TotalPages   int      `json:"totalPages"`
	CurrentPage  int      `json:"currentPage"`
}

// SimilarResponse lists the patents most similar to a source patent.
type SimilarResponse struct {
	Results []SimilarPatent `json:"results"`
}

// Search runs a filtered, paginated search.  Validation is left to the
// server; a rejected parameter comes back as a 400 *APIError.
func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	var out SearchResponse
	if err := c.get(ctx, "/api/search", params.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Similar returns up to three patents similar to id.
func (c *Client) Similar(ctx context.Context, id string) (*SimilarResponse, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("spade: id is required")
	}
	var out SimilarResponse
	if err := c.get(ctx, "/api/similar", url.Values{"id": {id}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches one patent by id.
func (c *Client) Get(ctx context.Context, id string) (*Patent, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("spade: id is required")
	}
	var out Patent
	if err := c.get(ctx, "/api/patents/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
