package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	patentapp "github.com/turtacn/mini-spade/internal/application/patent"
	"github.com/turtacn/mini-spade/internal/application/patent_mining"
	"github.com/turtacn/mini-spade/internal/testutil"
	pkgerrors "github.com/turtacn/mini-spade/pkg/errors"
)

type pageBody struct {
	Results []struct {
		ID              string `json:"id"`
		PublicationDate string `json:"publicationDate"`
	} `json:"results"`
	TotalResults int64 `json:"totalResults"`
	TotalPages   int   `json:"totalPages"`
	CurrentPage  int   `json:"currentPage"`
}

func newTestRouter(t *testing.T, store *testutil.PatentStore, log *testutil.MockLogger) http.Handler {
	t.Helper()
	h := NewPatentHandler(
		patentapp.NewService(store, log),
		patent_mining.NewSimilaritySearchService(store, nil, log),
		log, 10,
	)
	r := chi.NewRouter()
	r.MethodNotAllowed(MethodNotAllowed)
	r.NotFound(NotFound)
	r.Get("/api/search", h.Search)
	r.Get("/api/similar", h.Similar)
	r.Get("/api/patents/{id}", h.Get)
	return r
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

func TestSearch_Defaults(t *testing.T) {
	store := testutil.NewPatentStore(testutil.IrrigationCorpus(t)...)
	w := do(t, newTestRouter(t, store, testutil.NewMockLogger()), http.MethodGet, "/api/search")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var body pageBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(5), body.TotalResults)
	assert.Equal(t, 1, body.TotalPages)
	assert.Equal(t, 1, body.CurrentPage)
	require.Len(t, body.Results, 5)
	assert.Equal(t, "US-1001", body.Results[0].ID)
	assert.Equal(t, "2021-03-15", body.Results[0].PublicationDate)
}

func TestSearch_FiltersAndPaging(t *testing.T) {
	store := testutil.NewPatentStore(testutil.IrrigationCorpus(t)...)
	router := newTestRouter(t, store, testutil.NewMockLogger())

	w := do(t, router, http.MethodGet, "/api/search?query=irrigation&inventors=lovelace&startDate=2018-01-01&endDate=2021-12-31&page=1&pageSize=1")
	require.Equal(t, http.StatusOK, w.Code)
	var body pageBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.TotalResults)
	assert.Equal(t, 2, body.TotalPages)
	require.Len(t, body.Results, 1)
	assert.Equal(t, "US-1001", body.Results[0].ID)
}

func TestSearch_EmptyResultsIsArray(t *testing.T) {
	store := testutil.NewPatentStore(testutil.IrrigationCorpus(t)...)
	w := do(t, newTestRouter(t, store, testutil.NewMockLogger()), http.MethodGet, "/api/search?query=zzz")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"results":[],"totalResults":0,"totalPages":0,"currentPage":1}`, w.Body.String())
}

func TestSearch_BadParameters(t *testing.T) {
	store := testutil.NewPatentStore(testutil.IrrigationCorpus(t)...)
	router := newTestRouter(t, store, testutil.NewMockLogger())

	for _, target := range []string{
		"/api/search?page=abc",
		"/api/search?page=0",
		"/api/search?pageSize=-1",
		"/api/search?pageSize=1.5",
		"/api/search?pageSize=101",
		"/api/search?page=100000000000000000&pageSize=100",
		"/api/search?page=99999999999999999999",
		"/api/search?startDate=2020-02-30",
		"/api/search?endDate=01/01/2020",
	} {
		w := do(t, router, http.MethodGet, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Equal(t, pkgerrors.CodeInvalidParam.String(), decodeError(t, w).Code, target)
	}
	assert.Zero(t, store.CallCount("Search"))
}

func TestSearch_StoreFailureIsGeneric500(t *testing.T) {
	store := testutil.NewPatentStore()
	store.Err = pkgerrors.StoreUnavailable(errors.New("password authentication failed"), "failed to count patents")
	log := testutil.NewMockLogger()

	w := do(t, newTestRouter(t, store, log), http.MethodGet, "/api/search")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	e := decodeError(t, w)
	assert.Equal(t, "Internal Server Error", e.Message)
	assert.Empty(t, e.Detail)
	assert.NotContains(t, w.Body.String(), "password")
	assert.True(t, log.HasMessage("error", "Request failed"))
}

func TestSimilar(t *testing.T) {
	store := testutil.NewPatentStore(testutil.IrrigationCorpus(t)...)
	router := newTestRouter(t, store, testutil.NewMockLogger())

	w := do(t, router, http.MethodGet, "/api/similar?id=US-1001")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Results []struct {
			ID              string `json:"id"`
			Similarity      int    `json:"similarity"`
			PublicationDate string `json:"publicationDate"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Results, 3)
	assert.Equal(t, "US-1002", body.Results[0].ID)
	assert.Equal(t, 7, body.Results[0].Similarity)
	assert.Equal(t, "2020-06-01", body.Results[0].PublicationDate)

	w = do(t, router, http.MethodGet, "/api/similar?id=US-1004")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"results":[]}`, w.Body.String())
}

func TestSimilar_Errors(t *testing.T) {
	store := testutil.NewPatentStore(testutil.IrrigationCorpus(t)...)
	router := newTestRouter(t, store, testutil.NewMockLogger())

	w := do(t, router, http.MethodGet, "/api/similar")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodGet, "/api/similar?id=US-404")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PAT_001", decodeError(t, w).Code)
}

func TestGetPatent(t *testing.T) {
	store := testutil.NewPatentStore(testutil.IrrigationCorpus(t)...)
	router := newTestRouter(t, store, testutil.NewMockLogger())

	w := do(t, router, http.MethodGet, "/api/patents/US-1002")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"assignee":"AgriCorp"`)
	assert.Contains(t, w.Body.String(), `"inventorsText":"grace hopper"`)

	w = do(t, router, http.MethodGet, "/api/patents/US-404")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	store := testutil.NewPatentStore(testutil.IrrigationCorpus(t)...)
	router := newTestRouter(t, store, testutil.NewMockLogger())

	for _, target := range []string{"/api/search", "/api/similar?id=US-1001", "/api/patents/US-1001"} {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
			w := do(t, router, method, target)
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method+" "+target)
			assert.Equal(t, "Method Not Allowed", decodeError(t, w).Message)
		}
	}
	assert.Zero(t, store.CallCount("Search"))
}

func TestNotFoundRoute(t *testing.T) {
	w := do(t, newTestRouter(t, testutil.NewPatentStore(), testutil.NewMockLogger()), http.MethodGet, "/api/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"code":"COMMON_005","message":"Not Found"}`, w.Body.String())
}

//Personal.AI order the ending
