package prometheus

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	t.Helper()
	c := newTestCollector(t)
	return NewAppMetrics(c), c
}

func TestNewAppMetrics_AllFamiliesSet(t *testing.T) {
	m, _ := newTestAppMetrics(t)
	require.NotNil(t, m)

	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.SearchDuration)
	assert.NotNil(t, m.SimilarityCandidates)
	assert.NotNil(t, m.ImportRecordsTotal)
	assert.NotNil(t, m.DBQueryDuration)
	assert.NotNil(t, m.CacheHitsTotal)
	assert.NotNil(t, m.HealthCheckStatus)
}

func TestRecordHTTPRequest(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordHTTPRequest(m, "GET", "/api/search", 200, 30*time.Millisecond)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_http_requests_total{method="GET",route="/api/search",status_code="200"} 1`)
	assert.Contains(t, out, `test_unit_http_request_duration_seconds_count{method="GET",route="/api/search"} 1`)
}

func TestRecordSearch(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordSearch(m, "filtered", 10*time.Millisecond, 25)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_search_total_results_sum{query_type="filtered"} 25`)
}

func TestRecordSimilarity_CacheHitSkipsCandidatePool(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordSimilarity(m, "cache", time.Millisecond, 0, 3)
	RecordSimilarity(m, "store", time.Millisecond, 120, 2)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, "test_unit_similarity_candidate_pool_size_count 1")
	assert.Contains(t, out, "test_unit_similarity_candidate_pool_size_sum 120")
	assert.Contains(t, out, "test_unit_similarity_result_count_count 2")
}

func TestRecordImport(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordImport(m, "file", time.Second, 40, 2)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_import_records_total{status="loaded"} 40`)
	assert.Contains(t, out, `test_unit_import_records_total{status="rejected"} 2`)
}

func TestRecordDBQuery_ErrorCounts(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordDBQuery(m, "postgres", "search", time.Millisecond, nil)
	RecordDBQuery(m, "postgres", "search", time.Millisecond, errors.New("boom"))

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_db_query_duration_seconds_count{db="postgres",operation="search"} 2`)
	assert.Contains(t, out, `test_unit_errors_total{component="postgres",error_type="query_error"} 1`)
}

func TestRecordDBPool(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordDBPool(m, "postgres", sql.DBStats{OpenConnections: 7, InUse: 3})

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_db_pool_open_connections{db="postgres"} 7`)
	assert.Contains(t, out, `test_unit_db_pool_in_use_connections{db="postgres"} 3`)
}

func TestRecordCacheAccessAndHealth(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordCacheAccess(m, "similar", true)
	RecordCacheAccess(m, "similar", false)
	RecordCacheAccess(m, "similar", false)
	RecordHealth(m, "redis", false)
	RecordHealth(m, "postgres", true)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_cache_hits_total{cache="similar"} 1`)
	assert.Contains(t, out, `test_unit_cache_misses_total{cache="similar"} 2`)
	assert.Contains(t, out, `test_unit_health_check_status{component="redis"} 0`)
	assert.Contains(t, out, `test_unit_health_check_status{component="postgres"} 1`)
}

func TestRecorders_NilMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordHTTPRequest(nil, "GET", "/", 200, 0)
		RecordSearch(nil, "all", 0, 0)
		RecordSimilarity(nil, "store", 0, 0, 0)
		RecordImport(nil, "file", 0, 0, 0)
		RecordDBQuery(nil, "postgres", "count", 0, nil)
		RecordDBPool(nil, "postgres", sql.DBStats{})
		RecordCacheAccess(nil, "similar", true)
		RecordHealth(nil, "postgres", true)
		RecordError(nil, "http", "panic")
	})
}

//Personal.AI order the ending
