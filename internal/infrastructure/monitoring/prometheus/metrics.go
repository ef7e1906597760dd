package prometheus

import (
	"database/sql"
	"strconv"
	"time"
)

// AppMetrics holds every metric family of the search service.  A nil
// *AppMetrics is valid and records nothing.
type AppMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Search and similarity
	SearchDuration       HistogramVec
	SearchResultCount    HistogramVec
	SimilarityDuration   HistogramVec
	SimilarityCandidates HistogramVec
	SimilarityResults    HistogramVec

	// Bulk load
	ImportRecordsTotal CounterVec
	ImportDuration     HistogramVec

	// Infrastructure
	DBPoolOpen        GaugeVec
	DBPoolInUse       GaugeVec
	DBQueryDuration   HistogramVec
	CacheHitsTotal    CounterVec
	CacheMissesTotal  CounterVec
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

var (
	DefaultHTTPDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultDBDurationBuckets    = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	DefaultImportBuckets        = []float64{.1, .5, 1, 5, 10, 30, 60, 300}
	DefaultResultCountBuckets   = []float64{0, 1, 5, 10, 25, 50, 100, 500, 1000, 10000}
	DefaultCorpusSizeBuckets    = []float64{0, 10, 100, 1000, 10000, 100000, 1000000}
	DefaultSimilarResultBuckets = []float64{0, 1, 2, 3}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "route", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "route")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests", "method")

	m.SearchDuration = collector.RegisterHistogram("search_duration_seconds", "Patent search duration", DefaultHTTPDurationBuckets, "query_type")
	m.SearchResultCount = collector.RegisterHistogram("search_total_results", "Total matches of a patent search", DefaultResultCountBuckets, "query_type")
	m.SimilarityDuration = collector.RegisterHistogram("similarity_duration_seconds", "Similarity ranking duration", DefaultHTTPDurationBuckets, "source")
	m.SimilarityCandidates = collector.RegisterHistogram("similarity_candidate_pool_size", "Patents scanned per similarity request", DefaultCorpusSizeBuckets)
	m.SimilarityResults = collector.RegisterHistogram("similarity_result_count", "Similar patents returned", DefaultSimilarResultBuckets)

	m.ImportRecordsTotal = collector.RegisterCounter("import_records_total", "Patent records processed by the bulk load", "status")
	m.ImportDuration = collector.RegisterHistogram("import_duration_seconds", "Bulk load duration", DefaultImportBuckets, "source")

	m.DBPoolOpen = collector.RegisterGauge("db_pool_open_connections", "Open database connections", "db")
	m.DBPoolInUse = collector.RegisterGauge("db_pool_in_use_connections", "Database connections in use", "db")
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "db", "operation")
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type")

	return m
}

func RecordHTTPRequest(m *AppMetrics, method, route string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordSearch records one search.  queryType is "filtered" or "all".
func RecordSearch(m *AppMetrics, queryType string, duration time.Duration, totalResults int64) {
	if m == nil {
		return
	}
	m.SearchDuration.WithLabelValues(queryType).Observe(duration.Seconds())
	m.SearchResultCount.WithLabelValues(queryType).Observe(float64(totalResults))
}

// RecordSimilarity records one similarity request.  source is "cache" or
// "store"; candidates is zero for cache hits.
func RecordSimilarity(m *AppMetrics, source string, duration time.Duration, candidates, results int) {
	if m == nil {
		return
	}
	m.SimilarityDuration.WithLabelValues(source).Observe(duration.Seconds())
	if source != "cache" {
		m.SimilarityCandidates.WithLabelValues().Observe(float64(candidates))
	}
	m.SimilarityResults.WithLabelValues().Observe(float64(results))
}

func RecordImport(m *AppMetrics, source string, duration time.Duration, loaded, rejected int) {
	if m == nil {
		return
	}
	m.ImportDuration.WithLabelValues(source).Observe(duration.Seconds())
	m.ImportRecordsTotal.WithLabelValues("loaded").Add(float64(loaded))
	m.ImportRecordsTotal.WithLabelValues("rejected").Add(float64(rejected))
}

func RecordDBQuery(m *AppMetrics, db, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(db, operation).Observe(duration.Seconds())
	if err != nil {
		m.ErrorsTotal.WithLabelValues(db, "query_error").Inc()
	}
}

func RecordDBPool(m *AppMetrics, db string, stats sql.DBStats) {
	if m == nil {
		return
	}
	m.DBPoolOpen.WithLabelValues(db).Set(float64(stats.OpenConnections))
	m.DBPoolInUse.WithLabelValues(db).Set(float64(stats.InUse))
}

func RecordCacheAccess(m *AppMetrics, cache string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordHealth(m *AppMetrics, component string, up bool) {
	if m == nil {
		return
	}
	v := 0.0
	if up {
		v = 1
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

func RecordError(m *AppMetrics, component, errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

//Personal.AI order the ending
