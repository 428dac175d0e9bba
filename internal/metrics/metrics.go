package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Metrics holds all application metrics
type Metrics struct {
	mu sync.RWMutex

	// Upstream fetch metrics
	UpstreamPagesTotal   int64
	UpstreamRecordsTotal int64
	UpstreamErrorsTotal  int64

	// Dedup metrics
	DedupRunsTotal       int64
	RawRecordsTotal      int64
	CanonicalCallsTotal  int64

	// Report metrics
	ReportsServedTotal int64
	reportsByStrategy  map[string]int64

	// HTTP metrics
	httpRequestsTotal map[string]map[int]int64 // endpoint -> status -> count

	// Timing
	startTime time.Time
}

// Global metrics instance
var instance *Metrics
var once sync.Once

// Get returns the singleton metrics instance
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			reportsByStrategy: make(map[string]int64),
			httpRequestsTotal: make(map[string]map[int]int64),
			startTime:         time.Now(),
		}
	})
	return instance
}

// RecordUpstreamPage records one fetched provider page
func (m *Metrics) RecordUpstreamPage(records int) {
	m.mu.Lock()
	m.UpstreamPagesTotal++
	m.UpstreamRecordsTotal += int64(records)
	m.mu.Unlock()
}

// RecordUpstreamError records a fetch that ended early
func (m *Metrics) RecordUpstreamError() {
	m.mu.Lock()
	m.UpstreamErrorsTotal++
	m.mu.Unlock()
}

// RecordDedupRun records one deduplication pass
func (m *Metrics) RecordDedupRun(rawRecords, canonicalCalls int) {
	m.mu.Lock()
	m.DedupRunsTotal++
	m.RawRecordsTotal += int64(rawRecords)
	m.CanonicalCallsTotal += int64(canonicalCalls)
	m.mu.Unlock()
}

// RecordReport records one served report and its winning strategy
func (m *Metrics) RecordReport(strategy string, canonicalCalls int) {
	m.mu.Lock()
	m.ReportsServedTotal++
	m.reportsByStrategy[strategy]++
	m.mu.Unlock()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(endpoint string, statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.httpRequestsTotal[endpoint] == nil {
		m.httpRequestsTotal[endpoint] = make(map[int]int64)
	}
	m.httpRequestsTotal[endpoint][statusCode]++
}

// Handler returns an HTTP handler for the /internal/metrics endpoint
func (m *Metrics) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.mu.RLock()
		defer m.mu.RUnlock()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		// Helper to write metric
		write := func(name string, value interface{}, labels ...string) {
			labelStr := ""
			if len(labels) > 0 {
				labelStr = "{"
				for i := 0; i < len(labels); i += 2 {
					if i > 0 {
						labelStr += ","
					}
					labelStr += labels[i] + "=\"" + labels[i+1] + "\""
				}
				labelStr += "}"
			}

			switch v := value.(type) {
			case int:
				w.Write([]byte(name + labelStr + " " + strconv.Itoa(v) + "\n"))
			case int64:
				w.Write([]byte(name + labelStr + " " + strconv.FormatInt(v, 10) + "\n"))
			case float64:
				w.Write([]byte(name + labelStr + " " + strconv.FormatFloat(v, 'f', 6, 64) + "\n"))
			}
		}

		write("opsconsole_uptime_seconds", time.Since(m.startTime).Seconds())

		write("opsconsole_upstream_pages_total", m.UpstreamPagesTotal)
		write("opsconsole_upstream_records_total", m.UpstreamRecordsTotal)
		write("opsconsole_upstream_errors_total", m.UpstreamErrorsTotal)

		write("opsconsole_dedup_runs_total", m.DedupRunsTotal)
		write("opsconsole_raw_records_total", m.RawRecordsTotal)
		write("opsconsole_canonical_calls_total", m.CanonicalCallsTotal)

		write("opsconsole_reports_served_total", m.ReportsServedTotal)
		for strategy, count := range m.reportsByStrategy {
			write("opsconsole_reports_by_strategy", count, "strategy", strategy)
		}

		for endpoint, statusCodes := range m.httpRequestsTotal {
			for status, count := range statusCodes {
				write("opsconsole_http_requests_total", count, "endpoint", endpoint, "status", strconv.Itoa(status))
			}
		}
	}
}
