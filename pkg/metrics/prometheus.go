// Package metrics provides Prometheus metrics for the draft service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ledger metrics
	claims         prometheus.Counter
	claimConflicts prometheus.Counter
	externalClaims prometheus.Counter
	ledgerResets   prometheus.Counter
	claimedTotal   prometheus.Gauge

	// Engine metrics
	recommendationRequests prometheus.Counter
	scoringLatency         prometheus.Histogram

	// Resolver metrics
	resolverMultiMatches prometheus.Counter
	resolverMisses       prometheus.Counter

	// Repository snapshot metrics
	snapshotRebuilds        prometheus.Counter
	snapshotRebuildDuration prometheus.Histogram
	candidateCount          prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance on a custom registry, so the default
// Go collectors do not pollute the scrape.
var (
	customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry
	globalManager  *Manager                   //nolint:gochecknoglobals // singleton manager
)

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "draftmate",
		subsystem:        "draft",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.claims = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "claims_total",
		Help: "Total number of successful roster claims",
	})
	m.claimConflicts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "claim_conflicts_total",
		Help: "Total number of claims rejected because the candidate was already taken",
	})
	m.externalClaims = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "external_claims_total",
		Help: "Total number of candidates marked claimed by untracked parties",
	})
	m.ledgerResets = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "ledger_resets_total",
		Help: "Total number of ledger resets",
	})
	m.claimedTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "claimed_candidates",
		Help: "Current size of the global claim set",
	})

	m.recommendationRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "recommendation_requests_total",
		Help: "Total number of recommendation requests served",
	})
	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "scoring_latency_milliseconds",
		Help:    "Histogram of full recommendation pass latency in milliseconds",
		Buckets: m.histogramBuckets,
	})

	m.resolverMultiMatches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "resolver_multi_match_total",
		Help: "Total number of ambiguous name resolutions (several candidates matched)",
	})
	m.resolverMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "resolver_miss_total",
		Help: "Total number of name resolutions that matched no candidate",
	})

	m.snapshotRebuilds = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "snapshot_rebuilds_total",
		Help: "Total number of candidate snapshot rebuilds",
	})
	m.snapshotRebuildDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "snapshot_rebuild_milliseconds",
		Help:    "Histogram of candidate snapshot rebuild duration in milliseconds",
		Buckets: m.histogramBuckets,
	})
	m.candidateCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "candidates",
		Help: "Number of candidates in the current snapshot",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "Total HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_milliseconds",
		Help:    "Histogram of HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_memory_bytes",
		Help: "Current allocated memory in bytes",
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "system_goroutines",
		Help: "Current number of goroutines",
	})
}

// Package-level helpers over the global manager.

// RecordClaim counts one successful roster claim.
func RecordClaim() { globalManager.claims.Inc() }

// RecordClaimConflict counts one rejected already-claimed attempt.
func RecordClaimConflict() { globalManager.claimConflicts.Inc() }

// RecordExternalClaim counts one externally reported claim.
func RecordExternalClaim() { globalManager.externalClaims.Inc() }

// RecordLedgerReset counts one ledger reset.
func RecordLedgerReset() { globalManager.ledgerResets.Inc() }

// UpdateClaimedTotal sets the current claim-set size.
func UpdateClaimedTotal(n int) { globalManager.claimedTotal.Set(float64(n)) }

// RecordRecommendationRequest counts one recommendation pass.
func RecordRecommendationRequest() { globalManager.recommendationRequests.Inc() }

// RecordScoringLatency observes one full recommendation pass.
func RecordScoringLatency(d time.Duration) {
	globalManager.scoringLatency.Observe(float64(d.Milliseconds()))
}

// RecordResolverMultiMatch counts one ambiguous resolution.
func RecordResolverMultiMatch() { globalManager.resolverMultiMatches.Inc() }

// RecordResolverMiss counts one resolution that found nothing.
func RecordResolverMiss() { globalManager.resolverMisses.Inc() }

// RecordSnapshotRebuild observes one snapshot rebuild.
func RecordSnapshotRebuild(d time.Duration) {
	globalManager.snapshotRebuilds.Inc()
	globalManager.snapshotRebuildDuration.Observe(float64(d.Milliseconds()))
}

// UpdateCandidateCount sets the snapshot size gauge.
func UpdateCandidateCount(n int) { globalManager.candidateCount.Set(float64(n)) }

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// UpdateSystemMemoryUsage sets the allocated-memory gauge.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(n int) { globalManager.systemGoroutineCount.Set(float64(n)) }

// GetRegistry exposes the custom registry for the /healthz handler.
func GetRegistry() *prometheus.Registry { return customRegistry }
