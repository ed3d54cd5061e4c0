package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "olgish_cakes"

var (
	// SchemasGenerated counts built documents by schema type
	SchemasGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schemas_generated_total",
			Help:      "Structured-data documents built",
		},
		[]string{"type"},
	)

	// SchemaValidations counts validator runs by outcome
	SchemaValidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schema_validations_total",
			Help:      "Product schemas validated",
		},
		[]string{"result"},
	)

	// ValidationErrors counts individual validation messages
	ValidationErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schema_validation_errors_total",
			Help:      "Validation errors reported across all schemas",
		},
	)

	// DuplicateMPNs tracks the duplicates found by the last catalog report
	DuplicateMPNs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "duplicate_mpns",
			Help:      "MPNs shared by more than one product in the last catalog report",
		},
	)

	// CacheLookups counts schema cache reads by outcome
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schema_cache_lookups_total",
			Help:      "Schema cache reads",
		},
		[]string{"result"},
	)

	// RequestDuration tracks HTTP handler latency
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time spent serving HTTP requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "status"},
	)
)

// Registry holds every collector of the service
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		SchemasGenerated,
		SchemaValidations,
		ValidationErrors,
		DuplicateMPNs,
		CacheLookups,
		RequestDuration,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
}

// Handler exposes Registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordValidation counts one validator result
func RecordValidation(valid bool, errorCount int) {
	if valid {
		SchemaValidations.WithLabelValues("valid").Inc()
		return
	}
	SchemaValidations.WithLabelValues("invalid").Inc()
	ValidationErrors.Add(float64(errorCount))
}

// RecordCacheLookup counts a cache hit or miss
func RecordCacheLookup(hit bool) {
	if hit {
		CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	CacheLookups.WithLabelValues("miss").Inc()
}
