package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	queryDuration = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name:       "planner_query_duration_seconds",
		Help:       "Time spent serving transit queries",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	}, []string{"operation"})

	queryResponses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_query_responses_total",
		Help: "Transit query responses by status class",
	}, []string{"operation", "status"})

	noResults = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_query_no_result_total",
		Help: "Well-formed queries that found no line, service or trip",
	}, []string{"operation"})

	snapshotLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_snapshot_loads_total",
		Help: "Schedule snapshot loads by result",
	}, []string{"result"})

	loadErrors = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "planner_snapshot_load_errors",
		Help: "Number of load errors recorded while building the current snapshot",
	})

	networkSize = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "planner_network_entities",
		Help: "Stations, lines and services in the current snapshot",
	}, []string{"entity"})
)

func init() {
	prometheus.MustRegister(queryDuration, queryResponses, noResults, snapshotLoads, loadErrors, networkSize)
}

// ObserveQuery records the latency and HTTP status of one query.
func ObserveQuery(operation string, status int, elapsed time.Duration) {
	queryDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	queryResponses.WithLabelValues(operation, statusClass(status)).Inc()
}

// NoResult counts a query that was valid but found nothing.
func NoResult(operation string) {
	noResults.WithLabelValues(operation).Inc()
}

// SnapshotLoaded records a snapshot that became current.
func SnapshotLoaded(stations, lines, services, errs int) {
	snapshotLoads.WithLabelValues("ok").Inc()
	loadErrors.Set(float64(errs))
	networkSize.WithLabelValues("stations").Set(float64(stations))
	networkSize.WithLabelValues("lines").Set(float64(lines))
	networkSize.WithLabelValues("services").Set(float64(services))
}

// SnapshotRejected records a reload that kept the previous snapshot.
func SnapshotRejected() {
	snapshotLoads.WithLabelValues("rejected").Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
