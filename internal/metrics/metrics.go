package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reservation_desk"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ledgerReplaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_replace_total",
			Help:      "Count of full reservation ledger replacements by result.",
		},
		[]string{"result"},
	)

	ledgerRows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_rows",
			Help:      "Number of slot rows written by the last successful ledger replacement.",
		},
	)

	slotUpdated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_update_total",
			Help:      "Count of single slot updates by result.",
		},
		[]string{"result"},
	)

	authEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_events_total",
			Help:      "Count of authentication events by event and result.",
		},
		[]string{"event", "result"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, ledgerReplaced, ledgerRows, slotUpdated, authEvents)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveHTTPRequest(method, route, status string, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func ObserveLedgerReplace(result string, rows int) {
	ledgerReplaced.WithLabelValues(result).Inc()
	if result == "ok" {
		ledgerRows.Set(float64(rows))
	}
}

func IncSlotUpdate(result string) {
	slotUpdated.WithLabelValues(result).Inc()
}

func IncAuthEvent(event, result string) {
	authEvents.WithLabelValues(event, result).Inc()
}
