// Package metrics defines the prometheus collectors for the service. All of
// them are registered with the default registry at init time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "weather_history"

// LookupsTotal counts weather lookups by result:
// ok, empty_city, not_found, upstream_error.
var LookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lookups_total",
		Help:      "Total number of weather lookups, by result.",
	},
	[]string{"result"},
)

// HistoryAppendsTotal counts history writes by result (ok, error).
var HistoryAppendsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_appends_total",
		Help:      "Total number of history entries appended, by result.",
	},
	[]string{"result"},
)

// AuthEventsTotal counts register, login and logout attempts.
// Labels:
//   - event: register, login, logout
//   - result: ok, invalid_input, duplicate, auth_failure, error
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of authentication events, by event and result.",
	},
	[]string{"event", "result"},
)

// ProviderRequestDuration measures outbound provider calls.
var ProviderRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_request_duration_seconds",
		Help:      "Duration of outbound weather provider requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"provider", "outcome"},
)
