package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ChatMessages counts processed chat messages by category and answer source.
	ChatMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maternal_chat_messages_total",
			Help: "Chat messages processed by category and response source",
		},
		[]string{"category", "source"},
	)

	// WHORequests counts outbound GHO calls by endpoint and outcome.
	WHORequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maternal_who_requests_total",
			Help: "Requests sent to the WHO GHO API by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	// WHORequestDuration observes GHO call latency including retries.
	WHORequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "maternal_who_request_duration_seconds",
			Help:    "Latency of WHO GHO API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// CacheLookups counts cache lookups by tier and result.
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maternal_cache_lookups_total",
			Help: "WHO cache lookups by tier and result",
		},
		[]string{"tier", "result"},
	)

	// IntentResults counts per-intent enrichment outcomes.
	IntentResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maternal_intent_results_total",
			Help: "Intent enrichment outcomes (answered, no_indicator, no_value, error)",
		},
		[]string{"intent", "outcome"},
	)
)

var registerOnce sync.Once

// Register adds every collector to reg. Safe to call more than once.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(ChatMessages, WHORequests, WHORequestDuration, CacheLookups, IntentResults)
	})
}
