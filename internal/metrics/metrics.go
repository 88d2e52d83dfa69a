// Package metrics exposes prometheus counters for the metered-extraction
// and billing-reconciliation paths.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

type Metrics struct {
	ExtractRequests   prometheus.Counter
	QuotaDenied       prometheus.Counter
	WebhookEvents     *prometheus.CounterVec
	SyncFailures      prometheus.Counter
	RateLimitRejected prometheus.Counter
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the counters on a caller-provided registry;
// tests pass a fresh one to avoid duplicate registration panics.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ExtractRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "daymark_extract_requests_total",
			Help: "Metered extraction requests accepted by the quota gate.",
		}),
		QuotaDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "daymark_quota_denied_total",
			Help: "Extraction requests denied because the period quota was spent.",
		}),
		WebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "daymark_billing_webhook_events_total",
			Help: "Billing webhook deliveries by event name and disposition.",
		}, []string{"event_name", "disposition"}),
		SyncFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "daymark_subscription_sync_failures_total",
			Help: "Failed subscription sync attempts against the billing provider.",
		}),
		RateLimitRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "daymark_extract_rate_limited_total",
			Help: "Extraction requests rejected by the per-user rate limiter.",
		}),
	}

	reg.MustRegister(
		m.ExtractRequests,
		m.QuotaDenied,
		m.WebhookEvents,
		m.SyncFailures,
		m.RateLimitRejected,
	)

	return m
}

var Module = fx.Module("metrics",
	fx.Provide(New),
)
