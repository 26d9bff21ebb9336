// Package metrics exposes prometheus instruments for the HTTP surface and the
// payment reconciler.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes application-level instruments.
type Metrics struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	paymentIntents  *prometheus.CounterVec
	webhookEvents   *prometheus.CounterVec
	webhookReplayed prometheus.Counter
}

// New registers the application instruments on the default registry.
func New() *Metrics {
	return &Metrics{
		httpRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "brewhub_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "brewhub_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		paymentIntents: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "brewhub_payment_intents_total",
			Help: "Payment intents created, by outcome.",
		}, []string{"outcome"}),
		webhookEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "brewhub_webhook_events_total",
			Help: "Webhook events processed, by type.",
		}, []string{"event_type"}),
		webhookReplayed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "brewhub_webhook_duplicates_total",
			Help: "Webhook deliveries skipped as already processed.",
		}),
	}
}

// RecordPaymentIntent increments intent creation counts.
func (m *Metrics) RecordPaymentIntent(outcome string) {
	if m == nil {
		return
	}
	m.paymentIntents.WithLabelValues(strings.TrimSpace(outcome)).Inc()
}

// RecordWebhookEvent increments processed webhook event counts.
func (m *Metrics) RecordWebhookEvent(eventType string) {
	if m == nil {
		return
	}
	m.webhookEvents.WithLabelValues(strings.TrimSpace(eventType)).Inc()
}

// RecordWebhookDuplicate increments the duplicate-delivery count.
func (m *Metrics) RecordWebhookDuplicate() {
	if m == nil {
		return
	}
	m.webhookReplayed.Inc()
}

// GinMiddleware records request counts and latency per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
