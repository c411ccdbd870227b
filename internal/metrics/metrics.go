package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	WebhooksReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postmark_relay_webhooks_received_total",
			Help: "Total number of webhook callbacks received by event type.",
		},
		[]string{"event_type"},
	)

	WebhooksRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postmark_relay_webhooks_rejected_total",
			Help: "Total number of webhook callbacks rejected for a bad signature.",
		},
		[]string{"event_type"},
	)

	TasksPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postmark_relay_tasks_published_total",
			Help: "Total number of triage tasks acknowledged by the broker.",
		},
		[]string{"event_type"},
	)

	PublishRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postmark_relay_publish_retries_total",
			Help: "Total number of broker publish retries by reason.",
		},
		[]string{"reason"}, // e.g. broker_unreachable, timeout, other
	)

	PublishFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "postmark_relay_publish_failures_total",
			Help: "Total number of tasks lost after exhausting publish retries.",
		},
	)

	PublishDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "postmark_relay_publish_duration_seconds",
			Help:    "End-to-end broker publish latency including retries.",
			Buckets: []float64{.005, .01, .05, .1, .5, 1, 2.5, 5, 10},
		},
	)

	WelcomeEmailsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postmark_relay_welcome_emails_total",
			Help: "Total number of welcome emails attempted by outcome.",
		},
		[]string{"outcome"}, // sent, failed
	)

	CRMUpdatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "postmark_relay_crm_updates_total",
			Help: "Total number of CRM update messages consumed.",
		},
	)
)

func MustRegister(reg *prometheus.Registry) {
	reg.MustRegister(
		WebhooksReceivedTotal,
		WebhooksRejectedTotal,
		TasksPublishedTotal,
		PublishRetriesTotal,
		PublishFailuresTotal,
		PublishDuration,
		WelcomeEmailsTotal,
		CRMUpdatesTotal,
	)
}

// RecordWebhookReceived increments the received counter for an event type.
func RecordWebhookReceived(eventType string) {
	WebhooksReceivedTotal.WithLabelValues(eventType).Inc()
}

// RecordWebhookRejected increments the rejected counter for an event type.
func RecordWebhookRejected(eventType string) {
	WebhooksRejectedTotal.WithLabelValues(eventType).Inc()
}

// RecordTaskPublished records a broker-acknowledged publish and its latency.
func RecordTaskPublished(eventType string, elapsed time.Duration) {
	TasksPublishedTotal.WithLabelValues(eventType).Inc()
	PublishDuration.Observe(elapsed.Seconds())
}

// RecordPublishRetry increments the retry counter for a failure reason.
func RecordPublishRetry(reason string) {
	PublishRetriesTotal.WithLabelValues(reason).Inc()
}

// RecordPublishFailure counts a task lost after retries were exhausted.
func RecordPublishFailure() {
	PublishFailuresTotal.Inc()
}

// RecordWelcomeEmail counts a welcome email attempt by outcome.
func RecordWelcomeEmail(outcome string) {
	WelcomeEmailsTotal.WithLabelValues(outcome).Inc()
}

// RecordCRMUpdate counts a consumed CRM update message.
func RecordCRMUpdate() {
	CRMUpdatesTotal.Inc()
}
