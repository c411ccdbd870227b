// Package publish forwards normalized tasks to the broker with bounded
// retry. A publish only succeeds once nsqd has acknowledged the write, which
// gives at-least-once semantics from this service's perspective; downstream
// consumers handle duplicates.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/qubedcare/postmark_relay/internal/event"
	"github.com/qubedcare/postmark_relay/internal/logging"
	"github.com/qubedcare/postmark_relay/internal/metrics"
)

const (
	// DefaultMaxAttempts bounds the publish attempts per task.
	DefaultMaxAttempts = 3
	// DefaultBackoff is the wait after the first failed attempt; it doubles
	// after each subsequent failure (1s, 2s, 4s).
	DefaultBackoff = time.Second
)

// Producer is the broker write path. *nsq.Producer satisfies it.
type Producer interface {
	Publish(topic string, body []byte) error
}

// Error is the terminal failure returned once all attempts are exhausted.
type Error struct {
	Topic    string
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("publish to %q failed after %d attempts: %v", e.Topic, e.Attempts, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Publisher publishes tasks to a single broker topic. It is safe for
// concurrent use; the producer's own connection handling does the locking.
type Publisher struct {
	prod        Producer
	topic       string
	maxAttempts int
	backoff     time.Duration
	logger      *logging.Logger
}

// NewPublisher returns a Publisher for topic. Non-positive maxAttempts or
// backoff fall back to the defaults.
func NewPublisher(prod Producer, topic string, maxAttempts int, backoff time.Duration) *Publisher {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	return &Publisher{
		prod:        prod,
		topic:       topic,
		maxAttempts: maxAttempts,
		backoff:     backoff,
		logger:      logging.New("postmark-relay"),
	}
}

// Topic returns the broker topic this publisher writes to.
func (p *Publisher) Topic() string { return p.topic }

// Publish sends task to the topic, retrying transient broker failures with
// doubling backoff. The backoff waits are cancellable through ctx. On
// exhausting all attempts it returns a terminal *Error wrapping the last
// cause; the task is lost from this service's perspective.
func (p *Publisher) Publish(ctx context.Context, task event.Task) error {
	body, err := json.Marshal(task)
	if err != nil {
		return &Error{Topic: p.topic, Attempts: 0, Err: err}
	}

	delay := p.backoff
	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		err := p.prod.Publish(p.topic, body)
		if err == nil {
			return nil
		}
		lastErr = err

		reason := classifyReason(lastErr)
		metrics.RecordPublishRetry(reason)
		p.logger.WithContext(ctx).WithTopic(p.topic).WithError(lastErr).WithFields(map[string]any{
			"attempt": attempt,
			"reason":  reason,
			"delay":   delay.String(),
		}).Warn("broker publish failed")

		select {
		case <-ctx.Done():
			metrics.RecordPublishFailure()
			return &Error{Topic: p.topic, Attempts: attempt, Err: ctx.Err()}
		case <-time.After(delay):
		}
		delay *= 2
	}

	metrics.RecordPublishFailure()
	return &Error{Topic: p.topic, Attempts: p.maxAttempts, Err: lastErr}
}

// classifyReason buckets broker errors for the retry metric.
func classifyReason(err error) string {
	if err == nil {
		return "other"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "not connected") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "eof"):
		return "broker_unreachable"
	default:
		return "other"
	}
}
