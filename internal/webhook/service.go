// Package webhook receives Postmark delivery-status callbacks, authenticates
// them against the shared webhook secret, normalizes them into triage tasks
// and forwards the tasks to the broker.
package webhook

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/qubedcare/postmark_relay/internal/event"
	"github.com/qubedcare/postmark_relay/internal/logging"
	"github.com/qubedcare/postmark_relay/internal/metrics"
	"github.com/qubedcare/postmark_relay/internal/signature"
	"github.com/qubedcare/postmark_relay/internal/tracing"
)

// ErrInvalidSignature is returned when a callback fails authentication. The
// payload never reaches the broker in that case.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// Publisher is the broker side of the pipeline.
type Publisher interface {
	Publish(ctx context.Context, task event.Task) error
}

// Service runs the verify -> normalize -> publish pipeline. It holds no
// per-request state; the secret and publisher are immutable after startup.
type Service struct {
	secret string
	pub    Publisher
	logger *logging.Logger
}

// NewService returns a Service authenticating callbacks with secret and
// forwarding tasks through pub.
func NewService(secret string, pub Publisher) *Service {
	return &Service{
		secret: secret,
		pub:    pub,
		logger: logging.New("postmark-relay"),
	}
}

// Process handles one webhook callback. It returns ErrInvalidSignature when
// the signature does not match (no broker I/O happens), or the publisher's
// terminal error when all publish attempts are exhausted.
func (s *Service) Process(ctx context.Context, eventType string, payload event.Inbound, sig string) error {
	ctx, span := tracing.StartSpan(ctx, "webhook.Process",
		attribute.String("event_type", eventType),
	)
	defer span.End()

	tracing.AddSpanEvent(ctx, "signature.verify")
	if !signature.Verify(payload, sig, s.secret) {
		tracing.SetSpanError(ctx, ErrInvalidSignature)
		s.logger.WithContext(ctx).WithEventType(eventType).Warn("invalid signature, rejecting event")
		return ErrInvalidSignature
	}

	task := event.Normalize(payload)
	tracing.AddSpanEvent(ctx, "task.normalized", attribute.String("task_type", string(task.Type)))

	start := time.Now()
	tracing.AddSpanEvent(ctx, "broker.publish")
	if err := s.pub.Publish(ctx, task); err != nil {
		tracing.SetSpanError(ctx, err)
		s.logger.WithContext(ctx).WithEventType(eventType).WithRecipient(task.EmailAddress).
			WithError(err).Error("task publish failed")
		return err
	}

	metrics.RecordTaskPublished(eventType, time.Since(start))
	s.logger.WithContext(ctx).WithEventType(eventType).WithRecipient(task.EmailAddress).
		Info("task published to triage topic")
	return nil
}
