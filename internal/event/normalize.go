package event

import "time"

// unknownClient is substituted when an open event carries no client descriptor.
const unknownClient = "Unknown"

// Normalize maps an inbound webhook payload to its canonical Task. It is a
// pure function and never fails: missing optional fields fall back to fixed
// placeholders so that a provider callback always yields a publishable task.
func Normalize(in Inbound) Task {
	switch ev := in.(type) {
	case Delivery:
		return Task{
			Type:         TaskDelivery,
			EmailAddress: ev.Recipient,
			Details:      "Email delivered at " + formatInstant(ev.DeliveredAt),
		}
	case Open:
		client := unknownClient
		if ev.Client != nil {
			client = ev.Client.Name
		}
		return Task{
			Type:         TaskOpen,
			EmailAddress: ev.Recipient,
			Details:      "Email opened at " + formatInstant(ev.ReceivedAt) + " using " + client,
		}
	case Bounce:
		return Task{
			Type:         TaskBounce,
			EmailAddress: ev.Email,
			Details:      "Email bounced at " + formatInstant(ev.BouncedAt) + ". Reason: " + ev.Description,
		}
	default:
		// Inbound is a closed union; this is unreachable for real payloads.
		return Task{}
	}
}

// formatInstant renders a timestamp the same way it appears on the wire:
// ISO-8601 in UTC, nanosecond precision with trailing zeros trimmed.
func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
