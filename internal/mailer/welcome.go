package mailer

import (
	"context"
	"fmt"

	"github.com/qubedcare/postmark_relay/internal/logging"
	"github.com/qubedcare/postmark_relay/internal/metrics"
)

// WelcomeService onboards a new client: provision a mailbox for the client's
// name, then send the welcome email to it.
type WelcomeService struct {
	provider AddressProvider
	sender   Sender
	logger   *logging.Logger
}

// NewWelcomeService wires a provider and a sender.
func NewWelcomeService(provider AddressProvider, sender Sender) *WelcomeService {
	return &WelcomeService{
		provider: provider,
		sender:   sender,
		logger:   logging.New("postmark-relay-mailer"),
	}
}

// HandleNewClient processes one new-client alert. It returns the client with
// its provisioned address filled in, or an error if provisioning or sending
// failed; callers decide whether to requeue.
func (s *WelcomeService) HandleNewClient(ctx context.Context, c Client) (Client, error) {
	addr, err := s.provider.ProvisionAddress(ctx, c.Name)
	if err != nil {
		metrics.RecordWelcomeEmail("failed")
		return c, fmt.Errorf("provision address for %q: %w", c.Name, err)
	}
	c.EmailAddress = addr

	if err := s.sender.SendWelcome(ctx, c); err != nil {
		metrics.RecordWelcomeEmail("failed")
		return c, fmt.Errorf("send welcome email to %s: %w", c.EmailAddress, err)
	}

	metrics.RecordWelcomeEmail("sent")
	s.logger.WithContext(ctx).WithRecipient(c.EmailAddress).WithField("client_id", c.ID).
		Info("welcome email sent")
	return c, nil
}
