package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/qubedcare/postmark_relay/internal/event"
	"github.com/qubedcare/postmark_relay/internal/signature"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send [delivery|open|bounce] [recipient]",
	Short: "Send a signed test webhook event",
	Long: `Build a sample webhook event of the given type, sign it with the
shared secret, and POST it to the relay.

Example:
  relayctl send delivery someone@example.com --secret testSecret`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if secret == "" {
			return fmt.Errorf("a shared secret is required (--secret or WEBHOOK_SECRET)")
		}

		recipient := "test@example.com"
		if len(args) == 2 {
			recipient = args[1]
		}

		payload, err := sampleEvent(args[0], recipient)
		if err != nil {
			return err
		}

		sig, err := signature.Compute(payload, secret)
		if err != nil {
			return fmt.Errorf("failed to sign payload: %w", err)
		}
		body, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}

		resp, err := postJSON("/webhook/"+args[0], sig, body)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)
		fmt.Printf("%s %s\n", resp.Status, string(respBody))
		return nil
	},
}

// sampleEvent builds a representative event of the given type.
func sampleEvent(eventType, recipient string) (event.Inbound, error) {
	messageID := uuid.NewString()
	now := time.Now().UTC()

	switch eventType {
	case "delivery":
		return event.Delivery{
			MessageID:     messageID,
			Recipient:     recipient,
			DeliveredAt:   now,
			Details:       "Test delivery",
			RecordType:    "Delivery",
			MessageStream: "outbound",
		}, nil
	case "open":
		return event.Open{
			RecordType:    "Open",
			MessageStream: "outbound",
			FirstOpen:     true,
			Client:        &event.ClientInfo{Name: "relayctl", Company: "qubedcare", Family: "relayctl"},
			MessageID:     messageID,
			ReceivedAt:    now,
			Recipient:     recipient,
		}, nil
	case "bounce":
		return event.Bounce{
			RecordType:    "Bounce",
			MessageStream: "outbound",
			Type:          "HardBounce",
			TypeCode:      1,
			MessageID:     messageID,
			Description:   "Test bounce generated by relayctl",
			Email:         recipient,
			BouncedAt:     now,
		}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q (want delivery, open, or bounce)", eventType)
	}
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
