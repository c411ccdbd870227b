package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qubedcare/postmark_relay/internal/event"
	"github.com/qubedcare/postmark_relay/internal/signature"
)

// signCmd represents the sign command
var signCmd = &cobra.Command{
	Use:   "sign [delivery|open|bounce] [payload-json]",
	Short: "Compute the signature for a webhook payload",
	Long: `Decode a JSON payload as the given event type and print the
Base64 HMAC-SHA256 signature the provider would send for it.

The payload is re-serialized through the typed event schema before signing,
exactly as the relay does during verification.

Example:
  relayctl sign delivery '{"MessageID":"m1","Recipient":"a@b.com","DeliveredAt":"2024-01-01T00:00:00Z"}' --secret testSecret`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if secret == "" {
			return fmt.Errorf("a shared secret is required (--secret or WEBHOOK_SECRET)")
		}

		payload, err := decodeEvent(args[0], []byte(args[1]))
		if err != nil {
			return err
		}

		sig, err := signature.Compute(payload, secret)
		if err != nil {
			return fmt.Errorf("failed to sign payload: %w", err)
		}
		fmt.Println(sig)
		return nil
	},
}

// decodeEvent unmarshals raw JSON into the typed event for eventType.
func decodeEvent(eventType string, raw []byte) (event.Inbound, error) {
	switch eventType {
	case "delivery":
		var ev event.Delivery
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("invalid delivery payload: %w", err)
		}
		return ev, nil
	case "open":
		var ev event.Open
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("invalid open payload: %w", err)
		}
		return ev, nil
	case "bounce":
		var ev event.Bounce
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("invalid bounce payload: %w", err)
		}
		return ev, nil
	default:
		return nil, fmt.Errorf("unknown event type %q (want delivery, open, or bounce)", eventType)
	}
}

func init() {
	rootCmd.AddCommand(signCmd)
}
