package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// AddressProvider provisions a mailbox address for a new client.
type AddressProvider interface {
	ProvisionAddress(ctx context.Context, clientName string) (string, error)
}

// GuerrillaProvider provisions temporary addresses through the GuerrillaMail
// API. It is a stand-in for a real mailbox backend (e.g. Google Workspace);
// generated addresses are not guaranteed unique across restarts.
type GuerrillaProvider struct {
	apiURL string
	client *http.Client
}

// NewGuerrillaProvider returns a provider calling apiURL with the given
// request timeout.
func NewGuerrillaProvider(apiURL string, timeout time.Duration) *GuerrillaProvider {
	return &GuerrillaProvider{
		apiURL: apiURL,
		client: &http.Client{Timeout: timeout},
	}
}

// ProvisionAddress requests a fresh mailbox address. The client name is not
// sent to the API; GuerrillaMail hands out opaque addresses.
func (g *GuerrillaProvider) ProvisionAddress(ctx context.Context, _ string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiURL+"?f=get_email_address", nil)
	if err != nil {
		return "", err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("mailbox api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mailbox api status %d", resp.StatusCode)
	}

	var out struct {
		EmailAddr string `json:"email_addr"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("mailbox api decode: %w", err)
	}
	if out.EmailAddr == "" {
		return "", fmt.Errorf("mailbox api returned no address")
	}
	return out.EmailAddr, nil
}
