package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Sender delivers a welcome email to a provisioned client.
type Sender interface {
	SendWelcome(ctx context.Context, c Client) error
}

// PostmarkSender sends mail through the Postmark messages API.
type PostmarkSender struct {
	baseURL string
	token   string
	from    string
	client  *http.Client
}

// NewPostmarkSender returns a sender using the given server token and from
// address.
func NewPostmarkSender(baseURL, token, from string, timeout time.Duration) *PostmarkSender {
	return &PostmarkSender{
		baseURL: baseURL,
		token:   token,
		from:    from,
		client:  &http.Client{Timeout: timeout},
	}
}

type postmarkMessage struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	TextBody string `json:"TextBody"`
}

type postmarkResponse struct {
	ErrorCode int    `json:"ErrorCode"`
	Message   string `json:"Message"`
}

// SendWelcome sends the fixed welcome message to the client's address.
func (p *PostmarkSender) SendWelcome(ctx context.Context, c Client) error {
	msg := postmarkMessage{
		From:     p.from,
		To:       c.EmailAddress,
		Subject:  "Welcome to Our Service",
		TextBody: "Dear " + c.Name + ",\n\nWelcome to our service! We're excited to have you on board.",
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/email", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Postmark-Server-Token", p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("postmark request: %w", err)
	}
	defer resp.Body.Close()

	var out postmarkResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("postmark decode: %w", err)
	}
	if resp.StatusCode != http.StatusOK || out.ErrorCode != 0 {
		return fmt.Errorf("postmark send failed: status=%d code=%d message=%s",
			resp.StatusCode, out.ErrorCode, out.Message)
	}
	return nil
}
