package config

import (
	"os"
	"strconv"
	"time"
)

type NSQ struct {
	NsqdTCPAddr    string // e.g. nsqd:4150
	LookupHTTPAddr string // e.g. http://nsqlookupd:4161
	TriageTopic    string // topic receiving normalized triage tasks
	NewClientTopic string // topic carrying new-client alerts from the CRM
	CRMUpdateTopic string // topic carrying CRM client updates
	MailerChannel  string // NSQ channel name for mailer consumers
}

type Webhook struct {
	Secret          string        // shared secret Postmark signs payloads with
	RequestTimeout  time.Duration // per-request processing deadline
	PublishAttempts int           // broker publish attempts before giving up
	PublishBackoff  time.Duration // initial backoff between publish attempts
}

type Mailer struct {
	ServerToken    string        // Postmark server API token
	APIBaseURL     string        // Postmark API base URL
	FromEmail      string        // sender address for welcome emails
	MailboxAPIURL  string        // GuerrillaMail mailbox provisioning endpoint
	MaxAttempts    int           // maximum consume attempts per message
	BackoffBase    time.Duration // base requeue delay, doubled per attempt
	JitterPercent  float64       // requeue jitter percentage (0.0-1.0)
	HTTPPort       string        // mailer HTTP metrics port
	RequestTimeout time.Duration // outbound HTTP request timeout
}

type Config struct {
	AppName  string
	HTTPPort string // :8080
	NSQ      NSQ
	Webhook  Webhook
	Mailer   Mailer
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func FromEnv() Config {
	return Config{
		AppName:  getenv("APP_NAME", "postmark-relay"),
		HTTPPort: getenv("HTTP_PORT", ":8080"),
		NSQ: NSQ{
			NsqdTCPAddr:    getenv("NSQD_TCP_ADDR", "nsqd:4150"),
			LookupHTTPAddr: getenv("NSQ_LOOKUP_HTTP_ADDR", "http://nsqlookupd:4161"),
			TriageTopic:    getenv("NSQ_TRIAGE_TOPIC", "triage-request"),
			NewClientTopic: getenv("NSQ_NEW_CLIENT_TOPIC", "new-client-alert"),
			CRMUpdateTopic: getenv("NSQ_CRM_UPDATE_TOPIC", "crm-update"),
			MailerChannel:  getenv("NSQ_MAILER_CHANNEL", "mailers"),
		},
		Webhook: Webhook{
			Secret:          getenv("WEBHOOK_SECRET", ""),
			RequestTimeout:  getenvDuration("WEBHOOK_REQUEST_TIMEOUT", 10*time.Second),
			PublishAttempts: getenvInt("PUBLISH_MAX_ATTEMPTS", 3),
			PublishBackoff:  getenvDuration("PUBLISH_BACKOFF_BASE", time.Second),
		},
		Mailer: Mailer{
			ServerToken:    getenv("POSTMARK_SERVER_TOKEN", ""),
			APIBaseURL:     getenv("POSTMARK_API_BASE_URL", "https://api.postmarkapp.com"),
			FromEmail:      getenv("POSTMARK_FROM_EMAIL", "noreply@example.com"),
			MailboxAPIURL:  getenv("MAILBOX_API_URL", "https://api.guerrillamail.com/ajax.php"),
			MaxAttempts:    getenvInt("MAILER_MAX_ATTEMPTS", 5),
			BackoffBase:    getenvDuration("MAILER_BACKOFF_BASE", time.Second),
			JitterPercent:  getenvFloat("MAILER_BACKOFF_JITTER_PCT", 0.25),
			HTTPPort:       ":" + getenv("MAILER_HTTP_PORT", "8083"),
			RequestTimeout: getenvDuration("MAILER_REQUEST_TIMEOUT", 15*time.Second),
		},
	}
}
