package config

import (
	"os"
	"testing"
	"time"
)

func TestGetenv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		expected     string
	}{
		{
			name:         "returns environment variable when set",
			key:          "TEST_KEY_1",
			defaultValue: "default",
			envValue:     "env_value",
			expected:     "env_value",
		},
		{
			name:         "returns default when environment variable is empty",
			key:          "TEST_KEY_2",
			defaultValue: "default",
			envValue:     "",
			expected:     "default",
		},
		{
			name:         "handles empty default value",
			key:          "TEST_KEY_3",
			defaultValue: "",
			envValue:     "env_value",
			expected:     "env_value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			result := getenv(tt.key, tt.defaultValue)
			if result != tt.expected {
				t.Errorf("getenv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, result, tt.expected)
			}
		})
	}
}

func TestGetenvInt(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		def      int
		expected int
	}{
		{
			name:     "valid integer",
			envValue: "42",
			def:      10,
			expected: 42,
		},
		{
			name:     "invalid integer",
			envValue: "not-an-int",
			def:      10,
			expected: 10,
		},
		{
			name:     "empty string",
			envValue: "",
			def:      10,
			expected: 10,
		},
		{
			name:     "negative integer",
			envValue: "-5",
			def:      10,
			expected: -5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue == "" {
				os.Unsetenv("TEST_INT_VAR")
			} else {
				os.Setenv("TEST_INT_VAR", tt.envValue)
				defer os.Unsetenv("TEST_INT_VAR")
			}

			result := getenvInt("TEST_INT_VAR", tt.def)
			if result != tt.expected {
				t.Errorf("getenvInt(%q, %d) = %d, want %d", "TEST_INT_VAR", tt.def, result, tt.expected)
			}
		})
	}
}

func TestGetenvFloat(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		def      float64
		expected float64
	}{
		{
			name:     "valid float",
			envValue: "0.5",
			def:      0.25,
			expected: 0.5,
		},
		{
			name:     "valid integer as float",
			envValue: "2",
			def:      0.25,
			expected: 2.0,
		},
		{
			name:     "invalid float uses default",
			envValue: "not-a-float",
			def:      0.25,
			expected: 0.25,
		},
		{
			name:     "empty string uses default",
			envValue: "",
			def:      0.25,
			expected: 0.25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue == "" {
				os.Unsetenv("TEST_FLOAT_VAR")
			} else {
				os.Setenv("TEST_FLOAT_VAR", tt.envValue)
				defer os.Unsetenv("TEST_FLOAT_VAR")
			}

			result := getenvFloat("TEST_FLOAT_VAR", tt.def)
			if result != tt.expected {
				t.Errorf("getenvFloat(%q, %f) = %f, want %f", "TEST_FLOAT_VAR", tt.def, result, tt.expected)
			}
		})
	}
}

func TestGetenvDuration(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration seconds",
			envValue: "30s",
			def:      10 * time.Second,
			expected: 30 * time.Second,
		},
		{
			name:     "valid duration minutes",
			envValue: "5m",
			def:      10 * time.Second,
			expected: 5 * time.Minute,
		},
		{
			name:     "invalid duration uses default",
			envValue: "not-a-duration",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "empty string uses default",
			envValue: "",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue == "" {
				os.Unsetenv("TEST_DURATION_VAR")
			} else {
				os.Setenv("TEST_DURATION_VAR", tt.envValue)
				defer os.Unsetenv("TEST_DURATION_VAR")
			}

			result := getenvDuration("TEST_DURATION_VAR", tt.def)
			if result != tt.expected {
				t.Errorf("getenvDuration(%q, %v) = %v, want %v", "TEST_DURATION_VAR", tt.def, result, tt.expected)
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected Config
	}{
		{
			name:    "default values when no env vars set",
			envVars: map[string]string{},
			expected: Config{
				AppName:  "postmark-relay",
				HTTPPort: ":8080",
				NSQ: NSQ{
					NsqdTCPAddr:    "nsqd:4150",
					LookupHTTPAddr: "http://nsqlookupd:4161",
					TriageTopic:    "triage-request",
					NewClientTopic: "new-client-alert",
					CRMUpdateTopic: "crm-update",
					MailerChannel:  "mailers",
				},
				Webhook: Webhook{
					Secret:          "",
					RequestTimeout:  10 * time.Second,
					PublishAttempts: 3,
					PublishBackoff:  time.Second,
				},
			},
		},
		{
			name: "custom values from environment",
			envVars: map[string]string{
				"APP_NAME":                "test-app",
				"HTTP_PORT":               ":3000",
				"NSQD_TCP_ADDR":           "test-nsqd:4150",
				"NSQ_LOOKUP_HTTP_ADDR":    "http://test-nsqlookupd:4161",
				"NSQ_TRIAGE_TOPIC":        "triage-test",
				"NSQ_NEW_CLIENT_TOPIC":    "clients-test",
				"NSQ_CRM_UPDATE_TOPIC":    "crm-test",
				"NSQ_MAILER_CHANNEL":      "mailers-test",
				"WEBHOOK_SECRET":          "testSecret",
				"WEBHOOK_REQUEST_TIMEOUT": "20s",
				"PUBLISH_MAX_ATTEMPTS":    "5",
				"PUBLISH_BACKOFF_BASE":    "500ms",
			},
			expected: Config{
				AppName:  "test-app",
				HTTPPort: ":3000",
				NSQ: NSQ{
					NsqdTCPAddr:    "test-nsqd:4150",
					LookupHTTPAddr: "http://test-nsqlookupd:4161",
					TriageTopic:    "triage-test",
					NewClientTopic: "clients-test",
					CRMUpdateTopic: "crm-test",
					MailerChannel:  "mailers-test",
				},
				Webhook: Webhook{
					Secret:          "testSecret",
					RequestTimeout:  20 * time.Second,
					PublishAttempts: 5,
					PublishBackoff:  500 * time.Millisecond,
				},
			},
		},
		{
			name: "partial environment variables",
			envVars: map[string]string{
				"APP_NAME":         "partial-app",
				"NSQ_TRIAGE_TOPIC": "custom-triage",
			},
			expected: Config{
				AppName:  "partial-app",
				HTTPPort: ":8080",
				NSQ: NSQ{
					NsqdTCPAddr:    "nsqd:4150",
					LookupHTTPAddr: "http://nsqlookupd:4161",
					TriageTopic:    "custom-triage",
					NewClientTopic: "new-client-alert",
					CRMUpdateTopic: "crm-update",
					MailerChannel:  "mailers",
				},
				Webhook: Webhook{
					Secret:          "",
					RequestTimeout:  10 * time.Second,
					PublishAttempts: 3,
					PublishBackoff:  time.Second,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}
			defer func() {
				for key := range tt.envVars {
					os.Unsetenv(key)
				}
			}()

			result := FromEnv()

			if result.AppName != tt.expected.AppName {
				t.Errorf("AppName = %q, want %q", result.AppName, tt.expected.AppName)
			}
			if result.HTTPPort != tt.expected.HTTPPort {
				t.Errorf("HTTPPort = %q, want %q", result.HTTPPort, tt.expected.HTTPPort)
			}
			if result.NSQ != tt.expected.NSQ {
				t.Errorf("NSQ = %+v, want %+v", result.NSQ, tt.expected.NSQ)
			}
			if result.Webhook != tt.expected.Webhook {
				t.Errorf("Webhook = %+v, want %+v", result.Webhook, tt.expected.Webhook)
			}
		})
	}
}

func TestFromEnvMailerDefaults(t *testing.T) {
	m := FromEnv().Mailer

	if m.APIBaseURL != "https://api.postmarkapp.com" {
		t.Errorf("APIBaseURL = %q, want Postmark API", m.APIBaseURL)
	}
	if m.MailboxAPIURL != "https://api.guerrillamail.com/ajax.php" {
		t.Errorf("MailboxAPIURL = %q, want GuerrillaMail API", m.MailboxAPIURL)
	}
	if m.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", m.MaxAttempts)
	}
	if m.BackoffBase != time.Second {
		t.Errorf("BackoffBase = %v, want 1s", m.BackoffBase)
	}
	if m.JitterPercent != 0.25 {
		t.Errorf("JitterPercent = %f, want 0.25", m.JitterPercent)
	}
	if m.HTTPPort != ":8083" {
		t.Errorf("HTTPPort = %q, want :8083", m.HTTPPort)
	}
	if m.RequestTimeout != 15*time.Second {
		t.Errorf("RequestTimeout = %v, want 15s", m.RequestTimeout)
	}
}
