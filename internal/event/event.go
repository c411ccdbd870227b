package event

import "time"

// Inbound is the closed set of webhook event payloads Postmark pushes to us.
// The JSON field order on each variant matches the provider schema; the
// signature is computed over the compact re-serialization of the decoded
// payload, so the structs below define the canonical byte layout.
type Inbound interface {
	isInbound()
}

// ClientInfo describes the mail client software that opened a message.
type ClientInfo struct {
	Name    string `json:"Name,omitempty"`
	Company string `json:"Company,omitempty"`
	Family  string `json:"Family,omitempty"`
}

// OSInfo describes the operating system reported for an open event.
type OSInfo struct {
	Name    string `json:"Name,omitempty"`
	Company string `json:"Company,omitempty"`
	Family  string `json:"Family,omitempty"`
}

// GeoInfo is the provider's geo lookup for the opening IP.
type GeoInfo struct {
	CountryISOCode string `json:"CountryISOCode,omitempty"`
	Country        string `json:"Country,omitempty"`
	RegionISOCode  string `json:"RegionISOCode,omitempty"`
	Region         string `json:"Region,omitempty"`
	City           string `json:"City,omitempty"`
	Zip            string `json:"Zip,omitempty"`
	Coords         string `json:"Coords,omitempty"`
	IP             string `json:"IP,omitempty"`
}

// Delivery is a Postmark delivery confirmation webhook payload.
type Delivery struct {
	MessageID     string            `json:"MessageID,omitempty"`
	Recipient     string            `json:"Recipient,omitempty"`
	DeliveredAt   time.Time         `json:"DeliveredAt,omitzero"`
	Details       string            `json:"Details,omitempty"`
	Tag           string            `json:"Tag,omitempty"`
	ServerID      int               `json:"ServerID,omitempty"`
	Metadata      map[string]string `json:"Metadata,omitempty"`
	RecordType    string            `json:"RecordType,omitempty"`
	MessageStream string            `json:"MessageStream,omitempty"`
}

// Open is a Postmark open-tracking webhook payload.
type Open struct {
	RecordType    string            `json:"RecordType,omitempty"`
	MessageStream string            `json:"MessageStream,omitempty"`
	FirstOpen     bool              `json:"FirstOpen,omitempty"`
	Client        *ClientInfo       `json:"Client,omitempty"`
	OS            *OSInfo           `json:"OS,omitempty"`
	Platform      string            `json:"Platform,omitempty"`
	UserAgent     string            `json:"UserAgent,omitempty"`
	Geo           *GeoInfo          `json:"Geo,omitempty"`
	MessageID     string            `json:"MessageID,omitempty"`
	Metadata      map[string]string `json:"Metadata,omitempty"`
	ReceivedAt    time.Time         `json:"ReceivedAt,omitzero"`
	Tag           string            `json:"Tag,omitempty"`
	Recipient     string            `json:"Recipient,omitempty"`
}

// Bounce is a Postmark bounce webhook payload.
type Bounce struct {
	RecordType    string            `json:"RecordType,omitempty"`
	MessageStream string            `json:"MessageStream,omitempty"`
	ID            int64             `json:"ID,omitempty"`
	Type          string            `json:"Type,omitempty"`
	TypeCode      int               `json:"TypeCode,omitempty"`
	Name          string            `json:"Name,omitempty"`
	Tag           string            `json:"Tag,omitempty"`
	MessageID     string            `json:"MessageID,omitempty"`
	Metadata      map[string]string `json:"Metadata,omitempty"`
	ServerID      int               `json:"ServerID,omitempty"`
	Description   string            `json:"Description,omitempty"`
	Details       string            `json:"Details,omitempty"`
	Email         string            `json:"Email,omitempty"`
	From          string            `json:"From,omitempty"`
	BouncedAt     time.Time         `json:"BouncedAt,omitzero"`
	DumpAvailable bool              `json:"DumpAvailable,omitempty"`
	Inactive      bool              `json:"Inactive,omitempty"`
	CanActivate   bool              `json:"CanActivate,omitempty"`
	Subject       string            `json:"Subject,omitempty"`
	Content       string            `json:"Content,omitempty"`
}

func (Delivery) isInbound() {}
func (Open) isInbound()     {}
func (Bounce) isInbound()   {}

// TaskType discriminates the canonical task records sent downstream.
type TaskType string

const (
	TaskDelivery TaskType = "Delivery"
	TaskOpen     TaskType = "Open"
	TaskBounce   TaskType = "Bounce"
)

// Task is the normalized record published to the triage topic. Details is a
// human-readable summary, not a machine-parseable encoding.
type Task struct {
	Type         TaskType `json:"type"`
	EmailAddress string   `json:"emailAddress"`
	Details      string   `json:"details"`
}
