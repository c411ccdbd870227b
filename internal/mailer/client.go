package mailer

// Client is the CRM's client record as it arrives on the broker topics.
type Client struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	EmailAddress string `json:"emailAddress"`
}
