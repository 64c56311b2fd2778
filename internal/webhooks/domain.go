package webhooks

import "time"

// Event names delivered to registered endpoints.
const (
	EventTransactionCreated = "transaction.created"
	EventTransactionVoided  = "transaction.voided"
	EventTest               = "webhook.test"
)

// Endpoint is a tenant-registered delivery target. The secret signs each
// delivery body so the receiver can authenticate the platform.
type Endpoint struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	URL       string    `json:"url"`
	Secret    string    `json:"-"`
	Events    []string  `json:"events"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subscribed reports whether the endpoint wants the given event. An endpoint
// with no event list receives everything.
func (e Endpoint) Subscribed(event string) bool {
	if len(e.Events) == 0 {
		return true
	}
	for _, want := range e.Events {
		if want == event {
			return true
		}
	}
	return false
}
