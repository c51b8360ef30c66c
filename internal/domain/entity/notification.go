package entity

import "time"

// Notification channels
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelBoth  = "both"
)

// Notification statuses
const (
	NotificationPending = "PENDING"
	NotificationSent    = "SENT"
	NotificationFailed  = "FAILED"
)

// Notification is one outbound message describing a state change, addressed
// to the original requester. Exactly one row is recorded per applied
// transition; dispatch failure marks the row FAILED without reverting the
// state change.
type Notification struct {
	ID        int64      `json:"id"`
	RequestID string     `json:"request_id"`
	Recipient string     `json:"recipient"`
	Channel   string     `json:"channel"`
	Body      string     `json:"body"`
	Status    string     `json:"status"`
	LastError string     `json:"last_error,omitempty"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
