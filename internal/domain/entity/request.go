package entity

import "time"

// RequestKind distinguishes the two workflow instances sharing the approval
// state machine
type RequestKind string

const (
	KindExcuse RequestKind = "excuse"
	KindTicket RequestKind = "ticket"
)

// IsValid returns true if the kind is a known request kind
func (k RequestKind) IsValid() bool {
	return k == KindExcuse || k == KindTicket
}

// Request is a member-submitted item subject to reviewer approval: an excuse
// request or a concert ticket request. Status is the sole mutable control
// field; the decision fields record who advanced the request at each
// transition and are never rewritten once set.
type Request struct {
	ID          string      `json:"id"`
	Kind        RequestKind `json:"kind"`
	RequesterID string      `json:"requester_id"`

	// Subject fields: the event being excused from, plus a kind-specific
	// JSON payload (reason text for excuses; ticket count and contact info
	// for ticket requests).
	EventID string `json:"event_id"`
	Payload string `json:"payload"`

	Status string `json:"status"`

	// Set when a secretary forwards the request to the director.
	ForwardedBy *string    `json:"forwarded_by,omitempty"`
	ForwardedAt *time.Time `json:"forwarded_at,omitempty"`

	// Set when the director makes a final decision.
	ReviewedBy *string    `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	AdminNotes string     `json:"admin_notes,omitempty"`

	// Set when a secretary returns the request for clarification. Preserved
	// across resubmission for history.
	SecretaryMessage       string     `json:"secretary_message,omitempty"`
	SecretaryMessageSentAt *time.Time `json:"secretary_message_sent_at,omitempty"`
	SecretaryMessageSentBy *string    `json:"secretary_message_sent_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
