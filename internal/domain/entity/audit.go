package entity

import "time"

// AuditEntry records one applied transition: which actor moved the request,
// along which edge, and when. Entries are append-only.
type AuditEntry struct {
	ID             int64     `json:"id"`
	RequestID      string    `json:"request_id"`
	ActorID        string    `json:"actor_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	Action         string    `json:"action"`
	Note           string    `json:"note,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}
