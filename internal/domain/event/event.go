package event

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a domain event observed after a committed change
type Event struct {
	ID        string                 `json:"id"`
	Type      Type                   `json:"type"`
	RequestID string                 `json:"request_id"`
	Payload   map[string]interface{} `json:"payload"`
	Timestamp time.Time              `json:"timestamp"`
}

// NewEvent creates a new domain event with a generated ID and timestamp
func NewEvent(eventType Type, requestID string, payload map[string]interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		RequestID: requestID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// GetPayloadString retrieves a string value from the payload
func (e *Event) GetPayloadString(key string) string {
	if val, ok := e.Payload[key]; ok {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}
