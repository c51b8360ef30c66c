package event

// Type identifies the type of domain event
type Type string

const (
	TypeRequestCreated     Type = "request.created"
	TypeStateChanged       Type = "request.state_changed"
	TypeRequestDeleted     Type = "request.deleted"
	TypeNotificationFailed Type = "notification.failed"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeRequestCreated,
		TypeStateChanged,
		TypeRequestDeleted,
		TypeNotificationFailed:
		return true
	default:
		return false
	}
}
