package event

import (
	"testing"
	"time"
)

func TestType_String(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		want      string
	}{
		{
			name:      "request created",
			eventType: TypeRequestCreated,
			want:      "request.created",
		},
		{
			name:      "state changed",
			eventType: TypeStateChanged,
			want:      "request.state_changed",
		},
		{
			name:      "request deleted",
			eventType: TypeRequestDeleted,
			want:      "request.deleted",
		},
		{
			name:      "notification failed",
			eventType: TypeNotificationFailed,
			want:      "notification.failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.eventType.String(); got != tt.want {
				t.Errorf("Type.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestType_IsValid(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		want      bool
	}{
		{
			name:      "valid - request created",
			eventType: TypeRequestCreated,
			want:      true,
		},
		{
			name:      "valid - state changed",
			eventType: TypeStateChanged,
			want:      true,
		},
		{
			name:      "valid - request deleted",
			eventType: TypeRequestDeleted,
			want:      true,
		},
		{
			name:      "valid - notification failed",
			eventType: TypeNotificationFailed,
			want:      true,
		},
		{
			name:      "invalid - unknown type",
			eventType: Type("unknown.type"),
			want:      false,
		},
		{
			name:      "invalid - empty string",
			eventType: Type(""),
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.eventType.IsValid(); got != tt.want {
				t.Errorf("Type.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"previous_status": "pending",
		"new_status":      "forwarded",
	}

	event := NewEvent(TypeStateChanged, "req-123", payload)

	if event == nil {
		t.Fatal("NewEvent() returned nil")
	}

	if event.ID == "" {
		t.Error("Event ID should not be empty")
	}

	if event.Type != TypeStateChanged {
		t.Errorf("Event Type = %v, want %v", event.Type, TypeStateChanged)
	}

	if event.RequestID != "req-123" {
		t.Errorf("Event RequestID = %v, want %v", event.RequestID, "req-123")
	}

	if event.Payload == nil {
		t.Fatal("Event Payload should not be nil")
	}

	if event.Payload["new_status"] != "forwarded" {
		t.Errorf("Event Payload[new_status] = %v, want %v", event.Payload["new_status"], "forwarded")
	}

	if event.Timestamp.IsZero() {
		t.Error("Event Timestamp should not be zero")
	}

	// Timestamp should be recent
	if time.Since(event.Timestamp) > time.Second {
		t.Error("Event Timestamp should be recent")
	}
}

func TestNewEvent_UniqueIDs(t *testing.T) {
	first := NewEvent(TypeRequestCreated, "req-1", nil)
	second := NewEvent(TypeRequestCreated, "req-1", nil)

	if first.ID == second.ID {
		t.Error("each event should get its own ID")
	}
}

func TestEvent_GetPayloadString(t *testing.T) {
	event := NewEvent(TypeRequestCreated, "req-1", map[string]interface{}{
		"status":  "pending",
		"number":  123,
		"missing": nil,
	})

	tests := []struct {
		name string
		key  string
		want string
	}{
		{
			name: "existing string",
			key:  "status",
			want: "pending",
		},
		{
			name: "non-string value",
			key:  "number",
			want: "",
		},
		{
			name: "missing key",
			key:  "nonexistent",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := event.GetPayloadString(tt.key); got != tt.want {
				t.Errorf("GetPayloadString(%v) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}
