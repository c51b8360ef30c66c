package workflow

// Trigger represents a reviewer or requester action that can move a request
// between states
type Trigger string

const (
	TriggerForward  Trigger = "FORWARD"
	TriggerReturn   Trigger = "RETURN"
	TriggerApprove  Trigger = "APPROVE"
	TriggerDeny     Trigger = "DENY"
	TriggerResubmit Trigger = "RESUBMIT"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
