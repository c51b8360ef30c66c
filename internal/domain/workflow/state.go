package workflow

// State represents a request's position in the approval lifecycle
type State string

const (
	StatePending   State = "pending"
	StateForwarded State = "forwarded"
	StateReturned  State = "returned"
	StateApproved  State = "approved"
	StateDenied    State = "denied"
)

var validStates = map[State]bool{
	StatePending:   true,
	StateForwarded: true,
	StateReturned:  true,
	StateApproved:  true,
	StateDenied:    true,
}

var terminalStates = map[State]bool{
	StateApproved: true,
	StateDenied:   true,
}

// IsTerminal returns true if the state has no outbound transitions
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsValid returns true if the state is a known workflow state
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}
