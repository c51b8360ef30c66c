package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when the attempted edge does not exist
	// from the current state, including races where the persisted state moved
	// underneath the actor.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidState is returned when a state is not a known workflow state
	ErrInvalidState = errors.New("invalid state")

	// ErrGuardFailed is returned when all guard conditions for a trigger fail
	ErrGuardFailed = errors.New("guard condition failed")
)
