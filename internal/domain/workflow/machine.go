package workflow

import "context"

// StateMachine tracks a current state and validates trigger-driven transitions
type StateMachine interface {
	// State returns the current state
	State() State

	// CanFire returns true if the trigger has at least one transition
	// configured from the current state
	CanFire(trigger Trigger) bool

	// Fire attempts to execute the trigger, moving to the target state if a
	// configured transition's guard passes
	Fire(ctx context.Context, trigger Trigger) error

	// PermittedTriggers returns all triggers configured in the current state
	PermittedTriggers() []Trigger
}
