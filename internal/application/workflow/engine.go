package workflow

import (
	"context"
	"errors"

	"github.com/gleeworld/approvals/internal/domain/entity"
	domainwf "github.com/gleeworld/approvals/internal/domain/workflow"
)

var (
	// ErrNotFound is returned when the request id does not resolve
	ErrNotFound = errors.New("request not found")

	// ErrUnauthorized is returned when the actor's tier is below the tier
	// required for the attempted edge
	ErrUnauthorized = errors.New("actor not authorized for this action")

	// ErrNoteRequired is returned when a transition that must carry a
	// reviewer note is attempted without one
	ErrNoteRequired = errors.New("a note is required for this action")

	// ErrNotificationFailed marks a dispatch failure after the state change
	// already committed. The transition stands.
	ErrNotificationFailed = errors.New("notification dispatch failed")
)

// TransitionResult describes an applied transition
type TransitionResult struct {
	Request       *entity.Request
	PreviousState domainwf.State
	NewState      domainwf.State

	// NotificationErr is non-nil when the outbound notification failed after
	// the state change committed. Surfaced to the actor as a warning.
	NotificationErr error
}

// Notifier dispatches the outbound notification for an applied transition
type Notifier interface {
	NotifyTransition(ctx context.Context, req *entity.Request, note string) error
}

// Engine validates and applies request state transitions: role gate, edge
// check, compare-and-swap write, audit append, notification enqueue
type Engine interface {
	// AttemptTransition moves a request along the given edge on behalf of
	// the actor. The state write and audit append are atomic; the
	// notification is best-effort and reported through the result.
	AttemptTransition(ctx context.Context, requestID string, trigger domainwf.Trigger, actorID, note string) (*TransitionResult, error)

	// PermittedTriggers returns the triggers the actor may fire on the
	// request in its current state, so callers can hide unavailable actions.
	PermittedTriggers(ctx context.Context, requestID, actorID string) ([]domainwf.Trigger, error)
}
