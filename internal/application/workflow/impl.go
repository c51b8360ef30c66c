package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/gleeworld/approvals/internal/application/dispatcher"
	"github.com/gleeworld/approvals/internal/application/port"
	"github.com/gleeworld/approvals/internal/domain/entity"
	"github.com/gleeworld/approvals/internal/domain/event"
	"github.com/gleeworld/approvals/internal/domain/role"
	domainwf "github.com/gleeworld/approvals/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// engineImpl is the concrete implementation of Engine
type engineImpl struct {
	requestRepo port.RequestRepository
	auditRepo   port.AuditRepository
	profileRepo port.ProfileRepository
	txManager   port.TransactionManager
	notifier    Notifier
	dispatcher  dispatcher.Dispatcher
	logger      Logger
	now         func() time.Time
}

// EngineOption configures the workflow engine
type EngineOption func(*engineImpl)

// WithNotifier sets the transition notifier
func WithNotifier(n Notifier) EngineOption {
	return func(e *engineImpl) {
		e.notifier = n
	}
}

// WithDispatcher sets the event dispatcher for emitting state change events
func WithDispatcher(d dispatcher.Dispatcher) EngineOption {
	return func(e *engineImpl) {
		e.dispatcher = d
	}
}

// WithClock overrides the engine's time source
func WithClock(now func() time.Time) EngineOption {
	return func(e *engineImpl) {
		e.now = now
	}
}

// NewEngine creates a new workflow engine
func NewEngine(
	requestRepo port.RequestRepository,
	auditRepo port.AuditRepository,
	profileRepo port.ProfileRepository,
	txManager port.TransactionManager,
	logger Logger,
	opts ...EngineOption,
) Engine {
	e := &engineImpl{
		requestRepo: requestRepo,
		auditRepo:   auditRepo,
		profileRepo: profileRepo,
		txManager:   txManager,
		logger:      logger,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// AttemptTransition validates the edge and applies it atomically
func (e *engineImpl) AttemptTransition(ctx context.Context, requestID string, trigger domainwf.Trigger, actorID, note string) (*TransitionResult, error) {
	req, err := e.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, requestID)
	}

	tier, err := e.resolveTier(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !role.Allows(trigger, tier, actorID == req.RequesterID) {
		e.logger.Info("Transition blocked by role gate",
			"request_id", requestID, "trigger", trigger.String(), "actor_id", actorID, "tier", tier.String())
		return nil, fmt.Errorf("%w: %s requires more than %s", ErrUnauthorized, trigger, tier)
	}

	// Returning or denying without an explanation leaves the requester with
	// nothing actionable.
	if (trigger == domainwf.TriggerReturn || trigger == domainwf.TriggerDeny) && note == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoteRequired, trigger)
	}

	previousState := domainwf.State(req.Status)
	if !previousState.IsValid() {
		return nil, fmt.Errorf("%w: %s", domainwf.ErrInvalidState, req.Status)
	}

	machine := BuildRequestStateMachine(previousState)
	if !machine.CanFire(trigger) {
		return nil, fmt.Errorf("%w: trigger %s from state %s", domainwf.ErrInvalidTransition, trigger, previousState)
	}
	if err := machine.Fire(ctx, trigger); err != nil {
		return nil, err
	}
	newState := machine.State()

	updated := *req
	updated.Status = newState.String()
	e.applyDecisionFields(&updated, trigger, actorID, note)

	err = e.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		// The write is conditioned on the state read above; losing a race
		// against a concurrent reviewer surfaces as a conflict, never as a
		// silent second write.
		ok, err := e.requestRepo.UpdateStateCAS(txCtx, &updated, previousState.String())
		if err != nil {
			return fmt.Errorf("update state: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: request %s was already updated", domainwf.ErrInvalidTransition, requestID)
		}

		entry := &entity.AuditEntry{
			RequestID:      requestID,
			ActorID:        actorID,
			PreviousStatus: previousState.String(),
			NewStatus:      newState.String(),
			Action:         trigger.String(),
			Note:           note,
			Timestamp:      e.now(),
		}
		if err := e.auditRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("append audit entry: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Transition applied",
		"request_id", requestID,
		"trigger", trigger.String(),
		"from", previousState.String(),
		"to", newState.String(),
		"actor_id", actorID)

	result := &TransitionResult{
		Request:       &updated,
		PreviousState: previousState,
		NewState:      newState,
	}

	// Best-effort: a dispatch failure is reported to the actor as a warning
	// but never unwinds the committed state change.
	if e.notifier != nil {
		if nerr := e.notifier.NotifyTransition(ctx, &updated, note); nerr != nil {
			e.logger.Error("Notification dispatch failed after transition",
				"request_id", requestID, "error", nerr)
			result.NotificationErr = fmt.Errorf("%w: %v", ErrNotificationFailed, nerr)

			if e.dispatcher != nil {
				e.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeNotificationFailed, requestID, map[string]interface{}{
					"new_status": newState.String(),
					"error":      nerr.Error(),
				}))
			}
		}
	}

	if e.dispatcher != nil {
		evt := event.NewEvent(event.TypeStateChanged, requestID, map[string]interface{}{
			"previous_status": previousState.String(),
			"new_status":      newState.String(),
			"trigger":         trigger.String(),
			"actor_id":        actorID,
		})
		e.dispatcher.DispatchAsync(ctx, evt)
	}

	return result, nil
}

// PermittedTriggers intersects the graph's outbound edges with the actor's
// authorization
func (e *engineImpl) PermittedTriggers(ctx context.Context, requestID, actorID string) ([]domainwf.Trigger, error) {
	req, err := e.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, requestID)
	}

	tier, err := e.resolveTier(ctx, actorID)
	if err != nil {
		return nil, err
	}

	state := domainwf.State(req.Status)
	if !state.IsValid() {
		return nil, fmt.Errorf("%w: %s", domainwf.ErrInvalidState, req.Status)
	}

	machine := BuildRequestStateMachine(state)
	var permitted []domainwf.Trigger
	for _, t := range machine.PermittedTriggers() {
		if role.Allows(t, tier, actorID == req.RequesterID) {
			permitted = append(permitted, t)
		}
	}
	return permitted, nil
}

// applyDecisionFields stamps the transition-specific audit fields on the
// request copy about to be written
func (e *engineImpl) applyDecisionFields(req *entity.Request, trigger domainwf.Trigger, actorID, note string) {
	now := e.now()
	req.UpdatedAt = now

	switch trigger {
	case domainwf.TriggerForward:
		req.ForwardedBy = &actorID
		req.ForwardedAt = &now
	case domainwf.TriggerReturn:
		req.SecretaryMessage = note
		req.SecretaryMessageSentAt = &now
		req.SecretaryMessageSentBy = &actorID
	case domainwf.TriggerApprove, domainwf.TriggerDeny:
		req.ReviewedBy = &actorID
		req.ReviewedAt = &now
		req.AdminNotes = note
	case domainwf.TriggerResubmit:
		// Prior secretary message is kept for history, not cleared.
	}
}

// resolveTier reads the actor's capability from their stored profile
func (e *engineImpl) resolveTier(ctx context.Context, actorID string) (role.Tier, error) {
	profile, err := e.profileRepo.GetByID(ctx, actorID)
	if err != nil {
		return role.TierMember, fmt.Errorf("get actor profile: %w", err)
	}
	if profile == nil {
		return role.TierMember, fmt.Errorf("%w: unknown actor %s", ErrUnauthorized, actorID)
	}
	return role.TierOf(profile), nil
}

// Verify interface compliance
var _ Engine = (*engineImpl)(nil)
