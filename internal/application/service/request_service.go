package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gleeworld/approvals/internal/application/dispatcher"
	"github.com/gleeworld/approvals/internal/application/port"
	appwf "github.com/gleeworld/approvals/internal/application/workflow"
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

// SubmitInput carries a new request's subject fields
type SubmitInput struct {
	Kind        entity.RequestKind
	RequesterID string
	EventID     string
	Payload     string
}

// RequestService manages request lifecycle around the workflow engine:
// submission, requester edits, listing, history, and the administrative
// override delete
type RequestService interface {
	Submit(ctx context.Context, in SubmitInput) (*entity.Request, error)
	Get(ctx context.Context, id string) (*entity.Request, error)
	List(ctx context.Context, filter port.RequestFilter) ([]*entity.Request, error)
	History(ctx context.Context, id string) ([]*entity.AuditEntry, error)

	// Edit replaces the subject fields. Requester only, and only while the
	// request is still pending (before first review).
	Edit(ctx context.Context, id, actorID, eventID, payload string) (*entity.Request, error)

	// Resubmit updates the subject fields and re-enters review from the
	// returned state. Requester only.
	Resubmit(ctx context.Context, id, actorID, eventID, payload string) (*appwf.TransitionResult, error)

	// Delete removes a request outright, bypassing the transition graph.
	// Director tier only.
	Delete(ctx context.Context, id, actorID string) error
}

type requestServiceImpl struct {
	requestRepo port.RequestRepository
	auditRepo   port.AuditRepository
	profileRepo port.ProfileRepository
	txManager   port.TransactionManager
	engine      appwf.Engine
	notifier    NotificationService
	dispatcher  dispatcher.Dispatcher
	logger      Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(
	requestRepo port.RequestRepository,
	auditRepo port.AuditRepository,
	profileRepo port.ProfileRepository,
	txManager port.TransactionManager,
	engine appwf.Engine,
	notifier NotificationService,
	disp dispatcher.Dispatcher,
	logger Logger,
) RequestService {
	return &requestServiceImpl{
		requestRepo: requestRepo,
		auditRepo:   auditRepo,
		profileRepo: profileRepo,
		txManager:   txManager,
		engine:      engine,
		notifier:    notifier,
		dispatcher:  disp,
		logger:      logger,
	}
}

// Submit creates a new request in the pending state
func (s *requestServiceImpl) Submit(ctx context.Context, in SubmitInput) (*entity.Request, error) {
	if !in.Kind.IsValid() {
		return nil, fmt.Errorf("unknown request kind: %s", in.Kind)
	}
	if in.RequesterID == "" {
		return nil, fmt.Errorf("requester id is required")
	}
	if in.EventID == "" {
		return nil, fmt.Errorf("event id is required")
	}

	now := time.Now()
	req := &entity.Request{
		ID:          uuid.NewString(),
		Kind:        in.Kind,
		RequesterID: in.RequesterID,
		EventID:     in.EventID,
		Payload:     in.Payload,
		Status:      domainwf.StatePending.String(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.requestRepo.Create(txCtx, req); err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		entry := &entity.AuditEntry{
			RequestID:      req.ID,
			ActorID:        in.RequesterID,
			PreviousStatus: "",
			NewStatus:      req.Status,
			Action:         "SUBMIT",
			Timestamp:      now,
		}
		if err := s.auditRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("append audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to submit request", "error", err, "requester_id", in.RequesterID)
		return nil, err
	}

	s.logger.Info("Request submitted", "request_id", req.ID, "kind", req.Kind, "requester_id", in.RequesterID)

	if s.notifier != nil {
		if nerr := s.notifier.NotifySubmitted(ctx, req); nerr != nil {
			s.logger.Error("Submission notification failed", "request_id", req.ID, "error", nerr)
		}
	}
	if s.dispatcher != nil {
		s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeRequestCreated, req.ID, map[string]interface{}{
			"kind":         string(req.Kind),
			"requester_id": req.RequesterID,
		}))
	}

	return req, nil
}

// Get retrieves a request by id
func (s *requestServiceImpl) Get(ctx context.Context, id string) (*entity.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: %s", appwf.ErrNotFound, id)
	}
	return req, nil
}

// List retrieves requests matching the filter
func (s *requestServiceImpl) List(ctx context.Context, filter port.RequestFilter) ([]*entity.Request, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return s.requestRepo.List(ctx, filter)
}

// History retrieves the append-only audit trail for a request
func (s *requestServiceImpl) History(ctx context.Context, id string) ([]*entity.AuditEntry, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: %s", appwf.ErrNotFound, id)
	}
	return s.auditRepo.GetByRequestID(ctx, id)
}

// Edit replaces the subject fields while the request is still pending
func (s *requestServiceImpl) Edit(ctx context.Context, id, actorID, eventID, payload string) (*entity.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: %s", appwf.ErrNotFound, id)
	}
	if req.RequesterID != actorID {
		return nil, fmt.Errorf("%w: only the requester may edit", appwf.ErrUnauthorized)
	}
	if req.Status != domainwf.StatePending.String() {
		return nil, fmt.Errorf("%w: request is %s, editable only while pending", domainwf.ErrInvalidTransition, req.Status)
	}

	// The write is conditioned on the status read above; a reviewer acting in
	// between surfaces as a conflict, never as a silent subject change on a
	// request already in review.
	ok, err := s.requestRepo.UpdateSubjectCAS(ctx, id, eventID, payload, domainwf.StatePending.String())
	if err != nil {
		return nil, fmt.Errorf("update subject: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: request %s entered review during the edit", domainwf.ErrInvalidTransition, id)
	}

	req.EventID = eventID
	req.Payload = payload
	return req, nil
}

// Resubmit updates the subject fields and fires RESUBMIT from the returned
// state
func (s *requestServiceImpl) Resubmit(ctx context.Context, id, actorID, eventID, payload string) (*appwf.TransitionResult, error) {
	if eventID != "" || payload != "" {
		req, err := s.requestRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get request: %w", err)
		}
		if req == nil {
			return nil, fmt.Errorf("%w: %s", appwf.ErrNotFound, id)
		}
		if req.RequesterID != actorID {
			return nil, fmt.Errorf("%w: only the requester may resubmit", appwf.ErrUnauthorized)
		}
		if eventID == "" {
			eventID = req.EventID
		}
		if payload == "" {
			payload = req.Payload
		}

		// Subject write lands only while the request is still returned.
		ok, err := s.requestRepo.UpdateSubjectCAS(ctx, id, eventID, payload, domainwf.StateReturned.String())
		if err != nil {
			return nil, fmt.Errorf("update subject: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: request %s is no longer returned", domainwf.ErrInvalidTransition, id)
		}
	}

	// The engine runs its own transaction, so the notification and the
	// state-changed event go out only after that transaction has committed.
	return s.engine.AttemptTransition(ctx, id, domainwf.TriggerResubmit, actorID, "")
}

// Delete is the administrative override: director tier only, no transition
// rules apply
func (s *requestServiceImpl) Delete(ctx context.Context, id, actorID string) error {
	profile, err := s.profileRepo.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("get actor profile: %w", err)
	}
	if !role.CanOverrideDelete(role.TierOf(profile)) {
		return fmt.Errorf("%w: delete requires director tier", appwf.ErrUnauthorized)
	}

	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get request: %w", err)
	}
	if req == nil {
		return fmt.Errorf("%w: %s", appwf.ErrNotFound, id)
	}

	if err := s.requestRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete request: %w", err)
	}

	s.logger.Info("Request deleted by override", "request_id", id, "actor_id", actorID)

	if s.dispatcher != nil {
		s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeRequestDeleted, id, map[string]interface{}{
			"actor_id": actorID,
		}))
	}
	return nil
}

// Verify interface compliance
var _ RequestService = (*requestServiceImpl)(nil)
