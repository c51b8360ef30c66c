package port

import (
	"context"

	"github.com/gleeworld/approvals/internal/domain/entity"
)

// RequestFilter narrows request listings
type RequestFilter struct {
	States      []string
	Kind        string
	RequesterID string
	Limit       int
	Offset      int
}

// RequestRepository defines persistence operations for Request
type RequestRepository interface {
	Create(ctx context.Context, req *entity.Request) error
	GetByID(ctx context.Context, id string) (*entity.Request, error)
	List(ctx context.Context, filter RequestFilter) ([]*entity.Request, error)

	// UpdateSubjectCAS replaces the requester-editable subject fields,
	// conditioned on the status value the caller read before acting. Returns
	// false with nil error when zero rows matched, meaning a concurrent
	// writer moved the request out of that state first.
	UpdateSubjectCAS(ctx context.Context, id, eventID, payload, expectedStatus string) (bool, error)

	// UpdateStateCAS writes the request's status and decision fields,
	// conditioned on the status value the caller read before acting. Returns
	// false with nil error when zero rows matched, meaning a concurrent
	// writer already advanced the request.
	UpdateStateCAS(ctx context.Context, req *entity.Request, expectedStatus string) (bool, error)

	// Delete removes a request outright. Administrative override only; the
	// workflow itself never deletes.
	Delete(ctx context.Context, id string) error
}

// AuditRepository defines persistence operations for AuditEntry.
// Entries are append-only: there is deliberately no update or delete.
type AuditRepository interface {
	Create(ctx context.Context, entry *entity.AuditEntry) error
	GetByRequestID(ctx context.Context, requestID string) ([]*entity.AuditEntry, error)
}

// NotificationRepository defines persistence operations for Notification
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	GetByRequestID(ctx context.Context, requestID string) ([]*entity.Notification, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errMsg string) error
}

// ProfileRepository defines persistence operations for Profile
type ProfileRepository interface {
	Create(ctx context.Context, p *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
