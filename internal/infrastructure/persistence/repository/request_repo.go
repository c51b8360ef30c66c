package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gleeworld/approvals/internal/application/port"
	"github.com/gleeworld/approvals/internal/domain/entity"
)

// RequestRepository implements port.RequestRepository
type RequestRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *sql.DB, logger *zap.Logger) port.RequestRepository {
	return &RequestRepository{
		db:     db,
		logger: logger,
	}
}

const requestColumns = `
	id, kind, requester_id, event_id, payload, status,
	forwarded_by, forwarded_at,
	reviewed_by, reviewed_at, admin_notes,
	secretary_message, secretary_message_sent_at, secretary_message_sent_by,
	created_at, updated_at
`

// Create inserts a new request
func (r *RequestRepository) Create(ctx context.Context, req *entity.Request) error {
	query := `
		INSERT INTO requests (
			id, kind, requester_id, event_id, payload, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		req.ID,
		string(req.Kind),
		req.RequesterID,
		req.EventID,
		req.Payload,
		req.Status,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create request", zap.Error(err))
		return fmt.Errorf("failed to create request: %w", err)
	}

	return nil
}

// GetByID retrieves a request by ID; returns nil, nil when absent
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = ?`

	row := getExecutor(ctx, r.db).QueryRowContext(ctx, query, id)
	req, err := scanRequest(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get request by ID", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return req, nil
}

// List retrieves requests matching the filter, newest first
func (r *RequestRepository) List(ctx context.Context, filter port.RequestFilter) ([]*entity.Request, error) {
	var conds []string
	var args []interface{}

	if len(filter.States) > 0 {
		placeholders := strings.TrimRight(strings.Repeat("?,", len(filter.States)), ",")
		conds = append(conds, fmt.Sprintf("status IN (%s)", placeholders))
		for _, s := range filter.States {
			args = append(args, s)
		}
	}
	if filter.Kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, filter.Kind)
	}
	if filter.RequesterID != "" {
		conds = append(conds, "requester_id = ?")
		args = append(args, filter.RequesterID)
	}

	query := `SELECT ` + requestColumns + ` FROM requests`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list requests", zap.Error(err))
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var requests []*entity.Request
	for rows.Next() {
		req, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// UpdateSubjectCAS replaces the requester-editable fields conditioned on the
// status value read before the action. Zero rows affected means a concurrent
// writer moved the request out of that state first.
func (r *RequestRepository) UpdateSubjectCAS(ctx context.Context, id, eventID, payload, expectedStatus string) (bool, error) {
	query := `UPDATE requests SET event_id = ?, payload = ?, updated_at = ? WHERE id = ? AND status = ?`

	res, err := getExecutor(ctx, r.db).ExecContext(ctx, query, eventID, payload, time.Now(), id, expectedStatus)
	if err != nil {
		r.logger.Error("Failed to update request subject", zap.String("id", id), zap.Error(err))
		return false, fmt.Errorf("failed to update subject: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected == 1, nil
}

// UpdateStateCAS writes the status and decision fields conditioned on the
// status value read before the action. Zero rows affected means a concurrent
// writer won the race.
func (r *RequestRepository) UpdateStateCAS(ctx context.Context, req *entity.Request, expectedStatus string) (bool, error) {
	query := `
		UPDATE requests SET
			status = ?,
			forwarded_by = ?, forwarded_at = ?,
			reviewed_by = ?, reviewed_at = ?, admin_notes = ?,
			secretary_message = ?, secretary_message_sent_at = ?, secretary_message_sent_by = ?,
			updated_at = ?
		WHERE id = ? AND status = ?
	`

	res, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		req.Status,
		req.ForwardedBy, req.ForwardedAt,
		req.ReviewedBy, req.ReviewedAt, req.AdminNotes,
		req.SecretaryMessage, req.SecretaryMessageSentAt, req.SecretaryMessageSentBy,
		req.UpdatedAt,
		req.ID, expectedStatus,
	)
	if err != nil {
		r.logger.Error("Failed to update request state",
			zap.String("id", req.ID), zap.String("status", req.Status), zap.Error(err))
		return false, fmt.Errorf("failed to update state: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected == 1, nil
}

// Delete removes a request and, via cascade, its audit trail
func (r *RequestRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM requests WHERE id = ?`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete request", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete request: %w", err)
	}
	return nil
}

// scanRequest maps one row onto a Request using the shared column order
func scanRequest(scan func(dest ...interface{}) error) (*entity.Request, error) {
	var req entity.Request
	var kind string
	var forwardedBy, reviewedBy, sentBy sql.NullString
	var adminNotes, secretaryMessage sql.NullString
	var forwardedAt, reviewedAt, sentAt sql.NullTime

	err := scan(
		&req.ID,
		&kind,
		&req.RequesterID,
		&req.EventID,
		&req.Payload,
		&req.Status,
		&forwardedBy,
		&forwardedAt,
		&reviewedBy,
		&reviewedAt,
		&adminNotes,
		&secretaryMessage,
		&sentAt,
		&sentBy,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	req.Kind = entity.RequestKind(kind)
	if forwardedBy.Valid {
		req.ForwardedBy = &forwardedBy.String
	}
	if forwardedAt.Valid {
		req.ForwardedAt = &forwardedAt.Time
	}
	if reviewedBy.Valid {
		req.ReviewedBy = &reviewedBy.String
	}
	if reviewedAt.Valid {
		req.ReviewedAt = &reviewedAt.Time
	}
	req.AdminNotes = adminNotes.String
	req.SecretaryMessage = secretaryMessage.String
	if sentAt.Valid {
		req.SecretaryMessageSentAt = &sentAt.Time
	}
	if sentBy.Valid {
		req.SecretaryMessageSentBy = &sentBy.String
	}

	return &req, nil
}

// Verify interface compliance
var _ port.RequestRepository = (*RequestRepository)(nil)
