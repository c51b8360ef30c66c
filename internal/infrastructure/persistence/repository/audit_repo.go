package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/gleeworld/approvals/internal/application/port"
	"github.com/gleeworld/approvals/internal/domain/entity"
)

// AuditRepository implements port.AuditRepository
type AuditRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB, logger *zap.Logger) port.AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends an audit entry. Entries are never updated or removed.
func (r *AuditRepository) Create(ctx context.Context, entry *entity.AuditEntry) error {
	query := `
		INSERT INTO audit_entries (
			request_id, actor_id, previous_status, new_status, action, note, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		entry.RequestID,
		entry.ActorID,
		entry.PreviousStatus,
		entry.NewStatus,
		entry.Action,
		entry.Note,
		entry.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to create audit entry", zap.Error(err))
		return fmt.Errorf("failed to create audit entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	entry.ID = id
	return nil
}

// GetByRequestID retrieves the audit trail for a request, oldest first
func (r *AuditRepository) GetByRequestID(ctx context.Context, requestID string) ([]*entity.AuditEntry, error) {
	query := `
		SELECT id, request_id, actor_id, previous_status, new_status, action, note, timestamp
		FROM audit_entries
		WHERE request_id = ?
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, requestID)
	if err != nil {
		r.logger.Error("Failed to get audit entries", zap.String("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("failed to get audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.AuditEntry
	for rows.Next() {
		var entry entity.AuditEntry
		err := rows.Scan(
			&entry.ID,
			&entry.RequestID,
			&entry.ActorID,
			&entry.PreviousStatus,
			&entry.NewStatus,
			&entry.Action,
			&entry.Note,
			&entry.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// Verify interface compliance
var _ port.AuditRepository = (*AuditRepository)(nil)
