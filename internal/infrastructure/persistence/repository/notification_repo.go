package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gleeworld/approvals/internal/application/port"
	"github.com/gleeworld/approvals/internal/domain/entity"
)

// NotificationRepository implements port.NotificationRepository
type NotificationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sql.DB, logger *zap.Logger) port.NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// Create records a pending notification
func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (
			request_id, recipient, channel, body, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		n.RequestID,
		n.Recipient,
		n.Channel,
		n.Body,
		n.Status,
		n.CreatedAt,
		n.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create notification", zap.Error(err))
		return fmt.Errorf("failed to create notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	n.ID = id
	return nil
}

// GetByRequestID retrieves all notifications recorded for a request
func (r *NotificationRepository) GetByRequestID(ctx context.Context, requestID string) ([]*entity.Notification, error) {
	query := `
		SELECT id, request_id, recipient, channel, body, status, last_error, sent_at, created_at, updated_at
		FROM notifications
		WHERE request_id = ?
		ORDER BY created_at ASC
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, requestID)
	if err != nil {
		r.logger.Error("Failed to get notifications", zap.String("request_id", requestID), zap.Error(err))
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		var lastError sql.NullString
		var sentAt sql.NullTime

		err := rows.Scan(
			&n.ID,
			&n.RequestID,
			&n.Recipient,
			&n.Channel,
			&n.Body,
			&n.Status,
			&lastError,
			&sentAt,
			&n.CreatedAt,
			&n.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}

		n.LastError = lastError.String
		if sentAt.Valid {
			n.SentAt = &sentAt.Time
		}
		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}

// MarkSent marks the notification as delivered
func (r *NotificationRepository) MarkSent(ctx context.Context, id int64) error {
	query := `UPDATE notifications SET status = ?, sent_at = ?, updated_at = ? WHERE id = ?`

	now := time.Now()
	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, entity.NotificationSent, now, now, id)
	if err != nil {
		r.logger.Error("Failed to mark notification sent", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}
	return nil
}

// MarkFailed records a dispatch failure
func (r *NotificationRepository) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	query := `UPDATE notifications SET status = ?, last_error = ?, updated_at = ? WHERE id = ?`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, entity.NotificationFailed, errMsg, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to mark notification failed", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to mark notification failed: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.NotificationRepository = (*NotificationRepository)(nil)
