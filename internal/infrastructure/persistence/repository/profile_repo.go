package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/gleeworld/approvals/internal/application/port"
	"github.com/gleeworld/approvals/internal/domain/entity"
)

// ProfileRepository implements port.ProfileRepository
type ProfileRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB, logger *zap.Logger) port.ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new profile
func (r *ProfileRepository) Create(ctx context.Context, p *entity.Profile) error {
	query := `
		INSERT INTO profiles (
			id, full_name, email, phone, role, is_admin, is_super_admin, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		p.ID,
		p.FullName,
		p.Email,
		p.Phone,
		p.Role,
		p.IsAdmin,
		p.IsSuperAdmin,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create profile", zap.Error(err))
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetByID retrieves a profile by ID; returns nil, nil when absent
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	query := `
		SELECT id, full_name, email, phone, role, is_admin, is_super_admin, created_at, updated_at
		FROM profiles
		WHERE id = ?
	`

	var p entity.Profile
	var phone sql.NullString

	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.FullName,
		&p.Email,
		&phone,
		&p.Role,
		&p.IsAdmin,
		&p.IsSuperAdmin,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get profile", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	p.Phone = phone.String
	return &p, nil
}

// Verify interface compliance
var _ port.ProfileRepository = (*ProfileRepository)(nil)
