package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/contentpulse/contentpulse-backend/models"
	"github.com/contentpulse/contentpulse-backend/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MembershipRepository implements the repositories.MembershipRepository interface
type MembershipRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *DB, logger *zap.Logger) repositories.MembershipRepository {
	return &MembershipRepository{
		db:     db,
		logger: logger,
	}
}

const membershipColumns = `id, org_id, user_id, role, status, last_used_at, created_at, updated_at`

func scanMembership(row interface {
	Scan(dest ...interface{}) error
}) (*models.Membership, error) {
	m := &models.Membership{}
	err := row.Scan(
		&m.ID,
		&m.OrgID,
		&m.UserID,
		&m.Role,
		&m.Status,
		&m.LastUsedAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create creates a new membership
func (r *MembershipRepository) Create(ctx context.Context, m *models.Membership) error {
	query := `
		INSERT INTO memberships (id, org_id, user_id, role, status, last_used_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		m.ID,
		m.OrgID,
		m.UserID,
		m.Role,
		m.Status,
		m.LastUsedAt,
		m.CreatedAt,
		m.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create membership: %w", err)
	}

	r.logger.Debug("membership created",
		zap.String("id", m.ID.String()),
		zap.String("org_id", m.OrgID.String()),
		zap.String("user_id", m.UserID.String()),
		zap.String("role", string(m.Role)),
	)
	return nil
}

// GetByID retrieves a membership by ID
func (r *MembershipRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	m, err := scanMembership(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return m, nil
}

// GetByOrgAndUser retrieves the membership binding a user to an organization
func (r *MembershipRepository) GetByOrgAndUser(ctx context.Context, orgID, userID uuid.UUID) (*models.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE org_id = $1 AND user_id = $2`

	executor := GetExecutor(ctx, r.db)
	m, err := scanMembership(executor.QueryRowContext(ctx, query, orgID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	return m, nil
}

// ListActiveByUser retrieves a user's active memberships ordered by most recent use
func (r *MembershipRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*models.Membership, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM memberships
		WHERE user_id = $1 AND status = $2
		ORDER BY last_used_at DESC NULLS LAST, created_at DESC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, userID, models.MembershipActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []*models.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating membership rows: %w", err)
	}

	return memberships, nil
}

// ListByOrg retrieves all memberships of an organization
func (r *MembershipRepository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*models.Membership, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM memberships
		WHERE org_id = $1
		ORDER BY created_at ASC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []*models.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating membership rows: %w", err)
	}

	return memberships, nil
}

// Update updates a membership
func (r *MembershipRepository) Update(ctx context.Context, m *models.Membership) error {
	query := `
		UPDATE memberships
		SET role = $2,
		    status = $3,
		    last_used_at = $4,
		    updated_at = $5
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		m.ID,
		m.Role,
		m.Status,
		m.LastUsedAt,
		m.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update membership: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("membership updated", zap.String("id", m.ID.String()))
	return nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *MembershipRepository) WithTx(tx repositories.Transaction) repositories.MembershipRepository {
	return &MembershipRepository{
		db:     r.db,
		logger: r.logger,
	}
}
