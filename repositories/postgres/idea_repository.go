package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/contentpulse/contentpulse-backend/models"
	"github.com/contentpulse/contentpulse-backend/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IdeaRepository implements the repositories.IdeaRepository interface
type IdeaRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewIdeaRepository creates a new idea repository
func NewIdeaRepository(db *DB, logger *zap.Logger) repositories.IdeaRepository {
	return &IdeaRepository{
		db:     db,
		logger: logger,
	}
}

const ideaColumns = `id, org_id, creator_id, title, description, content_type, media_type, target_publish_at, status, created_at, updated_at`

func scanIdea(row interface {
	Scan(dest ...interface{}) error
}) (*models.Idea, error) {
	idea := &models.Idea{}
	err := row.Scan(
		&idea.ID,
		&idea.OrgID,
		&idea.CreatorID,
		&idea.Title,
		&idea.Description,
		&idea.ContentType,
		&idea.MediaType,
		&idea.TargetPublishAt,
		&idea.Status,
		&idea.CreatedAt,
		&idea.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return idea, nil
}

// Create creates a new idea
func (r *IdeaRepository) Create(ctx context.Context, idea *models.Idea) error {
	query := `
		INSERT INTO ideas (id, org_id, creator_id, title, description, content_type, media_type, target_publish_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		idea.ID,
		idea.OrgID,
		idea.CreatorID,
		idea.Title,
		idea.Description,
		idea.ContentType,
		idea.MediaType,
		idea.TargetPublishAt,
		idea.Status,
		idea.CreatedAt,
		idea.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create idea: %w", err)
	}

	r.logger.Debug("idea created",
		zap.String("id", idea.ID.String()),
		zap.String("org_id", idea.OrgID.String()),
	)
	return nil
}

// GetByID retrieves an idea by ID within an organization
func (r *IdeaRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Idea, error) {
	query := `SELECT ` + ideaColumns + ` FROM ideas WHERE org_id = $1 AND id = $2`

	executor := GetExecutor(ctx, r.db)
	idea, err := scanIdea(executor.QueryRowContext(ctx, query, orgID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get idea: %w", err)
	}

	return idea, nil
}

// List retrieves ideas matching the scoped filter with pagination
func (r *IdeaRepository) List(ctx context.Context, filter repositories.ScopedFilter, limit, offset int) ([]*models.Idea, error) {
	clause, args := filter.Clause(1)
	query := fmt.Sprintf(`
		SELECT %s
		FROM ideas
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, ideaColumns, clause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}
	defer rows.Close()

	var ideas []*models.Idea
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan idea: %w", err)
		}
		ideas = append(ideas, idea)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating idea rows: %w", err)
	}

	return ideas, nil
}

// Update updates a pending idea's editable fields
func (r *IdeaRepository) Update(ctx context.Context, idea *models.Idea) error {
	query := `
		UPDATE ideas
		SET title = $3,
		    description = $4,
		    content_type = $5,
		    media_type = $6,
		    target_publish_at = $7,
		    updated_at = $8
		WHERE org_id = $1 AND id = $2
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		idea.OrgID,
		idea.ID,
		idea.Title,
		idea.Description,
		idea.ContentType,
		idea.MediaType,
		idea.TargetPublishAt,
		idea.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update idea: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("idea updated", zap.String("id", idea.ID.String()))
	return nil
}

// UpdateStatus conditionally moves an idea from one status to another.
// The WHERE clause carries the expected current status so a concurrent
// transition makes this a zero-row update instead of a silent overwrite.
func (r *IdeaRepository) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, from, to models.IdeaStatus) error {
	query := `
		UPDATE ideas
		SET status = $4, updated_at = $5
		WHERE org_id = $1 AND id = $2 AND status = $3
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, orgID, id, from, to, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update idea status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return repositories.ErrStaleStatus
	}

	r.logger.Debug("idea status updated",
		zap.String("id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *IdeaRepository) WithTx(tx repositories.Transaction) repositories.IdeaRepository {
	return &IdeaRepository{
		db:     r.db,
		logger: r.logger,
	}
}
