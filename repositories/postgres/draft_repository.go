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

// DraftRepository implements the repositories.DraftRepository interface
type DraftRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewDraftRepository creates a new draft repository
func NewDraftRepository(db *DB, logger *zap.Logger) repositories.DraftRepository {
	return &DraftRepository{
		db:     db,
		logger: logger,
	}
}

const draftColumns = `id, org_id, idea_id, creator_id, body, content_type, status, version, created_at, updated_at`

func scanDraft(row interface {
	Scan(dest ...interface{}) error
}) (*models.ContentDraft, error) {
	draft := &models.ContentDraft{}
	err := row.Scan(
		&draft.ID,
		&draft.OrgID,
		&draft.IdeaID,
		&draft.CreatorID,
		&draft.Body,
		&draft.ContentType,
		&draft.Status,
		&draft.Version,
		&draft.CreatedAt,
		&draft.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return draft, nil
}

// Create creates a new content draft
func (r *DraftRepository) Create(ctx context.Context, draft *models.ContentDraft) error {
	query := `
		INSERT INTO content_drafts (id, org_id, idea_id, creator_id, body, content_type, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		draft.ID,
		draft.OrgID,
		draft.IdeaID,
		draft.CreatorID,
		draft.Body,
		draft.ContentType,
		draft.Status,
		draft.Version,
		draft.CreatedAt,
		draft.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}

	r.logger.Debug("draft created",
		zap.String("id", draft.ID.String()),
		zap.String("idea_id", draft.IdeaID.String()),
		zap.Int("version", draft.Version),
	)
	return nil
}

// GetByID retrieves a draft by ID within an organization
func (r *DraftRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.ContentDraft, error) {
	query := `SELECT ` + draftColumns + ` FROM content_drafts WHERE org_id = $1 AND id = $2`

	executor := GetExecutor(ctx, r.db)
	draft, err := scanDraft(executor.QueryRowContext(ctx, query, orgID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	return draft, nil
}

// ListByIdea retrieves all drafts of an idea visible through the scoped filter
func (r *DraftRepository) ListByIdea(ctx context.Context, filter repositories.ScopedFilter, ideaID uuid.UUID) ([]*models.ContentDraft, error) {
	clause, args := filter.Clause(1)
	query := fmt.Sprintf(`
		SELECT %s
		FROM content_drafts
		WHERE %s AND idea_id = $%d
		ORDER BY version DESC
	`, draftColumns, clause, len(args)+1)
	args = append(args, ideaID)

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []*models.ContentDraft
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, draft)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draft rows: %w", err)
	}

	return drafts, nil
}

// List retrieves drafts matching the scoped filter with pagination
func (r *DraftRepository) List(ctx context.Context, filter repositories.ScopedFilter, limit, offset int) ([]*models.ContentDraft, error) {
	clause, args := filter.Clause(1)
	query := fmt.Sprintf(`
		SELECT %s
		FROM content_drafts
		WHERE %s
		ORDER BY updated_at DESC
		LIMIT $%d OFFSET $%d
	`, draftColumns, clause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []*models.ContentDraft
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, draft)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draft rows: %w", err)
	}

	return drafts, nil
}

// MaxVersion returns the highest draft version for an idea, 0 when none
func (r *DraftRepository) MaxVersion(ctx context.Context, orgID, ideaID uuid.UUID) (int, error) {
	query := `
		SELECT COALESCE(MAX(version), 0)
		FROM content_drafts
		WHERE org_id = $1 AND idea_id = $2
	`

	executor := GetExecutor(ctx, r.db)
	var version int
	if err := executor.QueryRowContext(ctx, query, orgID, ideaID).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get max draft version: %w", err)
	}

	return version, nil
}

// UpdateStatus conditionally moves a draft from one status to another.
// The WHERE clause carries the expected current status so a concurrent
// transition makes this a zero-row update instead of a silent overwrite.
func (r *DraftRepository) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, from, to models.DraftStatus) error {
	query := `
		UPDATE content_drafts
		SET status = $4, updated_at = $5
		WHERE org_id = $1 AND id = $2 AND status = $3
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, orgID, id, from, to, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update draft status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return repositories.ErrStaleStatus
	}

	r.logger.Debug("draft status updated",
		zap.String("id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return nil
}

// Delete removes a draft within an organization
func (r *DraftRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	query := `DELETE FROM content_drafts WHERE org_id = $1 AND id = $2`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, orgID, id)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return repositories.ErrNotFound
	}

	r.logger.Debug("draft deleted", zap.String("id", id.String()))
	return nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *DraftRepository) WithTx(tx repositories.Transaction) repositories.DraftRepository {
	return &DraftRepository{
		db:     r.db,
		logger: r.logger,
	}
}
