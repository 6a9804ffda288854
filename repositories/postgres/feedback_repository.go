package postgres

import (
	"context"
	"fmt"

	"github.com/contentpulse/contentpulse-backend/models"
	"github.com/contentpulse/contentpulse-backend/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FeedbackRepository implements the repositories.FeedbackRepository interface
type FeedbackRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *DB, logger *zap.Logger) repositories.FeedbackRepository {
	return &FeedbackRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends a feedback record
func (r *FeedbackRepository) Create(ctx context.Context, fb *models.Feedback) error {
	query := `
		INSERT INTO feedback (id, org_id, draft_id, author_id, body, rating, category, priority, actionable, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		fb.ID,
		fb.OrgID,
		fb.DraftID,
		fb.AuthorID,
		fb.Body,
		fb.Rating,
		fb.Category,
		fb.Priority,
		fb.Actionable,
		fb.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", err)
	}

	r.logger.Debug("feedback created",
		zap.String("id", fb.ID.String()),
		zap.String("draft_id", fb.DraftID.String()),
	)
	return nil
}

// ListByDraft retrieves all feedback on a draft, oldest first
func (r *FeedbackRepository) ListByDraft(ctx context.Context, orgID, draftID uuid.UUID) ([]*models.Feedback, error) {
	query := `
		SELECT id, org_id, draft_id, author_id, body, rating, category, priority, actionable, created_at
		FROM feedback
		WHERE org_id = $1 AND draft_id = $2
		ORDER BY created_at ASC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, orgID, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var items []*models.Feedback
	for rows.Next() {
		fb := &models.Feedback{}
		err := rows.Scan(
			&fb.ID,
			&fb.OrgID,
			&fb.DraftID,
			&fb.AuthorID,
			&fb.Body,
			&fb.Rating,
			&fb.Category,
			&fb.Priority,
			&fb.Actionable,
			&fb.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		items = append(items, fb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback rows: %w", err)
	}

	return items, nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *FeedbackRepository) WithTx(tx repositories.Transaction) repositories.FeedbackRepository {
	return &FeedbackRepository{
		db:     r.db,
		logger: r.logger,
	}
}
