package postgres

import (
	"context"
	"fmt"

	"github.com/contentpulse/contentpulse-backend/models"
	"github.com/contentpulse/contentpulse-backend/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeliveryRepository implements the repositories.DeliveryRepository interface
type DeliveryRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewDeliveryRepository creates a new delivery repository
func NewDeliveryRepository(db *DB, logger *zap.Logger) repositories.DeliveryRepository {
	return &DeliveryRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends a delivery record
func (r *DeliveryRepository) Create(ctx context.Context, rec *models.DeliveryRecord) error {
	query := `
		INSERT INTO delivery_records (id, org_id, draft_id, channel, external_id, status, error_detail, attempt, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		rec.ID,
		rec.OrgID,
		rec.DraftID,
		rec.Channel,
		rec.ExternalID,
		rec.Status,
		rec.ErrorDetail,
		rec.Attempt,
		rec.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create delivery record: %w", err)
	}

	r.logger.Debug("delivery record created",
		zap.String("id", rec.ID.String()),
		zap.String("draft_id", rec.DraftID.String()),
		zap.String("channel", rec.Channel),
		zap.String("status", string(rec.Status)),
		zap.Int("attempt", rec.Attempt),
	)
	return nil
}

// ListByDraft retrieves all delivery records of a draft, oldest first
func (r *DeliveryRepository) ListByDraft(ctx context.Context, orgID, draftID uuid.UUID) ([]*models.DeliveryRecord, error) {
	query := `
		SELECT id, org_id, draft_id, channel, external_id, status, error_detail, attempt, created_at
		FROM delivery_records
		WHERE org_id = $1 AND draft_id = $2
		ORDER BY created_at ASC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, orgID, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list delivery records: %w", err)
	}
	defer rows.Close()

	var records []*models.DeliveryRecord
	for rows.Next() {
		rec := &models.DeliveryRecord{}
		err := rows.Scan(
			&rec.ID,
			&rec.OrgID,
			&rec.DraftID,
			&rec.Channel,
			&rec.ExternalID,
			&rec.Status,
			&rec.ErrorDetail,
			&rec.Attempt,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delivery record rows: %w", err)
	}

	return records, nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *DeliveryRepository) WithTx(tx repositories.Transaction) repositories.DeliveryRepository {
	return &DeliveryRepository{
		db:     r.db,
		logger: r.logger,
	}
}
