package models

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryStatus represents the outcome of one external-publish attempt
type DeliveryStatus string

const (
	DeliverySuccess DeliveryStatus = "success"
	DeliveryFailed  DeliveryStatus = "failed"
)

// Valid reports whether the delivery status is a known value
func (s DeliveryStatus) Valid() bool {
	return s == DeliverySuccess || s == DeliveryFailed
}

// DeliveryRecord is the audit record of one external-publish attempt.
// Records are append-only, one row per attempt, never overwritten, so the
// full delivery history of a draft is preserved.
type DeliveryRecord struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	OrgID       uuid.UUID      `json:"org_id" db:"org_id"`
	DraftID     uuid.UUID      `json:"draft_id" db:"draft_id"`
	Channel     string         `json:"channel" db:"channel"`
	ExternalID  *string        `json:"external_id,omitempty" db:"external_id"` // set on success
	Status      DeliveryStatus `json:"status" db:"status"`
	ErrorDetail *string        `json:"error_detail,omitempty" db:"error_detail"`
	Attempt     int            `json:"attempt" db:"attempt"` // 1-based attempt number
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the DeliveryRecord model
func (DeliveryRecord) TableName() string {
	return "delivery_records"
}

// NewDeliverySuccess creates a success record for the given attempt
func NewDeliverySuccess(orgID, draftID uuid.UUID, channel, externalID string, attempt int) *DeliveryRecord {
	return &DeliveryRecord{
		ID:         uuid.New(),
		OrgID:      orgID,
		DraftID:    draftID,
		Channel:    channel,
		ExternalID: &externalID,
		Status:     DeliverySuccess,
		Attempt:    attempt,
		CreatedAt:  time.Now(),
	}
}

// NewDeliveryFailure creates a failure record carrying the attempt's error
func NewDeliveryFailure(orgID, draftID uuid.UUID, channel, errorDetail string, attempt int) *DeliveryRecord {
	return &DeliveryRecord{
		ID:          uuid.New(),
		OrgID:       orgID,
		DraftID:     draftID,
		Channel:     channel,
		Status:      DeliveryFailed,
		ErrorDetail: &errorDetail,
		Attempt:     attempt,
		CreatedAt:   time.Now(),
	}
}
