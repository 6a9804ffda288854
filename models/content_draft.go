package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftStatus represents the review lifecycle state of a content draft
type DraftStatus string

const (
	DraftStatusDraft            DraftStatus = "draft"
	DraftStatusAwaitingFeedback DraftStatus = "awaiting_feedback"
	DraftStatusAwaitingRevision DraftStatus = "awaiting_revision"
	DraftStatusApproved         DraftStatus = "approved"
	DraftStatusRejected         DraftStatus = "rejected"
	DraftStatusPublished        DraftStatus = "published"
)

// AllDraftStatuses lists every draft status, for visibility filtering
var AllDraftStatuses = []DraftStatus{
	DraftStatusDraft,
	DraftStatusAwaitingFeedback,
	DraftStatusAwaitingRevision,
	DraftStatusApproved,
	DraftStatusRejected,
	DraftStatusPublished,
}

// Valid reports whether the draft status is a known value
func (s DraftStatus) Valid() bool {
	switch s {
	case DraftStatusDraft, DraftStatusAwaitingFeedback, DraftStatusAwaitingRevision,
		DraftStatusApproved, DraftStatusRejected, DraftStatusPublished:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves this state
func (s DraftStatus) IsTerminal() bool {
	return s == DraftStatusRejected || s == DraftStatusPublished
}

// ContentDraft represents one versioned creative execution of an Idea.
// An idea may own many drafts over time; the most recent non-terminal draft
// is the active one shown to reviewers. OrgID is denormalized from the idea
// so every query stays a single org-scoped equality check.
type ContentDraft struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	OrgID       uuid.UUID   `json:"org_id" db:"org_id"`
	IdeaID      uuid.UUID   `json:"idea_id" db:"idea_id"`
	CreatorID   uuid.UUID   `json:"creator_id" db:"creator_id"`
	Body        string      `json:"body" db:"body"`
	ContentType ContentType `json:"content_type" db:"content_type"`
	Status      DraftStatus `json:"status" db:"status"`
	Version     int         `json:"version" db:"version"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the ContentDraft model
func (ContentDraft) TableName() string {
	return "content_drafts"
}

// NewContentDraft creates a new ContentDraft instance in the draft state
func NewContentDraft(orgID, ideaID, creatorID uuid.UUID, body string, contentType ContentType, version int) *ContentDraft {
	now := time.Now()
	return &ContentDraft{
		ID:          uuid.New(),
		OrgID:       orgID,
		IdeaID:      ideaID,
		CreatorID:   creatorID,
		Body:        body,
		ContentType: contentType,
		Status:      DraftStatusDraft,
		Version:     version,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
