package models

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackCategory classifies a review comment
type FeedbackCategory string

const (
	FeedbackCategoryGeneral FeedbackCategory = "general"
	FeedbackCategoryCopy    FeedbackCategory = "copy"
	FeedbackCategoryVisual  FeedbackCategory = "visual"
	FeedbackCategoryBrand   FeedbackCategory = "brand"
)

// Valid reports whether the feedback category is a known value
func (c FeedbackCategory) Valid() bool {
	switch c {
	case FeedbackCategoryGeneral, FeedbackCategoryCopy, FeedbackCategoryVisual, FeedbackCategoryBrand:
		return true
	}
	return false
}

// FeedbackPriority ranks how urgently a comment needs addressing
type FeedbackPriority string

const (
	FeedbackPriorityLow    FeedbackPriority = "low"
	FeedbackPriorityMedium FeedbackPriority = "medium"
	FeedbackPriorityHigh   FeedbackPriority = "high"
)

// Valid reports whether the feedback priority is a known value
func (p FeedbackPriority) Valid() bool {
	switch p {
	case FeedbackPriorityLow, FeedbackPriorityMedium, FeedbackPriorityHigh:
		return true
	}
	return false
}

// Feedback is a review comment attached to a content draft.
// Feedback rows are append-only; they are never edited or deleted by
// normal flow.
type Feedback struct {
	ID         uuid.UUID        `json:"id" db:"id"`
	OrgID      uuid.UUID        `json:"org_id" db:"org_id"`
	DraftID    uuid.UUID        `json:"draft_id" db:"draft_id"`
	AuthorID   uuid.UUID        `json:"author_id" db:"author_id"`
	Body       string           `json:"body" db:"body"`
	Rating     int              `json:"rating" db:"rating"` // 0 when unrated
	Category   FeedbackCategory `json:"category" db:"category"`
	Priority   FeedbackPriority `json:"priority" db:"priority"`
	Actionable bool             `json:"actionable" db:"actionable"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the Feedback model
func (Feedback) TableName() string {
	return "feedback"
}

// NewFeedback creates a new Feedback instance
func NewFeedback(orgID, draftID, authorID uuid.UUID, body string, category FeedbackCategory, priority FeedbackPriority) *Feedback {
	return &Feedback{
		ID:        uuid.New(),
		OrgID:     orgID,
		DraftID:   draftID,
		AuthorID:  authorID,
		Body:      body,
		Category:  category,
		Priority:  priority,
		CreatedAt: time.Now(),
	}
}

// NewRevisionNotes creates the actionable feedback record written by a
// revision request
func NewRevisionNotes(orgID, draftID, authorID uuid.UUID, notes string) *Feedback {
	fb := NewFeedback(orgID, draftID, authorID, notes, FeedbackCategoryGeneral, FeedbackPriorityHigh)
	fb.Actionable = true
	return fb
}
