package models

import (
	"time"

	"github.com/google/uuid"
)

// IdeaStatus represents the review state of a content idea
type IdeaStatus string

const (
	IdeaStatusPending  IdeaStatus = "pending"
	IdeaStatusApproved IdeaStatus = "approved"
	IdeaStatusRejected IdeaStatus = "rejected"
)

// Valid reports whether the idea status is a known value
func (s IdeaStatus) Valid() bool {
	switch s {
	case IdeaStatusPending, IdeaStatusApproved, IdeaStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further idea-level transition is allowed.
// A rejected idea is resurrected only by creating a new one.
func (s IdeaStatus) IsTerminal() bool {
	return s == IdeaStatusApproved || s == IdeaStatusRejected
}

// ContentType classifies what kind of content an idea or draft is
type ContentType string

const (
	ContentTypePost       ContentType = "post"
	ContentTypeArticle    ContentType = "article"
	ContentTypeNewsletter ContentType = "newsletter"
	ContentTypeAd         ContentType = "ad"
)

// Valid reports whether the content type is a known value
func (c ContentType) Valid() bool {
	switch c {
	case ContentTypePost, ContentTypeArticle, ContentTypeNewsletter, ContentTypeAd:
		return true
	}
	return false
}

// MediaType classifies the media attached to an idea
type MediaType string

const (
	MediaTypeText  MediaType = "text"
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Valid reports whether the media type is a known value
func (m MediaType) Valid() bool {
	switch m {
	case MediaTypeText, MediaTypeImage, MediaTypeVideo:
		return true
	}
	return false
}

// Idea represents a proposed piece of content awaiting creative execution.
// Once any of its drafts is approved, the idea is immutable; further edits
// go through a new revision draft.
type Idea struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	OrgID           uuid.UUID   `json:"org_id" db:"org_id"`
	CreatorID       uuid.UUID   `json:"creator_id" db:"creator_id"`
	Title           string      `json:"title" db:"title"`
	Description     string      `json:"description" db:"description"`
	ContentType     ContentType `json:"content_type" db:"content_type"`
	MediaType       MediaType   `json:"media_type" db:"media_type"`
	TargetPublishAt *time.Time  `json:"target_publish_at,omitempty" db:"target_publish_at"`
	Status          IdeaStatus  `json:"status" db:"status"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Idea model
func (Idea) TableName() string {
	return "ideas"
}

// NewIdea creates a new pending Idea instance
func NewIdea(orgID, creatorID uuid.UUID, title, description string, contentType ContentType, mediaType MediaType) *Idea {
	now := time.Now()
	return &Idea{
		ID:          uuid.New(),
		OrgID:       orgID,
		CreatorID:   creatorID,
		Title:       title,
		Description: description,
		ContentType: contentType,
		MediaType:   mediaType,
		Status:      IdeaStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
