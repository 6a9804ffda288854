package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of action being audited
type AuditAction string

const (
	AuditActionIdeaApproved      AuditAction = "idea_approved"
	AuditActionIdeaRejected      AuditAction = "idea_rejected"
	AuditActionDraftSubmitted    AuditAction = "draft_submitted"
	AuditActionDraftApproved     AuditAction = "draft_approved"
	AuditActionDraftRejected     AuditAction = "draft_rejected"
	AuditActionRevisionRequested AuditAction = "revision_requested"
	AuditActionDraftResubmitted  AuditAction = "draft_resubmitted"
	AuditActionDraftPublished    AuditAction = "draft_published"
	AuditActionDraftDeleted      AuditAction = "draft_deleted"
	AuditActionMemberInvited     AuditAction = "member_invited"
	AuditActionMemberRoleChanged AuditAction = "member_role_changed"
	AuditActionOrgCreated        AuditAction = "org_created"
)

// AuditLog represents one entry of the workflow transition history.
// Every state transition writes exactly one entry in the same transaction
// as the state change itself.
type AuditLog struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	OrgID        uuid.UUID       `json:"org_id" db:"org_id"`
	ActorID      *uuid.UUID      `json:"actor_id,omitempty" db:"actor_id"`
	Action       AuditAction     `json:"action" db:"action"`
	ResourceType string          `json:"resource_type" db:"resource_type"` // idea, draft, membership, organization
	ResourceID   *uuid.UUID      `json:"resource_id,omitempty" db:"resource_id"`
	FromStatus   *string         `json:"from_status,omitempty" db:"from_status"`
	ToStatus     *string         `json:"to_status,omitempty" db:"to_status"`
	Details      json.RawMessage `json:"details,omitempty" db:"details"` // JSONB for flexible metadata
	RequestID    string          `json:"request_id" db:"request_id"`
	Timestamp    time.Time       `json:"timestamp" db:"timestamp"`
}

// TableName returns the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}

// NewAuditLog creates a new AuditLog instance
func NewAuditLog(orgID uuid.UUID, action AuditAction, resourceType string) *AuditLog {
	return &AuditLog{
		ID:           uuid.New(),
		OrgID:        orgID,
		Action:       action,
		ResourceType: resourceType,
		Timestamp:    time.Now(),
	}
}

// WithActor sets the acting user
func (a *AuditLog) WithActor(actorID uuid.UUID) *AuditLog {
	a.ActorID = &actorID
	return a
}

// WithResource sets the resource ID
func (a *AuditLog) WithResource(resourceID uuid.UUID) *AuditLog {
	a.ResourceID = &resourceID
	return a
}

// WithTransition records the from/to states of a workflow transition
func (a *AuditLog) WithTransition(from, to string) *AuditLog {
	a.FromStatus = &from
	a.ToStatus = &to
	return a
}

// WithDetails sets the details
func (a *AuditLog) WithDetails(details interface{}) *AuditLog {
	if data, err := json.Marshal(details); err == nil {
		a.Details = data
	}
	return a
}

// WithRequestID sets the originating request ID
func (a *AuditLog) WithRequestID(requestID string) *AuditLog {
	a.RequestID = requestID
	return a
}
