package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents an organization-scoped role. A user may hold independent
// roles in multiple organizations; there is no global role other than the
// User.SuperAdmin flag.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleMember  Role = "member" // creative: creates ideas and drafts
	RoleClient  Role = "client" // reviewer: approves, rejects, requests revisions
	RoleViewer  Role = "viewer"
)

// Valid reports whether the role is a known value
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleManager, RoleMember, RoleClient, RoleViewer:
		return true
	}
	return false
}

// IsAdmin reports whether the role carries full administrative rights
// within its organization
func (r Role) IsAdmin() bool {
	return r == RoleOwner || r == RoleAdmin
}

// CanReview reports whether the role may approve, reject, or request
// revisions on ideas and drafts
func (r Role) CanReview() bool {
	return r == RoleClient || r.IsAdmin()
}

// Permission is a fine-grained capability derived from a role
type Permission string

const (
	PermIdeaCreate    Permission = "idea:create"
	PermIdeaReview    Permission = "idea:review"
	PermDraftCreate   Permission = "draft:create"
	PermDraftSubmit   Permission = "draft:submit"
	PermDraftReview   Permission = "draft:review"
	PermDraftPublish  Permission = "draft:publish"
	PermFeedbackWrite Permission = "feedback:write"
	PermOrgManage     Permission = "org:manage"
	PermMemberInvite  Permission = "member:invite"
)

// rolePermissions maps each role to its derived permission set
var rolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermIdeaCreate, PermIdeaReview, PermDraftCreate, PermDraftSubmit,
		PermDraftReview, PermDraftPublish, PermFeedbackWrite, PermOrgManage, PermMemberInvite,
	},
	RoleAdmin: {
		PermIdeaCreate, PermIdeaReview, PermDraftCreate, PermDraftSubmit,
		PermDraftReview, PermDraftPublish, PermFeedbackWrite, PermOrgManage, PermMemberInvite,
	},
	RoleManager: {
		PermIdeaCreate, PermDraftCreate, PermDraftSubmit, PermDraftPublish,
		PermFeedbackWrite, PermMemberInvite,
	},
	RoleMember: {
		PermIdeaCreate, PermDraftCreate, PermDraftSubmit, PermFeedbackWrite,
	},
	RoleClient: {
		PermIdeaReview, PermDraftReview, PermFeedbackWrite,
	},
	RoleViewer: {},
}

// Permissions returns the permission set derived from the role
func (r Role) Permissions() []Permission {
	perms := rolePermissions[r]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// HasPermission reports whether the role grants the given permission
func (r Role) HasPermission(p Permission) bool {
	for _, perm := range rolePermissions[r] {
		if perm == p {
			return true
		}
	}
	return false
}

// MembershipStatus represents the lifecycle of a membership
type MembershipStatus string

const (
	MembershipInvited MembershipStatus = "invited"
	MembershipActive  MembershipStatus = "active"
	MembershipRevoked MembershipStatus = "revoked"
)

// Valid reports whether the membership status is a known value
func (s MembershipStatus) Valid() bool {
	switch s {
	case MembershipInvited, MembershipActive, MembershipRevoked:
		return true
	}
	return false
}

// Membership binds a user to an organization with an organization-scoped role
type Membership struct {
	ID         uuid.UUID        `json:"id" db:"id"`
	OrgID      uuid.UUID        `json:"org_id" db:"org_id"`
	UserID     uuid.UUID        `json:"user_id" db:"user_id"`
	Role       Role             `json:"role" db:"role"`
	Status     MembershipStatus `json:"status" db:"status"`
	LastUsedAt *time.Time       `json:"last_used_at,omitempty" db:"last_used_at"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Membership model
func (Membership) TableName() string {
	return "memberships"
}

// NewMembership creates a new active Membership instance
func NewMembership(orgID, userID uuid.UUID, role Role) *Membership {
	now := time.Now()
	return &Membership{
		ID:        uuid.New(),
		OrgID:     orgID,
		UserID:    userID,
		Role:      role,
		Status:    MembershipActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsActive reports whether the membership grants access
func (m *Membership) IsActive() bool {
	return m.Status == MembershipActive
}

// Touch records the membership as the most recently used one
func (m *Membership) Touch() {
	now := time.Now()
	m.LastUsedAt = &now
	m.UpdatedAt = now
}
