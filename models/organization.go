package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionTier represents the billing tier of an organization
type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "free"
	TierStarter SubscriptionTier = "starter"
	TierAgency  SubscriptionTier = "agency"
)

// Valid reports whether the tier is a known value
func (t SubscriptionTier) Valid() bool {
	switch t {
	case TierFree, TierStarter, TierAgency:
		return true
	}
	return false
}

// SubscriptionStatus represents the subscription state of an organization.
// Organizations are never hard-deleted by normal flow; a disabled
// subscription soft-disables the tenant.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionDisabled SubscriptionStatus = "disabled"
)

// Valid reports whether the subscription status is a known value
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionActive, SubscriptionPastDue, SubscriptionDisabled:
		return true
	}
	return false
}

// Organization represents a tenant in the multi-tenant system.
// Every other entity carries this organization's ID, directly or via its parent.
type Organization struct {
	ID                 uuid.UUID          `json:"id" db:"id"`
	Name               string             `json:"name" db:"name"`
	Slug               string             `json:"slug" db:"slug"` // URL-friendly identifier
	Tier               SubscriptionTier   `json:"tier" db:"tier"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status" db:"subscription_status"`
	MaxUsers           int                `json:"max_users" db:"max_users"`
	MaxStorageMB       int                `json:"max_storage_mb" db:"max_storage_mb"`
	CreatedAt          time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Organization model
func (Organization) TableName() string {
	return "organizations"
}

// NewOrganization creates a new Organization instance on the free tier
func NewOrganization(name, slug string) *Organization {
	now := time.Now()
	return &Organization{
		ID:                 uuid.New(),
		Name:               name,
		Slug:               slug,
		Tier:               TierFree,
		SubscriptionStatus: SubscriptionActive,
		MaxUsers:           5,
		MaxStorageMB:       1024,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// IsDisabled reports whether the tenant is soft-disabled
func (o *Organization) IsDisabled() bool {
	return o.SubscriptionStatus == SubscriptionDisabled
}
