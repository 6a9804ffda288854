package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Organization tests
func TestNewOrganization(t *testing.T) {
	org := NewOrganization("Acme Creative", "acme-creative")

	assert.NotEqual(t, uuid.Nil, org.ID)
	assert.Equal(t, "Acme Creative", org.Name)
	assert.Equal(t, "acme-creative", org.Slug)
	assert.Equal(t, TierFree, org.Tier)
	assert.Equal(t, SubscriptionActive, org.SubscriptionStatus)
	assert.False(t, org.IsDisabled())
	assert.False(t, org.CreatedAt.IsZero())
}

func TestOrganization_IsDisabled(t *testing.T) {
	org := NewOrganization("Acme", "acme")

	org.SubscriptionStatus = SubscriptionPastDue
	assert.False(t, org.IsDisabled())

	org.SubscriptionStatus = SubscriptionDisabled
	assert.True(t, org.IsDisabled())
}

func TestSubscriptionTier_Valid(t *testing.T) {
	assert.True(t, TierFree.Valid())
	assert.True(t, TierStarter.Valid())
	assert.True(t, TierAgency.Valid())
	assert.False(t, SubscriptionTier("platinum").Valid())
}

// Membership tests
func TestNewMembership(t *testing.T) {
	orgID := uuid.New()
	userID := uuid.New()

	m := NewMembership(orgID, userID, RoleManager)

	assert.Equal(t, orgID, m.OrgID)
	assert.Equal(t, userID, m.UserID)
	assert.Equal(t, RoleManager, m.Role)
	assert.Equal(t, MembershipActive, m.Status)
	assert.True(t, m.IsActive())
	assert.Nil(t, m.LastUsedAt)
}

func TestMembership_IsActive(t *testing.T) {
	m := NewMembership(uuid.New(), uuid.New(), RoleMember)

	m.Status = MembershipInvited
	assert.False(t, m.IsActive())

	m.Status = MembershipRevoked
	assert.False(t, m.IsActive())
}

func TestMembership_Touch(t *testing.T) {
	m := NewMembership(uuid.New(), uuid.New(), RoleMember)
	require.Nil(t, m.LastUsedAt)

	m.Touch()

	require.NotNil(t, m.LastUsedAt)
	assert.False(t, m.UpdatedAt.Before(*m.LastUsedAt))
}

// Role tests
func TestRole_Permissions(t *testing.T) {
	tests := []struct {
		role  Role
		has   []Permission
		lacks []Permission
	}{
		{RoleOwner, []Permission{PermOrgManage, PermDraftPublish, PermIdeaReview}, nil},
		{RoleAdmin, []Permission{PermOrgManage, PermMemberInvite}, nil},
		{RoleManager, []Permission{PermDraftPublish, PermDraftReview}, []Permission{PermOrgManage}},
		{RoleMember, []Permission{PermIdeaCreate, PermDraftCreate, PermDraftSubmit}, []Permission{PermDraftReview, PermDraftPublish}},
		{RoleClient, []Permission{PermIdeaReview, PermDraftReview, PermFeedbackWrite}, []Permission{PermDraftCreate, PermDraftPublish}},
		{RoleViewer, nil, []Permission{PermIdeaCreate, PermFeedbackWrite, PermOrgManage}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			for _, p := range tt.has {
				assert.True(t, tt.role.HasPermission(p), "expected %s to have %s", tt.role, p)
			}
			for _, p := range tt.lacks {
				assert.False(t, tt.role.HasPermission(p), "expected %s to lack %s", tt.role, p)
			}
		})
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleOwner, RoleAdmin, RoleManager, RoleMember, RoleClient, RoleViewer} {
		assert.True(t, r.Valid())
	}
	assert.False(t, Role("superuser").Valid())
}

// Idea tests
func TestNewIdea(t *testing.T) {
	orgID := uuid.New()
	creatorID := uuid.New()

	idea := NewIdea(orgID, creatorID, "Q3 recap", "a look back", ContentTypeArticle, MediaTypeText)

	assert.Equal(t, orgID, idea.OrgID)
	assert.Equal(t, creatorID, idea.CreatorID)
	assert.Equal(t, IdeaStatusPending, idea.Status)
	assert.False(t, idea.Status.IsTerminal())
}

func TestIdeaStatus_IsTerminal(t *testing.T) {
	assert.False(t, IdeaStatusPending.IsTerminal())
	assert.True(t, IdeaStatusApproved.IsTerminal())
	assert.True(t, IdeaStatusRejected.IsTerminal())
}

func TestContentType_Valid(t *testing.T) {
	for _, c := range []ContentType{ContentTypePost, ContentTypeArticle, ContentTypeNewsletter, ContentTypeAd} {
		assert.True(t, c.Valid())
	}
	assert.False(t, ContentType("podcast").Valid())
}

// ContentDraft tests
func TestNewContentDraft(t *testing.T) {
	orgID := uuid.New()
	ideaID := uuid.New()

	draft := NewContentDraft(orgID, ideaID, uuid.New(), "body copy", ContentTypePost, 3)

	assert.Equal(t, orgID, draft.OrgID)
	assert.Equal(t, ideaID, draft.IdeaID)
	assert.Equal(t, DraftStatusDraft, draft.Status)
	assert.Equal(t, 3, draft.Version)
}

func TestDraftStatus_IsTerminal(t *testing.T) {
	terminal := []DraftStatus{DraftStatusRejected, DraftStatusPublished}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), "%s should be terminal", s)
	}

	open := []DraftStatus{DraftStatusDraft, DraftStatusAwaitingFeedback, DraftStatusAwaitingRevision, DraftStatusApproved}
	for _, s := range open {
		assert.False(t, s.IsTerminal(), "%s should not be terminal", s)
	}
}

// DeliveryRecord tests
func TestNewDeliverySuccess(t *testing.T) {
	rec := NewDeliverySuccess(uuid.New(), uuid.New(), "linkedin", "urn:li:ugcPost:1", 2)

	assert.Equal(t, DeliverySuccess, rec.Status)
	require.NotNil(t, rec.ExternalID)
	assert.Equal(t, "urn:li:ugcPost:1", *rec.ExternalID)
	assert.Nil(t, rec.ErrorDetail)
	assert.Equal(t, 2, rec.Attempt)
}

func TestNewDeliveryFailure(t *testing.T) {
	rec := NewDeliveryFailure(uuid.New(), uuid.New(), "x", "429 rate limited", 3)

	assert.Equal(t, DeliveryFailed, rec.Status)
	require.NotNil(t, rec.ErrorDetail)
	assert.Equal(t, "429 rate limited", *rec.ErrorDetail)
	assert.Nil(t, rec.ExternalID)
}

// AuditLog tests
func TestNewAuditLog_Builder(t *testing.T) {
	orgID := uuid.New()
	actorID := uuid.New()
	resourceID := uuid.New()

	log := NewAuditLog(orgID, AuditActionDraftApproved, "draft").
		WithActor(actorID).
		WithResource(resourceID).
		WithTransition("awaiting_feedback", "approved").
		WithRequestID("req-123")

	assert.Equal(t, orgID, log.OrgID)
	assert.Equal(t, AuditActionDraftApproved, log.Action)
	assert.Equal(t, "draft", log.ResourceType)
	require.NotNil(t, log.ActorID)
	assert.Equal(t, actorID, *log.ActorID)
	require.NotNil(t, log.ResourceID)
	assert.Equal(t, resourceID, *log.ResourceID)
	require.NotNil(t, log.FromStatus)
	assert.Equal(t, "awaiting_feedback", *log.FromStatus)
	require.NotNil(t, log.ToStatus)
	assert.Equal(t, "approved", *log.ToStatus)
	assert.Equal(t, "req-123", log.RequestID)
}

// Feedback tests
func TestNewRevisionNotes(t *testing.T) {
	fb := NewRevisionNotes(uuid.New(), uuid.New(), uuid.New(), "tighten the intro")

	assert.Equal(t, "tighten the intro", fb.Body)
	assert.Equal(t, FeedbackCategoryGeneral, fb.Category)
	assert.Equal(t, FeedbackPriorityHigh, fb.Priority)
}
