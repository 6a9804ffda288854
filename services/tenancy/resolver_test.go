package tenancy

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/contentpulse/contentpulse-backend/models"
	"github.com/contentpulse/contentpulse-backend/repositories"
	"github.com/contentpulse/contentpulse-backend/services"
)

// MockOrganizationRepository is a mock implementation of OrganizationRepository
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	args := m.Called(ctx, id)
	if org := args.Get(0); org != nil {
		return org.(*models.Organization), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrganizationRepository) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	args := m.Called(ctx, slug)
	if org := args.Get(0); org != nil {
		return org.(*models.Organization), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrganizationRepository) List(ctx context.Context, limit, offset int) ([]*models.Organization, error) {
	args := m.Called(ctx, limit, offset)
	if orgs := args.Get(0); orgs != nil {
		return orgs.([]*models.Organization), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrganizationRepository) Update(ctx context.Context, org *models.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) WithTx(tx repositories.Transaction) repositories.OrganizationRepository {
	return m
}

// MockMembershipRepository is a mock implementation of MembershipRepository
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) Create(ctx context.Context, mem *models.Membership) error {
	args := m.Called(ctx, mem)
	return args.Error(0)
}

func (m *MockMembershipRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Membership, error) {
	args := m.Called(ctx, id)
	if mem := args.Get(0); mem != nil {
		return mem.(*models.Membership), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMembershipRepository) GetByOrgAndUser(ctx context.Context, orgID, userID uuid.UUID) (*models.Membership, error) {
	args := m.Called(ctx, orgID, userID)
	if mem := args.Get(0); mem != nil {
		return mem.(*models.Membership), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMembershipRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*models.Membership, error) {
	args := m.Called(ctx, userID)
	if mems := args.Get(0); mems != nil {
		return mems.([]*models.Membership), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMembershipRepository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*models.Membership, error) {
	args := m.Called(ctx, orgID)
	if mems := args.Get(0); mems != nil {
		return mems.([]*models.Membership), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMembershipRepository) Update(ctx context.Context, mem *models.Membership) error {
	args := m.Called(ctx, mem)
	return args.Error(0)
}

func (m *MockMembershipRepository) WithTx(tx repositories.Transaction) repositories.MembershipRepository {
	return m
}

func newResolver() (*Resolver, *MockOrganizationRepository, *MockMembershipRepository) {
	orgRepo := new(MockOrganizationRepository)
	membershipRepo := new(MockMembershipRepository)
	return NewResolver(orgRepo, membershipRepo, zap.NewNop()), orgRepo, membershipRepo
}

func TestResolver_ExplicitSelector_ActiveMembership(t *testing.T) {
	resolver, orgRepo, membershipRepo := newResolver()

	org := models.NewOrganization("Acme Agency", "acme")
	userID := uuid.New()
	membership := models.NewMembership(org.ID, userID, models.RoleManager)

	orgRepo.On("GetByID", mock.Anything, org.ID).Return(org, nil)
	membershipRepo.On("GetByOrgAndUser", mock.Anything, org.ID, userID).Return(membership, nil)

	tc, err := resolver.Resolve(context.Background(), Principal{UserID: userID}, org.ID.String())
	require.NoError(t, err)

	assert.Equal(t, org.ID, tc.OrgID)
	assert.Equal(t, userID, tc.PrincipalID)
	assert.Equal(t, models.RoleManager, tc.Role)
	assert.False(t, tc.SuperAdmin)
	assert.True(t, tc.HasPermission(models.PermDraftPublish))
}

func TestResolver_ExplicitSelector_BySlug(t *testing.T) {
	resolver, orgRepo, membershipRepo := newResolver()

	org := models.NewOrganization("Acme Agency", "acme")
	userID := uuid.New()
	membership := models.NewMembership(org.ID, userID, models.RoleMember)

	orgRepo.On("GetBySlug", mock.Anything, "acme").Return(org, nil)
	membershipRepo.On("GetByOrgAndUser", mock.Anything, org.ID, userID).Return(membership, nil)

	tc, err := resolver.Resolve(context.Background(), Principal{UserID: userID}, "acme")
	require.NoError(t, err)
	assert.Equal(t, org.ID, tc.OrgID)
	assert.Equal(t, models.RoleMember, tc.Role)
}

func TestResolver_ExplicitSelector_NoMembership(t *testing.T) {
	resolver, orgRepo, membershipRepo := newResolver()

	org := models.NewOrganization("Acme Agency", "acme")
	userID := uuid.New()

	orgRepo.On("GetByID", mock.Anything, org.ID).Return(org, nil)
	membershipRepo.On("GetByOrgAndUser", mock.Anything, org.ID, userID).Return(nil, repositories.ErrNotFound)

	_, err := resolver.Resolve(context.Background(), Principal{UserID: userID}, org.ID.String())
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrAccessDenied)
}

func TestResolver_ExplicitSelector_RevokedMembership(t *testing.T) {
	resolver, orgRepo, membershipRepo := newResolver()

	org := models.NewOrganization("Acme Agency", "acme")
	userID := uuid.New()
	membership := models.NewMembership(org.ID, userID, models.RoleMember)
	membership.Status = models.MembershipRevoked

	orgRepo.On("GetByID", mock.Anything, org.ID).Return(org, nil)
	membershipRepo.On("GetByOrgAndUser", mock.Anything, org.ID, userID).Return(membership, nil)

	_, err := resolver.Resolve(context.Background(), Principal{UserID: userID}, org.ID.String())
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrAccessDenied)
}

func TestResolver_ExplicitSelector_UnknownOrganization(t *testing.T) {
	resolver, orgRepo, _ := newResolver()

	orgRepo.On("GetBySlug", mock.Anything, "ghost").Return(nil, repositories.ErrNotFound)

	// Unknown orgs are indistinguishable from forbidden ones
	_, err := resolver.Resolve(context.Background(), Principal{UserID: uuid.New()}, "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrAccessDenied)
}

func TestResolver_ExplicitSelector_DisabledOrganization(t *testing.T) {
	resolver, orgRepo, _ := newResolver()

	org := models.NewOrganization("Acme Agency", "acme")
	org.SubscriptionStatus = models.SubscriptionDisabled

	orgRepo.On("GetByID", mock.Anything, org.ID).Return(org, nil)

	_, err := resolver.Resolve(context.Background(), Principal{UserID: uuid.New()}, org.ID.String())
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrOrganizationDisabled)
}

func TestResolver_SuperAdmin_SelectorHonored(t *testing.T) {
	resolver, orgRepo, membershipRepo := newResolver()

	// Disabled org, no membership: still resolvable for support tooling
	org := models.NewOrganization("Acme Agency", "acme")
	org.SubscriptionStatus = models.SubscriptionDisabled
	adminID := uuid.New()

	orgRepo.On("GetByID", mock.Anything, org.ID).Return(org, nil)

	tc, err := resolver.Resolve(context.Background(), Principal{UserID: adminID, SuperAdmin: true}, org.ID.String())
	require.NoError(t, err)

	assert.Equal(t, org.ID, tc.OrgID)
	assert.True(t, tc.SuperAdmin)
	membershipRepo.AssertNotCalled(t, "GetByOrgAndUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolver_NoSelector_MostRecentlyUsed(t *testing.T) {
	resolver, orgRepo, membershipRepo := newResolver()

	userID := uuid.New()
	recentOrg := models.NewOrganization("Recent", "recent")
	olderOrg := models.NewOrganization("Older", "older")
	recent := models.NewMembership(recentOrg.ID, userID, models.RoleClient)
	older := models.NewMembership(olderOrg.ID, userID, models.RoleMember)

	// Repository returns most recently used first
	membershipRepo.On("ListActiveByUser", mock.Anything, userID).Return([]*models.Membership{recent, older}, nil)
	orgRepo.On("GetByID", mock.Anything, recentOrg.ID).Return(recentOrg, nil)

	tc, err := resolver.Resolve(context.Background(), Principal{UserID: userID}, "")
	require.NoError(t, err)

	assert.Equal(t, recentOrg.ID, tc.OrgID)
	assert.Equal(t, models.RoleClient, tc.Role)
}

func TestResolver_NoSelector_SkipsDisabledOrganizations(t *testing.T) {
	resolver, orgRepo, membershipRepo := newResolver()

	userID := uuid.New()
	disabledOrg := models.NewOrganization("Disabled", "disabled")
	disabledOrg.SubscriptionStatus = models.SubscriptionDisabled
	activeOrg := models.NewOrganization("Active", "active")

	first := models.NewMembership(disabledOrg.ID, userID, models.RoleManager)
	second := models.NewMembership(activeOrg.ID, userID, models.RoleMember)

	membershipRepo.On("ListActiveByUser", mock.Anything, userID).Return([]*models.Membership{first, second}, nil)
	orgRepo.On("GetByID", mock.Anything, disabledOrg.ID).Return(disabledOrg, nil)
	orgRepo.On("GetByID", mock.Anything, activeOrg.ID).Return(activeOrg, nil)

	tc, err := resolver.Resolve(context.Background(), Principal{UserID: userID}, "")
	require.NoError(t, err)
	assert.Equal(t, activeOrg.ID, tc.OrgID)
}

func TestResolver_NoSelector_NoMemberships(t *testing.T) {
	resolver, _, membershipRepo := newResolver()

	userID := uuid.New()
	membershipRepo.On("ListActiveByUser", mock.Anything, userID).Return([]*models.Membership{}, nil)

	_, err := resolver.Resolve(context.Background(), Principal{UserID: userID}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrNoOrganizationContext)
}

func TestContext_HasPermission(t *testing.T) {
	tc := &Context{
		Role:        models.RoleViewer,
		Permissions: models.RoleViewer.Permissions(),
	}
	assert.False(t, tc.HasPermission(models.PermIdeaCreate))

	tc.SuperAdmin = true
	assert.True(t, tc.HasPermission(models.PermIdeaCreate))
}

func TestContext_CanReview(t *testing.T) {
	tests := []struct {
		role     models.Role
		expected bool
	}{
		{models.RoleOwner, true},
		{models.RoleAdmin, true},
		{models.RoleClient, true},
		{models.RoleManager, false},
		{models.RoleMember, false},
		{models.RoleViewer, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			tc := &Context{Role: tt.role}
			assert.Equal(t, tt.expected, tc.CanReview())
		})
	}
}
