package workflow

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
	"github.com/contentpulse/contentpulse-backend/services/notify"
)

type ideaServiceFixture struct {
	service   *IdeaService
	ideaRepo  *MockIdeaRepository
	draftRepo *MockDraftRepository
	auditRepo *MockAuditRepository
	notifier  *recordingNotifier
	orgID     uuid.UUID
}

func newIdeaServiceFixture(t *testing.T) *ideaServiceFixture {
	t.Helper()

	ideaRepo := new(MockIdeaRepository)
	draftRepo := new(MockDraftRepository)
	auditRepo := new(MockAuditRepository)
	notifier := &recordingNotifier{}

	service := NewIdeaService(ideaRepo, draftRepo, auditRepo, &fakeTxManager{}, notifier, zap.NewNop())

	return &ideaServiceFixture{
		service:   service,
		ideaRepo:  ideaRepo,
		draftRepo: draftRepo,
		auditRepo: auditRepo,
		notifier:  notifier,
		orgID:     uuid.New(),
	}
}

func TestIdeaService_Create(t *testing.T) {
	f := newIdeaServiceFixture(t)
	tc := memberContext(f.orgID)

	f.ideaRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	idea, err := f.service.Create(context.Background(), tc, CreateIdeaInput{
		Title:       "Q4 product launch series",
		Description: "Five posts building up to the launch",
		ContentType: models.ContentTypePost,
		MediaType:   models.MediaTypeText,
	})
	require.NoError(t, err)
	require.NotNil(t, idea)

	assert.Equal(t, models.IdeaStatusPending, idea.Status)
	assert.Equal(t, f.orgID, idea.OrgID)
	assert.Equal(t, tc.PrincipalID, idea.CreatorID)
}

func TestIdeaService_Create_UnknownContentType(t *testing.T) {
	f := newIdeaServiceFixture(t)
	tc := memberContext(f.orgID)

	_, err := f.service.Create(context.Background(), tc, CreateIdeaInput{
		Title:       "Bad type",
		ContentType: models.ContentType("podcast"),
		MediaType:   models.MediaTypeText,
	})
	require.Error(t, err)
	assert.True(t, services.IsValidationError(err))
	f.ideaRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIdeaService_Create_ViewerDenied(t *testing.T) {
	f := newIdeaServiceFixture(t)
	viewer := contextWithRole(f.orgID, models.RoleViewer)

	_, err := f.service.Create(context.Background(), viewer, CreateIdeaInput{
		Title:       "No permission",
		ContentType: models.ContentTypePost,
		MediaType:   models.MediaTypeText,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrInsufficientRole)
}

func TestIdeaService_Approve(t *testing.T) {
	f := newIdeaServiceFixture(t)
	client := clientContext(f.orgID)
	idea := models.NewIdea(f.orgID, uuid.New(), "Launch teaser", "", models.ContentTypePost, models.MediaTypeText)

	f.ideaRepo.On("GetByID", mock.Anything, f.orgID, idea.ID).Return(idea, nil)
	f.ideaRepo.On("UpdateStatus", mock.Anything, f.orgID, idea.ID, models.IdeaStatusPending, models.IdeaStatusApproved).Return(nil)
	f.auditRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	got, err := f.service.Approve(context.Background(), client, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IdeaStatusApproved, got.Status)

	inserted := f.auditRepo.Inserted()
	require.Len(t, inserted, 1)
	assert.Equal(t, models.AuditActionIdeaApproved, inserted[0].Action)

	assert.Equal(t, []notify.Kind{notify.KindIdeaReviewed}, f.notifier.Kinds())
}

func TestIdeaService_Reject(t *testing.T) {
	f := newIdeaServiceFixture(t)
	client := clientContext(f.orgID)
	idea := models.NewIdea(f.orgID, uuid.New(), "Launch teaser", "", models.ContentTypePost, models.MediaTypeText)

	f.ideaRepo.On("GetByID", mock.Anything, f.orgID, idea.ID).Return(idea, nil)
	f.ideaRepo.On("UpdateStatus", mock.Anything, f.orgID, idea.ID, models.IdeaStatusPending, models.IdeaStatusRejected).Return(nil)
	f.auditRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	got, err := f.service.Reject(context.Background(), client, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IdeaStatusRejected, got.Status)
}

func TestIdeaService_Review_RequiresReviewer(t *testing.T) {
	f := newIdeaServiceFixture(t)
	member := memberContext(f.orgID)
	idea := models.NewIdea(f.orgID, member.PrincipalID, "Own idea", "", models.ContentTypePost, models.MediaTypeText)

	_, err := f.service.Approve(context.Background(), member, idea.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrInsufficientRole)
	f.ideaRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIdeaService_Review_AlreadyDecided(t *testing.T) {
	f := newIdeaServiceFixture(t)
	client := clientContext(f.orgID)
	idea := models.NewIdea(f.orgID, uuid.New(), "Launch teaser", "", models.ContentTypePost, models.MediaTypeText)
	idea.Status = models.IdeaStatusRejected

	f.ideaRepo.On("GetByID", mock.Anything, f.orgID, idea.ID).Return(idea, nil)

	_, err := f.service.Approve(context.Background(), client, idea.ID)
	require.Error(t, err)
	assert.True(t, services.IsInvalidTransitionError(err))
}

func TestIdeaService_Review_ConcurrentModification(t *testing.T) {
	f := newIdeaServiceFixture(t)
	client := clientContext(f.orgID)
	idea := models.NewIdea(f.orgID, uuid.New(), "Launch teaser", "", models.ContentTypePost, models.MediaTypeText)

	f.ideaRepo.On("GetByID", mock.Anything, f.orgID, idea.ID).Return(idea, nil)
	f.ideaRepo.On("UpdateStatus", mock.Anything, f.orgID, idea.ID, models.IdeaStatusPending, models.IdeaStatusApproved).Return(repositories.ErrStaleStatus)

	_, err := f.service.Approve(context.Background(), client, idea.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrConcurrentModification)
	assert.Empty(t, f.auditRepo.Inserted())
}

func TestIdeaService_Update_LockedAfterApprovedDraft(t *testing.T) {
	f := newIdeaServiceFixture(t)
	tc := memberContext(f.orgID)
	idea := models.NewIdea(f.orgID, tc.PrincipalID, "Launch teaser", "", models.ContentTypePost, models.MediaTypeText)
	idea.Status = models.IdeaStatusApproved

	approvedDraft := models.NewContentDraft(f.orgID, idea.ID, tc.PrincipalID, "body", models.ContentTypePost, 1)
	approvedDraft.Status = models.DraftStatusApproved

	f.ideaRepo.On("GetByID", mock.Anything, f.orgID, idea.ID).Return(idea, nil)
	f.draftRepo.On("ListByIdea", mock.Anything, mock.Anything, idea.ID).Return([]*models.ContentDraft{approvedDraft}, nil)

	_, err := f.service.Update(context.Background(), tc, idea.ID, UpdateIdeaInput{
		Title:       "New title",
		ContentType: models.ContentTypePost,
		MediaType:   models.MediaTypeText,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrIdeaLocked)
	f.ideaRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestIdeaService_Update_OnlyCreatorOrAdmin(t *testing.T) {
	f := newIdeaServiceFixture(t)
	creator := memberContext(f.orgID)
	other := memberContext(f.orgID)
	idea := models.NewIdea(f.orgID, creator.PrincipalID, "Launch teaser", "", models.ContentTypePost, models.MediaTypeText)

	f.ideaRepo.On("GetByID", mock.Anything, f.orgID, idea.ID).Return(idea, nil)

	_, err := f.service.Update(context.Background(), other, idea.ID, UpdateIdeaInput{
		Title:       "Hijacked",
		ContentType: models.ContentTypePost,
		MediaType:   models.MediaTypeText,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrInsufficientRole)
}

func TestIdeaService_Get_NotFound(t *testing.T) {
	f := newIdeaServiceFixture(t)
	tc := memberContext(f.orgID)
	ideaID := uuid.New()

	f.ideaRepo.On("GetByID", mock.Anything, f.orgID, ideaID).Return(nil, repositories.ErrNotFound)

	_, err := f.service.Get(context.Background(), tc, ideaID)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrIdeaNotFound)
}
