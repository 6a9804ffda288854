package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/contentpulse/contentpulse-backend/models"
	"github.com/contentpulse/contentpulse-backend/services"
	"github.com/contentpulse/contentpulse-backend/services/tenancy"
	"github.com/contentpulse/contentpulse-backend/services/workflow"
)

// MockIdeaService is a mock implementation of IdeaService
type MockIdeaService struct {
	mock.Mock
}

func (m *MockIdeaService) Create(ctx context.Context, tc *tenancy.Context, input workflow.CreateIdeaInput) (*models.Idea, error) {
	args := m.Called(ctx, tc, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Idea), args.Error(1)
}

func (m *MockIdeaService) Get(ctx context.Context, tc *tenancy.Context, ideaID uuid.UUID) (*models.Idea, error) {
	args := m.Called(ctx, tc, ideaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Idea), args.Error(1)
}

func (m *MockIdeaService) List(ctx context.Context, tc *tenancy.Context, limit, offset int) ([]*models.Idea, error) {
	args := m.Called(ctx, tc, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Idea), args.Error(1)
}

func (m *MockIdeaService) Update(ctx context.Context, tc *tenancy.Context, ideaID uuid.UUID, input workflow.UpdateIdeaInput) (*models.Idea, error) {
	args := m.Called(ctx, tc, ideaID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Idea), args.Error(1)
}

func (m *MockIdeaService) Approve(ctx context.Context, tc *tenancy.Context, ideaID uuid.UUID) (*models.Idea, error) {
	args := m.Called(ctx, tc, ideaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Idea), args.Error(1)
}

func (m *MockIdeaService) Reject(ctx context.Context, tc *tenancy.Context, ideaID uuid.UUID) (*models.Idea, error) {
	args := m.Called(ctx, tc, ideaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Idea), args.Error(1)
}

func TestIdeaHandler_HandleCreate(t *testing.T) {
	logger := zap.NewNop()

	t.Run("creates idea", func(t *testing.T) {
		mockService := new(MockIdeaService)
		handler := NewIdeaHandler(mockService, logger)
		tc := testContext(models.RoleMember)

		idea := models.NewIdea(tc.OrgID, tc.PrincipalID, "Q3 recap", "", models.ContentTypeArticle, models.MediaTypeText)
		mockService.On("Create", mock.Anything, tc, mock.MatchedBy(func(in workflow.CreateIdeaInput) bool {
			return in.Title == "Q3 recap" && in.ContentType == models.ContentTypeArticle
		})).Return(idea, nil)

		body := `{"title":"Q3 recap","content_type":"article","media_type":"text"}`
		req := tenantRequest(http.MethodPost, "/ideas", body, tc, uuid.Nil)
		w := httptest.NewRecorder()

		handler.HandleCreate(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("missing title rejected", func(t *testing.T) {
		mockService := new(MockIdeaService)
		handler := NewIdeaHandler(mockService, logger)

		body := `{"content_type":"article","media_type":"text"}`
		req := tenantRequest(http.MethodPost, "/ideas", body, testContext(models.RoleMember), uuid.Nil)
		w := httptest.NewRecorder()

		handler.HandleCreate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Create")
	})
}

func TestIdeaHandler_Review(t *testing.T) {
	logger := zap.NewNop()

	t.Run("approve", func(t *testing.T) {
		mockService := new(MockIdeaService)
		handler := NewIdeaHandler(mockService, logger)
		tc := testContext(models.RoleClient)
		ideaID := uuid.New()

		idea := &models.Idea{ID: ideaID, Status: models.IdeaStatusApproved}
		mockService.On("Approve", mock.Anything, tc, ideaID).Return(idea, nil)

		req := tenantRequest(http.MethodPost, "/ideas/"+ideaID.String()+"/approve", "", tc, ideaID)
		w := httptest.NewRecorder()

		handler.HandleApprove(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("reject without review role maps to 403", func(t *testing.T) {
		mockService := new(MockIdeaService)
		handler := NewIdeaHandler(mockService, logger)
		tc := testContext(models.RoleMember)
		ideaID := uuid.New()

		mockService.On("Reject", mock.Anything, tc, ideaID).Return(nil, services.ErrInsufficientRole)

		req := tenantRequest(http.MethodPost, "/ideas/"+ideaID.String()+"/reject", "", tc, ideaID)
		w := httptest.NewRecorder()

		handler.HandleReject(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("already decided idea maps to 422", func(t *testing.T) {
		mockService := new(MockIdeaService)
		handler := NewIdeaHandler(mockService, logger)
		tc := testContext(models.RoleClient)
		ideaID := uuid.New()

		mockService.On("Approve", mock.Anything, tc, ideaID).
			Return(nil, services.NewInvalidTransition("rejected", "approved"))

		req := tenantRequest(http.MethodPost, "/ideas/"+ideaID.String()+"/approve", "", tc, ideaID)
		w := httptest.NewRecorder()

		handler.HandleApprove(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestIdeaHandler_HandleUpdate(t *testing.T) {
	logger := zap.NewNop()

	t.Run("locked idea maps to 400", func(t *testing.T) {
		mockService := new(MockIdeaService)
		handler := NewIdeaHandler(mockService, logger)
		tc := testContext(models.RoleMember)
		ideaID := uuid.New()

		mockService.On("Update", mock.Anything, tc, ideaID, mock.Anything).
			Return(nil, services.ErrIdeaLocked)

		body := `{"title":"new title","content_type":"article","media_type":"text"}`
		req := tenantRequest(http.MethodPut, "/ideas/"+ideaID.String(), body, tc, ideaID)
		w := httptest.NewRecorder()

		handler.HandleUpdate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
