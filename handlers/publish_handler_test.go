package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/contentpulse/contentpulse-backend/models"
	"github.com/contentpulse/contentpulse-backend/services"
	"github.com/contentpulse/contentpulse-backend/services/publish"
	"github.com/contentpulse/contentpulse-backend/services/tenancy"
	"github.com/contentpulse/contentpulse-backend/utils"
)

// MockPublisher is a mock implementation of Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID, channelNames []string) (*publish.Result, error) {
	args := m.Called(ctx, tc, draftID, channelNames)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*publish.Result), args.Error(1)
}

func (m *MockPublisher) Deliveries(ctx context.Context, tc *tenancy.Context, draftID uuid.UUID) ([]*models.DeliveryRecord, error) {
	args := m.Called(ctx, tc, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.DeliveryRecord), args.Error(1)
}

func TestPublishHandler_HandlePublish(t *testing.T) {
	logger := zap.NewNop()

	t.Run("publishes to requested channels", func(t *testing.T) {
		mockPublisher := new(MockPublisher)
		handler := NewPublishHandler(mockPublisher, logger)
		tc := testContext(models.RoleManager)
		draftID := uuid.New()

		result := &publish.Result{
			DraftID:   draftID,
			Published: true,
			Channels: []publish.ChannelResult{
				{Channel: "linkedin", Success: true, ExternalID: "urn:li:ugcPost:1", Attempts: 1},
			},
		}
		mockPublisher.On("Publish", mock.Anything, tc, draftID, []string{"linkedin"}).Return(result, nil)

		req := tenantRequest(http.MethodPost, "/drafts/"+draftID.String()+"/publish",
			`{"channels":["linkedin"]}`, tc, draftID)
		w := httptest.NewRecorder()

		handler.HandlePublish(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response utils.SuccessResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		data := response.Data.(map[string]interface{})
		assert.Equal(t, true, data["published"])
	})

	t.Run("all channels failing returns 502", func(t *testing.T) {
		mockPublisher := new(MockPublisher)
		handler := NewPublishHandler(mockPublisher, logger)
		tc := testContext(models.RoleManager)
		draftID := uuid.New()

		result := &publish.Result{
			DraftID:   draftID,
			Published: false,
			Channels: []publish.ChannelResult{
				{Channel: "linkedin", Success: false, Attempts: 3, Error: "rate limited"},
			},
		}
		mockPublisher.On("Publish", mock.Anything, tc, draftID, []string{"linkedin"}).Return(result, nil)

		req := tenantRequest(http.MethodPost, "/drafts/"+draftID.String()+"/publish",
			`{"channels":["linkedin"]}`, tc, draftID)
		w := httptest.NewRecorder()

		handler.HandlePublish(w, req)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("unapproved draft maps to 422", func(t *testing.T) {
		mockPublisher := new(MockPublisher)
		handler := NewPublishHandler(mockPublisher, logger)
		tc := testContext(models.RoleManager)
		draftID := uuid.New()

		mockPublisher.On("Publish", mock.Anything, tc, draftID, []string{"x"}).
			Return(nil, services.ErrNotApproved)

		req := tenantRequest(http.MethodPost, "/drafts/"+draftID.String()+"/publish",
			`{"channels":["x"]}`, tc, draftID)
		w := httptest.NewRecorder()

		handler.HandlePublish(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("empty channel list rejected before the service", func(t *testing.T) {
		mockPublisher := new(MockPublisher)
		handler := NewPublishHandler(mockPublisher, logger)
		tc := testContext(models.RoleManager)
		draftID := uuid.New()

		req := tenantRequest(http.MethodPost, "/drafts/"+draftID.String()+"/publish",
			`{"channels":[]}`, tc, draftID)
		w := httptest.NewRecorder()

		handler.HandlePublish(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockPublisher.AssertNotCalled(t, "Publish")
	})
}

func TestPublishHandler_HandleListDeliveries(t *testing.T) {
	logger := zap.NewNop()

	t.Run("lists delivery records", func(t *testing.T) {
		mockPublisher := new(MockPublisher)
		handler := NewPublishHandler(mockPublisher, logger)
		tc := testContext(models.RoleMember)
		draftID := uuid.New()

		records := []*models.DeliveryRecord{
			models.NewDeliveryFailure(tc.OrgID, draftID, "x", "429 rate limited", 1),
			models.NewDeliverySuccess(tc.OrgID, draftID, "x", "1800", 2),
		}
		mockPublisher.On("Deliveries", mock.Anything, tc, draftID).Return(records, nil)

		req := tenantRequest(http.MethodGet, "/drafts/"+draftID.String()+"/deliveries", "", tc, draftID)
		w := httptest.NewRecorder()

		handler.HandleListDeliveries(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response utils.ListResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, 2, response.Count)
	})

	t.Run("hidden draft maps to 404", func(t *testing.T) {
		mockPublisher := new(MockPublisher)
		handler := NewPublishHandler(mockPublisher, logger)
		tc := testContext(models.RoleClient)
		draftID := uuid.New()

		mockPublisher.On("Deliveries", mock.Anything, tc, draftID).
			Return(nil, services.ErrDraftNotFound)

		req := tenantRequest(http.MethodGet, "/drafts/"+draftID.String()+"/deliveries", "", tc, draftID)
		w := httptest.NewRecorder()

		handler.HandleListDeliveries(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
