package workflow

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/contentpulse/contentpulse-backend/models"
	"github.com/contentpulse/contentpulse-backend/repositories"
	"github.com/contentpulse/contentpulse-backend/services/notify"
)

// MockIdeaRepository is a mock implementation of IdeaRepository
type MockIdeaRepository struct {
	mock.Mock
}

func (m *MockIdeaRepository) Create(ctx context.Context, idea *models.Idea) error {
	args := m.Called(ctx, idea)
	return args.Error(0)
}

func (m *MockIdeaRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Idea, error) {
	args := m.Called(ctx, orgID, id)
	if idea := args.Get(0); idea != nil {
		return idea.(*models.Idea), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdeaRepository) List(ctx context.Context, filter repositories.ScopedFilter, limit, offset int) ([]*models.Idea, error) {
	args := m.Called(ctx, filter, limit, offset)
	if ideas := args.Get(0); ideas != nil {
		return ideas.([]*models.Idea), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockIdeaRepository) Update(ctx context.Context, idea *models.Idea) error {
	args := m.Called(ctx, idea)
	return args.Error(0)
}

func (m *MockIdeaRepository) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, from, to models.IdeaStatus) error {
	args := m.Called(ctx, orgID, id, from, to)
	return args.Error(0)
}

func (m *MockIdeaRepository) WithTx(tx repositories.Transaction) repositories.IdeaRepository {
	return m
}

// MockDraftRepository is a mock implementation of DraftRepository
type MockDraftRepository struct {
	mock.Mock
}

func (m *MockDraftRepository) Create(ctx context.Context, draft *models.ContentDraft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func (m *MockDraftRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.ContentDraft, error) {
	args := m.Called(ctx, orgID, id)
	if draft := args.Get(0); draft != nil {
		return draft.(*models.ContentDraft), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDraftRepository) ListByIdea(ctx context.Context, filter repositories.ScopedFilter, ideaID uuid.UUID) ([]*models.ContentDraft, error) {
	args := m.Called(ctx, filter, ideaID)
	if drafts := args.Get(0); drafts != nil {
		return drafts.([]*models.ContentDraft), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDraftRepository) List(ctx context.Context, filter repositories.ScopedFilter, limit, offset int) ([]*models.ContentDraft, error) {
	args := m.Called(ctx, filter, limit, offset)
	if drafts := args.Get(0); drafts != nil {
		return drafts.([]*models.ContentDraft), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDraftRepository) MaxVersion(ctx context.Context, orgID, ideaID uuid.UUID) (int, error) {
	args := m.Called(ctx, orgID, ideaID)
	return args.Int(0), args.Error(1)
}

func (m *MockDraftRepository) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, from, to models.DraftStatus) error {
	args := m.Called(ctx, orgID, id, from, to)
	return args.Error(0)
}

func (m *MockDraftRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

func (m *MockDraftRepository) WithTx(tx repositories.Transaction) repositories.DraftRepository {
	return m
}

// MockFeedbackRepository records created feedback for assertions
type MockFeedbackRepository struct {
	mock.Mock
	mu      sync.Mutex
	created []*models.Feedback
}

func (m *MockFeedbackRepository) Create(ctx context.Context, fb *models.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	args := m.Called(ctx, fb)
	m.created = append(m.created, fb)
	return args.Error(0)
}

func (m *MockFeedbackRepository) ListByDraft(ctx context.Context, orgID, draftID uuid.UUID) ([]*models.Feedback, error) {
	args := m.Called(ctx, orgID, draftID)
	if items := args.Get(0); items != nil {
		return items.([]*models.Feedback), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFeedbackRepository) WithTx(tx repositories.Transaction) repositories.FeedbackRepository {
	return m
}

func (m *MockFeedbackRepository) Created() []*models.Feedback {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.created
}

// MockAuditRepository records inserted audit rows for assertions
type MockAuditRepository struct {
	mock.Mock
	mu       sync.Mutex
	inserted []*models.AuditLog
}

func (m *MockAuditRepository) Insert(ctx context.Context, log *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	args := m.Called(ctx, log)
	m.inserted = append(m.inserted, log)
	return args.Error(0)
}

func (m *MockAuditRepository) ListByResource(ctx context.Context, orgID, resourceID uuid.UUID, limit, offset int) ([]*models.AuditLog, error) {
	args := m.Called(ctx, orgID, resourceID, limit, offset)
	if logs := args.Get(0); logs != nil {
		return logs.([]*models.AuditLog), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuditRepository) ListByOrg(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.AuditLog, error) {
	args := m.Called(ctx, orgID, limit, offset)
	if logs := args.Get(0); logs != nil {
		return logs.([]*models.AuditLog), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuditRepository) WithTx(tx repositories.Transaction) repositories.AuditRepository {
	return m
}

func (m *MockAuditRepository) Inserted() []*models.AuditLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inserted
}

// fakeTx is a no-op transaction for service tests
type fakeTx struct {
	ctx context.Context
}

func (t *fakeTx) Commit() error { return nil }

func (t *fakeTx) Rollback() error { return nil }

func (t *fakeTx) Context() context.Context { return t.ctx }

// fakeTxManager hands the callback a no-op transaction
type fakeTxManager struct{}

func (f *fakeTxManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	return &fakeTx{ctx: ctx}, nil
}

func (f *fakeTxManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	return fn(ctx, &fakeTx{ctx: ctx})
}

// recordingNotifier captures notifications for assertions
type recordingNotifier struct {
	mu    sync.Mutex
	kinds []notify.Kind
}

func (n *recordingNotifier) Notify(ctx context.Context, kind notify.Kind, recipient string, payload map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
}

func (n *recordingNotifier) Kinds() []notify.Kind {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.kinds
}
