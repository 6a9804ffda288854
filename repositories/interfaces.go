package repositories

import (
	"context"
	"errors"

	"github.com/contentpulse/contentpulse-backend/models"
	"github.com/google/uuid"
)

// Sentinel errors returned by repository implementations. Services map these
// onto the domain error taxonomy.
var (
	// ErrNotFound is returned when no row matches an org-scoped lookup
	ErrNotFound = errors.New("record not found")

	// ErrStaleStatus is returned by conditional status updates when the
	// stored status no longer matches the expected "from" state. The
	// transition lost a race and must be retried from a fresh read.
	ErrStaleStatus = errors.New("status changed concurrently")
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// ScopedFilter is the query predicate handed to list operations. It is built
// by the access filter from a resolved organization context; repositories
// never accept a raw org ID for listing, so an unscoped query cannot be
// expressed.
type ScopedFilter interface {
	// OrgID returns the organization the filter is scoped to
	OrgID() uuid.UUID

	// Clause renders the WHERE fragment starting at the given positional
	// argument index, returning the fragment and its arguments
	Clause(argIndex int) (string, []interface{})
}

// OrganizationRepository handles organization data operations
type OrganizationRepository interface {
	// Create creates a new organization
	Create(ctx context.Context, org *models.Organization) error

	// GetByID retrieves an organization by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)

	// GetBySlug retrieves an organization by slug
	GetBySlug(ctx context.Context, slug string) (*models.Organization, error)

	// List retrieves all organizations with pagination
	List(ctx context.Context, limit, offset int) ([]*models.Organization, error)

	// Update updates an organization
	Update(ctx context.Context, org *models.Organization) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) OrganizationRepository
}

// MembershipRepository handles organization membership data operations
type MembershipRepository interface {
	// Create creates a new membership
	Create(ctx context.Context, m *models.Membership) error

	// GetByID retrieves a membership by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Membership, error)

	// GetByOrgAndUser retrieves the membership binding a user to an organization
	GetByOrgAndUser(ctx context.Context, orgID, userID uuid.UUID) (*models.Membership, error)

	// ListActiveByUser retrieves a user's active memberships ordered by
	// most recent use, most recent first
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*models.Membership, error)

	// ListByOrg retrieves all memberships of an organization
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*models.Membership, error)

	// Update updates a membership (role, status, last-used timestamp)
	Update(ctx context.Context, m *models.Membership) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) MembershipRepository
}

// UserRepository handles user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Update updates a user
	Update(ctx context.Context, user *models.User) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) UserRepository
}

// IdeaRepository handles content idea data operations. Every read and write
// is organization-scoped.
type IdeaRepository interface {
	// Create creates a new idea
	Create(ctx context.Context, idea *models.Idea) error

	// GetByID retrieves an idea by ID within an organization
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Idea, error)

	// List retrieves ideas matching the scoped filter with pagination
	List(ctx context.Context, filter ScopedFilter, limit, offset int) ([]*models.Idea, error)

	// Update updates a pending idea's editable fields
	Update(ctx context.Context, idea *models.Idea) error

	// UpdateStatus conditionally moves an idea from one status to another.
	// Returns ErrStaleStatus when the stored status does not match from.
	UpdateStatus(ctx context.Context, orgID, id uuid.UUID, from, to models.IdeaStatus) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) IdeaRepository
}

// DraftRepository handles content draft data operations
type DraftRepository interface {
	// Create creates a new content draft
	Create(ctx context.Context, draft *models.ContentDraft) error

	// GetByID retrieves a draft by ID within an organization
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.ContentDraft, error)

	// ListByIdea retrieves all drafts of an idea, newest version first,
	// restricted to the statuses allowed by the scoped filter
	ListByIdea(ctx context.Context, filter ScopedFilter, ideaID uuid.UUID) ([]*models.ContentDraft, error)

	// List retrieves drafts matching the scoped filter with pagination
	List(ctx context.Context, filter ScopedFilter, limit, offset int) ([]*models.ContentDraft, error)

	// MaxVersion returns the highest draft version for an idea, 0 when none
	MaxVersion(ctx context.Context, orgID, ideaID uuid.UUID) (int, error)

	// UpdateStatus conditionally moves a draft from one status to another.
	// Returns ErrStaleStatus when the stored status does not match from.
	UpdateStatus(ctx context.Context, orgID, id uuid.UUID, from, to models.DraftStatus) error

	// Delete removes a draft within an organization
	Delete(ctx context.Context, orgID, id uuid.UUID) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) DraftRepository
}

// FeedbackRepository handles review feedback. Feedback is append-only.
type FeedbackRepository interface {
	// Create appends a feedback record
	Create(ctx context.Context, fb *models.Feedback) error

	// ListByDraft retrieves all feedback on a draft, oldest first
	ListByDraft(ctx context.Context, orgID, draftID uuid.UUID) ([]*models.Feedback, error)

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) FeedbackRepository
}

// DeliveryRepository handles external-publish delivery records.
// Records are append-only, one per attempt.
type DeliveryRepository interface {
	// Create appends a delivery record
	Create(ctx context.Context, rec *models.DeliveryRecord) error

	// ListByDraft retrieves all delivery records of a draft, oldest first
	ListByDraft(ctx context.Context, orgID, draftID uuid.UUID) ([]*models.DeliveryRecord, error)

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) DeliveryRepository
}

// AuditRepository handles workflow transition history
type AuditRepository interface {
	// Insert inserts a new audit log entry
	Insert(ctx context.Context, log *models.AuditLog) error

	// ListByResource retrieves audit entries for one resource with pagination
	ListByResource(ctx context.Context, orgID, resourceID uuid.UUID, limit, offset int) ([]*models.AuditLog, error)

	// ListByOrg retrieves audit entries for an organization with pagination
	ListByOrg(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]*models.AuditLog, error)

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) AuditRepository
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Organizations OrganizationRepository
	Memberships   MembershipRepository
	Users         UserRepository
	Ideas         IdeaRepository
	Drafts        DraftRepository
	Feedback      FeedbackRepository
	Deliveries    DeliveryRepository
	AuditLogs     AuditRepository
}
