package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/contentpulse/contentpulse-backend/auth"
	"github.com/contentpulse/contentpulse-backend/config"
	"github.com/contentpulse/contentpulse-backend/handlers"
	"github.com/contentpulse/contentpulse-backend/middleware"
	"github.com/contentpulse/contentpulse-backend/repositories"
	"github.com/contentpulse/contentpulse-backend/repositories/postgres"
	"github.com/contentpulse/contentpulse-backend/services/channels"
	"github.com/contentpulse/contentpulse-backend/services/channels/linkedin"
	"github.com/contentpulse/contentpulse-backend/services/channels/x"
	"github.com/contentpulse/contentpulse-backend/services/notify"
	"github.com/contentpulse/contentpulse-backend/services/publish"
	"github.com/contentpulse/contentpulse-backend/services/tenancy"
	"github.com/contentpulse/contentpulse-backend/services/workflow"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Organizations repositories.OrganizationRepository
	Memberships   repositories.MembershipRepository
	Users         repositories.UserRepository
	Ideas         repositories.IdeaRepository
	Drafts        repositories.DraftRepository
	Feedback      repositories.FeedbackRepository
	Deliveries    repositories.DeliveryRepository
	AuditLogs     repositories.AuditRepository
	TxManager     repositories.TransactionManager

	// Channel Registry
	ChannelRegistry *channels.Registry

	// Services
	Notifier     notify.Notifier
	IdeaService  *workflow.IdeaService
	DraftService *workflow.DraftService
	Coordinator  *publish.Coordinator

	// Auth and tenancy
	TokenValidator    *auth.TokenValidator
	AuthMiddleware    *middleware.AuthMiddleware
	TenancyMiddleware *middleware.TenancyMiddleware

	// Handlers
	OrganizationHandler *handlers.OrganizationHandler
	IdeaHandler         *handlers.IdeaHandler
	DraftHandler        *handlers.DraftHandler
	PublishHandler      *handlers.PublishHandler
	AuditHandler        *handlers.AuditHandler
	HealthHandler       *handlers.HealthHandler
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	// Initialize PostgreSQL
	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize repositories
	deps.initRepositories()

	// Initialize channel registry
	if err := deps.initChannels(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize channels: %w", err)
	}

	// Initialize services, auth and handlers
	deps.initServices(cfg)
	deps.initAuth(cfg)
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL database connection and factory
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	// Test the connection
	if err := d.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if err := d.DB.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()

	d.Organizations = repos.Organizations
	d.Memberships = repos.Memberships
	d.Users = repos.Users
	d.Ideas = repos.Ideas
	d.Drafts = repos.Drafts
	d.Feedback = repos.Feedback
	d.Deliveries = repos.Deliveries
	d.AuditLogs = repos.AuditLogs
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

// initChannels initializes the channel registry with configured adapters
func (d *Dependencies) initChannels(cfg *config.Config) error {
	registry := channels.NewRegistry()

	// Register LinkedIn channel if configured
	if cfg.Channels.LinkedIn.AccessToken != "" {
		adapter := linkedin.NewLinkedInAdapter(channels.ChannelConfig{
			AccessToken: cfg.Channels.LinkedIn.AccessToken,
			BaseURL:     cfg.Channels.LinkedIn.BaseURL,
			Timeout:     cfg.Channels.LinkedIn.Timeout,
		}, cfg.Channels.LinkedIn.AuthorURN)
		if err := registry.Register(adapter); err != nil {
			return err
		}
		d.Logger.Info("registered LinkedIn channel")
	}

	// Register X channel if configured
	if cfg.Channels.X.BearerToken != "" {
		adapter := x.NewXAdapter(channels.ChannelConfig{
			AccessToken: cfg.Channels.X.BearerToken,
			BaseURL:     cfg.Channels.X.BaseURL,
			Timeout:     cfg.Channels.X.Timeout,
		})
		if err := registry.Register(adapter); err != nil {
			return err
		}
		d.Logger.Info("registered X channel")
	}

	if registry.Count() == 0 {
		d.Logger.Warn("no delivery channels configured, publishing is disabled")
	}

	d.ChannelRegistry = registry
	return nil
}

// initServices initializes the workflow and publish services
func (d *Dependencies) initServices(cfg *config.Config) {
	d.Notifier = notify.NewAsyncNotifier(notify.NewLogSender(d.Logger), d.Logger)

	d.IdeaService = workflow.NewIdeaService(
		d.Ideas, d.Drafts, d.AuditLogs, d.TxManager, d.Notifier, d.Logger)

	d.DraftService = workflow.NewDraftService(
		d.Drafts, d.Ideas, d.Feedback, d.AuditLogs, d.TxManager, d.Notifier, d.Logger)

	d.Coordinator = publish.NewCoordinator(
		d.Drafts, d.Deliveries, d.DraftService, d.ChannelRegistry,
		publish.RetryPolicy{
			MaxAttempts: cfg.Publish.MaxAttempts,
			BaseDelay:   cfg.Publish.BaseDelay,
			Multiplier:  cfg.Publish.Multiplier,
		},
		d.Logger)

	d.Logger.Info("services initialized")
}

// initAuth initializes JWT validation and the request middleware stack
func (d *Dependencies) initAuth(cfg *config.Config) {
	d.TokenValidator = auth.NewTokenValidator(cfg.Auth)
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.TokenValidator, d.Logger)

	resolver := tenancy.NewResolver(d.Organizations, d.Memberships, d.Logger)
	d.TenancyMiddleware = middleware.NewTenancyMiddleware(resolver, d.Memberships, d.Logger)
}

// initHandlers initializes all HTTP handlers
func (d *Dependencies) initHandlers() {
	d.OrganizationHandler = handlers.NewOrganizationHandler(
		d.Organizations, d.Memberships, d.Users, d.AuditLogs, d.TxManager, d.Notifier, d.Logger)
	d.IdeaHandler = handlers.NewIdeaHandler(d.IdeaService, d.Logger)
	d.DraftHandler = handlers.NewDraftHandler(d.DraftService, d.Logger)
	d.PublishHandler = handlers.NewPublishHandler(d.Coordinator, d.Logger)
	d.AuditHandler = handlers.NewAuditHandler(d.AuditLogs, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.DB.DB, d.Logger)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
