package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/contentpulse/contentpulse-backend/config"
	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
)

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn := cfg.DSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("connection", cfg.LogString()))

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query check failed: %w", err)
	}

	return nil
}

// Stats returns database connection pool statistics
func (db *DB) Stats() sql.DBStats {
	return db.DB.Stats()
}

// InitSchema initializes the database schema
func (db *DB) InitSchema(ctx context.Context) error {
	schema := `
		-- Organizations table (tenant boundary)
		CREATE TABLE IF NOT EXISTS organizations (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			slug VARCHAR(100) NOT NULL UNIQUE,
			tier VARCHAR(20) NOT NULL,
			subscription_status VARCHAR(20) NOT NULL,
			max_users INTEGER NOT NULL DEFAULT 5,
			max_storage_mb INTEGER NOT NULL DEFAULT 1024,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Users table (global principals; org relationship lives in memberships)
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			super_admin BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Memberships table
		CREATE TABLE IF NOT EXISTS memberships (
			id UUID PRIMARY KEY,
			org_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role VARCHAR(20) NOT NULL,
			status VARCHAR(20) NOT NULL,
			last_used_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(org_id, user_id)
		);

		-- Ideas table
		CREATE TABLE IF NOT EXISTS ideas (
			id UUID PRIMARY KEY,
			org_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
			creator_id UUID NOT NULL REFERENCES users(id),
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			content_type VARCHAR(20) NOT NULL,
			media_type VARCHAR(20) NOT NULL,
			target_publish_at TIMESTAMP,
			status VARCHAR(20) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Content drafts table (org_id denormalized from ideas)
		CREATE TABLE IF NOT EXISTS content_drafts (
			id UUID PRIMARY KEY,
			org_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
			idea_id UUID NOT NULL REFERENCES ideas(id) ON DELETE CASCADE,
			creator_id UUID NOT NULL REFERENCES users(id),
			body TEXT NOT NULL DEFAULT '',
			content_type VARCHAR(20) NOT NULL,
			status VARCHAR(30) NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Feedback table (append-only)
		CREATE TABLE IF NOT EXISTS feedback (
			id UUID PRIMARY KEY,
			org_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
			draft_id UUID NOT NULL REFERENCES content_drafts(id) ON DELETE CASCADE,
			author_id UUID NOT NULL REFERENCES users(id),
			body TEXT NOT NULL,
			rating INTEGER NOT NULL DEFAULT 0,
			category VARCHAR(20) NOT NULL,
			priority VARCHAR(20) NOT NULL,
			actionable BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Delivery records table (append-only, one row per publish attempt)
		CREATE TABLE IF NOT EXISTS delivery_records (
			id UUID PRIMARY KEY,
			org_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
			draft_id UUID NOT NULL REFERENCES content_drafts(id) ON DELETE CASCADE,
			channel VARCHAR(50) NOT NULL,
			external_id VARCHAR(255),
			status VARCHAR(20) NOT NULL,
			error_detail TEXT,
			attempt INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Audit logs table (workflow transition history)
		CREATE TABLE IF NOT EXISTS audit_logs (
			id UUID PRIMARY KEY,
			org_id UUID NOT NULL REFERENCES organizations(id) ON DELETE CASCADE,
			actor_id UUID REFERENCES users(id) ON DELETE SET NULL,
			action VARCHAR(100) NOT NULL,
			resource_type VARCHAR(100) NOT NULL,
			resource_id UUID,
			from_status VARCHAR(30),
			to_status VARCHAR(30),
			details JSONB,
			request_id VARCHAR(255),
			timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Indexes for performance
		CREATE INDEX IF NOT EXISTS idx_memberships_org_id ON memberships(org_id);
		CREATE INDEX IF NOT EXISTS idx_memberships_user_id ON memberships(user_id);
		CREATE INDEX IF NOT EXISTS idx_memberships_last_used ON memberships(user_id, last_used_at DESC);

		CREATE INDEX IF NOT EXISTS idx_ideas_org_id ON ideas(org_id);
		CREATE INDEX IF NOT EXISTS idx_ideas_status ON ideas(org_id, status);

		CREATE INDEX IF NOT EXISTS idx_content_drafts_org_id ON content_drafts(org_id);
		CREATE INDEX IF NOT EXISTS idx_content_drafts_idea_id ON content_drafts(idea_id);
		CREATE INDEX IF NOT EXISTS idx_content_drafts_status ON content_drafts(org_id, status);

		CREATE INDEX IF NOT EXISTS idx_feedback_draft_id ON feedback(draft_id);
		CREATE INDEX IF NOT EXISTS idx_delivery_records_draft_id ON delivery_records(draft_id);

		CREATE INDEX IF NOT EXISTS idx_audit_logs_org_id ON audit_logs(org_id);
		CREATE INDEX IF NOT EXISTS idx_audit_logs_resource_id ON audit_logs(resource_id);
		CREATE INDEX IF NOT EXISTS idx_audit_logs_timestamp ON audit_logs(timestamp);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.logger.Info("database schema initialized successfully")
	return nil
}
