package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// Timestamps are unix milliseconds so the same DDL and queries run on MySQL,
// PostgreSQL and SQLite.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS plans (
    id VARCHAR(36) PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    price DOUBLE PRECISION NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS subscriptions (
    id VARCHAR(36) PRIMARY KEY,
    user_id VARCHAR(64) NOT NULL,
    plan_id VARCHAR(36) NOT NULL,
    current_period_end BIGINT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS invoices (
    id VARCHAR(36) PRIMARY KEY,
    user_id VARCHAR(64) NOT NULL,
    amount DOUBLE PRECISION NOT NULL,
    items TEXT NOT NULL,
    status VARCHAR(16) NOT NULL,
    due_date BIGINT NOT NULL,
    payment_id VARCHAR(128),
    paid_at BIGINT,
    subscription_id VARCHAR(36),
    billing_period_end BIGINT,
    created_at BIGINT NOT NULL,
    UNIQUE (subscription_id, billing_period_end)
)`,
	`CREATE TABLE IF NOT EXISTS content_flags (
    id VARCHAR(36) PRIMARY KEY,
    content_id VARCHAR(64) NOT NULL,
    content_type VARCHAR(64) NOT NULL,
    reported_by VARCHAR(64) NOT NULL,
    reason TEXT NOT NULL,
    status VARCHAR(16) NOT NULL,
    moderator_id VARCHAR(64),
    moderator_notes TEXT,
    reviewed_at BIGINT,
    created_at BIGINT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS user_bans (
    id VARCHAR(36) PRIMARY KEY,
    user_id VARCHAR(64) NOT NULL,
    reason TEXT NOT NULL,
    banned_until BIGINT NOT NULL,
    created_at BIGINT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS campaign_events (
    id VARCHAR(36) PRIMARY KEY,
    campaign_id VARCHAR(64) NOT NULL,
    kind VARCHAR(16) NOT NULL,
    created_at BIGINT NOT NULL
)`,
}

// EnsureSchema creates the tables used by the repositories when they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
