// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core tables and the link id sequence.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// tableCreationQueries returns the table creation SQL statements.
func tableCreationQueries() []string {
	return []string{
		`CREATE SEQUENCE IF NOT EXISTS links_id_seq START 1;`,

		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR PRIMARY KEY,
			email VARCHAR NOT NULL UNIQUE,
			hashed_password VARCHAR NOT NULL,
			display_name VARCHAR NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			plan VARCHAR NOT NULL DEFAULT 'free',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS links (
			id BIGINT PRIMARY KEY,
			slug VARCHAR NOT NULL UNIQUE,
			target_url VARCHAR NOT NULL,
			title VARCHAR,
			tags VARCHAR,
			user_id VARCHAR NOT NULL,
			click_count BIGINT NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT true,
			expires_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS clicks (
			id VARCHAR PRIMARY KEY,
			link_id BIGINT NOT NULL,
			clicked_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			ip_address VARCHAR(45),
			user_agent VARCHAR(500),
			referrer VARCHAR(500),
			country VARCHAR,
			city VARCHAR,
			browser VARCHAR,
			os VARCHAR,
			device VARCHAR
		);`,
	}
}

// createIndexes creates indexes for the hot query paths: slug resolution
// on redirects and link-scoped click scans for analytics.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_links_slug ON links(slug);`,
		`CREATE INDEX IF NOT EXISTS idx_links_user ON links(user_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_clicks_link ON clicks(link_id, clicked_at DESC);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email);`,
	}

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute index query: %s: %w", query, err)
		}
	}

	return nil
}
