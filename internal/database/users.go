// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/linkdrip/linkdrip/internal/metrics"
	"github.com/linkdrip/linkdrip/internal/models"
)

// CreateUser inserts a new user and returns it with id and created_at
// populated. Returns ErrDuplicate if the email is already registered.
func (db *DB) CreateUser(ctx context.Context, email, hashedPassword, displayName string) (*models.User, error) {
	user := &models.User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: hashedPassword,
		DisplayName:    displayName,
		IsActive:       true,
		Plan:           "free",
		CreatedAt:      time.Now().UTC(),
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, hashed_password, display_name, is_active, plan, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.HashedPassword, user.DisplayName, user.IsActive, user.Plan, user.CreatedAt)
	metrics.RecordDBQuery("insert", "users", time.Since(start), err)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("email %s: %w", email, ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

// GetUserByEmail returns the user with the given email, or ErrNotFound.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return db.getUser(ctx, `SELECT id, email, hashed_password, display_name, is_active, plan, created_at
		FROM users WHERE email = ?`, email)
}

// GetUserByID returns the user with the given id, or ErrNotFound.
func (db *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return db.getUser(ctx, `SELECT id, email, hashed_password, display_name, is_active, plan, created_at
		FROM users WHERE id = ?`, id)
}

func (db *DB) getUser(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx, query, arg)

	var user models.User
	err := row.Scan(&user.ID, &user.Email, &user.HashedPassword, &user.DisplayName,
		&user.IsActive, &user.Plan, &user.CreatedAt)
	metrics.RecordDBQuery("select", "users", time.Since(start), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}
