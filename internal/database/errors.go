// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

package database

import (
	"errors"
	"strings"
)

// Sentinel errors returned by the data access layer. Callers match with
// errors.Is to translate them into HTTP status codes.
var (
	// ErrNotFound is returned when a row does not exist, including
	// owner-scoped lookups where the row exists but belongs to someone
	// else.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint (taken slug, registered email).
	ErrDuplicate = errors.New("duplicate")
)

// isUniqueViolation inspects a driver error for a uniqueness constraint
// failure. DuckDB reports these as constraint errors without a typed
// error value.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "constraint error")
}
