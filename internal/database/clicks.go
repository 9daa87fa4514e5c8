// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/linkdrip/linkdrip/internal/logging"
	"github.com/linkdrip/linkdrip/internal/metrics"
	"github.com/linkdrip/linkdrip/internal/models"
)

// InsertClick persists a click and increments the owning link's
// click_count in the same transaction. Either both happen or neither
// does. The counter update is a row-level increment, not an app-level
// read-modify-write, so concurrent clicks on one link never lose
// increments.
func (db *DB) InsertClick(ctx context.Context, click *models.Click) (err error) {
	if click.ID == "" {
		click.ID = uuid.NewString()
	}
	if click.ClickedAt.IsZero() {
		click.ClickedAt = time.Now().UTC()
	}

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("insert", "clicks", time.Since(start), err)
	}()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().Err(rbErr).AnErr("original_error", err).Msg("Transaction rollback failed")
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO clicks (id, link_id, clicked_at, ip_address, user_agent, referrer, country, city, browser, os, device)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		click.ID, click.LinkID, click.ClickedAt, nullIfEmpty(click.IPAddress), nullIfEmpty(click.UserAgent),
		click.Referrer, click.Country, click.City, click.Browser, click.OS, click.Device)
	if err != nil {
		return fmt.Errorf("failed to insert click: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE links SET click_count = click_count + 1 WHERE id = ?`, click.LinkID)
	if err != nil {
		return fmt.Errorf("failed to increment click count: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit click: %w", err)
	}
	return nil
}
