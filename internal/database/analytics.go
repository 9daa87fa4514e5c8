// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/linkdrip/linkdrip/internal/metrics"
	"github.com/linkdrip/linkdrip/internal/models"
)

// GetLinkStats computes the analytics aggregate for one link. All seven
// results are independent read-only queries over the link's clicks; an
// empty click set yields total 0 and empty collections.
func (db *DB) GetLinkStats(ctx context.Context, linkID int64) (*models.LinkStats, error) {
	start := time.Now()
	stats, err := db.buildLinkStats(ctx, linkID)
	metrics.RecordDBQuery("aggregate", "clicks", time.Since(start), err)
	return stats, err
}

func (db *DB) buildLinkStats(ctx context.Context, linkID int64) (*models.LinkStats, error) {
	stats := &models.LinkStats{
		Countries:        []models.BucketCount{},
		Browsers:         []models.BucketCount{},
		OperatingSystems: []models.BucketCount{},
		Devices:          []models.BucketCount{},
		Referrers:        []models.BucketCount{},
		ClicksByDay:      []models.DailyCount{},
		RecentClicks:     []models.Click{},
		GeneratedAt:      time.Now().UTC(),
	}

	err := db.conn.QueryRowContext(ctx,
		`SELECT count(*) FROM clicks WHERE link_id = ?`, linkID).Scan(&stats.TotalClicks)
	if err != nil {
		return nil, fmt.Errorf("failed to count clicks: %w", err)
	}

	if stats.Countries, err = db.bucketCounts(ctx, linkID, "country", 10); err != nil {
		return nil, err
	}
	if stats.Browsers, err = db.bucketCounts(ctx, linkID, "browser", 10); err != nil {
		return nil, err
	}
	if stats.OperatingSystems, err = db.bucketCounts(ctx, linkID, "os", 10); err != nil {
		return nil, err
	}
	if stats.Devices, err = db.bucketCounts(ctx, linkID, "device", 0); err != nil {
		return nil, err
	}
	if stats.Referrers, err = db.referrerCounts(ctx, linkID); err != nil {
		return nil, err
	}
	if stats.ClicksByDay, err = db.dailyCounts(ctx, linkID); err != nil {
		return nil, err
	}
	if stats.RecentClicks, err = db.recentClicks(ctx, linkID, 20); err != nil {
		return nil, err
	}

	return stats, nil
}

// bucketCounts groups non-null values of column, ordered by count
// descending with name ascending as the deterministic tiebreak. A limit
// of 0 means no limit (used for the device breakdown).
func (db *DB) bucketCounts(ctx context.Context, linkID int64, column string, limit int) ([]models.BucketCount, error) {
	// column is one of a fixed set of identifiers, never user input.
	query := fmt.Sprintf(
		`SELECT %s, count(*) AS n FROM clicks
		 WHERE link_id = ? AND %s IS NOT NULL
		 GROUP BY %s ORDER BY n DESC, %s ASC`, column, column, column, column)
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	return db.queryBuckets(ctx, query, linkID)
}

// referrerCounts is the referrer variant of bucketCounts: empty-string
// referrers are excluded alongside nulls.
func (db *DB) referrerCounts(ctx context.Context, linkID int64) ([]models.BucketCount, error) {
	return db.queryBuckets(ctx,
		`SELECT referrer, count(*) AS n FROM clicks
		 WHERE link_id = ? AND referrer IS NOT NULL AND referrer != ''
		 GROUP BY referrer ORDER BY n DESC, referrer ASC LIMIT 10`, linkID)
}

func (db *DB) queryBuckets(ctx context.Context, query string, linkID int64) ([]models.BucketCount, error) {
	rows, err := db.conn.QueryContext(ctx, query, linkID)
	if err != nil {
		return nil, fmt.Errorf("failed to query buckets: %w", err)
	}
	defer closeQuietly(rows)

	buckets := []models.BucketCount{}
	for rows.Next() {
		var b models.BucketCount
		if err := rows.Scan(&b.Name, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// dailyCounts returns per-day click counts for the trailing 30 days,
// ascending by UTC calendar day. Days without clicks do not appear.
func (db *DB) dailyCounts(ctx context.Context, linkID int64) ([]models.DailyCount, error) {
	since := time.Now().UTC().AddDate(0, 0, -30)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT strftime(CAST(clicked_at AS DATE), '%Y-%m-%d') AS day, count(*)
		 FROM clicks WHERE link_id = ? AND clicked_at >= ?
		 GROUP BY day ORDER BY day ASC`, linkID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily counts: %w", err)
	}
	defer closeQuietly(rows)

	days := []models.DailyCount{}
	for rows.Next() {
		var d models.DailyCount
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, fmt.Errorf("failed to scan daily count: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// recentClicks returns the newest clicks first.
func (db *DB) recentClicks(ctx context.Context, linkID int64, limit int) ([]models.Click, error) {
	rows, err := db.conn.QueryContext(ctx,
		clickSelect+` WHERE link_id = ? ORDER BY clicked_at DESC, id DESC LIMIT ?`, linkID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent clicks: %w", err)
	}
	defer closeQuietly(rows)

	return scanClicks(rows)
}

// GetClicksForExport returns every click of a link ordered by clicked_at
// descending, for CSV export.
func (db *DB) GetClicksForExport(ctx context.Context, linkID int64) ([]models.Click, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		clickSelect+` WHERE link_id = ? ORDER BY clicked_at DESC, id DESC`, linkID)
	metrics.RecordDBQuery("select", "clicks", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query clicks for export: %w", err)
	}
	defer closeQuietly(rows)

	return scanClicks(rows)
}

const clickSelect = `SELECT id, link_id, clicked_at, ip_address, user_agent, referrer, country, city, browser, os, device FROM clicks`

func scanClicks(rows *sql.Rows) ([]models.Click, error) {
	clicks := []models.Click{}
	for rows.Next() {
		var (
			c         models.Click
			ipAddress sql.NullString
			userAgent sql.NullString
		)
		err := rows.Scan(&c.ID, &c.LinkID, &c.ClickedAt, &ipAddress, &userAgent,
			&c.Referrer, &c.Country, &c.City, &c.Browser, &c.OS, &c.Device)
		if err != nil {
			return nil, fmt.Errorf("failed to scan click: %w", err)
		}
		c.IPAddress = ipAddress.String
		c.UserAgent = userAgent.String
		clicks = append(clicks, c)
	}
	return clicks, rows.Err()
}
