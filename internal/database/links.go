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
	"strings"
	"time"

	"github.com/linkdrip/linkdrip/internal/logging"
	"github.com/linkdrip/linkdrip/internal/metrics"
	"github.com/linkdrip/linkdrip/internal/models"
)

const linkColumns = `id, slug, target_url, title, tags, user_id, click_count, is_active, expires_at, created_at, updated_at`

// NextLinkID reserves the next link id from the sequence. The id is
// consumed even if the subsequent insert fails; gaps are acceptable.
func (db *DB) NextLinkID(ctx context.Context) (int64, error) {
	var id int64
	err := db.conn.QueryRowContext(ctx, `SELECT nextval('links_id_seq')`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to reserve link id: %w", err)
	}
	return id, nil
}

// CreateLink inserts a link with a pre-assigned id and slug. Returns
// ErrDuplicate when the slug is already taken.
func (db *DB) CreateLink(ctx context.Context, link *models.Link) error {
	now := time.Now().UTC()
	link.CreatedAt = now
	link.UpdatedAt = now

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO links (id, slug, target_url, title, tags, user_id, click_count, is_active, expires_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?)`,
		link.ID, link.Slug, link.TargetURL, nullIfEmpty(link.Title), joinTags(link.Tags),
		link.UserID, link.IsActive, link.ExpiresAt, link.CreatedAt, link.UpdatedAt)
	metrics.RecordDBQuery("insert", "links", time.Since(start), err)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("slug %s: %w", link.Slug, ErrDuplicate)
		}
		return fmt.Errorf("failed to insert link: %w", err)
	}

	return nil
}

// SlugExists reports whether any link already uses slug.
func (db *DB) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, `SELECT count(*) FROM links WHERE slug = ?`, slug).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return n > 0, nil
}

// GetLinkBySlug returns the link with the given slug, or ErrNotFound.
// Used by the public redirect path, so it is not owner-scoped.
func (db *DB) GetLinkBySlug(ctx context.Context, slug string) (*models.Link, error) {
	return db.getLink(ctx, `SELECT `+linkColumns+` FROM links WHERE slug = ?`, slug)
}

// GetLinkForOwner returns the link with the given id if it belongs to
// userID. A link owned by someone else yields ErrNotFound, not a
// permission error, to avoid leaking link existence.
func (db *DB) GetLinkForOwner(ctx context.Context, id int64, userID string) (*models.Link, error) {
	return db.getLink(ctx, `SELECT `+linkColumns+` FROM links WHERE id = ? AND user_id = ?`, id, userID)
}

func (db *DB) getLink(ctx context.Context, query string, args ...interface{}) (*models.Link, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx, query, args...)
	link, err := scanLink(row)
	metrics.RecordDBQuery("select", "links", time.Since(start), err)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query link: %w", err)
	}
	return link, nil
}

// ListLinks returns userID's links newest first, optionally filtered by
// a search term (matched against slug, title and target URL) and a tag.
func (db *DB) ListLinks(ctx context.Context, userID, search, tag string) ([]models.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE user_id = ?`
	args := []interface{}{userID}

	if search != "" {
		query += ` AND (slug ILIKE ? OR title ILIKE ? OR target_url ILIKE ?)`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if tag != "" {
		// Tags are stored comma-joined; match the tag as a whole element.
		query += ` AND (',' || coalesce(tags, '') || ',') LIKE ?`
		args = append(args, "%,"+tag+",%")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("select", "links", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer closeQuietly(rows)

	var links []models.Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, *link)
	}
	return links, rows.Err()
}

// UpdateLink applies non-nil fields of req to the owner's link and
// returns the updated row. Returns ErrNotFound for missing or
// foreign-owned links.
func (db *DB) UpdateLink(ctx context.Context, id int64, userID string, req *models.UpdateLinkRequest) (*models.Link, error) {
	link, err := db.GetLinkForOwner(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.TargetURL != nil {
		link.TargetURL = *req.TargetURL
	}
	if req.Title != nil {
		link.Title = *req.Title
	}
	if req.Tags != nil {
		link.Tags = *req.Tags
	}
	if req.IsActive != nil {
		link.IsActive = *req.IsActive
	}
	if req.ExpiresAt != nil {
		link.ExpiresAt = req.ExpiresAt
	}
	link.UpdatedAt = time.Now().UTC()

	start := time.Now()
	_, err = db.conn.ExecContext(ctx,
		`UPDATE links SET target_url = ?, title = ?, tags = ?, is_active = ?, expires_at = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		link.TargetURL, nullIfEmpty(link.Title), joinTags(link.Tags), link.IsActive,
		link.ExpiresAt, link.UpdatedAt, id, userID)
	metrics.RecordDBQuery("update", "links", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to update link: %w", err)
	}

	return link, nil
}

// DeleteLink removes the owner's link and cascades to its clicks.
// Returns ErrNotFound for missing or foreign-owned links.
func (db *DB) DeleteLink(ctx context.Context, id int64, userID string) (err error) {
	if _, err := db.GetLinkForOwner(ctx, id, userID); err != nil {
		return err
	}

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

	start := time.Now()
	if _, err = tx.ExecContext(ctx, `DELETE FROM clicks WHERE link_id = ?`, id); err != nil {
		metrics.RecordDBQuery("delete", "clicks", time.Since(start), err)
		return fmt.Errorf("failed to delete clicks: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM links WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		metrics.RecordDBQuery("delete", "links", time.Since(start), err)
		return fmt.Errorf("failed to delete link: %w", err)
	}
	metrics.RecordDBQuery("delete", "links", time.Since(start), nil)

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanLink.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLink(row rowScanner) (*models.Link, error) {
	var (
		link      models.Link
		title     sql.NullString
		tags      sql.NullString
		expiresAt sql.NullTime
	)
	err := row.Scan(&link.ID, &link.Slug, &link.TargetURL, &title, &tags, &link.UserID,
		&link.ClickCount, &link.IsActive, &expiresAt, &link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		return nil, err
	}
	link.Title = title.String
	link.Tags = splitTags(tags.String)
	if expiresAt.Valid {
		t := expiresAt.Time
		link.ExpiresAt = &t
	}
	return &link, nil
}

func joinTags(tags []string) interface{} {
	if len(tags) == 0 {
		return nil
	}
	return strings.Join(tags, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
