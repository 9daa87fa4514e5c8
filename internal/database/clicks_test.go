// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

package database

import (
	"context"
	"sync"
	"testing"

	"github.com/linkdrip/linkdrip/internal/models"
)

func TestInsertClickIncrementsCounter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice@example.com")
	link := createTestLink(t, db, user.ID, "counted")

	country := "Germany"
	browser := "Chrome 120"
	err := db.InsertClick(ctx, &models.Click{
		LinkID:    link.ID,
		IPAddress: "203.0.113.1",
		UserAgent: "Mozilla/5.0",
		Country:   &country,
		Browser:   &browser,
	})
	if err != nil {
		t.Fatalf("insert click failed: %v", err)
	}

	got, err := db.GetLinkBySlug(ctx, "counted")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got.ClickCount != 1 {
		t.Errorf("expected click_count 1, got %d", got.ClickCount)
	}

	var clickRows int64
	err = db.Conn().QueryRowContext(ctx, `SELECT count(*) FROM clicks WHERE link_id = ?`, link.ID).Scan(&clickRows)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if clickRows != got.ClickCount {
		t.Errorf("click_count %d diverged from click rows %d", got.ClickCount, clickRows)
	}
}

func TestInsertClickNullableFields(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice@example.com")
	link := createTestLink(t, db, user.ID, "bare")

	// A click with no geo, UA or referrer data still persists.
	if err := db.InsertClick(ctx, &models.Click{LinkID: link.ID}); err != nil {
		t.Fatalf("insert click failed: %v", err)
	}

	clicks, err := db.GetClicksForExport(ctx, link.ID)
	if err != nil {
		t.Fatalf("export query failed: %v", err)
	}
	if len(clicks) != 1 {
		t.Fatalf("expected 1 click, got %d", len(clicks))
	}
	c := clicks[0]
	if c.Country != nil || c.City != nil || c.Browser != nil || c.OS != nil || c.Device != nil || c.Referrer != nil {
		t.Errorf("expected nil optional fields, got %+v", c)
	}
	if c.ClickedAt.IsZero() {
		t.Error("expected clicked_at to be set on insert")
	}
}

func TestInsertClickConcurrentNoLostIncrements(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice@example.com")
	link := createTestLink(t, db, user.ID, "contended")

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- db.InsertClick(ctx, &models.Click{LinkID: link.ID, IPAddress: "203.0.113.9"})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent insert failed: %v", err)
		}
	}

	got, err := db.GetLinkBySlug(ctx, "contended")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got.ClickCount != n {
		t.Errorf("expected click_count %d, got %d (lost increments)", n, got.ClickCount)
	}
}
