// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

package api

import (
	"net/http"
	"testing"

	"github.com/goccy/go-json"

	"github.com/linkdrip/linkdrip/internal/models"
)

func TestLinkAnalytics(t *testing.T) {
	srv, client := newTestServer(t)
	registerUser(t, client, srv.URL, "stats@example.com")

	link := createLink(t, client, srv.URL, models.CreateLinkRequest{
		TargetURL: "https://example.com/tracked",
	})
	shortURL := srv.URL + "/" + link.Slug

	const iphoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (Version/17.0 Mobile/15E148 Safari/604.1)"
	for i := 0; i < 2; i++ {
		req, err := http.NewRequest(http.MethodGet, shortURL, nil)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		req.Header.Set("User-Agent", iphoneUA)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("visit: %v", err)
		}
		resp.Body.Close()
	}

	status, env := getJSON(t, client, linkURL(srv.URL, link.ID)+"/analytics")
	if status != http.StatusOK {
		t.Fatalf("analytics: status = %d, error = %+v", status, env.Error)
	}
	if env.Metadata.Cached {
		t.Error("first read reported cached")
	}

	var stats models.LinkStats
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalClicks != 2 {
		t.Errorf("total_clicks = %d, want 2", stats.TotalClicks)
	}
	if len(stats.Devices) != 1 || stats.Devices[0].Name != "Mobile" || stats.Devices[0].Count != 2 {
		t.Errorf("devices = %+v, want one Mobile bucket of 2", stats.Devices)
	}
	if len(stats.RecentClicks) != 2 {
		t.Errorf("recent clicks = %d, want 2", len(stats.RecentClicks))
	}
	if len(stats.ClicksByDay) != 1 || stats.ClicksByDay[0].Count != 2 {
		t.Errorf("clicks_by_day = %+v, want single bucket of 2", stats.ClicksByDay)
	}
	// Loopback test traffic carries no geolocation.
	if len(stats.Countries) != 0 {
		t.Errorf("countries = %+v, want empty", stats.Countries)
	}

	// The second read within the TTL is served from cache.
	status, env = getJSON(t, client, linkURL(srv.URL, link.ID)+"/analytics")
	if status != http.StatusOK {
		t.Fatalf("cached analytics: status = %d", status)
	}
	if !env.Metadata.Cached {
		t.Error("second read not served from cache")
	}
}

func TestLinkAnalyticsForeignLink(t *testing.T) {
	srv, owner := newTestServer(t)
	registerUser(t, owner, srv.URL, "stats-owner@example.com")
	link := createLink(t, owner, srv.URL, models.CreateLinkRequest{
		TargetURL: "https://example.com/mine",
	})

	other := newClient(t)
	registerUser(t, other, srv.URL, "stats-other@example.com")

	status, env := getJSON(t, other, linkURL(srv.URL, link.ID)+"/analytics")
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", status, http.StatusNotFound)
	}
	if env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("error = %+v, want NOT_FOUND", env.Error)
	}
}
