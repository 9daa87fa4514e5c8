// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/linkdrip/linkdrip/internal/auth"
	"github.com/linkdrip/linkdrip/internal/cache"
	"github.com/linkdrip/linkdrip/internal/clicks"
	"github.com/linkdrip/linkdrip/internal/config"
	"github.com/linkdrip/linkdrip/internal/database"
	"github.com/linkdrip/linkdrip/internal/geoip"
	"github.com/linkdrip/linkdrip/internal/models"
)

// testEnvelope mirrors models.APIResponse with a raw Data field so each
// test can decode its own payload type.
type testEnvelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error,omitempty"`
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:        "127.0.0.1",
			Port:        8080,
			Timeout:     10 * time.Second,
			BaseURL:     "http://short.test",
			Environment: "development",
		},
		Database: config.DatabaseConfig{
			Path:      ":memory:",
			MaxMemory: "256MB",
			Threads:   1,
		},
		Security: config.SecurityConfig{
			JWTSecret:         "test-secret-used-only-in-unit-tests",
			SessionTimeout:    time.Hour,
			RateLimitReqs:     1000,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: true,
		},
		GeoIP: config.GeoIPConfig{Enabled: false},
	}
}

// newTestServer boots the full route tree against an in-memory database
// and returns a client that keeps cookies and never follows redirects.
func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	cfg := testConfig()

	db, err := database.New(&cfg.Database)
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close database: %v", err)
		}
	})

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("auth.NewJWTManager: %v", err)
	}
	session := auth.NewMiddleware(jwtManager, false)

	handler := NewHandler(
		cfg,
		db,
		clicks.NewRecorder(db, geoip.NopResolver{}),
		jwtManager,
		session,
		cache.New(time.Minute),
	)

	srv := httptest.NewServer(NewRouter(handler, cfg).Setup())
	t.Cleanup(srv.Close)

	return srv, newClient(t)
}

// newClient returns a client with its own cookie jar that never follows
// redirects. Separate clients model separate users against one server.
func newClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// postJSON issues a POST with a JSON body and decodes the envelope.
func postJSON(t *testing.T, client *http.Client, url string, body interface{}) (int, *testEnvelope) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()

	var env testEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response from %s: %v", url, err)
	}
	return resp.StatusCode, &env
}

// patchJSON issues a PATCH with a JSON body and decodes the envelope.
func patchJSON(t *testing.T, client *http.Client, url string, body interface{}) (int, *testEnvelope) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	req, err := http.NewRequest(http.MethodPatch, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("PATCH %s: %v", url, err)
	}
	defer resp.Body.Close()

	var env testEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response from %s: %v", url, err)
	}
	return resp.StatusCode, &env
}

// getJSON issues a GET and decodes the envelope.
func getJSON(t *testing.T, client *http.Client, url string) (int, *testEnvelope) {
	t.Helper()

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	var env testEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response from %s: %v", url, err)
	}
	return resp.StatusCode, &env
}

// registerUser creates an account and leaves its session cookie in the
// client's jar.
func registerUser(t *testing.T, client *http.Client, baseURL, email string) {
	t.Helper()

	status, env := postJSON(t, client, baseURL+"/api/v1/auth/register", models.RegisterRequest{
		Email:       email,
		Password:    "correct-horse-battery",
		DisplayName: "Test User",
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: status = %d, error = %+v", email, status, env.Error)
	}
}

// createLink creates a link for the current session and returns it.
func createLink(t *testing.T, client *http.Client, baseURL string, req models.CreateLinkRequest) *models.Link {
	t.Helper()

	status, env := postJSON(t, client, baseURL+"/api/v1/links", req)
	if status != http.StatusCreated {
		t.Fatalf("create link: status = %d, error = %+v", status, env.Error)
	}

	var link models.Link
	if err := json.Unmarshal(env.Data, &link); err != nil {
		t.Fatalf("decode link: %v", err)
	}
	return &link
}

func linkURL(baseURL string, id int64) string {
	return fmt.Sprintf("%s/api/v1/links/%d", baseURL, id)
}
