// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.GeoIP.CacheCapacity != 5000 {
		t.Errorf("expected geoip cache capacity 5000, got %d", cfg.GeoIP.CacheCapacity)
	}
	if cfg.GeoIP.Timeout != 3*time.Second {
		t.Errorf("expected geoip timeout 3s, got %s", cfg.GeoIP.Timeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "relative base url",
			mutate:  func(c *Config) { c.Server.BaseURL = "/short" },
			wantErr: "server.base_url",
		},
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
		{
			name: "production requires jwt secret",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
				c.Security.JWTSecret = "short"
			},
			wantErr: "jwt_secret",
		},
		{
			name: "production with long secret ok",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
				c.Security.JWTSecret = strings.Repeat("s", 32)
			},
			wantErr: "",
		},
		{
			name: "geoip enabled without endpoint",
			mutate: func(c *Config) {
				c.GeoIP.Enabled = true
				c.GeoIP.Endpoint = ""
			},
			wantErr: "geoip.endpoint",
		},
		{
			name: "geoip disabled skips geoip checks",
			mutate: func(c *Config) {
				c.GeoIP.Enabled = false
				c.GeoIP.Endpoint = ""
				c.GeoIP.Timeout = 0
			},
			wantErr: "",
		},
		{
			name:    "negative cache capacity",
			mutate:  func(c *Config) { c.GeoIP.CacheCapacity = -1 },
			wantErr: "cache_capacity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"LINKDRIP_HTTP_PORT", "server.port"},
		{"LINKDRIP_BASE_URL", "server.base_url"},
		{"LINKDRIP_DUCKDB_PATH", "database.path"},
		{"LINKDRIP_JWT_SECRET", "security.jwt_secret"},
		{"LINKDRIP_CORS_ORIGINS", "security.cors_origins"},
		{"LINKDRIP_GEOIP_ENABLED", "geoip.enabled"},
		{"LINKDRIP_GEOIP_CACHE_SIZE", "geoip.cache_capacity"},
		{"LINKDRIP_LOG_LEVEL", "logging.level"},
		{"LINKDRIP_SERVER_HOST", "server.host"},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LINKDRIP_HTTP_PORT", "9090")
	t.Setenv("LINKDRIP_DUCKDB_PATH", ":memory:")
	t.Setenv("LINKDRIP_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LINKDRIP_GEOIP_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("expected :memory: path, got %q", cfg.Database.Path)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORSOrigins) != len(want) {
		t.Fatalf("expected %d cors origins, got %v", len(want), cfg.Security.CORSOrigins)
	}
	for i := range want {
		if cfg.Security.CORSOrigins[i] != want[i] {
			t.Errorf("cors origin %d: got %q, want %q", i, cfg.Security.CORSOrigins[i], want[i])
		}
	}
	if cfg.GeoIP.Enabled {
		t.Error("expected geoip disabled")
	}
}
