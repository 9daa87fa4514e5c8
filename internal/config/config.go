// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

// Package config loads and validates the LinkDrip application configuration.
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (JWT_SECRET, HTTP_PORT, DUCKDB_PATH, ...)
//   - Config file (config.yaml)
//   - Built-in defaults
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	GeoIP    GeoIPConfig    `koanf:"geoip"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address. Default: 0.0.0.0
	Host string `koanf:"host"`

	// Port is the listen port. Default: 8080
	Port int `koanf:"port"`

	// Timeout is the read/write timeout applied to the HTTP server.
	Timeout time.Duration `koanf:"timeout"`

	// BaseURL is the public origin used to build short URLs in API
	// responses, e.g. "https://lnkdr.ip". Default: http://localhost:8080
	BaseURL string `koanf:"base_url"`

	// Environment is "development" or "production". Production tightens
	// validation (a JWT secret becomes mandatory).
	Environment string `koanf:"environment"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file. ":memory:" is accepted for tests.
	Path string `koanf:"path"`

	// MaxMemory caps DuckDB memory usage, e.g. "1GB".
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. 0 = runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// SecurityConfig holds authentication and rate limiting settings.
type SecurityConfig struct {
	// JWTSecret signs session tokens. Must be at least 32 characters in
	// production.
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTimeout is the JWT/cookie lifetime. Default: 24h
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// RateLimitReqs is the per-IP request budget per window for API routes.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limit window. Default: 1m
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// RateLimitDisabled turns rate limiting off entirely (tests only).
	RateLimitDisabled bool `koanf:"rate_limit_disabled"`

	// CORSOrigins lists allowed cross-origin request origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// GeoIPConfig holds settings for the outbound IP geolocation lookup.
type GeoIPConfig struct {
	// Enabled turns geolocation of click IPs on or off. When off, every
	// click records with country and city absent.
	Enabled bool `koanf:"enabled"`

	// Endpoint is the ip-api.com style JSON endpoint base URL.
	Endpoint string `koanf:"endpoint"`

	// Timeout is the hard per-lookup timeout. Lookups are never retried.
	Timeout time.Duration `koanf:"timeout"`

	// CacheCapacity bounds the in-process result cache. Once full the
	// cache stops inserting; it never evicts. A memory cap, not a
	// freshness guarantee.
	CacheCapacity int `koanf:"cache_capacity"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Server.Environment, "development")
}

// Validate checks the configuration for values that cannot work at runtime.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if u, err := url.Parse(c.Server.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server.base_url must be an absolute URL, got %q", c.Server.BaseURL)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if !c.IsDevelopment() && len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("security.jwt_secret must be at least 32 characters in production")
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("security.session_timeout must be positive, got %s", c.Security.SessionTimeout)
	}
	if c.GeoIP.Enabled {
		if c.GeoIP.Endpoint == "" {
			return fmt.Errorf("geoip.endpoint must not be empty when geoip is enabled")
		}
		if c.GeoIP.Timeout <= 0 {
			return fmt.Errorf("geoip.timeout must be positive, got %s", c.GeoIP.Timeout)
		}
		if c.GeoIP.CacheCapacity < 0 {
			return fmt.Errorf("geoip.cache_capacity must not be negative, got %d", c.GeoIP.CacheCapacity)
		}
	}
	return nil
}
