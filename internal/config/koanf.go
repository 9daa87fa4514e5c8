// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "LINKDRIP_"

// defaultConfig returns the built-in defaults. Every field has a working
// development value; production deployments only need to set a JWT secret
// and a persistent database path.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			BaseURL:     "http://localhost:8080",
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:      "linkdrip.db",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Security: SecurityConfig{
			SessionTimeout:  24 * time.Hour,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"http://localhost:3000"},
		},
		GeoIP: GeoIPConfig{
			Enabled:       true,
			Endpoint:      "http://ip-api.com/json",
			Timeout:       3 * time.Second,
			CacheCapacity: 5000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration by layering defaults, an optional YAML
// config file and environment variables, then validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	processSliceFields(k)

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first config file that exists, checking the
// LINKDRIP_CONFIG env var first and then conventional locations.
func findConfigFile() string {
	if path := os.Getenv("LINKDRIP_CONFIG"); path != "" {
		return path
	}
	candidates := []string{
		"config.yaml",
		"config.yml",
		"/etc/linkdrip/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps LINKDRIP_* environment variables onto config keys.
// Flat variables with well-known names map explicitly; anything else maps
// positionally with underscores as separators (LINKDRIP_SERVER_PORT ->
// server.port), which only works for single-word keys.
func envTransformFunc(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))

	mappings := map[string]string{
		"http_host":           "server.host",
		"http_port":           "server.port",
		"http_timeout":        "server.timeout",
		"base_url":            "server.base_url",
		"environment":         "server.environment",
		"duckdb_path":         "database.path",
		"duckdb_max_memory":   "database.max_memory",
		"duckdb_threads":      "database.threads",
		"jwt_secret":          "security.jwt_secret",
		"session_timeout":     "security.session_timeout",
		"rate_limit_reqs":     "security.rate_limit_reqs",
		"rate_limit_window":   "security.rate_limit_window",
		"rate_limit_disabled": "security.rate_limit_disabled",
		"cors_origins":        "security.cors_origins",
		"geoip_enabled":       "geoip.enabled",
		"geoip_endpoint":      "geoip.endpoint",
		"geoip_timeout":       "geoip.timeout",
		"geoip_cache_size":    "geoip.cache_capacity",
		"log_level":           "logging.level",
		"log_format":          "logging.format",
		"log_caller":          "logging.caller",
	}
	if mapped, ok := mappings[s]; ok {
		return mapped
	}
	return strings.ReplaceAll(s, "_", ".")
}

// processSliceFields splits comma-separated env values into slices for the
// config keys that are []string. Koanf's env provider delivers them as a
// single string.
func processSliceFields(k *koanf.Koanf) {
	sliceFields := []string{
		"security.cors_origins",
	}
	for _, field := range sliceFields {
		raw := k.String(field)
		if raw == "" || strings.HasPrefix(raw, "[") {
			continue
		}
		parts := strings.Split(raw, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		_ = k.Set(field, out)
	}
}
