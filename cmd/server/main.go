// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

// Package main is the entry point for the LinkDrip server.
//
// LinkDrip is a self-hosted URL shortener with click analytics. Visitors
// hitting a short link are redirected to the target URL while the visit is
// recorded with geolocation, user agent classification, and referrer.
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and config.yaml via Koanf v2
//  2. Database: embedded DuckDB holding users, links, and clicks
//  3. GeoIP: ip-api.com resolver with a bounded in-process cache
//  4. Authentication: JWT session cookies
//  5. HTTP server: Chi router under Suture supervision
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (LINKDRIP_ prefix and common shorthands)
//   - Config file (config.yaml or LINKDRIP_CONFIG)
//   - Built-in defaults
//
// Common settings:
//   - HTTP_PORT: listen port (default 8080)
//   - BASE_URL: public origin used to build short URLs
//   - DUCKDB_PATH: database file (default ./data/linkdrip.db)
//   - JWT_SECRET: 32+ character secret, required in production
//   - GEOIP_CACHE_SIZE: bounded lookup cache capacity (default 5000)
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting connections, waits up to 10s for in-flight requests, then
// closes the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/linkdrip/linkdrip/internal/api"
	"github.com/linkdrip/linkdrip/internal/auth"
	"github.com/linkdrip/linkdrip/internal/cache"
	"github.com/linkdrip/linkdrip/internal/clicks"
	"github.com/linkdrip/linkdrip/internal/config"
	"github.com/linkdrip/linkdrip/internal/database"
	"github.com/linkdrip/linkdrip/internal/geoip"
	"github.com/linkdrip/linkdrip/internal/logging"
	"github.com/linkdrip/linkdrip/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().Str("environment", cfg.Server.Environment).Msg("Starting LinkDrip")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close database")
		}
	}()

	var resolver clicks.LocationResolver = geoip.NopResolver{}
	if cfg.GeoIP.Enabled {
		provider := geoip.NewIPAPIProvider(cfg.GeoIP.Endpoint, cfg.GeoIP.Timeout)
		resolver = geoip.NewResolver(provider, cfg.GeoIP.Timeout, cfg.GeoIP.CacheCapacity)
		logging.Info().Str("endpoint", cfg.GeoIP.Endpoint).Msg("GeoIP lookups enabled")
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize session signing")
	}
	session := auth.NewMiddleware(jwtManager, !cfg.IsDevelopment())

	handler := api.NewHandler(
		cfg,
		db,
		clicks.NewRecorder(db, resolver),
		jwtManager,
		session,
		cache.New(time.Minute),
	)
	router := api.NewRouter(handler, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.Add(supervisor.NewHTTPServerService(server, 10*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", addr).Str("base_url", cfg.Server.BaseURL).Msg("Listening")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Fatal().Err(err).Msg("Supervisor terminated with error")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", fmt.Sprintf("%v", svc.Service)).Msg("Service did not stop in time")
		}
	}

	logging.Info().Msg("Shutdown complete")
}
