// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

// Package api implements the HTTP surface: the public redirect route, the
// authentication endpoints, and the authenticated link management and
// analytics API.
package api

import (
	"strings"
	"time"

	"github.com/linkdrip/linkdrip/internal/auth"
	"github.com/linkdrip/linkdrip/internal/cache"
	"github.com/linkdrip/linkdrip/internal/clicks"
	"github.com/linkdrip/linkdrip/internal/config"
	"github.com/linkdrip/linkdrip/internal/database"
	"github.com/linkdrip/linkdrip/internal/models"
)

// analyticsCacheTTL bounds staleness of cached per-link stats.
const analyticsCacheTTL = 60 * time.Second

// Handler bundles the dependencies every endpoint needs.
type Handler struct {
	cfg      *config.Config
	db       *database.DB
	recorder *clicks.Recorder
	jwt      *auth.JWTManager
	session  *auth.Middleware
	cache    *cache.Cache

	startTime time.Time
}

// NewHandler creates the API handler.
func NewHandler(
	cfg *config.Config,
	db *database.DB,
	recorder *clicks.Recorder,
	jwtManager *auth.JWTManager,
	session *auth.Middleware,
	statsCache *cache.Cache,
) *Handler {
	return &Handler{
		cfg:       cfg,
		db:        db,
		recorder:  recorder,
		jwt:       jwtManager,
		session:   session,
		cache:     statsCache,
		startTime: time.Now(),
	}
}

// withShortURL fills the derived short URL from the configured base URL.
func (h *Handler) withShortURL(link *models.Link) {
	base := strings.TrimRight(h.cfg.Server.BaseURL, "/")
	link.ShortURL = base + "/" + link.Slug
}
