// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/linkdrip/linkdrip/internal/database"
	"github.com/linkdrip/linkdrip/internal/logging"
	"github.com/linkdrip/linkdrip/internal/metrics"
)

// reservedPaths are first segments the redirect route must never treat as
// slugs. A fixed allowlist of exclusions, not derived from the slug grammar.
var reservedPaths = map[string]struct{}{
	"api":          {},
	"dashboard":    {},
	"login":        {},
	"register":     {},
	"logout":       {},
	"health":       {},
	"static":       {},
	"docs":         {},
	"openapi.json": {},
	"redoc":        {},
	"metrics":      {},
	"favicon.ico":  {},
	"robots.txt":   {},
	"sitemap.xml":  {},
}

// Redirect resolves a slug to its target URL and answers 302. GET requests
// record a click before the redirect is written; HEAD requests never do, so
// probing and link previews do not inflate counts. Recording failures are
// logged and swallowed, the visitor is redirected regardless.
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if _, reserved := reservedPaths[slug]; reserved {
		http.NotFound(w, r)
		return
	}

	link, err := h.db.GetLinkBySlug(r.Context(), slug)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			logging.Error().Err(err).Str("slug", sanitizeLogValue(slug)).Msg("Slug lookup failed")
		}
		metrics.RecordRedirect(false)
		http.NotFound(w, r)
		return
	}

	if !link.IsActive || link.Expired(time.Now().UTC()) {
		metrics.RecordRedirect(false)
		http.NotFound(w, r)
		return
	}

	metrics.RecordRedirect(true)

	if r.Method == http.MethodGet {
		h.recorder.Record(r.Context(), link, clientIP(r), r.Referer(), r.UserAgent())
	}

	http.Redirect(w, r, link.TargetURL, http.StatusFound)
}
