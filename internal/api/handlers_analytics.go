// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

package api

import (
	"net/http"
	"time"

	"github.com/linkdrip/linkdrip/internal/cache"
	"github.com/linkdrip/linkdrip/internal/metrics"
	"github.com/linkdrip/linkdrip/internal/models"
)

func statsCacheKey(linkID int64) string {
	return cache.GenerateKey("link_stats", map[string]interface{}{"link_id": linkID})
}

// LinkAnalytics returns aggregated click statistics for an owned link.
// Results are cached briefly so dashboard polling does not hammer the
// aggregation queries.
func (h *Handler) LinkAnalytics(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := h.linkRequest(w, r)
	if !ok {
		return
	}

	// Ownership gate before any cache read. Owner mismatch is a 404.
	if _, err := h.db.GetLinkForOwner(r.Context(), id, claims.UserID); err != nil {
		respondStoreError(w, err)
		return
	}

	key := statsCacheKey(id)
	if cached, hit := h.cache.Get(key); hit {
		if stats, valid := cached.(*models.LinkStats); valid {
			metrics.AnalyticsCacheHits.Inc()
			respondJSON(w, http.StatusOK, &models.APIResponse{
				Status: "success",
				Data:   stats,
				Metadata: models.Metadata{
					Timestamp: time.Now().UTC(),
					Cached:    true,
				},
			})
			return
		}
	}
	metrics.AnalyticsCacheMisses.Inc()

	start := time.Now()
	stats, err := h.db.GetLinkStats(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute link statistics", err)
		return
	}

	h.cache.SetWithTTL(key, stats, analyticsCacheTTL)

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   stats,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
