// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/linkdrip/linkdrip/internal/logging"
	"github.com/linkdrip/linkdrip/internal/models"
)

// exportHeader is the fixed column order of the click export.
var exportHeader = []string{
	"Clicked At", "IP Address", "Country", "City",
	"Referrer", "Browser", "OS", "Device", "User Agent",
}

// ExportClicks streams an owned link's full click history as a CSV
// attachment, newest first. Every user-controlled field passes through
// sanitizeCSVField before it is written.
func (h *Handler) ExportClicks(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := h.linkRequest(w, r)
	if !ok {
		return
	}

	link, err := h.db.GetLinkForOwner(r.Context(), id, claims.UserID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	rows, err := h.db.GetClicksForExport(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to read click history", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="linkdrip-%s-clicks.csv"`, link.Slug))

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		logging.Error().Err(err).Msg("CSV export write failed")
		return
	}

	for i := range rows {
		if err := cw.Write(exportRow(&rows[i])); err != nil {
			logging.Error().Err(err).Msg("CSV export write failed")
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		logging.Error().Err(err).Msg("CSV export flush failed")
	}
}

// exportRow renders one click. The timestamp column is machine-formatted
// and skips sanitization; every other column is user-controlled.
func exportRow(c *models.Click) []string {
	return []string{
		c.ClickedAt.UTC().Format(time.RFC3339),
		sanitizeCSVField(c.IPAddress),
		sanitizeCSVField(derefString(c.Country)),
		sanitizeCSVField(derefString(c.City)),
		sanitizeCSVField(derefString(c.Referrer)),
		sanitizeCSVField(derefString(c.Browser)),
		sanitizeCSVField(derefString(c.OS)),
		sanitizeCSVField(derefString(c.Device)),
		sanitizeCSVField(c.UserAgent),
	}
}

// sanitizeCSVField neutralizes spreadsheet formula injection. A value whose
// first character could trigger formula evaluation on import is prefixed
// with an apostrophe; everything else passes through unchanged.
func sanitizeCSVField(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
