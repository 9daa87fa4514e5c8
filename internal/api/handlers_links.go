// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/linkdrip/linkdrip/internal/auth"
	"github.com/linkdrip/linkdrip/internal/database"
	"github.com/linkdrip/linkdrip/internal/logging"
	"github.com/linkdrip/linkdrip/internal/models"
	"github.com/linkdrip/linkdrip/internal/slug"
)

// maxSlugAttempts bounds the dedupe retry loop for generated slugs.
const maxSlugAttempts = 10

// CreateLink creates a short link for the authenticated user. A custom slug
// that is already taken answers 409; generated slugs retry with a dedupe
// suffix until a free one is found.
func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return
	}

	var req models.CreateLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is not valid JSON", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	id, err := h.db.NextLinkID(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to allocate link id", err)
		return
	}

	candidate := req.CustomSlug
	if candidate == "" {
		candidate = slug.FromID(id)
	}

	link := &models.Link{
		ID:        id,
		Slug:      candidate,
		TargetURL: req.TargetURL,
		Title:     req.Title,
		Tags:      normalizeTags(req.Tags),
		UserID:    claims.UserID,
		IsActive:  true,
		ExpiresAt: req.ExpiresAt,
	}

	for attempt := 0; ; attempt++ {
		err = h.db.CreateLink(r.Context(), link)
		if err == nil {
			break
		}
		if !errors.Is(err, database.ErrDuplicate) {
			respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create link", err)
			return
		}
		if req.CustomSlug != "" {
			respondError(w, http.StatusConflict, "CONFLICT", "Slug is already taken", nil)
			return
		}
		if attempt >= maxSlugAttempts {
			respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to find a free slug", err)
			return
		}
		link.Slug = slug.Dedupe(link.Slug)
	}

	h.withShortURL(link)
	logging.Info().Int64("link_id", link.ID).Str("slug", link.Slug).Str("user_id", claims.UserID).Msg("Link created")
	respondSuccess(w, http.StatusCreated, link)
}

// ListLinks returns the authenticated user's links, optionally filtered by
// a search term (slug, title, target URL) or an exact tag.
func (h *Handler) ListLinks(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return
	}

	search := r.URL.Query().Get("search")
	tag := r.URL.Query().Get("tag")

	links, err := h.db.ListLinks(r.Context(), claims.UserID, search, tag)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list links", err)
		return
	}

	for i := range links {
		h.withShortURL(&links[i])
	}

	respondSuccess(w, http.StatusOK, models.ListLinksResponse{
		Links: links,
		Total: len(links),
	})
}

// GetLink returns one of the authenticated user's links. A link owned by
// someone else answers 404, never 403.
func (h *Handler) GetLink(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := h.linkRequest(w, r)
	if !ok {
		return
	}

	link, err := h.db.GetLinkForOwner(r.Context(), id, claims.UserID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	h.withShortURL(link)
	respondSuccess(w, http.StatusOK, link)
}

// UpdateLink applies a partial update to an owned link. The slug itself is
// immutable once assigned.
func (h *Handler) UpdateLink(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := h.linkRequest(w, r)
	if !ok {
		return
	}

	var req models.UpdateLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is not valid JSON", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}
	if req.Tags != nil {
		normalized := normalizeTags(*req.Tags)
		req.Tags = &normalized
	}

	link, err := h.db.UpdateLink(r.Context(), id, claims.UserID, &req)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	h.withShortURL(link)
	respondSuccess(w, http.StatusOK, link)
}

// DeleteLink removes an owned link and all of its clicks.
func (h *Handler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := h.linkRequest(w, r)
	if !ok {
		return
	}

	if err := h.db.DeleteLink(r.Context(), id, claims.UserID); err != nil {
		respondStoreError(w, err)
		return
	}

	h.cache.Delete(statsCacheKey(id))
	logging.Info().Int64("link_id", id).Str("user_id", claims.UserID).Msg("Link deleted")
	w.WriteHeader(http.StatusNoContent)
}

// linkRequest extracts the session claims and the {id} route parameter,
// answering the error response itself when either is missing.
func (h *Handler) linkRequest(w http.ResponseWriter, r *http.Request) (*auth.Claims, int64, bool) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
		return nil, 0, false
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Link id must be an integer", nil)
		return nil, 0, false
	}

	return claims, id, true
}

// normalizeTags lowercases and trims tags, dropping empties while keeping
// the caller's order.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
