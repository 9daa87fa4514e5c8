// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

package api

import (
	"errors"
	"net/http"

	"github.com/linkdrip/linkdrip/internal/auth"
	"github.com/linkdrip/linkdrip/internal/database"
	"github.com/linkdrip/linkdrip/internal/logging"
	"github.com/linkdrip/linkdrip/internal/models"
)

// Register creates an account and starts a session.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is not valid JSON", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process password", err)
		return
	}

	user, err := h.db.CreateUser(r.Context(), req.Email, hashed, req.DisplayName)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			respondError(w, http.StatusConflict, "CONFLICT", "An account with this email already exists", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create account", err)
		return
	}

	if err := h.startSession(w, user); err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create session", err)
		return
	}

	logging.Info().Str("user_id", user.ID).Msg("Account created")
	respondSuccess(w, http.StatusCreated, user)
}

// Login verifies credentials and sets the session cookie. Unknown email and
// wrong password produce the same response.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is not valid JSON", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	user, err := h.db.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to look up account", err)
		return
	}

	if !user.IsActive || !auth.CheckPassword(user.HashedPassword, req.Password) {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password", nil)
		return
	}

	if err := h.startSession(w, user); err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create session", err)
		return
	}

	respondSuccess(w, http.StatusOK, user)
}

// Logout clears the session cookie. Always succeeds.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.session.ClearSessionCookie(w)
	respondSuccess(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) startSession(w http.ResponseWriter, user *models.User) error {
	token, err := h.jwt.GenerateToken(user.ID, user.Email)
	if err != nil {
		return err
	}
	h.session.SetSessionCookie(w, token)
	return nil
}
