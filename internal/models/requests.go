// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

package models

import (
	"time"
)

// CreateLinkRequest is the body of POST /api/v1/links.
//
// CustomSlug, when set, must be 3-50 characters of lowercase letters,
// digits and hyphens with no leading or trailing hyphen. When empty, a
// slug is generated from the link's database id.
type CreateLinkRequest struct {
	TargetURL  string     `json:"target_url" validate:"required,http_url"`
	CustomSlug string     `json:"custom_slug,omitempty" validate:"omitempty,slug"`
	Title      string     `json:"title,omitempty" validate:"omitempty,max=255"`
	Tags       []string   `json:"tags,omitempty" validate:"omitempty,max=10,dive,min=1,max=50"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// UpdateLinkRequest is the body of PATCH /api/v1/links/{id}. Nil fields
// are left unchanged.
type UpdateLinkRequest struct {
	TargetURL *string    `json:"target_url,omitempty" validate:"omitempty,http_url"`
	Title     *string    `json:"title,omitempty" validate:"omitempty,max=255"`
	Tags      *[]string  `json:"tags,omitempty" validate:"omitempty,max=10,dive,min=1,max=50"`
	IsActive  *bool      `json:"is_active,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// RegisterRequest is the body of POST /api/v1/auth/register.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
}

// LoginRequest is the body of POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
