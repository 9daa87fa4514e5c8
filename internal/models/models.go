// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

// Package models defines the domain types shared across the LinkDrip
// service: users, short links, recorded clicks and the analytics
// aggregates served by the API.
package models

import (
	"time"
)

// User is an account that owns short links.
//
// Plan values: "free", "pro", "business".
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	DisplayName    string    `json:"display_name"`
	IsActive       bool      `json:"is_active"`
	Plan           string    `json:"plan"`
	CreatedAt      time.Time `json:"created_at"`
}

// Link is a short link mapping a slug to a target URL.
//
// ClickCount is a denormalized counter kept in lockstep with the clicks
// table: every recorded click increments it inside the same transaction
// that inserts the click row.
type Link struct {
	ID         int64      `json:"id"`
	Slug       string     `json:"slug"`
	TargetURL  string     `json:"target_url"`
	Title      string     `json:"title,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
	UserID     string     `json:"user_id"`
	ClickCount int64      `json:"click_count"`
	IsActive   bool       `json:"is_active"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// ShortURL is derived from the configured base URL at response time
	// and never stored.
	ShortURL string `json:"short_url,omitempty"`
}

// Expired reports whether the link has an expiry in the past.
func (l *Link) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// Click is a single recorded visit to a short link.
//
// Country, City, Referrer, Browser, OS and DeviceType are nullable:
// a nil pointer means the dimension could not be determined and is
// rendered as JSON null. Geolocation or user agent parsing failures
// never block click recording.
type Click struct {
	ID        string    `json:"id"`
	LinkID    int64     `json:"link_id"`
	ClickedAt time.Time `json:"clicked_at"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	Referrer  *string   `json:"referrer"`
	Country   *string   `json:"country"`
	City      *string   `json:"city"`
	Browser   *string   `json:"browser"`
	OS        *string   `json:"os"`
	Device    *string   `json:"device"`
}
