// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

// Package clicks orchestrates click recording: user-agent
// classification, geo resolution and atomic persistence, invoked from
// the redirect handler.
package clicks

import (
	"context"
	"time"

	"github.com/linkdrip/linkdrip/internal/geoip"
	"github.com/linkdrip/linkdrip/internal/logging"
	"github.com/linkdrip/linkdrip/internal/metrics"
	"github.com/linkdrip/linkdrip/internal/models"
	"github.com/linkdrip/linkdrip/internal/useragent"
)

// LocationResolver resolves an IP to a geographic origin. Satisfied by
// geoip.Resolver and geoip.NopResolver.
type LocationResolver interface {
	Resolve(ctx context.Context, ip string) geoip.Location
}

// ClickStore persists clicks. Satisfied by database.DB.
type ClickStore interface {
	InsertClick(ctx context.Context, click *models.Click) error
}

// Recorder records clicks against links. Classification and geo lookup
// are failure-tolerant; only persistence can fail, and that failure is
// logged and swallowed so it never alters the redirect response.
type Recorder struct {
	store    ClickStore
	resolver LocationResolver
}

// NewRecorder creates a click recorder.
func NewRecorder(store ClickStore, resolver LocationResolver) *Recorder {
	return &Recorder{
		store:    store,
		resolver: resolver,
	}
}

// Record classifies the user agent, resolves the IP's location and
// persists the click together with the link's counter increment. The
// returned click is nil when persistence failed.
func (r *Recorder) Record(ctx context.Context, link *models.Link, ip, referrer, rawUA string) *models.Click {
	classification := useragent.Classify(rawUA)
	location := r.resolver.Resolve(ctx, ip)

	click := &models.Click{
		LinkID:    link.ID,
		ClickedAt: time.Now().UTC(),
		IPAddress: ip,
		UserAgent: rawUA,
		Country:   location.Country,
		City:      location.City,
		Browser:   classification.Browser,
		OS:        classification.OS,
		Device:    classification.Device,
	}
	if referrer != "" {
		click.Referrer = &referrer
	}

	err := r.store.InsertClick(ctx, click)
	metrics.RecordClick(err)
	if err != nil {
		logging.Error().Err(err).
			Int64("link_id", link.ID).
			Str("slug", link.Slug).
			Msg("Failed to record click")
		return nil
	}

	logging.Debug().
		Int64("link_id", link.ID).
		Str("slug", link.Slug).
		Str("click_id", click.ID).
		Msg("Click recorded")
	return click
}
