// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

// Package geoip resolves click source IPs to a country and city.
//
// Resolution is best-effort and must never block or fail the redirect
// path: loopback and sentinel addresses short-circuit without a network
// call, results are cached in a bounded in-process map, and every lookup
// failure degrades to an absent country and city. The outbound provider
// is the free ip-api.com JSON endpoint, guarded by a hard per-lookup
// timeout and a circuit breaker. Lookups are never retried.
package geoip

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
)

// Location is a resolved geographic origin. Nil fields mean the
// dimension could not be determined.
type Location struct {
	Country *string
	City    *string
}

// Provider performs an outbound geolocation lookup for a single IP.
type Provider interface {
	// Lookup returns the location for ip, or an error when the lookup
	// fails for any reason. Callers treat errors as "unknown location".
	Lookup(ctx context.Context, ip string) (Location, error)

	// Name returns the provider name for logging.
	Name() string
}

// IPAPIProvider implements Provider against the ip-api.com JSON API.
// Free tier, no API key. A circuit breaker stops hammering the endpoint
// while it is failing; an open breaker surfaces as a lookup error, which
// degrades to an absent location like any other failure.
type IPAPIProvider struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[Location]
	baseURL string
}

// ipAPIResponse is the subset of ip-api.com's response selected by the
// fields query parameter.
type ipAPIResponse struct {
	Status  string `json:"status"` // "success" or "fail"
	Country string `json:"country"`
	City    string `json:"city"`
}

// NewIPAPIProvider creates a provider against the given base URL
// (e.g. "http://ip-api.com/json") with a hard per-lookup timeout.
func NewIPAPIProvider(baseURL string, timeout time.Duration) *IPAPIProvider {
	return &IPAPIProvider{
		client: &http.Client{
			Timeout: timeout,
		},
		breaker: gobreaker.NewCircuitBreaker[Location](gobreaker.Settings{
			Name:    "ip-api.com",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
		baseURL: baseURL,
	}
}

// Name returns the provider name.
func (p *IPAPIProvider) Name() string {
	return "ip-api.com"
}

// Lookup queries ip-api.com for the location of ip. Only a response with
// status "success" yields values.
func (p *IPAPIProvider) Lookup(ctx context.Context, ip string) (Location, error) {
	return p.breaker.Execute(func() (Location, error) {
		return p.query(ctx, ip)
	})
}

func (p *IPAPIProvider) query(ctx context.Context, ip string) (Location, error) {
	url := fmt.Sprintf("%s/%s?fields=status,country,city", p.baseURL, ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return Location{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("failed to query ip-api.com: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("ip-api.com returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Location{}, fmt.Errorf("failed to decode ip-api.com response: %w", err)
	}

	if result.Status != "success" {
		return Location{}, fmt.Errorf("ip-api.com lookup failed for %s", ip)
	}

	loc := Location{}
	if result.Country != "" {
		loc.Country = &result.Country
	}
	if result.City != "" {
		loc.City = &result.City
	}
	return loc, nil
}
