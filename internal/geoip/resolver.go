// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

package geoip

import (
	"context"
	"sync"
	"time"

	"github.com/linkdrip/linkdrip/internal/logging"
	"github.com/linkdrip/linkdrip/internal/metrics"
)

// sentinelIPs short-circuit resolution without a network call. They
// cover loopback addresses and the test harness client address.
var sentinelIPs = map[string]struct{}{
	"127.0.0.1":  {},
	"::1":        {},
	"testclient": {},
}

// Resolver resolves IPs to locations through a Provider, fronted by a
// bounded in-process cache.
//
// The cache is insert-only: entries never expire and are never evicted.
// Once capacity is reached the cache stops growing and further misses go
// straight to the provider. Known staleness/capacity tradeoff. Failed
// lookups cache their absent result too, so a flapping provider does not
// get re-queried for the same IP.
type Resolver struct {
	provider Provider
	timeout  time.Duration

	mu       sync.RWMutex
	cache    map[string]Location
	capacity int
}

// NewResolver creates a resolver with the given provider, per-lookup
// timeout and cache capacity. A capacity of 0 disables caching.
func NewResolver(provider Provider, timeout time.Duration, capacity int) *Resolver {
	return &Resolver{
		provider: provider,
		timeout:  timeout,
		cache:    make(map[string]Location),
		capacity: capacity,
	}
}

// Resolve returns the location for ip. It never returns an error:
// sentinel addresses, cache-capacity exhaustion, provider failures and
// timeouts all degrade to an absent location. Lookup failures are logged
// at debug level at most.
func (r *Resolver) Resolve(ctx context.Context, ip string) Location {
	if _, skip := sentinelIPs[ip]; skip || ip == "" {
		return Location{}
	}

	if loc, ok := r.lookupCache(ip); ok {
		metrics.GeoIPCacheHits.Inc()
		return loc
	}
	metrics.GeoIPCacheMisses.Inc()

	loc := r.lookupProvider(ctx, ip)
	r.store(ip, loc)
	return loc
}

func (r *Resolver) lookupCache(ip string) (Location, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	loc, ok := r.cache[ip]
	return loc, ok
}

func (r *Resolver) lookupProvider(ctx context.Context, ip string) Location {
	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	loc, err := r.provider.Lookup(lookupCtx, ip)
	metrics.RecordGeoIPLookup(time.Since(start), err)
	if err != nil {
		logging.Debug().Err(err).Str("ip", ip).Str("provider", r.provider.Name()).Msg("GeoIP lookup failed")
		return Location{}
	}
	return loc
}

// store inserts a result unless the cache is at capacity. Concurrent
// misses for the same IP may each call the provider once; last write
// wins, which is harmless since results for an IP are identical.
func (r *Resolver) store(ip string, loc Location) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.cache) >= r.capacity {
		return
	}
	r.cache[ip] = loc
	metrics.GeoIPCacheSize.Set(float64(len(r.cache)))
}

// CacheLen returns the current number of cached entries.
func (r *Resolver) CacheLen() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// NopResolver is used when geolocation is disabled: every IP resolves to
// an absent location.
type NopResolver struct{}

// Resolve always returns an empty Location.
func (NopResolver) Resolve(context.Context, string) Location {
	return Location{}
}
