// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

package geoip

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// countingProvider records how many lookups were issued.
type countingProvider struct {
	calls int64
	loc   Location
	err   error
}

func (p *countingProvider) Lookup(_ context.Context, _ string) (Location, error) {
	atomic.AddInt64(&p.calls, 1)
	return p.loc, p.err
}

func (p *countingProvider) Name() string { return "counting" }

func strptr(s string) *string { return &s }

func TestResolveSentinelsSkipNetwork(t *testing.T) {
	p := &countingProvider{loc: Location{Country: strptr("Germany")}}
	r := NewResolver(p, time.Second, 100)

	for _, ip := range []string{"", "127.0.0.1", "::1", "testclient"} {
		loc := r.Resolve(context.Background(), ip)
		if loc.Country != nil || loc.City != nil {
			t.Errorf("sentinel %q should resolve to absent location", ip)
		}
	}
	if atomic.LoadInt64(&p.calls) != 0 {
		t.Errorf("sentinels must not reach the provider, got %d calls", p.calls)
	}
}

func TestResolveCachesResults(t *testing.T) {
	p := &countingProvider{loc: Location{Country: strptr("Germany"), City: strptr("Berlin")}}
	r := NewResolver(p, time.Second, 100)

	for i := 0; i < 5; i++ {
		loc := r.Resolve(context.Background(), "203.0.113.7")
		if loc.Country == nil || *loc.Country != "Germany" {
			t.Fatalf("expected Germany, got %v", loc.Country)
		}
	}
	if got := atomic.LoadInt64(&p.calls); got != 1 {
		t.Errorf("expected 1 provider call for repeated IP, got %d", got)
	}
}

func TestResolveFailureDegradesAndCaches(t *testing.T) {
	p := &countingProvider{err: errors.New("timeout")}
	r := NewResolver(p, time.Second, 100)

	for i := 0; i < 3; i++ {
		loc := r.Resolve(context.Background(), "203.0.113.8")
		if loc.Country != nil || loc.City != nil {
			t.Fatalf("failed lookup should yield absent location, got %+v", loc)
		}
	}
	if got := atomic.LoadInt64(&p.calls); got != 1 {
		t.Errorf("failed result should be cached, expected 1 call, got %d", got)
	}
}

func TestResolveCapacityStopsInserts(t *testing.T) {
	p := &countingProvider{loc: Location{Country: strptr("Germany")}}
	r := NewResolver(p, time.Second, 3)

	for i := 0; i < 10; i++ {
		r.Resolve(context.Background(), fmt.Sprintf("203.0.113.%d", i))
	}
	if got := r.CacheLen(); got != 3 {
		t.Errorf("cache should stop at capacity 3, got %d entries", got)
	}

	// Cached entries are still served after the cap is reached.
	before := atomic.LoadInt64(&p.calls)
	r.Resolve(context.Background(), "203.0.113.0")
	if got := atomic.LoadInt64(&p.calls); got != before {
		t.Errorf("cached IP should not hit the provider after cap, calls %d -> %d", before, got)
	}

	// Uncached IPs past the cap always hit the provider.
	r.Resolve(context.Background(), "198.51.100.1")
	r.Resolve(context.Background(), "198.51.100.1")
	if got := atomic.LoadInt64(&p.calls); got != before+2 {
		t.Errorf("uncached IP past cap should hit provider each time, calls %d -> %d", before, got)
	}
}

func TestResolveConcurrentAccess(t *testing.T) {
	p := &countingProvider{loc: Location{Country: strptr("Germany")}}
	r := NewResolver(p, time.Second, 50)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				r.Resolve(context.Background(), fmt.Sprintf("203.0.113.%d", i%20))
			}
		}(g)
	}
	wg.Wait()

	if got := r.CacheLen(); got > 50 {
		t.Errorf("cache exceeded capacity: %d entries", got)
	}
}

func TestNopResolver(t *testing.T) {
	loc := NopResolver{}.Resolve(context.Background(), "203.0.113.1")
	if loc.Country != nil || loc.City != nil {
		t.Errorf("NopResolver should always return absent location")
	}
}
