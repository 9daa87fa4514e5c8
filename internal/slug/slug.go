// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

// Package slug derives short-link slugs from database row ids.
//
// Slugs are the base62 encoding of id+offset, left-padded with '0' to a
// minimum of 6 characters. The offset keeps early slugs from being
// embarrassingly short and makes ids non-obvious without hiding them.
// The mapping is deterministic and injective, so freshly generated slugs
// never collide with each other; collisions can only come from custom
// slugs already occupying a generated value.
package slug

import (
	"strings"
)

// alphabet orders digit values: '0'-'9' first, then 'a'-'z', then 'A'-'Z'.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	base      = int64(len(alphabet))
	idOffset  = int64(100000)
	minLength = 6
)

// FromID returns the canonical slug for a link id.
func FromID(id int64) string {
	return pad(encode(id + idOffset))
}

// Dedupe returns candidate with "x" appended, the fallback step applied
// when a generated slug is already taken. Callers repeat until unique.
func Dedupe(candidate string) string {
	return candidate + "x"
}

func encode(n int64) string {
	if n == 0 {
		return string(alphabet[0])
	}
	var b [11]byte // enough for any int64 in base62
	i := len(b)
	for n > 0 {
		i--
		b[i] = alphabet[n%base]
		n /= base
	}
	return string(b[i:])
}

func pad(s string) string {
	if len(s) >= minLength {
		return s
	}
	return strings.Repeat("0", minLength-len(s)) + s
}
