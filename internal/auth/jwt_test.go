// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/linkdrip/linkdrip/internal/config"
)

func newTestManager(t *testing.T, timeout time.Duration) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(&config.SecurityConfig{
		JWTSecret:      strings.Repeat("s", 32),
		SessionTimeout: timeout,
	})
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	return m
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	_, err := NewJWTManager(&config.SecurityConfig{SessionTimeout: time.Hour})
	if err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := newTestManager(t, time.Hour)

	token, err := m.GenerateToken("user-123", "alice@example.com")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("expected user id user-123, got %q", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("expected email, got %q", claims.Email)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	m := newTestManager(t, -time.Minute)

	token, err := m.GenerateToken("user-123", "alice@example.com")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := m.ValidateToken(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	m := newTestManager(t, time.Hour)
	token, err := m.GenerateToken("user-123", "alice@example.com")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	other, err := NewJWTManager(&config.SecurityConfig{
		JWTSecret:      strings.Repeat("x", 32),
		SessionTimeout: time.Hour,
	})
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	m := newTestManager(t, time.Hour)
	for _, bad := range []string{"", "not.a.token", "a.b", strings.Repeat("x", 500)} {
		if _, err := m.ValidateToken(bad); err == nil {
			t.Errorf("expected error for token %q", bad)
		}
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal plaintext")
	}
	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("expected password to match its hash")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("expected mismatch for wrong password")
	}
}
