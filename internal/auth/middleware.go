// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

package auth

import (
	"context"
	"net/http"
	"strings"
	"time"
)

type contextKey string

// ClaimsContextKey carries the validated Claims of the current request.
const ClaimsContextKey contextKey = "claims"

// CookieName is the session cookie holding the JWT.
const CookieName = "linkdrip_session"

// Middleware resolves the current authenticated user from the session
// cookie or a bearer token.
type Middleware struct {
	jwtManager *JWTManager
	secure     bool
}

// NewMiddleware creates the auth middleware. secure controls the Secure
// flag on issued cookies and should be true outside development.
func NewMiddleware(jwtManager *JWTManager, secure bool) *Middleware {
	return &Middleware{
		jwtManager: jwtManager,
		secure:     secure,
	}
}

// RequireAuth rejects requests without a valid session token with 401.
// On success the validated claims are stored in the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := m.extractToken(r)
		if !ok {
			unauthorized(w)
			return
		}

		claims, err := m.jwtManager.ValidateToken(tokenString)
		if err != nil {
			unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken reads the session cookie first, then falls back to an
// Authorization: Bearer header for non-browser clients.
func (m *Middleware) extractToken(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer "), true
	}

	return "", false
}

// SetSessionCookie issues the HTTP-only session cookie.
func (m *Middleware) SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.jwtManager.SessionTimeout() / time.Second),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie on logout.
func (m *Middleware) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClaimsFromContext returns the validated claims of the current request,
// or nil outside RequireAuth.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(ClaimsContextKey).(*Claims)
	return claims
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"status":"error","data":null,"metadata":{"timestamp":"` +
		time.Now().UTC().Format(time.RFC3339) +
		`"},"error":{"code":"UNAUTHORIZED","message":"Authentication required"}}`))
}
