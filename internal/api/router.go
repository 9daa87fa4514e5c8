// LinkDrip - Self-Hosted Link Shortener with Click Analytics
// Copyright 2026 LinkDrip Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/linkdrip/linkdrip

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/linkdrip/linkdrip/internal/config"
	"github.com/linkdrip/linkdrip/internal/middleware"
)

// Router wires handlers into a Chi route tree.
type Router struct {
	handler *Handler
	chimw   *ChiMiddleware
}

// NewRouter creates a Router from application configuration.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	return &Router{
		handler: handler,
		chimw: NewChiMiddleware(&ChiMiddlewareConfig{
			CORSAllowedOrigins:   cfg.Security.CORSOrigins,
			CORSAllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			CORSAllowedHeaders:   []string{"Content-Type", "Authorization"},
			CORSAllowCredentials: true,
			CORSMaxAge:           86400,

			RateLimitRequests: cfg.Security.RateLimitReqs,
			RateLimitWindow:   cfg.Security.RateLimitWindow,
			RateLimitDisabled: cfg.Security.RateLimitDisabled,
		}),
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chimw.CORS())

	// Operational endpoints.
	r.Get("/api/v1/health", router.handler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Authentication. Strict rate limits slow credential stuffing.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(router.chimw.RateLimitAuth())
		r.Use(middleware.PrometheusMetrics)

		r.Post("/register", router.handler.Register)
		r.With(router.chimw.RateLimitLogin()).Post("/login", router.handler.Login)
		r.Post("/logout", router.handler.Logout)
	})

	// Link management and analytics. All routes require a session.
	r.Route("/api/v1/links", func(r chi.Router) {
		r.Use(router.chimw.RateLimit())
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.handler.session.RequireAuth)

		r.Get("/", router.handler.ListLinks)
		r.Post("/", router.handler.CreateLink)
		r.Get("/{id}", router.handler.GetLink)
		r.Patch("/{id}", router.handler.UpdateLink)
		r.Delete("/{id}", router.handler.DeleteLink)
		r.Get("/{id}/analytics", router.handler.LinkAnalytics)
		r.Get("/{id}/export", router.handler.ExportClicks)
	})

	// Public redirect. Registered last so explicit routes win; the
	// handler additionally rejects reserved first segments.
	r.Get("/{slug}", router.handler.Redirect)
	r.Head("/{slug}", router.handler.Redirect)

	return r
}
