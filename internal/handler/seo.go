// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/jobboard/internal/seo"
	"github.com/olegiv/jobboard/internal/service"
)

// SEOHandler serves robots.txt and the sitemap.
type SEOHandler struct {
	jobs        *service.JobService
	siteURL     string
	disallowAll bool
}

// NewSEOHandler creates a new SEOHandler. An empty siteURL is derived from
// each request.
func NewSEOHandler(jobs *service.JobService, siteURL string, disallowAll bool) *SEOHandler {
	return &SEOHandler{
		jobs:        jobs,
		siteURL:     strings.TrimSuffix(siteURL, "/"),
		disallowAll: disallowAll,
	}
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	content := seo.NewRobotsBuilder(seo.RobotsConfig{
		SiteURL:     h.baseURL(r),
		DisallowAll: h.disallowAll,
	}).Build()

	w.Header().Set(HeaderContentType, "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(content))
}

// Sitemap handles GET /sitemap.xml.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	posts, err := h.jobs.ListPosts(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list job posts for sitemap", "error", err)
		return
	}

	builder := seo.NewSitemapBuilder(h.baseURL(r))
	builder.AddHomepage()
	for _, p := range posts {
		builder.AddJobPost(seo.SitemapJobPost{ID: p.ID, UpdatedAt: p.UpdatedAt})
	}

	out, err := builder.Build()
	if err != nil {
		logAndInternalError(w, "failed to build sitemap", "error", err)
		return
	}

	w.Header().Set(HeaderContentType, "application/xml; charset=utf-8")
	if _, err := w.Write(out); err != nil {
		slog.Debug("writing sitemap", "error", err)
	}
}

// baseURL returns the configured site URL or scheme://host of the request.
func (h *SEOHandler) baseURL(r *http.Request) string {
	if h.siteURL != "" {
		return h.siteURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
