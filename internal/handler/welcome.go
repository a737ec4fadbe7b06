// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/olegiv/jobboard/internal/middleware"
	"github.com/olegiv/jobboard/internal/render"
	"github.com/olegiv/jobboard/internal/service"
	"github.com/olegiv/jobboard/internal/store"
)

// welcomeRecentPosts is how many posts the welcome page previews.
const welcomeRecentPosts = 5

// WelcomeHandler serves the landing page.
type WelcomeHandler struct {
	jobs     *service.JobService
	renderer *render.Renderer
}

// NewWelcomeHandler creates a new WelcomeHandler.
func NewWelcomeHandler(jobs *service.JobService, renderer *render.Renderer) *WelcomeHandler {
	return &WelcomeHandler{jobs: jobs, renderer: renderer}
}

// WelcomeData holds data for the landing page.
type WelcomeData struct {
	RecentPosts []store.JobPost
	TotalPosts  int
}

// Index handles GET / and GET /welcome/index.
func (h *WelcomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := h.jobs.ListPosts(r.Context())
	if err != nil {
		renderInternalError(w, r, h.renderer, "failed to list job posts", "error", err)
		return
	}

	data := WelcomeData{TotalPosts: len(posts), RecentPosts: posts}
	if len(posts) > welcomeRecentPosts {
		data.RecentPosts = posts[:welcomeRecentPosts]
	}

	h.renderer.RenderPage(w, r, tmplWelcome, render.TemplateData{
		Title: "Welcome",
		User:  middleware.GetUser(r),
		Data:  data,
	})
}
