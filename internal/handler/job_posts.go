// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/jobboard/internal/middleware"
	"github.com/olegiv/jobboard/internal/model"
	"github.com/olegiv/jobboard/internal/render"
	"github.com/olegiv/jobboard/internal/service"
	"github.com/olegiv/jobboard/internal/store"
	"github.com/olegiv/jobboard/internal/uikit"
)

// JobPostsHandler handles the job post pages.
type JobPostsHandler struct {
	jobs           *service.JobService
	events         *service.EventService
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewJobPostsHandler creates a new JobPostsHandler.
func NewJobPostsHandler(jobs *service.JobService, events *service.EventService, renderer *render.Renderer, sm *scs.SessionManager) *JobPostsHandler {
	return &JobPostsHandler{
		jobs:           jobs,
		events:         events,
		renderer:       renderer,
		sessionManager: sm,
	}
}

// JobPostsListData holds data for the job post list.
type JobPostsListData struct {
	Posts []store.JobPost
}

// JobPostShowData holds data for a single job post.
type JobPostShowData struct {
	Post             store.JobPost
	ApplicationCount int64
}

// JobPostFormData holds data for the new and edit forms.
type JobPostFormData struct {
	Post       *store.JobPost
	Errors     map[string]string
	FormValues map[string]string
	IsEdit     bool
}

// List handles GET /job_posts.
func (h *JobPostsHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.jobs.ListPosts(r.Context())
	if err != nil {
		renderInternalError(w, r, h.renderer, "failed to list job posts", "error", err)
		return
	}

	h.renderer.RenderPage(w, r, tmplJobPostsIndex, render.TemplateData{
		Title:       "Job Posts",
		User:        middleware.GetUser(r),
		Data:        JobPostsListData{Posts: posts},
		Breadcrumbs: uikit.Breadcrumbs("Job Posts", redirectJobPosts),
	})
}

// NewForm handles GET /job_posts/new.
func (h *JobPostsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, JobPostFormData{
		Errors:     make(map[string]string),
		FormValues: make(map[string]string),
	})
}

// Create handles POST /job_posts.
func (h *JobPostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectJobPostsNew) {
		return
	}

	in := model.JobPostInput{
		Title: r.FormValue("title"),
		Body:  r.FormValue("body"),
	}

	post, err := h.jobs.CreatePost(r.Context(), in)
	if err != nil {
		if fields, ok := service.FieldErrorsOf(err); ok {
			h.renderForm(w, r, http.StatusUnprocessableEntity, JobPostFormData{
				Errors:     fields,
				FormValues: formValues(r, "title", "body"),
			})
			return
		}
		renderInternalError(w, r, h.renderer, "failed to create job post", "error", err)
		return
	}

	slog.Info("job post created", "job_post_id", post.ID, "title", post.Title)
	h.events.Record(r.Context(), model.EventLevelInfo, model.EventCategoryJob, "Job post created",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r), map[string]any{"job_post_id": post.ID, "title": post.Title})

	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectJobPostID, post.ID), "Job post was successfully created.")
}

// Show handles GET /job_posts/{id}.
func (h *JobPostsHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, _ := ParseIDParam(r)
	post, ok := requireEntityWithPage(w, r, h.renderer, "job_post", id, h.jobs.GetPost)
	if !ok {
		return
	}

	count, err := h.jobs.CountApplications(r.Context(), post.ID)
	if err != nil {
		renderInternalError(w, r, h.renderer, "failed to count applications", "job_post_id", post.ID, "error", err)
		return
	}

	h.renderer.RenderPage(w, r, tmplJobPostsShow, render.TemplateData{
		Title: post.Title,
		User:  middleware.GetUser(r),
		Data:  JobPostShowData{Post: post, ApplicationCount: count},
		Breadcrumbs: uikit.Breadcrumbs(
			"Job Posts", redirectJobPosts,
			post.Title, fmt.Sprintf(redirectJobPostID, post.ID),
		),
	})
}

// EditForm handles GET /job_posts/{id}/edit.
func (h *JobPostsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, _ := ParseIDParam(r)
	post, ok := requireEntityWithPage(w, r, h.renderer, "job_post", id, h.jobs.GetPost)
	if !ok {
		return
	}

	h.renderForm(w, r, http.StatusOK, JobPostFormData{
		Post:   &post,
		Errors: make(map[string]string),
		FormValues: map[string]string{
			"title": post.Title,
			"body":  post.Body,
		},
		IsEdit: true,
	})
}

// Update handles PATCH and PUT /job_posts/{id}.
func (h *JobPostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := ParseIDParam(r)
	post, ok := requireEntityWithPage(w, r, h.renderer, "job_post", id, h.jobs.GetPost)
	if !ok {
		return
	}

	editURL := fmt.Sprintf(redirectJobPostID, post.ID) + RouteSuffixEdit
	if !parseFormOrRedirect(w, r, h.renderer, editURL) {
		return
	}

	in := model.JobPostInput{
		Title: r.FormValue("title"),
		Body:  r.FormValue("body"),
	}

	updated, err := h.jobs.UpdatePost(r.Context(), post.ID, in)
	if err != nil {
		if fields, ok := service.FieldErrorsOf(err); ok {
			h.renderForm(w, r, http.StatusUnprocessableEntity, JobPostFormData{
				Post:       &post,
				Errors:     fields,
				FormValues: formValues(r, "title", "body"),
				IsEdit:     true,
			})
			return
		}
		handleServiceError(w, r, h.renderer, err, "failed to update job post", "job_post_id", post.ID)
		return
	}

	slog.Info("job post updated", "job_post_id", updated.ID)
	h.events.Record(r.Context(), model.EventLevelInfo, model.EventCategoryJob, "Job post updated",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r), map[string]any{"job_post_id": updated.ID})

	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectJobPostID, updated.ID), "Job post was successfully updated.")
}

// Destroy handles DELETE /job_posts/{id}.
func (h *JobPostsHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	id, _ := ParseIDParam(r)
	if id == 0 {
		renderNotFound(w, r, h.renderer)
		return
	}

	if err := h.jobs.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			renderNotFound(w, r, h.renderer)
			return
		}
		renderInternalError(w, r, h.renderer, "failed to delete job post", "job_post_id", id, "error", err)
		return
	}

	slog.Info("job post deleted", "job_post_id", id)
	h.events.Record(r.Context(), model.EventLevelInfo, model.EventCategoryJob, "Job post deleted",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r), map[string]any{"job_post_id": id})

	flashSuccess(w, r, h.renderer, redirectJobPosts, "Job post was successfully destroyed.")
}

func (h *JobPostsHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, data JobPostFormData) {
	title := "New Job Post"
	crumbs := uikit.Breadcrumbs("Job Posts", redirectJobPosts, title, redirectJobPostsNew)
	if data.IsEdit && data.Post != nil {
		title = "Editing Job Post"
		postURL := fmt.Sprintf(redirectJobPostID, data.Post.ID)
		crumbs = uikit.Breadcrumbs(
			"Job Posts", redirectJobPosts,
			data.Post.Title, postURL,
			"Edit", postURL+RouteSuffixEdit,
		)
	}

	h.renderer.RenderPageStatus(w, r, status, tmplJobPostsForm, render.TemplateData{
		Title:       title,
		User:        middleware.GetUser(r),
		Data:        data,
		Breadcrumbs: crumbs,
	})
}
