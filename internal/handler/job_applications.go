// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/jobboard/internal/middleware"
	"github.com/olegiv/jobboard/internal/model"
	"github.com/olegiv/jobboard/internal/render"
	"github.com/olegiv/jobboard/internal/service"
	"github.com/olegiv/jobboard/internal/store"
	"github.com/olegiv/jobboard/internal/uikit"
	"github.com/olegiv/jobboard/internal/util"
)

// multipartOverhead is the allowance for form fields and part headers on top of the CV limit.
const multipartOverhead = 1 << 20

// JobApplicationsHandler handles applications nested under a job post.
// Every action resolves the parent post from the URL first.
type JobApplicationsHandler struct {
	queries        *store.Queries
	jobs           *service.JobService
	events         *service.EventService
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewJobApplicationsHandler creates a new JobApplicationsHandler.
func NewJobApplicationsHandler(db *sql.DB, jobs *service.JobService, events *service.EventService, renderer *render.Renderer, sm *scs.SessionManager) *JobApplicationsHandler {
	return &JobApplicationsHandler{
		queries:        store.New(db),
		jobs:           jobs,
		events:         events,
		renderer:       renderer,
		sessionManager: sm,
	}
}

// JobApplicationsListData holds data for the application list of one post.
type JobApplicationsListData struct {
	Post         store.JobPost
	Applications []store.ListJobApplicationsForPostRow
}

// JobApplicationShowData holds data for a single application.
type JobApplicationShowData struct {
	Post        store.JobPost
	Application store.JobApplication
	Applicant   *store.User
}

// JobApplicationFormData holds data for the new and edit forms.
type JobApplicationFormData struct {
	Post        store.JobPost
	Application *store.JobApplication
	Errors      map[string]string
	FormValues  map[string]string
	IsEdit      bool
	MaxUploadMB int64
}

// List handles GET /job_posts/{job_post_id}/job_applications.
func (h *JobApplicationsHandler) List(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requirePost(w, r)
	if !ok {
		return
	}

	apps, err := h.jobs.ListApplications(r.Context(), post.ID)
	if err != nil {
		handleServiceError(w, r, h.renderer, err, "failed to list applications", "job_post_id", post.ID)
		return
	}

	h.renderer.RenderPage(w, r, tmplApplicationsIndex, render.TemplateData{
		Title: "Applications for " + post.Title,
		User:  middleware.GetUser(r),
		Data:  JobApplicationsListData{Post: post, Applications: apps},
		Breadcrumbs: uikit.Breadcrumbs(
			"Job Posts", redirectJobPosts,
			post.Title, fmt.Sprintf(redirectJobPostID, post.ID),
			"Applications", fmt.Sprintf(redirectApplications, post.ID),
		),
	})
}

// NewForm handles GET /job_posts/{job_post_id}/job_applications/new.
func (h *JobApplicationsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requirePost(w, r)
	if !ok {
		return
	}

	h.renderForm(w, r, http.StatusOK, JobApplicationFormData{
		Post:       post,
		Errors:     make(map[string]string),
		FormValues: make(map[string]string),
	})
}

// Create handles POST /job_posts/{job_post_id}/job_applications.
// A job_post_id form field is ignored; the parent always comes from the URL.
func (h *JobApplicationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requirePost(w, r)
	if !ok {
		return
	}

	data := JobApplicationFormData{Post: post}

	cv, cleanup, ok := h.parseApplicationForm(w, r, data)
	if !ok {
		return
	}
	defer cleanup()

	in := model.JobApplicationInput{
		JobPostID: post.ID,
		UserID:    applicantID(r, 0),
		Body:      r.FormValue("body"),
	}

	app, err := h.jobs.CreateApplication(r.Context(), in, cv)
	if err != nil {
		if fields, ok := service.FieldErrorsOf(err); ok {
			data.Errors = fields
			data.FormValues = formValues(r, "body", "user_id")
			h.renderForm(w, r, http.StatusUnprocessableEntity, data)
			return
		}
		renderInternalError(w, r, h.renderer, "failed to create application", "job_post_id", post.ID, "error", err)
		return
	}

	slog.Info("job application created", "job_post_id", post.ID, "job_application_id", app.ID, "user_id", app.UserID, "cv", app.CvKey.Valid)
	h.events.Record(r.Context(), model.EventLevelInfo, model.EventCategoryJob, "Job application created",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r), map[string]any{
			"job_post_id":        post.ID,
			"job_application_id": app.ID,
		})

	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectApplicationID, post.ID, app.ID), "Job application was successfully created.")
}

// Show handles GET /job_posts/{job_post_id}/job_applications/{id}.
func (h *JobApplicationsHandler) Show(w http.ResponseWriter, r *http.Request) {
	post, app, ok := h.requireApplication(w, r)
	if !ok {
		return
	}

	var applicant *store.User
	if u, err := h.queries.GetUserByID(r.Context(), app.UserID); err == nil {
		applicant = &u
	} else if !errors.Is(err, sql.ErrNoRows) {
		slog.Error("failed to load applicant", "user_id", app.UserID, "error", err)
	}

	h.renderer.RenderPage(w, r, tmplApplicationsShow, render.TemplateData{
		Title: "Application #" + fmt.Sprint(app.ID),
		User:  middleware.GetUser(r),
		Data: JobApplicationShowData{
			Post:        post,
			Application: app,
			Applicant:   applicant,
		},
		Breadcrumbs: uikit.Breadcrumbs(
			"Job Posts", redirectJobPosts,
			post.Title, fmt.Sprintf(redirectJobPostID, post.ID),
			"Applications", fmt.Sprintf(redirectApplications, post.ID),
			fmt.Sprintf("#%d", app.ID), fmt.Sprintf(redirectApplicationID, post.ID, app.ID),
		),
	})
}

// EditForm handles GET /job_posts/{job_post_id}/job_applications/{id}/edit.
func (h *JobApplicationsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	post, app, ok := h.requireApplication(w, r)
	if !ok {
		return
	}

	h.renderForm(w, r, http.StatusOK, JobApplicationFormData{
		Post:        post,
		Application: &app,
		Errors:      make(map[string]string),
		FormValues: map[string]string{
			"body":    app.Body,
			"user_id": fmt.Sprint(app.UserID),
		},
		IsEdit: true,
	})
}

// Update handles PATCH and PUT /job_posts/{job_post_id}/job_applications/{id}.
// A new cv file replaces the stored one; without a file the old one is kept.
func (h *JobApplicationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	post, app, ok := h.requireApplication(w, r)
	if !ok {
		return
	}

	data := JobApplicationFormData{Post: post, Application: &app, IsEdit: true}

	cv, cleanup, ok := h.parseApplicationForm(w, r, data)
	if !ok {
		return
	}
	defer cleanup()

	in := model.JobApplicationInput{
		JobPostID: post.ID,
		UserID:    applicantID(r, app.UserID),
		Body:      r.FormValue("body"),
	}

	updated, err := h.jobs.UpdateApplication(r.Context(), app.ID, in, cv)
	if err != nil {
		if fields, ok := service.FieldErrorsOf(err); ok {
			data.Errors = fields
			data.FormValues = formValues(r, "body", "user_id")
			h.renderForm(w, r, http.StatusUnprocessableEntity, data)
			return
		}
		handleServiceError(w, r, h.renderer, err, "failed to update application", "job_post_id", post.ID, "job_application_id", app.ID)
		return
	}

	slog.Info("job application updated", "job_post_id", post.ID, "job_application_id", updated.ID)
	h.events.Record(r.Context(), model.EventLevelInfo, model.EventCategoryJob, "Job application updated",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r), map[string]any{
			"job_post_id":        post.ID,
			"job_application_id": updated.ID,
		})

	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectApplicationID, post.ID, updated.ID), "Job application was successfully updated.")
}

// Destroy handles DELETE /job_posts/{job_post_id}/job_applications/{id}.
func (h *JobApplicationsHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requirePost(w, r)
	if !ok {
		return
	}
	id, _ := ParseIDParam(r)
	if id == 0 {
		renderNotFound(w, r, h.renderer)
		return
	}

	if err := h.jobs.DeleteApplication(r.Context(), post.ID, id); err != nil {
		handleServiceError(w, r, h.renderer, err, "failed to delete application", "job_post_id", post.ID, "job_application_id", id)
		return
	}

	slog.Info("job application deleted", "job_post_id", post.ID, "job_application_id", id)
	h.events.Record(r.Context(), model.EventLevelInfo, model.EventCategoryJob, "Job application deleted",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r), map[string]any{
			"job_post_id":        post.ID,
			"job_application_id": id,
		})

	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectApplications, post.ID), "Job application was successfully destroyed.")
}

// DownloadCV handles GET /job_posts/{job_post_id}/job_applications/{id}/cv.
func (h *JobApplicationsHandler) DownloadCV(w http.ResponseWriter, r *http.Request) {
	post, ok := h.requirePost(w, r)
	if !ok {
		return
	}
	id, _ := ParseIDParam(r)
	if id == 0 {
		renderNotFound(w, r, h.renderer)
		return
	}

	app, f, err := h.jobs.OpenCV(r.Context(), post.ID, id)
	if err != nil {
		handleServiceError(w, r, h.renderer, err, "failed to open cv", "job_post_id", post.ID, "job_application_id", id)
		return
	}
	defer func() { _ = f.Close() }()

	filename := app.CvFilename.String
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if disposition == "" {
		disposition = "attachment"
	}

	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set(HeaderContentType, app.CvContentType.String)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, no-store")
	http.ServeContent(w, r, filename, app.UpdatedAt, f)
}

// requirePost loads the parent job post named by {job_post_id}.
func (h *JobApplicationsHandler) requirePost(w http.ResponseWriter, r *http.Request) (store.JobPost, bool) {
	postID, _ := ParseJobPostIDParam(r)
	return requireEntityWithPage(w, r, h.renderer, "job_post", postID, h.jobs.GetPost)
}

// requireApplication loads the parent post and the application {id} under it.
// An application filed under a different post is reported as not found.
func (h *JobApplicationsHandler) requireApplication(w http.ResponseWriter, r *http.Request) (store.JobPost, store.JobApplication, bool) {
	post, ok := h.requirePost(w, r)
	if !ok {
		return store.JobPost{}, store.JobApplication{}, false
	}

	id, _ := ParseIDParam(r)
	app, ok := requireEntityWithPage(w, r, h.renderer, "job_application", id, func(ctx context.Context, id int64) (store.JobApplication, error) {
		return h.jobs.GetApplication(ctx, post.ID, id)
	})
	if !ok {
		return store.JobPost{}, store.JobApplication{}, false
	}
	return post, app, true
}

// parseApplicationForm parses a urlencoded or multipart application form and
// returns the uploaded CV, if any. The returned cleanup closes the upload.
// On failure the response has already been written.
func (h *JobApplicationsHandler) parseApplicationForm(w http.ResponseWriter, r *http.Request, data JobApplicationFormData) (*service.CVUpload, func(), bool) {
	noop := func() {}

	r.Body = http.MaxBytesReader(w, r.Body, h.jobs.CVStorage().MaxBytes()+multipartOverhead)

	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			data.Errors = map[string]string{
				"cv": fmt.Sprintf("CV is too large (maximum is %d MB)", h.jobs.CVStorage().MaxBytes()>>20),
			}
			data.FormValues = make(map[string]string)
			h.renderForm(w, r, http.StatusUnprocessableEntity, data)
			return nil, noop, false
		}
		logAndHTTPError(w, "Bad Request", http.StatusBadRequest, "failed to parse application form", "error", err)
		return nil, noop, false
	}

	file, header, err := r.FormFile("cv")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, true
		}
		logAndHTTPError(w, "Bad Request", http.StatusBadRequest, "failed to read cv upload", "error", err)
		return nil, noop, false
	}

	// Browsers send an empty part when no file is chosen.
	if header.Filename == "" && header.Size == 0 {
		_ = file.Close()
		return nil, noop, true
	}

	return &service.CVUpload{
		Reader:      file,
		Filename:    header.Filename,
		ContentType: header.Header.Get(HeaderContentType),
	}, closeFunc(file), true
}

func closeFunc(f multipart.File) func() {
	return func() { _ = f.Close() }
}

// applicantID picks the applicant for a submitted form. Signed-in users apply
// as themselves and keep the existing applicant on edit; anonymous forms name
// the applicant with the user_id field.
func applicantID(r *http.Request, current int64) int64 {
	if user := middleware.GetUser(r); user != nil {
		if current > 0 {
			return current
		}
		return user.ID
	}
	return util.ParsePositiveID(r.FormValue("user_id"))
}

func (h *JobApplicationsHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, data JobApplicationFormData) {
	if data.Errors == nil {
		data.Errors = make(map[string]string)
	}
	if data.FormValues == nil {
		data.FormValues = make(map[string]string)
	}
	data.MaxUploadMB = h.jobs.CVStorage().MaxBytes() >> 20

	post := data.Post
	title := "New Job Application"
	crumbs := uikit.Breadcrumbs(
		"Job Posts", redirectJobPosts,
		post.Title, fmt.Sprintf(redirectJobPostID, post.ID),
		"Applications", fmt.Sprintf(redirectApplications, post.ID),
		"New", fmt.Sprintf(redirectApplications, post.ID)+RouteSuffixNew,
	)
	if data.IsEdit && data.Application != nil {
		title = "Editing Job Application"
		appURL := fmt.Sprintf(redirectApplicationID, post.ID, data.Application.ID)
		crumbs = uikit.Breadcrumbs(
			"Job Posts", redirectJobPosts,
			post.Title, fmt.Sprintf(redirectJobPostID, post.ID),
			"Applications", fmt.Sprintf(redirectApplications, post.ID),
			fmt.Sprintf("#%d", data.Application.ID), appURL,
			"Edit", appURL+RouteSuffixEdit,
		)
	}

	h.renderer.RenderPageStatus(w, r, status, tmplApplicationsForm, render.TemplateData{
		Title:       title,
		User:        middleware.GetUser(r),
		Data:        data,
		Breadcrumbs: crumbs,
	})
}
