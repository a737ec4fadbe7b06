// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/jobboard/internal/model"
	"github.com/olegiv/jobboard/internal/store"
)

// JobPostResponse represents a job post in API responses.
type JobPostResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JobApplicationResponse represents a job application in API responses.
type JobApplicationResponse struct {
	ID        int64       `json:"id"`
	JobPostID int64       `json:"job_post_id"`
	UserID    int64       `json:"user_id"`
	Applicant string      `json:"applicant"`
	Body      string      `json:"body"`
	CV        *CVResponse `json:"cv"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// CVResponse describes an attached CV. URL points at the download route.
type CVResponse struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
}

func jobPostToResponse(p store.JobPost) JobPostResponse {
	return JobPostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Body:      p.Body,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func applicationToResponse(a store.ListJobApplicationsForPostRow) JobApplicationResponse {
	resp := JobApplicationResponse{
		ID:        a.ID,
		JobPostID: a.JobPostID,
		UserID:    a.UserID,
		Applicant: model.DisplayName(a.UserFirstName, a.UserLastName, a.UserEmail),
		Body:      a.Body,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.CvKey.Valid {
		resp.CV = &CVResponse{
			Filename:    a.CvFilename.String,
			ContentType: a.CvContentType.String,
			Size:        a.CvSize.Int64,
			URL:         fmt.Sprintf("/job_posts/%d/job_applications/%d/cv", a.JobPostID, a.ID),
		}
	}
	return resp
}

// ListJobPosts handles GET /api/v1/job_posts.
func (h *Handler) ListJobPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.jobs.ListPosts(r.Context())
	if err != nil {
		slog.Error("api: failed to list job posts", "error", err)
		WriteInternalError(w, "Failed to list job posts")
		return
	}

	data := make([]JobPostResponse, 0, len(posts))
	for _, p := range posts {
		data = append(data, jobPostToResponse(p))
	}

	WriteSuccess(w, data, &Meta{Total: int64(len(data))})
}

// GetJobPost handles GET /api/v1/job_posts/{id}.
func (h *Handler) GetJobPost(w http.ResponseWriter, r *http.Request) {
	post, ok := requireEntityByID(w, r, "id", "job post", func(id int64) (store.JobPost, error) {
		return h.jobs.GetPost(r.Context(), id)
	})
	if !ok {
		return
	}

	WriteSuccess(w, jobPostToResponse(post), nil)
}

// ListJobApplications handles GET /api/v1/job_posts/{job_post_id}/job_applications.
func (h *Handler) ListJobApplications(w http.ResponseWriter, r *http.Request) {
	apps, ok := requireEntityByID(w, r, "job_post_id", "job post", func(id int64) ([]store.ListJobApplicationsForPostRow, error) {
		return h.jobs.ListApplications(r.Context(), id)
	})
	if !ok {
		return
	}

	data := make([]JobApplicationResponse, 0, len(apps))
	for _, a := range apps {
		data = append(data, applicationToResponse(a))
	}

	WriteSuccess(w, data, &Meta{Total: int64(len(data))})
}
