// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/olegiv/jobboard/internal/store"
	"github.com/olegiv/jobboard/internal/testutil"
)

func newTestJobApplicationsHandler(t *testing.T) (*JobApplicationsHandler, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	return NewJobApplicationsHandler(env.db, env.jobs, env.events, env.renderer, env.sm), env
}

func appParams(postID, id int64) map[string]string {
	params := map[string]string{"job_post_id": fmt.Sprint(postID)}
	if id > 0 {
		params["id"] = fmt.Sprint(id)
	}
	return params
}

func insertApplication(t *testing.T, db *store.Queries, postID, userID int64, body string) store.JobApplication {
	t.Helper()
	now := time.Now()
	app, err := db.CreateJobApplication(context.Background(), store.CreateJobApplicationParams{
		JobPostID: postID,
		UserID:    userID,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateJobApplication: %v", err)
	}
	return app
}

func TestJobApplicationsHandler_Create(t *testing.T) {
	h, env := newTestJobApplicationsHandler(t)
	post := testutil.CreateJobPost(t, env.db, "Go Developer", "Write Go")
	user := testutil.CreateUser(t, env.db, "applicant@example.com", false)

	form := url.Values{
		"user_id":     {fmt.Sprint(user.ID)},
		"body":        {"I would like to apply."},
		"job_post_id": {"9999"},
	}
	r := env.formRequest(http.MethodPost, "/job_posts/1/job_applications", form, appParams(post.ID, 0))
	w := httptest.NewRecorder()
	h.Create(w, r)

	apps, err := env.jobs.ListApplications(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("ListApplications: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("got %d applications; want 1", len(apps))
	}
	if apps[0].JobPostID != post.ID {
		t.Errorf("JobPostID = %d; want %d (the URL parent)", apps[0].JobPostID, post.ID)
	}
	if apps[0].UserID != user.ID {
		t.Errorf("UserID = %d; want %d", apps[0].UserID, user.ID)
	}

	assertRedirect(t, w, fmt.Sprintf("/job_posts/%d/job_applications/%d", post.ID, apps[0].ID))
	if msg, _ := env.flashOf(r); msg != "Job application was successfully created." {
		t.Errorf("flash = %q", msg)
	}
}

func TestJobApplicationsHandler_Create_SignedInUser(t *testing.T) {
	h, env := newTestJobApplicationsHandler(t)
	post := testutil.CreateJobPost(t, env.db, "Go Developer", "Write Go")
	user := testutil.CreateUser(t, env.db, "me@example.com", false)
	other := testutil.CreateUser(t, env.db, "other@example.com", false)

	form := url.Values{"user_id": {fmt.Sprint(other.ID)}, "body": {"Hire me"}}
	r := requestAsUser(env.formRequest(http.MethodPost, "/job_posts/1/job_applications", form, appParams(post.ID, 0)), user)
	w := httptest.NewRecorder()
	h.Create(w, r)

	assertStatus(t, w.Code, http.StatusSeeOther)
	apps, err := env.jobs.ListApplications(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("ListApplications: %v", err)
	}
	if len(apps) != 1 || apps[0].UserID != user.ID {
		t.Fatalf("applications = %+v; want one by user %d", apps, user.ID)
	}
}

func TestJobApplicationsHandler_Create_Invalid(t *testing.T) {
	h, env := newTestJobApplicationsHandler(t)
	post := testutil.CreateJobPost(t, env.db, "Go Developer", "Write Go")
	user := testutil.CreateUser(t, env.db, "applicant@example.com", false)

	tests := []struct {
		name    string
		form    url.Values
		message string
	}{
		{"empty body", url.Values{"user_id": {fmt.Sprint(user.ID)}, "body": {""}}, "Body can&#39;t be blank"},
		{"unknown user", url.Values{"user_id": {"424242"}, "body": {"Hire me"}}, "User must exist"},
		{"missing user", url.Values{"body": {"Hire me"}}, "User must exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Create(w, env.formRequest(http.MethodPost, "/job_posts/1/job_applications", tt.form, appParams(post.ID, 0)))

			assertStatus(t, w.Code, http.StatusUnprocessableEntity)
			if !strings.Contains(w.Body.String(), tt.message) {
				t.Errorf("response should contain %q", tt.message)
			}
			if n := countRows(t, env.db, "job_applications"); n != 0 {
				t.Errorf("job_applications rows = %d; want 0", n)
			}
		})
	}
}

func TestJobApplicationsHandler_Create_UnknownPost(t *testing.T) {
	h, env := newTestJobApplicationsHandler(t)
	user := testutil.CreateUser(t, env.db, "applicant@example.com", false)

	form := url.Values{"user_id": {fmt.Sprint(user.ID)}, "body": {"Hire me"}}
	w := httptest.NewRecorder()
	h.Create(w, env.formRequest(http.MethodPost, "/job_posts/77/job_applications", form, appParams(77, 0)))

	assertStatus(t, w.Code, http.StatusNotFound)
	if n := countRows(t, env.db, "job_applications"); n != 0 {
		t.Errorf("job_applications rows = %d; want 0", n)
	}
}

func TestJobApplicationsHandler_List(t *testing.T) {
	h, env := newTestJobApplicationsHandler(t)
	q := store.New(env.db)
	post := testutil.CreateJobPost(t, env.db, "Go Developer", "Write Go")
	other := testutil.CreateJobPost(t, env.db, "SRE", "Keep it running")
	user := testutil.CreateUser(t, env.db, "applicant@example.com", false)
	insertApplication(t, q, post.ID, user.ID, "First application")
	insertApplication(t, q, other.ID, user.ID, "Other post application")

	w := httptest.NewRecorder()
	h.List(w, env.getRequest("/job_posts/1/job_applications", appParams(post.ID, 0)))

	assertStatus(t, w.Code, http.StatusOK)
	body := w.Body.String()
	if !strings.Contains(body, "First application") {
		t.Error("list should contain the post's application")
	}
	if strings.Contains(body, "Other post application") {
		t.Error("list should not contain applications of other posts")
	}
}

func TestJobApplicationsHandler_Show(t *testing.T) {
	h, env := newTestJobApplicationsHandler(t)
	post := testutil.CreateJobPost(t, env.db, "Go Developer", "Write Go")
	user := testutil.CreateUser(t, env.db, "applicant@example.com", false)
	app := insertApplication(t, store.New(env.db), post.ID, user.ID, "Hire me please")

	w := httptest.NewRecorder()
	h.Show(w, env.getRequest("/job_posts/1/job_applications/1", appParams(post.ID, app.ID)))

	assertStatus(t, w.Code, http.StatusOK)
	if !strings.Contains(w.Body.String(), "Hire me please") {
		t.Error("show page should contain the application body")
	}
	if !strings.Contains(w.Body.String(), "applicant@example.com") {
		t.Error("show page should name the applicant")
	}
}

func TestJobApplicationsHandler_WrongParent(t *testing.T) {
	h, env := newTestJobApplicationsHandler(t)
	q := store.New(env.db)
	post := testutil.CreateJobPost(t, env.db, "Go Developer", "Write Go")
	other := testutil.CreateJobPost(t, env.db, "SRE", "Keep it running")
	user := testutil.CreateUser(t, env.db, "applicant@example.com", false)
	app := insertApplication(t, q, post.ID, user.ID, "Hire me")

	params := appParams(other.ID, app.ID)

	t.Run("show", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Show(w, env.getRequest("/job_posts/2/job_applications/1", params))
		assertStatus(t, w.Code, http.StatusNotFound)
	})

	t.Run("edit", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.EditForm(w, env.getRequest("/job_posts/2/job_applications/1/edit", params))
		assertStatus(t, w.Code, http.StatusNotFound)
	})

	t.Run("update", func(t *testing.T) {
		form := url.Values{"user_id": {fmt.Sprint(user.ID)}, "body": {"Changed"}}
		w := httptest.NewRecorder()
		h.Update(w, env.formRequest(http.MethodPatch, "/job_posts/2/job_applications/1", form, params))
		assertStatus(t, w.Code, http.StatusNotFound)
	})

	t.Run("destroy", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.Destroy(w, env.formRequest(http.MethodDelete, "/job_posts/2/job_applications/1", url.Values{}, params))
		assertStatus(t, w.Code, http.StatusNotFound)
	})

	t.Run("cv", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.DownloadCV(w, env.getRequest("/job_posts/2/job_applications/1/cv", params))
		assertStatus(t, w.Code, http.StatusNotFound)
	})

	got, err := q.GetJobApplicationForPost(context.Background(), store.GetJobApplicationForPostParams{
		ID:        app.ID,
		JobPostID: post.ID,
	})
	if err != nil {
		t.Fatalf("application should still exist: %v", err)
	}
	if got.Body != "Hire me" {
		t.Errorf("Body = %q; want unchanged", got.Body)
	}
}

func TestJobApplicationsHandler_Update(t *testing.T) {
	h, env := newTestJobApplicationsHandler(t)
	q := store.New(env.db)
	post := testutil.CreateJobPost(t, env.db, "Go Developer", "Write Go")
	user := testutil.CreateUser(t, env.db, "applicant@example.com", false)
	app := insertApplication(t, q, post.ID, user.ID, "Hire me")

	form := url.Values{"user_id": {fmt.Sprint(user.ID)}, "body": {"Updated letter"}}
	r := env.formRequest(http.MethodPatch, "/job_posts/1/job_applications/1", form, appParams(post.ID, app.ID))
	w := httptest.NewRecorder()
	h.Update(w, r)

	assertRedirect(t, w, fmt.Sprintf("/job_posts/%d/job_applications/%d", post.ID, app.ID))
	if msg, _ := env.flashOf(r); msg != "Job application was successfully updated." {
		t.Errorf("flash = %q", msg)
	}

	got, err := q.GetJobApplicationForPost(context.Background(), store.GetJobApplicationForPostParams{ID: app.ID, JobPostID: post.ID})
	if err != nil {
		t.Fatalf("GetJobApplicationForPost: %v", err)
	}
	if got.Body != "Updated letter" {
		t.Errorf("Body = %q", got.Body)
	}
}

func TestJobApplicationsHandler_Update_Invalid(t *testing.T) {
	h, env := newTestJobApplicationsHandler(t)
	q := store.New(env.db)
	post := testutil.CreateJobPost(t, env.db, "Go Developer", "Write Go")
	user := testutil.CreateUser(t, env.db, "applicant@example.com", false)
	app := insertApplication(t, q, post.ID, user.ID, "Hire me")

	form := url.Values{"user_id": {fmt.Sprint(user.ID)}, "body": {"  "}}
	w := httptest.NewRecorder()
	h.Update(w, env.formRequest(http.MethodPatch, "/job_posts/1/job_applications/1", form, appParams(post.ID, app.ID)))

	assertStatus(t, w.Code, http.StatusUnprocessableEntity)

	got, err := q.GetJobApplicationForPost(context.Background(), store.GetJobApplicationForPostParams{ID: app.ID, JobPostID: post.ID})
	if err != nil {
		t.Fatalf("GetJobApplicationForPost: %v", err)
	}
	if got.Body != "Hire me" {
		t.Errorf("Body = %q; want unchanged", got.Body)
	}
}

func TestJobApplicationsHandler_Destroy(t *testing.T) {
	h, env := newTestJobApplicationsHandler(t)
	post := testutil.CreateJobPost(t, env.db, "Go Developer", "Write Go")
	user := testutil.CreateUser(t, env.db, "applicant@example.com", false)
	app := insertApplication(t, store.New(env.db), post.ID, user.ID, "Hire me")

	r := env.formRequest(http.MethodDelete, "/job_posts/1/job_applications/1", url.Values{}, appParams(post.ID, app.ID))
	w := httptest.NewRecorder()
	h.Destroy(w, r)

	assertRedirect(t, w, fmt.Sprintf("/job_posts/%d/job_applications", post.ID))
	if msg, _ := env.flashOf(r); msg != "Job application was successfully destroyed." {
		t.Errorf("flash = %q", msg)
	}
	if n := countRows(t, env.db, "job_applications"); n != 0 {
		t.Errorf("job_applications rows = %d; want 0", n)
	}
}

func TestJobApplicationsHandler_CVUploadAndDownload(t *testing.T) {
	h, env := newTestJobApplicationsHandler(t)
	post := testutil.CreateJobPost(t, env.db, "Go Developer", "Write Go")
	user := testutil.CreateUser(t, env.db, "applicant@example.com", false)

	content := []byte("%PDF-1.4 resume")
	fields := map[string]string{"user_id": fmt.Sprint(user.ID), "body": "See attached"}
	file := &uploadFile{field: "cv", filename: "resume.pdf", contentType: "application/pdf", content: content}

	w := httptest.NewRecorder()
	h.Create(w, env.multipartRequest(t, http.MethodPost, "/job_posts/1/job_applications", fields, file, appParams(post.ID, 0)))
	assertStatus(t, w.Code, http.StatusSeeOther)

	apps, err := env.jobs.ListApplications(context.Background(), post.ID)
	if err != nil || len(apps) != 1 {
		t.Fatalf("ListApplications = %v, %v; want one application", apps, err)
	}
	app, err := env.jobs.GetApplication(context.Background(), post.ID, apps[0].ID)
	if err != nil {
		t.Fatalf("GetApplication: %v", err)
	}
	if app.CvFilename.String != "resume.pdf" {
		t.Errorf("CvFilename = %q", app.CvFilename.String)
	}

	w = httptest.NewRecorder()
	h.DownloadCV(w, env.getRequest("/job_posts/1/job_applications/1/cv", appParams(post.ID, app.ID)))

	assertStatus(t, w.Code, http.StatusOK)
	if !bytes.Equal(w.Body.Bytes(), content) {
		t.Errorf("downloaded %q; want %q", w.Body.Bytes(), content)
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, `filename=resume.pdf`) {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := w.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Content-Type = %q", got)
	}

	// An edit without a file keeps the attachment.
	w = httptest.NewRecorder()
	h.Update(w, env.multipartRequest(t, http.MethodPatch, "/job_posts/1/job_applications/1",
		map[string]string{"user_id": fmt.Sprint(user.ID), "body": "Edited"}, nil, appParams(post.ID, app.ID)))
	assertStatus(t, w.Code, http.StatusSeeOther)

	kept, err := env.jobs.GetApplication(context.Background(), post.ID, app.ID)
	if err != nil {
		t.Fatalf("GetApplication: %v", err)
	}
	if kept.CvKey != app.CvKey {
		t.Errorf("CvKey = %v; want %v", kept.CvKey, app.CvKey)
	}
}

func TestJobApplicationsHandler_CVTooLarge(t *testing.T) {
	h, env := newTestJobApplicationsHandler(t)
	post := testutil.CreateJobPost(t, env.db, "Go Developer", "Write Go")
	user := testutil.CreateUser(t, env.db, "applicant@example.com", false)

	fields := map[string]string{"user_id": fmt.Sprint(user.ID), "body": "See attached"}
	file := &uploadFile{field: "cv", filename: "huge.pdf", content: bytes.Repeat([]byte("x"), testMaxUpload+1)}

	w := httptest.NewRecorder()
	h.Create(w, env.multipartRequest(t, http.MethodPost, "/job_posts/1/job_applications", fields, file, appParams(post.ID, 0)))

	assertStatus(t, w.Code, http.StatusUnprocessableEntity)
	if !strings.Contains(w.Body.String(), "CV is too large") {
		t.Error("form should report the oversized CV")
	}
	if n := countRows(t, env.db, "job_applications"); n != 0 {
		t.Errorf("job_applications rows = %d; want 0", n)
	}
}

func TestJobApplicationsHandler_CVBodyOverLimit(t *testing.T) {
	h, env := newTestJobApplicationsHandler(t)
	post := testutil.CreateJobPost(t, env.db, "Go Developer", "Write Go")
	user := testutil.CreateUser(t, env.db, "applicant@example.com", false)

	fields := map[string]string{"user_id": fmt.Sprint(user.ID), "body": "See attached"}
	file := &uploadFile{field: "cv", filename: "huge.pdf", content: bytes.Repeat([]byte("x"), testMaxUpload+multipartOverhead+1)}

	w := httptest.NewRecorder()
	h.Create(w, env.multipartRequest(t, http.MethodPost, "/job_posts/1/job_applications", fields, file, appParams(post.ID, 0)))

	assertStatus(t, w.Code, http.StatusUnprocessableEntity)
	if !strings.Contains(w.Body.String(), "CV is too large") {
		t.Error("form should report the oversized CV")
	}
	if n := countRows(t, env.db, "job_applications"); n != 0 {
		t.Errorf("job_applications rows = %d; want 0", n)
	}
}

func TestJobApplicationsHandler_CVUnusableFilename(t *testing.T) {
	h, env := newTestJobApplicationsHandler(t)
	post := testutil.CreateJobPost(t, env.db, "Go Developer", "Write Go")
	user := testutil.CreateUser(t, env.db, "applicant@example.com", false)

	fields := map[string]string{"user_id": fmt.Sprint(user.ID), "body": "See attached"}
	file := &uploadFile{field: "cv", filename: "..", content: []byte("resume")}

	w := httptest.NewRecorder()
	h.Create(w, env.multipartRequest(t, http.MethodPost, "/job_posts/1/job_applications", fields, file, appParams(post.ID, 0)))
	assertStatus(t, w.Code, http.StatusSeeOther)

	apps, err := env.jobs.ListApplications(context.Background(), post.ID)
	if err != nil || len(apps) != 1 {
		t.Fatalf("ListApplications = %v, %v; want one application", apps, err)
	}
	app, err := env.jobs.GetApplication(context.Background(), post.ID, apps[0].ID)
	if err != nil {
		t.Fatalf("GetApplication: %v", err)
	}
	if app.CvFilename.String != "cv" {
		t.Errorf("CvFilename = %q; want cv", app.CvFilename.String)
	}
}

func TestJobApplicationsHandler_DownloadCV_NoAttachment(t *testing.T) {
	h, env := newTestJobApplicationsHandler(t)
	post := testutil.CreateJobPost(t, env.db, "Go Developer", "Write Go")
	user := testutil.CreateUser(t, env.db, "applicant@example.com", false)
	app := insertApplication(t, store.New(env.db), post.ID, user.ID, "No file")

	w := httptest.NewRecorder()
	h.DownloadCV(w, env.getRequest("/job_posts/1/job_applications/1/cv", appParams(post.ID, app.ID)))

	assertStatus(t, w.Code, http.StatusNotFound)
}

func TestApplicantID(t *testing.T) {
	user := store.User{ID: 5}

	tests := []struct {
		name    string
		signed  bool
		form    string
		current int64
		want    int64
	}{
		{"anonymous uses form", false, "9", 0, 9},
		{"anonymous edit uses form", false, "9", 3, 9},
		{"anonymous garbage", false, "x", 0, 0},
		{"signed in create", true, "9", 0, 5},
		{"signed in edit keeps applicant", true, "9", 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("user_id="+tt.form))
			r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if tt.signed {
				r = requestAsUser(r, user)
			}
			if got := applicantID(r, tt.current); got != tt.want {
				t.Errorf("applicantID() = %d; want %d", got, tt.want)
			}
		})
	}
}
