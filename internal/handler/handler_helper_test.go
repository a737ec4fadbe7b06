// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"database/sql"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/jobboard/internal/middleware"
	"github.com/olegiv/jobboard/internal/render"
	"github.com/olegiv/jobboard/internal/service"
	"github.com/olegiv/jobboard/internal/session"
	"github.com/olegiv/jobboard/internal/store"
	"github.com/olegiv/jobboard/internal/testutil"
	"github.com/olegiv/jobboard/web"
)

// testMaxUpload is the CV limit used by handler tests.
const testMaxUpload = 64 << 10

// testEnv bundles the dependencies handlers are built from.
type testEnv struct {
	db       *sql.DB
	sm       *scs.SessionManager
	renderer *render.Renderer
	jobs     *service.JobService
	events   *service.EventService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("templates fs: %v", err)
	}

	sm := testSessionManager(t)
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	return &testEnv{
		db:       db,
		sm:       sm,
		renderer: renderer,
		jobs:     service.NewJobService(db, service.NewCVStorage(t.TempDir(), testMaxUpload)),
		events:   service.NewEventService(db),
	}
}

// testSessionManager creates an in-memory session manager for testing.
func testSessionManager(t *testing.T) *scs.SessionManager {
	t.Helper()
	sm := scs.New()
	sm.Lifetime = 24 * time.Hour
	return sm
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// requestWithSession wraps a request with session context.
func requestWithSession(sm *scs.SessionManager, r *http.Request) *http.Request {
	ctx, err := sm.Load(r.Context(), "")
	if err != nil {
		return r
	}
	return r.WithContext(ctx)
}

// requestAsUser marks the request as coming from a signed-in user.
func requestAsUser(r *http.Request, user store.User) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), user))
}

// formRequest builds a urlencoded POST request with a loaded session.
func (env *testEnv) formRequest(method, target string, form url.Values, params map[string]string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return requestWithURLParams(requestWithSession(env.sm, r), params)
}

// getRequest builds a GET request with a loaded session.
func (env *testEnv) getRequest(target string, params map[string]string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	return requestWithURLParams(requestWithSession(env.sm, r), params)
}

// uploadFile is a file part of a multipart request.
type uploadFile struct {
	field       string
	filename    string
	contentType string
	content     []byte
}

// multipartRequest builds a multipart request with a loaded session.
func (env *testEnv) multipartRequest(t *testing.T, method, target string, fields map[string]string, file *uploadFile, params map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if file != nil {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{`form-data; name="` + file.field + `"; filename="` + file.filename + `"`}
		if file.contentType != "" {
			h["Content-Type"] = []string{file.contentType}
		}
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("CreatePart: %v", err)
		}
		if _, err := part.Write(file.content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	r := httptest.NewRequest(method, target, &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return requestWithURLParams(requestWithSession(env.sm, r), params)
}

// flashOf returns the flash message and type stored in the request's session.
func (env *testEnv) flashOf(r *http.Request) (string, string) {
	return env.sm.GetString(r.Context(), session.KeyFlash), env.sm.GetString(r.Context(), session.KeyFlashType)
}

// assertStatus checks if the response status code matches the expected value.
func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

// assertRedirect checks for a 303 to the given location.
func assertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	assertStatus(t, w.Code, http.StatusSeeOther)
	if got := w.Header().Get("Location"); got != location {
		t.Errorf("Location = %q; want %q", got, location)
	}
}

// countRows returns the number of rows in a table.
func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
