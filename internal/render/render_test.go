// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/jobboard/internal/model"
	"github.com/olegiv/jobboard/internal/session"
	"github.com/olegiv/jobboard/internal/store"
)

func TestBlankLinesRegex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "no blank lines",
			input:    "line1\nline2\nline3",
			expected: "line1\nline2\nline3",
		},
		{
			name:     "one blank line (two newlines)",
			input:    "line1\n\nline2",
			expected: "line1\nline2",
		},
		{
			name:     "two blank lines (three newlines)",
			input:    "line1\n\n\nline2",
			expected: "line1\nline2",
		},
		{
			name:     "multiple blank lines",
			input:    "line1\n\n\n\n\nline2",
			expected: "line1\nline2",
		},
		{
			name:     "blank lines with spaces",
			input:    "line1\n  \n\t\nline2",
			expected: "line1\nline2",
		},
		{
			name:     "windows line endings",
			input:    "line1\r\n\r\n\r\nline2",
			expected: "line1\nline2",
		},
		{
			name:     "mixed line endings",
			input:    "line1\n\r\n\nline2",
			expected: "line1\nline2",
		},
		{
			name:     "blank lines at start",
			input:    "\n\n\nline1\nline2",
			expected: "\nline1\nline2",
		},
		{
			name:     "blank lines at end",
			input:    "line1\nline2\n\n\n",
			expected: "line1\nline2\n",
		},
		{
			name:     "multiple sections with blank lines",
			input:    "a\n\n\nb\n\n\nc",
			expected: "a\nb\nc",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "only newlines",
			input:    "\n\n\n\n",
			expected: "\n",
		},
		{
			name:     "html with blank lines",
			input:    "<div>\n\n\n<p>text</p>\n\n\n</div>",
			expected: "<div>\n<p>text</p>\n</div>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(blankLinesRegex.ReplaceAll([]byte(tt.input), []byte("\n")))
			if got != tt.expected {
				t.Errorf("blankLinesRegex.ReplaceAll(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCompactHTML_PreservesPreformatted(t *testing.T) {
	input := "<div>\n\n\n<textarea>para one\n\npara two</textarea>\n\n<pre>a\n\nb</pre>\n\n</div>"
	want := "<div>\n<textarea>para one\n\npara two</textarea>\n<pre>a\n\nb</pre>\n</div>"

	if got := string(compactHTML([]byte(input))); got != want {
		t.Errorf("compactHTML() = %q, want %q", got, want)
	}
}

func TestTemplateFuncs_Present(t *testing.T) {
	funcs := (&Renderer{}).TemplateFuncs()

	for _, name := range []string{
		"markdown", "displayName", "isAdmin", "fieldError",
		"jobPostPath", "jobApplicationsPath", "jobApplicationPath",
		"formatDate", "truncate", "formatBytes", "dict",
	} {
		if _, ok := funcs[name]; !ok {
			t.Errorf("TemplateFuncs missing function: %s", name)
		}
	}
}

func TestTemplateFuncs_FormatDate(t *testing.T) {
	funcs := (&Renderer{}).TemplateFuncs()

	formatDate := funcs["formatDate"].(func(time.Time) string)
	testTime := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	if got := formatDate(testTime); got != "Mar 15, 2025" {
		t.Errorf("formatDate() = %q, want %q", got, "Mar 15, 2025")
	}
}

func TestTemplateFuncs_Paths(t *testing.T) {
	funcs := (&Renderer{}).TemplateFuncs()

	if got := funcs["jobPostPath"].(func(int64) string)(3); got != "/job_posts/3" {
		t.Errorf("jobPostPath = %q", got)
	}
	if got := funcs["jobApplicationsPath"].(func(int64) string)(3); got != "/job_posts/3/job_applications" {
		t.Errorf("jobApplicationsPath = %q", got)
	}
	if got := funcs["jobApplicationPath"].(func(int64, int64) string)(3, 9); got != "/job_posts/3/job_applications/9" {
		t.Errorf("jobApplicationPath = %q", got)
	}
}

func TestTemplateFuncs_UserHelpers(t *testing.T) {
	funcs := (&Renderer{}).TemplateFuncs()
	displayName := funcs["displayName"].(func(any) string)
	isAdmin := funcs["isAdmin"].(func(*store.User) bool)

	u := store.User{Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace", Admin: true}
	if got := displayName(u); got != "Ada Lovelace" {
		t.Errorf("displayName(User) = %q", got)
	}
	if got := displayName(&store.User{Email: "x@example.com"}); got != "x@example.com" {
		t.Errorf("displayName(*User without name) = %q", got)
	}
	if got := displayName((*store.User)(nil)); got != "" {
		t.Errorf("displayName(nil) = %q", got)
	}
	if !isAdmin(&u) || isAdmin(nil) || isAdmin(&store.User{}) {
		t.Error("isAdmin returned wrong result")
	}
}

var testTemplates = fstest.MapFS{
	"layouts/base.html": {Data: []byte(`{{define "base"}}<title>{{.Title}}</title>
{{if .Flash}}<p class="flash {{.FlashType}}">{{.Flash}}</p>{{end}}


{{template "content" .}}{{end}}`)},
	"partials/user.html": {Data: []byte(`{{define "user"}}{{if .User}}{{displayName .User}}{{end}}{{end}}`)},
	"job_posts/show.html": {Data: []byte(`{{define "content"}}{{template "user" .}}|{{markdown .Data}}{{end}}`)},
	"errors/404.html":     {Data: []byte(`{{define "content"}}not found{{end}}`)},
}

func newTestRenderer(t *testing.T, sm *scs.SessionManager) *Renderer {
	t.Helper()
	r, err := New(Config{TemplatesFS: testTemplates, SessionManager: sm, IsDev: true})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return r
}

func TestNew_ParsesPageTemplates(t *testing.T) {
	r := newTestRenderer(t, nil)

	for _, name := range []string{"job_posts/show", "errors/404"} {
		if !r.HasTemplate(name) {
			t.Errorf("template %s not parsed", name)
		}
	}
	if r.HasTemplate("partials/user") {
		t.Error("partials must not be registered as pages")
	}
}

func TestNew_NoTemplates(t *testing.T) {
	if _, err := New(Config{TemplatesFS: fstest.MapFS{}}); err == nil {
		t.Error("New() with empty FS should fail")
	}
}

func TestRender(t *testing.T) {
	r := newTestRenderer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/job_posts/1", nil)
	rr := httptest.NewRecorder()
	err := r.Render(rr, req, "job_posts/show", TemplateData{
		Title: "Backend Engineer",
		User:  &store.User{Email: "ada@example.com", FirstName: "Ada"},
		Data:  "**Go** <script>alert(1)</script>",
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	body := rr.Body.String()
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(body, "<strong>Go</strong>") {
		t.Errorf("markdown not rendered: %s", body)
	}
	if strings.Contains(body, "<script>") {
		t.Errorf("script tag not sanitized: %s", body)
	}
	if !strings.Contains(body, "Ada") {
		t.Errorf("partial not rendered: %s", body)
	}
	if strings.Contains(body, "\n\n") {
		t.Errorf("blank lines not compacted: %q", body)
	}
}

func TestRenderStatus(t *testing.T) {
	r := newTestRenderer(t, nil)

	rr := httptest.NewRecorder()
	if err := r.RenderStatus(rr, httptest.NewRequest(http.MethodGet, "/x", nil), http.StatusNotFound, "errors/404", TemplateData{}); err != nil {
		t.Fatalf("RenderStatus() error: %v", err)
	}
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	r := newTestRenderer(t, nil)

	err := r.Render(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), "nope/missing", TemplateData{})
	if err == nil {
		t.Fatal("Render() should fail for unknown template")
	}

	rr := httptest.NewRecorder()
	r.RenderPage(rr, httptest.NewRequest(http.MethodGet, "/", nil), "nope/missing", TemplateData{})
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("RenderPage status = %d, want 500", rr.Code)
	}
}

func TestRender_PopsFlash(t *testing.T) {
	sm := scs.New()
	r := newTestRenderer(t, sm)

	var first, second string
	handler := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.SetFlash(req, model.NotAuthorizedMessage, model.FlashNotice)

		rr := httptest.NewRecorder()
		r.RenderPage(rr, req, "errors/404", TemplateData{})
		first = rr.Body.String()

		rr = httptest.NewRecorder()
		r.RenderPage(rr, req, "errors/404", TemplateData{})
		second = rr.Body.String()

		if sm.GetString(req.Context(), session.KeyFlash) != "" {
			t.Error("flash should be removed from the session after rendering")
		}
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sign_in", nil))

	if !strings.Contains(first, model.NotAuthorizedMessage) || !strings.Contains(first, "flash notice") {
		t.Errorf("first render missing flash: %s", first)
	}
	if strings.Contains(second, model.NotAuthorizedMessage) {
		t.Errorf("flash shown twice: %s", second)
	}
}
