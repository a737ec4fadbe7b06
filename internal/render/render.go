// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded HTML templates once at startup and
// renders them with the base layout, the signed-in user and any pending
// flash message.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/jobboard/internal/cache"
	"github.com/olegiv/jobboard/internal/model"
	"github.com/olegiv/jobboard/internal/session"
	"github.com/olegiv/jobboard/internal/store"
	"github.com/olegiv/jobboard/internal/uikit"
)

// blankLinesRegex matches runs of whitespace-only lines left behind by template actions.
var blankLinesRegex = regexp.MustCompile(`(\r?\n[ \t]*)+\r?\n`)

// preformattedRegex matches elements whose whitespace is content.
var preformattedRegex = regexp.MustCompile(`(?is)<(?:textarea|pre)\b.*?</(?:textarea|pre)>`)

// pageDirs are the template directories rendered inside the base layout.
var pageDirs = []string{"pages", "job_posts", "job_applications", "auth", "admin", "errors"}

const baseLayout = "layouts/base.html"

// Renderer handles template rendering with caching.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
	markdown       *Markdown
	isDev          bool
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
	IsDev          bool

	// MarkdownCache, when set, holds rendered job post and application bodies.
	MarkdownCache    cache.Cache
	MarkdownCacheTTL time.Duration
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		markdown:       NewMarkdown(),
		isDev:          cfg.IsDev,
	}
	if cfg.MarkdownCache != nil {
		r.markdown.WithCache(cfg.MarkdownCache, cfg.MarkdownCacheTTL)
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates parses every page template together with the base layout and partials.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := getTemplateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	for _, dir := range pageDirs {
		pages, err := getTemplateFiles(templatesFS, dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", dir, err)
		}

		for _, tmplPath := range pages {
			name := dir + "/" + strings.TrimSuffix(path.Base(tmplPath), ".html")

			files := []string{baseLayout}
			files = append(files, partials...)
			files = append(files, tmplPath)

			tmpl, err := template.New("").Funcs(r.TemplateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}

			r.templates[name] = tmpl
		}
	}

	if len(r.templates) == 0 {
		return fmt.Errorf("no page templates found")
	}

	return nil
}

// getTemplateFiles returns all .html files in a directory.
func getTemplateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	var files []string

	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		// Directory might not exist, that's ok
		return files, nil
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}

	return files, nil
}

// TemplateFuncs returns the shared uikit helpers plus job board functions.
func (r *Renderer) TemplateFuncs() template.FuncMap {
	funcs := uikit.TemplateFuncs()

	funcs["markdown"] = func(s string) template.HTML {
		if r.markdown == nil {
			return template.HTML(template.HTMLEscapeString(s))
		}
		return r.markdown.Render(s)
	}
	funcs["displayName"] = func(u any) string {
		switch v := u.(type) {
		case store.User:
			return model.DisplayName(v.FirstName, v.LastName, v.Email)
		case *store.User:
			if v == nil {
				return ""
			}
			return model.DisplayName(v.FirstName, v.LastName, v.Email)
		default:
			return ""
		}
	}
	funcs["isAdmin"] = func(u *store.User) bool {
		return u != nil && u.Admin
	}
	funcs["fieldError"] = func(errs map[string]string, field string) string {
		return errs[field]
	}
	funcs["jobPostPath"] = func(id int64) string {
		return fmt.Sprintf("/job_posts/%d", id)
	}
	funcs["jobApplicationsPath"] = func(postID int64) string {
		return fmt.Sprintf("/job_posts/%d/job_applications", postID)
	}
	funcs["jobApplicationPath"] = func(postID, id int64) string {
		return fmt.Sprintf("/job_posts/%d/job_applications/%d", postID, id)
	}

	return funcs
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	User        *store.User
	Data        any
	Breadcrumbs []uikit.Breadcrumb
	Flash       string
	FlashType   string
	CurrentPath string
	CurrentYear int
}

// Render renders a template with the given data and a 200 status.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders a template with the given status code.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()
	data.CurrentPath = req.URL.Path

	if r.sessionManager != nil {
		if flash := r.sessionManager.PopString(req.Context(), session.KeyFlash); flash != "" {
			data.Flash = flash
			data.FlashType = r.sessionManager.PopString(req.Context(), session.KeyFlashType)
			if data.FlashType == "" {
				data.FlashType = model.FlashNotice
			}
		}
	}

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	out := compactHTML(buf.Bytes())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(out)
	return nil
}

// RenderPage renders a template and writes a 500 response if rendering fails.
func (r *Renderer) RenderPage(w http.ResponseWriter, req *http.Request, name string, data TemplateData) {
	r.RenderPageStatus(w, req, http.StatusOK, name, data)
}

// RenderPageStatus is RenderPage with an explicit status code.
func (r *Renderer) RenderPageStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) {
	if err := r.RenderStatus(w, req, status, name, data); err != nil {
		slog.Error("render error", "error", err, "template", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// compactHTML removes blank lines outside textarea and pre elements.
func compactHTML(b []byte) []byte {
	keep := preformattedRegex.FindAllIndex(b, -1)
	if len(keep) == 0 {
		return blankLinesRegex.ReplaceAll(b, []byte("\n"))
	}

	out := make([]byte, 0, len(b))
	last := 0
	for _, loc := range keep {
		out = append(out, blankLinesRegex.ReplaceAll(b[last:loc[0]], []byte("\n"))...)
		out = append(out, b[loc[0]:loc[1]]...)
		last = loc[1]
	}
	out = append(out, blankLinesRegex.ReplaceAll(b[last:], []byte("\n"))...)
	return out
}

// HasTemplate reports whether a page template with the given name was parsed.
func (r *Renderer) HasTemplate(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// SetFlash sets a flash message in the session.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager != nil {
		r.sessionManager.Put(req.Context(), session.KeyFlash, message)
		r.sessionManager.Put(req.Context(), session.KeyFlashType, flashType)
	}
}
