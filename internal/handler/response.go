// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/jobboard/internal/middleware"
	"github.com/olegiv/jobboard/internal/model"
	"github.com/olegiv/jobboard/internal/render"
	"github.com/olegiv/jobboard/internal/service"
)

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) for POST/PUT/DELETE redirects.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, model.FlashError)
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, model.FlashSuccess)
}

// parseFormOrRedirect parses the request form and redirects with an error message on failure.
// Returns true if parsing succeeded, false if it failed (and redirect was performed).
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, renderer, redirectURL, "Invalid form data")
		return false
	}
	return true
}

// logAndHTTPError logs an error and writes an HTTP error response.
func logAndHTTPError(w http.ResponseWriter, message string, statusCode int, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, message, statusCode)
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	logAndHTTPError(w, "Internal Server Error", http.StatusInternalServerError, logMsg, args...)
}

// renderError renders one of the error pages, falling back to plain text.
func renderError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, tmpl, title string) {
	if renderer == nil || !renderer.HasTemplate(tmpl) {
		http.Error(w, http.StatusText(status), status)
		return
	}
	renderer.RenderPageStatus(w, r, status, tmpl, render.TemplateData{
		Title: title,
		User:  middleware.GetUser(r),
	})
}

// renderNotFound renders the 404 page.
func renderNotFound(w http.ResponseWriter, r *http.Request, renderer *render.Renderer) {
	renderError(w, r, renderer, http.StatusNotFound, tmplNotFound, "Not Found")
}

// renderInternalError logs err and renders the 500 page.
func renderInternalError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	renderError(w, r, renderer, http.StatusInternalServerError, tmplInternalServerError, "Something went wrong")
}

// handleServiceError translates a service error into a response. Not-found
// errors become 404 pages; everything else is logged and becomes a 500.
func handleServiceError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, err error, logMsg string, args ...any) {
	if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrNoAttachment) {
		renderNotFound(w, r, renderer)
		return
	}
	renderInternalError(w, r, renderer, logMsg, append(args, "error", err)...)
}

// NotFound is the router's fallback for unknown routes.
func NotFound(renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderNotFound(w, r, renderer)
	}
}

// MethodNotAllowed is the router's fallback for known routes with the wrong method.
func MethodNotAllowed(renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderError(w, r, renderer, http.StatusMethodNotAllowed, tmplMethodNotAllowed, "Method Not Allowed")
	}
}

// =============================================================================
// GENERIC ENTITY FETCHING HELPERS
// =============================================================================

// requireEntityWithPage fetches an entity using the provided query function.
// A missing entity renders the 404 page; other errors render the 500 page.
// Returns the entity and true if successful, or zero value and false if the
// response has already been written.
//
// Example usage:
//
//	post, ok := requireEntityWithPage(w, r, h.renderer, "job post", id, h.jobs.GetPost)
func requireEntityWithPage[T any](
	w http.ResponseWriter,
	r *http.Request,
	renderer *render.Renderer,
	entityName string,
	id int64,
	queryFn func(ctx context.Context, id int64) (T, error),
) (T, bool) {
	var zero T
	if id <= 0 {
		renderNotFound(w, r, renderer)
		return zero, false
	}
	entity, err := queryFn(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, renderer, err, "failed to get "+entityName, entityName+"_id", id)
		return zero, false
	}
	return entity, true
}
