// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/jobboard/internal/model"
	"github.com/olegiv/jobboard/internal/service"
	"github.com/olegiv/jobboard/internal/store"
)

// IsAdmin reports whether user may view admin-only pages.
// An absent identity is never an admin.
func IsAdmin(user *store.User) bool {
	return user != nil && user.Admin
}

// RequireAdmin creates the admin authorization gate. Requests from admins
// proceed unchanged. Everyone else gets the "not authorized" notice in the
// session and a 303 redirect to the sign-in page; the wrapped handler is not
// executed. Use after LoadUser.
func RequireAdmin(sm *scs.SessionManager, events *service.EventService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !RequireAdminFunc(sm, events, w, r) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdminFunc is the inline form of RequireAdmin for use inside a
// handler. It returns true if the request may proceed; otherwise the denial
// response has already been written.
func RequireAdminFunc(sm *scs.SessionManager, events *service.EventService, w http.ResponseWriter, r *http.Request) bool {
	user := GetUser(r)
	if IsAdmin(user) {
		return true
	}

	var userID *int64
	if user != nil {
		userID = &user.ID
	}

	// WARN would be mirrored into the event log a second time.
	slog.Info("access denied",
		"method", r.Method,
		"path", r.URL.Path,
		"signed_in", user != nil,
		"remote_addr", ClientIP(r),
	)

	events.Record(r.Context(), model.EventLevelWarning, model.EventCategoryAuth,
		"Access denied: admin required", userID, ClientIP(r), map[string]any{
			"method": r.Method,
			"path":   r.URL.Path,
		})

	putFlash(sm, r, model.NotAuthorizedMessage, model.FlashNotice)
	http.Redirect(w, r, SignInPath, http.StatusSeeOther)
	return false
}
