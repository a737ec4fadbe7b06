// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/jobboard/internal/middleware"
	"github.com/olegiv/jobboard/internal/model"
	"github.com/olegiv/jobboard/internal/render"
	"github.com/olegiv/jobboard/internal/service"
	"github.com/olegiv/jobboard/internal/store"
	"github.com/olegiv/jobboard/internal/uikit"
)

// UsersHandler handles the admin account pages. Routes are mounted behind
// middleware.RequireAdmin.
type UsersHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	eventService   *service.EventService
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, events *service.EventService) *UsersHandler {
	return &UsersHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
		eventService:   events,
	}
}

// UsersListData holds data for the account list.
type UsersListData struct {
	Users      []store.User
	AdminCount int64
}

// List handles GET /admin/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		renderInternalError(w, r, h.renderer, "failed to list users", "error", err)
		return
	}

	admins, err := h.queries.CountAdmins(r.Context())
	if err != nil {
		renderInternalError(w, r, h.renderer, "failed to count admins", "error", err)
		return
	}

	h.renderer.RenderPage(w, r, tmplAdminUsers, render.TemplateData{
		Title:       "Users",
		User:        middleware.GetUser(r),
		Data:        UsersListData{Users: users, AdminCount: admins},
		Breadcrumbs: uikit.Breadcrumbs("Admin", redirectAdminUsers, "Users", redirectAdminUsers),
	})
}

// ToggleAdmin handles POST /admin/users/{id}/admin. The form field "admin"
// carries the new value ("1" or "0"). The last admin cannot be demoted.
func (h *UsersHandler) ToggleAdmin(w http.ResponseWriter, r *http.Request) {
	id, _ := ParseIDParam(r)
	user, ok := requireEntityWithPage(w, r, h.renderer, "user", id, h.getUser)
	if !ok {
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsers) {
		return
	}
	admin := r.FormValue("admin") == "1"

	if admin == user.Admin {
		http.Redirect(w, r, redirectAdminUsers, http.StatusSeeOther)
		return
	}

	if admin {
		if err := h.queries.SetUserAdmin(r.Context(), store.SetUserAdminParams{
			Admin:     true,
			UpdatedAt: time.Now(),
			ID:        user.ID,
		}); err != nil {
			renderInternalError(w, r, h.renderer, "failed to update admin flag", "user_id", user.ID, "error", err)
			return
		}
	} else {
		// The admin count is checked in the same statement, so concurrent
		// demotions cannot remove the last admin.
		n, err := h.queries.DemoteAdmin(r.Context(), store.DemoteAdminParams{
			UpdatedAt: time.Now(),
			ID:        user.ID,
		})
		if err != nil {
			renderInternalError(w, r, h.renderer, "failed to update admin flag", "user_id", user.ID, "error", err)
			return
		}
		if n == 0 {
			flashError(w, r, h.renderer, redirectAdminUsers, "Cannot remove admin rights from the last admin")
			return
		}
	}

	message := "User is no longer an admin."
	if admin {
		message = "User is now an admin."
	}

	slog.Info("admin flag changed", "user_id", user.ID, "admin", admin, "changed_by", middleware.GetUserID(r))
	h.eventService.Record(r.Context(), model.EventLevelInfo, model.EventCategoryUser, "Admin flag changed",
		middleware.GetUserIDPtr(r), middleware.ClientIP(r), map[string]any{
			"target_user_id": user.ID,
			"email":          user.Email,
			"admin":          admin,
		})

	// Demoting yourself ends your access to this page.
	target := redirectAdminUsers
	if !admin && user.ID == middleware.GetUserID(r) {
		target = redirectJobPosts
	}
	flashSuccess(w, r, h.renderer, target, message)
}

func (h *UsersHandler) getUser(ctx context.Context, id int64) (store.User, error) {
	user, err := h.queries.GetUserByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, service.ErrNotFound
	}
	return user, err
}
