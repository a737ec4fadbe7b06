// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/jobboard/internal/middleware"
	"github.com/olegiv/jobboard/internal/model"
	"github.com/olegiv/jobboard/internal/render"
	"github.com/olegiv/jobboard/internal/service"
	"github.com/olegiv/jobboard/internal/store"
	"github.com/olegiv/jobboard/internal/uikit"
)

// EventsHandler handles the admin event log.
type EventsHandler struct {
	queries        *store.Queries
	events         *service.EventService
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(db *sql.DB, events *service.EventService, renderer *render.Renderer, sm *scs.SessionManager) *EventsHandler {
	return &EventsHandler{
		queries:        store.New(db),
		events:         events,
		renderer:       renderer,
		sessionManager: sm,
	}
}

// EventWithUser represents an event with associated user info.
type EventWithUser struct {
	ID          int64
	Level       string
	Category    string
	Message     string
	Details     string // Formatted metadata as readable text
	DetailsLong bool   // True if details exceed display threshold
	IPAddress   string
	CreatedAt   string
	UserName    string
	UserEmail   string
}

// detailsLengthThreshold is the max chars before details are collapsible
const detailsLengthThreshold = 80

// formatMetadata converts JSON metadata to readable text format.
// Example: {"path":"/admin/users","job_post_id":3} -> "job_post_id: 3, path: /admin/users"
func formatMetadata(metadata string) string {
	if metadata == "" || metadata == "{}" {
		return ""
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(metadata), &data); err != nil {
		return metadata // Return as-is if not valid JSON
	}

	if len(data) == 0 {
		return ""
	}

	// Sort keys for consistent output order
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		var strValue string
		switch v := data[key].(type) {
		case string:
			strValue = v
		case float64:
			strValue = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			strValue = strconv.FormatBool(v)
		case nil:
			strValue = "null"
		default:
			// For nested objects, marshal back to JSON
			if b, err := json.Marshal(v); err == nil {
				strValue = string(b)
			}
		}
		parts = append(parts, key+": "+strValue)
	}

	return strings.Join(parts, ", ")
}

// EventsListData holds data for the events list template.
type EventsListData struct {
	Events      []EventWithUser
	TotalEvents int64
	Pagination  uikit.AdminPagination
}

// List handles GET /admin/events.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.events.ListEvents(r.Context(), uikit.ParsePageParam(r))
	if err != nil {
		renderInternalError(w, r, h.renderer, "failed to list events", "error", err)
		return
	}

	users := make(map[int64]*store.User)
	events := make([]EventWithUser, 0, len(page.Events))
	for _, e := range page.Events {
		ev := EventWithUser{
			ID:        e.ID,
			Level:     e.Level,
			Category:  e.Category,
			Message:   e.Message,
			Details:   formatMetadata(e.Metadata),
			IPAddress: e.IpAddress,
			CreatedAt: e.CreatedAt.Format("Jan 2, 2006 15:04:05"),
		}
		ev.DetailsLong = len(ev.Details) > detailsLengthThreshold

		if e.UserID.Valid {
			if u := h.lookupUser(r, users, e.UserID.Int64); u != nil {
				ev.UserName = model.DisplayName(u.FirstName, u.LastName, u.Email)
				ev.UserEmail = u.Email
			}
		}
		events = append(events, ev)
	}

	h.renderer.RenderPage(w, r, tmplAdminEvents, render.TemplateData{
		Title: "Event Log",
		User:  middleware.GetUser(r),
		Data: EventsListData{
			Events:      events,
			TotalEvents: page.Total,
			Pagination:  uikit.BuildAdminPagination(page.Page, int(page.Total), service.EventsPerPage, redirectAdminEvents, r.URL.Query()),
		},
		Breadcrumbs: uikit.Breadcrumbs("Admin", redirectAdminUsers, "Event Log", redirectAdminEvents),
	})
}

// lookupUser resolves an event's user once per page.
func (h *EventsHandler) lookupUser(r *http.Request, cache map[int64]*store.User, id int64) *store.User {
	if u, ok := cache[id]; ok {
		return u
	}
	u, err := h.queries.GetUserByID(r.Context(), id)
	if err != nil {
		slog.Debug("event user not found", "user_id", id, "error", err)
		cache[id] = nil
		return nil
	}
	cache[id] = &u
	return &u
}
