// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/olegiv/jobboard/internal/model"
	"github.com/olegiv/jobboard/internal/service"
	"github.com/olegiv/jobboard/internal/testutil"
)

func TestFormatMetadata(t *testing.T) {
	tests := []struct {
		name     string
		metadata string
		want     string
	}{
		{"empty", "", ""},
		{"empty object", "{}", ""},
		{"invalid json", "not json", "not json"},
		{"sorted keys", `{"title":"SRE","job_post_id":3}`, "job_post_id: 3, title: SRE"},
		{"bool and null", `{"admin":true,"user":null}`, "admin: true, user: null"},
		{"nested", `{"ids":[1,2]}`, "ids: [1,2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatMetadata(tt.metadata); got != tt.want {
				t.Errorf("formatMetadata(%q) = %q; want %q", tt.metadata, got, tt.want)
			}
		})
	}
}

func TestEventsHandler_List(t *testing.T) {
	env := newTestEnv(t)
	h := NewEventsHandler(env.db, env.events, env.renderer, env.sm)
	admin := testutil.CreateUser(t, env.db, "admin@example.com", true)

	env.events.Record(context.Background(), model.EventLevelInfo, model.EventCategoryJob,
		"Job post created", &admin.ID, "203.0.113.7", map[string]any{"job_post_id": 1})
	env.events.Record(context.Background(), model.EventLevelWarning, model.EventCategoryAuth,
		"Sign-in failed: user not found", nil, "198.51.100.2", nil)

	w := httptest.NewRecorder()
	h.List(w, requestAsUser(env.getRequest("/admin/events", nil), admin))

	assertStatus(t, w.Code, http.StatusOK)
	body := w.Body.String()
	for _, want := range []string{"Job post created", "Sign-in failed: user not found", "203.0.113.7", "job_post_id: 1", "admin@example.com"} {
		if !strings.Contains(body, want) {
			t.Errorf("events page missing %q", want)
		}
	}
}

func TestEventsHandler_List_Pagination(t *testing.T) {
	env := newTestEnv(t)
	h := NewEventsHandler(env.db, env.events, env.renderer, env.sm)
	admin := testutil.CreateUser(t, env.db, "admin@example.com", true)

	for i := 0; i < service.EventsPerPage+1; i++ {
		env.events.Record(context.Background(), model.EventLevelInfo, model.EventCategoryJob,
			fmt.Sprintf("event-%03d", i), nil, "", nil)
	}

	w := httptest.NewRecorder()
	h.List(w, requestAsUser(env.getRequest("/admin/events?page=2", nil), admin))

	assertStatus(t, w.Code, http.StatusOK)
	if !strings.Contains(w.Body.String(), "event-000") {
		t.Error("second page should contain the oldest event")
	}
	if strings.Contains(w.Body.String(), fmt.Sprintf("event-%03d", service.EventsPerPage)) {
		t.Error("second page should not contain the newest event")
	}
}
