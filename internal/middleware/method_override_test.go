// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestMethodOverride(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		target      string
		form        url.Values
		contentType string
		want        string
	}{
		{"delete via form", http.MethodPost, "/job_posts/1", url.Values{"_method": {"delete"}}, "application/x-www-form-urlencoded", http.MethodDelete},
		{"patch via form", http.MethodPost, "/job_posts/1", url.Values{"_method": {"PATCH"}}, "application/x-www-form-urlencoded", http.MethodPatch},
		{"put via query", http.MethodPost, "/job_posts/1/job_applications/2?_method=PUT", nil, "multipart/form-data; boundary=x", http.MethodPut},
		{"unknown value ignored", http.MethodPost, "/job_posts", url.Values{"_method": {"GET"}}, "application/x-www-form-urlencoded", http.MethodPost},
		{"no field", http.MethodPost, "/job_posts", url.Values{"title": {"x"}}, "application/x-www-form-urlencoded", http.MethodPost},
		{"get untouched", http.MethodGet, "/job_posts?_method=DELETE", nil, "", http.MethodGet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			handler := MethodOverride(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Method
			}))

			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.form.Encode()))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("method = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMethodOverrideKeepsFormValues(t *testing.T) {
	var title string
	handler := MethodOverride(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		title = r.PostFormValue("title")
	}))

	form := url.Values{"_method": {"PATCH"}, "title": {"Go developer"}}
	req := httptest.NewRequest(http.MethodPost, "/job_posts/1", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if title != "Go developer" {
		t.Errorf("title = %q, want %q", title, "Go developer")
	}
}
