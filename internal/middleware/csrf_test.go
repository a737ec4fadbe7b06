// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var testAuthKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig_Development(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, true, "localhost:8080")

	if len(cfg.AuthKey) != 32 {
		t.Errorf("expected 32-byte AuthKey, got %d bytes", len(cfg.AuthKey))
	}

	want := map[string]bool{
		"localhost:8080": true,
		"127.0.0.1:8080": true,
	}
	if len(cfg.TrustedOrigins) != len(want) {
		t.Fatalf("TrustedOrigins = %v, want %d entries", cfg.TrustedOrigins, len(want))
	}
	for _, origin := range cfg.TrustedOrigins {
		if !want[origin] {
			t.Errorf("unexpected TrustedOrigin: %s", origin)
		}
	}
}

func TestDefaultCSRFConfig_DevelopmentCustomAddr(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, true, "0.0.0.0:3000")

	found := false
	for _, origin := range cfg.TrustedOrigins {
		if origin == "0.0.0.0:3000" {
			found = true
		}
	}
	if !found {
		t.Errorf("TrustedOrigins = %v, want server address included", cfg.TrustedOrigins)
	}
}

func TestDefaultCSRFConfig_Production(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, false, "0.0.0.0:8080")

	if len(cfg.TrustedOrigins) != 0 {
		t.Errorf("expected no TrustedOrigins in production, got %v", cfg.TrustedOrigins)
	}
}

// The csrf library expects host:port, not full URLs.
func TestTrustedOriginsFormat(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, true, "localhost:8080")

	for _, origin := range cfg.TrustedOrigins {
		if strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://") {
			t.Errorf("TrustedOrigin %q should be host:port format, not full URL", origin)
		}
		if !strings.Contains(origin, ":") {
			t.Errorf("TrustedOrigin %q should include port", origin)
		}
	}
}

func csrfTestHandler(cfg CSRFConfig) http.Handler {
	return CSRF(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCSRF_AllowsSameOriginPost(t *testing.T) {
	handler := csrfTestHandler(DefaultCSRFConfig(testAuthKey, false, ""))

	req := httptest.NewRequest(http.MethodPost, "/job_posts", nil)
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("same-origin POST status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestCSRF_AllowsSafeMethods(t *testing.T) {
	handler := csrfTestHandler(DefaultCSRFConfig(testAuthKey, false, ""))

	req := httptest.NewRequest(http.MethodGet, "/job_posts", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("cross-site GET status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestCSRF_RejectsCrossSitePost(t *testing.T) {
	handler := csrfTestHandler(DefaultCSRFConfig(testAuthKey, false, ""))

	req := httptest.NewRequest(http.MethodPost, "/job_posts", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("cross-site POST status = %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestCSRF_WithCustomErrorHandler(t *testing.T) {
	cfg := DefaultCSRFConfig(testAuthKey, false, "")

	customCalled := false
	cfg.ErrorHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		customCalled = true
		http.Error(w, "Custom CSRF Error", http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodDelete, "/job_posts/1", nil)
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rr := httptest.NewRecorder()
	csrfTestHandler(cfg).ServeHTTP(rr, req)

	if !customCalled {
		t.Error("custom error handler was not called")
	}
	if rr.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusTeapot)
	}
}
