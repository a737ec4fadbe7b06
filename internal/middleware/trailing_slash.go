// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strings"
)

// StripTrailingSlash redirects GET and HEAD requests for URLs with trailing
// slashes to their non-trailing equivalents (HTTP 301). Other methods have the
// slash removed in place so form posts are not turned into GETs. The root
// path "/" is left alone.
func StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/" || !strings.HasSuffix(path, "/") {
			next.ServeHTTP(w, r)
			return
		}

		newPath := "/" + strings.Trim(path, "/")
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			r.URL.Path = newPath
			r.URL.RawPath = ""
			next.ServeHTTP(w, r)
			return
		}

		newURL := newPath
		if r.URL.RawQuery != "" {
			newURL += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, newURL, http.StatusMovedPermanently)
	})
}
