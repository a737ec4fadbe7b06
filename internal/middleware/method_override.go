// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strings"
)

// MethodOverrideField is the form field HTML forms use to tunnel PATCH, PUT
// and DELETE through POST.
const MethodOverrideField = "_method"

// MethodOverride rewrites POST requests whose form carries a _method field of
// PATCH, PUT or DELETE. Any other value is ignored. Multipart bodies are not
// parsed here so the upload size limit stays with the handler; those forms
// pass the override in the query string instead.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if method := overrideMethod(r); method != "" {
				r.Method = method
			}
		}
		next.ServeHTTP(w, r)
	})
}

func overrideMethod(r *http.Request) string {
	var value string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		value = r.PostFormValue(MethodOverrideField)
	}
	if value == "" {
		value = r.URL.Query().Get(MethodOverrideField)
	}

	switch method := strings.ToUpper(strings.TrimSpace(value)); method {
	case http.MethodPatch, http.MethodPut, http.MethodDelete:
		return method
	default:
		return ""
	}
}
