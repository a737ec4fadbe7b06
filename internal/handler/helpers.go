// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/jobboard/internal/util"
)

// ErrInvalidID is returned when a URL segment is not a positive integer.
var ErrInvalidID = errors.New("invalid id")

// ParseIDParam parses the {id} URL parameter.
func ParseIDParam(r *http.Request) (int64, error) {
	return ParseURLParamID(r, paramID)
}

// ParseJobPostIDParam parses the {job_post_id} URL parameter.
func ParseJobPostIDParam(r *http.Request) (int64, error) {
	return ParseURLParamID(r, paramJobPostID)
}

// ParseURLParamID parses a positive integer URL parameter by name.
func ParseURLParamID(r *http.Request, name string) (int64, error) {
	id := util.ParsePositiveID(chi.URLParam(r, name))
	if id == 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// formValues collects the named form fields so a rejected form can be redisplayed.
func formValues(r *http.Request, fields ...string) map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f] = r.FormValue(f)
	}
	return values
}
