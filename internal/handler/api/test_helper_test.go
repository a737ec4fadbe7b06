// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/jobboard/internal/service"
	"github.com/olegiv/jobboard/internal/testutil"
)

// newTestHandler creates an API handler over a fresh migrated database.
func newTestHandler(t *testing.T) (*Handler, *service.JobService, *sql.DB) {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	jobs := service.NewJobService(db, service.NewCVStorage(t.TempDir(), 1<<20))
	return NewHandler(jobs), jobs, db
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
