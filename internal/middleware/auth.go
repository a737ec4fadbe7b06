// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for loading the signed-in user,
// the admin authorization gate, CSRF and login protection, security headers
// and HTML form method override.
package middleware

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/jobboard/internal/session"
	"github.com/olegiv/jobboard/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request data.
const (
	ContextKeyUser ContextKey = "user"
)

// SignInPath is where unauthenticated and unauthorized requests are sent.
const SignInPath = "/sign_in"

// LoadUser creates middleware that loads the signed-in user into the request
// context. Requests without a session pass through unchanged. A session that
// points at a missing user is renewed so the stale id is dropped.
func LoadUser(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := sm.GetInt64(r.Context(), session.KeyUserID)
			if userID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					sm.Remove(r.Context(), session.KeyUserID)
					_ = sm.RenewToken(r.Context())
				} else {
					slog.Error("failed to load session user", "user_id", userID, "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user store.User) context.Context {
	return context.WithValue(ctx, ContextKeyUser, user)
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *store.User {
	user, ok := r.Context().Value(ContextKeyUser).(store.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the current user's ID from context, or 0 if not found.
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}

// GetUserIDPtr returns a pointer to the current user's ID, or nil if not found.
// Useful for optional user ID parameters in event logging.
func GetUserIDPtr(r *http.Request) *int64 {
	if user := GetUser(r); user != nil {
		id := user.ID
		return &id
	}
	return nil
}

// ClientIP returns the client address without port. chi's RealIP middleware
// has already applied X-Real-IP / X-Forwarded-For to RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// putFlash stores a one-shot message for the next rendered page.
func putFlash(sm *scs.SessionManager, r *http.Request, msg, msgType string) {
	sm.Put(r.Context(), session.KeyFlash, msg)
	sm.Put(r.Context(), session.KeyFlashType, msgType)
}
