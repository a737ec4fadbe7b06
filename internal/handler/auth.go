// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/jobboard/internal/auth"
	"github.com/olegiv/jobboard/internal/middleware"
	"github.com/olegiv/jobboard/internal/model"
	"github.com/olegiv/jobboard/internal/render"
	"github.com/olegiv/jobboard/internal/service"
	"github.com/olegiv/jobboard/internal/session"
	"github.com/olegiv/jobboard/internal/store"
	"github.com/olegiv/jobboard/internal/uikit"
)

// AuthHandler handles sign-in, sign-out and sign-up.
type AuthHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, events *service.EventService, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessionManager:  sm,
		eventService:    events,
		loginProtection: lp,
	}
}

// SignInData holds data for the sign-in form.
type SignInData struct {
	Email string
}

// SignUpData holds data for the sign-up form.
type SignUpData struct {
	Errors     map[string]string
	FormValues map[string]string
}

// SignInForm handles GET /sign_in. Signed-in users are sent on.
func (h *AuthHandler) SignInForm(w http.ResponseWriter, r *http.Request) {
	if user := middleware.GetUser(r); user != nil {
		http.Redirect(w, r, landingPath(user), http.StatusSeeOther)
		return
	}

	h.renderer.RenderPage(w, r, tmplSignIn, render.TemplateData{
		Title:       "Sign in",
		Data:        SignInData{Email: r.URL.Query().Get("email")},
		Breadcrumbs: uikit.Breadcrumbs("Sign in", redirectSignIn),
	})
}

// SignIn handles POST /session.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectSignIn) {
		return
	}

	email := model.NormalizeEmail(r.FormValue("email"))
	password := r.FormValue("password")
	clientIP := middleware.ClientIP(r)

	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectSignIn, "Email and password are required")
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			h.eventService.Record(r.Context(), model.EventLevelWarning, model.EventCategoryAuth,
				"Sign-in attempt on locked account", nil, clientIP, map[string]any{"email": email})
			flashError(w, r, h.renderer, redirectSignIn,
				fmt.Sprintf("Account temporarily locked. Try again in %s.", formatDuration(remaining)))
			return
		}
	}

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Debug("sign-in attempt for unknown email", "email", email)
			auth.EqualizeTiming(password)
			h.eventService.Record(r.Context(), model.EventLevelWarning, model.EventCategoryAuth,
				"Sign-in failed: user not found", nil, clientIP, map[string]any{"email": email})
		} else {
			slog.Error("database error during sign-in", "error", err)
		}
		h.failSignIn(w, r, email)
		return
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err, "user_id", user.ID)
	}
	if !valid {
		slog.Debug("invalid password attempt", "user_id", user.ID)
		h.eventService.Record(r.Context(), model.EventLevelWarning, model.EventCategoryAuth,
			"Sign-in failed: invalid password", &user.ID, clientIP, map[string]any{"email": email})
		h.failSignIn(w, r, email)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    time.Now(),
				ID:           user.ID,
			}); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			} else {
				slog.Info("password re-hashed with updated parameters", "user_id", user.ID)
			}
		}
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), session.KeyUserID, user.ID)

	slog.Info("user signed in", "user_id", user.ID)
	h.eventService.Record(r.Context(), model.EventLevelInfo, model.EventCategoryAuth,
		"User signed in", &user.ID, clientIP, map[string]any{"email": user.Email})

	flashSuccess(w, r, h.renderer, landingPath(&user), "Signed in successfully.")
}

// failSignIn counts a failed attempt and redirects back to the form.
// Unknown emails are counted too so lockout does not reveal which accounts exist.
func (h *AuthHandler) failSignIn(w http.ResponseWriter, r *http.Request, email string) {
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			h.eventService.Record(r.Context(), model.EventLevelWarning, model.EventCategoryAuth,
				"Account locked due to failed attempts", nil, middleware.ClientIP(r),
				map[string]any{"email": email, "duration": lockDuration.String()})
			flashError(w, r, h.renderer, redirectSignIn,
				fmt.Sprintf("Too many failed attempts. Try again in %s.", formatDuration(lockDuration)))
			return
		}
		if remaining := h.loginProtection.GetRemainingAttempts(email); remaining > 0 && remaining <= 3 {
			flashError(w, r, h.renderer, redirectSignIn,
				fmt.Sprintf("Invalid email or password. %s remaining.", uikit.Pluralize(int64(remaining), "attempt", "attempts")))
			return
		}
	}
	flashError(w, r, h.renderer, redirectSignIn, "Invalid email or password")
}

// SignOut handles POST and DELETE /sign_out.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID > 0 {
		h.eventService.Record(r.Context(), model.EventLevelInfo, model.EventCategoryAuth,
			"User signed out", &userID, middleware.ClientIP(r), nil)
	}

	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		slog.Error("session renewal error", "error", err)
	}
	h.sessionManager.Remove(r.Context(), session.KeyUserID)

	slog.Info("user signed out", "user_id", userID)
	flashAndRedirect(w, r, h.renderer, RouteRoot, "Signed out successfully.", model.FlashNotice)
}

// SignUpForm handles GET /sign_up.
func (h *AuthHandler) SignUpForm(w http.ResponseWriter, r *http.Request) {
	if user := middleware.GetUser(r); user != nil {
		http.Redirect(w, r, landingPath(user), http.StatusSeeOther)
		return
	}

	h.renderSignUp(w, r, http.StatusOK, SignUpData{
		Errors:     make(map[string]string),
		FormValues: make(map[string]string),
	})
}

// SignUp handles POST /users. New accounts are never admins.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectSignUp) {
		return
	}

	in := model.SignUpInput{
		Email:           r.FormValue("email"),
		FirstName:       r.FormValue("first_name"),
		LastName:        r.FormValue("last_name"),
		Password:        r.FormValue("password"),
		PasswordConfirm: r.FormValue("password_confirm"),
	}
	in.Normalize()

	fields := model.ValidateSignUp(in)
	if err := auth.ValidatePassword(in.Password); err != nil {
		fields.Add("password", passwordMessage(err))
	}
	if !fields.Has("email") {
		_, err := h.queries.GetUserByEmail(r.Context(), in.Email)
		switch {
		case err == nil:
			fields.Add("email", "Email has already been taken")
		case !errors.Is(err, sql.ErrNoRows):
			renderInternalError(w, r, h.renderer, "database error checking email", "error", err)
			return
		}
	}

	if fields.Any() {
		h.renderSignUp(w, r, http.StatusUnprocessableEntity, SignUpData{
			Errors: fields,
			FormValues: map[string]string{
				"email":      in.Email,
				"first_name": in.FirstName,
				"last_name":  in.LastName,
			},
		})
		return
	}

	passwordHash, err := auth.HashPassword(in.Password)
	if err != nil {
		renderInternalError(w, r, h.renderer, "failed to hash password", "error", err)
		return
	}

	now := time.Now()
	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Email:        in.Email,
		PasswordHash: passwordHash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Admin:        false,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		renderInternalError(w, r, h.renderer, "failed to create user", "error", err)
		return
	}

	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), session.KeyUserID, user.ID)

	slog.Info("user signed up", "user_id", user.ID)
	h.eventService.Record(r.Context(), model.EventLevelInfo, model.EventCategoryUser,
		"User signed up", &user.ID, middleware.ClientIP(r), map[string]any{"email": user.Email})

	flashSuccess(w, r, h.renderer, redirectJobPosts, "Welcome! You have signed up successfully.")
}

func (h *AuthHandler) renderSignUp(w http.ResponseWriter, r *http.Request, status int, data SignUpData) {
	h.renderer.RenderPageStatus(w, r, status, tmplSignUp, render.TemplateData{
		Title:       "Sign up",
		Data:        data,
		Breadcrumbs: uikit.Breadcrumbs("Sign up", redirectSignUp),
	})
}

// landingPath is where a user goes after signing in.
func landingPath(user *store.User) string {
	if middleware.IsAdmin(user) {
		return redirectAdminUsers
	}
	return redirectJobPosts
}

func passwordMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrPasswordTooShort):
		return fmt.Sprintf("Password is too short (minimum is %d characters)", auth.MinPasswordLength)
	case errors.Is(err, auth.ErrPasswordTooLong):
		return fmt.Sprintf("Password is too long (maximum is %d characters)", auth.MaxPasswordLength)
	default:
		return "Password is invalid"
	}
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
