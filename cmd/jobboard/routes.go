// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/jobboard/internal/handler"
	"github.com/olegiv/jobboard/internal/handler/api"
	"github.com/olegiv/jobboard/internal/middleware"
)

// staticMaxAge is the cache lifetime of the embedded stylesheet.
const staticMaxAge = 24 * time.Hour

// routes builds the router with the full middleware chain.
func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))                    // Gzip compression with level 5
	r.Use(chimw.GetHead)                        // Handle HEAD requests for uptime monitoring
	r.Use(middleware.Timeout(30 * time.Second)) // 30 second request timeout
	r.Use(middleware.StripTrailingSlash)        // Redirect /path/ to /path (301)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(app.cfg.IsDevelopment())))
	r.Use(app.sessionManager.LoadAndSave)
	r.Use(middleware.LoadUser(app.sessionManager, app.db))
	r.Use(middleware.MethodOverride)

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig(
		[]byte(app.cfg.SessionSecret), app.cfg.IsDevelopment(), app.cfg.ServerAddr()))

	welcomeHandler := handler.NewWelcomeHandler(app.jobs, app.renderer)
	jobPostsHandler := handler.NewJobPostsHandler(app.jobs, app.events, app.renderer, app.sessionManager)
	applicationsHandler := handler.NewJobApplicationsHandler(app.db, app.jobs, app.events, app.renderer, app.sessionManager)
	authHandler := handler.NewAuthHandler(app.db, app.renderer, app.sessionManager, app.events, app.loginProtection)
	usersHandler := handler.NewUsersHandler(app.db, app.renderer, app.sessionManager, app.events)
	eventsHandler := handler.NewEventsHandler(app.db, app.events, app.renderer, app.sessionManager)
	healthHandler := handler.NewHealthHandler(app.db, app.cfg.UploadsDir)
	seoHandler := handler.NewSEOHandler(app.jobs, app.cfg.SiteURL, app.cfg.RobotsDisallowAll)
	apiHandler := api.NewHandler(app.jobs)

	// Health checks (no CSRF, no rate limit)
	r.Route(handler.RouteHealth, func(r chi.Router) {
		r.Get("/", healthHandler.Health)
		r.Get("/live", healthHandler.Liveness)
		r.Get("/ready", healthHandler.Readiness)
	})

	r.Get(handler.RouteRobots, seoHandler.Robots)
	r.Get(handler.RouteSitemap, seoHandler.Sitemap)

	// Read-only JSON API
	r.Route(handler.RouteAPI, func(r chi.Router) {
		r.Use(app.apiLimiter.JSONMiddleware())
		r.NotFound(api.NotFound)
		r.MethodNotAllowed(api.MethodNotAllowed)

		r.Get("/", apiHandler.Status)
		r.Get(handler.RouteJobPosts, apiHandler.ListJobPosts)
		r.Get(handler.RouteJobPosts+handler.RouteParamID, apiHandler.GetJobPost)
		r.Get(handler.RouteJobPosts+handler.RouteParamJobPostID+handler.RouteJobApplications, apiHandler.ListJobApplications)
	})

	// HTML pages
	r.Group(func(r chi.Router) {
		r.Use(app.htmlLimiter.HTMLMiddleware())
		r.Use(csrfMiddleware)

		r.Get(handler.RouteRoot, welcomeHandler.Index)
		r.Get(handler.RouteWelcome, welcomeHandler.Index)

		r.Route(handler.RouteJobPosts, func(r chi.Router) {
			r.Get("/", jobPostsHandler.List)
			r.Get(handler.RouteSuffixNew, jobPostsHandler.NewForm)
			r.Post("/", jobPostsHandler.Create)
			r.Get(handler.RouteParamID, jobPostsHandler.Show)
			r.Get(handler.RouteParamID+handler.RouteSuffixEdit, jobPostsHandler.EditForm)
			r.Patch(handler.RouteParamID, jobPostsHandler.Update)
			r.Put(handler.RouteParamID, jobPostsHandler.Update)
			r.Delete(handler.RouteParamID, jobPostsHandler.Destroy)

			r.Route(handler.RouteParamJobPostID+handler.RouteJobApplications, func(r chi.Router) {
				r.Get("/", applicationsHandler.List)
				r.Get(handler.RouteSuffixNew, applicationsHandler.NewForm)
				r.Post("/", applicationsHandler.Create)
				r.Get(handler.RouteParamID, applicationsHandler.Show)
				r.Get(handler.RouteParamID+handler.RouteSuffixEdit, applicationsHandler.EditForm)
				r.Patch(handler.RouteParamID, applicationsHandler.Update)
				r.Put(handler.RouteParamID, applicationsHandler.Update)
				r.Delete(handler.RouteParamID, applicationsHandler.Destroy)
				r.Get(handler.RouteParamID+handler.RouteSuffixCV, applicationsHandler.DownloadCV)
			})
		})

		r.Get(handler.RouteSignIn, authHandler.SignInForm)
		r.With(app.loginProtection.Middleware()).Post(handler.RouteSession, authHandler.SignIn)
		r.Post(handler.RouteSignOut, authHandler.SignOut)
		r.Delete(handler.RouteSignOut, authHandler.SignOut)
		r.Get(handler.RouteSignUp, authHandler.SignUpForm)
		r.With(app.loginProtection.Middleware()).Post(handler.RouteUsers, authHandler.SignUp)

		r.Route(handler.RouteAdmin, func(r chi.Router) {
			r.Use(middleware.RequireAdmin(app.sessionManager, app.events))
			r.Get(handler.RouteAdminUsers, usersHandler.List)
			r.Post(handler.RouteAdminUserToggle, usersHandler.ToggleAdmin)
			r.Get(handler.RouteAdminEvents, eventsHandler.List)
		})
	})

	// Embedded stylesheet
	r.Handle("/static/dist/*", staticCache(staticMaxAge)(
		http.StripPrefix("/static/dist/", http.FileServer(http.FS(app.staticFS)))))

	r.NotFound(handler.NotFound(app.renderer))
	r.MethodNotAllowed(handler.MethodNotAllowed(app.renderer))

	return r
}

// staticCache sets cache headers for embedded assets.
func staticCache(maxAge time.Duration) func(http.Handler) http.Handler {
	value := "public, max-age=" + strconv.Itoa(int(maxAge.Seconds()))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", value)
			next.ServeHTTP(w, r)
		})
	}
}
