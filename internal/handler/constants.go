// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteWelcome is the welcome page alias.
	RouteWelcome = "/welcome/index"
	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteSuffixEdit is the suffix for "edit" routes.
	RouteSuffixEdit = "/edit"
	// RouteSuffixCV is the suffix for the CV download route.
	RouteSuffixCV = "/cv"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteParamJobPostID is the parent job post parameter pattern.
	RouteParamJobPostID = "/{job_post_id}"

	// RouteJobPosts is the job posts collection.
	RouteJobPosts = "/job_posts"
	// RouteJobApplications is the applications collection under a job post.
	RouteJobApplications = "/job_applications"

	// RouteSignIn is the sign-in form.
	RouteSignIn = "/sign_in"
	// RouteSession creates a session.
	RouteSession = "/session"
	// RouteSignOut destroys the session.
	RouteSignOut = "/sign_out"
	// RouteSignUp is the sign-up form.
	RouteSignUp = "/sign_up"
	// RouteUsers creates a user.
	RouteUsers = "/users"

	// RouteAdmin is the admin prefix.
	RouteAdmin = "/admin"
	// RouteAdminUsers is the admin account list, relative to RouteAdmin.
	RouteAdminUsers = "/users"
	// RouteAdminUserToggle toggles a user's admin flag, relative to RouteAdmin.
	RouteAdminUserToggle = "/users/{id}/admin"
	// RouteAdminEvents is the event log, relative to RouteAdmin.
	RouteAdminEvents = "/events"

	// RouteAPI is the JSON API prefix.
	RouteAPI = "/api/v1"

	// RouteHealth is the health check prefix.
	RouteHealth = "/health"

	// RouteRobots is the crawler policy.
	RouteRobots = "/robots.txt"
	// RouteSitemap is the XML sitemap of public pages.
	RouteSitemap = "/sitemap.xml"
)

// URL parameter names.
const (
	paramID        = "id"
	paramJobPostID = "job_post_id"
)

const (
	redirectJobPosts      = RouteJobPosts
	redirectJobPostsNew   = RouteJobPosts + RouteSuffixNew
	redirectJobPostID     = RouteJobPosts + "/%d"
	redirectApplications  = redirectJobPostID + RouteJobApplications
	redirectApplicationID = redirectApplications + "/%d"
	redirectSignIn        = RouteSignIn
	redirectSignUp        = RouteSignUp
	redirectAdminUsers    = RouteAdmin + RouteAdminUsers
	redirectAdminEvents   = RouteAdmin + RouteAdminEvents
)

// Template names.
const (
	tmplWelcome             = "pages/welcome"
	tmplJobPostsIndex       = "job_posts/index"
	tmplJobPostsShow        = "job_posts/show"
	tmplJobPostsForm        = "job_posts/form"
	tmplApplicationsIndex   = "job_applications/index"
	tmplApplicationsShow    = "job_applications/show"
	tmplApplicationsForm    = "job_applications/form"
	tmplSignIn              = "auth/sign_in"
	tmplSignUp              = "auth/sign_up"
	tmplAdminUsers          = "admin/users"
	tmplAdminEvents         = "admin/events"
	tmplNotFound            = "errors/404"
	tmplMethodNotAllowed    = "errors/405"
	tmplInternalServerError = "errors/500"
)

// Utility constants used by main.go.
const (
	// HeaderContentType is the Content-Type HTTP header name.
	HeaderContentType = "Content-Type"
	// multipartMemory is how much of a multipart body is kept in memory before spilling to disk.
	multipartMemory = 8 << 20
)
