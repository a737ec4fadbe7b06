// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth   = "auth"
	EventCategoryUser   = "user"
	EventCategoryJob    = "job"
	EventCategorySystem = "system"
)

// Flash message types understood by the layout template.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashNotice  = "notice"
)

// NotAuthorizedMessage is flashed when the admin gate denies a request.
const NotAuthorizedMessage = "You are not authorized to view this page"
