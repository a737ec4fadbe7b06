// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"

	"github.com/olegiv/jobboard/internal/model"
)

var (
	// ErrNotFound is returned when a record does not exist or is not reachable
	// through the given parent.
	ErrNotFound = errors.New("not found")

	// ErrFileTooLarge is returned when an uploaded CV exceeds the configured limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrNoAttachment is returned when a CV is requested for an application without one.
	ErrNoAttachment = errors.New("no attachment")
)

// ValidationError carries per-field messages for a rejected write.
type ValidationError struct {
	Fields model.FieldErrors
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Fields.Error()
}

func newValidationError(fields model.FieldErrors) *ValidationError {
	return &ValidationError{Fields: fields}
}

// FieldErrorsOf returns the field messages when err is a *ValidationError.
func FieldErrorsOf(err error) (model.FieldErrors, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields, true
	}
	return nil, false
}
