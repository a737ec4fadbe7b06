// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model holds the job board's domain constants and the validation
// rules applied to submitted forms before anything reaches the database.
package model

import (
	"net/mail"
	"strings"
)

// Field length limits shared by forms and validation.
const (
	MaxTitleLength = 255
	MaxNameLength  = 100
	MaxEmailLength = 254
)

// SignUpInput is the sanitized content of the sign-up form.
type SignUpInput struct {
	Email           string
	FirstName       string
	LastName        string
	Password        string
	PasswordConfirm string
}

// Normalize trims whitespace and lowercases the email address.
func (in *SignUpInput) Normalize() {
	in.Email = NormalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateSignUp checks the sign-up form. Password strength is checked by the
// caller with auth.ValidatePassword so this package stays free of crypto.
func ValidateSignUp(in SignUpInput) FieldErrors {
	errs := FieldErrors{}

	switch {
	case in.Email == "":
		errs.Add("email", "Email is required")
	case len(in.Email) > MaxEmailLength:
		errs.Add("email", "Email is too long")
	default:
		if _, err := mail.ParseAddress(in.Email); err != nil {
			errs.Add("email", "Invalid email format")
		}
	}

	if len(in.FirstName) > MaxNameLength {
		errs.Add("first_name", "First name is too long")
	}
	if len(in.LastName) > MaxNameLength {
		errs.Add("last_name", "Last name is too long")
	}

	if in.Password != in.PasswordConfirm {
		errs.Add("password_confirm", "Passwords do not match")
	}

	return errs
}

// DisplayName returns "First Last" when either part is set, otherwise the email.
func DisplayName(firstName, lastName, email string) string {
	name := strings.TrimSpace(firstName + " " + lastName)
	if name == "" {
		return email
	}
	return name
}
