// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

func TestFieldErrors(t *testing.T) {
	errs := FieldErrors{}
	if errs.Any() {
		t.Fatal("empty FieldErrors should report no errors")
	}

	errs.Add("body", "first")
	errs.Add("body", "second")
	errs.Add("user", "missing")

	if got := errs["body"]; got != "first" {
		t.Errorf("body = %q, want first message kept", got)
	}
	if !errs.Has("user") || errs.Has("title") {
		t.Error("Has() reported wrong fields")
	}
	if got, want := errs.Error(), "body: first; user: missing"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidateJobPost(t *testing.T) {
	tests := []struct {
		name    string
		input   JobPostInput
		wantErr bool
	}{
		{"valid", JobPostInput{Title: "Go Developer", Body: "Remote"}, false},
		{"empty body allowed", JobPostInput{Title: "Go Developer"}, false},
		{"blank title allowed", JobPostInput{Title: "   ", Body: "x"}, false},
		{"empty post allowed", JobPostInput{}, false},
		{"long title", JobPostInput{Title: strings.Repeat("a", MaxTitleLength+1)}, true},
		{"max title", JobPostInput{Title: strings.Repeat("ж", MaxTitleLength)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateJobPost(tt.input)
			if errs.Has("title") != tt.wantErr {
				t.Errorf("ValidateJobPost() = %v, wantErr %v", errs, tt.wantErr)
			}
		})
	}
}

func TestValidateJobApplication(t *testing.T) {
	tests := []struct {
		name   string
		input  JobApplicationInput
		fields []string
	}{
		{"valid", JobApplicationInput{JobPostID: 1, UserID: 7, Body: "Hire me"}, nil},
		{"empty body", JobApplicationInput{JobPostID: 1, UserID: 7, Body: ""}, []string{"body"}},
		{"whitespace body", JobApplicationInput{JobPostID: 1, UserID: 7, Body: " \n\t"}, []string{"body"}},
		{"no user", JobApplicationInput{JobPostID: 1, Body: "x"}, []string{"user"}},
		{"nothing", JobApplicationInput{}, []string{"body", "job_post", "user"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateJobApplication(tt.input)
			if len(errs) != len(tt.fields) {
				t.Fatalf("got %d errors %v, want fields %v", len(errs), errs, tt.fields)
			}
			for _, f := range tt.fields {
				if !errs.Has(f) {
					t.Errorf("missing error for %q", f)
				}
			}
		})
	}
}

func TestValidateSignUp(t *testing.T) {
	valid := SignUpInput{Email: "a@example.com", Password: "secret123", PasswordConfirm: "secret123"}
	if errs := ValidateSignUp(valid); errs.Any() {
		t.Errorf("valid input rejected: %v", errs)
	}

	tests := []struct {
		name  string
		input SignUpInput
		field string
	}{
		{"missing email", SignUpInput{}, "email"},
		{"bad email", SignUpInput{Email: "not-an-email"}, "email"},
		{"long first name", SignUpInput{Email: "a@example.com", FirstName: strings.Repeat("a", MaxNameLength+1)}, "first_name"},
		{"mismatch", SignUpInput{Email: "a@example.com", Password: "a", PasswordConfirm: "b"}, "password_confirm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if errs := ValidateSignUp(tt.input); !errs.Has(tt.field) {
				t.Errorf("expected error on %q, got %v", tt.field, errs)
			}
		})
	}
}

func TestSignUpInput_Normalize(t *testing.T) {
	in := SignUpInput{Email: "  Jane@Example.COM ", FirstName: " Jane ", LastName: " Doe "}
	in.Normalize()
	if in.Email != "jane@example.com" || in.FirstName != "Jane" || in.LastName != "Doe" {
		t.Errorf("Normalize() = %+v", in)
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("Jane", "Doe", "j@example.com"); got != "Jane Doe" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := DisplayName("", "", "j@example.com"); got != "j@example.com" {
		t.Errorf("DisplayName fallback = %q", got)
	}
}
