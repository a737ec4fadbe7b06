// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"unicode/utf8"
)

// JobPostInput is the submitted content of a job post form.
type JobPostInput struct {
	Title string
	Body  string
}

// ValidateJobPost checks a job post. Title and body are stored as submitted
// and may be empty; only the title length is bounded.
func ValidateJobPost(in JobPostInput) FieldErrors {
	errs := FieldErrors{}

	if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		errs.Add("title", "Title is too long (maximum is 255 characters)")
	}

	return errs
}

// JobApplicationInput is the submitted content of a job application form.
// JobPostID always comes from the URL, never from the form body.
type JobApplicationInput struct {
	JobPostID int64
	UserID    int64
	Body      string
}

// ValidateJobApplication checks the fields that can be verified without the
// database. Reference existence is checked by the service inside the write
// transaction.
func ValidateJobApplication(in JobApplicationInput) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(in.Body) == "" {
		errs.Add("body", "Body can't be blank")
	}
	if in.JobPostID <= 0 {
		errs.Add("job_post", "Job post must exist")
	}
	if in.UserID <= 0 {
		errs.Add("user", "User must exist")
	}

	return errs
}
