// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/jobboard/internal/auth"
)

// Default admin credentials
const (
	DefaultAdminEmail     = "admin@example.com"
	DefaultAdminPassword  = "changeme1234"
	DefaultAdminFirstName = "Site"
	DefaultAdminLastName  = "Administrator"
)

// sampleJobPost is inserted on first seed so the listing page is not empty.
var sampleJobPost = CreateJobPostParams{
	Title: "Backend Engineer",
	Body: "We are looking for a backend engineer to help us build the job board.\n\n" +
		"* Go and SQL experience\n* Comfortable with server-rendered HTML",
}

// Seed creates initial data in the database.
// If doSeed is false, nothing is created.
func Seed(ctx context.Context, db *sql.DB, doSeed bool) error {
	if !doSeed {
		slog.Debug("seeding disabled, skipping")
		return nil
	}

	queries := New(db)

	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		FirstName:    DefaultAdminFirstName,
		LastName:     DefaultAdminLastName,
		Admin:        true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"email", user.Email,
	)

	count, err := queries.CountJobPosts(ctx)
	if err != nil {
		return fmt.Errorf("counting job posts: %w", err)
	}
	if count > 0 {
		return nil
	}

	params := sampleJobPost
	params.CreatedAt = now
	params.UpdatedAt = now
	post, err := queries.CreateJobPost(ctx, params)
	if err != nil {
		return fmt.Errorf("creating sample job post: %w", err)
	}
	slog.Info("created sample job post", "id", post.ID, "title", post.Title)

	return nil
}

// PromoteUser grants the admin flag to the user with the given email.
func PromoteUser(ctx context.Context, db *sql.DB, email string) (User, error) {
	queries := New(db)

	user, err := queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, fmt.Errorf("no user with email %q", email)
		}
		return User{}, fmt.Errorf("looking up user: %w", err)
	}

	if user.Admin {
		return user, nil
	}

	if err := queries.SetUserAdmin(ctx, SetUserAdminParams{
		Admin:     true,
		UpdatedAt: time.Now(),
		ID:        user.ID,
	}); err != nil {
		return User{}, fmt.Errorf("promoting user: %w", err)
	}
	user.Admin = true

	return user, nil
}
