// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/olegiv/jobboard/internal/model"
	"github.com/olegiv/jobboard/internal/store"
	"github.com/olegiv/jobboard/internal/util"
)

// JobService owns job posts and the applications filed under them.
// Every application operation is scoped by its parent post.
type JobService struct {
	db      *sql.DB
	queries *store.Queries
	cvs     *CVStorage
}

// NewJobService creates a new JobService.
func NewJobService(db *sql.DB, cvs *CVStorage) *JobService {
	return &JobService{
		db:      db,
		queries: store.New(db),
		cvs:     cvs,
	}
}

// CVStorage returns the attachment store.
func (s *JobService) CVStorage() *CVStorage {
	return s.cvs
}

// ListPosts returns all job posts, newest first.
func (s *JobService) ListPosts(ctx context.Context) ([]store.JobPost, error) {
	posts, err := s.queries.ListJobPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing job posts: %w", err)
	}
	return posts, nil
}

// GetPost returns a job post or ErrNotFound.
func (s *JobService) GetPost(ctx context.Context, id int64) (store.JobPost, error) {
	post, err := s.queries.GetJobPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.JobPost{}, ErrNotFound
		}
		return store.JobPost{}, fmt.Errorf("getting job post %d: %w", id, err)
	}
	return post, nil
}

// CreatePost validates and stores a new job post.
func (s *JobService) CreatePost(ctx context.Context, in model.JobPostInput) (store.JobPost, error) {
	if errs := model.ValidateJobPost(in); errs.Any() {
		return store.JobPost{}, newValidationError(errs)
	}

	now := time.Now()
	post, err := s.queries.CreateJobPost(ctx, store.CreateJobPostParams{
		Title:     in.Title,
		Body:      in.Body,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return store.JobPost{}, fmt.Errorf("creating job post: %w", err)
	}
	return post, nil
}

// UpdatePost validates and replaces the title and body of a job post.
func (s *JobService) UpdatePost(ctx context.Context, id int64, in model.JobPostInput) (store.JobPost, error) {
	if errs := model.ValidateJobPost(in); errs.Any() {
		return store.JobPost{}, newValidationError(errs)
	}

	post, err := s.queries.UpdateJobPost(ctx, store.UpdateJobPostParams{
		Title:     in.Title,
		Body:      in.Body,
		UpdatedAt: time.Now(),
		ID:        id,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.JobPost{}, ErrNotFound
		}
		return store.JobPost{}, fmt.Errorf("updating job post %d: %w", id, err)
	}
	return post, nil
}

// DeletePost deletes a job post. Its applications go with it (ON DELETE
// CASCADE) and their CV files are removed afterwards.
func (s *JobService) DeletePost(ctx context.Context, id int64) error {
	keys, err := s.queries.ListCVKeysForPost(ctx, id)
	if err != nil {
		return fmt.Errorf("listing cv keys for job post %d: %w", id, err)
	}

	n, err := s.queries.DeleteJobPost(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting job post %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}

	for _, k := range keys {
		if k.Valid {
			s.cvs.removeQuietly(k.String)
		}
	}
	if len(keys) > 0 {
		slog.Info("removed cv files of deleted job post", "job_post_id", id, "count", len(keys))
	}
	return nil
}

// ListApplications returns the applications of one job post, newest first.
// Returns ErrNotFound if the post does not exist.
func (s *JobService) ListApplications(ctx context.Context, jobPostID int64) ([]store.ListJobApplicationsForPostRow, error) {
	if _, err := s.GetPost(ctx, jobPostID); err != nil {
		return nil, err
	}

	apps, err := s.queries.ListJobApplicationsForPost(ctx, jobPostID)
	if err != nil {
		return nil, fmt.Errorf("listing applications for job post %d: %w", jobPostID, err)
	}
	return apps, nil
}

// CountApplications returns how many applications a job post has.
func (s *JobService) CountApplications(ctx context.Context, jobPostID int64) (int64, error) {
	n, err := s.queries.CountJobApplicationsForPost(ctx, jobPostID)
	if err != nil {
		return 0, fmt.Errorf("counting applications for job post %d: %w", jobPostID, err)
	}
	return n, nil
}

// GetApplication returns an application only if it belongs to jobPostID.
func (s *JobService) GetApplication(ctx context.Context, jobPostID, id int64) (store.JobApplication, error) {
	app, err := s.queries.GetJobApplicationForPost(ctx, store.GetJobApplicationForPostParams{
		ID:        id,
		JobPostID: jobPostID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.JobApplication{}, ErrNotFound
		}
		return store.JobApplication{}, fmt.Errorf("getting application %d: %w", id, err)
	}
	return app, nil
}

// CreateApplication validates and stores a new application with an optional CV.
// The post and user references are checked inside the insert transaction;
// a missing reference is reported as a field error and nothing is persisted.
func (s *JobService) CreateApplication(ctx context.Context, in model.JobApplicationInput, cv *CVUpload) (store.JobApplication, error) {
	if errs := model.ValidateJobApplication(in); errs.Any() {
		return store.JobApplication{}, newValidationError(errs)
	}

	var app store.JobApplication
	err := s.withTx(ctx, func(q *store.Queries) error {
		if err := checkReferences(ctx, q, in); err != nil {
			return err
		}

		stored, err := s.saveCV(cv)
		if err != nil {
			return err
		}

		now := time.Now()
		app, err = q.CreateJobApplication(ctx, store.CreateJobApplicationParams{
			JobPostID:     in.JobPostID,
			UserID:        in.UserID,
			Body:          in.Body,
			CvKey:         util.NullStringFromValue(stored.Key),
			CvFilename:    util.NullStringFromValue(stored.Filename),
			CvContentType: util.NullStringFromValue(stored.ContentType),
			CvSize:        nullSize(stored),
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err != nil {
			s.cvs.removeQuietly(stored.Key)
			return fmt.Errorf("creating application: %w", err)
		}
		return nil
	})
	if err != nil {
		if app.CvKey.Valid {
			s.cvs.removeQuietly(app.CvKey.String)
		}
		return store.JobApplication{}, err
	}

	return app, nil
}

// UpdateApplication replaces the body and applicant of an application under
// in.JobPostID. A non-nil cv replaces the stored attachment.
func (s *JobService) UpdateApplication(ctx context.Context, id int64, in model.JobApplicationInput, cv *CVUpload) (store.JobApplication, error) {
	if errs := model.ValidateJobApplication(in); errs.Any() {
		return store.JobApplication{}, newValidationError(errs)
	}

	var (
		app    store.JobApplication
		oldKey string
		newKey string
	)
	err := s.withTx(ctx, func(q *store.Queries) error {
		current, err := q.GetJobApplicationForPost(ctx, store.GetJobApplicationForPostParams{
			ID:        id,
			JobPostID: in.JobPostID,
		})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("getting application %d: %w", id, err)
		}

		if err := checkReferences(ctx, q, in); err != nil {
			return err
		}

		params := store.UpdateJobApplicationParams{
			UserID:        in.UserID,
			Body:          in.Body,
			CvKey:         current.CvKey,
			CvFilename:    current.CvFilename,
			CvContentType: current.CvContentType,
			CvSize:        current.CvSize,
			UpdatedAt:     time.Now(),
			ID:            id,
			JobPostID:     in.JobPostID,
		}

		if cv != nil {
			stored, err := s.saveCV(cv)
			if err != nil {
				return err
			}
			newKey = stored.Key
			oldKey = current.CvKey.String
			params.CvKey = util.NullStringFromValue(stored.Key)
			params.CvFilename = util.NullStringFromValue(stored.Filename)
			params.CvContentType = util.NullStringFromValue(stored.ContentType)
			params.CvSize = nullSize(stored)
		}

		app, err = q.UpdateJobApplication(ctx, params)
		if err != nil {
			return fmt.Errorf("updating application %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		if newKey != "" {
			s.cvs.removeQuietly(newKey)
		}
		return store.JobApplication{}, err
	}

	if oldKey != "" {
		s.cvs.removeQuietly(oldKey)
	}
	return app, nil
}

// DeleteApplication deletes an application under jobPostID and its CV file.
func (s *JobService) DeleteApplication(ctx context.Context, jobPostID, id int64) error {
	app, err := s.GetApplication(ctx, jobPostID, id)
	if err != nil {
		return err
	}

	n, err := s.queries.DeleteJobApplication(ctx, store.DeleteJobApplicationParams{
		ID:        id,
		JobPostID: jobPostID,
	})
	if err != nil {
		return fmt.Errorf("deleting application %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}

	if app.CvKey.Valid {
		s.cvs.removeQuietly(app.CvKey.String)
	}
	return nil
}

// OpenCV opens the CV of an application under jobPostID. The caller closes
// the returned file. Returns ErrNoAttachment when there is none.
func (s *JobService) OpenCV(ctx context.Context, jobPostID, id int64) (store.JobApplication, io.ReadSeekCloser, error) {
	app, err := s.GetApplication(ctx, jobPostID, id)
	if err != nil {
		return store.JobApplication{}, nil, err
	}
	if !app.CvKey.Valid {
		return app, nil, ErrNoAttachment
	}

	f, err := s.cvs.Open(app.CvKey.String)
	if err != nil {
		return app, nil, err
	}
	return app, f, nil
}

func (s *JobService) saveCV(cv *CVUpload) (StoredCV, error) {
	if cv == nil || cv.Reader == nil {
		return StoredCV{}, nil
	}
	stored, err := s.cvs.Save(*cv)
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			return StoredCV{}, newValidationError(model.FieldErrors{
				"cv": fmt.Sprintf("CV is too large (maximum is %d MB)", s.cvs.MaxBytes()>>20),
			})
		}
		return StoredCV{}, fmt.Errorf("saving cv: %w", err)
	}
	return stored, nil
}

func (s *JobService) withTx(ctx context.Context, fn func(q *store.Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(s.queries.WithTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// checkReferences verifies that the post and user exist.
func checkReferences(ctx context.Context, q *store.Queries, in model.JobApplicationInput) error {
	errs := model.FieldErrors{}

	n, err := q.JobPostExists(ctx, in.JobPostID)
	if err != nil {
		return fmt.Errorf("checking job post %d: %w", in.JobPostID, err)
	}
	if n == 0 {
		errs.Add("job_post", "Job post must exist")
	}

	n, err = q.UserExists(ctx, in.UserID)
	if err != nil {
		return fmt.Errorf("checking user %d: %w", in.UserID, err)
	}
	if n == 0 {
		errs.Add("user", "User must exist")
	}

	if errs.Any() {
		return newValidationError(errs)
	}
	return nil
}

func nullSize(cv StoredCV) sql.NullInt64 {
	if cv.Key == "" {
		return sql.NullInt64{}
	}
	return util.NullInt64FromValue(cv.Size)
}
