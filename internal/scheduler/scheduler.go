// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/jobboard/internal/model"
	"github.com/olegiv/jobboard/internal/service"
)

// DefaultRetentionSpec runs the event log retention job daily at 03:00.
const DefaultRetentionSpec = "0 3 * * *"

// jobTimeout bounds a single run of a maintenance job.
const jobTimeout = 5 * time.Minute

// Config holds scheduler configuration.
type Config struct {
	// RetentionSpec is the cron expression for the retention job.
	RetentionSpec string
	// EventRetention is how long events are kept. Zero disables the job.
	EventRetention time.Duration
}

// Scheduler handles background maintenance such as pruning the event log.
type Scheduler struct {
	events *service.EventService
	cron   *cron.Cron
	cfg    Config
	logger *slog.Logger
}

// New creates a new scheduler instance.
func New(events *service.EventService, logger *slog.Logger, cfg Config) *Scheduler {
	if cfg.RetentionSpec == "" {
		cfg.RetentionSpec = DefaultRetentionSpec
	}
	return &Scheduler{
		events: events,
		cron:   cron.New(),
		cfg:    cfg,
		logger: logger,
	}
}

// Start registers the jobs and starts the cron runner.
func (s *Scheduler) Start() error {
	if s.cfg.EventRetention > 0 {
		_, err := s.cron.AddFunc(s.cfg.RetentionSpec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			if err := s.PruneEvents(ctx); err != nil {
				s.logger.Error("failed to prune event log", "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("scheduling event retention %q: %w", s.cfg.RetentionSpec, err)
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// PruneEvents deletes events older than the configured retention.
func (s *Scheduler) PruneEvents(ctx context.Context) error {
	if s.cfg.EventRetention <= 0 {
		return nil
	}

	if err := s.events.DeleteOldEvents(ctx, s.cfg.EventRetention); err != nil {
		return fmt.Errorf("deleting old events: %w", err)
	}

	s.logger.Info("event log pruned", "retention", s.cfg.EventRetention.String())
	s.events.Record(ctx, model.EventLevelInfo, model.EventCategorySystem, "Event log pruned",
		nil, "", map[string]any{"retention_days": int(s.cfg.EventRetention.Hours() / 24)})
	return nil
}
