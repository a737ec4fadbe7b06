// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the job board's business logic: job posts and their
// applications, CV attachment storage and the audit event log.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/jobboard/internal/store"
	"github.com/olegiv/jobboard/internal/uikit"
)

// EventsPerPage is the page size of the admin event list.
const EventsPerPage = 50

// EventService provides event logging functionality.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{
		queries: store.New(db),
	}
}

// LogEvent creates a new event log entry.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	var nullUserID sql.NullInt64
	if userID != nil {
		nullUserID = sql.NullInt64{Int64: *userID, Valid: true}
	}

	metadataJSON := "{}"
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    nullUserID,
		Metadata:  metadataJSON,
		IpAddress: ipAddress,
		CreatedAt: time.Now(),
	})
	if err != nil {
		// Not logged here: WARN records are mirrored into this table.
		return fmt.Errorf("logging event: %w", err)
	}

	return nil
}

// Record is LogEvent for call sites that cannot act on a failure; errors are
// written to the debug log only.
func (s *EventService) Record(ctx context.Context, level, category, message string, userID *int64, ipAddress string, metadata map[string]any) {
	if s == nil {
		return
	}
	if err := s.LogEvent(ctx, level, category, message, userID, ipAddress, metadata); err != nil {
		slog.Debug("event not recorded", "category", category, "error", err)
	}
}

// EventPage is one page of the event list.
type EventPage struct {
	Events     []store.Event
	Page       int
	TotalPages int
	Total      int64
}

// ListEvents returns events newest first. Page numbers start at 1.
func (s *EventService) ListEvents(ctx context.Context, page int) (EventPage, error) {
	total, err := s.queries.CountEvents(ctx)
	if err != nil {
		return EventPage{}, fmt.Errorf("counting events: %w", err)
	}

	page, totalPages := uikit.NormalizePagination(page, int(total), EventsPerPage)

	events, err := s.queries.ListEvents(ctx, store.ListEventsParams{
		Limit:  EventsPerPage,
		Offset: int64((page - 1) * EventsPerPage),
	})
	if err != nil {
		return EventPage{}, fmt.Errorf("listing events: %w", err)
	}

	return EventPage{Events: events, Page: page, TotalPages: totalPages, Total: total}, nil
}

// DeleteOldEvents removes events older than the specified duration.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	if err := s.queries.DeleteOldEvents(ctx, cutoff); err != nil {
		return fmt.Errorf("deleting old events: %w", err)
	}
	return nil
}
