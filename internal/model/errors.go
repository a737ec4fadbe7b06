// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"sort"
	"strings"
)

// FieldErrors maps form field names to a human readable message.
// The first message recorded for a field wins.
type FieldErrors map[string]string

// Add records msg for field unless the field already has a message.
func (e FieldErrors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Has reports whether field has a message.
func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Any reports whether any field failed validation.
func (e FieldErrors) Any() bool {
	return len(e) > 0
}

// Error joins all messages in field order.
func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f+": "+e[f])
	}
	return strings.Join(msgs, "; ")
}
