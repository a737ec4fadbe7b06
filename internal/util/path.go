// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides filename and path helpers for attachment storage and
// small conversions between form values and nullable database columns.
package util

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxFilenameBytes is the longest filename most filesystems accept.
const MaxFilenameBytes = 255

// ErrInvalidFilename is returned when no usable name is left after sanitising.
var ErrInvalidFilename = errors.New("invalid filename")

// filenameCleaner normalizes to NFC and drops control and formatting runes
// (including bidi overrides that can disguise an extension).
var filenameCleaner = transform.Chain(
	norm.NFC,
	runes.Remove(runes.Predicate(func(r rune) bool {
		return unicode.IsControl(r) || unicode.Is(unicode.Cf, r)
	})),
)

// SanitizeFilename reduces a client supplied filename to a safe base name.
// Directory components from either separator style are removed, the name is
// Unicode normalized and truncated to MaxFilenameBytes keeping the extension.
// Returns an error if nothing usable is left.
func SanitizeFilename(filename string) (string, error) {
	// Browsers on Windows may send the full client path.
	name := filename[strings.LastIndexAny(filename, `/\`)+1:]

	name, _, err := transform.String(filenameCleaner, name)
	if err != nil {
		return "", fmt.Errorf("normalizing filename: %w", err)
	}
	name = strings.TrimSpace(name)

	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}

	return truncateFilename(name, MaxFilenameBytes), nil
}

// truncateFilename shortens name to at most max bytes without splitting a
// rune, preserving the extension when it is short enough.
func truncateFilename(name string, max int) string {
	if len(name) <= max {
		return name
	}

	ext := filepath.Ext(name)
	if len(ext) >= max/2 {
		ext = ""
	}
	stem := name[:len(name)-len(ext)]
	limit := max - len(ext)

	for len(stem) > limit {
		_, size := utf8.DecodeLastRuneInString(stem)
		stem = stem[:len(stem)-size]
	}
	return stem + ext
}

// ValidatePathWithinBase ensures that a resolved path is within the expected
// base directory. Returns an error if path traversal is detected.
func ValidatePathWithinBase(basePath, targetPath string) error {
	absBase, err := filepath.Abs(filepath.Clean(basePath))
	if err != nil {
		return fmt.Errorf("invalid base path: %w", err)
	}

	absTarget, err := filepath.Abs(filepath.Clean(targetPath))
	if err != nil {
		return fmt.Errorf("invalid target path: %w", err)
	}

	// Trailing separator so /uploads-evil does not match /uploads
	if absTarget != absBase && !strings.HasPrefix(absTarget, absBase+string(filepath.Separator)) {
		return fmt.Errorf("path traversal detected: path escapes base directory")
	}

	return nil
}

// SafeJoinPath joins path components and validates the result is within
// the base directory.
func SafeJoinPath(basePath string, components ...string) (string, error) {
	fullPath := filepath.Join(append([]string{basePath}, components...)...)

	if err := ValidatePathWithinBase(basePath, fullPath); err != nil {
		return "", err
	}

	return fullPath, nil
}
