// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/olegiv/jobboard/internal/util"
)

// DefaultUploadDir is used when no uploads directory is configured.
const DefaultUploadDir = "./uploads"

const cvSubdir = "cv"

const defaultContentType = "application/octet-stream"

// fallbackCVName is stored when the client sent no usable filename.
const fallbackCVName = "cv"

// CVUpload is an incoming CV attachment.
type CVUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// StoredCV describes a CV written to disk.
type StoredCV struct {
	Key         string // "<uuid>/<filename>", relative to the cv directory
	Filename    string
	ContentType string
	Size        int64
}

// CVStorage stores CV attachments on the local filesystem under
// <uploads>/cv/<uuid>/<filename>.
type CVStorage struct {
	dir      string
	maxBytes int64
}

// NewCVStorage creates a CV store rooted at uploadDir.
func NewCVStorage(uploadDir string, maxBytes int64) *CVStorage {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	return &CVStorage{
		dir:      filepath.Join(uploadDir, cvSubdir),
		maxBytes: maxBytes,
	}
}

// MaxBytes returns the per-file size limit.
func (s *CVStorage) MaxBytes() int64 {
	return s.maxBytes
}

// Save writes the upload to a fresh directory. Any type is accepted; the
// size is capped at MaxBytes and ErrFileTooLarge is returned past it.
// A filename with nothing usable left (such as "..") is stored as "cv".
func (s *CVStorage) Save(up CVUpload) (StoredCV, error) {
	filename, err := util.SanitizeFilename(up.Filename)
	if errors.Is(err, util.ErrInvalidFilename) {
		filename, err = fallbackCVName, nil
	}
	if err != nil {
		return StoredCV{}, fmt.Errorf("sanitizing cv filename: %w", err)
	}

	id := uuid.New().String()
	dir, err := util.SafeJoinPath(s.dir, id)
	if err != nil {
		return StoredCV{}, err
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return StoredCV{}, fmt.Errorf("creating cv directory: %w", err)
	}

	filePath := filepath.Join(dir, filename)
	out, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		_ = os.RemoveAll(dir)
		return StoredCV{}, fmt.Errorf("creating cv file: %w", err)
	}

	reader := up.Reader
	if s.maxBytes > 0 {
		reader = io.LimitReader(up.Reader, s.maxBytes+1)
	}
	size, err := io.Copy(out, reader)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && s.maxBytes > 0 && size > s.maxBytes {
		err = ErrFileTooLarge
	}
	if err != nil {
		_ = os.RemoveAll(dir)
		if errors.Is(err, ErrFileTooLarge) {
			return StoredCV{}, err
		}
		return StoredCV{}, fmt.Errorf("writing cv file: %w", err)
	}

	return StoredCV{
		Key:         path.Join(id, filename),
		Filename:    filename,
		ContentType: contentTypeFor(up.ContentType, filename),
		Size:        size,
	}, nil
}

// Open opens a stored CV for reading.
func (s *CVStorage) Open(key string) (*os.File, error) {
	p, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoAttachment
		}
		return nil, fmt.Errorf("opening cv: %w", err)
	}
	return f, nil
}

// Remove deletes a stored CV and its directory. Missing files are not an error.
func (s *CVStorage) Remove(key string) error {
	if key == "" {
		return nil
	}
	p, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Dir(p)); err != nil {
		return fmt.Errorf("removing cv: %w", err)
	}
	return nil
}

// removeQuietly is used after the database already dropped the reference.
func (s *CVStorage) removeQuietly(key string) {
	if err := s.Remove(key); err != nil {
		slog.Warn("failed to remove cv file", "key", key, "error", err)
	}
}

func (s *CVStorage) pathFor(key string) (string, error) {
	id, name, ok := strings.Cut(key, "/")
	if !ok || id == "" || name == "" || strings.Contains(name, "/") {
		return "", fmt.Errorf("invalid cv key: %q", key)
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("invalid cv key: %q", key)
	}
	return util.SafeJoinPath(s.dir, id, name)
}

func contentTypeFor(declared, filename string) string {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil {
			return mt
		}
	}
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		return byExt
	}
	return defaultContentType
}
