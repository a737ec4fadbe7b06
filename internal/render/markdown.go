// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"html/template"
	"log/slog"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/olegiv/jobboard/internal/cache"
)

// markdownCacheTimeout bounds a single cache round trip while rendering.
const markdownCacheTimeout = 250 * time.Millisecond

// Markdown converts job post and application bodies to sanitized HTML.
type Markdown struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	cache  cache.Cache
	ttl    time.Duration
}

// NewMarkdown creates a converter with GitHub-flavoured extensions and a
// user-generated-content sanitizing policy.
func NewMarkdown() *Markdown {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)

	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		policy: policy,
	}
}

// WithCache stores rendered output in c, keyed by a hash of the source, so
// an edited body is re-rendered and stale entries simply expire.
func (m *Markdown) WithCache(c cache.Cache, ttl time.Duration) *Markdown {
	m.cache = c
	m.ttl = ttl
	return m
}

// Render converts source to HTML. Raw HTML in the source is dropped by
// goldmark and anything that slips through is stripped by the policy.
func (m *Markdown) Render(source string) template.HTML {
	if source == "" {
		return ""
	}
	if m.cache == nil {
		return m.convert(source)
	}

	sum := sha256.Sum256([]byte(source))
	key := "md:" + hex.EncodeToString(sum[:])

	ctx, cancel := context.WithTimeout(context.Background(), markdownCacheTimeout)
	defer cancel()

	if cached, err := m.cache.Get(ctx, key); err == nil {
		return template.HTML(cached) //nolint:gosec // stored after sanitizing
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		slog.Debug("markdown cache read failed", "error", err)
	}

	out := m.convert(source)
	if err := m.cache.Set(ctx, key, []byte(out), m.ttl); err != nil {
		slog.Debug("markdown cache write failed", "error", err)
	}
	return out
}

func (m *Markdown) convert(source string) template.HTML {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(source), &buf); err != nil {
		slog.Warn("markdown conversion failed", "error", err)
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(m.policy.SanitizeBytes(buf.Bytes()))
}
