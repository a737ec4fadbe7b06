// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds the crawler-facing documents of the board: robots.txt
// and an XML sitemap of the public job post pages.
package seo

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Change frequencies used by the board.
const (
	ChangeFreqDaily  ChangeFreq = "daily"
	ChangeFreqWeekly ChangeFreq = "weekly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapJobPost contains the data needed to list a job post.
type SitemapJobPost struct {
	ID        int64
	UpdatedAt time.Time
}

// SitemapBuilder builds sitemap XML for the board.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: strings.TrimSuffix(siteURL, "/"),
		urls:    make([]SitemapURL, 0),
	}
}

// AddHomepage adds the landing page and the job post index.
func (b *SitemapBuilder) AddHomepage() {
	b.urls = append(b.urls,
		SitemapURL{Loc: b.siteURL + "/", ChangeFreq: ChangeFreqDaily, Priority: "1.0"},
		SitemapURL{Loc: b.siteURL + "/job_posts", ChangeFreq: ChangeFreqDaily, Priority: "0.9"},
	)
}

// AddJobPost adds a job post page to the sitemap.
func (b *SitemapBuilder) AddJobPost(post SitemapJobPost) {
	url := SitemapURL{
		Loc:        b.siteURL + "/job_posts/" + strconv.FormatInt(post.ID, 10),
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.8",
	}
	if !post.UpdatedAt.IsZero() {
		url.LastMod = post.UpdatedAt.UTC().Format(time.RFC3339)
	}
	b.urls = append(b.urls, url)
}

// AddJobPosts adds multiple job posts to the sitemap.
func (b *SitemapBuilder) AddJobPosts(posts []SitemapJobPost) {
	for _, p := range posts {
		b.AddJobPost(p)
	}
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}
