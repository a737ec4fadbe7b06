// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// pageWindow is the number of page links shown around the current page.
const pageWindow = 5

// AdminPagination holds pagination data for admin list pages.
type AdminPagination struct {
	CurrentPage int
	TotalPages  int
	TotalItems  int64
	PerPage     int
	HasPrev     bool
	HasNext     bool
	Pages       []AdminPaginationPage
	BaseURL     string
	QueryString string
}

// AdminPaginationPage is one link in the page list. Ellipsis entries carry
// no number or URL.
type AdminPaginationPage struct {
	Number     int
	URL        string
	IsCurrent  bool
	IsEllipsis bool
}

// BuildAdminPagination creates pagination data for an admin list.
// baseURL is the path without query string (e.g. "/admin/events"); query
// parameters other than page are carried into every link.
func BuildAdminPagination(currentPage, totalItems, perPage int, baseURL string, queryParams url.Values) AdminPagination {
	currentPage, totalPages := NormalizePagination(currentPage, totalItems, perPage)

	p := AdminPagination{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		TotalItems:  int64(totalItems),
		PerPage:     perPage,
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < totalPages,
		BaseURL:     baseURL,
	}

	params := make(url.Values)
	for k, v := range queryParams {
		if k != "page" && len(v) > 0 && v[0] != "" {
			params[k] = v
		}
	}
	if len(params) > 0 {
		p.QueryString = params.Encode()
	}

	p.Pages = p.pageLinks()
	return p
}

// pageLinks lists up to pageWindow pages centred on the current one, always
// including the first and last page with an ellipsis for any gap.
func (p AdminPagination) pageLinks() []AdminPaginationPage {
	start := max(p.CurrentPage-pageWindow/2, 1)
	end := min(start+pageWindow-1, p.TotalPages)
	start = max(end-pageWindow+1, 1)

	var pages []AdminPaginationPage
	link := func(n int) AdminPaginationPage {
		return AdminPaginationPage{Number: n, URL: p.PageURL(n), IsCurrent: n == p.CurrentPage}
	}

	if start > 1 {
		pages = append(pages, link(1))
		if start > 2 {
			pages = append(pages, AdminPaginationPage{IsEllipsis: true})
		}
	}
	for n := start; n <= end; n++ {
		pages = append(pages, link(n))
	}
	if end < p.TotalPages {
		if end < p.TotalPages-1 {
			pages = append(pages, AdminPaginationPage{IsEllipsis: true})
		}
		pages = append(pages, link(p.TotalPages))
	}
	return pages
}

// PageURL returns the URL for a specific page number.
func (p AdminPagination) PageURL(page int) string {
	if p.QueryString != "" {
		return fmt.Sprintf("%s?%s&page=%d", p.BaseURL, p.QueryString, page)
	}
	return fmt.Sprintf("%s?page=%d", p.BaseURL, page)
}

// PrevURL returns the URL for the previous page.
func (p AdminPagination) PrevURL() string {
	return p.PageURL(p.CurrentPage - 1)
}

// NextURL returns the URL for the next page.
func (p AdminPagination) NextURL() string {
	return p.PageURL(p.CurrentPage + 1)
}

// ShouldShow reports whether there is more than one page.
func (p AdminPagination) ShouldShow() bool {
	return p.TotalPages > 1
}

// PageRange describes the rows on the current page, e.g. "51-100 of 120".
func (p AdminPagination) PageRange() string {
	if p.TotalItems == 0 {
		return "0 of 0"
	}
	start := (p.CurrentPage-1)*p.PerPage + 1
	end := min(p.CurrentPage*p.PerPage, int(p.TotalItems))
	return fmt.Sprintf("%d-%d of %d", start, end, p.TotalItems)
}

// NormalizePagination returns the page clamped to [1, totalPages] together
// with the page count. An empty list still has one page.
func NormalizePagination(page, totalItems, perPage int) (normalizedPage, totalPages int) {
	totalPages = 1
	if perPage > 0 && totalItems > perPage {
		totalPages = (totalItems + perPage - 1) / perPage
	}
	return min(max(page, 1), totalPages), totalPages
}

// ParsePageParam reads the "page" query parameter. Missing, malformed and
// non-positive values yield 1.
func ParsePageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
