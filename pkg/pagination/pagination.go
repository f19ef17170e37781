// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination reads limit and offset for the chapter listing and the
// manga search. MangaDex caps a page at 100 items, so the local store uses the
// same ceiling and both branches of a dual-source list see the same window.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is a limit/offset window.
type Params struct {
	Page  int
	Limit int
}

// Offset is derived from the 1-indexed page.
func (p Params) Offset() int {
	return (max(p.Page, 1) - 1) * p.Limit
}

/*
FromRequest parses "limit" plus either "offset" or "page".

Description: "offset" wins when both are given and is rounded down to a page
boundary. Out of range values fall back to the defaults rather than failing,
since listing is a read-only browse operation.
*/
func FromRequest(request *http.Request) Params {
	query := request.URL.Query()

	limit := intOr(query.Get("limit"), DefaultLimit)
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	page := intOr(query.Get("page"), 1)
	if offset := intOr(query.Get("offset"), -1); offset >= 0 {
		page = offset/limit + 1
	}

	return Params{Page: max(page, 1), Limit: limit}
}

func intOr(raw string, fallback int) int {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return fallback
}
