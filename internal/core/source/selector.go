// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package source combines the local chapter store and the remote content API.

It owns three things every dual-source endpoint shares:

  - [Selector]: the closed set of source choices parsed from the "source" query value.
  - [Fetch]: runs the local and/or remote branch and returns an [Envelope].
  - [FetchChunks] / [FetchBatch]: bounded chunking for id lists.
*/
package source

import (
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/apperr"
)

// Selector picks which branch of a dual-source request runs.
type Selector int

const (
	// Both runs the local and the remote branch concurrently.
	Both Selector = iota
	// Local runs only the database branch.
	Local
	// Remote runs only the content API branch.
	Remote
)

// Query values accepted for the "source" parameter.
const (
	QueryLocal  = "db"
	QueryRemote = "api"
)

// ParseSelector maps the "source" query value onto a [Selector].
// An empty value selects [Both]; unknown values are rejected.
func ParseSelector(raw string) (Selector, error) {
	switch raw {
	case "":
		return Both, nil
	case QueryLocal:
		return Local, nil
	case QueryRemote:
		return Remote, nil
	}
	return Both, apperr.ValidationError("Invalid source selector",
		apperr.FieldError{Field: "source", Message: "must be 'db', 'api' or omitted"},
	)
}

// IncludesLocal reports whether the database branch runs.
func (selector Selector) IncludesLocal() bool { return selector != Remote }

// IncludesRemote reports whether the content API branch runs.
func (selector Selector) IncludesRemote() bool { return selector != Local }

func (selector Selector) String() string {
	switch selector {
	case Local:
		return QueryLocal
	case Remote:
		return QueryRemote
	}
	return "both"
}
