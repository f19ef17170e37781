// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates request ids and stored image names, and checks MangaDex
ids before they are placed in an upstream URL.
*/
package uuid

import "github.com/google/uuid"

// canonicalLength is the length of the hyphenated 8-4-4-4-12 form.
const canonicalLength = 36

// New returns a UUIDv7 string, so generated names sort by creation time.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}

// Valid reports whether s is a hyphenated UUID. The urn, braced and bare hex
// forms are rejected because MangaDex never emits them.
func Valid(s string) bool {
	return len(s) == canonicalLength && uuid.Validate(s) == nil
}
