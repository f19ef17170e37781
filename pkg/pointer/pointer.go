// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer helps with the optional columns and optional MangaDex
// attributes that are modelled as pointers.
package pointer

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}

// Val returns *p, or the zero value of T when p is nil.
func Val[T any](p *T) (value T) {
	if p != nil {
		value = *p
	}
	return value
}
