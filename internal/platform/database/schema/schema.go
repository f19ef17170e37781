// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns of the chapter store so queries
// never spell identifiers by hand.
package schema

import "strings"

// List joins columns for a SELECT or INSERT list, prefixing each with alias when set.
//
//	schema.List("c", CoreChapter.ID, CoreChapter.Title) // "c.chapter_id, c.title"
func List(alias string, columns ...string) string {
	if alias == "" || len(columns) == 0 {
		return strings.Join(columns, ", ")
	}
	return alias + "." + strings.Join(columns, ", "+alias+".")
}
