// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package manga serves manga search across the local library and the content API.
package manga

import "time"

// Manga is a title stored in the local library.
type Manga struct {
	ID          int64     `json:"manga_id"`
	Title       string    `json:"title"`
	CoverURL    *string   `json:"cover_url"`
	Status      string    `json:"status"`
	Country     *string   `json:"country"`
	YearRelease *int      `json:"year_release"`
	CreatedAt   time.Time `json:"created_at"`
}

// Global field names for validation
const (
	FieldTitle    = "title"
	FieldLanguage = "translatedLanguage"
)
