// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package chapter manages locally uploaded chapters and their pages.

# Core Responsibility

  - Persistence: [Repository] reads and writes the core.chapter and core.page tables.
  - Dual-source reads: [Service] answers every read from the database, the
    content API, or both, using the same envelope.
  - Uploads: chapter creation, page append and deletion for authenticated uploaders.

Local chapters use integer identities; remote chapters use UUIDs. The two are
never compared by raw id.
*/
package chapter

import "time"

// # Chapter Aggregate

// Chapter is one locally stored chapter. JSON field names are the database column names.
type Chapter struct {
	ID                 int64     `json:"chapter_id"`
	MangaID            int64     `json:"manga_id"`
	MangaTitle         string    `json:"manga_title,omitempty"`
	CoverURL           string    `json:"cover_url,omitempty"`
	ChapterNumber      string    `json:"chapter_number"`
	Title              *string   `json:"title"`
	UploadDate         time.Time `json:"upload_date"`
	UploaderID         string    `json:"uploader_id"`
	TranslatedLanguage string    `json:"translated_language"`
}

// Page is one stored page image of a [Chapter].
type Page struct {
	ChapterID  int64  `json:"chapter_id"`
	PageNumber int    `json:"page_number"`
	ImageURL   string `json:"image_url"`
}

// # Write Results

// Created is returned by a successful chapter upload.
type Created struct {
	ChapterID     int64 `json:"chapter_id"`
	PagesUploaded int   `json:"pages_uploaded"`
}

// Appended is returned by a successful page append.
type Appended struct {
	ChapterID     int64 `json:"chapter_id"`
	FirstPage     int   `json:"first_page"`
	PagesUploaded int   `json:"pages_uploaded"`
}

// # List Options

// Order is the direction of the upload date / readable timestamp ordering.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseOrder returns [OrderAsc] for "asc" and [OrderDesc] otherwise.
func ParseOrder(raw string) Order {
	if raw == string(OrderAsc) {
		return OrderAsc
	}
	return OrderDesc
}
