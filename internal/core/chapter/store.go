// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import "context"

// # Chapter & Page Data Access

// Repository defines the data access contract for chapters and pages.
//
// Reads return nil or an empty slice when nothing matches; callers decide
// whether absence is a 404.
type Repository interface {

	/*
		ListRecent returns chapters ordered by upload date, joined with their manga.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int
		  - order: Order

		Returns:
		  - []*Chapter: Matching chapters
		  - error: Storage failures
	*/
	ListRecent(context context.Context, limit, offset int, order Order) ([]*Chapter, error)

	// FindByID returns the chapter or nil.
	FindByID(context context.Context, id int64) (*Chapter, error)

	/*
		FindByIDs returns every chapter whose id is in ids using one IN-list query.

		Parameters:
		  - context: context.Context
		  - ids: []int64

		Returns:
		  - []*Chapter: Found chapters, missing ids are skipped
		  - error: Storage failures
	*/
	FindByIDs(context context.Context, ids []int64) ([]*Chapter, error)

	// ListByManga returns every chapter of one manga.
	ListByManga(context context.Context, mangaID int64) ([]*Chapter, error)

	// ListPages returns the pages of a chapter ordered by page number.
	ListPages(context context.Context, chapterID int64) ([]*Page, error)

	// Exists reports whether the uploader already published this chapter number for the manga.
	Exists(context context.Context, mangaID int64, chapterNumber, uploaderID string) (bool, error)

	/*
		CreateWithPages inserts the chapter and its pages in one transaction.

		Parameters:
		  - context: context.Context
		  - chapter: *Chapter (ID and UploadDate are filled in)
		  - imageURLs: []string (page 1..n in order)

		Returns:
		  - error: CONFLICT on duplicate identity, UNPROCESSABLE on unknown manga
	*/
	CreateWithPages(context context.Context, chapter *Chapter, imageURLs []string) error

	/*
		AppendPages adds pages after the current last page in one transaction.

		Returns:
		  - []*Page: The inserted pages, nil when the chapter does not exist
		  - error: Storage failures
	*/
	AppendPages(context context.Context, chapterID int64, imageURLs []string) ([]*Page, error)

	// Delete removes the pages and then the chapter. It reports whether the chapter existed.
	Delete(context context.Context, id int64) (bool, error)
}
