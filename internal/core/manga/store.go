// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga

import "context"

// Repository defines the data access contract for local manga.
type Repository interface {
	// Search matches title case-insensitively as a substring, ordered by title.
	Search(context context.Context, title string, limit int) ([]*Manga, error)

	// FindByID returns the manga or nil.
	FindByID(context context.Context, id int64) (*Manga, error)
}
