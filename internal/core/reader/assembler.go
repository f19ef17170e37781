// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reader serves the page-by-page reading view.

It assembles the ordered page image URLs of a chapter from stored pages or
the content API delivery descriptor, and resolves the previous and next
chapter for the reader's navigation links.
*/
package reader

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/core/chapter"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/core/source"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/mangadex"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/apperr"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/pkg/slice"
)

// ErrNoPages is returned when a stored chapter has no page rows yet.
var ErrNoPages = apperr.NoPages()

// # Collaborators

// LocalChapters is the subset of the chapter store the reader needs.
type LocalChapters interface {
	FindByID(ctx context.Context, id int64) (*chapter.Chapter, error)
	ListByManga(ctx context.Context, mangaID int64) ([]*chapter.Chapter, error)
	ListPages(ctx context.Context, chapterID int64) ([]*chapter.Page, error)
}

// RemoteChapters is the subset of the content API client the reader needs.
type RemoteChapters interface {
	GetChapterByID(ctx context.Context, id string) (*mangadex.Chapter, error)
	ListMangaChapters(ctx context.Context, mangaID, language string) ([]mangadex.Chapter, error)
	GetReaderPages(ctx context.Context, chapterID string, quality mangadex.Quality) ([]string, error)
}

// Pages is the reader payload. A branch that did not run is null.
type Pages struct {
	DBPages  []string `json:"dbPages"`
	APIPages []string `json:"apiPages"`
}

// NavigationEnvelope carries the navigation computed by each source.
type NavigationEnvelope = source.Envelope[*Navigation, *Navigation]

// # Assembler

// Assembler builds reader pages and navigation for a chapter.
type Assembler struct {
	local  LocalChapters
	remote RemoteChapters
	logger *slog.Logger
}

// NewAssembler constructs a new [Assembler].
func NewAssembler(local LocalChapters, remote RemoteChapters, logger *slog.Logger) *Assembler {
	return &Assembler{local: local, remote: remote, logger: logger}
}

/*
Assemble returns the ordered page URLs of one chapter.

Description: With the database selected, a chapter without page rows is a
NO_PAGES error. With both sources selected, the same condition degrades to
an empty dbPages list, while remote errors still fail the request.

Parameters:
  - ctx: context.Context
  - chapterID: string (local integer id or content API UUID)
  - selector: source.Selector
  - quality: mangadex.Quality

Returns:
  - *Pages: dbPages and/or apiPages
  - error: NOT_FOUND, NO_PAGES or upstream errors
*/
func (assembler *Assembler) Assemble(ctx context.Context, chapterID string, selector source.Selector, quality mangadex.Quality) (*Pages, error) {
	envelope, err := source.Fetch(ctx, selector,
		func(ctx context.Context) ([]string, error) {
			urls, err := assembler.localPages(ctx, chapterID)
			if selector == source.Both && (apperr.HasCode(err, "NO_PAGES") || apperr.HasCode(err, "NOT_FOUND")) {
				return []string{}, nil
			}
			return urls, err
		},
		func(ctx context.Context) ([]string, error) {
			return assembler.remote.GetReaderPages(ctx, chapterID, quality)
		},
	)
	if err != nil {
		return nil, err
	}

	pages := &Pages{}
	if envelope.DBResult != nil {
		pages.DBPages = *envelope.DBResult
	}
	if envelope.APIResult != nil {
		pages.APIPages = *envelope.APIResult
	}
	return pages, nil
}

// localPages reads stored pages by page_number.
func (assembler *Assembler) localPages(ctx context.Context, chapterID string) ([]string, error) {
	id, err := strconv.ParseInt(chapterID, 10, 64)
	if err != nil || id < 1 {
		return nil, apperr.NotFound("Chapter")
	}

	rows, err := assembler.local.ListPages(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		found, err := assembler.local.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, apperr.NotFound("Chapter")
		}
		return nil, ErrNoPages
	}

	return slice.Map(rows, func(row *chapter.Page) string { return row.ImageURL }), nil
}

/*
Navigate resolves the previous and next chapter for the selected sources.

Description: Local chapters are compared within the same manga; remote
chapters are read from the manga's chapter feed in the current language.
With both sources selected a branch that does not know the chapter is null,
and the request is a 404 only when neither does.
*/
func (assembler *Assembler) Navigate(ctx context.Context, chapterID string, selector source.Selector) (NavigationEnvelope, error) {
	envelope, err := source.Fetch(ctx, selector,
		func(ctx context.Context) (*Navigation, error) {
			navigation, err := assembler.localNavigation(ctx, chapterID)
			if selector == source.Both && apperr.HasCode(err, "NOT_FOUND") {
				return nil, nil
			}
			return navigation, err
		},
		func(ctx context.Context) (*Navigation, error) {
			navigation, err := assembler.remoteNavigation(ctx, chapterID)
			if selector == source.Both && apperr.HasCode(err, "UPSTREAM_NOT_FOUND") {
				return nil, nil
			}
			return navigation, err
		},
	)
	if err != nil {
		return NavigationEnvelope{}, err
	}

	localMissing := envelope.DBResult == nil || *envelope.DBResult == nil
	remoteMissing := envelope.APIResult == nil || *envelope.APIResult == nil
	if localMissing && remoteMissing {
		return NavigationEnvelope{}, apperr.NotFound("Chapter")
	}
	return envelope, nil
}

func (assembler *Assembler) localNavigation(ctx context.Context, chapterID string) (*Navigation, error) {
	id, err := strconv.ParseInt(chapterID, 10, 64)
	if err != nil || id < 1 {
		return nil, apperr.NotFound("Chapter")
	}

	current, err := assembler.local.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperr.NotFound("Chapter")
	}

	siblings, err := assembler.local.ListByManga(ctx, current.MangaID)
	if err != nil {
		return nil, err
	}

	entries := slice.Map(siblings, FromLocal)
	return Navigate(strconv.FormatInt(current.MangaID, 10), entries, FromLocal(current)), nil
}

func (assembler *Assembler) remoteNavigation(ctx context.Context, chapterID string) (*Navigation, error) {
	current, err := assembler.remote.GetChapterByID(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	siblings, err := assembler.remote.ListMangaChapters(ctx, current.MangaID, current.TranslatedLanguage)
	if err != nil {
		return nil, err
	}

	entries := slice.Map(siblings, FromRemote)

	navigation := Navigate(current.MangaID, entries, FromRemote(*current))
	assembler.logger.Debug("remote_navigation_resolved",
		slog.String("chapter_id", chapterID),
		slog.Int("siblings", len(entries)),
		slog.Bool("has_previous", navigation.Previous != nil),
		slog.Bool("has_next", navigation.Next != nil),
	)
	return navigation, nil
}
