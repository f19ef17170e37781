// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/core/chapter"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/mangadex"
)

// numberTolerance absorbs float noise when matching "10.5" + 1 against "11.5".
const numberTolerance = 1e-9

// # Navigation Model

// Entry is the source-independent view of a chapter used for navigation.
type Entry struct {
	ID       string `json:"id"`
	Number   string `json:"chapterNumber"`
	Group    string `json:"group,omitempty"`
	Language string `json:"translatedLanguage"`
}

// FromLocal maps a stored chapter. Local chapters are grouped by uploader.
func FromLocal(item *chapter.Chapter) Entry {
	return Entry{
		ID:       strconv.FormatInt(item.ID, 10),
		Number:   item.ChapterNumber,
		Group:    item.UploaderID,
		Language: item.TranslatedLanguage,
	}
}

// FromRemote maps a content API chapter. Chapters are grouped by scanlation group.
func FromRemote(item mangadex.Chapter) Entry {
	group := item.GroupID
	if group == "" {
		group = item.GroupName
	}
	return Entry{
		ID:       item.ID,
		Number:   item.Chapter,
		Group:    group,
		Language: item.TranslatedLanguage,
	}
}

// number parses the chapter number; oneshots and free text are not orderable.
func (entry Entry) number() (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(entry.Number), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// # Resolution

/*
Resolve finds the chapters before and after current.

Description: The candidates are the other chapters sharing both group and
language with current. Only when there are none does the search widen to
every chapter in the same language. Within that partition current-1 is the
previous chapter and current+1 the next. A group with chapters but no
neighbour yields nil rather than another group's chapter. Chapters whose
number does not parse never match, and an unparsable current yields no
neighbours.

Parameters:
  - entries: []Entry (every chapter of the manga, in preferred order)
  - current: Entry

Returns:
  - previous: *Entry (nil means leave the chapter sequence)
  - next: *Entry (nil means leave the chapter sequence)
*/
func Resolve(entries []Entry, current Entry) (previous, next *Entry) {
	position, ok := current.number()
	if !ok {
		return nil, nil
	}

	candidates := partition(entries, current, func(entry Entry) bool {
		return entry.Group == current.Group && entry.Language == current.Language
	})
	if len(candidates) == 0 {
		candidates = partition(entries, current, func(entry Entry) bool {
			return entry.Language == current.Language
		})
	}

	return find(candidates, position-1), find(candidates, position+1)
}

// partition keeps the entries other than current that satisfy keep.
func partition(entries []Entry, current Entry, keep func(Entry) bool) []Entry {
	var kept []Entry
	for _, entry := range entries {
		if entry.ID != current.ID && keep(entry) {
			kept = append(kept, entry)
		}
	}
	return kept
}

func find(candidates []Entry, target float64) *Entry {
	for i := range candidates {
		if value, ok := candidates[i].number(); ok && math.Abs(value-target) < numberTolerance {
			return &candidates[i]
		}
	}
	return nil
}

// Link is the reader route of neighbour, or the parent manga page when there is none.
func Link(mangaID string, neighbour *Entry) string {
	if neighbour == nil {
		return "/manga/" + url.PathEscape(mangaID)
	}
	return "/chapters/" + url.PathEscape(neighbour.ID) + "/reader"
}

// Navigation is the resolved neighbourhood of one chapter.
type Navigation struct {
	MangaID      string `json:"mangaId"`
	Current      Entry  `json:"current"`
	Previous     *Entry `json:"previous"`
	Next         *Entry `json:"next"`
	PreviousLink string `json:"previousLink"`
	NextLink     string `json:"nextLink"`
}

// Navigate resolves current against entries and fills both links.
func Navigate(mangaID string, entries []Entry, current Entry) *Navigation {
	previous, next := Resolve(entries, current)
	return &Navigation{
		MangaID:      mangaID,
		Current:      current,
		Previous:     previous,
		Next:         next,
		PreviousLink: Link(mangaID, previous),
		NextLink:     Link(mangaID, next),
	}
}
