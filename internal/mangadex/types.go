// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mangadex

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/pkg/pointer"
)

// # Public DTOs
//
// These are the flat shapes returned as "apiResult". Field names follow the
// upstream vocabulary so clients can tell them apart from local rows.

// Chapter is a remote chapter with its manga and scanlation group resolved.
type Chapter struct {
	ID                 string    `json:"id"`
	MangaID            string    `json:"mangaId"`
	MangaTitle         string    `json:"mangaTitle"`
	CoverURL           string    `json:"coverUrl,omitempty"`
	Chapter            string    `json:"chapter"`
	Volume             string    `json:"volume,omitempty"`
	Title              string    `json:"title,omitempty"`
	TranslatedLanguage string    `json:"translatedLanguage"`
	GroupID            string    `json:"scanlationGroupId,omitempty"`
	GroupName          string    `json:"scanlationGroup,omitempty"`
	ReadableAt         time.Time `json:"readableAt"`
	Pages              int       `json:"pages"`
}

// Manga is a search result.
type Manga struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	CoverURL         string `json:"coverUrl,omitempty"`
	Status           string `json:"status,omitempty"`
	Year             int    `json:"year,omitempty"`
	OriginalLanguage string `json:"originalLanguage,omitempty"`
	InLibrary        bool   `json:"inLibrary"`
}

// Volume is one entry of a flattened manga aggregate.
type Volume struct {
	Volume   string          `json:"volume"`
	Count    int             `json:"count"`
	Chapters []VolumeChapter `json:"chapters"`
}

// VolumeChapter is one chapter inside a [Volume].
type VolumeChapter struct {
	ChapterNumber string   `json:"chapterNumber"`
	ID            string   `json:"id"`
	Others        []string `json:"others"`
}

// Quality selects the at-home image set.
type Quality string

const (
	QualityData      Quality = "data"
	QualityDataSaver Quality = "data-saver"
)

// # Wire Types

const (
	relManga       = "manga"
	relGroup       = "scanlation_group"
	relCover       = "cover_art"
	noVolume       = "none"
	englishLocale  = "en"
	maxUpstreamCap = 100
)

type relationship struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Attributes json.RawMessage `json:"attributes,omitempty"`
}

type entity[A any] struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	Attributes    A              `json:"attributes"`
	Relationships []relationship `json:"relationships"`
}

// related returns the first relationship of the given type.
func (e entity[A]) related(kind string) (relationship, bool) {
	for _, rel := range e.Relationships {
		if rel.Type == kind {
			return rel, true
		}
	}
	return relationship{}, false
}

type entityResponse[A any] struct {
	Result string    `json:"result"`
	Data   entity[A] `json:"data"`
}

type collectionResponse[A any] struct {
	Result string      `json:"result"`
	Data   []entity[A] `json:"data"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
	Total  int         `json:"total"`
}

type chapterAttributes struct {
	Volume             *string   `json:"volume"`
	Chapter            *string   `json:"chapter"`
	Title              *string   `json:"title"`
	TranslatedLanguage string    `json:"translatedLanguage"`
	Pages              int       `json:"pages"`
	ReadableAt         time.Time `json:"readableAt"`
}

type mangaAttributes struct {
	Title            map[string]string `json:"title"`
	Status           string            `json:"status"`
	Year             *int              `json:"year"`
	OriginalLanguage string            `json:"originalLanguage"`
}

type coverAttributes struct {
	FileName string `json:"fileName"`
}

type groupAttributes struct {
	Name string `json:"name"`
}

type atHomeResponse struct {
	Result  string `json:"result"`
	BaseURL string `json:"baseUrl"`
	Chapter struct {
		Hash      string   `json:"hash"`
		Data      []string `json:"data"`
		DataSaver []string `json:"dataSaver"`
	} `json:"chapter"`
}

// aggregateResponse keeps volumes raw because the upstream sends [] instead of {} when empty.
type aggregateResponse struct {
	Result  string          `json:"result"`
	Volumes json.RawMessage `json:"volumes"`
}

type aggregateVolume struct {
	Volume   string          `json:"volume"`
	Count    int             `json:"count"`
	Chapters json.RawMessage `json:"chapters"`
}

type aggregateChapter struct {
	Chapter string   `json:"chapter"`
	ID      string   `json:"id"`
	Others  []string `json:"others"`
}

// # Mapping Helpers

// preferredTitle picks the English title, falling back to the alphabetically first locale.
func preferredTitle(titles map[string]string) string {
	if title, ok := titles[englishLocale]; ok && title != "" {
		return title
	}

	locales := make([]string, 0, len(titles))
	for locale := range titles {
		locales = append(locales, locale)
	}
	sort.Strings(locales)

	for _, locale := range locales {
		if titles[locale] != "" {
			return titles[locale]
		}
	}
	return ""
}

// toChapter maps the wire entity without relationship enrichment.
func toChapter(raw entity[chapterAttributes]) Chapter {
	chapter := Chapter{
		ID:                 raw.ID,
		Chapter:            pointer.Val(raw.Attributes.Chapter),
		Volume:             pointer.Val(raw.Attributes.Volume),
		Title:              pointer.Val(raw.Attributes.Title),
		TranslatedLanguage: raw.Attributes.TranslatedLanguage,
		ReadableAt:         raw.Attributes.ReadableAt,
		Pages:              raw.Attributes.Pages,
	}

	if rel, ok := raw.related(relManga); ok {
		chapter.MangaID = rel.ID
	}
	if rel, ok := raw.related(relGroup); ok {
		chapter.GroupID = rel.ID
		if len(rel.Attributes) > 0 {
			var group groupAttributes
			if json.Unmarshal(rel.Attributes, &group) == nil {
				chapter.GroupName = group.Name
			}
		}
	}
	return chapter
}
