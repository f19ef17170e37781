// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mangadex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/apperr"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/pkg/uuid"
)

// # Manga Operations

/*
SearchManga searches upstream manga by title and resolves each cover.

Parameters:
  - ctx: context.Context
  - title: string
  - limit: int (clamped to 1..100)

Returns:
  - []Manga: Results in upstream relevance order, InLibrary left false
  - error: Upstream failures
*/
func (client *Client) SearchManga(ctx context.Context, title string, limit int) ([]Manga, error) {
	query := url.Values{}
	query.Set("title", title)
	query.Set("limit", strconv.Itoa(clampLimit(limit)))

	var response collectionResponse[mangaAttributes]
	if err := client.getJSON(ctx, "Manga", "/manga", query, &response); err != nil {
		return nil, err
	}

	results := make([]Manga, len(response.Data))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, raw := range response.Data {
		results[i] = Manga{
			ID:               raw.ID,
			Title:            preferredTitle(raw.Attributes.Title),
			Status:           raw.Attributes.Status,
			OriginalLanguage: raw.Attributes.OriginalLanguage,
		}
		if raw.Attributes.Year != nil {
			results[i].Year = *raw.Attributes.Year
		}

		rel, ok := raw.related(relCover)
		if !ok {
			continue
		}
		group.Go(func() error {
			cover, err := client.resolveCover(groupCtx, raw.ID, rel.ID)
			if err != nil {
				return err
			}
			results[i].CoverURL = cover
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

/*
GetVolumeAggregate returns the volume/chapter index of one manga.

Volumes and the chapters inside them are sorted numerically; the "none"
bucket and other non-numeric labels come after every numbered entry.
*/
func (client *Client) GetVolumeAggregate(ctx context.Context, mangaID string, languages []string) ([]Volume, error) {
	if !uuid.Valid(mangaID) {
		return nil, apperr.UpstreamNotFound("Manga", ErrNotFound)
	}

	query := url.Values{}
	for _, language := range languages {
		query.Add("translatedLanguage[]", language)
	}

	var response aggregateResponse
	if err := client.getJSON(ctx, "Manga", "/manga/"+url.PathEscape(mangaID)+"/aggregate", query, &response); err != nil {
		return nil, err
	}

	volumes, err := flattenAggregate(response.Volumes)
	if err != nil {
		return nil, apperr.Upstream(err)
	}
	return volumes, nil
}

// # Aggregate Flattening

func flattenAggregate(raw json.RawMessage) ([]Volume, error) {
	rawVolumes, err := decodeKeyed[aggregateVolume](raw)
	if err != nil {
		return nil, fmt.Errorf("mangadex: aggregate volumes: %w", err)
	}

	volumes := make([]Volume, 0, len(rawVolumes))
	for _, rawVolume := range rawVolumes {
		rawChapters, err := decodeKeyed[aggregateChapter](rawVolume.Chapters)
		if err != nil {
			return nil, fmt.Errorf("mangadex: aggregate volume %s: %w", rawVolume.Volume, err)
		}

		chapters := make([]VolumeChapter, 0, len(rawChapters))
		for _, rawChapter := range rawChapters {
			others := rawChapter.Others
			if others == nil {
				others = []string{}
			}
			chapters = append(chapters, VolumeChapter{ChapterNumber: rawChapter.Chapter, ID: rawChapter.ID, Others: others})
		}
		sort.SliceStable(chapters, func(a, b int) bool {
			return labelLess(chapters[a].ChapterNumber, chapters[b].ChapterNumber)
		})

		volumes = append(volumes, Volume{Volume: rawVolume.Volume, Count: rawVolume.Count, Chapters: chapters})
	}

	sort.SliceStable(volumes, func(a, b int) bool {
		return labelLess(volumes[a].Volume, volumes[b].Volume)
	})
	return volumes, nil
}

// decodeKeyed reads either a JSON object of T keyed by label or a JSON array of T.
func decodeKeyed[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var items []T
		err := json.Unmarshal(trimmed, &items)
		return items, err
	}

	var keyed map[string]T
	if err := json.Unmarshal(trimmed, &keyed); err != nil {
		return nil, err
	}
	items := make([]T, 0, len(keyed))
	for _, item := range keyed {
		items = append(items, item)
	}
	return items, nil
}

// labelLess orders numeric labels numerically, then other labels, with "none" last.
func labelLess(a, b string) bool {
	aNum, aErr := strconv.ParseFloat(a, 64)
	bNum, bErr := strconv.ParseFloat(b, 64)

	switch {
	case aErr == nil && bErr == nil:
		return aNum < bNum
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	case a == noVolume:
		return false
	case b == noVolume:
		return true
	}
	return a < b
}
