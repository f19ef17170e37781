// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mangadex

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/core/source"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/apperr"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/pkg/uuid"
)

// maxFeedPages caps how many pages of a manga's chapter feed are walked.
const maxFeedPages = 10

// # Chapter Operations

/*
GetChapterList lists recent chapters ordered by readable timestamp.

Description: Each chapter is enriched with its manga title, cover URL and
scanlation group name. Enrichment issues one call per relationship; the fan-out
is bounded by the limiter only.

Parameters:
  - ctx: context.Context
  - limit: int (clamped to 1..100)
  - offset: int
  - order: string ("asc" or anything else for "desc")

Returns:
  - []Chapter: Enriched chapters in upstream order
  - error: Any upstream failure fails the whole list
*/
func (client *Client) GetChapterList(ctx context.Context, limit, offset int, order string) ([]Chapter, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(clampLimit(limit)))
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}
	query.Set("order[readableAt]", normalizeOrder(order))

	var response collectionResponse[chapterAttributes]
	if err := client.getJSON(ctx, "Chapter", "/chapter", query, &response); err != nil {
		return nil, err
	}

	chapters := make([]Chapter, len(response.Data))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, raw := range response.Data {
		chapters[i] = toChapter(raw)
		group.Go(func() error {
			return client.enrich(groupCtx, &chapters[i])
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return chapters, nil
}

/*
GetChapterByID fetches one chapter with the same enrichment as [Client.GetChapterList].

Ids that are not UUIDs cannot exist upstream and are reported as not found
without spending an upstream call.
*/
func (client *Client) GetChapterByID(ctx context.Context, id string) (*Chapter, error) {
	if !uuid.Valid(id) {
		return nil, apperr.UpstreamNotFound("Chapter", ErrNotFound)
	}

	var response entityResponse[chapterAttributes]
	if err := client.getJSON(ctx, "Chapter", "/chapter/"+url.PathEscape(id), nil, &response); err != nil {
		return nil, err
	}

	chapter := toChapter(response.Data)
	if err := client.enrich(ctx, &chapter); err != nil {
		return nil, err
	}
	return &chapter, nil
}

/*
GetChaptersBatchOutcomes fetches every id and keeps a per-id outcome.

Ids are split into chunks of batchSize. Calls inside a chunk run concurrently;
the next chunk starts after the previous one has joined.
*/
func (client *Client) GetChaptersBatchOutcomes(ctx context.Context, ids []string, batchSize int) ([]source.Outcome[*Chapter], error) {
	outcomes, err := source.FetchBatch(ctx, ids, batchSize, client.GetChapterByID)
	if err != nil {
		return nil, err
	}

	summary := source.Summarize(outcomes)
	if len(ids) != summary[source.StatusOK] {
		client.logger.WarnContext(ctx, "batch_partial_failure",
			slog.Int("requested", len(ids)),
			slog.Int("ok", summary[source.StatusOK]),
			slog.Int("not_found", summary[source.StatusNotFound]),
			slog.Int("rate_limited", summary[source.StatusRateLimited]),
			slog.Int("failed", summary[source.StatusFailed]),
		)
	}
	return outcomes, nil
}

// GetChaptersBatch returns only the chapters that were fetched successfully.
func (client *Client) GetChaptersBatch(ctx context.Context, ids []string, batchSize int) ([]*Chapter, error) {
	outcomes, err := client.GetChaptersBatchOutcomes(ctx, ids, batchSize)
	if err != nil {
		return nil, err
	}
	return source.Present(outcomes), nil
}

/*
ListMangaChapters walks the chapter feed of one manga for navigation.

Scanlation group names come from the includes expansion, so no extra
relationship calls are made. An empty language lists every translation.
*/
func (client *Client) ListMangaChapters(ctx context.Context, mangaID, language string) ([]Chapter, error) {
	if !uuid.Valid(mangaID) {
		return nil, apperr.UpstreamNotFound("Manga", ErrNotFound)
	}

	chapters := make([]Chapter, 0, maxUpstreamCap)
	for page := range maxFeedPages {
		query := url.Values{}
		query.Set("manga", mangaID)
		query.Set("limit", strconv.Itoa(maxUpstreamCap))
		query.Set("offset", strconv.Itoa(page*maxUpstreamCap))
		query.Add("includes[]", relGroup)
		query.Set("order[chapter]", "asc")
		if language != "" {
			query.Add("translatedLanguage[]", language)
		}

		var response collectionResponse[chapterAttributes]
		if err := client.getJSON(ctx, "Chapter", "/chapter", query, &response); err != nil {
			return nil, err
		}

		for _, raw := range response.Data {
			chapters = append(chapters, toChapter(raw))
		}
		if len(response.Data) == 0 || response.Offset+len(response.Data) >= response.Total {
			break
		}
	}

	return chapters, nil
}

// enrich fills the manga and group fields of chapter concurrently.
func (client *Client) enrich(ctx context.Context, chapter *Chapter) error {
	group, groupCtx := errgroup.WithContext(ctx)

	if chapter.MangaID != "" {
		group.Go(func() error {
			ref, err := client.resolveManga(groupCtx, chapter.MangaID)
			if err != nil {
				return err
			}
			chapter.MangaTitle = ref.Title
			chapter.CoverURL = ref.CoverURL
			return nil
		})
	}

	if chapter.GroupID != "" && chapter.GroupName == "" {
		group.Go(func() error {
			name, err := client.resolveGroup(groupCtx, chapter.GroupID)
			if err != nil {
				return err
			}
			chapter.GroupName = name
			return nil
		})
	}

	return group.Wait()
}

func clampLimit(limit int) int {
	switch {
	case limit < 1:
		return 20
	case limit > maxUpstreamCap:
		return maxUpstreamCap
	}
	return limit
}

func normalizeOrder(order string) string {
	if order == "asc" {
		return "asc"
	}
	return "desc"
}
