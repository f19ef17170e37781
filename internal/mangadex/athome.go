// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mangadex

import (
	"context"
	"net/url"
	"strings"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/apperr"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/pkg/uuid"
)

/*
GetReaderPages builds the ordered page image URLs for one chapter.

Description: Fetches the at-home delivery descriptor and joins
baseUrl/{quality}/{hash}/{filename} for every file. The descriptor's file
order is the page order and is kept as is.

Parameters:
  - ctx: context.Context
  - chapterID: string (UUID)
  - quality: Quality (QualityData or QualityDataSaver)

Returns:
  - []string: Page URLs, empty when the descriptor lists no files
  - error: UPSTREAM_NOT_FOUND, UPSTREAM_RATE_LIMITED or UPSTREAM_ERROR
*/
func (client *Client) GetReaderPages(ctx context.Context, chapterID string, quality Quality) ([]string, error) {
	if !uuid.Valid(chapterID) {
		return nil, apperr.UpstreamNotFound("Chapter", ErrNotFound)
	}

	query := url.Values{}
	query.Set("forcePort443", "true")

	var descriptor atHomeResponse
	if err := client.getJSON(ctx, "Chapter", "/at-home/server/"+url.PathEscape(chapterID), query, &descriptor); err != nil {
		return nil, err
	}

	return descriptor.pageURLs(quality), nil
}

func (descriptor atHomeResponse) pageURLs(quality Quality) []string {
	files := descriptor.Chapter.Data
	if quality == QualityDataSaver {
		files = descriptor.Chapter.DataSaver
	} else {
		quality = QualityData
	}

	base := strings.TrimRight(descriptor.BaseURL, "/")
	urls := make([]string, 0, len(files))
	for _, file := range files {
		urls = append(urls, base+"/"+string(quality)+"/"+descriptor.Chapter.Hash+"/"+file)
	}
	return urls
}
