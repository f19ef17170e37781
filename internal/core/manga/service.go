// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/core/source"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/mangadex"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/apperr"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/validate"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/pkg/slug"
)

const maxTitleLength = 200

// RemoteSource is the subset of the content API client used for manga.
type RemoteSource interface {
	SearchManga(ctx context.Context, title string, limit int) ([]mangadex.Manga, error)
	GetVolumeAggregate(ctx context.Context, mangaID string, languages []string) ([]mangadex.Volume, error)
}

// SearchEnvelope holds local rows as dbResult and content API results as apiResult.
type SearchEnvelope = source.Envelope[[]*Manga, []mangadex.Manga]

// # Service Layer

// Service searches manga across both sources and serves local manga details.
type Service struct {
	repo   Repository
	remote RemoteSource
	logger *slog.Logger
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(repo Repository, remote RemoteSource, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		remote: remote,
		logger: logger,
	}
}

/*
Search looks a title up in the selected sources.

Description: With both sources selected, content API results whose
normalised title equals a local result's are flagged inLibrary.
*/
func (service *Service) Search(ctx context.Context, selector source.Selector, title string, limit int) (SearchEnvelope, error) {
	title = strings.TrimSpace(title)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, title).MaxLen(FieldTitle, title, maxTitleLength)
	if err := validator.Err(); err != nil {
		return SearchEnvelope{}, err
	}

	envelope, err := source.Fetch(ctx, selector,
		func(ctx context.Context) ([]*Manga, error) {
			return service.repo.Search(ctx, title, limit)
		},
		func(ctx context.Context) ([]mangadex.Manga, error) {
			return service.remote.SearchManga(ctx, title, limit)
		},
	)
	if err != nil {
		return SearchEnvelope{}, err
	}

	if envelope.DBResult != nil && envelope.APIResult != nil {
		matched := markInLibrary(*envelope.DBResult, *envelope.APIResult)
		service.logger.Debug("manga_search_matched",
			slog.String("title", title),
			slog.Int("local", len(*envelope.DBResult)),
			slog.Int("remote", len(*envelope.APIResult)),
			slog.Int("in_library", matched),
		)
	}
	return envelope, nil
}

/*
GetManga returns one local manga.

Description: Ids that are not positive integers cannot exist locally and are
reported as NOT_FOUND without a query.
*/
func (service *Service) GetManga(context context.Context, id string) (*Manga, error) {
	mangaID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || mangaID < 1 {
		return nil, apperr.NotFound("Manga")
	}

	m, err := service.repo.FindByID(context, mangaID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.NotFound("Manga")
	}
	return m, nil
}

// GetVolumes returns the content API volume index, optionally limited to languages.
func (service *Service) GetVolumes(context context.Context, mangaID string, languages []string) ([]mangadex.Volume, error) {
	validator := &validate.Validator{}
	validator.UUID("id", mangaID)
	for _, language := range languages {
		validator.Language(FieldLanguage, language)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.remote.GetVolumeAggregate(context, mangaID, languages)
}

// markInLibrary sets InLibrary on remote results that share a slug with a local title.
func markInLibrary(local []*Manga, remote []mangadex.Manga) int {
	titles := make(map[string]struct{}, len(local))
	for _, m := range local {
		if key := slug.From(m.Title); key != "" {
			titles[key] = struct{}{}
		}
	}

	matched := 0
	for i := range remote {
		if _, ok := titles[slug.From(remote[i].Title)]; ok {
			remote[i].InLibrary = true
			matched++
		}
	}
	return matched
}
