// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/core/source"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/mangadex"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/apperr"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/validate"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/storage"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/pkg/pointer"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/pkg/slice"
)

const (
	FieldMangaID       = "manga_id"
	FieldChapterNumber = "chapter_number"
	FieldChapterTitle  = "chapter_title"
	FieldLanguage      = "translatedLanguage"
	FieldPages         = "pages"
	FieldIDs           = "ids"

	maxTitleLength = 255
)

// # Collaborators

// RemoteSource is the subset of the content API client used for chapter reads.
type RemoteSource interface {
	GetChapterList(ctx context.Context, limit, offset int, order string) ([]mangadex.Chapter, error)
	GetChapterByID(ctx context.Context, id string) (*mangadex.Chapter, error)
	GetChaptersBatch(ctx context.Context, ids []string, batchSize int) ([]*mangadex.Chapter, error)
}

// # Envelope Shapes

type (
	ListEnvelope   = source.Envelope[[]*Chapter, []mangadex.Chapter]
	DetailEnvelope = source.Envelope[*Chapter, *mangadex.Chapter]
	BatchEnvelope  = source.Envelope[[]*Chapter, []*mangadex.Chapter]
)

// # Service Layer

// Service orchestrates chapter reads across both sources and local writes.
type Service struct {
	chapterRepo Repository
	remote      RemoteSource
	uploader    storage.Uploader
	batchSize   int
	logger      *slog.Logger
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(chapterRepo Repository, remote RemoteSource, uploader storage.Uploader, batchSize int, logger *slog.Logger) *Service {
	if batchSize < 1 {
		batchSize = source.DefaultBatchSize
	}
	return &Service{
		chapterRepo: chapterRepo,
		remote:      remote,
		uploader:    uploader,
		batchSize:   batchSize,
		logger:      logger,
	}
}

// # Dual-Source Reads

/*
ListChapters lists recent chapters from the selected sources.

Parameters:
  - ctx: context.Context
  - selector: source.Selector
  - limit: int
  - offset: int
  - order: Order

Returns:
  - ListEnvelope: dbResult uses column names, apiResult upstream names
  - error: Failure of any branch that ran
*/
func (service *Service) ListChapters(ctx context.Context, selector source.Selector, limit, offset int, order Order) (ListEnvelope, error) {
	return source.Fetch(ctx, selector,
		func(ctx context.Context) ([]*Chapter, error) {
			return service.chapterRepo.ListRecent(ctx, limit, offset, order)
		},
		func(ctx context.Context) ([]mangadex.Chapter, error) {
			return service.remote.GetChapterList(ctx, limit, offset, string(order))
		},
	)
}

/*
GetChapter retrieves one chapter by id from the selected sources.

Description: A non-numeric id cannot exist locally and a non-UUID id cannot
exist upstream; both are treated as absent. With both sources selected an
absent branch is null, and the request is a 404 only when neither source has
the chapter. Upstream rate limits and faults still fail the request.

Parameters:
  - ctx: context.Context
  - selector: source.Selector
  - id: string (local integer or remote UUID)

Returns:
  - DetailEnvelope: Branch results
  - error: NOT_FOUND, upstream errors or storage failures
*/
func (service *Service) GetChapter(ctx context.Context, selector source.Selector, id string) (DetailEnvelope, error) {
	envelope, err := source.Fetch(ctx, selector,
		func(ctx context.Context) (*Chapter, error) {
			return service.findLocal(ctx, id)
		},
		func(ctx context.Context) (*mangadex.Chapter, error) {
			chapter, err := service.remote.GetChapterByID(ctx, id)
			if selector == source.Both && apperr.HasCode(err, "UPSTREAM_NOT_FOUND") {
				return nil, nil
			}
			return chapter, err
		},
	)
	if err != nil {
		return DetailEnvelope{}, err
	}

	localMissing := envelope.DBResult == nil || *envelope.DBResult == nil
	remoteMissing := envelope.APIResult == nil || *envelope.APIResult == nil
	if localMissing && remoteMissing {
		return DetailEnvelope{}, apperr.NotFound("Chapter")
	}
	return envelope, nil
}

/*
GetChaptersBatch fetches many chapters by id.

Description: The local branch issues one IN-list query per chunk of numeric
ids. The remote branch issues one limiter-scheduled call per id and drops
the ids that fail.
*/
func (service *Service) GetChaptersBatch(ctx context.Context, selector source.Selector, ids []string) (BatchEnvelope, error) {
	return source.Fetch(ctx, selector,
		func(ctx context.Context) ([]*Chapter, error) {
			return source.FetchChunks(ctx, localIDs(ids), service.batchSize, service.chapterRepo.FindByIDs)
		},
		func(ctx context.Context) ([]*mangadex.Chapter, error) {
			return service.remote.GetChaptersBatch(ctx, ids, service.batchSize)
		},
	)
}

// # Uploads

// UploadInput carries a validated multipart chapter upload.
type UploadInput struct {
	MangaID            string
	ChapterNumber      string
	Title              string
	TranslatedLanguage string
	UploaderID         string
	Pages              []storage.Object
}

/*
UploadChapter stores page images and creates the chapter with its pages.

Description: Rejects a duplicate (manga, chapter number, uploader) with 409
before touching storage. Images are stored first, then the chapter and pages
are inserted in one transaction. If the insert fails the stored images are
removed again.

Parameters:
  - context: context.Context
  - input: UploadInput

Returns:
  - *Created: chapter_id and pages_uploaded
  - error: VALIDATION_ERROR, CONFLICT, UNPROCESSABLE or storage failures
*/
func (service *Service) UploadChapter(context context.Context, input UploadInput) (*Created, error) {
	input.ChapterNumber = strings.TrimSpace(input.ChapterNumber)
	input.Title = strings.TrimSpace(input.Title)
	if input.TranslatedLanguage == "" {
		input.TranslatedLanguage = "en"
	}

	validator := &validate.Validator{}
	validator.Required(FieldMangaID, input.MangaID)
	validator.ChapterNumber(FieldChapterNumber, input.ChapterNumber)
	validator.MaxLen(FieldChapterTitle, input.Title, maxTitleLength)
	validator.Language(FieldLanguage, input.TranslatedLanguage)
	validator.Custom(FieldPages, len(input.Pages) == 0, "At least one page is required")

	mangaID, parseErr := strconv.ParseInt(input.MangaID, 10, 64)
	validator.Custom(FieldMangaID, input.MangaID != "" && (parseErr != nil || mangaID < 1), "Must be a positive integer")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	exists, err := service.chapterRepo.Exists(context, mangaID, input.ChapterNumber, input.UploaderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("This chapter has already been uploaded")
	}

	urls, err := service.storePages(context, input.Pages)
	if err != nil {
		return nil, err
	}

	chapter := &Chapter{
		MangaID:            mangaID,
		ChapterNumber:      input.ChapterNumber,
		UploaderID:         input.UploaderID,
		TranslatedLanguage: input.TranslatedLanguage,
	}
	if input.Title != "" {
		chapter.Title = pointer.To(input.Title)
	}

	if err := service.chapterRepo.CreateWithPages(context, chapter, urls); err != nil {
		service.discard(context, urls)
		return nil, err
	}

	service.logger.Info("chapter_created",
		slog.Int64("chapter_id", chapter.ID),
		slog.Int64("manga_id", chapter.MangaID),
		slog.String("chapter_number", chapter.ChapterNumber),
		slog.Int("pages", len(urls)),
	)

	return &Created{ChapterID: chapter.ID, PagesUploaded: len(urls)}, nil
}

/*
AppendPages adds pages to an existing local chapter.

Returns:
  - *Appended: first new page number and count
  - error: NOT_FOUND when the chapter does not exist
*/
func (service *Service) AppendPages(context context.Context, id string, pages []storage.Object) (*Appended, error) {
	chapterID, ok := parseLocalID(id)
	if !ok {
		return nil, apperr.NotFound("Chapter")
	}
	if len(pages) == 0 {
		return nil, apperr.ValidationError("At least one page is required",
			apperr.FieldError{Field: FieldPages, Message: "is required"},
		)
	}

	urls, err := service.storePages(context, pages)
	if err != nil {
		return nil, err
	}

	inserted, err := service.chapterRepo.AppendPages(context, chapterID, urls)
	if err != nil {
		service.discard(context, urls)
		return nil, err
	}
	if inserted == nil {
		service.discard(context, urls)
		return nil, apperr.NotFound("Chapter")
	}

	service.logger.Info("chapter_pages_appended",
		slog.Int64("chapter_id", chapterID),
		slog.Int("first_page", inserted[0].PageNumber),
		slog.Int("pages", len(inserted)),
	)

	return &Appended{ChapterID: chapterID, FirstPage: inserted[0].PageNumber, PagesUploaded: len(inserted)}, nil
}

/*
DeleteChapter removes a local chapter, its pages, and their stored images.

Returns:
  - error: NOT_FOUND when the chapter does not exist
*/
func (service *Service) DeleteChapter(context context.Context, id string) error {
	chapterID, ok := parseLocalID(id)
	if !ok {
		return apperr.NotFound("Chapter")
	}

	pages, err := service.chapterRepo.ListPages(context, chapterID)
	if err != nil {
		return err
	}

	deleted, err := service.chapterRepo.Delete(context, chapterID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("Chapter")
	}

	service.discard(context, slice.Map(pages, func(page *Page) string { return page.ImageURL }))

	service.logger.Info("chapter_deleted", slog.Int64("chapter_id", chapterID), slog.Int("pages", len(pages)))
	return nil
}

// # Internal Helpers

func (service *Service) findLocal(context context.Context, id string) (*Chapter, error) {
	chapterID, ok := parseLocalID(id)
	if !ok {
		return nil, nil
	}
	return service.chapterRepo.FindByID(context, chapterID)
}

// storePages saves every page in order; on failure the ones already saved are removed.
func (service *Service) storePages(context context.Context, pages []storage.Object) ([]string, error) {
	urls := make([]string, 0, len(pages))
	for i, page := range pages {
		url, err := service.uploader.Save(context, page)
		if err != nil {
			service.discard(context, urls)
			if errors.Is(err, storage.ErrUnsupportedType) {
				return nil, apperr.ValidationError("Unsupported page image",
					apperr.FieldError{Field: FieldPages, Message: "page " + strconv.Itoa(i+1) + " is not a jpg, png, webp or gif image"},
				)
			}
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// discard removes stored images; failures are logged and otherwise ignored.
func (service *Service) discard(context context.Context, urls []string) {
	for _, url := range urls {
		if err := service.uploader.Remove(context, url); err != nil {
			service.logger.Warn("page_image_cleanup_failed", slog.String("url", url), slog.Any("error", err))
		}
	}
}

// parseLocalID accepts positive integer ids only.
func parseLocalID(id string) (int64, bool) {
	value, err := strconv.ParseInt(id, 10, 64)
	if err != nil || value < 1 {
		return 0, false
	}
	return value, true
}

// localIDs keeps the ids that can exist in the local store, preserving order.
func localIDs(ids []string) []int64 {
	parsed := make([]int64, 0, len(ids))
	for _, id := range ids {
		if value, ok := parseLocalID(id); ok {
			parsed = append(parsed, value)
		}
	}
	return parsed
}
