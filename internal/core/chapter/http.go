// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/core/source"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/apperr"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/middleware"
	requestutil "github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/request"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/respond"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/validate"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/storage"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/pkg/pagination"
)

const (
	// multipartMemory is the part of a multipart body kept in memory before spilling to disk.
	multipartMemory = 32 << 20

	formPages      = "pages[]"
	formPagesPlain = "pages"
)

// # Handler Implementation

// Handler implements the HTTP layer for chapter reads and uploads.
type Handler struct {
	service        *Service
	maxUploadBytes int64
}

// NewHandler constructs a new chapter [Handler].
func NewHandler(service *Service, maxUploadBytes int64) *Handler {
	return &Handler{service: service, maxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches chapter endpoints to the versioned API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	// Dual-source reads
	api.Get("/chapters", handler.ListChapters)
	api.Get("/chapters/{id}", handler.GetChapter)
	api.Post("/chapters/batch", handler.BatchChapters)

	// Uploader endpoints (Require authentication)
	api.Group(func(uploader chi.Router) {
		uploader.Use(middleware.RequireUploader)
		uploader.Post("/chapters", handler.UploadChapter)
		uploader.Post("/chapters/{id}/pages", handler.AppendPages)
		uploader.Delete("/chapters/{id}", handler.DeleteChapter)
	})
}

// # Chapter Retrieval

/*
GET /api/v1/chapters.

Description: Lists recent chapters from the database, the content API, or both.

Request:
  - limit: int (default 20, max 100)
  - page: int (1-indexed)
  - order: string (asc, desc)
  - source: string (db, api, or omitted for both)

Response:
  - 200: {dbResult, apiResult}
  - 400: VALIDATION_ERROR: Unknown source
  - 429: UPSTREAM_RATE_LIMITED
*/
func (handler *Handler) ListChapters(writer http.ResponseWriter, request *http.Request) {
	selector, err := source.ParseSelector(requestutil.Query(request, "source"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	order := ParseOrder(requestutil.Query(request, "order"))

	envelope, err := handler.service.ListChapters(request.Context(), selector, params.Limit, params.Offset(), order)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, envelope)
}

/*
GET /api/v1/chapters/{id}.

Request:
  - id: string (local integer id or content API UUID)
  - source: string (db, api, or omitted for both)

Response:
  - 200: {dbResult, apiResult}
  - 404: NOT_FOUND / UPSTREAM_NOT_FOUND
*/
func (handler *Handler) GetChapter(writer http.ResponseWriter, request *http.Request) {
	selector, err := source.ParseSelector(requestutil.Query(request, "source"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	envelope, err := handler.service.GetChapter(request.Context(), selector, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, envelope)
}

// batchRequest keeps ids raw so a non-array value can be rejected explicitly.
type batchRequest struct {
	IDs json.RawMessage `json:"ids"`
}

/*
POST /api/v1/chapters/batch.

Description: Fetches many chapters at once. Ids that fail upstream are omitted.

Request:
  - body: {"ids": [string | number, ...]}
  - source: string (db, api, or omitted for both)

Response:
  - 200: {dbResult, apiResult}
  - 400: VALIDATION_ERROR: ids is not an array
*/
func (handler *Handler) BatchChapters(writer http.ResponseWriter, request *http.Request) {
	selector, err := source.ParseSelector(requestutil.Query(request, "source"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input batchRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ids, err := parseBatchIDs(input.IDs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	envelope, err := handler.service.GetChaptersBatch(request.Context(), selector, ids)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, envelope)
}

// # Uploads

/*
POST /api/v1/chapters.

Description: Uploads a new chapter with its page images.

Request (multipart/form-data):
  - manga_id: integer
  - chapter_number: string (numeric or empty for a oneshot)
  - chapter_title: string
  - translatedLanguage: string (default "en")
  - pages[]: files (page order)

Response:
  - 201: {chapter_id, pages_uploaded}
  - 400: VALIDATION_ERROR
  - 401: UNAUTHORIZED
  - 409: CONFLICT: Same manga, number and uploader
  - 422: UNPROCESSABLE: Unknown manga
*/
func (handler *Handler) UploadChapter(writer http.ResponseWriter, request *http.Request) {
	uploaderID, err := requestutil.UploaderID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	form, err := handler.parseMultipart(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.UploadChapter(request.Context(), UploadInput{
		MangaID:            form.Value(FieldMangaID),
		ChapterNumber:      form.Value(FieldChapterNumber),
		Title:              form.Value(FieldChapterTitle),
		TranslatedLanguage: form.Value(FieldLanguage),
		UploaderID:         uploaderID,
		Pages:              form.Pages(),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
POST /api/v1/chapters/{id}/pages.

Description: Appends page images after the current last page.

Response:
  - 201: {chapter_id, first_page, pages_uploaded}
  - 404: NOT_FOUND
*/
func (handler *Handler) AppendPages(writer http.ResponseWriter, request *http.Request) {
	form, err := handler.parseMultipart(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	appended, err := handler.service.AppendPages(request.Context(), requestutil.ID(request, "id"), form.Pages())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, appended)
}

/*
DELETE /api/v1/chapters/{id}.

Response:
  - 200: {message}
  - 404: NOT_FOUND
*/
func (handler *Handler) DeleteChapter(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteChapter(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"message": "Chapter deleted"})
}

// # Request Parsing

// uploadForm wraps a parsed multipart form.
type uploadForm struct {
	form *multipart.Form
}

func (form uploadForm) Value(field string) string {
	if values := form.form.Value[field]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// Pages returns the uploaded files in form order.
func (form uploadForm) Pages() []storage.Object {
	headers := slices.Concat(form.form.File[formPages], form.form.File[formPagesPlain])

	objects := make([]storage.Object, 0, len(headers))
	for _, header := range headers {
		objects = append(objects, storage.Object{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Open:        func() (io.ReadCloser, error) { return header.Open() },
		})
	}
	return objects
}

func (handler *Handler) parseMultipart(writer http.ResponseWriter, request *http.Request) (uploadForm, error) {
	request.Body = http.MaxBytesReader(writer, request.Body, handler.maxUploadBytes)

	if err := request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return uploadForm{}, apperr.ValidationError("Upload exceeds the size limit",
				apperr.FieldError{Field: FieldPages, Message: "must not exceed " + strconv.FormatInt(tooLarge.Limit, 10) + " bytes"},
			)
		}
		return uploadForm{}, apperr.ValidationError("Expected a multipart/form-data body")
	}

	return uploadForm{form: request.MultipartForm}, nil
}

// parseBatchIDs accepts a JSON array of strings or numbers.
func parseBatchIDs(raw json.RawMessage) ([]string, error) {
	var items []any
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil || items == nil {
		return nil, validate.RequiredError(FieldIDs, "ids must be an array")
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		switch value := item.(type) {
		case string:
			ids = append(ids, value)
		case float64:
			ids = append(ids, strconv.FormatFloat(value, 'f', -1, 64))
		default:
			return nil, validate.RequiredError(FieldIDs, "ids must contain strings or numbers")
		}
	}
	return ids, nil
}
